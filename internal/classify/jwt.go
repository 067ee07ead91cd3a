package classify

import (
	"encoding/base64"
	"encoding/json"
	"regexp"

	"github.com/codesentinel/codesentinel/internal/entropy"
)

var (
	reJWTCandidate = regexp.MustCompile(`eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*`)
	reBase64URL    = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

var jwsAlgorithms = map[string]bool{
	"HS256": true, "HS384": true, "HS512": true,
	"RS256": true, "RS384": true, "RS512": true,
	"ES256": true, "ES384": true, "ES512": true,
	"PS256": true, "PS384": true, "PS512": true,
	"none": true,
}

// isJWT performs structural validation: three base64url segments, a JSON
// header with a known alg and typ "JWT", a JSON object payload with sane
// claim types, and a signature with real entropy. Any failure falls through
// to later classification steps.
func isJWT(value string) bool {
	candidate := reJWTCandidate.FindString(value)
	if candidate == "" {
		return false
	}
	parts := splitDots(candidate)
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if !reBase64URL.MatchString(p) {
			return false
		}
	}
	if !validJWTHeader(parts[0]) {
		return false
	}
	if !validJWTPayload(parts[1]) {
		return false
	}
	sig := parts[2]
	return len(sig) >= 8 && entropy.IsHigh(sig, 3.5)
}

func splitDots(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func decodeSegment(seg string) ([]byte, bool) {
	b, err := base64.RawURLEncoding.DecodeString(seg)
	if err != nil {
		return nil, false
	}
	return b, true
}

func validJWTHeader(seg string) bool {
	raw, ok := decodeSegment(seg)
	if !ok {
		return false
	}
	var header map[string]any
	if err := json.Unmarshal(raw, &header); err != nil {
		return false
	}
	alg, ok := header["alg"].(string)
	if !ok || !jwsAlgorithms[alg] {
		return false
	}
	typ, ok := header["typ"].(string)
	return ok && typ == "JWT"
}

func validJWTPayload(seg string) bool {
	raw, ok := decodeSegment(seg)
	if !ok {
		return false
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return false
	}
	for _, claim := range []string{"iss", "sub"} {
		if v, present := payload[claim]; present {
			if _, isStr := v.(string); !isStr {
				return false
			}
		}
	}
	for _, claim := range []string{"exp", "iat"} {
		if v, present := payload[claim]; present {
			if _, isNum := v.(float64); !isNum {
				return false
			}
		}
	}
	return true
}
