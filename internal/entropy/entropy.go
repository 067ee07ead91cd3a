// Package entropy provides the statistical heuristics used to decide whether
// a string looks like cryptographic material rather than prose or structure.
package entropy

import (
	"math"
	"regexp"
	"strings"
)

// Shannon returns the character-frequency Shannon entropy of s in bits per
// character. The empty string has entropy 0.
func Shannon(s string) float64 {
	if s == "" {
		return 0
	}
	freq := map[rune]int{}
	total := 0
	for _, r := range s {
		freq[r]++
		total++
	}
	h := 0.0
	n := float64(total)
	for _, c := range freq {
		p := float64(c) / n
		h -= p * math.Log2(p)
	}
	return h
}

// IsHigh reports whether s's entropy exceeds the threshold.
func IsHigh(s string, threshold float64) bool {
	return Shannon(s) > threshold
}

var reUUID = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

var placeholderWords = []string{
	"test", "example", "demo", "sample", "placeholder",
	"changeme", "password", "secret", "key", "token",
}

// IsLikelySecret is a rejection filter, not a classifier: it weeds out UUIDs,
// padding-heavy base64, placeholders, and low-diversity strings before the
// entropy threshold is applied.
func IsLikelySecret(s string, minLength int, threshold float64) bool {
	if len(s) < minLength {
		return false
	}
	if isCommonPattern(s) {
		return false
	}
	if !hasSufficientDiversity(s) {
		return false
	}
	return IsHigh(s, threshold)
}

func isCommonPattern(s string) bool {
	if reUUID.MatchString(s) {
		return true
	}
	// Base64 padding-heavy strings carry structure, not secrets.
	if (strings.HasSuffix(s, "==") || strings.HasSuffix(s, "=")) && len(s)%4 == 0 {
		if float64(strings.Count(s, "=")) > float64(len(s))*0.3 {
			return true
		}
	}
	if distinctChars(s) < 8 || allDigits(s) || allAlpha(s) || allSame(s) {
		return true
	}
	lower := strings.ToLower(s)
	for _, w := range placeholderWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return isSequential(s)
}

func hasSufficientDiversity(s string) bool {
	if len(s) < 10 {
		return true
	}
	return float64(distinctChars(s))/float64(len(s)) >= 0.4
}

// isSequential detects strictly ascending runs like "123456" or "abcdef".
func isSequential(s string) bool {
	if allDigits(s) {
		for i := 0; i+1 < len(s); i++ {
			if int(s[i+1])-int(s[i]) != 1 && int(s[i])-int(s[i+1]) != 1 {
				return false
			}
		}
		return true
	}
	if allAlpha(s) {
		lower := strings.ToLower(s)
		for i := 0; i+1 < len(lower); i++ {
			if int(lower[i+1])-int(lower[i]) != 1 {
				return false
			}
		}
		return true
	}
	return false
}

// Score returns a normalized [0,1] confidence that s is a secret:
// 0.7 * (entropy / log2(distinct chars)) + 0.3 * min(1, len/64).
// Strings shorter than 10 chars or with a single distinct character score 0.
func Score(s string) float64 {
	if len(s) < 10 {
		return 0
	}
	distinct := distinctChars(s)
	if distinct <= 1 {
		return 0
	}
	maxEntropy := math.Log2(float64(distinct))
	if maxEntropy == 0 {
		return 0
	}
	normalized := Shannon(s) / maxEntropy
	lengthFactor := math.Min(1, float64(len(s))/64)
	return math.Min(normalized*0.7+lengthFactor*0.3, 1)
}

func distinctChars(s string) int {
	set := map[rune]struct{}{}
	for _, r := range s {
		set[r] = struct{}{}
	}
	return len(set)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func allAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func allSame(s string) bool {
	if s == "" {
		return false
	}
	first := rune(s[0])
	for _, r := range s {
		if r != first {
			return false
		}
	}
	return true
}

// DistinctChars is exported for callers that gate on character diversity.
func DistinctChars(s string) int { return distinctChars(s) }

// AllDigits reports whether s is non-empty and entirely ASCII digits.
func AllDigits(s string) bool { return allDigits(s) }

// AllAlpha reports whether s is non-empty and entirely ASCII letters.
func AllAlpha(s string) bool { return allAlpha(s) }

// AllSame reports whether s is non-empty and a single repeated character.
func AllSame(s string) bool { return allSame(s) }
