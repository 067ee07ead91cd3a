package engine

import (
	"regexp"

	"github.com/codesentinel/codesentinel/internal/classify"
	"github.com/codesentinel/codesentinel/internal/log"
	"github.com/codesentinel/codesentinel/internal/types"
)

// providerSpecificRules are the secrets-pack rules whose match is already
// provider-attributed; they outrank everything else at the same location.
var providerSpecificRules = map[string]bool{
	"SECRET_AWS_ACCESS_KEY":      true,
	"SECRET_AWS_SECRET_KEY":      true,
	"SECRET_GCP_SERVICE_ACCOUNT": true,
	"SECRET_AZURE_CLIENT_SECRET": true,
	"SECRET_STRIPE_API_KEY":      true,
	"SECRET_JWT":                 true,
	"SECRET_PRIVATE_KEY":         true,
	"SECRET_SLACK_TOKEN":         true,
}

// legacyConfigRules predate explicit precedence fields and keep their old band.
var legacyConfigRules = map[string]bool{
	"insecure-bind":        true,
	"debug-enabled":        true,
	"weak-crypto":          true,
	"exposed-env-vars":     true,
	"insecure-literals":    true,
	"development-settings": true,
	"tls-issues":           true,
	"hardcoded-database":   true,
}

// ResolvePrecedence returns a finding's deduplication priority. An explicit
// precedence set by the rule author always wins; findings without one fall
// back to rule-id bands, after classifying whatever token the excerpt holds
// so collisions can be diagnosed from debug logs.
func ResolvePrecedence(f types.Finding) int {
	if f.Precedence != 0 {
		return f.Precedence
	}

	if token := extractToken(f.Excerpt); token != "" {
		if tt, ok := classify.Token(token); ok {
			log.Debugf("engine: excerpt token for %s at %s:%d classifies as %s", f.RuleID, f.Path, f.Line, tt)
		}
	}

	switch {
	case providerSpecificRules[f.RuleID]:
		return 100
	case f.RuleID == "SECRET_OAUTH_TOKEN" || f.RuleID == "SECRET_HARDCODED_PASSWORD":
		return 90
	case f.RuleID == "SECRET_GENERIC_API_KEY" || f.RuleID == "hardcoded-api-key":
		return 80
	case f.RuleID == "SECRET_HIGH_ENTROPY":
		return 70
	case legacyConfigRules[f.RuleID]:
		return 60
	}
	return 50
}

var tokenExtractors = []*regexp.Regexp{
	regexp.MustCompile(`['"]([A-Za-z0-9+/=\-_.]{16,})['"]`),
	regexp.MustCompile(`=\s*([A-Za-z0-9+/=\-_.]{16,})`),
	regexp.MustCompile(`:\s*['"]([A-Za-z0-9+/=\-_.]{16,})['"]`),
}

var reLongToken = regexp.MustCompile(`\b[A-Za-z0-9+/=\-_.]{16,}\b`)

// extractToken pulls a classification candidate out of an excerpt: quoted
// values first, then unquoted assignments, then YAML-style values, then any
// long token-shaped run.
func extractToken(excerpt string) string {
	if excerpt == "" {
		return ""
	}
	for _, re := range tokenExtractors {
		if m := re.FindStringSubmatch(excerpt); m != nil {
			return m[1]
		}
	}
	return reLongToken.FindString(excerpt)
}
