// Package configs is the configuration rule pack: hardcoded API keys and
// database credentials in config-style assignments. These rules carry
// explicit precedence values so the deduplicator can rank them against the
// secrets pack.
package configs

import (
	"regexp"
	"strings"

	"github.com/codesentinel/codesentinel/internal/classify"
	"github.com/codesentinel/codesentinel/internal/rules"
	"github.com/codesentinel/codesentinel/internal/types"
)

const maxExcerptLen = 100

func excerpt(line string) string {
	e := strings.TrimSpace(line)
	if len(e) > maxExcerptLen {
		e = e[:maxExcerptLen-3] + "..."
	}
	return e
}

var apiKeyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bapi[_-]?key\s*[=:]\s*["'][^"']{20,}["']`),
	regexp.MustCompile(`(?i)\bsecret[_-]?key\s*[=:]\s*["'][^"']{20,}["']`),
	regexp.MustCompile(`(?i)\btoken\s*[=:]\s*["'][^"']{20,}["']`),
	regexp.MustCompile(`(?i)\bpassword\s*[=:]\s*["'][^"']{8,}["']`),
	regexp.MustCompile(`["'](?:sk|pk|rk)_(?:live|test)_[a-zA-Z0-9]{20,}["']`),
	regexp.MustCompile(`["']AKIA[0-9A-Z]{16}["']`),
	regexp.MustCompile(`["']gh[ops]_[a-zA-Z0-9]{36}["']`),
	regexp.MustCompile(`["']xox[pbar]-[0-9]{12}-[0-9]{12}-[0-9]{12}-[a-z0-9]{32}["']`),
}

var reQuotedValue = regexp.MustCompile(`["']([^"']+)["']`)

// hardcodedAPIKeyRule emits at most one finding per line and defers to the
// provider-specific secrets rules when the classifier recognizes the token.
type hardcodedAPIKeyRule struct{ rules.Meta }

func (r hardcodedAPIKeyRule) Apply(path, text string) ([]types.Finding, error) {
	var out []types.Finding
	for i, line := range strings.Split(text, "\n") {
		if !matchesAny(line, apiKeyPatterns) {
			continue
		}
		if m := reQuotedValue.FindStringSubmatch(line); m != nil {
			if tt, ok := classify.Token(m[1]); ok && tt != classify.GenericHighEntropy {
				continue
			}
		}
		out = append(out, types.Finding{
			RuleID:     r.RuleID,
			Path:       path,
			Line:       i + 1,
			Severity:   r.Sev,
			Excerpt:    excerpt(line),
			Confidence: 0.8,
			Category:   r.Cat,
			Tags:       r.Tags(),
			Precedence: r.Prec,
			Message:    r.Desc,
		})
	}
	return out, nil
}

var databasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bpostgres(ql)?://[^:\s]+:[^@\s]+@[^"'\s]+`),
	regexp.MustCompile(`\bmysql://[^:\s]+:[^@\s]+@[^"'\s]+`),
	regexp.MustCompile(`\bmongodb(\+srv)?://[^:\s]+:[^@\s]+@[^"'\s]+`),
	regexp.MustCompile(`\bredis://[^:\s]+:[^@\s]+@[^"'\s]+`),
	regexp.MustCompile(`\bamqps?://[^:\s]+:[^@\s]+@[^"'\s]+`),
}

// hardcodedDatabaseRule flags connection URIs that embed credentials.
type hardcodedDatabaseRule struct{ rules.Meta }

func (r hardcodedDatabaseRule) Apply(path, text string) ([]types.Finding, error) {
	var out []types.Finding
	for i, line := range strings.Split(text, "\n") {
		if !matchesAny(line, databasePatterns) {
			continue
		}
		out = append(out, types.Finding{
			RuleID:     r.RuleID,
			Path:       path,
			Line:       i + 1,
			Severity:   r.Sev,
			Excerpt:    excerpt(line),
			Confidence: 0.9,
			Category:   r.Cat,
			Tags:       r.Tags(),
			Precedence: r.Prec,
			Message:    r.Desc,
		})
	}
	return out, nil
}

func matchesAny(line string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// Rules returns fresh instances of every rule in the pack.
func Rules() []rules.Rule {
	return []rules.Rule{
		hardcodedAPIKeyRule{rules.Meta{
			RuleID:   "hardcoded-api-key",
			Desc:     "Hardcoded API key or token detected",
			Sev:      types.SevHigh,
			Prec:     80,
			Cat:      "secrets",
			BaseTags: []string{"credentials", "api-keys", "secrets-management"},
		}},
		hardcodedDatabaseRule{rules.Meta{
			RuleID:   "hardcoded-database",
			Desc:     "Hardcoded database credentials detected",
			Sev:      types.SevHigh,
			Prec:     60,
			Cat:      "secrets",
			BaseTags: []string{"database", "credentials", "connection-strings"},
		}},
	}
}

func init() {
	rules.Register("configs", Rules()...)
}
