// Package ghactions is the GitHub Actions workflow rule pack.
package ghactions

import (
	"regexp"
	"strings"

	"github.com/codesentinel/codesentinel/internal/parsers"
	"github.com/codesentinel/codesentinel/internal/rules"
	"github.com/codesentinel/codesentinel/internal/types"
)

func isWorkflow(path string) bool {
	return strings.Contains(path, ".github/workflows/") &&
		(strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".yaml"))
}

var rePermissiveScope = regexp.MustCompile(`(?i)\b(write-all|read-all)\b`)

// tokenScopeRule (GHA001) flags workflows granting write-all/read-all to
// GITHUB_TOKEN via the top-level permissions key.
type tokenScopeRule struct{ rules.Meta }

func (r tokenScopeRule) Apply(path, text string) ([]types.Finding, error) {
	if !isWorkflow(path) {
		return nil, nil
	}
	value, line, ok := parsers.YAMLKeyValue(text, "permissions")
	if !ok || !rePermissiveScope.MatchString(value) {
		return nil, nil
	}
	return []types.Finding{{
		RuleID:     r.RuleID,
		Path:       path,
		Line:       line,
		Severity:   r.Sev,
		Excerpt:    "permissions: " + value,
		Confidence: 0.95,
		Category:   r.Cat,
		Tags:       r.Tags(),
		Precedence: r.Prec,
		Message:    r.Desc,
	}}, nil
}

var (
	reSetOutput = regexp.MustCompile(`(?i)::set-output\s+name=`)
	reRunLine   = regexp.MustCompile(`(?i)^-?\s*run\s*:`)
)

func leadingBlankLines(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			break
		}
		count++
	}
	return count
}

// setOutputRule (GHA002) flags deprecated ::set-output usage inside run
// blocks; $GITHUB_OUTPUT replaced it after the command-injection advisories.
type setOutputRule struct{ rules.Meta }

func (r setOutputRule) Apply(path, text string) ([]types.Finding, error) {
	if !isWorkflow(path) {
		return nil, nil
	}
	var out []types.Finding
	inRunBlock := false
	runIndent := -1
	leadingBlanks := leadingBlankLines(text)

	for idx, raw := range strings.Split(text, "\n") {
		lineNum := idx + 1 - leadingBlanks
		if lineNum < 1 {
			lineNum = 1
		}
		stripped := strings.TrimSpace(raw)
		indent := len(raw) - len(strings.TrimLeft(raw, " "))

		isRunLine := reRunLine.MatchString(stripped)
		if isRunLine {
			inRunBlock = true
			runIndent = indent
		}

		if reSetOutput.MatchString(stripped) {
			if isRunLine || (inRunBlock && runIndent >= 0 && indent >= runIndent) {
				out = append(out, types.Finding{
					RuleID:     r.RuleID,
					Path:       path,
					Line:       lineNum,
					Severity:   r.Sev,
					Excerpt:    stripped,
					Confidence: 0.85,
					Category:   r.Cat,
					Tags:       r.Tags(),
					Precedence: r.Prec,
					Message:    r.Desc,
				})
			}
		}

		if inRunBlock && stripped != "" && runIndent >= 0 && indent <= runIndent && !isRunLine {
			inRunBlock = false
			runIndent = -1
		}
	}
	return out, nil
}

// Rules returns fresh instances of every rule in the pack.
func Rules() []rules.Rule {
	return []rules.Rule{
		tokenScopeRule{rules.Meta{
			RuleID:   "GHA001",
			Desc:     "Overly permissive GITHUB_TOKEN scope",
			Sev:      types.SevCritical,
			Prec:     65,
			Cat:      "ci.config.github_actions",
			BaseTags: []string{"permissions", "github-actions", "security-misconfiguration"},
		}},
		setOutputRule{rules.Meta{
			RuleID:   "GHA002",
			Desc:     "Deprecated ::set-output command usage",
			Sev:      types.SevHigh,
			Prec:     65,
			Cat:      "ci.vulnerability.github_actions",
			BaseTags: []string{"deprecated", "command-injection", "github-actions"},
		}},
	}
}

func init() {
	rules.Register("gh-actions", Rules()...)
}
