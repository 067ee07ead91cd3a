// Package docker is the Dockerfile rule pack. Both rules operate on parsed
// instructions rather than raw lines so continuations and comments don't
// produce false positives.
package docker

import (
	"regexp"
	"strings"

	"github.com/codesentinel/codesentinel/internal/classify"
	"github.com/codesentinel/codesentinel/internal/parsers"
	"github.com/codesentinel/codesentinel/internal/rules"
	"github.com/codesentinel/codesentinel/internal/types"
)

// isDockerfile gates the pack on likely Dockerfile paths.
func isDockerfile(path string) bool {
	base := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		base = path[i+1:]
	}
	return base == "Dockerfile" || strings.HasPrefix(base, "Dockerfile.") ||
		strings.HasSuffix(base, ".dockerfile")
}

// rootUserRule (DOC001) flags Dockerfiles whose final USER instruction is
// root. Intermediate USER root is fine; only the effective runtime user
// matters.
type rootUserRule struct{ rules.Meta }

func (r rootUserRule) Apply(path, text string) ([]types.Finding, error) {
	if !isDockerfile(path) {
		return nil, nil
	}
	lastUserLine := 0
	lastUserRoot := false
	for _, ins := range parsers.ParseDockerfile(text) {
		if ins.Instruction == "USER" {
			lastUserLine = ins.Line
			lastUserRoot = strings.EqualFold(strings.TrimSpace(ins.Arguments), "root")
		}
	}
	if lastUserLine == 0 || !lastUserRoot {
		return nil, nil
	}
	return []types.Finding{{
		RuleID:     r.RuleID,
		Path:       path,
		Line:       lastUserLine,
		Severity:   r.Sev,
		Excerpt:    "USER root",
		Confidence: 0.90,
		Category:   r.Cat,
		Tags:       r.Tags(),
		Precedence: r.Prec,
		Message:    r.Desc,
	}}, nil
}

var reSecretPrefix = regexp.MustCompile(`(?i)((?:AKIA|ghp_|ya29|sk_live|pk_live)[A-Za-z0-9_/+\-]{15,})`)

// envSecretRule (DOC002) flags provider secrets assigned through ENV. The
// classifier must attribute the value to a specific provider; generic
// high-entropy values are left to the secrets pack.
type envSecretRule struct{ rules.Meta }

func (r envSecretRule) Apply(path, text string) ([]types.Finding, error) {
	if !isDockerfile(path) {
		return nil, nil
	}
	var out []types.Finding
	for _, ins := range parsers.ParseDockerfile(text) {
		if ins.Instruction != "ENV" || !strings.Contains(ins.Arguments, "=") {
			continue
		}
		candidate := strings.TrimSpace(strings.SplitN(ins.Arguments, "=", 2)[1])
		candidate = strings.Trim(candidate, `"'`)
		m := reSecretPrefix.FindStringSubmatch(candidate)
		if m == nil {
			continue
		}
		tt, ok := classify.Token(m[1])
		if !ok || tt == classify.GenericHighEntropy {
			continue
		}
		out = append(out, types.Finding{
			RuleID:     r.RuleID,
			Path:       path,
			Line:       ins.Line,
			Severity:   r.Sev,
			Excerpt:    ins.Instruction + " " + ins.Arguments,
			Confidence: 0.95,
			Category:   r.Cat,
			Tags:       r.Tags(string(tt)),
			Precedence: r.Prec,
			Message:    r.Desc,
		})
	}
	return out, nil
}

// Rules returns fresh instances of every rule in the pack.
func Rules() []rules.Rule {
	return []rules.Rule{
		rootUserRule{rules.Meta{
			RuleID:   "DOC001",
			Desc:     "Dockerfile retains root as the final user",
			Sev:      types.SevHigh,
			Prec:     65,
			Cat:      "container.config.security",
			BaseTags: []string{"user", "root", "security-misconfiguration", "docker"},
		}},
		envSecretRule{rules.Meta{
			RuleID:   "DOC002",
			Desc:     "Hardcoded provider secret declared through ENV",
			Sev:      types.SevCritical,
			Prec:     65,
			Cat:      "container.secret.leakage",
			BaseTags: []string{"env", "hardcoded-secret", "docker", "secret-leakage"},
		}},
	}
}

func init() {
	rules.Register("docker", Rules()...)
}
