// Package jssupply is the JS supply-chain rule pack, operating on
// package.json manifests.
package jssupply

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/blang/semver/v4"

	"github.com/codesentinel/codesentinel/internal/parsers"
	"github.com/codesentinel/codesentinel/internal/rules"
	"github.com/codesentinel/codesentinel/internal/types"
)

func isPackageJSON(path string) bool {
	return path == "package.json" || strings.HasSuffix(path, "/package.json")
}

var depSections = []string{"dependencies", "devDependencies", "optionalDependencies"}

var lifecycleHooks = map[string]bool{
	"preinstall": true, "postinstall": true, "prepare": true, "install": true,
}

var reShellCommand = regexp.MustCompile(`(?i)(curl|wget|nc|chmod|exec|sh|bash|python|node)\s+`)

// scriptHookRule (JSC001) flags lifecycle hooks that shell out to network or
// execution commands, the classic install-time payload vector.
type scriptHookRule struct{ rules.Meta }

func (r scriptHookRule) Apply(path, text string) ([]types.Finding, error) {
	if !isPackageJSON(path) {
		return nil, nil
	}
	pkg := parsers.ParseJSONObject(text)
	if pkg == nil {
		return nil, nil
	}
	scripts, ok := pkg["scripts"].(map[string]any)
	if !ok {
		return nil, nil
	}
	for _, name := range sortedKeys(scripts) {
		body, isStr := scripts[name].(string)
		if !isStr || !lifecycleHooks[name] || !reShellCommand.MatchString(body) {
			continue
		}
		return []types.Finding{{
			RuleID:     r.RuleID,
			Path:       path,
			Line:       1,
			Severity:   r.Sev,
			Excerpt:    fmt.Sprintf("%q: %q", name, body),
			Confidence: 0.90,
			Category:   r.Cat,
			Tags:       r.Tags(),
			Precedence: r.Prec,
			Message:    r.Desc,
		}}, nil
	}
	return nil, nil
}

// wildcardVersionRule (JSC002) flags wildcard or empty dependency versions.
type wildcardVersionRule struct{ rules.Meta }

func (r wildcardVersionRule) Apply(path, text string) ([]types.Finding, error) {
	if !isPackageJSON(path) {
		return nil, nil
	}
	pkg := parsers.ParseJSONObject(text)
	if pkg == nil {
		return nil, nil
	}
	var out []types.Finding
	for _, section := range depSections {
		deps, ok := pkg[section].(map[string]any)
		if !ok {
			continue
		}
		for _, dep := range sortedKeys(deps) {
			version, isStr := deps[dep].(string)
			if !isStr {
				continue
			}
			if strings.TrimSpace(version) == "" || strings.Contains(version, "*") {
				out = append(out, types.Finding{
					RuleID:     r.RuleID,
					Path:       path,
					Line:       1,
					Severity:   r.Sev,
					Excerpt:    fmt.Sprintf("%q: %q in %q", dep, version, section),
					Confidence: 0.70,
					Category:   r.Cat,
					Tags:       r.Tags(section),
					Precedence: r.Prec,
					Message:    r.Desc,
				})
			}
		}
	}
	return out, nil
}

// unboundedRangeRule (JSC003) flags specs that admit arbitrary future
// releases (>= with no upper bound, "latest") and pre-release pins, both of
// which defeat review of what actually gets installed.
type unboundedRangeRule struct{ rules.Meta }

func (r unboundedRangeRule) Apply(path, text string) ([]types.Finding, error) {
	if !isPackageJSON(path) {
		return nil, nil
	}
	pkg := parsers.ParseJSONObject(text)
	if pkg == nil {
		return nil, nil
	}
	var out []types.Finding
	for _, section := range depSections {
		deps, ok := pkg[section].(map[string]any)
		if !ok {
			continue
		}
		for _, dep := range sortedKeys(deps) {
			version, isStr := deps[dep].(string)
			if !isStr {
				continue
			}
			reason, bad := riskySpec(version)
			if !bad {
				continue
			}
			out = append(out, types.Finding{
				RuleID:     r.RuleID,
				Path:       path,
				Line:       1,
				Severity:   r.Sev,
				Excerpt:    fmt.Sprintf("%q: %q in %q (%s)", dep, version, section, reason),
				Confidence: 0.65,
				Category:   r.Cat,
				Tags:       r.Tags(section),
				Precedence: r.Prec,
				Message:    r.Desc,
			})
		}
	}
	return out, nil
}

// riskySpec validates a dependency spec with semver rather than string
// heuristics. Wildcards are JSC002's job and are ignored here.
func riskySpec(spec string) (string, bool) {
	s := strings.TrimSpace(spec)
	if s == "" || strings.Contains(s, "*") {
		return "", false
	}
	if strings.EqualFold(s, "latest") {
		return "floating latest tag", true
	}
	if strings.HasPrefix(s, ">=") && !strings.Contains(s, "<") {
		if _, err := semver.ParseTolerant(strings.TrimSpace(s[2:])); err == nil {
			return "lower bound with no upper bound", true
		}
		return "", false
	}
	exact := strings.TrimLeft(s, "^~=v")
	v, err := semver.ParseTolerant(exact)
	if err != nil {
		return "", false
	}
	if len(v.Pre) > 0 {
		return "pre-release version", true
	}
	return "", false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Rules returns fresh instances of every rule in the pack.
func Rules() []rules.Rule {
	return []rules.Rule{
		scriptHookRule{rules.Meta{
			RuleID:   "JSC001",
			Desc:     "Lifecycle script hook invokes network or execution commands",
			Sev:      types.SevCritical,
			Prec:     65,
			Cat:      "supply_chain.package.scripts",
			BaseTags: []string{"npm", "scripts", "preinstall", "postinstall", "malware"},
		}},
		wildcardVersionRule{rules.Meta{
			RuleID:   "JSC002",
			Desc:     "Wildcard or empty dependency version",
			Sev:      types.SevMedium,
			Prec:     65,
			Cat:      "supply_chain.package.dependencies",
			BaseTags: []string{"npm", "dependency", "wildcard", "version-pinning"},
		}},
		unboundedRangeRule{rules.Meta{
			RuleID:   "JSC003",
			Desc:     "Dependency range admits unreviewed future releases",
			Sev:      types.SevMedium,
			Prec:     65,
			Cat:      "supply_chain.package.dependencies",
			BaseTags: []string{"npm", "dependency", "version-pinning"},
		}},
	}
}

func init() {
	rules.Register("js-supply-chain", Rules()...)
}
