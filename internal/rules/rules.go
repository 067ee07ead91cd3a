// Package rules defines the rule contract and the compile-time registry the
// orchestrator loads rule packs from.
package rules

import (
	"github.com/codesentinel/codesentinel/internal/types"
)

// Rule is the contract every detection rule implements. Rules are constructed
// once, validated at load time, and shared read-only across all files in a
// scan; Apply must be safe for concurrent use.
type Rule interface {
	ID() string
	Description() string
	Severity() types.Severity
	// Precedence is the rule author's explicit deduplication rank (1..100),
	// or 0 when the rule relies on the resolver's legacy bands.
	Precedence() int
	Apply(path, text string) ([]types.Finding, error)
}

// Meta carries the descriptive half of a rule. Concrete rules embed it and
// add Apply.
type Meta struct {
	RuleID   string
	Desc     string
	Sev      types.Severity
	Prec     int
	Cat      string
	BaseTags []string
}

func (m Meta) ID() string               { return m.RuleID }
func (m Meta) Description() string      { return m.Desc }
func (m Meta) Severity() types.Severity { return m.Sev }
func (m Meta) Precedence() int          { return m.Prec }

// Tags returns a copy of the rule's base tags with extras appended, so rules
// never hand out a shared slice through a Finding.
func (m Meta) Tags(extra ...string) []string {
	out := make([]string, 0, len(m.BaseTags)+len(extra))
	out = append(out, m.BaseTags...)
	return append(out, extra...)
}
