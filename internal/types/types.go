package types

import "strings"

// Severity is the risk level attached to a finding or a rule.
type Severity string

const (
	SevCritical Severity = "critical"
	SevHigh     Severity = "high"
	SevMedium   Severity = "medium"
	SevLow      Severity = "low"
	SevInfo     Severity = "info"
)

var severityRank = map[Severity]int{
	SevCritical: 4,
	SevHigh:     3,
	SevMedium:   2,
	SevLow:      1,
	SevInfo:     0,
}

// Rank returns the numeric order of a severity (4 for critical down to 0 for
// info), or -1 for an unknown value.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

// Valid reports whether s is one of the five allowed severity levels.
func (s Severity) Valid() bool {
	return s.Rank() >= 0
}

// ParseSeverity normalizes a severity string, ignoring case and surrounding
// whitespace. The boolean is false for unknown levels.
func ParseSeverity(s string) (Severity, bool) {
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	return sev, sev.Valid()
}

// FromRank returns the severity with the given rank, or SevInfo when the rank
// is out of range.
func FromRank(rank int) Severity {
	for sev, r := range severityRank {
		if r == rank {
			return sev
		}
	}
	return SevInfo
}

// Finding describes a single detected issue at a path and (optionally) a line.
// Findings are immutable values: the engine never modifies one after a rule
// has produced it, and downstream consumers must copy before enriching.
type Finding struct {
	RuleID     string   `json:"rule_id"`
	Path       string   `json:"path"`
	Line       int      `json:"line,omitempty"` // 0 when not line-addressable
	Severity   Severity `json:"severity"`
	Excerpt    string   `json:"excerpt,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
	Category   string   `json:"category,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	// Precedence is the rule author's explicit ranking (1..100). Zero means
	// unset, in which case the resolver derives a band from the rule ID.
	Precedence int    `json:"precedence,omitempty"`
	Message    string `json:"message,omitempty"`
}
