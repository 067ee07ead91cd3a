package core

import (
	"context"

	"github.com/codesentinel/codesentinel/internal/classify"
	"github.com/codesentinel/codesentinel/internal/engine"
	"github.com/codesentinel/codesentinel/internal/rules"
	_ "github.com/codesentinel/codesentinel/internal/rules/all"
	"github.com/codesentinel/codesentinel/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	Finding   = types.Finding
	Severity  = types.Severity
	Input     = engine.Input
	Options   = engine.Options
	TokenType = classify.TokenType
)

// ErrNoRules is returned by Scan when the rule registry is empty.
var ErrNoRules = rules.ErrNoRules

// Scan applies every registered rule to the given inputs and returns the
// deduplicated findings. It is the stable entrypoint for other programs; file
// discovery is the caller's job.
func Scan(ctx context.Context, inputs []Input, opts Options) ([]Finding, error) {
	ruleset, err := rules.Load()
	if err != nil {
		return nil, err
	}
	return engine.Scan(ctx, ruleset, inputs, opts)
}

// ClassifyToken maps a raw string to a provider token type. The boolean is
// false when the value does not classify.
func ClassifyToken(value string) (TokenType, bool) {
	return classify.Token(value)
}

// Deduplicate collapses findings that describe the same source location,
// keeping the highest-precedence finding per location.
func Deduplicate(findings []Finding) []Finding {
	return engine.Deduplicate(findings)
}

// RulePacks returns the registered rule pack names.
func RulePacks() []string { return rules.Packs() }
