// Package core provides a small, stable facade over CodeSentinel's internal
// scan engine for external integrations. It deliberately re-exports a narrow
// API surface so third-party tools can depend on a stable import path without
// reaching into internal implementation packages.
//
// Example:
//
//	inputs := []core.Input{{Path: "config.py", Text: src}}
//	findings, err := core.Scan(ctx, inputs, core.Options{})
//	if err != nil { /* handle */ }
//	_ = core.MarshalFindings(os.Stdout, findings)
package core
