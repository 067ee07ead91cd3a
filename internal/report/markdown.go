package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/codesentinel/codesentinel/internal/types"
)

// Markdown renders a full scan report: summary, findings grouped by severity,
// per-file breakdown, and recommendations.
func Markdown(findings []types.Finding, scanPath string, now time.Time) string {
	SortFindings(findings)
	var b strings.Builder

	b.WriteString("# CodeSentinel Security Scan Report\n\n")
	fmt.Fprintf(&b, "**Scan Date:** %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Scan Path:** `%s`\n\n", scanPath)

	writeSummary(&b, findings)
	writeBySeverity(&b, findings)
	writeFileBreakdown(&b, findings)
	writeRecommendations(&b, findings)

	return b.String()
}

func writeSummary(b *strings.Builder, findings []types.Finding) {
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(b, "- **Total Findings:** %d\n", len(findings))
	counts := map[types.Severity]int{}
	for _, f := range findings {
		counts[f.Severity]++
	}
	for _, sev := range []types.Severity{types.SevCritical, types.SevHigh, types.SevMedium, types.SevLow, types.SevInfo} {
		if counts[sev] > 0 {
			fmt.Fprintf(b, "- **%s Severity:** %d\n", capitalize(string(sev)), counts[sev])
		}
	}
	b.WriteString("\n")
}

func writeBySeverity(b *strings.Builder, findings []types.Finding) {
	for _, sev := range []types.Severity{types.SevCritical, types.SevHigh, types.SevMedium, types.SevLow, types.SevInfo} {
		var group []types.Finding
		for _, f := range findings {
			if f.Severity == sev {
				group = append(group, f)
			}
		}
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(b, "## %s Severity Findings\n\n", capitalize(string(sev)))
		for _, f := range group {
			fmt.Fprintf(b, "### %s\n\n", f.RuleID)
			fmt.Fprintf(b, "- **File:** `%s`\n", f.Path)
			fmt.Fprintf(b, "- **Line:** %d\n", f.Line)
			fmt.Fprintf(b, "- **Confidence:** %.2f\n", f.Confidence)
			if f.Message != "" {
				fmt.Fprintf(b, "- **Message:** %s\n", f.Message)
			}
			b.WriteString("\n**Code Excerpt:**\n```\n")
			b.WriteString(MaskExcerpt(f.Excerpt))
			b.WriteString("\n```\n\n")
		}
	}
}

func writeFileBreakdown(b *strings.Builder, findings []types.Finding) {
	b.WriteString("## Per-File Breakdown\n\n")
	var order []string
	perFile := map[string][]types.Finding{}
	for _, f := range findings {
		if _, seen := perFile[f.Path]; !seen {
			order = append(order, f.Path)
		}
		perFile[f.Path] = append(perFile[f.Path], f)
	}
	for _, path := range order {
		fmt.Fprintf(b, "### `%s`\n\n", path)
		for _, f := range perFile[path] {
			fmt.Fprintf(b, "- **Line %d:** %s (%s)\n", f.Line, f.RuleID, f.Severity)
		}
		b.WriteString("\n")
	}
}

func writeRecommendations(b *strings.Builder, findings []types.Finding) {
	b.WriteString("## Recommendations\n\n")
	if len(findings) == 0 {
		b.WriteString("No security issues detected. Continue following secure coding practices.\n")
		return
	}
	b.WriteString("### General Security Recommendations\n\n")
	for _, rec := range []string{
		"Review all detected secrets and consider rotating them",
		"Move hardcoded secrets to environment variables or secure storage",
		"Ensure DEBUG mode is disabled in production environments",
		"Use strong cryptographic algorithms (avoid md5, sha1)",
		"Implement proper access controls and authentication",
		"Regularly update dependencies to patch security vulnerabilities",
	} {
		fmt.Fprintf(b, "- %s\n", rec)
	}
	b.WriteString("\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
