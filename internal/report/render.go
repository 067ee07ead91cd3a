// Package report renders the engine's findings for humans and machines:
// a bordered terminal table, a Markdown report, and a JSON envelope.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/codesentinel/codesentinel/internal/types"
)

// PrintOptions carries presentation knobs shared by the renderers.
type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
}

var severityStyles = map[types.Severity]lipgloss.Style{
	types.SevCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	types.SevHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	types.SevMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	types.SevLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	types.SevInfo:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
}

func styledSeverity(s types.Severity, noColor bool) string {
	if noColor {
		return string(s)
	}
	if style, ok := severityStyles[s]; ok {
		return style.Render(string(s))
	}
	return string(s)
}

// MaskExcerpt hides the middle of a potentially secret-bearing excerpt,
// keeping just enough context to locate it.
func MaskExcerpt(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "…" + s[len(s)-4:]
}

// SortFindings orders findings by path, then line, then rule id. Renderers
// call it so output is stable regardless of worker scheduling.
func SortFindings(findings []types.Finding) {
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Path != findings[j].Path {
			return findings[i].Path < findings[j].Path
		}
		if findings[i].Line != findings[j].Line {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].RuleID < findings[j].RuleID
	})
}

// PrintTable writes a bordered findings table with a summary footer.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) {
	SortFindings(findings)
	if len(findings) == 0 {
		fmt.Fprintln(w, "No issues found ✅")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("SEVERITY", "RULE", "LOCATION", "CONF", "EXCERPT")
		for _, f := range findings {
			loc := f.Path
			if f.Line > 0 {
				loc = fmt.Sprintf("%s:%d", f.Path, f.Line)
			}
			_ = table.Append(
				styledSeverity(f.Severity, opts.NoColor),
				f.RuleID,
				loc,
				fmt.Sprintf("%.2f", f.Confidence),
				MaskExcerpt(f.Excerpt),
			)
		}
		_ = table.Render()
	}
	printFooter(w, findings, opts)
}

func printFooter(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if opts.Duration <= 0 && opts.FilesScanned <= 0 {
		return
	}
	counts := map[types.Severity]int{}
	for _, f := range findings {
		counts[f.Severity]++
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Findings: %d (critical: %d, high: %d, medium: %d, low: %d)\n",
		len(findings), counts[types.SevCritical], counts[types.SevHigh],
		counts[types.SevMedium], counts[types.SevLow])
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
	}
}
