package report

import (
	"encoding/json"
	"time"

	"github.com/codesentinel/codesentinel/internal/types"
)

// FormatVersion identifies the JSON report schema.
const FormatVersion = "1.0"

// JSONReport is the machine-readable report envelope.
type JSONReport struct {
	Metadata JSONMetadata    `json:"metadata"`
	Summary  JSONSummary     `json:"summary"`
	Findings []types.Finding `json:"findings"`
}

type JSONMetadata struct {
	Tool          string `json:"tool"`
	Version       string `json:"version"`
	ScanPath      string `json:"scan_path"`
	Timestamp     string `json:"timestamp"`
	FormatVersion string `json:"format_version"`
}

type JSONSummary struct {
	TotalFindings     int            `json:"total_findings"`
	SeverityBreakdown map[string]int `json:"severity_breakdown"`
	FilesAffected     int            `json:"files_affected"`
	ScanDuration      float64        `json:"scan_duration"`
}

// BuildJSON assembles the report envelope. Findings marshal with their
// native JSON tags; an empty finding list marshals as [] rather than null.
func BuildJSON(findings []types.Finding, scanPath, version string, now time.Time, duration time.Duration) JSONReport {
	SortFindings(findings)
	breakdown := map[string]int{
		string(types.SevCritical): 0,
		string(types.SevHigh):     0,
		string(types.SevMedium):   0,
		string(types.SevLow):      0,
	}
	files := map[string]bool{}
	for _, f := range findings {
		breakdown[string(f.Severity)]++
		files[f.Path] = true
	}
	if findings == nil {
		findings = []types.Finding{}
	}
	return JSONReport{
		Metadata: JSONMetadata{
			Tool:          "CodeSentinel",
			Version:       version,
			ScanPath:      scanPath,
			Timestamp:     now.Format(time.RFC3339),
			FormatVersion: FormatVersion,
		},
		Summary: JSONSummary{
			TotalFindings:     len(findings),
			SeverityBreakdown: breakdown,
			FilesAffected:     len(files),
			ScanDuration:      duration.Seconds(),
		},
		Findings: findings,
	}
}

// RenderJSON marshals the envelope with indentation.
func RenderJSON(findings []types.Finding, scanPath, version string, now time.Time, duration time.Duration) (string, error) {
	b, err := json.MarshalIndent(BuildJSON(findings, scanPath, version, now, duration), "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
