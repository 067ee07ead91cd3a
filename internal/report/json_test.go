package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestBuildJSONEnvelope(t *testing.T) {
	now := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)
	rep := BuildJSON(sampleFindings(), "/repo", "0.1.0", now, 1500*time.Millisecond)

	if rep.Metadata.Tool != "CodeSentinel" {
		t.Errorf("tool = %q", rep.Metadata.Tool)
	}
	if rep.Metadata.FormatVersion != FormatVersion {
		t.Errorf("format_version = %q", rep.Metadata.FormatVersion)
	}
	if rep.Metadata.Timestamp != "2026-08-25T10:30:00Z" {
		t.Errorf("timestamp = %q", rep.Metadata.Timestamp)
	}
	if rep.Metadata.ScanPath != "/repo" || rep.Metadata.Version != "0.1.0" {
		t.Errorf("metadata = %+v", rep.Metadata)
	}

	if rep.Summary.TotalFindings != 2 || rep.Summary.FilesAffected != 2 {
		t.Errorf("summary = %+v", rep.Summary)
	}
	if rep.Summary.ScanDuration != 1.5 {
		t.Errorf("scan_duration = %v", rep.Summary.ScanDuration)
	}
	if rep.Summary.SeverityBreakdown["critical"] != 1 || rep.Summary.SeverityBreakdown["medium"] != 1 {
		t.Errorf("breakdown = %v", rep.Summary.SeverityBreakdown)
	}
	// Zero severities are present, not omitted.
	if _, ok := rep.Summary.SeverityBreakdown["high"]; !ok {
		t.Error("breakdown should carry zero counts")
	}
}

func TestBuildJSONEmptyFindings(t *testing.T) {
	rep := BuildJSON(nil, "/repo", "0.1.0", time.Now(), 0)
	if rep.Findings == nil {
		t.Fatal("findings must marshal as [], not null")
	}
	out, err := RenderJSON(nil, "/repo", "0.1.0", time.Now(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"findings": []`) {
		t.Errorf("output = %s", out)
	}
}

func TestRenderJSONRoundTrip(t *testing.T) {
	out, err := RenderJSON(sampleFindings(), "/repo", "0.1.0", time.Now(), time.Second)
	if err != nil {
		t.Fatal(err)
	}
	var rep JSONReport
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(rep.Findings) != 2 {
		t.Fatalf("findings = %d", len(rep.Findings))
	}
	if rep.Findings[0].RuleID != "SECRET_AWS_ACCESS_KEY" {
		t.Errorf("findings not sorted by path: %+v", rep.Findings[0])
	}
}
