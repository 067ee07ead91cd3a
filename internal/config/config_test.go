package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yml")
	content := `include: "**/*.py"
threads: 8
min_confidence: 0.6
no_color: true
dedupe_content: true
format: json
fail_on: medium
`
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Include == nil || *cfg.Include != "**/*.py" {
		t.Errorf("include = %v", cfg.Include)
	}
	if cfg.Threads == nil || *cfg.Threads != 8 {
		t.Errorf("threads = %v", cfg.Threads)
	}
	if cfg.MinConfidence == nil || *cfg.MinConfidence != 0.6 {
		t.Errorf("min_confidence = %v", cfg.MinConfidence)
	}
	if cfg.NoColor == nil || !*cfg.NoColor {
		t.Errorf("no_color = %v", cfg.NoColor)
	}
	if cfg.Format == nil || *cfg.Format != "json" {
		t.Errorf("format = %v", cfg.Format)
	}
	if cfg.FailOn == nil || *cfg.FailOn != "medium" {
		t.Errorf("fail_on = %v", cfg.FailOn)
	}
	// Unset keys stay nil so flag merging can tell them apart from zeros.
	if cfg.Exclude != nil || cfg.MaxBytes != nil || cfg.DefaultExcludes != nil {
		t.Error("unset keys should remain nil")
	}
}

func TestLoadFileMalformed(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(p, []byte("threads: [not an int\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(p); err == nil {
		t.Fatal("malformed YAML should error")
	}
}

func TestLoadLocalNameVariants(t *testing.T) {
	for _, name := range []string{".codesentinel.yml", ".codesentinel.yaml", "codesentinel.yml", "codesentinel.yaml"} {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, name), []byte("threads: 2\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := LoadLocal(dir)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if cfg.Threads == nil || *cfg.Threads != 2 {
			t.Errorf("%s: threads = %v", name, cfg.Threads)
		}
	}
}

func TestLoadLocalNotFound(t *testing.T) {
	_, err := LoadLocal(t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMergeOverlay(t *testing.T) {
	baseInclude := "**/*.go"
	baseThreads := 4
	base := FileConfig{Include: &baseInclude, Threads: &baseThreads}

	overlayThreads := 16
	overlayFormat := "markdown"
	overlay := FileConfig{Threads: &overlayThreads, Format: &overlayFormat}

	out := Merge(base, overlay)
	if out.Include == nil || *out.Include != "**/*.go" {
		t.Errorf("include = %v, want inherited from base", out.Include)
	}
	if out.Threads == nil || *out.Threads != 16 {
		t.Errorf("threads = %v, want overlay value", out.Threads)
	}
	if out.Format == nil || *out.Format != "markdown" {
		t.Errorf("format = %v", out.Format)
	}
	// Inputs are untouched.
	if *base.Threads != 4 {
		t.Error("merge modified its base argument")
	}
}

func TestLoadMissingFilesTolerated(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("missing configs should not error: %v", err)
	}
	if cfg.Threads != nil || cfg.Include != nil {
		t.Error("expected empty config")
	}
}

func TestLoadLocalOverridesGlobal(t *testing.T) {
	globalBase := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", globalBase)
	globalDir := filepath.Join(globalBase, "codesentinel")
	if err := os.MkdirAll(globalDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(globalDir, "config.yml"), []byte("threads: 2\nformat: table\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".codesentinel.yml"), []byte("threads: 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Threads == nil || *cfg.Threads != 8 {
		t.Errorf("threads = %v, want local override", cfg.Threads)
	}
	if cfg.Format == nil || *cfg.Format != "table" {
		t.Errorf("format = %v, want inherited global", cfg.Format)
	}
}
