// Package config loads the optional YAML configuration file. Fields are
// pointers so unset keys can be told apart from zero values when merging with
// CLI flags (flags win over local config, local over global).
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for CodeSentinel.
type FileConfig struct {
	Include       *string  `yaml:"include"`
	Exclude       *string  `yaml:"exclude"`
	MaxBytes      *int64   `yaml:"max_bytes"`
	Threads       *int     `yaml:"threads"`
	MinConfidence *float64 `yaml:"min_confidence"`
	NoColor       *bool    `yaml:"no_color"`
	// DefaultExcludes toggles the built-in dir/file exclusion lists.
	DefaultExcludes *bool `yaml:"default_excludes"`
	// DedupeContent skips files with byte-identical content during the walk.
	DedupeContent *bool `yaml:"dedupe_content"`
	// Format selects the report renderer: table, markdown, or json.
	Format *string `yaml:"format"`
	// FailOn is the severity at or above which the scan exits non-zero.
	FailOn *string `yaml:"fail_on"`
}

// ErrNotFound is returned by LoadLocal/LoadGlobal when no config file exists.
var ErrNotFound = errors.New("config file not found")

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root. It
// accepts .codesentinel.yml/.yaml and codesentinel.yml/.yaml.
func LoadLocal(root string) (FileConfig, error) {
	for _, name := range []string{".codesentinel.yml", ".codesentinel.yaml", "codesentinel.yml", "codesentinel.yaml"} {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, ErrNotFound
}

// LoadGlobal loads the global config from $XDG_CONFIG_HOME/codesentinel (or
// ~/.config/codesentinel).
func LoadGlobal() (FileConfig, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return FileConfig{}, ErrNotFound
	}
	p := filepath.Join(base, "codesentinel", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return FileConfig{}, ErrNotFound
}

// Merge overlays cfg on top of base: any field set in cfg replaces the
// corresponding field of base. Neither argument is modified.
func Merge(base, cfg FileConfig) FileConfig {
	out := base
	if cfg.Include != nil {
		out.Include = cfg.Include
	}
	if cfg.Exclude != nil {
		out.Exclude = cfg.Exclude
	}
	if cfg.MaxBytes != nil {
		out.MaxBytes = cfg.MaxBytes
	}
	if cfg.Threads != nil {
		out.Threads = cfg.Threads
	}
	if cfg.MinConfidence != nil {
		out.MinConfidence = cfg.MinConfidence
	}
	if cfg.NoColor != nil {
		out.NoColor = cfg.NoColor
	}
	if cfg.DefaultExcludes != nil {
		out.DefaultExcludes = cfg.DefaultExcludes
	}
	if cfg.DedupeContent != nil {
		out.DedupeContent = cfg.DedupeContent
	}
	if cfg.Format != nil {
		out.Format = cfg.Format
	}
	if cfg.FailOn != nil {
		out.FailOn = cfg.FailOn
	}
	return out
}

// Load resolves the effective file config for a scan root: global config
// overlaid by local config. Missing files are fine; other read errors are
// returned.
func Load(root string) (FileConfig, error) {
	var merged FileConfig
	global, err := LoadGlobal()
	if err == nil {
		merged = global
	} else if !errors.Is(err, ErrNotFound) {
		return merged, err
	}
	local, err := LoadLocal(root)
	if err == nil {
		merged = Merge(merged, local)
	} else if !errors.Is(err, ErrNotFound) {
		return merged, err
	}
	return merged, nil
}
