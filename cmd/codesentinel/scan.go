package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/codesentinel/codesentinel/internal/config"
	"github.com/codesentinel/codesentinel/internal/engine"
	"github.com/codesentinel/codesentinel/internal/report"
	"github.com/codesentinel/codesentinel/internal/rules"
	_ "github.com/codesentinel/codesentinel/internal/rules/all"
	"github.com/codesentinel/codesentinel/internal/types"
	"github.com/codesentinel/codesentinel/internal/walk"
)

var (
	flagPath          string
	flagInclude       string
	flagExclude       string
	flagMaxBytes      int64
	flagThreads       int
	flagMinConfidence float64
	flagFormat        string
	flagFailOn        string
	flagNoDefaults    bool
	flagDedupeContent bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a directory tree for secrets and insecure configuration",
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "path to scan")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", walk.DefaultMaxBytes, "skip files larger than this")
	cmd.Flags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	cmd.Flags().Float64Var(&flagMinConfidence, "min-confidence", 0.0, "drop findings with confidence below this (0-1)")
	cmd.Flags().StringVar(&flagFormat, "format", "table", "output format: table|markdown|json")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "high", "exit non-zero on findings at/above this severity")
	cmd.Flags().BoolVar(&flagNoDefaults, "no-default-excludes", false, "disable the built-in exclude lists")
	cmd.Flags().BoolVar(&flagDedupeContent, "dedupe-content", false, "skip files with byte-identical content")
}

func runScan(cmd *cobra.Command, _ []string) error {
	root, _ := filepath.Abs(flagPath)

	fileCfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	include := pickString(flagInclude, fileCfg.Include)
	exclude := pickString(flagExclude, fileCfg.Exclude)
	maxBytes := flagMaxBytes
	if !cmd.Flags().Changed("max-bytes") && fileCfg.MaxBytes != nil {
		maxBytes = *fileCfg.MaxBytes
	}
	format := flagFormat
	if !cmd.Flags().Changed("format") && fileCfg.Format != nil {
		format = *fileCfg.Format
	}
	failOn := flagFailOn
	if !cmd.Flags().Changed("fail-on") && fileCfg.FailOn != nil {
		failOn = *fileCfg.FailOn
	}
	noColor := flagNoColor
	if fileCfg.NoColor != nil && *fileCfg.NoColor {
		noColor = true
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		noColor = true
	}
	dedupe := flagDedupeContent
	if !cmd.Flags().Changed("dedupe-content") && fileCfg.DedupeContent != nil {
		dedupe = *fileCfg.DedupeContent
	}
	noDefaults := flagNoDefaults
	if !cmd.Flags().Changed("no-default-excludes") && fileCfg.DefaultExcludes != nil {
		noDefaults = !*fileCfg.DefaultExcludes
	}

	failSev, ok := types.ParseSeverity(failOn)
	if !ok {
		return fmt.Errorf("invalid fail-on severity %q", failOn)
	}

	ruleset, err := rules.Load()
	if err != nil {
		return fmt.Errorf("rule load error: %w", err)
	}

	start := time.Now()
	inputs, err := walk.Files(cmd.Context(), walk.Options{
		Root:              root,
		Include:           splitGlobs(include),
		Exclude:           splitGlobs(exclude),
		MaxBytes:          maxBytes,
		NoDefaultExcludes: noDefaults,
		DedupeContent:     dedupe,
	})
	if err != nil {
		return fmt.Errorf("walk error: %w", err)
	}

	findings, err := engine.Scan(cmd.Context(), ruleset, inputs, engine.Options{
		Workers:       pickInt(flagThreads, fileCfg.Threads),
		MinConfidence: pickFloat(flagMinConfidence, fileCfg.MinConfidence),
	})
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	duration := time.Since(start)

	switch format {
	case "json":
		out, err := report.RenderJSON(findings, root, version, time.Now(), duration)
		if err != nil {
			return err
		}
		fmt.Println(out)
	case "markdown":
		fmt.Print(report.Markdown(findings, root, time.Now()))
	case "table":
		report.PrintTable(os.Stdout, findings, report.PrintOptions{
			NoColor:      noColor,
			Duration:     duration,
			FilesScanned: len(inputs),
		})
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if shouldFail(findings, failSev) {
		os.Exit(1)
	}
	return nil
}

func shouldFail(findings []types.Finding, threshold types.Severity) bool {
	for _, f := range findings {
		if f.Severity.Rank() >= threshold.Rank() {
			return true
		}
	}
	return false
}

func splitGlobs(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

func pickString(cli string, file *string) string {
	if cli != "" {
		return cli
	}
	if file != nil {
		return *file
	}
	return ""
}

func pickInt(cli int, file *int) int {
	if cli != 0 {
		return cli
	}
	if file != nil {
		return *file
	}
	return 0
}

func pickFloat(cli float64, file *float64) float64 {
	if cli != 0 {
		return cli
	}
	if file != nil {
		return *file
	}
	return 0
}
