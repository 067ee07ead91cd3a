// Command codesentinel scans source trees for hardcoded secrets and insecure
// configuration patterns, entirely offline.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/codesentinel/codesentinel/internal/log"
)

var (
	flagVerbose bool
	flagNoColor bool

	version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:           "codesentinel",
	Short:         "Find hardcoded secrets and insecure configuration",
	Long:          "CodeSentinel scans a source tree for hardcoded secrets and insecure configuration patterns without any network dependency, collapsing overlapping detections into one authoritative finding per location.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagVerbose {
			l := logrus.New()
			l.SetLevel(logrus.DebugLevel)
			log.SetLogger(l)
		}
	},
}

// Execute runs the CLI. Errors exit with status 2; findings at or above the
// fail-on severity exit with status 1 from the scan command itself.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
}
