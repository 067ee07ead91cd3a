package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/codesentinel/codesentinel/internal/rules"
	_ "github.com/codesentinel/codesentinel/internal/rules/all"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List registered rules by pack",
		Run: func(_ *cobra.Command, _ []string) {
			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			for _, pack := range rules.Packs() {
				fmt.Fprintf(w, "%s\n", pack)
				for _, r := range rules.PackRules(pack) {
					fmt.Fprintf(w, "  %s\t%s\t%s\n", r.ID(), r.Severity(), r.Description())
				}
			}
			_ = w.Flush()
		},
	}
	rootCmd.AddCommand(cmd)
}
