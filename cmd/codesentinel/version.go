package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the codesentinel version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("codesentinel", version)
		},
	}
	rootCmd.AddCommand(cmd)
}
