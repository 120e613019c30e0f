package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check workflow definitions for consistency",
	Long: `Parses and compiles each definition, reporting unresolved references,
dangling edges, missing routers and other build-time problems.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)

		failed := false
		for _, path := range args {
			if _, _, err := loadWorkflow(path, logger); err != nil {
				fmt.Fprintf(os.Stderr, "%s: INVALID\n  %v\n", path, err)
				failed = true
				continue
			}
			fmt.Printf("%s: OK\n", path)
		}
		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
