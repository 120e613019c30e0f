package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariumhq/arium"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of arium",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("arium version %s\n", strings.TrimSpace(arium.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
