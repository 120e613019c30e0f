package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariumhq/arium/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "arium",
	Short: "Arium runs multi-agent workflows defined as graphs",
	Long: `Arium compiles YAML workflow definitions into executable graphs of
agents, functions and routers, and runs them locally or behind a server.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	levelStr, _ := cmd.Flags().GetString("log-level")
	return logging.New(logging.ParseLevel(levelStr))
}
