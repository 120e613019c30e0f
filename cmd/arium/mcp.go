package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariumhq/arium/pkg/adapters/inmemory"
	"github.com/ariumhq/arium/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp <dir>",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts an MCP server over stdio exposing the workflows in the
directory as tools, so agent hosts can list, inspect and execute them.
Logs go to stderr; stdout carries JSON-RPC only.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)

		workflows, err := loadWorkflowDir(args[0], logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		srv := mcp.NewServer(workflows,
			mcp.WithStore(inmemory.NewStore()),
			mcp.WithLogger(logger),
		)

		logger.Info("starting arium MCP server (stdio)", "workflows", len(workflows))
		if err := srv.ServeStdio(); err != nil {
			logger.Error("MCP server execution failed", "err", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
