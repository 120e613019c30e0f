package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariumhq/arium/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Export a workflow as a Mermaid diagram",
	Long:  `Compiles the definition and outputs a Mermaid flowchart (graph TD) on stdout.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, g, err := loadWorkflow(args[0], newLogger(cmd))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(graph.GenerateMermaid(g, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
