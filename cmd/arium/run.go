package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ariumhq/arium/pkg/domain"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a workflow once and print the final answer",
	Long: `Compiles the definition, runs it with the given input and variables,
and prints the final message. On a terminal the answer is rendered as
markdown; otherwise plain text is written for piping.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)

		input, _ := cmd.Flags().GetString("input")
		varFlags, _ := cmd.Flags().GetStringSlice("var")
		showTrace, _ := cmd.Flags().GetBool("trace")

		vars, err := parseVars(varFlags)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		_, g, err := loadWorkflow(args[0], logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		var inputs []domain.Message
		if input != "" {
			inputs = append(inputs, domain.NewUserMessage(input))
		}

		msgs, err := g.Run(ctx, inputs, vars)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Run failed: %v\n", err)
			os.Exit(1)
		}
		if len(msgs) == 0 {
			return
		}

		if showTrace {
			for _, m := range msgs {
				node := m.Node()
				if node == "" {
					node = string(m.Role)
				}
				fmt.Fprintf(os.Stderr, "[%s] %s\n", node, m.Content)
			}
		}

		printAnswer(msgs[len(msgs)-1].Content)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("input", "i", "", "User input message")
	runCmd.Flags().StringSlice("var", nil, "Variable value as name=value (repeatable)")
	runCmd.Flags().Bool("trace", false, "Print every produced message to stderr")
}

func parseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q, expected name=value", pair)
		}
		vars[name] = value
	}
	return vars, nil
}

// printAnswer renders markdown when stdout is a terminal, plain text otherwise.
func printAnswer(content string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(content)
		return
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithColorProfile(termenv.ColorProfile()),
	)
	if err != nil {
		fmt.Println(content)
		return
	}
	out, err := renderer.Render(content)
	if err != nil {
		fmt.Println(content)
		return
	}
	fmt.Print(out)
}
