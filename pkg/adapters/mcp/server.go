// Package mcp exposes compiled workflows as MCP tools over stdio, so agent
// hosts can list, inspect and execute them.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ariumhq/arium"
	"github.com/ariumhq/arium/internal/logging"
	"github.com/ariumhq/arium/internal/presentation/graph"
	"github.com/ariumhq/arium/pkg/domain"
	"github.com/ariumhq/arium/pkg/memory"
	"github.com/ariumhq/arium/pkg/ports"
)

// RunResult is the structured output of the run_workflow tool.
type RunResult struct {
	SessionID string           `json:"session_id,omitempty" jsonschema_description:"Session continued or created by this run"`
	Output    string           `json:"output" jsonschema_description:"Content of the final message"`
	Messages  []domain.Message `json:"messages" jsonschema_description:"Full conversation after the run"`
}

// Server wraps a named set of workflows and exposes them as an MCP server.
type Server struct {
	workflows map[string]*arium.Graph
	store     ports.ConversationStore
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables session continuation for run_workflow.
func WithStore(store ports.ConversationStore) Option {
	return func(s *Server) { s.store = store }
}

// WithLogger configures a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates an MCP server over the given workflows.
func NewServer(workflows map[string]*arium.Graph, opts ...Option) *Server {
	s := &Server{
		workflows: workflows,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("arium-mcp", strings.TrimSpace(arium.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_workflows",
		mcp.WithDescription("List the names of the available workflows."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names := make([]string, 0, len(s.workflows))
		for name := range s.workflows {
			names = append(names, name)
		}
		raw, _ := json.Marshal(names)
		return mcp.NewToolResultText(string(raw)), nil
	})

	runTool := mcp.NewTool("run_workflow",
		mcp.WithDescription("Execute a workflow with the given input and variables."),
		mcp.WithString("workflow", mcp.Required(), mcp.Description("Workflow name")),
		mcp.WithString("input", mcp.Required(), mcp.Description("User input message")),
		mcp.WithString("variables", mcp.Description("JSON object of variable values (optional)")),
		mcp.WithString("session_id", mcp.Description("Session to continue (optional, requires a configured store)")),
		mcp.WithOutputSchema[RunResult](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRun))

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the Mermaid flowchart of a workflow for introspection."),
		mcp.WithString("workflow", mcp.Required(), mcp.Description("Workflow name")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("workflow", "")
		g, ok := s.workflows[name]
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown workflow: %s", name)), nil
		}
		return mcp.NewToolResultText(graph.GenerateMermaid(g, nil)), nil
	})
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (RunResult, error) {
	name, _ := args["workflow"].(string)
	input, _ := args["input"].(string)
	sessionID, _ := args["session_id"].(string)

	g, ok := s.workflows[name]
	if !ok {
		return RunResult{}, fmt.Errorf("unknown workflow: %s", name)
	}
	if sessionID != "" && s.store == nil {
		return RunResult{}, errors.New("session persistence is not configured")
	}

	vars := map[string]string{}
	if varsStr, ok := args["variables"].(string); ok && varsStr != "" {
		if err := json.Unmarshal([]byte(varsStr), &vars); err != nil {
			return RunResult{}, fmt.Errorf("invalid variables: %w", err)
		}
	}

	mem := memory.NewPlanLog()
	if sessionID != "" {
		prior, err := s.store.Load(ctx, sessionID)
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			// First request of the session.
		case err != nil:
			return RunResult{}, fmt.Errorf("failed to load session: %w", err)
		default:
			mem.Append(prior...)
		}
	}

	msgs, err := g.Run(ctx, []domain.Message{domain.NewUserMessage(input)}, vars, arium.WithMemory(mem))
	if err != nil {
		s.logger.Error("mcp run failed", "workflow", name, "err", err)
		return RunResult{}, fmt.Errorf("run failed: %w", err)
	}

	if sessionID != "" {
		if err := s.store.Save(ctx, sessionID, msgs); err != nil {
			return RunResult{}, fmt.Errorf("failed to save session: %w", err)
		}
	}

	result := RunResult{SessionID: sessionID, Messages: msgs}
	if len(msgs) > 0 {
		result.Output = msgs[len(msgs)-1].Content
	}
	return result, nil
}
