package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariumhq/arium"
	"github.com/ariumhq/arium/pkg/adapters/inmemory"
	"github.com/ariumhq/arium/pkg/node"
)

func buildWorkflow(t *testing.T) *arium.Graph {
	t.Helper()
	greet := node.NewFunction("greet", func(ctx context.Context, call node.CallContext) (any, error) {
		return "hello " + call.Variables["name"], nil
	})

	g, err := arium.New().
		AddNode(greet).
		AddEdge("greet", arium.End).
		Start("greet").
		Build()
	require.NoError(t, err)
	return g
}

func TestServer_HandleRun(t *testing.T) {
	s := NewServer(map[string]*arium.Graph{"greet": buildWorkflow(t)})

	result, err := s.handleRun(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"workflow":  "greet",
		"input":     "hi",
		"variables": `{"name": "world"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello world", result.Output)
	assert.Len(t, result.Messages, 2)
}

func TestServer_HandleRun_UnknownWorkflow(t *testing.T) {
	s := NewServer(map[string]*arium.Graph{})

	_, err := s.handleRun(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"workflow": "ghost",
		"input":    "hi",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown workflow")
}

func TestServer_HandleRun_SessionContinuation(t *testing.T) {
	store := inmemory.NewStore()
	s := NewServer(map[string]*arium.Graph{"greet": buildWorkflow(t)},
		WithStore(store))

	args := map[string]any{
		"workflow":   "greet",
		"input":      "hi",
		"variables":  `{"name": "world"}`,
		"session_id": "s1",
	}
	first, err := s.handleRun(context.Background(), mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	require.Len(t, first.Messages, 2)

	second, err := s.handleRun(context.Background(), mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	assert.Len(t, second.Messages, 4)
}

func TestServer_HandleRun_SessionWithoutStore(t *testing.T) {
	s := NewServer(map[string]*arium.Graph{"greet": buildWorkflow(t)})

	_, err := s.handleRun(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"workflow":   "greet",
		"input":      "hi",
		"session_id": "s1",
	})
	require.Error(t, err)
}
