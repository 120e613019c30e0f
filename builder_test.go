package arium

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariumhq/arium/pkg/node"
	"github.com/ariumhq/arium/pkg/ports"
)

func echoNode(name string) ports.Node {
	return node.NewFunction(name, func(ctx context.Context, call node.CallContext) (any, error) {
		return name + " done", nil
	})
}

func firstCandidateRouter() ports.Router {
	return ports.RouterFunc(func(ctx context.Context, mem ports.MemoryReader) (string, error) {
		return "b", nil
	})
}

func TestBuilder_Valid(t *testing.T) {
	g, err := New().
		AddNode(echoNode("a")).
		AddNode(echoNode("b")).
		AddEdge("a", "b").
		Start("a").
		End("b").
		Build()
	require.NoError(t, err)
	assert.Equal(t, "a", g.Start())
	assert.Equal(t, []string{"b"}, g.Terminals())
}

func TestBuilder_UnregisteredEdgeTarget(t *testing.T) {
	// Fails at Build, before any execution is attempted.
	_, err := New().
		AddNode(echoNode("a")).
		AddEdge("a", "ghost").
		Start("a").
		End("a").
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"ghost"`)
	assert.Contains(t, err.Error(), "valid: a")
}

func TestBuilder_Validation(t *testing.T) {
	tests := []struct {
		name    string
		builder *Builder
		wantErr string
	}{
		{
			"no nodes",
			New(),
			"graph has no nodes",
		},
		{
			"start not set",
			New().AddNode(echoNode("a")).End("a"),
			"start node not set",
		},
		{
			"start unregistered",
			New().AddNode(echoNode("a")).Start("ghost").End("a"),
			`start node reference "ghost"`,
		},
		{
			"no terminals",
			New().AddNode(echoNode("a")).Start("a"),
			"terminal node set is empty",
		},
		{
			"terminal unregistered",
			New().AddNode(echoNode("a")).Start("a").End("ghost"),
			`terminal node reference "ghost"`,
		},
		{
			"duplicate node name",
			New().AddNode(echoNode("a")).AddNode(echoNode("a")).Start("a").End("a"),
			`duplicate node name "a"`,
		},
		{
			"duplicate from-node edges",
			New().
				AddNode(echoNode("a")).AddNode(echoNode("b")).AddNode(echoNode("c")).
				AddEdge("a", "b").AddEdge("a", "c").
				Start("a").End("b", "c"),
			`duplicate edge declaration for node "a"`,
		},
		{
			"multi-candidate without router",
			New().
				AddNode(echoNode("a")).AddNode(echoNode("b")).AddNode(echoNode("c")).
				AddEdge("a", "b", "c").
				Start("a").End("b", "c"),
			"no router",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuilder_EndSentinelCollapses(t *testing.T) {
	g, err := New().
		AddNode(echoNode("a")).
		AddNode(echoNode("b")).
		AddEdge("a", "b").
		AddEdge("b", End).
		Start("a").
		Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, g.Terminals())

	// The collapsed edge is gone from the edge table.
	assert.Len(t, g.Edges(), 1)
}

func TestBuilder_EndSentinelAsRoutedCandidate(t *testing.T) {
	g, err := New().
		AddNode(echoNode("a")).
		AddNode(echoNode("b")).
		AddRoutedEdge("a", firstCandidateRouter(), "b", End).
		AddEdge("b", End).
		Start("a").
		Build()
	require.NoError(t, err)

	edges := g.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, []string{"b", End}, edges[0].To)
}

func TestBuilder_AggregatesErrors(t *testing.T) {
	_, err := New().
		AddEdge("x", "y").
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graph has no nodes")
	assert.Contains(t, err.Error(), "start node not set")
	assert.Contains(t, err.Error(), "terminal node set is empty")
}
