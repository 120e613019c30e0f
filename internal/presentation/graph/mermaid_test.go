package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/ariumhq/arium"
	"github.com/ariumhq/arium/internal/presentation/graph"
	"github.com/ariumhq/arium/pkg/node"
	"github.com/ariumhq/arium/pkg/ports"
)

func noop(name string) ports.Node {
	return node.NewFunction(name, func(ctx context.Context, call node.CallContext) (any, error) {
		return name, nil
	})
}

func pickFirst() ports.Router {
	return ports.RouterFunc(func(ctx context.Context, mem ports.MemoryReader) (string, error) {
		return "", nil
	})
}

func TestGenerateMermaid(t *testing.T) {
	g, err := arium.New().
		AddNode(noop("classify")).
		AddNode(noop("hand-le")).
		AddNode(noop("reject")).
		AddRoutedEdge("classify", pickFirst(), "hand-le", "reject", arium.End).
		AddEdge("hand-le", "reject").
		AddEdge("reject", arium.End).
		Start("classify").
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	got := graph.GenerateMermaid(g, nil)

	wants := []string{
		"graph TD",
		`classify(("classify"))`,
		`reject(["reject"])`,
		`hand_le["hand-le"]`,
		`classify -. "router" .-> hand_le`,
		`classify -. "router" .-> __end__`,
		"hand_le --> reject",
		`__end__(("end"))`,
	}
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
		}
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	g, err := arium.New().
		AddNode(noop("a")).
		AddNode(noop("b")).
		AddEdge("a", "b").
		Start("a").
		End("b").
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	got := graph.GenerateMermaid(g, &graph.Overlay{
		VisitedNodes: []string{"a", "a"},
		CurrentNode:  "b",
	})

	if strings.Count(got, "class a visited;") != 1 {
		t.Errorf("expected visited nodes to be deduplicated:\n%v", got)
	}
	if !strings.Contains(got, "class b current;") {
		t.Errorf("expected current node style:\n%v", got)
	}
}
