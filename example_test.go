package arium_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ariumhq/arium"
	"github.com/ariumhq/arium/pkg/domain"
	"github.com/ariumhq/arium/pkg/node"
	"github.com/ariumhq/arium/pkg/ports"
)

// Example demonstrates building and running a small workflow with the fluent
// builder. Function nodes stand in for agents so the example is fully
// deterministic; in a real workflow the nodes would wrap model clients.
func Example() {
	extract := node.NewFunction("extract", func(ctx context.Context, call node.CallContext) (any, error) {
		return "topics: " + call.Inputs[len(call.Inputs)-1].Content, nil
	})
	summarize := node.NewFunction("summarize", func(ctx context.Context, call node.CallContext) (any, error) {
		last := call.Inputs[len(call.Inputs)-1]
		return "summary of " + strings.TrimPrefix(last.Content, "topics: "), nil
	})

	g, err := arium.New().
		AddNode(extract).
		AddNode(summarize).
		AddEdge("extract", "summarize").
		AddEdge("summarize", arium.End).
		Start("extract").
		Build()
	if err != nil {
		log.Fatal(err)
	}

	msgs, err := g.Run(context.Background(),
		[]domain.Message{domain.NewUserMessage("release notes")}, nil)
	if err != nil {
		log.Fatal(err)
	}

	for _, m := range msgs {
		if m.Node() != "" {
			fmt.Printf("%s: %s\n", m.Node(), m.Content)
		}
	}
	// Output:
	// extract: topics: release notes
	// summarize: summary of release notes
}

// ExampleBuilder_routed shows state-based routing: the router inspects the
// accumulated conversation and picks the branch, or finishes the run by
// returning the end sentinel.
func ExampleBuilder_routed() {
	classify := node.NewFunction("classify", func(ctx context.Context, call node.CallContext) (any, error) {
		return "category: question", nil
	})
	answer := node.NewFunction("answer", func(ctx context.Context, call node.CallContext) (any, error) {
		return "answering", nil
	})

	byCategory := ports.RouterFunc(func(ctx context.Context, mem ports.MemoryReader) (string, error) {
		for _, m := range mem.Messages() {
			if strings.Contains(m.Content, "category: question") {
				return "answer", nil
			}
		}
		return arium.End, nil
	})

	g, err := arium.New().
		AddNode(classify).
		AddNode(answer).
		AddRoutedEdge("classify", byCategory, "answer", arium.End).
		AddEdge("answer", arium.End).
		Start("classify").
		Build()
	if err != nil {
		log.Fatal(err)
	}

	msgs, err := g.Run(context.Background(),
		[]domain.Message{domain.NewUserMessage("how do graphs work?")}, nil)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(msgs[len(msgs)-1].Content)
	// Output:
	// answering
}
