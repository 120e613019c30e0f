package arium

import (
	"context"

	"github.com/ariumhq/arium/pkg/domain"
	"github.com/ariumhq/arium/pkg/memory"
	"github.com/ariumhq/arium/pkg/ports"
)

// GraphNode wraps an entire compiled sub-graph as a single node, so
// workflows compose: the parent sees one unit of work, the sub-graph runs
// its full traversal inside.
//
// The sub-graph always executes on its own Memory, never the parent's,
// unless one is deliberately shared via WithSharedMemory. Variables copy on
// enter, gated by the inherit flag; without it the sub-graph is fully
// isolated and only sees values it validates for itself.
type GraphNode struct {
	name    string
	graph   *Graph
	inherit bool
	shared  ports.Memory
}

var (
	_ ports.Node             = (*GraphNode)(nil)
	_ ports.MemoryResetter   = (*GraphNode)(nil)
	_ ports.VariableRequirer = (*GraphNode)(nil)
)

// GraphNodeOption configures a GraphNode.
type GraphNodeOption func(*GraphNode)

// WithInheritVariables passes the parent's variables into the sub-graph
// (as an execution-scoped copy; sub-graph mutations never leak back).
func WithInheritVariables() GraphNodeOption {
	return func(n *GraphNode) { n.inherit = true }
}

// WithSharedMemory makes the sub-graph execute on the given Memory instead
// of a fresh one per run. Sharing the parent's Memory is a deliberate,
// visible decision.
func WithSharedMemory(mem ports.Memory) GraphNodeOption {
	return func(n *GraphNode) { n.shared = mem }
}

// NewGraphNode wraps a compiled sub-graph. The sub-graph must be compiled
// before the parent that wraps it; taking a *Graph enforces that ordering.
func NewGraphNode(name string, g *Graph, opts ...GraphNodeOption) *GraphNode {
	n := &GraphNode{name: name, graph: g}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Name returns the node name.
func (n *GraphNode) Name() string { return n.name }

// Graph returns the wrapped sub-graph.
func (n *GraphNode) Graph() *Graph { return n.graph }

// RequiredVariables surfaces the sub-graph's placeholder requirements to the
// parent only when variables are inherited; an isolated sub-graph validates
// its own (empty) variable set when it runs.
func (n *GraphNode) RequiredVariables() []string {
	if !n.inherit {
		return nil
	}
	var names []string
	for _, name := range n.graph.NodeNames() {
		if requirer, ok := n.graph.nodes[name].(ports.VariableRequirer); ok {
			names = append(names, requirer.RequiredVariables()...)
		}
	}
	return dedupe(names)
}

// ResetMemory discards the sub-graph's run-scoped memory so the next
// invocation starts fresh. No-op when a shared Memory was injected.
func (n *GraphNode) ResetMemory(nested *ports.NestedMemories) {
	if n.shared == nil && nested != nil {
		nested.Drop(n.name)
	}
}

// Run executes the sub-graph and returns the messages it produced beyond
// the seeded handoff.
//
// Only the most recent input crosses the boundary, re-seeded as a fresh
// user message: the parent's accumulated history never enters the
// sub-graph's Memory. The nested Memory lives in the parent run's scope, so
// repeated visits within one run accumulate while concurrent runs stay
// isolated.
func (n *GraphNode) Run(ctx context.Context, call ports.NodeCall) ([]domain.Message, error) {
	scoped := map[string]string{}
	if n.inherit {
		for k, v := range call.Variables {
			scoped[k] = v
		}
	}

	var handoff []domain.Message
	if len(call.Inputs) > 0 {
		handoff = []domain.Message{domain.NewUserMessage(call.Inputs[len(call.Inputs)-1].Content)}
	}

	mem := n.shared
	if mem == nil {
		if call.Nested != nil {
			mem = call.Nested.Get(n.name)
		} else {
			mem = memory.NewPlanLog()
		}
	}

	before := len(mem.Messages())
	out, err := n.graph.Run(ctx, handoff, scoped, WithMemory(mem))
	if err != nil {
		return nil, err
	}

	// Skip what was already present plus the handoff the sub-run seeded.
	produced := out[min(before+len(handoff), len(out)):]
	return append([]domain.Message(nil), produced...), nil
}
