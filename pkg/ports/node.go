package ports

import (
	"context"

	"github.com/ariumhq/arium/pkg/domain"
)

// NodeCall carries the execution-scoped state for one node invocation. The
// engine builds a fresh value per visit; nodes must not retain any of it
// past the call, so one compiled graph can serve concurrent runs.
type NodeCall struct {
	// Inputs is the accumulated message snapshot.
	Inputs []domain.Message

	// Variables are the run's supplied variable values.
	Variables map[string]string

	// Memory is the run's Memory. Node outputs are appended by the engine;
	// Memory is exposed for plan access and deliberate side reads.
	Memory Memory

	// Nested hands out per-run child Memory for nodes that own a nested
	// conversation. Nil when the node runs outside a graph.
	Nested *NestedMemories
}

// Node is the uniform contract every unit of work in a graph satisfies.
// The engine never branches on the concrete type behind this interface.
type Node interface {
	// Name returns the node's unique name within its graph.
	Name() string

	// Run executes the node against the call's message snapshot.
	// It returns one or more messages to append to the run's Memory.
	// Any error aborts the current traversal and is propagated unmodified.
	Run(ctx context.Context, call NodeCall) ([]domain.Message, error)
}

// VariableRequirer is implemented by nodes whose prompts reference <name>
// placeholders. The engine collects requirements before the first node runs
// and fails fast when any value is unsupplied.
type VariableRequirer interface {
	RequiredVariables() []string
}

// MemoryResetter is the explicit capability a node advertises when it owns
// nested Memory that can be discarded between invocations. ForEach iteration
// isolation keys off this interface rather than structural inspection.
type MemoryResetter interface {
	ResetMemory(*NestedMemories)
}

// NestedMemories is the run-scoped registry of child Memory instances. The
// engine creates one per execution and threads it through every NodeCall, so
// a node that runs a nested conversation keeps it per run instead of on the
// shared node value.
type NestedMemories struct {
	fresh  func() Memory
	byNode map[string]Memory
}

// NewNestedMemories creates a registry; fresh builds a new child Memory.
func NewNestedMemories(fresh func() Memory) *NestedMemories {
	return &NestedMemories{fresh: fresh, byNode: make(map[string]Memory)}
}

// Get returns the named node's child Memory, creating it on first use.
func (n *NestedMemories) Get(node string) Memory {
	if mem, ok := n.byNode[node]; ok {
		return mem
	}
	mem := n.fresh()
	n.byNode[node] = mem
	return mem
}

// Drop discards the named node's child Memory; the next Get starts fresh.
func (n *NestedMemories) Drop(node string) {
	delete(n.byNode, node)
}
