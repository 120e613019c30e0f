package node

import (
	"context"
	"fmt"

	"github.com/ariumhq/arium/pkg/domain"
	"github.com/ariumhq/arium/pkg/ports"
)

// ForEachNode applies a target node to each input message, strictly
// sequentially, collecting one result per input in input order. Parallel
// fan-out is an explicit non-goal.
type ForEachNode struct {
	name        string
	target      ports.Node
	freshMemory bool
}

var _ ports.Node = (*ForEachNode)(nil)

// ForEachOption configures a ForEachNode.
type ForEachOption func(*ForEachNode)

// WithFreshMemory resets the target's nested Memory before every iteration,
// so iterations cannot observe each other's effects. The target must
// advertise the ports.MemoryResetter capability; this is checked when the
// iterator runs.
func WithFreshMemory() ForEachOption {
	return func(n *ForEachNode) { n.freshMemory = true }
}

// NewForEach creates a ForEachNode around target.
func NewForEach(name string, target ports.Node, opts ...ForEachOption) *ForEachNode {
	n := &ForEachNode{name: name, target: target}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Name returns the node name.
func (n *ForEachNode) Name() string { return n.name }

// Target returns the wrapped node.
func (n *ForEachNode) Target() ports.Node { return n.target }

// Run iterates the target over the inputs. Any iteration error aborts the
// whole run; partial results are discarded.
func (n *ForEachNode) Run(ctx context.Context, call ports.NodeCall) ([]domain.Message, error) {
	var resetter ports.MemoryResetter
	if n.freshMemory {
		var ok bool
		resetter, ok = n.target.(ports.MemoryResetter)
		if !ok {
			return nil, fmt.Errorf("foreach %s: target %s does not support memory reset", n.name, n.target.Name())
		}
	}

	results := make([]domain.Message, 0, len(call.Inputs))
	for i, input := range call.Inputs {
		if resetter != nil {
			resetter.ResetMemory(call.Nested)
		}

		out, err := n.target.Run(ctx, ports.NodeCall{
			Inputs:    []domain.Message{input},
			Variables: call.Variables,
			Memory:    call.Memory,
			Nested:    call.Nested,
		})
		if err != nil {
			return nil, fmt.Errorf("foreach %s: item %d: %w", n.name, i, err)
		}
		results = append(results, out...)
	}
	return results, nil
}
