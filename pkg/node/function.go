// Package node implements the deterministic node variants: FunctionNode,
// which wraps an arbitrary callable, and ForEachNode, which applies a target
// node to each element of an input collection sequentially.
package node

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ariumhq/arium/pkg/domain"
	"github.com/ariumhq/arium/pkg/ports"
)

// InputFilter selects which accumulated messages a function receives.
type InputFilter string

const (
	// FilterAll forwards the whole accumulated snapshot (default).
	FilterAll InputFilter = "all"
	// FilterLast forwards only the most recent message.
	FilterLast InputFilter = "last"
	// FilterUser forwards only user-role messages.
	FilterUser InputFilter = "user"
)

// CallContext carries everything a function callable may need beyond the
// filtered inputs.
type CallContext struct {
	Inputs    []domain.Message
	Variables map[string]string
	// Memory is the run's Memory. Nil when the node runs outside a graph.
	Memory ports.Memory
}

// Func is the callable wrapped by a FunctionNode. The return value is
// wrapped into a Message: Message and []Message pass through, strings become
// assistant text, anything else is JSON-encoded.
type Func func(ctx context.Context, call CallContext) (any, error)

// FunctionNode adapts an arbitrary callable to the Node contract.
type FunctionNode struct {
	name        string
	description string
	fn          Func
	filter      InputFilter
}

var _ ports.Node = (*FunctionNode)(nil)

// FunctionOption configures a FunctionNode.
type FunctionOption func(*FunctionNode)

// WithDescription sets a human-readable description (used by smart routing
// surfaces and introspection).
func WithDescription(desc string) FunctionOption {
	return func(n *FunctionNode) { n.description = desc }
}

// WithInputFilter selects which messages reach the callable.
func WithInputFilter(f InputFilter) FunctionOption {
	return func(n *FunctionNode) { n.filter = f }
}

// NewFunction creates a FunctionNode.
func NewFunction(name string, fn Func, opts ...FunctionOption) *FunctionNode {
	n := &FunctionNode{name: name, fn: fn, filter: FilterAll}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Name returns the node name.
func (n *FunctionNode) Name() string { return n.name }

// Description returns the node description.
func (n *FunctionNode) Description() string { return n.description }

// Run applies the input filter, invokes the callable and wraps its result.
func (n *FunctionNode) Run(ctx context.Context, call ports.NodeCall) ([]domain.Message, error) {
	out, err := n.fn(ctx, CallContext{
		Inputs:    n.filterInputs(call.Inputs),
		Variables: call.Variables,
		Memory:    call.Memory,
	})
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", n.name, err)
	}
	return wrapResult(out)
}

func (n *FunctionNode) filterInputs(inputs []domain.Message) []domain.Message {
	switch n.filter {
	case FilterLast:
		if len(inputs) == 0 {
			return nil
		}
		return inputs[len(inputs)-1:]
	case FilterUser:
		var out []domain.Message
		for _, m := range inputs {
			if m.Role == domain.RoleUser {
				out = append(out, m)
			}
		}
		return out
	default:
		return inputs
	}
}

func wrapResult(out any) ([]domain.Message, error) {
	switch v := out.(type) {
	case nil:
		return nil, nil
	case domain.Message:
		return []domain.Message{v}, nil
	case []domain.Message:
		return v, nil
	case string:
		return []domain.Message{domain.NewAssistantMessage(v)}, nil
	case fmt.Stringer:
		return []domain.Message{domain.NewAssistantMessage(v.String())}, nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("wrap function result: %w", err)
		}
		return []domain.Message{domain.NewAssistantMessage(string(raw))}, nil
	}
}
