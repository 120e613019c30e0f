package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/ariumhq/arium/pkg/domain"
	"github.com/ariumhq/arium/pkg/ports"
)

// Reflection walks a fixed node pattern deterministically: no model calls,
// the next hop is decided purely from which nodes have already run.
//
// The pattern lists node names in visit order and may repeat, e.g.
// [writer, critic, writer, publish] means write, get critiqued, revise,
// then publish. Visit counts are read from the node attribution the engine
// stamps on every produced message, and consumed positionally against the
// pattern; the first unsatisfied position is the next hop. When the whole
// pattern is satisfied the router returns the final destination.
type Reflection struct {
	pattern   []string
	final     string
	earlyExit string
}

var _ ports.Router = (*Reflection)(nil)

// ReflectionOption configures a Reflection router.
type ReflectionOption func(*Reflection)

// WithFinal overrides where the router sends the run once the pattern is
// exhausted. Defaults to the graph's "end" sentinel.
func WithFinal(name string) ReflectionOption {
	return func(r *Reflection) { r.final = name }
}

// WithEarlyExit short-circuits to the final destination as soon as the
// latest assistant message contains marker, even mid-pattern. Lets a critic
// approve early instead of burning remaining revision rounds.
func WithEarlyExit(marker string) ReflectionOption {
	return func(r *Reflection) { r.earlyExit = marker }
}

// NewReflection creates a pattern router. The pattern must not be empty.
func NewReflection(pattern []string, opts ...ReflectionOption) *Reflection {
	r := &Reflection{
		pattern: append([]string(nil), pattern...),
		final:   "end",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route returns the first pattern position not yet satisfied by the run's
// visit history, or the final destination when the pattern is exhausted.
func (r *Reflection) Route(ctx context.Context, mem ports.MemoryReader) (string, error) {
	if len(r.pattern) == 0 {
		return "", fmt.Errorf("reflection router has an empty pattern")
	}

	msgs := mem.Messages()
	if r.earlyExit != "" {
		for i := len(msgs) - 1; i >= 0; i-- {
			if msgs[i].Role != domain.RoleAssistant {
				continue
			}
			if strings.Contains(msgs[i].Content, r.earlyExit) {
				return r.final, nil
			}
			break
		}
	}

	visits := make(map[string]int)
	for _, m := range msgs {
		if n := m.Node(); n != "" {
			visits[n]++
		}
	}

	for _, stage := range r.pattern {
		if visits[stage] > 0 {
			visits[stage]--
			continue
		}
		return stage, nil
	}
	return r.final, nil
}
