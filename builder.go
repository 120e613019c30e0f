package arium

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ariumhq/arium/internal/logging"
	"github.com/ariumhq/arium/pkg/domain"
	"github.com/ariumhq/arium/pkg/ports"
)

// Builder accumulates nodes, edges, the start node and the terminal set, and
// compiles them into an immutable Graph. All well-formedness problems are
// reported at Build time, never during traversal.
type Builder struct {
	nodes     map[string]ports.Node
	order     []string
	edges     []Edge
	start     string
	terminals []string
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	errs      []error
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger injects the logger carried by the compiled Graph.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) { b.logger = logger }
}

// WithHooks injects lifecycle hooks carried by the compiled Graph.
func WithHooks(hooks domain.LifecycleHooks) BuilderOption {
	return func(b *Builder) { b.hooks = hooks }
}

// New creates a graph builder.
func New(opts ...BuilderOption) *Builder {
	b := &Builder{
		nodes:  make(map[string]ports.Node),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddNode registers a node. Duplicate names are a build error.
func (b *Builder) AddNode(n ports.Node) *Builder {
	name := n.Name()
	if name == "" {
		b.errs = append(b.errs, fmt.Errorf("node with empty name"))
		return b
	}
	if _, exists := b.nodes[name]; exists {
		b.errs = append(b.errs, fmt.Errorf("duplicate node name %q", name))
		return b
	}
	b.nodes[name] = n
	b.order = append(b.order, name)
	return b
}

// AddEdge declares an unconditional transition group from one node.
// More than one candidate requires AddRoutedEdge.
func (b *Builder) AddEdge(from string, to ...string) *Builder {
	b.edges = append(b.edges, Edge{From: from, To: to})
	return b
}

// AddRoutedEdge declares a transition group whose next node is picked by the
// router among the ordered candidates.
func (b *Builder) AddRoutedEdge(from string, router ports.Router, to ...string) *Builder {
	b.edges = append(b.edges, Edge{From: from, To: to, Router: router})
	return b
}

// Start declares the start node.
func (b *Builder) Start(name string) *Builder {
	b.start = name
	return b
}

// End declares terminal nodes. Traversal stops after a terminal node's run
// completes.
func (b *Builder) End(names ...string) *Builder {
	b.terminals = append(b.terminals, names...)
	return b
}

// Build validates the accumulated definition and compiles the Graph.
func (b *Builder) Build() (*Graph, error) {
	errs := append([]error(nil), b.errs...)

	if len(b.nodes) == 0 {
		errs = append(errs, errors.New("graph has no nodes"))
	}
	if b.start == "" {
		errs = append(errs, errors.New("start node not set"))
	} else if _, ok := b.nodes[b.start]; !ok {
		errs = append(errs, &domain.ConfigError{Kind: "start node", Ref: b.start, Valid: b.order})
	}

	terminals := make(map[string]struct{}, len(b.terminals))
	for _, name := range b.terminals {
		if _, ok := b.nodes[name]; !ok {
			errs = append(errs, &domain.ConfigError{Kind: "terminal node", Ref: name, Valid: b.order})
			continue
		}
		terminals[name] = struct{}{}
	}

	edges := make(map[string]Edge, len(b.edges))
	for _, edge := range b.edges {
		if collapsed := b.applyEndSentinel(edge, terminals); collapsed {
			continue // edge was only a terminal marker
		}

		if _, ok := b.nodes[edge.From]; !ok {
			errs = append(errs, &domain.ConfigError{Kind: "edge from-node", Ref: edge.From, Valid: b.order})
			continue
		}
		if _, dup := edges[edge.From]; dup {
			// Precedence between competing edge declarations is undefined;
			// reject instead of guessing.
			errs = append(errs, fmt.Errorf("duplicate edge declaration for node %q", edge.From))
			continue
		}
		if len(edge.To) == 0 {
			errs = append(errs, fmt.Errorf("edge from %q has no targets", edge.From))
			continue
		}

		valid := true
		for _, to := range edge.To {
			if to == End {
				// Routable sentinel: a router may pick it to finish the run.
				continue
			}
			if _, ok := b.nodes[to]; !ok {
				errs = append(errs, &domain.ConfigError{Kind: "edge to-node", Ref: to, Valid: b.order})
				valid = false
			}
		}
		if !valid {
			continue
		}

		if len(edge.To) > 1 && edge.Router == nil {
			errs = append(errs, fmt.Errorf("edge from %q has %d candidates but no router", edge.From, len(edge.To)))
			continue
		}

		edges[edge.From] = edge
	}

	if len(terminals) == 0 {
		errs = append(errs, errors.New("terminal node set is empty"))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("graph build failed: %w", errors.Join(errs...))
	}

	return &Graph{
		nodes:     b.nodes,
		order:     b.order,
		edges:     edges,
		start:     b.start,
		terminals: terminals,
		logger:    b.logger,
		hooks:     b.hooks,
	}, nil
}

// applyEndSentinel collapses an edge whose only target is the "end" sentinel
// into a terminal marker on the from-node. Mixed candidate lists keep the
// sentinel: a router choosing it finishes the run at the transition point.
func (b *Builder) applyEndSentinel(edge Edge, terminals map[string]struct{}) bool {
	if len(edge.To) != 1 || edge.To[0] != End {
		return false
	}
	terminals[edge.From] = struct{}{}
	return true
}
