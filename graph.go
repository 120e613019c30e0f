package arium

import (
	"context"
	"log/slog"
	"time"

	"github.com/ariumhq/arium/pkg/domain"
	"github.com/ariumhq/arium/pkg/memory"
	"github.com/ariumhq/arium/pkg/ports"
	"github.com/ariumhq/arium/pkg/variables"
)

// End is the sentinel name used in declarative edge targets to mark the
// from-node terminal without declaring an actual edge.
const End = "end"

// Edge is a transition group: the ordered candidate targets of one from-node
// plus an optional router. With more than one candidate a router is
// mandatory; with exactly one and no router the transition is unconditional.
type Edge struct {
	From   string
	To     []string
	Router ports.Router
}

// Graph is a compiled, immutable workflow: a node registry, an edge table,
// a start node and a non-empty terminal set. Build one with a Builder (or
// the dsl loader) and execute it repeatedly with Run.
//
// Each execution runs on a single logical thread: nodes run one at a time,
// and the only suspension points are a node's own model calls or nested
// graph runs. All per-run state (Memory, nested memories, resolved prompts)
// is execution-scoped, so concurrent Run calls on one Graph are safe as long
// as each call gets its own Memory.
type Graph struct {
	nodes     map[string]ports.Node
	order     []string
	edges     map[string]Edge
	start     string
	terminals map[string]struct{}
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
}

// Start returns the declared start node name.
func (g *Graph) Start() string { return g.start }

// Terminals returns the declared terminal node names.
func (g *Graph) Terminals() []string {
	out := make([]string, 0, len(g.terminals))
	for _, name := range g.order {
		if _, ok := g.terminals[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// NodeNames returns all node names in registration order.
func (g *Graph) NodeNames() []string {
	return append([]string(nil), g.order...)
}

// Node returns the named node.
func (g *Graph) Node(name string) (ports.Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Edges returns a copy of the edge table in from-node registration order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, name := range g.order {
		if e, ok := g.edges[name]; ok {
			out = append(out, Edge{From: e.From, To: append([]string(nil), e.To...), Router: e.Router})
		}
	}
	return out
}

// RunOption configures a single execution.
type RunOption func(*runConfig)

type runConfig struct {
	mem ports.Memory
}

// WithMemory injects the Memory for this execution, e.g. to resume a stored
// conversation or to share memory deliberately. Without it each Run gets a
// fresh plan-aware log.
func WithMemory(mem ports.Memory) RunOption {
	return func(c *runConfig) { c.mem = mem }
}

// Run traverses the graph: it validates variables, seeds the inputs into
// Memory, then repeatedly runs the current node, appends its results and
// resolves the next node until a terminal node completes. It returns the
// final ordered message state.
//
// The engine retries nothing: any unrecovered node error, routing error or
// context cancellation is fatal to this call. Callers bound runaway cyclic
// workflows with a context deadline.
func (g *Graph) Run(ctx context.Context, inputs []domain.Message, vars map[string]string, opts ...RunOption) ([]domain.Message, error) {
	cfg := runConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	mem := cfg.mem
	if mem == nil {
		mem = memory.NewPlanLog()
	}

	if err := g.checkVariables(inputs, vars); err != nil {
		return nil, err
	}

	nested := ports.NewNestedMemories(func() ports.Memory { return memory.NewPlanLog() })

	mem.Append(resolveInputs(inputs, vars)...)

	current := g.start
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		node := g.nodes[current]
		g.logger.Debug("running node", "node", current)
		g.hooks.EmitNodeEnter(ctx, current)

		started := time.Now()
		out, err := node.Run(ctx, ports.NodeCall{
			Inputs:    mem.Messages(),
			Variables: vars,
			Memory:    mem,
			Nested:    nested,
		})
		g.hooks.EmitNodeLeave(ctx, current, time.Since(started), err)
		if err != nil {
			// Node errors propagate unmodified.
			return nil, err
		}

		for _, msg := range out {
			mem.Append(msg.WithMetadata(domain.MetaNode, current))
		}

		if _, terminal := g.terminals[current]; terminal {
			g.logger.Debug("terminal node completed", "node", current)
			return mem.Messages(), nil
		}

		next, err := g.next(ctx, current, mem)
		if err != nil {
			return nil, err
		}
		if next == End {
			// A router picked the end sentinel from a mixed candidate list.
			g.logger.Debug("routed to end", "node", current)
			return mem.Messages(), nil
		}
		current = next
	}
}

// next resolves the transition out of the current node.
func (g *Graph) next(ctx context.Context, current string, mem ports.MemoryReader) (string, error) {
	edge, ok := g.edges[current]
	if !ok {
		return "", &domain.RoutingError{From: current, Reason: "no outgoing edge and node is not terminal"}
	}

	if edge.Router == nil {
		// Build guarantees exactly one candidate here.
		to := edge.To[0]
		g.hooks.EmitRoute(ctx, current, to, edge.To, false)
		return to, nil
	}

	name, err := edge.Router.Route(ctx, mem)
	if err != nil {
		return "", &domain.RoutingError{From: current, Candidates: edge.To, Reason: err.Error()}
	}
	for _, candidate := range edge.To {
		if candidate == name {
			g.logger.Debug("routed", "from", current, "to", name)
			g.hooks.EmitRoute(ctx, current, name, edge.To, true)
			return name, nil
		}
	}
	return "", &domain.RoutingError{From: current, Returned: name, Candidates: edge.To}
}

// checkVariables fails the run before any node executes when a referenced
// placeholder has no value, reporting every missing name grouped by the
// requiring node.
func (g *Graph) checkVariables(inputs []domain.Message, vars map[string]string) error {
	missing := make(map[string][]string)

	for _, name := range g.order {
		requirer, ok := g.nodes[name].(ports.VariableRequirer)
		if !ok {
			continue
		}
		var unset []string
		for _, v := range requirer.RequiredVariables() {
			if _, supplied := vars[v]; !supplied {
				unset = append(unset, v)
			}
		}
		if len(unset) > 0 {
			missing[name] = unset
		}
	}

	var fromInputs []string
	for _, msg := range inputs {
		fromInputs = append(fromInputs, variables.Missing(msg.Content, vars)...)
	}
	if len(fromInputs) > 0 {
		missing["inputs"] = dedupe(fromInputs)
	}

	if len(missing) > 0 {
		return &domain.VariableError{Missing: missing}
	}
	return nil
}

// resolveInputs substitutes placeholders in the seeded inputs. Callable only
// after checkVariables passed, so resolution cannot fail here.
func resolveInputs(inputs []domain.Message, vars map[string]string) []domain.Message {
	out := make([]domain.Message, len(inputs))
	for i, msg := range inputs {
		resolved, err := variables.Resolve(msg.Content, vars)
		if err == nil {
			msg.Content = resolved
		}
		out[i] = msg
	}
	return out
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
