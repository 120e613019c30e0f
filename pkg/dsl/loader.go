package dsl

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/mitchellh/mapstructure"

	"github.com/ariumhq/arium"
	"github.com/ariumhq/arium/internal/logging"
	"github.com/ariumhq/arium/pkg/agent"
	"github.com/ariumhq/arium/pkg/domain"
	"github.com/ariumhq/arium/pkg/node"
	"github.com/ariumhq/arium/pkg/ports"
	"github.com/ariumhq/arium/pkg/router"
	"github.com/ariumhq/arium/pkg/tools"
)

// Resolver supplies the live implementations the YAML refers to by name.
type Resolver struct {
	// Models maps model names to clients, for agents and model-backed routers.
	Models map[string]ports.ModelClient
	// Functions maps callable names used by function_nodes.
	Functions map[string]node.Func
	// Tools maps tool names agents may list.
	Tools map[string]tools.Tool
	// Nodes are pre-built nodes registered under their own names, usable as
	// iterator targets and workflow nodes alongside the declared ones.
	Nodes []ports.Node

	Logger *slog.Logger
	Hooks  domain.LifecycleHooks
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return logging.NewNop()
	}
	return r.Logger
}

// Load reads, parses and compiles a workflow definition file. Nested arium
// file references resolve relative to the file's directory.
func Load(path string, res *Resolver) (*arium.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow definition: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return compile(cfg, res, filepath.Dir(path))
}

// Compile turns a parsed definition into an executable graph.
func Compile(cfg *Config, res *Resolver) (*arium.Graph, error) {
	return compile(cfg, res, ".")
}

func compile(cfg *Config, res *Resolver, baseDir string) (*arium.Graph, error) {
	c := &compiler{
		res:     res,
		baseDir: baseDir,
		nodes:   make(map[string]ports.Node),
		routers: make(map[string]ports.Router),
	}
	return c.compile(cfg)
}

type compiler struct {
	res     *Resolver
	baseDir string
	nodes   map[string]ports.Node
	order   []string
	routers map[string]ports.Router
}

func (c *compiler) compile(cfg *Config) (*arium.Graph, error) {
	for _, n := range c.res.Nodes {
		c.add(n)
	}

	if err := c.buildAgents(cfg.Agents); err != nil {
		return nil, err
	}
	if err := c.buildFunctions(cfg.FunctionNodes); err != nil {
		return nil, err
	}
	if err := c.buildAriums(cfg.Ariums); err != nil {
		return nil, err
	}
	if err := c.buildIterators(cfg.Iterators); err != nil {
		return nil, err
	}
	if err := c.buildRouters(cfg.Routers); err != nil {
		return nil, err
	}

	return c.buildWorkflow(cfg.Workflow)
}

func (c *compiler) add(n ports.Node) {
	if _, exists := c.nodes[n.Name()]; !exists {
		c.order = append(c.order, n.Name())
	}
	c.nodes[n.Name()] = n
}

func (c *compiler) buildAgents(cfgs []AgentConfig) error {
	for _, ac := range cfgs {
		model, ok := c.res.Models[ac.Model]
		if !ok {
			return &domain.ConfigError{Kind: "model", Ref: ac.Model, Valid: sortedKeys(c.res.Models)}
		}

		opts := []agent.Option{agent.WithLogger(c.res.logger()), agent.WithHooks(c.res.Hooks)}

		switch agent.Strategy(ac.Strategy) {
		case agent.StrategyDirect, "":
		case agent.StrategyChainOfThought, agent.StrategyReAct:
			opts = append(opts, agent.WithStrategy(agent.Strategy(ac.Strategy)))
		default:
			return &domain.ConfigError{
				Kind: "strategy",
				Ref:  ac.Strategy,
				Valid: []string{
					string(agent.StrategyDirect),
					string(agent.StrategyChainOfThought),
					string(agent.StrategyReAct),
				},
			}
		}

		if len(ac.Tools) > 0 {
			reg := tools.NewRegistry()
			for _, name := range ac.Tools {
				t, ok := c.res.Tools[name]
				if !ok {
					return &domain.ConfigError{Kind: "tool", Ref: name, Valid: sortedKeys(c.res.Tools)}
				}
				reg.Register(t)
			}
			opts = append(opts, agent.WithTools(reg))
		}
		if ac.MaxTurns > 0 {
			opts = append(opts, agent.WithMaxTurns(ac.MaxTurns))
		}
		if ac.PlanOutput {
			opts = append(opts, agent.WithPlanOutput())
		}

		c.add(agent.New(ac.Name, ac.Job, model, opts...))
	}
	return nil
}

func (c *compiler) buildFunctions(cfgs []FunctionConfig) error {
	for _, fc := range cfgs {
		fn, ok := c.res.Functions[fc.Function]
		if !ok {
			return &domain.ConfigError{Kind: "function", Ref: fc.Function, Valid: sortedKeys(c.res.Functions)}
		}

		opts := []node.FunctionOption{node.WithDescription(fc.Description)}
		switch node.InputFilter(fc.InputFilter) {
		case node.FilterAll, "":
		case node.FilterLast, node.FilterUser:
			opts = append(opts, node.WithInputFilter(node.InputFilter(fc.InputFilter)))
		default:
			return &domain.ConfigError{
				Kind:  "input filter",
				Ref:   fc.InputFilter,
				Valid: []string{string(node.FilterAll), string(node.FilterLast), string(node.FilterUser)},
			}
		}

		c.add(node.NewFunction(fc.Name, fn, opts...))
	}
	return nil
}

func (c *compiler) buildAriums(cfgs []AriumConfig) error {
	for _, nc := range cfgs {
		var (
			nested  *Config
			baseDir = c.baseDir
		)
		switch {
		case nc.File != "" && nc.Definition != nil:
			return fmt.Errorf("arium %q declares both file and definition", nc.Name)
		case nc.File != "":
			path := nc.File
			if !filepath.IsAbs(path) {
				path = filepath.Join(c.baseDir, path)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("arium %q: failed to read definition: %w", nc.Name, err)
			}
			nested, err = Parse(data)
			if err != nil {
				return fmt.Errorf("arium %q: %w", nc.Name, err)
			}
			baseDir = filepath.Dir(path)
		case nc.Definition != nil:
			nested = nc.Definition
		default:
			return fmt.Errorf("arium %q declares neither file nor definition", nc.Name)
		}

		sub, err := compile(nested, c.res, baseDir)
		if err != nil {
			return fmt.Errorf("arium %q: %w", nc.Name, err)
		}

		var opts []arium.GraphNodeOption
		if nc.InheritVariables {
			opts = append(opts, arium.WithInheritVariables())
		}
		c.add(arium.NewGraphNode(nc.Name, sub, opts...))
	}
	return nil
}

func (c *compiler) buildIterators(cfgs []IteratorConfig) error {
	for _, ic := range cfgs {
		target, ok := c.nodes[ic.Node]
		if !ok {
			return &domain.ConfigError{Kind: "iterator target", Ref: ic.Node, Valid: c.declared()}
		}

		var opts []node.ForEachOption
		if ic.FreshMemory {
			opts = append(opts, node.WithFreshMemory())
		}
		c.add(node.NewForEach(ic.Name, target, opts...))
	}
	return nil
}

func (c *compiler) buildRouters(cfgs []RouterConfig) error {
	for _, rc := range cfgs {
		r, err := c.buildRouter(rc)
		if err != nil {
			return err
		}
		c.routers[rc.Name] = r
	}
	return nil
}

func (c *compiler) buildRouter(rc RouterConfig) (ports.Router, error) {
	switch rc.Type {
	case "smart":
		var p struct {
			Model      string
			Candidates []router.Candidate
			Fallback   string
		}
		if err := c.decodeParams(rc, &p); err != nil {
			return nil, err
		}
		model, ok := c.res.Models[p.Model]
		if !ok {
			return nil, &domain.ConfigError{Kind: "model", Ref: p.Model, Valid: sortedKeys(c.res.Models)}
		}
		opts := []router.SmartOption{router.WithSmartLogger(c.res.logger())}
		switch router.FallbackPolicy(p.Fallback) {
		case "":
		case router.FallbackFirst, router.FallbackLast, router.FallbackRandom:
			opts = append(opts, router.WithFallback(router.FallbackPolicy(p.Fallback)))
		default:
			return nil, &domain.ConfigError{
				Kind: "fallback policy",
				Ref:  p.Fallback,
				Valid: []string{
					string(router.FallbackFirst),
					string(router.FallbackLast),
					string(router.FallbackRandom),
				},
			}
		}
		return router.NewSmart(model, p.Candidates, opts...), nil

	case "classifier":
		var p struct {
			Model      string
			Categories []router.Category
		}
		if err := c.decodeParams(rc, &p); err != nil {
			return nil, err
		}
		model, ok := c.res.Models[p.Model]
		if !ok {
			return nil, &domain.ConfigError{Kind: "model", Ref: p.Model, Valid: sortedKeys(c.res.Models)}
		}
		return router.NewClassifier(model, p.Categories,
			router.WithClassifierLogger(c.res.logger())), nil

	case "reflection":
		var p struct {
			Pattern   []string
			Final     string
			EarlyExit string `mapstructure:"early_exit"`
		}
		if err := c.decodeParams(rc, &p); err != nil {
			return nil, err
		}
		var opts []router.ReflectionOption
		if p.Final != "" {
			opts = append(opts, router.WithFinal(p.Final))
		}
		if p.EarlyExit != "" {
			opts = append(opts, router.WithEarlyExit(p.EarlyExit))
		}
		return router.NewReflection(p.Pattern, opts...), nil

	case "plan_execute":
		var p struct {
			Planner  string
			Reviewer string
		}
		if err := c.decodeParams(rc, &p); err != nil {
			return nil, err
		}
		if p.Planner == "" || p.Reviewer == "" {
			return nil, fmt.Errorf("router %q: plan_execute requires planner and reviewer", rc.Name)
		}
		return router.NewPlanExecute(p.Planner, p.Reviewer), nil

	default:
		return nil, &domain.ConfigError{
			Kind:  "router type",
			Ref:   rc.Type,
			Valid: []string{"smart", "classifier", "reflection", "plan_execute"},
		}
	}
}

func (c *compiler) decodeParams(rc RouterConfig, out any) error {
	if err := mapstructure.Decode(rc.Params, out); err != nil {
		return fmt.Errorf("router %q: failed to decode params: %w", rc.Name, err)
	}
	return nil
}

func (c *compiler) buildWorkflow(wf WorkflowConfig) (*arium.Graph, error) {
	b := arium.New(arium.WithLogger(c.res.logger()), arium.WithHooks(c.res.Hooks))
	for _, name := range c.order {
		b.AddNode(c.nodes[name])
	}

	for _, ec := range wf.Edges {
		if ec.Router == "" {
			b.AddEdge(ec.From, ec.To...)
			continue
		}
		r, ok := c.routers[ec.Router]
		if !ok {
			return nil, &domain.ConfigError{Kind: "router", Ref: ec.Router, Valid: sortedKeys(c.routers)}
		}
		b.AddRoutedEdge(ec.From, r, ec.To...)
	}

	b.Start(wf.Start)
	if len(wf.End) > 0 {
		b.End(wf.End...)
	}
	return b.Build()
}

// declared returns the node names registered so far, in declaration order.
func (c *compiler) declared() []string {
	return append([]string(nil), c.order...)
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	return slices.Sorted(maps.Keys(m))
}
