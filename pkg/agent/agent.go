// Package agent implements the LLM-backed node variant: a named unit that
// wraps a model client, an optional tool set and a reasoning strategy, and
// resolves its prompt variables from the values supplied to each run.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ariumhq/arium/internal/logging"
	"github.com/ariumhq/arium/pkg/domain"
	"github.com/ariumhq/arium/pkg/ports"
	"github.com/ariumhq/arium/pkg/tools"
	"github.com/ariumhq/arium/pkg/variables"
)

// Strategy selects the reasoning preamble prepended to the agent's job.
type Strategy string

const (
	// StrategyDirect answers without any scaffolding.
	StrategyDirect Strategy = "direct"
	// StrategyChainOfThought asks the model to reason step by step before
	// answering.
	StrategyChainOfThought Strategy = "chain_of_thought"
	// StrategyReAct interleaves thought, tool action and observation until
	// the model can answer.
	StrategyReAct Strategy = "react"
)

const defaultMaxTurns = 10

// Agent is a Node that delegates its work to a language model, optionally
// invoking tools in an internal multi-turn loop.
type Agent struct {
	name     string
	job      string
	model    ports.ModelClient
	tools    *tools.Registry
	strategy Strategy
	maxTurns int
	planOut  bool
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

var (
	_ ports.Node             = (*Agent)(nil)
	_ ports.VariableRequirer = (*Agent)(nil)
)

// Option configures an Agent.
type Option func(*Agent)

// WithTools attaches a tool registry. The agent offers every registered tool
// to the model and executes requested calls itself.
func WithTools(reg *tools.Registry) Option {
	return func(a *Agent) { a.tools = reg }
}

// WithStrategy selects the reasoning strategy. Defaults to StrategyDirect.
func WithStrategy(s Strategy) Option {
	return func(a *Agent) { a.strategy = s }
}

// WithMaxTurns caps the internal tool loop.
func WithMaxTurns(n int) Option {
	return func(a *Agent) { a.maxTurns = n }
}

// WithPlanOutput makes the agent parse its final answer as an ExecutionPlan
// and install it into the run's plan-aware Memory. Used for planner nodes in
// plan-execute workflows.
func WithPlanOutput() Option {
	return func(a *Agent) { a.planOut = true }
}

// WithLogger configures a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) { a.logger = logger }
}

// WithHooks wires lifecycle hooks for tool call observability.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Agent) { a.hooks = hooks }
}

// New creates an agent. The job is the agent's prompt and may reference
// <name> placeholders supplied at run start.
func New(name, job string, model ports.ModelClient, opts ...Option) *Agent {
	a := &Agent{
		name:     name,
		job:      job,
		model:    model,
		strategy: StrategyDirect,
		maxTurns: defaultMaxTurns,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the agent's node name.
func (a *Agent) Name() string { return a.name }

// RequiredVariables returns the placeholders referenced by the agent's job.
func (a *Agent) RequiredVariables() []string {
	return variables.Extract(a.job)
}

// Run resolves the prompt against the call's variables, then loops model
// calls and tool executions until the model produces a final answer or the
// turn cap is hit.
func (a *Agent) Run(ctx context.Context, call ports.NodeCall) ([]domain.Message, error) {
	system, err := variables.Resolve(a.job, call.Variables)
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", a.name, err)
	}
	if preamble := a.strategy.preamble(); preamble != "" {
		system = system + "\n\n" + preamble
	}

	var specs []ports.ToolSpec
	if a.tools != nil {
		var err error
		specs, err = a.tools.Specs()
		if err != nil {
			return nil, fmt.Errorf("agent %s: %w", a.name, err)
		}
	}

	msgs := append([]domain.Message(nil), call.Inputs...)

	for turn := 0; turn < a.maxTurns; turn++ {
		resp, err := a.model.Complete(ctx, ports.ModelRequest{
			System:   system,
			Messages: msgs,
			Tools:    specs,
		})
		if err != nil {
			return nil, fmt.Errorf("agent %s: model call failed: %w", a.name, err)
		}

		if len(resp.ToolCalls) == 0 {
			out := domain.NewAssistantMessage(resp.Content)
			if a.planOut {
				if err := a.installPlan(call.Memory, resp.Content); err != nil {
					return nil, fmt.Errorf("agent %s: %w", a.name, err)
				}
			}
			return []domain.Message{out}, nil
		}

		if resp.Content != "" {
			msgs = append(msgs, domain.NewAssistantMessage(resp.Content))
		}
		for _, tc := range resp.ToolCalls {
			result := a.executeTool(ctx, tc)
			msgs = append(msgs, domain.NewToolMessage(tc.Name, tc.ID, result))
		}
	}

	return nil, fmt.Errorf("agent %s: tool loop did not converge after %d turns", a.name, a.maxTurns)
}

func (a *Agent) executeTool(ctx context.Context, call ports.ToolCall) string {
	a.hooks.EmitToolCall(ctx, a.name, call.Name, call.Arguments)

	if a.tools == nil {
		a.hooks.EmitToolReturn(ctx, a.name, call.Name, nil, true)
		return fmt.Sprintf("error: agent has no tools, cannot call %s", call.Name)
	}

	out, err := a.tools.Execute(ctx, call.Name, call.Arguments)
	if err != nil {
		a.logger.Warn("tool execution failed", "agent", a.name, "tool", call.Name, "err", err)
		a.hooks.EmitToolReturn(ctx, a.name, call.Name, nil, true)
		return "error: " + err.Error()
	}
	a.hooks.EmitToolReturn(ctx, a.name, call.Name, out, false)

	switch v := out.(type) {
	case string:
		return v
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(raw)
	}
}
