package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter  EventType = "node_enter"
	EventNodeLeave  EventType = "node_leave"
	EventRoute      EventType = "route"
	EventToolCall   EventType = "tool_call"
	EventToolReturn EventType = "tool_return"
)

// NodeEvent marks entry to or exit from a node during traversal.
type NodeEvent struct {
	Type     EventType     `json:"type"`
	Node     string        `json:"node"`
	Duration time.Duration `json:"duration,omitempty"` // set on leave
	Err      error         `json:"-"`                  // set on leave when the node failed
}

// RouteEvent records a resolved transition.
type RouteEvent struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	Candidates []string `json:"candidates"`
	Routed     bool     `json:"routed"` // false for unconditional single-candidate edges
}

// ToolEvent records a tool invocation inside an agent's run.
type ToolEvent struct {
	Type    EventType `json:"type"`
	Node    string    `json:"node"`
	Tool    string    `json:"tool"`
	Input   any       `json:"input,omitempty"`
	Output  any       `json:"output,omitempty"`
	IsError bool      `json:"is_error,omitempty"`
}

// LifecycleHooks defines injected callbacks for engine observability.
// There is no process-global registry: hooks are passed into the Builder and
// carried by the compiled Graph. A zero value disables everything.
type LifecycleHooks struct {
	OnNodeEnter  func(context.Context, *NodeEvent)
	OnNodeLeave  func(context.Context, *NodeEvent)
	OnRoute      func(context.Context, *RouteEvent)
	OnToolCall   func(context.Context, *ToolEvent)
	OnToolReturn func(context.Context, *ToolEvent)
}

// EmitNodeEnter invokes OnNodeEnter if set.
func (h LifecycleHooks) EmitNodeEnter(ctx context.Context, node string) {
	if h.OnNodeEnter != nil {
		h.OnNodeEnter(ctx, &NodeEvent{Type: EventNodeEnter, Node: node})
	}
}

// EmitNodeLeave invokes OnNodeLeave if set.
func (h LifecycleHooks) EmitNodeLeave(ctx context.Context, node string, d time.Duration, err error) {
	if h.OnNodeLeave != nil {
		h.OnNodeLeave(ctx, &NodeEvent{Type: EventNodeLeave, Node: node, Duration: d, Err: err})
	}
}

// EmitRoute invokes OnRoute if set.
func (h LifecycleHooks) EmitRoute(ctx context.Context, from, to string, candidates []string, routed bool) {
	if h.OnRoute != nil {
		h.OnRoute(ctx, &RouteEvent{From: from, To: to, Candidates: candidates, Routed: routed})
	}
}

// EmitToolCall invokes OnToolCall if set.
func (h LifecycleHooks) EmitToolCall(ctx context.Context, node, tool string, input any) {
	if h.OnToolCall != nil {
		h.OnToolCall(ctx, &ToolEvent{Type: EventToolCall, Node: node, Tool: tool, Input: input})
	}
}

// EmitToolReturn invokes OnToolReturn if set.
func (h LifecycleHooks) EmitToolReturn(ctx context.Context, node, tool string, output any, isErr bool) {
	if h.OnToolReturn != nil {
		h.OnToolReturn(ctx, &ToolEvent{Type: EventToolReturn, Node: node, Tool: tool, Output: output, IsError: isErr})
	}
}
