// Package tools manages the callable tools an Agent may offer to its model.
// Tool argument contracts are expressed as OpenAPI schemas and enforced
// before the implementation runs, so malformed model output never reaches a
// tool function.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/ariumhq/arium/pkg/ports"
)

// Function is the signature of a tool implementation.
type Function func(ctx context.Context, args map[string]any) (any, error)

// Tool couples a name and description (shown to the model) with an argument
// schema and the implementation.
type Tool struct {
	Name        string
	Description string
	// Parameters describes the argument object. A nil schema skips validation.
	Parameters *openapi3.Schema
	Fn         Function
}

// Registry manages the available tools.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry.
// If a tool with the same name exists, it is overwritten.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Specs renders the registered tools as model-facing specifications, in
// registration order. Schemas are serialized to plain JSON-Schema maps.
func (r *Registry) Specs() ([]ports.ToolSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]ports.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		spec := ports.ToolSpec{Name: t.Name, Description: t.Description}
		if t.Parameters != nil {
			raw, err := t.Parameters.MarshalJSON()
			if err != nil {
				return nil, fmt.Errorf("tool %s: marshal parameter schema: %w", name, err)
			}
			var params map[string]any
			if err := json.Unmarshal(raw, &params); err != nil {
				return nil, fmt.Errorf("tool %s: decode parameter schema: %w", name, err)
			}
			spec.Parameters = params
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Execute validates args against the tool's parameter schema and runs the
// implementation. Returns an error if the tool is not found or the arguments
// do not conform.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("tool not found: %s", name)
	}

	if t.Parameters != nil {
		if args == nil {
			args = map[string]any{}
		}
		if err := t.Parameters.VisitJSON(args); err != nil {
			return nil, fmt.Errorf("tool %s: invalid arguments: %w", name, err)
		}
	}

	return t.Fn(ctx, args)
}
