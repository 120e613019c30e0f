package ports

import (
	"context"

	"github.com/ariumhq/arium/pkg/domain"
)

// ToolSpec describes a tool offered to the model.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	// Parameters is a JSON-Schema object describing the arguments.
	Parameters map[string]any `json:"parameters,omitempty"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ModelRequest is a single completion request.
type ModelRequest struct {
	System   string
	Messages []domain.Message
	Tools    []ToolSpec
}

// ModelResponse is the model's answer: free text, tool calls, or both.
type ModelResponse struct {
	Content   string
	ToolCalls []ToolCall
}

// ModelClient abstracts a language-model backend. Implementations live in
// adapters; the engine and routers only ever see this interface. Retries for
// transient failures belong behind this boundary, not in the engine.
type ModelClient interface {
	Complete(ctx context.Context, req ModelRequest) (*ModelResponse, error)
}
