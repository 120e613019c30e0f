// Package testutils provides shared test doubles for the engine test suites.
package testutils

import (
	"context"
	"sync"

	"github.com/ariumhq/arium/pkg/ports"
)

// ScriptedModel replays a fixed sequence of responses and records every
// request it receives. When the script is exhausted it keeps returning the
// last response.
type ScriptedModel struct {
	mu        sync.Mutex
	Responses []ports.ModelResponse
	Requests  []ports.ModelRequest
	next      int
}

var _ ports.ModelClient = (*ScriptedModel)(nil)

// NewScriptedModel creates a model double that answers with the given
// responses in order.
func NewScriptedModel(responses ...ports.ModelResponse) *ScriptedModel {
	return &ScriptedModel{Responses: responses}
}

// StaticModel creates a model double that always answers with content.
func StaticModel(content string) *ScriptedModel {
	return NewScriptedModel(ports.ModelResponse{Content: content})
}

// Complete records the request and returns the next scripted response.
func (m *ScriptedModel) Complete(ctx context.Context, req ports.ModelRequest) (*ports.ModelResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)

	idx := m.next
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	} else {
		m.next++
	}
	resp := m.Responses[idx]
	return &resp, nil
}

// Calls returns how many completions were requested.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
