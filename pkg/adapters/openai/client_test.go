package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariumhq/arium/pkg/domain"
	"github.com/ariumhq/arium/pkg/ports"
)

func newTestServer(t *testing.T, handler func(req chatRequest) any) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(handler(req)))
	}))
	t.Cleanup(srv.Close)

	client := New(
		WithAPIKey("test-key"),
		WithBaseURL(srv.URL),
		WithModel("test-model"),
	)
	return srv, client
}

func TestClient_Complete(t *testing.T) {
	_, client := newTestServer(t, func(req chatRequest) any {
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "be brief", req.Messages[0].Content)

		return map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "done"}},
			},
		}
	})

	resp, err := client.Complete(context.Background(), ports.ModelRequest{
		System:   "be brief",
		Messages: []domain.Message{domain.NewUserMessage("hello")},
	})
	require.NoError(t, err)
	assert.Equal(t, "done", resp.Content)
	assert.Empty(t, resp.ToolCalls)
}

func TestClient_ToolCallMapping(t *testing.T) {
	_, client := newTestServer(t, func(req chatRequest) any {
		require.Len(t, req.Tools, 1)
		assert.Equal(t, "search", req.Tools[0].Function.Name)

		return map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{
					"role": "assistant",
					"tool_calls": []map[string]any{
						{
							"id":   "call_1",
							"type": "function",
							"function": map[string]any{
								"name":      "search",
								"arguments": `{"query": "weather"}`,
							},
						},
					},
				}},
			},
		}
	})

	resp, err := client.Complete(context.Background(), ports.ModelRequest{
		Messages: []domain.Message{domain.NewUserMessage("weather?")},
		Tools:    []ports.ToolSpec{{Name: "search", Description: "web search"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "call_1", resp.ToolCalls[0].ID)
	assert.Equal(t, map[string]any{"query": "weather"}, resp.ToolCalls[0].Arguments)
}

func TestClient_RepairsMalformedArguments(t *testing.T) {
	_, client := newTestServer(t, func(req chatRequest) any {
		return map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{
					"role": "assistant",
					"tool_calls": []map[string]any{
						{
							"id":   "call_1",
							"type": "function",
							"function": map[string]any{
								"name":      "search",
								"arguments": `{"query": "weather",}`,
							},
						},
					},
				}},
			},
		}
	})

	resp, err := client.Complete(context.Background(), ports.ModelRequest{
		Messages: []domain.Message{domain.NewUserMessage("weather?")},
	})
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "weather", resp.ToolCalls[0].Arguments["query"])
}

func TestClient_ToolResultCarriesCallID(t *testing.T) {
	_, client := newTestServer(t, func(req chatRequest) any {
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "tool", req.Messages[0].Role)
		assert.Equal(t, "call_7", req.Messages[0].ToolCallID)

		return map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "ok"}},
			},
		}
	})

	_, err := client.Complete(context.Background(), ports.ModelRequest{
		Messages: []domain.Message{domain.NewToolMessage("search", "call_7", "sunny")},
	})
	require.NoError(t, err)
}

func TestClient_APIError(t *testing.T) {
	_, client := newTestServer(t, func(req chatRequest) any {
		return map[string]any{
			"error": map[string]any{"message": "model overloaded"},
		}
	})

	_, err := client.Complete(context.Background(), ports.ModelRequest{
		Messages: []domain.Message{domain.NewUserMessage("hi")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestClient_MissingAPIKey(t *testing.T) {
	client := New(WithAPIKey(""), WithBaseURL("http://localhost:0"))

	_, err := client.Complete(context.Background(), ports.ModelRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}
