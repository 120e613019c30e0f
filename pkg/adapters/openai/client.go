// Package openai implements the model client port against any
// OpenAI-compatible chat-completions endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"github.com/ariumhq/arium/pkg/domain"
	"github.com/ariumhq/arium/pkg/ports"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 120 * time.Second
)

// Client implements ports.ModelClient over the chat-completions API.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

var _ ports.ModelClient = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the API key. Defaults to OPENAI_API_KEY.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithBaseURL points the client at a compatible endpoint.
// Defaults to OPENAI_API_BASE_URL, then the OpenAI API.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithModel selects the model name sent with every request.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.client = client }
}

// New creates a client configured from the environment plus options.
func New(opts ...Option) *Client {
	c := &Client{
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		baseURL: os.Getenv("OPENAI_API_BASE_URL"),
		model:   defaultModel,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []toolCall `json:"tool_calls,omitempty"`
}

type toolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function toolSpecBody `json:"function"`
}

type toolSpecBody struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Tools    []chatTool    `json:"tools,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one chat-completions request.
func (c *Client) Complete(ctx context.Context, req ports.ModelRequest) (*ports.ModelResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openai: API key is not set")
	}

	body := chatRequest{Model: c.model}
	if req.System != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, toChatMessage(m))
	}
	for _, spec := range req.Tools {
		body.Tools = append(body.Tools, chatTool{
			Type: "function",
			Function: toolSpecBody{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  spec.Parameters,
			},
		})
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("openai: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("openai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai: read response: %w", err)
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("openai: decode response (status %s): %w", httpResp.Status, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("openai: API error (status %s): %s", httpResp.Status, resp.Error.Message)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai: unexpected status %s", httpResp.Status)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: no choices in response")
	}

	msg := resp.Choices[0].Message
	out := &ports.ModelResponse{Content: msg.Content}
	for _, call := range msg.ToolCalls {
		args, err := parseArguments(call.Function.Arguments)
		if err != nil {
			return nil, fmt.Errorf("openai: tool call %s: %w", call.Function.Name, err)
		}
		out.ToolCalls = append(out.ToolCalls, ports.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: args,
		})
	}
	return out, nil
}

func toChatMessage(m domain.Message) chatMessage {
	out := chatMessage{Role: string(m.Role), Content: m.Content}
	if m.Role == domain.RoleTool {
		out.ToolCallID = m.Metadata[domain.MetaToolCallID]
	}
	return out
}

// parseArguments decodes a tool-call argument payload, repairing malformed
// JSON before giving up.
func parseArguments(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err == nil {
		return args, nil
	}

	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &args); err != nil {
		return nil, fmt.Errorf("invalid arguments after repair: %w", err)
	}
	return args, nil
}
