package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariumhq/arium"
	"github.com/ariumhq/arium/internal/metrics"
	adapter "github.com/ariumhq/arium/pkg/adapters/http"
	"github.com/ariumhq/arium/pkg/adapters/inmemory"
	"github.com/ariumhq/arium/pkg/domain"
	"github.com/ariumhq/arium/pkg/node"
)

func buildEchoWorkflow(t *testing.T) *arium.Graph {
	t.Helper()
	echo := node.NewFunction("echo", func(ctx context.Context, call node.CallContext) (any, error) {
		var parts []string
		for _, m := range call.Inputs {
			if m.Role == domain.RoleUser {
				parts = append(parts, m.Content)
			}
		}
		return "echo: " + strings.Join(parts, " | "), nil
	})

	g, err := arium.New().
		AddNode(echo).
		AddEdge("echo", arium.End).
		Start("echo").
		Build()
	require.NoError(t, err)
	return g
}

func buildVarWorkflow(t *testing.T) *arium.Graph {
	t.Helper()
	greet := node.NewFunction("greet", func(ctx context.Context, call node.CallContext) (any, error) {
		return "hello " + call.Variables["name"], nil
	})

	g, err := arium.New().
		AddNode(greet).
		AddEdge("greet", arium.End).
		Start("greet").
		Build()
	require.NoError(t, err)
	return g
}

func postRun(t *testing.T, h http.Handler, workflow string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/workflows/"+workflow+"/runs", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_RunWorkflow(t *testing.T) {
	h := adapter.NewHandler(map[string]*arium.Graph{"echo": buildEchoWorkflow(t)})

	rec := postRun(t, h, "echo", map[string]any{"inputs": []string{"hello"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Output   string           `json:"output"`
		Messages []domain.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "echo: hello", resp.Output)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "echo", resp.Messages[1].Node())
}

func TestServer_RunUnknownWorkflow(t *testing.T) {
	h := adapter.NewHandler(map[string]*arium.Graph{})

	rec := postRun(t, h, "ghost", map[string]any{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_MissingVariableIsBadRequest(t *testing.T) {
	greeter := buildVarWorkflow(t)

	// Seed an input placeholder so the preflight has something to reject.
	h := adapter.NewHandler(map[string]*arium.Graph{"greet": greeter})
	rec := postRun(t, h, "greet", map[string]any{
		"inputs": []string{"greet <who>"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing variable values")
}

func TestServer_SessionContinuation(t *testing.T) {
	store := inmemory.NewStore()
	h := adapter.NewHandler(
		map[string]*arium.Graph{"echo": buildEchoWorkflow(t)},
		adapter.WithStore(store),
	)

	rec := postRun(t, h, "echo", map[string]any{
		"inputs": []string{"first"}, "session_id": "s1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postRun(t, h, "echo", map[string]any{
		"inputs": []string{"second"}, "session_id": "s1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Output   string           `json:"output"`
		Messages []domain.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// The second run sees the whole stored conversation.
	assert.Equal(t, "echo: first | second", resp.Output)
	assert.Len(t, resp.Messages, 4)

	msgs, err := store.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, msgs, 4)
}

func TestServer_SessionWithoutStore(t *testing.T) {
	h := adapter.NewHandler(map[string]*arium.Graph{"echo": buildEchoWorkflow(t)})

	rec := postRun(t, h, "echo", map[string]any{
		"inputs": []string{"x"}, "session_id": "s1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_GraphEndpoint(t *testing.T) {
	h := adapter.NewHandler(map[string]*arium.Graph{"echo": buildEchoWorkflow(t)})

	req := httptest.NewRequest(http.MethodGet, "/v1/workflows/echo/graph", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "graph TD")
	assert.Contains(t, rec.Body.String(), "echo")
}

func TestServer_HealthAndMetrics(t *testing.T) {
	collector := metrics.NewCollector()
	h := adapter.NewHandler(
		map[string]*arium.Graph{},
		adapter.WithMetricsHandler(collector.Handler()),
	)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_ListWorkflows(t *testing.T) {
	h := adapter.NewHandler(map[string]*arium.Graph{
		"echo":  buildEchoWorkflow(t),
		"greet": buildVarWorkflow(t),
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/workflows/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Workflows []string `json:"workflows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"echo", "greet"}, resp.Workflows)
}
