// Package http exposes compiled workflows over a JSON API: run a workflow
// (optionally continuing a stored session), inspect its graph, health and
// metrics.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ariumhq/arium"
	"github.com/ariumhq/arium/internal/logging"
	"github.com/ariumhq/arium/internal/presentation/graph"
	"github.com/ariumhq/arium/pkg/domain"
	"github.com/ariumhq/arium/pkg/memory"
	"github.com/ariumhq/arium/pkg/ports"
)

// Server serves a named set of compiled workflows.
type Server struct {
	workflows map[string]*arium.Graph
	store     ports.ConversationStore
	metrics   http.Handler
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables session persistence: runs carrying a session_id continue
// the stored conversation.
func WithStore(store ports.ConversationStore) Option {
	return func(s *Server) { s.store = store }
}

// WithMetricsHandler mounts a /metrics endpoint.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger configures a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewHandler creates the HTTP handler for the given workflows.
func NewHandler(workflows map[string]*arium.Graph, opts ...Option) http.Handler {
	s := &Server{
		workflows: workflows,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Route("/v1/workflows", func(r chi.Router) {
		r.Get("/", s.listWorkflows)
		r.Get("/{name}/graph", s.getGraph)
		r.Post("/{name}/runs", s.runWorkflow)
	})
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type runRequest struct {
	Inputs    []string          `json:"inputs"`
	Variables map[string]string `json:"variables"`
	SessionID string            `json:"session_id"`
}

type runResponse struct {
	SessionID string           `json:"session_id,omitempty"`
	Output    string           `json:"output"`
	Messages  []domain.Message `json:"messages"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listWorkflows(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.workflows))
	for name := range s.workflows {
		names = append(names, name)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"workflows": names})
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	g, ok := s.workflows[chi.URLParam(r, "name")]
	if !ok {
		http.Error(w, "workflow not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(g, nil))
}

func (s *Server) runWorkflow(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	g, ok := s.workflows[name]
	if !ok {
		http.Error(w, "workflow not found", http.StatusNotFound)
		return
	}

	var body runRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		s.logger.Warn("run: invalid request body", "workflow", name, "err", err)
		return
	}
	if body.SessionID != "" && s.store == nil {
		http.Error(w, "session persistence is not configured", http.StatusBadRequest)
		return
	}

	mem := memory.NewPlanLog()
	if body.SessionID != "" {
		prior, err := s.store.Load(r.Context(), body.SessionID)
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			// First request of the session.
		case err != nil:
			http.Error(w, "failed to load session", http.StatusInternalServerError)
			s.logger.Error("run: session load failed", "session", body.SessionID, "err", err)
			return
		default:
			mem.Append(prior...)
		}
	}

	inputs := make([]domain.Message, 0, len(body.Inputs))
	for _, in := range body.Inputs {
		inputs = append(inputs, domain.NewUserMessage(in))
	}

	msgs, err := g.Run(r.Context(), inputs, body.Variables, arium.WithMemory(mem))
	if err != nil {
		status := http.StatusInternalServerError
		var verr *domain.VariableError
		var cerr *domain.ConfigError
		if errors.As(err, &verr) || errors.As(err, &cerr) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		s.logger.Error("run: workflow failed", "workflow", name, "err", err)
		return
	}

	if body.SessionID != "" {
		if err := s.store.Save(r.Context(), body.SessionID, msgs); err != nil {
			http.Error(w, "failed to save session", http.StatusInternalServerError)
			s.logger.Error("run: session save failed", "session", body.SessionID, "err", err)
			return
		}
	}

	resp := runResponse{SessionID: body.SessionID, Messages: msgs}
	if len(msgs) > 0 {
		resp.Output = msgs[len(msgs)-1].Content
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("response encode failed", "err", err)
	}
}
