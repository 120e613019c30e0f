// Package router provides the built-in routing strategies: model-backed
// candidate selection (Smart), task classification, fixed reflection
// patterns, and plan execution over plan-aware Memory.
//
// Every router honors the engine contract: the returned name must be one of
// the candidates it was configured with. Only the smart router has a
// declared fallback for unparsable model answers; every other strategy
// surfaces an error instead of guessing.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/ariumhq/arium/internal/logging"
	"github.com/ariumhq/arium/pkg/domain"
	"github.com/ariumhq/arium/pkg/ports"
)

// FallbackPolicy picks a candidate when the smart router cannot parse the
// model's answer.
type FallbackPolicy string

const (
	FallbackFirst  FallbackPolicy = "first"
	FallbackLast   FallbackPolicy = "last"
	FallbackRandom FallbackPolicy = "random"
)

// Candidate pairs a node name with the natural-language description shown to
// the model.
type Candidate struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Description string `yaml:"description" mapstructure:"description"`
}

// contextWindow bounds how much recent conversation the model sees.
const contextWindow = 6

// Smart asks the model to pick the next node from the candidate
// descriptions, forcing a single-name answer.
type Smart struct {
	model      ports.ModelClient
	candidates []Candidate
	fallback   FallbackPolicy
	logger     *slog.Logger
}

var _ ports.Router = (*Smart)(nil)

// SmartOption configures a Smart router.
type SmartOption func(*Smart)

// WithFallback sets the policy applied to unparsable answers.
// Defaults to FallbackFirst.
func WithFallback(p FallbackPolicy) SmartOption {
	return func(s *Smart) { s.fallback = p }
}

// WithSmartLogger configures a logger.
func WithSmartLogger(logger *slog.Logger) SmartOption {
	return func(s *Smart) { s.logger = logger }
}

// NewSmart creates a smart router over the given candidates.
func NewSmart(model ports.ModelClient, candidates []Candidate, opts ...SmartOption) *Smart {
	s := &Smart{
		model:      model,
		candidates: candidates,
		fallback:   FallbackFirst,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Route asks the model for a single candidate name. An unparsable answer
// falls back to the configured policy; this is the one sanctioned deviation
// from strict candidate enforcement.
func (s *Smart) Route(ctx context.Context, mem ports.MemoryReader) (string, error) {
	if len(s.candidates) == 0 {
		return "", fmt.Errorf("smart router has no candidates")
	}

	var sb strings.Builder
	sb.WriteString("Pick the next step for this conversation. Options:\n")
	for _, c := range s.candidates {
		fmt.Fprintf(&sb, "- %s: %s\n", c.Name, c.Description)
	}
	sb.WriteString("Answer with exactly one option name and nothing else.")

	resp, err := s.model.Complete(ctx, ports.ModelRequest{
		System:   sb.String(),
		Messages: tail(mem.Messages(), contextWindow),
	})
	if err != nil {
		return "", fmt.Errorf("smart router: model call failed: %w", err)
	}

	if name, ok := s.parse(resp.Content); ok {
		return name, nil
	}

	choice := s.fallbackCandidate()
	s.logger.Warn("smart router could not parse model answer, using fallback",
		"answer", resp.Content, "policy", string(s.fallback), "candidate", choice)
	return choice, nil
}

// parse accepts an exact candidate name, or an answer mentioning exactly one
// candidate.
func (s *Smart) parse(answer string) (string, bool) {
	cleaned := strings.ToLower(strings.Trim(strings.TrimSpace(answer), `"'.`))
	for _, c := range s.candidates {
		if cleaned == strings.ToLower(c.Name) {
			return c.Name, true
		}
	}

	var mentioned []string
	for _, c := range s.candidates {
		if strings.Contains(cleaned, strings.ToLower(c.Name)) {
			mentioned = append(mentioned, c.Name)
		}
	}
	if len(mentioned) == 1 {
		return mentioned[0], true
	}
	return "", false
}

func (s *Smart) fallbackCandidate() string {
	switch s.fallback {
	case FallbackLast:
		return s.candidates[len(s.candidates)-1].Name
	case FallbackRandom:
		return s.candidates[rand.Intn(len(s.candidates))].Name
	default:
		return s.candidates[0].Name
	}
}

// tail returns the last n messages.
func tail(msgs []domain.Message, n int) []domain.Message {
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}
