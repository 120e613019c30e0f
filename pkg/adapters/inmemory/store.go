// Package inmemory implements the conversation store in process memory.
// Useful for tests and single-process deployments.
package inmemory

import (
	"context"
	"sync"

	"github.com/ariumhq/arium/pkg/domain"
	"github.com/ariumhq/arium/pkg/ports"
)

// Store implements ports.ConversationStore in memory.
// Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string][]domain.Message
}

var _ ports.ConversationStore = (*Store)(nil)

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string][]domain.Message)}
}

// Save persists the messages, replacing any previous snapshot.
func (s *Store) Save(ctx context.Context, sessionID string, msgs []domain.Message) error {
	// Copy on write so the caller can't mutate stored history afterwards.
	snapshot := make([]domain.Message, len(msgs))
	copy(snapshot, msgs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = snapshot
	return nil
}

// Load retrieves the messages for a session.
func (s *Store) Load(ctx context.Context, sessionID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns the known session IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
