package ports

import (
	"context"

	"github.com/ariumhq/arium/pkg/domain"
)

// ConversationStore persists a run's message log by session ID, enabling
// multi-request conversations over stateless surfaces (HTTP, MCP).
type ConversationStore interface {
	// Save persists the messages for a given session ID, replacing any
	// previous snapshot.
	Save(ctx context.Context, sessionID string, msgs []domain.Message) error

	// Load retrieves the messages for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) ([]domain.Message, error)

	// Delete removes the session.
	Delete(ctx context.Context, sessionID string) error

	// List returns the known session IDs.
	List(ctx context.Context) ([]string, error)
}
