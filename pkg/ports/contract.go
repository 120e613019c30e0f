package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariumhq/arium/pkg/domain"
)

// RunConversationStoreContract runs a suite of tests verifying that a
// ConversationStore implementation adheres to the interface contract.
// Adapter packages call this from their own tests.
func RunConversationStoreContract(t *testing.T, store ConversationStore) {
	ctx := context.Background()
	sessionID := "contract-session-" + time.Now().Format("20060102150405")

	msgs := []domain.Message{
		domain.NewUserMessage("what is the weather in Lisbon?"),
		domain.NewAssistantMessage("Sunny, 21C.").WithMetadata(domain.MetaNode, "forecaster"),
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, msgs))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		require.Len(t, loaded, 2)
		assert.Equal(t, domain.RoleUser, loaded[0].Role)
		assert.Equal(t, "forecaster", loaded[1].Node())
	})

	t.Run("Save replaces", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, msgs[:1]))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Len(t, loaded, 1)
	})

	t.Run("Load non-existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, msgs))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, sessionID)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, msgs))
		require.NoError(t, store.Delete(ctx, sessionID))

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}
