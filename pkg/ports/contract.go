package ports

import (
	"context"
	"testing"
	"time"

	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Merge creates and Load reads", func(t *testing.T) {
		merged, err := store.Merge(ctx, sessionID, domain.StateDelta{
			LastIntent:   domain.Ptr("pricing"),
			MessageCount: domain.Ptr(1),
			UserCountry:  domain.Ptr("Nigeria"),
		})
		require.NoError(t, err, "Merge should not return error")
		assert.Equal(t, "pricing", merged.LastIntent)

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "pricing", loaded.LastIntent)
		assert.Equal(t, 1, loaded.MessageCount)
		assert.Equal(t, "Nigeria", loaded.UserCountry)
	})

	t.Run("Merge is field-wise", func(t *testing.T) {
		_, err := store.Merge(ctx, sessionID, domain.StateDelta{
			LastIntent: domain.Ptr("demo"),
			DemoShown:  domain.Ptr(true),
		})
		require.NoError(t, err)

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "demo", loaded.LastIntent)
		assert.True(t, loaded.DemoShown)
		assert.Equal(t, "Nigeria", loaded.UserCountry, "untouched fields survive a merge")
		assert.Equal(t, 1, loaded.MessageCount)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		_, err := store.Merge(ctx, sessionID, domain.StateDelta{LastIntent: domain.Ptr("greeting")})
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_, _ = store.Merge(ctx, id1, domain.StateDelta{MessageCount: domain.Ptr(1)})
		_, _ = store.Merge(ctx, id2, domain.StateDelta{MessageCount: domain.Ptr(1)})

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunMessageLogContract verifies append-only ordering of a MessageLog implementation.
func RunMessageLogContract(t *testing.T, log MessageLog) {
	ctx := context.Background()
	sessionID := "contract-log-" + time.Now().Format("20060102150405")
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Append keeps order", func(t *testing.T) {
		require.NoError(t, log.Append(ctx, domain.Message{ID: "m1", SessionID: sessionID, Role: domain.RoleUser, Content: "hi", Timestamp: base}))
		require.NoError(t, log.Append(ctx, domain.Message{ID: "m2", SessionID: sessionID, Role: domain.RoleBot, Content: "Hello!", Intent: "greeting", Timestamp: base.Add(time.Second)}))

		history, err := log.History(ctx, sessionID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "hi", history[0].Content)
		assert.Equal(t, domain.RoleUser, history[0].Role)
		assert.Equal(t, "Hello!", history[1].Content)
		assert.Equal(t, "greeting", history[1].Intent)
	})

	t.Run("Unknown session is empty", func(t *testing.T) {
		history, err := log.History(ctx, "missing-"+sessionID)
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}
