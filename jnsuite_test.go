package jnsuite_test

import (
	"context"
	"testing"

	"github.com/javanetict/jnsuite"
	"github.com/javanetict/jnsuite/pkg/adapters/memory"
	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	engine, err := jnsuite.New()
	require.NoError(t, err)
	ctx := context.Background()

	c, err := engine.Inspect(ctx)
	require.NoError(t, err)
	assert.NotZero(t, c.Len())

	turn, err := engine.Turn(ctx, "", "We are a secondary school in Kenya")
	require.NoError(t, err)
	require.NotEmpty(t, turn.SessionID)

	state, err := engine.State(ctx, turn.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Kenya", state.UserCountry)
	assert.Equal(t, turn.Intent, state.LastIntent)
}

func TestNew_WithStoreAndHistory(t *testing.T) {
	store := memory.NewStore()
	history := memory.NewHistory()
	var turns int
	engine, err := jnsuite.New(
		jnsuite.WithStore(store),
		jnsuite.WithHistory(history),
		jnsuite.WithLifecycleHooks(domain.LifecycleHooks{
			OnTurn: func(context.Context, *domain.TurnEvent) { turns++ },
		}),
	)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = engine.Turn(ctx, "s1", "hello")
	require.NoError(t, err)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)

	msgs, err := history.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, domain.RoleBot, msgs[1].Role)
	assert.Equal(t, 1, turns)
}

func TestTurn_EmptyMessage(t *testing.T) {
	engine, err := jnsuite.New()
	require.NoError(t, err)

	_, err = engine.Turn(context.Background(), "s1", "  ")
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
}
