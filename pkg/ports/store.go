package ports

import (
	"context"

	"github.com/javanetict/jnsuite/pkg/domain"
)

// StateStore defines the interface for persisting conversation state.
// Updates are field-wise merges; a stored state is never replaced wholesale.
type StateStore interface {
	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.SessionState, error)

	// Merge applies the delta to the stored state, creating it when absent,
	// and returns the merged result.
	Merge(ctx context.Context, sessionID string, delta domain.StateDelta) (*domain.SessionState, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of known sessions.
	List(ctx context.Context) ([]string, error)
}

// SessionRepository is the engine-facing view of session persistence.
type SessionRepository interface {
	// LoadOrCreate returns the stored state, creating an empty one when absent.
	LoadOrCreate(ctx context.Context, sessionID string) (domain.StateLookup, error)

	// Merge applies a delta to the session state.
	Merge(ctx context.Context, sessionID string, delta domain.StateDelta) (*domain.SessionState, error)
}

// MessageLog is the append-only per-session conversation history.
type MessageLog interface {
	// Append records a message at the end of the session history.
	Append(ctx context.Context, msg domain.Message) error

	// History returns the messages of a session in insertion order.
	History(ctx context.Context, sessionID string) ([]domain.Message, error)
}
