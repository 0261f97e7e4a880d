package ports

import (
	"context"

	"github.com/javanetict/jnsuite/pkg/domain"
)

// ConversationEngine is the driving port used by transports (HTTP, MCP, terminal).
type ConversationEngine interface {
	// Turn processes one utterance for the given session.
	Turn(ctx context.Context, sessionID, message string) (*domain.Turn, error)

	// Inspect returns the catalog the engine would use right now.
	Inspect(ctx context.Context) (*domain.Catalog, error)
}

// Mailer delivers outbound notifications (contact alerts, password resets).
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
