package memory

import (
	"context"
	"sync"

	"github.com/javanetict/jnsuite/pkg/domain"
)

// History implements ports.MessageLog in memory.
type History struct {
	mu       sync.RWMutex
	sessions map[string][]domain.Message
}

// NewHistory creates an empty message log.
func NewHistory() *History {
	return &History{sessions: make(map[string][]domain.Message)}
}

// Append records msg at the end of its session.
func (h *History) Append(ctx context.Context, msg domain.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[msg.SessionID] = append(h.sessions[msg.SessionID], msg)
	return nil
}

// History returns a copy of the session messages.
func (h *History) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	msgs := h.sessions[sessionID]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
