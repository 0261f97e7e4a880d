package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/javanetict/jnsuite/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// History implements ports.MessageLog with one Redis list per session.
type History struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// NewHistory creates a message log. A zero ttl keeps history forever.
func NewHistory(client *backend.Client, prefix string, ttl time.Duration) *History {
	return &History{client: client, prefix: prefix, ttl: ttl}
}

func (h *History) key(sessionID string) string {
	return h.prefix + "messages:" + sessionID
}

// Append pushes the message to the tail of the session list.
func (h *History) Append(ctx context.Context, msg domain.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	pipe := h.client.TxPipeline()
	pipe.RPush(ctx, h.key(msg.SessionID), data)
	if h.ttl > 0 {
		pipe.Expire(ctx, h.key(msg.SessionID), h.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// History returns the session messages in insertion order.
func (h *History) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	raw, err := h.client.LRange(ctx, h.key(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	out := make([]domain.Message, 0, len(raw))
	for _, item := range raw {
		var msg domain.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}
		out = append(out, msg)
	}
	return out, nil
}
