package sqldb

import (
	"context"

	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/javanetict/jnsuite/pkg/model"
	"gorm.io/gorm"
)

// History implements ports.MessageLog on the chat_messages table.
type History struct {
	db *gorm.DB
}

// NewHistory creates a message log.
func NewHistory(db *gorm.DB) *History {
	return &History{db: db}
}

// Append inserts a message.
func (h *History) Append(ctx context.Context, msg domain.Message) error {
	row := model.ChatMessage{
		MessageID:   msg.ID,
		SessionID:   msg.SessionID,
		MessageType: string(msg.Role),
		Content:     msg.Content,
		Intent:      msg.Intent,
		Timestamp:   msg.Timestamp,
	}
	return h.db.WithContext(ctx).Create(&row).Error
}

// History returns the session messages in insertion order.
func (h *History) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	var rows []model.ChatMessage
	err := h.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Message, len(rows))
	for i, r := range rows {
		out[i] = domain.Message{
			ID:        r.MessageID,
			SessionID: r.SessionID,
			Role:      domain.Role(r.MessageType),
			Content:   r.Content,
			Intent:    r.Intent,
			Timestamp: r.Timestamp,
		}
	}
	return out, nil
}
