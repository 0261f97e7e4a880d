package sqldb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/javanetict/jnsuite/pkg/model"
	"gorm.io/gorm"
)

// SessionStore implements ports.StateStore on the chat_sessions table.
type SessionStore struct {
	db *gorm.DB
}

// NewSessionStore creates a session store.
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Load retrieves the session state.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	var row model.ChatSession
	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return decodeState(row.State)
}

// Merge applies the delta in a transaction, creating the row when absent.
func (s *SessionStore) Merge(ctx context.Context, sessionID string, delta domain.StateDelta) (*domain.SessionState, error) {
	var merged *domain.SessionState
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.ChatSession
		err := tx.Where("session_id = ?", sessionID).First(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = model.ChatSession{SessionID: sessionID}
		case err != nil:
			return err
		}

		current, err := decodeState(row.State)
		if err != nil {
			return err
		}
		merged = domain.Merge(current, delta)

		data, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("failed to marshal state: %w", err)
		}
		row.State = string(data)
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to merge session: %w", err)
	}
	return merged, nil
}

// Delete removes the session row. Its message history is kept.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&model.ChatSession{}).Error
}

// List returns session IDs, most recently active first.
func (s *SessionStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&model.ChatSession{}).
		Order("last_activity DESC").
		Pluck("session_id", &ids).Error
	return ids, err
}

// ClientInfo is request metadata recorded against a session.
type ClientInfo struct {
	IPAddress string
	UserAgent string
	Country   string
	Currency  string
}

// Touch records client metadata, creating the session row when absent.
// Empty fields leave stored values unchanged.
func (s *SessionStore) Touch(ctx context.Context, sessionID string, info ClientInfo) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.ChatSession
		err := tx.Where("session_id = ?", sessionID).First(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = model.ChatSession{SessionID: sessionID}
		case err != nil:
			return err
		}
		if info.IPAddress != "" {
			row.IPAddress = info.IPAddress
		}
		if info.UserAgent != "" {
			row.UserAgent = info.UserAgent
		}
		if info.Country != "" {
			row.Country = info.Country
		}
		if info.Currency != "" {
			row.Currency = info.Currency
		}
		row.LastActivity = time.Now()
		return tx.Save(&row).Error
	})
}

// Sessions lists session rows, most recently active first.
func (s *SessionStore) Sessions(ctx context.Context) ([]model.ChatSession, error) {
	var rows []model.ChatSession
	err := s.db.WithContext(ctx).Order("last_activity DESC").Find(&rows).Error
	return rows, err
}

// Session returns one session row.
func (s *SessionStore) Session(ctx context.Context, sessionID string) (*model.ChatSession, error) {
	var row model.ChatSession
	if err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

func decodeState(raw string) (*domain.SessionState, error) {
	state := domain.NewSessionState()
	if raw == "" {
		return state, nil
	}
	if err := json.Unmarshal([]byte(raw), state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return state, nil
}
