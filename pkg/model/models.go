// Package model holds the relational records persisted through gorm.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&ChatSession{}, &ChatMessage{}, &ChatbotConfig{},
		&Feature{}, &Client{}, &Testimonial{}, &Contact{},
		&ProposalRequest{},
		&User{}, &UserActivity{},
	}
}

func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// ChatSession is one visitor conversation. State holds the JSON encoded
// domain.SessionState.
type ChatSession struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	SessionID    string    `json:"session_id" gorm:"size:100;uniqueIndex;not null"`
	IPAddress    string    `json:"ip_address" gorm:"size:45"`
	UserAgent    string    `json:"user_agent" gorm:"type:text"`
	Country      string    `json:"country" gorm:"size:100"`
	Currency     string    `json:"currency" gorm:"size:3;default:'USD'"`
	State        string    `json:"conversation_state" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity" gorm:"autoUpdateTime;index"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

// BeforeCreate assigns a UUID primary key.
func (s *ChatSession) BeforeCreate(tx *gorm.DB) error {
	newID(&s.ID)
	return nil
}

// ChatMessage is one entry of a session history.
type ChatMessage struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	MessageID   string    `json:"id" gorm:"size:36;index"`
	SessionID   string    `json:"session_id" gorm:"size:100;index;not null"`
	MessageType string    `json:"message_type" gorm:"size:10;not null"` // USER/BOT/SYSTEM
	Content     string    `json:"content" gorm:"type:text"`
	Intent      string    `json:"intent,omitempty" gorm:"size:100"`
	Timestamp   time.Time `json:"timestamp" gorm:"index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// ChatbotConfig stores an editable catalog. Intents is a JSON array of
// {tag, patterns, responses, followups} objects. At most one row is expected
// to be active.
type ChatbotConfig struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Intents   string    `json:"intents" gorm:"type:text"`
	IsActive  bool      `json:"is_active" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ChatbotConfig) TableName() string {
	return "chatbot_configs"
}
