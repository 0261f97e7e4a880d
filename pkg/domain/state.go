package domain

import "time"

// SessionState is the accumulated knowledge about one conversation.
// It is created on the first message of a session and only ever updated
// through StateDelta merges.
type SessionState struct {
	LastIntent        string    `json:"last_intent,omitempty"`
	LastInteraction   time.Time `json:"last_interaction,omitzero"`
	MessageCount      int       `json:"message_count"`
	DemoShown         bool      `json:"demo_shown,omitempty"`
	ReadyForSales     bool      `json:"ready_for_sales,omitempty"`
	ProposalRequested bool      `json:"proposal_requested,omitempty"`
	UserIndustry      string    `json:"user_industry,omitempty"`
	UserCountry       string    `json:"user_country,omitempty"`
	UserVolume        string    `json:"user_volume,omitempty"`
	FacultyCount      string    `json:"faculty_count,omitempty"`
}

// NewSessionState returns the empty state of a fresh session.
func NewSessionState() *SessionState {
	return &SessionState{}
}

// Clone returns an independent copy of the state.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return NewSessionState()
	}
	c := *s
	return &c
}

// HasFlag reports whether the named flag is raised.
func (s *SessionState) HasFlag(f Flag) bool {
	switch f {
	case FlagDemoShown:
		return s.DemoShown
	case FlagReadyForSales:
		return s.ReadyForSales
	case FlagProposalRequested:
		return s.ProposalRequested
	}
	return false
}

// StateLookup is the result of a get-or-create state read.
// Found is false when the session did not exist before the lookup.
type StateLookup struct {
	State *SessionState
	Found bool
}

// Turn is the outcome of processing one utterance.
type Turn struct {
	SessionID   string
	MessageID   string
	Response    string
	Intent      string
	Suggestions []string
	Delta       StateDelta
	// State is the merged session state after the turn.
	State     *SessionState
	Timestamp time.Time
	// OutOfScope is set when the relevance filter rejected the utterance.
	OutOfScope bool
}

// Role identifies the author of a history entry.
type Role string

const (
	RoleUser   Role = "USER"
	RoleBot    Role = "BOT"
	RoleSystem Role = "SYSTEM"
)

// Message is one entry of the append-only conversation history.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      Role      `json:"message_type"`
	Content   string    `json:"content"`
	Intent    string    `json:"intent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
