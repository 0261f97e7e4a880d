package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/javanetict/jnsuite/pkg/adapters/sqldb"
	"github.com/javanetict/jnsuite/pkg/assistant"
	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/javanetict/jnsuite/pkg/model"
	"github.com/javanetict/jnsuite/pkg/pricing"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// conversationState is the session state echoed back with its ID.
type conversationState struct {
	*domain.SessionState
	SessionID string `json:"session_id"`
}

type chatContext struct {
	LastIntent          string            `json:"last_intent"`
	FollowupSuggestions []string          `json:"followup_suggestions"`
	MessageID           string            `json:"message_id"`
	Timestamp           string            `json:"timestamp"`
	ConversationState   conversationState `json:"conversation_state"`
	SessionID           string            `json:"session_id"`
}

// ChatResponse is the body of a conversation turn.
type ChatResponse struct {
	Response    string      `json:"response"`
	Timestamp   string      `json:"timestamp"`
	Context     chatContext `json:"context"`
	Suggestions []string    `json:"suggestions"`
	Intent      string      `json:"intent"`
	SessionID   string      `json:"session_id"`
}

func newChatResponse(turn *domain.Turn) ChatResponse {
	ts := turn.Timestamp.Format(time.RFC3339)
	suggestions := turn.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	state := turn.State
	if state == nil {
		state = domain.NewSessionState()
	}
	return ChatResponse{
		Response:  turn.Response,
		Timestamp: ts,
		Context: chatContext{
			LastIntent:          turn.Intent,
			FollowupSuggestions: suggestions,
			MessageID:           turn.MessageID,
			Timestamp:           ts,
			ConversationState:   conversationState{SessionState: state, SessionID: turn.SessionID},
			SessionID:           turn.SessionID,
		},
		Suggestions: suggestions,
		Intent:      turn.Intent,
		SessionID:   turn.SessionID,
	}
}

// Chat handles POST /api/chatbot/chat/.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decode(r, &req); err != nil {
		s.writeChatError(w, r, err)
		return
	}
	message, err := SanitizeInput(req.Message, s.maxInput)
	if err != nil {
		s.writeChatError(w, r, err)
		return
	}

	turn, err := s.deps.Engine.Turn(r.Context(), strings.TrimSpace(req.SessionID), message)
	if err != nil {
		s.writeChatError(w, r, err)
		return
	}
	s.touch(r, turn.SessionID)
	s.publishTurn(turn)

	writeJSON(w, http.StatusOK, newChatResponse(turn))
}

// touch records who is talking in the session directory. Failures are
// logged only.
func (s *Server) touch(r *http.Request, sessionID string) pricing.Location {
	loc := pricing.DetectLocation(r)
	if s.deps.Sessions == nil {
		return loc
	}
	err := s.deps.Sessions.Touch(r.Context(), sessionID, sqldb.ClientInfo{
		IPAddress: loc.IP,
		UserAgent: r.UserAgent(),
		Country:   loc.Country,
		Currency:  loc.Currency,
	})
	if err != nil {
		s.logger.Warn("failed to record session client info", "session_id", sessionID, "err", err)
	}
	return loc
}

type sendRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// SendMessage handles POST /api/chat/send/, the free-form assistant.
func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	message, err := SanitizeInput(strings.TrimSpace(req.Message), s.maxInput)
	if err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	if message == "" {
		s.writeError(w, r, badRequest("Message is required"), plainError)
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	loc := s.touch(r, sessionID)
	ctx := r.Context()
	s.appendHistory(ctx, sessionID, domain.RoleUser, message)

	reply := s.deps.Assistant.Reply(ctx, message, assistant.Context{
		Country:  loc.Country,
		Currency: loc.Currency,
		Fee:      pricing.CalculateFee(pricing.Requirements{Country: loc.Country, NeedsCBT: true, EstimatedStudents: 100}),
	})
	s.appendHistory(ctx, sessionID, domain.RoleBot, reply.Text)

	writeJSON(w, http.StatusOK, map[string]string{
		"response":   reply.Text,
		"session_id": sessionID,
		"currency":   loc.Currency,
		"country":    loc.Country,
		"source":     reply.Source,
		"timestamp":  s.timestamp(),
	})
}

func (s *Server) appendHistory(ctx context.Context, sessionID string, role domain.Role, content string) {
	if s.deps.History == nil {
		return
	}
	err := s.deps.History.Append(ctx, domain.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	})
	if err != nil {
		s.logger.Warn("failed to append message to history", "session_id", sessionID, "err", err)
	}
}

// activeWindow is how recent the last activity must be for a session to
// count as active.
const activeWindow = 30 * time.Minute

type messageView struct {
	ID            string    `json:"id"`
	MessageType   string    `json:"message_type"`
	Content       string    `json:"content"`
	Intent        string    `json:"intent,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	FormattedTime string    `json:"formatted_time"`
	IsUser        bool      `json:"is_user"`
	SessionID     string    `json:"session_id"`
}

type sessionView struct {
	ID                string          `json:"id"`
	SessionID         string          `json:"session_id"`
	IPAddress         string          `json:"ip_address"`
	UserAgent         string          `json:"user_agent"`
	Country           string          `json:"country"`
	UserCountry       string          `json:"user_country"`
	Currency          string          `json:"currency"`
	ConversationState json.RawMessage `json:"conversation_state,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	LastActivity      time.Time       `json:"last_activity"`
	Messages          []messageView   `json:"messages"`
	MessageCount      int             `json:"message_count"`
	LastMessage       string          `json:"last_message"`
	IsActive          bool            `json:"is_active"`
	Duration          int             `json:"duration"`
}

func (s *Server) sessionView(ctx context.Context, row model.ChatSession) sessionView {
	v := sessionView{
		ID:           row.ID,
		SessionID:    row.SessionID,
		IPAddress:    row.IPAddress,
		UserAgent:    row.UserAgent,
		Country:      row.Country,
		UserCountry:  row.Country,
		Currency:     row.Currency,
		CreatedAt:    row.CreatedAt,
		LastActivity: row.LastActivity,
		Messages:     []messageView{},
		LastMessage:  "No messages yet",
		IsActive:     s.now().Sub(row.LastActivity) < activeWindow,
		Duration:     int(row.LastActivity.Sub(row.CreatedAt).Minutes()),
	}
	if row.State != "" && json.Valid([]byte(row.State)) {
		v.ConversationState = json.RawMessage(row.State)
	}
	if s.deps.History == nil {
		return v
	}

	msgs, err := s.deps.History.History(ctx, row.SessionID)
	if err != nil {
		s.logger.Warn("failed to load session history", "session_id", row.SessionID, "err", err)
		return v
	}
	for _, m := range msgs {
		v.Messages = append(v.Messages, messageView{
			ID:            m.ID,
			MessageType:   string(m.Role),
			Content:       m.Content,
			Intent:        m.Intent,
			Timestamp:     m.Timestamp,
			FormattedTime: m.Timestamp.Format("03:04 PM"),
			IsUser:        m.Role == domain.RoleUser,
			SessionID:     m.SessionID,
		})
	}
	v.MessageCount = len(msgs)
	if n := len(msgs); n > 0 {
		v.LastMessage = truncate(msgs[n-1].Content, 60)
	}
	return v
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// ListSessions handles GET /api/chatbot/sessions/ (admin).
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	rows, err := s.deps.Sessions.Sessions(r.Context())
	if err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	out := make([]sessionView, 0, len(rows))
	for _, row := range rows {
		out = append(out, s.sessionView(r.Context(), row))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetSession handles GET /api/chatbot/sessions/{sessionID}/ (admin).
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	row, err := s.deps.Sessions.Session(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView(r.Context(), *row))
}
