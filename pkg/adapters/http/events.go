package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/javanetict/jnsuite/pkg/domain"
)

// TurnEvent is what session subscribers receive after each turn.
type TurnEvent struct {
	SessionID string            `json:"session_id"`
	MessageID string            `json:"message_id"`
	Intent    string            `json:"intent"`
	Delta     domain.StateDelta `json:"delta"`
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // session ID -> channels
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a listener for a session. The returned func
// unregisters it and closes the channel.
func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Broadcast sends msg to every listener of the session. Slow listeners
// miss messages instead of blocking the turn.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

func (s *Server) publishTurn(turn *domain.Turn) {
	b, err := json.Marshal(TurnEvent{
		SessionID: turn.SessionID,
		MessageID: turn.MessageID,
		Intent:    turn.Intent,
		Delta:     turn.Delta,
	})
	if err != nil {
		s.logger.Warn("failed to encode turn event", "err", err)
		return
	}
	s.Streams.Broadcast(turn.SessionID, string(b))
}

// SubscribeEvents handles GET /api/chatbot/events/?session_id=...[&watch=a,b].
// watch restricts the stream to turns whose delta sets one of the named
// state fields.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		s.writeError(w, r, badRequest("session_id is required"), plainError)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	var watch []string
	if raw := r.URL.Query().Get("watch"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				watch = append(watch, f)
			}
		}
	}

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()
	s.logger.Info("SSE client subscribed", "session_id", sessionID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 && !touchesAny(msg, watch) {
				continue
			}
			fmt.Fprintf(w, "event: turn\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func touchesAny(msg string, fields []string) bool {
	var evt struct {
		Delta map[string]json.RawMessage `json:"delta"`
	}
	if err := json.Unmarshal([]byte(msg), &evt); err != nil {
		return true
	}
	for _, f := range fields {
		if _, ok := evt.Delta[f]; ok {
			return true
		}
	}
	return false
}
