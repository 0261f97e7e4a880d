package runtime

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/javanetict/jnsuite/internal/logging"
	"github.com/javanetict/jnsuite/pkg/catalog"
	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/javanetict/jnsuite/pkg/ports"
)

// Engine is the conversation engine. It is stateless; everything it knows
// about a visitor comes from the session repository on every turn.
type Engine struct {
	catalogs ports.CatalogProvider
	sessions ports.SessionRepository
	history  ports.MessageLog
	rules    []Rule
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithHistory records every turn in the given message log.
func WithHistory(log ports.MessageLog) EngineOption {
	return func(e *Engine) {
		e.history = log
	}
}

// WithRules replaces the matching cascade.
func WithRules(rules []Rule) EngineOption {
	return func(e *Engine) {
		e.rules = rules
	}
}

// WithHooks registers lifecycle hooks.
func WithHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator overrides message and session ID generation.
func WithIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) {
		e.newID = fn
	}
}

// NewEngine creates an engine. A nil catalog provider means the built-in catalog.
func NewEngine(catalogs ports.CatalogProvider, sessions ports.SessionRepository, opts ...EngineOption) *Engine {
	if catalogs == nil {
		catalogs = catalog.BuiltIn{}
	}
	e := &Engine{
		catalogs: catalogs,
		sessions: sessions,
		rules:    Rules,
		logger:   logging.NewNop(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Inspect returns the catalog a turn would use right now.
func (e *Engine) Inspect(ctx context.Context) (*domain.Catalog, error) {
	return e.loadCatalog(ctx), nil
}

// Turn processes one utterance. Only blank input is an error; store and
// catalog faults degrade instead of failing the turn.
func (e *Engine) Turn(ctx context.Context, sessionID, message string) (*domain.Turn, error) {
	start := e.now()
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.ErrEmptyMessage
	}
	if sessionID == "" {
		sessionID = e.newID()
	}

	prior := e.loadState(ctx, sessionID)
	e.record(ctx, sessionID, domain.RoleUser, message, "", start)

	turn := &domain.Turn{
		SessionID: sessionID,
		MessageID: e.newID(),
		Timestamp: start,
	}

	if !IsRelevant(message) {
		turn.OutOfScope = true
		turn.Intent = domain.TagOutOfScope
		turn.Response = outOfScopeResponse
		turn.Suggestions = append([]string(nil), outOfScopeSuggestions...)
		turn.State = prior
		e.record(ctx, sessionID, domain.RoleBot, turn.Response, turn.Intent, e.now())
		e.emitTurn(ctx, turn, "", start)
		return turn, nil
	}

	cat := e.loadCatalog(ctx)
	extracted := Extract(message, prior)
	working := domain.Merge(prior, extracted)

	node, rule, ok := Classify(e.rules, Input{
		Utterance: strings.ToLower(message),
		State:     working,
		Catalog:   cat,
	})
	if !ok {
		turn.Intent = domain.TagUnknown
		turn.Response = unknownResponse
		turn.Suggestions = append([]string(nil), outOfScopeSuggestions...)
		turn.State = working
		e.record(ctx, sessionID, domain.RoleBot, turn.Response, turn.Intent, e.now())
		e.emitTurn(ctx, turn, "", start)
		return turn, nil
	}

	turn.Intent = node.Tag
	turn.Response = Compose(node, message, working, prior.LastIntent)
	turn.Suggestions = Suggest(node, cat, prior.LastIntent)
	turn.Delta = Delta(node, extracted, prior, start)
	turn.State = e.saveState(ctx, sessionID, prior, turn.Delta)

	e.record(ctx, sessionID, domain.RoleBot, turn.Response, turn.Intent, e.now())
	e.emitTurn(ctx, turn, rule, start)
	e.logger.Debug("turn processed", "session_id", sessionID, "intent", node.Tag, "rule", rule)
	return turn, nil
}

// loadState returns the prior state, or an empty one when the store is absent
// or failing.
func (e *Engine) loadState(ctx context.Context, sessionID string) *domain.SessionState {
	if e.sessions == nil {
		return domain.NewSessionState()
	}
	lookup, err := e.sessions.LoadOrCreate(ctx, sessionID)
	if err != nil {
		e.fault(ctx, sessionID, "state_store", err)
		return domain.NewSessionState()
	}
	if lookup.State == nil {
		return domain.NewSessionState()
	}
	return lookup.State
}

func (e *Engine) saveState(ctx context.Context, sessionID string, prior *domain.SessionState, delta domain.StateDelta) *domain.SessionState {
	if e.sessions == nil {
		return domain.Merge(prior, delta)
	}
	merged, err := e.sessions.Merge(ctx, sessionID, delta)
	if err != nil {
		e.fault(ctx, sessionID, "state_store", err)
		return domain.Merge(prior, delta)
	}
	return merged
}

func (e *Engine) loadCatalog(ctx context.Context) *domain.Catalog {
	c, err := e.catalogs.Catalog(ctx)
	if err == nil && c != nil && c.Len() > 0 {
		return c
	}
	if err == nil {
		err = errors.New("catalog provider returned no intents")
	}
	e.fault(ctx, "", "catalog", err)
	return catalog.Default()
}

func (e *Engine) record(ctx context.Context, sessionID string, role domain.Role, content, intent string, at time.Time) {
	if e.history == nil {
		return
	}
	msg := domain.Message{
		ID:        e.newID(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Intent:    intent,
		Timestamp: at,
	}
	if err := e.history.Append(ctx, msg); err != nil {
		e.logger.Warn("failed to append message to history", "session_id", sessionID, "err", err)
	}
}

func (e *Engine) fault(ctx context.Context, sessionID, component string, err error) {
	e.logger.Warn("degrading after collaborator fault", "component", component, "session_id", sessionID, "err", err)
	if e.hooks.OnFault != nil {
		e.hooks.OnFault(ctx, &domain.FaultEvent{
			EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventStateFault, SessionID: sessionID},
			Component: component,
			Err:       err,
		})
	}
}

func (e *Engine) emitTurn(ctx context.Context, turn *domain.Turn, rule string, start time.Time) {
	evt := &domain.TurnEvent{
		EventBase: domain.EventBase{Timestamp: start, Type: domain.EventTurn, SessionID: turn.SessionID},
		Intent:    turn.Intent,
		Rule:      rule,
		Duration:  e.now().Sub(start),
	}
	if turn.OutOfScope {
		evt.Type = domain.EventOutOfScope
		if e.hooks.OnOutOfScope != nil {
			e.hooks.OnOutOfScope(ctx, evt)
		}
		return
	}
	if e.hooks.OnTurn != nil {
		e.hooks.OnTurn(ctx, evt)
	}
}
