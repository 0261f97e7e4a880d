package jnsuite

import (
	"context"
	"log/slog"

	"github.com/javanetict/jnsuite/internal/logging"
	"github.com/javanetict/jnsuite/internal/runtime"
	"github.com/javanetict/jnsuite/pkg/adapters/memory"
	"github.com/javanetict/jnsuite/pkg/catalog"
	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/javanetict/jnsuite/pkg/ports"
	"github.com/javanetict/jnsuite/pkg/session"
)

// Engine is the high-level entry point for the library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime  *runtime.Engine
	catalogs ports.CatalogProvider
	store    ports.StateStore
	history  ports.MessageLog
	locker   ports.DistributedLocker
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCatalog sets where intents come from. Failures fall back to the
// built-in catalog.
func WithCatalog(p ports.CatalogProvider) Option {
	return func(e *Engine) {
		e.catalogs = p
	}
}

// WithStore sets the session state store.
func WithStore(s ports.StateStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithHistory records every utterance and reply.
func WithHistory(h ports.MessageLog) Option {
	return func(e *Engine) {
		e.history = h
	}
}

// WithLocker serialises turns of a session across processes.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes an Engine. Without options it serves the built-in
// catalog and keeps sessions in memory.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	providers := []ports.CatalogProvider{catalog.BuiltIn{}}
	if eng.catalogs != nil {
		providers = []ports.CatalogProvider{eng.catalogs}
	}

	managerOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(eng.locker))
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	}
	if eng.history != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithHistory(eng.history))
	}

	eng.runtime = runtime.NewEngine(
		catalog.NewFallback(eng.logger, providers...),
		session.NewManager(eng.store, managerOpts...),
		runtimeOpts...,
	)
	return eng, nil
}

// Turn answers one visitor message. An empty sessionID starts a new session;
// the turn carries the ID to use next.
func (e *Engine) Turn(ctx context.Context, sessionID, message string) (*domain.Turn, error) {
	return e.runtime.Turn(ctx, sessionID, message)
}

// Inspect returns the catalog the engine would use right now.
func (e *Engine) Inspect(ctx context.Context) (*domain.Catalog, error) {
	return e.runtime.Inspect(ctx)
}

// State returns the stored state of a session.
func (e *Engine) State(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	return e.store.Load(ctx, sessionID)
}
