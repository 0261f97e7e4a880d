package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/javanetict/jnsuite/internal/config"
	"github.com/javanetict/jnsuite/internal/runtime"
	httpadapter "github.com/javanetict/jnsuite/pkg/adapters/http"
	"github.com/javanetict/jnsuite/pkg/adapters/mail"
	"github.com/javanetict/jnsuite/pkg/adapters/redis"
	"github.com/javanetict/jnsuite/pkg/adapters/sqldb"
	"github.com/javanetict/jnsuite/pkg/account"
	"github.com/javanetict/jnsuite/pkg/assistant"
	"github.com/javanetict/jnsuite/pkg/catalog"
	"github.com/javanetict/jnsuite/pkg/content"
	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/javanetict/jnsuite/pkg/observability"
	"github.com/javanetict/jnsuite/pkg/persistence/middleware"
	"github.com/javanetict/jnsuite/pkg/ports"
	"github.com/javanetict/jnsuite/pkg/proposal"
	"github.com/javanetict/jnsuite/pkg/session"
	"gorm.io/gorm"
)

// App is the wired backend shared by the serve, chat and mcp commands.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *gorm.DB
	Catalogs *catalog.Cache
	Sessions *sqldb.SessionStore
	Manager  *session.Manager
	Engine   *runtime.Engine
	Metrics  *observability.Metrics
	Deps     httpadapter.Deps

	closers []func() error
}

// NewApp opens storage and builds every service from cfg.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := sqldb.Open(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: logger, DB: db}
	if sqlDB, err := db.DB(); err == nil {
		app.closers = append(app.closers, sqlDB.Close)
	}

	var metricOpts []observability.Option
	metricOpts = append(metricOpts, observability.WithLogger(logger))
	if cfg.Metrics.Enabled {
		metricOpts = append(metricOpts, observability.WithRuntimeCollectors())
	}
	app.Metrics = observability.NewMetrics(metricOpts...)

	app.Catalogs = catalog.NewCache(
		catalog.NewFallback(logger, catalogSource(cfg, db)),
		catalog.WithTTL(cfg.Catalog.CacheTTL),
	)

	app.Sessions = sqldb.NewSessionStore(db)
	history, err := historyLog(cfg.History, sqldb.NewHistory(db))
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	manager := app.sessionManager(logger)
	app.Manager = manager

	hooks := domain.LifecycleHooks{}
	if cfg.Metrics.Enabled {
		hooks = app.Metrics.Hooks()
	}
	app.Engine = runtime.NewEngine(app.Catalogs, manager,
		runtime.WithHistory(history),
		runtime.WithHooks(hooks),
		runtime.WithLogger(logger))

	mailer := mail.NewLogMailer(logger, cfg.Mail.From)
	authCfg := account.DefaultConfig(cfg.Auth.JWTSecret)
	authCfg.AccessTTL = cfg.Auth.AccessTTL
	authCfg.RefreshTTL = cfg.Auth.RefreshTTL
	authCfg.FrontendURL = cfg.Auth.FrontendURL

	ai := assistant.New(
		assistant.Providers(assistant.Config{
			OpenAIKey:      cfg.LLM.OpenAIKey,
			OpenAIModel:    cfg.LLM.OpenAIModel,
			AnthropicKey:   cfg.LLM.AnthropicKey,
			AnthropicModel: cfg.LLM.AnthropicModel,
			MaxTokens:      cfg.LLM.MaxTokens,
			Temperature:    cfg.LLM.Temperature,
		}, logger),
		assistant.WithLogger(logger),
		assistant.WithObserver(app.Metrics.ObserveAssistant))
	contentSvc := content.NewService(sqldb.NewContentRepository(db),
		content.WithMailer(mailer, cfg.Mail.Contact),
		content.WithLogger(logger))
	accounts := account.NewService(sqldb.NewUserRepository(db), authCfg,
		account.WithMailer(mailer),
		account.WithLogger(logger))

	app.Deps = httpadapter.Deps{
		Engine:    app.Engine,
		Sessions:  app.Sessions,
		History:   history,
		Assistant: ai,
		Content:   contentSvc,
		Proposals: proposal.NewService(sqldb.NewProposalRepository(db), proposal.WithLogger(logger)),
		Accounts:  accounts,
	}
	if cfg.Metrics.Enabled {
		app.Deps.Metrics = app.Metrics
	}
	return app, nil
}

// historyLog applies the configured masking and encryption to the
// message log.
func historyLog(cfg config.HistoryConfig, base ports.MessageLog) (ports.MessageLog, error) {
	var mws []middleware.Middleware
	if cfg.MaskPII {
		pii, err := middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns)
		if err != nil {
			return nil, err
		}
		mws = append(mws, pii)
	}
	if cfg.EncryptionKey != "" {
		enc := middleware.EncryptionConfig{}
		key, err := middleware.ParseKey(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("history.encryption_key: %w", err)
		}
		enc.ActiveKey = key
		for i, k := range cfg.FallbackKeys {
			key, err := middleware.ParseKey(k)
			if err != nil {
				return nil, fmt.Errorf("history.fallback_keys[%d]: %w", i, err)
			}
			enc.FallbackKeys = append(enc.FallbackKeys, key)
		}
		mw, err := middleware.NewEncryptionMiddleware(enc)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return middleware.Chain(base, mws...), nil
}

// catalogSource picks the configured catalog: a YAML file when set,
// otherwise the active chatbot configuration in the database.
func catalogSource(cfg *config.Config, db *gorm.DB) ports.CatalogProvider {
	if cfg.Catalog.File != "" {
		return catalog.File{Path: cfg.Catalog.File}
	}
	return sqldb.NewCatalogProvider(db)
}

// sessionManager keeps conversation state in Redis when configured, so
// replicas share sessions, and in the database otherwise.
func (a *App) sessionManager(logger *slog.Logger) *session.Manager {
	rc := a.Config.Redis
	if rc.Addr == "" {
		return session.NewManager(a.Sessions, session.WithLogger(logger))
	}

	store := redis.New(rc.Addr, rc.Password, rc.DB,
		redis.WithTTL(rc.TTL),
		redis.WithPrefix(rc.Prefix))
	a.closers = append(a.closers, store.Close)
	logger.Info("using redis session store", "addr", rc.Addr)
	return session.NewManager(store,
		session.WithLocker(redis.NewLocker(store.Client(), rc.Prefix+"lock:")),
		session.WithLogger(logger))
}

// Handler builds the HTTP API.
func (a *App) Handler() *httpadapter.Server {
	return httpadapter.NewServer(a.Deps,
		httpadapter.WithLogger(a.Logger),
		httpadapter.WithCORSOrigins(a.Config.Server.CORSOrigins...))
}

// Close releases storage connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to close app: %w", errors.Join(errs...))
	}
	return nil
}
