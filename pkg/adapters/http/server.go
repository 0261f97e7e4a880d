package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/javanetict/jnsuite"
	"github.com/javanetict/jnsuite/internal/logging"
	"github.com/javanetict/jnsuite/pkg/account"
	"github.com/javanetict/jnsuite/pkg/adapters/sqldb"
	"github.com/javanetict/jnsuite/pkg/assistant"
	"github.com/javanetict/jnsuite/pkg/content"
	"github.com/javanetict/jnsuite/pkg/model"
	"github.com/javanetict/jnsuite/pkg/observability"
	"github.com/javanetict/jnsuite/pkg/ports"
	"github.com/javanetict/jnsuite/pkg/proposal"
)

// SessionDirectory is the relational view of chat sessions: client
// metadata on every turn and the admin listing.
type SessionDirectory interface {
	Touch(ctx context.Context, sessionID string, info sqldb.ClientInfo) error
	Sessions(ctx context.Context) ([]model.ChatSession, error)
	Session(ctx context.Context, sessionID string) (*model.ChatSession, error)
}

// Deps are the services exposed over HTTP. Nil services leave their
// routes unregistered.
type Deps struct {
	Engine    ports.ConversationEngine
	Sessions  SessionDirectory
	History   ports.MessageLog
	Assistant *assistant.Assistant
	Content   *content.Service
	Proposals *proposal.Service
	Accounts  *account.Service
	Metrics   *observability.Metrics
}

// Server holds the handlers of the JSON API.
type Server struct {
	deps     Deps
	Streams  *StreamManager
	logger   *slog.Logger
	origins  []string
	maxInput int
	now      func() time.Time
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for requests and failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithCORSOrigins sets the origins allowed to call the API. "*" allows any.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithMaxInputSize overrides the chat message size limit in bytes.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxInput = n
		}
	}
}

// WithClock overrides the time source used for response timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// NewServer creates the API server without building routes.
func NewServer(deps Deps, opts ...Option) *Server {
	s := &Server{
		deps:     deps,
		logger:   logging.NewNop(),
		maxInput: DefaultMaxInputSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates the HTTP handler for the API.
func NewHandler(deps Deps, opts ...Option) http.Handler {
	return NewServer(deps, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(s.enableCORS)

	r.Get("/health/", s.GetHealth)
	if s.deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.deps.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/", s.APIRoot)
		r.Get("/health/", s.APIHealth)
		r.Get("/info/", s.GetInfo)
		r.Get("/currency/detect/", s.DetectCurrency)
		r.Post("/demo/platform/", s.PlatformDemo)

		if s.deps.Engine != nil {
			r.With(s.recoverChat).Post("/chatbot/chat/", s.Chat)
			r.Get("/chatbot/events/", s.SubscribeEvents)
		}
		if s.deps.Sessions != nil {
			r.With(s.authenticated, s.adminOnly).Get("/chatbot/sessions/", s.ListSessions)
			r.With(s.authenticated, s.adminOnly).Get("/chatbot/sessions/{sessionID}/", s.GetSession)
		}
		if s.deps.Assistant != nil {
			r.Post("/chat/send/", s.SendMessage)
		}
		if s.deps.Content != nil {
			s.contentRoutes(r)
		}
		if s.deps.Proposals != nil {
			s.proposalRoutes(r)
		}
		if s.deps.Accounts != nil {
			r.Route("/auth", s.authRoutes)
		}
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := s.now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", s.now().Sub(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.allowOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowOrigin(origin string) bool {
	return slices.Contains(s.origins, "*") || slices.Contains(s.origins, origin)
}

// GetHealth handles GET /health/.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// APIHealth handles GET /api/health/.
func (s *Server) APIHealth(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"chatbot":            s.active(s.deps.Engine != nil),
		"assistant":          s.active(s.deps.Assistant != nil),
		"proposal_generator": s.active(s.deps.Proposals != nil),
		"demo_simulator":     "active",
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "healthy",
		"timestamp":     s.timestamp(),
		"services":      services,
		"pricing_model": "One-time deployment fee",
	})
}

func (s *Server) active(ok bool) string {
	if ok {
		return "active"
	}
	return "disabled"
}

// GetInfo handles GET /api/info/.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "jnsuite",
		"version": strings.TrimSpace(jnsuite.Version),
	})
}

type endpoint struct {
	URL         string   `json:"url"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

// APIRoot handles GET /api/ with an index of the public endpoints.
func (s *Server) APIRoot(w http.ResponseWriter, r *http.Request) {
	base := baseURL(r)
	ep := func(path, method, desc string) endpoint {
		return endpoint{URL: base + path, Methods: []string{method}, Description: desc}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"api_name": "JavaNet EdTech Suite API",
		"version":  strings.TrimSpace(jnsuite.Version),
		"endpoints": map[string]endpoint{
			"features":           ep("api/features/", http.MethodGet, "Platform features by category"),
			"testimonials":       ep("api/testimonials/", http.MethodGet, "Client testimonials"),
			"conversation":       ep("api/chatbot/chat/", http.MethodPost, "Guided sales conversation"),
			"chatbot":            ep("api/chat/send/", http.MethodPost, "AI chatbot (JN Assistant)"),
			"proposal_generator": ep("api/proposals/generate/", http.MethodPost, "Generate custom proposals with one-time deployment fee"),
			"demo_simulator":     ep("api/demo/platform/", http.MethodPost, "Interactive platform demo"),
			"currency_detection": ep("api/currency/detect/", http.MethodGet, "Detect user currency and location with deployment fee"),
			"health_check":       ep("api/health/", http.MethodGet, "System health check"),
		},
		"status":        "operational",
		"timestamp":     s.timestamp(),
		"pricing_model": "One-time deployment fee (₦5-10M for Africa, $10K for International)",
	})
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	return scheme + "://" + r.Host + "/"
}

func (s *Server) timestamp() string {
	return s.now().Format(time.RFC3339)
}

// -- Helpers --

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return badRequest("Invalid request body")
}
