package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/javanetict/jnsuite"
	httpadapter "github.com/javanetict/jnsuite/pkg/adapters/http"
	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/javanetict/jnsuite/pkg/ports"
	"github.com/javanetict/jnsuite/pkg/pricing"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// catalogURI is the resource exposing the active intent catalog.
const catalogURI = "jnsuite://catalog"

// ChatResult is the structured output of the chat tool.
type ChatResult struct {
	SessionID   string            `json:"session_id" jsonschema_description:"Session the turn belongs to"`
	MessageID   string            `json:"message_id" jsonschema_description:"ID of the bot reply"`
	Intent      string            `json:"intent" jsonschema_description:"Intent selected for the utterance"`
	Response    string            `json:"response" jsonschema_description:"Bot reply"`
	Suggestions []string          `json:"suggestions" jsonschema_description:"Follow-up suggestions"`
	Delta       domain.StateDelta `json:"delta" jsonschema_description:"Session fields changed by this turn"`
}

type chatArgs struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type feeArgs struct {
	Country           string `json:"country"`
	NeedsCBT          *bool  `json:"needs_ctb"`
	NeedsLiveClasses  bool   `json:"needs_live_classes"`
	EstimatedStudents int    `json:"estimated_students"`
}

// Server exposes the conversation engine as an MCP server.
type Server struct {
	engine    ports.ConversationEngine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.ConversationEngine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("jnsuite-mcp", strings.TrimSpace(jnsuite.Version)),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on the given port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	chatTool := mcp.NewTool("chat",
		mcp.WithDescription("Send one message to the JavaNet sales assistant and get its reply. Omit session_id to start a new conversation."),
		mcp.WithString("message", mcp.Required(), mcp.Description("The visitor's message")),
		mcp.WithString("session_id", mcp.Description("Conversation to continue (optional)")),
		mcp.WithOutputSchema[ChatResult](),
	)
	s.mcpServer.AddTool(chatTool, mcp.NewStructuredToolHandler(s.handleChat))

	feeTool := mcp.NewTool("deployment_fee",
		mcp.WithDescription("Quote the one-time deployment fee for an institution."),
		mcp.WithString("country", mcp.Required(), mcp.Description("Deployment country")),
		mcp.WithBoolean("needs_ctb", mcp.Description("Include the CBT module (default true)")),
		mcp.WithBoolean("needs_live_classes", mcp.Description("Include the live classes module")),
		mcp.WithNumber("estimated_students", mcp.Description("Expected number of students")),
		mcp.WithOutputSchema[pricing.Fee](),
	)
	s.mcpServer.AddTool(feeTool, mcp.NewStructuredToolHandler(s.handleFee))

	s.mcpServer.AddTool(mcp.NewTool("list_intents",
		mcp.WithDescription("List the intent tags of the active catalog."),
	), s.handleListIntents)
}

func (s *Server) handleChat(ctx context.Context, _ mcp.CallToolRequest, args chatArgs) (ChatResult, error) {
	clean, err := httpadapter.SanitizeInput(args.Message, httpadapter.DefaultMaxInputSize)
	if err != nil {
		s.logger.Warn("MCP chat: input rejected", "err", err, "size", len(args.Message))
		return ChatResult{}, fmt.Errorf("input rejected: %w", err)
	}

	turn, err := s.engine.Turn(ctx, strings.TrimSpace(args.SessionID), clean)
	if err != nil {
		return ChatResult{}, fmt.Errorf("chat failed: %w", err)
	}
	suggestions := turn.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return ChatResult{
		SessionID:   turn.SessionID,
		MessageID:   turn.MessageID,
		Intent:      turn.Intent,
		Response:    turn.Response,
		Suggestions: suggestions,
		Delta:       turn.Delta,
	}, nil
}

func (s *Server) handleFee(_ context.Context, _ mcp.CallToolRequest, args feeArgs) (pricing.Fee, error) {
	if strings.TrimSpace(args.Country) == "" {
		return pricing.Fee{}, errors.New("country is required")
	}
	needsCBT := true
	if args.NeedsCBT != nil {
		needsCBT = *args.NeedsCBT
	}
	return pricing.CalculateFee(pricing.Requirements{
		Country:           args.Country,
		NeedsCBT:          needsCBT,
		NeedsLiveClasses:  args.NeedsLiveClasses,
		EstimatedStudents: args.EstimatedStudents,
	}), nil
}

func (s *Server) handleListIntents(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalog, err := s.engine.Inspect(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
	}
	b, err := json.Marshal(catalog.Tags())
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(catalogURI, "Active intent catalog",
		mcp.WithMIMEType("application/json"),
	), s.readCatalog)
}

func (s *Server) readCatalog(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	catalog, err := s.engine.Inspect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect catalog: %w", err)
	}
	b, err := json.Marshal(map[string]any{
		"name":    catalog.Name,
		"version": catalog.Version,
		"nodes":   catalog.Nodes(),
	})
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      catalogURI,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}
