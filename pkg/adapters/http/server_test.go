package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/javanetict/jnsuite/internal/runtime"
	"github.com/javanetict/jnsuite/pkg/account"
	"github.com/javanetict/jnsuite/pkg/adapters/mail"
	"github.com/javanetict/jnsuite/pkg/adapters/sqldb"
	"github.com/javanetict/jnsuite/pkg/assistant"
	"github.com/javanetict/jnsuite/pkg/catalog"
	"github.com/javanetict/jnsuite/pkg/content"
	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/javanetict/jnsuite/pkg/observability"
	"github.com/javanetict/jnsuite/pkg/proposal"
	"github.com/javanetict/jnsuite/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	server  *Server
	handler http.Handler
	users   *sqldb.UserRepository
	outbox  *mail.Outbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqldb.Open("sqlite", ":memory:")
	require.NoError(t, err)

	sessions := sqldb.NewSessionStore(db)
	history := sqldb.NewHistory(db)
	metrics := observability.NewMetrics()
	engine := runtime.NewEngine(catalog.BuiltIn{}, session.NewManager(sessions),
		runtime.WithHistory(history),
		runtime.WithHooks(metrics.Hooks()))

	users := sqldb.NewUserRepository(db)
	outbox := &mail.Outbox{}
	srv := NewServer(Deps{
		Engine:    engine,
		Sessions:  sessions,
		History:   history,
		Assistant: assistant.New(nil, assistant.WithObserver(metrics.ObserveAssistant)),
		Content:   content.NewService(sqldb.NewContentRepository(db), content.WithMailer(outbox, "admin@javanetict.com")),
		Proposals: proposal.NewService(sqldb.NewProposalRepository(db)),
		Accounts: account.NewService(users, account.DefaultConfig("test-secret"),
			account.WithBcryptCost(bcrypt.MinCost),
			account.WithMailer(outbox)),
		Metrics: metrics,
	}, WithCORSOrigins("https://javanetict.com"))

	return &fixture{server: srv, handler: srv.Routes(), users: users, outbox: outbox}
}

func (f *fixture) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

// login registers an account and returns its access token. Admin accounts
// are promoted directly in the store.
func (f *fixture) login(t *testing.T, email string, admin bool) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/auth/register/", map[string]string{
		"email":     email,
		"username":  strings.Split(email, "@")[0],
		"password":  "correct horse",
		"password2": "correct horse",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		User   struct{ ID string } `json:"user"`
		Access string              `json:"access"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if admin {
		u, err := f.users.ByID(context.Background(), resp.User.ID)
		require.NoError(t, err)
		u.IsAdmin = true
		require.NoError(t, f.users.Update(context.Background(), u))
	}
	return resp.Access
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestChat_ResponseShape(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/chatbot/chat/", map[string]string{"message": "hello", "session_id": "s1"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.TagGreeting, resp.Intent)
	assert.Equal(t, "s1", resp.SessionID)
	assert.NotEmpty(t, resp.Response)
	assert.NotEmpty(t, resp.Suggestions)

	body := decodeBody(t, w)
	ctx := body["context"].(map[string]any)
	assert.Equal(t, domain.TagGreeting, ctx["last_intent"])
	assert.Equal(t, "s1", ctx["session_id"])
	assert.NotEmpty(t, ctx["message_id"])
	state := ctx["conversation_state"].(map[string]any)
	assert.Equal(t, "s1", state["session_id"])
	assert.EqualValues(t, 1, state["message_count"])
}

func TestChat_NewSessionIDWhenMissing(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/chatbot/chat/", map[string]string{"message": "hello"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["session_id"])
}

func TestChat_Rejections(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/chatbot/chat/", map[string]string{"message": "   "}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Message cannot be empty", body["error"])
	assert.NotEmpty(t, body["timestamp"])

	w = f.do(t, http.MethodPost, "/api/chatbot/chat/", map[string]string{"message": strings.Repeat("a", DefaultMaxInputSize+1)}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/chatbot/chat/", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_OutOfScope(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/chatbot/chat/", map[string]string{"message": "what's the weather today", "session_id": "o1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, domain.TagOutOfScope, body["intent"])
	assert.Len(t, body["suggestions"], 4)

	state := body["context"].(map[string]any)["conversation_state"].(map[string]any)
	assert.NotContains(t, state, "last_interaction", "a fresh session has not interacted yet")
	assert.Equal(t, "o1", state["session_id"])
}

// brokenEngine fails every turn, either with err or by panicking.
type brokenEngine struct {
	err   error
	panic any
}

func (e brokenEngine) Turn(context.Context, string, string) (*domain.Turn, error) {
	if e.panic != nil {
		panic(e.panic)
	}
	return nil, e.err
}

func (e brokenEngine) Inspect(context.Context) (*domain.Catalog, error) {
	return nil, e.err
}

func TestChat_ServerFaults(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		engine brokenEngine
		want   string
	}{
		{"error", brokenEngine{err: errors.New("state store exploded")}, "state store exploded"},
		{"panic", brokenEngine{panic: "catalog index out of range"}, "catalog index out of range"},
		{"panic with error", brokenEngine{panic: errors.New("nil session")}, "nil session"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(Deps{Engine: tt.engine}, WithClock(func() time.Time { return at }))

			req := httptest.NewRequest(http.MethodPost, "/api/chatbot/chat/", strings.NewReader(`{"message":"hello"}`))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			require.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, map[string]any{
				"error":     tt.want,
				"timestamp": "2026-03-01T09:30:00Z",
			}, decodeBody(t, w))
		})
	}
}

func TestChatSessions_Admin(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chatbot/chat/", strings.NewReader(`{"message":"hello","session_id":"s1"}`))
	req.Header.Set("Accept-Language", "en-NG")
	req.Header.Set("User-Agent", "test-agent")
	f.handler.ServeHTTP(httptest.NewRecorder(), req)

	w := f.do(t, http.MethodGet, "/api/chatbot/sessions/", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	visitor := f.login(t, "visitor@school.ng", false)
	w = f.do(t, http.MethodGet, "/api/chatbot/sessions/", nil, visitor)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := f.login(t, "admin@javanetict.com", true)
	w = f.do(t, http.MethodGet, "/api/chatbot/sessions/", nil, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var list []sessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "s1", list[0].SessionID)
	assert.Equal(t, "Nigeria", list[0].Country)
	assert.Equal(t, "NGN", list[0].Currency)
	assert.Equal(t, "test-agent", list[0].UserAgent)
	assert.Equal(t, 2, list[0].MessageCount)
	assert.True(t, list[0].Messages[0].IsUser)
	assert.True(t, list[0].IsActive)

	w = f.do(t, http.MethodGet, "/api/chatbot/sessions/s1/", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodGet, "/api/chatbot/sessions/missing/", nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscribeEvents_Session(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.handler)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/chatbot/events/?session_id=sse-1", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	// The ping is written after subscribing, so this turn is delivered.
	chat, err := http.Post(ts.URL+"/api/chatbot/chat/", "application/json", strings.NewReader(`{"message":"demo","session_id":"sse-1"}`))
	require.NoError(t, err)
	chat.Body.Close()

	var data string
	for lines.Scan() {
		if strings.HasPrefix(lines.Text(), "data: {") {
			data = strings.TrimPrefix(lines.Text(), "data: ")
			break
		}
	}
	var evt TurnEvent
	require.NoError(t, json.Unmarshal([]byte(data), &evt))
	assert.Equal(t, "sse-1", evt.SessionID)
	assert.Equal(t, domain.TagDemo, evt.Intent)
	require.NotNil(t, evt.Delta.DemoShown)
	assert.True(t, *evt.Delta.DemoShown)
}

func TestSubscribeEvents_RequiresSession(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/api/chatbot/events/", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTouchesAny(t *testing.T) {
	msg := `{"session_id":"s","intent":"demo","delta":{"demo_shown":true,"message_count":2}}`
	assert.True(t, touchesAny(msg, []string{"demo_shown"}))
	assert.False(t, touchesAny(msg, []string{"user_country", "ready_for_sales"}))
}

func TestSendMessage_FallsBackToRules(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/chat/send/", map[string]string{"message": "How much does it cost?", "session_id": "a1"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, assistant.SourceRules, body["source"])
	assert.Equal(t, "a1", body["session_id"])
	assert.NotEmpty(t, body["response"])

	msgs, err := f.server.deps.History.History(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, domain.RoleBot, msgs[1].Role)

	w = f.do(t, http.MethodPost, "/api/chat/send/", map[string]string{"message": ""}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Message is required", decodeBody(t, w)["error"])
}

func TestProposals(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/proposals/generate/", map[string]any{
		"name":        "Ada",
		"email":       "ada@school.ng",
		"institution": "Unity College",
		"country":     "Nigeria",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])
	id := body["proposal_id"].(string)
	assert.NotEmpty(t, id)
	fee := body["deployment_fee"].(map[string]any)
	assert.Equal(t, "₦5,000,000", fee["amount"])
	assert.Equal(t, "NGN", fee["currency"])

	w = f.do(t, http.MethodPost, "/api/proposals/generate/", map[string]any{"name": "Ada", "email": "ada@school.ng"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]any{"status": "error", "message": "institution is required"}, decodeBody(t, w))

	admin := f.login(t, "admin@javanetict.com", true)
	w = f.do(t, http.MethodGet, "/api/proposals/requests/", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = f.do(t, http.MethodGet, "/api/proposals/requests/"+id+"/", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GENERATED", decodeBody(t, w)["status"])
}

func TestGenerateProposalPDF(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/proposals/generate-pdf/", map[string]any{
		"name":           "Ada",
		"institution":    "Unity College",
		"country":        "Ghana",
		"needs_ctb":      true,
		"deployment_fee": map[string]string{"amount": "₦5,000,000"},
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=Proposal_temp_Unity_College.pdf", w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestGenerateProposalPDF_DispositionEscaping(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		institution string
		header      string
		filename    string
	}{
		{
			institution: `St. Mary's "Model" School`,
			header:      `attachment; filename="Proposal_temp_St._Mary's_\"Model\"_School.pdf"`,
			filename:    `Proposal_temp_St._Mary's_"Model"_School.pdf`,
		},
		{
			institution: "École Nationale",
			header:      "attachment; filename*=utf-8''Proposal_temp_%C3%89cole_Nationale.pdf",
			filename:    "Proposal_temp_École_Nationale.pdf",
		},
	}
	for _, tt := range tests {
		w := f.do(t, http.MethodPost, "/api/proposals/generate-pdf/", map[string]any{
			"name": "Ada", "institution": tt.institution, "country": "Ghana",
		}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		header := w.Header().Get("Content-Disposition")
		assert.Equal(t, tt.header, header)
		disposition, params, err := mime.ParseMediaType(header)
		require.NoError(t, err, header)
		assert.Equal(t, "attachment", disposition)
		assert.Equal(t, tt.filename, params["filename"])
	}
}

func TestGenerateProposalPDF_FromStoredProposal(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodPost, "/api/proposals/generate/", map[string]any{
		"name": "Ada", "email": "ada@school.ng", "institution": "Unity College", "country": "Canada",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["proposal_id"].(string)

	w = f.do(t, http.MethodPost, "/api/proposals/generate-pdf/", map[string]string{"proposal_id": id}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=Proposal_"+id+"_Unity_College.pdf", w.Header().Get("Content-Disposition"))

	w = f.do(t, http.MethodPost, "/api/proposals/generate-pdf/", map[string]string{"proposal_id": "nope"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContentRoutes(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/features/ctb_features/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/testimonials/recent/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/core/contact/", map[string]string{
		"name": "Ada", "email": "ada@school.ng", "subject": "Demo Request", "message": "Show us the CBT module.",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Message sent successfully! We will get back to you within 24 hours.", decodeBody(t, w)["message"])
	sent := f.outbox.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "admin@javanetict.com", sent[0].To)

	w = f.do(t, http.MethodPost, "/api/core/contact/", map[string]string{"name": "Ada"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/core/contact/", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	admin := f.login(t, "admin@javanetict.com", true)
	w = f.do(t, http.MethodGet, "/api/core/contact/", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	var contacts []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &contacts))
	assert.Len(t, contacts, 1)
}

func TestAuthFlow(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "ada@school.ng", false)

	w := f.do(t, http.MethodGet, "/api/auth/check-auth/", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["authenticated"])

	w = f.do(t, http.MethodPut, "/api/auth/profile/", map[string]string{"company": "Unity College"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Unity College", decodeBody(t, w)["company"])

	w = f.do(t, http.MethodPost, "/api/auth/login/", map[string]string{"email": "ada@school.ng", "password": "wrong password"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", decodeBody(t, w)["error"])

	w = f.do(t, http.MethodPost, "/api/auth/login/", map[string]string{"email": "ada@school.ng"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email and password are required", decodeBody(t, w)["error"])

	w = f.do(t, http.MethodPost, "/api/auth/login/", map[string]string{"email": "ada@school.ng", "password": "correct horse"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	refresh := decodeBody(t, w)["refresh"].(string)

	w = f.do(t, http.MethodPost, "/api/auth/token/refresh/", map[string]string{"refresh": refresh}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["access"])

	w = f.do(t, http.MethodPost, "/api/auth/password/change/", map[string]string{"old_password": "correct horse", "new_password": "brand new pass"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/auth/logout/", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/api/auth/activities/", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var acts []activityView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &acts))
	require.NotEmpty(t, acts)
	assert.Equal(t, "ada@school.ng", acts[0].UserEmail)

	w = f.do(t, http.MethodGet, "/api/auth/profile/", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newFixture(t)
	f.login(t, "ada@school.ng", false)

	w := f.do(t, http.MethodPost, "/api/auth/password/reset/", map[string]string{"email": "ghost@school.ng"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, account.ResetSentMessage, decodeBody(t, w)["message"])
	assert.Empty(t, f.outbox.Sent())

	w = f.do(t, http.MethodPost, "/api/auth/password/reset/", map[string]string{"email": "ada@school.ng"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	sent := f.outbox.Sent()
	require.Len(t, sent, 1)

	var link string
	for _, line := range strings.Split(sent[0].Body, "\n") {
		if strings.HasPrefix(line, "https://") {
			link = line
		}
	}
	require.NotEmpty(t, link)
	req := httptest.NewRequest(http.MethodGet, link, nil)
	uid, token := req.URL.Query().Get("uid"), req.URL.Query().Get("token")

	w = f.do(t, http.MethodPost, "/api/auth/password/reset/verify/", map[string]string{"uid": uid, "token": token}, "")
	assert.Equal(t, map[string]any{"valid": true}, decodeBody(t, w))

	w = f.do(t, http.MethodPost, "/api/auth/password/reset/confirm/", map[string]string{"uid": uid, "token": token, "new_password": "reset password 1"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/auth/password/reset/verify/", map[string]string{"uid": uid, "token": token}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["valid"])

	w = f.do(t, http.MethodPost, "/api/auth/password/reset/confirm/", map[string]string{"uid": uid, "token": token, "new_password": "reset password 2"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid or expired reset token.", decodeBody(t, w)["error"])

	w = f.do(t, http.MethodPost, "/api/auth/password/reset/confirm/", map[string]string{}, "")
	assert.Equal(t, "uid, token, and new_password are required", decodeBody(t, w)["error"])
}

func TestDetectCurrency(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/currency/detect/", nil)
	req.Header.Set("Accept-Language", "en-NG,en;q=0.9")
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "NGN", body["currency"])
	assert.Equal(t, "Nigeria", body["country"])
	assert.Equal(t, "₦5,000,000", body["deployment_fee"].(map[string]any)["amount"])

	req = httptest.NewRequest(http.MethodGet, "/api/currency/detect/", nil)
	req.Header.Set("Accept-Language", "de-DE")
	req.Header.Set("X-Forwarded-For", "8.8.8.8")
	w = httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	assert.Equal(t, "USD", decodeBody(t, w)["currency"])
}

func TestPlatformDemo(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	srv := NewServer(Deps{}, WithClock(func() time.Time { return now }))
	h := srv.Routes()

	req := httptest.NewRequest(http.MethodPost, "/api/demo/platform/", strings.NewReader(`{"institution_name":"Unity","live_classes_enabled":true}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status      string      `json:"status"`
		DemoSession DemoSession `json:"demo_session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	d := resp.DemoSession
	assert.Equal(t, "Unity", d.InstitutionName)
	assert.Equal(t, "#1A237E", d.Branding["primary_color"])
	assert.Equal(t, map[string]bool{"ctb": true, "live_classes": true}, d.Modules)
	assert.Equal(t, "2024-05-02T09:00:00Z", d.ExpiresAt)
}

func TestHealthAndRoot(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/health/", nil, "")
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/health/", nil, "")
	body := decodeBody(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "active", body["services"].(map[string]any)["chatbot"])

	w = f.do(t, http.MethodGet, "/api/", nil, "")
	body = decodeBody(t, w)
	endpoints := body["endpoints"].(map[string]any)
	assert.Equal(t, "http://example.com/api/health/", endpoints["health_check"].(map[string]any)["url"])
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/chatbot/chat/", map[string]string{"message": "hello", "session_id": "m1"}, "")

	w := f.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `jnsuite_turns_total{intent="greeting"`)
}

func TestCORS(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/chatbot/chat/", nil)
	req.Header.Set("Origin", "https://javanetict.com")
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://javanetict.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"plain", "hello", "hello", nil},
		{"keeps newlines", "a\nb\tc\r", "a\nb\tc\r", nil},
		{"strips escape", "a\x1b[31mb\x00", "a[31mb", nil},
		{"too large", strings.Repeat("x", 11), "", ErrInputTooLarge},
		{"invalid utf8", "\xff", "", ErrInvalidUTF8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input, 10)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
