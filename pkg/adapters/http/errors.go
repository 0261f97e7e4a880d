package http

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/javanetict/jnsuite/pkg/account"
	"github.com/javanetict/jnsuite/pkg/adapters/sqldb"
	"github.com/javanetict/jnsuite/pkg/content"
	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/javanetict/jnsuite/pkg/proposal"
)

// requestError is a client mistake whose message is shown as is.
type requestError struct {
	msg string
}

func (e *requestError) Error() string {
	return e.msg
}

func badRequest(msg string) error {
	return &requestError{msg: msg}
}

// messages replaces internal error text with what clients are shown.
var messages = []struct {
	err error
	msg string
}{
	{domain.ErrEmptyMessage, "Message cannot be empty"},
	{account.ErrInvalidCredentials, "Invalid email or password"},
	{account.ErrInvalidResetToken, "Invalid or expired reset token."},
	{account.ErrInvalidToken, "Token is invalid or expired"},
	{sqldb.ErrNotFound, "Not found."},
	{domain.ErrSessionNotFound, "Not found."},
}

// classify maps an error to a status code and a client-facing message.
func classify(err error) (int, string) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return http.StatusBadRequest, reqErr.msg
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, ErrInputTooLarge),
		errors.Is(err, ErrInvalidUTF8),
		errors.Is(err, proposal.ErrMissingField),
		errors.Is(err, content.ErrInvalidContact),
		errors.Is(err, account.ErrMissingField),
		errors.Is(err, account.ErrInvalidEmail),
		errors.Is(err, account.ErrWeakPassword),
		errors.Is(err, account.ErrPasswordMismatch),
		errors.Is(err, account.ErrEmailTaken),
		errors.Is(err, account.ErrUsernameTaken),
		errors.Is(err, account.ErrIncorrectPassword),
		errors.Is(err, account.ErrSamePassword),
		errors.Is(err, account.ErrInvalidResetToken):
		status = http.StatusBadRequest
	case errors.Is(err, account.ErrInvalidCredentials),
		errors.Is(err, account.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, sqldb.ErrNotFound),
		errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		return status, "Internal server error"
	}
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return status, m.msg
		}
	}
	return status, err.Error()
}

// errorShape renders the body of a failed response.
type errorShape func(msg string, now time.Time) any

func plainError(msg string, _ time.Time) any {
	return map[string]string{"error": msg}
}

func chatError(msg string, now time.Time) any {
	return map[string]string{"error": msg, "timestamp": now.Format(time.RFC3339)}
}

func proposalError(msg string, _ time.Time) any {
	return map[string]string{"status": "error", "message": msg}
}

// writeError is the single place errors become responses. Server faults
// are logged with the request they belong to.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, shape errorShape) {
	status, msg := classify(err)
	s.respondError(w, r, status, msg, err, shape)
}

// writeChatError answers the conversation endpoint. Its clients are shown
// the text of server faults as well.
func (s *Server) writeChatError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		msg = err.Error()
	}
	s.respondError(w, r, status, msg, err, chatError)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, msg string, err error, shape errorShape) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, shape(msg, s.now()))
}

// recoverChat turns a panic below the conversation handler into a chat
// error body. The router-wide Recoverer would answer with an empty 500.
func (s *Server) recoverChat(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			s.logger.Error("chat handler panicked", "method", r.Method, "path", r.URL.Path,
				"panic", rec, "stack", string(debug.Stack()))
			writeJSON(w, http.StatusInternalServerError, chatError(fmt.Sprint(rec), s.now()))
		}()
		next.ServeHTTP(w, r)
	})
}
