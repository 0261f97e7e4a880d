package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/javanetict/jnsuite/pkg/account"
	"github.com/javanetict/jnsuite/pkg/model"
	"github.com/javanetict/jnsuite/pkg/pricing"
)

type ctxKey int

const userKey ctxKey = iota

// UserFrom returns the authenticated user stored by the auth middleware.
func UserFrom(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// authenticated rejects requests without a valid access token.
func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearer(r)
		if token == "" || s.deps.Accounts == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		u, err := s.deps.Accounts.Authenticate(r.Context(), token)
		if err != nil {
			s.logger.Debug("rejected access token", "path", r.URL.Path, "err", err)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

// adminOnly must run after authenticated.
func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFrom(r.Context())
		if !ok || !u.IsAdmin {
			writeJSON(w, http.StatusForbidden, map[string]string{"detail": "You do not have permission to perform this action."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authRoutes(r chi.Router) {
	r.Post("/register/", s.Register)
	r.Post("/login/", s.Login)
	r.Post("/token/refresh/", s.RefreshToken)
	r.Post("/password/reset/", s.RequestPasswordReset)
	r.Post("/password/reset/verify/", s.VerifyPasswordReset)
	r.Post("/password/reset/confirm/", s.ConfirmPasswordReset)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticated)
		r.Get("/profile/", s.GetProfile)
		r.Put("/profile/", s.UpdateProfile)
		r.Patch("/profile/", s.UpdateProfile)
		r.Post("/password/change/", s.ChangePassword)
		r.Get("/activities/", s.ListActivities)
		r.Get("/check-auth/", s.CheckAuth)
		r.Post("/logout/", s.Logout)
	})
}

func meta(r *http.Request) account.Meta {
	return account.Meta{IPAddress: pricing.ClientIP(r), UserAgent: r.UserAgent()}
}

type sessionResponse struct {
	User    *model.User `json:"user"`
	Refresh string      `json:"refresh"`
	Access  string      `json:"access"`
}

// Register handles POST /api/auth/register/.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req account.RegisterRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	u, tokens, err := s.deps.Accounts.Register(r.Context(), req, meta(r))
	if err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{User: u, Refresh: tokens.Refresh, Access: tokens.Access})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login/.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	u, tokens, err := s.deps.Accounts.Login(r.Context(), req.Email, req.Password, meta(r))
	if errors.Is(err, account.ErrMissingField) {
		err = badRequest("Email and password are required")
	}
	if err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: u, Refresh: tokens.Refresh, Access: tokens.Access})
}

// RefreshToken handles POST /api/auth/token/refresh/. The refresh token
// is rotated.
func (s *Server) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	if req.Refresh == "" {
		s.writeError(w, r, badRequest("refresh is required"), plainError)
		return
	}
	tokens, err := s.deps.Accounts.Refresh(r.Context(), req.Refresh)
	if err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

// Logout handles POST /api/auth/logout/.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	s.deps.Accounts.Logout(r.Context(), u, meta(r))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

// GetProfile handles GET /api/auth/profile/.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	writeJSON(w, http.StatusOK, u)
}

// UpdateProfile handles PUT and PATCH /api/auth/profile/.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd account.ProfileUpdate
	if err := decode(r, &upd); err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	u, _ := UserFrom(r.Context())
	updated, err := s.deps.Accounts.UpdateProfile(r.Context(), u, upd, meta(r))
	if err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ChangePassword handles POST /api/auth/password/change/.
func (s *Server) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		s.writeError(w, r, badRequest("old_password and new_password are required"), plainError)
		return
	}
	u, _ := UserFrom(r.Context())
	if err := s.deps.Accounts.ChangePassword(r.Context(), u, req.OldPassword, req.NewPassword, meta(r)); err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

type activityView struct {
	ID        uint            `json:"id"`
	UserEmail string          `json:"user_email"`
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details"`
	IPAddress string          `json:"ip_address"`
	Timestamp time.Time       `json:"timestamp"`
}

// ListActivities handles GET /api/auth/activities/.
func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	acts, err := s.deps.Accounts.Activities(r.Context(), u.ID)
	if err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	out := make([]activityView, 0, len(acts))
	for _, a := range acts {
		details := json.RawMessage("{}")
		if a.Details != "" && json.Valid([]byte(a.Details)) {
			details = json.RawMessage(a.Details)
		}
		out = append(out, activityView{
			ID:        a.ID,
			UserEmail: u.Email,
			Action:    a.Action,
			Details:   details,
			IPAddress: a.IPAddress,
			Timestamp: a.Timestamp,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// CheckAuth handles GET /api/auth/check-auth/.
func (s *Server) CheckAuth(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "user": u})
}

// RequestPasswordReset handles POST /api/auth/password/reset/. The answer
// is the same whether or not the email has an account.
func (s *Server) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	err := s.deps.Accounts.RequestReset(r.Context(), req.Email, meta(r))
	if errors.Is(err, account.ErrMissingField) {
		err = badRequest("Email is required")
	}
	if err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": account.ResetSentMessage})
}

type resetRequest struct {
	UID         string `json:"uid"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// VerifyPasswordReset handles POST /api/auth/password/reset/verify/.
// An unusable link is reported with 200 and valid=false.
func (s *Server) VerifyPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	if req.UID == "" || req.Token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"valid": false, "error": "uid and token are required"})
		return
	}
	if err := s.deps.Accounts.VerifyReset(r.Context(), req.UID, req.Token); err != nil {
		if !errors.Is(err, account.ErrInvalidResetToken) {
			s.writeError(w, r, err, plainError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"valid": false, "error": "Invalid or expired token"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true})
}

// ConfirmPasswordReset handles POST /api/auth/password/reset/confirm/.
func (s *Server) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	err := s.deps.Accounts.ConfirmReset(r.Context(), req.UID, req.Token, req.NewPassword, meta(r))
	if errors.Is(err, account.ErrMissingField) {
		err = badRequest("uid, token, and new_password are required")
	}
	if err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset successfully."})
}
