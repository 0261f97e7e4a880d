// Package account handles site accounts: registration, JWT login, profile
// edits, password changes and e-mailed password resets. Every change is
// recorded in the user's activity trail.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/javanetict/jnsuite/internal/logging"
	"github.com/javanetict/jnsuite/pkg/adapters/sqldb"
	"github.com/javanetict/jnsuite/pkg/model"
	"github.com/javanetict/jnsuite/pkg/ports"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// DefaultCountry is stored for registrations that name none.
const DefaultCountry = "Nigeria"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrUsernameTaken      = errors.New("a user with this username already exists")
	ErrInvalidEmail       = errors.New("enter a valid email address")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordMismatch   = errors.New("password fields didn't match")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrSamePassword       = errors.New("new password must be different from current password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrMissingField       = errors.New("missing required field")
)

// Repository is the user storage the service needs.
type Repository interface {
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	AddActivity(ctx context.Context, a *model.UserActivity) error
	Activities(ctx context.Context, userID string, limit int) ([]model.UserActivity, error)
}

// Config holds token settings.
type Config struct {
	Secret      []byte
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	ResetTTL    time.Duration
	FrontendURL string
}

// DefaultConfig returns the stock lifetimes for the given secret.
func DefaultConfig(secret string) Config {
	return Config{
		Secret:      []byte(secret),
		AccessTTL:   60 * time.Minute,
		RefreshTTL:  7 * 24 * time.Hour,
		ResetTTL:    24 * time.Hour,
		FrontendURL: "https://javanetict.com",
	}
}

// Meta describes the request an action came from.
type Meta struct {
	IPAddress string
	UserAgent string
}

// Service implements the account operations.
type Service struct {
	users      Repository
	cfg        Config
	mailer     ports.Mailer
	logger     *slog.Logger
	bcryptCost int
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMailer sets where password reset links are sent.
func WithMailer(m ports.Mailer) Option {
	return func(s *Service) {
		s.mailer = m
	}
}

// WithBcryptCost overrides the hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

// WithClock sets the time source used when issuing tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates an account service.
func NewService(users Repository, cfg Config, opts ...Option) *Service {
	s := &Service{
		users:      users,
		cfg:        cfg,
		logger:     logging.NewNop(),
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterRequest is a sign-up form.
type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// Register creates an account and logs it in.
func (s *Service) Register(ctx context.Context, req RegisterRequest, meta Meta) (*model.User, Tokens, error) {
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)
	switch {
	case email == "":
		return nil, Tokens{}, fmt.Errorf("%w: email", ErrMissingField)
	case username == "":
		return nil, Tokens{}, fmt.Errorf("%w: username", ErrMissingField)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, Tokens{}, ErrInvalidEmail
	}
	if len(req.Password) < MinPasswordLength {
		return nil, Tokens{}, ErrWeakPassword
	}
	if req.Password != req.Password2 {
		return nil, Tokens{}, ErrPasswordMismatch
	}

	if _, err := s.users.ByEmail(ctx, email); err == nil {
		return nil, Tokens{}, ErrEmailTaken
	} else if !errors.Is(err, sqldb.ErrNotFound) {
		return nil, Tokens{}, err
	}
	taken, err := s.users.UsernameTaken(ctx, username)
	if err != nil {
		return nil, Tokens{}, err
	}
	if taken {
		return nil, Tokens{}, ErrUsernameTaken
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, Tokens{}, err
	}
	country := strings.TrimSpace(req.Country)
	if country == "" {
		country = DefaultCountry
	}
	u := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Company:      req.Company,
		Country:      country,
		Phone:        req.Phone,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, Tokens{}, fmt.Errorf("failed to create user: %w", err)
	}
	s.track(ctx, u.ID, model.ActivityRegister, map[string]any{"method": "email"}, meta)

	tokens, err := s.issue(u.ID)
	return u, tokens, err
}

// Login checks credentials and issues tokens. Unknown emails and wrong
// passwords return the same error.
func (s *Service) Login(ctx context.Context, email, password string, meta Meta) (*model.User, Tokens, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, Tokens{}, fmt.Errorf("%w: email and password", ErrMissingField)
	}
	u, err := s.users.ByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, sqldb.ErrNotFound) {
		return nil, Tokens{}, ErrInvalidCredentials
	}
	if err != nil {
		return nil, Tokens{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, Tokens{}, ErrInvalidCredentials
	}

	now := s.now()
	u.LastLogin = &now
	if err := s.users.Update(ctx, u); err != nil {
		return nil, Tokens{}, fmt.Errorf("failed to record login: %w", err)
	}
	s.track(ctx, u.ID, model.ActivityLogin, nil, meta)

	tokens, err := s.issue(u.ID)
	return u, tokens, err
}

// Refresh exchanges a refresh token for a new pair.
func (s *Service) Refresh(ctx context.Context, refresh string) (Tokens, error) {
	claims, err := s.parse(refresh, TokenRefresh)
	if err != nil {
		return Tokens{}, err
	}
	if _, err := s.users.ByID(ctx, claims.UserID); err != nil {
		return Tokens{}, ErrInvalidToken
	}
	return s.issue(claims.UserID)
}

// Authenticate resolves an access token to its user.
func (s *Service) Authenticate(ctx context.Context, access string) (*model.User, error) {
	claims, err := s.parse(access, TokenAccess)
	if err != nil {
		return nil, err
	}
	u, err := s.users.ByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return u, nil
}

// Logout records the logout. Tokens stay valid until they expire.
func (s *Service) Logout(ctx context.Context, u *model.User, meta Meta) {
	s.track(ctx, u.ID, model.ActivityLogout, nil, meta)
}

// ProfileUpdate carries the editable profile fields. Nil fields are left alone.
type ProfileUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Company   *string `json:"company"`
	Country   *string `json:"country"`
	Phone     *string `json:"phone"`
	Currency  *string `json:"currency"`
}

// UpdateProfile applies a profile edit.
func (s *Service) UpdateProfile(ctx context.Context, u *model.User, upd ProfileUpdate, meta Meta) (*model.User, error) {
	changed := map[string]any{}
	set := func(name string, dst *string, v *string) {
		if v != nil {
			*dst = *v
			changed[name] = *v
		}
	}
	set("first_name", &u.FirstName, upd.FirstName)
	set("last_name", &u.LastName, upd.LastName)
	set("company", &u.Company, upd.Company)
	set("country", &u.Country, upd.Country)
	set("phone", &u.Phone, upd.Phone)
	set("currency", &u.Currency, upd.Currency)

	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	s.track(ctx, u.ID, model.ActivityProfileUpdate, changed, meta)
	return u, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, u *model.User, oldPassword, newPassword string, meta Meta) error {
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		return ErrIncorrectPassword
	}
	if oldPassword == newPassword {
		return ErrSamePassword
	}
	if err := s.setPassword(ctx, u, newPassword); err != nil {
		return err
	}
	s.track(ctx, u.ID, model.ActivityPasswordChange, nil, meta)
	return nil
}

// Activities lists a user's activity trail, newest first.
func (s *Service) Activities(ctx context.Context, userID string) ([]model.UserActivity, error) {
	return s.users.Activities(ctx, userID, 0)
}

func (s *Service) setPassword(ctx context.Context, u *model.User, password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	if err := s.users.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to save password: %w", err)
	}
	return nil
}

func (s *Service) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

// track appends to the activity trail. Failures are logged only.
func (s *Service) track(ctx context.Context, userID, action string, details map[string]any, meta Meta) {
	a := &model.UserActivity{
		UserID:    userID,
		Action:    action,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if len(details) > 0 {
		if b, err := json.Marshal(details); err == nil {
			a.Details = string(b)
		}
	}
	if err := s.users.AddActivity(ctx, a); err != nil {
		s.logger.Warn("failed to record activity", "user_id", userID, "action", action, "err", err)
	}
}
