package account

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/javanetict/jnsuite/pkg/model"
)

// ResetSentMessage is returned for every reset request, known email or not.
const ResetSentMessage = "If an account exists with this email, a password reset link has been sent."

// EncodeUID encodes a user id for reset links.
func EncodeUID(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id))
}

func decodeUID(uid string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(uid, "="))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// RequestReset mails a reset link when the email belongs to an account.
// Unknown emails and mail failures are not reported to the caller.
func (s *Service) RequestReset(ctx context.Context, email string, meta Meta) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email", ErrMissingField)
	}
	u, err := s.users.ByEmail(ctx, email)
	if err != nil {
		s.logger.Debug("password reset for unknown email")
		return nil
	}

	link, err := s.ResetLink(u)
	if err != nil {
		return err
	}
	if s.mailer != nil {
		if err := s.mailer.Send(ctx, u.Email, "Password Reset Request - JavaNet EdTech", resetBody(u.Email, link)); err != nil {
			s.logger.Error("password reset mail failed", "user_id", u.ID, "err", err)
		}
	}
	s.track(ctx, u.ID, model.ActivityPasswordResetRequest, map[string]any{"email": email}, meta)
	return nil
}

// ResetLink builds the frontend reset URL for u.
func (s *Service) ResetLink(u *model.User) (string, error) {
	token, err := s.sign(u.ID, tokenReset, s.fingerprint(u.PasswordHash), s.cfg.ResetTTL)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("uid", EncodeUID(u.ID))
	q.Set("token", token)
	return strings.TrimRight(s.cfg.FrontendURL, "/") + "/reset-password?" + q.Encode(), nil
}

// VerifyReset reports whether uid and token still allow a reset.
func (s *Service) VerifyReset(ctx context.Context, uid, token string) error {
	_, err := s.resetUser(ctx, uid, token)
	return err
}

// ConfirmReset sets a new password using a reset token. The token stops
// working once the password changes.
func (s *Service) ConfirmReset(ctx context.Context, uid, token, newPassword string, meta Meta) error {
	if uid == "" || token == "" || newPassword == "" {
		return fmt.Errorf("%w: uid, token, and new_password", ErrMissingField)
	}
	u, err := s.resetUser(ctx, uid, token)
	if err != nil {
		return err
	}
	if err := s.setPassword(ctx, u, newPassword); err != nil {
		return err
	}
	s.track(ctx, u.ID, model.ActivityPasswordResetSuccess, nil, meta)
	return nil
}

func (s *Service) resetUser(ctx context.Context, uid, token string) (*model.User, error) {
	id, err := decodeUID(uid)
	if err != nil || id == "" {
		return nil, ErrInvalidResetToken
	}
	claims, err := s.parse(token, tokenReset)
	if err != nil || claims.UserID != id {
		return nil, ErrInvalidResetToken
	}
	u, err := s.users.ByID(ctx, id)
	if err != nil {
		return nil, ErrInvalidResetToken
	}
	if claims.Fingerprint != s.fingerprint(u.PasswordHash) {
		return nil, ErrInvalidResetToken
	}
	return u, nil
}

func resetBody(email, link string) string {
	return "Hello " + email + ",\n\n" +
		"You requested a password reset for your JavaNet EdTech account.\n\n" +
		"Click the link below to reset your password:\n" + link + "\n\n" +
		"If you didn't request this, please ignore this email.\n\n" +
		"This link will expire in 24 hours.\n\n" +
		"Best regards,\nJavaNet EdTech Team\n"
}
