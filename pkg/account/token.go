package account

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Token types carried in the token_type claim.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
	tokenReset   = "password_reset"
)

// Tokens is an access/refresh pair.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Claims are the JWT claims issued by the service.
type Claims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"`
	// Fingerprint binds reset tokens to the password they were issued for.
	Fingerprint string `json:"fp,omitempty"`
	jwt.RegisteredClaims
}

var signingMethods = []string{jwt.SigningMethodHS256.Alg()}

func (s *Service) sign(userID, tokenType, fingerprint string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:      userID,
		TokenType:   tokenType,
		Fingerprint: fingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) issue(userID string) (Tokens, error) {
	access, err := s.sign(userID, TokenAccess, "", s.cfg.AccessTTL)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := s.sign(userID, TokenRefresh, "", s.cfg.RefreshTTL)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{Access: access, Refresh: refresh}, nil
}

// parse validates signature, expiry and token type.
func (s *Service) parse(raw, tokenType string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.cfg.Secret, nil
	}, jwt.WithValidMethods(signingMethods))
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if claims.TokenType != tokenType || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// fingerprint changes whenever the password hash does.
func (s *Service) fingerprint(passwordHash string) string {
	sum := sha256.Sum256(append(append([]byte{}, s.cfg.Secret...), passwordHash...))
	return hex.EncodeToString(sum[:8])
}
