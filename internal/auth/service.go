// Package auth handles the admin panel login.
//
// This is a single-admin deployment: credentials come from the environment
// and a successful login issues a short-lived session token. There is no
// user store.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ptnbk2401/quy-do-official/internal/config"
)

const sessionTTL = 24 * time.Hour

// ErrInvalidCredentials is returned when the username or password does not match.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrNotConfigured is returned when no admin password is set in the environment.
var ErrNotConfigured = errors.New("admin credentials not configured")

// Service contains the business logic for admin authentication.
type Service struct {
	cfg *config.Config
}

// NewService creates a new auth Service.
func NewService(cfg *config.Config) *Service {
	return &Service{cfg: cfg}
}

// Login verifies the admin credentials and returns a signed session token.
func (s *Service) Login(username, password string) (string, error) {
	if s.cfg.AdminPassword == "" {
		return "", ErrNotConfigured
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword))
	if userOK&passOK != 1 {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(sessionTTL).Unix(),
	})

	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}
