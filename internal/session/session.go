// Package session holds the cashier's authenticated identity. The store is
// injected into whatever needs it rather than living as package state, so
// its lifetime is bound to the application root.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/posclub/cashier/internal/models"
)

// Store is the in-memory session: bearer token plus the user it belongs to.
// Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	token  string
	user   *models.User
	logger *slog.Logger
}

// NewStore creates an empty (unauthenticated) store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger}
}

// Token returns the current bearer token, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the authenticated user, nil when logged out.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether a session is installed.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Install replaces the session wholesale. Used at login and after a shift
// handover when the server issues the incoming cashier's token.
func (s *Store) Install(token string, user *models.User) {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	if user != nil {
		s.logger.Info("session installed", "user", user.Username)
	}
}

// Clear drops the session. The API client calls this through its 401 hook.
func (s *Store) Clear() {
	s.mu.Lock()
	hadSession := s.token != ""
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	if hadSession {
		s.logger.Info("session cleared")
	}
}

// ExpiresAt reports the token's expiry claim. Signature verification is the
// server's job; the client only reads the claim to know when a re-login is
// due. Returns false for a missing token or absent claim.
func (s *Store) ExpiresAt() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
