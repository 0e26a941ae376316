// Package session owns the bearer token lifecycle: one credential at a
// time, held in memory and mirrored to a durable file slot so a login
// survives process restarts.
package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Store holds the current bearer token. The zero value is unusable; build
// one with NewStore, which hydrates from the durable slot exactly once.
// Setting a token replaces the previous one atomically, both in memory and
// on disk. Durable writes are best-effort: a failed write only forfeits
// persistence across restarts, it never fails the login that produced the
// token.
type Store struct {
	mu     sync.RWMutex
	token  string
	path   string
	logger *logrus.Logger
}

// NewStore creates a Store backed by the file at path. A missing or
// unreadable file yields an unauthenticated store.
func NewStore(path string, logger *logrus.Logger) *Store {
	s := &Store{path: path, logger: logger}

	data, err := os.ReadFile(path)
	if err == nil {
		s.token = strings.TrimSpace(string(data))
	} else if !os.IsNotExist(err) {
		logger.WithField("path", path).WithError(err).Warn("could not read stored token")
	}

	return s
}

// SetToken stores a new token, or clears the session when token is empty.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token

	if token == "" {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			s.logger.WithField("path", s.path).WithError(err).Warn("could not remove stored token")
		}
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.logger.WithField("path", s.path).WithError(err).Warn("could not create token directory")
		return
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		s.logger.WithField("path", s.path).WithError(err).Warn("could not persist token")
	}
}

// Token returns the current token, or the empty string when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is currently held.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}
