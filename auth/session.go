package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

const tokenBytes = 16

// Session is a logged-in browser session resolved from the cookie token.
type Session struct {
	Username string
	Expires  time.Time
}

// SessionStore is the process-wide token registry. It is constructed once at
// server start and injected into handlers; a restart invalidates everything,
// which is fine for a single-admin tool.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a registry whose sessions live for ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create mints an unguessable hex token for username and registers it.
func (s *SessionStore) Create(username string) (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = Session{Username: username, Expires: s.now().Add(s.ttl)}
	return token, nil
}

// Resolve returns the live session for token. Expired entries are purged as
// a side effect and reported as absent.
func (s *SessionStore) Resolve(token string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	if !sess.Expires.After(s.now()) {
		delete(s.sessions, token)
		return Session{}, false
	}
	return sess, true
}

// Invalidate removes token (logout). Unknown tokens are a no-op.
func (s *SessionStore) Invalidate(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}
