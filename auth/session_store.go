package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gunplahub/api/internal/cache"
	"github.com/gunplahub/api/internal/types"
)

// ErrSessionNotFound is returned when no live session exists for an id.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore is the injected session-cache service: every issued session
// lives here with an explicit expiry, and sign-out calls Invalidate. The
// store is the source of truth for whether a token is still welcome; a
// validly signed JWT whose session entry is gone is rejected.
type SessionStore struct {
	cache  cache.Cache
	prefix string
	ttl    time.Duration
}

// NewSessionStore creates a session store on top of the given cache.
func NewSessionStore(c cache.Cache, prefix string, ttl time.Duration) *SessionStore {
	if prefix == "" {
		prefix = "sessions:"
	}
	return &SessionStore{cache: c, prefix: prefix, ttl: ttl}
}

// Put stores the principal for a session id with the configured TTL.
func (s *SessionStore) Put(ctx context.Context, sessionID string, principal types.AdminPrincipal) error {
	payload, err := json.Marshal(principal)
	if err != nil {
		return fmt.Errorf("failed to encode session principal: %w", err)
	}
	if err := s.cache.Set(ctx, s.key(sessionID), payload, s.ttl); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get returns the principal for a live session id.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (types.AdminPrincipal, error) {
	var principal types.AdminPrincipal

	payload, err := s.cache.Get(ctx, s.key(sessionID))
	if err != nil {
		if errors.Is(err, cache.ErrKeyNotFound) {
			return principal, ErrSessionNotFound
		}
		return principal, fmt.Errorf("session lookup failed: %w", err)
	}

	if err := json.Unmarshal(payload, &principal); err != nil {
		return principal, fmt.Errorf("failed to decode session principal: %w", err)
	}
	principal.SessionID = sessionID
	return principal, nil
}

// Invalidate removes a session, e.g. on sign-out.
func (s *SessionStore) Invalidate(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, s.key(sessionID))
}

func (s *SessionStore) key(sessionID string) string {
	return s.prefix + sessionID
}
