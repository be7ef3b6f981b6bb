package auth

import (
	"sync"
	"time"
)

// StateStore holds in-flight OAuth state and PKCE parameters between the
// login redirect and the provider callback.
type StateStore interface {
	Store(state string, pkce *PKCEParams, ttl time.Duration) error
	Retrieve(state string) (*PKCEParams, error)
	Delete(state string) error
}

// MemoryStateStore implements StateStore with an in-process map. Entries
// carry their own expiry; a background sweep evicts what TTL already made
// invisible.
type MemoryStateStore struct {
	mu      sync.RWMutex
	entries map[string]pkceEntry
	done    chan struct{}
	once    sync.Once
}

type pkceEntry struct {
	pkce      *PKCEParams
	expiresAt time.Time
}

func (e pkceEntry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// NewMemoryStateStore creates an in-memory state store with periodic
// cleanup.
func NewMemoryStateStore() *MemoryStateStore {
	s := &MemoryStateStore{
		entries: make(map[string]pkceEntry),
		done:    make(chan struct{}),
	}
	go s.cleanup(5 * time.Minute)
	return s
}

// Store saves PKCE parameters under the state nonce with a TTL.
func (s *MemoryStateStore) Store(state string, pkce *PKCEParams, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[state] = pkceEntry{
		pkce:      pkce,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Retrieve gets PKCE parameters by state; expired entries behave as
// missing.
func (s *MemoryStateStore) Retrieve(state string) (*PKCEParams, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[state]
	if !ok || entry.expired(time.Now()) {
		return nil, ErrInvalidState
	}
	return entry.pkce, nil
}

// Delete removes a state entry.
func (s *MemoryStateStore) Delete(state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, state)
	return nil
}

// Close stops the cleanup goroutine.
func (s *MemoryStateStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *MemoryStateStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for state, entry := range s.entries {
				if entry.expired(now) {
					delete(s.entries, state)
				}
			}
			s.mu.Unlock()
		}
	}
}
