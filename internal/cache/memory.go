package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache implements Cache with an in-process map. Entries carry their
// own expiry; a background sweep evicts what TTL already made invisible.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	hits    int64
	misses  int64
	done    chan struct{}
	once    sync.Once
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// NewMemoryCache creates an in-memory cache with periodic cleanup.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]memoryEntry),
		done:    make(chan struct{}),
	}
	go c.cleanup(5 * time.Minute)
	return c
}

// Get retrieves a value; expired entries behave as missing.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || entry.expired(time.Now()) {
		atomic.AddInt64(&c.misses, 1)
		return nil, ErrKeyNotFound
	}
	atomic.AddInt64(&c.hits, 1)
	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, nil
}

// Set stores a value with TTL. A non-positive TTL means no expiry.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	entry := memoryEntry{value: stored}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

// Delete removes a value by key.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Exists checks whether a live entry exists for the key.
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	return ok && !entry.expired(time.Now()), nil
}

// Close stops the cleanup goroutine.
func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

// Stats returns hit/miss counters and the live key count.
func (c *MemoryCache) Stats() Stats {
	hits := atomic.LoadInt64(&c.hits)
	misses := atomic.LoadInt64(&c.misses)
	total := hits + misses
	ratio := 0.0
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}

	c.mu.RLock()
	keys := int64(len(c.entries))
	c.mu.RUnlock()

	return Stats{Hits: hits, Misses: misses, HitRatio: ratio, Keys: keys}
}

func (c *MemoryCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, entry := range c.entries {
				if entry.expired(now) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
