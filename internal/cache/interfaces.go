package cache

import (
	"context"
	"errors"
	"time"

	platformconfig "github.com/gunplahub/api/internal/platform/config"
)

// Cache defines the generic cache interface for all cache implementations
type Cache interface {
	// Get retrieves a value from cache by key
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from cache by key
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)

	// Close closes the cache connection
	Close() error

	// Stats returns cache statistics
	Stats() Stats
}

// Stats provides cache performance statistics
type Stats struct {
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	HitRatio float64 `json:"hit_ratio"`
	Keys     int64   `json:"keys"`
}

// Common cache errors
var (
	// ErrKeyNotFound is returned when a key is not found in cache
	ErrKeyNotFound = errors.New("key not found")

	// ErrCacheUnavailable is returned when cache backend is unavailable
	ErrCacheUnavailable = errors.New("cache unavailable")
)

// Backend identifiers accepted by New.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// New creates the cache backend selected by configuration. Unknown
// backends fall back to the in-memory cache.
func New(cfg platformconfig.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case BackendRedis:
		return NewRedisCache(cfg.Redis)
	case BackendMemory, "":
		return NewMemoryCache(), nil
	default:
		return NewMemoryCache(), nil
	}
}
