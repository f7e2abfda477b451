package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Manager handles caching operations with Redis backend.
type Manager struct {
	redis      *redis.Client
	defaultTTL time.Duration
}

// NewManager creates a new cache manager with Redis backend.
func NewManager(redisClient *redis.Client, defaultTTL time.Duration) *Manager {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if defaultTTL <= 0 {
		defaultTTL = 15 * time.Minute
	}
	return &Manager{
		redis:      redisClient,
		defaultTTL: defaultTTL,
	}
}

// Get retrieves a cache entry by key.
// Returns ErrCacheMiss if the key doesn't exist or the entry is expired.
func (m *Manager) Get(ctx context.Context, key Key) (*Entry, error) {
	cacheKey := key.String()

	data, err := m.redis.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			CacheMisses.Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	// Check if expired
	if entry.IsExpired() {
		_ = m.Delete(ctx, key)
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues("redis").Inc()
	CacheSize.WithLabelValues("redis").Add(float64(len(data)))

	return &entry, nil
}

// Set stores a cache entry with TTL based on the entry's ExpiresAt field.
// The entry is automatically removed from Redis when it expires.
func (m *Manager) Set(ctx context.Context, key Key, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	cacheKey := key.String()

	ttl := entry.TTL()
	if ttl <= 0 {
		// Already expired, don't cache
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := m.redis.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Delete removes a cache entry by key.
func (m *Manager) Delete(ctx context.Context, key Key) error {
	cacheKey := key.String()

	if err := m.redis.Del(ctx, cacheKey).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}
