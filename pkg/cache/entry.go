// Package cache provides a Redis-backed response cache for wiki API queries.
package cache

import (
	"time"
)

// Entry represents a cached wiki API response body.
type Entry struct {
	// Data is the raw JSON response body
	Data []byte `json:"data"`

	// FetchedAt is when the response was fetched from the API
	FetchedAt time.Time `json:"fetched_at"`

	// ExpiresAt is when the entry becomes stale. The action API sends no
	// usable Expires header, so expiry is a fixed TTL from fetch time.
	ExpiresAt time.Time `json:"expires_at"`
}

// NewEntry creates a cache entry for a response body with the given TTL.
func NewEntry(data []byte, ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		Data:      data,
		FetchedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the cache entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.ExpiresAt)
	if ttl < 0 {
		return 0
	}
	return ttl
}
