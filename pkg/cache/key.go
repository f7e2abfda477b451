package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key represents a unique identifier for a cached wiki API response.
type Key struct {
	// Host is the API host (e.g., "en.wikipedia.org")
	Host string

	// Path is the API path (e.g., "/w/api.php")
	Path string

	// QueryParams are the query parameters of the request
	QueryParams url.Values
}

// KeyForURL derives a cache key from a complete query URL.
// Unparseable URLs fall back to the raw string as path.
func KeyForURL(rawURL string) Key {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Key{Path: rawURL}
	}
	return Key{
		Host:        u.Host,
		Path:        u.Path,
		QueryParams: u.Query(),
	}
}

// String generates a deterministic cache key string.
// Format: wiki:host/path:param1=val1:param2=val2
//
// Example:
//
//	wiki:en.wikipedia.org/w/api.php:action=query:format=json:list=categorymembers
func (k Key) String() string {
	parts := []string{"wiki"}

	endpoint := k.Host + strings.TrimRight(k.Path, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Add query params (sorted for determinism)
	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.QueryParams.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
