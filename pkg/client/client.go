// Package client provides the core wiki API HTTP client with response
// caching, in-flight request deduplication, and error classification.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/wikitalk/crawler/pkg/cache"
)

// Prometheus metrics for wiki client operations.
var (
	wikiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wiki_requests_total",
		Help: "Total wiki API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	wikiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wiki_request_duration_seconds",
		Help:    "Wiki API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	wikiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wiki_errors_total",
		Help: "Total wiki API errors by class",
	}, []string{"class"})
)

// Client is the wiki API HTTP client.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	flight     singleflight.Group
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// Redis client for the response cache; nil disables caching.
	Redis *redis.Client

	// User-Agent header. The Wikimedia API etiquette requires an identifying
	// agent with contact information.
	UserAgent string

	// Timeout bounds each individual request. A timeout fails that one
	// request, not the whole descriptor.
	Timeout time.Duration

	// CacheTTL is how long cached response bodies stay valid. The action API
	// sends no usable Expires header, so the TTL is fixed.
	CacheTTL time.Duration

	// Retry is the per-request retry policy applied by callers.
	Retry RetryConfig
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
		CacheTTL:  15 * time.Minute,
		Retry:     DefaultRetryConfig(),
	}
}

// New creates a new wiki API client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	logger := log.With().Str("component", "wiki-client").Logger()

	var cacheManager *cache.Manager
	if cfg.Redis != nil {
		cacheManager = cache.NewManager(cfg.Redis, cfg.CacheTTL)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:  cacheManager,
		config: cfg,
		logger: logger,
	}, nil
}

// RetryConfig returns the retry policy configured for this client.
func (c *Client) RetryConfig() RetryConfig {
	return c.config.Retry
}

// Get performs a single GET against rawURL and returns the raw body bytes.
// It checks the response cache first and deduplicates identical in-flight
// URLs. No retries happen here; callers replay the same URL through
// RetryWithBackoff. The returned slice is shared and must not be mutated.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	endpoint := endpointLabel(rawURL)

	startTime := time.Now()
	defer func() {
		wikiRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	// Check cache
	if c.cache != nil {
		key := cache.KeyForURL(rawURL)
		entry, err := c.cache.Get(ctx, key)
		if err != nil && err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
		if entry != nil {
			c.logger.Debug().Str("endpoint", endpoint).Msg("Cache hit")
			wikiRequestsTotal.WithLabelValues(endpoint, "cached").Inc()
			return entry.Data, nil
		}
	}

	// Collapse concurrent fetches of the same URL into one request
	body, err, _ := c.flight.Do(rawURL, func() (interface{}, error) {
		return c.get(ctx, rawURL, endpoint)
	})
	if err != nil {
		return nil, err
	}

	return body.([]byte), nil
}

// get executes one HTTP round trip without caching or deduplication.
func (c *Client) get(ctx context.Context, rawURL, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &CrawlError{
			Class:   ErrorClassClient,
			Message: "create request",
			Err:     err,
		}
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", req.Method).
		Msg("Executing wiki request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		wikiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		wikiRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		return nil, &CrawlError{
			Class:   ErrorClassNetwork,
			Message: "http request failed",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		class := classifyStatus(resp.StatusCode)
		wikiErrorsTotal.WithLabelValues(string(class)).Inc()
		wikiRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Wiki request error")

		return nil, &CrawlError{
			StatusCode: resp.StatusCode,
			Class:      class,
			Message:    resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		wikiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &CrawlError{
			Class:   ErrorClassNetwork,
			Message: "read response body",
			Err:     err,
		}
	}

	wikiRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	// Cache successful responses
	if c.cache != nil {
		key := cache.KeyForURL(rawURL)
		entry := cache.NewEntry(body, c.config.CacheTTL)
		if err := c.cache.Set(ctx, key, entry); err != nil {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to cache response")
		}
	}

	return body, nil
}

// classifyStatus categorizes an HTTP status code for retry decisions.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode >= 500:
		return ErrorClassServer
	case statusCode >= 400:
		return ErrorClassClient
	default:
		return ""
	}
}

// endpointLabel reduces a URL to a low-cardinality metrics label.
func endpointLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "invalid"
	}
	return u.Host + u.Path
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Close closes the client and releases resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
