package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by layer (redis)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wiki_cache_hits_total",
			Help: "Total number of wiki response cache hits",
		},
		[]string{"layer"}, // "redis"
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wiki_cache_misses_total",
			Help: "Total number of wiki response cache misses",
		},
	)

	// CacheSize tracks cache size in bytes by layer
	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wiki_cache_size_bytes",
			Help: "Current size of wiki response cache in bytes",
		},
		[]string{"layer"}, // "redis"
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wiki_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
