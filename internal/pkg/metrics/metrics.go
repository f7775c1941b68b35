// Package metrics exposes Prometheus instrumentation for the search engine.
// Collectors register on the default registry and are served via /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts cache reads that returned a live entry.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "precivox",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Number of cache hits.",
	})

	// CacheMisses counts cache reads that found nothing usable.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "precivox",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Number of cache misses.",
	})

	// CacheEvictions counts entries removed by the capacity policy.
	CacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "precivox",
		Subsystem: "cache",
		Name:      "evictions_total",
		Help:      "Number of cache entries evicted by capacity pressure.",
	})

	// SourceErrors counts failed source attempts by source id.
	SourceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "precivox",
		Subsystem: "sources",
		Name:      "errors_total",
		Help:      "Number of failed source attempts.",
	}, []string{"source"})

	// QueryDuration observes end-to-end search latency.
	QueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "precivox",
		Subsystem: "search",
		Name:      "query_duration_seconds",
		Help:      "End-to-end query processing time.",
		Buckets:   prometheus.DefBuckets,
	})
)
