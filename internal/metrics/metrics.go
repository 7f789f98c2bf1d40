// Package metrics registers the Prometheus metrics exposed by CultureBot.
// Importing any package that records a metric registers the full set before
// the /metrics handler is mounted.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QuestionsTotal counts answered questions labelled by outcome
	// ("success", "error", "rejected") and answer source ("cache", "model").
	QuestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "culturebot_questions_total",
			Help: "Total number of questions processed.",
		},
		[]string{"status", "source"},
	)

	// RequestDuration observes end-to-end ask latency in seconds.
	RequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "culturebot_request_duration_seconds",
			Help:    "End-to-end ask request duration in seconds.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// CacheOperations counts cache backend operations labelled by backend
	// ("memory", "redis"), operation ("get", "set", "evict"), and result
	// ("hit", "miss", "ok", "error").
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "culturebot_cache_operations_total",
			Help: "Total answer cache operations by backend and result.",
		},
		[]string{"backend", "operation", "result"},
	)

	// CacheFallbacks counts startup fallbacks from the Redis backend to the
	// in-process backend.
	CacheFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "culturebot_cache_fallbacks_total",
			Help: "Total startup fallbacks from Redis to the in-process cache.",
		},
	)

	// ProviderErrors counts answer generation failures by provider.
	ProviderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "culturebot_provider_errors_total",
			Help: "Total answer generation errors by provider.",
		},
		[]string{"provider"},
	)
)
