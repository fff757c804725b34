// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks request latency. Dashboard builds call out to
	// the feed and to AI providers, so the upper buckets go to 30s.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks the current number of HTTP requests being processed.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// Feed metrics track headline retrieval and normalization
var (
	// FeedFetchDuration measures time to fetch and normalize a feed
	FeedFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_fetch_duration_seconds",
			Help:    "Time taken to fetch and normalize a headline feed",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	// FeedFetchErrors counts failed feed retrievals by error type
	FeedFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetch_errors_total",
			Help: "Total number of feed retrieval failures",
		},
		[]string{"error_type"},
	)

	// FeedEntriesTotal counts raw feed entries by normalization outcome
	FeedEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_entries_total",
			Help: "Total number of raw feed entries by outcome",
		},
		[]string{"outcome"}, // outcome: kept, dropped, truncated
	)

	// FeedTimestampsUnresolved counts entries whose publish time could not be parsed
	FeedTimestampsUnresolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_timestamps_unresolved_total",
			Help: "Total number of feed entries without a resolvable publish time",
		},
	)

	// HeadlineCacheLookups counts cache lookups by result
	HeadlineCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headline_cache_lookups_total",
			Help: "Total number of headline cache lookups",
		},
		[]string{"result"}, // result: hit, miss, error
	)
)

// Analysis metrics track dashboard analysis steps
var (
	// SentimentLabelsTotal counts classified headlines by label
	SentimentLabelsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_labels_total",
			Help: "Total number of headlines classified, by sentiment label",
		},
		[]string{"label"},
	)

	// SentimentFallbacksTotal counts classifications served by the fallback classifier
	SentimentFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentiment_fallbacks_total",
			Help: "Total number of classifications that fell back to the secondary classifier",
		},
	)

	// DigestsTotal counts headline digests by status
	DigestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headline_digests_total",
			Help: "Total number of headline digests produced",
		},
		[]string{"status"}, // status: success, failure, insufficient, unavailable
	)

	// DigestDuration measures time to summarize the headline digest
	DigestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "headline_digest_duration_seconds",
			Help:    "Time taken to summarize the headline digest",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	// DashboardBuildsTotal counts dashboard builds by resulting status
	DashboardBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_builds_total",
			Help: "Total number of dashboard reports built",
		},
		[]string{"status"},
	)
)

// Resilience metrics
var (
	// CircuitBreakerState exposes the state of each named breaker
	// (0 = closed, 1 = half-open, 2 = open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)
