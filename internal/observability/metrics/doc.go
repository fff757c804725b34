// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Feed metrics (fetch latency, entry outcomes, cache lookups)
//   - Analysis metrics (sentiment labels, digest outcomes, dashboard builds)
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "marketpulse/internal/observability/metrics"
//
//	start := time.Now()
//	articles := headline.Normalize(entries, 50)
//	metrics.RecordFeedFetch(time.Since(start), len(articles), 0, 0, 0)
package metrics
