package metrics

import (
	"strconv"
	"time"
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path string, status int, duration time.Duration, responseSize int) {
	code := strconv.Itoa(status)
	HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordFeedFetch records a successful feed retrieval and its normalization outcome.
// kept is the number of articles returned, dropped the number of entries rejected
// by validation and truncated the number of valid entries cut by the maximum.
func RecordFeedFetch(duration time.Duration, kept, dropped, truncated, unresolved int) {
	FeedFetchDuration.Observe(duration.Seconds())
	FeedEntriesTotal.WithLabelValues("kept").Add(float64(kept))
	FeedEntriesTotal.WithLabelValues("dropped").Add(float64(dropped))
	FeedEntriesTotal.WithLabelValues("truncated").Add(float64(truncated))
	FeedTimestampsUnresolved.Add(float64(unresolved))
}

// RecordFeedFetchError records a failed feed retrieval.
func RecordFeedFetchError(errorType string) {
	FeedFetchErrors.WithLabelValues(errorType).Inc()
}

// RecordCacheLookup records the result of a headline cache lookup ("hit", "miss" or "error").
func RecordCacheLookup(result string) {
	HeadlineCacheLookups.WithLabelValues(result).Inc()
}

// RecordSentiment records one classified headline.
func RecordSentiment(label string) {
	SentimentLabelsTotal.WithLabelValues(label).Inc()
}

// RecordSentimentFallback records a classification served by the fallback classifier.
func RecordSentimentFallback() {
	SentimentFallbacksTotal.Inc()
}

// RecordDigest records the outcome and duration of a headline digest.
func RecordDigest(status string, duration time.Duration) {
	DigestsTotal.WithLabelValues(status).Inc()
	if duration > 0 {
		DigestDuration.Observe(duration.Seconds())
	}
}

// RecordDashboardBuild records the status of a built dashboard report.
func RecordDashboardBuild(status string) {
	DashboardBuildsTotal.WithLabelValues(status).Inc()
}

// RecordCircuitBreakerState records the numeric state of a named circuit breaker.
func RecordCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
