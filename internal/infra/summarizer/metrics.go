package summarizer

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SummaryMetricsRecorder records summary quality and latency.
// Tests inject a fake in place of the Prometheus implementation.
type SummaryMetricsRecorder interface {
	// RecordLength records the length of a generated summary in characters.
	RecordLength(provider string, length int)

	// RecordLimitExceeded counts summaries longer than the configured limit.
	RecordLimitExceeded(provider string)

	// RecordDuration records the time taken by one provider call.
	RecordDuration(provider string, duration time.Duration)
}

// PrometheusSummaryMetrics implements SummaryMetricsRecorder using Prometheus.
type PrometheusSummaryMetrics struct {
	lengthHistogram   *prometheus.HistogramVec
	exceededCounter   *prometheus.CounterVec
	durationHistogram *prometheus.HistogramVec
}

var (
	prometheusMetricsInstance *PrometheusSummaryMetrics
	prometheusMetricsOnce     sync.Once
)

// registerOrExisting registers c, returning the already registered collector
// when an identical one exists.
func registerOrExisting[C prometheus.Collector](c C) C {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// NewPrometheusSummaryMetrics returns the process wide recorder. It is a
// singleton so that several providers share one set of collectors.
func NewPrometheusSummaryMetrics() *PrometheusSummaryMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusSummaryMetrics{
			lengthHistogram: registerOrExisting(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "summarizer_output_length_characters",
				Help:    "Distribution of summary lengths in characters (Unicode runes)",
				Buckets: []float64{100, 200, 300, 400, 600, 800, 1200, 2000},
			}, []string{"provider"})),
			exceededCounter: registerOrExisting(prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "summarizer_limit_exceeded_total",
				Help: "Total number of summaries exceeding the configured character limit",
			}, []string{"provider"})),
			durationHistogram: registerOrExisting(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "summarizer_api_duration_seconds",
				Help:    "Time taken by a single summarization API call",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
			}, []string{"provider"})),
		}
	})
	return prometheusMetricsInstance
}

// RecordLength implements SummaryMetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordLength(provider string, length int) {
	p.lengthHistogram.WithLabelValues(provider).Observe(float64(length))
}

// RecordLimitExceeded implements SummaryMetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordLimitExceeded(provider string) {
	p.exceededCounter.WithLabelValues(provider).Inc()
}

// RecordDuration implements SummaryMetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordDuration(provider string, duration time.Duration) {
	p.durationHistogram.WithLabelValues(provider).Observe(duration.Seconds())
}
