package headline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketpulse/internal/domain/entity"
	"marketpulse/internal/observability/logging"
	"marketpulse/internal/observability/metrics"
	"marketpulse/internal/observability/tracing"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
)

// Bounds for a caller-supplied article limit.
const (
	MinMaxArticles     = 10
	MaxMaxArticles     = 100
	DefaultMaxArticles = 50
)

// EntryFetcher retrieves the raw entries of one feed document.
type EntryFetcher interface {
	Fetch(ctx context.Context, url string) ([]RawEntry, error)
}

// Source produces the canonical article list for a feed URL.
// Implementations must return a non-nil slice even when err is non-nil.
type Source interface {
	Collect(ctx context.Context, feedURL string, maxArticles int) ([]entity.Article, error)
}

// ClampMaxArticles clamps n into [MinMaxArticles, MaxMaxArticles].
// Non-positive input selects DefaultMaxArticles.
func ClampMaxArticles(n int) int {
	if n <= 0 {
		return DefaultMaxArticles
	}
	return min(max(n, MinMaxArticles), MaxMaxArticles)
}

// Service collects and normalizes headlines from a feed.
type Service struct {
	Fetcher EntryFetcher
}

// NewService creates a Service reading feeds through fetcher.
func NewService(fetcher EntryFetcher) *Service {
	return &Service{Fetcher: fetcher}
}

// Collect fetches feedURL and returns at most maxArticles validated articles,
// newest first. On retrieval failure it returns an empty, non-nil slice and an
// error wrapping ErrFeedFetchFailed.
func (s *Service) Collect(ctx context.Context, feedURL string, maxArticles int) ([]entity.Article, error) {
	ctx, span := tracing.StartSpan(ctx, "headline.Collect",
		attribute.String("feed.url", feedURL),
		attribute.Int("feed.max_articles", maxArticles),
	)
	defer span.End()

	logger := logging.FromContext(ctx)
	start := time.Now()

	entries, err := s.Fetcher.Fetch(ctx, feedURL)
	if err != nil {
		metrics.RecordFeedFetchError(classifyFetchError(err))
		tracing.RecordError(span, err)
		logger.Warn("feed fetch failed",
			"url", feedURL,
			"duration", time.Since(start),
			"error", err)
		return []entity.Article{}, fmt.Errorf("%w: %w", ErrFeedFetchFailed, err)
	}

	articles, stats := normalize(entries, maxArticles)
	metrics.RecordFeedFetch(time.Since(start), stats.Kept, stats.Dropped, stats.Truncated, stats.Unresolved)

	span.SetAttributes(
		attribute.Int("feed.entries", stats.Seen),
		attribute.Int("feed.articles", stats.Kept),
	)
	logger.Debug("feed normalized",
		"url", feedURL,
		"entries", stats.Seen,
		"kept", stats.Kept,
		"dropped", stats.Dropped,
		"truncated", stats.Truncated,
		"unresolved_timestamps", stats.Unresolved)

	return articles, nil
}

// classifyFetchError maps a fetch error to the error_type metric label.
func classifyFetchError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.Is(err, ErrInvalidFeedFormat):
		return "parse"
	default:
		return "network"
	}
}
