package headline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"time"

	"marketpulse/internal/domain/entity"
	"marketpulse/internal/observability/logging"
	"marketpulse/internal/observability/metrics"
	"marketpulse/internal/observability/tracing"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long a collected article list is reused.
const DefaultCacheTTL = 5 * time.Minute

// CacheStore persists article lists under opaque keys with a time-to-live.
// A miss is reported as (nil, false, nil).
type CacheStore interface {
	Get(ctx context.Context, key string) ([]entity.Article, bool, error)
	Set(ctx context.Context, key string, articles []entity.Article, ttl time.Duration) error
}

// CacheKey derives the cache key for a (feed URL, limit) pair.
func CacheKey(feedURL string, maxArticles int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s_%d", feedURL, maxArticles)))
	return hex.EncodeToString(sum[:])
}

// CachedSource decorates a Source with a TTL cache.
// Concurrent misses for the same key share one upstream call.
// Failed collections are never stored.
type CachedSource struct {
	next  Source
	store CacheStore
	ttl   time.Duration
	group singleflight.Group
}

// NewCachedSource wraps next with store. A non-positive ttl selects DefaultCacheTTL.
func NewCachedSource(next Source, store CacheStore, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedSource{next: next, store: store, ttl: ttl}
}

// Collect implements Source.
func (c *CachedSource) Collect(ctx context.Context, feedURL string, maxArticles int) ([]entity.Article, error) {
	key := CacheKey(feedURL, maxArticles)
	logger := logging.FromContext(ctx)

	ctx, span := tracing.StartSpan(ctx, "headline.CachedSource.Collect",
		attribute.String("cache.key", key))
	defer span.End()

	cached, ok, err := c.store.Get(ctx, key)
	if err != nil {
		// store outage degrades to a direct fetch
		metrics.RecordCacheLookup("error")
		logger.Warn("headline cache read failed", "key", key, "error", err)
	} else if ok {
		metrics.RecordCacheLookup("hit")
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return slices.Clone(cached), nil
	} else {
		metrics.RecordCacheLookup("miss")
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	// the shared fill outlives any single caller; the fetcher's own timeout
	// and retry limit bound it
	fillCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		articles, err := c.next.Collect(fillCtx, feedURL, maxArticles)
		if err != nil {
			return articles, err
		}
		if setErr := c.store.Set(fillCtx, key, articles, c.ttl); setErr != nil {
			logger.Warn("headline cache write failed", "key", key, "error", setErr)
		}
		return articles, nil
	})

	var v any
	select {
	case res := <-ch:
		v, err = res.Val, res.Err
	case <-ctx.Done():
		return []entity.Article{}, fmt.Errorf("%w: %w", ErrFeedFetchFailed, ctx.Err())
	}

	articles, _ := v.([]entity.Article)
	if articles == nil {
		articles = []entity.Article{}
	}
	return slices.Clone(articles), err
}
