package headline_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"marketpulse/internal/domain/entity"
	"marketpulse/internal/usecase/headline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* ───────── fakes ───────── */

type mapStore struct {
	mu     sync.Mutex
	items  map[string][]entity.Article
	ttls   map[string]time.Duration
	getErr error
}

func newMapStore() *mapStore {
	return &mapStore{items: map[string][]entity.Article{}, ttls: map[string]time.Duration{}}
}

func (m *mapStore) Get(_ context.Context, key string) ([]entity.Article, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	a, ok := m.items[key]
	return a, ok, nil
}

func (m *mapStore) Set(_ context.Context, key string, articles []entity.Article, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = articles
	m.ttls[key] = ttl
	return nil
}

type countingSource struct {
	calls    atomic.Int32
	articles []entity.Article
	err      error
	gate     chan struct{}
}

func (c *countingSource) Collect(_ context.Context, _ string, _ int) ([]entity.Article, error) {
	c.calls.Add(1)
	if c.gate != nil {
		<-c.gate
	}
	if c.err != nil {
		return []entity.Article{}, c.err
	}
	return c.articles, nil
}

var sampleArticles = []entity.Article{
	{Title: "Fed signals pause", Source: "Reuters"},
	{Title: "Chip stocks surge", Source: "CNBC"},
}

/* ───────── CacheKey ───────── */

func TestCacheKey(t *testing.T) {
	a := headline.CacheKey("https://x/rss", 50)
	assert.Len(t, a, 64)
	assert.Equal(t, a, headline.CacheKey("https://x/rss", 50))
	assert.NotEqual(t, a, headline.CacheKey("https://x/rss", 51))
	assert.NotEqual(t, a, headline.CacheKey("https://y/rss", 50))
}

/* ───────── CachedSource ───────── */

func TestCachedSource_HitAfterMiss(t *testing.T) {
	store := newMapStore()
	next := &countingSource{articles: sampleArticles}
	c := headline.NewCachedSource(next, store, 0)

	first, err := c.Collect(context.Background(), "https://x/rss", 50)
	require.NoError(t, err)
	second, err := c.Collect(context.Background(), "https://x/rss", 50)
	require.NoError(t, err)

	assert.Equal(t, int32(1), next.calls.Load())
	assert.Equal(t, sampleArticles, first)
	assert.Equal(t, sampleArticles, second)
	assert.Equal(t, headline.DefaultCacheTTL, store.ttls[headline.CacheKey("https://x/rss", 50)])
}

func TestCachedSource_DistinctKeys(t *testing.T) {
	next := &countingSource{articles: sampleArticles}
	c := headline.NewCachedSource(next, newMapStore(), time.Minute)

	_, _ = c.Collect(context.Background(), "https://x/rss", 50)
	_, _ = c.Collect(context.Background(), "https://x/rss", 20)
	_, _ = c.Collect(context.Background(), "https://y/rss", 50)

	assert.Equal(t, int32(3), next.calls.Load())
}

func TestCachedSource_ErrorsNotCached(t *testing.T) {
	store := newMapStore()
	fetchErr := errors.New("upstream down")
	next := &countingSource{err: fetchErr}
	c := headline.NewCachedSource(next, store, time.Minute)

	got, err := c.Collect(context.Background(), "https://x/rss", 50)
	assert.ErrorIs(t, err, fetchErr)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, store.items)

	_, _ = c.Collect(context.Background(), "https://x/rss", 50)
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestCachedSource_StoreErrorFallsThrough(t *testing.T) {
	store := newMapStore()
	store.getErr = errors.New("redis unavailable")
	next := &countingSource{articles: sampleArticles}
	c := headline.NewCachedSource(next, store, time.Minute)

	got, err := c.Collect(context.Background(), "https://x/rss", 50)
	require.NoError(t, err)
	assert.Equal(t, sampleArticles, got)
}

func TestCachedSource_ReturnsCopies(t *testing.T) {
	next := &countingSource{articles: []entity.Article{{Title: "Original title", Source: "AP"}}}
	c := headline.NewCachedSource(next, newMapStore(), time.Minute)

	got, err := c.Collect(context.Background(), "https://x/rss", 50)
	require.NoError(t, err)
	got[0].Title = "mutated"

	again, err := c.Collect(context.Background(), "https://x/rss", 50)
	require.NoError(t, err)
	assert.Equal(t, "Original title", again[0].Title)
}

func TestCachedSource_CollapsesConcurrentMisses(t *testing.T) {
	next := &countingSource{articles: sampleArticles, gate: make(chan struct{})}
	c := headline.NewCachedSource(next, newMapStore(), time.Minute)

	const callers = 8
	var wg sync.WaitGroup
	results := make([][]entity.Article, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Collect(context.Background(), "https://x/rss", 50)
		}(i)
	}

	// let the callers pile up on the in-flight call
	require.Eventually(t, func() bool { return next.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(next.gate)
	wg.Wait()

	assert.Equal(t, int32(1), next.calls.Load())
	for _, r := range results {
		assert.Equal(t, sampleArticles, r)
	}
}

// gatedSource blocks until released or until the fetch context is done.
type gatedSource struct {
	calls   atomic.Int32
	release chan struct{}
}

func (g *gatedSource) Collect(ctx context.Context, _ string, _ int) ([]entity.Article, error) {
	g.calls.Add(1)
	select {
	case <-g.release:
		return sampleArticles, nil
	case <-ctx.Done():
		return []entity.Article{}, fmt.Errorf("%w: %w", headline.ErrFeedFetchFailed, ctx.Err())
	}
}

func TestCachedSource_CanceledCallerDoesNotFailOthers(t *testing.T) {
	next := &gatedSource{release: make(chan struct{})}
	store := newMapStore()
	c := headline.NewCachedSource(next, store, time.Minute)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() {
		_, err := c.Collect(firstCtx, "https://x/rss", 50)
		firstDone <- err
	}()
	require.Eventually(t, func() bool { return next.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		articles []entity.Article
		err      error
	}
	secondDone := make(chan result, 1)
	go func() {
		a, err := c.Collect(context.Background(), "https://x/rss", 50)
		secondDone <- result{a, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	select {
	case err := <-firstDone:
		assert.ErrorIs(t, err, headline.ErrFeedFetchFailed)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("canceled caller did not return")
	}

	close(next.release)
	select {
	case r := <-secondDone:
		require.NoError(t, r.err)
		assert.Equal(t, sampleArticles, r.articles)
	case <-time.After(time.Second):
		t.Fatal("live caller did not return")
	}

	assert.Equal(t, int32(1), next.calls.Load())
	cached, ok, _ := store.Get(context.Background(), headline.CacheKey("https://x/rss", 50))
	assert.True(t, ok)
	assert.Equal(t, sampleArticles, cached)
}
