// Package scraper fetches RSS/Atom headline feeds.
// It uses the gofeed library to parse feed content with reliability patterns.
package scraper

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"marketpulse/internal/resilience/circuitbreaker"
	"marketpulse/internal/resilience/retry"
	"marketpulse/internal/usecase/headline"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// DefaultUserAgent identifies the dashboard to feed providers.
const DefaultUserAgent = "MarketPulseBot/1.0"

// ErrBodyTooLarge is returned when a feed document exceeds Config.MaxBodySize.
var ErrBodyTooLarge = errors.New("feed body too large")

// Config controls how RSSFetcher talks to the feed provider.
type Config struct {
	// UserAgent sent with every request. Default: DefaultUserAgent
	UserAgent string

	// RatePerSecond paces outbound requests. Zero or negative disables pacing.
	RatePerSecond float64

	// Burst is the number of requests allowed at once. Default: 1
	Burst int

	// MaxBodySize is the maximum feed size in bytes. Default: 5MB
	MaxBodySize int64

	// Retry overrides retry.FeedFetchConfig when MaxAttempts > 0.
	Retry retry.Config

	// Breaker overrides circuitbreaker.FeedFetchConfig when Name is set.
	Breaker circuitbreaker.Config
}

// DefaultConfig returns the production fetcher configuration.
func DefaultConfig() Config {
	return Config{
		UserAgent:     DefaultUserAgent,
		RatePerSecond: 2,
		Burst:         2,
		MaxBodySize:   5 * 1024 * 1024,
		Retry:         retry.FeedFetchConfig(),
		Breaker:       circuitbreaker.FeedFetchConfig(),
	}
}

// RSSFetcher implements headline.EntryFetcher using the gofeed library.
// Requests are paced, retried with backoff and guarded by a circuit breaker.
type RSSFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	limiter        *rate.Limiter
	cfg            Config
}

// NewHTTPClient returns the HTTP client used for feed requests.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// NewRSSFetcher creates a new RSSFetcher with the given HTTP client.
// Zero-valued fields of cfg fall back to DefaultConfig.
func NewRSSFetcher(client *http.Client, cfg Config) *RSSFetcher {
	def := DefaultConfig()
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = def.MaxBodySize
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = def.Retry
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker = def.Breaker
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &RSSFetcher{
		client:         client,
		circuitBreaker: circuitbreaker.New(cfg.Breaker),
		limiter:        rate.NewLimiter(limit, cfg.Burst),
		cfg:            cfg,
	}
}

// BreakerOpen reports whether the feed circuit breaker is rejecting requests.
func (f *RSSFetcher) BreakerOpen() bool {
	return f.circuitBreaker.IsOpen()
}

// Fetch retrieves and parses an RSS/Atom feed from the given URL.
func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) ([]headline.RawEntry, error) {
	var entries []headline.RawEntry

	retryErr := retry.WithBackoff(ctx, f.cfg.Retry, func() error {
		if err := f.limiter.Wait(ctx); err != nil {
			return err
		}

		result, err := circuitbreaker.Run(f.circuitBreaker, func() ([]headline.RawEntry, error) {
			return f.doFetch(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("service", "feed-fetch"),
					slog.String("url", feedURL),
					slog.String("state", f.circuitBreaker.State().String()))
			}
			return err
		}

		entries = result
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}

	return entries, nil
}

// doFetch performs the actual feed fetch without retry or circuit breaker.
func (f *RSSFetcher) doFetch(ctx context.Context, feedURL string) ([]headline.RawEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}
	if int64(len(body)) > f.cfg.MaxBodySize {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrBodyTooLarge, f.cfg.MaxBodySize)
	}

	feed, err := newParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", headline.ErrInvalidFeedFormat, err)
	}

	entries := make([]headline.RawEntry, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		entries = append(entries, toRawEntry(it))
	}
	return entries, nil
}

func toRawEntry(it *gofeed.Item) headline.RawEntry {
	// Description first, Content as fallback
	summary := it.Description
	if strings.TrimSpace(summary) == "" {
		summary = it.Content
	}

	return headline.RawEntry{
		Title:           it.Title,
		Link:            it.Link,
		Published:       it.Published,
		PublishedParsed: it.PublishedParsed,
		Summary:         htmlToText(summary),
		SourceTitle:     it.Custom[sourceTitleKey],
		SourceName:      flatSource(it),
	}
}

// flatSource returns the Dublin Core publisher, else the first author name.
func flatSource(it *gofeed.Item) string {
	if it.DublinCoreExt != nil {
		for _, p := range it.DublinCoreExt.Publisher {
			if strings.TrimSpace(p) != "" {
				return p
			}
		}
	}
	for _, a := range it.Authors {
		if a != nil && strings.TrimSpace(a.Name) != "" {
			return a.Name
		}
	}
	return ""
}

// htmlToText reduces an HTML fragment to whitespace-normalized text.
func htmlToText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
