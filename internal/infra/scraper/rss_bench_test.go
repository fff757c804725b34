package scraper_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marketpulse/internal/infra/scraper"
	"marketpulse/internal/usecase/headline"
)

func generateFeed(items int) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Bench Feed</title>`)
	for i := 0; i < items; i++ {
		fmt.Fprintf(&sb, `
<item>
  <title>Headline number %d - Source %d</title>
  <link>https://example.com/article%d</link>
  <description>&lt;a href="#"&gt;Headline %d&lt;/a&gt;</description>
  <pubDate>Mon, 01 Jan 2024 %02d:%02d:00 +0000</pubDate>
  <source url="https://example.com">Source %d</source>
</item>`, i, i%7, i, i, (i/60)%24, i%60, i%7)
	}
	sb.WriteString(`</channel></rss>`)
	return sb.String()
}

func benchmarkFetch(b *testing.B, items int) {
	body := generateFeed(items)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	fetcher := scraper.NewRSSFetcher(&http.Client{Timeout: 10 * time.Second}, testConfig(fmt.Sprintf("bench-%d", items)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = fetcher.Fetch(context.Background(), server.URL)
	}
}

// BenchmarkRSSFetcher_SmallFeed measures parsing a 10-item feed.
func BenchmarkRSSFetcher_SmallFeed(b *testing.B) { benchmarkFetch(b, 10) }

// BenchmarkRSSFetcher_LargeFeed measures parsing a feed at the article cap.
func BenchmarkRSSFetcher_LargeFeed(b *testing.B) { benchmarkFetch(b, 100) }

func BenchmarkNormalize(b *testing.B) {
	fetcher := scraper.NewRSSFetcher(&http.Client{Timeout: 10 * time.Second}, testConfig("bench-normalize"))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(generateFeed(100)))
	}))
	defer server.Close()

	entries, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = headline.Normalize(entries, 50)
	}
}
