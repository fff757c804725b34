package headline

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"marketpulse/internal/domain/entity"

	"github.com/araddon/dateparse"
)

// sourceSeparator separates a headline from its trailing publisher name.
const sourceSeparator = " - "

// RawEntry is one feed entry as delivered by a FeedFetcher, before validation.
type RawEntry struct {
	Title     string
	Link      string
	Published string
	// PublishedParsed is the structured timestamp supplied by the feed format, if any.
	PublishedParsed *time.Time
	Summary         string
	// SourceTitle is the nested structured source (RSS <source>, Atom <source><title>).
	SourceTitle string
	// SourceName is a flat publisher string used when no nested source exists.
	SourceName string
}

// NormalizeStats describes what happened to the raw entries of one feed.
type NormalizeStats struct {
	Seen       int
	Kept       int
	Dropped    int
	Truncated  int
	Unresolved int
}

// keyedArticle pairs an article with its transient sort key.
type keyedArticle struct {
	article  entity.Article
	at       time.Time
	resolved bool
}

// Normalize validates raw entries and returns at most maxArticles articles,
// newest first. Entries without a resolvable timestamp sort last and keep feed order.
// The result is never nil.
func Normalize(entries []RawEntry, maxArticles int) []entity.Article {
	articles, _ := normalize(entries, maxArticles)
	return articles
}

func normalize(entries []RawEntry, maxArticles int) ([]entity.Article, NormalizeStats) {
	stats := NormalizeStats{Seen: len(entries)}

	keyed := make([]keyedArticle, 0, len(entries))
	for _, e := range entries {
		at, resolved := resolveTimestamp(e)

		title, ok := cleanTitle(e.Title)
		if !ok {
			stats.Dropped++
			continue
		}
		if !resolved {
			stats.Unresolved++
		}

		keyed = append(keyed, keyedArticle{
			article: entity.Article{
				Title:     title,
				Link:      entity.NormalizeLink(e.Link),
				Published: rawPublished(e.Published),
				Summary:   entity.CleanText(e.Summary),
				Source:    resolveSource(e),
			},
			at:       at,
			resolved: resolved,
		})
	}

	slices.SortStableFunc(keyed, compareKeyed)

	limit := len(keyed)
	if maxArticles < limit {
		limit = max(maxArticles, 0)
	}
	stats.Truncated = len(keyed) - limit

	articles := make([]entity.Article, 0, limit)
	for _, k := range keyed[:limit] {
		articles = append(articles, k.article)
	}
	stats.Kept = len(articles)

	return articles, stats
}

// compareKeyed orders newest first; unresolved timestamps count as the oldest instant.
func compareKeyed(a, b keyedArticle) int {
	switch {
	case a.resolved && !b.resolved:
		return -1
	case !a.resolved && b.resolved:
		return 1
	case !a.resolved && !b.resolved:
		return 0
	}
	return b.at.Compare(a.at)
}

// resolveTimestamp prefers the feed's structured timestamp, then a lenient parse
// of the published text.
func resolveTimestamp(e RawEntry) (time.Time, bool) {
	if e.PublishedParsed != nil && !e.PublishedParsed.IsZero() {
		return e.PublishedParsed.UTC(), true
	}

	published := entity.CleanText(e.Published)
	if published == "" {
		return time.Time{}, false
	}

	t, err := dateparse.ParseIn(published, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// cleanTitle strips the trailing " - <publisher>" suffix (last separator only)
// and reports whether what remains is a usable headline.
func cleanTitle(raw string) (string, bool) {
	if entity.CleanText(raw) == "" {
		return "", false
	}

	title := raw
	if i := strings.LastIndex(title, sourceSeparator); i >= 0 {
		title = title[:i]
	}
	title = entity.CleanText(title)

	if utf8.RuneCountInString(title) < entity.MinTitleLength {
		return "", false
	}
	return title, true
}

// resolveSource picks the nested source when the feed supplied one, otherwise the
// flat publisher field. A null-like value in the chosen field yields UnknownSource.
func resolveSource(e RawEntry) string {
	chosen := e.SourceTitle
	if strings.TrimSpace(chosen) == "" {
		chosen = e.SourceName
	}
	if s := entity.CleanText(chosen); s != "" {
		return s
	}
	return entity.UnknownSource
}

// rawPublished keeps the feed's timestamp text verbatim; only null-like
// placeholders become empty.
func rawPublished(s string) string {
	if entity.IsNullLike(s) {
		return ""
	}
	return s
}
