package headline

import (
	"fmt"
	"net/url"
	"strings"

	"marketpulse/internal/domain/entity"
)

// DefaultBaseURL is the Google News RSS endpoint.
const DefaultBaseURL = "https://news.google.com/rss"

// BuildFeedURL maps a feed query to a Google News RSS URL under baseURL.
// An empty baseURL means DefaultBaseURL. Category wins over Query; with
// neither, the regional front page is returned. Unknown codes are passed through.
func BuildFeedURL(baseURL string, q entity.FeedQuery) string {
	q = q.WithDefaults()

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}

	locale := fmt.Sprintf("hl=%s&gl=%s&ceid=%s:%s",
		escape(q.Language), escape(q.Region), escape(q.Region), escape(q.Language))

	switch {
	case q.Category != "":
		return fmt.Sprintf("%s/headlines/section/topic/%s?%s", base, escape(q.Category), locale)
	case q.Query != "":
		return fmt.Sprintf("%s/search?q=%s&%s", base, escape(q.Query), locale)
	default:
		return base + "?" + locale
	}
}

// escape percent-encodes s for use in a path segment or query value.
// Spaces become %20 rather than '+'.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
