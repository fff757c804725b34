// Package headline turns a feed query into the canonical, recency-ordered list of
// validated headlines. It contains the feed URL builder, the entry normalizer, the
// collect use case wrapping a feed fetcher, and a TTL cache decorator for it.
package headline

import "errors"

// Sentinel errors for headline use case operations.
var (
	// ErrFeedFetchFailed indicates that the feed could not be retrieved or parsed.
	// Collect still returns an empty, non-nil article list alongside it.
	ErrFeedFetchFailed = errors.New("failed to fetch headline feed")

	// ErrInvalidFeedFormat indicates that the document is not a parseable RSS or Atom feed.
	ErrInvalidFeedFormat = errors.New("invalid feed format")
)
