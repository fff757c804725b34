// Package dashboard builds the analyst report for one headline query:
// collect, filter, classify, summarize and aggregate.
package dashboard

import "errors"

// ErrInvalidRequest is returned when a Request cannot be turned into a feed URL.
var ErrInvalidRequest = errors.New("invalid dashboard request")

// User-facing messages for reports without rows.
const (
	MsgNoArticles  = "No articles found. Try adjusting your search parameters."
	MsgFilteredOut = "No articles match your filter criteria."
	MsgFetchError  = "The news feed could not be retrieved. Please try again later."
)
