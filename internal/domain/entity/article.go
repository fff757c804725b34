// Package entity defines the core domain entities and validation logic for the application.
// It contains the canonical Article record produced by the headline pipeline, the
// FeedQuery describing which feed to read, and their validation rules.
package entity

import "strings"

// UnknownSource is the publisher name used when a feed entry carries no usable source.
const UnknownSource = "Unknown"

// MinTitleLength is the minimum number of characters a cleaned headline must have.
const MinTitleLength = 5

// Article represents a validated news headline.
// Articles are value records: once built by the normalizer they are never mutated.
// The JSON form always carries exactly these five text fields.
type Article struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Published string `json:"published"`
	Summary   string `json:"summary"`
	Source    string `json:"source"`
}

// nullLikeTokens are textual placeholders some feeds (and spreadsheet round-trips)
// emit in place of an absent value.
var nullLikeTokens = map[string]struct{}{
	"nan":  {},
	"none": {},
	"null": {},
}

// IsNullLike reports whether s is a serialized "absent" value such as "nan", "None" or "null".
// The comparison ignores case and surrounding whitespace. The empty string is not null-like.
func IsNullLike(s string) bool {
	_, ok := nullLikeTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// CleanText trims s and maps null-like values to the empty string.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if IsNullLike(s) {
		return ""
	}
	return s
}
