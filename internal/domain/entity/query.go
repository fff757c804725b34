package entity

import (
	"strings"
)

// Defaults applied to a FeedQuery when fields are left empty.
const (
	DefaultRegion   = "US"
	DefaultLanguage = "en"
)

// Topic codes understood by the Google News RSS section endpoint.
const (
	CategoryBusiness   = "BUSINESS"
	CategoryTechnology = "TECHNOLOGY"
	CategoryHealth     = "HEALTH"
	CategoryScience    = "SCIENCE"
	CategorySports     = "SPORTS"
)

// Regions lists the region codes offered by the dashboard.
// Other codes are accepted and passed through to the upstream service.
var Regions = []string{"US", "UK", "CA", "AU", "NG", "IN", "DE", "FR"}

// Categories lists the topic codes offered by the dashboard.
var Categories = []string{
	CategoryBusiness,
	CategoryTechnology,
	CategoryHealth,
	CategorySports,
	CategoryScience,
}

// FeedQuery describes which headline feed to read.
// Category takes priority over Query; when both are empty the regional front page is used.
type FeedQuery struct {
	Query    string
	Region   string
	Category string
	Language string
}

// WithDefaults returns a copy of q with empty region and language filled in
// and codes normalized (region and category upper-case, language lower-case).
func (q FeedQuery) WithDefaults() FeedQuery {
	q.Query = strings.TrimSpace(q.Query)
	q.Region = normalizeCode(q.Region)
	if q.Region == "" {
		q.Region = DefaultRegion
	}
	q.Category = normalizeCode(q.Category)
	q.Language = strings.ToLower(strings.TrimSpace(q.Language))
	if q.Language == "" {
		q.Language = DefaultLanguage
	}
	return q
}

// Validate checks that the codes in q are safe to embed in a feed URL.
// It does not reject unknown codes; the upstream service decides whether they exist.
func (q FeedQuery) Validate() error {
	if len(q.Query) > 512 {
		return &ValidationError{Field: "query", Message: "query is too long"}
	}
	if !isCode(q.Region) || len(q.Region) > 8 {
		return &ValidationError{Field: "region", Message: "region must be a short alphanumeric code"}
	}
	if !isCode(q.Category) || len(q.Category) > 64 {
		return &ValidationError{Field: "category", Message: "category must be an alphanumeric code"}
	}
	if !isCode(q.Language) || len(q.Language) > 16 {
		return &ValidationError{Field: "language", Message: "language must be a short language tag"}
	}
	return nil
}

// IsKnownCategory reports whether code is one of Categories.
func IsKnownCategory(code string) bool {
	code = normalizeCode(code)
	for _, c := range Categories {
		if c == code {
			return true
		}
	}
	return false
}
