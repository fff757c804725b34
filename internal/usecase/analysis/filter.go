package analysis

import (
	"strings"

	"marketpulse/internal/domain/entity"
)

// FilterByKeywords keeps articles whose title contains any of the comma-separated
// keywords, ignoring case. An empty filter keeps every article.
func FilterByKeywords(articles []entity.Article, filter string) []entity.Article {
	keywords := ParseWordList(filter)
	if len(keywords) == 0 {
		return articles
	}
	for i, k := range keywords {
		keywords[i] = strings.ToLower(k)
	}

	kept := make([]entity.Article, 0, len(articles))
	for _, a := range articles {
		title := strings.ToLower(a.Title)
		for _, k := range keywords {
			if strings.Contains(title, k) {
				kept = append(kept, a)
				break
			}
		}
	}
	return kept
}
