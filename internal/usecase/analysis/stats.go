package analysis

import "marketpulse/internal/domain/entity"

// NoSource is reported as the top source of an empty article list.
const NoSource = "N/A"

// LabelCount is one bar of the sentiment distribution.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Stats summarizes the sentiment distribution of a set of articles.
type Stats struct {
	Total           int     `json:"total"`
	PositivePercent float64 `json:"positive_pct"`
	NeutralPercent  float64 `json:"neutral_pct"`
	NegativePercent float64 `json:"negative_pct"`
	// PositiveNegativeRatio is nil when no article is negative.
	PositiveNegativeRatio *float64     `json:"positive_negative_ratio,omitempty"`
	TopSource             string       `json:"top_source"`
	Distribution          []LabelCount `json:"distribution"`
}

// Summarize computes Stats for articles and their labels (same order, same length).
// The distribution always lists Positive, Neutral, Negative in that order.
func Summarize(labels []Label, articles []entity.Article) Stats {
	counts := make(map[Label]int, 3)
	for _, l := range labels {
		counts[l]++
	}

	total := len(articles)
	stats := Stats{
		Total:     total,
		TopSource: topSource(articles),
		Distribution: []LabelCount{
			{Label: "Positive", Count: counts[LabelPositive]},
			{Label: "Neutral", Count: counts[LabelNeutral]},
			{Label: "Negative", Count: counts[LabelNegative]},
		},
	}
	if total == 0 {
		return stats
	}

	pct := func(l Label) float64 { return float64(counts[l]) / float64(total) * 100 }
	stats.PositivePercent = pct(LabelPositive)
	stats.NeutralPercent = pct(LabelNeutral)
	stats.NegativePercent = pct(LabelNegative)

	if stats.NegativePercent > 0 {
		ratio := stats.PositivePercent / stats.NegativePercent
		stats.PositiveNegativeRatio = &ratio
	}
	return stats
}

// topSource returns the most frequent source; ties go to the one that appeared first.
func topSource(articles []entity.Article) string {
	if len(articles) == 0 {
		return NoSource
	}

	counts := make(map[string]int)
	var order []string
	for _, a := range articles {
		if counts[a.Source] == 0 {
			order = append(order, a.Source)
		}
		counts[a.Source]++
	}

	best := order[0]
	for _, s := range order[1:] {
		if counts[s] > counts[best] {
			best = s
		}
	}
	return best
}
