package analysis

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Ranking sizes used by the dashboard.
const (
	DefaultTopKeywords    = 20
	DefaultWordCloudLimit = 100
	minKeywordRunes       = 4
	minWordFrequencyRunes = 2
)

// DefaultWordCloudExclude is applied by WordFrequencies when exclude is nil.
// The dashboard never relies on it: it passes the same resolved exclude list
// (request override or configured preset) to TopKeywords and WordFrequencies.
var DefaultWordCloudExclude = []string{"news", "says", "new", "get", "make", "take"}

var (
	wordPattern        = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	punctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// WordCount is one ranked word.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ParseWordList splits comma-separated user input into trimmed, non-empty words.
func ParseWordList(s string) []string {
	var words []string
	for _, part := range strings.Split(s, ",") {
		if w := strings.TrimSpace(part); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// TopKeywords ranks lower-cased words longer than three characters across titles.
// Words in exclude (case-insensitive) are skipped. Ties keep first-appearance order.
// A non-positive n selects DefaultTopKeywords.
func TopKeywords(titles []string, exclude []string, n int) []WordCount {
	if n <= 0 {
		n = DefaultTopKeywords
	}
	text := strings.ToLower(strings.Join(titles, " "))
	return rank(wordPattern.FindAllString(text, -1), excludeSet(exclude), minKeywordRunes, n)
}

// WordFrequencies produces word-cloud data: punctuation is stripped, words of at
// least two characters are counted and the n most frequent are returned.
// A nil exclude selects DefaultWordCloudExclude; an empty, non-nil exclude
// disables exclusion. A non-positive n selects DefaultWordCloudLimit.
func WordFrequencies(titles []string, exclude []string, n int) []WordCount {
	if exclude == nil {
		exclude = DefaultWordCloudExclude
	}
	if n <= 0 {
		n = DefaultWordCloudLimit
	}
	text := strings.ToLower(strings.Join(titles, " "))
	text = punctuationPattern.ReplaceAllString(text, " ")
	return rank(strings.Fields(text), excludeSet(exclude), minWordFrequencyRunes, n)
}

func excludeSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return set
}

// rank counts words and returns the n most frequent, ties in first-appearance order.
func rank(words []string, exclude map[string]struct{}, minRunes, n int) []WordCount {
	counts := make(map[string]int)
	var order []string
	for _, w := range words {
		if utf8.RuneCountInString(w) < minRunes {
			continue
		}
		if _, skip := exclude[w]; skip {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	ranked := make([]WordCount, 0, len(order))
	for _, w := range order {
		ranked = append(ranked, WordCount{Word: w, Count: counts[w]})
	}
	slices.SortStableFunc(ranked, func(a, b WordCount) int { return b.Count - a.Count })

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
