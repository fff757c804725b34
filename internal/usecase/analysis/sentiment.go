// Package analysis derives dashboard insights from collected headlines:
// sentiment labels, keyword and word-frequency rankings, keyword filtering,
// distribution statistics and a short digest of the headlines.
package analysis

import (
	"context"
	"errors"
	"math"
	"strings"

	"marketpulse/internal/observability/logging"
	"marketpulse/internal/observability/metrics"
)

// Label is a sentiment class.
type Label string

// Sentiment labels.
const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

// ParseLabel maps free-form model output such as "Positive." or "NEGATIVE" to a Label.
func ParseLabel(s string) (Label, error) {
	s = strings.ToLower(strings.Trim(strings.TrimSpace(s), ".!\"'`*"))
	switch {
	case strings.HasPrefix(s, "pos"):
		return LabelPositive, nil
	case strings.HasPrefix(s, "neg"):
		return LabelNegative, nil
	case strings.HasPrefix(s, "neu"):
		return LabelNeutral, nil
	}
	return "", ErrUnknownLabel
}

// ErrUnknownLabel is returned when a classifier answer is not a known label.
var ErrUnknownLabel = errors.New("unknown sentiment label")

// Classifier assigns a sentiment label to a piece of text.
type Classifier interface {
	Classify(ctx context.Context, text string) (Label, error)
}

// Compound score thresholds.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// LabelForScore maps a compound score in [-1, 1] to a Label.
func LabelForScore(compound float64) Label {
	switch {
	case compound >= PositiveThreshold:
		return LabelPositive
	case compound > NegativeThreshold:
		return LabelNeutral
	default:
		return LabelNegative
	}
}

const (
	// valenceScale maps lexicon weights (0..1) onto a wider valence range.
	valenceScale = 2.0
	// negationScalar flips and dampens a valence preceded by a negator.
	negationScalar = -0.74
	// normalizationAlpha approximates the expected maximum of a summed score.
	normalizationAlpha = 15.0
	// negationWindow is how many preceding tokens are searched for a negator.
	negationWindow = 3
)

// LexiconClassifier scores text against a weighted word lexicon.
// It needs no network access and never fails.
type LexiconClassifier struct {
	positive map[string]float64
	negative map[string]float64
}

// NewLexiconClassifier returns a classifier using the built-in financial news lexicon.
func NewLexiconClassifier() *LexiconClassifier {
	return &LexiconClassifier{positive: positiveWords, negative: negativeWords}
}

// Classify implements Classifier.
func (c *LexiconClassifier) Classify(_ context.Context, text string) (Label, error) {
	return LabelForScore(c.Score(text)), nil
}

// Score returns the compound sentiment score of text in [-1, 1].
func (c *LexiconClassifier) Score(text string) float64 {
	tokens := tokenize(text)

	var sum float64
	for i, tok := range tokens {
		v := c.valence(tok)
		if v == 0 {
			continue
		}
		if negatedAt(tokens, i) {
			v *= negationScalar
		}
		sum += v
	}

	if sum == 0 {
		return 0
	}
	return sum / math.Sqrt(sum*sum+normalizationAlpha)
}

func (c *LexiconClassifier) valence(tok string) float64 {
	for _, form := range wordForms(tok) {
		if w, ok := c.positive[form]; ok {
			return w * valenceScale
		}
		if w, ok := c.negative[form]; ok {
			return -w * valenceScale
		}
	}
	return 0
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?\"'()[]{}:;“”‘’")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// wordForms returns tok followed by plausible base forms for simple inflections.
func wordForms(tok string) []string {
	forms := []string{tok}
	switch {
	case strings.HasSuffix(tok, "ies") && len(tok) > 4:
		forms = append(forms, tok[:len(tok)-3]+"y")
	case strings.HasSuffix(tok, "es") && len(tok) > 3:
		forms = append(forms, tok[:len(tok)-2], tok[:len(tok)-1])
	case strings.HasSuffix(tok, "s") && len(tok) > 3:
		forms = append(forms, tok[:len(tok)-1])
	case strings.HasSuffix(tok, "ed") && len(tok) > 4:
		forms = append(forms, tok[:len(tok)-2], tok[:len(tok)-1])
	case strings.HasSuffix(tok, "ing") && len(tok) > 5:
		forms = append(forms, tok[:len(tok)-3], tok[:len(tok)-3]+"e")
	}
	return forms
}

func negatedAt(tokens []string, i int) bool {
	for j := max(0, i-negationWindow); j < i; j++ {
		if isNegator(tokens[j]) {
			return true
		}
	}
	return false
}

func isNegator(tok string) bool {
	switch tok {
	case "not", "no", "never", "without", "nor", "neither", "hardly":
		return true
	}
	return strings.HasSuffix(tok, "n't")
}

// FallbackClassifier asks Primary first and Fallback when Primary fails.
type FallbackClassifier struct {
	Primary  Classifier
	Fallback Classifier
}

// Classify implements Classifier.
func (f *FallbackClassifier) Classify(ctx context.Context, text string) (Label, error) {
	if f.Primary != nil {
		label, err := f.Primary.Classify(ctx, text)
		if err == nil {
			return label, nil
		}
		logging.FromContext(ctx).Debug("primary sentiment classifier failed, using fallback",
			"error", err)
		metrics.RecordSentimentFallback()
	}
	return f.Fallback.Classify(ctx, text)
}

// ClassifyAll labels each title in order. A title that cannot be classified
// is labelled neutral.
func ClassifyAll(ctx context.Context, c Classifier, titles []string) []Label {
	logger := logging.FromContext(ctx)

	labels := make([]Label, len(titles))
	for i, title := range titles {
		label, err := c.Classify(ctx, title)
		if err != nil {
			logger.Warn("sentiment classification failed", "index", i, "error", err)
			label = LabelNeutral
		}
		labels[i] = label
		metrics.RecordSentiment(string(label))
	}
	return labels
}
