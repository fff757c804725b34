package analysis_test

import (
	"context"
	"errors"
	"testing"

	"marketpulse/internal/observability/metrics"
	"marketpulse/internal/usecase/analysis"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexiconClassifier_Classify(t *testing.T) {
	c := analysis.NewLexiconClassifier()

	tests := []struct {
		title string
		want  analysis.Label
	}{
		{"Breaking: Markets Rally", analysis.LabelPositive},
		{"Tech stocks surge to record high", analysis.LabelPositive},
		{"Chipmaker profits beat estimates", analysis.LabelPositive},
		{"Shares plunge as bank collapses", analysis.LabelNegative},
		{"Layoffs mount amid recession fears", analysis.LabelNegative},
		{"Central bank meets on Tuesday", analysis.LabelNeutral},
		{"", analysis.LabelNeutral},
		{"Stocks not rising despite rate cut hopes", analysis.LabelNegative},
		{"Company says it will never fail customers", analysis.LabelPositive},
		{"Oil prices fall, then rebound", analysis.LabelNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got, err := c.Classify(context.Background(), tt.title)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "score=%f", c.Score(tt.title))
		})
	}
}

func TestLexiconClassifier_ScoreBounds(t *testing.T) {
	c := analysis.NewLexiconClassifier()

	extreme := "surge soar rally boom surge soar rally boom surge soar rally boom"
	s := c.Score(extreme)
	assert.Greater(t, s, 0.9)
	assert.LessOrEqual(t, s, 1.0)

	s = c.Score("crash plunge collapse disaster crash plunge collapse disaster")
	assert.Less(t, s, -0.9)
	assert.GreaterOrEqual(t, s, -1.0)
}

func TestLabelForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  analysis.Label
	}{
		{0.05, analysis.LabelPositive},
		{0.9, analysis.LabelPositive},
		{0.0499, analysis.LabelNeutral},
		{0, analysis.LabelNeutral},
		{-0.0499, analysis.LabelNeutral},
		{-0.05, analysis.LabelNegative},
		{-1, analysis.LabelNegative},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, analysis.LabelForScore(tt.score), "score %f", tt.score)
	}
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		in      string
		want    analysis.Label
		wantErr bool
	}{
		{"positive", analysis.LabelPositive, false},
		{"Positive.", analysis.LabelPositive, false},
		{" NEGATIVE ", analysis.LabelNegative, false},
		{"**neutral**", analysis.LabelNeutral, false},
		{"mixed", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := analysis.ParseLabel(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, analysis.ErrUnknownLabel, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

/* ───────── fallback & batch ───────── */

type stubClassifier struct {
	label analysis.Label
	err   error
	calls int
}

func (s *stubClassifier) Classify(context.Context, string) (analysis.Label, error) {
	s.calls++
	return s.label, s.err
}

func TestFallbackClassifier(t *testing.T) {
	t.Run("primary succeeds", func(t *testing.T) {
		primary := &stubClassifier{label: analysis.LabelPositive}
		fallback := &stubClassifier{label: analysis.LabelNegative}
		c := &analysis.FallbackClassifier{Primary: primary, Fallback: fallback}

		got, err := c.Classify(context.Background(), "title")
		require.NoError(t, err)
		assert.Equal(t, analysis.LabelPositive, got)
		assert.Equal(t, 0, fallback.calls)
	})

	t.Run("primary fails", func(t *testing.T) {
		before := testutil.ToFloat64(metrics.SentimentFallbacksTotal)
		primary := &stubClassifier{err: errors.New("model unavailable")}
		fallback := &stubClassifier{label: analysis.LabelNegative}
		c := &analysis.FallbackClassifier{Primary: primary, Fallback: fallback}

		got, err := c.Classify(context.Background(), "title")
		require.NoError(t, err)
		assert.Equal(t, analysis.LabelNegative, got)
		assert.Equal(t, before+1, testutil.ToFloat64(metrics.SentimentFallbacksTotal))
	})

	t.Run("no primary", func(t *testing.T) {
		fallback := &stubClassifier{label: analysis.LabelNeutral}
		c := &analysis.FallbackClassifier{Fallback: fallback}

		got, err := c.Classify(context.Background(), "title")
		require.NoError(t, err)
		assert.Equal(t, analysis.LabelNeutral, got)
	})
}

func TestClassifyAll(t *testing.T) {
	titles := []string{"Markets rally on jobs data", "Banks collapse overnight", "Weekly schedule"}
	got := analysis.ClassifyAll(context.Background(), analysis.NewLexiconClassifier(), titles)

	assert.Equal(t, []analysis.Label{
		analysis.LabelPositive,
		analysis.LabelNegative,
		analysis.LabelNeutral,
	}, got)
}

func TestClassifyAll_FailureIsNeutral(t *testing.T) {
	c := &stubClassifier{err: errors.New("boom")}
	got := analysis.ClassifyAll(context.Background(), c, []string{"a", "b"})
	assert.Equal(t, []analysis.Label{analysis.LabelNeutral, analysis.LabelNeutral}, got)
}
