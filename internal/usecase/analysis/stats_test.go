package analysis_test

import (
	"testing"

	"marketpulse/internal/domain/entity"
	"marketpulse/internal/usecase/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	articles := []entity.Article{
		{Source: "Reuters"}, {Source: "CNBC"}, {Source: "CNBC"}, {Source: "Reuters"},
	}
	labels := []analysis.Label{
		analysis.LabelPositive, analysis.LabelPositive, analysis.LabelNeutral, analysis.LabelNegative,
	}

	got := analysis.Summarize(labels, articles)

	assert.Equal(t, 4, got.Total)
	assert.InDelta(t, 50.0, got.PositivePercent, 1e-9)
	assert.InDelta(t, 25.0, got.NeutralPercent, 1e-9)
	assert.InDelta(t, 25.0, got.NegativePercent, 1e-9)
	require.NotNil(t, got.PositiveNegativeRatio)
	assert.InDelta(t, 2.0, *got.PositiveNegativeRatio, 1e-9)
	assert.Equal(t, "Reuters", got.TopSource, "ties go to the first seen source")
	assert.Equal(t, []analysis.LabelCount{
		{Label: "Positive", Count: 2},
		{Label: "Neutral", Count: 1},
		{Label: "Negative", Count: 1},
	}, got.Distribution)
}

func TestSummarize_NoNegatives(t *testing.T) {
	got := analysis.Summarize(
		[]analysis.Label{analysis.LabelPositive, analysis.LabelNeutral},
		[]entity.Article{{Source: "AP"}, {Source: "Bloomberg"}},
	)
	assert.Nil(t, got.PositiveNegativeRatio)
	assert.Equal(t, "AP", got.TopSource)
	assert.Equal(t, 0, got.Distribution[2].Count)
}

func TestSummarize_Empty(t *testing.T) {
	got := analysis.Summarize(nil, nil)
	assert.Equal(t, 0, got.Total)
	assert.Equal(t, analysis.NoSource, got.TopSource)
	assert.Zero(t, got.PositivePercent)
	assert.Len(t, got.Distribution, 3)
}

func TestSummarize_MajoritySource(t *testing.T) {
	got := analysis.Summarize(
		[]analysis.Label{analysis.LabelNeutral, analysis.LabelNeutral, analysis.LabelNeutral},
		[]entity.Article{{Source: "AP"}, {Source: "WSJ"}, {Source: "WSJ"}},
	)
	assert.Equal(t, "WSJ", got.TopSource)
}
