package correlation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_SummaryValues(t *testing.T) {
	result := Analyze(map[string][]Reading{
		"temperature": Numbers([]float64{20, 21, 22, 23}),
		"humidity":    Numbers([]float64{60, 58, 56, 54}),
		"light_level": Numbers([]float64{100, 150, 200, 250}),
	}, nil)

	require.NotNil(t, result.Summary.StrongestNegative)
	assert.Equal(t, "humidity", result.Summary.StrongestNegative.MetricA)
	assert.InDelta(t, -1.0, result.Summary.StrongestNegative.Coefficient, 1e-9)

	require.NotNil(t, result.Summary.StrongestPositive)
	assert.Equal(t, "light_level", result.Summary.StrongestPositive.MetricA)
	assert.Equal(t, "temperature", result.Summary.StrongestPositive.MetricB)
	assert.InDelta(t, 1.0, result.Summary.StrongestPositive.Coefficient, 1e-9)

	// Three unique pairs, all |r| = 1.
	assert.InDelta(t, 1.0, result.Summary.AverageAbsolute, 1e-9)
	assert.Len(t, result.Insights, 3)
}

func TestAnalyze_InsightsCarryInterpretation(t *testing.T) {
	result := Analyze(map[string][]Reading{
		"temperature": Numbers([]float64{20, 21, 22, 23}),
		"humidity":    Numbers([]float64{60, 58, 56, 54}),
	}, nil)

	require.Len(t, result.Insights, 1)
	insight := result.Insights[0]

	assert.Equal(t, "strong negative", insight.Classification.Label)
	assert.Contains(t, insight.Explanation, "matches expectations")
	assert.False(t, math.IsNaN(insight.Coefficient))
}

func TestAnalyze_UndefinedPairsLeftOutOfSummary(t *testing.T) {
	// One valid aligned pair only: the cell is null and contributes
	// nothing to the summary.
	a := []Reading{Number(1), Number(2), {Valid: false}}
	b := []Reading{Number(5), {Valid: false}, Number(7)}

	result := Analyze(map[string][]Reading{"a": a, "b": b}, nil)

	assert.Nil(t, result.Summary.StrongestPositive)
	assert.Nil(t, result.Summary.StrongestNegative)
	assert.Zero(t, result.Summary.AverageAbsolute)
	assert.Empty(t, result.Insights)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	result := Analyze(nil, nil)

	assert.Empty(t, result.Matrix)
	assert.Empty(t, result.Insights)
	assert.Nil(t, result.Summary.StrongestPositive)
	assert.Nil(t, result.Summary.StrongestNegative)
}
