package correlation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_SelfCorrelationIsOne(t *testing.T) {
	matrix := Compute(map[string][]Reading{
		"temperature": Numbers([]float64{20, 21, 22}),
		"humidity":    Numbers([]float64{60, 59, 58}),
	})

	for _, m := range matrix.Metrics() {
		require.NotNil(t, matrix[m][m])
		assert.Equal(t, 1.0, *matrix[m][m])
	}
}

func TestCompute_Symmetry(t *testing.T) {
	matrix := Compute(map[string][]Reading{
		"temperature": Numbers([]float64{20, 22, 21, 25, 24}),
		"humidity":    Numbers([]float64{61, 58, 60, 52, 54}),
		"co2":         Numbers([]float64{400, 410, 405, 420, 415}),
	})

	metrics := matrix.Metrics()
	for _, a := range metrics {
		for _, b := range metrics {
			ab, ba := matrix[a][b], matrix[b][a]
			if ab == nil {
				assert.Nil(t, ba)
				continue
			}
			require.NotNil(t, ba)
			assert.Equal(t, *ab, *ba, "matrix[%s][%s] vs matrix[%s][%s]", a, b, b, a)
		}
	}
}

func TestCompute_StrongNegativeScenario(t *testing.T) {
	matrix := Compute(map[string][]Reading{
		"temperature": Numbers([]float64{20, 21, 22, 23}),
		"humidity":    Numbers([]float64{60, 58, 56, 54}),
	})

	cell := matrix["temperature"]["humidity"]
	require.NotNil(t, cell)
	assert.InDelta(t, -1.0, *cell, 1e-9)

	cls := Classify(*cell)
	assert.Equal(t, "strong negative", cls.Label)
}

func TestCompute_PerfectPositive(t *testing.T) {
	matrix := Compute(map[string][]Reading{
		"light_level": Numbers([]float64{100, 200, 300, 400}),
		"temperature": Numbers([]float64{20, 22, 24, 26}),
	})

	cell := matrix["light_level"]["temperature"]
	require.NotNil(t, cell)
	assert.InDelta(t, 1.0, *cell, 1e-9)
}

func TestCompute_InsufficientDataIsNullNotZero(t *testing.T) {
	// Both series have >=2 valid samples individually, but only one
	// aligned index is valid for the pair.
	a := []Reading{Number(1), Number(2), {Valid: false}}
	b := []Reading{Number(5), {Valid: false}, Number(7)}

	matrix := Compute(map[string][]Reading{"a": a, "b": b})

	require.Contains(t, matrix, "a")
	require.Contains(t, matrix, "b")
	assert.Nil(t, matrix["a"]["b"])
}

func TestCompute_ConstantSeriesIsZeroNotNaN(t *testing.T) {
	matrix := Compute(map[string][]Reading{
		"temperature": Numbers([]float64{20, 21, 22, 23}),
		"setpoint":    Numbers([]float64{22, 22, 22, 22}),
	})

	cell := matrix["temperature"]["setpoint"]
	require.NotNil(t, cell)
	assert.Equal(t, 0.0, *cell)
}

func TestCompute_ShortSeriesExcludedEntirely(t *testing.T) {
	matrix := Compute(map[string][]Reading{
		"temperature": Numbers([]float64{20, 21, 22}),
		"humidity":    Numbers([]float64{60, 59, 58}),
		"stub":        Numbers([]float64{42}),
	})

	assert.NotContains(t, matrix, "stub")
	assert.Contains(t, matrix, "temperature")
	assert.Contains(t, matrix, "humidity")
}

func TestCompute_MismatchedLengthsUseCommonPrefix(t *testing.T) {
	matrix := Compute(map[string][]Reading{
		"temperature": Numbers([]float64{20, 21, 22, 23, 24, 25}),
		"humidity":    Numbers([]float64{60, 58, 56, 54}),
	})

	cell := matrix["temperature"]["humidity"]
	require.NotNil(t, cell)
	assert.InDelta(t, -1.0, *cell, 1e-9)
}

func TestCompute_InvalidSamplesSkippedPairwise(t *testing.T) {
	a := []Reading{Number(20), {Valid: false}, Number(22), Number(23)}
	b := []Reading{Number(60), Number(58), Number(56), Number(54)}

	matrix := Compute(map[string][]Reading{"a": a, "b": b})

	cell := matrix["a"]["b"]
	require.NotNil(t, cell)
	// Remaining pairs are still perfectly anti-correlated.
	assert.InDelta(t, -1.0, *cell, 1e-9)
}

func TestCompute_NullSamplesAreGapsNotZeros(t *testing.T) {
	// null must decode as an invalid reading, never a valid 0. With only
	// one real sample the null-padded series drops out of the matrix
	// instead of correlating as a string of zeros.
	var histories map[string][]Reading
	raw := `{"a": [null, null, 5], "b": [1, 2, 3]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &histories))

	matrix := Compute(histories)

	assert.NotContains(t, matrix, "a")
	assert.Contains(t, matrix, "b")
}

func TestCompute_EmptyInput(t *testing.T) {
	assert.Empty(t, Compute(nil))
	assert.Empty(t, Compute(map[string][]Reading{}))
}

func TestCompute_CoefficientClamped(t *testing.T) {
	matrix := Compute(map[string][]Reading{
		"a": Numbers([]float64{1, 2, 3, 4, 5}),
		"b": Numbers([]float64{2, 4, 6, 8, 10}),
	})

	cell := matrix["a"]["b"]
	require.NotNil(t, cell)
	assert.LessOrEqual(t, *cell, 1.0)
	assert.GreaterOrEqual(t, *cell, -1.0)
}
