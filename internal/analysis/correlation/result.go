package correlation

import (
	"math"
)

// PairSummary identifies one metric pair and its coefficient.
type PairSummary struct {
	MetricA     string  `json:"metric_a"`
	MetricB     string  `json:"metric_b"`
	Coefficient float64 `json:"coefficient"`
}

// Summary carries the derived headline values for a matrix.
type Summary struct {
	StrongestPositive *PairSummary `json:"strongest_positive,omitempty"`
	StrongestNegative *PairSummary `json:"strongest_negative,omitempty"`
	AverageAbsolute   float64      `json:"average_absolute"`
}

// Insight is the interpreted view of one defined metric pair.
type Insight struct {
	MetricA        string         `json:"metric_a"`
	MetricB        string         `json:"metric_b"`
	Coefficient    float64        `json:"coefficient"`
	Classification Classification `json:"classification"`
	Explanation    string         `json:"explanation"`
}

// Result is the full output of one correlation pass.
type Result struct {
	Matrix   Matrix    `json:"matrix"`
	Summary  Summary   `json:"summary"`
	Insights []Insight `json:"insights"`
}

// Analyze computes the matrix for the given histories and derives the
// summary and per-pair insights, interpreting coefficients against the
// given expected-association table (nil: DefaultRelationships). Like the
// incident pipeline, it is pure and never fails: empty or garbage input
// yields an empty result.
func Analyze(histories map[string][]Reading, rels Relationships) Result {
	matrix := Compute(histories)

	result := Result{
		Matrix:   matrix,
		Insights: []Insight{},
	}

	metrics := matrix.Metrics()
	var absSum float64
	definedPairs := 0

	for i, a := range metrics {
		for _, b := range metrics[i+1:] {
			cell := matrix[a][b]
			if cell == nil {
				continue
			}
			r := *cell

			definedPairs++
			absSum += math.Abs(r)

			if r > 0 && (result.Summary.StrongestPositive == nil || r > result.Summary.StrongestPositive.Coefficient) {
				result.Summary.StrongestPositive = &PairSummary{MetricA: a, MetricB: b, Coefficient: r}
			}
			if r < 0 && (result.Summary.StrongestNegative == nil || r < result.Summary.StrongestNegative.Coefficient) {
				result.Summary.StrongestNegative = &PairSummary{MetricA: a, MetricB: b, Coefficient: r}
			}

			result.Insights = append(result.Insights, Insight{
				MetricA:        a,
				MetricB:        b,
				Coefficient:    r,
				Classification: Classify(r),
				Explanation:    rels.Explain(a, b, r),
			})
		}
	}

	if definedPairs > 0 {
		result.Summary.AverageAbsolute = absSum / float64(definedPairs)
	}

	return result
}
