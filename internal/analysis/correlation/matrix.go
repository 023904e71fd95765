// Package correlation computes pairwise Pearson correlation matrices over
// index-aligned sensor metric histories and attaches human-readable
// interpretation of whether an observed relationship is physically
// expected.
//
// Histories are aligned by position: reading i of every metric is assumed
// to share a timestamp bucket. The computation is synchronous and pure;
// data-quality problems degrade per cell (null for insufficient data, 0
// for flat series) instead of failing the matrix.
package correlation

import (
	"math"
	"sort"
)

// minSamples is the smallest number of valid aligned pairs that yields a
// defined coefficient. Below it the cell is null, never 0: "we don't know"
// must stay distinguishable from "no correlation".
const minSamples = 2

// Matrix is a symmetric metric-to-metric coefficient mapping. A nil cell
// means insufficient data. The diagonal is 1 by convention.
type Matrix map[string]map[string]*float64

// Metrics returns the matrix's metric names in sorted order.
func (m Matrix) Metrics() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compute builds the full pairwise correlation matrix for the given metric
// histories. Metrics with fewer than two valid samples in their own series
// are excluded from the matrix entirely.
func Compute(histories map[string][]Reading) Matrix {
	metrics := make([]string, 0, len(histories))
	for name, series := range histories {
		if countValid(series) >= minSamples {
			metrics = append(metrics, name)
		}
	}
	sort.Strings(metrics)

	matrix := make(Matrix, len(metrics))
	for _, name := range metrics {
		matrix[name] = make(map[string]*float64, len(metrics))
	}

	for i, a := range metrics {
		one := 1.0
		matrix[a][a] = &one

		for _, b := range metrics[i+1:] {
			r := pearson(histories[a], histories[b])
			matrix[a][b] = r
			matrix[b][a] = r
		}
	}

	return matrix
}

// pearson computes the correlation coefficient over the min-length prefix
// of two histories, skipping index pairs where either side is invalid.
// Returns nil when fewer than minSamples valid pairs remain, and 0 when
// the denominator collapses (one or both series are constant).
func pearson(x, y []Reading) *float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}

	var sumX, sumY, sumXY, sumX2, sumY2 float64
	valid := 0
	for i := 0; i < n; i++ {
		if !x[i].Valid || !y[i].Valid {
			continue
		}
		xv, yv := x[i].Value, y[i].Value
		sumX += xv
		sumY += yv
		sumXY += xv * yv
		sumX2 += xv * xv
		sumY2 += yv * yv
		valid++
	}

	if valid < minSamples {
		return nil
	}

	fn := float64(valid)
	numerator := fn*sumXY - sumX*sumY
	denominator := math.Sqrt((fn*sumX2 - sumX*sumX) * (fn*sumY2 - sumY*sumY))

	var r float64
	if denominator == 0 || math.IsNaN(denominator) || math.IsInf(denominator, 0) {
		// Flat series correlate with nothing; report "no correlation",
		// not an undefined value.
		r = 0
	} else {
		r = numerator / denominator
	}

	// Floating point can push |r| a hair past 1.
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}

	return &r
}

// countValid returns the number of valid samples in a series.
func countValid(series []Reading) int {
	valid := 0
	for _, s := range series {
		if s.Valid {
			valid++
		}
	}
	return valid
}
