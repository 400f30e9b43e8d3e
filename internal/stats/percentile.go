// Package stats holds the sample estimators the reports share.
package stats

import "math"

// Percentile returns the p-quantile of sorted (ascending) by linear
// interpolation between the order statistics at h = (n−1)p, the default
// of most spreadsheet and numpy percentile functions. p is clamped to
// [0, 1]; an empty sample gives NaN.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 || math.IsNaN(p) {
		return math.NaN()
	}
	p = math.Min(math.Max(p, 0), 1)

	h := float64(n-1) * p
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}
