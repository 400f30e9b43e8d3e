package scenario

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"hedgerisk/internal/rates"
	"hedgerisk/internal/stats"
)

// Summary is a quick sanity view of a simulated path.
type Summary struct {
	Mean float64
	P5   float64
	P95  float64
}

// Summarize returns mean and 5th/95th percentiles of path.
func Summarize(path rates.Path) Summary {
	if len(path) == 0 {
		return Summary{}
	}
	sorted := append([]float64(nil), path...)
	sort.Float64s(sorted)
	return Summary{
		Mean: stat.Mean(sorted, nil),
		P5:   stats.Percentile(sorted, 0.05),
		P95:  stats.Percentile(sorted, 0.95),
	}
}
