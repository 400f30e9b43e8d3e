// Package report renders the engine outputs as tables, CSV files and PNG
// charts.
package report

import (
	"math"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
)

// money rounds to whole currency units.
func money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	return decimal.NewFromFloat(v).Round(0).String()
}

// percent renders a fraction as a percentage with two decimals.
func percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	return decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).StringFixed(2)
}

// rate renders a fraction with six decimals.
func rate(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	return decimal.NewFromFloat(v).StringFixed(6)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
