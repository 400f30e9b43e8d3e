// Package valuation discounts monthly cash flows.
package valuation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"hedgerisk/internal/config"
)

// ErrDimensionMismatch is returned when cash flows and discount rates differ
// in length.
var ErrDimensionMismatch = errors.New("cash flows and discount rates differ in length")

// Convention selects the discounting rule.
type Convention int

const (
	// Curve compounds each month's own rate into the running discount factor:
	// DF_t = ∏_{k≤t} 1/(1+r_k).
	Curve Convention = iota
	// Flat discounts at a single monthly rate: DF_t = (1+r)^−t.
	Flat
)

func (c Convention) String() string {
	switch c {
	case Curve:
		return "curve"
	case Flat:
		return "flat"
	default:
		return "unknown"
	}
}

// ParseConvention maps a configuration string to a Convention.
func ParseConvention(s string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "curve", "stochastic", "forward":
		return Curve, nil
	case "flat", "fixed", "fixed-tenor":
		return Flat, nil
	}
	return 0, config.Invalid("discount", "unknown convention %q", s)
}

// CurveFactors returns the cumulative-product discount factors of rates.
func CurveFactors(monthlyRates []float64) []float64 {
	dfs := make([]float64, len(monthlyRates))
	df := 1.0
	for i, r := range monthlyRates {
		df /= 1 + r
		dfs[i] = df
	}
	return dfs
}

// FlatFactors returns (1+r)^−t for t = 1..n.
func FlatFactors(monthlyRate float64, n int) []float64 {
	dfs := make([]float64, n)
	for t := range dfs {
		dfs[t] = math.Pow(1+monthlyRate, -float64(t+1))
	}
	return dfs
}

// CumulativePV discounts cfs against a path of monthly rates.
func CumulativePV(cfs, monthlyRates []float64) (float64, error) {
	if len(cfs) != len(monthlyRates) {
		return 0, fmt.Errorf("%w: %d cash flows, %d rates", ErrDimensionMismatch, len(cfs), len(monthlyRates))
	}
	return floats.Dot(cfs, CurveFactors(monthlyRates)), nil
}

// FixedTenorPV discounts cfs at a constant monthly rate.
func FixedTenorPV(cfs []float64, monthlyRate float64) float64 {
	if len(cfs) == 0 {
		return 0
	}
	return floats.Dot(cfs, FlatFactors(monthlyRate, len(cfs)))
}

// PresentValue dispatches on the convention: curve is used by Curve and
// flatMonthly by Flat.
func PresentValue(conv Convention, cfs, curve []float64, flatMonthly float64) (float64, error) {
	switch conv {
	case Curve:
		return CumulativePV(cfs, curve)
	case Flat:
		return FixedTenorPV(cfs, flatMonthly), nil
	}
	return 0, config.Invalid("discount", "unsupported convention %d", int(conv))
}
