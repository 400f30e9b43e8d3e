package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// RatePoint is one monthly short-rate observation of a market.
type RatePoint struct {
	Market    string
	Month     time.Time
	ShortRate decimal.Decimal
}

// Rates extracts the short rates as fractions, preserving order.
func Rates(points []RatePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.ShortRate.InexactFloat64()
	}
	return out
}
