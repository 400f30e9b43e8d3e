package rates

import (
	"math"
	"strings"

	"hedgerisk/internal/config"
)

// Basis selects how an annual rate becomes a monthly one.
type Basis int

const (
	// Effective treats the annual rate as EA: (1+r)^(1/12) − 1.
	Effective Basis = iota
	// Nominal divides the annual rate by twelve.
	Nominal
	// Raw uses the rate unchanged as a monthly rate.
	Raw
)

func (b Basis) String() string {
	switch b {
	case Effective:
		return "effective"
	case Nominal:
		return "nominal"
	case Raw:
		return "raw"
	default:
		return "unknown"
	}
}

// ParseBasis maps a configuration string to a Basis.
func ParseBasis(s string) (Basis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "effective", "ea":
		return Effective, nil
	case "nominal":
		return Nominal, nil
	case "raw":
		return Raw, nil
	}
	return 0, config.Invalid("basis", "unknown rate basis %q", s)
}

// Monthly converts one annual rate.
func (b Basis) Monthly(annual float64) float64 {
	switch b {
	case Nominal:
		return annual / 12
	case Raw:
		return annual
	default:
		return math.Pow(1+annual, 1.0/12.0) - 1
	}
}

// Monthly converts every rate of the path.
func (p Path) Monthly(b Basis) []float64 {
	out := make([]float64, len(p))
	for i, r := range p {
		out[i] = b.Monthly(r)
	}
	return out
}
