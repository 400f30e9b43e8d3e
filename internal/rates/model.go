// Package rates simulates monthly short-rate paths under a mean-reverting
// process with bounded moves.
package rates

import (
	"math"

	"golang.org/x/exp/rand"

	"hedgerisk/internal/config"
)

const (
	// DefaultCap bounds a single monthly move (150 bp).
	DefaultCap = 0.015
	// DefaultFloor is the minimum simulated short rate.
	DefaultFloor = 0.01
	// MonthlyStep is Δt for an annualised reversion speed on monthly steps.
	MonthlyStep = 1.0 / 12.0
)

// Path is an ordered sequence of monthly annualised short rates.
type Path []float64

// Model holds the mean-reverting dynamics dr = α(μ−r)Δt + σ_m·Z.
type Model struct {
	// Alpha is the annualised reversion speed.
	Alpha float64
	// Mu is the long-run mean as a fraction (0.08 == 8%).
	Mu float64
	// SigmaMonthly is the volatility of one monthly step.
	SigmaMonthly float64
	// Cap clamps the raw increment to [−Cap, Cap] before it is applied.
	Cap float64
	// Floor is the lowest admissible rate after each step.
	Floor float64
	// Dt is the step length in years; zero means MonthlyStep.
	Dt float64
}

// Validate rejects negative speeds, volatilities and caps.
func (m Model) Validate() error {
	switch {
	case m.Alpha < 0 || math.IsNaN(m.Alpha):
		return config.Invalid("alpha", "must be non-negative, got %v", m.Alpha)
	case m.SigmaMonthly < 0 || math.IsNaN(m.SigmaMonthly):
		return config.Invalid("sigma", "must be non-negative, got %v", m.SigmaMonthly)
	case m.Cap < 0:
		return config.Invalid("cap", "must be non-negative, got %v", m.Cap)
	case m.Dt < 0:
		return config.Invalid("dt", "must be non-negative, got %v", m.Dt)
	}
	return nil
}

func (m Model) step() float64 {
	if m.Dt == 0 {
		return MonthlyStep
	}
	return m.Dt
}

// Simulate generates steps monthly rates starting from r0. The generator is
// consumed one normal draw per step, so identical (rng state, inputs) give
// identical paths.
func Simulate(m Model, r0 float64, steps int, rng *rand.Rand) (Path, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if steps <= 0 {
		return nil, config.Invalid("steps", "must be positive, got %d", steps)
	}

	dt := m.step()
	path := make(Path, steps)
	r := r0
	for t := 0; t < steps; t++ {
		dr := m.Alpha*(m.Mu-r)*dt + m.SigmaMonthly*rng.NormFloat64()
		dr = clamp(dr, -m.Cap, m.Cap)
		r = math.Max(r+dr, m.Floor)
		path[t] = r
	}
	return path, nil
}

// Add returns a new path shifted by spread.
func (p Path) Add(spread float64) Path {
	out := make(Path, len(p))
	for i, r := range p {
		out[i] = r + spread
	}
	return out
}

// Head returns the first n rates (or the whole path when shorter).
func (p Path) Head(n int) Path {
	if n >= len(p) {
		return p
	}
	return p[:n]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
