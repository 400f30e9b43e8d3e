// Package scenario perturbs the short-rate model into optimistic, base and
// pessimistic variants and derives the variable mortgage rate for each.
package scenario

import (
	"math"
	"strings"

	"hedgerisk/internal/config"
	"hedgerisk/internal/rates"
)

// ID identifies a scenario.
type ID int

const (
	Optimistic ID = iota
	Base
	Pessimistic
)

// All lists scenarios in reporting order.
func All() []ID {
	return []ID{Optimistic, Base, Pessimistic}
}

func (id ID) String() string {
	switch id {
	case Optimistic:
		return "Optimistic"
	case Base:
		return "Base"
	case Pessimistic:
		return "Pessimistic"
	default:
		return "Unknown"
	}
}

// Key is the lower-case configuration key of the scenario.
func (id ID) Key() string {
	return strings.ToLower(id.String())
}

// ParseID accepts the English names and the Spanish labels used by the
// source spreadsheets.
func ParseID(s string) (ID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "optimistic", "optimista":
		return Optimistic, nil
	case "base":
		return Base, nil
	case "pessimistic", "pesimista":
		return Pessimistic, nil
	}
	return 0, config.Invalid("scenario", "unknown scenario %q", s)
}

type delta struct {
	sigmaFactor float64
	muShift     float64
}

var deltas = map[ID]delta{
	Optimistic:  {sigmaFactor: 0.8, muShift: -0.01},
	Base:        {sigmaFactor: 1.0, muShift: 0},
	Pessimistic: {sigmaFactor: 1.2, muShift: 0.01},
}

// BaseParameters are the market inputs every scenario is derived from.
type BaseParameters struct {
	Alpha          float64
	Mu             float64
	SigmaAnnual    float64
	R0             float64
	MortgageSpread float64
	FloorSpread    float64
	Cap            float64
	Floor          float64
}

// Parameters is one scenario's model record.
type Parameters struct {
	ID             ID
	Alpha          float64
	Mu             float64
	SigmaAnnual    float64
	SigmaMonthly   float64
	R0             float64
	MortgageSpread float64
	FloorSpread    float64
	Cap            float64
	Floor          float64
}

// Model returns the rate model for the scenario.
func (p Parameters) Model() rates.Model {
	return rates.Model{
		Alpha:        p.Alpha,
		Mu:           p.Mu,
		SigmaMonthly: p.SigmaMonthly,
		Cap:          p.Cap,
		Floor:        p.Floor,
	}
}

// Set holds the three scenario records.
type Set struct {
	params map[ID]Parameters
}

// Build applies the fixed scenario deltas to the base parameters.
func Build(b BaseParameters) (Set, error) {
	if b.Alpha < 0 {
		return Set{}, config.Invalid("market.alpha", "must be non-negative, got %v", b.Alpha)
	}
	if b.SigmaAnnual < 0 {
		return Set{}, config.Invalid("market.sigma", "must be non-negative, got %v", b.SigmaAnnual)
	}

	set := Set{params: make(map[ID]Parameters, len(deltas))}
	for _, id := range All() {
		d := deltas[id]
		sigma := b.SigmaAnnual * d.sigmaFactor
		set.params[id] = Parameters{
			ID:             id,
			Alpha:          b.Alpha,
			Mu:             b.Mu + d.muShift,
			SigmaAnnual:    sigma,
			SigmaMonthly:   sigma / math.Sqrt(12),
			R0:             b.R0,
			MortgageSpread: b.MortgageSpread,
			FloorSpread:    b.FloorSpread,
			Cap:            b.Cap,
			Floor:          b.Floor,
		}
	}
	return set, nil
}

// Parameters returns the record for id.
func (s Set) Parameters(id ID) (Parameters, bool) {
	p, ok := s.params[id]
	return p, ok
}

// Paths is the simulated short rate of a scenario and its mortgage rate.
type Paths struct {
	Short    rates.Path
	Mortgage rates.Path
}

// Generate simulates every scenario for steps months. Scenario id selects the
// generator stream, so the outcome of one scenario does not depend on the
// others being generated.
func (s Set) Generate(seed uint64, steps int) (map[ID]Paths, error) {
	out := make(map[ID]Paths, len(s.params))
	for _, id := range All() {
		p := s.params[id]
		short, err := rates.Simulate(p.Model(), p.R0, steps, rates.NewRand(seed, uint64(id)))
		if err != nil {
			return nil, err
		}
		out[id] = Paths{
			Short:    short,
			Mortgage: MortgagePath(short, p.MortgageSpread, p.FloorSpread),
		}
	}
	return out, nil
}

// MortgagePath is max(short+mortgageSpread, short+floorSpread) per month.
func MortgagePath(short rates.Path, mortgageSpread, floorSpread float64) rates.Path {
	spread := math.Max(mortgageSpread, floorSpread)
	return short.Add(spread)
}
