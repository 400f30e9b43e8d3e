// Package swap compares the present cost of a variable-rate mortgage
// portfolio with its swap-hedged equivalent.
package swap

import (
	"fmt"
	"math"
	"strings"

	"hedgerisk/internal/amortization"
	"hedgerisk/internal/config"
	"hedgerisk/internal/rates"
	"hedgerisk/internal/scenario"
	"hedgerisk/internal/valuation"
)

// HedgeLeg chooses how the hedged cash flow is built.
type HedgeLeg int

const (
	// ListRate pays a constant annuity at the list rate plus the swap spread.
	ListRate HedgeLeg = iota
	// SwappedPath amortizes on the short-rate path shifted by the swap spread.
	SwappedPath
)

// VariableRate chooses which scenario path drives the variable leg.
type VariableRate int

const (
	MortgageRate VariableRate = iota
	ShortRate
)

// Options configure a Comparator. Rates are annual fractions.
type Options struct {
	Principal    float64
	Term         int
	ListRate     float64
	Mode         amortization.Mode
	Hedge        HedgeLeg
	Variable     VariableRate
	Discount     valuation.Convention
	DiscountRate float64
	Basis        rates.Basis
}

// Preset returns the options for a named comparison method. "list-rate"
// compares equal-principal variable payments on the mortgage rate with a
// fixed annuity, discounted on the short-rate curve. "swapped-path" compares
// levelized payments on the short rate with the same schedule on the swapped
// rate, discounted at the flat discount rate.
func Preset(name string, principal float64, term int, listRate, discountRate float64) (Options, error) {
	o := Options{
		Principal:    principal,
		Term:         term,
		ListRate:     listRate,
		DiscountRate: discountRate,
		Basis:        rates.Effective,
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "list-rate", "":
		o.Mode = amortization.EqualPrincipal
		o.Hedge = ListRate
		o.Variable = MortgageRate
		o.Discount = valuation.Curve
	case "swapped-path":
		o.Mode = amortization.Levelized
		o.Hedge = SwappedPath
		o.Variable = ShortRate
		o.Discount = valuation.Flat
	default:
		return Options{}, config.Invalid("swap.method", "unknown method %q", name)
	}
	return o, nil
}

// Validate checks the portfolio assumptions.
func (o Options) Validate() error {
	if o.Principal <= 0 {
		return config.Invalid("portfolio.principal", "must be positive, got %v", o.Principal)
	}
	if o.Term <= 0 {
		return config.Invalid("portfolio.term_months", "must be positive, got %d", o.Term)
	}
	return nil
}

// Result is the valuation of one scenario. PVs are of borrower outflows and
// therefore negative; Savings = PVHedged − PVVariable, so a positive value
// means the hedge costs less than staying variable.
type Result struct {
	Scenario   scenario.ID
	Spread     float64
	PVVariable float64
	PVHedged   float64
	Savings    float64
	SavingsPct float64
}

// Comparator values fixed-vs-variable cash flows.
type Comparator struct {
	opts Options
}

// NewComparator validates opts.
func NewComparator(opts Options) (*Comparator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Comparator{opts: opts}, nil
}

// Options returns the comparator settings.
func (c *Comparator) Options() Options {
	return c.opts
}

// Compare values every scenario with its own swap spread.
func (c *Comparator) Compare(paths map[scenario.ID]scenario.Paths, spreads map[scenario.ID]float64) ([]Result, error) {
	results := make([]Result, 0, len(paths))
	for _, id := range scenario.All() {
		p, ok := paths[id]
		if !ok {
			continue
		}
		spread, ok := spreads[id]
		if !ok {
			return nil, config.Invalid("swap.spreads."+id.Key(), "no swap spread for scenario %s", id)
		}

		leg, err := c.variableLeg(p)
		if err != nil {
			return nil, fmt.Errorf("%s variable leg: %w", id, err)
		}
		res, err := c.value(id, p, leg, spread)
		if err != nil {
			return nil, fmt.Errorf("%s hedged leg: %w", id, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// variable holds the discounted variable leg and the curve used for it.
type variable struct {
	pv    float64
	curve []float64
}

func (c *Comparator) variableLeg(p scenario.Paths) (variable, error) {
	if len(p.Short) < c.opts.Term || len(p.Mortgage) < c.opts.Term {
		return variable{}, config.Invalid("portfolio.term_months",
			"term %d exceeds simulated horizon %d", c.opts.Term, len(p.Short))
	}

	src := p.Mortgage
	if c.opts.Variable == ShortRate {
		src = p.Short
	}
	sched, err := amortization.Amortize(c.opts.Mode, src.Head(c.opts.Term).Monthly(c.opts.Basis), c.opts.Principal)
	if err != nil {
		return variable{}, err
	}

	curve := p.Short.Head(c.opts.Term).Monthly(c.opts.Basis)
	pv, err := valuation.PresentValue(c.opts.Discount, sched.Outflows(), curve, c.opts.Basis.Monthly(c.opts.DiscountRate))
	if err != nil {
		return variable{}, err
	}
	return variable{pv: pv, curve: curve}, nil
}

func (c *Comparator) hedgedOutflows(p scenario.Paths, spread float64) ([]float64, error) {
	switch c.opts.Hedge {
	case ListRate:
		rate := c.opts.Basis.Monthly(c.opts.ListRate) + spread/12
		payments := amortization.FixedPayments(rate, c.opts.Term, c.opts.Principal)
		for i := range payments {
			payments[i] = -payments[i]
		}
		return payments, nil
	case SwappedPath:
		swapped := p.Short.Head(c.opts.Term).Add(spread).Monthly(c.opts.Basis)
		sched, err := amortization.Amortize(c.opts.Mode, swapped, c.opts.Principal)
		if err != nil {
			return nil, err
		}
		return sched.Outflows(), nil
	}
	return nil, config.Invalid("swap.hedge", "unsupported hedge leg %d", int(c.opts.Hedge))
}

func (c *Comparator) value(id scenario.ID, p scenario.Paths, v variable, spread float64) (Result, error) {
	cfs, err := c.hedgedOutflows(p, spread)
	if err != nil {
		return Result{}, err
	}
	pvHedged, err := valuation.PresentValue(c.opts.Discount, cfs, v.curve, c.opts.Basis.Monthly(c.opts.DiscountRate))
	if err != nil {
		return Result{}, err
	}

	savings := pvHedged - v.pv
	pct := math.NaN()
	if v.pv != 0 {
		pct = savings / math.Abs(v.pv)
	}
	return Result{
		Scenario:   id,
		Spread:     spread,
		PVVariable: v.pv,
		PVHedged:   pvHedged,
		Savings:    savings,
		SavingsPct: pct,
	}, nil
}
