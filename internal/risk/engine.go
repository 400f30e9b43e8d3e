package risk

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"hedgerisk/internal/amortization"
	"hedgerisk/internal/config"
	"hedgerisk/internal/rates"
	"hedgerisk/internal/scenario"
	"hedgerisk/internal/stats"
	"hedgerisk/internal/valuation"
)

// Options tune the engine.
type Options struct {
	// Workers bounds the goroutines simulating paths; zero means GOMAXPROCS.
	Workers int
	// Intercept fits the calibration regression with a constant term.
	Intercept bool
	// Basis converts simulated annual rates to monthly payment rates.
	Basis rates.Basis
	// KeepDistribution retains the per-path savings in the result.
	KeepDistribution bool
}

// Input describes one VaR estimation.
type Input struct {
	Scenario     scenario.ID
	History      []float64
	Horizon      int
	Paths        int
	Confidence   float64
	Principal    float64
	SwapSpread   float64
	DiscountRate float64
	Seed         uint64
}

// Validate rejects out-of-range inputs.
func (in Input) Validate() error {
	switch {
	case in.Horizon <= 0:
		return config.Invalid("risk.horizon_months", "must be positive, got %d", in.Horizon)
	case in.Paths <= 0:
		return config.Invalid("risk.paths", "must be positive, got %d", in.Paths)
	case !(in.Confidence > 0 && in.Confidence < 1):
		return config.Invalid("risk.confidence", "must be in (0, 1), got %v", in.Confidence)
	case in.Principal <= 0:
		return config.Invalid("portfolio.principal", "must be positive, got %v", in.Principal)
	}
	return nil
}

// Result summarises the savings distribution. Savings follow the
// valuation convention PV(hedged) − PV(variable); VaRAbsolute is the
// (1−confidence) percentile, the adverse tail of that benefit.
type Result struct {
	Scenario      scenario.ID
	Calibration   Calibration
	Paths         int
	MeanSavings   float64
	StdSavings    float64
	VaRAbsolute   float64
	VaRPct        float64
	Median        float64
	Upper         float64
	ParametricVaR float64
	Distribution  []float64
}

// Engine runs calibrated Monte Carlo simulations.
type Engine struct {
	opts   Options
	logger zerolog.Logger
}

// NewEngine constructs an Engine.
func NewEngine(opts Options, logger zerolog.Logger) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{opts: opts, logger: logger.With().Str("component", "risk").Logger()}
}

// EstimateVaR calibrates on in.History, simulates in.Paths independent paths
// of in.Horizon months and extracts the percentile risk measure. Path i
// draws from rates.NewRand(in.Seed, i), so the result does not depend on the
// number of workers or their scheduling.
func (e *Engine) EstimateVaR(ctx context.Context, in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	cal, err := Calibrate(in.History, e.opts.Intercept)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", in.Scenario, err)
	}
	e.logger.Debug().
		Str("scenario", in.Scenario.String()).
		Float64("beta", cal.Beta).
		Float64("kappa", cal.Kappa).
		Float64("mu", cal.Mu).
		Float64("sigma", cal.Sigma).
		Msg("model calibrated")

	sim := pathSimulator{
		cal:       cal,
		r0:        in.History[len(in.History)-1],
		horizon:   in.Horizon,
		principal: in.Principal,
		spread:    in.SwapSpread,
		discount:  e.opts.Basis.Monthly(in.DiscountRate),
		basis:     e.opts.Basis,
	}

	savings, err := e.run(ctx, sim, in.Paths, in.Seed)
	if err != nil {
		return Result{}, err
	}

	res := summarize(savings, in.Confidence)
	res.Scenario = in.Scenario
	res.Calibration = cal
	if e.opts.KeepDistribution {
		res.Distribution = savings
	}

	e.logger.Info().
		Str("scenario", in.Scenario.String()).
		Int("paths", in.Paths).
		Float64("mean_savings", res.MeanSavings).
		Float64("var_abs", res.VaRAbsolute).
		Msg("value-at-risk estimated")
	return res, nil
}

func (e *Engine) run(ctx context.Context, sim pathSimulator, n int, seed uint64) ([]float64, error) {
	savings := make([]float64, n)
	workers := e.opts.Workers
	if workers > n {
		workers = n
	}

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for i := w; i < n; i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				s, err := sim.savings(rates.NewRand(seed, uint64(i)))
				if err != nil {
					return fmt.Errorf("path %d: %w", i, err)
				}
				savings[i] = s
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return savings, nil
}

func summarize(savings []float64, confidence float64) Result {
	sorted := append([]float64(nil), savings...)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	varAbs := stats.Percentile(sorted, 1-confidence)
	pct := math.NaN()
	if mean != 0 {
		pct = varAbs / mean
	}
	parametric := mean
	if len(sorted) > 1 {
		parametric = mean + distuv.UnitNormal.Quantile(1-confidence)*std
	}

	return Result{
		Paths:         len(savings),
		MeanSavings:   mean,
		StdSavings:    std,
		VaRAbsolute:   varAbs,
		VaRPct:        pct,
		Median:        stats.Percentile(sorted, 0.5),
		Upper:         stats.Percentile(sorted, confidence),
		ParametricVaR: parametric,
	}
}

// pathSimulator is the stateless per-path computation; everything it needs
// is copied in, and each call owns its generator.
type pathSimulator struct {
	cal       Calibration
	r0        float64
	horizon   int
	principal float64
	spread    float64
	discount  float64
	basis     rates.Basis
}

// path runs the uncapped Euler update r += κ(μ−r) + σZ and records max(r, 0).
func (s pathSimulator) path(rng *rand.Rand) rates.Path {
	out := make(rates.Path, s.horizon)
	r := s.r0
	for t := range out {
		r += s.cal.Kappa*(s.cal.Mu-r) + s.cal.Sigma*rng.NormFloat64()
		out[t] = math.Max(r, 0)
	}
	return out
}

func (s pathSimulator) savings(rng *rand.Rand) (float64, error) {
	path := s.path(rng)

	variable, err := amortization.Amortize(amortization.Levelized, path.Monthly(s.basis), s.principal)
	if err != nil {
		return 0, err
	}
	hedged, err := amortization.Amortize(amortization.Levelized, path.Add(s.spread).Monthly(s.basis), s.principal)
	if err != nil {
		return 0, err
	}

	pvVar := valuation.FixedTenorPV(variable.Outflows(), s.discount)
	pvHedged := valuation.FixedTenorPV(hedged.Outflows(), s.discount)
	return pvHedged - pvVar, nil
}
