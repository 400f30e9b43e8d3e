package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"hedgerisk/internal/amortization"
	"hedgerisk/internal/config"
	"hedgerisk/internal/rates"
	"hedgerisk/internal/report"
	"hedgerisk/internal/risk"
	"hedgerisk/internal/scenario"
	"hedgerisk/internal/storage"
	"hedgerisk/internal/swap"
	"hedgerisk/internal/valuation"
)

// Report bundles every output of a full run.
type Report struct {
	Market    string
	Paths     map[scenario.ID]scenario.Paths
	Valuation []swap.Result
	Sweep     []swap.SweepRow
	Risk      []report.RiskRow
}

// Pipeline orchestrates simulation, valuation, sensitivity and risk for the
// configured market.
type Pipeline struct {
	cfg     *config.Config
	market  config.MarketConfig
	history storage.HistorySource
	logger  zerolog.Logger
}

// New constructs the pipeline. history may be nil, in which case risk
// calibrates on the simulated short-rate paths.
func New(cfg *config.Config, history storage.HistorySource, logger zerolog.Logger) (*Pipeline, error) {
	market, err := cfg.ActiveMarket()
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:     cfg,
		market:  market,
		history: history,
		logger:  logger.With().Str("component", "service").Str("market", cfg.Market).Logger(),
	}, nil
}

// Scenarios builds the scenario set of the active market.
func (p *Pipeline) Scenarios() (scenario.Set, error) {
	return scenario.Build(scenario.BaseParameters{
		Alpha:          p.market.Alpha,
		Mu:             p.market.Mu,
		SigmaAnnual:    p.market.Sigma,
		R0:             p.market.R0,
		MortgageSpread: p.market.SpreadOverMortgage(),
		FloorSpread:    p.market.FloorSpread,
		Cap:            p.cfg.Simulation.Cap,
		Floor:          p.cfg.Simulation.Floor,
	})
}

// Simulate generates the short and mortgage rate paths of every scenario.
func (p *Pipeline) Simulate() (map[scenario.ID]scenario.Paths, error) {
	set, err := p.Scenarios()
	if err != nil {
		return nil, err
	}
	paths, err := set.Generate(p.cfg.Simulation.Seed, p.cfg.Simulation.HorizonMonths)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	p.logger.Info().
		Uint64("seed", p.cfg.Simulation.Seed).
		Int("months", p.cfg.Simulation.HorizonMonths).
		Msg("scenario paths simulated")
	return paths, nil
}

// Comparator returns the configured comparison method with any explicit
// amortization, discount or basis override applied.
func (p *Pipeline) Comparator() (*swap.Comparator, error) {
	pf := p.cfg.Portfolio
	opts, err := swap.Preset(p.cfg.Swap.Method, pf.Principal, pf.TermMonths, pf.ListRate, pf.DiscountRate)
	if err != nil {
		return nil, err
	}
	if s := p.cfg.Swap.Amortization; s != "" {
		if opts.Mode, err = amortization.ParseMode(s); err != nil {
			return nil, err
		}
	}
	if s := p.cfg.Swap.Discount; s != "" {
		if opts.Discount, err = valuation.ParseConvention(s); err != nil {
			return nil, err
		}
	}
	if opts.Basis, err = rates.ParseBasis(p.cfg.Swap.Basis); err != nil {
		return nil, err
	}
	return swap.NewComparator(opts)
}

// Spreads maps every scenario to its configured swap spread.
func (p *Pipeline) Spreads() map[scenario.ID]float64 {
	s := p.cfg.Swap.Spreads
	return map[scenario.ID]float64{
		scenario.Optimistic:  s.Optimistic,
		scenario.Base:        s.Base,
		scenario.Pessimistic: s.Pessimistic,
	}
}

// Compare values hedged against variable cash flows per scenario.
func (p *Pipeline) Compare(paths map[scenario.ID]scenario.Paths) ([]swap.Result, error) {
	cmp, err := p.Comparator()
	if err != nil {
		return nil, err
	}
	results, err := cmp.Compare(paths, p.Spreads())
	if err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}
	for _, r := range results {
		p.logger.Debug().
			Str("scenario", r.Scenario.String()).
			Float64("savings", r.Savings).
			Float64("savings_pct", r.SavingsPct).
			Msg("scenario valued")
	}
	return results, nil
}

// Sweep computes savings across the configured spread grid.
func (p *Pipeline) Sweep(paths map[scenario.ID]scenario.Paths) ([]swap.SweepRow, error) {
	cmp, err := p.Comparator()
	if err != nil {
		return nil, err
	}
	sw := p.cfg.Swap.Sweep
	spreads, err := swap.SpreadRange(sw.FromBP, sw.ToBP, sw.StepBP)
	if err != nil {
		return nil, err
	}
	rows, err := cmp.Sweep(paths, spreads)
	if err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}
	return rows, nil
}

// RiskOptions adjust a risk run beyond the configuration.
type RiskOptions struct {
	// KeepDistribution retains per-path savings for the histogram chart.
	KeepDistribution bool
}

// Risk estimates the savings VaR of every scenario. A scenario whose
// history cannot be calibrated is reported in its row and the others still
// run; any other failure aborts.
func (p *Pipeline) Risk(ctx context.Context, paths map[scenario.ID]scenario.Paths, opts RiskOptions) ([]report.RiskRow, error) {
	rc := p.cfg.Risk
	basis, err := rates.ParseBasis(rc.Basis)
	if err != nil {
		return nil, err
	}
	engine := risk.NewEngine(risk.Options{
		Workers:          rc.Workers,
		Intercept:        rc.Intercept,
		Basis:            basis,
		KeepDistribution: opts.KeepDistribution,
	}, p.logger)

	stored, err := p.storedHistory(ctx)
	if err != nil {
		return nil, err
	}

	spreads := p.Spreads()
	rows := make([]report.RiskRow, 0, len(paths))
	for _, id := range scenario.All() {
		path, ok := paths[id]
		if !ok {
			continue
		}
		history := stored
		if history == nil {
			history = path.Short.Head(rc.HorizonMonths)
		}

		res, err := engine.EstimateVaR(ctx, risk.Input{
			Scenario:     id,
			History:      history,
			Horizon:      rc.HorizonMonths,
			Paths:        rc.Paths,
			Confidence:   rc.Confidence,
			Principal:    p.cfg.Portfolio.Principal,
			SwapSpread:   spreads[id],
			DiscountRate: p.cfg.Portfolio.DiscountRate,
			Seed:         rc.Seed,
		})
		switch {
		case errors.Is(err, risk.ErrCalibration):
			p.logger.Warn().Err(err).Str("scenario", id.String()).Msg("skipping scenario; history not mean-reverting")
			rows = append(rows, report.RiskRow{Scenario: id, Err: err})
			continue
		case err != nil:
			return nil, fmt.Errorf("risk %s: %w", id, err)
		}
		rows = append(rows, report.RiskRow{Scenario: id, Result: res})
	}
	return rows, nil
}

// storedHistory loads the calibration series from the database source, or
// returns nil when calibrating on simulated paths.
func (p *Pipeline) storedHistory(ctx context.Context) ([]float64, error) {
	if p.cfg.Risk.HistorySource != "database" {
		return nil, nil
	}
	if p.history == nil {
		return nil, fmt.Errorf("risk history: %w", storage.ErrNotConfigured)
	}
	if counter, ok := p.history.(storage.HistoryCounter); ok {
		count, err := counter.CountObservations(ctx, p.cfg.Market)
		if err != nil {
			return nil, fmt.Errorf("risk history: %w", err)
		}
		if count < risk.MinObservations {
			return nil, fmt.Errorf("risk history: %w: market %q has %d observations, need %d",
				storage.ErrNoHistory, p.cfg.Market, count, risk.MinObservations)
		}
		p.logger.Debug().Int64("stored", count).Msg("rate history available")
	}
	points, err := p.history.LoadHistory(ctx, p.cfg.Market, p.cfg.Risk.HorizonMonths)
	if err != nil {
		return nil, fmt.Errorf("risk history: %w", err)
	}
	p.logger.Info().Int("observations", len(points)).Msg("rate history loaded")
	return storage.Rates(points), nil
}

// Run executes every stage in order.
func (p *Pipeline) Run(ctx context.Context, opts RiskOptions) (*Report, error) {
	paths, err := p.Simulate()
	if err != nil {
		return nil, err
	}
	results, err := p.Compare(paths)
	if err != nil {
		return nil, err
	}
	sweep, err := p.Sweep(paths)
	if err != nil {
		return nil, err
	}
	riskRows, err := p.Risk(ctx, paths, opts)
	if err != nil {
		return nil, err
	}
	return &Report{
		Market:    p.cfg.Market,
		Paths:     paths,
		Valuation: results,
		Sweep:     sweep,
		Risk:      riskRows,
	}, nil
}
