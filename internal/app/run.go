package app

import (
	"context"
	"errors"

	"hedgerisk/internal/service"
)

// Run executes the full analysis for the configured market and exports every
// table and chart.
func (a *App) Run(ctx context.Context, o Overrides) error {
	ctx, cancel := withSignals(ctx)
	defer cancel()

	p, closer, err := a.pipeline(ctx, o)
	defer closer()
	if err != nil {
		return err
	}

	a.Logger.Info().Str("market", a.Config.Market).Str("method", a.Config.Swap.Method).Msg("starting analysis")
	rep, err := p.Run(ctx, service.RiskOptions{KeepDistribution: a.Config.Export.PNG})
	if errors.Is(err, context.Canceled) {
		a.Logger.Warn().Msg("analysis interrupted")
		return err
	}
	if err != nil {
		return err
	}

	if err := a.emitPaths(rep.Paths); err != nil {
		return err
	}
	if err := a.emitValuation(rep.Valuation); err != nil {
		return err
	}
	if err := a.emitSweep(rep.Sweep); err != nil {
		return err
	}
	if err := a.emitRisk(rep.Risk); err != nil {
		return err
	}

	a.Logger.Info().Str("dir", a.Config.Export.Dir).Msg("analysis complete")
	return nil
}
