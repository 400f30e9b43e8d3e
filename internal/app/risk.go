package app

import (
	"context"
	"io"

	"hedgerisk/internal/report"
	"hedgerisk/internal/service"
)

// VaR estimates the Monte Carlo savings VaR of every scenario. Interrupts
// stop the simulation between paths.
func (a *App) VaR(ctx context.Context, o Overrides) error {
	ctx, cancel := withSignals(ctx)
	defer cancel()

	p, closer, err := a.pipeline(ctx, o)
	defer closer()
	if err != nil {
		return err
	}

	paths, err := p.Simulate()
	if err != nil {
		return err
	}
	rows, err := p.Risk(ctx, paths, service.RiskOptions{KeepDistribution: a.Config.Export.PNG})
	if err != nil {
		return err
	}
	return a.emitRisk(rows)
}

func (a *App) emitRisk(rows []report.RiskRow) error {
	table := report.RiskTable{Rows: rows}
	if err := a.printTable("Savings value-at-risk", table); err != nil {
		return err
	}
	ex := a.exporter()
	if err := ex.table("risk", table); err != nil {
		return err
	}

	computed := 0
	for _, row := range rows {
		if row.Err != nil {
			continue
		}
		computed++
		if len(row.Result.Distribution) == 0 {
			continue
		}
		res := row.Result
		if err := ex.chart("savings_distribution_"+row.Scenario.Key(), func(w io.Writer) error {
			return report.SavingsHistogram(w, res)
		}); err != nil {
			return err
		}
	}
	if computed == 0 {
		a.Logger.Warn().Msg("no scenario could be calibrated; skipping VaR chart")
		return nil
	}
	return ex.chart("var", func(w io.Writer) error {
		return report.VaRChart(w, rows)
	})
}
