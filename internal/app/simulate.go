package app

import (
	"context"
	"io"

	"hedgerisk/internal/report"
	"hedgerisk/internal/scenario"
)

// Simulate generates the scenario rate paths, prints their summary and
// exports the monthly table.
func (a *App) Simulate(ctx context.Context, o Overrides) error {
	p, closer, err := a.pipeline(ctx, o)
	defer closer()
	if err != nil {
		return err
	}

	paths, err := p.Simulate()
	if err != nil {
		return err
	}
	return a.emitPaths(paths)
}

func (a *App) emitPaths(paths map[scenario.ID]scenario.Paths) error {
	if err := a.printTable("Mortgage rate by scenario", report.SummaryTable{Paths: paths}); err != nil {
		return err
	}
	ex := a.exporter()
	if err := ex.table("rates", report.RateTable{Paths: paths}); err != nil {
		return err
	}
	if err := ex.table("rate_summary", report.SummaryTable{Paths: paths}); err != nil {
		return err
	}
	return ex.chart("mortgage_paths", func(w io.Writer) error {
		return report.MortgagePathsChart(w, paths)
	})
}
