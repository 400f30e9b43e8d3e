package app

import (
	"context"
	"io"

	"hedgerisk/internal/report"
	"hedgerisk/internal/swap"
)

// Compare values the hedged and variable legs of every scenario.
func (a *App) Compare(ctx context.Context, o Overrides) error {
	p, closer, err := a.pipeline(ctx, o)
	defer closer()
	if err != nil {
		return err
	}

	paths, err := p.Simulate()
	if err != nil {
		return err
	}
	results, err := p.Compare(paths)
	if err != nil {
		return err
	}
	return a.emitValuation(results)
}

// Sweep reports savings over the configured swap spread grid.
func (a *App) Sweep(ctx context.Context, o Overrides) error {
	p, closer, err := a.pipeline(ctx, o)
	defer closer()
	if err != nil {
		return err
	}

	paths, err := p.Simulate()
	if err != nil {
		return err
	}
	rows, err := p.Sweep(paths)
	if err != nil {
		return err
	}
	return a.emitSweep(rows)
}

func (a *App) emitValuation(results []swap.Result) error {
	table := report.ValuationTable{Results: results}
	if err := a.printTable("Swap valuation ("+a.Config.Swap.Method+")", table); err != nil {
		return err
	}
	ex := a.exporter()
	if err := ex.table("valuation", table); err != nil {
		return err
	}
	return ex.chart("savings", func(w io.Writer) error {
		return report.SavingsChart(w, results)
	})
}

func (a *App) emitSweep(rows []swap.SweepRow) error {
	if err := a.printTable("Savings by swap spread (millions)", report.SweepGrid{Rows: rows}); err != nil {
		return err
	}
	ex := a.exporter()
	if err := ex.table("sweep", report.SweepTable{Rows: rows}); err != nil {
		return err
	}
	return ex.chart("sensitivity", func(w io.Writer) error {
		return report.SensitivityChart(w, rows)
	})
}
