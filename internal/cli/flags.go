package cli

import (
	"github.com/spf13/cobra"

	"hedgerisk/internal/app"
)

// overrideFlags are the configuration overrides a command accepts.
type overrideFlags struct {
	seed    uint64
	paths   int
	workers int
	method  string
	out     string
	png     bool
}

func (f *overrideFlags) bindOutput(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Random seed for simulation and Monte Carlo (defaults to config)")
	cmd.Flags().StringVar(&f.out, "out", "", "Directory for exported tables and charts (defaults to export.dir)")
	cmd.Flags().BoolVar(&f.png, "png", false, "Also render PNG charts")
}

func (f *overrideFlags) bindMethod(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.method, "method", "", "Comparison method: list-rate or swapped-path (defaults to config)")
}

func (f *overrideFlags) bindRisk(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.paths, "paths", 0, "Monte Carlo paths per scenario (defaults to config)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Concurrent simulation workers (defaults to config)")
}

func (f *overrideFlags) overrides(cmd *cobra.Command) app.Overrides {
	o := app.Overrides{
		Paths:   f.paths,
		Workers: f.workers,
		Method:  f.method,
		OutDir:  f.out,
		PNG:     f.png,
	}
	if cmd.Flags().Changed("seed") {
		seed := f.seed
		o.Seed = &seed
	}
	return o
}
