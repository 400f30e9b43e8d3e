package cli

import (
	"github.com/spf13/cobra"
)

var runFlags overrideFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run simulation, valuation, sweep and VaR, exporting every result",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Run(cmd.Context(), runFlags.overrides(cmd))
	},
}

func init() {
	runFlags.bindOutput(runCmd)
	runFlags.bindMethod(runCmd)
	runFlags.bindRisk(runCmd)
}
