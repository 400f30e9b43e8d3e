package cli

import (
	"github.com/spf13/cobra"
)

var varFlags overrideFlags

var varCmd = &cobra.Command{
	Use:   "var",
	Short: "Estimate the Monte Carlo VaR of the hedge savings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().VaR(cmd.Context(), varFlags.overrides(cmd))
	},
}

func init() {
	varFlags.bindOutput(varCmd)
	varFlags.bindRisk(varCmd)
}
