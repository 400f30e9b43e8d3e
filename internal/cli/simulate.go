package cli

import (
	"github.com/spf13/cobra"
)

var simulateFlags overrideFlags

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate short and mortgage rate paths for every scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Simulate(cmd.Context(), simulateFlags.overrides(cmd))
	},
}

func init() {
	simulateFlags.bindOutput(simulateCmd)
}
