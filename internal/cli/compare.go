package cli

import (
	"github.com/spf13/cobra"
)

var (
	compareFlags overrideFlags
	sweepFlags   overrideFlags
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare hedged and variable cash flows per scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Compare(cmd.Context(), compareFlags.overrides(cmd))
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Tabulate savings across the swap spread grid",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Sweep(cmd.Context(), sweepFlags.overrides(cmd))
	},
}

func init() {
	compareFlags.bindOutput(compareCmd)
	compareFlags.bindMethod(compareCmd)

	sweepFlags.bindOutput(sweepCmd)
	sweepFlags.bindMethod(sweepCmd)
}
