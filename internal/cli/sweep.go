package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tidal-pump/internal/app"
)

var (
	sweepFrom float64
	sweepTo   float64
	sweepStep float64
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Compare simulated runs over a range of tide amplitudes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if sweepStep <= 0 {
			return fmt.Errorf("--step must be greater than zero")
		}
		if sweepFrom < 0 || sweepTo < sweepFrom {
			return fmt.Errorf("--from must be non-negative and not after --to")
		}

		opts := app.SweepOptions{
			From: sweepFrom,
			To:   sweepTo,
			Step: sweepStep,
		}
		return getApp().Sweep(cmd.Context(), opts)
	},
}

func init() {
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 1, "First amplitude in metres")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 3, "Last amplitude in metres (inclusive)")
	sweepCmd.Flags().Float64Var(&sweepStep, "step", 0.5, "Amplitude increment in metres")
}
