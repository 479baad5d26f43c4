package cli

import (
	"github.com/spf13/cobra"

	"tidal-pump/internal/app"
)

var (
	runCSVPath         string
	runPNGPath         string
	runPowerPNGPath    string
	runVelocityPNGPath string
	runNoPersist       bool
	runMaxPoints       int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Load the tide series, derive flow and power, print the summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.RunOptions{
			CSVPath:         runCSVPath,
			PNGPath:         runPNGPath,
			PowerPNGPath:    runPowerPNGPath,
			VelocityPNGPath: runVelocityPNGPath,
			NoPersist:       runNoPersist,
			MaxPoints:       runMaxPoints,
		}
		return getApp().Run(cmd.Context(), opts)
	},
}

func init() {
	runCmd.Flags().StringVar(&runCSVPath, "csv", "", "Path to write the derived series as CSV")
	runCmd.Flags().StringVar(&runPNGPath, "png", "", "Path to write the tide and flow chart")
	runCmd.Flags().StringVar(&runPowerPNGPath, "power-png", "", "Path to write the tide and power chart")
	runCmd.Flags().StringVar(&runVelocityPNGPath, "velocity-png", "", "Path to write the intake and outtake velocity chart")
	runCmd.Flags().BoolVar(&runNoPersist, "no-persist", false, "Skip writing the run to the database")
	runCmd.Flags().IntVar(&runMaxPoints, "max-points", 0, "Maximum data points to export (defaults to config)")
}
