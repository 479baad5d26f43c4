package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tidal-pump/internal/app"
)

var (
	exportRunID           int64
	exportPNGPath         string
	exportPowerPNGPath    string
	exportVelocityPNGPath string
	exportCSVPath         string
	exportMaxPoints       int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored run as CSV and/or PNG charts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportRunID <= 0 {
			return fmt.Errorf("--run-id must be greater than zero")
		}

		opts := app.ExportOptions{
			RunID:           exportRunID,
			PNGPath:         exportPNGPath,
			PowerPNGPath:    exportPowerPNGPath,
			VelocityPNGPath: exportVelocityPNGPath,
			CSVPath:         exportCSVPath,
			MaxPoints:       exportMaxPoints,
		}
		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().Int64Var(&exportRunID, "run-id", 0, "Identifier of the stored run")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write the tide and flow chart")
	exportCmd.Flags().StringVar(&exportPowerPNGPath, "power-png", "", "Path to write the tide and power chart")
	exportCmd.Flags().StringVar(&exportVelocityPNGPath, "velocity-png", "", "Path to write the intake and outtake velocity chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().IntVar(&exportMaxPoints, "max-points", 0, "Maximum data points to export (defaults to config)")
}
