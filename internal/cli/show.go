package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tidal-pump/internal/app"
)

var (
	showLimit int
	showRunID int64
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "List stored runs, or print one run's summary with --run-id",
	RunE: func(cmd *cobra.Command, args []string) error {
		if showRunID < 0 {
			return fmt.Errorf("--run-id cannot be negative")
		}
		if showRunID == 0 && showLimit <= 0 {
			return fmt.Errorf("--limit must be greater than zero")
		}

		return getApp().Show(cmd.Context(), app.ShowOptions{Limit: showLimit, RunID: showRunID})
	},
}

func init() {
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "Number of runs to list")
	showCmd.Flags().Int64Var(&showRunID, "run-id", 0, "Print the summary of a single stored run")
}
