package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"tidal-pump/internal/pipeline"
	"tidal-pump/internal/report"
	"tidal-pump/internal/storage"
)

// Show prints recently stored runs, or the full summary of one run.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show runs")
	}
	if closeStore != nil {
		defer closeStore()
	}

	if opts.RunID > 0 {
		run, err := store.GetRun(ctx, opts.RunID)
		if err != nil {
			return err
		}
		return report.WriteSummary(a.Out, pipeline.MetaFor(run), run.Result)
	}

	runs, err := store.ListRecentRuns(ctx, opts.Limit)
	if err != nil {
		return err
	}
	return writeRunTable(a.Out, runs)
}

func writeRunTable(out io.Writer, runs []storage.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCreated (UTC)\tSource\tModel\tComponent\tSamples\tAvg kW\tkWh\tGPM in\tGPM out")
	for _, run := range runs {
		res := run.Result
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			run.ID,
			run.CreatedAt.UTC().Format(time.RFC3339),
			run.Mode,
			run.FlowModel,
			run.Component,
			res.Samples,
			report.Fixed(res.AveragePowerKW, 3),
			report.Fixed(res.TotalEnergyKWh, 2),
			report.Fixed(res.AverageFlowInGPM, 2),
			report.Fixed(res.AverageFlowOutGPM, 2),
		)
	}
	return tw.Flush()
}
