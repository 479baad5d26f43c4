package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"text/tabwriter"

	"tidal-pump/internal/config"
	"tidal-pump/internal/pipeline"
	"tidal-pump/internal/report"
	"tidal-pump/internal/tide"
)

// Sweep runs the simulated pipeline over a range of tide amplitudes and
// prints one summary row per amplitude. Nothing is persisted.
func (a *App) Sweep(ctx context.Context, opts SweepOptions) error {
	if opts.Step <= 0 {
		return errors.New("sweep step must be greater than zero")
	}
	if opts.To < opts.From {
		return errors.New("sweep range is empty, check --from/--to")
	}
	if a.Config.Tide.Mode != config.ModeSimulated {
		a.Logger.Warn().Str("mode", a.Config.Tide.Mode).Msg("sweep always uses the simulated tide")
	}

	pipeOpts, err := a.pipelineOptions()
	if err != nil {
		return err
	}
	pipeOpts.Mode = config.ModeSimulated

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Amplitude (m)\tAvg kW\tkWh\tGPM in\tGPM out\tGal in/day\tGal out/day")

	steps := int(math.Floor((opts.To-opts.From)/opts.Step+1e-9)) + 1
	processed := 0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		amplitude := opts.From + float64(i)*opts.Step
		sim := a.Config.SimulatedOptions()
		sim.Amplitude = amplitude

		samples, err := tide.NewSimulated(sim, a.Logger).Samples(ctx)
		if err != nil {
			return err
		}
		res, err := pipeline.Compute(samples, pipeOpts)
		if err != nil {
			return fmt.Errorf("amplitude %s: %w", report.Fixed(amplitude, 3), err)
		}

		agg := res.Run.Result
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			report.Fixed(amplitude, 3),
			report.Fixed(agg.AveragePowerKW, 3),
			report.Fixed(agg.TotalEnergyKWh, 2),
			report.Fixed(agg.AverageFlowInGPM, 2),
			report.Fixed(agg.AverageFlowOutGPM, 2),
			report.Fixed(agg.TotalVolumeInGallons, 0),
			report.Fixed(agg.TotalVolumeOutGallons, 0),
		)
		processed++
	}

	a.Logger.Info().Int("processed", processed).Msg("sweep complete")
	return writer.Flush()
}
