package app

import (
	"context"
	"errors"

	"tidal-pump/internal/pipeline"
	"tidal-pump/internal/report"
	"tidal-pump/internal/storage"
)

// Run loads the configured tide series, derives flow and power, prints the
// summary and writes any requested artefacts.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	pipeOpts, err := a.pipelineOptions()
	if err != nil {
		return err
	}

	var runStore storage.RunStore
	if !opts.NoPersist {
		store, closeStore, err := a.openStore(ctx)
		if err != nil {
			return err
		}
		if store == nil {
			a.Logger.Debug().Msg("database.dsn not configured; run will not be persisted")
		} else {
			runStore = store
		}
		if closeStore != nil {
			defer closeStore()
		}
	}

	provider := a.newProvider(a.Config.SimulatedOptions())
	pipe := pipeline.New(pipeOpts, provider, runStore, a.newNotifier(), a.Logger)

	a.Logger.Info().Str("mode", pipeOpts.Mode).Str("flow_model", string(pipeOpts.Mechanism.FlowModel)).Msg("starting run")
	res, err := pipe.Run(ctx)
	if err != nil {
		return err
	}

	if err := report.WriteSummary(a.Out, res.Meta(), res.Run.Result); err != nil {
		return err
	}

	return a.writeArtefacts(res.Derived, artefactPaths{
		csv:         opts.CSVPath,
		flowPNG:     opts.PNGPath,
		powerPNG:    opts.PowerPNGPath,
		velocityPNG: opts.VelocityPNGPath,
	}, a.Config.ResolveMaxPoints(opts.MaxPoints))
}

// Export re-renders a stored run as CSV and/or PNG.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	paths := artefactPaths{
		csv:         opts.CSVPath,
		flowPNG:     opts.PNGPath,
		powerPNG:    opts.PowerPNGPath,
		velocityPNG: opts.VelocityPNGPath,
	}
	if paths.empty() {
		return errors.New("at least one of --csv, --png, --power-png or --velocity-png must be provided")
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot export")
	}
	if closeStore != nil {
		defer closeStore()
	}

	run, err := store.GetRun(ctx, opts.RunID)
	if err != nil {
		return err
	}
	derived, err := store.ListRunSamples(ctx, run.ID)
	if err != nil {
		return err
	}
	if len(derived) == 0 {
		a.Logger.Info().Int64("run_id", run.ID).Msg("run has no stored samples")
		return nil
	}

	return a.writeArtefacts(derived, paths, a.Config.ResolveMaxPoints(opts.MaxPoints))
}
