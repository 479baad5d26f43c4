package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"tidal-pump/internal/notify"
	"tidal-pump/internal/pump"
	"tidal-pump/internal/report"
	"tidal-pump/internal/storage"
	"tidal-pump/internal/tide"
)

// Options fix the mechanism and labels for one pipeline.
type Options struct {
	Mode      string
	Component string
	Mechanism pump.Mechanism
	Aggregate pump.AggregateOptions
}

// Result is everything one run produced.
type Result struct {
	Run     storage.Run
	Derived []pump.DerivedSample
}

// Meta describes the run for reports and notifications.
func (r Result) Meta() report.Meta {
	return MetaFor(r.Run)
}

// MetaFor builds report metadata from a run record.
func MetaFor(run storage.Run) report.Meta {
	return report.Meta{
		RunID:       run.ID,
		Mode:        run.Mode,
		FlowModel:   run.FlowModel,
		Component:   run.Component,
		Diameter:    run.Diameter,
		Force:       run.Force,
		SeriesStart: run.SeriesStart,
		SeriesEnd:   run.SeriesEnd,
	}
}

// Pipeline runs tide series, flow derivation and aggregation in order, then optionally
// persists and announces the result.
type Pipeline struct {
	provider tide.Provider
	store    storage.RunStore
	notifier notify.Notifier
	opts     Options
	logger   zerolog.Logger
}

// New constructs a pipeline. store and notifier may be nil.
func New(opts Options, provider tide.Provider, store storage.RunStore, notifier notify.Notifier, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		provider: provider,
		store:    store,
		notifier: notifier,
		opts:     opts,
		logger:   logger.With().Str("component", "pipeline").Logger(),
	}
}

// Run executes one pass. Loading and derivation errors abort the run;
// persistence and notification failures are logged only.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	samples, err := p.provider.Samples(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load tide series: %w", err)
	}

	res, err := Compute(samples, p.opts)
	if err != nil {
		return Result{}, err
	}

	agg := res.Run.Result
	p.logger.Info().
		Int("samples", agg.Samples).
		Float64("average_power_kw", agg.AveragePowerKW).
		Float64("total_energy_kwh", agg.TotalEnergyKWh).
		Float64("average_flow_in_gpm", agg.AverageFlowInGPM).
		Float64("average_flow_out_gpm", agg.AverageFlowOutGPM).
		Msg("run computed")

	if p.store != nil {
		saved, err := p.store.SaveRun(ctx, res.Run, res.Derived)
		if err != nil {
			p.logger.Error().Err(err).Msg("failed to persist run")
		} else {
			res.Run = saved
			p.logger.Info().Int64("run_id", saved.ID).Msg("run persisted")
		}
	}

	if p.notifier != nil {
		if err := p.notifier.Notify(ctx, notify.Summary{Meta: res.Meta(), Result: agg}); err != nil {
			p.logger.Error().Err(err).Msg("failed to send run summary")
		}
	}

	return res, nil
}

// Compute derives and aggregates an already loaded series.
func Compute(samples []tide.Sample, opts Options) (Result, error) {
	derived, err := pump.Derive(samples, opts.Mechanism)
	if err != nil {
		return Result{}, fmt.Errorf("derive flow: %w", err)
	}

	mech := opts.Mechanism
	run := storage.Run{
		Mode:        opts.Mode,
		FlowModel:   string(mech.FlowModel),
		Component:   opts.Component,
		Spacing:     string(mech.Spacing),
		Diameter:    mech.Diameter,
		Force:       mech.Force,
		Result:      pump.Aggregate(derived, mech.Force, opts.Aggregate),
		SeriesStart: samples[0].Time,
		SeriesEnd:   samples[len(samples)-1].Time,
	}
	return Result{Run: run, Derived: derived}, nil
}
