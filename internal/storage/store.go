package storage

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tidal-pump/internal/pump"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
	// ErrRunNotFound is returned when a run id does not exist.
	ErrRunNotFound = errors.New("storage: run not found")
)

//go:embed schema.sql
var schemaSQL string

const (
	insertRunSQL = `INSERT INTO runs (
        mode,
        flow_model,
        component,
        spacing,
        diameter_m,
        force_n,
        sample_count,
        window_hours,
        average_power_kw,
        total_energy_kwh,
        average_flow_in_gpm,
        average_flow_out_gpm,
        total_volume_in_gal,
        total_volume_out_gal,
        series_start,
        series_end
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16
    )
    RETURNING id, created_at;`

	selectRunColumns = `SELECT
        id,
        mode,
        flow_model,
        component,
        spacing,
        diameter_m,
        force_n,
        sample_count,
        window_hours,
        average_power_kw,
        total_energy_kwh,
        average_flow_in_gpm,
        average_flow_out_gpm,
        total_volume_in_gal,
        total_volume_out_gal,
        series_start,
        series_end,
        created_at
    FROM runs`

	getRunSQL = selectRunColumns + `
    WHERE id = $1;`

	listRecentRunsSQL = selectRunColumns + `
    ORDER BY created_at DESC, id DESC
    LIMIT $1;`

	listRunSamplesSQL = `SELECT
        ts,
        hours,
        height_m,
        slope,
        v_in,
        v_out,
        flow_in_gpm,
        flow_out_gpm,
        power_w
    FROM derived_samples
    WHERE run_id = $1
    ORDER BY seq;`
)

var sampleColumns = []string{
	"run_id",
	"seq",
	"ts",
	"hours",
	"height_m",
	"slope",
	"v_in",
	"v_out",
	"flow_in_gpm",
	"flow_out_gpm",
	"power_w",
}

// RunStore defines operations for run persistence.
type RunStore interface {
	SaveRun(ctx context.Context, run Run, samples []pump.DerivedSample) (Run, error)
	GetRun(ctx context.Context, id int64) (Run, error)
	ListRecentRuns(ctx context.Context, limit int) ([]Run, error)
	ListRunSamples(ctx context.Context, runID int64) ([]pump.DerivedSample, error)
}

// Store persists runs and their derived series in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// Migrate creates the tables when they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// SaveRun inserts the run and copies its derived series in one transaction.
func (s *Store) SaveRun(ctx context.Context, run Run, samples []pump.DerivedSample) (Run, error) {
	pool, err := s.getPool()
	if err != nil {
		return Run{}, err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return Run{}, fmt.Errorf("begin run transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	res := run.Result
	row := tx.QueryRow(ctx, insertRunSQL,
		run.Mode,
		run.FlowModel,
		run.Component,
		run.Spacing,
		run.Diameter,
		run.Force,
		res.Samples,
		res.WindowHours,
		res.AveragePowerKW,
		res.TotalEnergyKWh,
		res.AverageFlowInGPM,
		res.AverageFlowOutGPM,
		res.TotalVolumeInGallons,
		res.TotalVolumeOutGallons,
		run.SeriesStart,
		run.SeriesEnd,
	)
	if err := row.Scan(&run.ID, &run.CreatedAt); err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"derived_samples"}, sampleColumns, pgx.CopyFromRows(sampleRows(run.ID, samples)))
	if err != nil {
		return Run{}, fmt.Errorf("copy derived samples: %w", err)
	}
	if int(copied) != len(samples) {
		return Run{}, fmt.Errorf("copy derived samples: wrote %d of %d rows", copied, len(samples))
	}

	if err := tx.Commit(ctx); err != nil {
		return Run{}, fmt.Errorf("commit run: %w", err)
	}
	return run, nil
}

// GetRun loads a single run by id.
func (s *Store) GetRun(ctx context.Context, id int64) (Run, error) {
	pool, err := s.getPool()
	if err != nil {
		return Run{}, err
	}

	run, err := scanRun(pool.QueryRow(ctx, getRunSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRecentRuns lists the most recent runs, newest first.
func (s *Store) ListRecentRuns(ctx context.Context, limit int) ([]Run, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentRunsSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent runs: %w", queryErr)
	}
	defer rows.Close()

	runs := make([]Run, 0, limit)
	for rows.Next() {
		run, scanErr := scanRun(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		runs = append(runs, run)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return runs, nil
}

// ListRunSamples loads the derived series of a run in sample order.
func (s *Store) ListRunSamples(ctx context.Context, runID int64) ([]pump.DerivedSample, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRunSamplesSQL, runID)
	if queryErr != nil {
		return nil, fmt.Errorf("list run samples: %w", queryErr)
	}
	defer rows.Close()

	samples := make([]pump.DerivedSample, 0)
	for rows.Next() {
		var d pump.DerivedSample
		if err := rows.Scan(
			&d.Time,
			&d.Hours,
			&d.Height,
			&d.Slope,
			&d.VIn,
			&d.VOut,
			&d.FlowIn,
			&d.FlowOut,
			&d.Power,
		); err != nil {
			return nil, err
		}
		samples = append(samples, d)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return samples, nil
}

func sampleRows(runID int64, samples []pump.DerivedSample) [][]any {
	rows := make([][]any, len(samples))
	for i, d := range samples {
		rows[i] = []any{
			runID,
			int32(i),
			d.Time,
			d.Hours,
			d.Height,
			d.Slope,
			d.VIn,
			d.VOut,
			d.FlowIn,
			d.FlowOut,
			d.Power,
		}
	}
	return rows
}

func scanRun(row pgx.Row) (Run, error) {
	var (
		run   Run
		count int32
	)
	res := &run.Result
	if err := row.Scan(
		&run.ID,
		&run.Mode,
		&run.FlowModel,
		&run.Component,
		&run.Spacing,
		&run.Diameter,
		&run.Force,
		&count,
		&res.WindowHours,
		&res.AveragePowerKW,
		&res.TotalEnergyKWh,
		&res.AverageFlowInGPM,
		&res.AverageFlowOutGPM,
		&res.TotalVolumeInGallons,
		&res.TotalVolumeOutGallons,
		&run.SeriesStart,
		&run.SeriesEnd,
		&run.CreatedAt,
	); err != nil {
		return Run{}, err
	}
	res.Samples = int(count)
	return run, nil
}

var _ RunStore = (*Store)(nil)
