package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tidal-pump/internal/notify"
	"tidal-pump/internal/pump"
	"tidal-pump/internal/storage"
	"tidal-pump/internal/tide"
)

type staticProvider struct {
	samples []tide.Sample
	err     error
}

func (s *staticProvider) Samples(ctx context.Context) ([]tide.Sample, error) {
	return s.samples, s.err
}

type memoryStore struct {
	saved   []storage.Run
	derived [][]pump.DerivedSample
	err     error
}

func (m *memoryStore) SaveRun(ctx context.Context, run storage.Run, samples []pump.DerivedSample) (storage.Run, error) {
	if m.err != nil {
		return storage.Run{}, m.err
	}
	run.ID = int64(len(m.saved) + 1)
	m.saved = append(m.saved, run)
	m.derived = append(m.derived, samples)
	return run, nil
}

func (m *memoryStore) GetRun(ctx context.Context, id int64) (storage.Run, error) {
	return m.saved[id-1], nil
}

func (m *memoryStore) ListRecentRuns(ctx context.Context, limit int) ([]storage.Run, error) {
	return m.saved, nil
}

func (m *memoryStore) ListRunSamples(ctx context.Context, runID int64) ([]pump.DerivedSample, error) {
	return m.derived[runID-1], nil
}

type recordingNotifier struct {
	got []notify.Summary
	err error
}

func (r *recordingNotifier) Notify(ctx context.Context, summary notify.Summary) error {
	r.got = append(r.got, summary)
	return r.err
}

func testOptions() Options {
	return Options{
		Mode:      "simulated",
		Component: "piston",
		Mechanism: pump.Mechanism{
			Density:   pump.WaterDensity,
			Gravity:   pump.StandardGravity,
			Diameter:  1,
			Force:     2000,
			FlowModel: pump.FlowDisplacement,
			Spacing:   pump.SpacingIndex,
			GPMPerM3S: pump.GPMPerCubicMeterPerSecond,
		},
		Aggregate: pump.AggregateOptions{WindowHours: 24},
	}
}

func rising() []tide.Sample {
	start := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	return []tide.Sample{
		{Time: start, Height: 0},
		{Time: start.Add(time.Hour), Height: 1},
		{Time: start.Add(2 * time.Hour), Height: 2},
	}
}

func TestRunPersistsAndNotifies(t *testing.T) {
	store := &memoryStore{}
	notifier := &recordingNotifier{}
	p := New(testOptions(), &staticProvider{samples: rising()}, store, notifier, zerolog.Nop())

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Run.ID != 1 || len(store.saved) != 1 || len(store.derived[0]) != 3 {
		t.Fatalf("run should be persisted with its series: %+v", store)
	}
	if got := res.Run.Result.AveragePowerKW; got != 2 {
		t.Fatalf("average power = %v kW, want 2", got)
	}
	if res.Run.SeriesEnd.Sub(res.Run.SeriesStart) != 2*time.Hour {
		t.Fatalf("series window not recorded: %+v", res.Run)
	}
	if len(notifier.got) != 1 || notifier.got[0].Meta.RunID != 1 {
		t.Fatalf("summary should carry the persisted run id: %+v", notifier.got)
	}
}

func TestRunToleratesSinkFailures(t *testing.T) {
	store := &memoryStore{err: errors.New("connection refused")}
	notifier := &recordingNotifier{err: errors.New("telegram down")}
	p := New(testOptions(), &staticProvider{samples: rising()}, store, notifier, zerolog.Nop())

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("sink failures must not fail the run: %v", err)
	}
	if res.Run.ID != 0 || len(res.Derived) != 3 {
		t.Fatalf("unexpected result: %+v", res.Run)
	}
}

func TestRunWithoutSinks(t *testing.T) {
	p := New(testOptions(), &staticProvider{samples: rising()}, nil, nil, zerolog.Nop())
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunPropagatesProviderErrors(t *testing.T) {
	malformed := &tide.MalformedRecordError{Line: 4, Field: tide.ColumnVerified, Value: "x", Err: errors.New("invalid syntax")}
	store := &memoryStore{}
	p := New(testOptions(), &staticProvider{err: malformed}, store, nil, zerolog.Nop())

	res, err := p.Run(context.Background())
	var target *tide.MalformedRecordError
	if !errors.As(err, &target) || target.Line != 4 {
		t.Fatalf("expected MalformedRecordError, got %v", err)
	}
	if res.Derived != nil || len(store.saved) != 0 {
		t.Fatal("no partial output should be produced")
	}
}

func TestRunRejectsShortSeries(t *testing.T) {
	p := New(testOptions(), &staticProvider{samples: rising()[:2]}, nil, nil, zerolog.Nop())

	_, err := p.Run(context.Background())
	if !errors.Is(err, pump.ErrInsufficientSamples) {
		t.Fatalf("expected insufficient samples, got %v", err)
	}
	if !strings.Contains(err.Error(), "derive flow") {
		t.Fatalf("error should be wrapped with the stage: %v", err)
	}
}
