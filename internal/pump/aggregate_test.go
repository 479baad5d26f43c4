package pump

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestAggregateFlatSeriesIsZero(t *testing.T) {
	mech := testMechanism()
	derived, err := Derive(series(time.Minute, 1, 1, 1), mech)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	got := Aggregate(derived, mech.Force, AggregateOptions{WindowHours: 24})
	want := AggregateResult{Samples: 3, WindowHours: 24}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("aggregate (-want +got):\n%s", diff)
	}
}

func TestAggregateRisingLine(t *testing.T) {
	mech := testMechanism()
	derived, err := Derive(series(time.Second, 0, 1, 2), mech)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	flow := mech.Area() * GPMPerCubicMeterPerSecond
	want := AggregateResult{
		Samples:               3,
		WindowHours:           24,
		AveragePowerKW:        1,
		TotalEnergyKWh:        24,
		AverageFlowInGPM:      flow,
		TotalVolumeInGallons:  3 * flow / 60 * 86400,
		TotalVolumeOutGallons: 0,
	}

	got := Aggregate(derived, mech.Force, AggregateOptions{WindowHours: 24})
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(1e-12, 0)); diff != "" {
		t.Fatalf("aggregate (-want +got):\n%s", diff)
	}
}

func TestAggregateWindowDefaultsToSpan(t *testing.T) {
	mech := testMechanism()
	derived, err := Derive(series(30*time.Minute, 0, 0.2, 0.3, 0.2, 0), mech)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	got := Aggregate(derived, mech.Force, AggregateOptions{})
	if got.WindowHours != 2 {
		t.Fatalf("window = %v, want the 2h sample span", got.WindowHours)
	}
	if diff := cmp.Diff(got.AveragePowerKW*2, got.TotalEnergyKWh, cmpopts.EquateApprox(1e-12, 0)); diff != "" {
		t.Fatalf("energy is average power times window (-want +got):\n%s", diff)
	}
}

func TestAggregateVolumeIgnoresWindowLength(t *testing.T) {
	mech := testMechanism()
	derived, err := Derive(series(time.Second, 0, 1, 2), mech)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	day := Aggregate(derived, mech.Force, AggregateOptions{WindowHours: 24})
	hour := Aggregate(derived, mech.Force, AggregateOptions{WindowHours: 1})
	if day.TotalVolumeInGallons != hour.TotalVolumeInGallons {
		t.Fatalf("volumes are extrapolated to a day regardless of window: %v vs %v", day.TotalVolumeInGallons, hour.TotalVolumeInGallons)
	}
	if day.TotalEnergyKWh == hour.TotalEnergyKWh {
		t.Fatal("energy should follow the window")
	}
}

func TestAggregatePropagatesNaN(t *testing.T) {
	mech := testMechanism()
	derived, err := Derive(series(time.Second, 0, 1, math.NaN(), 3, 4), mech)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	got := Aggregate(derived, mech.Force, AggregateOptions{WindowHours: 24})
	for name, v := range map[string]float64{
		"average power": got.AveragePowerKW,
		"energy":        got.TotalEnergyKWh,
		"flow in":       got.AverageFlowInGPM,
		"flow out":      got.AverageFlowOutGPM,
		"volume in":     got.TotalVolumeInGallons,
		"volume out":    got.TotalVolumeOutGallons,
	} {
		if !math.IsNaN(v) {
			t.Fatalf("%s should be NaN, got %v", name, v)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	if got := Aggregate(nil, 1, AggregateOptions{WindowHours: 24}); got != (AggregateResult{}) {
		t.Fatalf("empty series should aggregate to zero value, got %+v", got)
	}
}
