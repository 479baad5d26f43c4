package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"tidal-pump/internal/pump"
)

func TestFixed(t *testing.T) {
	cases := []struct {
		v      float64
		places int32
		want   string
	}{
		{v: 1.005, places: 2, want: "1.01"},
		{v: -2.5, places: 0, want: "-3"},
		{v: 0, places: 2, want: "0.00"},
		{v: math.NaN(), places: 2, want: "NaN"},
		{v: math.Inf(1), places: 2, want: "+Inf"},
		{v: math.Inf(-1), places: 2, want: "-Inf"},
	}
	for _, tc := range cases {
		if got := Fixed(tc.v, tc.places); got != tc.want {
			t.Fatalf("Fixed(%v, %d) = %q, want %q", tc.v, tc.places, got, tc.want)
		}
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	res := pump.AggregateResult{
		Samples:               1000,
		WindowHours:           24,
		AveragePowerKW:        1.234,
		TotalEnergyKWh:        29.616,
		AverageFlowInGPM:      12.5,
		AverageFlowOutGPM:     math.NaN(),
		TotalVolumeInGallons:  18000,
		TotalVolumeOutGallons: 17999.994,
	}
	meta := Meta{RunID: 7, Mode: "simulated", FlowModel: "displacement", Component: "piston", Diameter: 1, Force: 69606.98}

	if err := WriteSummary(&buf, meta, res); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Run", "7", "1.23 kW", "29.62 kWh", "12.50 GPM", "NaN GPM", "17999.99 gallons", "piston, 1.000 m"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestMessage(t *testing.T) {
	msg := Message(Meta{Mode: "recorded", FlowModel: "pressure", Component: "valve"}, pump.AggregateResult{WindowHours: 24, AveragePowerKW: 2})
	if !strings.Contains(msg, "Average power: 2.00 kW") || strings.Contains(msg, "Run:") {
		t.Fatalf("unexpected message:\n%s", msg)
	}
}
