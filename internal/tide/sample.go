package tide

import (
	"context"
	"time"
)

// FeetToMeters converts recorded tide heights in feet into meters.
const FeetToMeters = 0.3048

// Sample is one tide height observation relative to the station datum.
type Sample struct {
	Time   time.Time
	Height float64 // meters
}

// Provider yields a finite, time-ordered tide series.
type Provider interface {
	Samples(ctx context.Context) ([]Sample, error)
}

// Heights returns the height column of a series.
func Heights(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Height
	}
	return out
}

// ElapsedSeconds returns seconds since the first sample for each sample.
func ElapsedSeconds(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	if len(samples) == 0 {
		return out
	}
	start := samples[0].Time
	for i, s := range samples {
		out[i] = s.Time.Sub(start).Seconds()
	}
	return out
}
