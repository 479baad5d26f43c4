package tide

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// SimulatedOptions describe a sinusoidal tide.
type SimulatedOptions struct {
	Start     time.Time
	Duration  time.Duration
	Period    time.Duration
	Amplitude float64 // m
	Baseline  float64 // m, mean height of the sinusoid
	Samples   int
}

// Simulated generates baseline + A·sin(2πt/period) over evenly spaced samples
// from 0 to Duration inclusive.
type Simulated struct {
	opts   SimulatedOptions
	logger zerolog.Logger
}

// NewSimulated builds a sinusoidal tide provider.
func NewSimulated(opts SimulatedOptions, logger zerolog.Logger) *Simulated {
	return &Simulated{opts: opts, logger: logger.With().Str("component", "tide_simulated").Logger()}
}

// Samples generates the series.
func (s *Simulated) Samples(ctx context.Context) ([]Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	samples, err := Sinusoid(s.opts)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("samples", len(samples)).
		Dur("duration", s.opts.Duration).
		Dur("period", s.opts.Period).
		Float64("amplitude_m", s.opts.Amplitude).
		Msg("generated simulated tide series")
	return samples, nil
}

// Sinusoid evaluates the simulated tide. Heights are computed at the exact
// sample offsets so the spacing stays uniform.
func Sinusoid(opts SimulatedOptions) ([]Sample, error) {
	if opts.Samples < 3 {
		return nil, errors.New("simulated tide needs at least 3 samples")
	}
	if opts.Duration <= 0 {
		return nil, errors.New("simulated tide duration must be greater than zero")
	}
	if opts.Period <= 0 {
		return nil, errors.New("simulated tide period must be greater than zero")
	}

	start := opts.Start
	if start.IsZero() {
		start = time.Unix(0, 0).UTC()
	}

	step := opts.Duration / time.Duration(opts.Samples-1)
	if step <= 0 {
		return nil, errors.New("simulated tide has more samples than nanoseconds in its duration")
	}

	period := opts.Period.Seconds()
	out := make([]Sample, opts.Samples)
	for i := range out {
		offset := time.Duration(i) * step
		out[i] = Sample{
			Time:   start.Add(offset),
			Height: opts.Baseline + opts.Amplitude*math.Sin(2*math.Pi*offset.Seconds()/period),
		}
	}
	return out, nil
}

var _ Provider = (*Simulated)(nil)
