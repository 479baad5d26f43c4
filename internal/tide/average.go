package tide

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
)

// ErrNoSamplesInMonth is returned when the average-day filter keeps nothing.
var ErrNoSamplesInMonth = errors.New("tide: no samples in the selected month")

// AverageDay folds the samples of one calendar month into a typical day. Rows
// are grouped by UTC time of day and each group is reduced to its mean
// height. The output is ordered by time of day and dated on the first
// matching day, so it can be differentiated like any other series. A NaN
// height makes its group's mean NaN.
func AverageDay(samples []Sample, month time.Month) ([]Sample, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("tide: invalid month %d", month)
	}

	var (
		day     time.Time
		groups  = make(map[time.Duration][]float64)
		offsets []time.Duration
	)
	for _, s := range samples {
		ts := s.Time.UTC()
		if ts.Month() != month {
			continue
		}
		midnight := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		if day.IsZero() {
			day = midnight
		}
		offset := ts.Sub(midnight)
		if _, seen := groups[offset]; !seen {
			offsets = append(offsets, offset)
		}
		groups[offset] = append(groups[offset], s.Height)
	}
	if len(offsets) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSamplesInMonth, month)
	}

	slices.Sort(offsets)
	out := make([]Sample, len(offsets))
	for i, offset := range offsets {
		out[i] = Sample{Time: day.Add(offset), Height: stat.Mean(groups[offset], nil)}
	}
	return out, nil
}

// AverageDayProvider reduces another provider's series with AverageDay.
type AverageDayProvider struct {
	source Provider
	month  time.Month
	logger zerolog.Logger
}

// NewAverageDay wraps source so that it yields the typical day of month.
func NewAverageDay(source Provider, month time.Month, logger zerolog.Logger) *AverageDayProvider {
	return &AverageDayProvider{
		source: source,
		month:  month,
		logger: logger.With().Str("component", "tide_average_day").Logger(),
	}
}

// Samples loads the source series and averages it by time of day.
func (p *AverageDayProvider) Samples(ctx context.Context) ([]Sample, error) {
	samples, err := p.source.Samples(ctx)
	if err != nil {
		return nil, err
	}

	day, err := AverageDay(samples, p.month)
	if err != nil {
		return nil, err
	}

	p.logger.Info().
		Str("month", p.month.String()).
		Int("source_samples", len(samples)).
		Int("times_of_day", len(day)).
		Msg("averaged tide series into one day")
	return day, nil
}

var _ Provider = (*AverageDayProvider)(nil)
