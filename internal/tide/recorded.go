package tide

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Column headers of a verified water level download.
const (
	ColumnDate     = "Date"
	ColumnTime     = "Time (GMT)"
	ColumnVerified = "Verified (ft)"
)

var (
	dateLayouts = []string{"2006/01/02", "2006-01-02", "01/02/2006"}
	timeLayouts = []string{"15:04", "15:04:05"}

	errTimeNotAdvancing = errors.New("timestamp does not advance past the previous row")
)

// RecordedOptions parameterise the recorded tide provider.
type RecordedOptions struct {
	Path         string
	FeetToMeters float64
}

// Recorded reads observed tide heights from a CSV file.
type Recorded struct {
	opts   RecordedOptions
	logger zerolog.Logger
}

// NewRecorded builds a recorded tide provider.
func NewRecorded(opts RecordedOptions, logger zerolog.Logger) *Recorded {
	if opts.FeetToMeters <= 0 {
		opts.FeetToMeters = FeetToMeters
	}
	return &Recorded{opts: opts, logger: logger.With().Str("component", "tide_recorded").Logger()}
}

// Samples loads and converts the configured file.
func (r *Recorded) Samples(ctx context.Context) ([]Sample, error) {
	if r.opts.Path == "" {
		return nil, errors.New("recorded tide csv path not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(r.opts.Path)
	if err != nil {
		return nil, fmt.Errorf("open tide csv: %w", err)
	}
	defer file.Close()

	samples, err := ReadRecords(file, r.opts.FeetToMeters)
	if err != nil {
		return nil, err
	}

	r.logger.Info().Str("path", r.opts.Path).Int("samples", len(samples)).Msg("loaded recorded tide series")
	return samples, nil
}

// ReadRecords parses Date, Time (GMT) and Verified (ft) columns into samples
// in meters. Timestamps are UTC. Any unparseable row aborts the read with a
// MalformedRecordError and no samples are returned. Gaps between rows are
// kept as they are.
func ReadRecords(in io.Reader, feetToMeters float64) ([]Sample, error) {
	reader := csv.NewReader(in)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &MalformedRecordError{Line: 1, Err: errors.New("missing header row")}
		}
		return nil, &MalformedRecordError{Line: 1, Err: err}
	}

	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	samples := make([]Sample, 0, 256)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, &MalformedRecordError{Line: line, Err: err}
		}

		sample, err := parseRecord(record, cols, line, feetToMeters)
		if err != nil {
			return nil, err
		}
		if n := len(samples); n > 0 && !sample.Time.After(samples[n-1].Time) {
			return nil, &MalformedRecordError{Line: line, Field: ColumnTime, Value: record[cols.time], Err: errTimeNotAdvancing}
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

type columns struct {
	date, time, height int
}

func locateColumns(header []string) (columns, error) {
	cols := columns{date: -1, time: -1, height: -1}
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case ColumnDate:
			cols.date = i
		case ColumnTime:
			cols.time = i
		case ColumnVerified:
			cols.height = i
		}
	}

	required := []struct {
		name string
		idx  int
	}{{ColumnDate, cols.date}, {ColumnTime, cols.time}, {ColumnVerified, cols.height}}
	for _, col := range required {
		if col.idx < 0 {
			return columns{}, &MalformedRecordError{Line: 1, Field: "header", Value: col.name, Err: errors.New("column missing")}
		}
	}
	return cols, nil
}

func parseRecord(record []string, cols columns, line int, feetToMeters float64) (Sample, error) {
	field := func(idx int) string {
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	date, clock, height := field(cols.date), field(cols.time), field(cols.height)

	ts, err := parseTimestamp(date, clock)
	if err != nil {
		return Sample{}, &MalformedRecordError{Line: line, Field: ColumnDate + " " + ColumnTime, Value: date + " " + clock, Err: err}
	}

	feet, err := strconv.ParseFloat(height, 64)
	if err != nil {
		return Sample{}, &MalformedRecordError{Line: line, Field: ColumnVerified, Value: height, Err: err}
	}

	return Sample{Time: ts, Height: feet * feetToMeters}, nil
}

func parseTimestamp(date, clock string) (time.Time, error) {
	value := date + " " + clock
	for _, d := range dateLayouts {
		for _, c := range timeLayouts {
			if ts, err := time.ParseInLocation(d+" "+c, value, time.UTC); err == nil {
				return ts, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date/time layout")
}

var _ Provider = (*Recorded)(nil)
