package tide

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
)

const verifiedCSV = `Date,Time (GMT),Predicted (ft),Preliminary (ft),Verified (ft)
2024/08/01,00:00,2.1,-,2.000
2024/08/01,00:06,2.2,-,2.500
2024/08/01,00:12,2.3,-,3.000
`

func TestReadRecordsConvertsFeet(t *testing.T) {
	samples, err := ReadRecords(strings.NewReader(verifiedCSV), FeetToMeters)
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}

	start := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	want := []Sample{
		{Time: start, Height: 2.0 * 0.3048},
		{Time: start.Add(6 * time.Minute), Height: 2.5 * 0.3048},
		{Time: start.Add(12 * time.Minute), Height: 3.0 * 0.3048},
	}
	if diff := cmp.Diff(want, samples, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("samples (-want +got):\n%s", diff)
	}
}

func TestReadRecordsLayouts(t *testing.T) {
	in := "Verified (ft),Time (GMT),Date\n1,23:59:30,2024-08-01\n1,00:00,08/02/2024\n"
	samples, err := ReadRecords(strings.NewReader(in), FeetToMeters)
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if got := samples[1].Time.Sub(samples[0].Time); got != 30*time.Second {
		t.Fatalf("gap = %v, want 30s", got)
	}
}

func TestReadRecordsMalformed(t *testing.T) {
	cases := []struct {
		name  string
		input string
		line  int
	}{
		{name: "empty input", input: "", line: 1},
		{name: "missing column", input: "Date,Time (GMT)\n2024/08/01,00:00\n", line: 1},
		{name: "bad date", input: "Date,Time (GMT),Verified (ft)\n2024/08/01,00:00,1\nAug 1,00:06,1\n", line: 3},
		{name: "bad time", input: "Date,Time (GMT),Verified (ft)\n2024/08/01,25:61,1\n", line: 2},
		{name: "non-numeric height", input: "Date,Time (GMT),Verified (ft)\n2024/08/01,00:00,high\n", line: 2},
		{name: "blank height", input: "Date,Time (GMT),Verified (ft)\n2024/08/01,00:00,\n", line: 2},
		{name: "time goes backwards", input: "Date,Time (GMT),Verified (ft)\n2024/08/01,00:06,1\n2024/08/01,00:00,1\n", line: 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			samples, err := ReadRecords(strings.NewReader(tc.input), FeetToMeters)
			if samples != nil {
				t.Fatalf("no partial series should be returned, got %d samples", len(samples))
			}

			var malformed *MalformedRecordError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedRecordError, got %v", err)
			}
			if malformed.Line != tc.line {
				t.Fatalf("line = %d, want %d (%v)", malformed.Line, tc.line, err)
			}
			if !errors.Is(err, ErrMalformedRecord) {
				t.Fatal("error should match ErrMalformedRecord")
			}
		})
	}
}

func TestReadRecordsKeepsNaNHeights(t *testing.T) {
	in := "Date,Time (GMT),Verified (ft)\n2024/08/01,00:00,NaN\n"
	samples, err := ReadRecords(strings.NewReader(in), FeetToMeters)
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if !math.IsNaN(samples[0].Height) {
		t.Fatalf("NaN height should be passed through, got %v", samples[0].Height)
	}
}

func TestRecordedProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tide.csv")
	if err := os.WriteFile(path, []byte(verifiedCSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	provider := NewRecorded(RecordedOptions{Path: path}, zerolog.Nop())
	samples, err := provider.Samples(context.Background())
	if err != nil {
		t.Fatalf("Samples: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}

	if _, err := NewRecorded(RecordedOptions{}, zerolog.Nop()).Samples(context.Background()); err == nil {
		t.Fatal("missing path should fail")
	}
	if _, err := NewRecorded(RecordedOptions{Path: filepath.Join(t.TempDir(), "absent.csv")}, zerolog.Nop()).Samples(context.Background()); err == nil {
		t.Fatal("missing file should fail")
	}
}

const twoDayCSV = `Date,Time (GMT),Verified (ft)
2024/07/31,12:00,10
2024/08/01,00:00,1
2024/08/01,06:00,2
2024/08/01,12:00,3
2024/08/02,00:00,3
2024/08/02,06:00,4
2024/08/02,12:00,5
2024/08/02,18:00,6
`

func TestAverageDay(t *testing.T) {
	samples, err := ReadRecords(strings.NewReader(twoDayCSV), FeetToMeters)
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}

	aug1 := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		month   time.Month
		want    []Sample
		wantErr error
	}{
		{
			name:  "august means per time of day",
			month: time.August,
			want: []Sample{
				{Time: aug1, Height: 2 * FeetToMeters},
				{Time: aug1.Add(6 * time.Hour), Height: 3 * FeetToMeters},
				{Time: aug1.Add(12 * time.Hour), Height: 4 * FeetToMeters},
				{Time: aug1.Add(18 * time.Hour), Height: 6 * FeetToMeters},
			},
		},
		{
			name:  "other months are filtered out",
			month: time.July,
			want:  []Sample{{Time: time.Date(2024, 7, 31, 12, 0, 0, 0, time.UTC), Height: 10 * FeetToMeters}},
		},
		{
			name:    "empty month",
			month:   time.September,
			wantErr: ErrNoSamplesInMonth,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AverageDay(samples, tc.month)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("AverageDay: %v", err)
			}
			if diff := cmp.Diff(tc.want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Fatalf("average day (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := AverageDay(samples, 13); err == nil {
		t.Fatal("month 13 should be rejected")
	}
}

func TestAverageDayProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tide.csv")
	if err := os.WriteFile(path, []byte(twoDayCSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	provider := NewAverageDay(NewRecorded(RecordedOptions{Path: path}, zerolog.Nop()), time.August, zerolog.Nop())
	day, err := provider.Samples(context.Background())
	if err != nil {
		t.Fatalf("Samples: %v", err)
	}
	if len(day) != 4 {
		t.Fatalf("expected 4 times of day, got %d", len(day))
	}
	for i := 1; i < len(day); i++ {
		if !day[i].Time.After(day[i-1].Time) {
			t.Fatalf("average day must be time ordered: %v", day)
		}
	}
}
