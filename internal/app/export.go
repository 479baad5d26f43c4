package app

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"tidal-pump/internal/pump"
	"tidal-pump/internal/report"
)

type artefactPaths struct {
	csv         string
	flowPNG     string
	powerPNG    string
	velocityPNG string
}

func (p artefactPaths) empty() bool {
	return p.csv == "" && p.flowPNG == "" && p.powerPNG == "" && p.velocityPNG == ""
}

func (a *App) writeArtefacts(derived []pump.DerivedSample, paths artefactPaths, maxPoints int) error {
	if paths.empty() {
		return nil
	}

	downsampled := downsampleDerived(derived, maxPoints)
	a.Logger.Info().Int("total", len(derived)).Int("exported", len(downsampled)).Msg("exporting derived series")

	if paths.csv != "" {
		if err := writeDerivedCSV(paths.csv, downsampled); err != nil {
			return err
		}
	}
	if paths.flowPNG != "" {
		if err := writeFlowPNG(paths.flowPNG, downsampled); err != nil {
			return err
		}
	}
	if paths.powerPNG != "" {
		if err := writePowerPNG(paths.powerPNG, downsampled); err != nil {
			return err
		}
	}
	if paths.velocityPNG != "" {
		if err := writeVelocityPNG(paths.velocityPNG, downsampled); err != nil {
			return err
		}
	}
	return nil
}

func downsampleDerived(samples []pump.DerivedSample, max int) []pump.DerivedSample {
	if max <= 1 || len(samples) <= max {
		return samples
	}

	result := make([]pump.DerivedSample, 0, max)
	step := float64(len(samples)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(samples) {
			idx = len(samples) - 1
		}
		result = append(result, samples[idx])
	}
	return result
}

var derivedCSVHeader = []string{"timestamp", "hours", "height_m", "slope", "v_in", "v_out", "flow_in_gpm", "flow_out_gpm", "power_kw"}

func writeDerivedCSV(path string, samples []pump.DerivedSample) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(derivedCSVHeader); err != nil {
		return err
	}

	for _, d := range samples {
		record := []string{
			d.Time.UTC().Format(time.RFC3339),
			report.Fixed(d.Hours, 4),
			formatFloat(d.Height),
			formatFloat(d.Slope),
			formatFloat(d.VIn),
			formatFloat(d.VOut),
			report.Fixed(d.FlowIn, 4),
			report.Fixed(d.FlowOut, 4),
			report.Fixed(d.Power/1000, 6),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type chartColumns struct {
	x       []time.Time
	height  []float64
	flowIn  []float64
	flowOut []float64
	vIn     []float64
	vOut    []float64
	powerKW []float64
}

func columnsOf(samples []pump.DerivedSample) chartColumns {
	n := len(samples)
	c := chartColumns{
		x:       make([]time.Time, n),
		height:  make([]float64, n),
		flowIn:  make([]float64, n),
		flowOut: make([]float64, n),
		vIn:     make([]float64, n),
		vOut:    make([]float64, n),
		powerKW: make([]float64, n),
	}
	for i, d := range samples {
		c.x[i] = d.Time
		c.height[i] = d.Height
		c.flowIn[i] = d.FlowIn
		c.flowOut[i] = d.FlowOut
		c.vIn[i] = d.VIn
		c.vOut[i] = d.VOut
		c.powerKW[i] = d.Power / 1000
	}
	return c
}

// heightChart plots tide height on the primary axis and series on the
// secondary one.
func heightChart(title, secondaryName string, places int32, c chartColumns, series ...chart.TimeSeries) chart.Chart {
	graph := chart.Chart{
		Title:  title,
		Width:  1400,
		Height: 700,
		XAxis: chart.XAxis{
			Name:           "Time (UTC)",
			ValueFormatter: chart.TimeHourValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Tide Height (m)",
			ValueFormatter: decimalFormatter(2),
		},
		YAxisSecondary: chart.YAxis{
			Name:           secondaryName,
			ValueFormatter: decimalFormatter(places),
		},
		Series: []chart.Series{
			chart.TimeSeries{Name: "Tide Height (m)", XValues: c.x, YValues: c.height},
		},
	}
	for _, s := range series {
		s.XValues = c.x
		s.YAxis = chart.YAxisSecondary
		graph.Series = append(graph.Series, s)
	}
	return graph
}

func writeFlowPNG(path string, samples []pump.DerivedSample) error {
	c := columnsOf(samples)
	graph := heightChart("Tide Height and Flow Rate", "Flow Rate (GPM)", 1, c,
		chart.TimeSeries{Name: "Flow Rate In (GPM)", YValues: c.flowIn},
		chart.TimeSeries{Name: "Flow Rate Out (GPM)", YValues: c.flowOut},
	)
	return renderPNG(path, &graph)
}

func writePowerPNG(path string, samples []pump.DerivedSample) error {
	c := columnsOf(samples)
	graph := heightChart("Tide Height and Power", "Power (kW)", 3, c,
		chart.TimeSeries{Name: "Power (kW)", YValues: c.powerKW},
	)
	return renderPNG(path, &graph)
}

func writeVelocityPNG(path string, samples []pump.DerivedSample) error {
	c := columnsOf(samples)
	graph := heightChart("Tide Height and Intake/Outtake Velocity", "Velocity (m/s)", 4, c,
		chart.TimeSeries{Name: "Intake Velocity (m/s)", YValues: c.vIn},
		chart.TimeSeries{Name: "Outtake Velocity (m/s)", YValues: c.vOut},
	)
	return renderPNG(path, &graph)
}

func decimalFormatter(places int32) chart.ValueFormatter {
	return func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return report.Fixed(f, places)
		}
		return chart.FloatValueFormatter(v)
	}
}

func renderPNG(path string, graph *chart.Chart) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
