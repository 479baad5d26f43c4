package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"tidal-pump/internal/pump"
)

// Meta identifies what a summary was computed from.
type Meta struct {
	RunID       int64
	Mode        string
	FlowModel   string
	Component   string
	Diameter    float64
	Force       float64
	SeriesStart time.Time
	SeriesEnd   time.Time
}

// Fixed rounds v half away from zero to the given places. Non-finite values
// are rendered as NaN, +Inf or -Inf rather than rounded.
func Fixed(v float64, places int32) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// WriteSummary prints the aggregate result as an aligned two-column table.
func WriteSummary(w io.Writer, meta Meta, res pump.AggregateResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if meta.RunID > 0 {
		fmt.Fprintf(tw, "Run\t%d\n", meta.RunID)
	}
	fmt.Fprintf(tw, "Tide source\t%s\n", meta.Mode)
	if !meta.SeriesStart.IsZero() {
		fmt.Fprintf(tw, "Series (UTC)\t%s .. %s\n", meta.SeriesStart.UTC().Format(time.RFC3339), meta.SeriesEnd.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(tw, "Flow model\t%s (%s, %s m)\n", meta.FlowModel, meta.Component, Fixed(meta.Diameter, 3))
	fmt.Fprintf(tw, "Actuating force\t%s N\n", Fixed(meta.Force, 2))
	fmt.Fprintf(tw, "Samples\t%d\n", res.Samples)
	fmt.Fprintf(tw, "Window\t%s h\n", Fixed(res.WindowHours, 2))
	fmt.Fprintf(tw, "Average Power\t%s kW\n", Fixed(res.AveragePowerKW, 2))
	fmt.Fprintf(tw, "Total Energy Generated\t%s kWh\n", Fixed(res.TotalEnergyKWh, 2))
	fmt.Fprintf(tw, "Average GPM in\t%s GPM\n", Fixed(res.AverageFlowInGPM, 2))
	fmt.Fprintf(tw, "Average GPM out\t%s GPM\n", Fixed(res.AverageFlowOutGPM, 2))
	fmt.Fprintf(tw, "Total Volume In (per day)\t%s gallons\n", Fixed(res.TotalVolumeInGallons, 2))
	fmt.Fprintf(tw, "Total Volume Out (per day)\t%s gallons\n", Fixed(res.TotalVolumeOutGallons, 2))

	return tw.Flush()
}

// Message renders a short plain-text summary for chat notifications.
func Message(meta Meta, res pump.AggregateResult) string {
	msg := fmt.Sprintf("[Tidal Pump Run]\nSource: %s, model: %s (%s)\n", meta.Mode, meta.FlowModel, meta.Component)
	if meta.RunID > 0 {
		msg += fmt.Sprintf("Run: %d\n", meta.RunID)
	}
	msg += fmt.Sprintf("Average power: %s kW\n", Fixed(res.AveragePowerKW, 2))
	msg += fmt.Sprintf("Energy over %s h: %s kWh\n", Fixed(res.WindowHours, 1), Fixed(res.TotalEnergyKWh, 2))
	msg += fmt.Sprintf("Flow in/out: %s / %s GPM\n", Fixed(res.AverageFlowInGPM, 2), Fixed(res.AverageFlowOutGPM, 2))
	msg += fmt.Sprintf("Volume in/out per day: %s / %s gal\n", Fixed(res.TotalVolumeInGallons, 0), Fixed(res.TotalVolumeOutGallons, 0))
	return msg
}
