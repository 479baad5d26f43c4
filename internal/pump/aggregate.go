package pump

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	secondsPerMinute = 60
	secondsPerDay    = 24 * 3600
)

// AggregateOptions tune the reduction of a derived series.
type AggregateOptions struct {
	// WindowHours is multiplied with the average power to give energy. Zero
	// or negative uses the span covered by the samples.
	WindowHours float64
}

// AggregateResult summarises one run.
type AggregateResult struct {
	Samples               int
	WindowHours           float64
	AveragePowerKW        float64
	TotalEnergyKWh        float64
	AverageFlowInGPM      float64
	AverageFlowOutGPM     float64
	TotalVolumeInGallons  float64 // per day
	TotalVolumeOutGallons float64 // per day
}

// Aggregate reduces a derived series into averages and totals.
//
// Energy is average power times the window length; the power curve is not
// integrated. Daily volumes treat every flow sample as one second of flow
// (sum/60) and scale that by the seconds in a day, whatever the real window
// length, assuming the window repeats every day. Non-finite values propagate.
func Aggregate(derived []DerivedSample, force float64, opts AggregateOptions) AggregateResult {
	n := len(derived)
	if n == 0 {
		return AggregateResult{}
	}

	powerKW := make([]float64, n)
	flowIn := make([]float64, n)
	flowOut := make([]float64, n)
	for i, d := range derived {
		powerKW[i] = InstantPower(force, d.Slope) / 1000
		flowIn[i] = d.FlowIn
		flowOut[i] = d.FlowOut
	}

	window := opts.WindowHours
	if window <= 0 {
		window = derived[n-1].Hours - derived[0].Hours
	}

	avgPower := stat.Mean(powerKW, nil)
	return AggregateResult{
		Samples:               n,
		WindowHours:           window,
		AveragePowerKW:        avgPower,
		TotalEnergyKWh:        avgPower * window,
		AverageFlowInGPM:      stat.Mean(flowIn, nil),
		AverageFlowOutGPM:     stat.Mean(flowOut, nil),
		TotalVolumeInGallons:  dailyVolume(flowIn),
		TotalVolumeOutGallons: dailyVolume(flowOut),
	}
}

func dailyVolume(flowGPM []float64) float64 {
	return floats.Sum(flowGPM) / secondsPerMinute * secondsPerDay
}
