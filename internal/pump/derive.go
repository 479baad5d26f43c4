package pump

import (
	"fmt"
	"math"
	"time"

	"tidal-pump/internal/tide"
)

// DerivedSample extends a tide sample with its slope, flow split and power.
type DerivedSample struct {
	Time    time.Time
	Hours   float64 // elapsed since the first sample
	Height  float64 // m
	Slope   float64 // m/s, or m/sample with SpacingIndex
	VIn     float64 // m/s
	VOut    float64 // m/s
	FlowIn  float64 // GPM
	FlowOut float64 // GPM
	Power   float64 // W
}

// Derive converts a tide series into a DerivedSample series of equal length.
// Fewer than MinSamples samples returns an InsufficientSamplesError before any
// slope is computed. NaN and ±Inf heights are not coerced: they surface as
// non-finite slopes, velocities and flows in the affected samples.
//
// Under FlowPressure the slope only picks the direction: the magnitude is the
// head velocity, and a flat slope gives zero flow even with water above the
// datum.
func Derive(samples []tide.Sample, mech Mechanism) ([]DerivedSample, error) {
	if len(samples) < MinSamples {
		return nil, &InsufficientSamplesError{Got: len(samples)}
	}
	if err := mech.Validate(); err != nil {
		return nil, err
	}

	heights := tide.Heights(samples)
	elapsed := tide.ElapsedSeconds(samples)

	var (
		slopes []float64
		err    error
	)
	switch mech.Spacing {
	case SpacingIndex:
		slopes, err = UnitGradient(heights)
	default:
		slopes, err = Gradient(heights, elapsed)
	}
	if err != nil {
		return nil, fmt.Errorf("estimate slope: %w", err)
	}

	area := mech.Area()
	out := make([]DerivedSample, len(samples))
	for i, s := range samples {
		vIn, vOut := SplitVelocity(slopes[i])
		if mech.FlowModel == FlowPressure {
			vIn, vOut = pressureSplit(vIn, vOut, HeadVelocity(s.Height, mech.Density, mech.Gravity))
		}

		out[i] = DerivedSample{
			Time:    s.Time,
			Hours:   elapsed[i] / 3600,
			Height:  s.Height,
			Slope:   slopes[i],
			VIn:     vIn,
			VOut:    vOut,
			FlowIn:  FlowRateGPM(vIn, area, mech.GPMPerM3S),
			FlowOut: FlowRateGPM(vOut, area, mech.GPMPerM3S),
			Power:   InstantPower(mech.Force, slopes[i]),
		}
	}
	return out, nil
}

// SplitVelocity maps a signed slope onto inflow and outflow magnitudes. A
// rising tide is inflow, a falling tide outflow, and a flat tide neither.
// A NaN slope yields NaN for both.
func SplitVelocity(slope float64) (vIn, vOut float64) {
	switch {
	case math.IsNaN(slope):
		return math.NaN(), math.NaN()
	case slope > 0:
		return slope, 0
	case slope < 0:
		return 0, -slope
	default:
		return 0, 0
	}
}

// HydrostaticPressure is the gauge pressure ρgh in pascals.
func HydrostaticPressure(height, density, gravity float64) float64 {
	return density * gravity * height
}

// HeadVelocity converts the hydrostatic pressure of a non-negative head into
// the Bernoulli velocity sqrt(2p/ρ), which is sqrt(2gh). It is zero when the
// water is below the datum. It does not look at the slope; Derive applies the
// direction.
func HeadVelocity(height, density, gravity float64) float64 {
	if height < 0 {
		return 0
	}
	return math.Sqrt(2 * HydrostaticPressure(height, density, gravity) / density)
}

// pressureSplit keeps the direction chosen from the slope and replaces the
// magnitude with the head velocity.
func pressureSplit(vIn, vOut, head float64) (float64, float64) {
	switch {
	case math.IsNaN(vIn) || math.IsNaN(vOut):
		return vIn, vOut
	case vIn > 0:
		return head, 0
	case vOut > 0:
		return 0, head
	default:
		return 0, 0
	}
}

// FlowRateGPM converts a velocity through an area into gallons per minute.
func FlowRateGPM(velocity, area, gpmPerM3S float64) float64 {
	return velocity * area * gpmPerM3S
}

// InstantPower is |force × slope| in watts.
func InstantPower(force, slope float64) float64 {
	return math.Abs(force * slope)
}
