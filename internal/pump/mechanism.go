package pump

import (
	"errors"
	"fmt"
	"math"
)

const (
	// GPMPerCubicMeterPerSecond converts m^3/s into US gallons per minute.
	GPMPerCubicMeterPerSecond = 15850.3
	// StandardGravity in m/s^2.
	StandardGravity = 9.81
	// WaterDensity in kg/m^3.
	WaterDensity = 1000.0
)

// FlowModel selects how flow velocity through the governing orifice is derived.
type FlowModel string

const (
	// FlowDisplacement treats the rate of tide-height change as the flow velocity.
	FlowDisplacement FlowModel = "displacement"
	// FlowPressure uses a hydrostatic head velocity sqrt(2gh) through the valve.
	FlowPressure FlowModel = "pressure"
)

// ParseFlowModel maps a configuration string onto a FlowModel.
func ParseFlowModel(s string) (FlowModel, error) {
	switch FlowModel(s) {
	case FlowDisplacement, FlowPressure:
		return FlowModel(s), nil
	default:
		return "", fmt.Errorf("unknown flow model %q", s)
	}
}

// Spacing selects the abscissa used for slope estimation.
type Spacing string

const (
	// SpacingSeconds differentiates against elapsed seconds, giving m/s.
	SpacingSeconds Spacing = "seconds"
	// SpacingIndex differentiates against the sample index (unit spacing).
	SpacingIndex Spacing = "index"
)

// ParseSpacing maps a configuration string onto a Spacing.
func ParseSpacing(s string) (Spacing, error) {
	switch Spacing(s) {
	case SpacingSeconds, SpacingIndex:
		return Spacing(s), nil
	default:
		return "", fmt.Errorf("unknown slope spacing %q", s)
	}
}

// Mechanism holds the physical constants of one pump configuration. It is
// passed by value and never mutated by the pipeline stages.
type Mechanism struct {
	Density   float64 // kg/m^3, converts head into hydrostatic pressure

	Gravity   float64
	Diameter  float64 // governing piston or valve diameter in meters
	Force     float64 // net actuating force in newtons
	FlowModel FlowModel
	Spacing   Spacing
	GPMPerM3S float64
}

// Area returns the cross-sectional area of the governing component in m^2.
func (m Mechanism) Area() float64 {
	return CircleArea(m.Diameter)
}

// Validate checks the constants are usable.
func (m Mechanism) Validate() error {
	if m.Diameter <= 0 {
		return errors.New("mechanism diameter must be greater than zero")
	}
	if m.Density <= 0 {
		return errors.New("mechanism density must be greater than zero")
	}
	if m.Gravity <= 0 {
		return errors.New("mechanism gravity must be greater than zero")
	}
	if m.GPMPerM3S <= 0 {
		return errors.New("mechanism gpm conversion must be greater than zero")
	}
	if _, err := ParseFlowModel(string(m.FlowModel)); err != nil {
		return err
	}
	if _, err := ParseSpacing(string(m.Spacing)); err != nil {
		return err
	}
	return nil
}

// CircleArea returns π·(d/2)².
func CircleArea(diameter float64) float64 {
	r := diameter / 2
	return math.Pi * r * r
}

// PistonLoad describes the steel-clad concrete piston head and its gasket.
type PistonLoad struct {
	Volume              float64 // m^3
	ConcreteDensity     float64 // kg/m^3
	SteelDensity        float64 // kg/m^3
	ConcreteFraction    float64 // share of the volume that is concrete, 0..1
	GasketForce         float64 // normal force between gasket and tank wall, N
	FrictionCoefficient float64
}

// Mass returns the piston head mass in kg.
func (p PistonLoad) Mass() float64 {
	mix := p.ConcreteFraction*p.ConcreteDensity + (1-p.ConcreteFraction)*p.SteelDensity
	return p.Volume * mix
}

// FrictionForce returns the gasket friction in newtons.
func (p PistonLoad) FrictionForce() float64 {
	return p.GasketForce * p.FrictionCoefficient
}

// ActuatingForce returns the weight of the piston minus friction losses.
func (p PistonLoad) ActuatingForce(gravity float64) float64 {
	return p.Mass()*gravity - p.FrictionForce()
}
