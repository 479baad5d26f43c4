package pump

import "fmt"

// Gradient estimates dy/dx at every point. Interior points use a central
// difference; the two end points use a one-sided second-order stencil. When
// the spacing is uniform the classic (y[i+1]-y[i-1])/2h and
// (∓3y0 ± 4y1 ∓ y2)/2h forms are used; otherwise the non-uniform
// second-order stencils are applied. Non-finite inputs propagate.
func Gradient(y, x []float64) ([]float64, error) {
	n := len(y)
	if n < MinSamples {
		return nil, &InsufficientSamplesError{Got: n}
	}
	if len(x) != n {
		return nil, fmt.Errorf("pump: gradient length mismatch: %d values, %d abscissae", n, len(x))
	}

	dx := make([]float64, n-1)
	uniform := true
	for i := 0; i < n-1; i++ {
		dx[i] = x[i+1] - x[i]
		if !(dx[i] > 0) {
			return nil, fmt.Errorf("%w: index %d", ErrNonIncreasingTime, i+1)
		}
		if dx[i] != dx[0] {
			uniform = false
		}
	}

	if uniform {
		return uniformGradient(y, dx[0]), nil
	}
	return nonUniformGradient(y, dx), nil
}

// UnitGradient is Gradient with unit spacing between samples.
func UnitGradient(y []float64) ([]float64, error) {
	if len(y) < MinSamples {
		return nil, &InsufficientSamplesError{Got: len(y)}
	}
	return uniformGradient(y, 1), nil
}

func uniformGradient(y []float64, h float64) []float64 {
	n := len(y)
	out := make([]float64, n)
	for i := 1; i < n-1; i++ {
		out[i] = (y[i+1] - y[i-1]) / (2 * h)
	}
	out[0] = (-3*y[0] + 4*y[1] - y[2]) / (2 * h)
	out[n-1] = (y[n-3] - 4*y[n-2] + 3*y[n-1]) / (2 * h)
	return out
}

func nonUniformGradient(y, dx []float64) []float64 {
	n := len(y)
	out := make([]float64, n)

	for i := 1; i < n-1; i++ {
		hs, hd := dx[i-1], dx[i]
		a := -hd / (hs * (hs + hd))
		b := (hd - hs) / (hs * hd)
		c := hs / (hd * (hs + hd))
		out[i] = a*y[i-1] + b*y[i] + c*y[i+1]
	}

	d1, d2 := dx[0], dx[1]
	a := -(2*d1 + d2) / (d1 * (d1 + d2))
	b := (d1 + d2) / (d1 * d2)
	c := -d1 / (d2 * (d1 + d2))
	out[0] = a*y[0] + b*y[1] + c*y[2]

	d1, d2 = dx[n-3], dx[n-2]
	a = d2 / (d1 * (d1 + d2))
	b = -(d2 + d1) / (d1 * d2)
	c = (2*d2 + d1) / (d2 * (d1 + d2))
	out[n-1] = a*y[n-3] + b*y[n-2] + c*y[n-1]

	return out
}
