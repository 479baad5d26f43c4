package pump

import (
	"errors"
	"fmt"
)

// MinSamples is the smallest series a slope can be estimated for.
const MinSamples = 3

var (
	// ErrInsufficientSamples is matched by InsufficientSamplesError via errors.Is.
	ErrInsufficientSamples = errors.New("pump: insufficient samples")
	// ErrNonIncreasingTime reports a series whose timestamps do not advance.
	ErrNonIncreasingTime = errors.New("pump: sample timestamps must be strictly increasing")
)

// InsufficientSamplesError is returned before any slope computation when the
// series is shorter than MinSamples.
type InsufficientSamplesError struct {
	Got int
}

func (e *InsufficientSamplesError) Error() string {
	return fmt.Sprintf("pump: need at least %d samples, got %d", MinSamples, e.Got)
}

func (e *InsufficientSamplesError) Is(target error) bool {
	return target == ErrInsufficientSamples
}
