package storage

import (
	"time"

	"tidal-pump/internal/pump"
)

// Run is a persisted pipeline execution: the mechanism it ran with and its
// aggregate result. The derived series is stored alongside, keyed by ID.
type Run struct {
	ID          int64
	Mode        string
	FlowModel   string
	Component   string
	Spacing     string
	Diameter    float64
	Force       float64
	Result      pump.AggregateResult
	SeriesStart time.Time
	SeriesEnd   time.Time
	CreatedAt   time.Time
}
