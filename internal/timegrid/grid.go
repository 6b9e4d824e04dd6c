// Package timegrid provides the evenly spaced time grid shared by the
// propagator and the mission timeline. Both produce arrays that are
// index-aligned with a grid, so the grid is built in exactly one place.
package timegrid

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeSpec is returned when a grid is requested with a
// non-positive step or with end <= start.
var ErrInvalidTimeSpec = errors.New("invalid time spec")

// Grid is an ordered, evenly spaced sequence of instants from start to end
// inclusive. The last instant never overshoots end: when (end-start) is not
// a multiple of the step, the grid stops short of end.
// Immutable once constructed.
type Grid struct {
	start time.Time
	step  time.Duration
	count int
}

// New builds a grid from start to end with the given step in seconds.
// count = floor((end-start)/step) + 1.
func New(start, end time.Time, stepSeconds float64) (*Grid, error) {
	if stepSeconds <= 0 {
		return nil, fmt.Errorf("%w: step %.3fs must be positive", ErrInvalidTimeSpec, stepSeconds)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end %s must be after start %s",
			ErrInvalidTimeSpec, end.UTC().Format(time.RFC3339), start.UTC().Format(time.RFC3339))
	}

	step := time.Duration(stepSeconds * float64(time.Second))
	count := int(end.Sub(start)/step) + 1

	return &Grid{
		start: start.UTC(),
		step:  step,
		count: count,
	}, nil
}

// Len returns the number of instants on the grid.
func (g *Grid) Len() int {
	return g.count
}

// Step returns the spacing between consecutive instants.
func (g *Grid) Step() time.Duration {
	return g.step
}

// Start returns the first instant on the grid.
func (g *Grid) Start() time.Time {
	return g.start
}

// End returns the last instant on the grid. Note this is the last instant
// <= the requested end, not necessarily the end passed to New.
func (g *Grid) End() time.Time {
	return g.At(g.count - 1)
}

// At returns the instant at index i. Panics if i is out of range, matching
// slice semantics; use Len to bound iteration.
func (g *Grid) At(i int) time.Time {
	if i < 0 || i >= g.count {
		panic(fmt.Sprintf("timegrid: index %d out of range [0, %d)", i, g.count))
	}
	return g.start.Add(time.Duration(i) * g.step)
}

// Times materializes the full grid as a slice. The slice is a copy; mutating
// it does not affect the grid.
func (g *Grid) Times() []time.Time {
	times := make([]time.Time, g.count)
	for i := range times {
		times[i] = g.start.Add(time.Duration(i) * g.step)
	}
	return times
}
