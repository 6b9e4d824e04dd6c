package timeline

import (
	"fmt"
	"time"
)

// Eclipse is a read-only view of a contiguous sub-range of a schedule
// during which the satellite is in shadow, with target-availability
// metadata scoped to that window (target name → eligible exposure
// duration).
//
// The parent schedule owns the status array; an Eclipse holds only the
// index range and a non-owning handle, so parent writes are visible
// through it. It must not outlive its parent.
type Eclipse struct {
	parent   *Schedule
	startIdx int
	endIdx   int
	targets  map[string]time.Duration
}

// SliceEclipse returns an eclipse view over the inclusive index range
// [startIdx, endIdx]. The underlying status array is not copied.
func (s *Schedule) SliceEclipse(startIdx, endIdx int, targetsAvailable map[string]time.Duration) (*Eclipse, error) {
	if startIdx < 0 || endIdx >= len(s.status) || startIdx > endIdx {
		return nil, fmt.Errorf("%w: eclipse range [%d, %d] not within [0, %d)",
			ErrIndexOutOfRange, startIdx, endIdx, len(s.status))
	}

	targets := make(map[string]time.Duration, len(targetsAvailable))
	for name, exp := range targetsAvailable {
		targets[name] = exp
	}

	return &Eclipse{
		parent:   s,
		startIdx: startIdx,
		endIdx:   endIdx,
		targets:  targets,
	}, nil
}

// Indices returns the inclusive [start, end] index range in the parent.
func (e *Eclipse) Indices() (start, end int) {
	return e.startIdx, e.endIdx
}

// Len returns the number of slots in the window.
func (e *Eclipse) Len() int {
	return e.endIdx - e.startIdx + 1
}

// Contains reports whether parent index i falls inside the window.
func (e *Eclipse) Contains(i int) bool {
	return i >= e.startIdx && i <= e.endIdx
}

// StartTime returns the instant of the first slot in the window.
func (e *Eclipse) StartTime() time.Time {
	return e.parent.grid.At(e.startIdx)
}

// EndTime returns the instant of the last slot in the window.
func (e *Eclipse) EndTime() time.Time {
	return e.parent.grid.At(e.endIdx)
}

// Duration returns the span from the first to the last slot instant.
func (e *Eclipse) Duration() time.Duration {
	return e.EndTime().Sub(e.StartTime())
}

// StatusAt reads the parent's status at parent index i, which must fall
// inside the window.
func (e *Eclipse) StatusAt(i int) (int, error) {
	if !e.Contains(i) {
		return 0, fmt.Errorf("%w: %d not in eclipse range [%d, %d]", ErrIndexOutOfRange, i, e.startIdx, e.endIdx)
	}
	return e.parent.StatusAt(i)
}

// TargetsAvailable returns a copy of the per-target eligible exposure
// durations for this window.
func (e *Eclipse) TargetsAvailable() map[string]time.Duration {
	targets := make(map[string]time.Duration, len(e.targets))
	for name, exp := range e.targets {
		targets[name] = exp
	}
	return targets
}
