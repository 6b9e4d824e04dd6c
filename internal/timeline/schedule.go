// Package timeline holds the discretized mission timeline: one status code
// per time-grid instant, plus derived read-only views such as eclipse
// windows. It is a flat mutable array with invariant-enforcing accessors,
// not a transition-validated state machine; any sequencing rules between
// statuses belong to the allocation logic that populates it.
package timeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/sees9730/CubeSatMissionPlanner/internal/timegrid"
)

var (
	// ErrInvalidConfiguration is returned when a schedule is created with
	// a default status missing from its enum, or an empty enum.
	ErrInvalidConfiguration = errors.New("invalid timeline configuration")

	// ErrIndexOutOfRange indicates an index or range outside [0, Len).
	// This is programmer error in the allocation layer, not a transient
	// condition.
	ErrIndexOutOfRange = errors.New("timeline index out of range")

	// ErrUnknownStatus indicates a status code missing from the enum.
	ErrUnknownStatus = errors.New("unknown status code")
)

// Schedule is a fixed-cadence mission timeline: a time grid and a parallel
// status array of equal length. The grid is immutable once constructed;
// statuses are overwritten by allocation logic, last write wins. The
// parallel-array alignment (status[i] describes grid.At(i)) is enforced
// here so callers never re-derive it.
type Schedule struct {
	grid       *timegrid.Grid
	status     []int
	statusEnum map[int]string
}

// New builds a schedule over [start, end] at stepSeconds with every slot
// initialized to defaultStatus. defaultStatus must be a key of statusEnum.
func New(start, end time.Time, stepSeconds float64, statusEnum map[int]string, defaultStatus int) (*Schedule, error) {
	grid, err := timegrid.New(start, end, stepSeconds)
	if err != nil {
		return nil, err
	}
	return FromGrid(grid, statusEnum, defaultStatus)
}

// FromGrid builds a schedule over an existing grid, so a timeline can share
// the exact grid a ground track was propagated on.
func FromGrid(grid *timegrid.Grid, statusEnum map[int]string, defaultStatus int) (*Schedule, error) {
	if len(statusEnum) == 0 {
		return nil, fmt.Errorf("%w: empty status enum", ErrInvalidConfiguration)
	}
	if _, ok := statusEnum[defaultStatus]; !ok {
		return nil, fmt.Errorf("%w: default status %d not in enum", ErrInvalidConfiguration, defaultStatus)
	}

	// Copy the enum so later caller mutations cannot invalidate the
	// membership checks.
	enum := make(map[int]string, len(statusEnum))
	for code, name := range statusEnum {
		enum[code] = name
	}

	status := make([]int, grid.Len())
	if defaultStatus != 0 {
		for i := range status {
			status[i] = defaultStatus
		}
	}

	return &Schedule{grid: grid, status: status, statusEnum: enum}, nil
}

// Len returns the number of slots.
func (s *Schedule) Len() int {
	return len(s.status)
}

// Grid returns the underlying time grid.
func (s *Schedule) Grid() *timegrid.Grid {
	return s.grid
}

// StatusAt returns the status code at index i.
func (s *Schedule) StatusAt(i int) (int, error) {
	if i < 0 || i >= len(s.status) {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(s.status))
	}
	return s.status[i], nil
}

// TimeAt returns the instant at index i.
func (s *Schedule) TimeAt(i int) (time.Time, error) {
	if i < 0 || i >= len(s.status) {
		return time.Time{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(s.status))
	}
	return s.grid.At(i), nil
}

// SetStatus writes one slot.
func (s *Schedule) SetStatus(i int, status int) error {
	return s.SetStatusRange(i, i, status)
}

// SetStatusRange writes every slot in the inclusive range [from, to].
func (s *Schedule) SetStatusRange(from, to int, status int) error {
	if from < 0 || to >= len(s.status) || from > to {
		return fmt.Errorf("%w: [%d, %d] not within [0, %d)", ErrIndexOutOfRange, from, to, len(s.status))
	}
	if _, ok := s.statusEnum[status]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownStatus, status)
	}
	for i := from; i <= to; i++ {
		s.status[i] = status
	}
	return nil
}

// StatusName resolves a status code to its enum meaning.
func (s *Schedule) StatusName(code int) (string, bool) {
	name, ok := s.statusEnum[code]
	return name, ok
}

// StatusEnum returns a copy of the enum map.
func (s *Schedule) StatusEnum() map[int]string {
	enum := make(map[int]string, len(s.statusEnum))
	for code, name := range s.statusEnum {
		enum[code] = name
	}
	return enum
}

// Statuses returns a copy of the status array, for export surfaces that
// must not hand out the mutable backing slice.
func (s *Schedule) Statuses() []int {
	out := make([]int, len(s.status))
	copy(out, s.status)
	return out
}

// Validate checks the schedule invariant: every slot's status is a key of
// the enum. A failure means a write bypassed the accessors.
func (s *Schedule) Validate() error {
	for i, code := range s.status {
		if _, ok := s.statusEnum[code]; !ok {
			return fmt.Errorf("%w: slot %d holds %d", ErrUnknownStatus, i, code)
		}
	}
	return nil
}
