package propagate

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/sees9730/CubeSatMissionPlanner/internal/elements"
	"github.com/sees9730/CubeSatMissionPlanner/internal/transform"
)

// ErrPropagation is returned when an element set is malformed beyond what
// the model accepts or when propagation yields a numerically invalid state.
var ErrPropagation = errors.New("propagation failed")

// OrbitalModel is the capability the propagator needs from an element-set
// propagation engine: an inertial state at an instant. Keeping this as an
// interface decouples the ground-track computation from any one SGP4
// implementation.
type OrbitalModel interface {
	StateAt(t time.Time) (transform.PositionTEME, error)
}

// SGP4 engine: github.com/joshuaferrara/go-satellite. Pure Go, explicit
// TEME output. Its Propagate takes Satellite by value so SGP4 error codes
// never reach the caller; failures are detected by checking the output for
// NaN/Inf and unreasonable magnitudes instead.

// SGP4Model propagates a single element set with the SGP4 mean-element
// model. Accuracy degrades gracefully with element-set age; no re-fit or
// perturbation correction is applied beyond what SGP4 provides.
type SGP4Model struct {
	sat  satellite.Satellite
	name string
}

// NewSGP4Model initializes the SGP4 model for one element set.
//
// The element lines are pre-validated because go-satellite calls log.Fatal
// on malformed input, which would kill the process.
func NewSGP4Model(set *elements.Set) (*SGP4Model, error) {
	if err := validateElementLines(set.Line1, set.Line2); err != nil {
		return nil, fmt.Errorf("%w: invalid elements for %q: %v", ErrPropagation, set.Name, err)
	}

	sat := satellite.TLEToSat(set.Line1, set.Line2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, fmt.Errorf("%w: sgp4 init for %q: code=%d %s",
			ErrPropagation, set.Name, sat.Error, sat.ErrorStr)
	}
	return &SGP4Model{sat: sat, name: set.Name}, nil
}

// StateAt computes the inertial TEME state (km, km/s) at t. The engine
// takes calendar time in whole seconds, so t must carry no sub-second
// component; truncating here would pair the state with the wrong instant.
func (m *SGP4Model) StateAt(t time.Time) (transform.PositionTEME, error) {
	t = t.UTC()
	if t.Nanosecond() != 0 {
		return transform.PositionTEME{}, fmt.Errorf("%w: %q at %s: engine resolves whole seconds only",
			ErrPropagation, m.name, t.Format(time.RFC3339Nano))
	}
	pos, vel := satellite.Propagate(m.sat, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) ||
		math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) || math.IsInf(pos.Z, 0) {
		return transform.PositionTEME{}, fmt.Errorf("%w: %q at %s: output is NaN/Inf",
			ErrPropagation, m.name, t.Format(time.RFC3339))
	}

	// Position magnitude for anything Earth-orbiting sits between ~6200 km
	// and ~50000 km; outside that band the model has diverged.
	mag := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)
	if mag < 6200.0 || mag > 50000.0 {
		return transform.PositionTEME{}, fmt.Errorf("%w: %q at %s: unreasonable position magnitude %.1f km",
			ErrPropagation, m.name, t.Format(time.RFC3339), mag)
	}

	return transform.PositionTEME{
		X: pos.X, Y: pos.Y, Z: pos.Z,
		VX: vel.X, VY: vel.Y, VZ: vel.Z,
	}, nil
}

// validateElementLines performs basic format validation on element lines.
func validateElementLines(line1, line2 string) error {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)

	if len(line1) != 69 {
		return fmt.Errorf("line1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("line2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("line1 must start with '1', got %q", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line2 must start with '2', got %q", line2[0])
	}
	return nil
}
