// Package shadow finds the time-grid windows during which a satellite is
// inside Earth's shadow. It uses a cylindrical umbra model: the satellite
// is eclipsed when it is on the anti-sun side of Earth and within one
// equatorial radius of the shadow axis. Penumbra grazing is ignored, which
// under-counts eclipse edges by a few seconds at most for LEO.
package shadow

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/julian"
	"github.com/soniakeys/meeus/solar"

	"github.com/sees9730/CubeSatMissionPlanner/internal/timegrid"
	"github.com/sees9730/CubeSatMissionPlanner/internal/transform"
)

const earthRadiusKm = 6378.137

// SunVectorTEME returns the geocentric unit vector toward the Sun at t.
// The apparent equatorial frame differs from TEME by well under the
// accuracy a shadow test needs, so they are treated as the same frame.
func SunVectorTEME(t time.Time) [3]float64 {
	jde := julian.TimeToJD(t.UTC())
	ra, dec := solar.ApparentEquatorial(jde)

	cosDec := math.Cos(dec.Rad())
	return [3]float64{
		cosDec * math.Cos(ra.Rad()),
		cosDec * math.Sin(ra.Rad()),
		math.Sin(dec.Rad()),
	}
}

// InUmbra reports whether an inertial position (km) is inside the
// cylindrical Earth shadow for the given sun unit vector.
func InUmbra(pos transform.PositionTEME, sun [3]float64) bool {
	along := pos.X*sun[0] + pos.Y*sun[1] + pos.Z*sun[2]
	if along >= 0 {
		// Sun side of Earth.
		return false
	}

	// Distance from the shadow axis.
	px := pos.X - along*sun[0]
	py := pos.Y - along*sun[1]
	pz := pos.Z - along*sun[2]
	return math.Sqrt(px*px+py*py+pz*pz) < earthRadiusKm
}

// Window is a contiguous inclusive index range on a time grid.
type Window struct {
	Start int `json:"start_index"`
	End   int `json:"end_index"`
}

// Windows scans grid-aligned inertial states and returns the contiguous
// index ranges that are in umbra, in grid order. The states must be
// index-aligned with the grid.
func Windows(grid *timegrid.Grid, states []transform.PositionTEME) ([]Window, error) {
	if len(states) != grid.Len() {
		return nil, fmt.Errorf("states length %d does not match grid length %d", len(states), grid.Len())
	}

	var windows []Window
	open := -1
	for i, state := range states {
		if InUmbra(state, SunVectorTEME(grid.At(i))) {
			if open < 0 {
				open = i
			}
			continue
		}
		if open >= 0 {
			windows = append(windows, Window{Start: open, End: i - 1})
			open = -1
		}
	}
	if open >= 0 {
		windows = append(windows, Window{Start: open, End: grid.Len() - 1})
	}

	return windows, nil
}
