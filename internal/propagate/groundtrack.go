// Package propagate computes a satellite's ground track over a time grid
// from an orbital element set.
package propagate

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sees9730/CubeSatMissionPlanner/internal/elements"
	"github.com/sees9730/CubeSatMissionPlanner/internal/metrics"
	"github.com/sees9730/CubeSatMissionPlanner/internal/timegrid"
	"github.com/sees9730/CubeSatMissionPlanner/internal/transform"
)

// Sample is one sub-satellite point. Latitude in [-90, 90] degrees,
// longitude in signed (-180, 180] degrees, altitude in km above the WGS-84
// ellipsoid. No longitude unwrapping is performed; wrap discontinuities
// are a presentation concern.
type Sample struct {
	Time   time.Time `json:"time"`
	LatDeg float64   `json:"lat_deg"`
	LonDeg float64   `json:"lon_deg"`
	AltKm  float64   `json:"alt_km"`
}

// GroundTrack is the propagated track over a grid. Samples[i] and
// States[i] always correspond to Grid.At(i); consumers rely on this
// parallel-array alignment.
type GroundTrack struct {
	Grid    *timegrid.Grid
	Samples []Sample

	// States holds the inertial TEME states the samples were derived
	// from, for downstream geometry (shadow detection).
	States []transform.PositionTEME
}

// Len returns the number of samples, always equal to Grid.Len().
func (gt *GroundTrack) Len() int {
	return len(gt.Samples)
}

// Propagator turns element sets into ground tracks. Instances are
// independent and share no mutable state.
type Propagator struct {
	logger *slog.Logger
}

// NewPropagator creates a Propagator.
func NewPropagator(logger *slog.Logger) *Propagator {
	return &Propagator{logger: logger}
}

// GroundTrack propagates the element set over [start, end] at stepSeconds.
// It never refreshes elements; fetching fresh data beforehand is the
// element store's job, invoked by the caller.
//
// The SGP4 engine timestamps at whole-second resolution, so start and
// stepSeconds must land every grid instant on a whole second; sub-second
// inputs fail with ErrInvalidTimeSpec rather than shifting samples off
// their grid instants.
//
// The result is all-or-nothing: any invalid sample fails the whole run and
// no partial track is returned.
func (p *Propagator) GroundTrack(set *elements.Set, start, end time.Time, stepSeconds float64) (*GroundTrack, error) {
	if stepSeconds != math.Trunc(stepSeconds) {
		return nil, fmt.Errorf("%w: step %v s: propagation resolves whole seconds only",
			timegrid.ErrInvalidTimeSpec, stepSeconds)
	}
	if start.Nanosecond() != 0 {
		return nil, fmt.Errorf("%w: start %s: propagation resolves whole seconds only",
			timegrid.ErrInvalidTimeSpec, start.UTC().Format(time.RFC3339Nano))
	}

	grid, err := timegrid.New(start, end, stepSeconds)
	if err != nil {
		return nil, err
	}

	model, err := NewSGP4Model(set)
	if err != nil {
		return nil, err
	}

	began := time.Now()
	track, err := Track(model, grid)
	if err != nil {
		return nil, fmt.Errorf("satellite %q over [%s, %s]: %w",
			set.Name, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339), err)
	}
	duration := time.Since(began)

	metrics.ObservePropagation(duration, track.Len())
	p.logger.Debug("ground track propagated",
		"satellite", set.Name,
		"samples", track.Len(),
		"step_seconds", stepSeconds,
		"duration_ms", duration.Milliseconds(),
	)

	return track, nil
}

// Track propagates any OrbitalModel over an existing grid.
func Track(model OrbitalModel, grid *timegrid.Grid) (*GroundTrack, error) {
	n := grid.Len()
	samples := make([]Sample, n)
	states := make([]transform.PositionTEME, n)

	for i := 0; i < n; i++ {
		t := grid.At(i)

		teme, err := model.StateAt(t)
		if err != nil {
			return nil, err
		}

		ecef := transform.TEMEToECEF(teme, t)
		geo := transform.ECEFToGeodetic(ecef.X, ecef.Y, ecef.Z)

		if !finite(geo.LatDeg) || !finite(geo.LonDeg) || !finite(geo.AltKm) {
			return nil, fmt.Errorf("%w: non-finite geodetic sample at index %d (%s)",
				ErrPropagation, i, t.Format(time.RFC3339))
		}

		states[i] = teme
		samples[i] = Sample{Time: t, LatDeg: geo.LatDeg, LonDeg: geo.LonDeg, AltKm: geo.AltKm}
	}

	return &GroundTrack{Grid: grid, Samples: samples, States: states}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
