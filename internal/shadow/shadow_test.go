package shadow

import (
	"math"
	"testing"
	"time"

	"github.com/sees9730/CubeSatMissionPlanner/internal/timegrid"
	"github.com/sees9730/CubeSatMissionPlanner/internal/transform"
)

func TestSunVectorIsUnit(t *testing.T) {
	for _, tm := range []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 21, 18, 30, 0, 0, time.UTC),
	} {
		s := SunVectorTEME(tm)
		mag := math.Sqrt(s[0]*s[0] + s[1]*s[1] + s[2]*s[2])
		if math.Abs(mag-1) > 1e-9 {
			t.Errorf("|sun(%v)| = %.12f, want 1", tm, mag)
		}
	}
}

// TestSunDeclinationSeasons checks the sun vector tracks the seasons: the
// Z component (declination) is near +23.4° in June, near -23.4° in
// December, and near zero at the equinoxes.
func TestSunDeclinationSeasons(t *testing.T) {
	cases := []struct {
		name    string
		tm      time.Time
		wantDeg float64
		tolDeg  float64
	}{
		{"june solstice", time.Date(2024, 6, 20, 21, 0, 0, 0, time.UTC), 23.4, 0.3},
		{"december solstice", time.Date(2024, 12, 21, 9, 0, 0, 0, time.UTC), -23.4, 0.3},
		{"march equinox", time.Date(2024, 3, 20, 3, 0, 0, 0, time.UTC), 0, 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := SunVectorTEME(tc.tm)
			decDeg := math.Asin(s[2]) * 180 / math.Pi
			if math.Abs(decDeg-tc.wantDeg) > tc.tolDeg {
				t.Errorf("declination = %.2f°, want %.2f° ± %.2f°", decDeg, tc.wantDeg, tc.tolDeg)
			}
		})
	}
}

func TestInUmbraGeometry(t *testing.T) {
	sun := [3]float64{1, 0, 0}
	r := earthRadiusKm + 500

	cases := []struct {
		name string
		pos  transform.PositionTEME
		want bool
	}{
		{"sun side", transform.PositionTEME{X: r}, false},
		{"anti-sun, on axis", transform.PositionTEME{X: -r}, true},
		{"anti-sun, off axis", transform.PositionTEME{X: -r, Y: earthRadiusKm + 100}, false},
		{"anti-sun, inside cylinder", transform.PositionTEME{X: -r, Y: 1000}, true},
		{"terminator plane", transform.PositionTEME{Y: r}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := InUmbra(tc.pos, sun); got != tc.want {
				t.Errorf("InUmbra = %v, want %v", got, tc.want)
			}
		})
	}
}

// TestWindowsExtraction drives Windows with hand-built states so the
// umbra pattern (and therefore the expected index ranges) is exact.
func TestWindowsExtraction(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	grid, err := timegrid.New(start, start.Add(9*time.Minute), 60)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}

	r := earthRadiusKm + 500
	states := make([]transform.PositionTEME, grid.Len())
	for i := range states {
		sun := SunVectorTEME(grid.At(i))
		// Indices 2-4 and 8-9 sit on the anti-sun axis, the rest sun-side.
		if (i >= 2 && i <= 4) || i >= 8 {
			states[i] = transform.PositionTEME{X: -r * sun[0], Y: -r * sun[1], Z: -r * sun[2]}
		} else {
			states[i] = transform.PositionTEME{X: r * sun[0], Y: r * sun[1], Z: r * sun[2]}
		}
	}

	windows, err := Windows(grid, states)
	if err != nil {
		t.Fatalf("Windows: %v", err)
	}

	want := []Window{{Start: 2, End: 4}, {Start: 8, End: 9}}
	if len(windows) != len(want) {
		t.Fatalf("got %d windows (%v), want %d", len(windows), windows, len(want))
	}
	for i := range want {
		if windows[i] != want[i] {
			t.Errorf("window %d = %+v, want %+v", i, windows[i], want[i])
		}
	}
}

func TestWindowsLengthMismatch(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	grid, err := timegrid.New(start, start.Add(time.Hour), 60)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	if _, err := Windows(grid, make([]transform.PositionTEME, 3)); err == nil {
		t.Fatal("expected error for misaligned states")
	}
}
