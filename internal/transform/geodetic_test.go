package transform

import (
	"math"
	"testing"
	"time"
)

// TestGMSTReference checks GMST against a published reference value.
// Vallado Example 3-5: 1992 Aug 20 12:14:00 UT1 → GMST = 152.578788°.
func TestGMSTReference(t *testing.T) {
	tm := time.Date(1992, 8, 20, 12, 14, 0, 0, time.UTC)
	gmstDeg := GMST(tm) * 180.0 / math.Pi

	// UTC vs UT1 differ by under a second; allow a loose tolerance.
	if math.Abs(gmstDeg-152.578788) > 0.01 {
		t.Errorf("GMST = %.6f°, want 152.578788°", gmstDeg)
	}
}

func TestJulianDateJ2000(t *testing.T) {
	tm := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	if jd := JulianDate(tm); math.Abs(jd-2451545.0) > 1e-6 {
		t.Errorf("JulianDate(J2000) = %f, want 2451545.0", jd)
	}
}

// TestTEMEToECEFMagnitude verifies the rotation preserves position magnitude.
func TestTEMEToECEFMagnitude(t *testing.T) {
	teme := PositionTEME{X: 5000, Y: 3000, Z: 2500, VX: -3, VY: 5, VZ: 2}
	tm := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)

	ecef := TEMEToECEF(teme, tm)

	temeMag := math.Sqrt(teme.X*teme.X + teme.Y*teme.Y + teme.Z*teme.Z)
	ecefMag := math.Sqrt(ecef.X*ecef.X + ecef.Y*ecef.Y + ecef.Z*ecef.Z)
	if math.Abs(temeMag-ecefMag) > 1e-6 {
		t.Errorf("rotation changed magnitude: TEME %.9f km, ECEF %.9f km", temeMag, ecefMag)
	}

	// Z is the rotation axis and must pass through unchanged.
	if ecef.Z != teme.Z {
		t.Errorf("Z changed: %f -> %f", teme.Z, ecef.Z)
	}
}

func TestECEFToGeodeticKnownPoints(t *testing.T) {
	cases := []struct {
		name            string
		x, y, z         float64
		wantLat         float64
		wantLon         float64
		wantAlt         float64
		latTol, lonTol  float64
		altTolKm        float64
	}{
		// Point on the equator at the prime meridian, 400 km up.
		{"equator prime meridian", wgs84A + 400, 0, 0, 0, 0, 400, 1e-6, 1e-6, 1e-3},
		// Point over the antimeridian: longitude must come out +180, not -180.
		{"antimeridian", -(wgs84A + 400), 0, 0, 0, 180, 400, 1e-6, 1e-6, 1e-3},
		// North pole, 500 km above the polar radius b = a(1-f).
		{"north pole", 0, 0, wgs84A*(1-wgs84F) + 500, 90, 0, 500, 1e-3, 360, 1e-2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := ECEFToGeodetic(tc.x, tc.y, tc.z)
			if math.Abs(g.LatDeg-tc.wantLat) > tc.latTol {
				t.Errorf("lat = %.6f, want %.6f", g.LatDeg, tc.wantLat)
			}
			// Longitude is meaningless at the pole; lonTol 360 skips it.
			if diff := math.Abs(g.LonDeg - tc.wantLon); diff > tc.lonTol && 360-diff > tc.lonTol {
				t.Errorf("lon = %.6f, want %.6f", g.LonDeg, tc.wantLon)
			}
			if math.Abs(g.AltKm-tc.wantAlt) > tc.altTolKm {
				t.Errorf("alt = %.4f km, want %.4f km", g.AltKm, tc.wantAlt)
			}
		})
	}
}

// TestGeodeticRanges propagates a sweep of ECEF positions through the
// conversion and checks the documented output ranges hold.
func TestGeodeticRanges(t *testing.T) {
	r := wgs84A + 550
	for i := 0; i < 360; i += 15 {
		for j := -80; j <= 80; j += 20 {
			latR := float64(j) * math.Pi / 180
			lonR := float64(i) * math.Pi / 180
			g := ECEFToGeodetic(r*math.Cos(latR)*math.Cos(lonR), r*math.Cos(latR)*math.Sin(lonR), r*math.Sin(latR))

			if g.LatDeg < -90 || g.LatDeg > 90 {
				t.Fatalf("latitude %f out of [-90, 90]", g.LatDeg)
			}
			if g.LonDeg <= -180 || g.LonDeg > 180 {
				t.Fatalf("longitude %f out of (-180, 180]", g.LonDeg)
			}
		}
	}
}

func TestValidateECEF(t *testing.T) {
	if !ValidateECEF(PositionECEF{X: 6771, Y: 0, Z: 0}) {
		t.Error("LEO radius rejected")
	}
	if ValidateECEF(PositionECEF{X: 100, Y: 0, Z: 0}) {
		t.Error("sub-surface radius accepted")
	}
	if ValidateECEF(PositionECEF{X: math.NaN(), Y: 0, Z: 0}) {
		t.Error("NaN accepted")
	}
	if ValidateECEF(PositionECEF{X: math.Inf(1), Y: 0, Z: 0}) {
		t.Error("Inf accepted")
	}
}
