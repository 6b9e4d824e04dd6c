// Package transform converts SGP4 output into the coordinates mission
// planning consumes. SGP4 produces inertial TEME states; the ground track
// needs geodetic sub-satellite points, so the chain is TEME → ECEF (GMST
// rotation) → geodetic on the WGS-84 ellipsoid.
//
// The TEME → ECEF rotation uses GMST only (no polar motion, no equation of
// equinoxes), which keeps errors under ~50 m. Reference: Vallado,
// "Fundamentals of Astrodynamics and Applications", Ch. 3.
package transform

import (
	"math"
	"time"
)

// WGS-84 ellipsoid parameters, in kilometers.
const (
	wgs84A  = 6378.137              // semi-major axis (km)
	wgs84F  = 1.0 / 298.257223563   // flattening
	wgs84E2 = wgs84F * (2 - wgs84F) // first eccentricity squared
)

// PositionTEME is an inertial satellite state from the propagation model.
// Units: km and km/s.
type PositionTEME struct {
	X, Y, Z    float64
	VX, VY, VZ float64
}

// PositionECEF is an Earth-fixed satellite state. Units: km and km/s.
type PositionECEF struct {
	X, Y, Z    float64
	VX, VY, VZ float64
}

// Geodetic is a sub-satellite point on the WGS-84 ellipsoid.
// Latitude in [-90, 90] degrees, longitude in (-180, 180] degrees,
// altitude in kilometers above the ellipsoid.
type Geodetic struct {
	LatDeg float64
	LonDeg float64
	AltKm  float64
}

// TEMEToECEF rotates a TEME state into ECEF at the given UTC time.
func TEMEToECEF(teme PositionTEME, t time.Time) PositionECEF {
	return TEMEToECEFWithGMST(teme, GMST(t))
}

// TEMEToECEFWithGMST rotates a TEME state into ECEF using a precomputed
// GMST angle in radians.
//
//	r_ECEF = R3(θ) r_TEME
//	v_ECEF = R3(θ) v_TEME - ω × r_ECEF
func TEMEToECEFWithGMST(teme PositionTEME, gmst float64) PositionECEF {
	cosG := math.Cos(gmst)
	sinG := math.Sin(gmst)

	x := teme.X*cosG + teme.Y*sinG
	y := -teme.X*sinG + teme.Y*cosG
	z := teme.Z

	vx := teme.VX*cosG + teme.VY*sinG + omegaEarth*y
	vy := -teme.VX*sinG + teme.VY*cosG - omegaEarth*x
	vz := teme.VZ

	return PositionECEF{X: x, Y: y, Z: z, VX: vx, VY: vy, VZ: vz}
}

// ECEFToGeodetic converts an ECEF position (km) to geodetic coordinates
// using the iterative Bowring method, which converges in a few iterations
// for Earth orbits.
func ECEFToGeodetic(x, y, z float64) Geodetic {
	lon := math.Atan2(y, x)
	p := math.Sqrt(x*x + y*y)

	lat := math.Atan2(z, p*(1-wgs84E2))
	for i := 0; i < 5; i++ {
		sinLat := math.Sin(lat)
		n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
		lat = math.Atan2(z+wgs84E2*n*sinLat, p)
	}

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	var alt float64
	if math.Abs(cosLat) > 1e-10 {
		alt = p/cosLat - n
	} else {
		// Near the poles p/cosLat degenerates; fall back to the z axis.
		alt = math.Abs(z)/math.Abs(sinLat) - n*(1-wgs84E2)
	}

	return Geodetic{
		LatDeg: lat * 180.0 / math.Pi,
		LonDeg: normalizeLonDeg(lon * 180.0 / math.Pi),
		AltKm:  alt,
	}
}

// normalizeLonDeg maps a longitude in degrees to the signed (-180, 180]
// convention. atan2 already yields [-180, 180]; only the -180 edge moves.
func normalizeLonDeg(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon <= -180 {
		lon += 360
	}
	return lon
}

// ValidateECEF reports whether an ECEF position (km) is finite and within
// the radius band of an Earth-orbiting satellite (6200 km to 50000 km).
func ValidateECEF(pos PositionECEF) bool {
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) {
		return false
	}
	if math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) || math.IsInf(pos.Z, 0) {
		return false
	}
	mag := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)
	return mag >= 6200.0 && mag <= 50000.0
}
