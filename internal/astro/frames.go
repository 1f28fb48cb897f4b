package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/nutation"
	"gonum.org/v1/gonum/spatial/r3"
)

// AU is the Astronomical Unit in kilometers.
const AU = 149597870.7

// Vec3 represents a 3D vector in any reference frame.
type Vec3 = r3.Vec

var xAxis = r3.Vec{X: 1}

// FromSpherical builds a cartesian vector from longitude/latitude in degrees
// and a radius in any unit.
func FromSpherical(lonDeg, latDeg, r float64) Vec3 {
	sLon, cLon := math.Sincos(degToRad(lonDeg))
	sLat, cLat := math.Sincos(degToRad(latDeg))
	return Vec3{X: r * cLat * cLon, Y: r * cLat * sLon, Z: r * sLat}
}

// ToSpherical returns longitude in [0, 360), latitude in degrees, and radius.
func ToSpherical(v Vec3) (lonDeg, latDeg, r float64) {
	r = r3.Norm(v)
	if r == 0 {
		return 0, 0, 0
	}
	lonDeg = normalizeAngle360(radToDeg(math.Atan2(v.Y, v.X)))
	latDeg = radToDeg(math.Asin(clampUnit(v.Z / r)))
	return lonDeg, latDeg, r
}

// RADec returns right ascension in hours [0, 24) and declination in degrees
// for an equatorial vector.
func RADec(eq Vec3) (raHours, decDeg float64) {
	lon, lat, _ := ToSpherical(eq)
	raHours = lon / 15
	if raHours >= 24 {
		raHours = 0
	}
	return raHours, lat
}

// MeanObliquity returns the mean obliquity of the ecliptic of date, in degrees.
func MeanObliquity(t time.Time) float64 {
	return nutation.MeanObliquity(julianDate(t)).Deg()
}

// EquatorialToEcliptic converts equatorial XYZ to ecliptic XYZ for the given
// obliquity. Output is in the same units as the input.
func EquatorialToEcliptic(eq Vec3, obliquityDeg float64) Vec3 {
	return r3.Rotate(eq, -degToRad(obliquityDeg), xAxis)
}

// EclipticToEquatorial converts ecliptic XYZ to equatorial XYZ.
func EclipticToEquatorial(ecl Vec3, obliquityDeg float64) Vec3 {
	return r3.Rotate(ecl, degToRad(obliquityDeg), xAxis)
}

// generalPrecessionArcsecPerYear is the rate of general precession in longitude.
const generalPrecessionArcsecPerYear = 50.29

// PrecessionSinceJ2000 returns the accumulated general precession in
// longitude between J2000 and t, in degrees.
func PrecessionSinceJ2000(t time.Time) float64 {
	years := (julianDate(t) - 2451545.0) / 365.25
	return years * generalPrecessionArcsecPerYear / 3600
}

// PrecessLongitudeToJ2000 shifts an ecliptic longitude of date back to the
// J2000 equinox. Accurate to a few arcseconds over a few centuries, which is
// enough for boundary lookups.
func PrecessLongitudeToJ2000(lonDeg float64, t time.Time) float64 {
	return normalizeAngle360(lonDeg - PrecessionSinceJ2000(t))
}

// PrecessLongitudeFromJ2000 is the inverse of PrecessLongitudeToJ2000.
func PrecessLongitudeFromJ2000(lonDeg float64, t time.Time) float64 {
	return normalizeAngle360(lonDeg + PrecessionSinceJ2000(t))
}

// ProjectedPoint represents a 2D projected position with metadata.
type ProjectedPoint struct {
	X float64 // Screen X coordinate (normalized, -1 to 1)
	Y float64 // Screen Y coordinate (normalized, -1 to 1)
	R float64 // Original radial distance in AU
	Z float64 // Original Z offset (for ecliptic latitude display)
}

// ScaleMode defines how radial distances are mapped to screen space.
type ScaleMode int

const (
	// ScaleLogR uses logarithmic scaling: r_display = log10(r_AU + 1)
	ScaleLogR ScaleMode = iota

	// ScaleInner uses linear scaling optimized for 0-5 AU
	ScaleInner

	// ScaleOuter uses compressed scaling for outer solar system (>5 AU)
	ScaleOuter
)

// String returns a short label for the mode.
func (s ScaleMode) String() string {
	switch s {
	case ScaleInner:
		return "inner"
	case ScaleOuter:
		return "outer"
	default:
		return "log"
	}
}

// ProjectEclipticTopDown projects a heliocentric ecliptic vector (AU) onto the
// ecliptic plane, X toward the vernal equinox and Y 90° east of it.
func ProjectEclipticTopDown(v Vec3, mode ScaleMode, scale float64) ProjectedPoint {
	rAU := math.Hypot(v.X, v.Y)
	rDisplay := scaleRadius(rAU, mode)
	angle := math.Atan2(v.Y, v.X)

	return ProjectedPoint{
		X: rDisplay * math.Cos(angle) * scale,
		Y: rDisplay * math.Sin(angle) * scale,
		R: r3.Norm(v),
		Z: v.Z,
	}
}

// scaleRadius applies the configured scaling mode to a radial distance.
func scaleRadius(rAU float64, mode ScaleMode) float64 {
	switch mode {
	case ScaleInner:
		if rAU > 5 {
			return 5
		}
		return rAU
	case ScaleOuter:
		// Linear to 5 AU, then logarithmic beyond
		if rAU <= 5 {
			return rAU / 5 * 0.5
		}
		return 0.5 + math.Log10(rAU/5+1)*0.5
	default:
		return math.Log10(rAU + 1)
	}
}

// KmToAU converts kilometers to Astronomical Units.
func KmToAU(km float64) float64 {
	return km / AU
}

// AUToKm converts Astronomical Units to kilometers.
func AUToKm(au float64) float64 {
	return au * AU
}

func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
