// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
)

// SkyCoord represents celestial coordinates with both equatorial (RA/Dec)
// and horizontal (Az/El) components.
type SkyCoord struct {
	// Equatorial coordinates (equinox of date)
	RAdeg  float64 // Right Ascension in degrees (0-360)
	DecDeg float64 // Declination in degrees (-90 to +90)

	// Horizontal coordinates (observer-relative)
	AzDeg float64 // Azimuth in degrees (0=N, 90=E, 180=S, 270=W)
	ElDeg float64 // Elevation/Altitude in degrees (0=horizon, 90=zenith)

	RangeKm float64
}

// RAHours returns the right ascension in hours (0-24).
func (c SkyCoord) RAHours() float64 {
	return c.RAdeg / 15
}

// Observer represents a ground-based observer location.
type Observer struct {
	LatDeg     float64 // Latitude in degrees (north positive)
	LonDeg     float64 // Longitude in degrees (east positive)
	ElevationM float64 // Height above the ellipsoid in meters
	Name       string  // Optional name for the site
}

// EquatorialToHorizontal converts equatorial coordinates (RA/Dec) to horizontal
// coordinates (Az/El) for a given observer and time.
//
// The function preserves the input RA/Dec values and populates Az/El.
// Uses standard astronomical conventions:
//   - Azimuth: 0° = North, 90° = East, 180° = South, 270° = West
//   - Elevation: 0° = horizon, 90° = zenith
func EquatorialToHorizontal(eq SkyCoord, obs Observer, t time.Time) SkyCoord {
	lst := localSiderealTime(t, obs.LonDeg)
	az, el := HorizontalFromHourAngle(lst-eq.RAdeg, eq.DecDeg, obs.LatDeg)

	return SkyCoord{
		RAdeg:   eq.RAdeg,
		DecDeg:  eq.DecDeg,
		AzDeg:   az,
		ElDeg:   el,
		RangeKm: eq.RangeKm,
	}
}

// HorizontalFromHourAngle converts an hour angle and declination to azimuth
// and elevation for an observer at latDeg. All values in degrees.
// Azimuth is returned in [0, 360).
func HorizontalFromHourAngle(haDeg, decDeg, latDeg float64) (azDeg, elDeg float64) {
	lat := degToRad(latDeg)
	dec := degToRad(decDeg)
	ha := degToRad(haDeg)

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	// Clamp to [-1, 1] to handle floating point errors
	if sinAlt > 1 {
		sinAlt = 1
	} else if sinAlt < -1 {
		sinAlt = -1
	}
	alt := math.Asin(sinAlt)

	// East and north components of the direction in the horizon plane.
	east := -math.Sin(ha) * math.Cos(dec)
	north := math.Sin(dec)*math.Cos(lat) - math.Cos(dec)*math.Cos(ha)*math.Sin(lat)
	az := normalizeAngle360(radToDeg(math.Atan2(east, north)))
	if az >= 360 {
		az = 0
	}

	return az, radToDeg(alt)
}

// localSiderealTime calculates the Local Sidereal Time in degrees
// for a given UTC time and observer longitude.
func localSiderealTime(t time.Time, lonDeg float64) float64 {
	return normalizeAngle360(greenwichMeanSiderealTime(t) + lonDeg)
}

// LocalSiderealTime is the exported form of localSiderealTime.
func LocalSiderealTime(t time.Time, lonDeg float64) float64 {
	return localSiderealTime(t, lonDeg)
}

// greenwichMeanSiderealTime calculates GMST in degrees for a given UTC time.
func greenwichMeanSiderealTime(t time.Time) float64 {
	return normalizeAngle360(sidereal.Mean(julianDate(t)).Angle().Deg())
}

// julianDate calculates the Julian Date for a given time.
func julianDate(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// JulianDate returns the Julian Date for t. TT and UT are not distinguished;
// the ~70 s difference is below the precision of the analytic series used here.
func JulianDate(t time.Time) float64 {
	return julianDate(t)
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
