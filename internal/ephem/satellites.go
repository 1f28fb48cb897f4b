package ephem

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/jupitermoons"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/litescript/ls-sky/internal/astro"
)

// jupiterRadiusKm is the unit of jupitermoons offsets.
const jupiterRadiusKm = 71492

// circularOrbit is a placeholder orbit: a circle in the ecliptic plane
// around the parent, starting at EpochLonDeg at J2000.
type circularOrbit struct {
	RadiusKm    float64
	PeriodDays  float64 // negative for retrograde
	EpochLonDeg float64
}

var circularOrbits = map[Body]circularOrbit{
	Mimas:     {185539, 0.942422, 14},
	Enceladus: {237948, 1.370218, 201},
	Dione:     {377396, 2.736915, 290},
	Rhea:      {527108, 4.518212, 32},
	Titan:     {1221870, 15.945, 163},
	Iapetus:   {3560820, 79.3215, 271},
	Miranda:   {129390, 1.413479, 68},
	Ariel:     {191020, 2.520379, 119},
	Umbriel:   {266000, 4.144177, 336},
	Titania:   {435910, 8.705872, 77},
	Oberon:    {583520, 13.463239, 283},
	Triton:    {354759, -5.876854, 45},
	Nereid:    {5513818, 360.13619, 318},
}

// galilean returns the sky-plane offset of a Galilean moon from Jupiter in
// Jupiter radii: x positive to the west, y positive to the north.
func galilean(b Body, jde float64) (x, y float64, ok bool) {
	pI, pII, pIII, pIV := jupitermoons.Positions(jde)
	switch b {
	case Io:
		return pI.X, pI.Y, true
	case Europa:
		return pII.X, pII.Y, true
	case Ganymede:
		return pIII.X, pIII.Y, true
	case Callisto:
		return pIV.X, pIV.Y, true
	}
	return 0, 0, false
}

// skyPlaneOffset turns an east/north offset in km at the direction of
// parent into an equatorial vector.
func skyPlaneOffset(parent astro.Vec3, eastKm, northKm float64) astro.Vec3 {
	lon, lat, _ := astro.ToSpherical(parent)
	sa, ca := math.Sincos(lon * math.Pi / 180)
	sd, cd := math.Sincos(lat * math.Pi / 180)
	east := astro.Vec3{X: -sa, Y: ca}
	north := astro.Vec3{X: -sd * ca, Y: -sd * sa, Z: cd}
	return r3.Add(r3.Scale(eastKm, east), r3.Scale(northKm, north))
}

// circularOffset returns the ecliptic offset from the parent in km.
func circularOffset(o circularOrbit, jde float64) astro.Vec3 {
	turns := (jde - 2451545.0) / o.PeriodDays
	theta := o.EpochLonDeg + 360*(turns-math.Floor(turns))
	return astro.FromSpherical(theta, 0, o.RadiusKm)
}

// satelliteGeocentric returns the geocentric equatorial vector of a planetary
// satellite in km, and whether it came from a placeholder orbit.
func (d *Dataset) satelliteGeocentric(b Body, t time.Time) (astro.Vec3, bool, error) {
	parent := b.Info().Parent
	if !d.Available(parent) {
		return astro.Vec3{}, false, unavailable(b, fmt.Sprintf("parent %s unavailable", parent))
	}
	host, _, err := d.geocentric(parent, t)
	if err != nil {
		return astro.Vec3{}, false, err
	}

	jde := astro.JulianDate(t)
	if x, y, ok := galilean(b, jde); ok {
		return r3.Add(host, skyPlaneOffset(host, -x*jupiterRadiusKm, y*jupiterRadiusKm)), false, nil
	}

	o, ok := circularOrbits[b]
	if !ok {
		return astro.Vec3{}, false, unavailable(b, "no orbit model")
	}
	off := astro.EclipticToEquatorial(circularOffset(o, jde), astro.MeanObliquity(t))
	return r3.Add(host, off), true, nil
}

// satelliteHelioOffset returns the satellite's ecliptic offset from its
// parent in AU.
func (d *Dataset) satelliteHelioOffset(b Body, t time.Time) (astro.Vec3, error) {
	parent := b.Info().Parent
	host, _, err := d.geocentric(parent, t)
	if err != nil {
		return astro.Vec3{}, err
	}
	sat, _, err := d.satelliteGeocentric(b, t)
	if err != nil {
		return astro.Vec3{}, err
	}
	off := astro.EquatorialToEcliptic(r3.Sub(sat, host), astro.MeanObliquity(t))
	return r3.Scale(1/astro.AU, off), nil
}
