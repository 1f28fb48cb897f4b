package ephem

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/globe"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/kepler"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/planetelements"
	"github.com/soniakeys/meeus/v3/pluto"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/litescript/ls-sky/internal/astro"
)

// lightDaysPerAU is the light travel time across one AU, in days.
const lightDaysPerAU = 0.0057755183

// elementIndex maps catalog planets to planetelements table rows.
var elementIndex = map[Body]int{
	Mercury: planetelements.Mercury,
	Venus:   planetelements.Venus,
	Mars:    planetelements.Mars,
	Jupiter: planetelements.Jupiter,
	Saturn:  planetelements.Saturn,
	Uranus:  planetelements.Uranus,
	Neptune: planetelements.Neptune,
}

func normKm(v astro.Vec3) float64 {
	return r3.Norm(v)
}

func finite(v astro.Vec3) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// keplerHelio returns a heliocentric ecliptic vector in AU (equinox of date)
// from the mean orbital elements of planetelements row p.
func keplerHelio(p int, jde float64) astro.Vec3 {
	var e planetelements.Elements
	planetelements.Mean(p, jde, &e)

	m := e.Lon - e.Peri
	ecc := kepler.Kepler3(e.Ecc, m)
	nu := kepler.True(ecc, e.Ecc)
	r := kepler.Radius(ecc, e.Ecc, e.Axis)

	// argument of latitude
	u := nu.Rad() + e.Peri.Rad() - e.Node.Rad()
	su, cu := math.Sincos(u)
	sn, cn := math.Sincos(e.Node.Rad())
	si, ci := math.Sincos(e.Inc.Rad())

	return astro.Vec3{
		X: r * (cn*cu - sn*su*ci),
		Y: r * (sn*cu + cn*su*ci),
		Z: r * su * si,
	}
}

// earthHelio returns Earth's heliocentric ecliptic vector in AU.
func (d *Dataset) earthHelio(jde float64) astro.Vec3 {
	if d.vsopEarth != nil {
		l, b, r := d.vsopEarth.Position(jde)
		return astro.FromSpherical(l.Deg(), b.Deg(), r)
	}
	// The mean-element table has no node for Earth; derive it from the Sun.
	t := base.J2000Century(jde)
	s, _ := solar.True(t)
	return astro.FromSpherical(s.Deg()+180, 0, solar.Radius(t))
}

// planetHelio returns the heliocentric ecliptic vector in AU of a planet or
// Pluto. Satellites and the Moon go through HeliocentricVector.
func (d *Dataset) planetHelio(b Body, jde float64) (astro.Vec3, error) {
	switch b {
	case Sun:
		return astro.Vec3{}, nil
	case Pluto:
		l, lat, r := pluto.Heliocentric(jde)
		lon := astro.PrecessLongitudeFromJ2000(l.Deg(), jdeTime(jde))
		return astro.FromSpherical(lon, lat.Deg(), r), nil
	}
	if v, ok := d.vsop[b]; ok {
		l, lat, r := v.Position(jde)
		return astro.FromSpherical(l.Deg(), lat.Deg(), r), nil
	}
	p, ok := elementIndex[b]
	if !ok {
		return astro.Vec3{}, fmt.Errorf("%s has no heliocentric theory", b)
	}
	return keplerHelio(p, jde), nil
}

// geocentricEcliptic returns the light-time corrected geocentric ecliptic
// vector of a planet or Pluto, in AU.
func (d *Dataset) geocentricEcliptic(b Body, jde float64) (astro.Vec3, error) {
	earth := d.earthHelio(jde)
	p, err := d.planetHelio(b, jde)
	if err != nil {
		return astro.Vec3{}, err
	}
	tau := lightDaysPerAU * r3.Norm(r3.Sub(p, earth))
	if p, err = d.planetHelio(b, jde-tau); err != nil {
		return astro.Vec3{}, err
	}
	return r3.Sub(p, earth), nil
}

// sunGeocentric returns the Sun's apparent geocentric equatorial vector in km.
func sunGeocentric(jde float64) astro.Vec3 {
	ra, dec := solar.ApparentEquatorial(jde)
	r := solar.Radius(base.J2000Century(jde))
	return astro.FromSpherical(ra.Rad()*180/math.Pi, dec.Deg(), astro.AUToKm(r))
}

// moonEcliptic returns the Moon's geocentric ecliptic vector in km.
func moonEcliptic(jde float64) astro.Vec3 {
	lon, lat, dist := moonposition.Position(jde)
	return astro.FromSpherical(lon.Deg(), lat.Deg(), dist)
}

// geocentric returns the apparent geocentric equatorial vector of b in km.
func (d *Dataset) geocentric(b Body, t time.Time) (astro.Vec3, bool, error) {
	jde := astro.JulianDate(t)
	obl := astro.MeanObliquity(t)

	switch b.Info().Category {
	case CategoryStar:
		return sunGeocentric(jde), false, nil
	case CategoryMoon:
		return astro.EclipticToEquatorial(moonEcliptic(jde), obl), false, nil
	case CategorySatellite:
		return d.satelliteGeocentric(b, t)
	}

	v, err := d.geocentricEcliptic(b, jde)
	if err != nil {
		return astro.Vec3{}, false, err
	}
	return astro.EclipticToEquatorial(r3.Scale(astro.AU, v), obl), false, nil
}

// observerOffset returns the observer's geocentric equatorial vector in km,
// using the IAU 1976 ellipsoid.
func observerOffset(t time.Time, obs astro.Observer) astro.Vec3 {
	s, c := globe.Earth76.ParallaxConstants(unit.AngleFromDeg(obs.LatDeg), obs.ElevationM)
	lst := astro.LocalSiderealTime(t, obs.LonDeg) * math.Pi / 180
	sl, cl := math.Sincos(lst)
	er := globe.Earth76.Er
	return astro.Vec3{X: er * c * cl, Y: er * c * sl, Z: er * s}
}

// jdeTime converts a Julian ephemeris day back to a UTC instant. The
// ΔT difference is ignored.
func jdeTime(jde float64) time.Time {
	return julian.JDToTime(jde)
}
