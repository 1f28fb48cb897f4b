package sky

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/illum"
	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/ephem"
)

const (
	sunMagnitude  = -26.7
	moonMagnitude = -12.5
)

// saturnPole is the direction of Saturn's north pole (equatorial, J2000).
var saturnPole = astro.FromSpherical(40.589, 83.537, 1)

// geometry is the Sun-body-observer triangle in AU.
type geometry struct {
	r     float64 // Sun to body
	delta float64 // observer to body
	big   float64 // Sun to observer
}

func (g geometry) valid() bool {
	for _, v := range []float64{g.r, g.delta, g.big} {
		if !(v > 0) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (g geometry) phaseAngle() unit.Angle {
	return illum.PhaseAngle(g.r, g.delta, g.big)
}

// magnitude returns the apparent visual magnitude of pos.Body, falling back
// to the catalog's average value when the phase model cannot run.
func (e *Engine) magnitude(pos ephem.Position, t time.Time) float64 {
	info := pos.Body.Info()
	switch info.Category {
	case ephem.CategoryStar:
		return sunMagnitude
	case ephem.CategoryMoon:
		return moonMagnitude
	}

	m, err := e.phaseMagnitude(pos, t)
	if err != nil {
		e.logger.Debug("magnitude model unavailable for %s, using fallback: %v", info.Name, err)
		return info.FallbackMagnitude
	}
	return m
}

func (e *Engine) phaseMagnitude(pos ephem.Position, t time.Time) (float64, error) {
	b := pos.Body
	helio, err := e.provider.HeliocentricVector(b, t)
	if err != nil {
		return 0, err
	}
	sun, err := e.provider.GeocentricVector(ephem.Sun, t)
	if err != nil {
		return 0, err
	}
	g := geometry{
		r:     r3.Norm(helio),
		delta: astro.KmToAU(pos.DistanceKm()),
		big:   astro.KmToAU(r3.Norm(sun)),
	}
	if !g.valid() {
		return 0, &CalculationError{Body: b.String(), Stage: "magnitude", Err: errors.New("degenerate geometry")}
	}

	m, ok := planetMagnitude(b, g, pos.Geocentric)
	if !ok {
		if b.Info().AbsoluteMagnitude == 0 {
			return 0, fmt.Errorf("no photometric data for %s", b)
		}
		m = b.Info().AbsoluteMagnitude + 5*math.Log10(g.r*g.delta)
	}

	if math.IsNaN(m) || math.IsInf(m, 0) {
		return 0, &CalculationError{Body: b.String(), Stage: "magnitude", Err: errors.New("non-finite result")}
	}
	return m, nil
}

// planetMagnitude applies the photometric model of a major planet. ok is
// false for any other body.
func planetMagnitude(b ephem.Body, g geometry, geo astro.Vec3) (m float64, ok bool) {
	switch b {
	case ephem.Mercury:
		return illum.Mercury84(g.r, g.delta, g.phaseAngle()), true
	case ephem.Venus:
		return illum.Venus84(g.r, g.delta, g.phaseAngle()), true
	case ephem.Mars:
		return illum.Mars84(g.r, g.delta, g.phaseAngle()), true
	case ephem.Jupiter:
		return illum.Jupiter84(g.r, g.delta, g.phaseAngle()), true
	case ephem.Saturn:
		// Saturn84 is singular at ΔU = 0; the older model is not. ΔU is
		// approximated by its upper bound, the phase angle.
		return illum.Saturn(g.r, g.delta, saturnRingTilt(geo), g.phaseAngle()), true
	case ephem.Uranus:
		return illum.Uranus84(g.r, g.delta), true
	case ephem.Neptune:
		return illum.Neptune84(g.r, g.delta), true
	}
	return 0, false
}

// saturnRingTilt returns the ring plane's tilt toward the observer for a
// geocentric equatorial vector of Saturn.
func saturnRingTilt(geo astro.Vec3) unit.Angle {
	toEarth := r3.Scale(-1, r3.Unit(geo))
	return unit.Angle(math.Asin(r3.Dot(saturnPole, toEarth)))
}
