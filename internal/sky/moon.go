package sky

import (
	"math"
	"time"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/ephem"
)

// moonRadiusKm is the mean lunar radius.
const moonRadiusKm = 1737.4

// MoonPhase describes the Moon at one instant.
type MoonPhase struct {
	Date                   string  `json:"date"`
	PhasePercent           float64 `json:"phase_percent"`
	PhaseName              string  `json:"phase_name"`
	DistanceKm             float64 `json:"distance_km"`
	AngularDiameterDegrees float64 `json:"angular_diameter_degrees"`
}

// MoonPhaseName names a phase percentage, where 0 is new and 100 is the
// Moon opposite the Sun.
func MoonPhaseName(percent float64) string {
	switch {
	case percent < 1:
		return "New Moon"
	case percent < 25:
		return "Waxing Crescent"
	case percent < 51:
		return "First Quarter"
	case percent < 75:
		return "Waxing Gibbous"
	case percent < 99:
		return "Full Moon"
	case percent < 100:
		return "Waning Gibbous"
	default:
		return "Last Quarter"
	}
}

// GetMoonPhase returns the Moon's phase, distance and apparent size.
func (e *Engine) GetMoonPhase(instant time.Time) (MoonPhase, error) {
	defer e.observe("get_moon_phase", time.Now())
	return e.moon(e.resolveInstant(instant))
}

func (e *Engine) computeMoonPhase(t time.Time) (MoonPhase, error) {
	moon, err := e.provider.GeocentricVector(ephem.Moon, t)
	if err != nil {
		return MoonPhase{}, &CalculationError{Body: "Moon", Stage: "position", Err: err}
	}
	sun, err := e.provider.GeocentricVector(ephem.Sun, t)
	if err != nil {
		return MoonPhase{}, &CalculationError{Body: "Sun", Stage: "position", Err: err}
	}

	obl := astro.MeanObliquity(t)
	moonLon, _, dist := astro.ToSpherical(astro.EquatorialToEcliptic(moon, obl))
	sunLon, _, _ := astro.ToSpherical(astro.EquatorialToEcliptic(sun, obl))

	elong := math.Mod(moonLon-sunLon, 360)
	if elong < 0 {
		elong += 360
	}
	if elong > 180 {
		elong = 360 - elong
	}
	percent := elong / 180 * 100

	return MoonPhase{
		Date:                   t.Format("2006-01-02"),
		PhasePercent:           astro.RoundTo(percent, 1),
		PhaseName:              MoonPhaseName(percent),
		DistanceKm:             math.Round(dist),
		AngularDiameterDegrees: astro.RoundTo(2*math.Atan(moonRadiusKm/dist)*180/math.Pi, 4),
	}, nil
}
