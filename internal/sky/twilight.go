package sky

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sj14/astral/pkg/astral"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/cache"
)

// TwilightType selects the solar depression that bounds twilight.
type TwilightType string

const (
	TwilightCivil        TwilightType = "civil"        // 6°
	TwilightNautical     TwilightType = "nautical"     // 12°
	TwilightAstronomical TwilightType = "astronomical" // 18°
)

// Depression returns the Sun's angle below the horizon that bounds t.
func (t TwilightType) Depression() float64 {
	switch t {
	case TwilightNautical:
		return 12
	case TwilightAstronomical:
		return 18
	default:
		return 6
	}
}

// ParseTwilightType reports whether s names a twilight type.
func ParseTwilightType(s string) (TwilightType, bool) {
	switch t := TwilightType(strings.ToLower(strings.TrimSpace(s))); t {
	case TwilightCivil, TwilightNautical, TwilightAstronomical:
		return t, true
	}
	return TwilightCivil, false
}

// Twilight holds dawn and dusk as HH:MM:SS UTC. A missing time means the
// Sun never crosses that depression on the date.
type Twilight struct {
	Type  TwilightType `json:"type"`
	Date  string       `json:"date"`
	Dawn  string       `json:"dawn,omitempty"`
	Dusk  string       `json:"dusk,omitempty"`
	Error string       `json:"error,omitempty"`
}

type twilightArgs struct {
	Lat, Lon float64
	Date     string
	Type     TwilightType
}

func (a twilightArgs) canonical() string {
	return cache.Canonical(a.Lat, a.Lon, a.Date, string(a.Type))
}

// GetTwilightTimes returns dawn and dusk for the UTC date of date. An
// unrecognised type falls back to civil twilight.
func (e *Engine) GetTwilightTimes(lat, lon float64, date time.Time, kind string) (Twilight, error) {
	defer e.observe("get_twilight_times", time.Now())

	if err := validateLocation(lat, lon, 0); err != nil {
		return Twilight{}, err
	}
	t, ok := ParseTwilightType(kind)
	if !ok {
		e.logger.Warn("invalid twilight type %q, using civil twilight", kind)
	}
	return e.twilight(twilightArgs{
		Lat:  lat,
		Lon:  lon,
		Date: e.resolveInstant(date).Format("2006-01-02"),
		Type: t,
	})
}

func (e *Engine) computeTwilight(a twilightArgs) (Twilight, error) {
	res := Twilight{Type: a.Type, Date: a.Date}
	day, err := time.ParseInLocation("2006-01-02", a.Date, time.UTC)
	if err != nil {
		return Twilight{}, &InvalidInputError{Field: "date", Value: a.Date, Reason: err.Error()}
	}

	obs := astral.Observer{Latitude: a.Lat, Longitude: a.Lon}
	depression := astral.DepressionCivil
	switch a.Type {
	case TwilightNautical:
		depression = astral.DepressionNautical
	case TwilightAstronomical:
		depression = astral.DepressionAstronomical
	}

	if lo, hi := solarAltitudeRange(a.Lat, day.Add(12*time.Hour)); lo > -a.Type.Depression() || hi < -a.Type.Depression() {
		res.Error = fmt.Sprintf("dawn: sun stays between %.1f° and %.1f° altitude; dusk: no %s twilight", lo, hi, a.Type)
		e.logger.Warn("twilight at %.4f,%.4f on %s: %s", a.Lat, a.Lon, a.Date, res.Error)
		return res, nil
	}

	var failures []string
	if dawn, err := astral.Dawn(obs, day, depression); err == nil {
		res.Dawn = dawn.UTC().Format("15:04:05")
	} else {
		failures = append(failures, "dawn: "+err.Error())
	}
	if dusk, err := astral.Dusk(obs, day, depression); err == nil {
		res.Dusk = dusk.UTC().Format("15:04:05")
	} else {
		failures = append(failures, "dusk: "+err.Error())
	}
	if len(failures) > 0 {
		res.Error = strings.Join(failures, "; ")
		e.logger.Warn("twilight at %.4f,%.4f on %s: %s", a.Lat, a.Lon, a.Date, res.Error)
	}
	return res, nil
}

// solarAltitudeRange returns the Sun's lower and upper culmination
// altitudes at latitude lat on the day containing t.
func solarAltitudeRange(lat float64, t time.Time) (lo, hi float64) {
	_, dec := astro.SunPosition(t)
	rad := math.Pi / 180
	lo = math.Asin(-math.Cos((lat+dec)*rad)) / rad
	hi = math.Asin(math.Cos((lat-dec)*rad)) / rad
	return lo, hi
}
