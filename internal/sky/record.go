package sky

import (
	"fmt"
	"strings"

	"github.com/litescript/ls-sky/internal/astro"
)

// RightAscension is an hours/minutes/seconds split of RA.
type RightAscension struct {
	Hours    int     `json:"hours"`
	Minutes  int     `json:"minutes"`
	Seconds  float64 `json:"seconds"`
	Negative bool    `json:"negative"`
}

// Declination is a degrees/arcminutes/arcseconds split of Dec.
type Declination struct {
	Degrees    int     `json:"degrees"`
	Arcminutes int     `json:"arcminutes"`
	Arcseconds float64 `json:"arcseconds"`
	Negative   bool    `json:"negative"`
}

// String formats as 5h 35m 17.30s.
func (ra RightAscension) String() string {
	s := fmt.Sprintf("%dh %dm %.2fs", ra.Hours, ra.Minutes, ra.Seconds)
	if ra.Negative {
		return "-" + s
	}
	return s
}

// String formats as -5° 23' 28.00".
func (d Declination) String() string {
	s := fmt.Sprintf("%d° %d' %.2f\"", d.Degrees, d.Arcminutes, d.Arcseconds)
	if d.Negative {
		return "-" + s
	}
	return s
}

// FormatRADec splits RA hours and Dec degrees into sexagesimal parts with
// seconds rounded to two decimals.
func FormatRADec(raHours, decDeg float64) (RightAscension, Declination) {
	r := astro.ToSexagesimal(raHours)
	d := astro.ToSexagesimal(decDeg)
	return RightAscension{Hours: r.Whole, Minutes: r.Minutes, Seconds: r.Seconds, Negative: r.Negative},
		Declination{Degrees: d.Whole, Arcminutes: d.Minutes, Arcseconds: d.Seconds, Negative: d.Negative}
}

// PositionRecord is one body's apparent place for an observer.
type PositionRecord struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Altitude      float64 `json:"altitude"`
	Azimuth       float64 `json:"azimuth"`
	Magnitude     float64 `json:"magnitude"`
	Constellation string  `json:"constellation"`
	DistanceKm    float64 `json:"distanceKm"`

	// SunSeparation is the angular distance from the Sun in degrees. It is
	// nil for the Sun itself.
	SunSeparation *float64 `json:"sunSeparation,omitempty"`

	RightAscension *RightAscension `json:"rightAscension,omitempty"`
	Declination    *Declination    `json:"declination,omitempty"`

	// Simulated marks bodies placed by a placeholder orbit.
	Simulated bool `json:"isSimulated"`
}

// Visible applies the horizon and extinction rules with the given limits.
func (r PositionRecord) Visible(limits astro.VisibilityLimits) bool {
	mag := r.Magnitude
	return astro.IsVisible(r.Altitude, &mag, limits)
}

// NakedEyeLimit is the faintest magnitude seen without optics under a dark sky.
const NakedEyeLimit = 6.0

var nakedEye = astro.VisibilityLimits{MaxMagnitude: astro.MaxMag(NakedEyeLimit)}

// SunTier classifies the separation from the Sun. Records without a
// separation count as safe.
func (r PositionRecord) SunTier() astro.SunSeparationTier {
	if r.SunSeparation == nil {
		return astro.SunSepSafe
	}
	return astro.GetSunSeparationTier(*r.SunSeparation)
}

// InGlare reports whether the body is lost in the Sun's glare.
func (r PositionRecord) InGlare() bool {
	return r.SunTier() == astro.SunSepWarning
}

// NakedEye reports whether the body can be seen without optics: above the
// horizon, bright enough after extinction and clear of solar glare.
func (r PositionRecord) NakedEye() bool {
	return r.Visible(nakedEye) && !r.InGlare()
}

// Sighting is the short visibility label used in tables.
func (r PositionRecord) Sighting() string {
	switch {
	case r.InGlare():
		return "glare"
	case r.NakedEye():
		return "yes"
	default:
		return "no"
	}
}

// Direction returns the compass point of the azimuth.
func (r PositionRecord) Direction() string {
	return astro.AzimuthToDirection(r.Azimuth)
}

// Phrase returns the plain-language pointing hint.
func (r PositionRecord) Phrase() string {
	return astro.SkyPositionPhrase(r.Altitude, r.Azimuth)
}

// FormatBodyInfo renders a one-line summary, plus RA/Dec lines when detailed
// is set and coordinates are present.
func FormatBodyInfo(r PositionRecord, detailed bool) string {
	var b strings.Builder
	b.WriteString(r.Name)
	fmt.Fprintf(&b, ": Altitude %.1f°, Azimuth %.1f°", r.Altitude, r.Azimuth)
	fmt.Fprintf(&b, ", Magnitude %.1f", r.Magnitude)
	if r.Constellation != "" {
		fmt.Fprintf(&b, ", in %s", r.Constellation)
	}
	if r.SunSeparation != nil && r.InGlare() {
		fmt.Fprintf(&b, ", lost in solar glare (%.1f° from the Sun)", *r.SunSeparation)
	}
	if detailed && r.RightAscension != nil && r.Declination != nil {
		fmt.Fprintf(&b, "\nRight Ascension: %s", r.RightAscension)
		fmt.Fprintf(&b, "\nDeclination: %s", r.Declination)
	}
	return b.String()
}
