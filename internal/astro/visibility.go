package astro

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Extinction model: below extinctionAltitude a body is dimmed by
// extinctionPerDegree magnitudes for every degree under it.
const (
	extinctionAltitude  = 10.0
	extinctionPerDegree = 0.2
)

// VisibilityLimits bounds what counts as visible. A nil MaxMagnitude
// disables the brightness checks.
type VisibilityLimits struct {
	MinAltitude  float64
	MaxMagnitude *float64
}

// MaxMag is a convenience for building VisibilityLimits.
func MaxMag(m float64) *float64 { return &m }

// IsVisible reports whether a body at altDeg with the given magnitude passes
// the horizon, brightness and extinction checks. magnitude may be nil.
func IsVisible(altDeg float64, magnitude *float64, limits VisibilityLimits) bool {
	if altDeg < limits.MinAltitude {
		return false
	}
	if magnitude == nil || limits.MaxMagnitude == nil {
		return true
	}
	if *magnitude > *limits.MaxMagnitude {
		return false
	}
	if altDeg < extinctionAltitude {
		effective := *magnitude + (extinctionAltitude-altDeg)*extinctionPerDegree
		if effective > *limits.MaxMagnitude {
			return false
		}
	}
	return true
}

// compassPoints are the eight principal directions, clockwise from north.
var compassPoints = [8]string{
	"North", "Northeast", "East", "Southeast",
	"South", "Southwest", "West", "Northwest",
}

// AzimuthToDirection converts an azimuth in degrees to the nearest of the
// eight compass points. The intercardinal names are the clockwise composites
// of their neighbours (45° is "Northeast"), and an azimuth exactly halfway
// between two points takes the counterclockwise one.
func AzimuthToDirection(azDeg float64) string {
	az := normalizeAngle360(azDeg)
	idx := int(math.Ceil(az/45-0.5)) % 8
	return compassPoints[idx]
}

// AltitudeBand describes how high above the horizon an altitude is.
func AltitudeBand(altDeg float64) string {
	switch {
	case altDeg < 0:
		return "below the horizon"
	case altDeg < 15:
		return "low"
	case altDeg < 45:
		return "at medium height"
	case altDeg < 75:
		return "high"
	default:
		return "almost directly overhead"
	}
}

// SkyPositionPhrase renders a plain-language position such as
// "looking Southeast, low (12.3°)".
func SkyPositionPhrase(altDeg, azDeg float64) string {
	return fmt.Sprintf("looking %s, %s (%.1f°)", AzimuthToDirection(azDeg), AltitudeBand(altDeg), altDeg)
}

// ElevationTier categorizes elevation for UI display.
type ElevationTier int

const (
	ElevationNone   ElevationTier = iota // Below horizon
	ElevationLow                         // 0-15 degrees
	ElevationMedium                      // 15-45 degrees
	ElevationHigh                        // 45+ degrees
)

// GetElevationTier returns the tier for a given elevation.
func GetElevationTier(elDeg float64) ElevationTier {
	switch {
	case elDeg <= 0:
		return ElevationNone
	case elDeg < 15:
		return ElevationLow
	case elDeg < 45:
		return ElevationMedium
	default:
		return ElevationHigh
	}
}

// ElevationSample is a body's elevation at one instant.
type ElevationSample struct {
	Time  time.Time
	ElDeg float64
}

// VisibilityWindow represents a rise-transit-set cycle for an object.
type VisibilityWindow struct {
	Rise          time.Time // Zero if the body was already up at the first sample
	Transit       time.Time
	Set           time.Time // Zero if the body was still up at the last sample
	MaxElevation  float64
	AlwaysVisible bool // Never sets within the samples
	NeverVisible  bool // Never rises within the samples
}

// ErrInsufficientSamples is returned when too few samples are supplied.
var ErrInsufficientSamples = errors.New("insufficient samples for visibility calculation")

// RiseSet finds horizon crossings and the transit in chronologically ordered
// elevation samples, interpolating linearly between neighbours and
// parabolically around the peak.
func RiseSet(samples []ElevationSample) (VisibilityWindow, error) {
	if len(samples) < 3 {
		return VisibilityWindow{}, ErrInsufficientSamples
	}

	minEl, maxEl, maxIdx := samples[0].ElDeg, samples[0].ElDeg, 0
	for i, s := range samples {
		if s.ElDeg < minEl {
			minEl = s.ElDeg
		}
		if s.ElDeg > maxEl {
			maxEl, maxIdx = s.ElDeg, i
		}
	}

	if maxEl <= 0 {
		return VisibilityWindow{NeverVisible: true, MaxElevation: maxEl}, nil
	}

	var w VisibilityWindow
	w.Transit, w.MaxElevation = refinePeak(samples, maxIdx)
	if minEl > 0 {
		w.AlwaysVisible = true
		return w, nil
	}

	riseIdx := -1
	for i := 1; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]
		if prev.ElDeg <= 0 && curr.ElDeg > 0 {
			w.Rise = interpolateCrossing(prev, curr)
			riseIdx = i
			break
		}
	}
	for i := max(riseIdx+1, 1); i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]
		if prev.ElDeg > 0 && curr.ElDeg <= 0 {
			w.Set = interpolateCrossing(prev, curr)
			break
		}
	}
	return w, nil
}

// refinePeak fits a parabola through the maximum and its neighbours.
func refinePeak(samples []ElevationSample, i int) (time.Time, float64) {
	if i == 0 || i == len(samples)-1 {
		return samples[i].Time, samples[i].ElDeg
	}
	y0, y1, y2 := samples[i-1].ElDeg, samples[i].ElDeg, samples[i+1].ElDeg
	a := (y0+y2)/2 - y1
	b := (y2 - y0) / 2
	if a >= 0 {
		return samples[i].Time, y1
	}
	tMax := math.Max(-1, math.Min(1, -b/(2*a)))
	step := samples[i].Time.Sub(samples[i-1].Time)
	return samples[i].Time.Add(time.Duration(float64(step) * tMax)), a*tMax*tMax + b*tMax + y1
}

// interpolateCrossing finds when elevation crosses zero between two samples.
func interpolateCrossing(a, b ElevationSample) time.Time {
	if math.Abs(b.ElDeg-a.ElDeg) < 1e-4 {
		return a.Time
	}
	fraction := math.Max(0, math.Min(1, -a.ElDeg/(b.ElDeg-a.ElDeg)))
	return a.Time.Add(time.Duration(float64(b.Time.Sub(a.Time)) * fraction))
}
