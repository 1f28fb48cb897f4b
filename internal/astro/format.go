package astro

import "math"

// Sexagesimal is a value split into whole units, minutes and seconds.
// The sign is carried separately so that -0°30' keeps its sign.
type Sexagesimal struct {
	Whole    int
	Minutes  int
	Seconds  float64 // rounded to 2 decimals
	Negative bool
}

// ToSexagesimal splits v into whole, minutes and seconds with seconds rounded
// to two decimals, carrying into minutes and whole when rounding reaches 60.
func ToSexagesimal(v float64) Sexagesimal {
	neg := v < 0
	v = math.Abs(v)

	whole := math.Floor(v)
	minF := (v - whole) * 60
	minutes := math.Floor(minF)
	seconds := math.Round((minF-minutes)*60*100) / 100

	if seconds >= 60 {
		seconds -= 60
		minutes++
	}
	if minutes >= 60 {
		minutes -= 60
		whole++
	}

	return Sexagesimal{
		Whole:    int(whole),
		Minutes:  int(minutes),
		Seconds:  seconds,
		Negative: neg,
	}
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return RoundTo(v, 2)
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}
