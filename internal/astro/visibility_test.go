package astro

import (
	"math"
	"testing"
	"time"
)

func TestIsVisible(t *testing.T) {
	mag := func(m float64) *float64 { return &m }

	tests := []struct {
		name   string
		alt    float64
		mag    *float64
		limits VisibilityLimits
		want   bool
	}{
		{"below horizon", -0.1, nil, VisibilityLimits{}, false},
		{"below horizon bright", -5, mag(-26.7), VisibilityLimits{MaxMagnitude: MaxMag(6)}, false},
		{"on horizon", 0, nil, VisibilityLimits{}, true},
		{"under custom minimum", 9, mag(0), VisibilityLimits{MinAltitude: 10}, false},
		{"too faint", 40, mag(7.9), VisibilityLimits{MaxMagnitude: MaxMag(6)}, false},
		{"bright and high", 40, mag(-4.2), VisibilityLimits{MaxMagnitude: MaxMag(6)}, true},
		{"exactly at limit", 40, mag(6), VisibilityLimits{MaxMagnitude: MaxMag(6)}, true},
		// 5.7 + (10-2)*0.2 = 7.3
		{"extinction dims low body", 2, mag(5.7), VisibilityLimits{MaxMagnitude: MaxMag(6)}, false},
		// 1.2 + (10-5)*0.2 = 2.2
		{"extinction tolerated", 5, mag(1.2), VisibilityLimits{MaxMagnitude: MaxMag(6)}, true},
		{"no magnitude limit ignores magnitude", 1, mag(30), VisibilityLimits{}, true},
		{"no magnitude ignores limit", 1, nil, VisibilityLimits{MaxMagnitude: MaxMag(-30)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsVisible(tt.alt, tt.mag, tt.limits); got != tt.want {
				t.Errorf("IsVisible(%v) = %v, want %v", tt.alt, got, tt.want)
			}
		})
	}
}

func TestIsVisible_NegativeAltitudeNeverVisible(t *testing.T) {
	limits := VisibilityLimits{MaxMagnitude: MaxMag(30)}
	for alt := -90.0; alt < 0; alt += 0.5 {
		for m := -30.0; m <= 30; m += 5 {
			m := m
			if IsVisible(alt, &m, limits) {
				t.Fatalf("IsVisible(%v, %v) = true, want false", alt, m)
			}
		}
	}
}

func TestIsVisible_HighAndBrightEnough(t *testing.T) {
	limits := VisibilityLimits{MaxMagnitude: MaxMag(6)}
	for alt := 10.0; alt <= 90; alt += 5 {
		for m := -27.0; m <= 6; m += 1.5 {
			m := m
			if !IsVisible(alt, &m, limits) {
				t.Fatalf("IsVisible(%v, %v) = false, want true", alt, m)
			}
		}
	}
}

func TestIsVisible_Monotone(t *testing.T) {
	limits := VisibilityLimits{MaxMagnitude: MaxMag(4)}
	for m := -2.0; m <= 6; m += 0.25 {
		m := m
		seen := false
		for alt := -5.0; alt <= 90; alt += 0.5 {
			v := IsVisible(alt, &m, limits)
			if seen && !v {
				t.Fatalf("magnitude %v became invisible rising to %v°", m, alt)
			}
			seen = seen || v
		}
	}
}

func TestAzimuthToDirection(t *testing.T) {
	tests := []struct {
		az   float64
		want string
	}{
		{0, "North"},
		{10, "North"},
		{22.5, "North"},
		{22.6, "Northeast"},
		{45, "Northeast"},
		{90, "East"},
		{135, "Southeast"},
		{180, "South"},
		{200, "South"},
		{225, "Southwest"},
		{270, "West"},
		{315, "Northwest"},
		{337.5, "Northwest"},
		{350, "North"},
		{359.99, "North"},
		{360, "North"},
		{-45, "Northwest"},
	}

	for _, tt := range tests {
		if got := AzimuthToDirection(tt.az); got != tt.want {
			t.Errorf("AzimuthToDirection(%v) = %q, want %q", tt.az, got, tt.want)
		}
	}
}

func TestAzimuthToDirection_Periodic(t *testing.T) {
	for az := 0.0; az < 360; az += 7.3 {
		if a, b := AzimuthToDirection(az), AzimuthToDirection(az+360); a != b {
			t.Errorf("AzimuthToDirection(%v) = %q but (%v) = %q", az, a, az+360, b)
		}
	}
	if AzimuthToDirection(370) != AzimuthToDirection(10) {
		t.Error("370 and 10 should map to the same direction")
	}
}

func TestAltitudeBand(t *testing.T) {
	tests := []struct {
		alt  float64
		want string
	}{
		{-1, "below the horizon"},
		{0, "low"},
		{14.9, "low"},
		{15, "at medium height"},
		{44.9, "at medium height"},
		{45, "high"},
		{74.9, "high"},
		{75, "almost directly overhead"},
		{90, "almost directly overhead"},
	}

	for _, tt := range tests {
		if got := AltitudeBand(tt.alt); got != tt.want {
			t.Errorf("AltitudeBand(%v) = %q, want %q", tt.alt, got, tt.want)
		}
	}
}

func TestSkyPositionPhrase(t *testing.T) {
	tests := []struct {
		alt, az float64
		want    string
	}{
		{12.34, 135, "looking Southeast, low (12.3°)"},
		{-3.26, 270, "looking West, below the horizon (-3.3°)"},
		{80, 2, "looking North, almost directly overhead (80.0°)"},
	}

	for _, tt := range tests {
		if got := SkyPositionPhrase(tt.alt, tt.az); got != tt.want {
			t.Errorf("SkyPositionPhrase(%v, %v) = %q, want %q", tt.alt, tt.az, got, tt.want)
		}
	}
}

func TestGetElevationTier(t *testing.T) {
	tests := []struct {
		el   float64
		want ElevationTier
	}{
		{-10, ElevationNone},
		{0, ElevationNone},
		{5, ElevationLow},
		{15, ElevationMedium},
		{44.9, ElevationMedium},
		{45, ElevationHigh},
		{90, ElevationHigh},
	}

	for _, tt := range tests {
		if got := GetElevationTier(tt.el); got != tt.want {
			t.Errorf("GetElevationTier(%v) = %v, want %v", tt.el, got, tt.want)
		}
	}
}

// sineSamples builds an elevation curve el(t) = amp*sin(2πt/24h) + offset
// sampled hourly for 25 hours.
func sineSamples(start time.Time, amp, offset float64) []ElevationSample {
	out := make([]ElevationSample, 25)
	for i := range out {
		out[i] = ElevationSample{
			Time:  start.Add(time.Duration(i) * time.Hour),
			ElDeg: amp*math.Sin(2*math.Pi*float64(i)/24) + offset,
		}
	}
	return out
}

func TestRiseSet_Basic(t *testing.T) {
	start := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	// Starts at the horizon going up, peaks at 6h, sets at 12h.
	samples := sineSamples(start, 40, 0)
	samples[0].ElDeg = -0.5

	w, err := RiseSet(samples)
	if err != nil {
		t.Fatalf("RiseSet() error = %v", err)
	}
	if w.AlwaysVisible || w.NeverVisible {
		t.Fatalf("unexpected flags: %+v", w)
	}
	if d := w.Transit.Sub(start.Add(6 * time.Hour)); d < -10*time.Minute || d > 10*time.Minute {
		t.Errorf("Transit = %v, want ~06:00", w.Transit)
	}
	if math.Abs(w.MaxElevation-40) > 0.5 {
		t.Errorf("MaxElevation = %v, want ~40", w.MaxElevation)
	}
	if w.Rise.IsZero() || w.Rise.After(start.Add(time.Hour)) {
		t.Errorf("Rise = %v, want within the first hour", w.Rise)
	}
	if d := w.Set.Sub(start.Add(12 * time.Hour)); d < -time.Minute || d > time.Minute {
		t.Errorf("Set = %v, want ~12:00", w.Set)
	}
}

func TestRiseSet_Circumpolar(t *testing.T) {
	w, err := RiseSet(sineSamples(time.Now(), 10, 30))
	if err != nil {
		t.Fatal(err)
	}
	if !w.AlwaysVisible {
		t.Errorf("expected AlwaysVisible, got %+v", w)
	}
}

func TestRiseSet_NeverVisible(t *testing.T) {
	w, err := RiseSet(sineSamples(time.Now(), 10, -30))
	if err != nil {
		t.Fatal(err)
	}
	if !w.NeverVisible {
		t.Errorf("expected NeverVisible, got %+v", w)
	}
}

func TestRiseSet_InsufficientSamples(t *testing.T) {
	if _, err := RiseSet(make([]ElevationSample, 2)); err != ErrInsufficientSamples {
		t.Errorf("RiseSet() error = %v, want ErrInsufficientSamples", err)
	}
}

func TestInterpolateCrossing(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got := interpolateCrossing(
		ElevationSample{Time: t0, ElDeg: -10},
		ElevationSample{Time: t0.Add(time.Hour), ElDeg: 10},
	)
	if want := t0.Add(30 * time.Minute); !got.Equal(want) {
		t.Errorf("interpolateCrossing() = %v, want %v", got, want)
	}
}
