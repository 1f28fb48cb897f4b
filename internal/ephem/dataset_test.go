package ephem

import (
	"errors"
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/litescript/ls-sky/internal/astro"
)

var testTime = time.Date(2024, 3, 15, 3, 0, 0, 0, time.UTC)

var newYork = astro.Observer{LatDeg: 40.7128, LonDeg: -74.0060, Name: "New York"}

func loadTestDataset(t *testing.T, opts Options) *Dataset {
	t.Helper()
	d, err := Load(opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return d
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		input    string
		expected Source
	}{
		{"analytic", SourceAnalytic},
		{"VSOP87", SourceVSOP87},
		{"auto", SourceAuto},
		{"", SourceAuto},
		{"jpl", SourceAuto},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := ParseSource(tc.input); got != tc.expected {
				t.Errorf("ParseSource(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}

	if got := Source(9).String(); got != "unknown" {
		t.Errorf("Source(9).String() = %q, want unknown", got)
	}
}

func TestLoad_AllBodiesAvailable(t *testing.T) {
	d := loadTestDataset(t, Options{})

	if got := len(d.Bodies()); got != 27 {
		t.Fatalf("Bodies() = %d, want 27", got)
	}
	if d.Name() != "meeus analytic" {
		t.Errorf("Name() = %q", d.Name())
	}
	for _, b := range AllBodies() {
		if !d.Available(b) {
			t.Errorf("%s not available", b)
		}
	}
	if d.Available(Body(99)) {
		t.Error("invalid body reported available")
	}
}

func TestLoad_Exclude(t *testing.T) {
	d := loadTestDataset(t, Options{Exclude: []string{"jupiter", "Nereid"}})

	for _, b := range []Body{Jupiter, Io, Europa, Ganymede, Callisto, Nereid} {
		if d.Available(b) {
			t.Errorf("%s should be unavailable", b)
		}
	}
	if got := len(d.Bodies()); got != 21 {
		t.Errorf("Bodies() = %d, want 21", got)
	}

	_, err := d.PositionVector(Io, testTime, newYork)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("PositionVector(Io) error = %v, want ErrDataUnavailable", err)
	}
	var due *DataUnavailableError
	if !errors.As(err, &due) || due.Body != Io {
		t.Errorf("error %v is not a DataUnavailableError for Io", err)
	}
	if _, err := d.HeliocentricVector(Jupiter, testTime); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("HeliocentricVector(Jupiter) error = %v, want ErrDataUnavailable", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(Options{Exclude: []string{"Vulcan"}}); err == nil {
		t.Error("unknown exclude name accepted")
	}
	if _, err := Load(Options{Source: SourceVSOP87}); err == nil {
		t.Error("vsop87 source without a directory accepted")
	}
	if _, err := Load(Options{VSOP87Dir: t.TempDir()}); err == nil {
		t.Error("empty VSOP87 directory accepted")
	}
}

func TestLoadShared_Once(t *testing.T) {
	a, err := LoadShared(Options{})
	if err != nil {
		t.Fatalf("LoadShared() error = %v", err)
	}
	b, _ := LoadShared(Options{Exclude: []string{"Moon"}})
	if a != b {
		t.Error("LoadShared returned different datasets")
	}
	if !b.Available(Moon) {
		t.Error("second call options should be ignored")
	}
}

func TestHeliocentricDistances(t *testing.T) {
	d := loadTestDataset(t, Options{})

	tests := []struct {
		body     Body
		min, max float64 // AU
	}{
		{Sun, 0, 0},
		{Mercury, 0.30, 0.47},
		{Venus, 0.71, 0.73},
		{Moon, 0.98, 1.02},
		{Mars, 1.38, 1.67},
		{Jupiter, 4.95, 5.46},
		{Saturn, 9.0, 10.1},
		{Uranus, 18.3, 20.1},
		{Neptune, 29.8, 30.4},
		{Pluto, 33.5, 36.5},
		{Io, 4.95, 5.46},
		{Titan, 9.0, 10.1},
	}

	for _, tc := range tests {
		t.Run(tc.body.String(), func(t *testing.T) {
			v, err := d.HeliocentricVector(tc.body, testTime)
			if err != nil {
				t.Fatalf("HeliocentricVector() error = %v", err)
			}
			r := r3.Norm(v)
			if r < tc.min || r > tc.max {
				t.Errorf("distance = %.4f AU, want [%v, %v]", r, tc.min, tc.max)
			}
		})
	}
}

func TestGeocentric_Sun(t *testing.T) {
	d := loadTestDataset(t, Options{})

	// Near perihelion.
	at := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	v, err := d.GeocentricVector(Sun, at)
	if err != nil {
		t.Fatalf("GeocentricVector() error = %v", err)
	}
	if got := r3.Norm(v) / astro.AU; math.Abs(got-0.9833) > 0.001 {
		t.Errorf("Sun distance = %.5f AU, want ~0.9833", got)
	}

	ra, dec := astro.RADec(v)
	wantRA, wantDec := astro.SunPosition(at)
	if math.Abs(ra*15-wantRA) > 1e-6 || math.Abs(dec-wantDec) > 1e-6 {
		t.Errorf("Sun RA/Dec = %v/%v, want %v/%v", ra*15, dec, wantRA, wantDec)
	}
}

func TestGeocentric_InnerPlanetElongation(t *testing.T) {
	d := loadTestDataset(t, Options{})
	sun, _ := d.GeocentricVector(Sun, testTime)
	sunRA, sunDec := astro.RADec(sun)

	tests := []struct {
		body   Body
		maxDeg float64
	}{
		{Mercury, 28.5},
		{Venus, 47.5},
	}

	for _, tc := range tests {
		t.Run(tc.body.String(), func(t *testing.T) {
			v, err := d.GeocentricVector(tc.body, testTime)
			if err != nil {
				t.Fatalf("GeocentricVector() error = %v", err)
			}
			ra, dec := astro.RADec(v)
			if sep := astro.AngularSeparation(ra*15, dec, sunRA*15, sunDec); sep > tc.maxDeg {
				t.Errorf("elongation = %.2f°, want <= %v", sep, tc.maxDeg)
			}
		})
	}
}

func TestPositionVector_Moon(t *testing.T) {
	d := loadTestDataset(t, Options{})

	pos, err := d.PositionVector(Moon, testTime, newYork)
	if err != nil {
		t.Fatalf("PositionVector() error = %v", err)
	}
	geo := r3.Norm(pos.Geocentric)
	if geo < 356000 || geo > 407000 {
		t.Errorf("geocentric distance = %.0f km", geo)
	}
	// Topocentric and geocentric differ by the observer's position vector.
	if diff := r3.Norm(r3.Sub(pos.Geocentric, pos.Topocentric)); diff < 6350 || diff > 6380 {
		t.Errorf("parallax offset = %.1f km, want about one Earth radius", diff)
	}
	if pos.DistanceKm() != r3.Norm(pos.Topocentric) {
		t.Error("DistanceKm() does not match topocentric norm")
	}
	if pos.Simulated {
		t.Error("Moon should not be simulated")
	}
}

func TestPositionVector_Satellites(t *testing.T) {
	d := loadTestDataset(t, Options{})

	tests := []struct {
		body      Body
		maxOffKm  float64
		simulated bool
	}{
		{Io, 6.0 * jupiterRadiusKm, false},
		{Callisto, 27 * jupiterRadiusKm, false},
		{Titan, 1221870 + 1, true},
		{Triton, 354759 + 1, true},
	}

	for _, tc := range tests {
		t.Run(tc.body.String(), func(t *testing.T) {
			pos, err := d.PositionVector(tc.body, testTime, newYork)
			if err != nil {
				t.Fatalf("PositionVector() error = %v", err)
			}
			host, err := d.GeocentricVector(tc.body.Info().Parent, testTime)
			if err != nil {
				t.Fatalf("parent error = %v", err)
			}
			off := r3.Norm(r3.Sub(pos.Geocentric, host))
			if off > tc.maxOffKm || off == 0 {
				t.Errorf("offset from parent = %.0f km, want (0, %.0f]", off, tc.maxOffKm)
			}
			if pos.Simulated != tc.simulated {
				t.Errorf("Simulated = %v, want %v", pos.Simulated, tc.simulated)
			}
		})
	}
}

func TestCircularOffset_Period(t *testing.T) {
	o := circularOrbits[Titan]
	jde := 2460000.5
	a := circularOffset(o, jde)
	b := circularOffset(o, jde+o.PeriodDays)
	if d := r3.Norm(r3.Sub(a, b)); d > 1 {
		t.Errorf("offset after one period moved %.3f km", d)
	}
	if r := r3.Norm(a); math.Abs(r-o.RadiusKm) > 1e-6*o.RadiusKm {
		t.Errorf("radius = %v, want %v", r, o.RadiusKm)
	}
}

func TestSkyPlaneOffset_Perpendicular(t *testing.T) {
	host := astro.FromSpherical(123, -17, 6e8)
	off := skyPlaneOffset(host, 1000, -500)
	if dot := r3.Dot(r3.Unit(host), off); math.Abs(dot) > 1e-6 {
		t.Errorf("offset not in the sky plane: dot = %v", dot)
	}
	if n := r3.Norm(off); math.Abs(n-math.Hypot(1000, 500)) > 1e-6 {
		t.Errorf("offset length = %v", n)
	}
}

func TestEarthHelio_Analytic(t *testing.T) {
	d := &Dataset{}

	tests := []struct {
		name   string
		at     time.Time
		lon    float64
		radius float64
	}{
		// Sun at the vernal equinox, Earth on the opposite side.
		{"march equinox", time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC), 180, 0.996},
		{"perihelion", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), 102.6, 0.9833},
		{"aphelion", time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC), 283.2, 1.0167},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := d.earthHelio(astro.JulianDate(tc.at))
			lon, lat, r := astro.ToSpherical(v)
			if diff := math.Abs(math.Remainder(lon-tc.lon, 360)); diff > 0.5 {
				t.Errorf("longitude = %.2f°, want %.2f°", lon, tc.lon)
			}
			if math.Abs(lat) > 1e-9 {
				t.Errorf("latitude = %v, want 0", lat)
			}
			if math.Abs(r-tc.radius) > 0.002 {
				t.Errorf("radius = %.4f AU, want %.4f", r, tc.radius)
			}
		})
	}
}
