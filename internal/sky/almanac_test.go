package sky

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMoonPhaseName(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{0, "New Moon"},
		{0.99, "New Moon"},
		{1, "Waxing Crescent"},
		{24.9, "Waxing Crescent"},
		{25, "First Quarter"},
		{49, "First Quarter"},
		{50, "First Quarter"},
		{51, "Waxing Gibbous"},
		{74.9, "Waxing Gibbous"},
		{75, "Full Moon"},
		{98.9, "Full Moon"},
		{99.5, "Waning Gibbous"},
		{100, "Last Quarter"},
	}

	for _, tc := range tests {
		if got := MoonPhaseName(tc.percent); got != tc.want {
			t.Errorf("MoonPhaseName(%v) = %q, want %q", tc.percent, got, tc.want)
		}
	}
}

func TestGetMoonPhase(t *testing.T) {
	e := newTestEngine(t, testDataset(t), nil, nil)

	tests := []struct {
		name     string
		at       time.Time
		min, max float64
		wantName string
		wantDate string
	}{
		{"new moon", time.Date(2024, 4, 8, 18, 21, 0, 0, time.UTC), 0, 1, "New Moon", "2024-04-08"},
		{"first quarter", time.Date(2024, 3, 17, 4, 11, 0, 0, time.UTC), 49, 51, "First Quarter", "2024-03-17"},
		{"crescent", time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), 5, 25, "Waxing Crescent", "2024-03-13"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := e.GetMoonPhase(tc.at)
			if err != nil {
				t.Fatalf("GetMoonPhase() error = %v", err)
			}
			if p.PhasePercent < tc.min || p.PhasePercent > tc.max {
				t.Errorf("percent = %v, want [%v, %v]", p.PhasePercent, tc.min, tc.max)
			}
			if p.PhaseName != tc.wantName {
				t.Errorf("name = %q, want %q", p.PhaseName, tc.wantName)
			}
			if p.Date != tc.wantDate {
				t.Errorf("date = %q, want %q", p.Date, tc.wantDate)
			}
			if p.DistanceKm < 356000 || p.DistanceKm > 407000 {
				t.Errorf("distance = %v km", p.DistanceKm)
			}
			if p.AngularDiameterDegrees < 0.48 || p.AngularDiameterDegrees > 0.57 {
				t.Errorf("angular diameter = %v°", p.AngularDiameterDegrees)
			}
		})
	}
}

func TestGetMoonPhase_DefaultsToNow(t *testing.T) {
	e := newTestEngine(t, testDataset(t), nil, nil)
	p, err := e.GetMoonPhase(time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if p.Date != fixedInstant.Format("2006-01-02") {
		t.Errorf("date = %q, want the injected clock's date", p.Date)
	}
}

func parseClock(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse("15:04:05", s)
	if err != nil {
		t.Fatalf("bad clock string %q: %v", s, err)
	}
	return v
}

func TestGetTwilightTimes(t *testing.T) {
	e := newTestEngine(t, testDataset(t), nil, nil)
	solstice := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)

	civil, err := e.GetTwilightTimes(40.7128, -74.006, solstice, "civil")
	if err != nil {
		t.Fatalf("GetTwilightTimes() error = %v", err)
	}
	if civil.Type != TwilightCivil || civil.Date != "2024-06-21" {
		t.Errorf("result = %+v", civil)
	}
	if civil.Dawn == "" || civil.Dusk == "" || civil.Error != "" {
		t.Fatalf("missing times: %+v", civil)
	}
	// Civil dawn in New York is about 04:55 EDT.
	if h := parseClock(t, civil.Dawn).Hour(); h != 8 && h != 9 {
		t.Errorf("civil dawn = %s UTC", civil.Dawn)
	}

	astro, err := e.GetTwilightTimes(40.7128, -74.006, solstice, "Astronomical")
	if err != nil {
		t.Fatal(err)
	}
	if astro.Type != TwilightAstronomical || astro.Dawn == "" {
		t.Fatalf("astronomical = %+v", astro)
	}
	if !parseClock(t, astro.Dawn).Before(parseClock(t, civil.Dawn)) {
		t.Errorf("astronomical dawn %s not before civil dawn %s", astro.Dawn, civil.Dawn)
	}
}

func TestGetTwilightTimes_InvalidTypeFallsBackToCivil(t *testing.T) {
	e := newTestEngine(t, testDataset(t), nil, nil)
	at := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	got, err := e.GetTwilightTimes(40.7128, -74.006, at, "golden-hour")
	if err != nil {
		t.Fatal(err)
	}
	want, _ := e.GetTwilightTimes(40.7128, -74.006, at, "civil")
	if got != want {
		t.Errorf("fallback = %+v, want %+v", got, want)
	}
}

func TestGetTwilightTimes_PolarDay(t *testing.T) {
	e := newTestEngine(t, testDataset(t), nil, nil)
	tromso := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)

	got, err := e.GetTwilightTimes(69.6492, 18.9553, tromso, "astronomical")
	if err != nil {
		t.Fatalf("GetTwilightTimes() error = %v", err)
	}
	if got.Dawn != "" || got.Dusk != "" {
		t.Errorf("polar day produced times: %+v", got)
	}
	if !strings.Contains(got.Error, "dawn") {
		t.Errorf("error = %q, want the dawn failure", got.Error)
	}
}

func TestGetTwilightTimes_InvalidLocation(t *testing.T) {
	e := newTestEngine(t, testDataset(t), nil, nil)
	if _, err := e.GetTwilightTimes(95, 0, fixedInstant, "civil"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestParseTwilightType(t *testing.T) {
	tests := []struct {
		in   string
		want TwilightType
		ok   bool
	}{
		{"civil", TwilightCivil, true},
		{"NAUTICAL", TwilightNautical, true},
		{" astronomical ", TwilightAstronomical, true},
		{"", TwilightCivil, false},
		{"blue", TwilightCivil, false},
	}

	for _, tc := range tests {
		got, ok := ParseTwilightType(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseTwilightType(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseInstant(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2024-03-15T21:00:00Z", time.Date(2024, 3, 15, 21, 0, 0, 0, time.UTC), false},
		{"2024-03-15T17:00:00-04:00", time.Date(2024, 3, 15, 21, 0, 0, 0, time.UTC), false},
		{"2024-03-15T21:00:00", time.Date(2024, 3, 15, 21, 0, 0, 0, time.UTC), false},
		{"2024-03-15T21:00", time.Date(2024, 3, 15, 21, 0, 0, 0, time.UTC), false},
		{"2024-03-15 21:00:30", time.Date(2024, 3, 15, 21, 0, 30, 0, time.UTC), false},
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"2024-03-15T21:00:00.250Z", time.Date(2024, 3, 15, 21, 0, 0, 250e6, time.UTC), false},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, true},
		{"2024-13-01", time.Time{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseInstant(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("error = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ParseInstant(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
