package neo

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

var today = time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

func testClassifier(seed int64) *Classifier {
	return NewClassifier(WithSeed(seed), WithClock(func() time.Time { return today }))
}

func approachOn(d time.Time) ApproachRecord {
	return ApproachRecord{ID: "3542519", Name: "(2010 PK9)", CloseApproachDate: d.Format("2006-01-02")}
}

func TestClassify_OutsideWindow(t *testing.T) {
	c := testClassifier(1)

	tests := []struct {
		name string
		days int
	}{
		{"ten days ahead", 10},
		{"ten days ago", -10},
		{"eight days ahead", 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := c.Classify(approachOn(today.AddDate(0, 0, tc.days)), 40.7, -74)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if v.Visible {
				t.Fatal("expected not visible")
			}
			abs := tc.days
			if abs < 0 {
				abs = -abs
			}
			want := "Not visible: approach date is " + strconv.Itoa(abs) + " days away from today"
			if v.Reason != want {
				t.Errorf("reason = %q, want %q", v.Reason, want)
			}
		})
	}
}

func TestClassify_InsideWindow(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		want []string
	}{
		{"high north", 60, []string{"South", "Southeast", "Southwest"}},
		{"mid north", 40.7, []string{"South", "Southeast", "Southwest", "East", "West"}},
		{"equator", 0, []string{"North", "Northeast", "Northwest", "East", "West"}},
		{"mid south", -33.9, []string{"North", "Northeast", "Northwest", "East", "West"}},
		{"high south", -60, []string{"North", "Northeast", "Northwest"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := testClassifier(42)
			for _, offset := range []int{0, 7, -7, 3} {
				v, err := c.Classify(approachOn(today.AddDate(0, 0, offset)), tc.lat, 0)
				if err != nil {
					t.Fatalf("Classify() error = %v", err)
				}
				if !v.Visible || v.Reason != "" {
					t.Fatalf("verdict = %+v, want visible", v)
				}
				if !contains(tc.want, v.Direction) {
					t.Errorf("direction %q not in %v", v.Direction, tc.want)
				}
				if az, _ := Azimuth(v.Direction); v.Azimuth != az {
					t.Errorf("azimuth = %d for %s, want %d", v.Azimuth, v.Direction, az)
				}
				if v.Elevation < MinElevation || v.Elevation > MaxElevation {
					t.Errorf("elevation = %d", v.Elevation)
				}
				if v.Note != Note {
					t.Errorf("note = %q", v.Note)
				}
			}
		})
	}
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func TestClassify_Seeded(t *testing.T) {
	rec := approachOn(today)
	a, b := testClassifier(7), testClassifier(7)
	for i := 0; i < 20; i++ {
		va, _ := a.Classify(rec, 40.7, -74)
		vb, _ := b.Classify(rec, 40.7, -74)
		if va != vb {
			t.Fatalf("draw %d differs: %+v vs %+v", i, va, vb)
		}
	}
}

func TestVisibility_JSONNorth(t *testing.T) {
	c := testClassifier(5)
	rec := approachOn(today)

	var v Visibility
	for i := 0; i < 200 && v.Direction != "North"; i++ {
		var err error
		if v, err = c.Classify(rec, -60, 0); err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
	}
	if v.Direction != "North" {
		t.Fatal("no North draw in 200 attempts")
	}

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"azimuth":0`) {
		t.Errorf("azimuth key missing from %s", data)
	}
	if !strings.Contains(string(data), `"elevation":`) {
		t.Errorf("elevation key missing from %s", data)
	}

	var back Visibility
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back != v {
		t.Errorf("round trip = %+v, want %+v", back, v)
	}
}

func TestClassify_CoversRange(t *testing.T) {
	c := testClassifier(3)
	rec := approachOn(today)
	seenDir := map[string]bool{}
	seenElev := map[int]bool{}
	for i := 0; i < 2000; i++ {
		v, _ := c.Classify(rec, 40.7, -74)
		seenDir[v.Direction] = true
		seenElev[v.Elevation] = true
	}
	if len(seenDir) != 5 {
		t.Errorf("directions drawn = %v", seenDir)
	}
	if !seenElev[MinElevation] || !seenElev[MaxElevation] || len(seenElev) != MaxElevation-MinElevation+1 {
		t.Errorf("drew %d distinct elevations", len(seenElev))
	}
}

func TestClassify_BadDate(t *testing.T) {
	c := testClassifier(1)
	_, err := c.Classify(ApproachRecord{Name: "x", CloseApproachDate: "2024-02-30"}, 0, 0)
	if !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("error = %v, want ErrInvalidRecord", err)
	}
}

func TestAzimuth(t *testing.T) {
	want := map[string]int{
		"North": 0, "Northeast": 45, "East": 90, "Southeast": 135,
		"South": 180, "Southwest": 225, "West": 270, "Northwest": 315,
	}
	for dir, az := range want {
		if got, ok := Azimuth(dir); !ok || got != az {
			t.Errorf("Azimuth(%s) = %d, %v", dir, got, ok)
		}
	}
	if _, ok := Azimuth("Up"); ok {
		t.Error("Azimuth(Up) reported ok")
	}
}

const flatJSON = `[
  {"id": "2465633", "name": "465633 (2009 JR5)", "close_approach_date": "2024-03-15",
   "orbiting_body": "Earth", "diameter_min_km": 0.2, "diameter_max_km": 0.4, "diameter_avg_km": 0.3,
   "miss_distance_km": 45290298.2, "miss_distance_lunar": 117.8, "miss_distance_astronomical": 0.3027,
   "velocity_km_per_hour": 65260.9, "is_potentially_hazardous": true,
   "nasa_jpl_url": "http://ssd.jpl.nasa.gov/sbdb.cgi?sstr=2465633"}
]`

const rawFeedYAML = `
element_count: 2
near_earth_objects:
  "2024-03-16":
    - id: "3726710"
      name: "(2015 RC)"
      nasa_jpl_url: "http://ssd.jpl.nasa.gov/sbdb.cgi?sstr=3726710"
      absolute_magnitude_h: 24.3
      is_potentially_hazardous_asteroid: false
      estimated_diameter:
        kilometers:
          estimated_diameter_min: 0.0366906138
          estimated_diameter_max: 0.0820427065
      close_approach_data:
        - close_approach_date: "2024-03-16"
          orbiting_body: Earth
          relative_velocity:
            kilometers_per_hour: "69111.4"
          miss_distance:
            kilometers: "34592716.2"
            lunar: "90.0"
            astronomical: "0.2312"
  "2024-03-15":
    - id: "2465633"
      name: "465633 (2009 JR5)"
      is_potentially_hazardous_asteroid: true
      estimated_diameter:
        kilometers:
          estimated_diameter_min: 0.2
          estimated_diameter_max: 0.4
`

func TestParseApproaches(t *testing.T) {
	t.Run("flat list", func(t *testing.T) {
		recs, err := ParseApproaches([]byte(flatJSON))
		if err != nil {
			t.Fatalf("ParseApproaches() error = %v", err)
		}
		if len(recs) != 1 {
			t.Fatalf("got %d records", len(recs))
		}
		r := recs[0]
		if r.ID != "2465633" || !r.IsPotentiallyHazardous || r.MissDistanceLunar != 117.8 || r.OrbitingBody != "Earth" {
			t.Errorf("record = %+v", r)
		}
	})

	t.Run("raw feed", func(t *testing.T) {
		recs, err := ParseApproaches([]byte(rawFeedYAML))
		if err != nil {
			t.Fatalf("ParseApproaches() error = %v", err)
		}
		if len(recs) != 2 {
			t.Fatalf("got %d records", len(recs))
		}
		if recs[0].CloseApproachDate != "2024-03-15" || recs[1].CloseApproachDate != "2024-03-16" {
			t.Errorf("not ordered by date: %s, %s", recs[0].CloseApproachDate, recs[1].CloseApproachDate)
		}
		r := recs[1]
		if r.VelocityKmPerHour != 69111.4 || r.MissDistanceKm != 34592716.2 || r.MissDistanceAU != 0.2312 {
			t.Errorf("approach fields = %+v", r)
		}
		if d := r.DiameterAvgKm - (0.0366906138+0.0820427065)/2; d > 1e-12 || d < -1e-12 {
			t.Errorf("diameter avg = %v", r.DiameterAvgKm)
		}
		if d := recs[0].DiameterAvgKm - 0.3; d > 1e-12 || d < -1e-12 {
			t.Errorf("diameter avg = %v", recs[0].DiameterAvgKm)
		}
	})

	t.Run("bad number", func(t *testing.T) {
		bad := strings.Replace(rawFeedYAML, `"90.0"`, `"ninety"`, 1)
		if _, err := ParseApproaches([]byte(bad)); !errors.Is(err, ErrInvalidRecord) {
			t.Errorf("error = %v, want ErrInvalidRecord", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		recs, err := ParseApproaches(nil)
		if err != nil || len(recs) != 0 {
			t.Errorf("ParseApproaches(nil) = %v, %v", recs, err)
		}
	})

	t.Run("scalar", func(t *testing.T) {
		if _, err := ParseApproaches([]byte("42")); err == nil {
			t.Error("expected error for scalar document")
		}
	})
}

func TestLoadApproaches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.yaml")
	if err := os.WriteFile(path, []byte(rawFeedYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	recs, err := LoadApproaches(path)
	if err != nil {
		t.Fatalf("LoadApproaches() error = %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("got %d records", len(recs))
	}

	if _, err := LoadApproaches(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
