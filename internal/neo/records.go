package neo

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRecord marks an approach record that cannot be classified.
var ErrInvalidRecord = errors.New("invalid approach record")

// ApproachRecord is one close approach as produced by the feed collector.
// Field names follow the NASA NeoWs browse feed after flattening.
type ApproachRecord struct {
	ID                     string  `json:"id" yaml:"id"`
	Name                   string  `json:"name" yaml:"name"`
	CloseApproachDate      string  `json:"close_approach_date" yaml:"close_approach_date"`
	OrbitingBody           string  `json:"orbiting_body,omitempty" yaml:"orbiting_body,omitempty"`
	AbsoluteMagnitudeH     float64 `json:"absolute_magnitude_h,omitempty" yaml:"absolute_magnitude_h,omitempty"`
	DiameterMinKm          float64 `json:"diameter_min_km" yaml:"diameter_min_km"`
	DiameterMaxKm          float64 `json:"diameter_max_km" yaml:"diameter_max_km"`
	DiameterAvgKm          float64 `json:"diameter_avg_km" yaml:"diameter_avg_km"`
	MissDistanceKm         float64 `json:"miss_distance_km" yaml:"miss_distance_km"`
	MissDistanceLunar      float64 `json:"miss_distance_lunar" yaml:"miss_distance_lunar"`
	MissDistanceAU         float64 `json:"miss_distance_astronomical" yaml:"miss_distance_astronomical"`
	VelocityKmPerHour      float64 `json:"velocity_km_per_hour" yaml:"velocity_km_per_hour"`
	IsPotentiallyHazardous bool    `json:"is_potentially_hazardous" yaml:"is_potentially_hazardous"`
	NasaJPLURL             string  `json:"nasa_jpl_url,omitempty" yaml:"nasa_jpl_url,omitempty"`
}

// ApproachDate parses CloseApproachDate as a UTC calendar date.
func (r ApproachRecord) ApproachDate() (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", r.CloseApproachDate, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: close_approach_date %q", ErrInvalidRecord, r.Name, r.CloseApproachDate)
	}
	return d, nil
}

// rawFeed is the unflattened NeoWs feed, keyed by date.
type rawFeed struct {
	NearEarthObjects map[string][]rawObject `yaml:"near_earth_objects"`
}

type rawObject struct {
	ID                string  `yaml:"id"`
	Name              string  `yaml:"name"`
	NasaJPLURL        string  `yaml:"nasa_jpl_url"`
	AbsoluteMagnitude float64 `yaml:"absolute_magnitude_h"`
	Hazardous         bool    `yaml:"is_potentially_hazardous_asteroid"`
	EstimatedDiameter struct {
		Kilometers struct {
			Min float64 `yaml:"estimated_diameter_min"`
			Max float64 `yaml:"estimated_diameter_max"`
		} `yaml:"kilometers"`
	} `yaml:"estimated_diameter"`
	CloseApproachData []struct {
		Date             string `yaml:"close_approach_date"`
		OrbitingBody     string `yaml:"orbiting_body"`
		RelativeVelocity struct {
			KmPerHour string `yaml:"kilometers_per_hour"`
		} `yaml:"relative_velocity"`
		MissDistance struct {
			Kilometers   string `yaml:"kilometers"`
			Lunar        string `yaml:"lunar"`
			Astronomical string `yaml:"astronomical"`
		} `yaml:"miss_distance"`
	} `yaml:"close_approach_data"`
}

// flatten converts one raw object, taking its first close approach.
func (o rawObject) flatten(date string) (ApproachRecord, error) {
	km := o.EstimatedDiameter.Kilometers
	rec := ApproachRecord{
		ID:                     o.ID,
		Name:                   o.Name,
		CloseApproachDate:      date,
		AbsoluteMagnitudeH:     o.AbsoluteMagnitude,
		DiameterMinKm:          km.Min,
		DiameterMaxKm:          km.Max,
		DiameterAvgKm:          (km.Min + km.Max) / 2,
		IsPotentiallyHazardous: o.Hazardous,
		NasaJPLURL:             o.NasaJPLURL,
	}
	if len(o.CloseApproachData) == 0 {
		return rec, nil
	}

	a := o.CloseApproachData[0]
	if a.Date != "" {
		rec.CloseApproachDate = a.Date
	}
	rec.OrbitingBody = a.OrbitingBody
	fields := []struct {
		name string
		in   string
		out  *float64
	}{
		{"kilometers_per_hour", a.RelativeVelocity.KmPerHour, &rec.VelocityKmPerHour},
		{"miss_distance.kilometers", a.MissDistance.Kilometers, &rec.MissDistanceKm},
		{"miss_distance.lunar", a.MissDistance.Lunar, &rec.MissDistanceLunar},
		{"miss_distance.astronomical", a.MissDistance.Astronomical, &rec.MissDistanceAU},
	}
	for _, f := range fields {
		if f.in == "" {
			continue
		}
		v, err := strconv.ParseFloat(f.in, 64)
		if err != nil {
			return ApproachRecord{}, fmt.Errorf("%w: %s: %s %q", ErrInvalidRecord, o.Name, f.name, f.in)
		}
		*f.out = v
	}
	return rec, nil
}

// ParseApproaches decodes either a flat YAML/JSON list of approach records
// or a raw NeoWs feed document. Feed records are ordered by date.
func ParseApproaches(data []byte) ([]ApproachRecord, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse approaches: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	doc := node.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		var recs []ApproachRecord
		if err := doc.Decode(&recs); err != nil {
			return nil, fmt.Errorf("parse approaches: %w", err)
		}
		return recs, nil
	case yaml.MappingNode:
		var feed rawFeed
		if err := doc.Decode(&feed); err != nil {
			return nil, fmt.Errorf("parse feed: %w", err)
		}
		return feed.flatten()
	default:
		return nil, fmt.Errorf("parse approaches: unexpected document kind %v", doc.Kind)
	}
}

func (f rawFeed) flatten() ([]ApproachRecord, error) {
	dates := make([]string, 0, len(f.NearEarthObjects))
	for d := range f.NearEarthObjects {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var out []ApproachRecord
	for _, d := range dates {
		for _, o := range f.NearEarthObjects[d] {
			rec, err := o.flatten(d)
			if err != nil {
				return nil, err
			}
			out = append(out, rec)
		}
	}
	return out, nil
}

// LoadApproaches reads approach records from a file.
func LoadApproaches(path string) ([]ApproachRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read approaches: %w", err)
	}
	return ParseApproaches(data)
}
