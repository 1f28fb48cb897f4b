package sky

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/litescript/ls-sky/internal/astro"
)

// Query selects an observer and instant for a body listing.
type Query struct {
	Latitude  float64 // degrees, [-90, 90]
	Longitude float64 // degrees, [-180, 180]
	Elevation float64 // meters, >= 0

	// Instant is the observation time. The zero value means now.
	Instant time.Time

	ShowCoordinates  bool
	AboveHorizonOnly bool
}

// Observer returns the query location.
func (q Query) Observer() astro.Observer {
	return astro.Observer{LatDeg: q.Latitude, LonDeg: q.Longitude, ElevationM: q.Elevation}
}

// Validate checks the observer ranges.
func (q Query) Validate() error {
	return validateLocation(q.Latitude, q.Longitude, q.Elevation)
}

func validateLocation(lat, lon, elev float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return &InvalidInputError{Field: "latitude", Value: formatFloat(lat), Reason: "must be within [-90, 90]"}
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return &InvalidInputError{Field: "longitude", Value: formatFloat(lon), Reason: "must be within [-180, 180]"}
	}
	if math.IsNaN(elev) || math.IsInf(elev, 0) || elev < 0 {
		return &InvalidInputError{Field: "elevation", Value: formatFloat(elev), Reason: "must be a non-negative number of meters"}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// instantLayouts are tried in order. Layouts without a zone are read as UTC.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseInstant parses an ISO 8601 timestamp. A trailing Z or an explicit
// offset is honoured; timestamps without one are UTC. An empty string
// returns the zero time, which queries treat as now.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &InvalidInputError{Field: "time", Value: s, Reason: "expected ISO 8601, e.g. 2024-03-15T21:00:00Z"}
}
