// Package ephem provides positions of solar-system bodies.
package ephem

import (
	"errors"
	"fmt"
	"time"

	"github.com/litescript/ls-sky/internal/astro"
)

// ErrDataUnavailable is matched by every DataUnavailableError.
var ErrDataUnavailable = errors.New("ephemeris data unavailable")

// DataUnavailableError reports a body the loaded dataset cannot serve.
type DataUnavailableError struct {
	Body   Body
	Reason string
}

func (e *DataUnavailableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("ephemeris data unavailable for %s", e.Body)
	}
	return fmt.Sprintf("ephemeris data unavailable for %s: %s", e.Body, e.Reason)
}

// Is makes errors.Is(err, ErrDataUnavailable) true.
func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

func unavailable(b Body, reason string) error {
	return &DataUnavailableError{Body: b, Reason: reason}
}

// Position is a body's apparent place at one instant. Vectors are
// equatorial (equinox of date) in kilometers.
type Position struct {
	Body Body
	Time time.Time

	// Geocentric is the apparent vector from Earth's center.
	Geocentric astro.Vec3
	// Topocentric is the apparent vector from the observer.
	Topocentric astro.Vec3

	// Simulated marks positions from a placeholder orbit model rather than
	// a real theory.
	Simulated bool
}

// DistanceKm returns the observer-to-body distance.
func (p Position) DistanceKm() float64 {
	return normKm(p.Topocentric)
}

// Provider defines the interface for ephemeris data sources.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// Available reports whether the loaded dataset can serve b.
	Available(b Body) bool

	// Bodies lists the available bodies in catalog order.
	Bodies() []Body

	// PositionVector returns the apparent position of b seen by obs at t.
	// Fails with a DataUnavailableError if b is not in the dataset.
	PositionVector(b Body, t time.Time, obs astro.Observer) (Position, error)

	// GeocentricVector returns the apparent geocentric equatorial vector of
	// b in km.
	GeocentricVector(b Body, t time.Time) (astro.Vec3, error)

	// HeliocentricVector returns the position of b relative to the Sun in
	// AU, ecliptic frame of date.
	HeliocentricVector(b Body, t time.Time) (astro.Vec3, error)
}
