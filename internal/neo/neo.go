// Package neo estimates whether a near-Earth object is plausibly overhead.
//
// Approach records carry no orbital elements, so the verdict is an
// approximation: the direction and elevation are drawn at random from a
// hemisphere-biased set. Callers must not treat it as an ephemeris.
package neo

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// VisibilityWindow is how far, in days, an approach may be from today and
// still be reported.
const VisibilityWindow = 7

// Note accompanies every visible verdict.
const Note = "This is an approximate visibility estimate. Actual visibility depends on many factors including light pollution, weather, and precise orbital calculations."

// Elevation bounds of the drawn elevation, inclusive.
const (
	MinElevation = 20
	MaxElevation = 60
)

// directionAzimuth maps compass names to their canonical azimuth.
var directionAzimuth = map[string]int{
	"North":     0,
	"Northeast": 45,
	"East":      90,
	"Southeast": 135,
	"South":     180,
	"Southwest": 225,
	"West":      270,
	"Northwest": 315,
}

// Azimuth returns the canonical azimuth of a compass direction.
func Azimuth(direction string) (int, bool) {
	az, ok := directionAzimuth[direction]
	return az, ok
}

// Visibility is the heuristic verdict for one approach.
type Visibility struct {
	Visible   bool   `json:"visible" yaml:"visible"`
	Reason    string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty"`
	Elevation int    `json:"elevation" yaml:"elevation"`
	Azimuth   int    `json:"azimuth" yaml:"azimuth"`
	Note      string `json:"note,omitempty" yaml:"note,omitempty"`
}

// Classifier draws verdicts from an injected random source and clock.
// A Classifier is not safe for concurrent use.
type Classifier struct {
	rand *rand.Rand
	now  func() time.Time
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRand sets the random source.
func WithRand(r *rand.Rand) Option {
	return func(c *Classifier) { c.rand = r }
}

// WithSeed seeds a private random source for reproducible verdicts.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithClock sets the clock that defines "today".
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) { c.now = now }
}

// NewClassifier returns a classifier seeded from the current time unless
// an option overrides it.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	if c.rand == nil {
		c.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c
}

// directions returns the candidate set for an observer latitude. The
// equator counts as southern.
func directions(lat float64) []string {
	switch {
	case lat > 45:
		return []string{"South", "Southeast", "Southwest"}
	case lat > 0:
		return []string{"South", "Southeast", "Southwest", "East", "West"}
	case lat < -45:
		return []string{"North", "Northeast", "Northwest"}
	default:
		return []string{"North", "Northeast", "Northwest", "East", "West"}
	}
}

// DaysFromToday returns the whole-day gap between the approach date and the
// classifier's current UTC date.
func (c *Classifier) DaysFromToday(rec ApproachRecord) (int, error) {
	approach, err := rec.ApproachDate()
	if err != nil {
		return 0, err
	}
	now := c.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(math.Round(approach.Sub(today).Hours() / 24))
	if days < 0 {
		days = -days
	}
	return days, nil
}

// Classify returns the verdict for one approach seen from lat/lon. The
// longitude does not influence the draw.
func (c *Classifier) Classify(rec ApproachRecord, lat, lon float64) (Visibility, error) {
	days, err := c.DaysFromToday(rec)
	if err != nil {
		return Visibility{}, err
	}
	if days > VisibilityWindow {
		return Visibility{
			Reason: fmt.Sprintf("Not visible: approach date is %d days away from today", days),
		}, nil
	}

	set := directions(lat)
	dir := set[c.rand.Intn(len(set))]
	return Visibility{
		Visible:   true,
		Direction: dir,
		Elevation: MinElevation + c.rand.Intn(MaxElevation-MinElevation+1),
		Azimuth:   directionAzimuth[dir],
		Note:      Note,
	}, nil
}
