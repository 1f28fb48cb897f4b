// Package sky computes apparent positions, magnitudes and visibility of the
// catalog bodies for an observer.
package sky

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/cache"
	"github.com/litescript/ls-sky/internal/ephem"
	"github.com/litescript/ls-sky/internal/logging"
)

// Recorder receives per-body failures and query timings.
type Recorder interface {
	BodyFailure(body, kind string)
	ObserveQuery(op string, d time.Duration)
}

// Failure kinds passed to Recorder.BodyFailure.
const (
	FailureDataUnavailable = "data_unavailable"
	FailureCalculation     = "calculation"
)

// Config holds Engine dependencies. Provider is required.
type Config struct {
	Provider ephem.Provider
	Cache    *cache.Cache // nil disables caching
	Recorder Recorder
	Logger   *logging.Logger
	Now      func() time.Time
	Version  string

	PositionTTL time.Duration // default cache.PositionTTL
	UtilityTTL  time.Duration // default cache.UtilityTTL
}

// Engine answers sky queries. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	provider ephem.Provider
	cache    *cache.Cache
	recorder Recorder
	logger   *logging.Logger
	now      func() time.Time
	version  string

	bodies   func(bodiesArgs) ([]PositionRecord, error)
	helio    func(time.Time) ([]HelioRecord, error)
	moon     func(time.Time) (MoonPhase, error)
	twilight func(twilightArgs) (Twilight, error)
}

// bodiesArgs is the cache key material of a body listing. The horizon
// filter is applied after the cache so both variants share one entry.
type bodiesArgs struct {
	Lat, Lon, Elev float64
	Instant        time.Time
	ShowCoords     bool
}

func (a bodiesArgs) canonical() string {
	return cache.Canonical(a.Lat, a.Lon, a.Elev, a.Instant, a.ShowCoords)
}

// New creates an engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Provider == nil {
		return nil, errors.New("sky: ephemeris provider required")
	}
	e := &Engine{
		provider: cfg.Provider,
		cache:    cfg.Cache,
		recorder: cfg.Recorder,
		logger:   cfg.Logger,
		now:      cfg.Now,
		version:  cfg.Version,
	}
	if e.logger == nil {
		e.logger = logging.Discard()
	}
	if e.now == nil {
		e.now = time.Now
	}
	posTTL, utilTTL := cfg.PositionTTL, cfg.UtilityTTL
	if posTTL <= 0 {
		posTTL = cache.PositionTTL
	}
	if utilTTL <= 0 {
		utilTTL = cache.UtilityTTL
	}

	e.bodies = cache.Wrap(e.cache, "get_bodies", posTTL, bodiesArgs.canonical, e.computeBodies)
	e.helio = cache.Wrap(e.cache, "heliocentric_positions", posTTL, canonicalTime, e.computeHelio)
	e.moon = cache.Wrap(e.cache, "get_moon_phase", utilTTL, canonicalTime, e.computeMoonPhase)
	e.twilight = cache.Wrap(e.cache, "get_twilight_times", utilTTL, twilightArgs.canonical, e.computeTwilight)
	return e, nil
}

func canonicalTime(t time.Time) string {
	return cache.Canonical(t)
}

// Provider returns the ephemeris provider.
func (e *Engine) Provider() ephem.Provider {
	return e.provider
}

func (e *Engine) resolveInstant(t time.Time) time.Time {
	if t.IsZero() {
		return e.now().UTC()
	}
	return t.UTC()
}

func (e *Engine) observe(op string, start time.Time) {
	if e.recorder != nil {
		e.recorder.ObserveQuery(op, time.Since(start))
	}
}

// GetBodies returns position records for every available body in catalog
// order. Bodies that fail are logged and left out. Only an invalid query
// produces an error.
func (e *Engine) GetBodies(q Query) ([]PositionRecord, error) {
	defer e.observe("get_bodies", time.Now())

	if err := q.Validate(); err != nil {
		e.logger.Debug("rejected query: %v", err)
		return nil, err
	}
	records, err := e.bodies(bodiesArgs{
		Lat:        q.Latitude,
		Lon:        q.Longitude,
		Elev:       q.Elevation,
		Instant:    e.resolveInstant(q.Instant),
		ShowCoords: q.ShowCoordinates,
	})
	if err != nil {
		return nil, err
	}
	if !q.AboveHorizonOnly {
		return records, nil
	}

	above := make([]PositionRecord, 0, len(records))
	for _, r := range records {
		if r.Altitude > 0 {
			above = append(above, r)
		}
	}
	return above, nil
}

// GetBodyByName returns one body's record regardless of altitude. The name
// match ignores case. ok is false when the body is unknown or unavailable.
func (e *Engine) GetBodyByName(name string, q Query) (rec PositionRecord, ok bool, err error) {
	q.AboveHorizonOnly = false
	records, err := e.GetBodies(q)
	if err != nil {
		return PositionRecord{}, false, err
	}
	b, known := ephem.Lookup(name)
	if !known {
		return PositionRecord{}, false, nil
	}
	for _, r := range records {
		if r.Name == b.String() {
			return r, true, nil
		}
	}
	return PositionRecord{}, false, nil
}

func (e *Engine) computeBodies(a bodiesArgs) ([]PositionRecord, error) {
	obs := astro.Observer{LatDeg: a.Lat, LonDeg: a.Lon, ElevationM: a.Elev}

	records := make([]PositionRecord, 0, len(e.provider.Bodies()))
	for _, b := range e.provider.Bodies() {
		rec, err := e.bodyRecord(b, obs, a.Instant, a.ShowCoords)
		if err != nil {
			e.bodyFailed(b, err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (e *Engine) bodyFailed(b ephem.Body, err error) {
	kind := FailureCalculation
	if errors.Is(err, ephem.ErrDataUnavailable) {
		kind = FailureDataUnavailable
	}
	e.logger.Warn("skipping %s: %v", b, err)
	if e.recorder != nil {
		e.recorder.BodyFailure(b.String(), kind)
	}
}

// bodyRecord derives one record. Alt/az come from the topocentric vector,
// RA/Dec from the geocentric one.
func (e *Engine) bodyRecord(b ephem.Body, obs astro.Observer, t time.Time, showCoords bool) (PositionRecord, error) {
	pos, err := e.provider.PositionVector(b, t, obs)
	if err != nil {
		if errors.Is(err, ephem.ErrDataUnavailable) {
			return PositionRecord{}, err
		}
		return PositionRecord{}, &CalculationError{Body: b.String(), Stage: "position", Err: err}
	}

	topoRA, topoDec := astro.RADec(pos.Topocentric)
	hz := astro.EquatorialToHorizontal(astro.SkyCoord{RAdeg: topoRA * 15, DecDeg: topoDec}, obs, t)
	if math.IsNaN(hz.AzDeg) || math.IsNaN(hz.ElDeg) {
		return PositionRecord{}, &CalculationError{Body: b.String(), Stage: "horizontal", Err: errors.New("non-finite alt/az")}
	}

	raHours, decDeg := astro.RADec(pos.Geocentric)
	if math.IsNaN(raHours) || math.IsNaN(decDeg) {
		return PositionRecord{}, &CalculationError{Body: b.String(), Stage: "equatorial", Err: errors.New("non-finite RA/Dec")}
	}

	az := astro.Round2(hz.AzDeg)
	if az >= 360 {
		az -= 360
	}

	rec := PositionRecord{
		Name:          b.String(),
		Category:      b.Info().Category.String(),
		Altitude:      astro.Round2(hz.ElDeg),
		Azimuth:       az,
		Magnitude:     astro.Round2(e.magnitude(pos, t)),
		Constellation: astro.ConstellationOrUnknown(raHours, decDeg, t),
		DistanceKm:    math.Round(pos.DistanceKm()),
		Simulated:     pos.Simulated,
	}
	if b != ephem.Sun {
		sep := astro.Round2(astro.SunSeparation(raHours*15, decDeg, t))
		rec.SunSeparation = &sep
	}
	if showCoords {
		ra, dec := FormatRADec(raHours, decDeg)
		rec.RightAscension, rec.Declination = &ra, &dec
	}
	return rec, nil
}

// HelioRecord is one body's heliocentric place for solar-system plots.
type HelioRecord struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	X         float64 `json:"x"` // AU, ecliptic of date
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	SizeScale float64 `json:"size"`
	Color     string  `json:"color"`
}

// HeliocentricPositions returns every available body relative to the Sun.
func (e *Engine) HeliocentricPositions(instant time.Time) ([]HelioRecord, error) {
	defer e.observe("heliocentric_positions", time.Now())
	return e.helio(e.resolveInstant(instant))
}

func (e *Engine) computeHelio(t time.Time) ([]HelioRecord, error) {
	out := make([]HelioRecord, 0, len(e.provider.Bodies()))
	for _, b := range e.provider.Bodies() {
		v, err := e.provider.HeliocentricVector(b, t)
		if err != nil {
			e.bodyFailed(b, err)
			continue
		}
		info := b.Info()
		out = append(out, HelioRecord{
			Name:      info.Name,
			Category:  info.Category.String(),
			X:         v.X,
			Y:         v.Y,
			Z:         v.Z,
			SizeScale: info.SizeScale,
			Color:     info.Color,
		})
	}
	return out, nil
}

// BodyWindow samples a body's altitude from start over span and returns its
// rise, transit and set.
func (e *Engine) BodyWindow(name string, q Query, start time.Time, span, step time.Duration) (astro.VisibilityWindow, error) {
	if err := q.Validate(); err != nil {
		return astro.VisibilityWindow{}, err
	}
	b, ok := ephem.Lookup(name)
	if !ok {
		return astro.VisibilityWindow{}, &InvalidInputError{Field: "body", Value: name, Reason: "not in catalog"}
	}
	if step <= 0 || span < step {
		return astro.VisibilityWindow{}, &InvalidInputError{Field: "step", Value: step.String(), Reason: "must be positive and no longer than the span"}
	}

	obs := q.Observer()
	start = e.resolveInstant(start)
	samples := make([]astro.ElevationSample, 0, int(span/step)+1)
	for at := start; !at.After(start.Add(span)); at = at.Add(step) {
		pos, err := e.provider.PositionVector(b, at, obs)
		if err != nil {
			return astro.VisibilityWindow{}, err
		}
		ra, dec := astro.RADec(pos.Topocentric)
		hz := astro.EquatorialToHorizontal(astro.SkyCoord{RAdeg: ra * 15, DecDeg: dec}, obs, at)
		samples = append(samples, astro.ElevationSample{Time: at, ElDeg: hz.ElDeg})
	}
	return astro.RiseSet(samples)
}

// Meta describes the engine and the loaded dataset.
type Meta struct {
	EngineVersion   string    `json:"engineVersion"`
	Ephemeris       string    `json:"ephemeris"`
	CalculationType string    `json:"calculationType"`
	Timestamp       time.Time `json:"timestamp"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Elevation       float64   `json:"elevation"`
	Bodies          []string  `json:"bodies"`
}

// Meta reports engine metadata for an observer.
func (e *Engine) Meta(obs astro.Observer) Meta {
	bodies := e.provider.Bodies()
	names := make([]string, len(bodies))
	for i, b := range bodies {
		names[i] = b.String()
	}
	return Meta{
		EngineVersion:   fmt.Sprintf("ls-sky %s", e.version),
		Ephemeris:       e.provider.Name(),
		CalculationType: "analytic",
		Timestamp:       e.now(),
		Latitude:        obs.LatDeg,
		Longitude:       obs.LonDeg,
		Elevation:       obs.ElevationM,
		Bodies:          names,
	}
}

// ClearCache drops every cached result.
func (e *Engine) ClearCache() error {
	if err := e.cache.Clear(); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	e.logger.Info("cache cleared")
	return nil
}
