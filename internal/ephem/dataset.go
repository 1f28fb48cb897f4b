package ephem

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/soniakeys/meeus/v3/planetposition"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/logging"
)

// Source selects the planetary theory.
type Source int

const (
	// SourceAuto uses VSOP87 when a data directory is configured.
	SourceAuto Source = iota
	// SourceAnalytic uses mean orbital elements only.
	SourceAnalytic
	// SourceVSOP87 requires the VSOP87 files.
	SourceVSOP87
)

// ParseSource parses a source string, defaulting to SourceAuto.
func ParseSource(s string) Source {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "analytic":
		return SourceAnalytic
	case "vsop87":
		return SourceVSOP87
	default:
		return SourceAuto
	}
}

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceAuto:
		return "auto"
	case SourceAnalytic:
		return "analytic"
	case SourceVSOP87:
		return "vsop87"
	default:
		return "unknown"
	}
}

// Options configures a dataset load.
type Options struct {
	Source    Source
	VSOP87Dir string
	// Exclude names bodies to drop from the capability table.
	Exclude []string
	Logger  *logging.Logger
}

// checkEpoch is the instant optional bodies are test-computed at.
var checkEpoch = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// Dataset is the loaded, read-only ephemeris. Safe for concurrent use.
type Dataset struct {
	name      string
	vsopEarth *planetposition.V87Planet
	vsop      map[Body]*planetposition.V87Planet
	available [bodyCount]bool
	logger    *logging.Logger
}

var (
	sharedOnce sync.Once
	shared     *Dataset
	sharedErr  error
)

// LoadShared loads the process-wide dataset on first call and returns the
// same instance afterwards. Options after the first call are ignored.
func LoadShared(opts Options) (*Dataset, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = Load(opts)
	})
	return shared, sharedErr
}

// Load builds a dataset and its capability table.
func Load(opts Options) (*Dataset, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	d := &Dataset{name: "meeus analytic", logger: logger}

	useVSOP := opts.Source == SourceVSOP87 || (opts.Source == SourceAuto && opts.VSOP87Dir != "")
	if opts.Source == SourceAnalytic && opts.VSOP87Dir != "" {
		logger.Warn("ephemeris source is analytic, ignoring VSOP87 directory %s", opts.VSOP87Dir)
	}
	if useVSOP {
		if opts.VSOP87Dir == "" {
			return nil, fmt.Errorf("ephemeris source vsop87 needs a data directory")
		}
		earth, planets, err := loadVSOP87(opts.VSOP87Dir)
		if err != nil {
			return nil, err
		}
		d.vsopEarth, d.vsop = earth, planets
		d.name = "VSOP87 (" + opts.VSOP87Dir + ")"
	}

	excluded := make(map[Body]bool, len(opts.Exclude))
	for _, name := range opts.Exclude {
		b, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown body %q in ephemeris exclude list", name)
		}
		excluded[b] = true
	}

	d.buildCapabilities(excluded)
	logger.Info("ephemeris loaded: %s, %d of %d bodies available", d.name, len(d.Bodies()), bodyCount)
	return d, nil
}

// buildCapabilities resolves each body once. Parents precede their
// satellites in catalog order, so a missing planet takes its moons with it.
func (d *Dataset) buildCapabilities(excluded map[Body]bool) {
	for _, info := range catalog {
		b := info.Body
		switch {
		case excluded[b]:
			d.logger.Debug("body %s excluded by configuration", b)
		case !info.Optional:
			d.available[b] = true
		default:
			d.available[b] = true
			if _, _, err := d.geocentric(b, checkEpoch); err != nil {
				d.available[b] = false
				d.logger.Warn("optional body %s unavailable: %v", b, err)
				continue
			}
			d.logger.Debug("optional body %s available", b)
		}
	}
}

// Name implements Provider.
func (d *Dataset) Name() string {
	return d.name
}

// Available implements Provider.
func (d *Dataset) Available(b Body) bool {
	return b.Valid() && d.available[b]
}

// Bodies implements Provider.
func (d *Dataset) Bodies() []Body {
	out := make([]Body, 0, bodyCount)
	for _, b := range AllBodies() {
		if d.available[b] {
			out = append(out, b)
		}
	}
	return out
}

// GeocentricVector implements Provider.
func (d *Dataset) GeocentricVector(b Body, t time.Time) (astro.Vec3, error) {
	if !d.Available(b) {
		return astro.Vec3{}, unavailable(b, "not in loaded dataset")
	}
	v, _, err := d.geocentric(b, t)
	if err != nil {
		return astro.Vec3{}, err
	}
	if !finite(v) {
		return astro.Vec3{}, fmt.Errorf("non-finite geocentric vector for %s", b)
	}
	return v, nil
}

// PositionVector implements Provider.
func (d *Dataset) PositionVector(b Body, t time.Time, obs astro.Observer) (Position, error) {
	if !d.Available(b) {
		return Position{}, unavailable(b, "not in loaded dataset")
	}
	geo, simulated, err := d.geocentric(b, t)
	if err != nil {
		return Position{}, err
	}
	topo := r3.Sub(geo, observerOffset(t, obs))
	if !finite(geo) || !finite(topo) {
		return Position{}, fmt.Errorf("non-finite position for %s", b)
	}
	return Position{
		Body:        b,
		Time:        t,
		Geocentric:  geo,
		Topocentric: topo,
		Simulated:   simulated,
	}, nil
}

// HeliocentricVector implements Provider.
func (d *Dataset) HeliocentricVector(b Body, t time.Time) (astro.Vec3, error) {
	if !d.Available(b) {
		return astro.Vec3{}, unavailable(b, "not in loaded dataset")
	}
	jde := astro.JulianDate(t)

	switch b.Info().Category {
	case CategoryMoon:
		moon := r3.Scale(1/astro.AU, moonEcliptic(jde))
		return r3.Add(d.earthHelio(jde), moon), nil
	case CategorySatellite:
		host, err := d.planetHelio(b.Info().Parent, jde)
		if err != nil {
			return astro.Vec3{}, err
		}
		off, err := d.satelliteHelioOffset(b, t)
		if err != nil {
			return astro.Vec3{}, err
		}
		return r3.Add(host, off), nil
	}
	return d.planetHelio(b, jde)
}
