package ephem

import (
	"strings"

	"golang.org/x/text/cases"
)

// Body identifies a catalog body. Values follow catalog order.
type Body int

const (
	Sun Body = iota
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Moon
	Pluto
	Io
	Europa
	Ganymede
	Callisto
	Titan
	Enceladus
	Mimas
	Dione
	Rhea
	Iapetus
	Miranda
	Ariel
	Umbriel
	Titania
	Oberon
	Triton
	Nereid

	bodyCount
)

// Category classifies a body for display and magnitude modelling.
type Category int

const (
	CategoryStar Category = iota
	CategoryPlanet
	CategoryMoon // Earth's Moon
	CategoryDwarfPlanet
	CategorySatellite
)

// String returns the category name used in exports.
func (c Category) String() string {
	switch c {
	case CategoryStar:
		return "star"
	case CategoryPlanet:
		return "planet"
	case CategoryMoon:
		return "moon"
	case CategoryDwarfPlanet:
		return "dwarf_planet"
	case CategorySatellite:
		return "satellite"
	default:
		return "unknown"
	}
}

// BodyInfo is one row of the static body catalog.
type BodyInfo struct {
	Body     Body
	Name     string
	Category Category
	Parent   Body // Sun for planets, the host planet for satellites

	// FallbackMagnitude is used when the phase-based model cannot run.
	FallbackMagnitude float64
	// AbsoluteMagnitude is H (V at 1 AU from Sun and observer, zero phase),
	// used for bodies without a dedicated photometric model.
	AbsoluteMagnitude float64

	RadiusKm  float64
	SizeScale float64 // relative marker size for heliocentric plots
	Color     string

	// Optional bodies may be missing from the dataset and are checked once
	// when it loads.
	Optional bool
}

// catalog is the fixed body catalog in output order.
var catalog = [bodyCount]BodyInfo{
	{Body: Sun, Name: "Sun", Category: CategoryStar, Parent: Sun, RadiusKm: 695700, SizeScale: 20, Color: "#ffff00"},
	{Body: Mercury, Name: "Mercury", Category: CategoryPlanet, Parent: Sun, FallbackMagnitude: -0.5, RadiusKm: 2439.7, SizeScale: 1.9, Color: "#c0c0c0"},
	{Body: Venus, Name: "Venus", Category: CategoryPlanet, Parent: Sun, FallbackMagnitude: -4.2, RadiusKm: 6051.8, SizeScale: 4.75, Color: "#f9d71c"},
	{Body: Mars, Name: "Mars", Category: CategoryPlanet, Parent: Sun, FallbackMagnitude: 1.2, RadiusKm: 3389.5, SizeScale: 2.65, Color: "#ff4500"},
	{Body: Jupiter, Name: "Jupiter", Category: CategoryPlanet, Parent: Sun, FallbackMagnitude: -2.3, RadiusKm: 71492, SizeScale: 56, Color: "#ffa500"},
	{Body: Saturn, Name: "Saturn", Category: CategoryPlanet, Parent: Sun, FallbackMagnitude: 0.8, RadiusKm: 60268, SizeScale: 47.25, Color: "#f0e68c"},
	{Body: Uranus, Name: "Uranus", Category: CategoryPlanet, Parent: Sun, FallbackMagnitude: 5.7, RadiusKm: 25559, SizeScale: 20, Color: "#40e0d0"},
	{Body: Neptune, Name: "Neptune", Category: CategoryPlanet, Parent: Sun, FallbackMagnitude: 7.9, RadiusKm: 24764, SizeScale: 19.4, Color: "#0000cd"},
	{Body: Moon, Name: "Moon", Category: CategoryMoon, Parent: Sun, RadiusKm: 1737.4, SizeScale: 1.5, Color: "#f8f8ff"},
	{Body: Pluto, Name: "Pluto", Category: CategoryDwarfPlanet, Parent: Sun, AbsoluteMagnitude: -0.7, RadiusKm: 1188.3, SizeScale: 1.5, Color: "#a0522d", Optional: true},

	{Body: Io, Name: "Io", Category: CategorySatellite, Parent: Jupiter, AbsoluteMagnitude: -1.68, RadiusKm: 1821.6, SizeScale: 1.6, Color: "#ffcc00", Optional: true},
	{Body: Europa, Name: "Europa", Category: CategorySatellite, Parent: Jupiter, AbsoluteMagnitude: -1.41, RadiusKm: 1560.8, SizeScale: 1.6, Color: "#ffffff", Optional: true},
	{Body: Ganymede, Name: "Ganymede", Category: CategorySatellite, Parent: Jupiter, AbsoluteMagnitude: -2.09, RadiusKm: 2634.1, SizeScale: 1.6, Color: "#c0c0c0", Optional: true},
	{Body: Callisto, Name: "Callisto", Category: CategorySatellite, Parent: Jupiter, AbsoluteMagnitude: -1.05, RadiusKm: 2410.3, SizeScale: 1.6, Color: "#8b4513", Optional: true},

	{Body: Titan, Name: "Titan", Category: CategorySatellite, Parent: Saturn, AbsoluteMagnitude: -1.28, RadiusKm: 2574.7, SizeScale: 1.6, Color: "#ffd700", Optional: true},
	{Body: Enceladus, Name: "Enceladus", Category: CategorySatellite, Parent: Saturn, AbsoluteMagnitude: 2.10, RadiusKm: 252.1, SizeScale: 1.6, Color: "#e0ffff", Optional: true},
	{Body: Mimas, Name: "Mimas", Category: CategorySatellite, Parent: Saturn, AbsoluteMagnitude: 3.30, RadiusKm: 198.2, SizeScale: 1.6, Color: "#f5f5f5", Optional: true},
	{Body: Dione, Name: "Dione", Category: CategorySatellite, Parent: Saturn, AbsoluteMagnitude: 0.80, RadiusKm: 561.4, SizeScale: 1.6, Color: "#d3d3d3", Optional: true},
	{Body: Rhea, Name: "Rhea", Category: CategorySatellite, Parent: Saturn, AbsoluteMagnitude: 0.10, RadiusKm: 763.8, SizeScale: 1.6, Color: "#c0c0c0", Optional: true},
	{Body: Iapetus, Name: "Iapetus", Category: CategorySatellite, Parent: Saturn, AbsoluteMagnitude: 1.50, RadiusKm: 734.5, SizeScale: 1.6, Color: "#f5deb3", Optional: true},

	{Body: Miranda, Name: "Miranda", Category: CategorySatellite, Parent: Uranus, AbsoluteMagnitude: 3.60, RadiusKm: 235.8, SizeScale: 1.6, Color: "#b0e0e6", Optional: true},
	{Body: Ariel, Name: "Ariel", Category: CategorySatellite, Parent: Uranus, AbsoluteMagnitude: 1.45, RadiusKm: 578.9, SizeScale: 1.6, Color: "#add8e6", Optional: true},
	{Body: Umbriel, Name: "Umbriel", Category: CategorySatellite, Parent: Uranus, AbsoluteMagnitude: 2.10, RadiusKm: 584.7, SizeScale: 1.6, Color: "#778899", Optional: true},
	{Body: Titania, Name: "Titania", Category: CategorySatellite, Parent: Uranus, AbsoluteMagnitude: 1.02, RadiusKm: 788.4, SizeScale: 1.6, Color: "#b0c4de", Optional: true},
	{Body: Oberon, Name: "Oberon", Category: CategorySatellite, Parent: Uranus, AbsoluteMagnitude: 1.23, RadiusKm: 761.4, SizeScale: 1.6, Color: "#a9a9a9", Optional: true},

	{Body: Triton, Name: "Triton", Category: CategorySatellite, Parent: Neptune, AbsoluteMagnitude: -1.24, RadiusKm: 1353.4, SizeScale: 1.6, Color: "#afeeee", Optional: true},
	{Body: Nereid, Name: "Nereid", Category: CategorySatellite, Parent: Neptune, AbsoluteMagnitude: 4.40, RadiusKm: 170, SizeScale: 1.6, Color: "#87ceeb", Optional: true},
}

// foldName maps a name to its caseless form. Casers carry state, so each
// call gets its own.
func foldName(s string) string {
	return cases.Fold().String(s)
}

// byFoldedName maps caseless display names to bodies.
var byFoldedName = func() map[string]Body {
	m := make(map[string]Body, len(catalog))
	for _, info := range catalog {
		m[foldName(info.Name)] = info.Body
	}
	return m
}()

// Info returns the catalog row for b.
func (b Body) Info() BodyInfo {
	if !b.Valid() {
		return BodyInfo{Body: b, Name: "Unknown"}
	}
	return catalog[b]
}

// String returns the display name.
func (b Body) String() string {
	return b.Info().Name
}

// Valid reports whether b is a catalog member.
func (b Body) Valid() bool {
	return b >= 0 && b < bodyCount
}

// Lookup finds a body by name, ignoring case.
func Lookup(name string) (Body, bool) {
	b, ok := byFoldedName[foldName(strings.TrimSpace(name))]
	return b, ok
}

// AllBodies returns every catalog body in catalog order.
func AllBodies() []Body {
	out := make([]Body, bodyCount)
	for i := range out {
		out[i] = Body(i)
	}
	return out
}
