package ephem

import "testing"

func TestCatalogOrder(t *testing.T) {
	if len(catalog) != 27 {
		t.Fatalf("catalog has %d bodies, want 27", len(catalog))
	}
	for i, info := range catalog {
		if info.Body != Body(i) {
			t.Errorf("catalog[%d].Body = %d, want %d", i, info.Body, i)
		}
	}

	first := []string{"Sun", "Mercury", "Venus", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune", "Moon", "Pluto", "Io"}
	for i, want := range first {
		if got := Body(i).String(); got != want {
			t.Errorf("Body(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestInfo_ReturnsCopy(t *testing.T) {
	for _, b := range AllBodies() {
		info := b.Info()
		if info.Body != b || info.Name == "" {
			t.Fatalf("Info(%d) = %+v", b, info)
		}
		info.Name = "Vulcan"
		info.Parent = Neptune
		if got := b.Info(); got.Name == "Vulcan" || got != catalog[b] {
			t.Errorf("mutating Info(%d) leaked into the catalog: %+v", b, got)
		}
	}
}

func TestCatalogParents(t *testing.T) {
	tests := []struct {
		body   Body
		parent Body
	}{
		{Io, Jupiter},
		{Callisto, Jupiter},
		{Titan, Saturn},
		{Iapetus, Saturn},
		{Miranda, Uranus},
		{Triton, Neptune},
		{Mars, Sun},
	}

	for _, tc := range tests {
		t.Run(tc.body.String(), func(t *testing.T) {
			if got := tc.body.Info().Parent; got != tc.parent {
				t.Errorf("parent = %s, want %s", got, tc.parent)
			}
		})
	}

	// Satellites must follow their parent so capability resolution sees
	// the parent first.
	for _, info := range catalog {
		if info.Category == CategorySatellite && info.Parent >= info.Body {
			t.Errorf("%s precedes its parent %s", info.Name, info.Parent)
		}
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want Body
		ok   bool
	}{
		{"Mars", Mars, true},
		{"mars", Mars, true},
		{"MARS", Mars, true},
		{"  jupiter ", Jupiter, true},
		{"ganYMEDE", Ganymede, true},
		{"Vulcan", 0, false},
		{"", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Lookup(tc.name)
			if ok != tc.ok || (ok && got != tc.want) {
				t.Errorf("Lookup(%q) = %v, %v; want %v, %v", tc.name, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		c    Category
		want string
	}{
		{CategoryStar, "star"},
		{CategoryPlanet, "planet"},
		{CategoryMoon, "moon"},
		{CategoryDwarfPlanet, "dwarf_planet"},
		{CategorySatellite, "satellite"},
		{Category(42), "unknown"},
	}

	for _, tc := range tests {
		if got := tc.c.String(); got != tc.want {
			t.Errorf("Category(%d).String() = %q, want %q", tc.c, got, tc.want)
		}
	}
}

func TestBodyValid(t *testing.T) {
	if Body(-1).Valid() || bodyCount.Valid() {
		t.Error("out-of-range bodies reported valid")
	}
	if got := Body(99).String(); got != "Unknown" {
		t.Errorf("Body(99).String() = %q, want Unknown", got)
	}
}
