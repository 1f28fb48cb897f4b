package ui

import (
	"strings"
	"testing"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/sky"
)

func testHelio() []sky.HelioRecord {
	return []sky.HelioRecord{
		{Name: "Sun", Category: "star", SizeScale: 20},
		{Name: "Earth", Category: "planet", X: 1, SizeScale: 1},
		{Name: "Mars", Category: "planet", X: -1.2, Y: 0.9, Z: 0.03, SizeScale: 2.65},
		{Name: "Jupiter", Category: "planet", Y: 5.2, SizeScale: 56},
		{Name: "Io", Category: "satellite", X: 0.002, Y: 5.2, SizeScale: 1.6},
	}
}

func TestSolarSystemModelInit(t *testing.T) {
	m := NewSolarSystemModel()

	if m.focusIdx != -1 {
		t.Errorf("expected focusIdx -1 (Sun), got %d", m.focusIdx)
	}
	if m.scale() != 1.0 {
		t.Errorf("expected scale 1.0, got %f", m.scale())
	}
	if m.scaleMode != astro.ScaleLogR {
		t.Errorf("expected ScaleLogR, got %d", m.scaleMode)
	}
	if m.FocusedBody() != nil {
		t.Error("Sun focus should report no body")
	}
}

func TestSolarSystemModel_UpdateDataDropsSun(t *testing.T) {
	m := NewSolarSystemModel().UpdateData(testHelio())
	if len(m.bodies) != 4 {
		t.Fatalf("bodies = %d, want 4", len(m.bodies))
	}
	for _, b := range m.bodies {
		if b.Name == "Sun" {
			t.Error("Sun should be drawn at the origin, not listed")
		}
	}
}

func TestSolarSystemModelFocusNavigation(t *testing.T) {
	m := NewSolarSystemModel().UpdateData(testHelio())

	m, _ = m.Update(key("k"))
	if f := m.FocusedBody(); f == nil || f.Name != "Earth" {
		t.Fatalf("after next = %+v", f)
	}
	proj := astro.ProjectEclipticTopDown(astro.Vec3{X: 1}, astro.ScaleLogR, 1)
	if m.panX != -proj.X || m.panY != -proj.Y {
		t.Errorf("pan = %v/%v, want centered on Earth", m.panX, m.panY)
	}

	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("j"))
	if f := m.FocusedBody(); f == nil || f.Name != "Io" {
		t.Errorf("prev from Sun should wrap to the last body, got %+v", f)
	}
}

func TestSolarSystemModel_UpdateKeepsFocus(t *testing.T) {
	m := NewSolarSystemModel().UpdateData(testHelio())
	m.SetFocusByName("jupiter")
	if f := m.FocusedBody(); f == nil || f.Name != "Jupiter" {
		t.Fatalf("SetFocusByName = %+v", f)
	}

	helio := testHelio()
	helio = append(helio[:1], helio[2:]...) // Earth drops out
	m = m.UpdateData(helio)
	if f := m.FocusedBody(); f == nil || f.Name != "Jupiter" {
		t.Errorf("focus after update = %+v", f)
	}

	m.SetFocusByName("Vulcan")
	if m.FocusedBody() != nil || m.panX != 0 || m.panY != 0 {
		t.Error("unknown name should focus the Sun")
	}
}

func TestSolarSystemModelZoom(t *testing.T) {
	m := NewSolarSystemModel()

	m, _ = m.Update(key("+"))
	if m.scale() != 1.5 {
		t.Errorf("zoom in = %v, want 1.5", m.scale())
	}
	for i := 0; i < 20; i++ {
		m, _ = m.Update(key("+"))
	}
	if m.scale() != 10 {
		t.Errorf("zoom should cap at 10, got %v", m.scale())
	}
	m, _ = m.Update(key("0"))
	if m.scale() != 1 {
		t.Errorf("reset zoom = %v", m.scale())
	}
	m, _ = m.Update(key("-"))
	if m.scale() != 0.75 {
		t.Errorf("zoom out = %v, want 0.75", m.scale())
	}
}

func TestSolarSystemModel_PanAndModes(t *testing.T) {
	m := NewSolarSystemModel()

	m, _ = m.Update(key("right"))
	if !m.userPanned || m.panX <= 0 {
		t.Errorf("pan right: panX=%v userPanned=%v", m.panX, m.userPanned)
	}
	m, _ = m.Update(key("c"))
	if m.panX != 0 || m.userPanned {
		t.Error("c should recenter on the Sun")
	}

	m, _ = m.Update(key("z"))
	if m.scaleMode != astro.ScaleInner {
		t.Errorf("mode = %v, want inner", m.scaleMode)
	}
	m, _ = m.Update(key("l"))
	if m.labelMode != LabelAll {
		t.Errorf("label mode = %v, want all", m.labelMode)
	}
}

func TestSolarSystemModel_View(t *testing.T) {
	m := NewSolarSystemModel().SetSize(30, 8)
	if !strings.Contains(m.View(), "too small") {
		t.Error("small terminal should be rejected")
	}

	m = NewSolarSystemModel().SetSize(100, 30).UpdateData(testHelio())
	view := m.View()
	for _, want := range []string{"☉", "center of solar system", "Mode:", "log", "Zoom:"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m.SetFocusByName("Mars")
	view = m.View()
	if !strings.Contains(view, "◉ Mars") || !strings.Contains(view, "1.500 AU") {
		t.Errorf("focused HUD missing Mars distance:\n%s", view)
	}
}

func TestHelioGlyph(t *testing.T) {
	tests := []struct {
		rec     sky.HelioRecord
		focused bool
		want    rune
	}{
		{sky.HelioRecord{Category: "planet", SizeScale: 1}, true, '◉'},
		{sky.HelioRecord{Category: "satellite", SizeScale: 1.6}, false, '∘'},
		{sky.HelioRecord{Category: "planet", SizeScale: 56}, false, '○'},
		{sky.HelioRecord{Category: "planet", SizeScale: 2.65}, false, '•'},
	}
	for _, tt := range tests {
		if got := helioGlyph(tt.rec, tt.focused); got != tt.want {
			t.Errorf("helioGlyph(%+v) = %c, want %c", tt.rec, got, tt.want)
		}
	}
}
