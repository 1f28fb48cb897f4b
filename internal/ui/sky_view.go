package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/sky"
	"github.com/litescript/ls-sky/internal/state"
)

const (
	// Field of view in degrees
	fovAz = 120.0
	fovEl = 60.0

	animDuration  = 400 * time.Millisecond
	animFrameRate = 30 * time.Millisecond

	glyphFocused = '◆'
	glyphSun     = '☼'
	glyphMoon    = '◐'

	glyphBright   = '✶' // mag < 0
	glyphMedium   = '✸' // mag 0-3
	glyphDim      = '·'
	glyphStar     = '⋆'
	colorBright   = "255"
	colorMedium   = "250"
	colorDim      = "244"
	colorSun      = "226"
	colorMoon     = "#d0c8ff"
	colorFocused  = "229"
	colorLabel    = "#d0c8ff"
	colorSimLabel = "60"
	colorStar     = "240"
	colorGlare    = "196"

	backdropMag = 2.5
)

// LabelMode controls how body labels are displayed.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Only the focused body
	LabelAll                      // Every body in view
)

// categoryFilters is the cycle order of the category filter.
var categoryFilters = []string{"", "planet", "satellite", "moon", "star", "dwarf_planet"}

// SkyViewModel renders the visible hemisphere around a camera direction.
type SkyViewModel struct {
	width  int
	height int

	camAz float64
	camEl float64

	animating   bool
	animStartAz float64
	animStartEl float64
	animTargAz  float64
	animTargEl  float64
	animStart   time.Time

	focusIdx int
	bodies   []sky.PositionRecord // above the horizon, filtered

	all      []sky.PositionRecord
	category string

	labelMode LabelMode

	observer  *astro.Observer
	stars     []astro.StarPosition
	showStars bool
}

// NewSkyViewModel creates a new sky view model looking south.
func NewSkyViewModel() SkyViewModel {
	return SkyViewModel{
		camAz:     180,
		camEl:     30,
		labelMode: LabelFocused,
		showStars: true,
	}
}

// WithObserver enables the fixed-star backdrop for obs.
func (m SkyViewModel) WithObserver(obs astro.Observer) SkyViewModel {
	m.observer = &obs
	return m
}

// SetSize updates the viewport size.
func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates with new data snapshot.
func (m SkyViewModel) UpdateData(snapshot state.Snapshot) SkyViewModel {
	m.all = snapshot.Visible
	m = m.applyFilter()
	if m.observer != nil && snapshot.Frame != nil {
		m.stars = astro.BackdropStars(*m.observer, snapshot.Frame.Timestamp, backdropMag)
	}

	if !m.animating && len(m.bodies) > 0 {
		b := m.bodies[m.focusIdx]
		m.camAz = b.Azimuth
		m.camEl = clampCamEl(b.Altitude)
	}
	return m
}

// Focus points the camera at the named body if it is in view.
func (m SkyViewModel) Focus(name string) SkyViewModel {
	for i, b := range m.bodies {
		if b.Name == name {
			m.focusIdx = i
			m.camAz = b.Azimuth
			m.camEl = clampCamEl(b.Altitude)
			break
		}
	}
	return m
}

func (m SkyViewModel) applyFilter() SkyViewModel {
	m.bodies = m.bodies[:0:0]
	for _, b := range m.all {
		if m.category == "" || b.Category == m.category {
			m.bodies = append(m.bodies, b)
		}
	}
	if m.focusIdx >= len(m.bodies) {
		m.focusIdx = 0
	}
	return m
}

// clampCamEl keeps the horizon inside the frame.
func clampCamEl(el float64) float64 {
	return math.Max(fovEl/2, math.Min(el, 90-fovEl/2))
}

type animTickMsg time.Time

func animTick() tea.Cmd {
	return tea.Tick(animFrameRate, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

// Update handles messages.
func (m SkyViewModel) Update(msg tea.Msg) (SkyViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			return m.focusPrev()
		case "down", "j":
			return m.focusNext()
		case "left", "h":
			m.camAz = normalizeAzimuth(m.camAz - 15)
		case "right":
			m.camAz = normalizeAzimuth(m.camAz + 15)
		case "l":
			m.labelMode = (m.labelMode + 1) % 3
		case "c":
			m = m.cycleCategory()
		case "b":
			m.showStars = !m.showStars
		}

	case animTickMsg:
		if m.animating {
			return m.updateAnimation()
		}
	}

	return m, nil
}

func (m SkyViewModel) cycleCategory() SkyViewModel {
	for i, c := range categoryFilters {
		if c == m.category {
			m.category = categoryFilters[(i+1)%len(categoryFilters)]
			break
		}
	}
	m.focusIdx = 0
	return m.applyFilter()
}

func (m SkyViewModel) focusNext() (SkyViewModel, tea.Cmd) {
	if len(m.bodies) == 0 {
		return m, nil
	}
	m.focusIdx = (m.focusIdx + 1) % len(m.bodies)
	return m.startAnimation()
}

func (m SkyViewModel) focusPrev() (SkyViewModel, tea.Cmd) {
	if len(m.bodies) == 0 {
		return m, nil
	}
	m.focusIdx--
	if m.focusIdx < 0 {
		m.focusIdx = len(m.bodies) - 1
	}
	return m.startAnimation()
}

func (m SkyViewModel) startAnimation() (SkyViewModel, tea.Cmd) {
	b := m.bodies[m.focusIdx]
	m.animating = true
	m.animStartAz = m.camAz
	m.animStartEl = m.camEl
	m.animTargAz = b.Azimuth
	m.animTargEl = clampCamEl(b.Altitude)
	m.animStart = time.Now()
	return m, animTick()
}

func (m SkyViewModel) updateAnimation() (SkyViewModel, tea.Cmd) {
	t := float64(time.Since(m.animStart)) / float64(animDuration)
	if t >= 1.0 {
		m.animating = false
		m.camAz = m.animTargAz
		m.camEl = m.animTargEl
		return m, nil
	}

	// Ease-out cubic
	t = 1 - math.Pow(1-t, 3)
	m.camAz = normalizeAzimuth(lerpAngle(m.animStartAz, m.animTargAz, t))
	m.camEl = lerp(m.animStartEl, m.animTargEl, t)
	return m, animTick()
}

// View renders the sky view.
func (m SkyViewModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "Sky view requires larger terminal"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSkyCanvas(m.width, m.height-4))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m SkyViewModel) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")).Render("Sky View")
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(colorLabel))

	filter := dim.Render("All bodies")
	if m.category != "" {
		filter = accent.Render("Only " + m.category)
	}

	var labels string
	switch m.labelMode {
	case LabelNone:
		labels = dim.Render("Labels: off")
	case LabelFocused:
		labels = accent.Render("Labels: focus")
	case LabelAll:
		labels = accent.Render("Labels: all")
	}

	compass := dim.Render(fmt.Sprintf("Az:%.0f° Alt:%.0f°", m.camAz, m.camEl))
	return fmt.Sprintf("%s | %s | %s | %s", title, filter, labels, compass)
}

func (m SkyViewModel) renderStatus() string {
	if len(m.bodies) == 0 {
		return "Nothing above the horizon"
	}
	b := m.bodies[m.focusIdx]
	line := fmt.Sprintf(">>> %s | Alt:%.1f° Az:%.1f° %s | Mag %.1f | %s",
		b.Name, b.Altitude, b.Azimuth, b.Direction(), b.Magnitude, b.Constellation)
	status := lipgloss.NewStyle().Foreground(lipgloss.Color(colorFocused)).Render(line)
	if b.Simulated {
		status += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color(colorSimLabel)).Render("    position from a simplified orbit")
	}
	if b.InGlare() {
		note := fmt.Sprintf("    lost in solar glare (%.1f° from the Sun)", *b.SunSeparation)
		status += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color(colorGlare)).Render(note)
	}
	return status
}

// bodyPos tracks a plotted body for label rendering.
type bodyPos struct {
	x, y      int
	name      string
	isFocused bool
}

func (m SkyViewModel) renderSkyCanvas(width, height int) string {
	canvas := make([][]rune, height)
	colors := make([][]lipgloss.Color, height)
	for y := range canvas {
		canvas[y] = make([]rune, width)
		colors[y] = make([]lipgloss.Color, width)
		for x := range canvas[y] {
			canvas[y][x] = ' '
			colors[y][x] = "236"
		}
	}

	horizonY := height - 2
	for x := 0; x < width; x++ {
		canvas[horizonY][x] = '─'
		colors[horizonY][x] = "60"
	}
	for _, c := range []struct {
		label string
		az    float64
	}{{"N", 0}, {"E", 90}, {"S", 180}, {"W", 270}} {
		m.drawCardinal(canvas, colors, width, height, c.label, c.az)
	}

	if m.showStars {
		for _, s := range m.stars {
			x, y, ok := m.projectToScreen(s.Azimuth, s.Altitude, width, height)
			if ok && x >= 0 && x < width && y >= 0 && y < horizonY {
				canvas[y][x] = glyphStar
				colors[y][x] = colorStar
			}
		}
	}

	var positions []bodyPos
	for i, b := range m.bodies {
		x, y, ok := m.projectToScreen(b.Azimuth, b.Altitude, width, height)
		if !ok || x < 0 || x >= width || y < 0 || y >= horizonY {
			continue
		}
		focused := i == m.focusIdx
		glyph, color := bodyGlyph(b)
		if focused {
			glyph, color = glyphFocused, colorFocused
		}
		canvas[y][x] = glyph
		colors[y][x] = color
		positions = append(positions, bodyPos{x: x, y: y, name: b.Name, isFocused: focused})
	}

	m.renderLabels(canvas, colors, width, horizonY, positions)

	// Observer marker
	if sx := width / 2; height > 0 && sx < width {
		canvas[height-1][sx] = '▲'
		colors[height-1][sx] = "46"
	}

	var out strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.WriteString(lipgloss.NewStyle().Foreground(colors[y][x]).Render(string(canvas[y][x])))
		}
		if y < height-1 {
			out.WriteString("\n")
		}
	}
	return out.String()
}

// renderLabels writes names to the right of glyphs. Focused labels claim
// their cells first.
func (m SkyViewModel) renderLabels(canvas [][]rune, colors [][]lipgloss.Color, width, horizonY int, positions []bodyPos) {
	if m.labelMode == LabelNone {
		return
	}

	claimed := make(map[int]map[int]bool)
	ordered := make([]bodyPos, 0, len(positions))
	for _, p := range positions {
		if p.isFocused {
			ordered = append([]bodyPos{p}, ordered...)
		} else if m.labelMode == LabelAll {
			ordered = append(ordered, p)
		}
	}

	for _, p := range ordered {
		text := p.name
		color := lipgloss.Color(colorLabel)
		if p.isFocused {
			text = "◄ " + p.name
			color = colorFocused
		}
		if claimed[p.y] == nil {
			claimed[p.y] = make(map[int]bool)
		}
		for i, r := range []rune(text) {
			x := p.x + 2 + i
			if x >= width || p.y >= horizonY || claimed[p.y][x] {
				continue
			}
			canvas[p.y][x] = r
			colors[p.y][x] = color
			claimed[p.y][x] = true
		}
	}
}

// bodyGlyph picks a symbol by kind and brightness.
func bodyGlyph(b sky.PositionRecord) (rune, lipgloss.Color) {
	switch {
	case b.Name == "Sun":
		return glyphSun, colorSun
	case b.Category == "moon":
		return glyphMoon, colorMoon
	case b.Magnitude < 0:
		return glyphBright, colorBright
	case b.Magnitude < 3:
		return glyphMedium, colorMedium
	default:
		return glyphDim, colorDim
	}
}

func (m SkyViewModel) drawCardinal(canvas [][]rune, colors [][]lipgloss.Color, width, height int, label string, az float64) {
	x, _, ok := m.projectToScreen(az, m.camEl-fovEl/2, width, height)
	if !ok || x < 0 || x >= width {
		return
	}
	y := height - 2
	canvas[y][x] = rune(label[0])
	colors[y][x] = "252"
}

// projectToScreen converts alt/az to canvas cells relative to the camera.
func (m SkyViewModel) projectToScreen(az, alt float64, width, height int) (int, int, bool) {
	dAz := normalizeAngle(az - m.camAz)
	dEl := alt - m.camEl

	if dAz < -fovAz/2 || dAz > fovAz/2 {
		return 0, 0, false
	}
	if dEl < -fovEl/2 || dEl > fovEl/2 {
		return 0, 0, false
	}

	horizonY := height - 2
	x := int((dAz + fovAz/2) / fovAz * float64(width))
	y := int((fovEl/2 - dEl) / fovEl * float64(horizonY))
	return x, y, true
}

// normalizeAngle wraps angle to -180..+180 range
func normalizeAngle(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a < -180 {
		a += 360
	}
	return a
}

func normalizeAzimuth(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// lerpAngle interpolates between angles, taking shortest path
func lerpAngle(a, b, t float64) float64 {
	return a + normalizeAngle(b-a)*t
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
