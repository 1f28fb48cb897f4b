package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/sky"
)

// SolarSystemModel renders a top-down view of the solar system.
type SolarSystemModel struct {
	width  int
	height int
	bodies []sky.HelioRecord // Sun excluded; it is drawn at the origin

	focusIdx   int // -1 = Sun
	zoomLevel  int
	panX       float64
	panY       float64
	scaleMode  astro.ScaleMode
	labelMode  LabelMode
	userPanned bool
}

// Discrete zoom levels for clean stepping
var zoomLevels = []float64{0.25, 0.5, 0.75, 1.0, 1.5, 2.0, 3.0, 5.0, 10.0}

const defaultZoom = 3

// NewSolarSystemModel creates a new solar system view model.
func NewSolarSystemModel() SolarSystemModel {
	return SolarSystemModel{
		focusIdx:  -1,
		zoomLevel: defaultZoom,
		scaleMode: astro.ScaleLogR,
		labelMode: LabelFocused,
	}
}

func (m SolarSystemModel) scale() float64 {
	if m.zoomLevel < 0 || m.zoomLevel >= len(zoomLevels) {
		return 1.0
	}
	return zoomLevels[m.zoomLevel]
}

// SetSize updates the viewport size.
func (m SolarSystemModel) SetSize(width, height int) SolarSystemModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData replaces the heliocentric positions, keeping focus on the same
// body when it is still present.
func (m SolarSystemModel) UpdateData(helio []sky.HelioRecord) SolarSystemModel {
	focused := ""
	if f := m.FocusedBody(); f != nil {
		focused = f.Name
	}

	m.bodies = m.bodies[:0:0]
	for _, h := range helio {
		if h.Category != "star" {
			m.bodies = append(m.bodies, h)
		}
	}

	m.focusIdx = -1
	for i, b := range m.bodies {
		if b.Name == focused {
			m.focusIdx = i
		}
	}
	return m
}

// Update handles input messages.
func (m SolarSystemModel) Update(msg tea.Msg) (SolarSystemModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "j", "[":
		m.focusPrev()
	case "k", "]":
		m.focusNext()

	case "up":
		m.panY -= 0.1 / m.scale()
		m.userPanned = true
	case "down":
		m.panY += 0.1 / m.scale()
		m.userPanned = true
	case "left":
		m.panX -= 0.1 / m.scale()
		m.userPanned = true
	case "right":
		m.panX += 0.1 / m.scale()
		m.userPanned = true
	case "c":
		m.panX, m.panY = 0, 0
		m.userPanned = false
	case "f":
		m.centerOnFocused()
		m.userPanned = false

	case "+", "=":
		if m.zoomLevel < len(zoomLevels)-1 {
			m.zoomLevel++
			m.recenter()
		}
	case "-":
		if m.zoomLevel > 0 {
			m.zoomLevel--
			m.recenter()
		}
	case "0":
		m.zoomLevel = defaultZoom
		m.recenter()

	case "z":
		m.scaleMode = (m.scaleMode + 1) % 3
		m.recenter()
	case "l":
		m.labelMode = (m.labelMode + 1) % 3
	case "r":
		m.panX, m.panY = 0, 0
		m.zoomLevel = defaultZoom
		m.userPanned = false
	}
	return m, nil
}

func (m *SolarSystemModel) recenter() {
	if !m.userPanned {
		m.centerOnFocused()
	}
}

func (m *SolarSystemModel) focusNext() {
	if len(m.bodies) == 0 {
		return
	}
	m.focusIdx++
	if m.focusIdx >= len(m.bodies) {
		m.focusIdx = -1
	}
	m.centerOnFocused()
	m.userPanned = false
}

func (m *SolarSystemModel) focusPrev() {
	if len(m.bodies) == 0 {
		return
	}
	m.focusIdx--
	if m.focusIdx < -1 {
		m.focusIdx = len(m.bodies) - 1
	}
	m.centerOnFocused()
	m.userPanned = false
}

// centerOnFocused pans so the focused body sits at the screen center.
func (m *SolarSystemModel) centerOnFocused() {
	f := m.FocusedBody()
	if f == nil {
		m.panX, m.panY = 0, 0
		return
	}
	proj := astro.ProjectEclipticTopDown(helioVec(*f), m.scaleMode, m.scale())
	m.panX = -proj.X
	m.panY = -proj.Y
}

func helioVec(h sky.HelioRecord) astro.Vec3 {
	return astro.Vec3{X: h.X, Y: h.Y, Z: h.Z}
}

// View renders the solar system view.
func (m SolarSystemModel) View() string {
	if m.width < 40 || m.height < 10 {
		return "Terminal too small for solar system view"
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.buildCanvas(), m.renderHUD())
}

func (m SolarSystemModel) buildCanvas() string {
	canvasH := max(m.height-5, 5)
	canvasW := m.width

	grid := make([][]rune, canvasH)
	for y := range grid {
		grid[y] = make([]rune, canvasW)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	centerX, centerY := canvasW/2, canvasH/2
	scale := m.scale()

	// log10(31) is about 1.5; fit that radius in the half canvas.
	maxDisplayR := float64(min(centerX, centerY*2)) * 0.9
	displayScale := maxDisplayR / 1.5

	originX := centerX + int(m.panX*displayScale)
	originY := centerY - int(m.panY*displayScale*0.5)

	for _, au := range []float64{1, 5, 10, 20, 30} {
		proj := astro.ProjectEclipticTopDown(astro.Vec3{X: au}, m.scaleMode, scale)
		drawCircle(grid, originX, originY, proj.X*displayScale)
	}

	var positions []bodyPos
	for i, b := range m.bodies {
		proj := astro.ProjectEclipticTopDown(helioVec(b), m.scaleMode, scale)
		sx := originX + int(proj.X*displayScale)
		sy := originY - int(proj.Y*displayScale*0.5)
		if sx < 0 || sx >= canvasW || sy < 0 || sy >= canvasH {
			continue
		}
		focused := i == m.focusIdx
		grid[sy][sx] = helioGlyph(b, focused)
		positions = append(positions, bodyPos{x: sx, y: sy, name: b.Name, isFocused: focused})
	}

	// Sun last so it is never hidden.
	if originX >= 0 && originX < canvasW && originY >= 0 && originY < canvasH {
		grid[originY][originX] = '☉'
		positions = append(positions, bodyPos{x: originX, y: originY, name: "Sun", isFocused: m.focusIdx == -1})
	}

	m.renderLabels(grid, positions)
	return renderGrid(grid)
}

func drawCircle(grid [][]rune, cx, cy int, r float64) {
	if r < 1 {
		return
	}
	h, w := len(grid), len(grid[0])

	steps := max(8, min(int(2*math.Pi*r), 360))
	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + int(r*math.Cos(theta))
		y := cy - int(r*math.Sin(theta)*0.5) // terminal cells are twice as tall
		if x >= 0 && x < w && y >= 0 && y < h && grid[y][x] == ' ' {
			grid[y][x] = '·'
		}
	}
}

func helioGlyph(b sky.HelioRecord, focused bool) rune {
	switch {
	case focused:
		return '◉'
	case b.Category == "satellite":
		return '∘'
	case b.SizeScale >= 15:
		return '○'
	default:
		return '•'
	}
}

func (m SolarSystemModel) renderLabels(grid [][]rune, positions []bodyPos) {
	if m.labelMode == LabelNone {
		return
	}
	w := len(grid[0])
	for _, p := range positions {
		if m.labelMode == LabelFocused && !p.isFocused {
			continue
		}
		text := p.name
		if p.isFocused {
			text = "◄ " + p.name
		}
		for i, r := range []rune(text) {
			x := p.x + 2 + i
			if x >= w {
				break
			}
			if grid[p.y][x] == ' ' || grid[p.y][x] == '·' || p.isFocused {
				grid[p.y][x] = r
			}
		}
	}
}

func renderGrid(grid [][]rune) string {
	var b strings.Builder

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	sunStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	planetStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	giantStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	moonStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("249"))

	for _, row := range grid {
		for _, ch := range row {
			var style lipgloss.Style
			switch ch {
			case ' ':
				b.WriteRune(ch)
				continue
			case '·':
				style = dimStyle
			case '☉':
				style = sunStyle
			case '•':
				style = planetStyle
			case '○':
				style = giantStyle
			case '∘':
				style = moonStyle
			case '◉', '◄':
				style = focusStyle
			default:
				style = labelStyle
			}
			b.WriteString(style.Render(string(ch)))
		}
		b.WriteRune('\n')
	}
	return b.String()
}

func (m SolarSystemModel) renderHUD() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(12)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	if f := m.FocusedBody(); f != nil {
		lon, lat, r := astro.ToSpherical(helioVec(*f))
		b.WriteString(headerStyle.Render("◉ " + f.Name))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Distance:"))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.3f AU", r)))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Ecl Lon:"))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f°", lon)))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Ecl Lat:"))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f°", lat)))
		b.WriteString("  ")
	} else {
		b.WriteString(headerStyle.Render("☉ Sun"))
		b.WriteString("  ")
		b.WriteString(dimStyle.Render("(center of solar system)"))
		b.WriteString("\n")
	}

	labelName := "off"
	switch m.labelMode {
	case LabelFocused:
		labelName = "focus"
	case LabelAll:
		labelName = "all"
	}

	b.WriteString(dimStyle.Render("Mode:"))
	b.WriteString(valueStyle.Render(m.scaleMode.String()))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Zoom:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.2gx", m.scale())))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Labels:"))
	b.WriteString(valueStyle.Render(labelName))
	return b.String()
}

// FocusedBody returns the focused body, or nil for the Sun.
func (m SolarSystemModel) FocusedBody() *sky.HelioRecord {
	if m.focusIdx >= 0 && m.focusIdx < len(m.bodies) {
		return &m.bodies[m.focusIdx]
	}
	return nil
}

// SetFocusByName focuses the named body, or the Sun when absent.
func (m *SolarSystemModel) SetFocusByName(name string) {
	m.focusIdx = -1
	for i, b := range m.bodies {
		if strings.EqualFold(b.Name, name) {
			m.focusIdx = i
			break
		}
	}
	m.centerOnFocused()
}
