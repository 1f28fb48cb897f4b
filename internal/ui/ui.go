// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/sky"
	"github.com/litescript/ls-sky/internal/state"
	"github.com/litescript/ls-sky/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewDashboard ViewMode = iota
	ViewSky
	ViewSolarSystem

	viewCount
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// DataUpdateMsg signals a new frame of positions is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
		Helio    []sky.HelioRecord
	}

	// ErrorMsg signals a failed refresh.
	ErrorMsg struct {
		Error error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	state    *state.Manager
	observer string

	viewMode ViewMode
	width    int
	height   int
	ready    bool
	animTick int

	dashboard   DashboardModel
	skyView     SkyViewModel
	solarSystem SolarSystemModel

	snapshot state.Snapshot
}

// New creates a new root UI model for an observer at obs.
func New(stateMgr *state.Manager, obs astro.Observer) Model {
	return Model{
		state:       stateMgr,
		observer:    fmt.Sprintf("%.4f, %.4f", obs.LatDeg, obs.LonDeg),
		viewMode:    ViewDashboard,
		dashboard:   NewDashboardModel(),
		skyView:     NewSkyViewModel().WithObserver(obs),
		solarSystem: NewSolarSystemModel(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), animTickCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "d":
			m.viewMode = ViewDashboard
		case "2", "s":
			m.viewMode = ViewSky
		case "3", "o":
			m.viewMode = ViewSolarSystem

		case "tab":
			m.viewMode = (m.viewMode + 1) % viewCount

		case "enter":
			// Open the highlighted body in the sky view.
			if m.viewMode == ViewDashboard {
				if b, ok := m.dashboard.SelectedBody(); ok {
					m.skyView = m.skyView.Focus(b.Name)
					m.solarSystem.SetFocusByName(b.Name)
					m.viewMode = ViewSky
				}
				break
			}
			cmds = append(cmds, m.updateActiveView(msg))

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo and tabs take ~11 lines, footer ~2
		contentHeight := msg.Height - 13
		m.dashboard = m.dashboard.SetSize(msg.Width, contentHeight)
		m.skyView = m.skyView.SetSize(msg.Width, contentHeight)
		m.solarSystem = m.solarSystem.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		if m.state != nil {
			m.snapshot = m.state.Snapshot()
		}

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case DataUpdateMsg:
		m.snapshot = msg.Snapshot
		m.dashboard = m.dashboard.UpdateData(m.snapshot)
		m.skyView = m.skyView.UpdateData(m.snapshot)
		if msg.Helio != nil {
			m.solarSystem = m.solarSystem.UpdateData(msg.Helio)
		}

	case ErrorMsg:
		m.dashboard = m.dashboard.SetError(msg.Error)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewSky:
		m.skyView, cmd = m.skyView.Update(msg)
	case ViewSolarSystem:
		m.solarSystem, cmd = m.solarSystem.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewDashboard:
		content = m.dashboard.View()
	case ViewSky:
		content = m.skyView.View()
	case ViewSolarSystem:
		content = m.solarSystem.View()
	}

	return m.renderLogo() + m.renderTabs() + "\n" + content + "\n" + m.renderFooter()
}

var logo = []string{
	`  ██╗     ███████╗      ███████╗██╗  ██╗██╗   ██╗`,
	`  ██║     ██╔════╝      ██╔════╝██║ ██╔╝╚██╗ ██╔╝`,
	`  ██║     ███████╗█████╗███████╗█████╔╝  ╚████╔╝ `,
	`  ██║     ╚════██║╚════╝╚════██║██╔═██╗   ╚██╔╝  `,
	`  ███████╗███████║      ███████║██║  ██╗   ██║   `,
	`  ╚══════╝╚══════╝      ╚══════╝╚═╝  ╚═╝   ╚═╝   `,
}

func (m Model) renderLogo() string {
	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			color := gradientColor(col, row, len(runes), len(logo))
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	tagline := "  Celestial Positions · Visibility"
	if m.observer != "" {
		tagline += " · " + m.observer
	}
	b.WriteString(muted.Render(tagline))
	b.WriteString("\n")
	b.WriteString(muted.Render("  v" + version.Version))
	b.WriteString("\n\n")
	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient:
// deep blue to violet to pale gold, darker toward the bottom.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64
	if xRatio < 0.5 {
		t := xRatio / 0.5
		r = 37 + t*(139-37)
		g = 99 + t*(92-99)
		b = 235 + t*(246-235)
	} else {
		t := (xRatio - 0.5) / 0.5
		r = 139 + t*(250-139)
		g = 92 + t*(204-92)
		b = 246 + t*(21-246)
	}

	f := 1.0 - yRatio*0.5
	return fmt.Sprintf("#%02X%02X%02X", clampByte(r*f), clampByte(g*f), clampByte(b*f))
}

func clampByte(v float64) int {
	return max(0, min(int(v), 255))
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Bodies", "[2] Sky", "[3] Orbit"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ") + "\n"
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = errStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case !m.snapshot.LastFetch.IsZero():
		countdown := max(time.Until(m.snapshot.NextRefresh).Round(time.Second), 0)
		status = accentStyle.Render(spinner) + dimStyle.Render(fmt.Sprintf(" refresh in %ds", int(countdown.Seconds())))
		if m.snapshot.FetchDuration > 0 {
			status += dimStyle.Render(" (" + m.snapshot.FetchDuration.Round(time.Millisecond).String() + ")")
		}
	default:
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("Computing positions...")
	}

	var help string
	switch m.viewMode {
	case ViewSky:
		help = "j/k: focus | ←/→: pan | l: labels | c: category | b: stars"
	case ViewSolarSystem:
		help = "j/k: focus | +/-: zoom | arrows: pan | f: find | l: labels | z: mode"
	default:
		help = "↑↓: navigate | a: above horizon | enter: open | tab: switch view"
	}

	return "  " + status + "  " + dimStyle.Render("|") + "  " + dimStyle.Render(help)
}

// ViewMode returns the active view.
func (m Model) ViewMode() ViewMode {
	return m.viewMode
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// SendDataUpdate creates a command that sends a data update message.
func SendDataUpdate(snapshot state.Snapshot, helio []sky.HelioRecord) tea.Cmd {
	return func() tea.Msg {
		return DataUpdateMsg{Snapshot: snapshot, Helio: helio}
	}
}

// SendError creates a command that sends an error message.
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Error: err}
	}
}

// renderShimmerText renders text with a moving highlight.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	pos := m.animTick % (len(runes) + 8)

	var out strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 180, 160, 220
		case dist <= 3:
			r8, g8, b8 = 140, 120, 180
		case dist <= 5:
			r8, g8, b8 = 110, 90, 150
		default:
			r8, g8, b8 = 80, 70, 120
		}
		hex := fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)
		out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(string(r)))
	}
	return out.String()
}
