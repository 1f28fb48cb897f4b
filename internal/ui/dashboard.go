package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/sky"
	"github.com/litescript/ls-sky/internal/state"
)

// Styles for the dashboard
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	belowRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	riseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	setStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// DashboardModel lists every body with its current place.
type DashboardModel struct {
	width     int
	height    int
	cursor    int
	aboveOnly bool
	snapshot  state.Snapshot
	lastErr   error
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel() DashboardModel {
	return DashboardModel{}
}

// SetSize updates the viewport size.
func (m DashboardModel) SetSize(width, height int) DashboardModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m DashboardModel) UpdateData(snapshot state.Snapshot) DashboardModel {
	m.snapshot = snapshot
	m.lastErr = nil
	if n := len(m.rows()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	return m
}

// SetError sets the last error for display.
func (m DashboardModel) SetError(err error) DashboardModel {
	m.lastErr = err
	return m
}

// rows returns the bodies currently listed.
func (m DashboardModel) rows() []sky.PositionRecord {
	if m.aboveOnly {
		return m.snapshot.Visible
	}
	if m.snapshot.Frame == nil {
		return nil
	}
	return m.snapshot.Frame.Bodies
}

// Update handles messages.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	n := len(m.rows())
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "home":
		m.cursor = 0
	case "end":
		if n > 0 {
			m.cursor = n - 1
		}
	case "a":
		m.aboveOnly = !m.aboveOnly
		m.cursor = 0
	}
	return m, nil
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	var b strings.Builder

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("Error: " + m.lastErr.Error()))
		b.WriteString("\n\n")
	}

	if m.snapshot.Frame == nil && m.lastErr == nil {
		b.WriteString("Computing positions...\n")
		return b.String()
	}

	b.WriteString(m.renderBodiesTable())
	b.WriteString("\n")
	b.WriteString(m.renderEvents())
	return b.String()
}

func (m DashboardModel) renderBodiesTable() string {
	var b strings.Builder

	title := "Bodies"
	if m.aboveOnly {
		title = "Bodies above the horizon"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	header := fmt.Sprintf("%-10s %-9s %7s %7s %-10s %6s %-5s %-12s %-6s",
		"Body", "Type", "Alt", "Az", "Dir", "Mag", "Seen", "Const", "Height")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString("  No bodies\n")
		return b.String()
	}

	maxRows := m.height - 12
	if maxRows < 5 {
		maxRows = 5
	}
	startIdx := 0
	if m.cursor >= maxRows {
		startIdx = m.cursor - maxRows + 1
	}
	endIdx := min(startIdx+maxRows, len(rows))

	for i := startIdx; i < endIdx; i++ {
		r := rows[i]
		name := r.Name
		if r.Simulated {
			name += "*"
		}
		row := fmt.Sprintf("%-10s %-9s %7.2f %7.2f %-10s %6.2f %-5s %-12s %s",
			truncate(name, 10),
			truncate(r.Category, 9),
			r.Altitude,
			r.Azimuth,
			r.Direction(),
			r.Magnitude,
			r.Sighting(),
			truncate(r.Constellation, 12),
			renderAltitudeBar(r.Altitude),
		)

		switch {
		case i == m.cursor:
			b.WriteString(selectedRowStyle.Render(row))
		case r.Altitude <= 0:
			b.WriteString(belowRowStyle.Render(row))
		default:
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	if len(rows) > maxRows {
		b.WriteString(fmt.Sprintf("\n  Showing %d-%d of %d bodies", startIdx+1, endIdx, len(rows)))
	}
	return b.String()
}

// renderAltitudeBar draws a 6-cell bar coloured by elevation tier.
func renderAltitudeBar(alt float64) string {
	const cells = 6
	filled := int(alt / 90 * cells)
	filled = max(0, min(filled, cells))
	if alt > 0 && filled == 0 {
		filled = 1
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("·", cells-filled)
	return colorByTier(astro.GetElevationTier(alt), bar)
}

func colorByTier(tier astro.ElevationTier, text string) string {
	var c lipgloss.Color
	switch tier {
	case astro.ElevationHigh:
		c = "46"
	case astro.ElevationMedium:
		c = "226"
	case astro.ElevationLow:
		c = "214"
	default:
		c = "240"
	}
	return lipgloss.NewStyle().Foreground(c).Render(text)
}

func (m DashboardModel) renderEvents() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Horizon events"))
	b.WriteString("\n")

	events := m.snapshot.Events
	if len(events) == 0 {
		b.WriteString("  None yet\n")
		return b.String()
	}
	if len(events) > 5 {
		events = events[len(events)-5:]
	}
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		label := string(e.Type)
		switch e.Type {
		case state.EventRise:
			label = riseStyle.Render(label)
		case state.EventSet:
			label = setStyle.Render(label)
		default:
			label = belowRowStyle.Render(label)
		}
		line := fmt.Sprintf("  %s %-5s %s", e.Timestamp.UTC().Format("15:04:05"), label, e.Body)
		if e.Direction != "" {
			line += " (" + e.Direction + ")"
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// SelectedBody returns the highlighted body, if any.
func (m DashboardModel) SelectedBody() (sky.PositionRecord, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return sky.PositionRecord{}, false
	}
	return rows[m.cursor], true
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
