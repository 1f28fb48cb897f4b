// Package report renders engine results as text tables or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/neo"
	"github.com/litescript/ls-sky/internal/sky"
	"github.com/litescript/ls-sky/internal/state"
)

const ruleWidth = 86

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	medStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Writer renders tables, optionally with terminal colours.
type Writer struct {
	w      io.Writer
	styled bool
}

// NewWriter returns a table writer. styled enables ANSI colours.
func NewWriter(w io.Writer, styled bool) *Writer {
	return &Writer{w: w, styled: styled}
}

func (w *Writer) paint(s lipgloss.Style, text string) string {
	if !w.styled {
		return text
	}
	return s.Render(text)
}

func (w *Writer) rule() {
	fmt.Fprintln(w.w, w.paint(dimStyle, strings.Repeat("─", ruleWidth)))
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// BodiesExport is the JSON form of a body listing.
type BodiesExport struct {
	Timestamp time.Time            `json:"timestamp"`
	Latitude  float64              `json:"latitude"`
	Longitude float64              `json:"longitude"`
	Elevation float64              `json:"elevation"`
	Bodies    []sky.PositionRecord `json:"bodies"`
}

// ExportBodies pairs records with the query that produced them.
func ExportBodies(q sky.Query, at time.Time, records []sky.PositionRecord) *BodiesExport {
	if records == nil {
		records = []sky.PositionRecord{}
	}
	return &BodiesExport{
		Timestamp: at,
		Latitude:  q.Latitude,
		Longitude: q.Longitude,
		Elevation: q.Elevation,
		Bodies:    records,
	}
}

func (w *Writer) altitudeStyle(alt float64) lipgloss.Style {
	switch astro.GetElevationTier(alt) {
	case astro.ElevationHigh:
		return highStyle
	case astro.ElevationMedium:
		return medStyle
	case astro.ElevationLow:
		return lowStyle
	default:
		return dimStyle
	}
}

func (w *Writer) sightingStyle(r sky.PositionRecord) lipgloss.Style {
	switch r.SunTier() {
	case astro.SunSepWarning:
		return alertStyle
	case astro.SunSepCaution:
		return lowStyle
	}
	if r.NakedEye() {
		return highStyle
	}
	return dimStyle
}

// WriteBodies writes a body listing as a table.
func (w *Writer) WriteBodies(q sky.Query, at time.Time, records []sky.PositionRecord) {
	fmt.Fprintf(w.w, "%s @ %s  (%.4f, %.4f, %.0f m)\n",
		w.paint(headerStyle, "Sky"), at.UTC().Format(time.RFC3339), q.Latitude, q.Longitude, q.Elevation)
	w.rule()

	if len(records) == 0 {
		fmt.Fprintln(w.w, "No bodies")
		return
	}

	fmt.Fprintln(w.w, w.paint(headerStyle, fmt.Sprintf("%-10s %-9s %8s %8s %-10s %6s %-5s %-12s %14s",
		"Body", "Type", "Alt", "Az", "Dir", "Mag", "Seen", "Const", "Distance km")))
	w.rule()

	above := 0
	for _, r := range records {
		if r.Altitude > 0 {
			above++
		}
		name := truncateStr(r.Name, 10)
		if r.Simulated {
			name = truncateStr(r.Name, 9) + "*"
		}
		alt := w.paint(w.altitudeStyle(r.Altitude), fmt.Sprintf("%8.2f", r.Altitude))
		seen := w.paint(w.sightingStyle(r), fmt.Sprintf("%-5s", r.Sighting()))
		fmt.Fprintf(w.w, "%-10s %-9s %s %8.2f %-10s %6.2f %s %-12s %14.0f\n",
			name,
			truncateStr(r.Category, 9),
			alt,
			r.Azimuth,
			r.Direction(),
			r.Magnitude,
			seen,
			truncateStr(r.Constellation, 12),
			r.DistanceKm,
		)
		if r.RightAscension != nil && r.Declination != nil {
			fmt.Fprintf(w.w, "%-10s RA %s  Dec %s\n", "", r.RightAscension, r.Declination)
		}
	}

	fmt.Fprintf(w.w, "\nTotal: %d bodies, %d above the horizon\n", len(records), above)
	for _, r := range records {
		if r.Simulated {
			fmt.Fprintln(w.w, w.paint(dimStyle, "* position from a simplified orbit"))
			break
		}
	}
}

// WriteBody writes the detailed summary of one body.
func (w *Writer) WriteBody(r sky.PositionRecord) {
	fmt.Fprintln(w.w, sky.FormatBodyInfo(r, true))
	fmt.Fprintln(w.w, strings.ToUpper(r.Phrase()[:1])+r.Phrase()[1:])
}

// WriteMoon writes a moon phase summary.
func (w *Writer) WriteMoon(p sky.MoonPhase) {
	fmt.Fprintf(w.w, "%s  %s\n", w.paint(headerStyle, "Moon "+p.Date), p.PhaseName)
	w.rule()
	fmt.Fprintf(w.w, "Phase:     %.1f%%\n", p.PhasePercent)
	fmt.Fprintf(w.w, "Distance:  %.0f km\n", p.DistanceKm)
	fmt.Fprintf(w.w, "Diameter:  %.4f°\n", p.AngularDiameterDegrees)
}

// WriteTwilight writes dawn and dusk for one date.
func (w *Writer) WriteTwilight(t sky.Twilight) {
	fmt.Fprintf(w.w, "%s  %s twilight\n", w.paint(headerStyle, t.Date), t.Type)
	w.rule()
	fmt.Fprintf(w.w, "Dawn:  %s UTC\n", orDash(t.Dawn))
	fmt.Fprintf(w.w, "Dusk:  %s UTC\n", orDash(t.Dusk))
	if t.Error != "" {
		fmt.Fprintln(w.w, w.paint(dimStyle, t.Error))
	}
}

// NEORow pairs an approach with its verdict.
type NEORow struct {
	Approach   neo.ApproachRecord `json:"approach"`
	Visibility neo.Visibility     `json:"visibility"`
}

// WriteNEO writes approach verdicts as a table.
func (w *Writer) WriteNEO(rows []NEORow) {
	fmt.Fprintln(w.w, w.paint(headerStyle, "Near-Earth object approaches"))
	w.rule()
	if len(rows) == 0 {
		fmt.Fprintln(w.w, "No approaches")
		return
	}

	fmt.Fprintln(w.w, w.paint(headerStyle, fmt.Sprintf("%-22s %-10s %12s %8s %-10s %5s %5s",
		"Name", "Date", "Miss (LD)", "Diam km", "Dir", "Alt", "Az")))
	w.rule()
	visible := 0
	for _, r := range rows {
		name := truncateStr(r.Approach.Name, 22)
		if r.Approach.IsPotentiallyHazardous {
			name = w.paint(alertStyle, fmt.Sprintf("%-22s", name))
		} else {
			name = fmt.Sprintf("%-22s", name)
		}
		dir, alt, az := "-", "-", "-"
		if r.Visibility.Visible {
			visible++
			dir = r.Visibility.Direction
			alt = fmt.Sprintf("%d", r.Visibility.Elevation)
			az = fmt.Sprintf("%d", r.Visibility.Azimuth)
		}
		fmt.Fprintf(w.w, "%s %-10s %12.1f %8.3f %-10s %5s %5s\n",
			name, r.Approach.CloseApproachDate, r.Approach.MissDistanceLunar, r.Approach.DiameterAvgKm, dir, alt, az)
	}
	fmt.Fprintf(w.w, "\nTotal: %d approaches, %d plausibly visible\n", len(rows), visible)
	if visible > 0 {
		fmt.Fprintln(w.w, w.paint(dimStyle, neo.Note))
	}
}

// WriteHelio writes heliocentric positions.
func (w *Writer) WriteHelio(at time.Time, recs []sky.HelioRecord) {
	fmt.Fprintf(w.w, "%s @ %s\n", w.paint(headerStyle, "Heliocentric (AU, ecliptic of date)"), at.UTC().Format(time.RFC3339))
	w.rule()
	for _, r := range recs {
		fmt.Fprintf(w.w, "%-10s %-9s %10.4f %10.4f %10.4f\n", truncateStr(r.Name, 10), truncateStr(r.Category, 9), r.X, r.Y, r.Z)
	}
}

// WriteMeta writes engine metadata.
func (w *Writer) WriteMeta(m sky.Meta) {
	fmt.Fprintln(w.w, w.paint(headerStyle, m.EngineVersion))
	w.rule()
	fmt.Fprintf(w.w, "Ephemeris:    %s\n", m.Ephemeris)
	fmt.Fprintf(w.w, "Calculation:  %s\n", m.CalculationType)
	fmt.Fprintf(w.w, "Timestamp:    %s\n", m.Timestamp.UTC().Format(time.RFC3339))
	fmt.Fprintf(w.w, "Observer:     %.4f, %.4f, %.0f m\n", m.Latitude, m.Longitude, m.Elevation)
	fmt.Fprintf(w.w, "Bodies (%d):  %s\n", len(m.Bodies), strings.Join(m.Bodies, ", "))
}

// WriteWindow writes a body's rise, transit and set.
func (w *Writer) WriteWindow(name string, win astro.VisibilityWindow) {
	fmt.Fprintln(w.w, w.paint(headerStyle, name+" visibility"))
	w.rule()
	switch {
	case win.NeverVisible:
		fmt.Fprintln(w.w, "Stays below the horizon")
		return
	case win.AlwaysVisible:
		fmt.Fprintln(w.w, "Stays above the horizon")
	}
	fmt.Fprintf(w.w, "Rise:     %s\n", clock(win.Rise))
	fmt.Fprintf(w.w, "Transit:  %s (%.1f°)\n", clock(win.Transit), win.MaxElevation)
	fmt.Fprintf(w.w, "Set:      %s\n", clock(win.Set))
}

func clock(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04 UTC")
}

// WriteEvents writes horizon crossings, one per line.
func (w *Writer) WriteEvents(events []state.Event) {
	for _, e := range events {
		label := fmt.Sprintf("%-4s", e.Type)
		switch e.Type {
		case state.EventRise:
			label = w.paint(highStyle, label)
		case state.EventSet:
			label = w.paint(lowStyle, label)
		default:
			label = w.paint(dimStyle, label)
		}
		line := fmt.Sprintf("%s %s %s", e.Timestamp.UTC().Format("15:04:05"), label, e.Body)
		if e.Direction != "" {
			line += fmt.Sprintf(" toward %s (%.0f°)", e.Direction, e.Azimuth)
		}
		fmt.Fprintln(w.w, line)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
