// Package state provides thread-safe state management for watch mode.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-sky/internal/sky"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventRise EventType = "RISE"
	EventSet  EventType = "SET"
	EventLost EventType = "LOST"
)

// Event represents a body crossing the horizon between two refreshes.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Body      string    `json:"body"`
	Azimuth   float64   `json:"azimuth"`
	Direction string    `json:"direction,omitempty"`
}

// Frame is one refresh's worth of body records.
type Frame struct {
	Timestamp time.Time
	Bodies    []sky.PositionRecord
}

// BodyHistory tracks altitude samples for a body.
type BodyHistory struct {
	Body     string
	Altitude []TimeSeries
}

// TimeSeries is a single data point with timestamp.
type TimeSeries struct {
	Timestamp time.Time
	Value     float64
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current state
	current       *Frame
	lastFetch     time.Time
	lastError     error
	fetchDuration time.Duration

	// Previous altitudes for event detection
	prevAlt map[string]float64

	// History buffers
	history        []Frame
	maxHistoryLen  int
	bodyHistory    map[string]*BodyHistory
	maxBodyHistory int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	// Configuration
	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen   int
	MaxBodyHistory  int
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen:   60,
		MaxBodyHistory:  120,
		MaxEvents:       50,
		RefreshInterval: 5 * time.Second,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxHistoryLen:   cfg.MaxHistoryLen,
		maxBodyHistory:  cfg.MaxBodyHistory,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
		bodyHistory:     make(map[string]*BodyHistory),
		prevAlt:         make(map[string]float64),
	}
}

// Update atomically records a new frame. A nil frame only records the
// fetch outcome.
func (m *Manager) Update(frame *Frame, fetchDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastFetch = time.Now()
	m.lastError = err
	m.fetchDuration = fetchDuration

	if frame == nil {
		return
	}

	m.detectEvents(frame)
	m.current = frame

	m.history = append(m.history, *frame)
	if len(m.history) > m.maxHistoryLen {
		m.history = m.history[1:]
	}

	m.updateBodyHistory(frame)

	m.prevAlt = make(map[string]float64, len(frame.Bodies))
	for _, b := range frame.Bodies {
		m.prevAlt[b.Name] = b.Altitude
	}
}

// detectEvents compares the new frame with the previous altitudes. The
// first frame seeds state and raises nothing.
func (m *Manager) detectEvents(frame *Frame) {
	if m.current == nil {
		return
	}

	seen := make(map[string]bool, len(frame.Bodies))
	for _, b := range frame.Bodies {
		seen[b.Name] = true
		prev, ok := m.prevAlt[b.Name]
		if !ok {
			continue
		}
		var typ EventType
		switch {
		case prev <= 0 && b.Altitude > 0:
			typ = EventRise
		case prev > 0 && b.Altitude <= 0:
			typ = EventSet
		default:
			continue
		}
		m.addEvent(Event{
			Type:      typ,
			Timestamp: frame.Timestamp,
			Body:      b.Name,
			Azimuth:   b.Azimuth,
			Direction: b.Direction(),
		})
	}

	for name := range m.prevAlt {
		if !seen[name] {
			m.addEvent(Event{Type: EventLost, Timestamp: frame.Timestamp, Body: name})
		}
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

func (m *Manager) updateBodyHistory(frame *Frame) {
	for _, b := range frame.Bodies {
		hist, ok := m.bodyHistory[b.Name]
		if !ok {
			hist = &BodyHistory{
				Body:     b.Name,
				Altitude: make([]TimeSeries, 0, m.maxBodyHistory),
			}
			m.bodyHistory[b.Name] = hist
		}
		hist.Altitude = append(hist.Altitude, TimeSeries{Timestamp: frame.Timestamp, Value: b.Altitude})
		if len(hist.Altitude) > m.maxBodyHistory {
			hist.Altitude = hist.Altitude[1:]
		}
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Frame         *Frame
	LastFetch     time.Time
	LastError     error
	FetchDuration time.Duration
	NextRefresh   time.Time
	Visible       []sky.PositionRecord
	Events        []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var visible []sky.PositionRecord
	if m.current != nil {
		for _, b := range m.current.Bodies {
			if b.Altitude > 0 {
				visible = append(visible, b)
			}
		}
	}

	return Snapshot{
		Frame:         m.current,
		LastFetch:     m.lastFetch,
		LastError:     m.lastError,
		FetchDuration: m.fetchDuration,
		NextRefresh:   m.nextRefresh(),
		Visible:       visible,
		Events:        m.getEventsOrdered(),
	}
}

func (m *Manager) nextRefresh() time.Time {
	if m.lastFetch.IsZero() {
		return time.Time{}
	}
	return m.lastFetch.Add(m.refreshInterval)
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// GetBodyHistory returns a copy of a body's altitude history, or nil.
func (m *Manager) GetBodyHistory(body string) *BodyHistory {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hist, ok := m.bodyHistory[body]
	if !ok {
		return nil
	}
	out := &BodyHistory{
		Body:     hist.Body,
		Altitude: make([]TimeSeries, len(hist.Altitude)),
	}
	copy(out.Altitude, hist.Altitude)
	return out
}

// AltitudeRate estimates a body's altitude change in degrees per minute
// from its last two samples. Positive means rising.
func (m *Manager) AltitudeRate(body string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hist, ok := m.bodyHistory[body]
	if !ok || len(hist.Altitude) < 2 {
		return 0
	}

	n := len(hist.Altitude)
	p1, p2 := hist.Altitude[n-2], hist.Altitude[n-1]
	minutes := p2.Timestamp.Sub(p1.Timestamp).Minutes()
	if minutes <= 0 {
		return 0
	}
	return (p2.Value - p1.Value) / minutes
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true if we have received at least one frame.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
