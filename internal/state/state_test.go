package state

import (
	"sync"
	"testing"
	"time"

	"github.com/litescript/ls-sky/internal/sky"
)

var t0 = time.Date(2024, 3, 15, 3, 0, 0, 0, time.UTC)

func frame(at time.Time, alts map[string]float64) *Frame {
	f := &Frame{Timestamp: at}
	for _, name := range []string{"Sun", "Moon", "Mars", "Jupiter", "Io"} {
		if alt, ok := alts[name]; ok {
			f.Bodies = append(f.Bodies, sky.PositionRecord{Name: name, Altitude: alt, Azimuth: 100})
		}
	}
	return f
}

func TestNewManager(t *testing.T) {
	cfg := DefaultConfig()
	m := NewManager(cfg)

	if m == nil {
		t.Fatal("NewManager returned nil")
	}

	if m.RefreshInterval() != cfg.RefreshInterval {
		t.Errorf("RefreshInterval = %v, want %v", m.RefreshInterval(), cfg.RefreshInterval)
	}

	if m.HasData() {
		t.Error("HasData should be false initially")
	}
}

func TestManager_Update(t *testing.T) {
	m := NewManager(DefaultConfig())

	f := frame(t0, map[string]float64{"Sun": -30, "Moon": 12.5, "Mars": 40})
	m.Update(f, 100*time.Millisecond, nil)

	if !m.HasData() {
		t.Error("HasData should be true after Update")
	}

	snap := m.Snapshot()

	if snap.Frame != f {
		t.Error("Snapshot Frame doesn't match")
	}

	if snap.FetchDuration != 100*time.Millisecond {
		t.Errorf("FetchDuration = %v, want 100ms", snap.FetchDuration)
	}

	if snap.LastError != nil {
		t.Errorf("LastError = %v, want nil", snap.LastError)
	}

	if len(snap.Visible) != 2 || snap.Visible[0].Name != "Moon" || snap.Visible[1].Name != "Mars" {
		t.Errorf("Visible = %+v", snap.Visible)
	}
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func TestManager_UpdateWithError(t *testing.T) {
	m := NewManager(DefaultConfig())

	testErr := &testError{msg: "query failed"}
	m.Update(nil, 50*time.Millisecond, testErr)

	snap := m.Snapshot()

	if snap.Frame != nil {
		t.Error("Frame should be nil on error")
	}

	if snap.LastError != testErr {
		t.Errorf("LastError = %v, want %v", snap.LastError, testErr)
	}

	if m.HasData() {
		t.Error("HasData should be false after error-only update")
	}
}

func TestManager_HistoryBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxHistoryLen = 3
	m := NewManager(cfg)

	for i := 0; i < 5; i++ {
		m.Update(frame(t0.Add(time.Duration(i)*time.Minute), map[string]float64{"Sun": 1}), 0, nil)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.history) != 3 {
		t.Fatalf("history length = %d, want 3", len(m.history))
	}
	if !m.history[0].Timestamp.Equal(t0.Add(2 * time.Minute)) {
		t.Errorf("oldest frame = %v", m.history[0].Timestamp)
	}
}

func TestManager_BodyHistory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBodyHistory = 4
	m := NewManager(cfg)

	for i := 0; i < 6; i++ {
		m.Update(frame(t0.Add(time.Duration(i)*time.Minute), map[string]float64{"Mars": float64(i)}), 0, nil)
	}

	hist := m.GetBodyHistory("Mars")
	if hist == nil {
		t.Fatal("GetBodyHistory returned nil")
	}
	if len(hist.Altitude) != 4 {
		t.Fatalf("samples = %d, want 4", len(hist.Altitude))
	}
	if hist.Altitude[0].Value != 2 || hist.Altitude[3].Value != 5 {
		t.Errorf("samples = %+v", hist.Altitude)
	}

	hist.Altitude[0].Value = 99
	if again := m.GetBodyHistory("Mars"); again.Altitude[0].Value != 2 {
		t.Error("GetBodyHistory should return a copy")
	}

	if m.GetBodyHistory("Vulcan") != nil {
		t.Error("unknown body should have no history")
	}
}

func TestManager_AltitudeRate(t *testing.T) {
	m := NewManager(DefaultConfig())

	if got := m.AltitudeRate("Sun"); got != 0 {
		t.Errorf("rate with no data = %v", got)
	}

	m.Update(frame(t0, map[string]float64{"Sun": 10}), 0, nil)
	m.Update(frame(t0.Add(2*time.Minute), map[string]float64{"Sun": 10.5}), 0, nil)

	if got := m.AltitudeRate("Sun"); got != 0.25 {
		t.Errorf("AltitudeRate = %v, want 0.25", got)
	}

	m.Update(frame(t0.Add(2*time.Minute), map[string]float64{"Sun": 11}), 0, nil)
	if got := m.AltitudeRate("Sun"); got != 0 {
		t.Errorf("rate over zero interval = %v, want 0", got)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(DefaultConfig())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			alt := float64(i%3) - 1
			m.Update(frame(t0.Add(time.Duration(i)*time.Second), map[string]float64{"Sun": alt, "Moon": -alt}), 0, nil)
		}(i)
		go func() {
			defer wg.Done()
			_ = m.Snapshot()
			_ = m.RecentEvents(5)
			_ = m.AltitudeRate("Sun")
		}()
	}
	wg.Wait()

	if !m.HasData() {
		t.Error("expected data after concurrent updates")
	}
}

func TestManager_SetRefreshInterval(t *testing.T) {
	m := NewManager(DefaultConfig())

	m.SetRefreshInterval(30 * time.Second)

	if m.RefreshInterval() != 30*time.Second {
		t.Errorf("RefreshInterval = %v, want 30s", m.RefreshInterval())
	}
}

func TestManager_EventDetection(t *testing.T) {
	m := NewManager(DefaultConfig())

	m.Update(frame(t0, map[string]float64{"Sun": -1, "Moon": 5, "Mars": 20, "Io": 3}), 0, nil)
	if len(m.RecentEvents(10)) != 0 {
		t.Fatal("first frame should not raise events")
	}

	at := t0.Add(time.Minute)
	m.Update(frame(at, map[string]float64{"Sun": 0.5, "Moon": 0, "Mars": 19}), 0, nil)

	events := m.RecentEvents(10)
	want := map[string]EventType{"Sun": EventRise, "Moon": EventSet, "Io": EventLost}
	if len(events) != len(want) {
		t.Fatalf("events = %+v, want %d", events, len(want))
	}
	for _, e := range events {
		if want[e.Body] != e.Type {
			t.Errorf("%s: event %s, want %s", e.Body, e.Type, want[e.Body])
		}
		if !e.Timestamp.Equal(at) {
			t.Errorf("%s: timestamp %v", e.Body, e.Timestamp)
		}
		if e.Type != EventLost && e.Direction != "East" {
			t.Errorf("%s: direction %q, want East", e.Body, e.Direction)
		}
	}

	// Io reappearing is not a horizon crossing.
	m.Update(frame(at.Add(time.Minute), map[string]float64{"Sun": 1, "Moon": -1, "Mars": 18, "Io": 4}), 0, nil)
	if n := len(m.RecentEvents(10)); n != 3 {
		t.Errorf("events after reappearance = %d, want 3", n)
	}
}

func TestManager_EventRingBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEvents = 4
	m := NewManager(cfg)

	alt := -1.0
	for i := 0; i < 7; i++ {
		m.Update(frame(t0.Add(time.Duration(i)*time.Minute), map[string]float64{"Sun": alt}), 0, nil)
		alt = -alt
	}

	events := m.RecentEvents(10)
	if len(events) != 4 {
		t.Fatalf("events = %d, want 4", len(events))
	}
	for i := 1; i < len(events); i++ {
		if !events[i].Timestamp.After(events[i-1].Timestamp) {
			t.Errorf("events not chronological at %d", i)
		}
	}
	if last := events[3]; last.Type != EventSet || !last.Timestamp.Equal(t0.Add(6*time.Minute)) {
		t.Errorf("newest event = %+v", last)
	}

	if got := m.RecentEvents(2); len(got) != 2 || !got[1].Timestamp.Equal(events[3].Timestamp) {
		t.Errorf("RecentEvents(2) = %+v", got)
	}
}

func TestManager_Snapshot_IncludesEvents(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.Update(frame(t0, map[string]float64{"Jupiter": -2}), 0, nil)
	m.Update(frame(t0.Add(time.Minute), map[string]float64{"Jupiter": 2}), 0, nil)

	snap := m.Snapshot()
	if len(snap.Events) != 1 || snap.Events[0].Type != EventRise {
		t.Errorf("Events = %+v", snap.Events)
	}
}
