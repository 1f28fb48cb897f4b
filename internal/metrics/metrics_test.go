package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/litescript/ls-sky/internal/cache"
	"github.com/litescript/ls-sky/internal/sky"
)

var (
	_ cache.Recorder = (*Metrics)(nil)
	_ sky.Recorder   = (*Metrics)(nil)
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.CacheResult("get_bodies", cache.ResultMiss)
	m.CacheResult("get_bodies", cache.ResultHit)
	m.CacheResult("get_bodies", cache.ResultHit)
	m.CacheResult("get_moon_phase", cache.ResultError)
	m.BodyFailure("Nereid", sky.FailureDataUnavailable)

	tests := []struct {
		name   string
		got    float64
		expect float64
	}{
		{"bodies hit", testutil.ToFloat64(m.cacheRequests.WithLabelValues("get_bodies", "hit")), 2},
		{"bodies miss", testutil.ToFloat64(m.cacheRequests.WithLabelValues("get_bodies", "miss")), 1},
		{"moon error", testutil.ToFloat64(m.cacheRequests.WithLabelValues("get_moon_phase", "error")), 1},
		{"nereid", testutil.ToFloat64(m.bodyFailures.WithLabelValues("Nereid", "data_unavailable")), 1},
	}
	for _, tc := range tests {
		if tc.got != tc.expect {
			t.Errorf("%s = %v, want %v", tc.name, tc.got, tc.expect)
		}
	}

	if n := testutil.CollectAndCount(m.cacheRequests); n != 3 {
		t.Errorf("cache series = %d, want 3", n)
	}
}

func TestMetrics_ObserveQuery(t *testing.T) {
	m := New()
	m.ObserveQuery("get_bodies", 20*time.Millisecond)
	m.ObserveQuery("get_bodies", 40*time.Millisecond)
	m.ObserveQuery("get_moon_phase", time.Millisecond)

	if n := testutil.CollectAndCount(m.queryDuration); n != 2 {
		t.Errorf("histogram series = %d, want 2", n)
	}
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.BodyFailure("Io", sky.FailureCalculation)

	if got := testutil.ToFloat64(b.bodyFailures.WithLabelValues("Io", "calculation")); got != 0 {
		t.Errorf("second instance saw %v failures", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.CacheResult("get_twilight_times", cache.ResultMiss)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	want := `lssky_cache_requests_total{namespace="get_twilight_times",result="miss"} 1`
	if !strings.Contains(string(body), want) {
		t.Errorf("exposition missing %q", want)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("exposition missing runtime metrics")
	}
}
