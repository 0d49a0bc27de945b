package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCounters(t *testing.T) {
	m, err := NewMetrics()
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	m.Ticks.Inc()
	m.Ticks.Inc()
	m.Respawns.Add(7)
	m.Event("animate")
	m.Event("animate")
	m.Event("move")
	m.SetLabelsShown(4)

	if got := testutil.ToFloat64(m.Ticks); got != 2 {
		t.Errorf("windmap_ticks_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Respawns); got != 7 {
		t.Errorf("windmap_particle_respawns_total = %v, want 7", got)
	}
	if got := testutil.ToFloat64(m.Events.WithLabelValues("animate")); got != 2 {
		t.Errorf("animate events = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.LabelsShown); got != 4 {
		t.Errorf("windmap_labels_shown = %v, want 4", got)
	}
	if got := m.Total("windmap_animator_events_total"); got != 3 {
		t.Errorf("total events = %v, want 3", got)
	}
}

func TestMetricsIsolated(t *testing.T) {
	a, err := NewMetrics()
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	b, err := NewMetrics()
	if err != nil {
		t.Fatalf("second NewMetrics: %v", err)
	}
	a.Ticks.Inc()
	if got := testutil.ToFloat64(b.Ticks); got != 0 {
		t.Errorf("expected separate registries, got %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Event("animate")
	m.SetLabelsShown(3)
	if m.Gatherer() != nil {
		t.Error("expected nil gatherer")
	}
}
