package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes counters for the animation loop. Each Metrics owns a
// private registry so runs and tests never share state.
type Metrics struct {
	registry *prometheus.Registry

	Ticks       prometheus.Counter
	Respawns    prometheus.Counter
	Events      *prometheus.CounterVec
	LabelsShown prometheus.Gauge
	TickSeconds prometheus.Histogram
}

// NewMetrics registers the wind map metrics in a fresh registry.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "windmap_ticks_total",
			Help: "Animation ticks executed.",
		}),
		Respawns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "windmap_particle_respawns_total",
			Help: "Particles respawned after aging out or leaving the field.",
		}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "windmap_animator_events_total",
			Help: "Animator notifications delivered, by event.",
		}, []string{"event"}),
		LabelsShown: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "windmap_labels_shown",
			Help: "City labels visible in the current view.",
		}),
		TickSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "windmap_tick_duration_seconds",
			Help:    "Wall-clock cost of one animation tick.",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.02, 0.04, 0.08},
		}),
	}

	for name, c := range map[string]prometheus.Collector{
		"windmap_ticks_total":             m.Ticks,
		"windmap_particle_respawns_total": m.Respawns,
		"windmap_animator_events_total":   m.Events,
		"windmap_labels_shown":            m.LabelsShown,
		"windmap_tick_duration_seconds":   m.TickSeconds,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering %s: %w", name, err)
		}
	}
	return m, nil
}

// Gatherer returns the registry backing these metrics.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return nil
	}
	return m.registry
}

// Event counts one animator notification.
func (m *Metrics) Event(name string) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(name).Inc()
}

// SetLabelsShown records how many labels are visible.
func (m *Metrics) SetLabelsShown(n int) {
	if m == nil {
		return
	}
	m.LabelsShown.Set(float64(n))
}

// Total returns the sum of every sample in the registry for the named
// counter family, or 0 if it has no samples.
func (m *Metrics) Total(name string) float64 {
	families, err := m.registry.Gather()
	if err != nil {
		return 0
	}
	total := 0.0
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				total += c.GetValue()
			}
		}
	}
	return total
}
