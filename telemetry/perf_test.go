package telemetry

import (
	"log/slog"
	"testing"
	"time"
)

type stepClock struct{ t time.Time }

func (c *stepClock) now() time.Time { return c.t }

func (c *stepClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCollector(window int) (*PerfCollector, *stepClock) {
	clock := &stepClock{t: time.Unix(0, 0)}
	pc := NewPerfCollector(window)
	pc.now = clock.now
	return pc, clock
}

func TestPhaseString(t *testing.T) {
	if PhaseMap.String() != "map" || PhaseCapture.String() != "capture" {
		t.Errorf("unexpected names %q %q", PhaseMap, PhaseCapture)
	}
	if Phase(42).String() != "unknown" {
		t.Errorf("expected unknown for out of range phase")
	}
}

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc, clock := newTestCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseMap)
		clock.advance(3 * time.Millisecond)
		pc.StartPhase(PhasePresent)
		clock.advance(1 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.Ticks != 5 {
		t.Errorf("expected 5 ticks, got %d", stats.Ticks)
	}
	if stats.Avg != 4*time.Millisecond {
		t.Errorf("expected 4ms average tick, got %v", stats.Avg)
	}
	if stats.Phases[PhaseMap] != 3*time.Millisecond {
		t.Errorf("expected 3ms map phase, got %v", stats.Phases[PhaseMap])
	}
	if stats.Pct(PhasePresent) != 25 {
		t.Errorf("expected present at 25%%, got %v", stats.Pct(PhasePresent))
	}
	if stats.TicksPerSecond() != 250 {
		t.Errorf("expected 250 ticks/s, got %v", stats.TicksPerSecond())
	}
}

func TestPerfCollector_UntimedLeadIn(t *testing.T) {
	pc, clock := newTestCollector(10)

	pc.StartTick()
	clock.advance(2 * time.Millisecond)
	pc.StartPhase(PhaseLegend)
	clock.advance(2 * time.Millisecond)
	pc.EndTick()

	stats := pc.Stats()
	if stats.Avg != 4*time.Millisecond {
		t.Errorf("expected the whole tick counted, got %v", stats.Avg)
	}
	if stats.Phases[PhaseLegend] != 2*time.Millisecond || stats.Pct(PhaseLegend) != 50 {
		t.Errorf("expected legend at 2ms / 50%%, got %v / %v", stats.Phases[PhaseLegend], stats.Pct(PhaseLegend))
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc, clock := newTestCollector(5)

	// Slow ticks fall out of the window.
	for i := 0; i < 5; i++ {
		pc.StartTick()
		clock.advance(10 * time.Millisecond)
		pc.EndTick()
	}
	for i := 0; i < 5; i++ {
		pc.StartTick()
		clock.advance(2 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.Avg != 2*time.Millisecond {
		t.Errorf("expected 2ms average over the window, got %v", stats.Avg)
	}
	if stats.Max != 2*time.Millisecond || stats.Min != 2*time.Millisecond {
		t.Errorf("expected old slow ticks evicted, min %v max %v", stats.Min, stats.Max)
	}
	if stats.P95 != 2*time.Millisecond {
		t.Errorf("expected p95 of 2ms, got %v", stats.P95)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()
	if stats.Ticks != 0 || stats.Avg != 0 {
		t.Errorf("expected zero stats for empty collector, got %+v", stats)
	}
	if stats.Pct(PhaseMap) != 0 || stats.TicksPerSecond() != 0 {
		t.Error("expected zero derived values for empty collector")
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{Avg: 1500 * time.Microsecond}
	stats.Phases[PhaseMap] = 1200 * time.Microsecond
	stats.Phases[PhaseHover] = 75 * time.Microsecond

	row := stats.ToCSV(42)
	if row.WindowEnd != 42 || row.AvgTickUS != 1500 {
		t.Errorf("unexpected row %+v", row)
	}
	if row.MapPct != 80 || row.HoverPct != 5 || row.LegendPct != 0 {
		t.Errorf("unexpected phase columns %+v", row)
	}
}

func TestPerfStats_LogValue(t *testing.T) {
	stats := PerfStats{Avg: time.Millisecond}
	stats.Phases[PhaseMap] = 600 * time.Microsecond

	v := stats.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("expected group value, got %v", v.Kind())
	}
	found := false
	for _, a := range v.Group() {
		if a.Key == "map_pct" && a.Value.Float64() == 60 {
			found = true
		}
		if a.Key == "legend_pct" {
			t.Error("expected idle phases omitted")
		}
	}
	if !found {
		t.Error("expected map_pct attribute")
	}
}
