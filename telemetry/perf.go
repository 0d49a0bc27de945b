package telemetry

import (
	"context"
	"log/slog"
	"time"
)

// Phase is one timed section of a tick.
type Phase int

const (
	PhaseInput Phase = iota
	PhaseMap
	PhaseLegend
	PhaseHover
	PhasePresent
	PhaseCapture
	phaseCount
)

var phaseNames = [phaseCount]string{"input", "map", "legend", "hover", "present", "capture"}

func (p Phase) String() string {
	if p < 0 || p >= phaseCount {
		return "unknown"
	}
	return phaseNames[p]
}

// tickTiming is the measured cost of one tick.
type tickTiming struct {
	total  time.Duration
	phases [phaseCount]time.Duration
}

// PerfCollector keeps the timings of the last window ticks in a ring.
type PerfCollector struct {
	ring  []tickTiming
	next  int
	count int

	cur       tickTiming
	tickStart time.Time
	mark      time.Time
	phase     Phase
	inPhase   bool

	now func() time.Time
}

// NewPerfCollector creates a collector averaging over window ticks
// (50 is one second at a 20ms period).
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 50
	}
	return &PerfCollector{ring: make([]tickTiming, window), now: time.Now}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.mark = p.tickStart
	p.cur = tickTiming{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts ph.
func (p *PerfCollector) StartPhase(ph Phase) {
	p.lap()
	p.phase = ph
	p.inPhase = true
}

func (p *PerfCollector) lap() {
	t := p.now()
	if p.inPhase {
		p.cur.phases[p.phase] += t.Sub(p.mark)
	}
	p.mark = t
}

// EndTick closes the running phase and records the tick.
func (p *PerfCollector) EndTick() {
	p.lap()
	p.cur.total = p.mark.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// PerfStats summarizes the collector's window.
type PerfStats struct {
	Ticks int

	Avg time.Duration
	Min time.Duration
	Max time.Duration
	P50 time.Duration
	P95 time.Duration

	// Mean time spent in each phase.
	Phases [phaseCount]time.Duration
}

// Stats computes statistics over the ticks in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Ticks: p.count}
	if p.count == 0 {
		return s
	}

	totals := make([]time.Duration, 0, p.count)
	var sum time.Duration
	var phaseSum [phaseCount]time.Duration
	for _, t := range p.ring[:p.count] {
		totals = append(totals, t.total)
		sum += t.total
		if len(totals) == 1 || t.total < s.Min {
			s.Min = t.total
		}
		s.Max = max(s.Max, t.total)
		for i, d := range t.phases {
			phaseSum[i] += d
		}
	}

	n := time.Duration(p.count)
	s.Avg = sum / n
	for i := range phaseSum {
		s.Phases[i] = phaseSum[i] / n
	}
	s.P50, s.P95 = TickPercentiles(totals)
	return s
}

// Pct returns the share of the mean tick spent in ph, in percent.
func (s PerfStats) Pct(ph Phase) float64 {
	if s.Avg <= 0 || ph < 0 || ph >= phaseCount {
		return 0
	}
	return float64(s.Phases[ph]) / float64(s.Avg) * 100
}

// TicksPerSecond is the throughput the mean tick cost allows.
func (s PerfStats) TicksPerSecond() float64 {
	if s.Avg <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.Avg)
}

func (s PerfStats) attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.Int("ticks", s.Ticks),
		slog.Int64("avg_tick_us", s.Avg.Microseconds()),
		slog.Int64("p50_tick_us", s.P50.Microseconds()),
		slog.Int64("p95_tick_us", s.P95.Microseconds()),
		slog.Int64("max_tick_us", s.Max.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond())),
	}
	for ph := Phase(0); ph < phaseCount; ph++ {
		if pct := s.Pct(ph); pct > 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return attrs
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	return slog.GroupValue(s.attrs()...)
}

// LogStats logs the summary as one "perf" record.
func (s PerfStats) LogStats() {
	slog.LogAttrs(context.Background(), slog.LevelInfo, "perf", s.attrs()...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd   int64   `csv:"window_end"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	MinTickUS   int64   `csv:"min_tick_us"`
	MaxTickUS   int64   `csv:"max_tick_us"`
	P95TickUS   int64   `csv:"p95_tick_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
	InputPct    float64 `csv:"input_pct"`
	MapPct      float64 `csv:"map_pct"`
	LegendPct   float64 `csv:"legend_pct"`
	HoverPct    float64 `csv:"hover_pct"`
	PresentPct  float64 `csv:"present_pct"`
	CapturePct  float64 `csv:"capture_pct"`
}

// ToCSV flattens s into a row ending at tick windowEnd.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:   windowEnd,
		AvgTickUS:   s.Avg.Microseconds(),
		MinTickUS:   s.Min.Microseconds(),
		MaxTickUS:   s.Max.Microseconds(),
		P95TickUS:   s.P95.Microseconds(),
		TicksPerSec: s.TicksPerSecond(),
		InputPct:    s.Pct(PhaseInput),
		MapPct:      s.Pct(PhaseMap),
		LegendPct:   s.Pct(PhaseLegend),
		HoverPct:    s.Pct(PhaseHover),
		PresentPct:  s.Pct(PhasePresent),
		CapturePct:  s.Pct(PhaseCapture),
	}
}
