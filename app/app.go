// Package app wires the wind map together: field, projection, particle
// displays, labels and hover readout driven by two animators.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/windmap/animator"
	"github.com/pthm-cable/windmap/config"
	"github.com/pthm-cable/windmap/display"
	"github.com/pthm-cable/windmap/field"
	"github.com/pthm-cable/windmap/hover"
	"github.com/pthm-cable/windmap/labels"
	"github.com/pthm-cable/windmap/projection"
	"github.com/pthm-cable/windmap/render"
	"github.com/pthm-cable/windmap/telemetry"
)

// Options holds run settings that come from the command line.
type Options struct {
	Seed       int64
	FieldPath  string
	CitiesPath string
	OutputDir  string
}

// Surfaces are the render targets the app draws into. Map and Labels cover
// the map canvas; Overlay covers the whole window including the legend strip.
type Surfaces struct {
	Map     render.Surface
	Labels  render.Surface
	Overlay render.Surface
	Legend  []render.Surface
}

// Layout places the legend strip below the map.
type Layout struct {
	MapW, MapH       int
	PanelW, PanelH   int
	StripH           int
	WindowW, WindowH int
}

// NewLayout computes window geometry from the config.
func NewLayout(cfg *config.Config) Layout {
	l := Layout{
		MapW:   cfg.Screen.Width,
		MapH:   cfg.Screen.Height,
		PanelW: cfg.Legend.PanelWidth,
		PanelH: cfg.Legend.PanelHeight,
	}
	l.StripH = l.PanelH + 60
	l.WindowW = l.MapW
	l.WindowH = l.MapH + l.StripH
	return l
}

// Panel returns the top-left corner of the i-th legend panel.
func (l Layout) Panel(i int) (x, y int) {
	return 20 + i*(l.PanelW+70), l.MapH + 30
}

// App owns every component of one wind map.
type App struct {
	cfg    *config.Config
	layout Layout

	field  *field.Field
	proj   projection.Projector
	ramp   *render.Ramp
	hud    []string
	day    string
	clock  string
	frames Surfaces

	mapAnim    *animator.Animator
	legendAnim *animator.Animator
	display    *display.Display
	legend     *display.Legend
	labels     *labels.Placer
	mask       *render.MapMask
	hover      *hover.Details

	metrics *telemetry.Metrics
	perf    *telemetry.PerfCollector
	output  *telemetry.OutputManager

	animating     bool
	showCities    bool
	unzoomVisible bool
	tick          int64
}

// New loads data and builds every component on the given surfaces.
func New(cfg *config.Config, opts Options, surfaces Surfaces) (*App, error) {
	if len(surfaces.Legend) != len(cfg.Legend.SpeedsMPH) {
		return nil, fmt.Errorf("%w: %d surfaces for %d speeds", display.ErrLegendPanels, len(surfaces.Legend), len(cfg.Legend.SpeedsMPH))
	}

	f, desc, err := LoadField(cfg, opts.FieldPath)
	if err != nil {
		return nil, err
	}
	points, err := LoadCities(opts.CitiesPath)
	if err != nil {
		return nil, fmt.Errorf("loading cities: %w", err)
	}

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("creating metrics: %w", err)
	}
	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("saving config: %w", err)
	}

	a := &App{
		cfg:        cfg,
		layout:     NewLayout(cfg),
		field:      f,
		proj:       NewProjection(cfg),
		ramp:       render.DefaultRamp(),
		hud:        hover.Summary(f),
		frames:     surfaces,
		metrics:    metrics,
		perf:       telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		output:     output,
		animating:  true,
		showCities: true,
	}
	a.day, a.clock = hover.Dateline(desc.Timestamp)

	a.mapAnim = animator.New(animatorOptions(cfg))
	a.mapAnim.Gate = a.Animating
	a.mapAnim.OnResetVisible = func(v bool) { a.unzoomVisible = v }

	a.display = display.New(surfaces.Map, f, a.proj, a.ramp, displayOptions(cfg), opts.Seed)
	a.display.SetRespawnCounter(metrics.Respawns)
	a.mapAnim.Add(a.display)

	a.mask = render.NewMapMask(cfg.Screen.Width, cfg.Screen.Height)
	a.mapAnim.Add(a.mask)

	a.hover = hover.New(f, a.proj, cfg.Derived.Dwell, cfg.Derived.Fade)
	a.mapAnim.Add(a.hover)

	a.labels = labels.NewPlacer(surfaces.Labels, a.proj, points, labelOptions(cfg))
	a.mapAnim.Add(a.labels)
	a.mapAnim.Add(eventCounter{metrics})

	a.legendAnim = animator.New(animatorOptions(cfg))
	a.legendAnim.Gate = a.Animating
	a.legend, err = display.NewLegend(surfaces.Legend, cfg.Legend.SpeedsMPH, f.MaxLength(), a.ramp, legendOptions(cfg), opts.Seed+1)
	if err != nil {
		output.Close()
		return nil, err
	}
	a.legendAnim.Add(a.legend)

	slog.Info("app ready",
		"particles", cfg.Particles.Count,
		"cities", len(points),
		"day", a.day,
		"time", a.clock,
	)
	return a, nil
}

// Animating reports whether the animation checkbox is on.
func (a *App) Animating() bool { return a.animating }

// SetAnimating pauses or resumes both animators.
func (a *App) SetAnimating(on bool) { a.animating = on }

// ShowCities reports whether the label layer is visible.
func (a *App) ShowCities() bool { return a.showCities }

// SetShowCities shows or hides the label layer.
func (a *App) SetShowCities(on bool) { a.showCities = on }

// UnzoomVisible reports whether the view differs from the initial one.
func (a *App) UnzoomVisible() bool { return a.unzoomVisible }

// Layout returns the window geometry.
func (a *App) Layout() Layout { return a.layout }

// Map returns the map animator.
func (a *App) Map() *animator.Animator { return a.mapAnim }

// Labels returns the label placer.
func (a *App) Labels() *labels.Placer { return a.labels }

// Metrics returns the run's metrics.
func (a *App) Metrics() *telemetry.Metrics { return a.metrics }

// Output returns the run's output manager, nil when output is disabled.
func (a *App) Output() *telemetry.OutputManager { return a.output }

// TickCount returns how many ticks have run.
func (a *App) TickCount() int64 { return a.tick }

// PointerDown forwards a press inside the map.
func (a *App) PointerDown(x, y float64) { a.mapAnim.MouseDown(x, y) }

// PointerMove forwards pointer motion over the map.
func (a *App) PointerMove(x, y float64) { a.mapAnim.MouseMove(x, y) }

// PointerUp forwards a release.
func (a *App) PointerUp(x, y float64) { a.mapAnim.MouseUp(x, y) }

// PointerLeave hides the hover callout.
func (a *App) PointerLeave() { a.hover.Leave() }

// Unzoom animates back to the initial view.
func (a *App) Unzoom() { a.mapAnim.Unzoom() }

// Tick runs one animation step. input runs before the animators and present
// after the overlay is drawn; either may be nil.
func (a *App) Tick(input, present func()) {
	start := time.Now()
	a.perf.StartTick()

	if input != nil {
		a.perf.StartPhase(telemetry.PhaseInput)
		input()
	}

	a.perf.StartPhase(telemetry.PhaseMap)
	a.mapAnim.Step()

	a.perf.StartPhase(telemetry.PhaseLegend)
	a.legendAnim.Step()

	a.perf.StartPhase(telemetry.PhaseHover)
	a.drawOverlay()

	if present != nil {
		a.perf.StartPhase(telemetry.PhasePresent)
		present()
	}
	a.perf.EndTick()

	a.tick++
	a.metrics.Ticks.Inc()
	a.metrics.TickSeconds.Observe(time.Since(start).Seconds())
	a.metrics.SetLabelsShown(a.labels.Shown())

	if a.tick%int64(a.cfg.Derived.LogInterval) == 0 {
		stats := a.perf.Stats()
		stats.LogStats()
		if err := a.output.WritePerf(stats, a.tick); err != nil {
			slog.Warn("perf output failed", "error", err)
		}
	}
}

var (
	hudColor     = render.RGB(255, 255, 255)
	captionColor = render.RGB(0, 0, 0)
	maskColor    = render.WithAlpha(render.RGB(255, 255, 255), 0.6)
)

// drawOverlay redraws the base-map frame, HUD, legend captions and the hover
// callout.
func (a *App) drawOverlay() {
	s := a.frames.Overlay
	s.Clear()
	a.mask.Draw(s, 1, maskColor)

	size := a.cfg.Hover.FontSize
	lines := append([]string{a.day, a.clock}, a.hud...)
	for i, line := range lines {
		s.FillText(line, 10, 20+float64(i)*size*1.4, size, render.AlignLeft, hudColor)
	}

	l := a.layout
	s.FillRect(0, float64(l.MapH), float64(l.WindowW), float64(l.StripH), render.RGB(255, 255, 255))
	s.FillText("wind speed", 20, float64(l.MapH)+20, size, render.AlignLeft, captionColor)
	for i, mph := range a.cfg.Legend.SpeedsMPH {
		x, y := l.Panel(i)
		s.FillText(fmt.Sprintf("%g mph", mph), float64(x+l.PanelW+6), float64(y+l.PanelH/2)+size/3, size, render.AlignLeft, captionColor)
	}

	r, alpha := a.hover.Update()
	hover.Draw(s, r, alpha, size)
}

// Close flushes output files.
func (a *App) Close() error {
	return a.output.Close()
}

// eventCounter counts map animator notifications.
type eventCounter struct {
	m *telemetry.Metrics
}

func (c eventCounter) StartMove(*animator.Animator) { c.m.Event(animator.EventStartMove.String()) }
func (c eventCounter) Move(*animator.Animator)      { c.m.Event(animator.EventMove.String()) }
func (c eventCounter) EndMove(*animator.Animator)   { c.m.Event(animator.EventEndMove.String()) }
func (c eventCounter) Animate(*animator.Animator)   { c.m.Event(animator.EventAnimate.String()) }
func (c eventCounter) Hover(*animator.Animator)     { c.m.Event(animator.EventHover.String()) }
