package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pthm-cable/windmap/config"
	"github.com/pthm-cable/windmap/render"
	"github.com/pthm-cable/windmap/telemetry"
)

var ErrBadClick = errors.New("app: click must look like tick:x,y or tick:unzoom")

// Click is a scripted pointer action for headless runs.
type Click struct {
	Tick   int64
	X, Y   float64
	Unzoom bool
}

// ParseClick parses "30:450,230" (click at 450,230 before tick 30) or
// "80:unzoom".
func ParseClick(s string) (Click, error) {
	tickPart, rest, ok := strings.Cut(s, ":")
	if !ok {
		return Click{}, fmt.Errorf("%w: %q", ErrBadClick, s)
	}
	tick, err := strconv.ParseInt(strings.TrimSpace(tickPart), 10, 64)
	if err != nil || tick < 0 {
		return Click{}, fmt.Errorf("%w: %q", ErrBadClick, s)
	}
	rest = strings.TrimSpace(rest)
	if rest == "unzoom" {
		return Click{Tick: tick, Unzoom: true}, nil
	}
	xs, ys, ok := strings.Cut(rest, ",")
	if !ok {
		return Click{}, fmt.Errorf("%w: %q", ErrBadClick, s)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return Click{}, fmt.Errorf("%w: %q", ErrBadClick, s)
	}
	return Click{Tick: tick, X: x, Y: y}, nil
}

// Headless renders the map with the software canvas and captures frames.
type Headless struct {
	*App

	mapSurf     *render.CanvasSurface
	labelSurf   *render.CanvasSurface
	overlaySurf *render.CanvasSurface
	legendSurf  []*render.CanvasSurface
}

// NewHeadless builds an app on software surfaces.
func NewHeadless(cfg *config.Config, opts Options) (*Headless, error) {
	l := NewLayout(cfg)
	h := &Headless{}

	var err error
	if h.mapSurf, err = render.NewCanvasSurface(l.MapW, l.MapH); err != nil {
		return nil, err
	}
	if h.labelSurf, err = render.NewCanvasSurface(l.MapW, l.MapH); err != nil {
		return nil, err
	}
	if h.overlaySurf, err = render.NewCanvasSurface(l.WindowW, l.WindowH); err != nil {
		return nil, err
	}

	surfaces := Surfaces{Map: h.mapSurf, Labels: h.labelSurf, Overlay: h.overlaySurf}
	for range cfg.Legend.SpeedsMPH {
		s, err := render.NewCanvasSurface(l.PanelW, l.PanelH)
		if err != nil {
			return nil, err
		}
		h.legendSurf = append(h.legendSurf, s)
		surfaces.Legend = append(surfaces.Legend, s)
	}

	h.App, err = New(cfg, opts, surfaces)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Frame flattens every layer into one image.
func (h *Headless) Frame() *image.RGBA {
	layers := []image.Image{h.mapSurf.Image()}
	if h.ShowCities() {
		layers = append(layers, h.labelSurf.Image())
	}
	layers = append(layers, h.overlaySurf.Image())
	for i, s := range h.legendSurf {
		x, y := h.layout.Panel(i)
		layers = append(layers, render.Offset(s.Image(), x, y))
	}
	return render.Composite(h.cfg.Derived.Outside, layers...)
}

// Run executes ticks, applying scripted clicks, and writes a frame after
// each one when output is enabled. It stops early if ctx is cancelled.
func (h *Headless) Run(ctx context.Context, ticks int64, clicks []Click) error {
	for h.TickCount() < ticks {
		if err := ctx.Err(); err != nil {
			return err
		}
		tick := h.TickCount()
		input := func() {
			for _, c := range clicks {
				if c.Tick != tick {
					continue
				}
				if c.Unzoom {
					h.Unzoom()
					continue
				}
				h.PointerMove(c.X, c.Y)
				h.PointerDown(c.X, c.Y)
				h.PointerUp(c.X, c.Y)
			}
		}

		var captureErr error
		capture := func() {
			if h.Output() == nil {
				return
			}
			h.perf.StartPhase(telemetry.PhaseCapture)
			if _, err := h.Output().WriteFrame(h.Frame()); err != nil {
				captureErr = err
			}
		}
		h.Tick(input, capture)
		if captureErr != nil {
			return fmt.Errorf("capturing tick %d: %w", tick, captureErr)
		}
	}
	slog.Info("headless run finished", "ticks", h.TickCount(), "frames", h.Output().Frames())
	return nil
}
