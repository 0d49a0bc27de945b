package app

import (
	"context"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/windmap/animator"
	"github.com/pthm-cable/windmap/config"
	"github.com/pthm-cable/windmap/renderer"
)

// Window runs the map in a raylib window with raygui controls.
type Window struct {
	*App

	mapSurf     *renderer.Surface
	labelSurf   *renderer.Surface
	overlaySurf *renderer.Surface
	legendSurf  []*renderer.Surface

	pressed bool
	inside  bool
	lastX   float32
	lastY   float32
}

// NewWindow builds an app on GPU surfaces. The raylib window must be open.
func NewWindow(cfg *config.Config, opts Options) (*Window, error) {
	l := NewLayout(cfg)
	w := &Window{
		mapSurf:     renderer.NewSurface(l.MapW, l.MapH),
		labelSurf:   renderer.NewSurface(l.MapW, l.MapH),
		overlaySurf: renderer.NewSurface(l.WindowW, l.WindowH),
	}
	surfaces := Surfaces{Map: w.mapSurf, Labels: w.labelSurf, Overlay: w.overlaySurf}
	for range cfg.Legend.SpeedsMPH {
		s := renderer.NewSurface(l.PanelW, l.PanelH)
		w.legendSurf = append(w.legendSurf, s)
		surfaces.Legend = append(surfaces.Legend, s)
	}

	var err error
	w.App, err = New(cfg, opts, surfaces)
	if err != nil {
		w.Unload()
		return nil, err
	}
	return w, nil
}

// Run paces ticks with the scheduler until the window closes or ctx ends.
func (w *Window) Run(ctx context.Context) error {
	sched := animator.NewScheduler(w.cfg.Derived.Period, w.cfg.Derived.MinSleep)
	return sched.Run(ctx, func() bool {
		if rl.WindowShouldClose() {
			return false
		}
		w.Tick(w.handleInput, w.present)
		return true
	})
}

// handleInput turns raylib pointer and key state into animator events.
func (w *Window) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		w.SetAnimating(!w.Animating())
	}
	if rl.IsKeyPressed(rl.KeyC) {
		w.SetShowCities(!w.ShowCities())
	}
	if rl.IsKeyPressed(rl.KeyHome) && w.UnzoomVisible() {
		w.Unzoom()
	}

	m := rl.GetMousePosition()
	x, y := float64(m.X), float64(m.Y)
	l := w.layout
	inside := m.X >= 0 && m.Y >= 0 && int(m.X) < l.MapW && int(m.Y) < l.MapH

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && inside && !w.overControls(m) {
		w.pressed = true
		w.PointerDown(x, y)
	}
	if m.X != w.lastX || m.Y != w.lastY {
		switch {
		case inside || w.pressed:
			w.PointerMove(x, y)
		case w.inside:
			w.PointerLeave()
		}
		w.lastX, w.lastY = m.X, m.Y
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) && w.pressed {
		w.pressed = false
		w.PointerUp(x, y)
	}
	w.inside = inside
}

// controlsRect is where the raygui controls sit, at the right of the strip.
func (w *Window) controlsRect() rl.Rectangle {
	l := w.layout
	return rl.Rectangle{X: float32(l.WindowW - 150), Y: float32(l.MapH + 8), Width: 140, Height: float32(l.StripH - 16)}
}

func (w *Window) overControls(m rl.Vector2) bool {
	return rl.CheckCollisionPointRec(m, w.controlsRect())
}

// present draws every layer and the controls to the screen.
func (w *Window) present() {
	renderer.UnbindAll()

	rl.BeginDrawing()
	rl.ClearBackground(rl.White)

	w.mapSurf.Present(0, 0)
	if w.ShowCities() {
		w.labelSurf.Present(0, 0)
	}
	w.overlaySurf.Present(0, 0)
	for i, s := range w.legendSurf {
		x, y := w.layout.Panel(i)
		s.Present(float32(x), float32(y))
	}

	r := w.controlsRect()
	w.SetAnimating(gui.CheckBox(rl.Rectangle{X: r.X, Y: r.Y, Width: 16, Height: 16}, "animating", w.Animating()))
	w.SetShowCities(gui.CheckBox(rl.Rectangle{X: r.X, Y: r.Y + 24, Width: 16, Height: 16}, "show cities", w.ShowCities()))
	if w.UnzoomVisible() {
		if gui.Button(rl.Rectangle{X: r.X, Y: r.Y + 48, Width: 100, Height: 24}, "unzoom") {
			w.Unzoom()
		}
	}

	rl.EndDrawing()
}

// Unload frees every GPU surface.
func (w *Window) Unload() {
	for _, s := range []*renderer.Surface{w.mapSurf, w.labelSurf, w.overlaySurf} {
		if s != nil {
			s.Unload()
		}
	}
	for _, s := range w.legendSurf {
		s.Unload()
	}
}
