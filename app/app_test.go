package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/pthm-cable/windmap/animator"
	"github.com/pthm-cable/windmap/config"
	"github.com/pthm-cable/windmap/display"
	"github.com/pthm-cable/windmap/field"
	"github.com/pthm-cable/windmap/render"
	"github.com/pthm-cable/windmap/render/rendertest"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.Particles.Count = 200
	return cfg
}

func recorderSurfaces(cfg *config.Config) (Surfaces, *rendertest.Recorder) {
	l := NewLayout(cfg)
	overlay := rendertest.New(l.WindowW, l.WindowH)
	s := Surfaces{
		Map:     rendertest.New(l.MapW, l.MapH),
		Labels:  rendertest.New(l.MapW, l.MapH),
		Overlay: overlay,
	}
	for range cfg.Legend.SpeedsMPH {
		s.Legend = append(s.Legend, rendertest.New(l.PanelW, l.PanelH))
	}
	return s, overlay
}

func TestParseClick(t *testing.T) {
	tests := []struct {
		in      string
		want    Click
		wantErr bool
	}{
		{"30:450,230", Click{Tick: 30, X: 450, Y: 230}, false},
		{"0: 10.5 , 20", Click{Tick: 0, X: 10.5, Y: 20}, false},
		{"80:unzoom", Click{Tick: 80, Unzoom: true}, false},
		{"450,230", Click{}, true},
		{"x:1,2", Click{}, true},
		{"-1:1,2", Click{}, true},
		{"5:1", Click{}, true},
	}
	for _, tt := range tests {
		got, err := ParseClick(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrBadClick) {
				t.Errorf("ParseClick(%q): expected ErrBadClick, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClick(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClick(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestLayout(t *testing.T) {
	cfg := testConfig(t)
	l := NewLayout(cfg)
	if l.WindowW != 900 || l.WindowH != 461+20+60 {
		t.Errorf("unexpected window %dx%d", l.WindowW, l.WindowH)
	}
	x0, y0 := l.Panel(0)
	x1, _ := l.Panel(1)
	if y0 <= l.MapH || x1-x0 != l.PanelW+70 {
		t.Errorf("unexpected panel placement (%d, %d), next x %d", x0, y0, x1)
	}
	x5, _ := l.Panel(5)
	if x5+l.PanelW > l.WindowW {
		t.Errorf("last panel at %d overflows the window", x5)
	}
}

func TestLoadFieldSynthetic(t *testing.T) {
	cfg := testConfig(t)
	f, desc, err := LoadField(cfg, "")
	if err != nil {
		t.Fatalf("LoadField: %v", err)
	}
	if w, h := f.Size(); w != 38 || h != 16 {
		t.Errorf("expected 38x16 grid, got %dx%d", w, h)
	}
	if b := f.Bounds(); b.X0 != -102 || b.Y1 != 40 {
		t.Errorf("unexpected bounds %+v", b)
	}
	if desc.Timestamp == "" {
		t.Error("expected a timestamp")
	}
}

func TestLoadFieldStations(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "stations.csv")
	data := "name,lat,lon,speed,direction\nICT,37.65,-97.43,5,180\nTOP,39.07,-95.63,3,200\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	f, _, err := LoadField(cfg, path)
	if err != nil {
		t.Fatalf("LoadField: %v", err)
	}
	if w, h := f.Size(); w != 100 || h != 100 {
		t.Errorf("expected 100x100 grid, got %dx%d", w, h)
	}
	if f.MaxLength() <= 0 || f.MaxLength() > 5+1e-9 {
		t.Errorf("gridded speeds should stay within the observations, max %f", f.MaxLength())
	}
}

func TestLoadFieldDescriptor(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "field.yaml")
	desc := field.Synthetic(4, 3, 3, field.Bounds{X0: -100, Y0: 37, X1: -96, Y1: 39}, 5)
	if err := desc.WriteYAML(path); err != nil {
		t.Fatal(err)
	}

	f, _, err := LoadField(cfg, path)
	if err != nil {
		t.Fatalf("LoadField: %v", err)
	}
	if b := f.Bounds(); b.X0 != -100 || b.Y0 != 37 {
		t.Errorf("unexpected bounds %+v", b)
	}

	if _, _, err := LoadField(cfg, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing field file")
	}
}

func TestNewRejectsLegendMismatch(t *testing.T) {
	cfg := testConfig(t)
	s, _ := recorderSurfaces(cfg)
	s.Legend = s.Legend[:2]
	if _, err := New(cfg, Options{Seed: 1}, s); !errors.Is(err, display.ErrLegendPanels) {
		t.Errorf("expected ErrLegendPanels, got %v", err)
	}
}

func TestTickDrivesComponents(t *testing.T) {
	cfg := testConfig(t)
	s, overlay := recorderSurfaces(cfg)
	a, err := New(cfg, Options{Seed: 1}, s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	presented := 0
	a.Tick(nil, func() { presented++ })
	a.Tick(nil, func() { presented++ })

	if presented != 2 || a.TickCount() != 2 {
		t.Errorf("expected 2 presented ticks, got %d / %d", presented, a.TickCount())
	}
	if got := testutil.ToFloat64(a.Metrics().Ticks); got != 2 {
		t.Errorf("expected ticks counter 2, got %v", got)
	}
	if got := testutil.ToFloat64(a.Metrics().Events.WithLabelValues("animate")); got != 2 {
		t.Errorf("expected 2 animate events, got %v", got)
	}
	if a.Labels().Shown() == 0 {
		t.Error("expected some city labels at the initial view")
	}

	mapRec := s.Map.(*rendertest.Recorder)
	if mapRec.Count(rendertest.OpStrokeLine) == 0 {
		t.Error("expected particle trails on the map surface")
	}
	for i, l := range s.Legend {
		if l.(*rendertest.Recorder).Count(rendertest.OpStrokeLine) == 0 {
			t.Errorf("expected trails on legend panel %d", i)
		}
	}

	texts := overlay.Filter(rendertest.OpFillText)
	found := false
	for _, c := range texts {
		if c.Text == "5 mph" {
			found = true
		}
	}
	if !found {
		t.Error("expected legend caption on the overlay")
	}
}

func TestPauseGatesAnimation(t *testing.T) {
	cfg := testConfig(t)
	s, _ := recorderSurfaces(cfg)
	a, err := New(cfg, Options{Seed: 2}, s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	a.SetAnimating(false)
	mapRec := s.Map.(*rendertest.Recorder)
	mapRec.Reset()
	a.Tick(nil, nil)
	if mapRec.Count(rendertest.OpStrokeLine) != 0 {
		t.Error("expected no particle drawing while paused")
	}
}

func TestClickZoomsAndShowsUnzoom(t *testing.T) {
	cfg := testConfig(t)
	s, _ := recorderSurfaces(cfg)
	a, err := New(cfg, Options{Seed: 3}, s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	a.Tick(nil, nil)
	if a.UnzoomVisible() {
		t.Fatal("expected unzoom hidden at the initial view")
	}

	a.Tick(func() {
		a.PointerDown(450, 230)
		a.PointerUp(450, 230)
	}, nil)
	if a.Map().State() != animator.StateZoom {
		t.Fatalf("expected zoom state, got %v", a.Map().State())
	}
	if !a.UnzoomVisible() {
		t.Error("expected unzoom visible while zoomed")
	}

	for i := 0; i < 20; i++ {
		a.Tick(nil, nil)
	}
	if a.Map().Scale() != cfg.Animator.ZoomFactor {
		t.Errorf("expected scale %f, got %f", cfg.Animator.ZoomFactor, a.Map().Scale())
	}

	a.Unzoom()
	for i := 0; i < 20; i++ {
		a.Tick(nil, nil)
	}
	if a.UnzoomVisible() {
		t.Error("expected unzoom hidden after returning to the initial view")
	}
}

func TestHeadlessRunWritesFrames(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	h, err := NewHeadless(cfg, Options{Seed: 4, OutputDir: dir})
	if err != nil {
		t.Fatalf("NewHeadless: %v", err)
	}
	defer h.Close()

	clicks := []Click{{Tick: 1, X: 450, Y: 230}}
	if err := h.Run(context.Background(), 3, clicks); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if h.Output().Frames() != 3 {
		t.Errorf("expected 3 frames, got %d", h.Output().Frames())
	}
	if h.Map().State() != animator.StateZoom {
		t.Errorf("expected the scripted click to start a zoom, got %v", h.Map().State())
	}
	if _, err := os.Stat(filepath.Join(dir, "frame_00002.png")); err != nil {
		t.Errorf("expected last frame on disk: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("expected config snapshot: %v", err)
	}

	img := h.Frame()
	l := h.Layout()
	if b := img.Bounds(); b.Dx() != l.WindowW || b.Dy() != l.WindowH {
		t.Errorf("expected %dx%d frame, got %v", l.WindowW, l.WindowH, b)
	}
	bg := cfg.Derived.Background
	if got := img.RGBAAt(5, l.MapH-5); got.A != 255 {
		t.Errorf("expected opaque map pixel, got %v (background %v)", got, bg)
	}
}

func TestHeadlessRunCancelled(t *testing.T) {
	cfg := testConfig(t)
	h, err := NewHeadless(cfg, Options{Seed: 5})
	if err != nil {
		t.Fatalf("NewHeadless: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.Run(ctx, 10, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if h.TickCount() != 0 {
		t.Errorf("expected no ticks after cancel, got %d", h.TickCount())
	}
}

var _ render.Surface = (*rendertest.Recorder)(nil)
