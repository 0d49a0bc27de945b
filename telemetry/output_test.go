package telemetry

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/windmap/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager, got %v, %v", om, err)
	}
	if err := om.WritePerf(PerfStats{}, 1); err != nil {
		t.Errorf("nil WritePerf: %v", err)
	}
	if path, err := om.WriteFrame(image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil || path != "" {
		t.Errorf("nil WriteFrame: %q, %v", path, err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestOutputManagerWrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	stats := PerfStats{Ticks: 50, Avg: time.Millisecond}
	stats.Phases[PhaseMap] = 500 * time.Microsecond
	if err := om.WritePerf(stats, 50); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.WritePerf(stats, 100); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}

	path, err := om.WriteFrame(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if filepath.Base(path) != "frame_00000.png" || om.Frames() != 1 {
		t.Errorf("unexpected frame %q (count %d)", path, om.Frames())
	}
	frame, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(frame)
	frame.Close()
	if err != nil {
		t.Fatalf("decoding frame: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Errorf("expected 4x4 frame, got %v", b)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("expected config.yaml: %v", err)
	}
}
