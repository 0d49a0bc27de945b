package telemetry

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/windmap/config"
)

// OutputManager handles run output: perf CSV, the effective config and
// captured frames.
type OutputManager struct {
	dir      string
	perfFile *os.File

	perfHeaderWritten bool
	frames            int
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	return &OutputManager{dir: dir, perfFile: f}, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int64) error {
	if om == nil {
		return nil
	}

	records := []PerfStatsCSV{stats.ToCSV(windowEnd)}

	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
	}

	return nil
}

// WriteFrame saves img as the next numbered PNG frame and returns its path.
func (om *OutputManager) WriteFrame(img image.Image) (string, error) {
	if om == nil {
		return "", nil
	}
	path := filepath.Join(om.dir, fmt.Sprintf("frame_%05d.png", om.frames))
	if err := writePNG(path, img); err != nil {
		return "", err
	}
	om.frames++
	return path, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating frame: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding frame: %w", err)
	}
	return f.Close()
}

// Frames returns how many frames have been written.
func (om *OutputManager) Frames() int {
	if om == nil {
		return 0
	}
	return om.frames
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil || om.perfFile == nil {
		return nil
	}
	return om.perfFile.Close()
}
