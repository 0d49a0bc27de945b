package field

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Descriptor is the on-disk form of a gridded wind field. Field holds
// 2·GridWidth·GridHeight values, interleaved (vx, vy), with the grid's first
// dimension (longitude) outermost. JSON files decode as well since YAML is a
// superset.
type Descriptor struct {
	Timestamp  string    `yaml:"timestamp,omitempty"`
	X0         float64   `yaml:"x0"`
	Y0         float64   `yaml:"y0"`
	X1         float64   `yaml:"x1"`
	Y1         float64   `yaml:"y1"`
	GridWidth  int       `yaml:"gridWidth"`
	GridHeight int       `yaml:"gridHeight"`
	Field      []float64 `yaml:"field,flow"`
}

// Bounds returns the descriptor's bounding box.
func (d *Descriptor) Bounds() Bounds {
	return Bounds{X0: d.X0, Y0: d.Y0, X1: d.X1, Y1: d.Y1}
}

// LoadDescriptor reads a descriptor from a YAML or JSON file.
func LoadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading field file: %w", err)
	}
	d := &Descriptor{}
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("parsing field file: %w", err)
	}
	return d, nil
}

// WriteYAML writes the descriptor to path.
func (d *Descriptor) WriteYAML(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling field: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing field file: %w", err)
	}
	return nil
}

// SplitTimestamp splits a timestamp of the form "1:05 pm on December 9, 2016"
// into its time and day parts. Missing parts come back as "unknown".
func SplitTimestamp(ts string) (timeOfDay, day string) {
	if ts == "" {
		ts = "unknown on unknown"
	}
	parts := strings.SplitN(ts, " on ", 2)
	timeOfDay = strings.TrimSpace(parts[0])
	day = "unknown"
	if len(parts) == 2 {
		day = strings.TrimSpace(parts[1])
		day = strings.Replace(day, " 0", " ", 1)
	}
	return timeOfDay, day
}
