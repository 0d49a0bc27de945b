// Package config provides configuration loading and access for the wind map.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all wind map configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Projection ProjectionConfig `yaml:"projection"`
	Particles  ParticlesConfig  `yaml:"particles"`
	Animator   AnimatorConfig   `yaml:"animator"`
	Labels     LabelsConfig     `yaml:"labels"`
	Legend     LegendConfig     `yaml:"legend"`
	Hover      HoverConfig      `yaml:"hover"`
	Data       DataConfig       `yaml:"data"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds canvas size and tick pacing.
type ScreenConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	PeriodMS   float64 `yaml:"period_ms"`    // target tick period
	MinSleepMS float64 `yaml:"min_sleep_ms"` // floor on the sleep between ticks
}

// ProjectionConfig holds the conic projection and its screen placement.
type ProjectionConfig struct {
	Parallel1       float64 `yaml:"parallel1"`
	Parallel2       float64 `yaml:"parallel2"`
	OriginLat       float64 `yaml:"origin_lat"`
	CentralMeridian float64 `yaml:"central_meridian"`
	Scale           float64 `yaml:"scale"`
	OffsetX         float64 `yaml:"offset_x"`
	OffsetY         float64 `yaml:"offset_y"` // 0 = canvas height - 8
	LonMin          float64 `yaml:"lon_min"`  // south-west corner pinned to the offset
	LatMin          float64 `yaml:"lat_min"`
}

// ParticlesConfig holds particle engine parameters.
type ParticlesConfig struct {
	Count       int     `yaml:"count"`
	SpeedScale  float64 `yaml:"speed_scale"`
	SpeedFactor float64 `yaml:"speed_factor"`
	SpawnTries  int     `yaml:"spawn_tries"`
	MaxAge      int     `yaml:"max_age"`
	LineWidth   float64 `yaml:"line_width"`
	Background  []int   `yaml:"background"` // r, g, b
	FadeAlpha   float64 `yaml:"fade_alpha"`
	Outside     []int   `yaml:"outside"`     // r, g, b shown around the field while dragging
	ResetScale  float64 `yaml:"reset_scale"` // below this scale the viewport is the whole field
	TopMargin   float64 `yaml:"top_margin"`  // viewport overscan, fraction of canvas height
}

// AnimatorConfig holds interaction parameters.
type AnimatorConfig struct {
	DragThreshold float64 `yaml:"drag_threshold"`
	ZoomFactor    float64 `yaml:"zoom_factor"`
	ZoomStep      float64 `yaml:"zoom_step"`
}

// LabelsConfig holds city label parameters.
type LabelsConfig struct {
	MaxInView      int     `yaml:"max_in_view"`
	Pad            float64 `yaml:"pad"`
	RadiusScale    float64 `yaml:"radius_scale"`
	RadiusExponent float64 `yaml:"radius_exponent"`
	FontSize       float64 `yaml:"font_size"`
	TextOffset     float64 `yaml:"text_offset"`
	TextHeight     float64 `yaml:"text_height"`
}

// LegendConfig holds the speed legend parameters.
type LegendConfig struct {
	SpeedsMPH   []float64 `yaml:"speeds_mph"`
	Particles   int       `yaml:"particles"`
	PanelWidth  int       `yaml:"panel_width"`
	PanelHeight int       `yaml:"panel_height"`
}

// HoverConfig holds the pointer callout parameters.
type HoverConfig struct {
	DwellMS  float64 `yaml:"dwell_ms"`
	FadeMS   float64 `yaml:"fade_ms"`
	FontSize float64 `yaml:"font_size"`
}

// DataConfig holds input paths. Empty paths select built-in data.
type DataConfig struct {
	FieldPath        string  `yaml:"field_path"`
	CitiesPath       string  `yaml:"cities_path"`
	CorrectForSphere bool    `yaml:"correct_for_sphere"`
	Seed             int64   `yaml:"seed"`
	SyntheticWidth   int     `yaml:"synthetic_width"`
	SyntheticHeight  int     `yaml:"synthetic_height"`
	SyntheticMax     float64 `yaml:"synthetic_max"` // m/s
	LonMin           float64 `yaml:"lon_min"`       // synthetic field bounds
	LatMin           float64 `yaml:"lat_min"`
	LonMax           float64 `yaml:"lon_max"`
	LatMax           float64 `yaml:"lat_max"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	LogIntervalSec      float64 `yaml:"log_interval_sec"`
	OutputDir           string  `yaml:"output_dir"` // empty disables perf CSV output
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Period      time.Duration
	MinSleep    time.Duration
	Dwell       time.Duration
	Fade        time.Duration
	OffsetY     float64 // effective projection y offset
	Background  color.NRGBA
	Outside     color.NRGBA
	LogInterval int // ticks between perf summaries
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func rgb(c []int, fallback color.NRGBA) color.NRGBA {
	if len(c) < 3 {
		return fallback
	}
	return color.NRGBA{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2]), A: 255}
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Period = millis(c.Screen.PeriodMS)
	c.Derived.MinSleep = millis(c.Screen.MinSleepMS)
	c.Derived.Dwell = millis(c.Hover.DwellMS)
	c.Derived.Fade = millis(c.Hover.FadeMS)

	c.Derived.OffsetY = c.Projection.OffsetY
	if c.Derived.OffsetY == 0 {
		c.Derived.OffsetY = float64(c.Screen.Height - 8)
	}

	c.Derived.Background = rgb(c.Particles.Background, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
	c.Derived.Outside = rgb(c.Particles.Outside, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	c.Derived.LogInterval = 0
	if c.Screen.PeriodMS > 0 {
		c.Derived.LogInterval = int(c.Telemetry.LogIntervalSec * 1000 / c.Screen.PeriodMS)
	}
	if c.Derived.LogInterval < 1 {
		c.Derived.LogInterval = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
