package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/windmap/animator"
	"github.com/pthm-cable/windmap/config"
	"github.com/pthm-cable/windmap/display"
	"github.com/pthm-cable/windmap/field"
	"github.com/pthm-cable/windmap/labels"
	"github.com/pthm-cable/windmap/projection"
)

// LoadField reads the wind field named by path. A .csv path holds station
// observations that are gridded first; any other path is a descriptor. An
// empty path yields the synthetic demo field.
func LoadField(cfg *config.Config, path string) (*field.Field, *field.Descriptor, error) {
	d := cfg.Data
	bounds := field.Bounds{X0: d.LonMin, Y0: d.LatMin, X1: d.LonMax, Y1: d.LatMax}

	var desc *field.Descriptor
	switch {
	case path == "":
		desc = field.Synthetic(d.Seed, d.SyntheticWidth, d.SyntheticHeight, bounds, d.SyntheticMax)
	case strings.EqualFold(filepath.Ext(path), ".csv"):
		stations, err := field.LoadStations(path)
		if err != nil {
			return nil, nil, err
		}
		desc, err = field.GridStations(stations, field.DefaultGridOptions(bounds))
		if err != nil {
			return nil, nil, fmt.Errorf("gridding stations: %w", err)
		}
	default:
		var err error
		desc, err = field.LoadDescriptor(path)
		if err != nil {
			return nil, nil, err
		}
	}

	f, err := field.Read(desc, d.CorrectForSphere)
	if err != nil {
		return nil, nil, fmt.Errorf("reading field: %w", err)
	}
	w, h := f.Size()
	slog.Info("field loaded", "path", path, "w", w, "h", h, "max", f.MaxLength())
	return f, desc, nil
}

// LoadCities reads label points from path, or the built-in Kansas set.
func LoadCities(path string) ([]labels.Point, error) {
	if path == "" {
		return labels.DefaultCities()
	}
	return labels.Load(path)
}

// NewProjection builds the scaled conic projection for the map canvas.
func NewProjection(cfg *config.Config) projection.Projector {
	p := cfg.Projection
	base := projection.NewAlbers(projection.AlbersParams{
		Parallel1:       p.Parallel1,
		Parallel2:       p.Parallel2,
		OriginLat:       p.OriginLat,
		CentralMeridian: p.CentralMeridian,
	})
	return projection.NewScaled(base, p.Scale, p.OffsetX, cfg.Derived.OffsetY, p.LonMin, p.LatMin)
}

func displayOptions(cfg *config.Config) display.Options {
	p := cfg.Particles
	return display.Options{
		Particles:   p.Count,
		SpeedScale:  p.SpeedScale,
		SpeedFactor: p.SpeedFactor,
		SpawnTries:  p.SpawnTries,
		MaxAge:      p.MaxAge,
		LineWidth:   p.LineWidth,
		Background:  cfg.Derived.Background,
		FadeAlpha:   p.FadeAlpha,
		Outside:     cfg.Derived.Outside,
		ResetScale:  p.ResetScale,
		TopMargin:   p.TopMargin,
	}
}

func legendOptions(cfg *config.Config) display.Options {
	opts := displayOptions(cfg)
	opts.Particles = cfg.Legend.Particles
	return opts
}

func labelOptions(cfg *config.Config) labels.Options {
	l := cfg.Labels
	opts := labels.DefaultOptions()
	opts.MaxInView = l.MaxInView
	opts.Pad = l.Pad
	opts.RadiusScale = l.RadiusScale
	opts.RadiusExponent = l.RadiusExponent
	opts.FontSize = l.FontSize
	opts.TextOffset = l.TextOffset
	opts.TextHeight = l.TextHeight
	return opts
}

func animatorOptions(cfg *config.Config) animator.Options {
	a := cfg.Animator
	return animator.Options{
		DragThreshold: a.DragThreshold,
		ZoomFactor:    a.ZoomFactor,
		ZoomStep:      a.ZoomStep,
	}
}
