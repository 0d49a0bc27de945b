// Station gridder - interpolates surface observations onto a regular wind
// field grid and writes a field descriptor.
//
// Usage: go run ./cmd/gridder -in stations.csv -out field.yaml
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/windmap/field"
)

func main() {
	in := flag.String("in", "", "Station CSV (name,lat,lon,speed,direction)")
	out := flag.String("out", "field.yaml", "Output descriptor path")
	width := flag.Int("w", 100, "Grid width")
	height := flag.Int("h", 100, "Grid height")
	power := flag.Float64("power", 8, "Inverse-distance exponent")
	smoothing := flag.Float64("smoothing", 8, "Smoothing distance in grid cells")
	x0 := flag.Float64("x0", -102, "Western longitude")
	y0 := flag.Float64("y0", 37, "Southern latitude")
	x1 := flag.Float64("x1", -94.6, "Eastern longitude")
	y1 := flag.Float64("y1", 40, "Northern latitude")
	timestamp := flag.String("timestamp", "", "Observation time, e.g. \"1:05 pm on December 9, 2016\"")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *in == "" {
		slog.Error("missing -in station file")
		os.Exit(2)
	}

	stations, err := field.LoadStations(*in)
	if err != nil {
		slog.Error("failed to load stations", "error", err)
		os.Exit(1)
	}

	opts := field.DefaultGridOptions(field.Bounds{X0: *x0, Y0: *y0, X1: *x1, Y1: *y1})
	opts.Width, opts.Height = *width, *height
	opts.Power, opts.Smoothing = *power, *smoothing
	opts.Timestamp = *timestamp

	desc, err := field.GridStations(stations, opts)
	if err != nil {
		slog.Error("gridding failed", "error", err)
		os.Exit(1)
	}
	if err := desc.WriteYAML(*out); err != nil {
		slog.Error("failed to write descriptor", "error", err)
		os.Exit(1)
	}

	slog.Info("field written",
		"path", *out,
		"stations", len(stations),
		"grid_width", desc.GridWidth,
		"grid_height", desc.GridHeight,
	)
}
