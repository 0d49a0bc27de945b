package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/windmap/app"
	"github.com/pthm-cable/windmap/config"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Render frames without a window")
	frames := flag.Int64("frames", 100, "Ticks to run in headless mode")
	outputDir := flag.String("out", "", "Output directory for frames, perf CSV and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed)")
	fieldPath := flag.String("field", "", "Wind field descriptor (.yaml/.json) or station CSV (empty = config/synthetic)")
	citiesPath := flag.String("cities", "", "City labels (.csv or .geojson; empty = config/built-in)")
	var clicks []app.Click
	flag.Func("click", "Scripted headless click, tick:x,y or tick:unzoom (repeatable)", func(s string) error {
		c, err := app.ParseClick(s)
		if err != nil {
			return err
		}
		clicks = append(clicks, c)
		return nil
	})

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := app.Options{
		Seed:       cfg.Data.Seed,
		FieldPath:  cfg.Data.FieldPath,
		CitiesPath: cfg.Data.CitiesPath,
		OutputDir:  cfg.Telemetry.OutputDir,
	}
	if *seed != 0 {
		opts.Seed = *seed
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if *fieldPath != "" {
		opts.FieldPath = *fieldPath
	}
	if *citiesPath != "" {
		opts.CitiesPath = *citiesPath
	}
	if *outputDir != "" {
		opts.OutputDir = *outputDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *headless {
		h, err := app.NewHeadless(cfg, opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer h.Close()

		slog.Info("starting headless run",
			"seed", opts.Seed,
			"frames", *frames,
			"clicks", len(clicks),
			"output_dir", opts.OutputDir,
		)
		if err := h.Run(ctx, *frames, clicks); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	l := app.NewLayout(cfg)
	rl.InitWindow(int32(l.WindowW), int32(l.WindowH), "Wind Map")
	defer rl.CloseWindow()

	w, err := app.NewWindow(cfg, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer w.Unload()
	defer w.Close()

	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("window loop failed", "error", err)
	}
}
