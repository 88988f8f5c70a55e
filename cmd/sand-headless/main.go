// Command sand-headless steps a world without a display and records a
// material census as CSV.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"sandfall/internal/app"
	"sandfall/internal/telemetry"
)

func main() {
	flags := app.NewFlags()
	flags.Bind(flag.CommandLine)
	steps := flag.Int("steps", -1, "ticks to run, -1 uses telemetry.steps")
	every := flag.Int("every", 0, "ticks between census rows, 0 uses telemetry.every")
	out := flag.String("out", "", "output directory, overrides telemetry.output_dir")
	scatter := flag.Float64("scatter", 0.25, "fraction of cells filled at random when no layout is loaded")
	quiet := flag.Int("quiet", 0, "stop once the grid is unchanged for this many ticks")
	logJSON := flag.Bool("log-json", false, "emit JSON logs")
	flag.Parse()

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if *logJSON {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	log := slog.New(handler)

	if err := run(log, flags, *steps, *every, *out, *scatter, *quiet); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("run interrupted")
			os.Exit(130)
		}
		log.Error("headless run failed", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, flags *app.Flags, steps, every int, out string, scatter float64, quiet int) error {
	cfg, err := flags.Load(flag.CommandLine)
	if err != nil {
		return err
	}
	if steps >= 0 {
		cfg.Telemetry.Steps = steps
	}
	if every > 0 {
		cfg.Telemetry.Every = every
	}
	if out != "" {
		cfg.Telemetry.OutputDir = out
	}

	w, err := app.NewWorld(cfg)
	if err != nil {
		return err
	}
	if cfg.World.Layout == "" {
		n := w.Scatter(cfg.World.Seed, scatter)
		log.Info("scattered cells", "count", n, "fraction", scatter)
	}

	rec, err := telemetry.NewRecorder(cfg.Telemetry.OutputDir)
	if err != nil {
		return err
	}
	if err := rec.WriteConfig(cfg); err != nil {
		rec.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting headless run",
		"size", w.GridSize(),
		"materials", w.Config().Materials.String(),
		"steps", cfg.Telemetry.Steps,
		"output", rec.Dir(),
	)
	sum, err := telemetry.Run(ctx, w, telemetry.RunOptions{
		Steps: cfg.Telemetry.Steps,
		Every: cfg.Telemetry.Every,
		Quiet: quiet,
	}, rec, log)
	if cerr := rec.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	log.Info("run complete", "summary", sum)
	return nil
}
