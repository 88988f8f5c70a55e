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
	"sandfall/internal/term"
)

func main() {
	flags := app.NewFlags()
	flags.Bind(flag.CommandLine)
	fps := flag.Int("fps", 30, "terminal redraw rate")
	logPath := flag.String("log", "", "write logs to this file; the terminal is busy drawing")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Error("opening log file", "err", err)
			os.Exit(1)
		}
		defer f.Close()
		log = slog.New(slog.NewTextHandler(f, nil))
	}

	cfg, err := flags.Load(flag.CommandLine)
	if err != nil {
		log.Error("loading config", "err", err)
		os.Exit(1)
	}
	session, err := app.NewSessionFromConfig(cfg)
	if err != nil {
		log.Error("creating world", "err", err)
		os.Exit(1)
	}

	screen, err := term.Open()
	if err != nil {
		log.Error("opening terminal", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting terminal viewer", "size", session.World().GridSize(), "tps", cfg.Viewer.TPS)
	err = term.NewViewer(screen, session, *fps).Run(ctx)
	screen.Fini()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("viewer stopped", "err", err)
		os.Exit(1)
	}
	log.Info("viewer closed", "steps", session.World().Steps())
}
