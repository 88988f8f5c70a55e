//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"sandfall/internal/app"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	flags := app.NewFlags()
	flags.Bind(flag.CommandLine)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

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

	game := app.New(session, cfg.Viewer.Scale)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("sandfall")
	ebiten.SetWindowSize(w, h)
	// Ticks follow the session clock; Update only needs to poll often enough.
	ebiten.SetTPS(2 * cfg.Viewer.TPS)

	log.Info("starting viewer", "size", session.World().GridSize(), "materials", session.World().Config().Materials, "tps", cfg.Viewer.TPS)
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error("viewer stopped", "err", err)
		os.Exit(1)
	}
}
