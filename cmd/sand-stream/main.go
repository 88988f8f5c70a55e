package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"sandfall/internal/app"
	"sandfall/internal/stream"
)

func main() {
	flags := app.NewFlags()
	flags.Bind(flag.CommandLine)
	addr := flag.String("addr", "", "listen address, overrides stream.addr")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := flags.Load(flag.CommandLine)
	if err != nil {
		log.Error("loading config", "err", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Stream.Addr = *addr
	}
	world, err := app.NewWorld(cfg)
	if err != nil {
		log.Error("creating world", "err", err)
		os.Exit(1)
	}

	hub := stream.NewHub()
	runner := stream.NewRunner(world, hub, cfg.Stream.TPS)
	server := stream.NewServer(runner, hub, cfg.Stream.PublishInterval, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return runner.Run(groupCtx) })
	group.Go(func() error { return server.ListenAndServe(groupCtx, cfg.Stream.Addr) })

	log.Info("streaming", "addr", cfg.Stream.Addr, "size", world.GridSize(), "tps", cfg.Stream.TPS, "publish_interval", cfg.Stream.PublishInterval)
	if err := group.Wait(); err != nil {
		log.Error("stream stopped", "err", err)
		os.Exit(1)
	}
	log.Info("stream stopped", "steps", runner.Frame().Step)
}
