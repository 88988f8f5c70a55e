package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"sandfall/internal/sims/sand"
)

// RunOptions controls a headless run.
type RunOptions struct {
	Steps int // ticks to run
	Every int // ticks between census rows and progress logs
	// Quiet, when positive, ends the run once the grid has not changed for
	// that many consecutive ticks.
	Quiet int
}

// Summary describes a finished headless run.
type Summary struct {
	Steps     int
	SettledAt int // tick the grid stopped changing, -1 if it never did
	Final     Census
	Perf      PerfStats
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("steps", s.Steps),
		slog.Int("settled_at", s.SettledAt),
		slog.Any("final", s.Final),
		slog.Any("perf", s.Perf),
	)
}

// Run steps w, recording a census every opts.Every ticks. rec and log may be
// nil. The run stops early when ctx ends, returning its error.
func Run(ctx context.Context, w *sand.World, opts RunOptions, rec *Recorder, log *slog.Logger) (Summary, error) {
	every := opts.Every
	if every <= 0 {
		every = 100
	}
	perf := NewPerfCollector(every)
	sum := Summary{SettledAt: -1}

	lastRow := w.Steps()
	if err := rec.WriteCensus(TakeCensus(lastRow, w.Grid())); err != nil {
		return sum, err
	}

	prev := w.Grid().Clone()
	quiet := 0
	for i := 1; i <= opts.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		perf.StartTick()
		w.Step()
		perf.EndTick()
		sum.Steps = i

		if opts.Quiet > 0 {
			if w.Grid().Equal(prev) {
				quiet++
			} else {
				quiet = 0
				prev = w.Grid().Clone()
			}
			if quiet >= opts.Quiet {
				sum.SettledAt = i - quiet
				break
			}
		}

		if i%every == 0 {
			c := TakeCensus(w.Steps(), w.Grid())
			if err := rec.WriteCensus(c); err != nil {
				return sum, fmt.Errorf("tick %d: %w", i, err)
			}
			lastRow = c.Tick
			stats := perf.Stats()
			if err := rec.WritePerf(stats, w.Steps()); err != nil {
				return sum, fmt.Errorf("tick %d: %w", i, err)
			}
			if log != nil {
				log.Info("progress", "census", c, "perf", stats)
			}
		}
	}

	sum.Final = TakeCensus(w.Steps(), w.Grid())
	sum.Perf = perf.Stats()
	if lastRow != sum.Final.Tick {
		if err := rec.WriteCensus(sum.Final); err != nil {
			return sum, err
		}
	}
	return sum, nil
}
