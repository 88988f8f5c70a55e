package app

import (
	"strings"
	"testing"
	"time"

	"sandfall/internal/config"
	"sandfall/internal/sims/sand"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestSession(t *testing.T, cfg sand.Config, opts SessionOptions) (*Session, *fakeClock) {
	t.Helper()
	s := NewSession(sand.NewWithConfig(cfg), opts)
	clock := &fakeClock{t: time.Unix(0, 0)}
	s.clock.SetClock(clock.now)
	return s, clock
}

func smallConfig(n int) sand.Config {
	cfg := sand.DefaultConfig()
	cfg.Size = n
	return cfg
}

func TestSessionAdvanceFollowsClock(t *testing.T) {
	s, clock := newTestSession(t, smallConfig(8), SessionOptions{TPS: 10, MaxCatchUp: 3})

	if n := s.Advance(); n != 1 {
		t.Fatalf("first advance ran %d ticks, want 1", n)
	}
	clock.t = clock.t.Add(250 * time.Millisecond)
	if n := s.Advance(); n != 2 {
		t.Fatalf("advance after 250ms ran %d ticks, want 2", n)
	}
	clock.t = clock.t.Add(10 * time.Second)
	if n := s.Advance(); n != 3 {
		t.Fatalf("catch-up should cap at 3, ran %d", n)
	}
	if s.World().Steps() != 6 {
		t.Fatalf("steps = %d, want 6", s.World().Steps())
	}
}

func TestSessionPauseAndSingleStep(t *testing.T) {
	s, clock := newTestSession(t, smallConfig(8), SessionOptions{TPS: 10, MaxCatchUp: 10})
	s.TogglePause()

	clock.t = clock.t.Add(time.Second)
	if n := s.Advance(); n != 0 {
		t.Fatalf("paused session ran %d ticks", n)
	}
	s.RequestStep()
	if n := s.Advance(); n != 1 {
		t.Fatalf("single step ran %d ticks", n)
	}
	if n := s.Advance(); n != 0 {
		t.Fatalf("single step repeated, ran %d ticks", n)
	}

	clock.t = clock.t.Add(time.Second)
	s.TogglePause()
	if n := s.Advance(); n != 0 {
		t.Fatalf("resuming should not replay the pause, ran %d ticks", n)
	}
	if !strings.Contains(s.Status(60), "STEPS 1") {
		t.Fatalf("status = %q", s.Status(60))
	}
}

func TestSessionRequestStepIgnoredWhileRunning(t *testing.T) {
	s, _ := newTestSession(t, smallConfig(4), SessionOptions{TPS: 10})
	s.RequestStep()
	s.TogglePause()
	if n := s.Advance(); n != 0 {
		t.Fatalf("stale step request ran %d ticks", n)
	}
}

func TestSessionPaintDisc(t *testing.T) {
	s, _ := newTestSession(t, smallConfig(8), SessionOptions{TPS: 10, Brush: sand.Water, BrushRadius: 1})

	if n := s.PaintAt(3, 3, false); n != 5 {
		t.Fatalf("painted %d cells, want 5", n)
	}
	counts := s.World().Grid().Counts()
	if counts[sand.Water] != 5 {
		t.Fatalf("water = %d, want 5", counts[sand.Water])
	}

	s.PaintAt(3, 3, true)
	if got := s.World().Grid().Counts()[sand.Water]; got != 0 {
		t.Fatalf("erase left %d water cells", got)
	}

	if n := s.PaintAt(0, 0, false); n != 3 {
		t.Fatalf("corner stamp painted %d cells, want 3", n)
	}
	// Screen row 0 is the top of the grid.
	if s.World().Material(7, 0) != sand.Water {
		t.Fatal("screen (0, 0) should map to the top-left cell")
	}
}

func TestSessionBrushRespectsMaterialSet(t *testing.T) {
	cfg := smallConfig(4)
	cfg.Materials = sand.ReducedSet
	s, _ := newTestSession(t, cfg, SessionOptions{TPS: 10, Brush: sand.Oil})

	if s.Brush() != sand.Sand {
		t.Fatalf("brush = %s, want sand fallback", s.Brush())
	}
	if s.SetBrush(sand.Wood) {
		t.Fatal("wood is not in the reduced set")
	}

	want := []sand.Material{sand.Water, sand.Steam, sand.Wall, sand.Sand}
	for _, m := range want {
		s.CycleBrush()
		if s.Brush() != m {
			t.Fatalf("brush = %s, want %s", s.Brush(), m)
		}
	}
}

func TestSessionResetAndClear(t *testing.T) {
	s, _ := newTestSession(t, smallConfig(6), SessionOptions{TPS: 10})
	s.PaintAt(2, 2, false)
	s.World().Step()

	s.Clear()
	if s.World().Steps() != 1 {
		t.Fatalf("clear changed steps to %d", s.World().Steps())
	}
	s.Reset()
	if s.World().Steps() != 0 {
		t.Fatalf("reset left steps at %d", s.World().Steps())
	}
}

func TestNewSessionFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.World.Layout = "basin"
	cfg.Viewer.Brush = "oil"
	s, err := NewSessionFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewSessionFromConfig: %v", err)
	}
	if s.World().GridSize() != 32 || s.Brush() != sand.Oil {
		t.Fatalf("unexpected session: size %d brush %s", s.World().GridSize(), s.Brush())
	}

	cfg.World.Layout = "no-such-layout.txt"
	if _, err := NewSessionFromConfig(cfg); err == nil {
		t.Fatal("expected error for missing layout")
	}
}
