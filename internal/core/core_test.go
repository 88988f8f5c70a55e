package core

import (
	"testing"
	"time"
)

func TestRNGSeedRewinds(t *testing.T) {
	r := NewRNG(7)
	first := make([]float32, 16)
	for i := range first {
		first[i] = r.Float32()
	}
	r.Seed(7)
	for i, want := range first {
		if got := r.Float32(); got != want {
			t.Fatalf("draw %d after reseed = %v, want %v", i, got, want)
		}
	}
}

func TestRNGFloat32Range(t *testing.T) {
	r := NewRNG(1)
	for i := 0; i < 1000; i++ {
		v := r.Float32()
		if v < 0 || v >= 1 {
			t.Fatalf("Float32 out of range: %v", v)
		}
	}
	if got := r.IntN(0); got != 0 {
		t.Fatalf("IntN(0) = %d, want 0", got)
	}
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestFixedStepDueCapsBacklog(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	fs := NewFixedStep(50)
	fs.now = clock.now
	fs.Reset()

	clock.t = clock.t.Add(40 * time.Millisecond)
	if got := fs.Due(10); got != 2 {
		t.Fatalf("Due after 40ms at 50 TPS = %d, want 2", got)
	}

	clock.t = clock.t.Add(10 * time.Millisecond)
	if got := fs.Due(10); got != 0 {
		t.Fatalf("Due after 10ms = %d, want 0", got)
	}
	clock.t = clock.t.Add(10 * time.Millisecond)
	if got := fs.Due(10); got != 1 {
		t.Fatalf("accumulated remainder should yield one tick, got %d", got)
	}

	clock.t = clock.t.Add(time.Second)
	if got := fs.Due(10); got != 10 {
		t.Fatalf("stall should be capped at 10 ticks, got %d", got)
	}
	clock.t = clock.t.Add(5 * time.Millisecond)
	if got := fs.Due(10); got != 0 {
		t.Fatalf("backlog should be dropped after hitting the cap, got %d", got)
	}
}

func TestFixedStepResetDropsPausedTime(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	fs := NewFixedStep(50)
	fs.now = clock.now
	fs.Reset()

	clock.t = clock.t.Add(3 * time.Second)
	fs.Reset()
	clock.t = clock.t.Add(20 * time.Millisecond)
	if got := fs.Due(10); got != 1 {
		t.Fatalf("Due after reset = %d, want 1", got)
	}
}

func TestByteGridIndexPanicsOutOfRange(t *testing.T) {
	g := NewByteGrid(3, 2)
	g.Set(2, 1, 9)
	if got := g.At(2, 1); got != 9 {
		t.Fatalf("At(2,1) = %d, want 9", got)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range index")
		}
	}()
	g.Index(3, 0)
}

func TestParameterControlClamp(t *testing.T) {
	c := ParameterControl{Min: 0, Max: 1, HasMin: true, HasMax: true}
	if got := c.Clamp(2); got != 1 {
		t.Fatalf("Clamp(2) = %v, want 1", got)
	}
	if got := c.Clamp(-1); got != 0 {
		t.Fatalf("Clamp(-1) = %v, want 0", got)
	}
	snap := ParameterSnapshot{Groups: []ParameterGroup{{Name: "g", Params: []Parameter{{Key: "k", Value: "v"}}}}}
	if p, ok := snap.Lookup("k"); !ok || p.Value != "v" {
		t.Fatalf("Lookup(k) = %+v, %v", p, ok)
	}
}
