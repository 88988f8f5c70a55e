package stream

import (
	"context"
	"sync"
	"time"

	channerics "github.com/niceyeti/channerics/channels"

	"sandfall/internal/sims/sand"
)

// Runner owns a world and steps it at a fixed rate, publishing a frame
// after every tick. All access to the world goes through the runner's lock.
type Runner struct {
	mu       sync.Mutex
	world    *sand.World
	hub      *Hub
	interval time.Duration
}

// NewRunner wraps world, ticking tps times per second.
func NewRunner(world *sand.World, hub *Hub, tps int) *Runner {
	if tps <= 0 {
		tps = 30
	}
	r := &Runner{world: world, hub: hub, interval: time.Second / time.Duration(tps)}
	hub.Publish(r.Frame())
	return r
}

// Run ticks until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	for range channerics.NewTicker(ctx.Done(), r.interval) {
		r.Tick()
	}
	return nil
}

// Tick advances the world once and publishes the result.
func (r *Runner) Tick() {
	r.mu.Lock()
	r.world.Step()
	f := Snapshot(r.world)
	r.mu.Unlock()
	r.hub.Publish(f)
}

// Frame snapshots the current world.
func (r *Runner) Frame() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot(r.world)
}

// InBounds reports whether (row, col) lies on the grid.
func (r *Runner) InBounds(row, col int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.world.Grid().InBounds(row, col)
}

// Paint places m at (row, col). It reports false for coordinates outside the
// grid or materials outside the world's set.
func (r *Runner) Paint(row, col int, m sand.Material) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.world.Grid().InBounds(row, col) {
		return false
	}
	return r.world.Paint(row, col, m)
}

// Reset rebuilds the world and publishes the fresh frame.
func (r *Runner) Reset(seed int64) {
	r.mu.Lock()
	r.world.Reset(seed)
	f := Snapshot(r.world)
	r.mu.Unlock()
	r.hub.Publish(f)
}
