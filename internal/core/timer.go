package core

import "time"

// DefaultMaxCatchUp bounds how many ticks Due hands out after a stall.
const DefaultMaxCatchUp = 10

// FixedStep helps run simulation updates at a steady ticks-per-second rate,
// independent of how often the host loop polls it.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time

	now func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	if tps <= 0 {
		tps = 60
	}
	fs := &FixedStep{now: time.Now}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// SetClock replaces the time source, letting callers drive the controller
// deterministically.
func (f *FixedStep) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	f.now = now
	f.last = time.Time{}
}

// Reset forgets accumulated time, e.g. when resuming from pause so the
// paused interval is not replayed.
func (f *FixedStep) Reset() {
	f.accumulator = 0
	f.last = f.now()
}

// Due reports how many ticks are owed since the last call, capped at
// maxCatchUp. When the cap is hit the remaining backlog is dropped so a slow
// host does not spiral.
func (f *FixedStep) Due(maxCatchUp int) int {
	if maxCatchUp <= 0 {
		maxCatchUp = DefaultMaxCatchUp
	}
	f.advance()
	n := int(f.accumulator / f.step)
	if n > maxCatchUp {
		f.accumulator = 0
		return maxCatchUp
	}
	f.accumulator -= time.Duration(n) * f.step
	return n
}

func (f *FixedStep) advance() {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
}
