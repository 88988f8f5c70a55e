package sand

import (
	"runtime"
	"sync"

	"sandfall/internal/core"
)

// parallelThreshold is the minimum grid size for resetting processed markers
// across goroutines. Below it the serial pass is faster.
const parallelThreshold = 64

// World owns one grid and advances it a tick at a time.
type World struct {
	cfg Config

	steps uint32
	n     int
	grid  *Grid

	engine *Engine
	bands  []Block
	rng    Rand

	display *core.ByteGrid
}

// New returns a world of the given size using the default configuration.
func New(size int) *World {
	cfg := DefaultConfig()
	cfg.Size = size
	return NewWithConfig(cfg)
}

// NewWithConfig returns a world configured from cfg, seeding its own RNG
// from cfg.Seed.
func NewWithConfig(cfg Config) *World {
	return NewWithRand(cfg, core.NewRNG(cfg.Seed))
}

// NewWithRand returns a world drawing tie-breaks and condensation rolls from
// rng. It panics when the configured size is not positive or the layout
// uses materials outside the configured set.
func NewWithRand(cfg Config, rng Rand) *World {
	if cfg.Layout != nil {
		if err := cfg.Layout.Fits(cfg.Materials); err != nil {
			panic("sand: " + err.Error())
		}
	}
	n := cfg.GridSize()
	w := &World{
		cfg:     cfg,
		n:       n,
		grid:    NewGrid(n),
		bands:   RowBands(n, cfg.BandRows),
		rng:     rng,
		display: core.NewByteGrid(n, n),
	}
	w.bindEngine()
	if cfg.Layout != nil {
		cfg.Layout.apply(w.grid)
	}
	return w
}

func (w *World) bindEngine() {
	w.engine = NewEngine(w.grid, w.rng)
	w.engine.SetCondenseThreshold(w.cfg.CondenseThreshold)
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "sand" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.n, H: w.n} }

// GridSize returns the side length of the grid.
func (w *World) GridSize() int { return w.n }

// Steps returns the number of ticks since construction or the last Reset.
func (w *World) Steps() uint32 { return w.steps }

// Grid exposes the grid for inspection between ticks.
func (w *World) Grid() *Grid { return w.grid }

// Config returns the configuration the world runs with.
func (w *World) Config() Config { return w.cfg }

// Material returns the material at (row, col).
func (w *World) Material(row, col int) Material { return w.grid.At(row, col) }

// Paint places m at (row, col). It reports false, leaving the cell alone,
// when m is outside the world's material set. Coordinates outside the grid
// panic.
func (w *World) Paint(row, col int, m Material) bool {
	if !w.cfg.Materials.Contains(m) {
		return false
	}
	w.grid.Set(row, col, m)
	return true
}

// Scatter paints a random fraction of the cells with materials drawn
// uniformly from the world's set, Empty excluded. The draw uses its own
// generator seeded with seed, leaving the engine's sequence untouched.
func (w *World) Scatter(seed int64, fraction float64) int {
	if fraction <= 0 {
		return 0
	}
	mats := w.cfg.Materials.Materials()[1:]
	rng := core.NewRNG(seed)
	const resolution = 1 << 20
	limit := int(fraction * resolution)
	painted := 0
	for i := range w.grid.cells {
		if rng.IntN(resolution) >= limit {
			continue
		}
		w.grid.cells[i].Material = mats[rng.IntN(len(mats))]
		painted++
	}
	return painted
}

// Step advances the world by exactly one tick.
func (w *World) Step() {
	w.steps++
	for _, b := range w.bands {
		w.engine.UpdateBlock(b)
	}
	w.resetProcessed()
}

// Clear empties every cell. The step counter is left alone.
func (w *World) Clear() {
	w.grid.Fill(Empty)
}

// Reset swaps in a fresh grid, zeroes the step counter, reseeds the random
// source and reloads the configured layout. A zero seed reuses the
// configured one.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	if s, ok := w.rng.(interface{ Seed(int64) }); ok {
		s.Seed(effective)
	}
	grid := NewGrid(w.n)
	if w.cfg.Layout != nil {
		w.cfg.Layout.apply(grid)
	}
	w.grid = grid
	w.steps = 0
	w.bindEngine()
}

func (w *World) resetProcessed() {
	workers := w.cfg.ResetWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > w.n {
		workers = w.n
	}
	if workers <= 1 || w.n < parallelThreshold {
		w.grid.resetProcessed(0, w.n)
		return
	}

	rowsPer := (w.n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < w.n; start += rowsPer {
		end := start + rowsPer
		if end > w.n {
			end = w.n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			w.grid.resetProcessed(start, end)
		}(start, end)
	}
	wg.Wait()
}

func init() {
	core.Register("sand", func(cfg map[string]string) core.Sim {
		return NewWithConfig(FromMap(cfg))
	})
}
