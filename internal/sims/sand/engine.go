package sand

import "fmt"

// DefaultCondenseThreshold is the uniform draw a steam cell must exceed to
// turn back into water on a given tick.
const DefaultCondenseThreshold float32 = 0.999

// Rand is the randomness the engine draws on. Bool settles 50/50 tie-breaks,
// Float32 feeds the condensation roll.
type Rand interface {
	Bool() bool
	Float32() float32
}

// Block is a rectangular region of the grid scanned by one engine pass.
type Block struct {
	Row, Col      int
	Width, Height int
}

// FullBlock covers an n x n grid.
func FullBlock(n int) Block { return Block{Width: n, Height: n} }

// Valid reports whether b lies inside an n x n grid.
func (b Block) Valid(n int) bool {
	return b.Row >= 0 && b.Col >= 0 && b.Width >= 0 && b.Height >= 0 &&
		b.Row+b.Height <= n && b.Col+b.Width <= n
}

// RowBands splits an n x n grid into full-width bands of bandRows rows,
// bottom band first. Scanning the bands in order visits cells in exactly the
// same order as scanning FullBlock(n).
func RowBands(n, bandRows int) []Block {
	if bandRows <= 0 || bandRows >= n {
		return []Block{FullBlock(n)}
	}
	bands := make([]Block, 0, (n+bandRows-1)/bandRows)
	for row := 0; row < n; row += bandRows {
		h := bandRows
		if row+h > n {
			h = n - row
		}
		bands = append(bands, Block{Row: row, Width: n, Height: h})
	}
	return bands
}

// Engine applies the per-material transition rules to a grid.
type Engine struct {
	grid     *Grid
	rng      Rand
	condense float32
}

// NewEngine binds an engine to g, drawing randomness from rng.
func NewEngine(g *Grid, rng Rand) *Engine {
	if g == nil || rng == nil {
		panic("sand: engine needs a grid and a random source")
	}
	return &Engine{grid: g, rng: rng, condense: DefaultCondenseThreshold}
}

// SetCondenseThreshold changes the condensation threshold. Values outside
// [0, 1] are clamped.
func (e *Engine) SetCondenseThreshold(t float32) {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	e.condense = t
}

// CondenseThreshold reports the active condensation threshold.
func (e *Engine) CondenseThreshold() float32 { return e.condense }

// UpdateBlock runs one pass over b: rows bottom to top, columns left to
// right. Cells already processed this tick are skipped, and every visited
// cell ends up processed whether or not a rule moved it. Neighbour reads may
// leave the block but never the grid.
func (e *Engine) UpdateBlock(b Block) {
	g := e.grid
	if !b.Valid(g.n) {
		panic(fmt.Sprintf("sand: block %+v outside %dx%d grid", b, g.n, g.n))
	}
	for row := b.Row; row < b.Row+b.Height; row++ {
		base := row * g.n
		for col := b.Col; col < b.Col+b.Width; col++ {
			cell := &g.cells[base+col]
			if !cell.processed {
				e.apply(row, col)
			}
			cell.processed = true
		}
	}
}

func (e *Engine) apply(row, col int) {
	switch e.grid.cells[row*e.grid.n+col].Material {
	case Sand:
		e.updateSand(row, col)
	case Water, Oil:
		e.updateLiquid(row, col)
	case Steam:
		e.updateSteam(row, col)
	}
}
