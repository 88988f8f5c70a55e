package core

import "fmt"

// ByteGrid stores a 2D grid of byte-sized cell values in row-major order,
// y = 0 being the top row as the renderers expect.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y). It panics when
// the coordinates fall outside the grid.
func (g *ByteGrid) Index(x, y int) int {
	if x < 0 || x >= g.W || y < 0 || y >= g.H {
		panic(fmt.Sprintf("core: (%d,%d) outside %dx%d byte grid", x, y, g.W, g.H))
	}
	return y*g.W + x
}

// At returns the value stored at (x, y).
func (g *ByteGrid) At(x, y int) uint8 { return g.data[g.Index(x, y)] }

// Set stores v at (x, y).
func (g *ByteGrid) Set(x, y int, v uint8) { g.data[g.Index(x, y)] = v }

// Clear fills the grid with zeros.
func (g *ByteGrid) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}
