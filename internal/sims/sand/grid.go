package sand

import "fmt"

// Cell is one grid slot. The processed marker is tick-scoped scratch owned by
// the engine; painting only ever touches Material.
type Cell struct {
	Material  Material
	processed bool
}

// Grid is a fixed-size square of cells stored row-major in a flat slice.
// Row 0 is the bottom row.
type Grid struct {
	n     int
	cells []Cell
}

// NewGrid builds an n x n grid of Empty cells. It panics when n <= 0.
func NewGrid(n int) *Grid {
	if n <= 0 {
		panic(fmt.Sprintf("sand: grid size must be positive, got %d", n))
	}
	return &Grid{n: n, cells: make([]Cell, n*n)}
}

// Size returns the number of rows (and columns).
func (g *Grid) Size() int { return g.n }

// InBounds reports whether (row, col) addresses a cell.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.n && col >= 0 && col < g.n
}

// Index returns the flat index for (row, col). Out of range coordinates
// panic; they are never wrapped or clamped.
func (g *Grid) Index(row, col int) int {
	if !g.InBounds(row, col) {
		panic(fmt.Sprintf("sand: cell (row=%d, col=%d) outside %dx%d grid", row, col, g.n, g.n))
	}
	return row*g.n + col
}

// At returns the material at (row, col).
func (g *Grid) At(row, col int) Material { return g.cells[g.Index(row, col)].Material }

// Set replaces the material at (row, col).
func (g *Grid) Set(row, col int, m Material) { g.cells[g.Index(row, col)].Material = m }

// Fill sets every cell to m and clears every processed marker.
func (g *Grid) Fill(m Material) {
	for i := range g.cells {
		g.cells[i] = Cell{Material: m}
	}
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{n: g.n, cells: append([]Cell(nil), g.cells...)}
}

// Equal reports whether both grids hold the same materials cell for cell.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.n != other.n {
		return false
	}
	for i := range g.cells {
		if g.cells[i].Material != other.cells[i].Material {
			return false
		}
	}
	return true
}

// Counts tallies cells per material.
func (g *Grid) Counts() [NumMaterials]int {
	var counts [NumMaterials]int
	for _, c := range g.cells {
		if c.Material.Valid() {
			counts[c.Material]++
		}
	}
	return counts
}

// Materials copies the materials out row-major, row 0 first.
func (g *Grid) Materials() []Material {
	out := make([]Material, len(g.cells))
	for i, c := range g.cells {
		out[i] = c.Material
	}
	return out
}

func (g *Grid) resetProcessed(rowStart, rowEnd int) {
	for i := rowStart * g.n; i < rowEnd*g.n; i++ {
		g.cells[i].processed = false
	}
}
