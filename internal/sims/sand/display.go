package sand

import "image/color"

// DisplaySurfaceWater is the display code for water below an Empty cell.
// Top-row water keeps the plain code.
// Codes below it are plain material values.
const DisplaySurfaceWater = uint8(NumMaterials)

var sandPalette = []color.RGBA{
	Empty:               {R: 130, G: 130, B: 130, A: 255},
	Wall:                {R: 0, G: 0, B: 0, A: 255},
	Wood:                {R: 96, G: 62, B: 32, A: 255},
	Sand:                {R: 127, G: 106, B: 79, A: 255},
	Water:               {R: 0, G: 121, B: 241, A: 255},
	Oil:                 {R: 48, G: 40, B: 24, A: 255},
	Steam:               {R: 200, G: 200, B: 200, A: 255},
	DisplaySurfaceWater: {R: 102, G: 191, B: 255, A: 255},
}

// Palette exposes the colours indexed by display code.
func (w *World) Palette() []color.RGBA { return sandPalette }

// Cells returns the display buffer in screen order: index y*n+x with y = 0
// being the top row of the grid.
func (w *World) Cells() []uint8 {
	w.rebuildDisplay()
	return w.display.Cells()
}

// DisplayCode maps the material at (row, col) to its display code.
func (w *World) DisplayCode(row, col int) uint8 {
	m := w.grid.At(row, col)
	if m == Water && row < w.n-1 && w.grid.At(row+1, col) == Empty {
		return DisplaySurfaceWater
	}
	return uint8(m)
}

func (w *World) rebuildDisplay() {
	buf := w.display.Cells()
	for row := 0; row < w.n; row++ {
		y := w.n - 1 - row
		for col := 0; col < w.n; col++ {
			buf[y*w.n+col] = w.DisplayCode(row, col)
		}
	}
}

// CellAt converts screen coordinates (x right, y down) into grid
// coordinates, reporting false when they fall outside the grid.
func (w *World) CellAt(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 || x >= w.n || y >= w.n {
		return 0, 0, false
	}
	return w.n - 1 - y, x, true
}
