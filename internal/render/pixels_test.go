package render

import (
	"image/color"
	"slices"
	"testing"
)

func TestFillPaletteRGBA(t *testing.T) {
	palette := []color.RGBA{
		{R: 1, G: 2, B: 3, A: 255},
		{R: 10, G: 20, B: 30, A: 255},
	}
	buf := make([]byte, 12)
	fillPaletteRGBA(buf, []uint8{1, 0, 9}, palette)

	want := []byte{10, 20, 30, 255, 1, 2, 3, 255, 10, 20, 30, 255}
	if !slices.Equal(buf, want) {
		t.Fatalf("buf = %v, want %v", buf, want)
	}
}

func TestFillPaletteRGBAEmptyPalette(t *testing.T) {
	buf := []byte{9, 9, 9, 9, 9, 9, 9, 9}
	fillPaletteRGBA(buf, []uint8{3, 4}, nil)
	if !slices.Equal(buf, make([]byte, 8)) {
		t.Fatalf("buf = %v, want zeroed", buf)
	}
}
