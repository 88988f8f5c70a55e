package sand

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode"
)

var (
	// ErrEmptyLayout is returned for layouts without any cells.
	ErrEmptyLayout = errors.New("layout has no cells")
	// ErrNotSquare is returned when a layout's rows and columns differ.
	ErrNotSquare = errors.New("layout is not square")
	// ErrUnknownCode is returned for codes outside the codec.
	ErrUnknownCode = errors.New("unknown material code")
	// ErrMaterialNotInSet is returned when a layout uses a material the
	// world's material set excludes.
	ErrMaterialNotInSet = errors.New("material not in set")
	// ErrUnknownLayout is returned for unregistered embedded layout names.
	ErrUnknownLayout = errors.New("unknown layout")
)

// Codec maps the small integer codes used by layout files to materials.
type Codec struct {
	set MaterialSet
}

var (
	// FullCodec is {0 Empty, 1 Wall, 2 Wood, 3 Sand, 4 Water, 5 Oil, 6 Steam}.
	FullCodec = Codec{set: FullSet}
	// ReducedCodec is {0 Empty, 1 Wall, 2 Sand, 3 Water, 4 Steam}.
	ReducedCodec = Codec{set: ReducedSet}
)

// CodecFor returns the codec matching a material set.
func CodecFor(set MaterialSet) Codec { return Codec{set: set} }

// Set reports the material set the codec covers.
func (c Codec) Set() MaterialSet { return c.set }

// Decode maps a code to its material.
func (c Codec) Decode(code uint8) (Material, error) {
	mats := c.set.Materials()
	if int(code) >= len(mats) {
		return Empty, fmt.Errorf("%w %d for %s codec", ErrUnknownCode, code, c.set)
	}
	return mats[code], nil
}

// Encode maps a material to its code.
func (c Codec) Encode(m Material) (uint8, error) {
	for i, candidate := range c.set.Materials() {
		if candidate == m {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %s in %s codec", ErrMaterialNotInSet, m, c.set)
}

// Layout is a decoded square arrangement of materials, row 0 at the bottom.
type Layout struct {
	n     int
	cells []Material
}

// Size returns the side length.
func (l *Layout) Size() int { return l.n }

// At returns the material at (row, col).
func (l *Layout) At(row, col int) Material {
	if row < 0 || row >= l.n || col < 0 || col >= l.n {
		panic(fmt.Sprintf("sand: layout cell (row=%d, col=%d) outside %dx%d", row, col, l.n, l.n))
	}
	return l.cells[row*l.n+col]
}

// Fits reports whether every material in the layout belongs to set.
func (l *Layout) Fits(set MaterialSet) error {
	for i, m := range l.cells {
		if !set.Contains(m) {
			return fmt.Errorf("%w: %s at (row=%d, col=%d) in %s set", ErrMaterialNotInSet, m, i/l.n, i%l.n, set)
		}
	}
	return nil
}

// apply copies the layout into g, which must have the same size.
func (l *Layout) apply(g *Grid) {
	if g.n != l.n {
		panic(fmt.Sprintf("sand: %dx%d layout applied to %dx%d grid", l.n, l.n, g.n, g.n))
	}
	for i, m := range l.cells {
		g.cells[i] = Cell{Material: m}
	}
}

// DecodeMatrix decodes codes[row][col] (row 0 = bottom row) with codec.
func DecodeMatrix(codes [][]uint8, codec Codec) (*Layout, error) {
	n := len(codes)
	if n == 0 {
		return nil, ErrEmptyLayout
	}
	l := &Layout{n: n, cells: make([]Material, n*n)}
	for row, line := range codes {
		if len(line) != n {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrNotSquare, row, len(line), n)
		}
		for col, code := range line {
			m, err := codec.Decode(code)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", row, col, err)
			}
			l.cells[row*n+col] = m
		}
	}
	return l, nil
}

// LoadMatrix decodes codes and builds a fresh world holding them.
func LoadMatrix(codes [][]uint8, codec Codec) (*World, error) {
	l, err := DecodeMatrix(codes, codec)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Materials = codec.Set()
	cfg.Layout = l
	return NewWithConfig(cfg), nil
}

// ParseLayout reads a text layout: one line per row with the top row first,
// one digit per cell. Blank lines and lines starting with '#' are skipped;
// spaces inside a row are ignored.
func ParseLayout(r io.Reader, codec Codec) (*Layout, error) {
	var rows [][]uint8
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		row := make([]uint8, 0, len(text))
		for _, ch := range text {
			if unicode.IsSpace(ch) {
				continue
			}
			if ch < '0' || ch > '9' {
				return nil, fmt.Errorf("line %d: %w %q", line, ErrUnknownCode, ch)
			}
			row = append(row, uint8(ch-'0'))
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading layout: %w", err)
	}
	// Text is written top row first; the grid stores the bottom row first.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return DecodeMatrix(rows, codec)
}

// ReadLayoutFile parses the layout stored at path.
func ReadLayoutFile(path string, codec Codec) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening layout: %w", err)
	}
	defer f.Close()
	l, err := ParseLayout(f, codec)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return l, nil
}

//go:embed layouts/*.txt
var layoutFS embed.FS

var embeddedLayouts = map[string]MaterialSet{
	"basin":   FullSet,
	"classic": ReducedSet,
}

// LayoutNames lists the embedded layouts.
func LayoutNames() []string {
	names := make([]string, 0, len(embeddedLayouts))
	for name := range embeddedLayouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EmbeddedLayout loads one of the layouts shipped with the binary along with
// the material set its codec implies.
func EmbeddedLayout(name string) (*Layout, MaterialSet, error) {
	set, ok := embeddedLayouts[name]
	if !ok {
		return nil, FullSet, fmt.Errorf("%w %q", ErrUnknownLayout, name)
	}
	f, err := layoutFS.Open("layouts/" + name + ".txt")
	if err != nil {
		return nil, set, fmt.Errorf("opening embedded layout: %w", err)
	}
	defer f.Close()
	l, err := ParseLayout(f, CodecFor(set))
	if err != nil {
		return nil, set, fmt.Errorf("embedded layout %s: %w", name, err)
	}
	return l, set, nil
}
