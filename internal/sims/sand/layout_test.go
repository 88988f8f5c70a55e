package sand

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLayoutTopRowFirst(t *testing.T) {
	src := "# comment\n\n1 0\n02\n"
	l, err := ParseLayout(strings.NewReader(src), FullCodec)
	if err != nil {
		t.Fatalf("ParseLayout: %v", err)
	}
	if l.Size() != 2 {
		t.Fatalf("size = %d, want 2", l.Size())
	}
	if l.At(1, 0) != Wall || l.At(0, 1) != Wood || l.At(0, 0) != Empty {
		t.Fatalf("unexpected layout %v", l.cells)
	}
}

func TestParseLayoutErrors(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		codec Codec
		want  error
	}{
		{name: "empty", src: "# nothing\n", codec: FullCodec, want: ErrEmptyLayout},
		{name: "ragged", src: "12\n3\n", codec: FullCodec, want: ErrNotSquare},
		{name: "tall", src: "1\n2\n", codec: FullCodec, want: ErrNotSquare},
		{name: "out of codec", src: "5\n", codec: ReducedCodec, want: ErrUnknownCode},
		{name: "not a digit", src: "a\n", codec: FullCodec, want: ErrUnknownCode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseLayout(strings.NewReader(tc.src), tc.codec)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCodecs(t *testing.T) {
	reduced := map[uint8]Material{0: Empty, 1: Wall, 2: Sand, 3: Water, 4: Steam}
	for code, want := range reduced {
		got, err := ReducedCodec.Decode(code)
		if err != nil || got != want {
			t.Fatalf("reduced %d = %s, %v; want %s", code, got, err, want)
		}
		back, err := ReducedCodec.Encode(want)
		if err != nil || back != code {
			t.Fatalf("reduced encode %s = %d, %v", want, back, err)
		}
	}
	for m := Material(0); int(m) < NumMaterials; m++ {
		got, err := FullCodec.Decode(uint8(m))
		if err != nil || got != m {
			t.Fatalf("full %d = %s, %v", m, got, err)
		}
	}
	if _, err := ReducedCodec.Encode(Oil); !errors.Is(err, ErrMaterialNotInSet) {
		t.Fatalf("encoding oil in reduced codec: %v", err)
	}
}

func TestDecodeMatrixBottomRowFirst(t *testing.T) {
	l, err := DecodeMatrix([][]uint8{{2, 0}, {0, 4}}, ReducedCodec)
	if err != nil {
		t.Fatalf("DecodeMatrix: %v", err)
	}
	if l.At(0, 0) != Sand || l.At(1, 1) != Steam {
		t.Fatalf("unexpected layout %v", l.cells)
	}
}

func TestLoadMatrix(t *testing.T) {
	w, err := LoadMatrix([][]uint8{{1, 1, 1}, {0, 3, 0}, {0, 0, 0}}, ReducedCodec)
	if err != nil {
		t.Fatalf("LoadMatrix: %v", err)
	}
	if w.GridSize() != 3 || w.Config().Materials != ReducedSet {
		t.Fatalf("unexpected world %d %s", w.GridSize(), w.Config().Materials)
	}
	expectMaterial(t, w, 1, 1, Water)

	if _, err := LoadMatrix(nil, FullCodec); !errors.Is(err, ErrEmptyLayout) {
		t.Fatalf("empty matrix: %v", err)
	}
}

func TestLayoutFits(t *testing.T) {
	l, err := DecodeMatrix([][]uint8{{5}}, FullCodec)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Fits(FullSet); err != nil {
		t.Fatalf("oil fits the full set: %v", err)
	}
	if err := l.Fits(ReducedSet); !errors.Is(err, ErrMaterialNotInSet) {
		t.Fatalf("oil in reduced set: %v", err)
	}
}

func TestEmbeddedLayouts(t *testing.T) {
	sizes := map[string]int{"basin": 32, "classic": 24}
	for _, name := range LayoutNames() {
		l, set, err := EmbeddedLayout(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if l.Size() != sizes[name] {
			t.Fatalf("%s size = %d, want %d", name, l.Size(), sizes[name])
		}
		if err := l.Fits(set); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	if _, _, err := EmbeddedLayout("volcano"); !errors.Is(err, ErrUnknownLayout) {
		t.Fatalf("unknown layout: %v", err)
	}
}

func TestReadLayoutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.txt")
	if err := os.WriteFile(path, []byte("30\n11\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := ReadLayoutFile(path, FullCodec)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if l.At(1, 0) != Sand || l.At(0, 0) != Wall {
		t.Fatalf("unexpected layout %v", l.cells)
	}

	if _, err := ReadLayoutFile(filepath.Join(t.TempDir(), "missing.txt"), FullCodec); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMaterialNext(t *testing.T) {
	if got := Water.Next(ReducedSet); got != Steam {
		t.Fatalf("water next in reduced = %s", got)
	}
	if got := Steam.Next(ReducedSet); got != Empty {
		t.Fatalf("steam should wrap to empty, got %s", got)
	}
	if got := Oil.Next(ReducedSet); got != Empty {
		t.Fatalf("oil outside reduced set should restart, got %s", got)
	}
	if got := Water.Next(FullSet); got != Oil {
		t.Fatalf("water next in full = %s", got)
	}
	m, err := ParseMaterial(" Sand ")
	if err != nil || m != Sand {
		t.Fatalf("ParseMaterial = %s, %v", m, err)
	}
}
