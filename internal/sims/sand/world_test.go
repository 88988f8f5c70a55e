package sand

import (
	"slices"
	"testing"

	"sandfall/internal/core"
)

func randomFill(w *World, seed int64, mats []Material) {
	rng := core.NewRNG(seed)
	n := w.GridSize()
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			w.Grid().Set(row, col, mats[rng.IntN(len(mats))])
		}
	}
}

func TestStaticWorldIsFixedPoint(t *testing.T) {
	w := New(24)
	randomFill(w, 7, []Material{Empty, Empty, Wall, Wood})
	before := w.Grid().Clone()

	for i := 0; i < 50; i++ {
		w.Step()
		if !w.Grid().Equal(before) {
			t.Fatalf("static world changed on tick %d", i+1)
		}
	}
}

func TestMovementConservesMaterials(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 32
	cfg.CondenseThreshold = 1
	w := NewWithConfig(cfg)
	randomFill(w, 11, fullMaterials)
	want := w.Grid().Counts()

	for i := 0; i < 200; i++ {
		w.Step()
		if got := w.Grid().Counts(); got != want {
			t.Fatalf("tick %d: counts %v, want %v", i+1, got, want)
		}
	}
}

func TestCondensationOnlyTurnsSteamIntoWater(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 16
	cfg.CondenseThreshold = 0
	w := NewWithConfig(cfg)
	randomFill(w, 5, []Material{Empty, Steam})
	before := w.Grid().Counts()

	w.Step()

	after := w.Grid().Counts()
	if after[Steam] != 0 {
		t.Fatalf("all steam should condense at threshold 0, %d left", after[Steam])
	}
	if after[Water] != before[Steam] {
		t.Fatalf("water = %d, want %d", after[Water], before[Steam])
	}
}

func TestBoundarySafety(t *testing.T) {
	for n := 1; n <= 8; n++ {
		cfg := DefaultConfig()
		cfg.Size = n
		cfg.CondenseThreshold = 0.5
		w := NewWithConfig(cfg)
		randomFill(w, int64(n), fullMaterials)
		for i := 0; i < 30; i++ {
			w.Step()
		}
		if got := len(w.Grid().Materials()); got != n*n {
			t.Fatalf("n=%d: grid holds %d cells", n, got)
		}
	}
}

func TestStepClearsProcessedMarkers(t *testing.T) {
	for _, workers := range []int{1, 4} {
		cfg := DefaultConfig()
		cfg.Size = parallelThreshold
		cfg.ResetWorkers = workers
		w := NewWithConfig(cfg)
		randomFill(w, 3, fullMaterials)

		w.Step()

		for i, c := range w.Grid().cells {
			if c.processed {
				t.Fatalf("workers=%d: cell %d still processed after Step", workers, i)
			}
		}
	}
}

func TestSeededRunsAreDeterministic(t *testing.T) {
	run := func() [][]Material {
		w := New(20)
		randomFill(w, 99, fullMaterials)
		frames := make([][]Material, 0, 60)
		for i := 0; i < 60; i++ {
			w.Step()
			frames = append(frames, w.Grid().Materials())
		}
		return frames
	}
	a, b := run(), run()
	for i := range a {
		if !slices.Equal(a[i], b[i]) {
			t.Fatalf("runs diverged on tick %d", i+1)
		}
	}
}

func TestRowBandsMatchFullPass(t *testing.T) {
	full := DefaultConfig()
	full.Size = 30
	banded := full
	banded.BandRows = 7

	a := NewWithConfig(full)
	b := NewWithConfig(banded)
	randomFill(a, 21, fullMaterials)
	randomFill(b, 21, fullMaterials)

	for i := 0; i < 80; i++ {
		a.Step()
		b.Step()
		if !a.Grid().Equal(b.Grid()) {
			t.Fatalf("banded pass diverged on tick %d", i+1)
		}
	}
}

func TestStepCountsTicks(t *testing.T) {
	w := New(4)
	for i := 0; i < 3; i++ {
		w.Step()
	}
	if w.Steps() != 3 {
		t.Fatalf("steps = %d, want 3", w.Steps())
	}

	w.Paint(2, 2, Sand)
	w.Clear()
	if w.Steps() != 3 {
		t.Fatalf("Clear must not touch the step counter, got %d", w.Steps())
	}
	if got := w.Grid().Counts()[Empty]; got != 16 {
		t.Fatalf("Clear left %d empty cells, want 16", got)
	}

	w.Reset(0)
	if w.Steps() != 0 {
		t.Fatalf("Reset should zero steps, got %d", w.Steps())
	}
}

func TestResetReloadsLayout(t *testing.T) {
	layout, set, err := EmbeddedLayout("classic")
	if err != nil {
		t.Fatalf("EmbeddedLayout: %v", err)
	}
	cfg := DefaultConfig()
	cfg.Materials = set
	cfg.Layout = layout
	w := NewWithConfig(cfg)
	initial := w.Grid().Clone()

	for i := 0; i < 40; i++ {
		w.Step()
	}
	w.Paint(0, 0, Steam)
	w.Reset(0)

	if !w.Grid().Equal(initial) {
		t.Fatal("Reset should restore the configured layout")
	}
}

func TestResetReseedsRandomSource(t *testing.T) {
	w := New(16)
	trace := func(seed int64) []Material {
		w.Reset(seed)
		randomFill(w, 1, fullMaterials)
		for i := 0; i < 25; i++ {
			w.Step()
		}
		return w.Grid().Materials()
	}
	first := trace(777)
	second := trace(777)
	if !slices.Equal(first, second) {
		t.Fatal("Reset with the same seed should replay the same run")
	}
}

func TestPaintRespectsMaterialSet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 4
	cfg.Materials = ReducedSet
	w := NewWithConfig(cfg)

	if w.Paint(1, 1, Oil) {
		t.Fatal("oil is not part of the reduced set")
	}
	if w.Material(1, 1) != Empty {
		t.Fatal("rejected paint must leave the cell alone")
	}
	if !w.Paint(1, 1, Steam) {
		t.Fatal("steam should be paintable in the reduced set")
	}
	expectMaterial(t, w, 1, 1, Steam)
}

func TestPaintOutsideGridPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out of range paint")
		}
	}()
	New(4).Paint(4, 0, Sand)
}

func TestTopRowWaterIsNotSurfaceShaded(t *testing.T) {
	w := New(3)
	w.Paint(2, 0, Water)
	w.Paint(1, 1, Water)
	if got := w.DisplayCode(2, 0); got != uint8(Water) {
		t.Fatalf("top-row water code = %d, want %d", got, Water)
	}
	if got := w.DisplayCode(1, 1); got != DisplaySurfaceWater {
		t.Fatalf("water under an empty cell = %d, want %d", got, DisplaySurfaceWater)
	}
	w.Paint(2, 1, Sand)
	if got := w.DisplayCode(1, 1); got != uint8(Water) {
		t.Fatalf("covered water code = %d, want %d", got, Water)
	}
}

func TestCellsScreenOrder(t *testing.T) {
	w := New(2)
	w.Paint(0, 0, Water)
	w.Paint(1, 0, Sand)
	w.Paint(0, 1, Water)

	got := w.Cells()
	want := []uint8{uint8(Sand), uint8(Empty), uint8(Water), DisplaySurfaceWater}
	if !slices.Equal(got, want) {
		t.Fatalf("cells = %v, want %v", got, want)
	}
	if len(w.Palette()) != int(DisplaySurfaceWater)+1 {
		t.Fatalf("palette has %d entries", len(w.Palette()))
	}

	row, col, ok := w.CellAt(1, 0)
	if !ok || row != 1 || col != 1 {
		t.Fatalf("CellAt(1, 0) = (%d, %d, %v)", row, col, ok)
	}
	if _, _, ok := w.CellAt(2, 0); ok {
		t.Fatal("CellAt outside grid should report false")
	}
}

func TestParameters(t *testing.T) {
	w := New(8)
	if !w.SetFloatParameter("condense_threshold", 3) {
		t.Fatal("condense_threshold should be adjustable")
	}
	p, ok := w.Parameters().Lookup("condense_threshold")
	if !ok || p.Value != "1" {
		t.Fatalf("condense_threshold = %+v, want clamped to 1", p)
	}

	if !w.SetIntParameter("band_rows", 3) {
		t.Fatal("band_rows should be adjustable")
	}
	if len(w.bands) != 3 {
		t.Fatalf("got %d bands, want 3", len(w.bands))
	}
	if w.SetIntParameter("size", 10) {
		t.Fatal("size is not adjustable at runtime")
	}
	if w.SetFloatParameter("band_rows", 1) {
		t.Fatal("band_rows is an int control")
	}

	m, ok := w.Parameters().Lookup("materials")
	if !ok || m.Value != "full" {
		t.Fatalf("materials = %+v", m)
	}
}

func TestRegistered(t *testing.T) {
	f, ok := core.Lookup("sand")
	if !ok {
		t.Fatal("sand not registered")
	}
	sim := f(map[string]string{"size": "12"})
	if sim.Name() != "sand" || sim.Size() != (core.Size{W: 12, H: 12}) {
		t.Fatalf("unexpected sim %s %+v", sim.Name(), sim.Size())
	}
}

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{
		"size":               "40",
		"seed":               "-3",
		"condense_threshold": "0.5",
		"band_rows":          "4",
		"reset_workers":      "nope",
	})
	if cfg.Size != 40 || cfg.Seed != -3 || cfg.CondenseThreshold != 0.5 || cfg.BandRows != 4 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.ResetWorkers != 0 {
		t.Fatalf("bad value should keep default, got %d", cfg.ResetWorkers)
	}

	withLayout := FromMap(map[string]string{"layout": "classic", "materials": "full"})
	if withLayout.Layout == nil || withLayout.Materials != ReducedSet {
		t.Fatalf("classic layout should select the reduced set, got %+v", withLayout)
	}
	if withLayout.GridSize() != 24 {
		t.Fatalf("layout size = %d, want 24", withLayout.GridSize())
	}
}

func TestScatter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 32
	cfg.Materials = ReducedSet
	a := NewWithConfig(cfg)
	b := NewWithConfig(cfg)

	n := a.Scatter(5, 0.25)
	if n < 150 || n > 370 {
		t.Fatalf("scattered %d of 1024 cells at 25%%", n)
	}
	b.Scatter(5, 0.25)
	if !a.Grid().Equal(b.Grid()) {
		t.Fatal("same seed should scatter identically")
	}
	counts := a.Grid().Counts()
	if counts[Oil] != 0 || counts[Wood] != 0 {
		t.Fatal("scatter must stay inside the material set")
	}
	if got := a.Scatter(5, 0); got != 0 {
		t.Fatalf("zero fraction painted %d cells", got)
	}
}
