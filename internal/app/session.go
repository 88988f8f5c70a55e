package app

import (
	"fmt"
	"strings"

	"sandfall/internal/core"
	"sandfall/internal/sims/sand"
)

// SessionOptions configures an interactive session.
type SessionOptions struct {
	TPS         int
	MaxCatchUp  int
	Brush       sand.Material
	BrushRadius int
	Seed        int64
}

// Session holds the viewer-independent state of an interactive run: the
// world, the fixed-rate clock, pause and single-step requests and the
// brush. Both the GUI and the terminal viewer drive one.
type Session struct {
	world *sand.World
	clock *core.FixedStep

	maxCatchUp int
	seed       int64

	paused   bool
	stepOnce bool

	brush  sand.Material
	radius int
}

// NewSession wraps world.
func NewSession(world *sand.World, opts SessionOptions) *Session {
	brush := opts.Brush
	if brush == sand.Empty || !world.Config().Materials.Contains(brush) {
		brush = sand.Sand
	}
	radius := opts.BrushRadius
	if radius < 0 {
		radius = 0
	}
	return &Session{
		world:      world,
		clock:      core.NewFixedStep(opts.TPS),
		maxCatchUp: opts.MaxCatchUp,
		seed:       opts.Seed,
		brush:      brush,
		radius:     radius,
	}
}

// World exposes the session's world.
func (s *Session) World() *sand.World { return s.world }

// Paused reports whether ticking is suspended.
func (s *Session) Paused() bool { return s.paused }

// TogglePause suspends or resumes ticking. Time spent paused is not replayed.
func (s *Session) TogglePause() {
	s.paused = !s.paused
	s.stepOnce = false
	if !s.paused {
		s.clock.Reset()
	}
}

// RequestStep asks for exactly one tick on the next Advance while paused.
func (s *Session) RequestStep() {
	if s.paused {
		s.stepOnce = true
	}
}

// Reset rebuilds the world from its configuration.
func (s *Session) Reset() {
	s.world.Reset(s.seed)
	s.stepOnce = false
	s.clock.Reset()
}

// Clear empties the grid without resetting the step counter.
func (s *Session) Clear() { s.world.Clear() }

// Brush returns the material painted by the primary button.
func (s *Session) Brush() sand.Material { return s.brush }

// CycleBrush moves to the next paintable material.
func (s *Session) CycleBrush() {
	set := s.world.Config().Materials
	next := s.brush.Next(set)
	if next == sand.Empty {
		next = next.Next(set)
	}
	s.brush = next
}

// SetBrush selects m when the world's material set allows it.
func (s *Session) SetBrush(m sand.Material) bool {
	if m == sand.Empty || !s.world.Config().Materials.Contains(m) {
		return false
	}
	s.brush = m
	return true
}

// PaintAt stamps the brush, or Empty when erase is set, in a disc around
// the screen-space cell (x, y). Cells outside the grid are skipped. It
// returns how many cells were painted.
func (s *Session) PaintAt(x, y int, erase bool) int {
	m := s.brush
	if erase {
		m = sand.Empty
	}
	painted := 0
	r := s.radius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			row, col, ok := s.world.CellAt(x+dx, y+dy)
			if !ok {
				continue
			}
			if s.world.Paint(row, col, m) {
				painted++
			}
		}
	}
	return painted
}

// Advance runs the ticks owed since the last call and reports how many ran.
// While paused only a requested single step runs.
func (s *Session) Advance() int {
	if s.paused {
		if !s.stepOnce {
			return 0
		}
		s.stepOnce = false
		s.world.Step()
		return 1
	}
	n := s.clock.Due(s.maxCatchUp)
	for i := 0; i < n; i++ {
		s.world.Step()
	}
	return n
}

// Status renders the one-line status shown by the viewers.
func (s *Session) Status(fps float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "FPS %.0f  STEPS %d  BRUSH %s", fps, s.world.Steps(), s.brush)
	if s.paused {
		b.WriteString("  PAUSED")
	}
	return b.String()
}
