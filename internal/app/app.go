//go:build ebiten

package app

import (
	"sandfall/internal/render"
	"sandfall/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// hudWidth is the width of the parameter panel right of the grid.
const hudWidth = 260

// Game adapts a Session to the ebiten.Game interface.
type Game struct {
	session *Session
	painter *render.GridPainter
	hud     *ui.HUD

	scale int
}

// New constructs a Game drawing the session's world at scale pixels per
// cell.
func New(s *Session, scale int) *Game {
	if scale <= 0 {
		scale = 1
	}
	w := s.World()
	size := w.Size()
	return &Game{
		session: s,
		painter: render.NewGridPainter(size.W, size.H),
		hud:     ui.NewHUD(w, hudWidth),
		scale:   scale,
	}
}

// Update handles input and advances the simulation by the ticks owed.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.session.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.session.RequestStep()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.session.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.session.Clear()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) || inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.session.CycleBrush()
	}

	gridW := g.session.World().GridSize() * g.scale
	mx, my := ebiten.CursorPosition()
	if mx >= 0 && mx < gridW {
		switch {
		case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
			g.session.PaintAt(mx/g.scale, my/g.scale, false)
		case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
			g.session.PaintAt(mx/g.scale, my/g.scale, true)
		}
	}
	g.hud.Update(gridW)

	g.session.Advance()
	return nil
}

// Draw renders the grid and the side panel.
func (g *Game) Draw(screen *ebiten.Image) {
	w := g.session.World()
	g.painter.Blit(screen, w.Cells(), w.Palette(), g.scale)
	status := []string{
		g.session.Status(ebiten.ActualFPS()),
		"SPACE N R C M  LMB/RMB paint",
	}
	g.hud.Draw(screen, w.GridSize()*g.scale, g.scale, status)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.session.World().Size()
	return s.W*g.scale + g.hud.Width(), s.H * g.scale
}
