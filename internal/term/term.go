// Package term renders a sand world in a terminal with tcell. Each terminal
// cell shows two grid rows using an upper half block: the foreground is the
// upper row, the background the lower one.
package term

import (
	"context"
	"fmt"
	"image/color"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"sandfall/internal/app"
)

const halfBlock = '▀'

type action int

const (
	actNone action = iota
	actQuit
	actPause
	actStep
	actReset
	actClear
	actCycle
)

// actionFor maps a key press to a viewer action.
func actionFor(ev *tcell.EventKey) action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actQuit
	case tcell.KeyTab:
		return actCycle
	case tcell.KeyRune:
	default:
		return actNone
	}
	switch unicode.ToLower(ev.Rune()) {
	case 'q':
		return actQuit
	case ' ':
		return actPause
	case 'n':
		return actStep
	case 'r':
		return actReset
	case 'c':
		return actClear
	case 'm':
		return actCycle
	}
	return actNone
}

// toGrid converts a terminal position into screen-space grid coordinates.
func toGrid(x, y int) (int, int) { return x, 2 * y }

// paletteColor resolves a display code, clamping past the palette end.
func paletteColor(palette []color.RGBA, code uint8) tcell.Color {
	if len(palette) == 0 {
		return tcell.ColorBlack
	}
	idx := int(code)
	if idx >= len(palette) {
		idx = len(palette) - 1
	}
	c := palette[idx]
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// cellStyle colours the half block covering upper and lower grid rows. A
// missing lower row (odd grid heights) falls back to the terminal default.
func cellStyle(palette []color.RGBA, upper uint8, lower int) tcell.Style {
	st := tcell.StyleDefault.Foreground(paletteColor(palette, upper))
	if lower >= 0 {
		st = st.Background(paletteColor(palette, uint8(lower)))
	}
	return st
}

// Viewer drives a Session from terminal input and draws it every frame.
type Viewer struct {
	screen  tcell.Screen
	session *app.Session
	frame   time.Duration

	frames    int
	fps       float64
	fpsWindow time.Time
}

// NewViewer binds a session to an initialised screen. fps bounds the redraw
// rate; ticks still follow the session clock.
func NewViewer(screen tcell.Screen, s *app.Session, fps int) *Viewer {
	if fps <= 0 {
		fps = 30
	}
	return &Viewer{screen: screen, session: s, frame: time.Second / time.Duration(fps)}
}

// Run processes input and redraws until the user quits or ctx ends.
func (v *Viewer) Run(ctx context.Context) error {
	v.screen.EnableMouse()
	v.screen.HideCursor()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 16)
	go pollEvents(ctx, v.screen, events)

	ticker := time.NewTicker(v.frame)
	defer ticker.Stop()
	v.fpsWindow = time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if quit := v.handle(ev); quit {
				return nil
			}
		case now := <-ticker.C:
			v.session.Advance()
			v.draw()
			v.countFrame(now)
		}
	}
}

// pollEvents forwards screen events until the screen is finalised, closing
// events, or ctx ends.
func pollEvents(ctx context.Context, screen tcell.Screen, events chan<- tcell.Event) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			close(events)
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (v *Viewer) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch actionFor(ev) {
		case actQuit:
			return true
		case actPause:
			v.session.TogglePause()
		case actStep:
			v.session.RequestStep()
		case actReset:
			v.session.Reset()
		case actClear:
			v.session.Clear()
		case actCycle:
			v.session.CycleBrush()
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		gx, gy := toGrid(x, y)
		switch {
		case ev.Buttons()&tcell.Button1 != 0:
			v.session.PaintAt(gx, gy, false)
		case ev.Buttons()&tcell.Button2 != 0:
			v.session.PaintAt(gx, gy, true)
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return false
}

func (v *Viewer) draw() {
	w := v.session.World()
	n := w.GridSize()
	cells := w.Cells()
	palette := w.Palette()

	v.screen.Clear()
	for ty := 0; ty*2 < n; ty++ {
		for x := 0; x < n; x++ {
			upper := cells[2*ty*n+x]
			lower := -1
			if 2*ty+1 < n {
				lower = int(cells[(2*ty+1)*n+x])
			}
			v.screen.SetContent(x, ty, halfBlock, nil, cellStyle(palette, upper, lower))
		}
	}
	status := v.session.Status(v.fps)
	row := (n + 1) / 2
	for i, r := range status {
		v.screen.SetContent(i, row, r, nil, tcell.StyleDefault)
	}
	v.screen.Show()
}

func (v *Viewer) countFrame(now time.Time) {
	v.frames++
	if elapsed := now.Sub(v.fpsWindow); elapsed >= time.Second {
		v.fps = float64(v.frames) / elapsed.Seconds()
		v.frames = 0
		v.fpsWindow = now
	}
}

// Open creates and initialises the default terminal screen.
func Open() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initialising screen: %w", err)
	}
	return screen, nil
}
