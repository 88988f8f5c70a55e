//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"strings"

	"sandfall/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var (
	panelBG    = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleFG    = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelFG    = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimFG      = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	buttonBG   = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	buttonOff  = color.RGBA{R: 32, G: 34, B: 40, A: 255}
	buttonText = color.RGBA{R: 230, G: 230, B: 240, A: 255}
)

// HUD draws the side panel: status lines on top, then one row per
// adjustable parameter with -/+ buttons.
type HUD struct {
	sim   core.Sim
	width int
	title string

	panel *ebiten.Image
	pixel *ebiten.Image

	controls    []core.ParameterControl
	values      []controlValue
	intSetter   core.IntParameterSetter
	floatSetter core.FloatParameterSetter
	offsetX     int
}

// NewHUD constructs a HUD for sim with a panel of the given width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width <= 0 {
		return nil
	}
	h := &HUD{sim: sim, width: width, title: strings.ToUpper(sim.Name())}
	h.pixel = ebiten.NewImage(1, 1)
	h.pixel.Fill(color.White)
	if p, ok := sim.(core.ParameterControlsProvider); ok {
		h.controls = p.ParameterControls()
	}
	h.intSetter, _ = sim.(core.IntParameterSetter)
	h.floatSetter, _ = sim.(core.FloatParameterSetter)
	return h
}

// Width reports the panel width, zero for a nil HUD.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update refreshes parameter values and handles clicks on the buttons.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.offsetX = panelOffsetX
	if p, ok := h.sim.(core.ParameterProvider); ok {
		h.values = controlValues(h.controls, p.Parameters())
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	px := mx - h.offsetX
	if px < 0 {
		return
	}
	for i := range h.values {
		minus, plus := h.buttons(i)
		switch {
		case pointInRect(px, my, minus):
			h.adjust(i, -1)
			return
		case pointInRect(px, my, plus):
			h.adjust(i, 1)
			return
		}
	}
}

func (h *HUD) adjust(i, direction int) {
	v := &h.values[i]
	if !v.ok {
		return
	}
	target, changed := nudge(v.control, v.value, direction)
	if !changed {
		return
	}
	applied := false
	switch v.control.Type {
	case core.ParamTypeInt:
		if h.intSetter != nil {
			applied = h.intSetter.SetIntParameter(v.control.Key, int(target))
		}
	case core.ParamTypeFloat:
		if h.floatSetter != nil {
			applied = h.floatSetter.SetFloatParameter(v.control.Key, target)
		}
	}
	if applied {
		v.value = target
		v.text = formatValue(v.control, target)
	}
}

// Draw paints the panel at offsetX. status lines are drawn under the title.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, scale int, status []string) {
	if h == nil {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.sim.Size().H * scale
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelBG)

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, y, titleFG)
	for _, line := range status {
		y += statusSpacing
		text.Draw(h.panel, line, face, panelPadding, y, dimFG)
	}

	for i, v := range h.values {
		top := h.rowTop(i)
		text.Draw(h.panel, v.control.Label, face, panelPadding, top+labelBaseline, labelFG)
		minus, plus := h.buttons(i)
		fg := labelFG
		if !v.ok {
			fg = dimFG
		}
		w := text.BoundString(face, v.text).Dx()
		text.Draw(h.panel, v.text, face, minus.Min.X-buttonGap-w, top+labelBaseline, fg)

		_, canDown := nudge(v.control, v.value, -1)
		_, canUp := nudge(v.control, v.value, 1)
		h.drawButton(minus, "-", v.ok && canDown)
		h.drawButton(plus, "+", v.ok && canUp)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) rowTop(i int) int { return controlsTop + i*lineHeight }

func (h *HUD) buttons(i int) (minus, plus image.Rectangle) {
	y := h.rowTop(i) + (lineHeight-buttonSize)/2
	plus = image.Rect(h.width-panelPadding-buttonSize, y, h.width-panelPadding, y+buttonSize)
	minus = image.Rect(plus.Min.X-buttonGap-buttonSize, y, plus.Min.X-buttonGap, y+buttonSize)
	return minus, plus
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg := buttonBG
	if !enabled {
		bg = buttonOff
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-b.Dx())/2
	y := rect.Min.Y + (rect.Dy()-b.Dy())/2 + b.Dy()
	fg := buttonText
	if !enabled {
		fg = dimFG
	}
	text.Draw(h.panel, label, face, x, y, fg)
}

func pointInRect(x, y int, r image.Rectangle) bool {
	return image.Pt(x, y).In(r)
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	statusSpacing  = 18
	statusLines    = 2
	controlsTop    = panelPadding + headerBaseline + statusLines*statusSpacing + 14
)
