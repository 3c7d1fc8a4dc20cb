// Package calculator is the on-screen calculator: a display above a 4x5
// keypad, driven by pointer clicks, typed keys, and arrow-key focus.
//
// The widget owns one calc.Engine. Every handled event changes the engine
// synchronously; callers redraw afterwards.
package calculator

import (
	"sparkcalc/internal/calc"
	"sparkcalc/sparkos/gfx"
)

// Widget is a calculator instance. Discarding it discards its state.
type Widget struct {
	eng *calc.Engine

	bounds  gfx.Rect
	display gfx.Rect
	rects   [calc.NumKeys]gfx.Rect

	// focus and armed index layout; -1 means none.
	focus int
	armed int
}

func New() *Widget {
	return &Widget{eng: calc.New(), focus: -1, armed: -1}
}

// Engine exposes the state machine for inspection.
func (w *Widget) Engine() *calc.Engine { return w.eng }

// Layout places the display and keypad inside r. Buttons are square where
// space allows; the display takes the height left above the keypad.
func (w *Widget) Layout(r gfx.Rect) {
	w.bounds = r
	gap := r.W / 40
	if gap < 3 {
		gap = 3
	}

	minDisplay := faces()[0].Height + 2*gap
	size := (r.W - gap*(gridCols-1)) / gridCols
	if byH := (r.H - minDisplay - gap*gridRows) / gridRows; byH < size {
		size = byH
	}
	if size < 1 {
		size = 1
	}

	gridW := size*gridCols + gap*(gridCols-1)
	gridH := size*gridRows + gap*(gridRows-1)
	x0 := r.X + (r.W-gridW)/2
	y0 := r.Bottom() - gridH

	w.display = gfx.Rect{X: x0, Y: r.Y, W: gridW, H: y0 - gap - r.Y}
	for i, b := range layout {
		w.rects[i] = gfx.Rect{
			X: x0 + b.col*(size+gap),
			Y: y0 + b.row*(size+gap),
			W: b.span*size + (b.span-1)*gap,
			H: size,
		}
	}
}

// ButtonRect returns where k is drawn after Layout.
func (w *Widget) ButtonRect(k calc.Key) gfx.Rect {
	i := indexOf(k)
	if i < 0 {
		return gfx.Rect{}
	}
	return w.rects[i]
}

// DisplayRect returns the display area after Layout.
func (w *Widget) DisplayRect() gfx.Rect { return w.display }

func (w *Widget) hit(x, y int) int {
	for i, r := range w.rects {
		if r.Contains(x, y) {
			return i
		}
	}
	return -1
}

// HitTest maps a position to the control under it.
func (w *Widget) HitTest(x, y int) (calc.Key, bool) {
	i := w.hit(x, y)
	if i < 0 {
		return 0, false
	}
	return layout[i].key, true
}

// Press applies k to the engine.
func (w *Widget) Press(k calc.Key) {
	w.eng.Press(k)
}

// PointerDown arms the control under (x, y). It reports whether one was hit.
func (w *Widget) PointerDown(x, y int) bool {
	w.armed = w.hit(x, y)
	return w.armed >= 0
}

// PointerUp presses the armed control if the release lands on it, like a
// button click.
func (w *Widget) PointerUp(x, y int) (calc.Key, bool) {
	armed := w.armed
	w.armed = -1
	if armed < 0 || w.hit(x, y) != armed {
		return 0, false
	}
	k := layout[armed].key
	w.Press(k)
	return k, true
}

// Click is a press and release at the same position.
func (w *Widget) Click(x, y int) (calc.Key, bool) {
	w.PointerDown(x, y)
	return w.PointerUp(x, y)
}

// Rune handles typed text. It reports the pressed control, if any.
func (w *Widget) Rune(r rune) (calc.Key, bool) {
	k, ok := KeyForRune(r)
	if !ok {
		return 0, false
	}
	w.Press(k)
	return k, true
}

// Focused returns the control with the keyboard focus ring.
func (w *Widget) Focused() (calc.Key, bool) {
	if w.focus < 0 {
		return 0, false
	}
	return layout[w.focus].key, true
}

// MoveFocus moves the focus ring by whole buttons. Without a focus the ring
// appears on the top-left control. Moves past the edge stay put.
func (w *Widget) MoveFocus(dx, dy int) {
	if w.focus < 0 {
		w.focus = 0
		return
	}
	b := layout[w.focus]
	row, col := b.row, b.col
	if dx > 0 {
		col += b.span - 1
	}
	for {
		row += dy
		col += dx
		if row < 0 || row >= gridRows || col < 0 || col >= gridCols {
			return
		}
		if i := cells[row][col]; i != w.focus {
			w.focus = i
			return
		}
	}
}

// PressFocused presses the focused control.
func (w *Widget) PressFocused() (calc.Key, bool) {
	k, ok := w.Focused()
	if ok {
		w.Press(k)
	}
	return k, ok
}

// Blur hides the focus ring.
func (w *Widget) Blur() { w.focus = -1 }
