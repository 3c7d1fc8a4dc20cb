package calculator

import (
	"image/color"
	"sync"

	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"

	"sparkcalc/internal/calc"
	"sparkcalc/sparkos/gfx"
)

var (
	colorDisplay  = gfx.Hex(0xFFFFFF)
	colorFunction = gfx.Hex(0xA5A5A5)
	colorDigit    = gfx.Hex(0x333333)
	colorOperator = gfx.Hex(0xFF9F0A)
	colorFocus    = gfx.Hex(0x0A84FF)
	colorDark     = gfx.Hex(0x000000)
	colorLight    = gfx.Hex(0xFFFFFF)
)

const displaySample = "0123456789.-+eNaIfty"

var (
	facesOnce sync.Once
	faceList  []gfx.Face
)

// faces lists display fonts from largest to smallest.
func faces() []gfx.Face {
	facesOnce.Do(func() {
		faceList = []gfx.Face{
			gfx.MustFace(&freemono.Bold18pt7b, displaySample),
			gfx.MustFace(&freemono.Bold12pt7b, displaySample),
			gfx.MustFace(&proggy.TinySZ8pt7b, displaySample),
		}
	})
	return faceList
}

// fitDisplay picks the largest face that shows s within width. When even the
// smallest face is too wide, the right-most characters that fit are kept.
func fitDisplay(s string, width int) (gfx.Face, string) {
	fs := faces()
	for _, f := range fs {
		if gfx.TextWidth(f.Font, s) <= width {
			return f, s
		}
	}
	small := fs[len(fs)-1]
	for len(s) > 1 && gfx.TextWidth(small.Font, s) > width {
		s = s[1:]
	}
	return small, s
}

// Label is the caption of k. Operator captions use the typographic symbols.
func (w *Widget) Label(k calc.Key) string {
	switch k {
	case calc.KeyClear:
		return w.eng.ClearLabel()
	case calc.KeySign:
		return "±"
	case calc.KeyEquals:
		return "="
	}
	if op := k.Operator(); op != calc.OpNone {
		return op.String()
	}
	return k.String()
}

// Draw renders the display and keypad.
func (w *Widget) Draw(c *gfx.Canvas) {
	if c == nil || w.bounds.Empty() {
		return
	}

	pad := w.display.H / 8
	inner := gfx.Rect{X: w.display.X + pad, Y: w.display.Y, W: w.display.W - 2*pad, H: w.display.H}
	face, text := fitDisplay(w.eng.Display(), inner.W)
	c.TextIn(face, gfx.Rect{X: inner.X, Y: inner.Bottom() - face.Height - pad, W: inner.W, H: face.Height}, gfx.AlignRight, text, colorDisplay)

	pending := w.eng.Pending()
	label := faces()[1]
	for i, b := range layout {
		r := w.rects[i]
		radius := r.H / 2

		if i == w.focus {
			c.FillRoundRect(r.Inset(-2), radius+2, colorFocus)
		}

		bg, fg := colorDigit, colorLight
		switch b.class {
		case classFunction:
			bg, fg = colorFunction, colorDark
		case classOperator:
			bg, fg = colorOperator, colorLight
			// The chosen operator inverts until an operand is typed or it is evaluated.
			if b.key.Operator() == pending && w.eng.AwaitingOperand() {
				bg, fg = colorLight, colorOperator
			}
		}
		if i == w.armed {
			bg = lighten(bg)
		}
		c.FillRoundRect(r, radius, bg)

		if !drawIcon(c, b.key, r, fg) {
			c.TextIn(label, r, gfx.AlignCenter, w.Label(b.key), fg)
		}
	}
}

// drawIcon draws symbols the bitmap fonts do not carry.
func drawIcon(c *gfx.Canvas, k calc.Key, r gfx.Rect, col color.RGBA) bool {
	cx := r.X + r.W/2
	cy := r.Y + r.H/2
	s := r.H / 6
	if s < 3 {
		s = 3
	}
	t := s / 3
	if t < 2 {
		t = 2
	}
	bar := func(y int) {
		c.FillRect(gfx.Rect{X: cx - s, Y: y - t/2, W: 2*s + 1, H: t}, col)
	}
	dot := func(y int) {
		c.FillRoundRect(gfx.Rect{X: cx - t, Y: y - t, W: 2 * t, H: 2 * t}, t, col)
	}

	switch k {
	case calc.KeyAdd:
		bar(cy)
		c.FillRect(gfx.Rect{X: cx - t/2, Y: cy - s, W: t, H: 2*s + 1}, col)
	case calc.KeySubtract:
		bar(cy)
	case calc.KeyMultiply:
		d := s * 3 / 4
		c.Line(cx-d, cy-d, cx+d, cy+d, t, col)
		c.Line(cx-d, cy+d, cx+d, cy-d, t, col)
	case calc.KeyDivide:
		bar(cy)
		dot(cy - s*2/3 - t)
		dot(cy + s*2/3 + t)
	case calc.KeyEquals:
		bar(cy - t)
		bar(cy + t + t/2)
	case calc.KeySign:
		h := s / 2
		c.FillRect(gfx.Rect{X: cx - h, Y: cy - s/2 - t/2, W: 2*h + 1, H: t}, col)
		c.FillRect(gfx.Rect{X: cx - t/2, Y: cy - s/2 - h, W: t, H: 2*h + 1}, col)
		c.FillRect(gfx.Rect{X: cx - h, Y: cy + s/2 + t, W: 2*h + 1, H: t}, col)
	default:
		return false
	}
	return true
}

func lighten(c color.RGBA) color.RGBA {
	up := func(v uint8) uint8 { return v + (0xFF-v)/3 }
	return color.RGBA{R: up(c.R), G: up(c.G), B: up(c.B), A: c.A}
}
