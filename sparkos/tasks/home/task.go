// Package home is the page task mounted at "/": a rounded card with a title
// and the calculator widget.
package home

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"tinygo.org/x/tinyfont/freemono"

	"sparkcalc/hal"
	"sparkcalc/internal/calc"
	"sparkcalc/sparkos/client/logger"
	"sparkcalc/sparkos/gfx"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
	"sparkcalc/sparkos/widget/calculator"
)

// DefaultTitle is shown above the calculator.
const DefaultTitle = "Calculator"

const (
	cardMaxWidth = 420
	cardPadding  = 24
	cardRadius   = 28
	pageMargin   = 8
)

// titleSample fixes the title line height whatever title is configured.
const titleSample = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func titleFace() gfx.Face {
	return gfx.MustFace(&freemono.Bold12pt7b, titleSample)
}

var (
	colorPage  = gfx.Hex(0xF2F2F7)
	colorCard  = gfx.Hex(0x1C1C1E)
	colorTitle = gfx.Hex(0xEBEBF5)
)

type Config struct {
	Display hal.Display
	EP      kernel.Capability
	Log     kernel.Capability
	Level   slog.Leveler
	Title   string
}

type Task struct {
	cfg Config

	fb     hal.Framebuffer
	canvas *gfx.Canvas
	log    *slog.Logger

	title gfx.Face

	active bool

	// widget is nil while unmounted.
	widget  *calculator.Widget
	mountID uuid.UUID

	inbuf []byte
}

func New(cfg Config) *Task {
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	return &Task{cfg: cfg}
}

func (t *Task) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(t.cfg.EP)
	if !ok {
		return
	}
	if t.cfg.Display == nil {
		return
	}
	t.fb = t.cfg.Display.Framebuffer()
	t.canvas = gfx.New(t.fb)
	if t.canvas == nil {
		return
	}
	t.log = logger.New(ctx, t.cfg.Log, t.cfg.Level).With("page", "/")
	t.title = titleFace()

	for msg := range ch {
		switch proto.Kind(msg.Kind) {
		case proto.MsgAppShutdown:
			t.setActive(false)
			if msg.Cap.Valid() {
				_ = ctx.SendToCapResult(msg.Cap, uint16(proto.MsgAppShutdown), nil, kernel.Capability{})
			}
			return

		case proto.MsgAppControl:
			active, ok := proto.DecodeAppControlPayload(msg.Payload())
			if !ok {
				continue
			}
			t.setActive(active)

		case proto.MsgTermInput:
			if !t.active {
				continue
			}
			t.handleInput(msg.Payload())
			t.render()

		case proto.MsgPointer:
			if !t.active {
				continue
			}
			x, y, action, ok := proto.DecodePointerPayload(msg.Payload())
			if !ok {
				continue
			}
			t.handlePointer(x, y, action)
			t.render()
		}
	}
}

func (t *Task) setActive(active bool) {
	if active == t.active {
		return
	}
	t.active = active
	if !active {
		t.unmount()
		return
	}
	t.mount()
	t.render()
}

// mount starts a fresh calculator; nothing survives from a previous mount.
func (t *Task) mount() {
	t.widget = calculator.New()
	t.mountID = uuid.New()
	_, _, body := layoutPage(t.fb.Width(), t.fb.Height(), t.title.Height)
	t.widget.Layout(body)
	t.log.Info("mounted", "mount", t.mountID.String())
}

func (t *Task) unmount() {
	if t.widget == nil {
		return
	}
	t.log.Info("unmounted", "mount", t.mountID.String(), "display", t.widget.Engine().Display())
	t.widget = nil
	t.mountID = uuid.Nil
	t.inbuf = t.inbuf[:0]
}

func (t *Task) handleInput(b []byte) {
	t.inbuf = append(t.inbuf, b...)
	buf := t.inbuf
	for len(buf) > 0 {
		n, k, ok := nextKey(buf)
		if !ok {
			break
		}
		buf = buf[n:]
		t.handleKey(k)
	}
	t.inbuf = append(t.inbuf[:0], buf...)
}

func (t *Task) handleKey(k key) {
	w := t.widget
	switch k.kind {
	case keyEsc:
		t.press(calc.KeyClear)
	case keyEnter:
		t.press(calc.KeyEquals)
	case keyLeft:
		w.MoveFocus(-1, 0)
	case keyRight:
		w.MoveFocus(1, 0)
	case keyUp:
		w.MoveFocus(0, -1)
	case keyDown:
		w.MoveFocus(0, 1)
	case keyRune:
		if k.r == ' ' {
			if fk, ok := w.Focused(); ok {
				t.press(fk)
			}
			return
		}
		if ck, ok := calculator.KeyForRune(k.r); ok {
			t.press(ck)
		}
	}
}

func (t *Task) handlePointer(x, y int, action proto.PointerAction) {
	switch action {
	case proto.PointerDown:
		t.widget.Blur()
		t.widget.PointerDown(x, y)
	case proto.PointerUp:
		if k, ok := t.widget.PointerUp(x, y); ok {
			t.logPress(k)
		}
	}
}

func (t *Task) press(k calc.Key) {
	t.widget.Press(k)
	t.logPress(k)
}

func (t *Task) logPress(k calc.Key) {
	if !t.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	st := t.widget.Engine().State()
	t.log.Debug("press",
		"key", k.String(),
		"display", st.Display,
		"pending", st.Pending.String(),
		"clear", t.widget.Engine().ClearLabel(),
	)
}

// layoutPage centres a card no wider than cardMaxWidth and returns the card,
// its title line and the area left for the calculator. Padding and corner
// radius scale with the card width.
func layoutPage(w, h, titleHeight int) (card, title, body gfx.Rect) {
	cw := w - 2*pageMargin
	if cw > cardMaxWidth {
		cw = cardMaxWidth
	}
	card = gfx.Rect{X: (w - cw) / 2, Y: pageMargin, W: cw, H: h - 2*pageMargin}

	pad := cardPadding * cw / cardMaxWidth
	if pad < 6 {
		pad = 6
	}
	inner := card.Inset(pad)
	title = gfx.Rect{X: inner.X, Y: inner.Y, W: inner.W, H: titleHeight}
	body = gfx.Rect{X: inner.X, Y: title.Bottom() + pad/2, W: inner.W, H: inner.Bottom() - title.Bottom() - pad/2}
	return card, title, body
}

func (t *Task) render() {
	if !t.active || t.widget == nil {
		return
	}
	c := t.canvas
	card, title, _ := layoutPage(c.Width(), c.Height(), t.title.Height)

	c.Clear(colorPage)
	c.FillRoundRect(card, cardRadius*card.W/cardMaxWidth, colorCard)
	c.TextIn(t.title, title, gfx.AlignCenter, t.cfg.Title, colorTitle)
	t.widget.Draw(c)
	_ = c.Display()
}
