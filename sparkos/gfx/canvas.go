// Package gfx draws into an RGB565 hal.Framebuffer.
//
// Canvas implements drivers.Displayer so tinyfont can render text straight
// into the framebuffer. All drawing clips to the framebuffer bounds.
package gfx

import (
	"image/color"
	"math"

	"tinygo.org/x/drivers"

	"sparkcalc/hal"
)

var _ drivers.Displayer = (*Canvas)(nil)

// Rect is an axis-aligned rectangle in framebuffer pixels.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

// Inset shrinks r by d on every side. A negative d grows it.
func (r Rect) Inset(d int) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// Canvas draws into an RGB565 framebuffer.
type Canvas struct {
	fb     hal.Framebuffer
	buf    []byte
	stride int
	w, h   int
}

// New wraps fb. It returns nil when fb is missing or not RGB565.
func New(fb hal.Framebuffer) *Canvas {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return nil
	}
	buf := fb.Buffer()
	if buf == nil || fb.Width() <= 0 || fb.Height() <= 0 {
		return nil
	}
	return &Canvas{fb: fb, buf: buf, stride: fb.StrideBytes(), w: fb.Width(), h: fb.Height()}
}

func (c *Canvas) Width() int  { return c.w }
func (c *Canvas) Height() int { return c.h }
func (c *Canvas) Bounds() Rect {
	return Rect{W: c.w, H: c.h}
}

func (c *Canvas) Size() (x, y int16) {
	return int16(c.w), int16(c.h)
}

func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	c.set(int(x), int(y), hal.RGB565(col.R, col.G, col.B))
}

// Display presents the framebuffer.
func (c *Canvas) Display() error {
	return c.fb.Present()
}

func (c *Canvas) set(x, y int, pixel uint16) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	off := y*c.stride + x*2
	if off < 0 || off+1 >= len(c.buf) {
		return
	}
	c.buf[off] = byte(pixel)
	c.buf[off+1] = byte(pixel >> 8)
}

func (c *Canvas) span(y, x0, x1 int, pixel uint16) {
	if y < 0 || y >= c.h {
		return
	}
	x0 = clampInt(x0, 0, c.w)
	x1 = clampInt(x1, 0, c.w)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	row := y * c.stride
	for x := x0; x < x1; x++ {
		off := row + x*2
		if off+1 >= len(c.buf) {
			return
		}
		c.buf[off] = lo
		c.buf[off+1] = hi
	}
}

// Clear fills the whole canvas.
func (c *Canvas) Clear(col color.RGBA) {
	c.FillRect(c.Bounds(), col)
}

func (c *Canvas) FillRect(r Rect, col color.RGBA) {
	if r.Empty() {
		return
	}
	pixel := hal.RGB565(col.R, col.G, col.B)
	for y := r.Y; y < r.Bottom(); y++ {
		c.span(y, r.X, r.Right(), pixel)
	}
}

// FillRoundRect fills r with corners of the given radius, clamped to half the
// shorter side.
func (c *Canvas) FillRoundRect(r Rect, radius int, col color.RGBA) {
	if r.Empty() {
		return
	}
	if radius > r.W/2 {
		radius = r.W / 2
	}
	if radius > r.H/2 {
		radius = r.H / 2
	}
	if radius <= 0 {
		c.FillRect(r, col)
		return
	}

	pixel := hal.RGB565(col.R, col.G, col.B)
	rf := float64(radius)
	for y := r.Y; y < r.Bottom(); y++ {
		dy := -1
		if top := y - r.Y; top < radius {
			dy = radius - top
		} else if bottom := r.Bottom() - 1 - y; bottom < radius {
			dy = radius - bottom
		}
		inset := 0
		if dy > 0 {
			fy := float64(dy) - 0.5
			inset = radius - int(math.Round(math.Sqrt(rf*rf-fy*fy)))
		}
		c.span(y, r.X+inset, r.Right()-inset, pixel)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Hex converts 0xRRGGBB into an opaque color.
func Hex(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}
}

// Line draws a line of the given thickness between two points.
func (c *Canvas) Line(x0, y0, x1, y1, thickness int, col color.RGBA) {
	if thickness < 1 {
		thickness = 1
	}
	pixel := hal.RGB565(col.R, col.G, col.B)
	half := thickness / 2
	plot := func(x, y int) {
		for yy := y - half; yy < y-half+thickness; yy++ {
			c.span(yy, x-half, x-half+thickness, pixel)
		}
	}

	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
