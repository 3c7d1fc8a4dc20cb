package gfx

import (
	"errors"
	"fmt"
	"image/color"

	"tinygo.org/x/tinyfont"
)

// Face is a font plus the line metrics needed to place it in a box.
type Face struct {
	Font tinyfont.Fonter

	// Height is the glyph extent of the sample characters; Ascent is the
	// distance from the top of that extent to the baseline.
	Height int
	Ascent int
}

// NewFace measures font over sample.
func NewFace(font tinyfont.Fonter, sample string) (Face, error) {
	h, asc, err := LineMetrics(font, sample)
	if err != nil {
		return Face{}, err
	}
	return Face{Font: font, Height: h, Ascent: asc}, nil
}

// MustFace is NewFace for fonts compiled into the binary.
func MustFace(font tinyfont.Fonter, sample string) Face {
	f, err := NewFace(font, sample)
	if err != nil {
		panic(err)
	}
	return f
}

// LineMetrics scans the glyphs of sample and returns the vertical extent and
// the baseline offset from its top.
func LineMetrics(font tinyfont.Fonter, sample string) (height int, ascent int, err error) {
	if font == nil {
		return 0, 0, errors.New("nil font")
	}
	minY, maxY := 0, 0
	first := true
	for _, r := range sample {
		info := font.GetGlyph(r).Info()
		if info.Height == 0 {
			continue
		}
		top := int(info.YOffset)
		bottom := top + int(info.Height)
		if first {
			minY, maxY = top, bottom
			first = false
			continue
		}
		if top < minY {
			minY = top
		}
		if bottom > maxY {
			maxY = bottom
		}
	}
	if first {
		return 0, 0, errors.New("no glyphs")
	}
	height = maxY - minY
	ascent = -minY
	if height <= 0 || ascent < 0 {
		return 0, 0, fmt.Errorf("invalid metrics: height=%d ascent=%d", height, ascent)
	}
	return height, ascent, nil
}

// TextWidth returns the advance width of s in pixels.
func TextWidth(font tinyfont.Fonter, s string) int {
	_, outbox := tinyfont.LineWidth(font, s)
	return int(outbox)
}

// Text draws s with its baseline at y.
func (c *Canvas) Text(font tinyfont.Fonter, x, y int, s string, col color.RGBA) {
	tinyfont.WriteLine(c, font, int16(x), int16(y), s, col)
}

// TextIn draws s vertically centred in r, aligned by align.
func (c *Canvas) TextIn(face Face, r Rect, align Align, s string, col color.RGBA) {
	w := TextWidth(face.Font, s)
	x := r.X
	switch align {
	case AlignCenter:
		x = r.X + (r.W-w)/2
	case AlignRight:
		x = r.Right() - w
	}
	y := r.Y + (r.H-face.Height)/2 + face.Ascent
	c.Text(face.Font, x, y, s, col)
}

// Align selects horizontal placement for TextIn.
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)
