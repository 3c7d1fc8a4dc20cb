package app

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"tinygo.org/x/tinyfont/proggy"

	"sparkcalc/hal"
	"sparkcalc/sparkos/gfx"
	"sparkcalc/sparkos/kernel"
)

var panicFont = &proggy.TinySZ8pt7b

var (
	panicBackground = gfx.Hex(0xFFFFFF)
	panicForeground = gfx.Hex(0x000000)
)

func installPanicHandler(h hal.HAL) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		lines := panicLines(info)
		if l := h.Logger(); l != nil {
			for _, line := range lines {
				l.WriteLineString(line)
			}
		}
		if disp := h.Display(); disp != nil {
			renderPanic(disp.Framebuffer(), lines)
		}
		select {}
	})
}

func panicLines(info kernel.PanicInfo) []string {
	lines := []string{
		"sparkcalc panic:",
		fmt.Sprintf("task: %d", info.TaskID),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(info.Stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	lines = append(lines, "stack:")
	for _, line := range strings.Split(string(info.Stack), "\n") {
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// renderPanic fills the screen with lines, wrapping by character, until it
// runs out of rows.
func renderPanic(fb hal.Framebuffer, lines []string) {
	c := gfx.New(fb)
	if c == nil {
		return
	}
	face, err := gfx.NewFace(panicFont, "0Ag|")
	if err != nil {
		return
	}
	charW := gfx.TextWidth(face.Font, "0")
	lineH := face.Height + 1
	if charW <= 0 {
		return
	}
	cols := c.Width() / charW
	if cols <= 0 {
		cols = 1
	}

	c.Clear(panicBackground)
	y := 0
	for _, line := range lines {
		for len(line) > 0 {
			if y+lineH > c.Height() {
				_ = c.Display()
				return
			}
			chunk, rest := takeRunes(line, cols)
			c.Text(face.Font, 0, y+face.Ascent, chunk, panicForeground)
			y += lineH
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = c.Display()
}

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	i, count := 0, 0
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
