package app

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparkcalc/hal"
	"sparkcalc/sparkos/gfx"
	"sparkcalc/sparkos/kernel"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func runSystem(t *testing.T, script string, ticks uint64) (*System, *syncBuffer) {
	t.Helper()
	keys, err := hal.ParseKeyScript(script)
	require.NoError(t, err)

	out := &syncBuffer{}
	cfg := DefaultConfig().App()
	cfg.LogLevel = slog.LevelDebug

	var sys *System
	err = hal.RunHeadless(context.Background(), hal.HostConfig{LogOutput: out}, func(h hal.HAL) func() error {
		sys = New(h, cfg)
		return sys.Step
	}, hal.HeadlessConfig{Hz: 1000, Ticks: ticks, Keys: keys, KeyEvery: 2})
	require.NoError(t, err)
	require.NotNil(t, sys)
	return sys, out
}

func TestSystemEvaluatesTypedKeys(t *testing.T) {
	sys, out := runSystem(t, "12+30<enter>", 200)
	defer sys.Shutdown(time.Second)

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "display=42")
	}, 2*time.Second, 10*time.Millisecond, "log:\n%s", out.String())

	log := out.String()
	assert.Contains(t, log, "msg=boot")
	assert.Contains(t, log, "msg=\"routes registered\"")
	assert.Contains(t, log, "msg=mounted")
	assert.Contains(t, log, "key=+")
}

func TestShutdownUnmountsPage(t *testing.T) {
	sys, out := runSystem(t, "7*6<enter>", 100)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "display=42")
	}, 2*time.Second, 10*time.Millisecond, "log:\n%s", out.String())

	require.NoError(t, sys.Shutdown(time.Second))
	require.NoError(t, sys.Shutdown(time.Second), "second shutdown is a no-op")

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "msg=unmounted")
	}, 2*time.Second, 10*time.Millisecond, "log:\n%s", out.String())

	log := out.String()
	assert.Contains(t, log, "msg=stopping")
	assert.Contains(t, log, "route=/")
	assert.Regexp(t, `msg=unmounted .*display=42`, log)
	assert.Less(t, strings.Index(log, "msg=stopping"), strings.Index(log, "msg=unmounted"))
}

func TestPanicLinesIncludeStack(t *testing.T) {
	lines := panicLines(kernel.PanicInfo{TaskID: 3, Value: "boom", Stack: []byte("a\n\nb\n")})
	assert.Equal(t, []string{"sparkcalc panic:", "task: 3", "panic: boom", "stack:", "a", "b"}, lines)

	lines = panicLines(kernel.PanicInfo{TaskID: 1, Value: 7})
	assert.Equal(t, "stack: unavailable", lines[len(lines)-1])
}

func TestRenderPanicWrapsText(t *testing.T) {
	fb := hal.NewMemFramebuffer(64, 48)
	fb.ClearRGB(0, 0, 0)

	renderPanic(fb, []string{strings.Repeat("W", 40)})

	r, g, b := fb.RGBAt(63, 47)
	assert.Equal(t, [3]uint8{0xFF, 0xFF, 0xFF}, [3]uint8{r, g, b}, "background cleared")

	inked := func(y0, y1 int) bool {
		for y := y0; y < y1; y++ {
			for x := 0; x < fb.Width(); x++ {
				if r, _, _ := fb.RGBAt(x, y); r == 0 {
					return true
				}
			}
		}
		return false
	}
	face := gfx.MustFace(panicFont, "0Ag|")
	assert.True(t, inked(0, face.Height+1), "first row")
	assert.True(t, inked(face.Height+1, 2*(face.Height+1)), "wrapped row")
}

func TestTakeRunes(t *testing.T) {
	p, rest := takeRunes("ab÷cd", 3)
	assert.Equal(t, "ab÷", p)
	assert.Equal(t, "cd", rest)

	p, rest = takeRunes("x", 0)
	assert.Equal(t, "", p)
	assert.Equal(t, "x", rest)
}
