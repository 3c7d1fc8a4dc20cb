package hal

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestRunHeadlessInjectsKeysAndDumps(t *testing.T) {
	keys, err := ParseKeyScript("7 <enter>")
	if err != nil {
		t.Fatal(err)
	}
	dump := filepath.Join(t.TempDir(), "frame.png")

	var got HAL
	steps := 0
	err = RunHeadless(context.Background(), HostConfig{Width: 8, Height: 6, LogOutput: &bytes.Buffer{}}, func(h HAL) func() error {
		got = h
		h.Display().Framebuffer().ClearRGB(0, 0xFF, 0)
		return func() error {
			steps++
			return nil
		}
	}, HeadlessConfig{Hz: 1000, Ticks: 6, Keys: keys, KeyEvery: 1, Dump: dump})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if steps != 6 {
		t.Fatalf("steps=%d, want 6", steps)
	}

	events := got.Input().Keyboard().Events()
	if n := len(events); n != len(keys) {
		t.Fatalf("queued %d key events, want %d", n, len(keys))
	}
	if ev := <-events; ev.Rune != '7' || !ev.Press {
		t.Fatalf("first event %+v", ev)
	}

	f, err := os.Open(dump)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Fatalf("dump bounds=%v", img.Bounds())
	}
	_, g, _, _ := img.At(2, 2).RGBA()
	if g>>8 != 0xFF {
		t.Fatalf("dump pixel green=%d", g>>8)
	}
}

func TestRunHeadlessStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RunHeadless(ctx, HostConfig{LogOutput: &bytes.Buffer{}}, func(HAL) func() error { return nil }, HeadlessConfig{})
	if err != context.Canceled {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
}
