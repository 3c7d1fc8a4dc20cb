package hal

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Hz    int
	Ticks uint64

	// Keys are injected one per KeyEvery frames, starting with the first frame.
	Keys     []KeyEvent
	KeyEvery int

	// Dump, when set, receives the final frame as PNG.
	Dump string
}

// RunHeadless runs the OS without opening a window.
func RunHeadless(ctx context.Context, hostCfg HostConfig, newApp func(HAL) func() error, cfg HeadlessConfig) (err error) {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.KeyEvery <= 0 {
		cfg.KeyEvery = 2
	}

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := newHost(hostCfg)
	step := newApp(h)

	if cfg.Dump != "" {
		defer func() {
			if dumpErr := dumpPNG(h.fb, cfg.Dump); dumpErr != nil && err == nil {
				err = dumpErr
			}
		}()
	}

	t := time.NewTicker(d)
	defer t.Stop()

	keys := cfg.Keys
	var frame uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if len(keys) > 0 && frame%uint64(cfg.KeyEvery) == 0 {
				h.kbd.emit(keys[0])
				keys = keys[1:]
			}
			h.t.step(1)
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			frame++
			if cfg.Ticks > 0 && frame >= cfg.Ticks {
				return nil
			}
		}
	}
}

func dumpPNG(fb *MemFramebuffer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dump frame: %w", err)
	}
	if err := png.Encode(f, fb.Snapshot(nil)); err != nil {
		f.Close()
		return fmt.Errorf("dump frame: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("dump frame: %w", err)
	}
	return nil
}
