package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"sparkcalc/hal"
	"sparkcalc/sparkos/client/logger"
	"sparkcalc/sparkos/services/router"
	"sparkcalc/sparkos/tasks/home"
)

// FileConfig is the optional YAML configuration file.
type FileConfig struct {
	Route string `yaml:"route"`
	Title string `yaml:"title"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Window struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
		Scale  int `yaml:"scale"`
	} `yaml:"window"`

	Headless struct {
		Hz       int    `yaml:"hz"`
		Ticks    uint64 `yaml:"ticks"`
		Keys     string `yaml:"keys"`
		KeyEvery int    `yaml:"key_every"`
		Dump     string `yaml:"dump"`
	} `yaml:"headless"`
}

// DefaultConfig returns the configuration used without a file.
func DefaultConfig() FileConfig {
	var c FileConfig
	c.Route = router.FallbackPath
	c.Title = home.DefaultTitle
	c.Log.Level = "info"
	c.Window.Width = hal.DefaultWidth
	c.Window.Height = hal.DefaultHeight
	c.Window.Scale = 2
	c.Headless.Hz = 60
	c.Headless.KeyEvery = 2
	return c
}

// LoadConfig reads path over the defaults. Unknown keys are errors.
func LoadConfig(path string) (FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := ParseConfig(b)
	if err != nil {
		return FileConfig{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML over the defaults and validates the result.
func ParseConfig(b []byte) (FileConfig, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c FileConfig) Validate() error {
	var errs []error
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		errs = append(errs, fmt.Errorf("window: size %dx%d must not be negative", c.Window.Width, c.Window.Height))
	}
	if c.Window.Width > 4096 || c.Window.Height > 4096 {
		errs = append(errs, fmt.Errorf("window: size %dx%d exceeds 4096", c.Window.Width, c.Window.Height))
	}
	if c.Window.Scale < 1 || c.Window.Scale > 8 {
		errs = append(errs, fmt.Errorf("window.scale: %d not in 1..8", c.Window.Scale))
	}
	if c.Headless.Hz < 1 || c.Headless.Hz > 10000 {
		errs = append(errs, fmt.Errorf("headless.hz: %d not in 1..10000", c.Headless.Hz))
	}
	if c.Headless.KeyEvery < 1 {
		errs = append(errs, fmt.Errorf("headless.key_every: %d must be positive", c.Headless.KeyEvery))
	}
	if _, err := hal.ParseKeyScript(c.Headless.Keys); err != nil {
		errs = append(errs, fmt.Errorf("headless.keys: %w", err))
	}
	return errors.Join(errs...)
}

// App returns the system configuration.
func (c FileConfig) App() Config {
	level, _ := logger.ParseLevel(c.Log.Level)
	return Config{Route: c.Route, Title: c.Title, LogLevel: level}
}

// Host returns the HAL configuration.
func (c FileConfig) Host(out io.Writer) hal.HostConfig {
	return hal.HostConfig{
		Width:     c.Window.Width,
		Height:    c.Window.Height,
		Scale:     c.Window.Scale,
		Title:     c.Title,
		LogOutput: out,
	}
}

// HeadlessRun returns the headless runner configuration.
func (c FileConfig) HeadlessRun() (hal.HeadlessConfig, error) {
	keys, err := hal.ParseKeyScript(c.Headless.Keys)
	if err != nil {
		return hal.HeadlessConfig{}, err
	}
	return hal.HeadlessConfig{
		Hz:       c.Headless.Hz,
		Ticks:    c.Headless.Ticks,
		Keys:     keys,
		KeyEvery: c.Headless.KeyEvery,
		Dump:     c.Headless.Dump,
	}, nil
}
