package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"sparkcalc/app"
	"sparkcalc/hal"
	"sparkcalc/internal/buildinfo"
)

type rootOptions struct {
	configPath string
	headless   bool

	route    string
	title    string
	logLevel string

	width  int
	height int
	scale  int

	hz       int
	ticks    uint64
	keys     string
	keyEvery int
	dump     string
}

func newRootCommand() *cobra.Command { return newCommand(&rootOptions{}) }

func newCommand(opts *rootOptions) *cobra.Command {
	def := app.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "sparkcalc",
		Short: "Pocket calculator on the Spark runtime",
		Long: `Run the calculator page in a window, or headless with a scripted key sequence.

Key scripts are typed literally; named keys go in angle brackets:
  sparkcalc --headless --ticks 120 --keys "12+30<enter>" --dump frame.png`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd, cfg, opts.headless)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	f.BoolVar(&opts.headless, "headless", false, "run without a window")
	f.StringVar(&opts.route, "route", def.Route, "path mounted at startup")
	f.StringVar(&opts.title, "title", def.Title, "page title")
	f.StringVar(&opts.logLevel, "log-level", def.Log.Level, "debug, info, warn or error")
	f.IntVar(&opts.width, "width", def.Window.Width, "framebuffer width")
	f.IntVar(&opts.height, "height", def.Window.Height, "framebuffer height")
	f.IntVar(&opts.scale, "scale", def.Window.Scale, "window scale factor")
	f.IntVar(&opts.hz, "hz", def.Headless.Hz, "tick rate in headless mode")
	f.Uint64Var(&opts.ticks, "ticks", def.Headless.Ticks, "stop after N ticks in headless mode (0 = run until interrupted)")
	f.StringVar(&opts.keys, "keys", def.Headless.Keys, "key script injected in headless mode")
	f.IntVar(&opts.keyEvery, "key-every", def.Headless.KeyEvery, "ticks between injected key events")
	f.StringVar(&opts.dump, "dump", def.Headless.Dump, "write the last headless frame to this PNG")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	})
	return cmd
}

// resolveConfig loads the file (or defaults) and applies flags the user set.
func resolveConfig(cmd *cobra.Command, opts *rootOptions) (app.FileConfig, error) {
	cfg := app.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = app.LoadConfig(opts.configPath); err != nil {
			return app.FileConfig{}, err
		}
	}

	set := cmd.Flags().Changed
	if set("route") {
		cfg.Route = opts.route
	}
	if set("title") {
		cfg.Title = opts.title
	}
	if set("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if set("width") {
		cfg.Window.Width = opts.width
	}
	if set("height") {
		cfg.Window.Height = opts.height
	}
	if set("scale") {
		cfg.Window.Scale = opts.scale
	}
	if set("hz") {
		cfg.Headless.Hz = opts.hz
	}
	if set("ticks") {
		cfg.Headless.Ticks = opts.ticks
	}
	if set("keys") {
		cfg.Headless.Keys = opts.keys
	}
	if set("key-every") {
		cfg.Headless.KeyEvery = opts.keyEvery
	}
	if set("dump") {
		cfg.Headless.Dump = opts.dump
	}

	if err := cfg.Validate(); err != nil {
		return app.FileConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// shutdownTimeout bounds how long the pages get to unmount after the host
// loop returns.
const shutdownTimeout = time.Second

func run(cmd *cobra.Command, cfg app.FileConfig, headless bool) (err error) {
	host := cfg.Host(cmd.OutOrStdout())
	appCfg := cfg.App()

	var sys *app.System
	newApp := func(h hal.HAL) func() error {
		sys = app.New(h, appCfg)
		return sys.Step
	}
	defer func() {
		if sys == nil || errors.Is(err, app.ErrPanicked) {
			return
		}
		if stopErr := sys.Shutdown(shutdownTimeout); stopErr != nil && err == nil {
			err = stopErr
		}
	}()

	if headless {
		runCfg, cfgErr := cfg.HeadlessRun()
		if cfgErr != nil {
			return cfgErr
		}
		appCfg.StopOnPanic = true

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		err = hal.RunHeadless(ctx, host, newApp, runCfg)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	host.Title = fmt.Sprintf("%s (%s)", cfg.Title, buildinfo.Short())
	return hal.RunWindow(host, newApp)
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
