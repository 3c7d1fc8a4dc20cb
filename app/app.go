package app

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"sparkcalc/hal"
	"sparkcalc/internal/buildinfo"
	clientlog "sparkcalc/sparkos/client/logger"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/services/logger"
	"sparkcalc/sparkos/services/pointer"
	"sparkcalc/sparkos/services/router"
	"sparkcalc/sparkos/services/termkbd"
	"sparkcalc/sparkos/tasks/home"
)

// ErrShutdownTimeout is returned by Shutdown when the pages did not confirm
// in time.
var ErrShutdownTimeout = errors.New("shutdown timed out")

// ErrPanicked is returned by Step after a task panicked when
// Config.StopOnPanic is set.
var ErrPanicked = errors.New("task panicked")

type Config struct {
	// Route is the path mounted at startup.
	Route string
	Title string

	LogLevel slog.Level

	// StopOnPanic makes Step fail once a task panics instead of
	// leaving the panic screen up.
	StopOnPanic bool
}

// System is a running kernel with the calculator page mounted.
type System struct {
	cfg Config
	k   *kernel.Kernel

	logEP    kernel.Capability
	routerEP kernel.Capability
	homeEP   kernel.Capability
	stopEP   kernel.Capability

	stop     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// New initializes and starts the system on h. Step is called once per host
// frame; Shutdown once the host loop has returned.
func New(h hal.HAL, cfg Config) *System {
	installPanicHandler(h)
	return newSystem(h, cfg)
}

// Step reports whether the host should keep running.
func (s *System) Step() error {
	if s.cfg.StopOnPanic && kernel.InPanicMode() {
		return ErrPanicked
	}
	return nil
}

// Shutdown asks the router to stop and waits until every page has
// unmounted, or timeout.
func (s *System) Shutdown(timeout time.Duration) error {
	s.stopOnce.Do(func() { close(s.stop) })
	select {
	case <-s.stopped:
		return nil
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}

func newSystem(h hal.HAL, cfg Config) *System {
	k := kernel.New()
	s := &System{
		cfg:      cfg,
		k:        k,
		logEP:    k.NewEndpoint(kernel.RightSend | kernel.RightRecv),
		routerEP: k.NewEndpoint(kernel.RightSend | kernel.RightRecv),
		homeEP:   k.NewEndpoint(kernel.RightSend | kernel.RightRecv),
		stopEP:   k.NewEndpoint(kernel.RightSend | kernel.RightRecv),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	logSend := s.logEP.Restrict(kernel.RightSend)
	routerSend := s.routerEP.Restrict(kernel.RightSend)

	k.AddTask(logger.New(h.Logger(), s.logEP.Restrict(kernel.RightRecv)))
	k.AddTask(bootTask{log: logSend, level: cfg.LogLevel})

	k.AddTask(home.New(home.Config{
		Display: h.Display(),
		EP:      s.homeEP.Restrict(kernel.RightRecv),
		Log:     logSend,
		Level:   cfg.LogLevel,
		Title:   cfg.Title,
	}))
	routes := []router.Route{
		{Path: router.FallbackPath, Page: s.homeEP.Restrict(kernel.RightSend)},
	}
	k.AddTask(router.New(router.Config{
		In:      s.routerEP.Restrict(kernel.RightRecv),
		Ctl:     routerSend,
		Log:     logSend,
		Routes:  routes,
		Initial: cfg.Route,
		Level:   cfg.LogLevel,
	}))
	k.AddTask(&stopTask{
		router: routerSend,
		reply:  s.stopEP,
		log:    logSend,
		level:  cfg.LogLevel,
		pages:  len(routes),
		stop:   s.stop,
		done:   s.stopped,
	})

	if in := h.Input(); in != nil {
		k.AddTask(termkbd.New(in, routerSend))
		k.AddTask(pointer.New(in, routerSend))
	}

	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for seq := range ch {
					k.TickTo(seq)
				}
			}()
		}
	}

	return s
}

// bootTask logs the build and exits.
type bootTask struct {
	log   kernel.Capability
	level slog.Leveler
}

func (t bootTask) Run(ctx *kernel.Context) {
	clientlog.New(ctx, t.log, t.level).Info("boot",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"date", buildinfo.Date,
	)
}
