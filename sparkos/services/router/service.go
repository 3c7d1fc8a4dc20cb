package router

import (
	"log/slog"
	"strings"

	"sparkcalc/sparkos/client/logger"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

const sendRetryLimit = 500

// Config wires the router to its endpoints and pages.
type Config struct {
	// In receives navigation, status, input and pointer messages.
	In kernel.Capability
	// Ctl is a send capability to In, handed to each page on activation.
	Ctl kernel.Capability
	Log kernel.Capability

	Routes  []Route
	Initial string
	Level   slog.Leveler
}

// Service mounts exactly one page at a time and forwards input to it.
type Service struct {
	cfg   Config
	table *Table
	log   *slog.Logger

	active    int
	activeAt  string
	redirects uint8
}

func New(cfg Config) *Service {
	if cfg.Initial == "" {
		cfg.Initial = FallbackPath
	}
	return &Service{cfg: cfg, table: NewTable(cfg.Routes), active: -1}
}

func (s *Service) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.cfg.In)
	if !ok {
		return
	}
	s.log = logger.New(ctx, s.cfg.Log, s.cfg.Level).With("svc", "router")
	s.log.Info("routes registered", "routes", strings.Join(s.table.Paths(), ","))

	if code, ok := s.navigate(ctx, s.cfg.Initial); !ok {
		s.log.Error("initial navigation failed", "path", s.cfg.Initial, "err", code)
	}

	for msg := range ch {
		switch proto.Kind(msg.Kind) {
		case proto.MsgRouteNavigate:
			p, ok := proto.DecodeRouteNavigatePayload(msg.Payload())
			if !ok {
				s.replyError(ctx, msg.Cap, proto.ErrBadMessage, nil)
				continue
			}
			if code, ok := s.navigate(ctx, p); !ok {
				s.replyError(ctx, msg.Cap, code, []byte(p))
			}

		case proto.MsgRouteStatus:
			requestID, ok := proto.DecodeRouteStatusPayload(msg.Payload())
			if !ok || !msg.Cap.Valid() {
				continue
			}
			_ = ctx.SendToCapRetry(msg.Cap, uint16(proto.MsgRouteStatusResp),
				proto.RouteStatusRespPayload(requestID, s.redirects, s.activeAt), kernel.Capability{}, sendRetryLimit)

		case proto.MsgTermInput, proto.MsgPointer:
			if s.active < 0 {
				continue
			}
			_ = ctx.SendToCapRetry(s.table.Route(s.active).Page, msg.Kind, msg.Payload(), kernel.Capability{}, sendRetryLimit)

		case proto.MsgAppShutdown:
			s.shutdown(ctx, msg.Cap)
			return
		}
	}
}

// navigate mounts the page for p, redirecting unknown paths to the fallback.
func (s *Service) navigate(ctx *kernel.Context, p string) (proto.ErrCode, bool) {
	idx, redirected, ok := s.table.Resolve(p)
	if !ok {
		return proto.ErrNotFound, false
	}
	target := s.table.Route(idx).Path
	if redirected {
		if s.redirects < 0xFF {
			s.redirects++
		}
		s.log.Info("redirect", "from", CleanPath(p), "to", target)
	}
	if idx == s.active {
		return 0, true
	}

	if s.active >= 0 {
		prev := s.table.Route(s.active)
		_ = ctx.SendToCapRetry(prev.Page, uint16(proto.MsgAppControl), proto.AppControlPayload(false), kernel.Capability{}, sendRetryLimit)
		s.log.Debug("unmount", "path", prev.Path)
	}

	s.active = idx
	s.activeAt = target
	next := s.table.Route(idx)
	res := ctx.SendToCapRetry(next.Page, uint16(proto.MsgAppControl), proto.AppControlPayload(true), s.cfg.Ctl, sendRetryLimit)
	if res != kernel.SendOK {
		s.log.Warn("mount failed", "path", next.Path, "res", res.String())
		return proto.ErrBusy, false
	}
	s.log.Debug("mount", "path", next.Path)
	return 0, true
}

// shutdown hands ack, if any, to every page so each can confirm it has
// unmounted.
func (s *Service) shutdown(ctx *kernel.Context, ack kernel.Capability) {
	s.log.Debug("shutdown", "pages", s.table.Len())
	for i := 0; i < s.table.Len(); i++ {
		_ = ctx.SendToCapRetry(s.table.Route(i).Page, uint16(proto.MsgAppShutdown), nil, ack, sendRetryLimit)
	}
	s.active = -1
	s.activeAt = ""
}

func (s *Service) replyError(ctx *kernel.Context, to kernel.Capability, code proto.ErrCode, detail []byte) {
	if !to.Valid() {
		return
	}
	_ = ctx.SendToCapRetry(to, uint16(proto.MsgError), proto.ErrorPayload(code, proto.MsgRouteNavigate, detail), kernel.Capability{}, sendRetryLimit)
}
