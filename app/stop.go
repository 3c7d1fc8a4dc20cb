package app

import (
	"log/slog"
	"time"

	clientlog "sparkcalc/sparkos/client/logger"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

// statusWait bounds how long the stop task waits for the router to report
// the active route before shutting it down anyway.
const statusWait = 200 * time.Millisecond

const stopRequestID = 1

// stopTask waits for stop, logs the router state and shuts the router down.
// done is closed once every page has acknowledged.
type stopTask struct {
	router kernel.Capability
	reply  kernel.Capability
	log    kernel.Capability
	level  slog.Leveler
	pages  int

	stop <-chan struct{}
	done chan<- struct{}
}

func (t *stopTask) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(t.reply.Restrict(kernel.RightRecv))
	if !ok {
		return
	}
	log := clientlog.New(ctx, t.log, t.level).With("svc", "stop")
	<-t.stop

	replyTo := t.reply.Restrict(kernel.RightSend)
	route, redirects := "", uint8(0)
	if res := ctx.SendToCapResult(t.router, uint16(proto.MsgRouteStatus), proto.RouteStatusPayload(stopRequestID), replyTo); res == kernel.SendOK {
		route, redirects = t.awaitStatus(ch)
	}
	log.Info("stopping", "route", route, "redirects", redirects)

	// Host ticks have stopped, so a full router queue cannot drain by waiting.
	if res := ctx.SendToCapResult(t.router, uint16(proto.MsgAppShutdown), nil, replyTo); res != kernel.SendOK {
		log.Warn("shutdown not delivered", "res", res.String())
		return
	}

	for acked := 0; acked < t.pages; {
		msg, ok := <-ch
		if !ok {
			return
		}
		if proto.Kind(msg.Kind) == proto.MsgAppShutdown {
			acked++
		}
	}
	log.Debug("stopped", "pages", t.pages)
	close(t.done)
}

func (t *stopTask) awaitStatus(ch <-chan kernel.Message) (string, uint8) {
	timeout := time.After(statusWait)
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return "", 0
			}
			if proto.Kind(msg.Kind) != proto.MsgRouteStatusResp {
				continue
			}
			id, redirects, active, ok := proto.DecodeRouteStatusRespPayload(msg.Payload())
			if ok && id == stopRequestID {
				return active, redirects
			}
		case <-timeout:
			return "", 0
		}
	}
}
