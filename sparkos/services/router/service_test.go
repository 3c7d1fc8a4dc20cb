package router

import (
	"log/slog"
	"testing"
	"time"

	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

const testTimeout = 1 * time.Second

type sendReq struct {
	kind    proto.Kind
	payload []byte
	xfer    kernel.Capability
	done    chan<- kernel.SendResult
}

type senderTask struct {
	to   kernel.Capability
	reqs <-chan sendReq
}

func (t *senderTask) Run(ctx *kernel.Context) {
	for req := range t.reqs {
		req.done <- ctx.SendToCapResult(t.to, uint16(req.kind), req.payload, req.xfer)
	}
}

type recvTask struct {
	cap kernel.Capability
	out chan<- kernel.Message
}

func (t *recvTask) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(t.cap)
	if !ok {
		return
	}
	for msg := range ch {
		t.out <- msg
	}
}

func recvWithTimeout[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for message")
		var zero T
		return zero
	}
}

func expectNone(t *testing.T, ch <-chan kernel.Message) {
	t.Helper()
	select {
	case msg := <-ch:
		t.Fatalf("unexpected %s message", proto.Kind(msg.Kind))
	case <-time.After(20 * time.Millisecond):
	}
}

func expectControl(t *testing.T, ch <-chan kernel.Message, want bool) kernel.Message {
	t.Helper()
	msg := recvWithTimeout(t, ch)
	if proto.Kind(msg.Kind) != proto.MsgAppControl {
		t.Fatalf("kind=%s, want app_control", proto.Kind(msg.Kind))
	}
	active, ok := proto.DecodeAppControlPayload(msg.Payload())
	if !ok || active != want {
		t.Fatalf("active=%v ok=%v, want %v", active, ok, want)
	}
	return msg
}

type harness struct {
	k      *kernel.Kernel
	send   chan sendReq
	reply  kernel.Capability
	replys <-chan kernel.Message
	pages  map[string]<-chan kernel.Message
}

func newHarness(t *testing.T, initial string, paths ...string) *harness {
	t.Helper()
	k := kernel.New()
	routerEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	replyEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	h := &harness{k: k, send: make(chan sendReq), reply: replyEP.Restrict(kernel.RightSend), pages: map[string]<-chan kernel.Message{}}

	var routes []Route
	for _, p := range paths {
		ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
		out := make(chan kernel.Message, 16)
		k.AddTask(&recvTask{cap: ep.Restrict(kernel.RightRecv), out: out})
		h.pages[p] = out
		routes = append(routes, Route{Path: p, Page: ep.Restrict(kernel.RightSend)})
	}

	logs := make(chan kernel.Message, 64)
	k.AddTask(&recvTask{cap: logEP.Restrict(kernel.RightRecv), out: logs})
	replys := make(chan kernel.Message, 16)
	k.AddTask(&recvTask{cap: replyEP.Restrict(kernel.RightRecv), out: replys})
	h.replys = replys

	k.AddTask(New(Config{
		In:      routerEP.Restrict(kernel.RightRecv),
		Ctl:     routerEP.Restrict(kernel.RightSend),
		Log:     logEP.Restrict(kernel.RightSend),
		Routes:  routes,
		Initial: initial,
		Level:   slog.LevelDebug,
	}))
	k.AddTask(&senderTask{to: routerEP.Restrict(kernel.RightSend), reqs: h.send})
	return h
}

func (h *harness) sendTo(t *testing.T, kind proto.Kind, payload []byte, xfer kernel.Capability) {
	t.Helper()
	done := make(chan kernel.SendResult, 1)
	h.send <- sendReq{kind: kind, payload: payload, xfer: xfer, done: done}
	if res := recvWithTimeout(t, done); res != kernel.SendOK {
		t.Fatalf("send %s: %s", kind, res)
	}
}

func (h *harness) status(t *testing.T) (uint8, string) {
	t.Helper()
	h.sendTo(t, proto.MsgRouteStatus, proto.RouteStatusPayload(9), h.reply)
	msg := recvWithTimeout(t, h.replys)
	if proto.Kind(msg.Kind) != proto.MsgRouteStatusResp {
		t.Fatalf("kind=%s", proto.Kind(msg.Kind))
	}
	id, redirects, active, ok := proto.DecodeRouteStatusRespPayload(msg.Payload())
	if !ok || id != 9 {
		t.Fatalf("bad status reply id=%d ok=%v", id, ok)
	}
	return redirects, active
}

func TestUnknownInitialPathRedirectsHome(t *testing.T) {
	h := newHarness(t, "/nope", "/")

	msg := expectControl(t, h.pages["/"], true)
	if !msg.Cap.Valid() {
		t.Fatal("page must receive the router capability on mount")
	}

	redirects, active := h.status(t)
	if redirects != 1 || active != "/" {
		t.Fatalf("status redirects=%d active=%q", redirects, active)
	}
}

func TestNavigateSwapsPagesAndForwardsInput(t *testing.T) {
	h := newHarness(t, "/", "/", "/about")
	home, about := h.pages["/"], h.pages["/about"]

	expectControl(t, home, true)
	expectNone(t, about)

	h.sendTo(t, proto.MsgTermInput, []byte("12"), kernel.Capability{})
	if msg := recvWithTimeout(t, home); proto.Kind(msg.Kind) != proto.MsgTermInput || string(msg.Payload()) != "12" {
		t.Fatalf("home got %s %q", proto.Kind(msg.Kind), msg.Payload())
	}

	h.sendTo(t, proto.MsgRouteNavigate, proto.RouteNavigatePayload("/about"), kernel.Capability{})
	expectControl(t, home, false)
	expectControl(t, about, true)

	h.sendTo(t, proto.MsgPointer, proto.PointerPayload(3, 4, proto.PointerDown), kernel.Capability{})
	if msg := recvWithTimeout(t, about); proto.Kind(msg.Kind) != proto.MsgPointer {
		t.Fatalf("about got %s", proto.Kind(msg.Kind))
	}
	expectNone(t, home)

	h.sendTo(t, proto.MsgRouteNavigate, proto.RouteNavigatePayload("/missing"), kernel.Capability{})
	expectControl(t, about, false)
	expectControl(t, home, true)

	redirects, active := h.status(t)
	if redirects != 1 || active != "/" {
		t.Fatalf("status redirects=%d active=%q", redirects, active)
	}
}

func TestNavigateToActiveRouteKeepsMount(t *testing.T) {
	h := newHarness(t, "/", "/")
	home := h.pages["/"]
	expectControl(t, home, true)

	h.sendTo(t, proto.MsgRouteNavigate, proto.RouteNavigatePayload("/"), kernel.Capability{})
	h.sendTo(t, proto.MsgRouteNavigate, proto.RouteNavigatePayload("/elsewhere"), kernel.Capability{})
	expectNone(t, home)
}

func TestMissingFallbackReportsNotFound(t *testing.T) {
	h := newHarness(t, "/about", "/about")
	expectControl(t, h.pages["/about"], true)

	h.sendTo(t, proto.MsgRouteNavigate, proto.RouteNavigatePayload("/x"), h.reply)
	msg := recvWithTimeout(t, h.replys)
	if proto.Kind(msg.Kind) != proto.MsgError {
		t.Fatalf("kind=%s", proto.Kind(msg.Kind))
	}
	code, ref, detail, ok := proto.DecodeErrorPayload(msg.Payload())
	if !ok || code != proto.ErrNotFound || ref != proto.MsgRouteNavigate || string(detail) != "/x" {
		t.Fatalf("error code=%s ref=%s detail=%q", code, ref, detail)
	}

	_, active := h.status(t)
	if active != "/about" {
		t.Fatalf("active=%q", active)
	}
}

func TestShutdownReachesEveryPage(t *testing.T) {
	h := newHarness(t, "/", "/", "/about")
	expectControl(t, h.pages["/"], true)

	h.sendTo(t, proto.MsgAppShutdown, nil, kernel.Capability{})
	for _, p := range []string{"/", "/about"} {
		msg := recvWithTimeout(t, h.pages[p])
		if proto.Kind(msg.Kind) != proto.MsgAppShutdown {
			t.Fatalf("%s got %s", p, proto.Kind(msg.Kind))
		}
		if msg.Cap.Valid() {
			t.Fatalf("%s got an ack capability nobody asked for", p)
		}
	}
}

func TestShutdownForwardsAckCapability(t *testing.T) {
	h := newHarness(t, "/", "/", "/about")
	expectControl(t, h.pages["/"], true)

	h.sendTo(t, proto.MsgAppShutdown, nil, h.reply)
	for _, p := range []string{"/", "/about"} {
		msg := recvWithTimeout(t, h.pages[p])
		if proto.Kind(msg.Kind) != proto.MsgAppShutdown || !msg.Cap.Valid() {
			t.Fatalf("%s got %s cap=%v", p, proto.Kind(msg.Kind), msg.Cap.Valid())
		}
	}

	// The router has stopped; status requests go unanswered.
	h.sendTo(t, proto.MsgRouteStatus, proto.RouteStatusPayload(1), h.reply)
	select {
	case msg := <-h.replys:
		t.Fatalf("unexpected %s after shutdown", proto.Kind(msg.Kind))
	case <-time.After(20 * time.Millisecond):
	}
}
