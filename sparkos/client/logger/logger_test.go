package logger

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

type logTask struct {
	logCap kernel.Capability
	level  slog.Level
	run    func(*slog.Logger)
	done   chan struct{}
}

func (t *logTask) Run(ctx *kernel.Context) {
	t.run(New(ctx, t.logCap, t.level))
	close(t.done)
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

func TestLoggerShipsRecordsOverIPC(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	task := &logTask{
		logCap: ep.Restrict(kernel.RightSend),
		level:  slog.LevelInfo,
		done:   make(chan struct{}),
		run: func(l *slog.Logger) {
			l.Debug("hidden")
			l.Info("mounted", "route", "/")
			l.Warn(strings.Repeat("x", 2*kernel.MaxMessageBytes))
		},
	}
	out := make(chan kernel.Message, 16)
	k.AddTask(&recvTask{cap: ep.Restrict(kernel.RightRecv), out: out})
	k.AddTask(task)
	select {
	case <-task.done:
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}

	var lines []string
	for len(lines) < 2 {
		select {
		case msg := <-out:
			if proto.Kind(msg.Kind) != proto.MsgLogLine {
				t.Fatalf("unexpected kind %s", proto.Kind(msg.Kind))
			}
			lines = append(lines, string(msg.Payload()))
		case <-time.After(time.Second):
			t.Fatalf("timed out after %d lines", len(lines))
		}
	}
	select {
	case msg := <-out:
		t.Fatalf("unexpected extra line %q", msg.Payload())
	case <-time.After(20 * time.Millisecond):
	}
	if lines[0] != "level=INFO msg=mounted route=/" {
		t.Fatalf("line 0 = %q", lines[0])
	}
	if len(lines[1]) != kernel.MaxMessageBytes || !strings.HasPrefix(lines[1], "level=WARN") {
		t.Fatalf("line 1 = %q", lines[1])
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "warn": slog.LevelWarn, "error": slog.LevelError} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error")
	}
}
