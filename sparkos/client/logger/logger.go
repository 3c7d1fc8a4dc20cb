package logger

import (
	"bytes"
	"log/slog"

	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

// Log sends a log line to the logger service.
//
// The call is best-effort: it may drop on queue full.
func Log(ctx *kernel.Context, logCap kernel.Capability, line string) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidFromCap
	}
	b := []byte(line)
	if len(b) > kernel.MaxMessageBytes {
		b = b[:kernel.MaxMessageBytes]
	}
	return ctx.SendToCapResult(logCap, uint16(proto.MsgLogLine), proto.LogLinePayload(b), kernel.Capability{})
}

// New returns a structured logger whose records travel as MsgLogLine to the
// logger service. Records are formatted by slog.TextHandler without the time
// attribute; lines longer than a message are truncated.
func New(ctx *kernel.Context, logCap kernel.Capability, level slog.Leveler) *slog.Logger {
	w := &lineWriter{ctx: ctx, logCap: logCap}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(h)
}

// lineWriter receives one complete record per Write from slog.TextHandler.
type lineWriter struct {
	ctx    *kernel.Context
	logCap kernel.Capability
}

func (w *lineWriter) Write(p []byte) (int, error) {
	line := bytes.TrimRight(p, "\n")
	_ = Log(w.ctx, w.logCap, string(line))
	return len(p), nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(s))
	return l, err
}
