package pointer

import (
	"sparkcalc/hal"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

const sendRetryLimit = 50

// Service forwards HAL pointer presses and releases as MsgPointer.
type Service struct {
	in     hal.Input
	outCap kernel.Capability
}

func New(in hal.Input, outCap kernel.Capability) *Service {
	return &Service{in: in, outCap: outCap}
}

func (s *Service) Run(ctx *kernel.Context) {
	if ctx == nil || s.in == nil {
		return
	}
	ptr := s.in.Pointer()
	if ptr == nil {
		return
	}
	events := ptr.Events()
	if events == nil {
		return
	}

	for ev := range events {
		action := proto.PointerUp
		if ev.Press {
			action = proto.PointerDown
		}
		_ = ctx.SendToCapRetry(s.outCap, uint16(proto.MsgPointer), proto.PointerPayload(ev.X, ev.Y, action), kernel.Capability{}, sendRetryLimit)
	}
}
