package proto

import "encoding/binary"

// PointerAction describes what happened at a pointer position.
type PointerAction uint8

const (
	PointerDown PointerAction = iota + 1
	PointerUp
)

// PointerPayload encodes a pointer event in framebuffer pixels.
//
// Payload format (little-endian):
//
//	u16 x
//	u16 y
//	u8  action
func PointerPayload(x, y int, action PointerAction) []byte {
	b := make([]byte, 5)
	binary.LittleEndian.PutUint16(b[0:2], clampU16(x))
	binary.LittleEndian.PutUint16(b[2:4], clampU16(y))
	b[4] = byte(action)
	return b
}

func DecodePointerPayload(b []byte) (x, y int, action PointerAction, ok bool) {
	if len(b) != 5 {
		return 0, 0, 0, false
	}
	action = PointerAction(b[4])
	if action != PointerDown && action != PointerUp {
		return 0, 0, 0, false
	}
	return int(binary.LittleEndian.Uint16(b[0:2])), int(binary.LittleEndian.Uint16(b[2:4])), action, true
}

func clampU16(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}
