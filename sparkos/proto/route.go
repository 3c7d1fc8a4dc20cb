package proto

import "encoding/binary"

// MaxRouteBytes bounds the path carried by route messages.
const MaxRouteBytes = 96

// RouteNavigatePayload encodes a navigation request.
//
// Payload format:
//
//	b[0:] : UTF-8 path, truncated to MaxRouteBytes
func RouteNavigatePayload(path string) []byte {
	if len(path) > MaxRouteBytes {
		path = path[:MaxRouteBytes]
	}
	return []byte(path)
}

func DecodeRouteNavigatePayload(b []byte) (path string, ok bool) {
	if len(b) > MaxRouteBytes {
		return "", false
	}
	return string(b), true
}

// RouteStatusPayload encodes a router status request.
//
// Payload format (little-endian):
//
//	u32 requestID
//
// The reply capability must be transferred in Message.Cap.
func RouteStatusPayload(requestID uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, requestID)
	return b
}

func DecodeRouteStatusPayload(b []byte) (requestID uint32, ok bool) {
	if len(b) != 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

// RouteStatusRespPayload encodes a router status response.
//
// Payload format (little-endian):
//
//	u32 requestID
//	u8  redirects (saturating count of fallback redirects)
//	b[5:] active path (empty when no page is mounted)
func RouteStatusRespPayload(requestID uint32, redirects uint8, active string) []byte {
	if len(active) > MaxRouteBytes {
		active = active[:MaxRouteBytes]
	}
	b := make([]byte, 5, 5+len(active))
	binary.LittleEndian.PutUint32(b[0:4], requestID)
	b[4] = redirects
	return append(b, active...)
}

func DecodeRouteStatusRespPayload(b []byte) (requestID uint32, redirects uint8, active string, ok bool) {
	if len(b) < 5 || len(b) > 5+MaxRouteBytes {
		return 0, 0, "", false
	}
	return binary.LittleEndian.Uint32(b[0:4]), b[4], string(b[5:]), true
}
