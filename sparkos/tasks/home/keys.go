package home

import "unicode/utf8"

type keyKind uint8

const (
	keyNone keyKind = iota
	keyEsc
	keyEnter
	keyLeft
	keyRight
	keyUp
	keyDown
	keyRune
)

type key struct {
	kind keyKind
	r    rune
}

// nextKey decodes one key from a VT100 byte stream. It returns ok=false when
// b holds an incomplete sequence. Unrecognised CSI sequences are consumed
// whole and decode as keyNone.
func nextKey(b []byte) (consumed int, k key, ok bool) {
	if len(b) == 0 {
		return 0, key{}, false
	}

	switch b[0] {
	case 0x1b:
		if len(b) == 1 {
			return 1, key{kind: keyEsc}, true
		}
		if b[1] != '[' {
			return 1, key{kind: keyEsc}, true
		}
		for i := 2; i < len(b); i++ {
			c := b[i]
			if c < 0x40 || c > 0x7e {
				continue
			}
			n := i + 1
			if i != 2 {
				return n, key{}, true
			}
			switch c {
			case 'A':
				return n, key{kind: keyUp}, true
			case 'B':
				return n, key{kind: keyDown}, true
			case 'C':
				return n, key{kind: keyRight}, true
			case 'D':
				return n, key{kind: keyLeft}, true
			default:
				return n, key{}, true
			}
		}
		return 0, key{}, false

	case '\r', '\n':
		return 1, key{kind: keyEnter}, true
	}

	if !utf8.FullRune(b) {
		return 0, key{}, false
	}
	r, sz := utf8.DecodeRune(b)
	if r == utf8.RuneError && sz == 1 {
		return 1, key{}, true
	}
	if r < 0x20 || r == 0x7f {
		return sz, key{}, true
	}
	return sz, key{kind: keyRune, r: r}, true
}
