package hal

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

var namedKeys = map[string]KeyCode{
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"enter":     KeyEnter,
	"esc":       KeyEscape,
	"escape":    KeyEscape,
	"backspace": KeyBackspace,
	"tab":       KeyTab,
	"delete":    KeyDelete,
	"home":      KeyHome,
	"end":       KeyEnd,
}

// ParseKeyScript turns a whitespace separated script into key presses.
//
// Key names wrapped in angle brackets ("<enter>", "<esc>", "<space>", "<up>")
// may stand alone or sit inside other text; everything else is typed rune by
// rune, so "12+3<enter>" and "1 2 + 3 <enter>" are equivalent. A '<' that does
// not open a bracketed alphanumeric name is typed literally. Named keys are
// followed by a release.
func ParseKeyScript(script string) ([]KeyEvent, error) {
	if !utf8.ValidString(script) {
		return nil, fmt.Errorf("key script: invalid UTF-8")
	}
	var out []KeyEvent
	for _, field := range strings.Fields(script) {
		for len(field) > 0 {
			if name, rest, ok := cutKeyName(field); ok {
				ev, err := namedKey(name)
				if err != nil {
					return nil, err
				}
				out = append(out, ev...)
				field = rest
				continue
			}
			r, size := utf8.DecodeRuneInString(field)
			out = append(out, KeyEvent{Press: true, Rune: r})
			field = field[size:]
		}
	}
	return out, nil
}

// cutKeyName reports whether s starts with "<name>" and returns the name and
// the text after the closing bracket.
func cutKeyName(s string) (name, rest string, ok bool) {
	if !strings.HasPrefix(s, "<") {
		return "", s, false
	}
	end := strings.IndexByte(s, '>')
	if end < 2 {
		return "", s, false
	}
	name = s[1:end]
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", s, false
		}
	}
	return strings.ToLower(name), s[end+1:], true
}

func namedKey(name string) ([]KeyEvent, error) {
	if name == "space" {
		return []KeyEvent{{Press: true, Rune: ' '}}, nil
	}
	code, ok := namedKeys[name]
	if !ok {
		return nil, fmt.Errorf("key script: unknown key <%s>", name)
	}
	return []KeyEvent{{Code: code, Press: true}, {Code: code}}, nil
}
