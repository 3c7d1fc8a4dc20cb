package calculator

import (
	"golang.org/x/text/width"

	"sparkcalc/internal/calc"
)

// KeyForRune maps typed text to a calculator control.
//
// Full-width forms (as produced by East Asian input methods) are folded to
// ASCII first. Enter ('\n' or '\r') is equals; Escape is handled by the caller
// because it is not a rune in the terminal stream.
func KeyForRune(r rune) (calc.Key, bool) {
	if n := width.LookupRune(r).Narrow(); n != 0 {
		r = n
	}
	switch {
	case r >= '0' && r <= '9':
		return calc.DigitKey(int(r - '0'))
	}
	switch r {
	case '.', ',':
		return calc.KeyDot, true
	case '+':
		return calc.KeyAdd, true
	case '-', '−':
		return calc.KeySubtract, true
	case '*', 'x', 'X', '×':
		return calc.KeyMultiply, true
	case '/', '÷':
		return calc.KeyDivide, true
	case '=', '\n', '\r':
		return calc.KeyEquals, true
	case '%':
		return calc.KeyPercent, true
	}
	return 0, false
}
