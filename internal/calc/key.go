package calc

import "fmt"

// Key identifies one of the calculator's controls.
type Key uint8

const (
	Key0 Key = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyDot
	KeyAdd
	KeySubtract
	KeyMultiply
	KeyDivide
	KeyEquals
	KeyPercent
	KeySign
	KeyClear

	keyCount
)

// NumKeys is the number of distinct controls.
const NumKeys = int(keyCount)

var keyTokens = [keyCount]string{
	Key0:        "0",
	Key1:        "1",
	Key2:        "2",
	Key3:        "3",
	Key4:        "4",
	Key5:        "5",
	Key6:        "6",
	Key7:        "7",
	Key8:        "8",
	Key9:        "9",
	KeyDot:      ".",
	KeyAdd:      "+",
	KeySubtract: "-",
	KeyMultiply: "*",
	KeyDivide:   "/",
	KeyEquals:   "=",
	KeyPercent:  "%",
	KeySign:     "neg",
	KeyClear:    "clear",
}

// String returns the script token for k.
func (k Key) String() string {
	if k >= keyCount {
		return fmt.Sprintf("key(%d)", uint8(k))
	}
	return keyTokens[k]
}

// ParseKey is the inverse of Key.String.
func ParseKey(tok string) (Key, error) {
	for k := Key(0); k < keyCount; k++ {
		if keyTokens[k] == tok {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown key %q", tok)
}

// DigitKey returns the key for digit d.
func DigitKey(d int) (Key, bool) {
	if d < 0 || d > 9 {
		return 0, false
	}
	return Key0 + Key(d), true
}

// IsDigit reports whether k is one of Key0..Key9.
func (k Key) IsDigit() bool { return k <= Key9 }

// Operator returns the binary operator bound to k, or OpNone.
func (k Key) Operator() Operator {
	switch k {
	case KeyAdd:
		return OpAdd
	case KeySubtract:
		return OpSubtract
	case KeyMultiply:
		return OpMultiply
	case KeyDivide:
		return OpDivide
	default:
		return OpNone
	}
}

// Press applies the operation bound to k.
func (e *Engine) Press(k Key) {
	switch {
	case k.IsDigit():
		e.InputDigit(int(k - Key0))
	case k.Operator() != OpNone:
		e.ChooseOperator(k.Operator())
	}

	switch k {
	case KeyDot:
		e.InputDot()
	case KeyEquals:
		e.Equals()
	case KeyPercent:
		e.ApplyPercent()
	case KeySign:
		e.ToggleSign()
	case KeyClear:
		e.Clear()
	}
}
