package calc

import (
	"math"
	"strconv"
	"strings"
)

// SafeParse converts display text to a number.
//
// "", "-" and "." read as zero, as does anything that fails to parse or is not finite.
func SafeParse(s string) float64 {
	switch s {
	case "", "-", ".", "-.":
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatNumber renders v the way a browser stringifies a number.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		return formatExponent(v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatExponent turns Go's "1.5e-07" into "1.5e-7".
func formatExponent(v float64) string {
	s := strconv.FormatFloat(v, 'e', -1, 64)
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 > len(s) {
		return s
	}
	mant, sign, exp := s[:i], s[i+1], strings.TrimLeft(s[i+2:], "0")
	if exp == "" {
		exp = "0"
	}
	return mant + "e" + string(sign) + exp
}
