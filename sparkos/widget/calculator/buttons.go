package calculator

import "sparkcalc/internal/calc"

const (
	gridCols = 4
	gridRows = 5
)

type class uint8

const (
	classFunction class = iota
	classDigit
	classOperator
)

type buttonSpec struct {
	key      calc.Key
	row, col int
	span     int
	class    class
}

// layout is the iOS-style keypad, in focus order.
var layout = [calc.NumKeys]buttonSpec{
	{key: calc.KeyClear, row: 0, col: 0, span: 1, class: classFunction},
	{key: calc.KeySign, row: 0, col: 1, span: 1, class: classFunction},
	{key: calc.KeyPercent, row: 0, col: 2, span: 1, class: classFunction},
	{key: calc.KeyDivide, row: 0, col: 3, span: 1, class: classOperator},

	{key: calc.Key7, row: 1, col: 0, span: 1, class: classDigit},
	{key: calc.Key8, row: 1, col: 1, span: 1, class: classDigit},
	{key: calc.Key9, row: 1, col: 2, span: 1, class: classDigit},
	{key: calc.KeyMultiply, row: 1, col: 3, span: 1, class: classOperator},

	{key: calc.Key4, row: 2, col: 0, span: 1, class: classDigit},
	{key: calc.Key5, row: 2, col: 1, span: 1, class: classDigit},
	{key: calc.Key6, row: 2, col: 2, span: 1, class: classDigit},
	{key: calc.KeySubtract, row: 2, col: 3, span: 1, class: classOperator},

	{key: calc.Key1, row: 3, col: 0, span: 1, class: classDigit},
	{key: calc.Key2, row: 3, col: 1, span: 1, class: classDigit},
	{key: calc.Key3, row: 3, col: 2, span: 1, class: classDigit},
	{key: calc.KeyAdd, row: 3, col: 3, span: 1, class: classOperator},

	{key: calc.Key0, row: 4, col: 0, span: 2, class: classDigit},
	{key: calc.KeyDot, row: 4, col: 2, span: 1, class: classDigit},
	{key: calc.KeyEquals, row: 4, col: 3, span: 1, class: classOperator},
}

// cells maps each grid cell to its index in layout.
var cells = func() (g [gridRows][gridCols]int) {
	for i, b := range layout {
		for c := b.col; c < b.col+b.span; c++ {
			g[b.row][c] = i
		}
	}
	return g
}()

func indexOf(k calc.Key) int {
	for i, b := range layout {
		if b.key == k {
			return i
		}
	}
	return -1
}
