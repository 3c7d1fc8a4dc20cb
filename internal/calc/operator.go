package calc

import "math"

// Operator is a binary operator awaiting its second operand.
type Operator uint8

const (
	OpNone Operator = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
)

func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "−"
	case OpMultiply:
		return "×"
	case OpDivide:
		return "÷"
	default:
		return ""
	}
}

// Compute applies op to a and b.
//
// Division by zero yields NaN. Any operator outside the four arithmetic ones
// returns b unchanged.
func Compute(a, b float64, op Operator) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSubtract:
		return a - b
	case OpMultiply:
		return a * b
	case OpDivide:
		if b == 0 {
			return math.NaN()
		}
		return a / b
	default:
		return b
	}
}
