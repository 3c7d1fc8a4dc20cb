// Package calc implements the calculator input state machine.
//
// An Engine holds what the user sees (the display text) plus the pending
// binary operation. Every operation is synchronous and total: malformed
// intermediate text is normalized, never rejected, and division by zero shows
// up as a "NaN" display that Clear recovers from.
//
// Choosing a second operator mid-expression evaluates eagerly, the way a
// pocket calculator does, and pressing equals again reapplies the last
// operand.
package calc

// MaxDisplayLen caps how many characters typed digits may grow the display to.
const MaxDisplayLen = 14

// Engine is the calculator state. The zero value is not ready; use New.
type Engine struct {
	display string

	previous    float64
	hasPrevious bool

	pending Operator

	overwrite bool

	last    float64
	hasLast bool

	// awaiting is set by ChooseOperator and cleared once the second operand
	// is typed or the operation is evaluated.
	awaiting bool
}

// State is a read-only snapshot of an Engine.
type State struct {
	Display     string
	Previous    float64
	HasPrevious bool
	Pending     Operator
	Overwrite   bool
	Last        float64
	HasLast     bool
}

// New returns an engine in its mount state.
func New() *Engine {
	e := &Engine{}
	e.reset()
	return e
}

func (e *Engine) reset() {
	*e = Engine{display: "0", overwrite: true}
}

// Display returns the text currently shown.
func (e *Engine) Display() string { return e.display }

// Pending returns the operator awaiting its second operand, or OpNone.
func (e *Engine) Pending() Operator { return e.pending }

// AwaitingOperand reports whether an operator was just chosen and nothing
// has been typed or evaluated since.
func (e *Engine) AwaitingOperand() bool { return e.awaiting }

// State returns a snapshot of all engine fields.
func (e *Engine) State() State {
	return State{
		Display:     e.display,
		Previous:    e.previous,
		HasPrevious: e.hasPrevious,
		Pending:     e.pending,
		Overwrite:   e.overwrite,
		Last:        e.last,
		HasLast:     e.hasLast,
	}
}

func (e *Engine) current() float64 { return SafeParse(e.display) }

// InputDigit types d (0..9). Other values are ignored.
func (e *Engine) InputDigit(d int) {
	if d < 0 || d > 9 {
		return
	}
	ch := string(rune('0' + d))
	e.awaiting = false

	if e.overwrite {
		e.display = ch
		e.overwrite = false
		return
	}

	switch e.display {
	case "0":
		e.display = ch
		return
	case "-0":
		e.display = "-" + ch
		return
	}
	if len(e.display) >= MaxDisplayLen {
		return
	}
	e.display += ch
}

// InputDot starts the fractional part.
func (e *Engine) InputDot() {
	e.awaiting = false
	if e.overwrite {
		e.display = "0."
		e.overwrite = false
		return
	}
	for i := 0; i < len(e.display); i++ {
		if e.display[i] == '.' {
			return
		}
	}
	e.display += "."
}

// ToggleSign flips the leading minus sign.
func (e *Engine) ToggleSign() {
	if len(e.display) > 0 && e.display[0] == '-' {
		e.display = e.display[1:]
		if e.display == "" {
			e.display = "0"
		}
		return
	}
	e.display = "-" + e.display
}

// ApplyPercent divides the display by 100, or takes that percentage of the
// previous operand while an operation is pending.
func (e *Engine) ApplyPercent() {
	cur := e.current()
	var result float64
	if e.pending != OpNone && e.hasPrevious {
		result = e.previous * cur / 100
	} else {
		result = cur / 100
	}
	e.display = FormatNumber(result)
	e.overwrite = true
	e.awaiting = false
}

// ChooseOperator selects the next binary operator, evaluating the pending one
// first when a second operand has been typed.
func (e *Engine) ChooseOperator(op Operator) {
	if e.pending != OpNone && e.hasPrevious && !e.overwrite {
		result := Compute(e.previous, e.current(), e.pending)
		e.display = FormatNumber(result)
		e.previous = result
	} else if !e.hasPrevious {
		e.previous = e.current()
		e.hasPrevious = true
	}
	e.pending = op
	e.overwrite = true
	e.awaiting = true
	e.hasLast = false
	e.last = 0
}

// Equals evaluates the pending operation. Without one it does nothing.
//
// The operator is kept so that pressing equals again repeats the operation
// with the same second operand.
func (e *Engine) Equals() {
	if e.pending == OpNone {
		return
	}

	var b float64
	if e.overwrite {
		if e.hasLast {
			b = e.last
		} else {
			b = e.current()
		}
	} else {
		b = e.current()
		e.last = b
		e.hasLast = true
	}

	a := e.current()
	if e.hasPrevious {
		a = e.previous
	}

	result := Compute(a, b, e.pending)
	e.display = FormatNumber(result)
	e.previous = result
	e.hasPrevious = true
	e.overwrite = true
	e.awaiting = false
}

// SoftClear reports whether Clear would only reset the display ("C") rather
// than the whole engine ("AC").
func (e *Engine) SoftClear() bool {
	zero := e.display == "0" || e.display == "-0"
	return !zero || e.pending != OpNone || e.hasPrevious
}

// ClearLabel is the caption for the clear control.
func (e *Engine) ClearLabel() string {
	if e.SoftClear() {
		return "C"
	}
	return "AC"
}

// Clear resets the display, or everything when there is nothing left to keep.
func (e *Engine) Clear() {
	if e.SoftClear() {
		e.display = "0"
		e.overwrite = true
		return
	}
	e.reset()
}
