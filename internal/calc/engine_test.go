package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, e *Engine, toks ...string) {
	t.Helper()
	for _, tok := range toks {
		k, err := ParseKey(tok)
		require.NoError(t, err)
		e.Press(k)
	}
}

func TestNewEngineMountState(t *testing.T) {
	e := New()
	st := e.State()

	assert.Equal(t, "0", st.Display)
	assert.True(t, st.Overwrite)
	assert.False(t, st.HasPrevious)
	assert.False(t, st.HasLast)
	assert.Equal(t, OpNone, st.Pending)
	assert.Equal(t, "AC", e.ClearLabel())
}

func TestInputDigit(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"echo", []string{"1", "2", "3"}, "123"},
		{"leading zeros collapse", []string{"0", "0", "5"}, "5"},
		{"negative zero", []string{"0", "neg", "7"}, "-7"},
		{"cap", []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "1", "2", "3", "4", "5", "6"}, "12345678901234"},
		{"fraction", []string{"0", ".", "0", "5"}, "0.05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			press(t, e, tt.keys...)
			assert.Equal(t, tt.want, e.Display())
		})
	}
}

func TestInputDigitIgnoresOutOfRange(t *testing.T) {
	e := New()
	e.InputDigit(4)
	e.InputDigit(10)
	e.InputDigit(-1)
	assert.Equal(t, "4", e.Display())
}

func TestInputDot(t *testing.T) {
	e := New()
	e.InputDot()
	assert.Equal(t, "0.", e.Display())
	e.InputDot()
	assert.Equal(t, "0.", e.Display())

	press(t, e, "5", ".")
	assert.Equal(t, "0.5", e.Display())

	e = New()
	press(t, e, "1", "2", ".")
	assert.Equal(t, "12.", e.Display())
}

func TestToggleSign(t *testing.T) {
	e := New()
	e.ToggleSign()
	assert.Equal(t, "-0", e.Display())
	e.ToggleSign()
	assert.Equal(t, "0", e.Display())

	press(t, e, "4", "2", "neg")
	assert.Equal(t, "-42", e.Display())
	press(t, e, "neg")
	assert.Equal(t, "42", e.Display())
}

func TestApplyPercent(t *testing.T) {
	e := New()
	press(t, e, "5", "0", "%")
	assert.Equal(t, "0.5", e.Display())
	assert.True(t, e.State().Overwrite)

	e = New()
	press(t, e, "2", "0", "0", "+", "1", "0", "%")
	assert.Equal(t, "20", e.Display())
	press(t, e, "=")
	assert.Equal(t, "220", e.Display())
}

func TestEqualsScenarios(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"add", []string{"clear", "1", "+", "2", "="}, "3"},
		{"divide by zero", []string{"clear", "5", "/", "0", "="}, "NaN"},
		{"no operator", []string{"clear", "9", "=", "="}, "9"},
		{"chain evaluates eagerly", []string{"2", "+", "3", "*", "4", "="}, "20"},
		{"operator replaced", []string{"6", "+", "*", "2", "="}, "12"},
		{"float", []string{"0", ".", "1", "+", "0", ".", "2", "="}, "0.30000000000000004"},
		{"thirds", []string{"1", "/", "3", "="}, "0.3333333333333333"},
		{"subtract below zero", []string{"3", "-", "8", "="}, "-5"},
		{"nan propagates", []string{"5", "/", "0", "=", "+", "2", "="}, "NaN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			press(t, e, tt.keys...)
			assert.Equal(t, tt.want, e.Display())
		})
	}
}

func TestRepeatedEqualsReusesLastOperand(t *testing.T) {
	e := New()
	press(t, e, "clear", "6", "+", "3", "=")
	assert.Equal(t, "9", e.Display())
	press(t, e, "=")
	assert.Equal(t, "12", e.Display())
	press(t, e, "=")
	assert.Equal(t, "15", e.Display())
	assert.Equal(t, OpAdd, e.Pending())
}

func TestRepeatedEqualsWithoutSecondOperand(t *testing.T) {
	e := New()
	press(t, e, "6", "+", "=")
	assert.Equal(t, "12", e.Display())
	press(t, e, "=")
	assert.Equal(t, "24", e.Display())
}

func TestChooseOperatorClearsLastOperand(t *testing.T) {
	e := New()
	press(t, e, "6", "+", "3", "=")
	require.True(t, e.State().HasLast)
	press(t, e, "*")
	assert.False(t, e.State().HasLast)
	assert.Equal(t, 9.0, e.State().Previous)
}

func TestAwaitingOperand(t *testing.T) {
	e := New()
	assert.False(t, e.AwaitingOperand())

	press(t, e, "6", "+")
	assert.True(t, e.AwaitingOperand())
	press(t, e, "*")
	assert.True(t, e.AwaitingOperand(), "replacing the operator keeps waiting")
	press(t, e, "3")
	assert.False(t, e.AwaitingOperand())

	press(t, e, "+", "=")
	assert.False(t, e.AwaitingOperand(), "equals evaluates the operation")
	assert.Equal(t, OpAdd, e.Pending())
	assert.True(t, e.State().Overwrite)

	press(t, e, "-", ".")
	assert.False(t, e.AwaitingOperand())

	press(t, e, "clear", "clear", "clear")
	assert.False(t, e.AwaitingOperand())
}

func TestClearSoftThenFull(t *testing.T) {
	e := New()
	press(t, e, "5")
	assert.Equal(t, "C", e.ClearLabel())

	e.Clear()
	assert.Equal(t, "0", e.Display())
	assert.Equal(t, "AC", e.ClearLabel())

	e.Clear()
	assert.Equal(t, New().State(), e.State())
}

func TestClearKeepsPendingOperation(t *testing.T) {
	e := New()
	press(t, e, "5", "+", "3")
	e.Clear()

	assert.Equal(t, "0", e.Display())
	assert.Equal(t, OpAdd, e.Pending())
	assert.Equal(t, "C", e.ClearLabel())

	press(t, e, "2", "=")
	assert.Equal(t, "7", e.Display())
}

func TestClearRecoversFromNaN(t *testing.T) {
	e := New()
	press(t, e, "5", "/", "0", "=")
	require.Equal(t, "NaN", e.Display())

	e.Clear()
	assert.Equal(t, "0", e.Display())
	press(t, e, "8")
	assert.Equal(t, "8", e.Display())
}

func TestCompute(t *testing.T) {
	assert.Equal(t, 5.0, Compute(2, 3, OpAdd))
	assert.Equal(t, -1.0, Compute(2, 3, OpSubtract))
	assert.Equal(t, 6.0, Compute(2, 3, OpMultiply))
	assert.Equal(t, 2.5, Compute(5, 2, OpDivide))
	assert.True(t, math.IsNaN(Compute(5, 0, OpDivide)))
	assert.Equal(t, 3.0, Compute(2, 3, Operator(42)))
	assert.Equal(t, 3.0, Compute(2, 3, OpNone))
}

func TestParseKeyRoundTrip(t *testing.T) {
	for k := Key(0); int(k) < NumKeys; k++ {
		got, err := ParseKey(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKey("sqrt")
	assert.Error(t, err)
}
