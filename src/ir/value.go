package ir

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Value is an IR operand: either a Temp (virtual register) or a Const
// (32-bit signed immediate). Grounded on original_source's
// Operand{std::variant<Var, uint32_t>}.
type Value interface {
	isValue()
	String() string
}

// Temp is a virtual register, identified by a dense, monotonically
// assigned numeral. Created by Function.NewTemp; identity is immutable and
// never destroyed before code emission (spec.md §3, "Temporary").
type Temp struct {
	numeral int
}

// Numeral returns the temp's identifying integer.
func (t Temp) Numeral() int { return t.numeral }

func (Temp) isValue() {}

func (t Temp) String() string {
	return fmt.Sprintf("var_%d", t.numeral)
}

// Const is a 32-bit signed immediate operand.
type Const struct {
	value int32
}

// NewConst wraps a 32-bit signed value as a Const operand.
func NewConst(v int32) Const { return Const{value: v} }

// Value returns the immediate's integer value.
func (c Const) Value() int32 { return c.value }

func (Const) isValue() {}

func (c Const) String() string {
	return fmt.Sprintf("i_%d", c.value)
}
