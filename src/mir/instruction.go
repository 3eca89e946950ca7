package mir

import "strings"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Instruction is one machine instruction: an opcode plus four operand
// lists (spec.md §3, "Machine instruction"). Invariants enforced by
// src/mirgen's lowering, not by this type: every operand written appears
// in Outs ∪ ImplicitDefs, every operand read appears in Ins ∪ ImplicitUses,
// and DIV_RR/MOD_RR list eax and edx in both implicit sets.
type Instruction struct {
	Opcode        Opcode
	Ins           []Operand
	Outs          []Operand
	ImplicitDefs  []Operand
	ImplicitUses  []Operand
	// Target names the label a jump/DEF_LABEL refers to or introduces.
	// Populated by src/mirgen; rendered by src/emit.
	Target string
}

// ---------------------
// ----- Functions -----
// ---------------------

// NewInstruction returns an Instruction with the given opcode and no
// operands yet attached; callers append via AddIn/AddOut/etc.
func NewInstruction(opcode Opcode) *Instruction {
	return &Instruction{Opcode: opcode}
}

func (i *Instruction) AddIn(op Operand) *Instruction {
	i.Ins = append(i.Ins, op)
	return i
}

func (i *Instruction) AddOut(op Operand) *Instruction {
	i.Outs = append(i.Outs, op)
	return i
}

func (i *Instruction) AddImplicitDef(op Operand) *Instruction {
	i.ImplicitDefs = append(i.ImplicitDefs, op)
	return i
}

func (i *Instruction) AddImplicitUse(op Operand) *Instruction {
	i.ImplicitUses = append(i.ImplicitUses, op)
	return i
}

// Defs returns every operand this instruction writes: Outs ∪ ImplicitDefs.
func (i *Instruction) Defs() []Operand {
	return append(append([]Operand{}, i.Outs...), i.ImplicitDefs...)
}

// Uses returns every operand this instruction reads: Ins ∪ ImplicitUses.
func (i *Instruction) Uses() []Operand {
	return append(append([]Operand{}, i.Ins...), i.ImplicitUses...)
}

func (i *Instruction) String() string {
	sb := strings.Builder{}
	sb.WriteString(i.Opcode.String())
	writeOperands := func(ops []Operand, prefix string) {
		if len(ops) == 0 {
			return
		}
		sb.WriteString(" ")
		sb.WriteString(prefix)
		sb.WriteString(":")
		for _, op := range ops {
			sb.WriteString(" ")
			sb.WriteString(op.String())
		}
	}
	writeOperands(i.Outs, "out")
	writeOperands(i.Ins, "in")
	writeOperands(i.ImplicitDefs, "impl_def")
	writeOperands(i.ImplicitUses, "impl_use")
	if i.Target != "" {
		sb.WriteString(" ")
		sb.WriteString(i.Target)
	}
	return sb.String()
}
