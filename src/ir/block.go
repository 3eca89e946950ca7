package ir

import (
	"fmt"
	"strings"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Block is a basic block: an ordered instruction list plus its (optional)
// true/false successors. Grounded on original_source's BasicBlock
// (ir/cfg.hpp); successor links are non-owning — the Function's block
// list owns every Block, so cycles in the successor graph never need
// shared ownership (spec.md §9, "CFG cycles").
type Block struct {
	f            *Function
	id           int
	instructions []*Instruction
	succTrue     *Block
	succFalse    *Block
}

// ---------------------
// ----- Functions -----
// ---------------------

// Id returns the block's unique identifier within its function.
func (b *Block) Id() int { return b.id }

// Instructions returns the block's instructions, in emission order.
func (b *Block) Instructions() []*Instruction { return b.instructions }

// SuccessorTrue returns the block's true (or unconditional) successor, and
// whether one is set.
func (b *Block) SuccessorTrue() (*Block, bool) { return b.succTrue, b.succTrue != nil }

// SuccessorFalse returns the block's false (fall-through) successor, and
// whether one is set.
func (b *Block) SuccessorFalse() (*Block, bool) { return b.succFalse, b.succFalse != nil }

// SetSuccessorTrue links the block's true/unconditional successor to dst.
func (b *Block) SetSuccessorTrue(dst *Block) { b.succTrue = dst }

// SetSuccessorFalse links the block's false (fall-through) successor to dst.
func (b *Block) SetSuccessorFalse(dst *Block) { b.succFalse = dst }

func (b *Block) append(inst *Instruction) *Instruction {
	b.instructions = append(b.instructions, inst)
	return inst
}

func (b *Block) String() string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("block%d:\n", b.id))
	for _, inst := range b.instructions {
		sb.WriteString("\t")
		sb.WriteString(inst.String())
		sb.WriteString("\n")
	}
	if b.succTrue != nil {
		sb.WriteString(fmt.Sprintf("\t-> block%d\n", b.succTrue.id))
	}
	if b.succFalse != nil {
		sb.WriteString(fmt.Sprintf("\t-> block%d (false)\n", b.succFalse.id))
	}
	return sb.String()
}

// ---------------------------------------
// ----- Arithmetic/unary instructions ----
// ---------------------------------------

// CreateBinary appends a two-operand arithmetic instruction (ADD, SUB, MUL,
// DIV, MOD) defining a fresh temp, and returns it.
func (b *Block) CreateBinary(op Opcode, a, c Value) (*Instruction, error) {
	switch op {
	case ADD, SUB, MUL, DIV, MOD:
	default:
		return nil, fmt.Errorf("ir: opcode %s is not a binary arithmetic opcode", op)
	}
	t := b.f.NewTemp()
	inst := &Instruction{opcode: op, operands: []Value{a, c}, result: &t}
	return b.append(inst), nil
}

// CreateNeg appends a NEG instruction defining a fresh temp.
func (b *Block) CreateNeg(a Value) *Instruction {
	t := b.f.NewTemp()
	inst := &Instruction{opcode: NEG, operands: []Value{a}, result: &t}
	return b.append(inst)
}

// CreateStore appends a STORE instruction writing src into dst.
func (b *Block) CreateStore(dst Temp, src Value) *Instruction {
	inst := &Instruction{opcode: STORE, operands: []Value{src}, result: &dst}
	return b.append(inst)
}

// CreateReturn appends a RET instruction returning a, terminating the
// block. The caller is not required to set any successor on a block ending
// in RET.
func (b *Block) CreateReturn(a Value) *Instruction {
	inst := &Instruction{opcode: RET, operands: []Value{a}}
	return b.append(inst)
}

// CreateJump appends an unconditional JMP instruction and links the
// block's true successor to dst, terminating the block.
func (b *Block) CreateJump(dst *Block) *Instruction {
	inst := &Instruction{opcode: JMP}
	b.SetSuccessorTrue(dst)
	return b.append(inst)
}

// CreateConditional appends a relational instruction (LT, LE, GT, GE, EQ,
// NE) comparing a and c, and links thn/els as the block's true/false
// successors, terminating the block. Grounded on original_source's full
// relational opcode enum (ADD..NE in ir.hpp), which spec.md's lowering
// table represents only via the LT case.
func (b *Block) CreateConditional(op Opcode, a, c Value, thn, els *Block) (*Instruction, error) {
	if !op.relational() {
		return nil, fmt.Errorf("ir: opcode %s is not a relational opcode", op)
	}
	inst := &Instruction{opcode: op, operands: []Value{a, c}}
	b.SetSuccessorTrue(thn)
	b.SetSuccessorFalse(els)
	return b.append(inst), nil
}
