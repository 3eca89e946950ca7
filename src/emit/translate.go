package emit

import (
	"strconv"

	"github.com/pkg/errors"
	"tacc/src/mir"
	"tacc/src/util"
)

// translateInstruction writes one MIR instruction's assembly translation
// into w, per spec.md §4.9's opcode-to-mnemonic mapping.
func translateInstruction(w *util.Writer, inst *mir.Instruction) error {
	switch inst.Opcode {
	case mir.DEF_LABEL:
		w.Label(inst.Target)
		return nil
	case mir.MOV_RR, mir.MOV_RI, mir.LOAD_REG_MEM, mir.STORE_MEM_REG, mir.STORE_MEM_IMM:
		return emitMov(w, inst)
	case mir.ADD_RR, mir.ADD_RI:
		return emitArith(w, "add", inst)
	case mir.SUB_RR, mir.SUB_RI:
		return emitArith(w, "sub", inst)
	case mir.MUL_RR:
		return emitArith(w, "imul", inst)
	case mir.MUL_RI:
		return emitMulImm(w, inst)
	case mir.DIV_RR:
		return emitDiv(w, inst)
	case mir.NEG_R:
		return emitNeg(w, inst)
	case mir.CMP:
		return emitCmp(w, inst)
	case mir.JMP:
		w.Ins1("jmp", inst.Target)
		return nil
	case mir.JL:
		w.Ins1("jl", inst.Target)
		return nil
	case mir.JLE:
		w.Ins1("jle", inst.Target)
		return nil
	case mir.JG:
		w.Ins1("jg", inst.Target)
		return nil
	case mir.JGE:
		w.Ins1("jge", inst.Target)
		return nil
	case mir.JE:
		w.Ins1("je", inst.Target)
		return nil
	case mir.JNE:
		w.Ins1("jne", inst.Target)
		return nil
	case mir.RET:
		w.Ins0("ret")
		return nil
	default:
		return errors.Errorf("emit: unsupported MIR opcode %s", inst.Opcode)
	}
}

// emitMov renders dst, src where dst is the instruction's sole output and
// src its sole input: covers MOV_RR, MOV_RI, LOAD_REG_MEM and both STORE
// variants, since all five share the "one dst, one src" operand shape.
func emitMov(w *util.Writer, inst *mir.Instruction) error {
	dst, err := operandAt(inst.Outs, 0, inst)
	if err != nil {
		return err
	}
	src, err := operandAt(inst.Ins, 0, inst)
	if err != nil {
		return err
	}
	w.Ins2("mov", dst, src)
	return nil
}

// emitArith renders dst, rhs for ADD/SUB/MUL: mirgen always lowers these
// with Ins = [dst, rhs] and Outs = [dst], so the second input carries the
// operand not already named by the destination.
func emitArith(w *util.Writer, mnemonic string, inst *mir.Instruction) error {
	dst, err := operandAt(inst.Outs, 0, inst)
	if err != nil {
		return err
	}
	rhs, err := operandAt(inst.Ins, 1, inst)
	if err != nil {
		return err
	}
	w.Ins2(mnemonic, dst, rhs)
	return nil
}

// emitMulImm renders imul dst, dst, imm: x86 has no 2-operand
// register-immediate imul form, only the 1-operand (implicit edx:eax) and
// 3-operand (dst, src, imm) forms, so MUL_RI needs the 3-operand form with
// dst repeated as its own source.
func emitMulImm(w *util.Writer, inst *mir.Instruction) error {
	dst, err := operandAt(inst.Outs, 0, inst)
	if err != nil {
		return err
	}
	imm, err := operandAt(inst.Ins, 1, inst)
	if err != nil {
		return err
	}
	w.Ins3("imul", dst, dst, imm)
	return nil
}

// emitDiv renders idiv divisor: DIV_RR carries only the divisor as an
// explicit input, with eax/edx clobbered implicitly (spec.md §4.4).
func emitDiv(w *util.Writer, inst *mir.Instruction) error {
	divisor, err := operandAt(inst.Ins, 0, inst)
	if err != nil {
		return err
	}
	w.Ins1("idiv", divisor)
	return nil
}

// emitNeg renders neg r: NEG_R reads and writes the same register.
func emitNeg(w *util.Writer, inst *mir.Instruction) error {
	r, err := operandAt(inst.Ins, 0, inst)
	if err != nil {
		return err
	}
	w.Ins1("neg", r)
	return nil
}

// emitCmp renders cmp a, b ahead of a conditional jump.
func emitCmp(w *util.Writer, inst *mir.Instruction) error {
	a, err := operandAt(inst.Ins, 0, inst)
	if err != nil {
		return err
	}
	b, err := operandAt(inst.Ins, 1, inst)
	if err != nil {
		return err
	}
	w.Ins2("cmp", a, b)
	return nil
}

func operandAt(ops []mir.Operand, i int, inst *mir.Instruction) (string, error) {
	if i >= len(ops) {
		return "", errors.Errorf("emit: instruction %s missing operand %d", inst, i)
	}
	return operandAsm(ops[i])
}

// operandAsm renders one operand in Intel syntax. VirtualRegister reaching
// this point means register allocation (or its rewrite step) never ran.
func operandAsm(op mir.Operand) (string, error) {
	switch o := op.(type) {
	case mir.PhysicalRegister:
		return o.Name, nil
	case mir.Immediate:
		return strconv.FormatInt(int64(o.Value), 10), nil
	case mir.StackSlot:
		return memOperand(o.Base, o.Offset), nil
	case mir.MemoryAccess:
		return memOperand(o.Base, o.Offset), nil
	case mir.VirtualRegister:
		return "", errors.Errorf("emit: unallocated virtual register vreg%d reached emission", o.Numeral)
	default:
		return "", errors.Errorf("emit: unsupported operand kind %T", op)
	}
}

func memOperand(base string, offset int) string {
	if offset < 0 {
		return "[" + base + "-" + strconv.Itoa(-offset) + "]"
	}
	return "[" + base + "+" + strconv.Itoa(offset) + "]"
}
