// Package mirgen lowers src/ir into src/mir: it linearizes each function's
// basic blocks by depth-first traversal (false successor first, so
// conditional fall-through aligns with the common case) and translates
// each IR opcode into its canonical MIR instruction sequence. Grounded on
// original_source/src/mir/mir_generator.cpp, cross-checked against
// spec.md §4.4's lowering table.
package mirgen

import (
	"fmt"

	"github.com/pkg/errors"
	"tacc/src/ir"
	"tacc/src/mir"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Generator lowers one IR module into a MIR program, assigning each
// function and block a MIR counterpart.
type Generator struct {
	blockOf map[*ir.Block]*mir.Block
}

// ---------------------
// ----- Functions -----
// ---------------------

// Generate lowers every function in m into a mir.Program.
func Generate(m *ir.Module) (*mir.Program, error) {
	prog := mir.NewProgram()
	for _, f := range m.Functions() {
		g := &Generator{blockOf: make(map[*ir.Block]*mir.Block)}
		mf, err := g.generateFunction(f)
		if err != nil {
			return nil, errors.Wrapf(err, "mirgen: function %q", f.Name())
		}
		prog.AddFunction(mf)
	}
	return prog, nil
}

// generateFunction linearizes f's CFG and lowers each block in turn.
func (g *Generator) generateFunction(f *ir.Function) (*mir.Function, error) {
	mf := mir.NewFunction(f.Id(), f.Name())

	order := linearize(f.Entry())
	for _, b := range order {
		mb := mir.NewBlock(b.Id())
		g.blockOf[b] = mb
	}
	for _, b := range order {
		mb := g.blockOf[b]
		mf.AddBlock(mb)
		if succ, ok := b.SuccessorTrue(); ok {
			if msucc, ok := g.blockOf[succ]; ok {
				mb.AddSuccessor(msucc)
			}
		}
		if succ, ok := b.SuccessorFalse(); ok {
			if msucc, ok := g.blockOf[succ]; ok {
				mb.AddSuccessor(msucc)
			}
		}
		if err := g.generateBlock(mb, b); err != nil {
			return nil, err
		}
	}
	return mf, nil
}

// blockStack is an explicit LIFO worklist of *ir.Block, used by linearize
// in place of recursion since CFG successor links may cycle (spec.md §9,
// "CFG cycles"). A slice is all the single call site needs: mirgen never
// shares a stack across goroutines and never pushes anything but blocks.
type blockStack []*ir.Block

func (s *blockStack) push(b *ir.Block) {
	*s = append(*s, b)
}

func (s *blockStack) pop() *ir.Block {
	n := len(*s)
	b := (*s)[n-1]
	*s = (*s)[:n-1]
	return b
}

// linearize depth-first traverses blocks reachable from entry, visiting
// the false successor before the true successor so fall-through matches
// the common case (spec.md §4.4).
func linearize(entry *ir.Block) []*ir.Block {
	var order []*ir.Block
	visited := make(map[*ir.Block]bool)

	var s blockStack
	s.push(entry)
	for len(s) > 0 {
		b := s.pop()
		if visited[b] {
			continue
		}
		visited[b] = true
		order = append(order, b)

		// Push true before false so false is popped (and hence visited)
		// first.
		if succ, ok := b.SuccessorTrue(); ok && !visited[succ] {
			s.push(succ)
		}
		if succ, ok := b.SuccessorFalse(); ok && !visited[succ] {
			s.push(succ)
		}
	}
	return order
}

// generateBlock lowers one IR block's instructions into mb, after
// emitting its DEF_LABEL pseudo-instruction.
func (g *Generator) generateBlock(mb *mir.Block, b *ir.Block) error {
	label := mir.NewInstruction(mir.DEF_LABEL)
	label.Target = mb.Label()
	mb.Append(label)

	for _, inst := range b.Instructions() {
		if err := g.lower(mb, inst); err != nil {
			return err
		}
	}
	return nil
}

// lower appends the canonical MIR sequence for one IR instruction
// (spec.md §4.4's table) to mb.
func (g *Generator) lower(mb *mir.Block, inst *ir.Instruction) error {
	switch inst.Opcode() {
	case ir.STORE:
		return g.lowerStore(mb, inst)
	case ir.ADD:
		return g.lowerCommutative(mb, inst, mir.ADD_RR, mir.ADD_RI)
	case ir.SUB:
		return g.lowerSub(mb, inst)
	case ir.MUL:
		return g.lowerCommutative(mb, inst, mir.MUL_RR, mir.MUL_RI)
	case ir.DIV:
		return g.lowerDivMod(mb, inst, true)
	case ir.MOD:
		return g.lowerDivMod(mb, inst, false)
	case ir.NEG:
		return g.lowerNeg(mb, inst)
	case ir.RET:
		return g.lowerReturn(mb, inst)
	case ir.JMP:
		return g.lowerJump(mb, inst)
	case ir.LT, ir.LE, ir.GT, ir.GE, ir.EQ, ir.NE:
		return g.lowerConditional(mb, inst)
	default:
		return errors.Errorf("mirgen: unsupported IR opcode %s", inst.Opcode())
	}
}

// toOperand converts an IR value to its MIR operand counterpart.
func toOperand(v ir.Value) mir.Operand {
	switch o := v.(type) {
	case ir.Temp:
		return mir.VirtualRegister{Numeral: o.Numeral()}
	case ir.Const:
		return mir.Immediate{Value: o.Value()}
	default:
		panic(fmt.Sprintf("mirgen: unhandled ir.Value carrier %T", v))
	}
}

func isRegister(op mir.Operand) bool {
	return op.Kind() == mir.VirtualRegisterKind || op.Kind() == mir.PhysicalRegisterKind
}

func physical(name string) mir.Operand {
	return mir.PhysicalRegister{Name: name}
}

func mov(src, dst mir.Operand) *mir.Instruction {
	op := mir.MOV_RI
	if isRegister(src) {
		op = mir.MOV_RR
	}
	return mir.NewInstruction(op).AddIn(src).AddOut(dst)
}

func result(inst *ir.Instruction) (mir.Operand, error) {
	r, ok := inst.Result()
	if !ok {
		return nil, errors.Errorf("mirgen: instruction %s defines no result", inst)
	}
	return mir.VirtualRegister{Numeral: r.Numeral()}, nil
}

// lowerStore lowers STORE v, src into a single MOV into v's register.
func (g *Generator) lowerStore(mb *mir.Block, inst *ir.Instruction) error {
	target, err := result(inst)
	if err != nil {
		return err
	}
	src := toOperand(inst.Operands()[0])
	mb.Append(mov(src, target))
	return nil
}

// lowerCommutative lowers ADD/MUL: MOV a→r, then op_RR/op_RI r, b,
// preferring the register operand as the MOV source when exactly one
// side is an immediate (spec.md §4.4: "immediate may be on either side
// via commutativity").
func (g *Generator) lowerCommutative(mb *mir.Block, inst *ir.Instruction, rr, ri mir.Opcode) error {
	target, err := result(inst)
	if err != nil {
		return err
	}
	lhs := toOperand(inst.Operands()[0])
	rhs := toOperand(inst.Operands()[1])

	switch {
	case isRegister(lhs) && !isRegister(rhs):
		mb.Append(mov(lhs, target))
		mb.Append(mir.NewInstruction(ri).AddIn(target).AddIn(rhs).AddOut(target))
	case !isRegister(lhs) && isRegister(rhs):
		mb.Append(mov(rhs, target))
		mb.Append(mir.NewInstruction(ri).AddIn(target).AddIn(lhs).AddOut(target))
	case isRegister(lhs) && isRegister(rhs):
		mb.Append(mov(lhs, target))
		mb.Append(mir.NewInstruction(rr).AddIn(target).AddIn(rhs).AddOut(target))
	default:
		mb.Append(mov(lhs, target))
		mb.Append(mir.NewInstruction(ri).AddIn(target).AddIn(rhs).AddOut(target))
	}
	return nil
}

// lowerSub lowers SUB: non-commutative, operand order preserved
// (spec.md §4.4).
func (g *Generator) lowerSub(mb *mir.Block, inst *ir.Instruction) error {
	target, err := result(inst)
	if err != nil {
		return err
	}
	lhs := toOperand(inst.Operands()[0])
	rhs := toOperand(inst.Operands()[1])

	mb.Append(mov(lhs, target))
	op := mir.SUB_RR
	if !isRegister(rhs) {
		op = mir.SUB_RI
	}
	mb.Append(mir.NewInstruction(op).AddIn(target).AddIn(rhs).AddOut(target))
	return nil
}

// lowerDivMod lowers DIV/MOD per spec.md §4.4: MOV a→eax; MOV b→target
// (if b is an immediate); DIV_RR target, with eax,edx implicit-def and
// eax,edx implicit-use; then MOV from eax (DIV) or edx (MOD) into the
// result register.
func (g *Generator) lowerDivMod(mb *mir.Block, inst *ir.Instruction, isDiv bool) error {
	target, err := result(inst)
	if err != nil {
		return err
	}
	lhs := toOperand(inst.Operands()[0])
	rhs := toOperand(inst.Operands()[1])
	eax := physical("eax")
	edx := physical("edx")

	mb.Append(mov(lhs, eax))

	divisor := rhs
	if !isRegister(rhs) {
		mb.Append(mov(rhs, target))
		divisor = target
	}

	div := mir.NewInstruction(mir.DIV_RR).
		AddIn(divisor).
		AddImplicitDef(eax).
		AddImplicitDef(edx).
		AddImplicitUse(eax).
		AddImplicitUse(edx)
	mb.Append(div)

	if isDiv {
		mb.Append(mov(eax, target))
	} else {
		mb.Append(mov(edx, target))
	}
	return nil
}

// lowerNeg lowers NEG: MOV a→r, NEG_R r.
func (g *Generator) lowerNeg(mb *mir.Block, inst *ir.Instruction) error {
	target, err := result(inst)
	if err != nil {
		return err
	}
	src := toOperand(inst.Operands()[0])
	mb.Append(mov(src, target))
	mb.Append(mir.NewInstruction(mir.NEG_R).AddIn(target).AddOut(target))
	return nil
}

// lowerReturn lowers RET a: MOV a→eax, RET. RET carries an implicit use of
// eax so liveness reflects the integer calling convention: eax is live
// out of the function's exit regardless of how many instructions precede
// it (spec.md §8, "Liveness correctness").
func (g *Generator) lowerReturn(mb *mir.Block, inst *ir.Instruction) error {
	src := toOperand(inst.Operands()[0])
	eax := physical("eax")
	mb.Append(mov(src, eax))
	mb.Append(mir.NewInstruction(mir.RET).AddImplicitUse(eax))
	return nil
}

// lowerJump lowers an unconditional JMP to its true successor's label.
func (g *Generator) lowerJump(mb *mir.Block, inst *ir.Instruction) error {
	succs := mb.Successors()
	if len(succs) == 0 {
		return errors.New("mirgen: JMP block has no successor")
	}
	j := mir.NewInstruction(mir.JMP)
	j.Target = succs[0].Label()
	mb.Append(j)
	return nil
}

// relJump maps an IR relational opcode to its MIR conditional-jump
// mnemonic.
func relJump(op ir.Opcode) (mir.Opcode, error) {
	switch op {
	case ir.LT:
		return mir.JL, nil
	case ir.LE:
		return mir.JLE, nil
	case ir.GT:
		return mir.JG, nil
	case ir.GE:
		return mir.JGE, nil
	case ir.EQ:
		return mir.JE, nil
	case ir.NE:
		return mir.JNE, nil
	default:
		return 0, errors.Errorf("mirgen: %s is not a relational opcode", op)
	}
}

// lowerConditional lowers a relational opcode: CMP a,b; J<cc> to the true
// successor's label; the false successor is fall-through (spec.md §4.4).
func (g *Generator) lowerConditional(mb *mir.Block, inst *ir.Instruction) error {
	jcc, err := relJump(inst.Opcode())
	if err != nil {
		return err
	}
	a := toOperand(inst.Operands()[0])
	b := toOperand(inst.Operands()[1])
	mb.Append(mir.NewInstruction(mir.CMP).AddIn(a).AddIn(b))

	succs := mb.Successors()
	if len(succs) == 0 {
		return errors.New("mirgen: conditional block has no true successor")
	}
	j := mir.NewInstruction(jcc)
	j.Target = succs[0].Label()
	mb.Append(j)
	return nil
}
