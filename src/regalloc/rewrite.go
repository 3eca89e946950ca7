package regalloc

import (
	"tacc/src/liveness"
	"tacc/src/mir"
	"tacc/src/regmap"
)

// Rewrite substitutes every virtual- and physical-register operand in mf
// with the concrete PhysicalRegister Assignment colored it with, mutating
// mf in place. It must run after AllocateFunction and before peephole/emit
// (spec.md §4.7, "Mapping colors to registers" — colors only become
// assembler-ready register names once this runs).
func Rewrite(mf *mir.Function, r *liveness.Result, a *Assignment) {
	for _, b := range mf.Blocks {
		for _, inst := range b.Instructions {
			rewriteOperands(inst.Ins, r, a)
			rewriteOperands(inst.Outs, r, a)
			rewriteOperands(inst.ImplicitDefs, r, a)
			rewriteOperands(inst.ImplicitUses, r, a)
		}
	}
}

func rewriteOperands(ops []mir.Operand, r *liveness.Result, a *Assignment) {
	for i, op := range ops {
		if reg, ok := replacement(op, r, a); ok {
			ops[i] = reg
		}
	}
}

// replacement returns the PhysicalRegister op should become, and whether op
// is a register carrier at all (StackSlot/Immediate/MemoryAccess operands
// pass through Rewrite untouched).
func replacement(op mir.Operand, r *liveness.Result, a *Assignment) (mir.PhysicalRegister, bool) {
	var id regmap.ID
	switch o := op.(type) {
	case mir.VirtualRegister:
		id = r.Map.FromVirtual(o.Numeral)
	case mir.PhysicalRegister:
		id = r.Map.FromPhysical(o.Name)
	default:
		return mir.PhysicalRegister{}, false
	}
	reg, ok := a.Colors[id]
	if !ok {
		return mir.PhysicalRegister{}, false
	}
	return mir.PhysicalRegister{Name: reg.Name()}, true
}
