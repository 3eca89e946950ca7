// Package peephole runs a small fixed-point local-optimization pass over
// allocated MIR: redundant register-to-itself moves are dropped, an
// immediate-load immediately stored is fused into a direct immediate
// store, and a store immediately reloaded from the same slot is replaced
// by a direct register move (eliding the memory round-trip entirely).
// Grounded on original_source/src/opt/mir/peephole_pass.cpp, with the
// store/load pattern resolved to actually eliminate the reload rather
// than merely detect it, matching the module's "eliminate" decision for
// store-forwarding (see DESIGN.md, Open Question decisions).
package peephole

import (
	"github.com/sirupsen/logrus"
	"tacc/src/mir"
)

// ---------------------
// ----- Functions -----
// ---------------------

// Run applies the pass to every block of every function in p.
func Run(p *mir.Program) {
	for _, f := range p.Functions {
		for _, b := range f.Blocks {
			before := len(b.Instructions)
			transformBlock(b)
			if removed := before - len(b.Instructions); removed > 0 {
				logrus.WithFields(logrus.Fields{
					"function": f.Name,
					"block":    b.Label(),
					"removed":  removed,
				}).Trace("peephole: instructions eliminated")
			}
		}
	}
}

// transformBlock repeats a full left-to-right scan until a scan makes no
// change, so a fusion created by one rule can expose another (e.g. a
// MOV_RR elision shifting a MOV_RI next to a STORE_MEM_REG). The original
// C++ pass does the same thing with a goto-driven restart; here a
// changed flag drives the outer loop instead.
func transformBlock(b *mir.Block) {
	for {
		changed := false
		i := 0
		for i < len(b.Instructions) {
			switch {
			case removeRedundantMovRR(b, i):
				changed = true
			case fuseMovRIStore(b, i):
				changed = true
			case eliminateStoreLoad(b, i):
				changed = true
			default:
				i++
			}
		}
		if !changed {
			return
		}
	}
}

// removeRedundantMovRR drops a MOV_RR whose source and destination are the
// same physical register, the shape register allocation leaves behind
// when two temporaries happen to land on the same color.
func removeRedundantMovRR(b *mir.Block, i int) bool {
	inst := b.Instructions[i]
	if inst.Opcode != mir.MOV_RR || len(inst.Ins) != 1 || len(inst.Outs) != 1 {
		return false
	}
	from, fromOK := inst.Ins[0].(mir.PhysicalRegister)
	to, toOK := inst.Outs[0].(mir.PhysicalRegister)
	if !fromOK || !toOK || from.Name != to.Name {
		return false
	}
	removeAt(b, i)
	return true
}

// fuseMovRIStore rewrites MOV_RI r, imm; STORE_MEM_REG [slot], r into a
// single STORE_MEM_IMM [slot], imm, when the two instructions agree on the
// intermediate register.
func fuseMovRIStore(b *mir.Block, i int) bool {
	if i+1 >= len(b.Instructions) {
		return false
	}
	cur, next := b.Instructions[i], b.Instructions[i+1]
	if cur.Opcode != mir.MOV_RI || next.Opcode != mir.STORE_MEM_REG {
		return false
	}
	if len(cur.Ins) == 0 || len(cur.Outs) == 0 || len(next.Ins) == 0 {
		return false
	}
	movReg, ok := cur.Outs[0].(mir.PhysicalRegister)
	if !ok {
		return false
	}
	storeReg, ok := next.Ins[0].(mir.PhysicalRegister)
	if !ok || movReg.Name != storeReg.Name {
		return false
	}
	next.Opcode = mir.STORE_MEM_IMM
	next.Ins = []mir.Operand{cur.Ins[0]}
	removeAt(b, i)
	return true
}

// eliminateStoreLoad rewrites STORE_MEM_REG [slot], r; LOAD_REG_MEM s,
// [slot] into STORE_MEM_REG [slot], r; MOV_RR s, r when both instructions
// address the same slot, forwarding the stored value directly instead of
// round-tripping through memory. When s and r are the same register the
// load is dropped outright.
func eliminateStoreLoad(b *mir.Block, i int) bool {
	if i+1 >= len(b.Instructions) {
		return false
	}
	cur, next := b.Instructions[i], b.Instructions[i+1]
	if cur.Opcode != mir.STORE_MEM_REG || next.Opcode != mir.LOAD_REG_MEM {
		return false
	}
	if len(cur.Outs) == 0 || len(cur.Ins) == 0 || len(next.Ins) == 0 || len(next.Outs) == 0 {
		return false
	}
	if !sameSlot(cur.Outs[0], next.Ins[0]) {
		return false
	}
	storedReg, ok := cur.Ins[0].(mir.PhysicalRegister)
	if !ok {
		return false
	}
	loadDst, ok := next.Outs[0].(mir.PhysicalRegister)
	if !ok {
		return false
	}
	if storedReg.Name == loadDst.Name {
		removeAt(b, i+1)
		return true
	}
	next.Opcode = mir.MOV_RR
	next.Ins = []mir.Operand{storedReg}
	return true
}

// sameSlot reports whether a and b name the same memory location, whether
// expressed as a StackSlot or a MemoryAccess.
func sameSlot(a, b mir.Operand) bool {
	if as, ok := a.(mir.StackSlot); ok {
		bs, ok := b.(mir.StackSlot)
		return ok && as.Base == bs.Base && as.Offset == bs.Offset
	}
	if am, ok := a.(mir.MemoryAccess); ok {
		bm, ok := b.(mir.MemoryAccess)
		return ok && am.Base == bm.Base && am.Offset == bm.Offset
	}
	return false
}

// removeAt deletes the instruction at index i from b.
func removeAt(b *mir.Block, i int) {
	b.Instructions = append(b.Instructions[:i], b.Instructions[i+1:]...)
}
