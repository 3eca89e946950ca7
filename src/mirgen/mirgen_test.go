package mirgen

import (
	"testing"

	"github.com/stretchr/testify/require"
	"tacc/src/ir"
	"tacc/src/mir"
)

func buildReturnConst(v int32) *ir.Module {
	m := ir.NewModule()
	f := m.NewFunction("main")
	f.Entry().CreateReturn(ir.NewConst(v))
	return m
}

func opcodes(instrs []*mir.Instruction) []mir.Opcode {
	var ops []mir.Opcode
	for _, i := range instrs {
		ops = append(ops, i.Opcode)
	}
	return ops
}

func TestLowerReturnConstant(t *testing.T) {
	prog, err := Generate(buildReturnConst(0))
	require.NoError(t, err)
	require.Len(t, prog.Functions, 1)

	b := prog.Functions[0].Entry
	require.Equal(t, []mir.Opcode{mir.DEF_LABEL, mir.MOV_RI, mir.RET}, opcodes(b.Instructions))

	mov := b.Instructions[1]
	require.Equal(t, mir.PhysicalRegister{Name: "eax"}, mov.Outs[0])
}

func TestLowerArithmeticChain(t *testing.T) {
	// int a = 7; int b = a - 2; return b + a;
	m := ir.NewModule()
	f := m.NewFunction("main")
	b := f.Entry()
	a := f.NewTemp()
	b.CreateStore(a, ir.NewConst(7))
	sub, _ := b.CreateBinary(ir.SUB, a, ir.NewConst(2))
	bResult, _ := sub.Result()
	add, _ := b.CreateBinary(ir.ADD, bResult, a)
	addResult, _ := add.Result()
	b.CreateReturn(addResult)

	prog, err := Generate(m)
	require.NoError(t, err)
	mb := prog.Functions[0].Entry
	require.Contains(t, opcodes(mb.Instructions), mir.SUB_RI)
	require.Contains(t, opcodes(mb.Instructions), mir.ADD_RR)
}

func TestLowerDivision(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunction("main")
	b := f.Entry()
	div, err := b.CreateBinary(ir.DIV, ir.NewConst(10), ir.NewConst(3))
	require.NoError(t, err)
	r, _ := div.Result()
	b.CreateReturn(r)

	prog, err := Generate(m)
	require.NoError(t, err)
	mb := prog.Functions[0].Entry

	var divInst *mir.Instruction
	for _, i := range mb.Instructions {
		if i.Opcode == mir.DIV_RR {
			divInst = i
		}
	}
	require.NotNil(t, divInst)
	require.Contains(t, divInst.ImplicitDefs, mir.PhysicalRegister{Name: "eax"})
	require.Contains(t, divInst.ImplicitDefs, mir.PhysicalRegister{Name: "edx"})
	require.Contains(t, divInst.ImplicitUses, mir.PhysicalRegister{Name: "eax"})
	require.Contains(t, divInst.ImplicitUses, mir.PhysicalRegister{Name: "edx"})
}

func TestLowerModuloResultFromEdx(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunction("main")
	b := f.Entry()
	mod, err := b.CreateBinary(ir.MOD, ir.NewConst(10), ir.NewConst(3))
	require.NoError(t, err)
	r, _ := mod.Result()
	b.CreateReturn(r)

	prog, err := Generate(m)
	require.NoError(t, err)
	mb := prog.Functions[0].Entry

	var finalMov *mir.Instruction
	for _, i := range mb.Instructions {
		if i.Opcode == mir.MOV_RR && i.Outs[0] == (mir.VirtualRegister{Numeral: r.Numeral()}) {
			finalMov = i
		}
	}
	require.NotNil(t, finalMov)
	require.Equal(t, mir.PhysicalRegister{Name: "edx"}, finalMov.Ins[0])
}

func TestLowerNegationAndConditional(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunction("main")
	entry := f.Entry()
	thn := f.NewBlock()
	els := f.NewBlock()

	x := f.NewTemp()
	entry.CreateStore(x, ir.NewConst(-5))
	_, err := entry.CreateConditional(ir.LT, x, ir.NewConst(0), thn, els)
	require.NoError(t, err)

	neg := thn.CreateNeg(x)
	r, _ := neg.Result()
	thn.CreateReturn(r)
	els.CreateReturn(x)

	prog, err := Generate(m)
	require.NoError(t, err)
	require.Len(t, prog.Functions[0].Blocks, 3)

	entryMIR := prog.Functions[0].Entry
	require.Contains(t, opcodes(entryMIR.Instructions), mir.CMP)
	require.Contains(t, opcodes(entryMIR.Instructions), mir.JL)
}

