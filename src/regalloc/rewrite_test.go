package regalloc

import (
	"testing"

	"github.com/stretchr/testify/require"
	"tacc/src/interference"
	"tacc/src/ir"
	"tacc/src/liveness"
	"tacc/src/mir"
	"tacc/src/mirgen"
	"tacc/src/regfile"
)

func TestRewriteReplacesVirtualRegistersWithColors(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunction("main")
	b := f.Entry()
	div, err := b.CreateBinary(ir.DIV, ir.NewConst(10), ir.NewConst(3))
	require.NoError(t, err)
	res, _ := div.Result()
	b.CreateReturn(res)

	prog, err := mirgen.Generate(m)
	require.NoError(t, err)
	mf := prog.Functions[0]

	r := liveness.Analyze(mf)
	g := interference.Build(r)
	rf := regfile.X86_64()
	a, err := AllocateFunction(r, g, rf)
	require.NoError(t, err)

	Rewrite(mf, r, a)

	for _, blk := range mf.Blocks {
		for _, inst := range blk.Instructions {
			for _, op := range inst.Ins {
				_, isVirtual := op.(mir.VirtualRegister)
				require.False(t, isVirtual, "found unrewritten virtual register in %s", inst)
			}
			for _, op := range inst.Outs {
				_, isVirtual := op.(mir.VirtualRegister)
				require.False(t, isVirtual, "found unrewritten virtual register in %s", inst)
			}
		}
	}
}
