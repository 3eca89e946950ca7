package peephole

import (
	"testing"

	"github.com/stretchr/testify/require"
	"tacc/src/mir"
)

func program(b *mir.Block) *mir.Program {
	f := mir.NewFunction(0, "main")
	f.AddBlock(b)
	p := mir.NewProgram()
	p.AddFunction(f)
	return p
}

func TestRemovesRedundantSelfMove(t *testing.T) {
	b := mir.NewBlock(0)
	b.Append(mir.NewInstruction(mir.MOV_RR).
		AddIn(mir.PhysicalRegister{Name: "eax"}).
		AddOut(mir.PhysicalRegister{Name: "eax"}))
	b.Append(mir.NewInstruction(mir.RET).AddImplicitUse(mir.PhysicalRegister{Name: "eax"}))

	Run(program(b))

	require.Len(t, b.Instructions, 1)
	require.Equal(t, mir.RET, b.Instructions[0].Opcode)
}

func TestKeepsDistinctRegisterMove(t *testing.T) {
	b := mir.NewBlock(0)
	b.Append(mir.NewInstruction(mir.MOV_RR).
		AddIn(mir.PhysicalRegister{Name: "eax"}).
		AddOut(mir.PhysicalRegister{Name: "ebx"}))

	Run(program(b))

	require.Len(t, b.Instructions, 1)
}

func TestFusesMovRIIntoStoreImmediate(t *testing.T) {
	b := mir.NewBlock(0)
	slot := mir.StackSlot{Base: "rbp", Offset: -4}
	b.Append(mir.NewInstruction(mir.MOV_RI).
		AddIn(mir.Immediate{Value: 7}).
		AddOut(mir.PhysicalRegister{Name: "eax"}))
	b.Append(mir.NewInstruction(mir.STORE_MEM_REG).
		AddIn(mir.PhysicalRegister{Name: "eax"}).
		AddOut(slot))

	Run(program(b))

	require.Len(t, b.Instructions, 1)
	require.Equal(t, mir.STORE_MEM_IMM, b.Instructions[0].Opcode)
	require.Equal(t, mir.Immediate{Value: 7}, b.Instructions[0].Ins[0])
}

func TestEliminatesStoreThenLoadViaForwarding(t *testing.T) {
	b := mir.NewBlock(0)
	slot := mir.StackSlot{Base: "rbp", Offset: -8}
	b.Append(mir.NewInstruction(mir.STORE_MEM_REG).
		AddIn(mir.PhysicalRegister{Name: "eax"}).
		AddOut(slot))
	b.Append(mir.NewInstruction(mir.LOAD_REG_MEM).
		AddIn(slot).
		AddOut(mir.PhysicalRegister{Name: "ebx"}))

	Run(program(b))

	require.Len(t, b.Instructions, 2)
	require.Equal(t, mir.STORE_MEM_REG, b.Instructions[0].Opcode)
	require.Equal(t, mir.MOV_RR, b.Instructions[1].Opcode)
	require.Equal(t, mir.PhysicalRegister{Name: "eax"}, b.Instructions[1].Ins[0])
	require.Equal(t, mir.PhysicalRegister{Name: "ebx"}, b.Instructions[1].Outs[0])
}

func TestEliminatesStoreThenLoadSameRegisterDropsLoad(t *testing.T) {
	b := mir.NewBlock(0)
	slot := mir.StackSlot{Base: "rbp", Offset: -8}
	b.Append(mir.NewInstruction(mir.STORE_MEM_REG).
		AddIn(mir.PhysicalRegister{Name: "eax"}).
		AddOut(slot))
	b.Append(mir.NewInstruction(mir.LOAD_REG_MEM).
		AddIn(slot).
		AddOut(mir.PhysicalRegister{Name: "eax"}))
	b.Append(mir.NewInstruction(mir.RET).AddImplicitUse(mir.PhysicalRegister{Name: "eax"}))

	Run(program(b))

	require.Len(t, b.Instructions, 2)
	require.Equal(t, mir.STORE_MEM_REG, b.Instructions[0].Opcode)
	require.Equal(t, mir.RET, b.Instructions[1].Opcode)
}
