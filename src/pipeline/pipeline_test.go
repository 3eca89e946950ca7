package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"tacc/src/ir"
	"tacc/src/regfile"
	"tacc/src/util"
)

func newDriver() *Driver {
	return New(util.Options{Threads: 1}, regfile.X86_64())
}

func TestCompileReturnZero(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunction("main")
	f.Entry().CreateReturn(ir.NewConst(0))

	d := newDriver()
	res, err := d.Compile(m)
	require.NoError(t, err)
	require.False(t, res.Diagnostics.HasErrors())
	require.True(t, strings.HasPrefix(res.Assembly, ".intel_syntax noprefix"))
	require.Contains(t, res.Assembly, "_main:")
	require.Contains(t, res.Assembly, "ret")
}

func TestCompileArithmeticExpression(t *testing.T) {
	// return 2 + 3 * 4
	m := ir.NewModule()
	f := m.NewFunction("main")
	b := f.Entry()
	mul, err := b.CreateBinary(ir.MUL, ir.NewConst(3), ir.NewConst(4))
	require.NoError(t, err)
	mulResult, _ := mul.Result()
	add, err := b.CreateBinary(ir.ADD, ir.NewConst(2), mulResult)
	require.NoError(t, err)
	addResult, _ := add.Result()
	b.CreateReturn(addResult)

	d := newDriver()
	res, err := d.Compile(m)
	require.NoError(t, err)
	require.Contains(t, res.Assembly, "imul")
	require.Contains(t, res.Assembly, "add")
}

func TestCompileSubtractionInterferenceSurvivesAllocation(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunction("main")
	b := f.Entry()
	a := f.NewTemp()
	b.CreateStore(a, ir.NewConst(7))
	sub, err := b.CreateBinary(ir.SUB, a, ir.NewConst(2))
	require.NoError(t, err)
	subResult, _ := sub.Result()
	addBack, err := b.CreateBinary(ir.ADD, subResult, a)
	require.NoError(t, err)
	addResult, _ := addBack.Result()
	b.CreateReturn(addResult)

	d := newDriver()
	res, err := d.Compile(m)
	require.NoError(t, err)
	require.Contains(t, res.Assembly, "sub")
	require.Contains(t, res.Assembly, "add")

	// a is live across the addition, so the sum and a must not share a
	// register.
	for _, line := range strings.Split(res.Assembly, "\n") {
		if strings.HasPrefix(line, "\tadd\t") {
			ops := strings.Split(strings.TrimPrefix(line, "\tadd\t"), ", ")
			require.Len(t, ops, 2)
			require.NotEqual(t, ops[0], ops[1], "interfering operands share a register: %q", line)
		}
	}
}

func TestCompileDivisionAndModulo(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunction("main")
	b := f.Entry()
	div, err := b.CreateBinary(ir.DIV, ir.NewConst(17), ir.NewConst(5))
	require.NoError(t, err)
	divResult, _ := div.Result()
	mod, err := b.CreateBinary(ir.MOD, ir.NewConst(17), ir.NewConst(5))
	require.NoError(t, err)
	modResult, _ := mod.Result()
	sum, err := b.CreateBinary(ir.ADD, divResult, modResult)
	require.NoError(t, err)
	sumResult, _ := sum.Result()
	b.CreateReturn(sumResult)

	d := newDriver()
	res, err := d.Compile(m)
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(res.Assembly, "idiv"))
}

func TestCompileNegationWithPeepholeCleanup(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunction("main")
	b := f.Entry()
	neg := b.CreateNeg(ir.NewConst(5))
	negResult, _ := neg.Result()
	b.CreateReturn(negResult)

	d := newDriver()
	res, err := d.Compile(m)
	require.NoError(t, err)
	require.Contains(t, res.Assembly, "neg")
	require.NotContains(t, res.Assembly, "mov\teax, eax")
}

func TestCompileConditionalBranch(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunction("main")
	entry := f.Entry()
	thn := f.NewBlock()
	els := f.NewBlock()
	_, err := entry.CreateConditional(ir.GE, ir.NewConst(10), ir.NewConst(3), thn, els)
	require.NoError(t, err)
	thn.CreateReturn(ir.NewConst(1))
	els.CreateReturn(ir.NewConst(0))

	d := newDriver()
	res, err := d.Compile(m)
	require.NoError(t, err)
	require.Contains(t, res.Assembly, "cmp")
	require.Contains(t, res.Assembly, "jge")
}

func TestDriverReusableAcrossCompiles(t *testing.T) {
	d := newDriver()
	m1 := ir.NewModule()
	m1.NewFunction("main").Entry().CreateReturn(ir.NewConst(1))
	_, err := d.Compile(m1)
	require.NoError(t, err)

	m2 := ir.NewModule()
	m2.NewFunction("main").Entry().CreateReturn(ir.NewConst(2))
	res2, err := d.Compile(m2)
	require.NoError(t, err)
	require.Contains(t, res2.Assembly, "_main:")
}
