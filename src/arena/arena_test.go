package arena

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestAllocateAlignment(t *testing.T) {
	a := New(64, 8)
	seen := make(map[uintptr]bool)
	for i := 0; i < 50; i++ {
		p := a.Allocate(3)
		require.NotNil(t, p)
		addr := uintptr(p)
		require.Zero(t, addr%8, "allocation %d misaligned", i)
		require.False(t, seen[addr], "allocation %d reused address %#x", i, addr)
		seen[addr] = true
	}
}

func TestAllocateZeroSized(t *testing.T) {
	a := New(0, 0)
	require.Nil(t, a.Allocate(0))
}

func TestAllocateOversized(t *testing.T) {
	a := New(32, 8)
	p := a.Allocate(256)
	require.NotNil(t, p)
	require.GreaterOrEqual(t, a.Size(), 256)
}

func TestResetKeepsFirstBlock(t *testing.T) {
	a := New(64, 8)
	for i := 0; i < 10; i++ {
		a.Allocate(8)
	}
	require.Len(t, a.blocks, 2)
	a.Reset()
	require.Len(t, a.blocks, 1)
	require.Zero(t, a.Used())
}

func TestClearDiscardsEverything(t *testing.T) {
	a := New(64, 8)
	a.Allocate(1024)
	a.Clear()
	require.Equal(t, 64, a.Size())
}

type node struct {
	x, y int64
}

func TestAllocGeneric(t *testing.T) {
	a := New(64, 8)
	n1 := Alloc[node](a)
	n1.x = 1
	n2 := Alloc[node](a)
	n2.x = 2
	require.NotEqual(t, unsafe.Pointer(n1), unsafe.Pointer(n2))
	require.EqualValues(t, 1, n1.x)
	require.EqualValues(t, 2, n2.x)
}
