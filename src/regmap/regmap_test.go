package regmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromPhysicalIdempotent(t *testing.T) {
	m := New()
	a := m.FromPhysical("eax")
	b := m.FromPhysical("eax")
	require.Equal(t, a, b)
}

func TestFromVirtualIdempotent(t *testing.T) {
	m := New()
	a := m.FromVirtual(7)
	b := m.FromVirtual(7)
	require.Equal(t, a, b)
}

func TestIDSpaceDenseAndMonotone(t *testing.T) {
	m := New()
	m.FromVirtual(1)
	m.FromPhysical("eax")
	m.FromVirtual(2)
	require.Equal(t, 3, m.Size())
	for i := 0; i < m.Size(); i++ {
		_ = m.String(ID(i)) // Must not panic for any id in the dense range.
	}
}

func TestRoundTrip(t *testing.T) {
	m := New()
	vid := m.FromVirtual(42)
	pid := m.FromPhysical("edx")

	numeral, ok := m.VirtualNumeral(vid)
	require.True(t, ok)
	require.Equal(t, 42, numeral)
	_, ok = m.PhysicalName(vid)
	require.False(t, ok)

	name, ok := m.PhysicalName(pid)
	require.True(t, ok)
	require.Equal(t, "edx", name)
	require.True(t, m.IsPhysical(pid))
	require.False(t, m.IsPhysical(vid))
}

func TestDistinctInputsGetDistinctIDs(t *testing.T) {
	m := New()
	a := m.FromVirtual(1)
	b := m.FromVirtual(2)
	c := m.FromPhysical("eax")
	require.NotEqual(t, a, b)
	require.NotEqual(t, a, c)
	require.NotEqual(t, b, c)
}
