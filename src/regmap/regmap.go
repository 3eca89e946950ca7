// Package regmap provides the register map: the bijection between
// physical register names, virtual register numerals, and the dense
// live-id space shared by liveness sets, interference-graph vertices, and
// coloring output (spec.md §3, "Register map (live-id space)"). Grounded
// on the original C++ Liveness class's physical_to_live_id/virtual_to_live_id
// maps (original_source/src/analysis/liveness.hpp).
package regmap

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// ID is a dense live id: a vertex in the interference graph, an index into
// a liveness set.
type ID int

// source records what a live id was minted from, for pretty-printing.
type source struct {
	physical string
	virtual  int
	isPhys   bool
}

// Map is a register map; src/liveness creates a fresh one per function. It
// must not be shared across compilations: the id counter is monotone and
// per-Map, never global, so
// the compiler can be invoked repeatedly in one process (spec.md §9,
// "Global id counter").
type Map struct {
	physToID map[string]ID
	virtToID map[int]ID
	idToSrc  []source
	next     ID
}

// ---------------------
// ----- Functions -----
// ---------------------

// New returns an empty register map.
func New() *Map {
	return &Map{
		physToID: make(map[string]ID),
		virtToID: make(map[int]ID),
	}
}

// FromPhysical returns the live id for physical register name, minting a
// fresh one on first sight. Idempotent: the same name always yields the
// same id for the lifetime of the Map.
func (m *Map) FromPhysical(name string) ID {
	if id, ok := m.physToID[name]; ok {
		return id
	}
	id := m.next
	m.next++
	m.physToID[name] = id
	m.idToSrc = append(m.idToSrc, source{physical: name, isPhys: true})
	return id
}

// FromVirtual returns the live id for virtual register numeral, minting a
// fresh one on first sight. Idempotent, like FromPhysical.
func (m *Map) FromVirtual(numeral int) ID {
	if id, ok := m.virtToID[numeral]; ok {
		return id
	}
	id := m.next
	m.next++
	m.virtToID[numeral] = id
	m.idToSrc = append(m.idToSrc, source{virtual: numeral, isPhys: false})
	return id
}

// IsPhysical reports whether id was minted from a physical register.
func (m *Map) IsPhysical(id ID) bool {
	return m.idToSrc[id].isPhys
}

// PhysicalName returns the physical register name id was minted from, and
// whether id was in fact minted from a physical register.
func (m *Map) PhysicalName(id ID) (string, bool) {
	s := m.idToSrc[id]
	return s.physical, s.isPhys
}

// VirtualNumeral returns the virtual register numeral id was minted from,
// and whether id was in fact minted from a virtual register.
func (m *Map) VirtualNumeral(id ID) (int, bool) {
	s := m.idToSrc[id]
	return s.virtual, !s.isPhys
}

// Size returns the dense id space size: the number of distinct live ids
// minted so far. Ids are always in [0, Size()).
func (m *Map) Size() int {
	return int(m.next)
}

// String renders id back to its source representation, for pretty-printing.
func (m *Map) String(id ID) string {
	s := m.idToSrc[id]
	if s.isPhys {
		return s.physical
	}
	return virtualName(s.virtual)
}

func virtualName(numeral int) string {
	return fmt.Sprintf("vreg%d", numeral)
}
