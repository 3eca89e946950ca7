// Package regfile provides the x86-64-like target's physical register
// file: the ordered set of colorable 32-bit general-purpose registers a
// color index maps onto. Modeled on the teacher's backend/regfile package
// (Register/RegisterFile interfaces), trimmed to integer registers only
// per spec.md's floating-point Non-goal.
package regfile

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Register is one physical, 32-bit general-purpose register.
type Register struct {
	name  string
	index int // Index into the target's register vector; doubles as its color.
}

// Name returns the assembler name of the register, e.g. "eax".
func (r Register) Name() string {
	return r.name
}

// Index returns the register's position in the target register vector.
func (r Register) Index() int {
	return r.index
}

func (r Register) String() string {
	return r.name
}

// File is the ordered vector of colorable integer registers for a target.
// Colors produced by src/regalloc are indices into this vector.
type File struct {
	regs []Register
	byName map[string]Register
}

// ---------------------
// ----- Functions -----
// ---------------------

// X86_64 returns the register file for the spec's x86-64-like target:
// eax, ebx, ecx, edx, esi, edi, r8d..r15d. ebp and esp are deliberately
// excluded (see DESIGN.md "Open Question decisions" — ebp/esp stay
// reserved for frame/stack bookkeeping, not general allocation).
func X86_64() *File {
	names := []string{
		"eax", "ebx", "ecx", "edx", "esi", "edi",
		"r8d", "r9d", "r10d", "r11d", "r12d", "r13d", "r14d", "r15d",
	}
	f := &File{
		regs:   make([]Register, len(names)),
		byName: make(map[string]Register, len(names)),
	}
	for i, n := range names {
		r := Register{name: n, index: i}
		f.regs[i] = r
		f.byName[n] = r
	}
	return f
}

// Registers returns the file's registers in color-index order.
func (f *File) Registers() []Register {
	return f.regs
}

// Len returns the number of colorable registers in the file.
func (f *File) Len() int {
	return len(f.regs)
}

// Get returns the register at the given color index.
func (f *File) Get(index int) (Register, error) {
	if index < 0 || index >= len(f.regs) {
		return Register{}, fmt.Errorf("regfile: color index %d out of range [0, %d)", index, len(f.regs))
	}
	return f.regs[index], nil
}

// Lookup returns the register with the given assembler name, and whether
// it was found. Fixed registers referenced by name in MIR (eax, edx for
// DIV_RR/MOD_RR) are resolved through this; only members of the
// allocatable file are found (eax/edx always are).
func (f *File) Lookup(name string) (Register, bool) {
	r, ok := f.byName[name]
	return r, ok
}
