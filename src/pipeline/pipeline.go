// Package pipeline drives the whole back end end to end: IR in, assembly
// text and diagnostics out. The driver is strictly sequential phase to
// phase (spec.md §5): MIR generation only starts once IR is complete,
// liveness only starts once MIR generation is complete, and so on. Within
// the register-allocation and emission phases, per-function work may still
// fan out across goroutines when Options.Threads > 1, but the driver
// always waits for that fan-out to settle (a sync.WaitGroup barrier,
// internal to those two packages) before advancing to the next phase.
//
// The driver does not allocate IR/MIR nodes out of src/arena. See
// DESIGN.md's Open Question decisions for why: a []byte-backed bump
// allocator cannot safely own Go structs that hold pointers (ir.Block and
// mir.Block both hold pointers to other GC-managed values), so every node
// in this package's tree stays plain GC-heap allocated.
package pipeline

import (
	"github.com/sirupsen/logrus"
	"tacc/src/bitset"
	"tacc/src/diag"
	"tacc/src/emit"
	"tacc/src/interference"
	"tacc/src/ir"
	"tacc/src/liveness"
	"tacc/src/mir"
	"tacc/src/mirgen"
	"tacc/src/peephole"
	"tacc/src/regalloc"
	"tacc/src/regfile"
	"tacc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Result is one compilation's output: the rendered assembly text (empty on
// failure) and every diagnostic recorded along the way.
type Result struct {
	Assembly    string
	Diagnostics *diag.Collector
}

// Driver runs the full pipeline against one target register file. A
// Driver is reusable across repeated Compile calls the way a long-lived
// compiler process would be.
type Driver struct {
	Options util.Options
	Target  *regfile.File
}

// ---------------------
// ----- Functions -----
// ---------------------

// New returns a Driver targeting rf.
func New(opt util.Options, rf *regfile.File) *Driver {
	return &Driver{
		Options: opt,
		Target:  rf,
	}
}

// Compile lowers m all the way to assembly text.
func (d *Driver) Compile(m *ir.Module) (*Result, error) {
	diags := diag.NewCollector()

	mirProg, err := mirgen.Generate(m)
	if err != nil {
		diags.Append(fail(err))
		return &Result{Diagnostics: diags}, err
	}

	if err := d.allocateRegisters(mirProg, diags); err != nil {
		return &Result{Diagnostics: diags}, err
	}

	peephole.Run(mirProg)

	text, err := emit.Render(d.Options, mirProg)
	if err != nil {
		diags.Append(fail(err))
		return &Result{Diagnostics: diags}, err
	}

	logrus.WithFields(logrus.Fields{
		"functions": len(mirProg.Functions),
	}).Debug("pipeline: compilation complete")

	return &Result{Assembly: text, Diagnostics: diags}, nil
}

// allocateRegisters runs liveness, interference construction, MCS/greedy
// coloring (fanned out across functions per d.Options.Threads) and the
// resulting color rewrite, mutating mirProg's functions in place.
func (d *Driver) allocateRegisters(mirProg *mir.Program, diags *diag.Collector) error {
	n := len(mirProg.Functions)
	results := make([]*liveness.Result, n)
	graphs := make([]*bitset.Graph, n)
	inputs := make([]regalloc.Input, n)

	for i, mf := range mirProg.Functions {
		r := liveness.Analyze(mf)
		g := interference.Build(r)
		results[i] = r
		graphs[i] = g
		inputs[i] = regalloc.Input{Name: mf.Name, R: r, G: g}
	}

	assignments, err := regalloc.AllocateProgram(d.Options, inputs, d.Target)
	if err != nil {
		diags.Append(fail(err))
		return err
	}

	for i, mf := range mirProg.Functions {
		regalloc.Rewrite(mf, results[i], assignments[i])
	}
	return nil
}

func fail(err error) diag.Diagnostic {
	return diag.Diagnostic{Severity: diag.Error, Message: err.Error()}
}
