package regalloc

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"tacc/src/bitset"
	"tacc/src/liveness"
	"tacc/src/regfile"
	"tacc/src/regmap"
	"tacc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Assignment maps every live id in a function's register map to the
// physical register it was colored with.
type Assignment struct {
	FunctionName string
	Colors       map[regmap.ID]regfile.Register
}

// ---------------------
// ----- Functions -----
// ---------------------

// AllocateFunction colors one function's interference graph and maps
// colors onto rf's register vector. Precolored vertices (physical
// registers) are seeded with the color matching their register-file
// index before MCS/greedy coloring runs, so allocation is consistent
// with fixed-register constraints like DIV_RR's eax/edx clobbers
// (spec.md §4.7, "Mapping colors to registers").
func AllocateFunction(r *liveness.Result, g *bitset.Graph, rf *regfile.File) (*Assignment, error) {
	precolored := make(map[int]int)
	for id := 0; id < r.Map.Size(); id++ {
		if !r.Map.IsPhysical(regmap.ID(id)) {
			continue
		}
		name, _ := r.Map.PhysicalName(regmap.ID(id))
		reg, ok := rf.Lookup(name)
		if !ok {
			return nil, errors.Errorf("regalloc: physical register %q is not in the target register file", name)
		}
		precolored[id] = reg.Index()
	}

	order := mcs(g, precolored)
	colors := make(map[int]int, r.Map.Size())
	for id, c := range precolored {
		colors[id] = c
	}
	greedyColor(g, order, colors)

	if max := maxColor(colors); max >= rf.Len() {
		return nil, fmt.Errorf(
			"regalloc: interference graph needs %d colors, target provides %d (no spilling implemented)",
			max+1, rf.Len())
	}

	assignment := &Assignment{Colors: make(map[regmap.ID]regfile.Register, len(colors))}
	for id, c := range colors {
		reg, err := rf.Get(c)
		if err != nil {
			return nil, errors.Wrap(err, "regalloc")
		}
		assignment.Colors[regmap.ID(id)] = reg
	}

	logrus.WithFields(logrus.Fields{
		"vertices":   r.Map.Size(),
		"precolored": len(precolored),
		"colors":     maxColor(colors) + 1,
	}).Trace("regalloc: function colored")
	return assignment, nil
}

// Input bundles one function's liveness result and interference graph,
// the unit AllocateProgram fans work out over.
type Input struct {
	Name string
	R    *liveness.Result
	G    *bitset.Graph
}

// AllocateProgram colors every function's interference graph, optionally
// fanning the work out across opt.Threads worker goroutines. Grounded on
// the teacher's parallel-worker/error-channel shape
// (hhramberg-go-vslc/src/backend/lir/regalloc.go's AllocateRegisters),
// adapted from Chaitin-Briggs simplification to MCS/greedy coloring.
func AllocateProgram(opt util.Options, inputs []Input, rf *regfile.File) ([]*Assignment, error) {
	opt = opt.Normalize()
	n := len(inputs)
	out := make([]*Assignment, n)

	if opt.Threads <= 1 || n <= 1 {
		for i, in := range inputs {
			a, err := AllocateFunction(in.R, in.G, rf)
			if err != nil {
				return nil, errors.Wrapf(err, "function %q", in.Name)
			}
			a.FunctionName = in.Name
			out[i] = a
		}
		return out, nil
	}

	threads := opt.Threads
	if threads > n {
		threads = n
	}
	perr := util.NewPerror(threads)
	wg := sync.WaitGroup{}
	wg.Add(threads)

	chunk := (n + threads - 1) / threads
	for t := 0; t < threads; t++ {
		start := t * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				a, err := AllocateFunction(inputs[i].R, inputs[i].G, rf)
				if err != nil {
					perr.Append(errors.Wrapf(err, "function %q", inputs[i].Name))
					continue
				}
				a.FunctionName = inputs[i].Name
				out[i] = a
			}
		}(start, end)
	}
	wg.Wait()

	if perr.Len() > 0 {
		var msgs []string
		for e := range perr.Errors() {
			msgs = append(msgs, e.Error())
		}
		return nil, fmt.Errorf("%d error(s) during parallel register allocation: %v", len(msgs), msgs)
	}
	return out, nil
}
