// Package interference builds the register-interference graph from a
// liveness Result: a clique over every live-set plus an edge from every
// implicit-def operand to everything live at that position. Grounded on
// original_source/src/code_gen/interference_graph.cpp, cross-checked
// against spec.md §4.6.
package interference

import (
	"github.com/sirupsen/logrus"
	"tacc/src/bitset"
	"tacc/src/liveness"
	"tacc/src/mir"
)

// ---------------------
// ----- Functions -----
// ---------------------

// Build constructs the interference graph for one function's liveness
// Result. The graph has one vertex per live id in r.Map (both virtual and
// physical registers appear — physical registers are precolored
// vertices, spec.md §4.6).
func Build(r *liveness.Result) *bitset.Graph {
	g := bitset.NewGraph(r.Map.Size())

	for pos, inst := range r.Instructions {
		clique(g, r.LiveIn[pos])

		for _, def := range inst.ImplicitDefs {
			id, ok := registerID(r, def)
			if !ok {
				continue
			}
			r.LiveIn[pos].Each(func(live int) {
				g.AddEdge(int(id), live)
			})
		}
	}

	logrus.WithFields(logrus.Fields{
		"vertices":  g.N(),
		"positions": len(r.Instructions),
	}).Trace("interference: graph built")
	return g
}

// clique adds a pairwise edge between every live id in live, the "all
// simultaneously live ids conflict" rule (spec.md §4.6).
func clique(g *bitset.Graph, live bitset.Set) {
	var members []int
	live.Each(func(i int) { members = append(members, i) })
	g.AddClique(members)
}

// registerID resolves an implicit-def operand to its (already-registered)
// live id.
func registerID(r *liveness.Result, op mir.Operand) (int, bool) {
	switch o := op.(type) {
	case mir.VirtualRegister:
		return int(r.Map.FromVirtual(o.Numeral)), true
	case mir.PhysicalRegister:
		return int(r.Map.FromPhysical(o.Name)), true
	default:
		return 0, false
	}
}
