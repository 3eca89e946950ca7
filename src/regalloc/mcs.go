// Package regalloc assigns physical registers to interference-graph
// vertices: maximum cardinality search for a perfect elimination
// ordering, followed by greedy coloring, followed by a color→register
// mapping. Grounded on original_source/src/graph_coloring/graph_coloring.cpp
// and src/code_gen/register_alloc.cpp (precolored-vertex handling),
// cross-checked against spec.md §4.7.
package regalloc

import (
	"sort"

	"tacc/src/bitset"
)

// mcs computes a perfect elimination ordering over g's n vertices.
// Precolored vertices are pre-processed first, in ascending id order:
// each is removed from consideration but first bumps the weight of its
// still-pending neighbors, matching spec.md §4.7's "Precolored vertices
// are pre-processed" rule. Ties in the main loop are broken
// deterministically by preferring the lowest id (spec.md §4.7: "ties
// broken arbitrarily but deterministically, e.g. by id").
func mcs(g *bitset.Graph, precolored map[int]int) []int {
	n := g.N()
	weight := make([]int, n)
	inW := make([]bool, n)
	for i := range inW {
		inW[i] = true
	}

	precoloredOrder := sortedKeys(precolored)
	for _, v := range precoloredOrder {
		g.Neighbours(v).Each(func(u int) {
			if inW[u] {
				weight[u]++
			}
		})
		inW[v] = false
	}

	remaining := n - len(precoloredOrder)
	order := make([]int, 0, remaining)
	for i := 0; i < remaining; i++ {
		v := selectMaxWeight(weight, inW)
		order = append(order, v)
		g.Neighbours(v).Each(func(u int) {
			if inW[u] {
				weight[u]++
			}
		})
		inW[v] = false
	}
	return order
}

// selectMaxWeight returns the lowest-id member still in W with the
// greatest weight.
func selectMaxWeight(weight []int, inW []bool) int {
	best := -1
	bestWeight := -1
	for v, in := range inW {
		if !in {
			continue
		}
		if weight[v] > bestWeight {
			best = v
			bestWeight = weight[v]
		}
	}
	return best
}

// sortedKeys returns m's keys in ascending order.
func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
