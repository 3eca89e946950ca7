package regalloc

import "tacc/src/bitset"

// greedyColor colors order's vertices in sequence: each vertex gets the
// smallest non-negative color absent from its already-colored neighbors.
// colors is seeded with precolored vertices before the loop runs, and
// those entries are left untouched (spec.md §4.7, "Greedy coloring").
func greedyColor(g *bitset.Graph, order []int, colors map[int]int) {
	for _, v := range order {
		colors[v] = lowestFreeColor(g, v, colors)
	}
}

// lowestFreeColor returns the smallest non-negative integer not already
// assigned to one of v's colored neighbors.
func lowestFreeColor(g *bitset.Graph, v int, colors map[int]int) int {
	used := make(map[int]bool)
	g.Neighbours(v).Each(func(u int) {
		if c, ok := colors[u]; ok {
			used[c] = true
		}
	})
	color := 0
	for used[color] {
		color++
	}
	return color
}

// maxColor returns the highest color value assigned across colors, or -1
// if colors is empty.
func maxColor(colors map[int]int) int {
	max := -1
	for _, c := range colors {
		if c > max {
			max = c
		}
	}
	return max
}
