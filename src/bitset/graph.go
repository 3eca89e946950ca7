package bitset

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Graph is a dense, bitset-backed undirected adjacency list over a fixed
// number of vertices, identified by their live id (0..N). Grounded on the
// original C++ implementation's UndirectedGraph
// (graph_coloring/graph_coloring.hpp): add_edge/add_clique/self-loop
// semantics are identical, the representation is a Go-idiomatic word-backed
// bitset per vertex rather than std::unordered_set<size_t>.
type Graph struct {
	adj []Set
	n   int
}

// ---------------------
// ----- Functions -----
// ---------------------

// NewGraph returns a Graph over n vertices, initially with no edges.
func NewGraph(n int) *Graph {
	adj := make([]Set, n)
	for i := range adj {
		adj[i] = NewSet(n)
	}
	return &Graph{adj: adj, n: n}
}

// N returns the number of vertices in the Graph.
func (g *Graph) N() int {
	return g.n
}

// AddEdge adds an undirected edge between u and v. Self-loops are
// disallowed and silently ignored, matching add_edge in the original
// UndirectedGraph.
func (g *Graph) AddEdge(u, v int) {
	if u == v {
		return
	}
	g.adj[u].Set(v)
	g.adj[v].Set(u)
}

// AddClique adds a pairwise edge between every member of vertices,
// O(k^2) in the size of vertices, matching add_clique.
func (g *Graph) AddClique(vertices []int) {
	for i, u := range vertices {
		for _, v := range vertices[i+1:] {
			g.AddEdge(u, v)
		}
	}
}

// HasEdge reports whether u and v are adjacent.
func (g *Graph) HasEdge(u, v int) bool {
	if u == v {
		return false
	}
	return g.adj[u].Test(v)
}

// Neighbours returns the Set of vertices adjacent to v.
func (g *Graph) Neighbours(v int) Set {
	return g.adj[v]
}

// ClearNode removes v from every neighbour's adjacency set and zeroes v's
// own adjacency set, matching clear_node.
func (g *Graph) ClearNode(v int) {
	g.adj[v].Each(func(u int) {
		g.adj[u].Reset(v)
	})
	g.adj[v].Clear()
}

// Degree returns the number of vertices adjacent to v.
func (g *Graph) Degree(v int) int {
	return g.adj[v].PopCount()
}
