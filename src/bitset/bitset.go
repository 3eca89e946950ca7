// Package bitset provides a dense, word-backed bit set and an undirected
// adjacency-list graph built on top of it. The register-interference graph
// (src/interference) and the MCS/greedy-coloring allocator (src/regalloc)
// are both built directly on Graph.
package bitset

import "math/bits"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Set is a fixed-universe bit set backed by a slice of 64-bit words, one
// bit per member index. Modeled on the wazero wazevo backend register
// allocator's word-backed bitset (internal/engine/wazevo/backend/regalloc/bitset.go),
// which scans set bits via bits.TrailingZeros64 instead of testing every
// index.
type Set struct {
	words []uint64
	n     int // Universe size, in bits.
}

// ---------------------
// ----- Functions -----
// ---------------------

// NewSet returns a Set over the index range [0, n).
func NewSet(n int) Set {
	if n < 0 {
		n = 0
	}
	return Set{words: make([]uint64, wordsFor(n)), n: n}
}

// wordsFor returns how many 64-bit words are needed to hold n bits.
func wordsFor(n int) int {
	return (n + 63) / 64
}

// Len returns the universe size the Set was constructed with.
func (s Set) Len() int {
	return s.n
}

// Set sets bit i.
func (s Set) Set(i int) {
	s.words[i/64] |= 1 << uint(i%64)
}

// Reset clears bit i.
func (s Set) Reset(i int) {
	s.words[i/64] &^= 1 << uint(i%64)
}

// Flip toggles bit i.
func (s Set) Flip(i int) {
	s.words[i/64] ^= 1 << uint(i%64)
}

// Test reports whether bit i is set.
func (s Set) Test(i int) bool {
	return s.words[i/64]&(1<<uint(i%64)) != 0
}

// PopCount returns the number of set bits.
func (s Set) PopCount() int {
	c := 0
	for _, w := range s.words {
		c += bits.OnesCount64(w)
	}
	return c
}

// Union sets s to the bitwise union of a and b. a, b and s must share the
// same word length.
func (s Set) Union(a, b Set) {
	for i := range s.words {
		s.words[i] = a.words[i] | b.words[i]
	}
}

// Intersect sets s to the bitwise intersection of a and b.
func (s Set) Intersect(a, b Set) {
	for i := range s.words {
		s.words[i] = a.words[i] & b.words[i]
	}
}

// Xor sets s to the bitwise symmetric difference of a and b.
func (s Set) Xor(a, b Set) {
	for i := range s.words {
		s.words[i] = a.words[i] ^ b.words[i]
	}
}

// Clear zeroes every word in the Set.
func (s Set) Clear() {
	for i := range s.words {
		s.words[i] = 0
	}
}

// Each calls f once for every set bit, in ascending order. It advances
// word-by-word using TrailingZeros64 rather than testing every index, so
// sparse sets are cheap to iterate.
func (s Set) Each(f func(i int)) {
	for wi, w := range s.words {
		base := wi * 64
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			f(base + tz)
			w &= w - 1 // Clear the lowest set bit.
		}
	}
}
