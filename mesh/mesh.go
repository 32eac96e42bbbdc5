// Package mesh: the Mesh type, its accessors and the SplitEdge mutation.

package mesh

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Mesh is a simplicial mesh of embedded vertices. Construction goes through
// NewMarching or NewLinear; the zero value is not usable.
type Mesh struct {
	dim    int         // simplex dimension D
	coords [][]float64 // vertex coordinates, embedding dimension ≥ dim
	neighs [][]int     // symmetric adjacency, each list sorted ascending
	simps  [][]int     // oriented simplices, D+1 vertices each
}

// Dim returns the simplex dimension D.
func (m *Mesh) Dim() int { return m.dim }

// EmbeddingDim returns the length of each vertex coordinate.
func (m *Mesh) EmbeddingDim() int {
	if len(m.coords) == 0 {
		return 0
	}
	return len(m.coords[0])
}

// NumVerts returns the vertex count.
func (m *Mesh) NumVerts() int { return len(m.coords) }

// Coord returns the coordinate of vertex i. Callers must not modify it.
func (m *Mesh) Coord(i int) []float64 { return m.coords[i] }

// Neighbors returns the sorted adjacency of vertex i. Callers must not
// modify it, and must not hold it across a SplitEdge.
func (m *Mesh) Neighbors(i int) []int { return m.neighs[i] }

// Adjacency returns the full adjacency table, indexed by vertex. The same
// aliasing rules as Neighbors apply.
func (m *Mesh) Adjacency() [][]int { return m.neighs }

// Simplices returns the oriented D-simplices. Callers must not modify them.
func (m *Mesh) Simplices() [][]int { return m.simps }

// EdgeRange returns copies of the shortest and longest edge vectors by
// Euclidean length, or nils when the mesh has no edges.
func (m *Mesh) EdgeRange() (shortest, longest []float64) {
	e := m.EmbeddingDim()
	delta := make([]float64, e)
	var short, long float64
	for i, ns := range m.neighs {
		for _, j := range ns {
			if j <= i {
				continue
			}
			floats.SubTo(delta, m.coords[j], m.coords[i])
			l := floats.Norm(delta, 2)
			if shortest == nil || l < short {
				short = l
				shortest = append(shortest[:0], delta...)
			}
			if longest == nil || l > long {
				long = l
				longest = append(longest[:0], delta...)
			}
		}
	}
	return shortest, longest
}

// SplitEdge replaces the edge (i, j) with two edges through a new vertex at
// p and retriangulates: the new vertex also connects to every remaining
// common neighbor of i and j, and each simplex containing the edge is
// replaced by its two halves. Returns the new vertex index.
// Existing vertex indices are preserved.
func (m *Mesh) SplitEdge(i, j int, p []float64) (int, error) {
	n := m.NumVerts()
	if i < 0 || i >= n || j < 0 || j >= n || i == j {
		return 0, fmt.Errorf("mesh: split (%d,%d) of %d vertices: %w", i, j, n, ErrUnknownEdge)
	}
	if !containsSorted(m.neighs[i], j) {
		return 0, fmt.Errorf("mesh: split (%d,%d): %w", i, j, ErrUnknownEdge)
	}
	if len(p) != m.EmbeddingDim() {
		return 0, fmt.Errorf("mesh: split point has %d coordinates, embedding is %d: %w",
			len(p), m.EmbeddingDim(), ErrDimension)
	}

	m.neighs[i] = removeSorted(m.neighs[i], j)
	m.neighs[j] = removeSorted(m.neighs[j], i)

	v := n
	m.coords = append(m.coords, append([]float64(nil), p...))
	adj := []int{min(i, j), max(i, j)}
	for _, c := range intersectSorted(m.neighs[i], m.neighs[j]) {
		adj = insertSorted(adj, c)
		m.neighs[c] = insertSorted(m.neighs[c], v)
	}
	m.neighs = append(m.neighs, adj)
	m.neighs[i] = insertSorted(m.neighs[i], v)
	m.neighs[j] = insertSorted(m.neighs[j], v)

	// Replace every simplex spanning the split edge by its two halves.
	var touched [][]int
	for si := 0; si < len(m.simps); si++ {
		s := m.simps[si]
		pi, pj := indexOf(s, i), indexOf(s, j)
		if pi < 0 || pj < 0 {
			continue
		}
		half1 := append([]int(nil), s...)
		half1[pj] = v
		half2 := append([]int(nil), s...)
		half2[pi] = v
		m.simps[si] = half1
		m.simps = append(m.simps, half2)
		touched = append(touched, half1, half2)
	}
	OrientSimplices(touched, m.dim, m.Coord)

	return v, nil
}

func containsSorted(s []int, v int) bool {
	k := sort.SearchInts(s, v)
	return k < len(s) && s[k] == v
}

func removeSorted(s []int, v int) []int {
	k := sort.SearchInts(s, v)
	if k < len(s) && s[k] == v {
		return append(s[:k], s[k+1:]...)
	}
	return s
}

func insertSorted(s []int, v int) []int {
	k := sort.SearchInts(s, v)
	if k < len(s) && s[k] == v {
		return s
	}
	s = append(s, 0)
	copy(s[k+1:], s[k:])
	s[k] = v
	return s
}

func intersectSorted(a, b []int) []int {
	var out []int
	for ia, ib := 0, 0; ia < len(a) && ib < len(b); {
		switch {
		case a[ia] < b[ib]:
			ia++
		case a[ia] > b[ib]:
			ib++
		default:
			out = append(out, a[ia])
			ia++
			ib++
		}
	}
	return out
}

func indexOf(s []int, v int) int {
	for k, x := range s {
		if x == v {
			return k
		}
	}
	return -1
}
