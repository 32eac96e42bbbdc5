package band

import (
	"sort"

	"github.com/katalvlaran/bandknit/mesh"
	"github.com/katalvlaran/bandknit/zmat"
)

// Vertex is one energy level of the band structure at one base k-point.
// States holds an orthonormal basis of its eigenspace, one column per
// degenerate state; Energy is the eigenvalue mean over the cluster.
type Vertex struct {
	K      []float64
	Energy float64
	States *zmat.Dense
}

// Degeneracy returns the eigenspace dimension.
func (v Vertex) Degeneracy() int {
	_, c := v.States.Dims()
	return c
}

// Band is a knitted band structure: band vertices grouped into columns
// over the base mesh, subspace-connection edges between columns of
// adjacent base vertices, and simplices lifted from the connectivity.
type Band struct {
	// Verts lists the band vertices column by column, in base-vertex
	// order, ascending in energy within each column.
	Verts []Vertex

	// Simplices are the (D+1)-cliques of the band connectivity, oriented
	// by base-coordinate determinant like mesh simplices.
	Simplices [][]int

	// Mesh is the base mesh, including every vertex inserted by patching.
	Mesh *mesh.Mesh

	// Dislocations counts the frustrated crossings the patch budget could
	// not resolve; zero when patching was disabled or complete.
	Dislocations int

	neighbors [][]int // band adjacency, sorted ascending
	colOff    []int   // column offsets per base vertex, len NumVerts+1
}

// ColumnRange returns the half-open band-vertex range [lo, hi) of the
// column over base vertex i.
func (b *Band) ColumnRange(i int) (lo, hi int) {
	return b.colOff[i], b.colOff[i+1]
}

// Neighbors returns the sorted band vertices connected to band vertex i.
// Callers must not modify the slice.
func (b *Band) Neighbors(i int) []int { return b.neighbors[i] }

// Energies returns all band vertex energies in vertex order.
func (b *Band) Energies() []float64 {
	out := make([]float64, len(b.Verts))
	for i, v := range b.Verts {
		out[i] = v.Energy
	}
	return out
}

// MinMax returns the lowest and highest band vertex energy, or zeros for
// an empty band.
func (b *Band) MinMax() (lo, hi float64) {
	if len(b.Verts) == 0 {
		return 0, 0
	}
	lo, hi = b.Verts[0].Energy, b.Verts[0].Energy
	for _, v := range b.Verts[1:] {
		if v.Energy < lo {
			lo = v.Energy
		}
		if v.Energy > hi {
			hi = v.Energy
		}
	}
	return lo, hi
}

// Sorted-int-set helpers for the band adjacency.

func containsSorted(s []int, v int) bool {
	k := sort.SearchInts(s, v)
	return k < len(s) && s[k] == v
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

func removeSorted(s []int, v int) []int {
	k := sort.SearchInts(s, v)
	if k < len(s) && s[k] == v {
		return append(s[:k], s[k+1:]...)
	}
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

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if a[k] != b[k] {
			return false
		}
	}
	return true
}
