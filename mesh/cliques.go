// Package mesh: clique enumeration and simplex orientation.

package mesh

import "gonum.org/v1/gonum/mat"

// Cliques enumerates every k-clique of the adjacency structure, returned
// as ascending vertex lists in lexicographic order. Adjacency lists must
// be sorted ascending, as Mesh maintains them.
//
// Complexity is output-sensitive: each reported clique costs O(k·degmax)
// for the candidate intersections along its extension path.
func Cliques(neighbors [][]int, k int) [][]int {
	if k < 1 {
		return nil
	}
	var out [][]int
	if k == 1 {
		for v := range neighbors {
			out = append(out, []int{v})
		}
		return out
	}
	clique := make([]int, 1, k)
	for v := range neighbors {
		clique[0] = v
		// Restricting candidates to forward neighbors makes each clique
		// appear exactly once, with its vertices ascending.
		cand := forwardOf(neighbors[v], v)
		out = extendCliques(out, clique, cand, neighbors, k)
	}
	return out
}

// extendCliques grows clique by one vertex at a time from cand, emitting
// completed k-cliques into out.
func extendCliques(out [][]int, clique, cand []int, neighbors [][]int, k int) [][]int {
	need := k - len(clique)
	for idx, w := range cand {
		if len(cand)-idx < need {
			break
		}
		next := append(clique, w)
		if len(next) == k {
			out = append(out, append([]int(nil), next...))
			continue
		}
		out = extendCliques(out, next, intersectSorted(cand[idx+1:], neighbors[w]), neighbors, k)
	}
	return out
}

// forwardOf returns the suffix of the sorted list holding entries > v.
func forwardOf(sorted []int, v int) []int {
	lo := 0
	for lo < len(sorted) && sorted[lo] <= v {
		lo++
	}
	return sorted[lo:]
}

// OrientSimplices flips simplices in place so that every one of them has
// positive orientation: the edge vectors out of its first vertex form a
// positively-determined basis. A negative determinant is fixed by swapping
// the last two vertices. Simplices of dimension below 2 are left alone.
func OrientSimplices(simps [][]int, dim int, coord func(int) []float64) {
	if dim < 2 {
		return
	}
	data := make([]float64, dim*dim)
	for _, s := range simps {
		if len(s) != dim+1 {
			continue
		}
		base := coord(s[0])
		for t := 1; t <= dim; t++ {
			v := coord(s[t])
			for r := 0; r < dim; r++ {
				data[r*dim+t-1] = v[r] - base[r]
			}
		}
		if mat.Det(mat.NewDense(dim, dim, data)) < 0 {
			s[dim-1], s[dim] = s[dim], s[dim-1]
		}
	}
}
