// Package mesh: axis-aligned marching mesh (Kuhn triangulation).

package mesh

import (
	"fmt"
	"sort"
)

// NewMarching builds a D-dimensional marching mesh over the box, one axis
// per box entry, sampled at points[a] values along axis a. Vertices form a
// regular grid; each vertex additionally links to every in-bounds neighbor
// at a nonzero forward offset in {0,1}ᴰ, and every grid cell is cut into D!
// positively oriented simplices (one per axis permutation).
// Time: O(V·2ᴰ + C·D!·D³) for V vertices and C cells.
func NewMarching(box [][2]float64, points []int) (*Mesh, error) {
	d := len(box)
	if d == 0 {
		return nil, fmt.Errorf("mesh: empty box: %w", ErrBadBox)
	}
	if len(points) != d {
		return nil, fmt.Errorf("mesh: %d point counts for %d axes: %w", len(points), d, ErrBadPoints)
	}
	for a := 0; a < d; a++ {
		if box[a][0] == box[a][1] {
			return nil, fmt.Errorf("mesh: axis %d is degenerate: %w", a, ErrBadBox)
		}
		if points[a] < 2 {
			return nil, fmt.Errorf("mesh: axis %d has %d points, need at least 2: %w", a, points[a], ErrBadPoints)
		}
	}

	stride := make([]int, d)
	stride[d-1] = 1
	for a := d - 2; a >= 0; a-- {
		stride[a] = stride[a+1] * points[a+1]
	}
	nverts := stride[0] * points[0]

	step := make([]float64, d)
	for a := 0; a < d; a++ {
		step[a] = (box[a][1] - box[a][0]) / float64(points[a]-1)
	}

	m := &Mesh{
		dim:    d,
		coords: make([][]float64, nverts),
		neighs: make([][]int, nverts),
	}

	// Vertices and forward-offset adjacency.
	offsets := forwardOffsets(d)
	idx := make([]int, d)
	for id := 0; id < nverts; id++ {
		c := make([]float64, d)
		for a := 0; a < d; a++ {
			c[a] = box[a][0] + step[a]*float64(idx[a])
		}
		m.coords[id] = c

		for _, off := range offsets {
			nid, ok := offsetID(idx, off, points, stride)
			if !ok {
				continue
			}
			m.neighs[id] = append(m.neighs[id], nid)
			m.neighs[nid] = append(m.neighs[nid], id)
		}
		increment(idx, points)
	}
	for id := range m.neighs {
		sort.Ints(m.neighs[id])
	}

	// One simplex per (cell, axis permutation): walk from the cell corner
	// one axis at a time in permutation order.
	perms := permutations(d)
	for a := range idx {
		idx[a] = 0
	}
	cells := 1
	for a := 0; a < d; a++ {
		cells *= points[a] - 1
	}
	for cell := 0; cell < cells; cell++ {
		base := 0
		for a := 0; a < d; a++ {
			base += idx[a] * stride[a]
		}
		for _, perm := range perms {
			s := make([]int, d+1)
			s[0] = base
			at := base
			for t, axis := range perm {
				at += stride[axis]
				s[t+1] = at
			}
			m.simps = append(m.simps, s)
		}
		incrementCell(idx, points)
	}
	OrientSimplices(m.simps, d, m.Coord)

	return m, nil
}

// forwardOffsets returns every nonzero vector in {0,1}ᴰ.
func forwardOffsets(d int) [][]int {
	var out [][]int
	for mask := 1; mask < 1<<d; mask++ {
		off := make([]int, d)
		for a := 0; a < d; a++ {
			if mask&(1<<a) != 0 {
				off[a] = 1
			}
		}
		out = append(out, off)
	}
	return out
}

// offsetID returns the grid id at idx+off, or ok=false when out of bounds.
func offsetID(idx, off, points, stride []int) (int, bool) {
	id := 0
	for a := range idx {
		k := idx[a] + off[a]
		if k >= points[a] {
			return 0, false
		}
		id += k * stride[a]
	}
	return id, true
}

// increment advances a grid multi-index, last axis fastest.
func increment(idx, points []int) {
	for a := len(idx) - 1; a >= 0; a-- {
		idx[a]++
		if idx[a] < points[a] {
			return
		}
		idx[a] = 0
	}
}

// incrementCell advances a cell multi-index (one less slot per axis).
func incrementCell(idx, points []int) {
	for a := len(idx) - 1; a >= 0; a-- {
		idx[a]++
		if idx[a] < points[a]-1 {
			return
		}
		idx[a] = 0
	}
}

// permutations enumerates all orderings of the axes 0..d-1.
func permutations(d int) [][]int {
	cur := make([]int, d)
	for a := range cur {
		cur[a] = a
	}
	var out [][]int
	var rec func(k int)
	rec = func(k int) {
		if k == d {
			out = append(out, append([]int(nil), cur...))
			return
		}
		for a := k; a < d; a++ {
			cur[k], cur[a] = cur[a], cur[k]
			rec(k + 1)
			cur[k], cur[a] = cur[a], cur[k]
		}
	}
	rec(0)
	return out
}
