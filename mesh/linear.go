// Package mesh: subdivided linear path mesh.

package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultLinearPoints is the total vertex target used when LinearOptions
// names neither Points nor PointsPerSegment.
const DefaultLinearPoints = 13

// LinearOptions configures NewLinear. The zero value subdivides an open
// path into DefaultLinearPoints vertices weighted by metric length.
type LinearOptions struct {
	// Points is the total vertex target for the whole path, spread across
	// segments in proportion to their weight (at least one interval per
	// segment). Ignored when PointsPerSegment is set; 0 means the default.
	Points int

	// PointsPerSegment fixes the interval count of each segment directly.
	// Its length must equal the number of segments.
	PointsPerSegment []int

	// Uniform weighs every segment equally instead of by length.
	Uniform bool

	// Closed joins the final node back to the first, which must coincide
	// with it; the duplicate endpoint is merged away.
	Closed bool

	// Basis, when set, measures segments in the metric induced by the
	// column basis: a segment vector δ weighs ‖B⁻ᵀ·δ‖ instead of ‖δ‖.
	Basis *mat.Dense
}

// NewLinear builds a 1-simplex mesh along the polyline nodes.
func NewLinear(nodes [][]float64, opts LinearOptions) (*Mesh, error) {
	if len(nodes) < 2 {
		return nil, fmt.Errorf("mesh: %d path nodes, need at least 2: %w", len(nodes), ErrBadPath)
	}
	e := len(nodes[0])
	if e == 0 {
		return nil, fmt.Errorf("mesh: empty node coordinate: %w", ErrBadPath)
	}
	for i, nd := range nodes {
		if len(nd) != e {
			return nil, fmt.Errorf("mesh: node %d has %d coordinates, expected %d: %w", i, len(nd), e, ErrBadPath)
		}
	}
	if opts.Closed && !floats.EqualApprox(nodes[0], nodes[len(nodes)-1], 1e-12) {
		return nil, fmt.Errorf("mesh: closed path does not return to its first node: %w", ErrBadPath)
	}
	if opts.Basis != nil {
		if r, c := opts.Basis.Dims(); r != e || c != e {
			return nil, fmt.Errorf("mesh: %d×%d basis for embedding dimension %d: %w", r, c, e, ErrBadBasis)
		}
	}

	nseg := len(nodes) - 1
	deltas := make([][]float64, nseg)
	weights := make([]float64, nseg)
	for s := 0; s < nseg; s++ {
		d := make([]float64, e)
		floats.SubTo(d, nodes[s+1], nodes[s])
		deltas[s] = d
		w, err := segmentWeight(d, opts)
		if err != nil {
			return nil, err
		}
		if w == 0 && !opts.Uniform {
			return nil, fmt.Errorf("mesh: segment %d is degenerate: %w", s, ErrBadPath)
		}
		weights[s] = w
	}

	counts, err := segmentCounts(nseg, weights, opts)
	if err != nil {
		return nil, err
	}
	if opts.Closed {
		tot := 0
		for _, c := range counts {
			tot += c
		}
		if tot < 3 {
			return nil, fmt.Errorf("mesh: closed path needs at least 3 vertices, got %d: %w", tot, ErrBadPoints)
		}
	}

	// Vertices: the first node, then the interior and end point of each
	// segment; for a closed path the final endpoint wraps to vertex 0.
	var coords [][]float64
	coords = append(coords, append([]float64(nil), nodes[0]...))
	for s := 0; s < nseg; s++ {
		for t := 1; t <= counts[s]; t++ {
			if opts.Closed && s == nseg-1 && t == counts[s] {
				break
			}
			v := make([]float64, e)
			floats.AddScaledTo(v, nodes[s], float64(t)/float64(counts[s]), deltas[s])
			coords = append(coords, v)
		}
	}

	n := len(coords)
	m := &Mesh{dim: 1, coords: coords, neighs: make([][]int, n)}
	for i := 0; i+1 < n; i++ {
		m.neighs[i] = append(m.neighs[i], i+1)
		m.neighs[i+1] = append(m.neighs[i+1], i)
		m.simps = append(m.simps, []int{i, i + 1})
	}
	if opts.Closed {
		m.neighs[0] = insertSorted(m.neighs[0], n-1)
		m.neighs[n-1] = insertSorted(m.neighs[n-1], 0)
		m.simps = append(m.simps, []int{n - 1, 0})
	}
	return m, nil
}

// segmentWeight measures one segment vector under the configured metric.
func segmentWeight(delta []float64, opts LinearOptions) (float64, error) {
	if opts.Uniform {
		return 1, nil
	}
	if opts.Basis == nil {
		return floats.Norm(delta, 2), nil
	}
	var u mat.VecDense
	b := mat.NewVecDense(len(delta), append([]float64(nil), delta...))
	if err := u.SolveVec(opts.Basis.T(), b); err != nil {
		return 0, fmt.Errorf("mesh: singular metric basis: %w", ErrBadBasis)
	}
	return mat.Norm(&u, 2), nil
}

// segmentCounts resolves the per-segment interval counts.
func segmentCounts(nseg int, weights []float64, opts LinearOptions) ([]int, error) {
	if opts.PointsPerSegment != nil {
		if len(opts.PointsPerSegment) != nseg {
			return nil, fmt.Errorf("mesh: %d segment counts for %d segments: %w",
				len(opts.PointsPerSegment), nseg, ErrBadPoints)
		}
		counts := append([]int(nil), opts.PointsPerSegment...)
		for s, c := range counts {
			if c < 1 {
				return nil, fmt.Errorf("mesh: segment %d has %d intervals: %w", s, c, ErrBadPoints)
			}
		}
		return counts, nil
	}

	points := opts.Points
	if points == 0 {
		points = DefaultLinearPoints
	}
	intervals := points - 1
	if opts.Closed {
		intervals = points
	}
	if intervals < nseg {
		return nil, fmt.Errorf("mesh: %d points cannot cover %d segments: %w", points, nseg, ErrBadPoints)
	}

	counts := make([]int, nseg)
	total := 0.0
	for _, w := range weights {
		total += w
	}
	for s := range counts {
		counts[s] = 1
	}
	for left := intervals - nseg; left > 0; left-- {
		best, bestDeficit := 0, -1.0
		for s := range counts {
			deficit := weights[s]*float64(intervals)/total - float64(counts[s])
			if deficit > bestDeficit {
				best, bestDeficit = s, deficit
			}
		}
		counts[best]++
	}
	return counts, nil
}
