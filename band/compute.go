package band

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/blas/cblas128"

	"github.com/katalvlaran/bandknit/mesh"
	"github.com/katalvlaran/bandknit/zmat"
)

// column is the clustered, orthonormalized spectrum over one base vertex.
type column struct {
	verts []Vertex
}

// Compute diagonalizes the solver over every mesh vertex, knits subspace
// connections across mesh edges into a band graph, and optionally patches
// frustrated band crossings by splitting base edges. The mesh is mutated
// when patching inserts vertices; the returned Band aliases it.
func Compute(s Solver, m *mesh.Mesh, opts ...Option) (*Band, error) {
	if s == nil || m == nil {
		return nil, fmt.Errorf("band: nil solver or mesh: %w", ErrBadInput)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	for _, p := range cfg.defects {
		if len(p) != m.EmbeddingDim() {
			return nil, fmt.Errorf("band: defect %v has %d coordinates, embedding is %d: %w",
				p, len(p), m.EmbeddingDim(), ErrBadInput)
		}
	}

	// Stage 1: one spectrum per base vertex, workers pulling indices off a
	// shared counter.
	ks := make([][]float64, m.NumVerts())
	for i := range ks {
		ks[i] = m.Coord(i)
	}
	cols, err := diagonalizeAll(s, ks, cfg)
	if err != nil {
		return nil, err
	}

	b := &Band{Mesh: m, colOff: []int{0}}
	for _, col := range cols {
		b.Verts = append(b.Verts, col.verts...)
		b.colOff = append(b.colOff, len(b.Verts))
	}
	b.neighbors = make([][]int, len(b.Verts))
	if cfg.logger != nil {
		cfg.logger.Debug("band: diagonalized mesh",
			"vertices", m.NumVerts(), "levels", len(b.Verts), "workers", cfg.workers)
	}

	// Stage 2: knit subspace connections across every base edge. Crossing
	// candidates are tracked only when a patch phase will consume them.
	kn := &knitter{b: b, thr: cfg.connectThr, track: m.Dim() > 1 && cfg.patches > 0}
	for a := 0; a < m.NumVerts(); a++ {
		for _, c := range m.Neighbors(a) {
			if c > a {
				if err := kn.seam(a, c); err != nil {
					return nil, err
				}
			}
		}
	}
	if cfg.logger != nil {
		cfg.logger.Debug("band: knitted", "crossings", len(kn.crossings))
	}

	// Stage 3: pin defects, then spend the patch budget on frustrated
	// crossings, farthest from a defect first.
	if kn.track {
		p := &patcher{kn: kn, s: s, cfg: cfg}
		if err := p.run(); err != nil {
			return nil, err
		}
	}

	// Lift the simplicial structure onto the band graph.
	b.Simplices = mesh.Cliques(b.neighbors, m.Dim()+1)
	mesh.OrientSimplices(b.Simplices, m.Dim(), func(i int) []float64 { return b.Verts[i].K })

	return b, nil
}

// diagonalizeAll solves every k-point once, in parallel.
func diagonalizeAll(s Solver, ks [][]float64, cfg config) ([]column, error) {
	cols := make([]column, len(ks))
	workers := cfg.workers
	if workers > len(ks) {
		workers = len(ks)
	}
	var next atomic.Int64
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		ws := s.CallsafeCopy()
		g.Go(func() error {
			for {
				i := int(next.Add(1)) - 1
				if i >= len(ks) {
					return nil
				}
				col, err := solveColumn(ws, ks[i], cfg.degTol)
				if err != nil {
					return fmt.Errorf("band: vertex %d at %v: %w", i, ks[i], err)
				}
				cols[i] = col
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cols, nil
}

// solveColumn diagonalizes one k-point and groups the spectrum into
// degenerate clusters: eigenvalues separated by less than degTol share a
// vertex, with the cluster mean as its energy and an orthonormalized state
// basis. Columns that lose their residual during orthonormalization are
// dropped, shrinking the recorded degeneracy.
func solveColumn(s Solver, k []float64, degTol float64) (column, error) {
	sp, err := s.SpectrumAt(k)
	if err != nil {
		return column{}, err
	}
	n, c := sp.States.Dims()
	if len(sp.Energies) != c {
		return column{}, fmt.Errorf("band: %d energies for %d state columns: %w",
			len(sp.Energies), c, ErrBadInput)
	}
	for e := 1; e < c; e++ {
		if sp.Energies[e] < sp.Energies[e-1] {
			return column{}, fmt.Errorf("band: energies not ascending at index %d: %w", e, ErrBadInput)
		}
	}

	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	var col column
	for start := 0; start < c; {
		end := start + 1
		for end < c && sp.Energies[end]-sp.Energies[end-1] < degTol {
			end++
		}
		cluster := sp.States.View(0, start, n, end-start)
		kept := orthonormalize(cluster, degTol)
		if len(kept) > 0 {
			mean := 0.0
			for _, e := range sp.Energies[start:end] {
				mean += e
			}
			col.verts = append(col.verts, Vertex{
				K:      append([]float64(nil), k...),
				Energy: mean / float64(end-start),
				States: cluster.Slice(rows, kept),
			})
		}
		start = end
	}
	return col, nil
}

// orthonormalize runs modified Gram-Schmidt over the columns of v in place
// and returns the indices of the columns whose squared residual stayed at
// or above tol, each normalized. The remaining columns are left as their
// residuals and must be ignored by the caller.
func orthonormalize(v *zmat.Dense, tol float64) []int {
	_, c := v.Dims()
	kept := make([]int, 0, c)
	for j := 0; j < c; j++ {
		xj := v.ColVector(j)
		for _, q := range kept {
			xq := v.ColVector(q)
			cblas128.Axpy(-cblas128.Dotc(xq, xj), xq, xj)
		}
		nrm := cblas128.Nrm2(xj)
		if nrm*nrm < tol {
			continue
		}
		cblas128.Scal(complex(1/nrm, 0), xj)
		kept = append(kept, j)
	}
	return kept
}
