package band

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// patcher spends the patch budget splitting base edges at frustrated band
// crossings and reknitting the new columns into the band graph.
type patcher struct {
	kn      *knitter
	s       Solver
	cfg     config
	defects [][]float64
	queue   []crossing
}

// run executes the patch phase: pin user defects, then resolve frustrated
// crossings until the queue or the budget runs out. Whatever frustration
// remains is recorded on the band, as a warning by default or as
// ErrDislocations under WithDislocationError.
func (p *patcher) run() error {
	for _, d := range p.cfg.defects {
		if err := p.insertDefect(d); err != nil {
			return err
		}
	}
	p.drain()

	budget := p.cfg.patches
	splits := 0
	for budget > 0 && len(p.queue) > 0 {
		cr := p.pop()
		if !p.valid(cr) {
			continue
		}
		if _, err := p.split(cr.a, cr.b, p.crossPoint(cr)); err != nil {
			return err
		}
		budget--
		splits++
		p.drain()
	}

	resid := 0
	for _, cr := range p.queue {
		if p.valid(cr) {
			resid++
		}
	}
	p.kn.b.Dislocations = resid
	if p.cfg.logger != nil {
		p.cfg.logger.Debug("band: patched",
			"splits", splits, "defects", len(p.cfg.defects), "unresolved", resid)
	}
	if resid > 0 {
		if p.cfg.dislocErr {
			return fmt.Errorf("%w: %d after %d splits", ErrDislocations, resid, splits)
		}
		if p.cfg.logger != nil {
			p.cfg.logger.Warn("band: unresolved dislocations",
				"count", resid, "splits", splits, "budget", p.cfg.patches)
		}
	}
	return nil
}

// drain moves freshly recorded crossings from the knitter into the queue.
func (p *patcher) drain() {
	p.queue = append(p.queue, p.kn.crossings...)
	p.kn.crossings = p.kn.crossings[:0]
}

// insertDefect splits the edge whose midpoint lies nearest to the defect,
// placing the new vertex at the defect itself. Defect splits do not touch
// the patch budget.
func (p *patcher) insertDefect(d []float64) error {
	m := p.kn.b.Mesh
	bestA, bestB, bestDist := -1, -1, math.Inf(1)
	mid := make([]float64, m.EmbeddingDim())
	for a := 0; a < m.NumVerts(); a++ {
		ka := m.Coord(a)
		for _, c := range m.Neighbors(a) {
			if c <= a {
				continue
			}
			kc := m.Coord(c)
			for t := range mid {
				mid[t] = 0.5 * (ka[t] + kc[t])
			}
			if dist := floats.Distance(mid, d, 2); dist < bestDist {
				bestA, bestB, bestDist = a, c, dist
			}
		}
	}
	if bestA < 0 {
		return fmt.Errorf("band: mesh has no edge to pin defect %v on: %w", d, ErrBadInput)
	}
	if _, err := p.split(bestA, bestB, d); err != nil {
		return err
	}
	p.defects = append(p.defects, append([]float64(nil), d...))
	return nil
}

// split performs one base-edge split: retriangulate the mesh, drop the
// stale band seam between the split columns, solve the new column and knit
// every seam incident to the new vertex.
func (p *patcher) split(a, b int, point []float64) (int, error) {
	bd := p.kn.b
	m := bd.Mesh

	w, err := m.SplitEdge(a, b, point)
	if err != nil {
		return 0, err
	}
	p.kn.dropSeam(a, b)

	col, err := solveColumn(p.s, m.Coord(w), p.cfg.degTol)
	if err != nil {
		return 0, fmt.Errorf("band: patch vertex %d at %v: %w", w, m.Coord(w), err)
	}
	bd.Verts = append(bd.Verts, col.verts...)
	bd.colOff = append(bd.colOff, len(bd.Verts))
	for range col.verts {
		bd.neighbors = append(bd.neighbors, nil)
	}

	for _, nb := range m.Neighbors(w) {
		if err := p.kn.seam(nb, w); err != nil {
			return 0, err
		}
	}
	return w, nil
}

// pop removes the next crossing to patch: with defects present, the one
// farthest from its nearest defect; otherwise the oldest.
func (p *patcher) pop() crossing {
	if len(p.defects) == 0 {
		cr := p.queue[0]
		p.queue = p.queue[1:]
		return cr
	}
	best, bestDist := 0, math.Inf(-1)
	for qi, cr := range p.queue {
		if d := p.defectDistance(p.crossPoint(cr)); d > bestDist {
			best, bestDist = qi, d
		}
	}
	cr := p.queue[best]
	p.queue = append(p.queue[:best], p.queue[best+1:]...)
	return cr
}

// valid re-checks a popped crossing against the current graphs: its base
// edge and both band edges must still exist and the frustration must still
// be present.
func (p *patcher) valid(cr crossing) bool {
	m := p.kn.b.Mesh
	if !containsSorted(m.Neighbors(cr.a), cr.b) {
		return false
	}
	ns := p.kn.b.neighbors
	if !containsSorted(ns[cr.i], cr.j) || !containsSorted(ns[cr.i2], cr.j2) {
		return false
	}
	return p.frustrated(cr)
}

// frustrated reports whether the crossing still tangles the band graph:
// the common neighborhoods across the two connections disagree.
func (p *patcher) frustrated(cr crossing) bool {
	ns := p.kn.b.neighbors
	return !equalInts(
		intersectSorted(ns[cr.i], ns[cr.j2]),
		intersectSorted(ns[cr.i2], ns[cr.j]),
	)
}

// crossPoint interpolates the energy-crossing location along the base
// edge. Degenerate energy differences fall back to the midpoint.
func (p *patcher) crossPoint(cr crossing) []float64 {
	bd := p.kn.b
	ei, ej := bd.Verts[cr.i].Energy, bd.Verts[cr.j].Energy
	ei2, ej2 := bd.Verts[cr.i2].Energy, bd.Verts[cr.j2].Energy
	lam := 0.5
	if den := ej2 - ei2 - ej + ei; den != 0 {
		lam = (ei - ei2) / den
		if math.IsNaN(lam) || lam <= 0 || lam >= 1 {
			lam = 0.5
		}
	}
	ka, kb := bd.Mesh.Coord(cr.a), bd.Mesh.Coord(cr.b)
	out := make([]float64, len(ka))
	for t := range out {
		out[t] = ka[t] + lam*(kb[t]-ka[t])
	}
	return out
}

// defectDistance returns the distance from k to the nearest pinned defect.
func (p *patcher) defectDistance(k []float64) float64 {
	nearest := math.Inf(1)
	for _, d := range p.defects {
		if dist := floats.Distance(k, d, 2); dist < nearest {
			nearest = dist
		}
	}
	return nearest
}
