package band

import "github.com/katalvlaran/bandknit/zmat"

// crossing is a pair of band connections over one base edge that swap
// energy order between its endpoints: i2 sits below i in column a while
// its partner j2 sits above j in column b.
type crossing struct {
	a, b   int // base edge, a < b
	i, j   int // upper connection, i in column a, j in column b
	i2, j2 int // lower connection crossing it
}

// knitter builds the band adjacency and, when tracking, the crossing
// candidates feeding the patch phase.
type knitter struct {
	b         *Band
	thr       float64
	track     bool
	crossings []crossing
}

// seam connects the columns across base edge (a, b) with a < b: every
// subspace pair whose connection rank is at least 1 becomes a band edge.
func (kn *knitter) seam(a, b int) error {
	alo, ahi := kn.b.ColumnRange(a)
	blo, bhi := kn.b.ColumnRange(b)
	type conn struct{ i, j int }
	var conns []conn
	for vi := alo; vi < ahi; vi++ {
		for vj := blo; vj < bhi; vj++ {
			rank, err := connectionRank(kn.b.Verts[vj].States, kn.b.Verts[vi].States, kn.thr)
			if err != nil {
				return err
			}
			if rank == 0 {
				continue
			}
			kn.b.neighbors[vi] = insertSorted(kn.b.neighbors[vi], vj)
			kn.b.neighbors[vj] = insertSorted(kn.b.neighbors[vj], vi)
			if kn.track {
				// The loop order guarantees prev.i <= vi, so a crossing
				// needs a strictly lower first column index and a strictly
				// higher second one.
				for _, prev := range conns {
					if prev.i < vi && prev.j > vj {
						kn.crossings = append(kn.crossings,
							crossing{a: a, b: b, i: vi, j: vj, i2: prev.i, j2: prev.j})
					}
				}
			}
			conns = append(conns, conn{vi, vj})
		}
	}
	return nil
}

// dropSeam removes every band edge between the columns of base vertices a
// and b, invalidating crossings recorded over that seam.
func (kn *knitter) dropSeam(a, b int) {
	alo, ahi := kn.b.ColumnRange(a)
	blo, bhi := kn.b.ColumnRange(b)
	for vi := alo; vi < ahi; vi++ {
		for vj := blo; vj < bhi; vj++ {
			kn.b.neighbors[vi] = removeSorted(kn.b.neighbors[vi], vj)
			kn.b.neighbors[vj] = removeSorted(kn.b.neighbors[vj], vi)
		}
	}
}

// connectionRank counts the connected state pairs between two subspaces:
// singular values of the cross projector P = VⱼᴴVᵢ with σ² at or above
// thr. A projector with squared Frobenius norm under thr cannot carry a
// connection; a pair with a one-dimensional side cannot carry more than
// one, sparing the SVD.
func connectionRank(vj, vi *zmat.Dense, thr float64) (int, error) {
	var p zmat.Dense
	p.MulCH(vj, vi)
	fro := p.Norm()
	if fro*fro < thr {
		return 0, nil
	}
	r, c := p.Dims()
	if r == 1 || c == 1 {
		return 1, nil
	}
	sv, err := zmat.SingularValues(&p)
	if err != nil {
		return 0, err
	}
	rank := 0
	for _, s := range sv {
		if s*s >= thr {
			rank++
		}
	}
	return rank, nil
}
