package bloch

import (
	"fmt"

	"github.com/katalvlaran/bandknit/zmat"
)

// NearestCell extracts the hopping triple (h₋₁, h₀, h₊₁) of a 1-D
// nearest-neighbor Hamiltonian, with hp[o,o'] = ⟨n,o|H|n+1,o'⟩. Missing
// displacements come back as zero blocks. Any harmonic beyond |dn| = 1,
// or a lattice dimension other than 1, is rejected with ErrNotNearestCell;
// a broken adjoint pair h₋₁ ≠ h₊₁ᴴ with ErrNonHermitian. The returned
// matrices are fresh copies.
func NearestCell(h Hamiltonian) (hm, h0, hp *zmat.Dense, err error) {
	if ld := h.LatticeDim(); ld != 1 {
		return nil, nil, nil, fmt.Errorf("bloch: lattice dimension %d: %w", ld, ErrNotNearestCell)
	}
	n := h.Dim()
	hm, h0, hp = zmat.NewDense(n, n), zmat.NewDense(n, n), zmat.NewDense(n, n)
	for _, hr := range h.Harmonics() {
		switch hr.Dn[0] {
		case -1:
			hm.CopyFrom(hr.M)
		case 0:
			h0.CopyFrom(hr.M)
		case 1:
			hp.CopyFrom(hr.M)
		default:
			return nil, nil, nil, fmt.Errorf("bloch: harmonic at displacement %d: %w", hr.Dn[0], ErrNotNearestCell)
		}
	}
	// Revalidate here: the interface does not promise New's checks.
	if !adjointPair(hp, hm) {
		return nil, nil, nil, fmt.Errorf("bloch: h₋₁ is not h₊₁ᴴ: %w", ErrNonHermitian)
	}
	if !adjointPair(h0, h0) {
		return nil, nil, nil, fmt.Errorf("bloch: on-cell block is not Hermitian: %w", ErrNonHermitian)
	}
	return hm, h0, hp, nil
}
