package bloch

import "errors"

var (
	// ErrBadHarmonic reports a structurally invalid harmonic set: no
	// harmonics, inconsistent block shapes, displacement length not equal
	// to the lattice dimension, duplicates, or a missing on-cell block.
	ErrBadHarmonic = errors.New("bloch: bad harmonic set")

	// ErrNonHermitian reports harmonics that violate the conjugate pairing
	// h_{-dn} = h_dnᴴ, including a non-Hermitian on-cell block.
	ErrNonHermitian = errors.New("bloch: non-Hermitian harmonics")

	// ErrPhaseDim reports a Bloch phase vector whose length differs from
	// the lattice dimension.
	ErrPhaseDim = errors.New("bloch: wrong phase dimension")

	// ErrNotNearestCell reports a Hamiltonian outside the nearest-cell
	// 1-D form: lattice dimension other than 1 or |dn| > 1 harmonics.
	ErrNotNearestCell = errors.New("bloch: not a nearest-cell 1-D Hamiltonian")
)
