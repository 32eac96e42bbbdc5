// Package bloch abstracts tight-binding Hamiltonians as sets of hopping
// harmonics h_dn between lattice cells displaced by dn, evaluated on demand
// as Bloch matrices
//
//	H(φ) = Σ_dn h_dn · e^{i dn·φ}.
//
// The reference implementation built by New validates Hermiticity at
// construction: harmonics come in conjugate pairs h_{-dn} = h_dnᴴ and the
// on-cell block h_0 is Hermitian, so H(φ) is Hermitian for every real φ.
//
// NearestCell extracts the (h₋₁, h₀, h₊₁) triple of a strictly
// nearest-neighbor 1-D Hamiltonian, the input form consumed by the lead
// solver.
package bloch
