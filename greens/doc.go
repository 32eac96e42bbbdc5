// SPDX-License-Identifier: MIT

// Package greens composes Green's functions of quantum systems with
// contacts.
//
// The bare Green's function of a contactless system enters as a Slicer,
// an indexable view G₀(rows, cols) over a fixed orbital space. Contacts
// enter as SelfEnergy blocks, each acting on a subset of device
// orbitals, given as a constant matrix, a frequency callback, or a
// factored triple with auxiliary orbitals from the lead solver. Compose
// dresses the bare function with all contacts at once through the
// T-matrix form of the Dyson equation,
//
//	den = I − Σ·g₀,  T = den⁻¹·Σ,  G = g₀ + g₀·T·g₀,
//
// where Σ and g₀ are restricted to the contact orbital union. The
// correction is confined to that subspace, so arbitrary inter-orbital
// queries reuse the one factorization of den regardless of where they
// land.
//
// DenseGreen supplies (ωI−H)⁻¹ of a finite system as a reference
// Slicer, and Apply dispatches between it and the Schur lead solver
// behind a frequency-indexed interface. LDOS and Transmission derive
// the standard single-particle observables from composed functions.
package greens
