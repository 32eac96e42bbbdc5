// SPDX-License-Identifier: MIT

// Package lead computes surface Green's functions and self-energies of
// semi-infinite one-dimensional tight-binding leads.
//
// A lead is specified by its three nearest-cell blocks h₋₁, h₀, h₊₁ with
// h₋₁ = h₊₁ᴴ, so that ⟨n|H|n+1⟩ = h₊₁ along the lattice. NewSolver
// deflates the inter-cell coupling through its sparsity pattern,
// h₊₁ = L·Rᴴ with d = min(left, right) boundary orbitals, which shrinks
// the transfer-matrix eigenproblem from 2·orbitals to 2d. Factors then
// solves that pencil at one frequency ω by generalized Schur (QZ)
// decomposition, splitting the Bloch factors λ = e^{ik} into d retarded
// (|λ| < 1) and d advanced modes, and returns the self-energies in
// factored triple form Σ = V·C⁻¹·W.
//
// GreenSlicer turns one decomposition into G(n, m) over cell pairs of
// the unbounded lattice, or of a lattice with one deleted hard-wall
// cell, through the geometric closed form of the inter-cell propagator.
//
// Frequencies need a nonzero imaginary part: on the real axis
// propagating modes sit on the unit circle and the retarded/advanced
// partition is ill-defined. Use ω + iη with small η > 0 for the
// retarded functions.
package lead
