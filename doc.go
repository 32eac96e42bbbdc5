// Package bandknit is your toolkit for tracing band structures and
// Green's functions of tight-binding quantum systems — from Bloch
// Hamiltonians to knitted bands, surface self-energies and Landauer
// transmission.
//
// 🚀 What is bandknit?
//
//	A library built on gonum's dense complex kernels that brings together:
//		• Complex linear algebra: LU, Hermitian eigen, SVD and generalized Schur (QZ)
//		• Meshes: marching-simplex boxes and linear paths with edge splitting
//		• Bloch Hamiltonians: harmonic sums with Hermiticity validation
//		• Band knitting: diagonalize → connect → patch over any simplicial mesh
//		• Topological defects: edge splits onto declared degeneracy points
//		• Semi-infinite leads: deflated Schur solver, surface self-energies
//		• Green functions: cell slicing, T-matrix contacts, LDOS, transmission
//
// ✨ Why choose bandknit?
//
//   - Physics-first – degeneracies, windings and contacts are first-class
//   - Rock-solid numerics – deflation keeps coupled orbitals exact
//   - Concurrent where it pays – per-vertex diagonalization fans out,
//     everything else stays deterministic and single-threaded
//   - Composable – slicers, solvers and self-energies plug into each other
//
// Under the hood, everything is organized under six subpackages:
//
//	zmat/   — dense complex128 matrices + LAPACK-backed factorizations
//	mesh/   — simplicial meshes, cliques, orientation, edge splitting
//	bloch/  — harmonic Bloch Hamiltonians and nearest-cell extraction
//	band/   — the band tracker: spectra, knitting, defect patching
//	lead/   — semi-infinite 1-D leads: Schur factors, self-energies, slicing
//	greens/ — contact composition, observables, algorithm dispatch
//
// Quick sketch of the band tracker:
//
//	    E ↑       ___
//	      │   ___/   \___          two columns knitted across
//	      │  /   \___/   \         a mesh edge, one crossing
//	      │ /    /   \    \        resolved by subspace overlap
//	      └─────────────────→ k
//
// Dive into examples/ for graphene bands, chain transmission and
// hard-wall slicing, and DESIGN.md for the architecture notes.
//
//	go get github.com/katalvlaran/bandknit
package bandknit
