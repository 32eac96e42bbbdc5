// Package band computes band structures over simplicial base meshes and
// knits them into a connected band graph.
//
// Compute runs three stages with a barrier between them:
//
//  1. Diagonalize: a worker pool solves the spectrum at every mesh vertex
//     exactly once; eigenvalues closer than the degeneracy tolerance merge
//     into one band vertex carrying an orthonormal basis of the cluster
//     subspace.
//  2. Knit: across every mesh edge, subspace pairs connect when the cross
//     projector VⱼᴴVᵢ carries enough singular weight; the resulting edges
//     form the band graph, and pairs of connections that swap energy order
//     become crossing candidates.
//  3. Patch: optional, for meshes of dimension 2 and up. Crossing
//     candidates that frustrate the band graph around known degeneracies
//     are resolved by splitting the base edge at the interpolated crossing
//     and reknitting; WithDefects pins known degeneracy points first, and
//     the budget of WithPatches caps the number of splits. Unresolved
//     frustration is reported as Band.Dislocations.
//
// The Solver interface decouples the tracker from the Hamiltonian:
// NewDenseSolver adapts a bloch.Hamiltonian through dense Hermitian
// diagonalization, and custom solvers can wrap sparse or projected models.
package band
