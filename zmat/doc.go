// SPDX-License-Identifier: MIT

// Package zmat implements the dense complex linear algebra kernel used by
// the band and lead solvers: general matrix arithmetic on top of
// gonum's cblas128 layer, an LU factorization with partial pivoting,
// a Hermitian eigensolver (Householder tridiagonalization plus the
// lapack/gonum real tridiagonal QR), singular values, and a complex
// generalized Schur (QZ) factorization with eigenvalue reordering.
//
// Conventions follow gonum rather than the adapter packages above it:
//   - Shape violations panic. They are programmer errors, never data errors.
//   - Numerical failures return sentinel errors (ErrSingular,
//     ErrConvergence) that callers match with errors.Is.
//   - Matrices are row-major cblas128.General under the hood; RawMatrix
//     exposes the backing storage for callers that need BLAS directly.
//
// The package is deliberately small: it implements exactly the complex
// kernels the rest of the module needs and nothing more. Real symmetric
// work is delegated to gonum (lapack/gonum Dsteqr); complex kernels are
// implemented here because no pure-Go complex LAPACK exists.
package zmat
