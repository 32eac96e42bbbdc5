// SPDX-License-Identifier: MIT
// Package zmat: sentinel error set.
// Shape violations panic (programmer errors); these sentinels cover the
// conditions a numerically valid program can still run into. Callers match
// them with errors.Is after unwrapping.

package zmat

import "errors"

var (
	// ErrSingular is returned when a factorization meets an exactly zero
	// pivot, or when a solve/inverse is requested from such a factorization.
	ErrSingular = errors.New("zmat: matrix is singular")

	// ErrConvergence is returned when an iterative eigenvalue computation
	// (tridiagonal QR inside EigHermitian, or the QZ sweep) fails to
	// converge within its iteration budget.
	ErrConvergence = errors.New("zmat: eigenvalue iteration did not converge")
)
