// SPDX-License-Identifier: MIT
// Package zmat: Hermitian eigendecomposition. The complex matrix is
// reduced to real symmetric tridiagonal form by Householder similarity
// (the unblocked zhetd2 scheme, lower triangle), the tridiagonal problem
// is handed to gonum's Dsteqr, and the real eigenvectors are lifted back
// through the accumulated complex reflectors.

package zmat

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/lapack"
	lapackimpl "gonum.org/v1/gonum/lapack/gonum"
)

// EigHermitian computes the eigenvalues and eigenvectors of the Hermitian
// matrix a. Only the lower triangle of a is read; a is not modified.
// Eigenvalues come back in ascending order with the corresponding
// orthonormal eigenvectors as the columns of the returned matrix.
// Returns ErrConvergence if the tridiagonal QR iteration stalls.
// Time: O(n³); memory: O(n²).
func EigHermitian(a *Dense) ([]float64, *Dense, error) {
	r, c := a.Dims()
	if r != c {
		panic(fmt.Sprintf("zmat: eigendecomposition of non-square %d×%d matrix", r, c))
	}
	n := r
	switch n {
	case 0:
		return nil, NewDense(0, 0), nil
	case 1:
		v := Identity(1)
		return []float64{real(a.At(0, 0))}, v, nil
	}

	w := a.Clone()
	d := make([]float64, n)
	e := make([]float64, n-1)
	tau := make([]complex128, n-1)
	scratch := make([]complex128, n)

	// Reduce to real symmetric tridiagonal form, storing the reflector
	// tails in the strictly lower part of w.
	stride := w.mat.Stride
	for i := 0; i < n-1; i++ {
		var x cblas128.Vector
		if tail := n - i - 2; tail > 0 {
			x = cblas128.Vector{N: tail, Inc: stride, Data: w.mat.Data[(i+2)*stride+i:]}
		}
		beta, taui := larfg(w.mat.Data[(i+1)*stride+i], x)
		e[i] = beta
		if taui != 0 {
			w.mat.Data[(i+1)*stride+i] = 1
			nv := n - i - 1
			v := cblas128.Vector{N: nv, Inc: stride, Data: w.mat.Data[(i+1)*stride+i:]}
			trail := cblas128.Hermitian{N: nv, Stride: stride, Data: w.mat.Data[(i+1)*stride+(i+1):], Uplo: blas.Lower}
			p := cblas128.Vector{N: nv, Inc: 1, Data: scratch[:nv]}
			cblas128.Hemv(taui, trail, v, 0, p)
			alpha := -0.5 * taui * cblas128.Dotc(p, v)
			cblas128.Axpy(alpha, v, p)
			cblas128.Her2(-1, v, p, trail)
			w.mat.Data[(i+1)*stride+i] = complex(beta, 0)
		}
		tau[i] = taui
		d[i] = real(w.mat.Data[i*stride+i])
	}
	d[n-1] = real(w.mat.Data[(n-1)*stride+(n-1)])

	// Accumulate Q = H_0·H_1···H_{n-2} against the identity.
	q := Identity(n)
	vbuf := make([]complex128, n)
	for i := n - 2; i >= 0; i-- {
		if tau[i] == 0 {
			continue
		}
		nv := n - i - 1
		vbuf[0] = 1
		for k := 1; k < nv; k++ {
			vbuf[k] = w.mat.Data[(i+1+k)*stride+i]
		}
		reflectLeft(q, i+1, 0, vbuf[:nv], tau[i], scratch)
	}

	// Real tridiagonal eigenproblem.
	z := make([]float64, n*n)
	rwork := make([]float64, 2*n-2)
	var impl lapackimpl.Implementation
	if ok := impl.Dsteqr(lapack.EVTridiag, n, d, e, z, n, rwork); !ok {
		return nil, nil, fmt.Errorf("zmat: hermitian eigensolve: %w", ErrConvergence)
	}

	vecs := new(Dense)
	vecs.Mul(q, FromReal(n, n, z))
	return d, vecs, nil
}
