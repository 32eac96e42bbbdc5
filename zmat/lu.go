// SPDX-License-Identifier: MIT
// Package zmat: LU factorization with partial pivoting (complex getrf/getrs).

package zmat

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
)

// LU holds a factorization P·A = L·U with unit lower triangular L and
// upper triangular U packed into one matrix, plus the pivot rows.
type LU struct {
	lu  *Dense
	piv []int
}

// cabs1 is the |Re|+|Im| modulus used for pivot comparison.
func cabs1(v complex128) float64 {
	re, im := real(v), imag(v)
	if re < 0 {
		re = -re
	}
	if im < 0 {
		im = -im
	}
	return re + im
}

// LUFactorize factorizes the square matrix a. It does not modify a.
// Returns ErrSingular when an exactly zero pivot is met; the caller gets
// no factorization in that case.
// Time: O(n³); memory: O(n²).
func LUFactorize(a *Dense) (*LU, error) {
	r, c := a.Dims()
	if r != c {
		panic(fmt.Sprintf("zmat: LU of non-square %d×%d matrix", r, c))
	}
	n := r
	f := &LU{lu: a.Clone(), piv: make([]int, n)}
	m := &f.lu.mat
	for k := 0; k < n; k++ {
		// Pivot search on column k.
		p, best := k, cabs1(m.Data[k*m.Stride+k])
		for i := k + 1; i < n; i++ {
			if v := cabs1(m.Data[i*m.Stride+k]); v > best {
				p, best = i, v
			}
		}
		f.piv[k] = p
		if p != k {
			rk := m.Data[k*m.Stride : k*m.Stride+n]
			rp := m.Data[p*m.Stride : p*m.Stride+n]
			for j := range rk {
				rk[j], rp[j] = rp[j], rk[j]
			}
		}
		pivot := m.Data[k*m.Stride+k]
		if pivot == 0 {
			return nil, fmt.Errorf("zmat: zero pivot at row %d: %w", k, ErrSingular)
		}
		inv := 1 / pivot
		for i := k + 1; i < n; i++ {
			m.Data[i*m.Stride+k] *= inv
		}
		if k+1 < n {
			x := cblas128.Vector{N: n - k - 1, Inc: m.Stride, Data: m.Data[(k+1)*m.Stride+k:]}
			y := cblas128.Vector{N: n - k - 1, Inc: 1, Data: m.Data[k*m.Stride+k+1:]}
			sub := cblas128.General{Rows: n - k - 1, Cols: n - k - 1, Stride: m.Stride, Data: m.Data[(k+1)*m.Stride+k+1:]}
			cblas128.Geru(-1, x, y, sub)
		}
	}
	return f, nil
}

// SolveTo stores A⁻¹·b into dst. dst may alias b.
func (f *LU) SolveTo(dst, b *Dense) {
	n := len(f.piv)
	br, bc := b.Dims()
	if br != n {
		panic(fmt.Sprintf("zmat: solve dimension mismatch %d vs %d", br, n))
	}
	if dst != b {
		dst.CopyFrom(b)
	}
	for k := 0; k < n; k++ {
		if p := f.piv[k]; p != k {
			rk := dst.mat.Data[k*dst.mat.Stride : k*dst.mat.Stride+bc]
			rp := dst.mat.Data[p*dst.mat.Stride : p*dst.mat.Stride+bc]
			for j := range rk {
				rk[j], rp[j] = rp[j], rk[j]
			}
		}
	}
	lower := cblas128.Triangular{N: n, Stride: f.lu.mat.Stride, Data: f.lu.mat.Data, Uplo: blas.Lower, Diag: blas.Unit}
	upper := cblas128.Triangular{N: n, Stride: f.lu.mat.Stride, Data: f.lu.mat.Data, Uplo: blas.Upper, Diag: blas.NonUnit}
	cblas128.Trsm(blas.Left, blas.NoTrans, 1, lower, dst.mat)
	cblas128.Trsm(blas.Left, blas.NoTrans, 1, upper, dst.mat)
}

// Solve returns a fresh X with A·X = b.
func (f *LU) Solve(b *Dense) *Dense {
	x := b.Clone()
	f.SolveTo(x, x)
	return x
}

// Inverse returns A⁻¹.
func (f *LU) Inverse() *Dense {
	return f.Solve(Identity(len(f.piv)))
}
