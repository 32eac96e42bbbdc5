// SPDX-License-Identifier: MIT
// Package zmat: matrix arithmetic. All products go through cblas128.Gemm;
// receivers are resized on demand and must not alias the operands.

package zmat

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
)

// Mul stores a·b into the receiver.
func (m *Dense) Mul(a, b *Dense) { m.gemm(blas.NoTrans, blas.NoTrans, a, b) }

// MulCH stores aᴴ·b into the receiver.
func (m *Dense) MulCH(a, b *Dense) { m.gemm(blas.ConjTrans, blas.NoTrans, a, b) }

// MulHC stores a·bᴴ into the receiver.
func (m *Dense) MulHC(a, b *Dense) { m.gemm(blas.NoTrans, blas.ConjTrans, a, b) }

func (m *Dense) gemm(tA, tB blas.Transpose, a, b *Dense) {
	ar, ac := a.Dims()
	if tA == blas.ConjTrans {
		ar, ac = ac, ar
	}
	br, bc := b.Dims()
	if tB == blas.ConjTrans {
		br, bc = bc, br
	}
	if ac != br {
		panic(fmt.Sprintf("zmat: product dimension mismatch %d×%d by %d×%d", ar, ac, br, bc))
	}
	if m == a || m == b {
		panic("zmat: product receiver aliases an operand")
	}
	m.reuseAs(ar, bc)
	if ar == 0 || bc == 0 {
		return
	}
	if ac == 0 {
		m.Zero()
		return
	}
	cblas128.Gemm(tA, tB, 1, a.mat, b.mat, 0, m.mat)
}

// Add stores a+b into the receiver. The receiver may alias a or b.
func (m *Dense) Add(a, b *Dense) { m.elementwise(a, b, func(x, y complex128) complex128 { return x + y }) }

// Sub stores a−b into the receiver. The receiver may alias a or b.
func (m *Dense) Sub(a, b *Dense) { m.elementwise(a, b, func(x, y complex128) complex128 { return x - y }) }

func (m *Dense) elementwise(a, b *Dense, op func(x, y complex128) complex128) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		panic(fmt.Sprintf("zmat: elementwise dimension mismatch %d×%d vs %d×%d", ar, ac, br, bc))
	}
	if m != a && m != b {
		m.reuseAs(ar, ac)
	}
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			m.mat.Data[i*m.mat.Stride+j] = op(a.mat.Data[i*a.mat.Stride+j], b.mat.Data[i*b.mat.Stride+j])
		}
	}
}

// Scale stores alpha·a into the receiver. The receiver may alias a.
func (m *Dense) Scale(alpha complex128, a *Dense) {
	ar, ac := a.Dims()
	if m != a {
		m.reuseAs(ar, ac)
	}
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			m.mat.Data[i*m.mat.Stride+j] = alpha * a.mat.Data[i*a.mat.Stride+j]
		}
	}
}

// AddScaled adds alpha·a to the receiver in place.
func (m *Dense) AddScaled(alpha complex128, a *Dense) {
	ar, ac := a.Dims()
	mr, mc := m.Dims()
	if ar != mr || ac != mc {
		panic(fmt.Sprintf("zmat: addscaled dimension mismatch %d×%d vs %d×%d", mr, mc, ar, ac))
	}
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			m.mat.Data[i*m.mat.Stride+j] += alpha * a.mat.Data[i*a.mat.Stride+j]
		}
	}
}

// Norm returns the Frobenius norm.
func (m *Dense) Norm() float64 {
	var sum float64
	for i := 0; i < m.mat.Rows; i++ {
		for j := 0; j < m.mat.Cols; j++ {
			v := m.mat.Data[i*m.mat.Stride+j]
			sum += real(v)*real(v) + imag(v)*imag(v)
		}
	}
	return math.Sqrt(sum)
}

// MaxAbs returns the largest element modulus, 0 for an empty matrix.
func (m *Dense) MaxAbs() float64 {
	var mx float64
	for i := 0; i < m.mat.Rows; i++ {
		for j := 0; j < m.mat.Cols; j++ {
			if a := cmplx.Abs(m.mat.Data[i*m.mat.Stride+j]); a > mx {
				mx = a
			}
		}
	}
	return mx
}

// EqualApprox reports whether a and b have the same shape and agree
// elementwise within tol in modulus.
func EqualApprox(a, b *Dense, tol float64) bool {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return false
	}
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			if cmplx.Abs(a.At(i, j)-b.At(i, j)) > tol {
				return false
			}
		}
	}
	return true
}
