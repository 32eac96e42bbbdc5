// SPDX-License-Identifier: MIT
// Package zmat: elementary unitary transformations. Householder reflector
// generation in the LAPACK zlarfg convention (real beta), plane rotations
// in the zlartg convention (real cosine), and their block applications.

package zmat

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
)

// lapy3 returns sqrt(x²+y²+z²) without intermediate overflow.
func lapy3(x, y, z float64) float64 {
	w := math.Max(math.Abs(x), math.Max(math.Abs(y), math.Abs(z)))
	if w == 0 {
		return 0
	}
	xs, ys, zs := x/w, y/w, z/w
	return w * math.Sqrt(xs*xs+ys*ys+zs*zs)
}

// larfg generates an elementary reflector H = I − tau·v·vᴴ with v = (1, x)
// such that Hᴴ·(alpha, x) = (beta, 0) and beta is real. On return x holds
// the tail of v in place. tau == 0 means H == I.
func larfg(alpha complex128, x cblas128.Vector) (beta float64, tau complex128) {
	var xnorm float64
	if x.N > 0 {
		xnorm = cblas128.Nrm2(x)
	}
	alphr, alphi := real(alpha), imag(alpha)
	if xnorm == 0 && alphi == 0 {
		return alphr, 0
	}
	beta = -math.Copysign(lapy3(alphr, alphi, xnorm), alphr)
	tau = complex((beta-alphr)/beta, -alphi/beta)
	if x.N > 0 {
		cblas128.Scal(1/(alpha-complex(beta, 0)), x)
	}
	return beta, tau
}

// lartg generates a plane rotation G = [[c, s], [−conj(s), c]] with real c
// such that G·(f, g) = (r, 0).
func lartg(f, g complex128) (c float64, s, r complex128) {
	if g == 0 {
		return 1, 0, f
	}
	if f == 0 {
		ag := cmplx.Abs(g)
		return 0, cmplx.Conj(g) / complex(ag, 0), complex(ag, 0)
	}
	af, ag := cmplx.Abs(f), cmplx.Abs(g)
	d := lapy3(af, ag, 0)
	c = af / d
	s = f * cmplx.Conj(g) / complex(af*d, 0)
	r = f * complex(d/af, 0)
	return c, s, r
}

// rotRows applies G to the row pair (k, l) of m over columns [jlo, jhi):
// row_k ← c·row_k + s·row_l, row_l ← −conj(s)·row_k + c·row_l.
func rotRows(m *Dense, k, l, jlo, jhi int, c float64, s complex128) {
	cc := complex(c, 0)
	sc := cmplx.Conj(s)
	for j := jlo; j < jhi; j++ {
		a := m.mat.Data[k*m.mat.Stride+j]
		b := m.mat.Data[l*m.mat.Stride+j]
		m.mat.Data[k*m.mat.Stride+j] = cc*a + s*b
		m.mat.Data[l*m.mat.Stride+j] = -sc*a + cc*b
	}
}

// rotCols applies Gᴴ to the column pair (k, l) of m over rows [ilo, ihi):
// col_k ← c·col_k + conj(s)·col_l, col_l ← −s·col_k + c·col_l.
func rotCols(m *Dense, k, l, ilo, ihi int, c float64, s complex128) {
	cc := complex(c, 0)
	sc := cmplx.Conj(s)
	for i := ilo; i < ihi; i++ {
		a := m.mat.Data[i*m.mat.Stride+k]
		b := m.mat.Data[i*m.mat.Stride+l]
		m.mat.Data[i*m.mat.Stride+k] = cc*a + sc*b
		m.mat.Data[i*m.mat.Stride+l] = -s*a + cc*b
	}
}

// reflectLeft overwrites the block m[row0:row0+len(v), col0:] with
// (I − tau·v·vᴴ) applied from the left. work needs m.Cols−col0 scratch.
func reflectLeft(m *Dense, row0, col0 int, v []complex128, tau complex128, work []complex128) {
	n := m.mat.Cols - col0
	if len(v) == 0 || n == 0 || tau == 0 {
		return
	}
	sub := cblas128.General{Rows: len(v), Cols: n, Stride: m.mat.Stride, Data: m.mat.Data[row0*m.mat.Stride+col0:]}
	vv := cblas128.Vector{N: len(v), Inc: 1, Data: v}
	w := cblas128.Vector{N: n, Inc: 1, Data: work[:n]}
	cblas128.Gemv(blas.ConjTrans, 1, sub, vv, 0, w)
	cblas128.Gerc(-tau, vv, w, sub)
}

// reflectRight overwrites the block m[row0:, col0:col0+len(v)] with
// (I − tau·v·vᴴ) applied from the right. work needs m.Rows−row0 scratch.
func reflectRight(m *Dense, row0, col0 int, v []complex128, tau complex128, work []complex128) {
	nr := m.mat.Rows - row0
	if len(v) == 0 || nr == 0 || tau == 0 {
		return
	}
	sub := cblas128.General{Rows: nr, Cols: len(v), Stride: m.mat.Stride, Data: m.mat.Data[row0*m.mat.Stride+col0:]}
	vv := cblas128.Vector{N: len(v), Inc: 1, Data: v}
	w := cblas128.Vector{N: nr, Inc: 1, Data: work[:nr]}
	cblas128.Gemv(blas.NoTrans, 1, sub, vv, 0, w)
	cblas128.Gerc(-tau, w, vv, sub)
}
