// SPDX-License-Identifier: MIT
// Package zmat: complex generalized Schur (QZ) factorization.
// The pipeline is the unblocked LAPACK one: Householder QR of B, then
// Hessenberg-triangular reduction by Givens rotations (zgghrd), then a
// single-shift implicit QZ iteration (zhgeqz) with deflation of both
// converged and infinite eigenvalues at the active window's edge.

package zmat

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/blas/cblas128"
)

const (
	ulp    = 2.220446049250313e-16
	safmin = 2.2250738585072014e-308
)

// SchurFactors holds A = Q·S·Zᴴ and B = Q·T·Zᴴ with S, T upper
// triangular and Q, Z unitary. The generalized eigenvalue pairs of
// (A, B) are the diagonal pairs (S_kk, T_kk).
type SchurFactors struct {
	S, T *Dense
	Q, Z *Dense
}

// Eigenvalues returns the diagonal pairs (alpha_k, beta_k). The k-th
// generalized eigenvalue is alpha_k/beta_k, infinite when beta_k is zero.
func (f *SchurFactors) Eigenvalues() (alpha, beta []complex128) {
	n, _ := f.S.Dims()
	alpha = make([]complex128, n)
	beta = make([]complex128, n)
	for k := 0; k < n; k++ {
		alpha[k] = f.S.At(k, k)
		beta[k] = f.T.At(k, k)
	}
	return alpha, beta
}

// QZ computes the generalized Schur factorization of the square pencil
// (a, b). Neither input is modified. Returns ErrConvergence when the
// implicit QZ iteration exceeds its budget of 30 sweeps per eigenvalue.
// Time: O(n³); memory: O(n²).
func QZ(a, b *Dense) (*SchurFactors, error) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != ac || br != bc || ar != br {
		panic(fmt.Sprintf("zmat: QZ of mismatched pencil %d×%d vs %d×%d", ar, ac, br, bc))
	}
	n := ar
	f := &SchurFactors{S: a.Clone(), T: b.Clone(), Q: Identity(n), Z: Identity(n)}
	if n <= 1 {
		return f, nil
	}
	f.reduceHT()
	if err := f.iterate(); err != nil {
		return nil, err
	}
	return f, nil
}

// reduceHT brings (S, T) to Hessenberg-triangular form, accumulating Q, Z.
func (f *SchurFactors) reduceHT() {
	s, t, q, z := f.S, f.T, f.Q, f.Z
	n, _ := s.Dims()
	stride := t.mat.Stride

	// Stage 1: QR of T. Reflectors apply from the left to T and S and
	// accumulate into Q.
	vbuf := make([]complex128, n)
	work := make([]complex128, n)
	for k := 0; k < n-1; k++ {
		var x cblas128.Vector
		if tail := n - k - 1; tail > 0 {
			x = cblas128.Vector{N: tail, Inc: stride, Data: t.mat.Data[(k+1)*stride+k:]}
		}
		beta, tauk := larfg(t.mat.Data[k*stride+k], x)
		nv := n - k
		vbuf[0] = 1
		for m := 1; m < nv; m++ {
			vbuf[m] = t.mat.Data[(k+m)*stride+k]
		}
		reflectLeft(t, k, k+1, vbuf[:nv], cmplx.Conj(tauk), work)
		reflectLeft(s, k, 0, vbuf[:nv], cmplx.Conj(tauk), work)
		reflectRight(q, 0, k, vbuf[:nv], tauk, work)
		t.mat.Data[k*stride+k] = complex(beta, 0)
		for m := k + 1; m < n; m++ {
			t.mat.Data[m*stride+k] = 0
		}
	}

	// Stage 2: reduce S to upper Hessenberg, keeping T triangular.
	for j := 0; j <= n-3; j++ {
		for i := n - 1; i >= j+2; i-- {
			// Row rotation zeroes S[i][j].
			cG, sG, rG := lartg(s.At(i-1, j), s.At(i, j))
			s.Set(i-1, j, rG)
			s.Set(i, j, 0)
			rotRows(s, i-1, i, j+1, n, cG, sG)
			rotRows(t, i-1, i, i-1, n, cG, sG)
			rotCols(q, i-1, i, 0, n, cG, sG)
			// Column rotation restores T[i][i-1] to zero.
			c2, s2, _ := lartg(t.At(i, i), t.At(i, i-1))
			s2 = -s2
			rotCols(t, i-1, i, 0, i+1, c2, s2)
			rotCols(s, i-1, i, 0, n, c2, s2)
			rotCols(z, i-1, i, 0, n, c2, s2)
			t.Set(i, i-1, 0)
		}
	}
}

// iterate runs the single-shift implicit QZ iteration to convergence.
func (f *SchurFactors) iterate() error {
	s, t, q, z := f.S, f.T, f.Q, f.Z
	n, _ := s.Dims()
	atol := math.Max(safmin, ulp*s.Norm())
	btol := math.Max(safmin, ulp*t.Norm())

	negligible := func(k int) bool {
		tst := cabs1(s.At(k-1, k-1)) + cabs1(s.At(k, k))
		return cabs1(s.At(k, k-1)) <= math.Max(atol, ulp*tst)
	}

	ilast := n - 1
	sinceDeflate := 0
	var eshift complex128
	for jiter := 0; ; jiter++ {
		if ilast <= 0 {
			break
		}
		if jiter > 30*n {
			return fmt.Errorf("zmat: QZ after %d sweeps: %w", jiter, ErrConvergence)
		}
		// Converged eigenvalue at the window edge.
		if negligible(ilast) {
			s.Set(ilast, ilast-1, 0)
			ilast--
			sinceDeflate = 0
			continue
		}
		// Infinite eigenvalue at the window edge: zero the B diagonal,
		// push the subdiagonal of S out with a column rotation.
		if cabs1(t.At(ilast, ilast)) <= btol {
			t.Set(ilast, ilast, 0)
			c2, s2, _ := lartg(s.At(ilast, ilast), s.At(ilast, ilast-1))
			s2 = -s2
			rotCols(s, ilast-1, ilast, 0, ilast+1, c2, s2)
			rotCols(t, ilast-1, ilast, 0, ilast, c2, s2)
			rotCols(z, ilast-1, ilast, 0, n, c2, s2)
			s.Set(ilast, ilast-1, 0)
			ilast--
			sinceDeflate = 0
			continue
		}
		// Active window start.
		ifirst := ilast
		for ifirst > 0 && !negligible(ifirst) {
			ifirst--
		}
		if ifirst > 0 {
			s.Set(ifirst, ifirst-1, 0)
		}

		sinceDeflate++
		var shift complex128
		if sinceDeflate%10 == 0 {
			// Exceptional shift to break symmetry-induced cycles.
			eshift += divGuard(s.At(ilast, ilast-1), t.At(ilast-1, ilast-1), btol)
			shift = eshift
		} else {
			shift = wilkinson(s, t, ilast, btol)
		}
		sweep(s, t, q, z, ifirst, ilast, shift)
	}
	return nil
}

// wilkinson picks the generalized eigenvalue of the trailing 2×2 pencil
// block closest to the corner ratio.
func wilkinson(s, t *Dense, ilast int, btol float64) complex128 {
	a11, a12 := s.At(ilast-1, ilast-1), s.At(ilast-1, ilast)
	a21, a22 := s.At(ilast, ilast-1), s.At(ilast, ilast)
	b11, b12 := t.At(ilast-1, ilast-1), t.At(ilast-1, ilast)
	b22 := t.At(ilast, ilast)

	lead := b11 * b22
	if cabs1(lead) <= safmin {
		return divGuard(a22, b22, btol)
	}
	tr := a11*b22 + a22*b11 - a21*b12
	det := a11*a22 - a12*a21
	disc := cmplx.Sqrt(tr*tr - 4*lead*det)
	r1 := (tr + disc) / (2 * lead)
	r2 := (tr - disc) / (2 * lead)
	target := divGuard(a22, b22, btol)
	if cmplx.Abs(r1-target) <= cmplx.Abs(r2-target) {
		return r1
	}
	return r2
}

// sweep performs one implicit single-shift QZ step on the window
// [ifirst, ilast], chasing the bulge down to the window edge.
func sweep(s, t, q, z *Dense, ifirst, ilast int, shift complex128) {
	n, _ := s.Dims()
	fr := ifirst
	// First column of (S·T⁻¹ − shift·I), scaled through by T[fr][fr].
	x0 := s.At(fr, fr) - shift*t.At(fr, fr)
	y0 := s.At(fr+1, fr)
	cG, sG, _ := lartg(x0, y0)
	rotRows(s, fr, fr+1, fr, n, cG, sG)
	rotRows(t, fr, fr+1, fr, n, cG, sG)
	rotCols(q, fr, fr+1, 0, n, cG, sG)

	for k := fr; k < ilast; k++ {
		// Restore T triangularity at (k+1, k).
		c2, s2, _ := lartg(t.At(k+1, k+1), t.At(k+1, k))
		s2 = -s2
		rotCols(t, k, k+1, 0, k+2, c2, s2)
		rotCols(s, k, k+1, 0, min(k+3, n), c2, s2)
		rotCols(z, k, k+1, 0, n, c2, s2)
		t.Set(k+1, k, 0)
		// Chase the S bulge at (k+2, k).
		if k+2 <= ilast {
			c3, s3, r3 := lartg(s.At(k+1, k), s.At(k+2, k))
			s.Set(k+1, k, r3)
			s.Set(k+2, k, 0)
			rotRows(s, k+1, k+2, k+1, n, c3, s3)
			rotRows(t, k+1, k+2, k+1, n, c3, s3)
			rotCols(q, k+1, k+2, 0, n, c3, s3)
		}
	}
}

// divGuard divides with the denominator modulus floored at floor,
// keeping shift heuristics finite near infinite eigenvalues.
func divGuard(num, den complex128, floor float64) complex128 {
	if cabs1(den) < floor {
		if floor < safmin {
			floor = safmin
		}
		den = complex(floor, 0)
	}
	return num / den
}

// Reorder returns a copy of the factorization with the selected
// eigenvalue pairs moved, order preserved, to the leading diagonal
// positions. The first d columns of the returned Z then span the
// corresponding right deflating subspace, where d is the number of
// selected positions.
func (f *SchurFactors) Reorder(selected []bool) *SchurFactors {
	n, _ := f.S.Dims()
	if len(selected) != n {
		panic(fmt.Sprintf("zmat: reorder selection length %d for order %d", len(selected), n))
	}
	g := &SchurFactors{S: f.S.Clone(), T: f.T.Clone(), Q: f.Q.Clone(), Z: f.Z.Clone()}
	sel := append([]bool(nil), selected...)
	target := 0
	for j := 0; j < n; j++ {
		if !sel[j] {
			continue
		}
		for k := j; k > target; k-- {
			g.swapAdjacent(k - 1)
			sel[k-1], sel[k] = sel[k], sel[k-1]
		}
		target++
	}
	return g
}

// swapAdjacent exchanges the 1×1 diagonal blocks at positions (j, j+1)
// by a unitary equivalence, the complex ztgex2 scheme: the right factor
// rotates onto the eigenvector of the trailing eigenvalue, the left
// factor realigns whichever of S or T gives the better scale.
func (f *SchurFactors) swapAdjacent(j int) {
	s, t, q, z := f.S, f.T, f.Q, f.Z
	n, _ := s.Dims()

	s11, s12, s22 := s.At(j, j), s.At(j, j+1), s.At(j+1, j+1)
	t11, t12, t22 := t.At(j, j), t.At(j, j+1), t.At(j+1, j+1)
	fv := s22*t11 - t22*s11
	g := s22*t12 - t22*s12
	nx := lapy3(cmplx.Abs(g), cmplx.Abs(fv), 0)
	if nx == 0 {
		// Equal eigenvalue pairs; the order is already arbitrary.
		return
	}
	zc1 := g / complex(nx, 0)
	zc2 := -fv / complex(nx, 0)

	// Images of the new first column under S and T stay collinear; align
	// the left factor with the better conditioned of the two.
	u1, u2 := s11*zc1+s12*zc2, s22*zc2
	v1, v2 := t11*zc1+t12*zc2, t22*zc2
	w1, w2 := u1, u2
	if lapy3(cmplx.Abs(v1), cmplx.Abs(v2), 0) > lapy3(cmplx.Abs(u1), cmplx.Abs(u2), 0) {
		w1, w2 = v1, v2
	}
	nw := lapy3(cmplx.Abs(w1), cmplx.Abs(w2), 0)
	if nw == 0 {
		w1, w2, nw = 1, 0, 1
	}
	w1, w2 = w1/complex(nw, 0), w2/complex(nw, 0)

	mulCols2(s, j, j+1, 0, j+2, zc1, zc2, -cmplx.Conj(zc2), cmplx.Conj(zc1))
	mulCols2(t, j, j+1, 0, j+2, zc1, zc2, -cmplx.Conj(zc2), cmplx.Conj(zc1))
	mulCols2(z, j, j+1, 0, n, zc1, zc2, -cmplx.Conj(zc2), cmplx.Conj(zc1))
	mulRows2(s, j, j+1, j, n, cmplx.Conj(w1), cmplx.Conj(w2), -w2, w1)
	mulRows2(t, j, j+1, j, n, cmplx.Conj(w1), cmplx.Conj(w2), -w2, w1)
	mulCols2(q, j, j+1, 0, n, w1, w2, -cmplx.Conj(w2), cmplx.Conj(w1))
	s.Set(j+1, j, 0)
	t.Set(j+1, j, 0)
}

// mulCols2 replaces columns (j, jj) over rows [ilo, ihi) with the right
// product by [[a11, a12], [a21, a22]].
func mulCols2(m *Dense, j, jj, ilo, ihi int, a11, a21, a12, a22 complex128) {
	for i := ilo; i < ihi; i++ {
		x := m.mat.Data[i*m.mat.Stride+j]
		y := m.mat.Data[i*m.mat.Stride+jj]
		m.mat.Data[i*m.mat.Stride+j] = a11*x + a21*y
		m.mat.Data[i*m.mat.Stride+jj] = a12*x + a22*y
	}
}

// mulRows2 replaces rows (i, ii) over columns [jlo, jhi) with the left
// product by [[b11, b12], [b21, b22]].
func mulRows2(m *Dense, i, ii, jlo, jhi int, b11, b12, b21, b22 complex128) {
	for j := jlo; j < jhi; j++ {
		x := m.mat.Data[i*m.mat.Stride+j]
		y := m.mat.Data[ii*m.mat.Stride+j]
		m.mat.Data[i*m.mat.Stride+j] = b11*x + b12*y
		m.mat.Data[ii*m.mat.Stride+j] = b21*x + b22*y
	}
}
