// SPDX-License-Identifier: MIT

package lead

import (
	"fmt"
	"math/cmplx"

	"github.com/katalvlaran/bandknit/zmat"
)

// Factors is the mode decomposition of a lead at one frequency. Both
// self-energies are kept in factored triple form Σ = V·C⁻¹·W with a
// d×d core; SigmaRight and SigmaLeft materialize them as full
// per-cell matrices.
type Factors struct {
	// Omega is the frequency the lead was decomposed at.
	Omega complex128

	n, d int

	rv, rc, rw *zmat.Dense // Σ_right = rv·rc⁻¹·rw
	lv, lc, lw *zmat.Dense // Σ_left  = lv·lc⁻¹·lw
}

// Factors decomposes the lead at ω. It builds the damped boundary
// matrix iG = ωI − h₀ + iΩP, with P projecting onto the deflated
// surface orbitals, assembles the 2d×2d linearized transfer pencil
// A·z = λ·B·z whose finite eigenvalues are the Bloch factors
// λ = e^{ik}, and Schur-decomposes it. The spectrum must split into d
// retarded modes (|λ| < 1, α/β inside the unit circle) and d advanced
// ones, or ErrModeCount is returned; reordering each family to the
// front of the Schur form yields the deflating subspaces the
// self-energy triples are read from.
//
// The returned Factors is self-contained: it stays valid across
// further Factors calls and across the Solver itself. The receiver's
// scratch is overwritten on every call.
func (s *Solver) Factors(omega complex128) (*Factors, error) {
	f := &Factors{Omega: omega, n: s.n, d: s.d}
	if s.d == 0 {
		return f, nil
	}
	d := s.d
	damp := complex(0, s.shift)

	// Stage 1: damped boundary Green blocks GL = iG⁻¹L and GR = iG⁻¹R.
	ig := s.ig
	ig.Scale(-1, s.h0)
	for i := 0; i < s.n; i++ {
		ig.Set(i, i, ig.At(i, i)+omega)
	}
	for _, p := range s.surf {
		ig.Set(p, p, ig.At(p, p)+damp)
	}
	lu, err := zmat.LUFactorize(ig)
	if err != nil {
		return nil, fmt.Errorf("lead: damped boundary matrix at ω=%v: %w", omega, err)
	}
	gl := lu.Solve(s.l)
	gr := lu.Solve(s.r)

	rhGR := zmat.NewDense(d, d)
	rhGL := zmat.NewDense(d, d)
	lhGR := zmat.NewDense(d, d)
	lhGL := zmat.NewDense(d, d)
	rhGR.MulCH(s.r, gr)
	rhGL.MulCH(s.r, gl)
	lhGR.MulCH(s.l, gr)
	lhGL.MulCH(s.l, gl)

	// Stage 2: pencil assembly in the variables z = (Rᴴu, λ⁻¹Lᴴu) of a
	// Bloch mode u. The damping enters through whichever side carries
	// the projector; Ω cancels exactly in the eigenvalues.
	pa, pb := s.pa, s.pb
	pa.Zero()
	pb.Zero()
	if s.leqR {
		a := pa.View(0, 0, d, d)
		a.Scale(-damp, rhGR)
		addDiag(a, 1)
		pa.View(0, d, d, d).Scale(-1, rhGR)
		pa.View(d, 0, d, d).Scale(-damp, lhGR)
		pa.View(d, d, d, d).Scale(-1, lhGR)
		pb.View(0, 0, d, d).CopyFrom(rhGL)
		pb.View(d, 0, d, d).CopyFrom(lhGL)
		addDiag(pb.View(d, d, d, d), -1)
	} else {
		addDiag(pa.View(0, 0, d, d), 1)
		pa.View(0, d, d, d).Scale(-1, rhGR)
		pa.View(d, d, d, d).Scale(-1, lhGR)
		pb.View(0, 0, d, d).CopyFrom(rhGL)
		pb.View(0, d, d, d).Scale(damp, rhGL)
		pb.View(d, 0, d, d).CopyFrom(lhGL)
		b := pb.View(d, d, d, d)
		b.Scale(damp, lhGL)
		addDiag(b, -1)
	}

	// Stage 3: Schur decomposition and mode partition.
	sf, err := zmat.QZ(pa, pb)
	if err != nil {
		return nil, fmt.Errorf("lead: transfer pencil at ω=%v: %w", omega, err)
	}
	alpha, beta := sf.Eigenvalues()
	ret := make([]bool, 2*d)
	adv := make([]bool, 2*d)
	var nret, nadv int
	for k := range alpha {
		am, bm := cmplx.Abs(alpha[k]), cmplx.Abs(beta[k])
		switch {
		case am < bm:
			ret[k] = true
			nret++
		case bm < am:
			adv[k] = true
			nadv++
		}
	}
	if nret != d || nadv != d {
		return nil, fmt.Errorf("lead: %d retarded and %d advanced modes at ω=%v, want %d each (Im ω must be nonzero): %w",
			nret, nadv, omega, d, ErrModeCount)
	}

	// Stage 4: deflating subspaces and self-energy triples. With the
	// retarded family leading, the first d columns of Z stack the
	// surface data (Rᴴu_k, λ_k⁻¹Lᴴu_k) of the decaying modes, and
	// Σ_right = h₊₁·g·h₋₁ = L·Z₁₁·Z₂₁⁻¹·Lᴴ; the advanced family gives
	// the mirror Σ_left = R·Z₂₁·Z₁₁⁻¹·Rᴴ.
	zr := sf.Reorder(ret).Z
	za := sf.Reorder(adv).Z

	f.rv = zmat.NewDense(s.n, d)
	f.rv.Mul(s.l, zr.View(0, 0, d, d))
	f.rc = zr.View(d, 0, d, d).Clone()
	f.rw = s.l.H()

	f.lv = zmat.NewDense(s.n, d)
	f.lv.Mul(s.r, za.View(d, 0, d, d))
	f.lc = za.View(0, 0, d, d).Clone()
	f.lw = s.r.H()
	return f, nil
}

// Dim returns the orbitals per lead cell.
func (f *Factors) Dim() int { return f.n }

// DeflatedDim returns the core size d of the self-energy triples.
func (f *Factors) DeflatedDim() int { return f.d }

// RightTriple returns (V, C, W) with Σ_right = V·C⁻¹·W and shapes n×d,
// d×d, d×n. Σ_right is the self-energy a cell acquires from a copy of
// the lead extending to its right. The matrices are owned by f and
// must not be modified; all three are nil when DeflatedDim is zero.
func (f *Factors) RightTriple() (v, c, w *zmat.Dense) { return f.rv, f.rc, f.rw }

// LeftTriple is the mirror of RightTriple for a lead extending to the
// left.
func (f *Factors) LeftTriple() (v, c, w *zmat.Dense) { return f.lv, f.lc, f.lw }

// SigmaRight materializes Σ_right as an n×n matrix.
func (f *Factors) SigmaRight() (*zmat.Dense, error) { return f.sigma(f.rv, f.rc, f.rw) }

// SigmaLeft materializes Σ_left as an n×n matrix.
func (f *Factors) SigmaLeft() (*zmat.Dense, error) { return f.sigma(f.lv, f.lc, f.lw) }

func (f *Factors) sigma(v, c, w *zmat.Dense) (*zmat.Dense, error) {
	out := zmat.NewDense(f.n, f.n)
	if f.d == 0 {
		return out, nil
	}
	lu, err := zmat.LUFactorize(c)
	if err != nil {
		return nil, fmt.Errorf("lead: singular self-energy core at ω=%v: %w", f.Omega, err)
	}
	out.Mul(v, lu.Solve(w))
	return out, nil
}

// addDiag adds v to every diagonal entry of the square block m.
func addDiag(m *zmat.Dense, v complex128) {
	n, _ := m.Dims()
	for i := 0; i < n; i++ {
		m.Set(i, i, m.At(i, i)+v)
	}
}
