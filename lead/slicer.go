// SPDX-License-Identifier: MIT

package lead

import (
	"fmt"

	"github.com/katalvlaran/bandknit/zmat"
)

// Slicer evaluates the cell-resolved Green's function G(n, m) of the
// lead lattice at one frequency. By default the lattice is unbounded
// and G is translation invariant; WithBoundary deletes one cell, which
// splits the lattice into two decoupled semi-infinite halves with hard
// walls at the deletion.
//
// A Slicer memoizes powers of the d×d inter-cell propagator and must
// not be used from several goroutines at once.
type Slicer struct {
	omega complex128
	n, d  int

	hasWall bool
	wall    int

	g00   *zmat.Dense
	g00lu *zmat.LU

	// Rightward geometric form G∞(k) = gsR·(lhGsR)^{k−1}·lhG00 for
	// k = n−m ≥ 1, with g_s = (ω − h₀ − Σ_right)⁻¹, and the leftward
	// mirror through g_s′ = (ω − h₀ − Σ_left)⁻¹.
	gsR, lhGsR, lhG00 *zmat.Dense
	gpL, rhGpL, rhG00 *zmat.Dense

	rpow []*zmat.Dense // rpow[j] = (lhGsR)^j
	lpow []*zmat.Dense // lpow[j] = (rhGpL)^j
}

// SlicerOption configures GreenSlicer.
type SlicerOption func(*Slicer)

// WithBoundary deletes the given cell from the lattice. Blocks whose
// row or column cell is the deleted one, or whose cells sit on
// opposite sides of it, are zero; same-side blocks are corrected by
// one image subtraction through the deleted cell.
func WithBoundary(cell int) SlicerOption {
	return func(sl *Slicer) {
		sl.hasWall = true
		sl.wall = cell
	}
}

// GreenSlicer decomposes the lead at ω and prepares the propagator
// factors of the cell-resolved Green's function. The anchor block
// G∞₀₀ = (ω − h₀ − Σ_right − Σ_left)⁻¹ is computed once; off-diagonal
// blocks follow from the geometric inter-cell recursion and are
// assembled per G call, with propagator powers cached as they grow.
func (s *Solver) GreenSlicer(omega complex128, opts ...SlicerOption) (*Slicer, error) {
	sl := &Slicer{omega: omega, n: s.n, d: s.d}
	for _, opt := range opts {
		opt(sl)
	}

	den := zmat.NewDense(s.n, s.n)
	den.Scale(-1, s.h0)
	for i := 0; i < s.n; i++ {
		den.Set(i, i, den.At(i, i)+omega)
	}

	if s.d == 0 {
		// Uncoupled cells: G is cell-diagonal with no propagation.
		lu, err := zmat.LUFactorize(den)
		if err != nil {
			return nil, fmt.Errorf("lead: uncoupled cell at ω=%v: %w", omega, err)
		}
		sl.g00lu = lu
		sl.g00 = lu.Inverse()
		return sl, nil
	}

	f, err := s.Factors(omega)
	if err != nil {
		return nil, err
	}
	sr, err := f.SigmaRight()
	if err != nil {
		return nil, err
	}
	slf, err := f.SigmaLeft()
	if err != nil {
		return nil, err
	}

	gs := den.Clone()
	gs.AddScaled(-1, sr)
	gslu, err := zmat.LUFactorize(gs)
	if err != nil {
		return nil, fmt.Errorf("lead: surface denominator at ω=%v: %w", omega, err)
	}
	gp := den.Clone()
	gp.AddScaled(-1, slf)
	gplu, err := zmat.LUFactorize(gp)
	if err != nil {
		return nil, fmt.Errorf("lead: surface denominator at ω=%v: %w", omega, err)
	}
	den.AddScaled(-1, sr)
	den.AddScaled(-1, slf)
	g00lu, err := zmat.LUFactorize(den)
	if err != nil {
		return nil, fmt.Errorf("lead: bulk denominator at ω=%v: %w", omega, err)
	}
	sl.g00lu = g00lu
	sl.g00 = g00lu.Inverse()

	sl.gsR = gslu.Solve(s.r)
	sl.gpL = gplu.Solve(s.l)
	sl.lhGsR = zmat.NewDense(s.d, s.d)
	sl.lhGsR.MulCH(s.l, sl.gsR)
	sl.rhGpL = zmat.NewDense(s.d, s.d)
	sl.rhGpL.MulCH(s.r, sl.gpL)
	sl.lhG00 = zmat.NewDense(s.d, s.n)
	sl.lhG00.MulCH(s.l, sl.g00)
	sl.rhG00 = zmat.NewDense(s.d, s.n)
	sl.rhG00.MulCH(s.r, sl.g00)
	sl.rpow = []*zmat.Dense{zmat.Identity(s.d)}
	sl.lpow = []*zmat.Dense{zmat.Identity(s.d)}
	return sl, nil
}

// Omega returns the frequency the slicer was built at.
func (sl *Slicer) Omega() complex128 { return sl.omega }

// Dim returns the orbitals per cell, the size of every G block.
func (sl *Slicer) Dim() int { return sl.n }

// G returns the Green's function block between cells n and m as a
// fresh n×n matrix owned by the caller.
func (sl *Slicer) G(n, m int) *zmat.Dense {
	if !sl.hasWall {
		return sl.bulk(n - m)
	}
	dn, dm := n-sl.wall, m-sl.wall
	if dn == 0 || dm == 0 || (dn < 0) != (dm < 0) {
		return zmat.NewDense(sl.n, sl.n)
	}
	// One image through the deleted cell:
	// G = G∞(n−m) − G∞(n−w)·G∞₀₀⁻¹·G∞(w−m).
	out := sl.bulk(n - m)
	img := zmat.NewDense(sl.n, sl.n)
	img.Mul(sl.bulk(dn), sl.g00lu.Solve(sl.bulk(-dm)))
	out.Sub(out, img)
	return out
}

// bulk returns a fresh copy of the translation-invariant block
// G∞(n, m) at cell offset k = n − m.
func (sl *Slicer) bulk(k int) *zmat.Dense {
	switch {
	case k == 0:
		return sl.g00.Clone()
	case sl.d == 0:
		return zmat.NewDense(sl.n, sl.n)
	case k > 0:
		core := zmat.NewDense(sl.d, sl.n)
		core.Mul(sl.rpowAt(k-1), sl.lhG00)
		out := zmat.NewDense(sl.n, sl.n)
		out.Mul(sl.gsR, core)
		return out
	default:
		core := zmat.NewDense(sl.d, sl.n)
		core.Mul(sl.lpowAt(-k-1), sl.rhG00)
		out := zmat.NewDense(sl.n, sl.n)
		out.Mul(sl.gpL, core)
		return out
	}
}

func (sl *Slicer) rpowAt(j int) *zmat.Dense {
	for len(sl.rpow) <= j {
		next := zmat.NewDense(sl.d, sl.d)
		next.Mul(sl.rpow[len(sl.rpow)-1], sl.lhGsR)
		sl.rpow = append(sl.rpow, next)
	}
	return sl.rpow[j]
}

func (sl *Slicer) lpowAt(j int) *zmat.Dense {
	for len(sl.lpow) <= j {
		next := zmat.NewDense(sl.d, sl.d)
		next.Mul(sl.lpow[len(sl.lpow)-1], sl.rhGpL)
		sl.lpow = append(sl.lpow, next)
	}
	return sl.lpow[j]
}
