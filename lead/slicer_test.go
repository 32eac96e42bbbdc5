// SPDX-License-Identifier: MIT

package lead_test

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/bandknit/lead"
	"github.com/katalvlaran/bandknit/zmat"
)

func TestGreenSlicer_ChainGeometric(t *testing.T) {
	hm, h0, hp := chainLead(1)
	s, err := lead.NewSolver(hm, h0, hp)
	require.NoError(t, err)

	omega := complex(0.4, 0.8)
	sl, err := s.GreenSlicer(omega)
	require.NoError(t, err)

	g00 := sl.G(0, 0).At(0, 0)
	want := chainBulk(omega)
	require.InDelta(t, 0, cmplx.Abs(g00-want), 1e-8*cmplx.Abs(want))

	lam := sl.G(1, 0).At(0, 0) / g00
	require.Less(t, cmplx.Abs(lam), 1.0)
	for n := 2; n <= 6; n++ {
		got := sl.G(n, 0).At(0, 0)
		ref := g00 * cmplx.Pow(lam, complex(float64(n), 0))
		assert.InDelta(t, 0, cmplx.Abs(got-ref), 1e-9*(1+cmplx.Abs(ref)), "cell %d", n)
	}
	// The chain is symmetric, so leftward decay mirrors rightward.
	for n := 1; n <= 4; n++ {
		got := sl.G(-n, 0).At(0, 0)
		ref := g00 * cmplx.Pow(lam, complex(float64(n), 0))
		assert.InDelta(t, 0, cmplx.Abs(got-ref), 1e-9*(1+cmplx.Abs(ref)), "cell %d", -n)
	}
	// Translation invariance.
	assert.InDelta(t, 0, cmplx.Abs(sl.G(7, 3).At(0, 0)-sl.G(4, 0).At(0, 0)), 1e-12)
}

func TestGreenSlicer_DysonRecursion(t *testing.T) {
	hm, h0, hp := ladderLead()
	s, err := lead.NewSolver(hm, h0, hp)
	require.NoError(t, err)

	omega := complex(-0.3, 0.6)
	sl, err := s.GreenSlicer(omega)
	require.NoError(t, err)

	n := s.Dim()
	for _, pair := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {3, 1}, {-2, 2}, {5, 5}} {
		a, b := pair[0], pair[1]
		// (ωI − h₀)·G(a,b) − h₊·G(a+1,b) − h₋·G(a−1,b) = δ_ab·I.
		lhs := zmat.NewDense(n, n)
		lhs.Scale(omega, sl.G(a, b))
		tmp := zmat.NewDense(n, n)
		tmp.Mul(h0, sl.G(a, b))
		lhs.AddScaled(-1, tmp)
		tmp.Mul(hp, sl.G(a+1, b))
		lhs.AddScaled(-1, tmp)
		tmp.Mul(hm, sl.G(a-1, b))
		lhs.AddScaled(-1, tmp)

		want := zmat.NewDense(n, n)
		if a == b {
			want = zmat.Identity(n)
		}
		assert.True(t, zmat.EqualApprox(lhs, want, 1e-8), "cells (%d,%d)", a, b)
	}
}

func TestGreenSlicer_Boundary(t *testing.T) {
	hm, h0, hp := chainLead(1)
	s, err := lead.NewSolver(hm, h0, hp)
	require.NoError(t, err)

	omega := complex(0.6, 0.9)
	const wall = 2
	sl, err := s.GreenSlicer(omega, lead.WithBoundary(wall))
	require.NoError(t, err)

	// The deleted cell and across-wall pairs vanish.
	assert.Equal(t, 0.0, sl.G(wall, wall).MaxAbs())
	assert.Equal(t, 0.0, sl.G(wall, 5).MaxAbs())
	assert.Equal(t, 0.0, sl.G(0, wall).MaxAbs())
	assert.Equal(t, 0.0, sl.G(1, 3).MaxAbs())
	assert.Equal(t, 0.0, sl.G(4, -1).MaxAbs())

	// The first cell beyond the wall sees a semi-infinite lead: its
	// diagonal block is the surface function (ω − h₀ − Σ)⁻¹.
	f, err := s.Factors(omega)
	require.NoError(t, err)
	sr, err := f.SigmaRight()
	require.NoError(t, err)
	wantSurf := 1 / (omega - sr.At(0, 0))
	got := sl.G(wall+1, wall+1).At(0, 0)
	assert.InDelta(t, 0, cmplx.Abs(got-wantSurf), 1e-9*cmplx.Abs(wantSurf))

	slf, err := f.SigmaLeft()
	require.NoError(t, err)
	wantSurf = 1 / (omega - slf.At(0, 0))
	got = sl.G(wall-1, wall-1).At(0, 0)
	assert.InDelta(t, 0, cmplx.Abs(got-wantSurf), 1e-9*cmplx.Abs(wantSurf))

	// The one-cell Dyson recursion holds against the wall, with the
	// deleted cell's block reading zero.
	g34 := sl.G(wall+1, wall+2).At(0, 0)
	g44 := sl.G(wall+2, wall+2).At(0, 0)
	g24 := sl.G(wall, wall+2).At(0, 0)
	assert.InDelta(t, 0, cmplx.Abs(omega*g34-g44-g24), 1e-9)
}

func TestGreenSlicer_MatchesFiniteLattice(t *testing.T) {
	hm, h0, hp := chainLead(1)
	s, err := lead.NewSolver(hm, h0, hp)
	require.NoError(t, err)

	omega := complex(0.3, 1)
	sl, err := s.GreenSlicer(omega)
	require.NoError(t, err)

	// A 61-site chain is effectively infinite at this ω: the mode
	// modulus is well below one, so the hard walls at the ends
	// contribute far less than the tolerance at the center.
	const sites = 61
	den := zmat.NewDense(sites, sites)
	for i := 0; i < sites; i++ {
		den.Set(i, i, omega)
		if i+1 < sites {
			den.Set(i, i+1, -1)
			den.Set(i+1, i, -1)
		}
	}
	lu, err := zmat.LUFactorize(den)
	require.NoError(t, err)
	gf := lu.Inverse()

	mid := sites / 2
	for k := -3; k <= 3; k++ {
		got := sl.G(k, 0).At(0, 0)
		want := gf.At(mid+k, mid)
		assert.InDelta(t, 0, cmplx.Abs(got-want), 1e-8, "offset %d", k)
	}
}

func TestGreenSlicer_ConjugateSymmetry(t *testing.T) {
	hm, h0, hp := ladderLead()
	s, err := lead.NewSolver(hm, h0, hp)
	require.NoError(t, err)

	omega := complex(0.5, 0.7)
	up, err := s.GreenSlicer(omega)
	require.NoError(t, err)
	down, err := s.GreenSlicer(cmplx.Conj(omega))
	require.NoError(t, err)

	gu := up.G(0, 0)
	assert.True(t, zmat.EqualApprox(down.G(0, 0), gu.H(), 1e-8*(1+gu.MaxAbs())),
		"G(ω̄) must equal G(ω)ᴴ on the diagonal")

	gu = up.G(0, 2)
	assert.True(t, zmat.EqualApprox(down.G(2, 0), gu.H(), 1e-8*(1+gu.MaxAbs())),
		"G(ω̄)(2,0) must equal G(ω)(0,2)ᴴ")
}

func TestGreenSlicer_Uncoupled(t *testing.T) {
	zero := zmat.NewDense(2, 2)
	s, err := lead.NewSolver(zero, zmat.Identity(2), zero)
	require.NoError(t, err)

	omega := complex(3, 0.5)
	sl, err := s.GreenSlicer(omega)
	require.NoError(t, err)

	want := 1 / (omega - 1)
	diag := sl.G(4, 4)
	assert.InDelta(t, 0, cmplx.Abs(diag.At(0, 0)-want), 1e-12)
	assert.InDelta(t, 0, cmplx.Abs(diag.At(1, 1)-want), 1e-12)
	assert.Equal(t, 0.0, sl.G(1, 0).MaxAbs())

	wsl, err := s.GreenSlicer(omega, lead.WithBoundary(0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, wsl.G(0, 0).MaxAbs())
	assert.InDelta(t, 0, cmplx.Abs(wsl.G(2, 2).At(0, 0)-want), 1e-12)
}
