// SPDX-License-Identifier: MIT

package greens_test

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/bandknit/greens"
	"github.com/katalvlaran/bandknit/lead"
	"github.com/katalvlaran/bandknit/zmat"
)

// deviceChain returns the Hamiltonian of an n-site chain with unit
// hopping.
func deviceChain(n int) *zmat.Dense {
	h := zmat.NewDense(n, n)
	for i := 0; i+1 < n; i++ {
		h.Set(i, i+1, 1)
		h.Set(i+1, i, 1)
	}
	return h
}

// dimOnly hides the frequency of a wrapped slicer.
type dimOnly struct{ s greens.Slicer }

func (d dimOnly) Dim() int                                    { return d.s.Dim() }
func (d dimOnly) Block(rows, cols []int) (*zmat.Dense, error) { return d.s.Block(rows, cols) }

func TestDenseGreen(t *testing.T) {
	_, err := greens.DenseGreen(nil, 1i)
	require.ErrorIs(t, err, greens.ErrBadInput)
	_, err = greens.DenseGreen(zmat.NewDense(2, 3), 1i)
	require.ErrorIs(t, err, greens.ErrBadInput)

	h := zmat.NewDenseData(2, 2, []complex128{0, 1, 1, 0})
	omega := complex(0.3, 0.7)
	g, err := greens.DenseGreen(h, omega)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Dim())
	assert.Equal(t, omega, g.Omega())

	blk, err := g.Block([]int{0, 1}, []int{0, 1})
	require.NoError(t, err)
	det := omega*omega - 1
	assert.InDelta(t, 0, cmplx.Abs(blk.At(0, 0)-omega/det), 1e-12)
	assert.InDelta(t, 0, cmplx.Abs(blk.At(0, 1)-1/det), 1e-12)
	assert.InDelta(t, 0, cmplx.Abs(blk.At(1, 0)-1/det), 1e-12)

	_, err = g.Block([]int{2}, []int{0})
	require.ErrorIs(t, err, greens.ErrBadInput)
	_, err = g.Block([]int{0}, []int{-1})
	require.ErrorIs(t, err, greens.ErrBadInput)
}

func TestCompose_MatchesDenseInversion(t *testing.T) {
	const n = 6
	omega := complex(0.4, 0.6)
	h := deviceChain(n)
	g0, err := greens.DenseGreen(h, omega)
	require.NoError(t, err)

	sigA := zmat.NewDenseData(1, 1, []complex128{complex(0.2, -0.3)})
	sigB := zmat.NewDenseData(2, 2, []complex128{
		complex(0, -0.4), 0.1,
		0.1, complex(0.1, -0.2),
	})
	cmp, err := greens.Compose(g0,
		greens.SelfEnergy{Orbitals: []int{0}, Matrix: sigA},
		greens.SelfEnergy{Orbitals: []int{3, 5}, Matrix: sigB},
	)
	require.NoError(t, err)
	assert.Equal(t, n, cmp.Dim())
	assert.Equal(t, []int{0, 3, 5}, cmp.Orbitals())

	// Reference: absorb the self-energies into the Hamiltonian and
	// invert densely.
	heff := h.Clone()
	heff.Set(0, 0, heff.At(0, 0)+sigA.At(0, 0))
	for a, oa := range []int{3, 5} {
		for b, ob := range []int{3, 5} {
			heff.Set(oa, ob, heff.At(oa, ob)+sigB.At(a, b))
		}
	}
	ref, err := greens.DenseGreen(heff, omega)
	require.NoError(t, err)

	all := []int{0, 1, 2, 3, 4, 5}
	got, err := cmp.Block(all, all)
	require.NoError(t, err)
	want, err := ref.Block(all, all)
	require.NoError(t, err)
	assert.True(t, zmat.EqualApprox(got, want, 1e-10*(1+want.MaxAbs())),
		"full dressed block differs from dense inversion")

	rows, cols := []int{1, 4}, []int{2, 3, 5}
	got, err = cmp.Block(rows, cols)
	require.NoError(t, err)
	want, err = ref.Block(rows, cols)
	require.NoError(t, err)
	assert.True(t, zmat.EqualApprox(got, want, 1e-10*(1+want.MaxAbs())),
		"off-contact query differs from dense inversion")

	gc := cmp.ContactGreen()
	want, err = ref.Block(cmp.Orbitals(), cmp.Orbitals())
	require.NoError(t, err)
	assert.True(t, zmat.EqualApprox(gc, want, 1e-10*(1+want.MaxAbs())),
		"contact Green function differs from dense inversion")
}

func TestCompose_SharedOrbitals(t *testing.T) {
	const n = 5
	omega := complex(-0.2, 0.5)
	h := deviceChain(n)
	g0, err := greens.DenseGreen(h, omega)
	require.NoError(t, err)

	sigA := zmat.NewDenseData(2, 2, []complex128{complex(0, -0.3), 0.2, 0.2, complex(0, -0.1)})
	sigB := zmat.NewDenseData(2, 2, []complex128{complex(0.4, -0.2), 0, 0, complex(0, -0.5)})
	cmp, err := greens.Compose(g0,
		greens.SelfEnergy{Orbitals: []int{1, 2}, Matrix: sigA},
		greens.SelfEnergy{Orbitals: []int{2, 3}, Matrix: sigB},
	)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, cmp.Orbitals())

	heff := h.Clone()
	for a, oa := range []int{1, 2} {
		for b, ob := range []int{1, 2} {
			heff.Set(oa, ob, heff.At(oa, ob)+sigA.At(a, b))
		}
	}
	for a, oa := range []int{2, 3} {
		for b, ob := range []int{2, 3} {
			heff.Set(oa, ob, heff.At(oa, ob)+sigB.At(a, b))
		}
	}
	ref, err := greens.DenseGreen(heff, omega)
	require.NoError(t, err)

	all := []int{0, 1, 2, 3, 4}
	got, err := cmp.Block(all, all)
	require.NoError(t, err)
	want, err := ref.Block(all, all)
	require.NoError(t, err)
	assert.True(t, zmat.EqualApprox(got, want, 1e-10*(1+want.MaxAbs())),
		"overlapping contacts must sum their self-energies")
}

func TestCompose_ExtendedVsMaterialized(t *testing.T) {
	const n = 6
	omega := complex(0.1, 0.4)
	g0, err := greens.DenseGreen(deviceChain(n), omega)
	require.NoError(t, err)

	v := zmat.NewDenseData(2, 1, []complex128{0.5, 0.2})
	core := zmat.NewDenseData(1, 1, []complex128{complex(2, 0.3)})
	w := zmat.NewDenseData(1, 2, []complex128{0.3, -0.1})
	orbs := []int{1, 4}

	lu, err := zmat.LUFactorize(core)
	require.NoError(t, err)
	mat := zmat.NewDense(2, 2)
	mat.Mul(v, lu.Solve(w))

	extra := zmat.NewDenseData(1, 1, []complex128{complex(0, -0.6)})
	viaTriple, err := greens.Compose(g0,
		greens.SelfEnergy{Orbitals: orbs, Extended: &greens.Extended{V: v, C: core, W: w}},
		greens.SelfEnergy{Orbitals: []int{5}, Matrix: extra},
	)
	require.NoError(t, err)
	viaMatrix, err := greens.Compose(g0,
		greens.SelfEnergy{Orbitals: orbs, Matrix: mat},
		greens.SelfEnergy{Orbitals: []int{5}, Matrix: extra},
	)
	require.NoError(t, err)

	all := []int{0, 1, 2, 3, 4, 5}
	got, err := viaTriple.Block(all, all)
	require.NoError(t, err)
	want, err := viaMatrix.Block(all, all)
	require.NoError(t, err)
	assert.True(t, zmat.EqualApprox(got, want, 1e-10*(1+want.MaxAbs())),
		"auxiliary elimination must reproduce the materialized block")
}

func TestCompose_LeadTriple(t *testing.T) {
	one := zmat.NewDenseData(1, 1, []complex128{1})
	ls, err := lead.NewSolver(one, zmat.NewDense(1, 1), one)
	require.NoError(t, err)

	omega := complex(0.5, 0.8)
	f, err := ls.Factors(omega)
	require.NoError(t, err)
	v, c, w := f.RightTriple()

	g0, err := greens.DenseGreen(zmat.NewDense(1, 1), omega)
	require.NoError(t, err)
	cmp, err := greens.Compose(g0,
		greens.SelfEnergy{Orbitals: []int{0}, Extended: &greens.Extended{V: v, C: c, W: w}},
	)
	require.NoError(t, err)

	sr, err := f.SigmaRight()
	require.NoError(t, err)
	want := 1 / (omega - sr.At(0, 0))
	got, err := cmp.Block([]int{0}, []int{0})
	require.NoError(t, err)
	assert.InDelta(t, 0, cmplx.Abs(got.At(0, 0)-want), 1e-10*cmplx.Abs(want),
		"site with a lead contact must carry the surface Green function")
}

func TestCompose_AtOmega(t *testing.T) {
	const n = 4
	omega := complex(0.2, 0.9)
	g0, err := greens.DenseGreen(deviceChain(n), omega)
	require.NoError(t, err)

	sig := zmat.NewDenseData(1, 1, []complex128{complex(0.3, -0.2)})
	var seenOmega complex128
	viaCall, err := greens.Compose(g0, greens.SelfEnergy{
		Orbitals: []int{2},
		AtOmega: func(w complex128) (*zmat.Dense, error) {
			seenOmega = w
			return sig, nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, omega, seenOmega)

	viaMatrix, err := greens.Compose(g0, greens.SelfEnergy{Orbitals: []int{2}, Matrix: sig})
	require.NoError(t, err)

	all := []int{0, 1, 2, 3}
	got, err := viaCall.Block(all, all)
	require.NoError(t, err)
	want, err := viaMatrix.Block(all, all)
	require.NoError(t, err)
	assert.True(t, zmat.EqualApprox(got, want, 1e-12))

	// A bare slicer that cannot report its frequency rejects callback
	// blocks.
	_, err = greens.Compose(dimOnly{s: g0}, greens.SelfEnergy{
		Orbitals: []int{2},
		AtOmega: func(complex128) (*zmat.Dense, error) {
			return sig, nil
		},
	})
	require.ErrorIs(t, err, greens.ErrBadContact)
}

func TestCompose_NoContacts(t *testing.T) {
	omega := complex(0.7, 0.4)
	g0, err := greens.DenseGreen(deviceChain(3), omega)
	require.NoError(t, err)

	cmp, err := greens.Compose(g0)
	require.NoError(t, err)
	assert.Empty(t, cmp.Orbitals())

	all := []int{0, 1, 2}
	got, err := cmp.Block(all, all)
	require.NoError(t, err)
	want, err := g0.Block(all, all)
	require.NoError(t, err)
	assert.True(t, zmat.EqualApprox(got, want, 0))
}

func TestCompose_Validation(t *testing.T) {
	omega := complex(0, 1)
	g0, err := greens.DenseGreen(deviceChain(4), omega)
	require.NoError(t, err)
	sig := zmat.Identity(1)

	_, err = greens.Compose(nil, greens.SelfEnergy{Orbitals: []int{0}, Matrix: sig})
	require.ErrorIs(t, err, greens.ErrBadInput)

	cases := []struct {
		name  string
		block greens.SelfEnergy
	}{
		{"no orbitals", greens.SelfEnergy{Matrix: sig}},
		{"orbital out of range", greens.SelfEnergy{Orbitals: []int{4}, Matrix: sig}},
		{"negative orbital", greens.SelfEnergy{Orbitals: []int{-1}, Matrix: sig}},
		{"repeated orbital", greens.SelfEnergy{Orbitals: []int{1, 1}, Matrix: zmat.Identity(2)}},
		{"no content", greens.SelfEnergy{Orbitals: []int{0}}},
		{"two contents", greens.SelfEnergy{
			Orbitals: []int{0},
			Matrix:   sig,
			AtOmega:  func(complex128) (*zmat.Dense, error) { return sig, nil },
		}},
		{"matrix shape", greens.SelfEnergy{Orbitals: []int{0, 1}, Matrix: sig}},
		{"incomplete triple", greens.SelfEnergy{
			Orbitals: []int{0},
			Extended: &greens.Extended{V: zmat.Identity(1)},
		}},
		{"triple shape", greens.SelfEnergy{
			Orbitals: []int{0},
			Extended: &greens.Extended{
				V: zmat.NewDense(1, 2),
				C: zmat.Identity(1),
				W: zmat.NewDense(1, 1),
			},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := greens.Compose(g0, tc.block)
			require.ErrorIs(t, err, greens.ErrBadContact)
		})
	}
}
