// SPDX-License-Identifier: MIT

package greens

import (
	"fmt"
	"math"

	"github.com/katalvlaran/bandknit/zmat"
)

// LDOS returns the local density of states −Im G(o,o)/π at each of
// the given orbitals. The slicer must be retarded (Im ω > 0) for the
// densities to come out nonnegative.
func LDOS(g Slicer, orbitals []int) ([]float64, error) {
	blk, err := g.Block(orbitals, orbitals)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(orbitals))
	for i := range orbitals {
		out[i] = -imag(blk.At(i, i)) / math.Pi
	}
	return out, nil
}

// Transmission returns the Landauer transmission Tr[Γᵢ·G·Γⱼ·Gᴴ]
// between two contacts of a composed Green's function, with
// Γ = i(Σ−Σᴴ) the broadening of each contact. i and j index the
// blocks passed to Compose; a clean single channel transmits 1 inside
// the band.
func Transmission(c *Composed, i, j int) (float64, error) {
	gi, oi, err := c.gamma(i)
	if err != nil {
		return 0, err
	}
	gj, oj, err := c.gamma(j)
	if err != nil {
		return 0, err
	}
	g, err := c.Block(oi, oj)
	if err != nil {
		return 0, err
	}
	left := zmat.NewDense(len(oi), len(oj))
	left.Mul(gi, g)
	right := zmat.NewDense(len(oj), len(oi))
	right.MulHC(gj, g)
	prod := zmat.NewDense(len(oi), len(oi))
	prod.Mul(left, right)
	var tr complex128
	for k := 0; k < len(oi); k++ {
		tr += prod.At(k, k)
	}
	return real(tr), nil
}

// gamma materializes the broadening Γ = i(Σ−Σᴴ) of one contact along
// with its orbital set. Extended triples are inverted here, not during
// composition, so a singular core only fails the observables that
// need it.
func (c *Composed) gamma(i int) (*zmat.Dense, []int, error) {
	if i < 0 || i >= len(c.contacts) {
		return nil, nil, fmt.Errorf("greens: contact %d of %d: %w", i, len(c.contacts), ErrBadInput)
	}
	ct := c.contacts[i]
	sg := ct.sigma
	if ct.ext != nil {
		lu, err := zmat.LUFactorize(ct.ext.C)
		if err != nil {
			return nil, nil, fmt.Errorf("greens: contact %d core: %w", i, err)
		}
		no := len(ct.orbitals)
		sg = zmat.NewDense(no, no)
		sg.Mul(ct.ext.V, lu.Solve(ct.ext.W))
	}
	no := len(ct.orbitals)
	out := zmat.NewDense(no, no)
	out.Sub(sg, sg.H())
	out.Scale(complex(0, 1), out)
	return out, ct.orbitals, nil
}
