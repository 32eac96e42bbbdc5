// SPDX-License-Identifier: MIT

package greens

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/bandknit/zmat"
)

// SelfEnergy couples one contact to a set of device orbitals. Exactly
// one of Matrix, AtOmega and Extended must be set.
type SelfEnergy struct {
	// Orbitals are the device orbitals the contact acts on, in the
	// row/column order of the block content. Distinct contacts may
	// share orbitals; their contributions sum.
	Orbitals []int

	// Matrix is a constant square block of size len(Orbitals).
	Matrix *zmat.Dense

	// AtOmega produces the block at the composition frequency. It
	// requires a bare slicer that reports its frequency, as DenseGreen
	// and the Apply slicers do.
	AtOmega func(omega complex128) (*zmat.Dense, error)

	// Extended is a factored block with auxiliary orbitals.
	Extended *Extended
}

// Extended is the triple form Σ = V·C⁻¹·W of a contact self-energy,
// as produced by the lead solver's RightTriple and LeftTriple. Its d
// auxiliary orbitals are appended after all real contact orbitals
// during composition: the block contributes
//
//	[[0, V], [W, I−C]]
//
// over (contact, auxiliary) indices, with a unit bare function on the
// auxiliaries, and eliminating them reproduces V·C⁻¹·W on the contact
// without ever inverting C.
type Extended struct {
	V *zmat.Dense // len(Orbitals)×d
	C *zmat.Dense // d×d core
	W *zmat.Dense // d×len(Orbitals)
}

// contact is one validated, frequency-resolved input block.
type contact struct {
	orbitals []int
	pos      []int       // positions of orbitals within the union
	sigma    *zmat.Dense // resolved Matrix or AtOmega content
	ext      *Extended
	auxOff   int // start of the auxiliary index range, extended only
}

// Composed is a contact-dressed Green's function over the bare
// slicer's orbital space. It implements Slicer.
type Composed struct {
	g0       Slicer
	union    []int
	contacts []contact
	g0kk     *zmat.Dense // bare block over the union
	tpp      *zmat.Dense // T-matrix confined to the union
}

// Compose dresses a bare Green's function with contact self-energies
// through the T-matrix form of the Dyson equation. Σ and the bare
// block are assembled densely over the contact orbital union (plus
// the auxiliary ranges of extended blocks, appended after all real
// orbitals), den = I − Σ·g₀ is factored once, and the correction
// T = den⁻¹·Σ is confined to the union, so later Block queries cost
// two bare lookups and two small products each.
func Compose(g0 Slicer, blocks ...SelfEnergy) (*Composed, error) {
	if g0 == nil {
		return nil, fmt.Errorf("greens: nil bare slicer: %w", ErrBadInput)
	}
	dim := g0.Dim()

	// Stage 1: validate blocks, resolve frequency callbacks, and
	// collect the sorted contact orbital union.
	contacts := make([]contact, 0, len(blocks))
	seen := make(map[int]bool)
	for bi, b := range blocks {
		ct, err := resolveBlock(g0, bi, b, dim)
		if err != nil {
			return nil, err
		}
		for _, o := range b.Orbitals {
			seen[o] = true
		}
		contacts = append(contacts, ct)
	}
	union := make([]int, 0, len(seen))
	for o := range seen {
		union = append(union, o)
	}
	sort.Ints(union)
	posOf := make(map[int]int, len(union))
	for p, o := range union {
		posOf[o] = p
	}
	nc := len(union)
	off := nc
	for i := range contacts {
		ct := &contacts[i]
		ct.pos = make([]int, len(ct.orbitals))
		for a, o := range ct.orbitals {
			ct.pos[a] = posOf[o]
		}
		if ct.ext != nil {
			d, _ := ct.ext.C.Dims()
			ct.auxOff = off
			off += d
		}
	}
	total := off

	cmp := &Composed{g0: g0, union: union, contacts: contacts}
	if nc == 0 {
		cmp.g0kk = zmat.NewDense(0, 0)
		cmp.tpp = zmat.NewDense(0, 0)
		return cmp, nil
	}

	// Stage 2: dense Σ and g̃₀ = blockdiag(g₀ₖₖ, I) over union plus
	// auxiliaries. Overlapping contacts sum at shared positions;
	// auxiliary ranges are disjoint.
	sigma := zmat.NewDense(total, total)
	for _, ct := range contacts {
		if ct.ext == nil {
			for a, pa := range ct.pos {
				for b, pb := range ct.pos {
					sigma.Set(pa, pb, sigma.At(pa, pb)+ct.sigma.At(a, b))
				}
			}
			continue
		}
		d, _ := ct.ext.C.Dims()
		for a, pa := range ct.pos {
			for k := 0; k < d; k++ {
				sigma.Set(pa, ct.auxOff+k, ct.ext.V.At(a, k))
			}
		}
		for k := 0; k < d; k++ {
			for b, pb := range ct.pos {
				sigma.Set(ct.auxOff+k, pb, ct.ext.W.At(k, b))
			}
			for k2 := 0; k2 < d; k2++ {
				v := -ct.ext.C.At(k, k2)
				if k == k2 {
					v++
				}
				sigma.Set(ct.auxOff+k, ct.auxOff+k2, v)
			}
		}
	}

	g0kk, err := g0.Block(union, union)
	if err != nil {
		return nil, err
	}
	gbar := zmat.NewDense(total, total)
	gbar.View(0, 0, nc, nc).CopyFrom(g0kk)
	for i := nc; i < total; i++ {
		gbar.Set(i, i, 1)
	}

	// Stage 3: factor den = I − Σ·g̃₀ and confine T = den⁻¹·Σ to the
	// physical union. Auxiliary rows and columns of T never couple to
	// queries because g̃₀ is block diagonal.
	den := zmat.NewDense(total, total)
	den.Mul(sigma, gbar)
	den.Scale(-1, den)
	for i := 0; i < total; i++ {
		den.Set(i, i, den.At(i, i)+1)
	}
	lu, err := zmat.LUFactorize(den)
	if err != nil {
		return nil, fmt.Errorf("greens: T-matrix denominator: %w", err)
	}
	t := lu.Solve(sigma)

	cmp.g0kk = g0kk
	cmp.tpp = t.View(0, 0, nc, nc).Clone()
	return cmp, nil
}

// resolveBlock validates one SelfEnergy and resolves its content.
func resolveBlock(g0 Slicer, bi int, b SelfEnergy, dim int) (contact, error) {
	ct := contact{orbitals: b.Orbitals}
	if len(b.Orbitals) == 0 {
		return ct, fmt.Errorf("greens: contact %d has no orbitals: %w", bi, ErrBadContact)
	}
	dup := make(map[int]bool, len(b.Orbitals))
	for _, o := range b.Orbitals {
		if o < 0 || o >= dim {
			return ct, fmt.Errorf("greens: contact %d orbital %d out of range %d: %w", bi, o, dim, ErrBadContact)
		}
		if dup[o] {
			return ct, fmt.Errorf("greens: contact %d repeats orbital %d: %w", bi, o, ErrBadContact)
		}
		dup[o] = true
	}
	forms := 0
	if b.Matrix != nil {
		forms++
	}
	if b.AtOmega != nil {
		forms++
	}
	if b.Extended != nil {
		forms++
	}
	if forms != 1 {
		return ct, fmt.Errorf("greens: contact %d sets %d of Matrix/AtOmega/Extended, want one: %w", bi, forms, ErrBadContact)
	}
	no := len(b.Orbitals)
	switch {
	case b.Matrix != nil:
		if r, c := b.Matrix.Dims(); r != no || c != no {
			return ct, fmt.Errorf("greens: contact %d block %d×%d for %d orbitals: %w", bi, r, c, no, ErrBadContact)
		}
		ct.sigma = b.Matrix.Clone()
	case b.AtOmega != nil:
		rep, ok := g0.(omegaReporter)
		if !ok {
			return ct, fmt.Errorf("greens: contact %d needs a frequency-reporting bare slicer: %w", bi, ErrBadContact)
		}
		m, err := b.AtOmega(rep.Omega())
		if err != nil {
			return ct, fmt.Errorf("greens: contact %d at ω=%v: %w", bi, rep.Omega(), err)
		}
		if r, c := m.Dims(); r != no || c != no {
			return ct, fmt.Errorf("greens: contact %d block %d×%d for %d orbitals: %w", bi, r, c, no, ErrBadContact)
		}
		ct.sigma = m.Clone()
	default:
		e := b.Extended
		if e.V == nil || e.C == nil || e.W == nil {
			return ct, fmt.Errorf("greens: contact %d extended triple incomplete: %w", bi, ErrBadContact)
		}
		vr, vd := e.V.Dims()
		cr, cc := e.C.Dims()
		wr, wc := e.W.Dims()
		if vr != no || wc != no || cr != cc || vd != cr || wr != cr {
			return ct, fmt.Errorf("greens: contact %d triple shapes %d×%d, %d×%d, %d×%d for %d orbitals: %w",
				bi, vr, vd, cr, cc, wr, wc, no, ErrBadContact)
		}
		ct.ext = e
	}
	return ct, nil
}

// Dim returns the orbital count of the underlying space.
func (c *Composed) Dim() int { return c.g0.Dim() }

// Orbitals returns a copy of the sorted contact orbital union.
func (c *Composed) Orbitals() []int {
	out := make([]int, len(c.union))
	copy(out, c.union)
	return out
}

// Block returns the dressed Green's function between two orbital sets,
// the bare block plus the correction g₀(rows,k)·T·g₀(k,cols) summed
// over the contact union k.
func (c *Composed) Block(rows, cols []int) (*zmat.Dense, error) {
	out, err := c.g0.Block(rows, cols)
	if err != nil {
		return nil, err
	}
	nc := len(c.union)
	if nc == 0 {
		return out, nil
	}
	gik, err := c.g0.Block(rows, c.union)
	if err != nil {
		return nil, err
	}
	gkj, err := c.g0.Block(c.union, cols)
	if err != nil {
		return nil, err
	}
	tmp := zmat.NewDense(nc, len(cols))
	tmp.Mul(c.tpp, gkj)
	corr := zmat.NewDense(len(rows), len(cols))
	corr.Mul(gik, tmp)
	out.Add(out, corr)
	return out, nil
}

// ContactGreen returns the dressed Green's function on the contact
// orbital union, indexed like Orbitals. It equals g₀·den⁻¹ there.
func (c *Composed) ContactGreen() *zmat.Dense {
	nc := len(c.union)
	out := c.g0kk.Clone()
	if nc == 0 {
		return out
	}
	tmp := zmat.NewDense(nc, nc)
	tmp.Mul(c.tpp, c.g0kk)
	corr := zmat.NewDense(nc, nc)
	corr.Mul(c.g0kk, tmp)
	out.Add(out, corr)
	return out
}
