// SPDX-License-Identifier: MIT

package lead

import (
	"fmt"

	"github.com/katalvlaran/bandknit/zmat"
)

// DefaultShift is the auxiliary damping Ω added on the boundary
// orbitals to split retarded from advanced modes in the Schur pencil.
// Ω cancels exactly in the mode spectrum, so any positive value gives
// the same self-energies up to roundoff.
const DefaultShift = 1.0

// hermTol is the relative tolerance of the Hermiticity validation in
// NewSolver.
const hermTol = 1e-12

// Option configures a lead Solver.
type Option func(*Solver)

// WithShift sets the auxiliary damping Ω of the Schur pencil. Values at
// or below zero restore DefaultShift.
func WithShift(omega float64) Option {
	return func(s *Solver) {
		if omega <= 0 {
			omega = DefaultShift
		}
		s.shift = omega
	}
}

// Solver holds the frequency-independent part of a semi-infinite lead:
// validated nearest-cell blocks and the deflated factorization
// h₊₁ = L·Rᴴ of the inter-cell coupling. Factors evaluates it at a
// frequency, GreenSlicer slices the resulting Green's function.
//
// A Solver reuses internal scratch between Factors calls and must not
// be shared across goroutines; CallsafeCopy returns an independent
// instance backed by the same immutable blocks.
type Solver struct {
	n int // orbitals per cell
	d int // deflated boundary dimension

	shift float64

	hm, h0, hp *zmat.Dense

	// h₊₁ = l·rᴴ. The factor on the smaller boundary side is a plain
	// 0/1 column selector; surf lists the selected orbitals, which are
	// also the damped coordinates of the pencil.
	l, r *zmat.Dense
	surf []int
	leqR bool // selector on the column (left-boundary) side

	// Scratch overwritten by every Factors call.
	ig, pa, pb *zmat.Dense
}

// NewSolver validates the nearest-cell blocks h₋₁, h₀, h₊₁ of a
// translationally invariant lead and deflates the coupling. The blocks
// must be square of one common size, h₀ Hermitian and h₋₁ = h₊₁ᴴ, both
// within a small relative tolerance. The boundary orbital sets are read
// off the exact sparsity pattern of h₊₁: nonzero rows couple toward the
// next cell, nonzero columns toward the previous one, and the smaller
// set fixes the deflated dimension d. The blocks are copied; callers
// may reuse their arguments.
func NewSolver(hm, h0, hp *zmat.Dense, opts ...Option) (*Solver, error) {
	if hm == nil || h0 == nil || hp == nil {
		return nil, fmt.Errorf("lead: nil block: %w", ErrBadBlock)
	}
	n, c := h0.Dims()
	if n != c {
		return nil, fmt.Errorf("lead: %d×%d on-cell block: %w", n, c, ErrBadBlock)
	}
	for _, m := range []*zmat.Dense{hm, hp} {
		if r, mc := m.Dims(); r != n || mc != n {
			return nil, fmt.Errorf("lead: %d×%d hopping block for %d orbitals: %w", r, mc, n, ErrBadBlock)
		}
	}
	scale := h0.MaxAbs()
	if a := hp.MaxAbs(); a > scale {
		scale = a
	}
	if !zmat.EqualApprox(h0.H(), h0, hermTol*scale) {
		return nil, fmt.Errorf("lead: on-cell block h0 != h0^H: %w", ErrNonHermitian)
	}
	if !zmat.EqualApprox(hp.H(), hm, hermTol*scale) {
		return nil, fmt.Errorf("lead: hopping blocks hm != hp^H: %w", ErrNonHermitian)
	}

	s := &Solver{
		n:     n,
		shift: DefaultShift,
		hm:    hm.Clone(),
		h0:    h0.Clone(),
		hp:    hp.Clone(),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Deflate on the smaller boundary side. Building the dense factor
	// from h₊₁ (or its adjoint) keeps h₊₁ = L·Rᴴ exact rather than
	// accurate to the Hermiticity tolerance.
	rows, cols := couplingSupport(s.hp)
	all := iota0(n)
	if len(cols) <= len(rows) {
		s.leqR, s.surf, s.d = true, cols, len(cols)
		s.r = selector(n, cols)
		s.l = s.hp.Slice(all, cols)
	} else {
		s.leqR, s.surf, s.d = false, rows, len(rows)
		s.l = selector(n, rows)
		s.r = s.hp.H().Slice(all, rows)
	}

	s.ig = zmat.NewDense(n, n)
	s.pa = zmat.NewDense(2*s.d, 2*s.d)
	s.pb = zmat.NewDense(2*s.d, 2*s.d)
	return s, nil
}

// Dim returns the number of orbitals per lead cell.
func (s *Solver) Dim() int { return s.n }

// DeflatedDim returns the deflated boundary dimension d, the number of
// retarded (equally, advanced) modes and the core size of the
// self-energy triples. Zero means the cells are uncoupled.
func (s *Solver) DeflatedDim() int { return s.d }

// Shift returns the auxiliary damping Ω.
func (s *Solver) Shift() float64 { return s.shift }

// CallsafeCopy returns a Solver usable concurrently with the receiver.
// The validated blocks and coupling factors are shared read-only, the
// scratch buffers are fresh.
func (s *Solver) CallsafeCopy() *Solver {
	c := *s
	c.ig = zmat.NewDense(s.n, s.n)
	c.pa = zmat.NewDense(2*s.d, 2*s.d)
	c.pb = zmat.NewDense(2*s.d, 2*s.d)
	return &c
}

// couplingSupport returns the sorted nonzero rows and columns of hp.
func couplingSupport(hp *zmat.Dense) (rows, cols []int) {
	n, _ := hp.Dims()
	inRow := make([]bool, n)
	inCol := make([]bool, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if hp.At(i, j) != 0 {
				inRow[i] = true
				inCol[j] = true
			}
		}
	}
	for i := 0; i < n; i++ {
		if inRow[i] {
			rows = append(rows, i)
		}
		if inCol[i] {
			cols = append(cols, i)
		}
	}
	return rows, cols
}

// selector builds the n×len(idx) matrix with a unit entry at
// (idx[k], k) per column.
func selector(n int, idx []int) *zmat.Dense {
	m := zmat.NewDense(n, len(idx))
	for k, i := range idx {
		m.Set(i, k, 1)
	}
	return m
}

func iota0(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
