// SPDX-License-Identifier: MIT

package greens

import (
	"fmt"

	"github.com/katalvlaran/bandknit/zmat"
)

// Slicer is an indexable Green's function over a fixed orbital space
// at one frequency.
//
// Implementations that cannot serve a requested indexing form return
// ErrUnimplemented.
type Slicer interface {
	// Dim returns the orbital count of the index space.
	Dim() int

	// Block returns the Green's function restricted to the given row
	// and column orbital sets, as a fresh len(rows)×len(cols) matrix
	// owned by the caller.
	Block(rows, cols []int) (*zmat.Dense, error)
}

// omegaReporter is implemented by slicers pinned to one frequency.
// Compose relies on it to evaluate self-energy callbacks at the
// matching ω.
type omegaReporter interface {
	Omega() complex128
}

// Dense is a Slicer over a fully materialized Green's function of a
// finite system.
type Dense struct {
	omega complex128
	g     *zmat.Dense
}

// DenseGreen inverts ωI − H of a finite Hamiltonian and returns the
// result as a Slicer. It is the reference implementation the factored
// solvers are checked against, and the natural bare input to Compose
// for systems small enough to invert directly.
func DenseGreen(h *zmat.Dense, omega complex128) (*Dense, error) {
	if h == nil {
		return nil, fmt.Errorf("greens: nil hamiltonian: %w", ErrBadInput)
	}
	n, c := h.Dims()
	if n != c {
		return nil, fmt.Errorf("greens: %d×%d hamiltonian: %w", n, c, ErrBadInput)
	}
	den := zmat.NewDense(n, n)
	den.Scale(-1, h)
	for i := 0; i < n; i++ {
		den.Set(i, i, den.At(i, i)+omega)
	}
	lu, err := zmat.LUFactorize(den)
	if err != nil {
		return nil, fmt.Errorf("greens: ωI−H at ω=%v: %w", omega, err)
	}
	return &Dense{omega: omega, g: lu.Inverse()}, nil
}

// Omega returns the frequency the Green's function was inverted at.
func (d *Dense) Omega() complex128 { return d.omega }

// Dim returns the orbital count.
func (d *Dense) Dim() int {
	n, _ := d.g.Dims()
	return n
}

// Block gathers the requested rows and columns.
func (d *Dense) Block(rows, cols []int) (*zmat.Dense, error) {
	if err := checkIndices(rows, d.Dim()); err != nil {
		return nil, err
	}
	if err := checkIndices(cols, d.Dim()); err != nil {
		return nil, err
	}
	return d.g.Slice(rows, cols), nil
}

// checkIndices validates orbital indices against an index space size.
func checkIndices(idx []int, dim int) error {
	for _, i := range idx {
		if i < 0 || i >= dim {
			return fmt.Errorf("greens: orbital %d out of range %d: %w", i, dim, ErrBadInput)
		}
	}
	return nil
}
