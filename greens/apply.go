// SPDX-License-Identifier: MIT

package greens

import (
	"fmt"

	"github.com/katalvlaran/bandknit/lead"
	"github.com/katalvlaran/bandknit/zmat"
)

// Algorithm selects how a Green's function is produced.
type Algorithm int

const (
	// AlgorithmDirect densely inverts ωI−H of a finite system.
	AlgorithmDirect Algorithm = iota

	// AlgorithmSchur solves a semi-infinite lead by Schur deflation
	// and exposes a finite window of lattice cells.
	AlgorithmSchur
)

// String returns the algorithm name.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmDirect:
		return "direct"
	case AlgorithmSchur:
		return "schur"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// Config carries the per-algorithm inputs of Apply.
type Config struct {
	// Hamiltonian is the dense matrix of the finite system. Required
	// by AlgorithmDirect.
	Hamiltonian *zmat.Dense

	// Lead supplies the semi-infinite lattice. Required by
	// AlgorithmSchur.
	Lead *lead.Solver

	// Cells is the number of lattice cells [0, Cells) the Schur slicer
	// exposes as its orbital space. Zero means one cell.
	Cells int
}

// Applied is an algorithm bound to its system, evaluable at arbitrary
// frequencies through a uniform interface.
type Applied struct {
	alg Algorithm
	cfg Config
}

// Apply binds an algorithm to its inputs. The returned Applied yields
// one Slicer per frequency; frequencies are independent of each other,
// so a failure at one ω does not affect evaluations at others.
func Apply(alg Algorithm, cfg Config) (*Applied, error) {
	switch alg {
	case AlgorithmDirect:
		if cfg.Hamiltonian == nil {
			return nil, fmt.Errorf("greens: %v needs a Hamiltonian: %w", alg, ErrBadInput)
		}
		if r, c := cfg.Hamiltonian.Dims(); r != c {
			return nil, fmt.Errorf("greens: %d×%d hamiltonian: %w", r, c, ErrBadInput)
		}
	case AlgorithmSchur:
		if cfg.Lead == nil {
			return nil, fmt.Errorf("greens: %v needs a lead solver: %w", alg, ErrBadInput)
		}
		if cfg.Cells < 0 {
			return nil, fmt.Errorf("greens: %d cells: %w", cfg.Cells, ErrBadInput)
		}
		if cfg.Cells == 0 {
			cfg.Cells = 1
		}
	default:
		return nil, fmt.Errorf("greens: unknown algorithm %d: %w", int(alg), ErrUnimplemented)
	}
	return &Applied{alg: alg, cfg: cfg}, nil
}

// Algorithm returns the bound algorithm.
func (a *Applied) Algorithm() Algorithm { return a.alg }

// At evaluates the bound system at one frequency.
func (a *Applied) At(omega complex128) (Slicer, error) {
	switch a.alg {
	case AlgorithmDirect:
		return DenseGreen(a.cfg.Hamiltonian, omega)
	default:
		sl, err := a.cfg.Lead.GreenSlicer(omega)
		if err != nil {
			return nil, err
		}
		return &cellWindow{sl: sl, cells: a.cfg.Cells, n: a.cfg.Lead.Dim()}, nil
	}
}

// cellWindow adapts the lead slicer to the flat orbital indexing of
// Slicer: orbital o maps to cell o/n, intra-cell index o%n. Fetched
// cell blocks are memoized, so the window is not safe for concurrent
// use.
type cellWindow struct {
	sl    *lead.Slicer
	cells int
	n     int
	blk   map[[2]int]*zmat.Dense
}

// Omega returns the frequency of the underlying lead slicer.
func (w *cellWindow) Omega() complex128 { return w.sl.Omega() }

// Dim returns the window's orbital count, cells times orbitals per
// cell.
func (w *cellWindow) Dim() int { return w.cells * w.n }

// Block gathers the requested entries across cell blocks.
func (w *cellWindow) Block(rows, cols []int) (*zmat.Dense, error) {
	if err := checkIndices(rows, w.Dim()); err != nil {
		return nil, err
	}
	if err := checkIndices(cols, w.Dim()); err != nil {
		return nil, err
	}
	out := zmat.NewDense(len(rows), len(cols))
	for a, i := range rows {
		ci, oi := i/w.n, i%w.n
		for b, j := range cols {
			cj, oj := j/w.n, j%w.n
			out.Set(a, b, w.cell(ci, cj).At(oi, oj))
		}
	}
	return out, nil
}

func (w *cellWindow) cell(ci, cj int) *zmat.Dense {
	if w.blk == nil {
		w.blk = make(map[[2]int]*zmat.Dense)
	}
	key := [2]int{ci, cj}
	if g, ok := w.blk[key]; ok {
		return g
	}
	g := w.sl.G(ci, cj)
	w.blk[key] = g
	return g
}
