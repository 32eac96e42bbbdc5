package band

import (
	"fmt"

	"github.com/katalvlaran/bandknit/bloch"
	"github.com/katalvlaran/bandknit/zmat"
)

// Spectrum is one diagonalization result: Energies ascending, States the
// matching eigenvector columns.
type Spectrum struct {
	Energies []float64
	States   *zmat.Dense
}

// Solver produces spectra at base points. Compute calls CallsafeCopy once
// per worker, so implementations may keep per-instance scratch as long as
// copies do not share it.
type Solver interface {
	SpectrumAt(k []float64) (Spectrum, error)
	CallsafeCopy() Solver
}

// Mapping transforms a base-mesh point into the Bloch phase vector, for
// meshes parameterized in something other than raw phases (path parameter,
// reduced wave vectors, a cut through a higher-dimensional zone). Nil
// means the base coordinates are the phases.
type Mapping func(k []float64) []float64

// denseSolver diagonalizes H(φ) with zmat.EigHermitian.
type denseSolver struct {
	h       bloch.Hamiltonian
	mapping Mapping
}

// NewDenseSolver adapts a Bloch Hamiltonian into a Solver.
func NewDenseSolver(h bloch.Hamiltonian, mapping Mapping) Solver {
	return &denseSolver{h: h, mapping: mapping}
}

// SpectrumAt evaluates and diagonalizes H at the mapped point.
func (s *denseSolver) SpectrumAt(k []float64) (Spectrum, error) {
	phases := k
	if s.mapping != nil {
		phases = s.mapping(k)
	}
	m, err := s.h.Bloch(phases)
	if err != nil {
		return Spectrum{}, err
	}
	vals, vecs, err := zmat.EigHermitian(m)
	if err != nil {
		return Spectrum{}, fmt.Errorf("band: diagonalize H(%v): %w", phases, err)
	}
	return Spectrum{Energies: vals, States: vecs}, nil
}

// CallsafeCopy duplicates the solver with an independent Hamiltonian handle.
func (s *denseSolver) CallsafeCopy() Solver {
	return &denseSolver{h: s.h.CallsafeCopy(), mapping: s.mapping}
}
