package bloch

import (
	"fmt"
	"math/cmplx"

	"github.com/katalvlaran/bandknit/zmat"
)

// Harmonic is one hopping block of a tight-binding Hamiltonian: M couples a
// cell to the cell displaced by Dn, M[o,o'] = ⟨n,o|H|n+Dn,o'⟩.
type Harmonic struct {
	Dn []int
	M  *zmat.Dense
}

// Hamiltonian is the input abstraction of the band and lead solvers. A real
// phase vector φ (one entry per lattice axis) selects the Bloch matrix H(φ).
type Hamiltonian interface {
	// Dim returns the orbital count, the size of every harmonic block.
	Dim() int
	// LatticeDim returns the number of lattice axes.
	LatticeDim() int
	// Harmonics returns the harmonic set. Callers must not modify it.
	Harmonics() []Harmonic
	// Bloch evaluates H(φ) = Σ h_dn·e^{i dn·φ} into a fresh matrix.
	Bloch(phases []float64) (*zmat.Dense, error)
	// CallsafeCopy returns a Hamiltonian safe to use from another
	// goroutine concurrently with the receiver.
	CallsafeCopy() Hamiltonian
}

// hamiltonian is the reference implementation: a validated, immutable
// harmonic table.
type hamiltonian struct {
	latticeDim int
	dim        int
	harms      []Harmonic
}

// pairTol is the absolute tolerance of the conjugate-pairing check,
// relative to the largest block element.
const pairTol = 1e-12

// New builds a Hamiltonian from hopping harmonics. All blocks must be
// square of one size, every displacement must have latticeDim entries and
// appear once, the zero displacement must be present with a Hermitian
// block, and every harmonic must be matched by its conjugate partner
// h_{-dn} = h_dnᴴ. Harmonics are deep-copied; later changes to the
// arguments do not affect the result.
func New(latticeDim int, harmonics ...Harmonic) (Hamiltonian, error) {
	if latticeDim < 0 {
		return nil, fmt.Errorf("bloch: lattice dimension %d: %w", latticeDim, ErrBadHarmonic)
	}
	if len(harmonics) == 0 {
		return nil, fmt.Errorf("bloch: no harmonics: %w", ErrBadHarmonic)
	}

	r, c := harmonics[0].M.Dims()
	if r != c {
		return nil, fmt.Errorf("bloch: %d×%d harmonic block: %w", r, c, ErrBadHarmonic)
	}
	h := &hamiltonian{latticeDim: latticeDim, dim: r, harms: make([]Harmonic, 0, len(harmonics))}

	seen := make(map[string]int, len(harmonics))
	for k, hr := range harmonics {
		if len(hr.Dn) != latticeDim {
			return nil, fmt.Errorf("bloch: harmonic %d displacement has %d entries, lattice dimension is %d: %w",
				k, len(hr.Dn), latticeDim, ErrBadHarmonic)
		}
		if br, bc := hr.M.Dims(); br != r || bc != r {
			return nil, fmt.Errorf("bloch: harmonic %d block is %d×%d, expected %d×%d: %w",
				k, br, bc, r, r, ErrBadHarmonic)
		}
		key := dnKey(hr.Dn)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("bloch: duplicate harmonic at displacement %v: %w", hr.Dn, ErrBadHarmonic)
		}
		seen[key] = k
		h.harms = append(h.harms, Harmonic{
			Dn: append([]int(nil), hr.Dn...),
			M:  hr.M.Clone(),
		})
	}

	// Conjugate pairing: each displacement needs its negation carrying the
	// adjoint block, and the on-cell block must be Hermitian.
	if _, ok := seen[dnKey(make([]int, latticeDim))]; !ok {
		return nil, fmt.Errorf("bloch: missing on-cell harmonic: %w", ErrBadHarmonic)
	}
	for _, hr := range h.harms {
		neg := make([]int, latticeDim)
		for a, dn := range hr.Dn {
			neg[a] = -dn
		}
		partner, ok := seen[dnKey(neg)]
		if !ok {
			return nil, fmt.Errorf("bloch: harmonic %v has no conjugate partner: %w", hr.Dn, ErrNonHermitian)
		}
		if !adjointPair(hr.M, h.harms[partner].M) {
			return nil, fmt.Errorf("bloch: harmonics %v and %v are not adjoint: %w", hr.Dn, neg, ErrNonHermitian)
		}
	}
	return h, nil
}

func (h *hamiltonian) Dim() int              { return h.dim }
func (h *hamiltonian) LatticeDim() int       { return h.latticeDim }
func (h *hamiltonian) Harmonics() []Harmonic { return h.harms }

// Bloch evaluates H(φ). The result is freshly allocated on every call.
func (h *hamiltonian) Bloch(phases []float64) (*zmat.Dense, error) {
	if len(phases) != h.latticeDim {
		return nil, fmt.Errorf("bloch: %d phases for lattice dimension %d: %w",
			len(phases), h.latticeDim, ErrPhaseDim)
	}
	out := zmat.NewDense(h.dim, h.dim)
	for _, hr := range h.harms {
		arg := 0.0
		for a, dn := range hr.Dn {
			arg += float64(dn) * phases[a]
		}
		out.AddScaled(cmplx.Exp(complex(0, arg)), hr.M)
	}
	return out, nil
}

// CallsafeCopy returns the receiver: the harmonic table is immutable and
// Bloch never writes shared state.
func (h *hamiltonian) CallsafeCopy() Hamiltonian { return h }

// dnKey encodes a displacement as a map key.
func dnKey(dn []int) string {
	return fmt.Sprint(dn)
}

// adjointPair reports whether b equals aᴴ within pairTol of the pair's
// largest element.
func adjointPair(a, b *zmat.Dense) bool {
	scale := a.MaxAbs()
	if s := b.MaxAbs(); s > scale {
		scale = s
	}
	if scale == 0 {
		return true
	}
	return zmat.EqualApprox(a.H(), b, pairTol*scale)
}
