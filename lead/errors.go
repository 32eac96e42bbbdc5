// SPDX-License-Identifier: MIT

package lead

import "errors"

var (
	// ErrBadBlock reports nearest-cell blocks that are nil, non-square
	// or of mismatched dimensions.
	ErrBadBlock = errors.New("lead: bad nearest-cell block")

	// ErrNonHermitian reports a lead whose blocks violate h₋₁ = h₊₁ᴴ or
	// whose on-cell block is not Hermitian.
	ErrNonHermitian = errors.New("lead: non-Hermitian lead")

	// ErrModeCount reports a Schur spectrum that does not split into
	// equally many retarded and advanced modes, which happens when ω
	// sits on the real axis and propagating modes have unit modulus.
	ErrModeCount = errors.New("lead: retarded/advanced mode count mismatch")
)
