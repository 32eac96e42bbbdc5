package band

import "errors"

var (
	// ErrBadInput reports a nil solver or mesh, a malformed option value,
	// or a solver spectrum that violates the Spectrum contract.
	ErrBadInput = errors.New("band: bad input")

	// ErrDislocations reports frustrated band crossings left after the
	// patch budget ran out. Compute returns it only under
	// WithDislocationError; the default is a warning plus
	// Band.Dislocations.
	ErrDislocations = errors.New("band: unresolved dislocations")
)
