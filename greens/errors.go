// SPDX-License-Identifier: MIT

package greens

import "errors"

var (
	// ErrBadInput reports malformed arguments: non-square Hamiltonians,
	// orbital indices out of range, or a missing algorithm input.
	ErrBadInput = errors.New("greens: bad input")

	// ErrBadContact reports a malformed self-energy block: empty or
	// duplicated orbital sets, mismatched block dimensions, or none or
	// several of the content forms set.
	ErrBadContact = errors.New("greens: bad contact block")

	// ErrUnimplemented reports a Slicer that does not support the
	// requested indexing form. It indicates a missing implementation,
	// not a runtime condition.
	ErrUnimplemented = errors.New("greens: slicer operation not implemented")
)
