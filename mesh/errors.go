// Package mesh: sentinel error set. Constructors and SplitEdge return these
// wrapped with context; callers match with errors.Is.

package mesh

import "errors"

var (
	// ErrBadBox is returned when a marching box has no axes or an axis
	// with equal endpoints.
	ErrBadBox = errors.New("mesh: invalid box")

	// ErrBadPoints is returned when a subdivision count is missing, below
	// the minimum, or inconsistent with the axis or segment count.
	ErrBadPoints = errors.New("mesh: invalid point count")

	// ErrBadPath is returned when a linear path has fewer than two nodes,
	// mixes embedding dimensions, or is declared closed without returning
	// to its first node.
	ErrBadPath = errors.New("mesh: invalid path")

	// ErrBadBasis is returned when a metric basis is non-square, does not
	// match the embedding dimension, or is singular.
	ErrBadBasis = errors.New("mesh: invalid metric basis")

	// ErrUnknownEdge is returned by SplitEdge when the vertex pair is not
	// an edge of the mesh.
	ErrUnknownEdge = errors.New("mesh: no such edge")

	// ErrDimension is returned when a supplied coordinate does not match
	// the mesh embedding dimension.
	ErrDimension = errors.New("mesh: dimension mismatch")
)
