package engine

import "errors"

var (
	// ErrInvalidConfig is returned when search limits are out of range.
	ErrInvalidConfig = errors.New("invalid search configuration")

	// ErrNoLegalMoves is returned when asked to move in a finished position.
	ErrNoLegalMoves = errors.New("no legal moves")

	// ErrNotSideToMove is returned when asked to move for the side not on move.
	ErrNotSideToMove = errors.New("color is not on move")

	// errSearchAborted stops an iteration when time runs out or the context
	// is cancelled. It never leaves the package.
	errSearchAborted = errors.New("search aborted")
)
