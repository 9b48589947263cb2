package rules

import "errors"

// Sentinel errors returned by the position handle. Check them with errors.Is.
var (
	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrIllegalMove indicates a move that cannot be decoded or is not legal
	// in the current position.
	ErrIllegalMove = errors.New("illegal move")
)
