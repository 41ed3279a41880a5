package game

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalMove is returned when a move is not among the legal moves of
	// the current position.
	ErrIllegalMove = errors.New("illegal move")

	// ErrGameOver is returned when a move is submitted after checkmate,
	// stalemate or a draw.
	ErrGameOver = errors.New("game is over")

	// ErrPromotionRequired is returned when a pawn reaches the last rank and
	// no promotion piece was chosen.
	ErrPromotionRequired = errors.New("promotion piece required")
)

// MoveError wraps a rejection with the ply it happened at and the move text.
type MoveError struct {
	Err      error
	Ply      int
	MoveText string
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("ply %d, move %q: %v", e.Ply, e.MoveText, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}
