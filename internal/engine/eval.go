// Package engine implements the chess AI: static evaluation and an
// iterative-deepening alpha-beta search.
package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Evaluator scores a position in centipawns from White's point of view.
// Implementations must be pure: the same board always yields the same score,
// and the board is left exactly as it was passed in.
type Evaluator interface {
	Evaluate(b *board.Board) int
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(b *board.Board) int

// Evaluate calls f(b).
func (f EvaluatorFunc) Evaluate(b *board.Board) int {
	return f(b)
}

// Evaluation weights
const (
	mobilityWeight      = 5
	checkPenalty        = 50
	centerBonus         = 30
	extendedCenterBonus = 10
	doubledPawnPenalty  = 15
	pawnChainBonus      = 10
)

// Piece-Square Tables (PST) for positional evaluation.
// Laid out as seen from White with rank 8 in the first row; black pieces
// use the table flipped vertically.

// Pawn PST - encourages central control and advancement
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

// Knight PST - encourages central positioning
var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

// Bishop PST - encourages central diagonals
var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

// Rook PST - encourages 7th rank and open files
var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

// Queen PST - slight central preference
var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

// King PST (middlegame) - encourages castling
var kingMidgamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

// King PST (endgame) - king should be active
var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// All PSTs combined for easy lookup
var psts = [...][64]int{
	pawnPST, knightPST, bishopPST, rookPST, queenPST, kingMidgamePST,
}

// centerWeight holds the occupation bonus per square: the four central
// squares and the ring of twelve around them.
var centerWeight [64]int

func init() {
	for _, sq := range []board.Square{board.D4, board.E4, board.D5, board.E5} {
		centerWeight[sq] = centerBonus
	}
	for _, sq := range []board.Square{
		board.C3, board.D3, board.E3, board.F3,
		board.C4, board.F4, board.C5, board.F5,
		board.C6, board.D6, board.E6, board.F6,
	} {
		centerWeight[sq] = extendedCenterBonus
	}
}

// pstIndex maps a board square to its PST slot for pieces of color c.
func pstIndex(sq board.Square, c board.Color) board.Square {
	if c == board.White {
		return sq.Mirror()
	}
	return sq
}

// Classical is the default hand-tuned evaluator.
type Classical struct{}

// Evaluate returns the static evaluation of the position from White's perspective.
func (Classical) Evaluate(b *board.Board) int {
	var score int
	var pawnsOnFile [2][8]int

	endgame := IsEndgame(b)

	for sq := board.A1; sq <= board.H8; sq++ {
		p := b.PieceAt(sq)
		if p == board.NoPiece {
			continue
		}
		c := p.Color()
		pt := p.Type()

		v := p.Value()
		if pt == board.King && endgame {
			v += kingEndgamePST[pstIndex(sq, c)]
		} else {
			v += psts[pt][pstIndex(sq, c)]
		}
		v += centerWeight[sq]

		if pt == board.Pawn {
			pawnsOnFile[c][sq.File()]++
			if b.PawnDefenders(sq, c) > 0 {
				v += pawnChainBonus
			}
		}

		if c == board.White {
			score += v
		} else {
			score -= v
		}
	}

	// Doubled pawns
	for file := 0; file < 8; file++ {
		if n := pawnsOnFile[board.White][file]; n > 1 {
			score -= doubledPawnPenalty * (n - 1)
		}
		if n := pawnsOnFile[board.Black][file]; n > 1 {
			score += doubledPawnPenalty * (n - 1)
		}
	}

	score += evaluateMobility(b)
	score += evaluateKingSafety(b)

	return score
}

// evaluateMobility weighs the difference in legal move counts.
func evaluateMobility(b *board.Board) int {
	white := len(b.LegalMoves(board.White))
	black := len(b.LegalMoves(board.Black))
	return (white - black) * mobilityWeight
}

// evaluateKingSafety penalises the side whose king is in check.
func evaluateKingSafety(b *board.Board) int {
	score := 0
	if b.IsInCheck(board.White) {
		score -= checkPenalty
	}
	if b.IsInCheck(board.Black) {
		score += checkPenalty
	}
	return score
}

// EvaluateMaterial returns the material balance only.
func EvaluateMaterial(b *board.Board) int {
	score := 0
	for sq := board.A1; sq <= board.H8; sq++ {
		p := b.PieceAt(sq)
		switch p.Color() {
		case board.White:
			score += p.Value()
		case board.Black:
			score -= p.Value()
		}
	}
	return score
}

// IsEndgame reports whether both queens are off the board.
func IsEndgame(b *board.Board) bool {
	for sq := board.A1; sq <= board.H8; sq++ {
		if b.PieceAt(sq).Type() == board.Queen {
			return false
		}
	}
	return true
}
