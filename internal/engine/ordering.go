package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Move ordering priorities
const (
	GoodCaptureBase = 1000000 // Base score for captures
	PromotionBase   = 950000  // Quiet promotions
	KillerScore1    = 900000  // First killer move
	KillerScore2    = 800000  // Second killer move
)

// MVV-LVA (Most Valuable Victim - Least Valuable Attacker) scores
// Higher score = search first
var mvvLva = [6][6]int{
	//       P    N    B    R    Q    K  (attacker)
	/* P */ {15, 14, 14, 13, 12, 11}, // Pawn victim
	/* N */ {25, 24, 24, 23, 22, 21}, // Knight victim
	/* B */ {35, 34, 34, 33, 32, 31}, // Bishop victim
	/* R */ {45, 44, 44, 43, 42, 41}, // Rook victim
	/* Q */ {55, 54, 54, 53, 52, 51}, // Queen victim
	/* K */ {0, 0, 0, 0, 0, 0},       // King can't be captured
}

// MoveOrderer handles move ordering for interior search nodes.
type MoveOrderer struct {
	// Killer moves (quiet moves that caused beta cutoffs)
	killers [MaxPly][2]board.Move
}

// NewMoveOrderer creates a new move orderer.
func NewMoveOrderer() *MoveOrderer {
	mo := &MoveOrderer{}
	mo.Clear()
	return mo
}

// Clear resets the move orderer for a new search.
func (mo *MoveOrderer) Clear() {
	for i := range mo.killers {
		mo.killers[i][0] = board.NoMove
		mo.killers[i][1] = board.NoMove
	}
}

// ScoreMoves assigns scores to moves for ordering.
func (mo *MoveOrderer) ScoreMoves(moves []board.Move, ply int) []int {
	scores := make([]int, len(moves))
	for i, m := range moves {
		scores[i] = mo.scoreMove(m, ply)
	}
	return scores
}

// scoreMove returns the ordering score for a single move.
func (mo *MoveOrderer) scoreMove(m board.Move, ply int) int {
	if m.IsCapture() {
		victim := m.Captured.Type()
		attacker := m.Piece.Type()
		if victim >= board.King || attacker > board.King {
			return GoodCaptureBase
		}
		score := GoodCaptureBase + mvvLva[victim][attacker]*1000
		if m.IsPromotion() {
			score += board.PieceValue[m.PromoteTo]
		}
		return score
	}

	if m.IsPromotion() {
		return PromotionBase + board.PieceValue[m.PromoteTo]
	}

	if ply < MaxPly {
		if m.SameAs(mo.killers[ply][0]) {
			return KillerScore1
		}
		if m.SameAs(mo.killers[ply][1]) {
			return KillerScore2
		}
	}
	return 0
}

// PickMove selects the best remaining move and moves it to position index.
// Equal scores keep their generator order.
func PickMove(moves []board.Move, scores []int, index int) {
	best := index
	for j := index + 1; j < len(moves); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		m, s := moves[best], scores[best]
		copy(moves[index+1:best+1], moves[index:best])
		copy(scores[index+1:best+1], scores[index:best])
		moves[index], scores[index] = m, s
	}
}

// UpdateKillers adds a killer move at the given ply.
func (mo *MoveOrderer) UpdateKillers(m board.Move, ply int) {
	if ply >= MaxPly {
		return
	}

	// Don't store if it's already the first killer
	if mo.killers[ply][0].SameAs(m) {
		return
	}

	// Shift killers
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}
