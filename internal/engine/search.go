package engine

import (
	"context"

	"github.com/hailam/chesscore/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 64

	// checkInterval is how many nodes pass between clock and context checks.
	// Must be a power of two.
	checkInterval = 64
)

// searcher holds the state of one ChooseMove call. It owns its board copy.
type searcher struct {
	ctx     context.Context
	b       *board.Board
	eval    Evaluator
	tm      *TimeManager
	orderer *MoveOrderer
	nodes   uint64
	aborted bool
}

func newSearcher(ctx context.Context, b *board.Board, eval Evaluator, tm *TimeManager) *searcher {
	return &searcher{
		ctx:     ctx,
		b:       b,
		eval:    eval,
		tm:      tm,
		orderer: NewMoveOrderer(),
	}
}

// stopped reports whether the budget is spent or the caller cancelled.
// The clock is only read every checkInterval nodes.
func (s *searcher) stopped() bool {
	if s.aborted {
		return true
	}
	if s.nodes&(checkInterval-1) == 0 {
		s.poll()
	}
	return s.aborted
}

// poll reads the clock and context unconditionally.
func (s *searcher) poll() bool {
	if s.tm.ShouldStop() || s.ctx.Err() != nil {
		s.aborted = true
	}
	return s.aborted
}

// evaluate scores the position for the side to move.
func (s *searcher) evaluate() int {
	score := s.eval.Evaluate(s.b)
	if s.b.SideToMove() == board.Black {
		return -score
	}
	return score
}

// terminalScore returns the score for the side to move when it has no legal
// moves: mated sides lose by less the further the mate is from the root.
func (s *searcher) terminalScore(ply int) int {
	if s.b.InCheck() {
		return -(MateScore - ply)
	}
	return 0
}

// searchRoot runs one full-width iteration at the given depth. Root moves are
// searched in generator order and only a strictly better score replaces the
// current best, so equal scores keep the earliest move.
func (s *searcher) searchRoot(moves []board.Move, depth int) (board.Move, int, error) {
	best := board.NoMove
	bestScore := -Infinity
	alpha, beta := -Infinity, Infinity

	for _, m := range moves {
		if s.poll() {
			return board.NoMove, 0, errSearchAborted
		}
		undo := s.b.Apply(m)
		score := -s.negamax(depth-1, 1, -beta, -alpha)
		s.b.Undo(undo)
		if s.aborted {
			return board.NoMove, 0, errSearchAborted
		}

		if score > bestScore {
			bestScore = score
			best = m
		}
		if score > alpha {
			alpha = score
		}
	}
	return best, bestScore, nil
}

// negamax is minimax in negamax form with alpha-beta pruning. Scores are from
// the point of view of the side to move.
func (s *searcher) negamax(depth, ply, alpha, beta int) int {
	s.nodes++
	if s.stopped() {
		return 0
	}

	side := s.b.SideToMove()

	if depth <= 0 || ply >= MaxPly {
		if !s.b.HasLegalMoves(side) {
			return s.terminalScore(ply)
		}
		if s.isRuleDraw() {
			return 0
		}
		return s.evaluate()
	}

	moves := s.b.LegalMoves(side)
	if len(moves) == 0 {
		return s.terminalScore(ply)
	}
	if s.isRuleDraw() {
		return 0
	}

	scores := s.orderer.ScoreMoves(moves, ply)
	best := -Infinity

	for i := range moves {
		PickMove(moves, scores, i)
		m := moves[i]

		undo := s.b.Apply(m)
		score := -s.negamax(depth-1, ply+1, -beta, -alpha)
		s.b.Undo(undo)

		if s.aborted {
			return 0
		}

		if score > best {
			best = score
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			if !m.IsCapture() && !m.IsPromotion() {
				s.orderer.UpdateKillers(m, ply)
			}
			break
		}
	}

	return best
}

// isRuleDraw reports draws that need no history: the fifty-move rule and
// insufficient material.
func (s *searcher) isRuleDraw() bool {
	return s.b.HalfMoveClock() >= 100 || s.b.IsInsufficientMaterial()
}

// staticBest scores every root move one ply deep and returns the first move
// with the highest score. It ignores the clock.
func (s *searcher) staticBest(moves []board.Move) (board.Move, int) {
	best := board.NoMove
	bestScore := -Infinity
	for _, m := range moves {
		undo := s.b.Apply(m)
		var score int
		switch {
		case !s.b.HasLegalMoves(s.b.SideToMove()):
			score = -s.terminalScore(1)
		case s.isRuleDraw():
			score = 0
		default:
			score = -s.evaluate()
		}
		s.b.Undo(undo)

		if score > bestScore {
			bestScore = score
			best = m
		}
	}
	return best, bestScore
}
