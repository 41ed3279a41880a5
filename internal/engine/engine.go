package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
)

// SearchInfo describes one completed iteration.
type SearchInfo struct {
	Depth int
	Score int // centipawns for the side to move
	Nodes uint64
	Time  time.Duration
	Move  board.Move
}

// Engine is the chess AI engine. It keeps no state between calls, so one
// Engine may serve any number of games, also concurrently.
type Engine struct {
	eval   Evaluator
	log    zerolog.Logger
	onInfo func(SearchInfo)
}

// Option configures an Engine.
type Option func(*Engine)

// WithEvaluator replaces the default Classical evaluator.
func WithEvaluator(ev Evaluator) Option {
	return func(e *Engine) {
		if ev != nil {
			e.eval = ev
		}
	}
}

// WithLogger sets the logger used for search diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithInfo registers a callback invoked after every completed depth.
func WithInfo(fn func(SearchInfo)) Option {
	return func(e *Engine) {
		e.onInfo = fn
	}
}

// New creates a new chess engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		eval: Classical{},
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluator returns the evaluator in use.
func (e *Engine) Evaluator() Evaluator {
	return e.eval
}

// ChooseMove returns the best move for color, which must be on move in b.
// b itself is never modified. The search deepens from 1 to limits.Depth
// until the budget runs out or ctx is cancelled; the move from the deepest
// completed iteration is returned. If not even depth 1 completes, the best
// move by one-ply static evaluation is returned instead, so a legal move is
// produced whenever one exists.
func (e *Engine) ChooseMove(ctx context.Context, b *board.Board, color board.Color, limits Limits) (board.Move, error) {
	if err := limits.Validate(); err != nil {
		return board.NoMove, err
	}
	if b.SideToMove() != color {
		return board.NoMove, fmt.Errorf("%w: asked for %s, %s to move", ErrNotSideToMove, color, b.SideToMove())
	}

	pos := b.Copy()
	moves := pos.LegalMoves(color)
	if len(moves) == 0 {
		return board.NoMove, ErrNoLegalMoves
	}

	tm := NewTimeManager()
	tm.Init(limits.TimeBudget)
	s := newSearcher(ctx, pos, e.eval, tm)

	log := e.log.With().Str("fen", b.FEN()).Logger()
	log.Debug().Int("depth", limits.Depth).Dur("budget", limits.TimeBudget).Int("moves", len(moves)).Msg("search started")

	best := board.NoMove
	completed := 0

	for depth := 1; depth <= limits.Depth; depth++ {
		if depth > 1 && !tm.CanStartIteration() {
			break
		}

		move, score, err := s.searchRoot(moves, depth)
		if err != nil {
			log.Debug().Int("depth", depth).Uint64("nodes", s.nodes).Dur("elapsed", tm.Elapsed()).Msg("iteration abandoned")
			break
		}
		best = move
		completed = depth

		info := SearchInfo{
			Depth: depth,
			Score: score,
			Nodes: s.nodes,
			Time:  tm.Elapsed(),
			Move:  move,
		}
		log.Debug().
			Int("depth", depth).
			Int("score", score).
			Uint64("nodes", s.nodes).
			Dur("elapsed", info.Time).
			Str("move", move.String()).
			Msg("iteration complete")
		if e.onInfo != nil {
			e.onInfo(info)
		}

		// Early termination: found mate
		if score >= MateScore-MaxPly {
			break
		}
	}

	if best.IsNone() {
		var score int
		best, score = s.staticBest(moves)
		log.Debug().Str("move", best.String()).Int("score", score).Msg("no iteration completed, using static fallback")
	}

	log.Debug().Int("completed", completed).Str("move", best.String()).Dur("elapsed", tm.Elapsed()).Msg("search finished")
	return best, nil
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(b *board.Board, depth int) int64 {
	return board.Perft(b.Copy(), depth)
}

// Evaluate returns the static evaluation of a position from White's view.
func (e *Engine) Evaluate(b *board.Board) int {
	return e.eval.Evaluate(b)
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return score >= MateScore-MaxPly || score <= -MateScore+MaxPly
}

// MateIn converts a mate score to full moves; negative when being mated.
func MateIn(score int) int {
	if score > 0 {
		return (MateScore - score + 1) / 2
	}
	return -(MateScore + score + 1) / 2
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if IsMateScore(score) {
		n := MateIn(score)
		if n > 0 {
			return "Mate in " + strconv.Itoa(n)
		}
		return "Mated in " + strconv.Itoa(-n)
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}
