package game

import "github.com/hailam/chesscore/internal/board"

// MoveOption is one legal move as offered to a front end.
type MoveOption struct {
	Move board.Move
	SAN  string
	// Promotion is set when the move only exists with a chosen promotion
	// piece; the front end must ask which.
	Promotion bool
}

// View is everything a display needs to draw the game and offer moves.
type View struct {
	Board      board.Snapshot
	SideToMove board.Color
	Status     Status
	Result     Result
	DrawReason DrawReason
	LastMove   board.Move
	Moves      []MoveOption
}

// View returns a value copy of the display state.
func (g *Game) View() View {
	v := View{
		Board:      g.board.Snapshot(),
		SideToMove: g.board.SideToMove(),
		Status:     g.status,
		Result:     g.result,
		DrawReason: g.drawReason,
		LastMove:   board.NoMove,
	}
	if n := len(g.moves); n > 0 {
		v.LastMove = g.moves[n-1]
	}
	for _, m := range g.LegalMoves() {
		v.Moves = append(v.Moves, MoveOption{
			Move:      m,
			SAN:       g.board.SAN(m),
			Promotion: m.IsPromotion(),
		})
	}
	return v
}

// MovesFrom returns the legal moves starting on sq.
func (v View) MovesFrom(sq board.Square) []MoveOption {
	var out []MoveOption
	for _, o := range v.Moves {
		if o.Move.From == sq {
			out = append(out, o)
		}
	}
	return out
}
