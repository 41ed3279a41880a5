// Package game tracks a single game: the current board, the moves played,
// and the status derived after every move.
package game

import (
	"github.com/hailam/chesscore/internal/board"
)

// Game is the record of one game in progress. A Game is not safe for
// concurrent use; give each goroutine its own.
type Game struct {
	board      *board.Board
	moves      []board.Move
	san        []string
	hashes     []uint64
	status     Status
	result     Result
	drawReason DrawReason
}

// New starts a game from the standard position.
func New() *Game {
	return newGame(board.NewBoard())
}

// NewFromFEN starts a game from an arbitrary position. The status is derived
// immediately, so a mated position is already terminal.
func NewFromFEN(fen string) (*Game, error) {
	b, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return newGame(b), nil
}

func newGame(b *board.Board) *Game {
	g := &Game{board: b, hashes: []uint64{b.Hash()}}
	g.updateStatus()
	return g
}

// MakeMove plays m if it matches a legal move by origin, destination, kind
// and promotion choice. The generator's own move is the one recorded. On
// error the game is unchanged.
func (g *Game) MakeMove(m board.Move) (Status, error) {
	if g.status.IsTerminal() {
		return g.status, g.moveError(ErrGameOver, m.String())
	}
	for _, lm := range g.board.LegalMoves(g.board.SideToMove()) {
		if lm.SameAs(m) {
			g.play(lm)
			return g.status, nil
		}
	}
	return g.status, g.moveError(ErrIllegalMove, m.String())
}

// Submit resolves a front-end move intent against the legal moves and plays
// it. An intent that lands a pawn on the last rank without a promotion
// choice is rejected with ErrPromotionRequired.
func (g *Game) Submit(intent board.MoveIntent) (board.Move, Status, error) {
	if g.status.IsTerminal() {
		return board.NoMove, g.status, g.moveError(ErrGameOver, intent.String())
	}
	needsPromotion := false
	for _, lm := range g.board.LegalMoves(g.board.SideToMove()) {
		if intent.Matches(lm) {
			g.play(lm)
			return lm, g.status, nil
		}
		if lm.IsPromotion() && lm.From == intent.From && lm.To == intent.To && intent.PromoteTo == board.NoPieceType {
			needsPromotion = true
		}
	}
	if needsPromotion {
		return board.NoMove, g.status, g.moveError(ErrPromotionRequired, intent.String())
	}
	return board.NoMove, g.status, g.moveError(ErrIllegalMove, intent.String())
}

// SubmitUCI parses a long algebraic move and submits it.
func (g *Game) SubmitUCI(s string) (board.Move, Status, error) {
	intent, err := board.ParseUCIMove(s)
	if err != nil {
		return board.NoMove, g.status, g.moveError(ErrIllegalMove, s)
	}
	return g.Submit(intent)
}

// Replay plays a long algebraic move from a recorded move list. Rule draws
// (fifty moves, repetition, insufficient material) do not stop it: the
// recording decides whether a draw was claimed. Moves after checkmate or
// stalemate are still illegal.
func (g *Game) Replay(s string) (board.Move, Status, error) {
	intent, err := board.ParseUCIMove(s)
	if err != nil {
		return board.NoMove, g.status, g.moveError(ErrIllegalMove, s)
	}
	for _, lm := range g.board.LegalMoves(g.board.SideToMove()) {
		if intent.Matches(lm) {
			g.play(lm)
			return lm, g.status, nil
		}
	}
	return board.NoMove, g.status, g.moveError(ErrIllegalMove, s)
}

// SubmitSAN plays a move given in Standard Algebraic Notation, such as
// "Nf3", "exd5", "O-O" or "e8=Q+".
func (g *Game) SubmitSAN(s string) (board.Move, Status, error) {
	if g.status.IsTerminal() {
		return board.NoMove, g.status, g.moveError(ErrGameOver, s)
	}
	m, err := g.board.ParseSAN(s)
	if err != nil {
		return board.NoMove, g.status, g.moveError(ErrIllegalMove, s)
	}
	g.play(m)
	return m, g.status, nil
}

func (g *Game) play(m board.Move) {
	g.san = append(g.san, g.board.SAN(m))
	g.board.Apply(m)
	g.moves = append(g.moves, m)
	g.hashes = append(g.hashes, g.board.Hash())
	g.updateStatus()
}

func (g *Game) moveError(err error, text string) error {
	return &MoveError{Err: err, Ply: len(g.moves) + 1, MoveText: text}
}

// updateStatus derives status, result and draw reason for the side to move.
// Mate and stalemate take precedence over the rule draws.
func (g *Game) updateStatus() {
	b := g.board
	side := b.SideToMove()
	inCheck := b.IsInCheck(side)
	hasMoves := b.HasLegalMoves(side)

	g.result = InProgress
	g.drawReason = NoDraw

	switch {
	case !hasMoves && inCheck:
		g.status = Checkmate
		if side == board.White {
			g.result = BlackWins
		} else {
			g.result = WhiteWins
		}
		return
	case !hasMoves:
		g.status = Stalemate
		g.result = Drawn
		g.drawReason = ByStalemate
		return
	}

	switch {
	case b.HalfMoveClock() >= 100:
		g.drawReason = FiftyMoveRule
	case b.IsInsufficientMaterial():
		g.drawReason = InsufficientMaterial
	case g.repetitions() >= 3:
		g.drawReason = ThreefoldRepetition
	}
	if g.drawReason != NoDraw {
		g.status = Draw
		g.result = Drawn
		return
	}

	if inCheck {
		g.status = Check
	} else {
		g.status = Ongoing
	}
}

// repetitions counts how often the current position has occurred.
func (g *Game) repetitions() int {
	cur := g.hashes[len(g.hashes)-1]
	n := 0
	for _, h := range g.hashes {
		if h == cur {
			n++
		}
	}
	return n
}

// LegalMoves returns the legal moves of the side to move, or nil once the
// game is over.
func (g *Game) LegalMoves() []board.Move {
	if g.status.IsTerminal() {
		return nil
	}
	return g.board.LegalMoves(g.board.SideToMove())
}

// Status returns the status after the last move.
func (g *Game) Status() Status { return g.status }

// Result returns the game outcome so far.
func (g *Game) Result() Result { return g.result }

// DrawReason returns why the game was drawn, or NoDraw.
func (g *Game) DrawReason() DrawReason { return g.drawReason }

// SideToMove returns the color on move.
func (g *Game) SideToMove() board.Color { return g.board.SideToMove() }

// Ply returns the number of half-moves played.
func (g *Game) Ply() int { return len(g.moves) }

// FEN returns the FEN of the current position.
func (g *Game) FEN() string { return g.board.FEN() }

// Moves returns a copy of the moves played so far.
func (g *Game) Moves() []board.Move {
	return append([]board.Move(nil), g.moves...)
}

// SANMoves returns the moves played so far in Standard Algebraic Notation.
func (g *Game) SANMoves() []string {
	return append([]string(nil), g.san...)
}

// Board returns a copy of the current board that the caller may mutate.
func (g *Game) Board() *board.Board {
	return g.board.Copy()
}
