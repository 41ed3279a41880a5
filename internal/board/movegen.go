package board

// LegalMoves returns every legal move for c. The order is deterministic:
// origin squares a1..h8, each piece's targets in geometry-table order,
// promotions as Q, R, B, N, and castling after the king's single steps.
//
// When c is not on move the en-passant target is ignored, since it only ever
// belongs to the side on move.
func (b *Board) LegalMoves(c Color) []Move {
	pseudo := b.PseudoLegalMoves(c)
	legal := pseudo[:0]
	for _, m := range pseudo {
		if b.isLegal(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// HasLegalMoves reports whether c has at least one legal move.
func (b *Board) HasLegalMoves(c Color) bool {
	for _, m := range b.PseudoLegalMoves(c) {
		if b.isLegal(m) {
			return true
		}
	}
	return false
}

// IsLegal reports whether m appears in the legal moves of the side that owns
// the moving piece.
func (b *Board) IsLegal(m Move) bool {
	p := b.squares[m.From]
	if p == NoPiece {
		return false
	}
	for _, lm := range b.LegalMoves(p.Color()) {
		if lm.SameAs(m) {
			return true
		}
	}
	return false
}

// isLegal applies a pseudo-legal move and rejects it if the mover's king is
// attacked afterwards. This is the only legality test; nothing bypasses it.
func (b *Board) isLegal(m Move) bool {
	us := m.Piece.Color()
	undo := b.Apply(m)
	ok := !b.IsInCheck(us)
	b.Undo(undo)
	return ok
}

// PseudoLegalMoves returns moves that obey piece geometry but may leave the
// mover's king attacked.
func (b *Board) PseudoLegalMoves(c Color) []Move {
	moves := make([]Move, 0, 48)
	for sq := A1; sq <= H8; sq++ {
		p := b.squares[sq]
		if p == NoPiece || p.Color() != c {
			continue
		}
		switch p.Type() {
		case Pawn:
			moves = b.appendPawnMoves(moves, sq, p)
		case Knight:
			moves = b.appendSteps(moves, sq, p, knightTargets[sq])
		case Bishop:
			moves = b.appendSlides(moves, sq, p, dirNorthEast, dirNorthWest)
		case Rook:
			moves = b.appendSlides(moves, sq, p, dirNorth, dirWest)
		case Queen:
			moves = b.appendSlides(moves, sq, p, dirNorth, dirNorthWest)
		case King:
			moves = b.appendSteps(moves, sq, p, kingTargets[sq])
			moves = b.appendCastles(moves, sq, p)
		}
	}
	return moves
}

func (b *Board) appendSteps(moves []Move, from Square, p Piece, targets []Square) []Move {
	for _, to := range targets {
		target := b.squares[to]
		if target != NoPiece && target.Color() == p.Color() {
			continue
		}
		moves = append(moves, Move{From: from, To: to, Piece: p, Captured: target, Kind: Normal, PromoteTo: NoPieceType})
	}
	return moves
}

// appendSlides walks the rays firstDir..lastDir, stopping at the first
// occupied square and capturing it when it holds an enemy piece.
func (b *Board) appendSlides(moves []Move, from Square, p Piece, firstDir, lastDir int) []Move {
	for dir := firstDir; dir <= lastDir; dir++ {
		for _, to := range rays[from][dir] {
			target := b.squares[to]
			if target != NoPiece && target.Color() == p.Color() {
				break
			}
			moves = append(moves, Move{From: from, To: to, Piece: p, Captured: target, Kind: Normal, PromoteTo: NoPieceType})
			if target != NoPiece {
				break
			}
		}
	}
	return moves
}

func (b *Board) appendPawnMoves(moves []Move, from Square, p Piece) []Move {
	us := p.Color()
	dr := 1
	if us == Black {
		dr = -1
	}

	if to, ok := from.offset(0, dr); ok && b.squares[to] == NoPiece {
		if to.RelativeRank(us) == 7 {
			moves = appendPromotions(moves, from, to, p, NoPiece)
		} else {
			moves = append(moves, Move{From: from, To: to, Piece: p, Captured: NoPiece, Kind: Normal, PromoteTo: NoPieceType})
			if from.RelativeRank(us) == 1 {
				if to2, ok := to.offset(0, dr); ok && b.squares[to2] == NoPiece {
					moves = append(moves, Move{From: from, To: to2, Piece: p, Captured: NoPiece, Kind: DoublePawnPush, PromoteTo: NoPieceType})
				}
			}
		}
	}

	for _, to := range pawnAttacks[us][from] {
		target := b.squares[to]
		switch {
		case target != NoPiece && target.Color() != us:
			if to.RelativeRank(us) == 7 {
				moves = appendPromotions(moves, from, to, p, target)
			} else {
				moves = append(moves, Move{From: from, To: to, Piece: p, Captured: target, Kind: Normal, PromoteTo: NoPieceType})
			}
		case target == NoPiece && to == b.enPassant && us == b.sideToMove:
			victim := NewPiece(Pawn, us.Other())
			if b.squares[NewSquare(to.File(), from.Rank())] == victim {
				moves = append(moves, Move{From: from, To: to, Piece: p, Captured: victim, Kind: EnPassant, PromoteTo: NoPieceType})
			}
		}
	}
	return moves
}

func appendPromotions(moves []Move, from, to Square, p, captured Piece) []Move {
	for _, pt := range PromotionTypes {
		moves = append(moves, Move{From: from, To: to, Piece: p, Captured: captured, Kind: Promotion, PromoteTo: pt})
	}
	return moves
}

// appendCastles adds castling moves whose flag is set, whose path between
// king and rook is empty, and whose king never stands on, crosses or lands on
// an attacked square.
func (b *Board) appendCastles(moves []Move, from Square, king Piece) []Move {
	us := king.Color()
	them := us.Other()
	rank := 0
	if us == Black {
		rank = 7
	}
	if from != NewSquare(4, rank) || b.castling&(castleRight(us, true)|castleRight(us, false)) == 0 {
		return moves
	}
	if b.IsSquareAttacked(from, them) {
		return moves
	}
	rook := NewPiece(Rook, us)

	if b.castling.CanCastle(us, true) && b.squares[NewSquare(7, rank)] == rook {
		f, g := NewSquare(5, rank), NewSquare(6, rank)
		if b.squares[f] == NoPiece && b.squares[g] == NoPiece &&
			!b.IsSquareAttacked(f, them) && !b.IsSquareAttacked(g, them) {
			moves = append(moves, Move{From: from, To: g, Piece: king, Captured: NoPiece, Kind: CastleKingSide, PromoteTo: NoPieceType})
		}
	}

	if b.castling.CanCastle(us, false) && b.squares[NewSquare(0, rank)] == rook {
		bsq, c, d := NewSquare(1, rank), NewSquare(2, rank), NewSquare(3, rank)
		if b.squares[bsq] == NoPiece && b.squares[c] == NoPiece && b.squares[d] == NoPiece &&
			!b.IsSquareAttacked(d, them) && !b.IsSquareAttacked(c, them) {
			moves = append(moves, Move{From: from, To: c, Piece: king, Captured: NoPiece, Kind: CastleQueenSide, PromoteTo: NoPieceType})
		}
	}
	return moves
}

// Perft counts leaf nodes of the legal move tree to the given depth.
func Perft(b *Board, depth int) int64 {
	if depth == 0 {
		return 1
	}
	moves := b.LegalMoves(b.sideToMove)
	if depth == 1 {
		return int64(len(moves))
	}
	var nodes int64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += Perft(b, depth-1)
		b.Undo(undo)
	}
	return nodes
}
