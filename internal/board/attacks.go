package board

// Ray directions. The first four are orthogonal (rook lines), the last four
// diagonal (bishop lines).
const (
	dirNorth = iota
	dirEast
	dirSouth
	dirWest
	dirNorthEast
	dirSouthEast
	dirSouthWest
	dirNorthWest
)

var rayDelta = [8][2]int{
	{0, 1}, {1, 0}, {0, -1}, {-1, 0},
	{1, 1}, {1, -1}, {-1, -1}, {-1, 1},
}

var (
	knightDelta = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingDelta   = [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
)

// Precomputed geometry, indexed by origin square.
var (
	knightTargets [64][]Square
	kingTargets   [64][]Square
	pawnAttacks   [2][64][]Square // squares a pawn of [color] on [sq] attacks
	rays          [64][8][]Square // squares along each direction, nearest first
)

func init() {
	for sq := A1; sq <= H8; sq++ {
		for _, d := range knightDelta {
			if to, ok := sq.offset(d[0], d[1]); ok {
				knightTargets[sq] = append(knightTargets[sq], to)
			}
		}
		for _, d := range kingDelta {
			if to, ok := sq.offset(d[0], d[1]); ok {
				kingTargets[sq] = append(kingTargets[sq], to)
			}
		}
		for _, df := range []int{-1, 1} {
			if to, ok := sq.offset(df, 1); ok {
				pawnAttacks[White][sq] = append(pawnAttacks[White][sq], to)
			}
			if to, ok := sq.offset(df, -1); ok {
				pawnAttacks[Black][sq] = append(pawnAttacks[Black][sq], to)
			}
		}
		for dir, d := range rayDelta {
			for to, ok := sq.offset(d[0], d[1]); ok; to, ok = to.offset(d[0], d[1]) {
				rays[sq][dir] = append(rays[sq][dir], to)
			}
		}
	}
}

// IsSquareAttacked reports whether any piece of color by attacks sq. It looks
// outward from sq along each attack pattern and never generates moves.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	pawn := NewPiece(Pawn, by)
	for _, from := range pawnAttacks[by.Other()][sq] {
		if b.squares[from] == pawn {
			return true
		}
	}

	knight := NewPiece(Knight, by)
	for _, from := range knightTargets[sq] {
		if b.squares[from] == knight {
			return true
		}
	}

	king := NewPiece(King, by)
	for _, from := range kingTargets[sq] {
		if b.squares[from] == king {
			return true
		}
	}

	queen := NewPiece(Queen, by)
	for dir := range rays[sq] {
		slider := NewPiece(Rook, by)
		if dir >= dirNorthEast {
			slider = NewPiece(Bishop, by)
		}
		for _, from := range rays[sq][dir] {
			p := b.squares[from]
			if p == NoPiece {
				continue
			}
			if p == slider || p == queen {
				return true
			}
			break
		}
	}

	return false
}

// IsInCheck reports whether c's king is attacked.
func (b *Board) IsInCheck(c Color) bool {
	ksq := b.kingSquare[c]
	if ksq == NoSquare {
		return false
	}
	return b.IsSquareAttacked(ksq, c.Other())
}

// InCheck reports whether the side to move is in check.
func (b *Board) InCheck() bool {
	return b.IsInCheck(b.sideToMove)
}

// PawnDefenders returns how many pawns of color by attack sq.
func (b *Board) PawnDefenders(sq Square, by Color) int {
	n := 0
	pawn := NewPiece(Pawn, by)
	for _, from := range pawnAttacks[by.Other()][sq] {
		if b.squares[from] == pawn {
			n++
		}
	}
	return n
}
