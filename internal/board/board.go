package board

import (
	"fmt"
	"strings"
)

// CastlingRights holds the four independent castling flags.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling field.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, c := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// CanCastle reports whether c still holds the right on the given wing.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleRight(c, kingSide) != 0
}

func castleRight(c Color, kingSide bool) CastlingRights {
	switch {
	case c == White && kingSide:
		return WhiteKingSideCastle
	case c == White:
		return WhiteQueenSideCastle
	case kingSide:
		return BlackKingSideCastle
	default:
		return BlackQueenSideCastle
	}
}

// castleMask[sq] is ANDed into the rights whenever a move starts or ends on
// sq, so a king or rook leaving home, or a rook captured at home, drops the
// matching right for good.
var castleMask [64]CastlingRights

func init() {
	for sq := range castleMask {
		castleMask[sq] = AllCastling
	}
	castleMask[E1] &^= WhiteKingSideCastle | WhiteQueenSideCastle
	castleMask[H1] &^= WhiteKingSideCastle
	castleMask[A1] &^= WhiteQueenSideCastle
	castleMask[E8] &^= BlackKingSideCastle | BlackQueenSideCastle
	castleMask[H8] &^= BlackKingSideCastle
	castleMask[A8] &^= BlackQueenSideCastle
}

// Board is one chess position. The grid and all metadata change only through
// Apply and Undo; construct boards with NewBoard or ParseFEN.
type Board struct {
	squares        [64]Piece
	sideToMove     Color
	castling       CastlingRights
	enPassant      Square
	kingSquare     [2]Square
	halfMoveClock  int
	fullMoveNumber int
	hash           uint64
}

// NewBoard returns the standard starting position.
func NewBoard() *Board {
	b, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return b
}

func emptyBoard() *Board {
	b := &Board{
		enPassant:      NoSquare,
		fullMoveNumber: 1,
		kingSquare:     [2]Square{NoSquare, NoSquare},
	}
	for sq := range b.squares {
		b.squares[sq] = NoPiece
	}
	return b
}

// Copy returns an independent deep copy.
func (b *Board) Copy() *Board {
	nb := *b
	return &nb
}

// PieceAt returns the piece on sq, or NoPiece.
func (b *Board) PieceAt(sq Square) Piece {
	return b.squares[sq]
}

// IsEmpty reports whether sq holds no piece.
func (b *Board) IsEmpty(sq Square) bool {
	return b.squares[sq] == NoPiece
}

// SideToMove returns the color on move.
func (b *Board) SideToMove() Color { return b.sideToMove }

// CastlingRights returns the current castling flags.
func (b *Board) CastlingRights() CastlingRights { return b.castling }

// EnPassant returns the en-passant target square, or NoSquare.
func (b *Board) EnPassant() Square { return b.enPassant }

// KingSquare returns the cached king square of c.
func (b *Board) KingSquare(c Color) Square { return b.kingSquare[c] }

// HalfMoveClock returns the number of half-moves since the last capture or pawn move.
func (b *Board) HalfMoveClock() int { return b.halfMoveClock }

// FullMoveNumber returns the FEN full-move counter.
func (b *Board) FullMoveNumber() int { return b.fullMoveNumber }

// Hash returns the Zobrist key of the position.
func (b *Board) Hash() uint64 { return b.hash }

// putPiece places a piece on an empty square and updates the hash.
func (b *Board) putPiece(p Piece, sq Square) {
	b.squares[sq] = p
	b.hash ^= zobristPiece[p][sq]
	if p.Type() == King {
		b.kingSquare[p.Color()] = sq
	}
}

// removePiece clears sq and returns what stood there.
func (b *Board) removePiece(sq Square) Piece {
	p := b.squares[sq]
	if p != NoPiece {
		b.squares[sq] = NoPiece
		b.hash ^= zobristPiece[p][sq]
	}
	return p
}

// castleRookSquares returns the rook's origin and destination for a castling
// move of a king on the given rank.
func castleRookSquares(kind MoveKind, rank int) (Square, Square) {
	if kind == CastleKingSide {
		return NewSquare(7, rank), NewSquare(5, rank)
	}
	return NewSquare(0, rank), NewSquare(3, rank)
}

// Apply plays m, which must be pseudo-legal for the color of the piece on
// m.From, and returns the token that reverses it. The side to move afterwards
// is the mover's opponent.
func (b *Board) Apply(m Move) UndoToken {
	undo := UndoToken{
		Move:           m,
		Captured:       NoPiece,
		CapturedSquare: NoSquare,
		CastlingRights: b.castling,
		EnPassant:      b.enPassant,
		HalfMoveClock:  b.halfMoveClock,
		FullMoveNumber: b.fullMoveNumber,
		SideToMove:     b.sideToMove,
		KingSquare:     b.kingSquare,
		Hash:           b.hash,
	}

	piece := b.squares[m.From]
	us := piece.Color()

	b.hash ^= zobristCastling[b.castling]
	if b.enPassantHashed() {
		b.hash ^= zobristEnPassant[b.enPassant.File()]
	}

	capSq := m.To
	if m.Kind == EnPassant {
		capSq = NewSquare(m.To.File(), m.From.Rank())
	}
	if captured := b.removePiece(capSq); captured != NoPiece {
		undo.Captured = captured
		undo.CapturedSquare = capSq
	}

	b.removePiece(m.From)
	if m.Kind == Promotion {
		b.putPiece(NewPiece(m.PromoteTo, us), m.To)
	} else {
		b.putPiece(piece, m.To)
	}

	if m.IsCastle() {
		rookFrom, rookTo := castleRookSquares(m.Kind, m.From.Rank())
		b.putPiece(b.removePiece(rookFrom), rookTo)
	}

	b.castling &= castleMask[m.From] & castleMask[m.To]
	b.hash ^= zobristCastling[b.castling]

	b.enPassant = NoSquare
	if m.Kind == DoublePawnPush {
		b.enPassant = Square((int(m.From) + int(m.To)) / 2)
	}

	if piece.Type() == Pawn || undo.Captured != NoPiece {
		b.halfMoveClock = 0
	} else {
		b.halfMoveClock++
	}
	if us == Black {
		b.fullMoveNumber++
	}

	b.sideToMove = us.Other()
	if b.sideToMove != undo.SideToMove {
		b.hash ^= zobristSideToMove
	}
	if b.enPassantHashed() {
		b.hash ^= zobristEnPassant[b.enPassant.File()]
	}

	return undo
}

// Undo reverses the Apply call that produced u. Tokens must be undone in
// reverse order of application.
func (b *Board) Undo(u UndoToken) {
	m := u.Move
	moved := b.squares[m.To]
	b.squares[m.To] = NoPiece
	if m.Kind == Promotion {
		moved = NewPiece(Pawn, moved.Color())
	}
	b.squares[m.From] = moved

	if m.IsCastle() {
		rookFrom, rookTo := castleRookSquares(m.Kind, m.From.Rank())
		b.squares[rookFrom] = b.squares[rookTo]
		b.squares[rookTo] = NoPiece
	}
	if u.Captured != NoPiece {
		b.squares[u.CapturedSquare] = u.Captured
	}

	b.castling = u.CastlingRights
	b.enPassant = u.EnPassant
	b.halfMoveClock = u.HalfMoveClock
	b.fullMoveNumber = u.FullMoveNumber
	b.sideToMove = u.SideToMove
	b.kingSquare = u.KingSquare
	b.hash = u.Hash
}

// Snapshot is an immutable value copy of a Board, for display and comparison.
type Snapshot struct {
	Squares        [64]Piece
	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square
	KingSquare     [2]Square
	HalfMoveClock  int
	FullMoveNumber int
	Hash           uint64
}

// Snapshot captures the full current state.
func (b *Board) Snapshot() Snapshot {
	return Snapshot{
		Squares:        b.squares,
		SideToMove:     b.sideToMove,
		CastlingRights: b.castling,
		EnPassant:      b.enPassant,
		KingSquare:     b.kingSquare,
		HalfMoveClock:  b.halfMoveClock,
		FullMoveNumber: b.fullMoveNumber,
		Hash:           b.hash,
	}
}

// At returns the piece at the 0-indexed file and rank.
func (s Snapshot) At(file, rank int) Piece {
	return s.Squares[NewSquare(file, rank)]
}

// Rows returns the grid with the 8th rank first, as a board is drawn.
func (s Snapshot) Rows() [8][8]Piece {
	var rows [8][8]Piece
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			rows[7-r][f] = s.At(f, r)
		}
	}
	return rows
}

// String draws the board with rank 8 at the top.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteString(b.squares[NewSquare(file, rank)].String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", b.sideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", b.castling)
	fmt.Fprintf(&sb, "En passant: %s\n", b.enPassant)
	fmt.Fprintf(&sb, "FEN: %s\n", b.FEN())
	return sb.String()
}

// validate checks the invariants every legal position satisfies.
func (b *Board) validate() error {
	var kings [2]int
	for sq, p := range b.squares {
		if p == NoPiece {
			continue
		}
		switch p.Type() {
		case King:
			kings[p.Color()]++
		case Pawn:
			if r := Square(sq).Rank(); r == 0 || r == 7 {
				return fmt.Errorf("pawn on back rank %s", Square(sq))
			}
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return fmt.Errorf("each side needs exactly one king, got white=%d black=%d", kings[White], kings[Black])
	}
	if b.IsInCheck(b.sideToMove.Other()) {
		return fmt.Errorf("side not to move (%s) is in check", b.sideToMove.Other())
	}
	return nil
}

// IsInsufficientMaterial reports whether neither side can possibly mate:
// bare kings, a single minor piece, or only bishops all on one square color.
func (b *Board) IsInsufficientMaterial() bool {
	var minors [2]int
	bishopColors := 0 // bit 0: light-square bishop seen, bit 1: dark
	bishops := 0
	for sq, p := range b.squares {
		switch p.Type() {
		case Pawn, Rook, Queen:
			return false
		case Knight:
			minors[p.Color()]++
		case Bishop:
			minors[p.Color()]++
			bishops++
			if (Square(sq).File()+Square(sq).Rank())%2 == 1 {
				bishopColors |= 1
			} else {
				bishopColors |= 2
			}
		}
	}
	total := minors[White] + minors[Black]
	if total <= 1 {
		return true
	}
	return bishops == total && bishopColors != 3
}
