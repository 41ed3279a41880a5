package board

import "fmt"

// MoveKind distinguishes moves whose effect on the board differs.
type MoveKind uint8

const (
	Normal MoveKind = iota
	DoublePawnPush
	EnPassant
	CastleKingSide
	CastleQueenSide
	Promotion
)

// String returns a lowercase name for the kind.
func (k MoveKind) String() string {
	switch k {
	case Normal:
		return "normal"
	case DoublePawnPush:
		return "double-push"
	case EnPassant:
		return "en-passant"
	case CastleKingSide:
		return "castle-king-side"
	case CastleQueenSide:
		return "castle-queen-side"
	case Promotion:
		return "promotion"
	default:
		return "unknown"
	}
}

// Move describes one half-move. Values are immutable once generated.
// Captured is NoPiece for quiet moves; for en passant it is the captured pawn,
// which does not stand on To. PromoteTo is NoPieceType unless Kind is Promotion.
type Move struct {
	From      Square
	To        Square
	Piece     Piece
	Captured  Piece
	Kind      MoveKind
	PromoteTo PieceType
}

// NoMove is the zero-information move returned alongside errors.
var NoMove = Move{From: NoSquare, To: NoSquare, Piece: NoPiece, Captured: NoPiece, PromoteTo: NoPieceType}

// IsNone reports whether m is NoMove.
func (m Move) IsNone() bool {
	return m.From == NoSquare
}

// IsCapture reports whether the move removes an enemy piece.
func (m Move) IsCapture() bool {
	return m.Captured != NoPiece
}

// IsCastle reports whether the move is either castling move.
func (m Move) IsCastle() bool {
	return m.Kind == CastleKingSide || m.Kind == CastleQueenSide
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Kind == Promotion
}

// SameAs compares the fields that identify a move for validation: origin,
// destination, kind and promotion choice.
func (m Move) SameAs(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Kind == o.Kind && m.PromoteTo == o.PromoteTo
}

// String returns the UCI long algebraic form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m.IsNone() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.Kind == Promotion {
		s += string(m.PromoteTo.Char())
	}
	return s
}

// MoveIntent is what a front end submits: squares plus an optional promotion
// choice (NoPieceType when none was made).
type MoveIntent struct {
	From      Square
	To        Square
	PromoteTo PieceType
}

// String returns the UCI form of the intent.
func (mi MoveIntent) String() string {
	s := mi.From.String() + mi.To.String()
	if mi.PromoteTo != NoPieceType {
		s += string(mi.PromoteTo.Char())
	}
	return s
}

// Matches reports whether the legal move m realises the intent. An intent
// without a promotion choice never matches a promotion.
func (mi MoveIntent) Matches(m Move) bool {
	if mi.From != m.From || mi.To != m.To {
		return false
	}
	if m.Kind == Promotion {
		return mi.PromoteTo == m.PromoteTo
	}
	return mi.PromoteTo == NoPieceType
}

// ParseUCIMove parses long algebraic notation into a MoveIntent.
func ParseUCIMove(s string) (MoveIntent, error) {
	if len(s) != 4 && len(s) != 5 {
		return MoveIntent{}, fmt.Errorf("invalid move string: %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return MoveIntent{}, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return MoveIntent{}, err
	}
	mi := MoveIntent{From: from, To: to, PromoteTo: NoPieceType}
	if len(s) == 5 {
		pt := PieceTypeFromChar(s[4])
		if !pt.IsPromotionTarget() {
			return MoveIntent{}, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		mi.PromoteTo = pt
	}
	return mi, nil
}

// UndoToken records everything Apply changed so Undo can restore it exactly.
type UndoToken struct {
	Move           Move
	Captured       Piece
	CapturedSquare Square
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	FullMoveNumber int
	SideToMove     Color
	KingSquare     [2]Square
	Hash           uint64
}
