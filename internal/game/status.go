package game

// Status describes the position after the last move.
type Status int

const (
	Ongoing Status = iota
	Check
	Checkmate
	Stalemate
	Draw
)

func (s Status) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further moves may be made.
func (s Status) IsTerminal() bool {
	return s == Checkmate || s == Stalemate || s == Draw
}

// Result is the outcome of the game so far.
type Result int

const (
	InProgress Result = iota
	WhiteWins
	BlackWins
	Drawn
)

func (r Result) String() string {
	switch r {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Drawn:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// DrawReason says which rule ended the game in a draw.
type DrawReason int

const (
	NoDraw DrawReason = iota
	ByStalemate
	FiftyMoveRule
	InsufficientMaterial
	ThreefoldRepetition
)

func (d DrawReason) String() string {
	switch d {
	case ByStalemate:
		return "stalemate"
	case FiftyMoveRule:
		return "fifty-move rule"
	case InsufficientMaterial:
		return "insufficient material"
	case ThreefoldRepetition:
		return "threefold repetition"
	default:
		return "none"
	}
}
