package board

import (
	"slices"
	"testing"
)

func TestCheckmate(t *testing.T) {
	// Back rank mate: white rook a8, black king h8 boxed in by its own pawns.
	pos, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if !pos.IsInCheck(Black) {
		t.Fatal("Expected black to be in check")
	}
	if moves := pos.LegalMoves(Black); len(moves) != 0 {
		t.Errorf("Expected no legal moves, got %v", moves)
	}
	if pos.HasLegalMoves(Black) {
		t.Error("HasLegalMoves = true in a checkmate")
	}
}

func TestNotCheckmate(t *testing.T) {
	// The king can capture the checking rook or step off the back rank.
	pos, err := ParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if !pos.InCheck() {
		t.Fatal("Expected black to be in check")
	}
	var got []string
	for _, m := range pos.LegalMoves(Black) {
		got = append(got, m.String())
	}
	slices.Sort(got)
	if want := []string{"h8g8", "h8h7"}; !slices.Equal(got, want) {
		t.Errorf("LegalMoves = %v, want %v", got, want)
	}
}

func TestStalemate(t *testing.T) {
	pos, err := ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	if pos.InCheck() {
		t.Error("Stalemated king reported in check")
	}
	if pos.HasLegalMoves(Black) {
		t.Error("Expected no legal moves in stalemate")
	}
}

func TestFoolsMate(t *testing.T) {
	pos := NewBoard()
	for _, s := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		mi, err := ParseUCIMove(s)
		if err != nil {
			t.Fatal(err)
		}
		var played bool
		for _, m := range pos.LegalMoves(pos.SideToMove()) {
			if mi.Matches(m) {
				pos.Apply(m)
				played = true
				break
			}
		}
		if !played {
			t.Fatalf("%s is not legal in %s", s, pos.FEN())
		}
	}

	if !pos.IsInCheck(White) {
		t.Error("Expected white to be in check")
	}
	if pos.HasLegalMoves(White) {
		t.Error("Expected white to be mated")
	}
}
