package engine

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chesscore/internal/board"
)

// flipFEN mirrors a position top to bottom and swaps the colors.
func flipFEN(t *testing.T, fen string) string {
	t.Helper()
	f := strings.Fields(fen)
	if len(f) != 6 {
		t.Fatalf("flipFEN needs six fields: %q", fen)
	}

	ranks := strings.Split(f[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	placement := swapCase(strings.Join(ranks, "/"))

	side := "w"
	if f[1] == "w" {
		side = "b"
	}

	castling := "-"
	if f[2] != "-" {
		var sb strings.Builder
		swapped := swapCase(f[2])
		for _, c := range "KQkq" {
			if strings.ContainsRune(swapped, c) {
				sb.WriteRune(c)
			}
		}
		castling = sb.String()
	}

	ep := "-"
	if f[3] != "-" {
		ep = string(f[3][0]) + string(rune('1'+'8'-f[3][1]))
	}
	return strings.Join([]string{placement, side, castling, ep, f[4], f[5]}, " ")
}

func swapCase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z':
			return r - 'A' + 'a'
		}
		return r
	}, s)
}

func TestEvaluateStartPosition(t *testing.T) {
	if got := (Classical{}).Evaluate(board.NewBoard()); got != 0 {
		t.Errorf("Evaluate(start) = %d, want 0", got)
	}
}

func TestEvaluateSymmetric(t *testing.T) {
	fens := []string{
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r1bqkbnr/pppp1ppp/2n5/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 3 3",
		"4k3/8/8/8/8/2P5/2P5/4K3 w - - 0 1",
	}
	for _, fen := range fens {
		b := mustFEN(t, fen)
		flipped := mustFEN(t, flipFEN(t, fen))
		if got, want := (Classical{}).Evaluate(flipped), -(Classical{}).Evaluate(b); got != want {
			t.Errorf("%s: flipped score %d, want %d", fen, got, want)
		}
	}
}

func TestEvaluatePure(t *testing.T) {
	b := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	before := b.Snapshot()
	first := (Classical{}).Evaluate(b)
	second := (Classical{}).Evaluate(b)
	if first != second {
		t.Errorf("Evaluate not repeatable: %d then %d", first, second)
	}
	if diff := cmp.Diff(before, b.Snapshot()); diff != "" {
		t.Errorf("Evaluate changed the board (-before +after):\n%s", diff)
	}
}

func TestEvaluateTerms(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want int
	}{
		// material 200, pawn PST 10-10, c3 ring +10, doubled -15, mobility (6-5)*5
		{"doubled pawns", "4k3/8/8/8/8/2P5/2P5/4K3 w - - 0 1", 200},
		// material 200, pawn PST 10+0, d3 ring +10, chain +10, mobility (8-5)*5
		{"pawn chain", "4k3/8/8/8/8/3P4/2P5/4K3 w - - 0 1", 245},
		// kings only: endgame king table cancels, mobility 5-5
		{"bare kings", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := (Classical{}).Evaluate(mustFEN(t, tc.fen)); got != tc.want {
				t.Errorf("Evaluate = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestEvaluateMaterial(t *testing.T) {
	b := mustFEN(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	if got := EvaluateMaterial(b); got != 100-900 {
		t.Errorf("EvaluateMaterial = %d, want -800", got)
	}
}

func TestIsEndgame(t *testing.T) {
	if IsEndgame(board.NewBoard()) {
		t.Error("start position reported as endgame")
	}
	if !IsEndgame(mustFEN(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")) {
		t.Error("queenless position not reported as endgame")
	}
}

func TestMoveOrdering(t *testing.T) {
	b := mustFEN(t, "4k3/8/8/3q4/4P3/2N5/8/4K3 w - - 0 1")
	moves := b.LegalMoves(board.White)
	mo := NewMoveOrderer()
	scores := mo.ScoreMoves(moves, 1)
	for i := range moves {
		PickMove(moves, scores, i)
	}
	// Pawn takes queen before knight takes queen.
	if moves[0].String() != "e4d5" || moves[1].String() != "c3d5" {
		t.Errorf("ordered moves start %v %v, want e4d5 c3d5", moves[0], moves[1])
	}

	killer := moves[len(moves)-1]
	mo.UpdateKillers(killer, 1)
	scores = mo.ScoreMoves(moves, 1)
	PickMove(moves, scores, 2)
	if !moves[2].SameAs(killer) {
		t.Errorf("killer %v not ordered after captures, got %v", killer, moves[2])
	}
}
