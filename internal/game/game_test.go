package game

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chesscore/internal/board"
)

func playAll(t *testing.T, g *Game, moves ...string) Status {
	t.Helper()
	var st Status
	for _, s := range moves {
		var err error
		_, st, err = g.SubmitUCI(s)
		if err != nil {
			t.Fatalf("SubmitUCI(%q): %v", s, err)
		}
	}
	return st
}

func mustGame(t *testing.T, fen string) *Game {
	t.Helper()
	g, err := NewFromFEN(fen)
	if err != nil {
		t.Fatalf("NewFromFEN(%q): %v", fen, err)
	}
	return g
}

func TestFoolsMate(t *testing.T) {
	g := New()
	st := playAll(t, g, "f2f3", "e7e5", "g2g4", "d8h4")

	if st != Checkmate {
		t.Fatalf("status = %v, want checkmate", st)
	}
	if g.Result() != BlackWins {
		t.Errorf("result = %v, want 0-1", g.Result())
	}
	if diff := cmp.Diff([]string{"f3", "e5", "g4", "Qh4#"}, g.SANMoves()); diff != "" {
		t.Errorf("SAN record (-want +got):\n%s", diff)
	}
	if g.LegalMoves() != nil {
		t.Error("LegalMoves should be empty after checkmate")
	}

	_, _, err := g.SubmitUCI("a2a3")
	if !errors.Is(err, ErrGameOver) {
		t.Fatalf("move after mate: err = %v, want ErrGameOver", err)
	}
	var me *MoveError
	if !errors.As(err, &me) || me.Ply != 5 || me.MoveText != "a2a3" {
		t.Errorf("MoveError = %+v, want ply 5 move a2a3", me)
	}
}

func TestIllegalMoveLeavesGameUnchanged(t *testing.T) {
	g := New()
	before := g.View()

	for _, s := range []string{"e2e5", "e7e5", "e1e2", "zz99"} {
		if _, _, err := g.SubmitUCI(s); !errors.Is(err, ErrIllegalMove) {
			t.Errorf("SubmitUCI(%q) err = %v, want ErrIllegalMove", s, err)
		}
	}

	if diff := cmp.Diff(before, g.View()); diff != "" {
		t.Errorf("view changed after rejected moves (-before +after):\n%s", diff)
	}
	if g.Ply() != 0 {
		t.Errorf("Ply = %d, want 0", g.Ply())
	}
}

func TestMakeMoveComparesKind(t *testing.T) {
	g := New()
	quiet := board.Move{From: board.E2, To: board.E4, Piece: board.WhitePawn, Captured: board.NoPiece, Kind: board.Normal, PromoteTo: board.NoPieceType}
	if _, err := g.MakeMove(quiet); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("e2e4 as a normal move: err = %v, want ErrIllegalMove", err)
	}

	push := quiet
	push.Kind = board.DoublePawnPush
	st, err := g.MakeMove(push)
	if err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	if st != Ongoing {
		t.Errorf("status = %v, want ongoing", st)
	}
	if g.FEN() != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1" {
		t.Errorf("FEN = %s", g.FEN())
	}
}

func TestPromotion(t *testing.T) {
	g := mustGame(t, "7k/P7/8/8/8/8/8/K7 w - - 0 1")

	_, _, err := g.SubmitUCI("a7a8")
	if !errors.Is(err, ErrPromotionRequired) {
		t.Fatalf("a7a8 without piece: err = %v, want ErrPromotionRequired", err)
	}

	m, st, err := g.SubmitUCI("a7a8q")
	if err != nil {
		t.Fatalf("a7a8q: %v", err)
	}
	if m.PromoteTo != board.Queen {
		t.Errorf("promoted to %v, want queen", m.PromoteTo)
	}
	if st != Check {
		t.Errorf("status = %v, want check", st)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		moves  []string
		status Status
		result Result
		reason DrawReason
	}{
		{
			name:   "stalemate by move",
			fen:    "7k/8/6K1/8/8/8/5Q2/8 w - - 0 1",
			moves:  []string{"f2f7"},
			status: Stalemate, result: Drawn, reason: ByStalemate,
		},
		{
			name:   "stalemate from FEN",
			fen:    "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
			status: Stalemate, result: Drawn, reason: ByStalemate,
		},
		{
			name:   "mated from FEN",
			fen:    "R6k/6pp/8/8/8/8/8/K7 b - - 0 1",
			status: Checkmate, result: WhiteWins,
		},
		{
			name:   "fifty-move rule",
			fen:    "4k3/8/8/8/8/8/8/R3K3 w - - 99 80",
			moves:  []string{"a1a2"},
			status: Draw, result: Drawn, reason: FiftyMoveRule,
		},
		{
			name:   "insufficient material",
			fen:    "4k3/8/8/8/8/8/3r4/4K3 w - - 0 1",
			moves:  []string{"e1d2"},
			status: Draw, result: Drawn, reason: InsufficientMaterial,
		},
		{
			name:   "check",
			fen:    "4k3/8/8/8/8/8/8/R3K3 w - - 0 1",
			moves:  []string{"a1a8"},
			status: Check, result: InProgress,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := mustGame(t, tc.fen)
			playAll(t, g, tc.moves...)
			if g.Status() != tc.status {
				t.Errorf("status = %v, want %v", g.Status(), tc.status)
			}
			if g.Result() != tc.result {
				t.Errorf("result = %v, want %v", g.Result(), tc.result)
			}
			if g.DrawReason() != tc.reason {
				t.Errorf("draw reason = %v, want %v", g.DrawReason(), tc.reason)
			}
		})
	}
}

func TestThreefoldRepetition(t *testing.T) {
	g := New()
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}

	playAll(t, g, shuffle...)
	playAll(t, g, shuffle[:3]...)
	if g.Status() != Ongoing {
		t.Fatalf("status after 7 plies = %v, want ongoing", g.Status())
	}

	if st := playAll(t, g, shuffle[3]); st != Draw {
		t.Fatalf("status = %v, want draw", st)
	}
	if g.DrawReason() != ThreefoldRepetition {
		t.Errorf("draw reason = %v, want threefold repetition", g.DrawReason())
	}
	if _, _, err := g.SubmitUCI("e2e4"); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after draw: err = %v, want ErrGameOver", err)
	}
}

func TestReplayPastRuleDraw(t *testing.T) {
	g := New()
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for _, s := range append(append(shuffle, shuffle...), "e2e4") {
		if _, _, err := g.Replay(s); err != nil {
			t.Fatalf("Replay(%q): %v", s, err)
		}
	}
	if g.Status() != Ongoing || g.Ply() != 9 {
		t.Errorf("status %v after %d plies, want ongoing after 9", g.Status(), g.Ply())
	}

	mated := mustGame(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if _, _, err := mated.Replay("h8g8"); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("move after mate: err = %v, want ErrIllegalMove", err)
	}
	if _, _, err := g.Replay("e2"); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("malformed move: err = %v, want ErrIllegalMove", err)
	}
}

func TestRepetitionAfterDoublePush(t *testing.T) {
	// The first occurrence follows e2e4 and carries a target square nobody
	// can use; the later ones do not.
	g := mustGame(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	playAll(t, g, "e2e4")
	kings := []string{"e8d8", "e1d1", "d8e8", "d1e1"}
	playAll(t, g, kings...)
	if g.Status() != Ongoing {
		t.Fatalf("status after one shuffle = %v, want ongoing", g.Status())
	}
	if st := playAll(t, g, kings...); st != Draw || g.DrawReason() != ThreefoldRepetition {
		t.Errorf("status %v (%v), want threefold repetition", st, g.DrawReason())
	}
}

func TestView(t *testing.T) {
	g := New()
	v := g.View()

	if len(v.Moves) != 20 {
		t.Errorf("len(Moves) = %d, want 20", len(v.Moves))
	}
	if !v.LastMove.IsNone() {
		t.Errorf("LastMove = %v, want none", v.LastMove)
	}
	if v.Board.At(4, 0) != board.WhiteKing {
		t.Errorf("e1 = %v, want K", v.Board.At(4, 0))
	}

	var sans []string
	for _, o := range v.MovesFrom(board.G1) {
		sans = append(sans, o.SAN)
	}
	if diff := cmp.Diff([]string{"Nh3", "Nf3"}, sans); diff != "" {
		t.Errorf("knight moves from g1 (-want +got):\n%s", diff)
	}

	g2 := mustGame(t, "7k/P7/8/8/8/8/8/K7 w - - 0 1")
	promos := 0
	for _, o := range g2.View().MovesFrom(board.A7) {
		if o.Promotion {
			promos++
		}
	}
	if promos != 4 {
		t.Errorf("promotion options = %d, want 4", promos)
	}
}

func TestBoardIsCopy(t *testing.T) {
	g := New()
	b := g.Board()
	b.Apply(b.LegalMoves(board.White)[0])
	if g.FEN() != board.StartFEN {
		t.Errorf("mutating Board() changed the game: %s", g.FEN())
	}
}

func TestNewFromFENInvalid(t *testing.T) {
	if _, err := NewFromFEN("not a fen"); !errors.Is(err, board.ErrInvalidFEN) {
		t.Errorf("err = %v, want ErrInvalidFEN", err)
	}
}

func TestSubmitSAN(t *testing.T) {
	g := New()
	for _, s := range []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Nf6", "O-O"} {
		if _, _, err := g.SubmitSAN(s); err != nil {
			t.Fatalf("SubmitSAN(%q): %v", s, err)
		}
	}
	if got, want := g.FEN(), "r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQ1RK1 b kq - 5 4"; got != want {
		t.Errorf("FEN = %s, want %s", got, want)
	}

	before := g.View()
	_, _, err := g.SubmitSAN("Qxf7")
	var me *MoveError
	if !errors.As(err, &me) || !errors.Is(err, ErrIllegalMove) || me.Ply != 8 {
		t.Errorf("SubmitSAN(Qxf7) err = %v", err)
	}
	if diff := cmp.Diff(before, g.View()); diff != "" {
		t.Errorf("rejected SAN changed the game (-before +after):\n%s", diff)
	}

	mated := mustGame(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if _, _, err := mated.SubmitSAN("h6"); !errors.Is(err, ErrGameOver) {
		t.Errorf("SubmitSAN after mate err = %v, want ErrGameOver", err)
	}
}
