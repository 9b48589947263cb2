package rules

import (
	"testing"

	"github.com/notnil/chess"
)

func TestCheckmate(t *testing.T) {
	pos := mustFEN(t, foolsMateFEN)
	if !pos.IsCheckmate() {
		t.Fatal("fool's mate not detected")
	}
	if pos.IsStalemate() {
		t.Error("checkmate reported as stalemate")
	}
	if !pos.IsCheck() || !pos.IsGameOver() {
		t.Error("checkmate must be check and game over")
	}
	if got := pos.Outcome(); got != ResultBlackWins {
		t.Errorf("outcome = %s, want %s", got, ResultBlackWins)
	}
	if len(pos.LegalMoves()) != 0 {
		t.Error("mated side has legal moves")
	}
}

func TestStalemate(t *testing.T) {
	pos := mustFEN(t, stalemateFEN)
	if !pos.IsStalemate() {
		t.Fatal("stalemate not detected")
	}
	if pos.IsCheckmate() || pos.IsCheck() {
		t.Error("stalemate reported as check")
	}
	if got := pos.Outcome(); got != ResultDraw {
		t.Errorf("outcome = %s, want %s", got, ResultDraw)
	}
	if got := pos.DrawReason(); got != "stalemate" {
		t.Errorf("draw reason = %q", got)
	}
}

func TestCheckFromLastMove(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if pos.IsCheck() {
		t.Fatal("no check before the move")
	}
	if _, err := pos.ApplyUCI("a1a8"); err != nil {
		t.Fatal(err)
	}
	if !pos.IsCheck() {
		t.Error("Ra8+ not reported as check")
	}
	if pos.IsGameOver() {
		t.Error("king can escape, game is not over")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want bool
	}{
		{"bare kings", "8/8/8/4k3/8/8/8/4K3 w - - 0 1", true},
		{"king and knight", "8/8/8/4k3/8/8/8/4KN2 w - - 0 1", true},
		{"king and bishop", "8/8/8/4k3/8/8/8/4KB2 w - - 0 1", true},
		{"opposite shade bishops", "8/8/8/4k3/8/8/8/2B1KB2 w - - 0 1", false},
		{"bishops one shade", "5b2/8/8/4k3/8/8/8/2B1K3 w - - 0 1", true},
		{"two knights", "8/8/8/4k3/8/8/8/3NKN2 w - - 0 1", false},
		{"rook", "8/8/8/4k3/8/8/8/4KR2 w - - 0 1", false},
		{"pawn", "8/8/8/4k3/8/8/4P3/4K3 w - - 0 1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustFEN(t, tt.fen)
			if got := pos.InsufficientMaterial(); got != tt.want {
				t.Errorf("InsufficientMaterial() = %v, want %v", got, tt.want)
			}
			if tt.want && pos.Outcome() != ResultDraw {
				t.Errorf("outcome = %s, want draw", pos.Outcome())
			}
		})
	}
}

func TestThreefoldRepetition(t *testing.T) {
	pos := NewPosition()
	shuffle := []string{"Nf3", "Nf6", "Ng1", "Ng8"}
	for round := 0; round < 2; round++ {
		if pos.IsGameOver() {
			t.Fatalf("game over too early in round %d", round)
		}
		for _, s := range shuffle {
			if _, err := pos.ApplyUCI(s); err != nil {
				t.Fatal(err)
			}
		}
	}
	if got := pos.Repetitions(); got != 3 {
		t.Fatalf("repetitions = %d, want 3", got)
	}
	if !pos.IsGameOver() || pos.Outcome() != ResultDraw {
		t.Errorf("threefold repetition not a draw: %s", pos.Outcome())
	}

	pos.Undo()
	if pos.IsGameOver() {
		t.Error("undo did not clear the repetition draw")
	}
}

func TestFiftyMoveRule(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/8/8/8/8/R3K3 w - - 100 80")
	if got := pos.DrawReason(); got != "fifty-move rule" {
		t.Errorf("draw reason = %q", got)
	}
	if pos.Turn() != chess.White {
		t.Errorf("turn = %v", pos.Turn())
	}

	pos = mustFEN(t, "4k3/8/8/8/8/8/8/R3K3 w - - 99 80")
	if pos.IsGameOver() {
		t.Fatal("drawn one ply early")
	}
	if _, err := pos.ApplyUCI("a1a2"); err != nil {
		t.Fatal(err)
	}
	if got := pos.DrawReason(); got != "fifty-move rule" {
		t.Errorf("after a quiet move, draw reason = %q", got)
	}
	pos.Undo()
	if _, err := pos.ApplyUCI("e1e2"); err != nil {
		t.Fatal(err)
	}
	if got := pos.DrawReason(); got != "fifty-move rule" {
		t.Errorf("after a king move, draw reason = %q", got)
	}
}
