package bots

import (
	"testing"

	"shadowchess/rules"
)

func mustFEN(t *testing.T, fen string) *rules.Position {
	t.Helper()
	pos, err := rules.FromFEN(fen)
	if err != nil {
		t.Fatalf("FromFEN(%q): %v", fen, err)
	}
	return pos
}

func TestEvaluateStartIsBalanced(t *testing.T) {
	if got := (MaterialEvaluator{}).Evaluate(rules.NewPosition()); got != 0 {
		t.Errorf("start position = %d, want 0", got)
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want int
	}{
		{"white pawn home rank", "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", 100 + 50},
		{"black pawn home rank", "4k3/4p3/8/8/8/8/8/4K3 b - - 0 1", 100 + 50},
		{"opponent pawn", "4k3/4p3/8/8/8/8/8/4K3 w - - 0 1", -(100 + 50)},
		{"white pawn centre", "4k3/8/8/8/4P3/8/8/4K3 w - - 0 1", 100 + 25},
		{"black pawn centre", "4k3/8/8/4p3/8/8/8/4K3 b - - 0 1", 100 + 25},
		{"white pawn d3", "4k3/8/8/8/8/3P4/8/4K3 w - - 0 1", 100 + 30},
		{"white knight corner", "4k3/8/8/8/8/8/8/N3K3 w - - 0 1", 320 - 50},
		{"black knight centre", "4k3/8/8/4n3/8/8/8/4K3 b - - 0 1", 320 + 20},
		{"white knight b1", "4k3/8/8/8/8/8/8/1N2K3 w - - 0 1", 320 - 40},
		{"bishop no bonus", "4k3/8/8/8/3B4/8/8/4K3 w - - 0 1", 330},
		{"rook no bonus", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", 500},
		{"queen no bonus", "4k3/8/8/8/8/8/8/3QK3 b - - 0 1", -950},
		{"bare kings", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (MaterialEvaluator{}).Evaluate(mustFEN(t, tt.fen)); got != tt.want {
				t.Errorf("Evaluate() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEvaluateIsRelativeToMover(t *testing.T) {
	white := mustFEN(t, "r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4")
	black := mustFEN(t, "r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 4 4")
	e := MaterialEvaluator{}
	if w, b := e.Evaluate(white), e.Evaluate(black); w != -b {
		t.Errorf("white view %d, black view %d: want negation", w, b)
	}
}

func TestEvaluateExtraQueen(t *testing.T) {
	base := mustFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNB1KBNR w KQkq - 0 1")
	extra := mustFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	e := MaterialEvaluator{}
	if diff := e.Evaluate(extra) - e.Evaluate(base); diff < 950 {
		t.Errorf("extra queen gained %d, want at least 950", diff)
	}
}

func TestEvaluateIsPure(t *testing.T) {
	pos := rules.NewPosition()
	fen := pos.FEN()
	(MaterialEvaluator{}).Evaluate(pos)
	if pos.FEN() != fen || pos.Ply() != 0 {
		t.Error("Evaluate changed the position")
	}
}
