package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/notnil/chess"

	"shadowchess/bots"
	"shadowchess/rules"
)

const scholarFEN = "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4"

func TestRunFindsMate(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-fen", scholarFEN, "-depth", "2", "-seed", "1", "-log-level", "error"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	want := []string{
		"4. Qxf7# 1-0",
		"checkmate",
		"r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 4",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunPlyLimit(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-white", "newborn", "-black", "random", "-seed", "3", "-max-plies", "3", "-log-level", "error"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "1. ") || !strings.Contains(lines[0], " 2. ") || !strings.HasSuffix(lines[0], " *") {
		t.Errorf("movetext = %q", lines[0])
	}
	if lines[1] != "stopped: ply limit" {
		t.Errorf("reason = %q", lines[1])
	}
	if _, err := rules.FromFEN(lines[2]); err != nil {
		t.Errorf("final FEN: %v", err)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	tests := [][]string{
		{"-white", "stockfish"},
		{"-depth", "99"},
		{"-no-such-flag"},
	}
	for _, args := range tests {
		var stdout, stderr bytes.Buffer
		if code := run(args, &stdout, &stderr); code != 2 {
			t.Errorf("run(%q) = %d, want 2", args, code)
		}
	}
}

func TestPlayBlackFirst(t *testing.T) {
	pos, err := rules.FromFEN("6k1/8/8/8/6nq/8/3PPP2/3QKB2 b - - 0 12")
	if err != nil {
		t.Fatal(err)
	}
	mate := bots.NewNegamaxBot(1)
	players := map[chess.Color]bots.ChessBot{chess.White: bots.NewNewbornBot(), chess.Black: mate}
	movetext, err := play(pos, players, 10)
	if err != nil {
		t.Fatal(err)
	}
	if movetext != "12... Qxf2#" {
		t.Errorf("movetext = %q", movetext)
	}
}
