// selfplay plays two bots against each other without a window and prints the
// game as movetext followed by the result and the final position.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notnil/chess"

	"shadowchess/bots"
	"shadowchess/config"
	"shadowchess/logging"
	"shadowchess/rules"
)

var errIllegalBotMove = errors.New("bot returned an illegal move")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg := config.Default()
	fs := flag.NewFlagSet("selfplay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg.RegisterFlags(fs)
	white := fs.String("white", "", "bot playing white (default: -bot)")
	black := fs.String("black", "", "bot playing black (default: -bot)")
	maxPlies := fs.Int("max-plies", 300, "stop after this many plies")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *white == "" {
		*white = cfg.Bot
	}
	if *black == "" {
		*black = cfg.Bot
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	logger, err := logging.New(stderr, cfg.LogLevel, true)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	players := map[chess.Color]bots.ChessBot{}
	for color, name := range map[chess.Color]string{chess.White: *white, chess.Black: *black} {
		bot, err := bots.New(name, cfg.BotSettings(logger.With().Str("side", color.Name()).Logger()))
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		players[color] = bot
	}

	pos, err := cfg.StartPosition()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	logger.Info().
		Str("white", players[chess.White].Name()).
		Str("black", players[chess.Black].Name()).
		Str("fen", pos.FEN()).
		Msg("self-play started")

	movetext, err := play(pos, players, *maxPlies)
	if err != nil {
		logger.Error().Err(err).Msg("self-play aborted")
		return 1
	}

	result := pos.Outcome()
	fmt.Fprintln(stdout, strings.TrimSpace(movetext+" "+result))
	switch {
	case pos.IsCheckmate():
		fmt.Fprintln(stdout, "checkmate")
	case pos.DrawReason() != "":
		fmt.Fprintln(stdout, "draw: "+pos.DrawReason())
	case pos.Ply() >= *maxPlies:
		fmt.Fprintln(stdout, "stopped: ply limit")
	default:
		fmt.Fprintln(stdout, "stopped: no move")
	}
	fmt.Fprintln(stdout, pos.FEN())
	return 0
}

// play lets the bots move in turn until the game ends, a bot passes or
// maxPlies moves were made. It returns the moves in SAN movetext form.
func play(pos *rules.Position, players map[chess.Color]bots.ChessBot, maxPlies int) (string, error) {
	moveNo := 1
	if fields := strings.Fields(pos.FEN()); len(fields) == 6 {
		if n, err := strconv.Atoi(fields[5]); err == nil {
			moveNo = n
		}
	}

	var sb strings.Builder
	for ply := 0; ply < maxPlies && !pos.IsGameOver(); ply++ {
		turn := pos.Turn()
		mv := players[turn].BestMove(pos)
		if mv == nil {
			break
		}
		applied := pos.Apply(mv)
		if applied == nil {
			return sb.String(), fmt.Errorf("%w: %s", errIllegalBotMove, mv)
		}

		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		switch {
		case turn == chess.White:
			fmt.Fprintf(&sb, "%d. ", moveNo)
		case ply == 0:
			fmt.Fprintf(&sb, "%d... ", moveNo)
		}
		sb.WriteString(applied.SAN())
		if turn == chess.Black {
			moveNo++
		}
	}
	return sb.String(), nil
}
