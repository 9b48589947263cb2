package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"shadowchess/config"
	"shadowchess/game"
	"shadowchess/logging"
)

func main() {
	cfg := config.Default()
	fs := flag.NewFlagSet("shadowchess", flag.ExitOnError)
	cfg.RegisterFlags(fs)
	fs.Parse(os.Args[1:])

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, err := logging.New(os.Stderr, cfg.LogLevel, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	g := game.New(cfg, logger)
	defer g.Close()

	w, h := g.Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Shadow Chess")
	ebiten.SetWindowResizable(true)
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal().Err(err).Msg("game loop failed")
	}
}
