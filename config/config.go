// Package config holds the settings shared by the desktop app and the
// self-play runner.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"shadowchess/bots"
	"shadowchess/rules"
)

// ErrInvalidConfig indicates invalid configuration values.
var ErrInvalidConfig = errors.New("invalid configuration")

// MaxDepth bounds the search depth accepted from the command line.
const MaxDepth = 6

type Config struct {
	Bot        string
	Depth      int
	Workers    int
	Seed       int64
	HumanColor string
	FEN        string
	BotDelay   time.Duration
	LogLevel   string
}

// Default returns the reference settings: a depth 3 negamax bot playing
// black after a short pause.
func Default() Config {
	return Config{
		Bot:        "negamax",
		Depth:      3,
		Workers:    1,
		HumanColor: "white",
		BotDelay:   300 * time.Millisecond,
		LogLevel:   "info",
	}
}

// RegisterFlags binds the fields of c to fs, using the current values as
// defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Bot, "bot", c.Bot, "opponent: "+strings.Join(bots.Names(), ", "))
	fs.IntVar(&c.Depth, "depth", c.Depth, "search depth in plies")
	fs.IntVar(&c.Workers, "workers", c.Workers, "goroutines splitting the root moves")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "tie-break shuffle seed (0 = random)")
	fs.StringVar(&c.HumanColor, "color", c.HumanColor, "side the human plays: white or black")
	fs.StringVar(&c.FEN, "fen", c.FEN, "start from this position instead of the initial one")
	fs.DurationVar(&c.BotDelay, "bot-delay", c.BotDelay, "pause before the bot replies")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var problems []string
	if _, err := bots.New(c.Bot, bots.Settings{Depth: c.Depth}); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Depth < 0 || c.Depth > MaxDepth {
		problems = append(problems, fmt.Sprintf("depth %d outside 0..%d", c.Depth, MaxDepth))
	}
	if c.Workers < 1 {
		problems = append(problems, fmt.Sprintf("workers must be positive, got %d", c.Workers))
	}
	if _, err := ParseColor(c.HumanColor); err != nil {
		problems = append(problems, err.Error())
	}
	if c.FEN != "" {
		if _, err := rules.FromFEN(c.FEN); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if c.BotDelay < 0 {
		problems = append(problems, "bot delay is negative")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("log level %q", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// BotSettings converts c into the settings used to build bots.
func (c Config) BotSettings(logger zerolog.Logger) bots.Settings {
	return bots.Settings{
		Depth:   c.Depth,
		Seed:    c.Seed,
		Workers: c.Workers,
		Logger:  logger,
	}
}

// Human returns the colour the human plays.
func (c Config) Human() chess.Color {
	color, err := ParseColor(c.HumanColor)
	if err != nil {
		return chess.White
	}
	return color
}

// StartPosition returns the configured starting position.
func (c Config) StartPosition() (*rules.Position, error) {
	if c.FEN == "" {
		return rules.NewPosition(), nil
	}
	return rules.FromFEN(c.FEN)
}

// ParseColor accepts "white"/"w" and "black"/"b" in any case.
func ParseColor(s string) (chess.Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return chess.White, nil
	case "black", "b":
		return chess.Black, nil
	}
	return chess.NoColor, fmt.Errorf("unknown colour %q", s)
}
