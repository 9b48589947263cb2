package bots

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// ErrUnknownBot is returned by New for a name that is not registered.
var ErrUnknownBot = errors.New("unknown bot")

// Settings tunes the bots built by New.
type Settings struct {
	Depth   int
	Seed    int64 // 0 seeds from the clock
	Workers int
	Logger  zerolog.Logger
}

var registry = map[string]func(Settings) ChessBot{
	"newborn": func(Settings) ChessBot { return NewNewbornBot() },
	"random": func(s Settings) ChessBot {
		b := NewRandomBot()
		b.Rand = s.rand()
		return b
	},
	"negamax": func(s Settings) ChessBot {
		b := NewNegamaxBot(s.Depth)
		b.Rand = s.rand()
		if s.Workers > 0 {
			b.Workers = s.Workers
		}
		b.Logger = s.Logger.With().Str("bot", "negamax").Logger()
		return b
	},
}

func (s Settings) rand() *rand.Rand {
	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// New builds the bot registered under name.
func New(name string, s Settings) (ChessBot, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBot, name)
	}
	return build(s), nil
}

// Names lists the registered bot names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
