package bots

import (
	"math/rand"
	"time"

	"github.com/notnil/chess"

	"shadowchess/rules"
)

type RandomBot struct {
	Rand *rand.Rand
}

func NewRandomBot() *RandomBot {
	return &RandomBot{Rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (b *RandomBot) BestMove(pos *rules.Position) *chess.Move {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return nil
	}
	return moves[b.Rand.Intn(len(moves))]
}

func (b *RandomBot) Name() string {
	return "Random Bot"
}
