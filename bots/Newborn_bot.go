package bots

import (
	"github.com/notnil/chess"

	"shadowchess/rules"
)

// NewbornBot plays the first legal move the rules engine lists.
type NewbornBot struct{}

func NewNewbornBot() *NewbornBot {
	return &NewbornBot{}
}

func (b *NewbornBot) BestMove(pos *rules.Position) *chess.Move {
	moves := pos.LegalMoves()
	if len(moves) > 0 {
		return moves[0]
	}
	return nil
}

func (b *NewbornBot) Name() string {
	return "Newborn"
}
