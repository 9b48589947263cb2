// bot.go
package bots

import (
	"github.com/notnil/chess"

	"shadowchess/rules"
)

// ChessBot интерфейс для всех ботов.
//
// BestMove may explore the position with Apply/Undo but must leave it as it
// found it. It returns nil when the side to move has no legal move.
type ChessBot interface {
	BestMove(pos *rules.Position) *chess.Move
	Name() string
}

// PositionEvaluator defines the interface for position evaluation.
// Scores are relative to the side to move.
type PositionEvaluator interface {
	Evaluate(pos *rules.Position) int
}
