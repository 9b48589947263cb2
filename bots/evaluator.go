package bots

import (
	"github.com/notnil/chess"

	"shadowchess/rules"
)

// Piece-square tables, row 0 is the owner's back rank.
var (
	pawnTable = [8][8]int{
		{0, 0, 0, 0, 0, 0, 0, 0},
		{50, 50, 50, 50, 50, 50, 50, 50},
		{10, 10, 20, 30, 30, 20, 10, 10},
		{5, 5, 10, 25, 25, 10, 5, 5},
		{0, 0, 0, 20, 20, 0, 0, 0},
		{5, -5, -10, 0, 0, -10, -5, 5},
		{5, 10, 10, -20, -20, 10, 10, 5},
		{0, 0, 0, 0, 0, 0, 0, 0},
	}

	knightTable = [8][8]int{
		{-50, -40, -30, -30, -30, -30, -40, -50},
		{-40, -20, 0, 0, 0, 0, -20, -40},
		{-30, 0, 10, 15, 15, 10, 0, -30},
		{-30, 5, 15, 20, 20, 15, 5, -30},
		{-30, 0, 15, 20, 20, 15, 0, -30},
		{-30, 5, 10, 15, 15, 10, 5, -30},
		{-40, -20, 0, 5, 5, 0, -20, -40},
		{-50, -40, -30, -30, -30, -30, -40, -50},
	}
)

// MaterialEvaluator scores material plus pawn and knight placement.
// Bishops, rooks, queens and kings get no positional term, and there is no
// mobility, king safety or pawn structure.
type MaterialEvaluator struct{}

func (e MaterialEvaluator) Evaluate(pos *rules.Position) int {
	board := pos.Board()
	turn := pos.Turn()

	var score int
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := board.Piece(sq)
		if piece == chess.NoPiece {
			continue
		}
		value := e.pieceValue(piece.Type()) + e.positionalBonus(piece, sq)
		if piece.Color() == turn {
			score += value
		} else {
			score -= value
		}
	}
	return score
}

func (e MaterialEvaluator) pieceValue(piece chess.PieceType) int {
	switch piece {
	case chess.Pawn:
		return 100
	case chess.Knight:
		return 320
	case chess.Bishop:
		return 330
	case chess.Rook:
		return 500
	case chess.Queen:
		return 950
	case chess.King:
		return 30000
	default:
		return 0
	}
}

func (e MaterialEvaluator) positionalBonus(piece chess.Piece, sq chess.Square) int {
	// Строка сетки сверху: 0 = восьмая горизонталь.
	row := 7 - int(sq.Rank())
	col := int(sq.File())
	if piece.Color() == chess.White {
		row = 7 - row
	}

	switch piece.Type() {
	case chess.Pawn:
		return pawnTable[row][col]
	case chess.Knight:
		return knightTable[row][col]
	default:
		return 0
	}
}
