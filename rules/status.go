package rules

import "github.com/notnil/chess"

// Game results in PGN notation.
const (
	ResultWhiteWins  = "1-0"
	ResultBlackWins  = "0-1"
	ResultDraw       = "1/2-1/2"
	ResultInProgress = "*"
)

// IsCheckmate reports whether the side to move is mated.
func (p *Position) IsCheckmate() bool {
	return p.top().Status() == chess.Checkmate
}

// IsStalemate reports whether the side to move has no legal move and is not
// in check.
func (p *Position) IsStalemate() bool {
	return p.top().Status() == chess.Stalemate
}

// IsCheck reports whether the side to move is in check.
func (p *Position) IsCheck() bool {
	turn := p.Turn()
	return p.IsAttacked(p.KingSquare(turn), turn.Other())
}

// IsGameOver reports checkmate, stalemate, insufficient material, threefold
// repetition or the fifty-move rule.
func (p *Position) IsGameOver() bool {
	return p.drawReason() != "" || p.IsCheckmate()
}

// Outcome returns the PGN result of the live position.
func (p *Position) Outcome() string {
	switch {
	case p.IsCheckmate():
		if p.Turn() == chess.White {
			return ResultBlackWins
		}
		return ResultWhiteWins
	case p.drawReason() != "":
		return ResultDraw
	}
	return ResultInProgress
}

// DrawReason names why the game is drawn, or returns "".
func (p *Position) DrawReason() string {
	return p.drawReason()
}

func (p *Position) drawReason() string {
	switch {
	case p.IsStalemate():
		return "stalemate"
	case p.InsufficientMaterial():
		return "insufficient material"
	case p.Repetitions() >= 3:
		return "threefold repetition"
	case p.halfMoveClock() >= 100:
		return "fifty-move rule"
	}
	return ""
}

// Repetitions counts how often the live position has occurred, itself
// included.
func (p *Position) Repetitions() int {
	cur := p.Key()
	n := 0
	for i := range p.keys {
		if p.key(i) == cur {
			n++
		}
	}
	return n
}

// InsufficientMaterial reports positions where neither side can mate: bare
// kings, a single minor piece, or bishops that all stand on one colour.
func (p *Position) InsufficientMaterial() bool {
	board := p.Board()
	var minors []chess.Square
	bishopsOnly := true
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := board.Piece(sq)
		switch piece.Type() {
		case chess.NoPieceType, chess.King:
			continue
		case chess.Knight:
			bishopsOnly = false
		case chess.Bishop:
		default:
			return false
		}
		minors = append(minors, sq)
	}

	if len(minors) <= 1 {
		return true
	}
	if !bishopsOnly {
		return false
	}
	shade := squareShade(minors[0])
	for _, sq := range minors[1:] {
		if squareShade(sq) != shade {
			return false
		}
	}
	return true
}

func squareShade(sq chess.Square) int {
	return (int(sq.File()) + int(sq.Rank())) % 2
}
