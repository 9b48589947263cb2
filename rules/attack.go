package rules

import "github.com/notnil/chess"

var (
	knightSteps = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	rookLines   = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopLines = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// KingSquare returns the square of the king of colour c, or chess.NoSquare
// when there is none on the board.
func (p *Position) KingSquare(c chess.Color) chess.Square {
	board := p.Board()
	king := chess.NewPiece(chess.King, c)
	for sq := chess.A1; sq <= chess.H8; sq++ {
		if board.Piece(sq) == king {
			return sq
		}
	}
	return chess.NoSquare
}

// IsAttacked reports whether any piece of colour by attacks sq. Pins are
// ignored: a pinned piece still attacks.
func (p *Position) IsAttacked(sq chess.Square, by chess.Color) bool {
	if sq == chess.NoSquare {
		return false
	}
	board := p.Board()
	file, rank := int(sq.File()), int(sq.Rank())
	at := func(df, dr int) (chess.Piece, bool) {
		f, r := file+df, rank+dr
		if f < 0 || f > 7 || r < 0 || r > 7 {
			return chess.NoPiece, false
		}
		return board.Piece(chess.NewSquare(chess.File(f), chess.Rank(r))), true
	}

	for _, d := range knightSteps {
		if pc, ok := at(d[0], d[1]); ok && pc == chess.NewPiece(chess.Knight, by) {
			return true
		}
	}
	for _, d := range kingSteps {
		if pc, ok := at(d[0], d[1]); ok && pc == chess.NewPiece(chess.King, by) {
			return true
		}
	}

	// Pawns capture towards the opponent, so look one rank back from sq.
	back := -1
	if by == chess.Black {
		back = 1
	}
	for _, df := range []int{-1, 1} {
		if pc, ok := at(df, back); ok && pc == chess.NewPiece(chess.Pawn, by) {
			return true
		}
	}

	slides := func(lines [4][2]int, pt chess.PieceType) bool {
		for _, d := range lines {
			for i := 1; ; i++ {
				pc, ok := at(d[0]*i, d[1]*i)
				if !ok {
					break
				}
				if pc == chess.NoPiece {
					continue
				}
				if pc.Color() == by && (pc.Type() == pt || pc.Type() == chess.Queen) {
					return true
				}
				break
			}
		}
		return false
	}
	return slides(rookLines, chess.Rook) || slides(bishopLines, chess.Bishop)
}
