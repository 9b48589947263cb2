// Package rules adapts github.com/notnil/chess to a single mutable position
// handle with apply/undo semantics.
//
// notnil/chess positions are immutable snapshots; Position keeps a stack of
// them so that Apply pushes and Undo pops. Only the top of the stack is live.
// A Position is not safe for concurrent use. Use Clone to give another
// goroutine its own handle.
package rules

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// AppliedMove records a move that was applied to a Position.
type AppliedMove struct {
	Move     *chess.Move
	Captured chess.Piece
	Piece    chess.Piece

	before *chess.Position
	san    string
}

// IsCapture reports whether the move took a piece.
func (a *AppliedMove) IsCapture() bool {
	return a.Captured != chess.NoPiece
}

// SAN returns the move in standard algebraic notation.
func (a *AppliedMove) SAN() string {
	if a.san == "" {
		a.san = chess.AlgebraicNotation{}.Encode(a.before, a.Move)
	}
	return a.san
}

// String returns the move in UCI notation.
func (a *AppliedMove) String() string {
	return a.Move.String()
}

// Position is a mutable handle on a game in progress.
type Position struct {
	stack []*chess.Position
	keys  []string
	moves []*AppliedMove

	// stack entries below base belong to another handle and are nil.
	base int
}

// NewPosition returns a handle on the standard starting position.
func NewPosition() *Position {
	return newPosition(chess.NewGame().Position())
}

// FromFEN returns a handle on the position described by fen.
func FromFEN(fen string) (*Position, error) {
	opt, err := chess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFEN, fen, err)
	}
	return newPosition(chess.NewGame(opt).Position()), nil
}

func newPosition(p *chess.Position) *Position {
	return &Position{
		stack: []*chess.Position{p},
		keys:  []string{""},
	}
}

func (p *Position) top() *chess.Position {
	return p.stack[len(p.stack)-1]
}

// LegalMoves returns every legal move for the side to move.
func (p *Position) LegalMoves() []*chess.Move {
	return p.top().ValidMoves()
}

// LegalMovesFrom returns the legal moves of the piece on sq.
func (p *Position) LegalMovesFrom(sq chess.Square) []*chess.Move {
	var out []*chess.Move
	for _, m := range p.top().ValidMoves() {
		if m.S1() == sq {
			out = append(out, m)
		}
	}
	return out
}

// Apply plays m on the live position. It returns nil, leaving the position
// untouched, when m is not legal here.
func (p *Position) Apply(m *chess.Move) *AppliedMove {
	if m == nil {
		return nil
	}
	cur := p.top()
	legal := findLegal(cur, m.S1(), m.S2(), m.Promo())
	if legal == nil {
		return nil
	}

	board := cur.Board()
	applied := &AppliedMove{
		Move:     legal,
		Piece:    board.Piece(legal.S1()),
		Captured: board.Piece(legal.S2()),
		before:   cur,
	}
	if legal.HasTag(chess.EnPassant) {
		applied.Captured = board.Piece(chess.NewSquare(legal.S2().File(), legal.S1().Rank()))
	}

	p.stack = append(p.stack, cur.Update(legal))
	p.keys = append(p.keys, "")
	p.moves = append(p.moves, applied)
	return applied
}

// ApplyUCI decodes s (UCI such as "e7e8q", or SAN) and applies it.
func (p *Position) ApplyUCI(s string) (*AppliedMove, error) {
	m, err := p.ParseMove(s)
	if err != nil {
		return nil, err
	}
	return p.Apply(m), nil
}

// ParseMove decodes s in UCI or SAN notation into a legal move.
func (p *Position) ParseMove(s string) (*chess.Move, error) {
	s = strings.TrimSpace(s)
	cur := p.top()
	m, err := chess.UCINotation{}.Decode(cur, s)
	if err != nil {
		m, err = chess.AlgebraicNotation{}.Decode(cur, s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrIllegalMove, s)
		}
	}
	legal := findLegal(cur, m.S1(), m.S2(), m.Promo())
	if legal == nil {
		return nil, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	return legal, nil
}

// Undo reverses the most recent Apply. It returns false when there is
// nothing to undo.
func (p *Position) Undo() bool {
	if len(p.stack)-1 == p.base {
		return false
	}
	last := len(p.stack) - 1
	p.stack[last] = nil
	p.stack = p.stack[:last]
	p.keys = p.keys[:last]
	p.moves[len(p.moves)-1] = nil
	p.moves = p.moves[:len(p.moves)-1]
	return true
}

func findLegal(pos *chess.Position, from, to chess.Square, promo chess.PieceType) *chess.Move {
	for _, m := range pos.ValidMoves() {
		if m.S1() == from && m.S2() == to && m.Promo() == promo {
			return m
		}
	}
	return nil
}

// Turn returns the side to move.
func (p *Position) Turn() chess.Color {
	return p.top().Turn()
}

// Board returns the live board. Boards are never mutated once built.
func (p *Position) Board() *chess.Board {
	return p.top().Board()
}

// Piece returns the piece on sq.
func (p *Position) Piece(sq chess.Square) chess.Piece {
	return p.top().Board().Piece(sq)
}

// FEN serializes the live position.
func (p *Position) FEN() string {
	return p.top().String()
}

// Key returns the first four FEN fields: placement, side to move, castling
// rights and en passant square.
func (p *Position) Key() string {
	return p.key(len(p.stack) - 1)
}

func (p *Position) key(i int) string {
	if p.keys[i] == "" {
		p.keys[i] = NormalizeFEN(p.stack[i].String())
	}
	return p.keys[i]
}

// NormalizeFEN drops the move counters from fen.
func NormalizeFEN(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}

// Ply returns the number of moves applied through this handle.
func (p *Position) Ply() int {
	return len(p.moves)
}

// History returns the applied moves, oldest first.
func (p *Position) History() []*AppliedMove {
	out := make([]*AppliedMove, len(p.moves))
	copy(out, p.moves)
	return out
}

// LastMove returns the most recent applied move, or nil.
func (p *Position) LastMove() *AppliedMove {
	if len(p.moves) == 0 {
		return nil
	}
	return p.moves[len(p.moves)-1]
}

// Clone returns an independent handle on the live position. The clone keeps
// the repetition history but cannot undo moves made before it was taken.
func (p *Position) Clone() *Position {
	opt, err := chess.FEN(p.FEN())
	if err != nil {
		panic(fmt.Sprintf("rules: clone: %v", err))
	}
	n := len(p.stack)
	c := &Position{
		stack: make([]*chess.Position, n),
		keys:  make([]string, n),
		base:  n - 1,
	}
	for i := range c.keys {
		c.keys[i] = p.key(i)
	}
	c.stack[n-1] = chess.NewGame(opt).Position()
	return c
}

func (p *Position) halfMoveClock() int {
	return p.top().HalfMoveClock()
}
