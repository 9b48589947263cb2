// Package match runs a game between a human and a bot on one shared
// position. It owns square selection, promotion choice and bot replies, and
// leaves drawing to the caller.
package match

import (
	"context"
	"errors"
	"sync"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"shadowchess/bots"
	"shadowchess/rules"
)

var (
	ErrGameOver         = errors.New("game is over")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrNotBotTurn       = errors.New("not the bot's turn")
	ErrBotThinking      = errors.New("bot is thinking")
	ErrNoSelection      = errors.New("no piece selected")
	ErrPromotionPending = errors.New("promotion piece not chosen")
	ErrNothingToUndo    = errors.New("nothing to undo")
	ErrIllegalMove      = rules.ErrIllegalMove
)

// Match is safe for concurrent use: the UI goroutine may read Status while
// another goroutine runs BotMove.
type Match struct {
	mu       sync.Mutex
	pos      *rules.Position
	startPly int
	bot      bots.ChessBot
	human    chess.Color
	log      zerolog.Logger
	thinking bool
	gen      int

	selected  chess.Square
	hasSel    bool
	promotion *pendingPromotion
}

type pendingPromotion struct {
	from, to chess.Square
}

// New starts a match from pos. The match takes ownership of pos.
func New(pos *rules.Position, bot bots.ChessBot, human chess.Color, log zerolog.Logger) *Match {
	return &Match{
		pos:      pos,
		startPly: pos.Ply(),
		bot:      bot,
		human:    human,
		log:      log,
	}
}

// Human returns the colour played by the human.
func (m *Match) Human() chess.Color {
	return m.human
}

// SetBot swaps the opponent. It takes effect from the bot's next move.
func (m *Match) SetBot(bot bots.ChessBot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bot = bot
	m.log.Info().Str("bot", bot.Name()).Msg("opponent changed")
}

// Board returns the current board. Boards are snapshots and stay valid after
// later moves.
func (m *Match) Board() *chess.Board {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos.Board()
}

// BotToMove reports whether the bot should move now.
func (m *Match) BotToMove() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.thinking && m.promotion == nil &&
		m.pos.Turn() != m.human && !m.pos.IsGameOver()
}

func (m *Match) humanCanAct() error {
	switch {
	case m.pos.IsGameOver():
		return ErrGameOver
	case m.thinking || m.pos.Turn() != m.human:
		return ErrNotYourTurn
	}
	return nil
}

// Select picks the human piece on sq and returns its target squares.
// Selecting the same square again, or a square without a human piece,
// clears the selection and returns no targets.
func (m *Match) Select(sq chess.Square) ([]chess.Square, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.humanCanAct(); err != nil {
		return nil, err
	}
	if m.promotion != nil {
		return nil, ErrPromotionPending
	}

	piece := m.pos.Piece(sq)
	if (m.hasSel && m.selected == sq) || piece == chess.NoPiece || piece.Color() != m.human {
		m.hasSel = false
		return nil, nil
	}
	m.selected, m.hasSel = sq, true
	return m.targets(), nil
}

func (m *Match) targets() []chess.Square {
	var out []chess.Square
	seen := map[chess.Square]bool{}
	for _, mv := range m.pos.LegalMovesFrom(m.selected) {
		if !seen[mv.S2()] {
			seen[mv.S2()] = true
			out = append(out, mv.S2())
		}
	}
	return out
}

// MoveTo moves the selected piece to sq. A pawn reaching the last rank waits
// for Promote and MoveTo returns nil without error.
func (m *Match) MoveTo(sq chess.Square) (*rules.AppliedMove, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.humanCanAct(); err != nil {
		return nil, err
	}
	if m.promotion != nil {
		return nil, ErrPromotionPending
	}
	if !m.hasSel {
		return nil, ErrNoSelection
	}

	var candidates []*chess.Move
	for _, mv := range m.pos.LegalMovesFrom(m.selected) {
		if mv.S2() == sq {
			candidates = append(candidates, mv)
		}
	}
	switch {
	case len(candidates) == 0:
		return nil, ErrIllegalMove
	case candidates[0].Promo() != chess.NoPieceType:
		m.promotion = &pendingPromotion{from: m.selected, to: sq}
		m.hasSel = false
		return nil, nil
	}
	return m.apply(candidates[0]), nil
}

// Promote finishes a pending promotion with the given piece type.
func (m *Match) Promote(pt chess.PieceType) (*rules.AppliedMove, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.promotion == nil {
		return nil, ErrNoSelection
	}
	for _, mv := range m.pos.LegalMovesFrom(m.promotion.from) {
		if mv.S2() == m.promotion.to && mv.Promo() == pt {
			m.promotion = nil
			return m.apply(mv), nil
		}
	}
	return nil, ErrIllegalMove
}

// CancelPromotion drops a pending promotion without moving.
func (m *Match) CancelPromotion() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.promotion = nil
}

// PlayUCI applies a human move given in UCI or SAN notation.
func (m *Match) PlayUCI(s string) (*rules.AppliedMove, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.humanCanAct(); err != nil {
		return nil, err
	}
	mv, err := m.pos.ParseMove(s)
	if err != nil {
		return nil, err
	}
	m.promotion = nil
	return m.apply(mv), nil
}

func (m *Match) apply(mv *chess.Move) *rules.AppliedMove {
	applied := m.pos.Apply(mv)
	m.hasSel = false
	if applied == nil {
		return nil
	}
	m.log.Info().
		Str("move", applied.SAN()).
		Str("side", applied.Piece.Color().Name()).
		Bool("capture", applied.IsCapture()).
		Msg("move applied")
	if m.pos.IsGameOver() {
		m.log.Info().Str("result", m.pos.Outcome()).Msg("game over")
	}
	return applied
}

// BotMove lets the bot reply. The search runs on a clone of the position
// without holding the lock; the result is discarded if the match was reset
// or undone meanwhile. A bot that finds no move passes: BotMove returns nil
// without error. ctx is only checked before the search starts.
func (m *Match) BotMove(ctx context.Context) (*rules.AppliedMove, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	switch {
	case m.pos.IsGameOver():
		m.mu.Unlock()
		return nil, ErrGameOver
	case m.thinking:
		m.mu.Unlock()
		return nil, ErrBotThinking
	case m.pos.Turn() == m.human:
		m.mu.Unlock()
		return nil, ErrNotBotTurn
	}
	m.thinking = true
	gen := m.gen
	bot := m.bot
	work := m.pos.Clone()
	m.mu.Unlock()

	move := bot.BestMove(work)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return nil, nil
	}
	m.thinking = false
	if move == nil {
		m.log.Warn().Str("bot", bot.Name()).Msg("bot found no move")
		return nil, nil
	}
	applied := m.apply(move)
	if applied == nil {
		m.log.Error().Str("move", move.String()).Msg("bot chose an illegal move")
	}
	return applied, nil
}

// Undo takes back the last human move together with the bot's reply to it.
func (m *Match) Undo() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.thinking {
		return ErrBotThinking
	}
	if !m.undo() {
		return ErrNothingToUndo
	}
	for m.pos.Turn() != m.human && m.undo() {
	}
	m.clearTransient()
	return nil
}

func (m *Match) undo() bool {
	return m.pos.Ply() > m.startPly && m.pos.Undo()
}

// Reset returns to the starting position. A search in flight is discarded.
func (m *Match) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.undo() {
	}
	m.thinking = false
	m.clearTransient()
	m.log.Info().Msg("match reset")
}

func (m *Match) clearTransient() {
	m.gen++
	m.hasSel = false
	m.promotion = nil
}
