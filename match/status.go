package match

import (
	"strings"

	"github.com/notnil/chess"

	"shadowchess/rules"
)

// Status is a snapshot of the match for display.
type Status struct {
	Turn       chess.Color
	Human      chess.Color
	BotName    string
	Thinking   bool
	InCheck    bool
	GameOver   bool
	Result     string
	DrawReason string
	LastMove   *rules.AppliedMove
	Moves      []string // SAN, oldest first
	FEN        string

	// CheckSquare is the king in check, or chess.NoSquare.
	CheckSquare chess.Square

	Selected         chess.Square
	HasSelection     bool
	SelectedAttacked bool
	Targets          []chess.Square
	PromotionPending bool
}

// Status reports the current state of the match.
func (m *Match) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := Status{
		Turn:             m.pos.Turn(),
		Human:            m.human,
		Thinking:         m.thinking,
		InCheck:          m.pos.IsCheck(),
		GameOver:         m.pos.IsGameOver(),
		Result:           m.pos.Outcome(),
		DrawReason:       m.pos.DrawReason(),
		LastMove:         m.pos.LastMove(),
		FEN:              m.pos.FEN(),
		Selected:         m.selected,
		HasSelection:     m.hasSel,
		CheckSquare:      chess.NoSquare,
		PromotionPending: m.promotion != nil,
	}
	for _, mv := range m.pos.History() {
		st.Moves = append(st.Moves, mv.SAN())
	}
	if st.InCheck {
		st.CheckSquare = m.pos.KingSquare(st.Turn)
	}
	if m.bot != nil {
		st.BotName = m.bot.Name()
	}
	if m.hasSel {
		st.Targets = m.targets()
		st.SelectedAttacked = m.pos.IsAttacked(m.selected, m.human.Other())
	}
	return st
}

// RecentMoves returns the last n moves in SAN separated by spaces, with
// "..." in front when earlier moves were left out.
func (s Status) RecentMoves(n int) string {
	if n <= 0 || len(s.Moves) == 0 {
		return ""
	}
	if len(s.Moves) <= n {
		return strings.Join(s.Moves, " ")
	}
	return "... " + strings.Join(s.Moves[len(s.Moves)-n:], " ")
}

// Message is a one-line summary for the status bar.
func (s Status) Message() string {
	switch {
	case s.GameOver && s.Result == rules.ResultDraw:
		return "Draw: " + s.DrawReason
	case s.GameOver:
		winner := "White"
		if s.Result == rules.ResultBlackWins {
			winner = "Black"
		}
		return "Checkmate. " + winner + " wins"
	case s.PromotionPending:
		return "Promote to: Q, R, B or N"
	case s.Thinking:
		return "Bot is thinking..."
	case s.Turn != s.Human:
		return "Bot to move"
	case s.InCheck:
		return "Your move (check)"
	}
	return "Your move"
}
