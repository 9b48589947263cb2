package bots

import (
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"shadowchess/rules"
)

const (
	// MateScore is what a side to move that is checkmated scores, negated.
	// It outweighs any material swing and ignores distance to mate.
	MateScore = 20000

	infinity = math.MaxInt32
)

// NegamaxBot searches a fixed number of plies with alpha-beta negamax.
//
// The search is synchronous and CPU-bound. It walks the caller's position
// with Apply/Undo, so nothing else may touch that position while BestMove
// runs. With Workers > 1 the root moves are spread over goroutines that each
// own a clone, and the caller's position is only read.
type NegamaxBot struct {
	Depth     int
	Evaluator PositionEvaluator

	// Shuffle randomizes root move order. Ties go to the first move in
	// shuffled order.
	Shuffle bool
	Rand    *rand.Rand

	// Pruning enables alpha-beta cutoffs. Turning it off gives the same
	// result with a full-width search.
	Pruning bool
	Workers int

	Logger zerolog.Logger
}

func NewNegamaxBot(depth int) *NegamaxBot {
	return &NegamaxBot{
		Depth:     depth,
		Evaluator: MaterialEvaluator{},
		Shuffle:   true,
		Rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
		Pruning:   true,
		Workers:   1,
		Logger:    zerolog.Nop(),
	}
}

func (b *NegamaxBot) Name() string {
	return fmt.Sprintf("Negamax Bot (depth %d)", b.Depth)
}

func (b *NegamaxBot) BestMove(pos *rules.Position) *chess.Move {
	return b.Search(pos).Move
}

// Result describes a finished root search.
type Result struct {
	Move    *chess.Move
	Score   int
	Nodes   uint64
	Elapsed time.Duration
}

type scoredMove struct {
	move  *chess.Move
	score int
}

// Search returns the best move for the side to move and its score. Move is
// nil when there is no legal move.
func (b *NegamaxBot) Search(pos *rules.Position) Result {
	if pos == nil {
		return Result{}
	}
	start := time.Now()

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return Result{}
	}
	if b.Shuffle && b.Rand != nil {
		b.Rand.Shuffle(len(moves), func(i, j int) {
			moves[i], moves[j] = moves[j], moves[i]
		})
	}

	depth := b.Depth
	if depth < 0 {
		depth = 0
	}

	var scores []int
	var nodes uint64
	if b.Workers > 1 {
		scores, nodes = b.scoreParallel(pos, moves, depth)
	} else {
		s := b.newSearcher(pos)
		scores = make([]int, len(moves))
		for i, m := range moves {
			scores[i] = s.scoreRoot(m, depth)
		}
		nodes = s.nodes
	}

	best := scoredMove{move: moves[0], score: -infinity}
	for i, m := range moves {
		if scores[i] > best.score {
			best = scoredMove{m, scores[i]}
		}
	}

	res := Result{
		Move:    best.move,
		Score:   best.score,
		Nodes:   nodes,
		Elapsed: time.Since(start),
	}
	b.Logger.Debug().
		Str("move", res.Move.String()).
		Int("score", res.Score).
		Int("depth", depth).
		Int("candidates", len(moves)).
		Uint64("nodes", res.Nodes).
		Dur("elapsed", res.Elapsed).
		Msg("search complete")
	return res
}

func (b *NegamaxBot) scoreParallel(pos *rules.Position, moves []*chess.Move, depth int) ([]int, uint64) {
	scores := make([]int, len(moves))
	var nodes atomic.Uint64

	g := new(errgroup.Group)
	g.SetLimit(b.Workers)
	for i, m := range moves {
		i, m := i, m
		s := b.newSearcher(pos.Clone())
		g.Go(func() error {
			scores[i] = s.scoreRoot(m, depth)
			nodes.Add(s.nodes)
			return nil
		})
	}
	_ = g.Wait()
	return scores, nodes.Load()
}

func (b *NegamaxBot) newSearcher(pos *rules.Position) *searcher {
	eval := b.Evaluator
	if eval == nil {
		eval = MaterialEvaluator{}
	}
	return &searcher{pos: pos, eval: eval, pruning: b.Pruning}
}

// searcher owns one position handle for the duration of a search.
type searcher struct {
	pos     *rules.Position
	eval    PositionEvaluator
	pruning bool
	nodes   uint64
}

func (s *searcher) scoreRoot(m *chess.Move, depth int) int {
	if s.pos.Apply(m) == nil {
		return -infinity
	}
	score := -s.negamax(depth-1, -infinity, infinity)
	s.pos.Undo()
	return score
}

// negamax returns the value of the live position for the side to move.
func (s *searcher) negamax(depth, alpha, beta int) int {
	s.nodes++
	// Mate and stalemate are scored even at the horizon.
	moves := s.pos.LegalMoves()
	if len(moves) == 0 {
		if s.pos.IsCheckmate() {
			return -MateScore
		}
		return 0
	}
	if depth <= 0 {
		return s.eval.Evaluate(s.pos)
	}

	best := -infinity
	for _, m := range moves {
		if s.pos.Apply(m) == nil {
			continue
		}
		score := -s.negamax(depth-1, -beta, -alpha)
		s.pos.Undo()

		if score > best {
			best = score
		}
		if !s.pruning {
			continue
		}
		if best > alpha {
			alpha = best
		}
		if beta <= alpha {
			break
		}
	}
	return best
}
