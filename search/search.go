package search

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/Christian-Schefe/tak-sub000/bitboard"
)

// Engine runs negamax alpha-beta searches over a bitboard position.
// It is not safe for concurrent use; the bot serializes access.
type Engine struct {
	tt    *Table
	nodes uint64

	timed    bool
	deadline time.Time
}

func NewEngine(tt *Table) *Engine {
	return &Engine{tt: tt}
}

// Nodes reports the node count of the most recent search.
func (e *Engine) Nodes() uint64 { return e.nodes }

// Search runs a fixed-depth search and returns the score from the
// mover's perspective with the best move. ok is false only when a
// deadline set by IterativeDeepening expired mid-search.
func (e *Engine) Search(b *bitboard.Board, depth int) (int32, bitboard.Move, bool) {
	e.timed = false
	e.nodes = 0
	return e.searchRoot(b, depth)
}

// IterativeDeepening searches depth 1, 2, ... up to maxDepth within the
// wall-clock budget, keeping the deepest completed result. It stops
// early when an iteration finds a forced result or when the next
// iteration is projected to blow the deadline.
func (e *Engine) IterativeDeepening(b *bitboard.Board, maxDepth int, budget time.Duration) (int32, bitboard.Move, int, bool) {
	start := time.Now()
	e.timed = true
	e.deadline = start.Add(budget)
	e.nodes = 0

	var (
		bestScore int32
		bestMove  bitboard.Move
		bestDepth int
	)
	for depth := 1; depth <= maxDepth; depth++ {
		elapsedBefore := time.Since(start)
		score, move, ok := e.searchRoot(b, depth)
		if !ok {
			break
		}
		bestScore, bestMove, bestDepth = score, move, depth

		used := time.Since(start)
		lookups, hits, _, _ := e.tt.Stats()
		log.Debug().
			Int("depth", depth).
			Int32("score", score).
			Str("move", move.String()).
			Uint64("nodes", e.nodes).
			Uint64("ttLookups", lookups).
			Uint64("ttHits", hits).
			Dur("elapsed", used).
			Msg("search iteration")

		if score >= DecisiveScore || score <= -DecisiveScore {
			break
		}

		// Project the next iteration from the growth between this one
		// and the last; stop if it cannot finish in time.
		usedMs := used.Milliseconds()
		beforeMs := elapsedBefore.Milliseconds()
		grow := usedMs * 1000 / (beforeMs + 1)
		if grow > 10000 {
			grow = 10000
		}
		estimate := time.Duration(usedMs*grow/1500) * time.Millisecond
		if time.Now().Add(estimate).After(e.deadline) {
			break
		}
	}
	if bestDepth == 0 {
		return 0, bitboard.Move{}, 0, false
	}
	return bestScore, bestMove, bestDepth, true
}

func (e *Engine) searchRoot(b *bitboard.Board, depth int) (int32, bitboard.Move, bool) {
	e.nodes++
	moves := b.Moves()
	if len(moves) == 0 {
		return evaluateForMover(b), bitboard.Move{}, true
	}
	if entry, found := e.tt.Lookup(b.Hash()); found && entry.Type != UpperNode {
		frontloadMove(moves, entry.Move)
	}

	alpha, beta := -Infinity, Infinity
	bestMove := moves[0]
	for _, m := range moves {
		smashed := b.Make(m)
		score, ok := e.alphabeta(b, depth-1, 1, -beta, -alpha)
		b.Unmake(m, smashed)
		if !ok {
			return 0, bitboard.Move{}, false
		}
		score = -score
		if score > alpha {
			alpha = score
			bestMove = m
		}
	}
	e.tt.Store(TableEntry{
		Hash:  b.Hash(),
		Score: alpha,
		Move:  bestMove,
		Depth: uint8(depth),
		Ply:   uint16(b.Ply()),
		Type:  ExactNode,
	})
	return alpha, bestMove, true
}

func (e *Engine) alphabeta(b *bitboard.Board, depth, height int, alpha, beta int32) (int32, bool) {
	if e.timed && height < 2 && time.Now().After(e.deadline) {
		return 0, false
	}
	e.nodes++

	if b.Result() != bitboard.Ongoing || depth == 0 {
		return evaluateForMover(b), true
	}
	isLeaf := depth == 1

	var ttMove bitboard.Move
	haveTTMove := false
	if entry, found := e.tt.Lookup(b.Hash()); found {
		if int(entry.Depth) >= depth {
			switch entry.Type {
			case ExactNode:
				return entry.Score, true
			case UpperNode:
				if entry.Score <= alpha && !isLeaf {
					return entry.Score, true
				}
			case LowerNode:
				if entry.Score >= beta && !isLeaf {
					return entry.Score, true
				}
			}
		}
		if entry.Type != UpperNode {
			ttMove = entry.Move
			haveTTMove = true
		}
	}

	moves := b.Moves()
	if haveTTMove {
		frontloadMove(moves, ttMove)
	}

	raised := false
	bestMove := moves[0]
	for _, m := range moves {
		smashed := b.Make(m)
		score, ok := e.alphabeta(b, depth-1, height+1, -beta, -alpha)
		b.Unmake(m, smashed)
		if !ok {
			return 0, false
		}
		score = -score
		if score > alpha {
			alpha = score
			bestMove = m
			raised = true
		}
		if alpha >= beta {
			e.tt.Store(TableEntry{
				Hash:  b.Hash(),
				Score: beta,
				Move:  m,
				Depth: uint8(depth),
				Ply:   uint16(b.Ply()),
				Type:  LowerNode,
			})
			return beta, true
		}
	}

	nodeType := UpperNode
	if raised {
		nodeType = ExactNode
	}
	e.tt.Store(TableEntry{
		Hash:  b.Hash(),
		Score: alpha,
		Move:  bestMove,
		Depth: uint8(depth),
		Ply:   uint16(b.Ply()),
		Type:  nodeType,
	})
	return alpha, true
}

// frontloadMove swaps the remembered best move to the head of the list
// so it is searched first.
func frontloadMove(moves []bitboard.Move, m bitboard.Move) {
	if i := lo.IndexOf(moves, m); i > 0 {
		moves[0], moves[i] = moves[i], moves[0]
	}
}
