package bot

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Christian-Schefe/tak-sub000/bitboard"
	"github.com/Christian-Schefe/tak-sub000/game"
	"github.com/Christian-Schefe/tak-sub000/search"
	"github.com/Christian-Schefe/tak-sub000/zobrist"
)

var (
	ErrGameDecided = errors.New("position is already decided")
	ErrBotClosed   = errors.New("bot is closed")
)

const defaultMaxDepth = 24

// Request asks the bot for a move. An empty Position means a fresh
// game of Size squares. Remaining zero disables the clock and searches
// MaxDepth plies exactly; otherwise the bot budgets its own time from
// the clock state.
type Request struct {
	Position  string
	Size      int
	Komi      int
	Tiebreak  bool
	MaxDepth  int
	Remaining time.Duration
	Increment time.Duration
}

// Response carries the chosen move with the score and depth that
// produced it. Score is from the mover's perspective; Raw is the same
// move in engine coordinates with its packed drop pattern.
type Response struct {
	Move  game.Action
	Raw   bitboard.Move
	Score int32
	Depth int
	Err   error
}

type envelope struct {
	req   Request
	reply chan Response
}

// Bot owns one search engine and transposition table and serves
// requests one at a time from its own goroutine, so callers never
// share search state.
type Bot struct {
	requests chan envelope
	done     chan struct{}

	table  *zobrist.Table
	engine *search.Engine
}

// New starts a bot worker. The zobrist table and transposition table
// are passed in explicitly; the worker goroutine is their only user
// of mutable state from then on.
func New(table *zobrist.Table, tt *search.Table) *Bot {
	b := &Bot{
		requests: make(chan envelope),
		done:     make(chan struct{}),
		table:    table,
		engine:   search.NewEngine(tt),
	}
	go b.serve()
	return b
}

// Close stops the worker. Pending ChooseMove calls fail with
// ErrBotClosed.
func (b *Bot) Close() {
	close(b.done)
}

// ChooseMove blocks until the worker has searched the request.
func (b *Bot) ChooseMove(req Request) Response {
	select {
	case <-b.done:
		return Response{Err: ErrBotClosed}
	default:
	}
	env := envelope{req: req, reply: make(chan Response, 1)}
	select {
	case b.requests <- env:
		return <-env.reply
	case <-b.done:
		return Response{Err: ErrBotClosed}
	}
}

func (b *Bot) serve() {
	for {
		select {
		case env := <-b.requests:
			env.reply <- b.handle(env.req)
		case <-b.done:
			return
		}
	}
}

func (b *Bot) handle(req Request) Response {
	pos, err := b.loadPosition(req)
	if err != nil {
		return Response{Err: err}
	}
	if pos.Result() != bitboard.Ongoing {
		return Response{Err: ErrGameDecided}
	}

	maxDepth := req.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	var (
		score int32
		move  bitboard.Move
		depth int
		ok    bool
	)
	start := time.Now()
	if req.Remaining > 0 {
		budget := search.Budget(pos.Ply(), req.Remaining, req.Increment)
		score, move, depth, ok = b.engine.IterativeDeepening(pos, maxDepth, budget)
	} else {
		depth = maxDepth
		score, move, ok = b.engine.Search(pos, maxDepth)
	}
	if !ok {
		return Response{Err: errors.New("search produced no move")}
	}

	action := FromEngineMove(move, pos.Size())
	log.Info().
		Str("move", action.String()).
		Int32("score", score).
		Int("depth", depth).
		Uint64("nodes", b.engine.Nodes()).
		Dur("elapsed", time.Since(start)).
		Msg("bot move")
	return Response{Move: action, Raw: move, Score: score, Depth: depth}
}

func (b *Bot) loadPosition(req Request) (*bitboard.Board, error) {
	settings := bitboard.Settings{Komi: req.Komi, Tiebreak: req.Tiebreak}
	if req.Position == "" {
		return bitboard.New(req.Size, settings, b.table)
	}
	return bitboard.FromPosition(req.Position, settings, b.table)
}
