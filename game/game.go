// Package game implements the rules of play on top of the board
// primitives: turn order and the opening swap, piece reserves, komi,
// clocks, terminal detection, and an undoable action history. A Game is
// the authoritative record of one match; the search engine keeps its
// own faster representation and translates back to these actions.
package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/Christian-Schefe/tak-sub000/board"
)

var (
	ErrGameOver           = errors.New("game is already decided")
	ErrOpeningRestriction = errors.New("opening plies allow flat placements only")
	ErrNotController      = errors.New("stack is not controlled by the player to move")
	ErrNoHistory          = errors.New("no action to undo")
	ErrBadInventory       = errors.New("start position exceeds the reserves")
)

// Result is the game outcome. The zero value means play continues.
type Result uint8

const (
	Ongoing Result = iota
	WhiteWins
	BlackWins
	Draw
)

func (r Result) String() string {
	switch r {
	case Ongoing:
		return "ongoing"
	case WhiteWins:
		return "white wins"
	case BlackWins:
		return "black wins"
	}
	return "draw"
}

// WinReason explains a decided result.
type WinReason uint8

const (
	NoWin WinReason = iota
	RoadWin
	FlatWin
	TimeoutWin
)

func (w WinReason) String() string {
	switch w {
	case RoadWin:
		return "road"
	case FlatWin:
		return "flats"
	case TimeoutWin:
		return "timeout"
	}
	return "none"
}

// Settings configures a new game. Zero Size requires a Position to
// derive the size from; nil Reserves means the standard inventory for
// the size; nil Time means an untimed game. Now is a clock source hook
// and defaults to time.Now.
type Settings struct {
	Size     int
	Reserves *Reserves
	Komi     Komi
	Time     *TimeMode
	Position string
	Now      func() time.Time
}

// Game is a full match state machine. All mutating operations validate
// first and leave the game untouched on rejection; once the result is
// decided every further action is rejected with ErrGameOver.
type Game struct {
	settings Settings

	board    *board.Board
	komi     Komi
	reserves Reserves
	hands    [2]Hand
	current  board.Player
	ply      int
	startPly int
	history  []ActionRecord
	result   Result
	reason   WinReason
	road     [2]board.Coord
	clock    *Clock
	nowFn    func() time.Time
}

// New creates a game from settings, optionally resuming from a
// position string. Pieces already on the board are deducted from the
// reserves; a position that needs more pieces than the inventory holds
// is rejected.
func New(s Settings) (*Game, error) {
	nowFn := s.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	var (
		b       *board.Board
		current = board.White
		ply     = 0
		err     error
	)
	if s.Position != "" {
		b, current, ply, err = parsePosition(s.Position)
		if err != nil {
			return nil, err
		}
		if s.Size != 0 && s.Size != b.Size() {
			return nil, fmt.Errorf("position is %dx%d, settings say %d", b.Size(), b.Size(), s.Size)
		}
	} else {
		b, err = board.New(s.Size)
		if err != nil {
			return nil, err
		}
	}

	reserves := Reserves{}
	if s.Reserves != nil {
		reserves = *s.Reserves
	} else if reserves, err = DefaultReserves(b.Size()); err != nil {
		return nil, err
	}

	g := &Game{
		settings: s,
		board:    b,
		komi:     s.Komi,
		reserves: reserves,
		current:  current,
		ply:      ply,
		startPly: ply,
		nowFn:    nowFn,
	}
	for _, p := range []board.Player{board.White, board.Black} {
		stones, capstones := b.CountStones(p)
		hand := Hand{
			Stones:    reserves.Stones - stones,
			Capstones: reserves.Capstones - capstones,
		}
		if hand.Stones < 0 || hand.Capstones < 0 {
			return nil, fmt.Errorf("%w: %s needs %d stones and %d capstones", ErrBadInventory, p, stones, capstones)
		}
		g.hands[p.Index()] = hand
	}
	if s.Time != nil {
		g.clock = NewClock(*s.Time, nowFn())
	}
	g.evaluateStartTerminal()
	return g, nil
}

// Reset rebuilds the game from its original settings, discarding all
// history.
func (g *Game) Reset() error {
	fresh, err := New(g.settings)
	if err != nil {
		return err
	}
	*g = *fresh
	return nil
}

func (g *Game) Board() *board.Board       { return g.board }
func (g *Game) Size() int                 { return g.board.Size() }
func (g *Game) CurrentPlayer() board.Player { return g.current }
func (g *Game) Ply() int                  { return g.ply }
func (g *Game) MoveNumber() int           { return g.ply/2 + 1 }
func (g *Game) Result() Result            { return g.result }
func (g *Game) WinReason() WinReason      { return g.reason }
func (g *Game) Komi() Komi                { return g.komi }
func (g *Game) Hand(p board.Player) Hand  { return g.hands[p.Index()] }
func (g *Game) History() []ActionRecord   { return g.history }

// LastAction returns the most recent history entry.
func (g *Game) LastAction() (ActionRecord, bool) {
	if len(g.history) == 0 {
		return ActionRecord{}, false
	}
	return g.history[len(g.history)-1], true
}

// RoadPath returns the squares of a shortest winning road, for display.
// It is only meaningful after a road win.
func (g *Game) RoadPath() []board.Coord {
	if g.reason != RoadWin {
		return nil
	}
	return g.board.ShortestPath(g.road[0], g.road[1])
}

// pieceOwner is the player whose piece a placement creates: during the
// opening swap each player places a piece owned by the opponent.
func (g *Game) pieceOwner() board.Player {
	if g.ply < 2 {
		return g.current.Other()
	}
	return g.current
}

// CanPlace validates a placement without mutating anything.
func (g *Game) CanPlace(pos board.Coord, variant board.PieceVariant) error {
	if g.result != Ongoing {
		return ErrGameOver
	}
	if g.ply < 2 && variant != board.Flat {
		return ErrOpeningRestriction
	}
	owner := g.pieceOwner()
	if err := g.hands[owner.Index()].CanTake(variant); err != nil {
		return err
	}
	return g.board.CanPlace(pos)
}

// Place performs a placement by the current player.
func (g *Game) Place(pos board.Coord, variant board.PieceVariant) error {
	if err := g.CanPlace(pos, variant); err != nil {
		return err
	}
	owner := g.pieceOwner()
	if err := g.hands[owner.Index()].Take(variant); err != nil {
		return err
	}
	if err := g.board.Place(pos, variant, owner); err != nil {
		g.hands[owner.Index()].Untake(variant)
		return err
	}
	g.finishAction(Place(pos, variant), false, []board.Coord{pos})
	return nil
}

// CanMove validates a spread without mutating anything.
func (g *Game) CanMove(pos board.Coord, dir board.Direction, take int, drops []int) error {
	if g.result != Ongoing {
		return ErrGameOver
	}
	if g.ply < 2 {
		return ErrOpeningRestriction
	}
	stack := g.board.StackAt(pos)
	if stack == nil {
		return board.ErrEmptySquare
	}
	if stack.Controller() != g.current {
		return ErrNotController
	}
	_, err := g.board.CanMove(pos, dir, take, drops)
	return err
}

// Move performs a spread by the current player.
func (g *Game) Move(pos board.Coord, dir board.Direction, take int, drops []int) error {
	if err := g.CanMove(pos, dir, take, drops); err != nil {
		return err
	}
	flattened, err := g.board.Move(pos, dir, take, drops)
	if err != nil {
		return err
	}
	touched := make([]board.Coord, 0, len(drops)+1)
	touched = append(touched, pos)
	for i := range drops {
		touched = append(touched, pos.OffsetBy(dir, i+1))
	}
	g.finishAction(Spread(pos, dir, take, drops), flattened, touched)
	return nil
}

// Do dispatches an action to Place or Move.
func (g *Game) Do(a Action) error {
	if a.Type == PlaceAction {
		return g.Place(a.Pos, a.Variant)
	}
	return g.Move(a.Pos, a.Dir, a.Take, a.Drops)
}

// DoNotation parses and performs a move in one step.
func (g *Game) DoNotation(s string) error {
	a, err := ParseAction(s)
	if err != nil {
		return err
	}
	return g.Do(a)
}

// finishAction records the action, evaluates the terminal conditions in
// order, charges the clock, and passes the turn.
func (g *Game) finishAction(a Action, flattened bool, touched []board.Coord) {
	mover := g.current
	record := ActionRecord{
		Action:     a,
		Player:     mover,
		Flattened:  flattened,
		prevResult: g.result,
		prevReason: g.reason,
		prevRoad:   g.road,
	}

	alive := true
	if g.clock != nil {
		alive = g.clock.Observe(mover, g.nowFn())
	}

	if from, to, found := g.board.CheckRoad(touched, mover); found {
		g.decide(winnerResult(mover), RoadWin, from, to)
	} else if from, to, found := g.board.CheckRoad(touched, mover.Other()); found {
		g.decide(winnerResult(mover.Other()), RoadWin, from, to)
	} else if !g.board.HasEmptySquare() || g.hands[0].Empty() || g.hands[1].Empty() {
		g.resolveFlats()
	} else if !alive {
		g.decide(winnerResult(mover.Other()), TimeoutWin, board.Coord{}, board.Coord{})
	}

	g.history = append(g.history, record)
	g.ply++
	g.current = g.current.Other()
}

func winnerResult(p board.Player) Result {
	if p == board.White {
		return WhiteWins
	}
	return BlackWins
}

func (g *Game) decide(result Result, reason WinReason, from, to board.Coord) {
	g.result = result
	g.reason = reason
	g.road = [2]board.Coord{from, to}
}

// resolveFlats compares flat counts with komi applied to Black. Ties go
// to Black when the komi carries the tiebreak, otherwise the game is
// drawn.
func (g *Game) resolveFlats() {
	counts := g.board.CountFlats()
	white := counts[board.White.Index()]
	black := counts[board.Black.Index()] + g.komi.Amount
	switch {
	case white > black:
		g.decide(WhiteWins, FlatWin, board.Coord{}, board.Coord{})
	case black > white:
		g.decide(BlackWins, FlatWin, board.Coord{}, board.Coord{})
	case g.komi.Tiebreak:
		g.decide(BlackWins, FlatWin, board.Coord{}, board.Coord{})
	default:
		g.decide(Draw, FlatWin, board.Coord{}, board.Coord{})
	}
}

// evaluateStartTerminal decides games that are already over in their
// start position: an existing road, a full board, or an exhausted hand.
func (g *Game) evaluateStartTerminal() {
	opponent := g.current.Other()
	for _, p := range []board.Player{opponent, g.current} {
		var candidates []board.Coord
		for _, placed := range g.board.ControlledStacks(p) {
			candidates = append(candidates, placed.Pos)
		}
		if from, to, found := g.board.CheckRoad(candidates, p); found {
			g.decide(winnerResult(p), RoadWin, from, to)
			return
		}
	}
	if !g.board.HasEmptySquare() || g.hands[0].Empty() || g.hands[1].Empty() {
		g.resolveFlats()
	}
}

// Undo reverses the most recent action, restoring the board, hands,
// turn and result. A board that refuses the structural inverse of its
// own history is corrupt, so that failure panics.
func (g *Game) Undo() error {
	if len(g.history) == 0 {
		return ErrNoHistory
	}
	rec := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	g.ply--
	g.current = rec.Player
	g.result = rec.prevResult
	g.reason = rec.prevReason
	g.road = rec.prevRoad

	a := rec.Action
	if a.Type == PlaceAction {
		owner := g.pieceOwner()
		if err := g.board.UndoPlace(a.Pos, a.Variant, owner); err != nil {
			panic(fmt.Sprintf("history undo rejected: %v", err))
		}
		g.hands[owner.Index()].Untake(a.Variant)
		return nil
	}
	if err := g.board.UndoMove(a.Pos, a.Dir, a.Take, a.Drops, rec.Flattened); err != nil {
		panic(fmt.Sprintf("history undo rejected: %v", err))
	}
	return nil
}

// CheckTimeout flags the current player's loss if their clock has run
// out. It reports whether the call decided the game.
func (g *Game) CheckTimeout(now time.Time) bool {
	if g.result != Ongoing || g.clock == nil {
		return false
	}
	if g.clock.Remaining(g.current, g.current, now) > 0 {
		return false
	}
	g.clock.Observe(g.current, now)
	g.decide(winnerResult(g.current.Other()), TimeoutWin, board.Coord{}, board.Coord{})
	return true
}

// TimeRemaining returns p's clock balance, or false for untimed games.
func (g *Game) TimeRemaining(p board.Player) (time.Duration, bool) {
	if g.clock == nil {
		return 0, false
	}
	return g.clock.Remaining(p, g.current, g.nowFn()), true
}

// SetTimeRemaining overwrites p's clock balance, for adjourned games
// and server corrections.
func (g *Game) SetTimeRemaining(p board.Player, d time.Duration) {
	if g.clock == nil {
		return
	}
	g.clock.SetRemaining(p, d, g.nowFn())
}

// Validate runs the cross-component consistency diagnostics: the board
// invariants, piece accounting against the reserves, and the
// history/ply/turn lockstep.
func (g *Game) Validate() error {
	if err := g.board.Validate(); err != nil {
		return err
	}
	for _, p := range []board.Player{board.White, board.Black} {
		stones, capstones := g.board.CountStones(p)
		hand := g.hands[p.Index()]
		if stones+hand.Stones != g.reserves.Stones || capstones+hand.Capstones != g.reserves.Capstones {
			return fmt.Errorf("%s piece accounting broken: board %d+%d, hand %d+%d, reserves %d+%d",
				p, stones, capstones, hand.Stones, hand.Capstones, g.reserves.Stones, g.reserves.Capstones)
		}
	}
	if g.ply != g.startPly+len(g.history) {
		return fmt.Errorf("ply %d does not match start %d plus %d actions", g.ply, g.startPly, len(g.history))
	}
	expected := board.White
	if g.ply%2 == 1 {
		expected = board.Black
	}
	if g.current != expected {
		return fmt.Errorf("player %s to move on ply %d", g.current, g.ply)
	}
	return nil
}
