package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Christian-Schefe/tak-sub000/board"
)

// ErrBadNotation is returned when a move-notation string cannot be
// parsed.
var ErrBadNotation = errors.New("malformed move notation")

// ActionType discriminates the two kinds of actions.
type ActionType uint8

const (
	PlaceAction ActionType = iota
	SpreadAction
)

// Action is one move: either placing a fresh piece or spreading an
// existing stack. Variant is meaningful for placements only; Dir, Take
// and Drops for spreads only.
type Action struct {
	Type    ActionType
	Pos     board.Coord
	Variant board.PieceVariant
	Dir     board.Direction
	Take    int
	Drops   []int
}

func Place(pos board.Coord, variant board.PieceVariant) Action {
	return Action{Type: PlaceAction, Pos: pos, Variant: variant}
}

func Spread(pos board.Coord, dir board.Direction, take int, drops []int) Action {
	return Action{Type: SpreadAction, Pos: pos, Dir: dir, Take: take, Drops: drops}
}

// Equal compares two actions structurally.
func (a Action) Equal(b Action) bool {
	if a.Type != b.Type || a.Pos != b.Pos {
		return false
	}
	if a.Type == PlaceAction {
		return a.Variant == b.Variant
	}
	if a.Dir != b.Dir || a.Take != b.Take || len(a.Drops) != len(b.Drops) {
		return false
	}
	for i, d := range a.Drops {
		if d != b.Drops[i] {
			return false
		}
	}
	return true
}

func dirChar(d board.Direction) byte {
	switch d {
	case board.Up:
		return '+'
	case board.Down:
		return '-'
	case board.Left:
		return '<'
	}
	return '>'
}

// String renders the action in move notation. Placements are
// [S|C]<square>; spreads are [take]<square><dir>[drops], with the take
// omitted when 1 and the drop digits omitted when everything lands on
// one square.
func (a Action) String() string {
	var sb strings.Builder
	if a.Type == PlaceAction {
		switch a.Variant {
		case board.Wall:
			sb.WriteByte('S')
		case board.Capstone:
			sb.WriteByte('C')
		}
		sb.WriteString(a.Pos.String())
		return sb.String()
	}
	if a.Take > 1 {
		sb.WriteByte(byte('0' + a.Take))
	}
	sb.WriteString(a.Pos.String())
	sb.WriteByte(dirChar(a.Dir))
	if len(a.Drops) > 1 {
		for _, d := range a.Drops {
			sb.WriteByte(byte('0' + d))
		}
	}
	return sb.String()
}

// ParseAction parses move notation. A trailing '*' (the flattening
// marker written by ActionRecord.Notation) is accepted and discarded;
// whether a spread flattens is a property of the position, not the
// action.
func ParseAction(s string) (Action, error) {
	s = strings.TrimSuffix(s, "*")
	if len(s) < 2 {
		return Action{}, fmt.Errorf("%w: %q", ErrBadNotation, s)
	}

	variant := board.Flat
	take := 0
	i := 0
	switch {
	case s[i] == 'S':
		variant = board.Wall
		i++
	case s[i] == 'C':
		variant = board.Capstone
		i++
	case s[i] >= '1' && s[i] <= '8':
		take = int(s[i] - '0')
		i++
	}

	if i >= len(s) || s[i] < 'a' || s[i] > 'h' {
		return Action{}, fmt.Errorf("%w: %q", ErrBadNotation, s)
	}
	x := int(s[i] - 'a')
	i++
	if i >= len(s) || s[i] < '1' || s[i] > '8' {
		return Action{}, fmt.Errorf("%w: %q", ErrBadNotation, s)
	}
	y := int(s[i] - '1')
	i++
	pos := board.Coord{X: x, Y: y}

	if i == len(s) {
		if take != 0 {
			return Action{}, fmt.Errorf("%w: take count on a placement %q", ErrBadNotation, s)
		}
		return Place(pos, variant), nil
	}

	if variant != board.Flat {
		return Action{}, fmt.Errorf("%w: variant marker on a spread %q", ErrBadNotation, s)
	}
	var dir board.Direction
	switch s[i] {
	case '+':
		dir = board.Up
	case '-':
		dir = board.Down
	case '<':
		dir = board.Left
	case '>':
		dir = board.Right
	default:
		return Action{}, fmt.Errorf("%w: bad direction %q", ErrBadNotation, s)
	}
	i++

	if take == 0 {
		take = 1
	}
	var drops []int
	for ; i < len(s); i++ {
		if s[i] < '1' || s[i] > '8' {
			return Action{}, fmt.Errorf("%w: bad drop digit in %q", ErrBadNotation, s)
		}
		drops = append(drops, int(s[i]-'0'))
	}
	if drops == nil {
		drops = []int{take}
	}
	sum := 0
	for _, d := range drops {
		sum += d
	}
	if sum != take {
		return Action{}, fmt.Errorf("%w: drops sum %d, take %d in %q", ErrBadNotation, sum, take, s)
	}
	return Spread(pos, dir, take, drops), nil
}

// ActionRecord is a history entry: the action, who made it, and enough
// captured state to undo it exactly.
type ActionRecord struct {
	Action    Action
	Player    board.Player
	Flattened bool

	prevResult Result
	prevReason WinReason
	prevRoad   [2]board.Coord
}

// Notation renders the record with the '*' flattening marker when the
// spread smashed a wall.
func (r ActionRecord) Notation() string {
	s := r.Action.String()
	if r.Flattened {
		s += "*"
	}
	return s
}
