// Package board implements the square grid a game is played on: stacks
// of owned pieces, placement and spread primitives with their exact
// inverses, road detection, and the position-string codec for a single
// grid. The board knows nothing about turns, reserves or clocks; those
// live one level up in the game package.
package board

import "fmt"

// Player identifies one of the two sides. White moves first.
type Player uint8

const (
	White Player = iota
	Black
)

// Other returns the opposing player.
func (p Player) Other() Player {
	return 1 - p
}

// Index returns 0 for White and 1 for Black, for array indexing.
func (p Player) Index() int {
	return int(p)
}

func (p Player) String() string {
	if p == White {
		return "white"
	}
	return "black"
}

// PieceVariant is the role of the topmost piece of a stack. Flats count
// toward flat resolution and join roads, walls block spreads and join
// nothing, capstones join roads, block everything but may flatten a
// wall when moving alone.
type PieceVariant uint8

const (
	Flat PieceVariant = iota
	Wall
	Capstone
)

func (v PieceVariant) String() string {
	switch v {
	case Flat:
		return "flat"
	case Wall:
		return "wall"
	case Capstone:
		return "capstone"
	}
	return "unknown"
}

// Direction is one of the four orthogonal spread directions. Up
// increases y.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists all four directions in a fixed generation order.
var Directions = [4]Direction{Up, Down, Left, Right}

// Offset returns the unit displacement of the direction.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case Up:
		return 0, 1
	case Down:
		return 0, -1
	case Left:
		return -1, 0
	default:
		return 1, 0
	}
}

func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return "right"
}

// Coord addresses a square. The origin is the bottom-left corner, so a1
// is (0,0) and the y axis grows upward.
type Coord struct {
	X, Y int
}

// Valid reports whether the coordinate lies on a board of the given
// size.
func (c Coord) Valid(size int) bool {
	return c.X >= 0 && c.X < size && c.Y >= 0 && c.Y < size
}

// Index returns the row-major array index of the coordinate.
func (c Coord) Index(size int) int {
	return c.Y*size + c.X
}

// Offset returns the coordinate one step in dir. The result may be off
// the board; callers validate.
func (c Coord) Offset(dir Direction) Coord {
	dx, dy := dir.Offset()
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// OffsetBy returns the coordinate n steps in dir.
func (c Coord) OffsetBy(dir Direction, n int) Coord {
	dx, dy := dir.Offset()
	return Coord{X: c.X + dx*n, Y: c.Y + dy*n}
}

// AdjacentDir returns the direction from c to other when the two
// squares are orthogonally adjacent.
func (c Coord) AdjacentDir(other Coord) (Direction, bool) {
	for _, dir := range Directions {
		if c.Offset(dir) == other {
			return dir, true
		}
	}
	return Up, false
}

// String renders the coordinate in file-rank form, e.g. "a1".
func (c Coord) String() string {
	return fmt.Sprintf("%c%d", 'a'+rune(c.X), c.Y+1)
}
