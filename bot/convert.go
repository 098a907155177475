// Package bot wraps the search engine behind a single-goroutine worker
// speaking the canonical game types. Positions cross the boundary as
// position strings and moves as canonical actions; everything bitboard
// stays internal to the worker.
package bot

import (
	"github.com/Christian-Schefe/tak-sub000/bitboard"
	"github.com/Christian-Schefe/tak-sub000/board"
	"github.com/Christian-Schefe/tak-sub000/game"
)

// The two representations disagree on orientation: the engine numbers
// squares from the top-left rank down, the canonical board from the
// bottom-left up. Columns line up; rows mirror.

func coordToPos(c board.Coord, size int) int {
	return (size-1-c.Y)*size + c.X
}

func posToCoord(pos uint8, size int) board.Coord {
	return board.Coord{X: int(pos) % size, Y: size - 1 - int(pos)/size}
}

func dirToEngine(d board.Direction) bitboard.Dir {
	switch d {
	case board.Up:
		return bitboard.Up
	case board.Down:
		return bitboard.Down
	case board.Left:
		return bitboard.Left
	}
	return bitboard.Right
}

func dirFromEngine(d bitboard.Dir) board.Direction {
	switch d {
	case bitboard.Up:
		return board.Up
	case bitboard.Down:
		return board.Down
	case bitboard.Left:
		return board.Left
	}
	return board.Right
}

func variantToEngine(v board.PieceVariant) uint8 {
	switch v {
	case board.Wall:
		return bitboard.VariantWall
	case board.Capstone:
		return bitboard.VariantCapstone
	}
	return bitboard.VariantFlat
}

func variantFromEngine(v uint8) board.PieceVariant {
	switch v {
	case bitboard.VariantWall:
		return board.Wall
	case bitboard.VariantCapstone:
		return board.Capstone
	}
	return board.Flat
}

// ToEngineMove translates a canonical action into the engine's move
// encoding.
func ToEngineMove(a game.Action, size int) bitboard.Move {
	if a.Type == game.PlaceAction {
		return bitboard.PlaceMove(coordToPos(a.Pos, size), variantToEngine(a.Variant))
	}
	return bitboard.SpreadMove(coordToPos(a.Pos, size), dirToEngine(a.Dir), a.Take, bitboard.EncodeDrops(a.Drops))
}

// FromEngineMove translates an engine move back into a canonical
// action.
func FromEngineMove(m bitboard.Move, size int) game.Action {
	if !m.Spread {
		return game.Place(posToCoord(m.Pos, size), variantFromEngine(m.Variant))
	}
	return game.Spread(posToCoord(m.Pos, size), dirFromEngine(m.Dir), int(m.Take), bitboard.DecodeDrops(m.Drops))
}
