package bot

import (
	"testing"

	"github.com/matryer/is"

	"github.com/Christian-Schefe/tak-sub000/bitboard"
	"github.com/Christian-Schefe/tak-sub000/board"
	"github.com/Christian-Schefe/tak-sub000/game"
)

func TestCoordTranslation(t *testing.T) {
	is := is.New(t)
	// a1 is the bottom-left square; the engine numbers from the top.
	is.Equal(coordToPos(board.Coord{X: 0, Y: 0}, 5), 20)
	is.Equal(coordToPos(board.Coord{X: 4, Y: 4}, 5), 4)
	is.Equal(coordToPos(board.Coord{X: 2, Y: 3}, 5), 7)

	for size := 3; size <= 8; size++ {
		for pos := 0; pos < size*size; pos++ {
			is.Equal(coordToPos(posToCoord(uint8(pos), size), size), pos)
		}
	}
}

func TestDirectionTranslation(t *testing.T) {
	is := is.New(t)
	for _, d := range board.Directions {
		is.Equal(dirFromEngine(dirToEngine(d)), d)
	}
	is.Equal(dirToEngine(board.Up), bitboard.Up)
	is.Equal(dirToEngine(board.Right), bitboard.Right)
}

func TestMoveTranslationRoundTrip(t *testing.T) {
	is := is.New(t)
	actions := []string{"a1", "Sc2", "Cd4", "a1>", "3c3+", "3c3-111", "5d4<23"}
	for _, notation := range actions {
		a, err := game.ParseAction(notation)
		is.NoErr(err)
		back := FromEngineMove(ToEngineMove(a, 5), 5)
		is.True(back.Equal(a))
		is.Equal(back.String(), notation)
	}
}
