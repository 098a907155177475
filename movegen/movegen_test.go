package movegen

import (
	"testing"

	"github.com/Christian-Schefe/tak-sub000/board"
	"github.com/Christian-Schefe/tak-sub000/game"
	"github.com/matryer/is"
)

func newGame(t *testing.T, s game.Settings) *game.Game {
	t.Helper()
	g, err := game.New(s)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

func TestPartitions(t *testing.T) {
	is := is.New(t)
	gen := New()

	is.Equal(gen.Partitions(3, 2), [][]int{{1, 2}, {2, 1}})
	is.Equal(gen.Partitions(1, 1), [][]int{{1}})
	is.Equal(gen.Partitions(4, 4), [][]int{{1, 1, 1, 1}})
	is.Equal(gen.Partitions(0, 1) == nil, true)
	is.Equal(gen.Partitions(2, 3) == nil, true)

	// C(take-1, parts-1) ordered partitions, each summing to take.
	binomial := func(n, k int) int {
		r := 1
		for i := 0; i < k; i++ {
			r = r * (n - i) / (i + 1)
		}
		return r
	}
	for take := 1; take <= 8; take++ {
		for parts := 1; parts <= take; parts++ {
			ps := gen.Partitions(take, parts)
			is.Equal(len(ps), binomial(take-1, parts-1))
			for _, p := range ps {
				sum := 0
				for _, d := range p {
					is.True(d >= 1)
					sum += d
				}
				is.Equal(sum, take)
			}
		}
	}
}

func TestOpeningMovesAreFlatPlacements(t *testing.T) {
	is := is.New(t)
	gen := New()
	g := newGame(t, game.Settings{Size: 3})

	moves := gen.Moves(g)
	is.Equal(len(moves), 9)
	for _, a := range moves {
		is.Equal(a.Type, game.PlaceAction)
		is.Equal(a.Variant, board.Flat)
	}

	is.NoErr(g.Do(moves[0]))
	is.Equal(len(gen.Moves(g)), 8)
}

func TestAllGeneratedMovesAreLegalAndUnique(t *testing.T) {
	is := is.New(t)
	gen := New()
	g := newGame(t, game.Settings{Size: 5, Position: "x5/x,21,2S,x2/x,12C,1,x2/x5/x5 1 7"})

	moves := gen.Moves(g)
	seen := map[string]bool{}
	for _, a := range moves {
		is.True(!seen[a.String()])
		seen[a.String()] = true
		is.NoErr(g.Do(a))
		is.NoErr(g.Undo())
	}
}

func TestCarryLimit(t *testing.T) {
	is := is.New(t)
	gen := New()
	g := newGame(t, game.Settings{Size: 3, Position: "1111,x2/x3/x3 1 5"})

	for _, a := range gen.Moves(g) {
		if a.Type == game.SpreadAction {
			is.True(a.Take <= 3)
		}
	}
}

func TestCapstoneMayEndOnWall(t *testing.T) {
	is := is.New(t)
	gen := New()
	g := newGame(t, game.Settings{Size: 5, Position: "x5/x5/x5/2S,x4/1C,x4 1 3"})

	var ontoWall []game.Action
	for _, a := range gen.Moves(g) {
		if a.Type == game.SpreadAction && a.Pos == (board.Coord{X: 0, Y: 0}) && a.Dir == board.Up {
			ontoWall = append(ontoWall, a)
		}
	}
	is.Equal(len(ontoWall), 1)
	is.Equal(ontoWall[0].Drops[len(ontoWall[0].Drops)-1], 1)
}

func TestDecidedGameHasNoMoves(t *testing.T) {
	is := is.New(t)
	gen := New()
	g := newGame(t, game.Settings{Size: 3, Position: "x3/1,1,1/x3 2 2"})
	is.Equal(g.Result(), game.WhiteWins)
	is.Equal(len(gen.Moves(g)), 0)
}

func TestNoStonePlacementsWithEmptyStonePool(t *testing.T) {
	is := is.New(t)
	gen := New()
	reserves := game.Reserves{Stones: 2, Capstones: 1}
	g := newGame(t, game.Settings{Reserves: &reserves, Position: "2,x,1/x3/1,x2 1 2"})

	// White's stones are all on the board; placements can only spend
	// the remaining capstone.
	moves := gen.Moves(g)
	is.True(len(moves) > 0)
	for _, a := range moves {
		if a.Type == game.PlaceAction {
			is.Equal(a.Variant, board.Capstone)
		}
	}
}

var perftOracle = []uint64{1, 9, 72, 1200, 17792, 271812, 3712952}

func TestPerftOracle(t *testing.T) {
	is := is.New(t)
	gen := New()
	g := newGame(t, game.Settings{Size: 3})

	maxDepth := 5
	if !testing.Short() {
		maxDepth = 6
	}
	for depth := 0; depth <= maxDepth; depth++ {
		is.Equal(gen.Perft(g, depth), perftOracle[depth])
	}
	// Perft leaves the game untouched.
	is.Equal(g.Position(), "x3/x3/x3 1 1")
	is.NoErr(g.Validate())
}
