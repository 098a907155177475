package search

import (
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/Christian-Schefe/tak-sub000/bitboard"
)

func TestSearchFindsRoadInOne(t *testing.T) {
	is := is.New(t)
	b := parse(t, "1,1,x/x3/x3 1 10", bitboard.Settings{})
	engine := NewEngine(NewTable(16))

	score, move, ok := engine.Search(b, 2)
	is.True(ok)
	is.True(score >= DecisiveScore)
	is.Equal(move, bitboard.PlaceMove(2, bitboard.VariantFlat))
	// The board comes back untouched.
	is.Equal(b.Position(), "1,1,x/x3/x3 1 10")
	is.Equal(b.Hash(), b.ComputeHash())
}

func TestSearchBlocksRoadThreat(t *testing.T) {
	is := is.New(t)
	b := parse(t, "1,1,x/x3/x3 2 10", bitboard.Settings{})
	engine := NewEngine(NewTable(16))

	score, move, ok := engine.Search(b, 2)
	is.True(ok)
	is.Equal(int(move.Pos), 2)
	is.True(score > -DecisiveScore)
}

func TestSearchPrefersFasterWin(t *testing.T) {
	is := is.New(t)
	// A road in one is available; a deeper search must still take it
	// rather than a slower forced win.
	b := parse(t, "1,1,x/x3/x3 1 10", bitboard.Settings{})
	engine := NewEngine(NewTable(16))

	score, move, ok := engine.Search(b, 4)
	is.True(ok)
	is.Equal(move, bitboard.PlaceMove(2, bitboard.VariantFlat))
	is.Equal(score, WinScore-int32(b.Ply())-1)
}

func TestSearchReusesTranspositions(t *testing.T) {
	is := is.New(t)
	b := parse(t, "1,2,x/x,1,x/x,2,x 1 7", bitboard.Settings{})
	tt := NewTable(16)
	engine := NewEngine(tt)

	first, firstMove, ok := engine.Search(b, 3)
	is.True(ok)
	_, hitsBefore, _, _ := tt.Stats()

	second, secondMove, ok := engine.Search(b, 3)
	is.True(ok)
	_, hitsAfter, _, _ := tt.Stats()

	is.Equal(first, second)
	is.Equal(firstMove, secondMove)
	is.True(hitsAfter > hitsBefore)
}

func TestIterativeDeepeningStopsOnForcedWin(t *testing.T) {
	is := is.New(t)
	b := parse(t, "1,1,x/x3/x3 1 10", bitboard.Settings{})
	engine := NewEngine(NewTable(16))

	score, move, depth, ok := engine.IterativeDeepening(b, 8, time.Minute)
	is.True(ok)
	is.Equal(depth, 1)
	is.True(score >= DecisiveScore)
	is.Equal(move, bitboard.PlaceMove(2, bitboard.VariantFlat))
}

func TestIterativeDeepeningReachesMaxDepth(t *testing.T) {
	is := is.New(t)
	b, err := bitboard.New(3, bitboard.Settings{}, testZobrist)
	is.NoErr(err)
	engine := NewEngine(NewTable(16))

	_, move, depth, ok := engine.IterativeDeepening(b, 3, time.Minute)
	is.True(ok)
	is.Equal(depth, 3)

	legal := false
	for _, m := range b.Moves() {
		if m == move {
			legal = true
		}
	}
	is.True(legal)
	is.Equal(b.Position(), "x3/x3/x3 1 1")
}

func TestIterativeDeepeningHonorsDeadline(t *testing.T) {
	is := is.New(t)
	b, err := bitboard.New(5, bitboard.Settings{}, testZobrist)
	is.NoErr(err)
	engine := NewEngine(NewTable(16))

	start := time.Now()
	_, _, depth, ok := engine.IterativeDeepening(b, 30, 150*time.Millisecond)
	is.True(ok)
	is.True(depth >= 1)
	is.True(time.Since(start) < 5*time.Second)
}
