package bitboard

import (
	"testing"

	"github.com/matryer/is"
)

func spreads(moves []Move) []Move {
	var out []Move
	for _, m := range moves {
		if m.Spread {
			out = append(out, m)
		}
	}
	return out
}

func TestEncodeDecodeDrops(t *testing.T) {
	is := is.New(t)
	cases := [][]int{{1}, {3}, {1, 2}, {2, 1}, {1, 1, 1}, {3, 1, 2, 1}, {1, 1, 1, 1, 1, 1, 1}}
	for _, drops := range cases {
		packed := EncodeDrops(drops)
		is.Equal(DecodeDrops(packed), drops)
		is.Equal(DropsLen(packed), len(drops))
	}
	is.Equal(EncodeDrops([]int{1, 2}), uint32(0x21))
	is.Equal(EncodeDrops([]int{2, 1}), uint32(0x12))
}

func TestSpreadPartitionTables(t *testing.T) {
	is := is.New(t)
	// 2^(take-1) patterns per take, sorted so lengths never decrease.
	for take := 1; take <= 8; take++ {
		ps := spreadPartitions[take]
		is.Equal(len(ps), 1<<(take-1))
		lastLen := 0
		for _, p := range ps {
			sum := 0
			for _, d := range DecodeDrops(p) {
				sum += d
			}
			is.Equal(sum, take)
			is.True(DropsLen(p) >= lastLen)
			lastLen = DropsLen(p)
		}
	}
	is.Equal(spreadPartitions[3], []uint32{0x3, 0x12, 0x21, 0x111})
}

func TestOpeningMoves(t *testing.T) {
	is := is.New(t)
	b, err := New(3, Settings{}, testTable)
	is.NoErr(err)

	moves := b.Moves()
	is.Equal(len(moves), 9)
	for _, m := range moves {
		is.Equal(m.Spread, false)
		is.Equal(m.Variant, VariantFlat)
	}

	b.Make(moves[0])
	is.Equal(len(b.Moves()), 8)
}

func TestGenSpreadMoves(t *testing.T) {
	is := is.New(t)
	b := parse(t, "112,x2/x3/x3 2 10")
	moves := spreads(b.Moves())
	is.Equal(len(moves), 12)
	for _, m := range moves {
		snapshot := b.Clone()
		smashed := b.Make(m)
		is.Equal(b.Hash(), b.ComputeHash())
		b.Unmake(m, smashed)
		is.True(b.Equal(snapshot))
	}
}

func TestGenSpreadMovesSmash(t *testing.T) {
	is := is.New(t)
	b := parse(t, "112C,11S,x3/x5/1C,x4/x5/x5 2 10")
	moves := spreads(b.Moves())
	is.Equal(len(moves), 4)
	for _, m := range moves {
		snapshot := b.Clone()
		smashed := b.Make(m)
		b.Unmake(m, smashed)
		is.True(b.Equal(snapshot))
	}
}

func TestGenSpreadMovesTallStacks(t *testing.T) {
	is := is.New(t)
	b := parse(t, "11222122C,x,11S,x2/x5/1C,x4/x5/x5 2 10")
	moves := spreads(b.Moves())
	is.Equal(len(moves), 14)
	for _, m := range moves {
		snapshot := b.Clone()
		smashed := b.Make(m)
		b.Unmake(m, smashed)
		is.True(b.Equal(snapshot))
	}
}

func TestMoveOrderingBuckets(t *testing.T) {
	is := is.New(t)
	// b2 placement touches occupied squares; the far corner placement
	// is isolated and sorts behind the captures.
	b := parse(t, "x5/x,21,2S,x2/x,12,1,x2/x5/x5 1 7")
	moves := b.Moves()
	is.True(len(moves) > 0)

	// Flat placements with neighbors come first.
	is.Equal(moves[0].Spread, false)
	is.Equal(moves[0].Variant, VariantFlat)

	// Isolated placements sort behind every capture.
	firstIsolated := -1
	lastCapture := -1
	for i, m := range moves {
		if !m.Spread && firstIsolated == -1 && isolated(b, m) {
			firstIsolated = i
		}
		if m.Spread && captures(b, m) {
			lastCapture = i
		}
	}
	is.True(firstIsolated > lastCapture)
}

func isolated(b *Board, m Move) bool {
	for _, next := range b.neighbors(int(m.Pos)) {
		if next >= 0 && b.occupied&(uint64(1)<<next) != 0 {
			return false
		}
	}
	return true
}

func captures(b *Board, m Move) bool {
	mask := uint64(1) << m.Pos
	cur := int(m.Pos)
	for range DecodeDrops(m.Drops) {
		cur = b.step(cur, m.Dir)
		curMask := uint64(1) << cur
		if b.occupied&curMask != 0 && (b.owner&curMask == 0) != (b.owner&mask == 0) {
			return true
		}
	}
	return false
}

var perftOracle = []uint64{1, 9, 72, 1200, 17792, 271812, 3712952}

func TestPerftOracle(t *testing.T) {
	is := is.New(t)
	b, err := New(3, Settings{}, testTable)
	is.NoErr(err)

	maxDepth := 5
	if !testing.Short() {
		maxDepth = 6
	}
	for depth := 0; depth <= maxDepth; depth++ {
		is.Equal(b.Perft(depth), perftOracle[depth])
	}
	is.Equal(b.Position(), "x3/x3/x3 1 1")
	is.Equal(b.Hash(), b.ComputeHash())
}

func TestMakeUnmakeKeepsHashIncremental(t *testing.T) {
	is := is.New(t)
	b, err := New(4, Settings{}, testTable)
	is.NoErr(err)

	// Walk a deterministic line, checking the incremental hash against
	// a full recompute at every node.
	var line []Move
	var smashes []bool
	for i := 0; i < 24 && b.Result() == Ongoing; i++ {
		moves := b.Moves()
		if len(moves) == 0 {
			break
		}
		m := moves[(i*7)%len(moves)]
		smashes = append(smashes, b.Make(m))
		line = append(line, m)
		is.Equal(b.Hash(), b.ComputeHash())
	}
	for i := len(line) - 1; i >= 0; i-- {
		b.Unmake(line[i], smashes[i])
		is.Equal(b.Hash(), b.ComputeHash())
	}
	fresh, _ := New(4, Settings{}, testTable)
	is.True(b.Equal(fresh))
}
