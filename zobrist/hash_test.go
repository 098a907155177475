package zobrist

import (
	"testing"

	"github.com/matryer/is"
)

func TestTableIsDeterministic(t *testing.T) {
	is := is.New(t)
	a := NewTable()
	b := NewTable()
	is.Equal(a.Layers, b.Layers)
	is.Equal(a.Variants, b.Variants)
	is.Equal(a.SideToMove, b.SideToMove)
}

func TestConstantsAreNonZeroAndDistinct(t *testing.T) {
	is := is.New(t)
	tbl := NewTable()
	seen := make(map[uint64]bool)
	count := 0
	check := func(v uint64) {
		is.True(v != 0)
		is.True(!seen[v])
		seen[v] = true
		count++
	}
	for sq := 0; sq < MaxSquares; sq++ {
		for layer := 0; layer < MaxLayers; layer++ {
			check(tbl.Layers[sq][layer][0])
			check(tbl.Layers[sq][layer][1])
		}
		check(tbl.Variants[sq][WallIndex])
		check(tbl.Variants[sq][CapstoneIndex])
	}
	check(tbl.SideToMove[0])
	check(tbl.SideToMove[1])
	is.Equal(count, MaxSquares*MaxLayers*2+MaxSquares*2+2)
}
