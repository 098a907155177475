package search

import (
	"testing"

	"github.com/matryer/is"

	"github.com/Christian-Schefe/tak-sub000/bitboard"
)

func TestTableStoreAndLookup(t *testing.T) {
	is := is.New(t)
	tt := NewTable(4)

	_, found := tt.Lookup(42)
	is.Equal(found, false)

	entry := TableEntry{
		Hash:  42,
		Score: 150,
		Move:  bitboard.PlaceMove(3, bitboard.VariantFlat),
		Depth: 4,
		Ply:   10,
		Type:  ExactNode,
	}
	tt.Store(entry)

	got, found := tt.Lookup(42)
	is.True(found)
	is.Equal(got, entry)

	// A different hash landing on the same slot is not a hit.
	_, found = tt.Lookup(42 + 16)
	is.Equal(found, false)
}

func TestTableReplacementPolicy(t *testing.T) {
	is := is.New(t)
	tt := NewTable(4)

	resident := TableEntry{Hash: 7, Score: 10, Depth: 5, Ply: 20, Type: ExactNode}
	tt.Store(resident)

	// A shallower search from the same ply does not evict.
	tt.Store(TableEntry{Hash: 7 + 16, Score: 99, Depth: 3, Ply: 20, Type: ExactNode})
	got, found := tt.Lookup(7)
	is.True(found)
	is.Equal(got, resident)

	// A deeper search does.
	deeper := TableEntry{Hash: 7 + 16, Score: 99, Depth: 6, Ply: 20, Type: ExactNode}
	tt.Store(deeper)
	got, found = tt.Lookup(7 + 16)
	is.True(found)
	is.Equal(got, deeper)

	// So does any entry from a later game ply.
	later := TableEntry{Hash: 7, Score: -4, Depth: 1, Ply: 21, Type: UpperNode}
	tt.Store(later)
	got, found = tt.Lookup(7)
	is.True(found)
	is.Equal(got, later)
}

func TestTableClear(t *testing.T) {
	is := is.New(t)
	tt := NewTable(4)
	tt.Store(TableEntry{Hash: 9, Depth: 2, Type: ExactNode})
	tt.Clear()

	_, found := tt.Lookup(9)
	is.Equal(found, false)
	lookups, hits, stores, kept := tt.Stats()
	is.Equal(lookups, uint64(1))
	is.Equal(hits, uint64(0))
	is.Equal(stores, uint64(0))
	is.Equal(kept, uint64(0))
}
