// Package zobrist holds the random constant table for incremental
// position hashing. https://en.wikipedia.org/wiki/Zobrist_hashing
//
// The table is owned explicitly by whoever hashes; nothing in this
// package is a process-global. Construction is deterministic, so two
// tables built anywhere hash identically and transposition entries can
// outlive a single search.
package zobrist

import "lukechampine.com/frand"

const bignum = 1<<63 - 2

const (
	// MaxSquares bounds the board at 8x8.
	MaxSquares = 64
	// MaxLayers bounds stack heights; no reserve set can exceed it.
	MaxLayers = 64
)

// Variant indices into Table.Variants. Flat tops carry no variant
// constant; a square's layers already encode a flat stack fully.
const (
	WallIndex = iota
	CapstoneIndex
)

// Table is the full constant set: one constant per (square, stack
// layer, owner), one per (square, wall/capstone top), and one per side
// to move.
type Table struct {
	Layers     [MaxSquares][MaxLayers][2]uint64
	Variants   [MaxSquares][2]uint64
	SideToMove [2]uint64
}

// NewTable builds the constants from a fixed seed.
func NewTable() *Table {
	var seed [32]byte
	copy(seed[:], "tak position hashing")
	rng := frand.NewCustom(seed[:], 1024, 12)

	t := &Table{}
	for sq := 0; sq < MaxSquares; sq++ {
		for layer := 0; layer < MaxLayers; layer++ {
			for owner := 0; owner < 2; owner++ {
				t.Layers[sq][layer][owner] = rng.Uint64n(bignum) + 1
			}
		}
		t.Variants[sq][WallIndex] = rng.Uint64n(bignum) + 1
		t.Variants[sq][CapstoneIndex] = rng.Uint64n(bignum) + 1
	}
	t.SideToMove[0] = rng.Uint64n(bignum) + 1
	t.SideToMove[1] = rng.Uint64n(bignum) + 1
	return t
}
