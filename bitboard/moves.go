package bitboard

import (
	"fmt"
	"math/bits"
	"sort"
)

// Move is one action in bitboard coordinates. Placements use Variant;
// spreads use Dir, Take and the packed Drops pattern.
type Move struct {
	Pos     uint8
	Spread  bool
	Variant uint8
	Dir     Dir
	Take    uint8
	Drops   uint32
}

func PlaceMove(pos int, variant uint8) Move {
	return Move{Pos: uint8(pos), Variant: variant}
}

func SpreadMove(pos int, dir Dir, take int, drops uint32) Move {
	return Move{Pos: uint8(pos), Spread: true, Dir: dir, Take: uint8(take), Drops: drops}
}

func (m Move) String() string {
	if !m.Spread {
		return fmt.Sprintf("place(%d,%d)", m.Pos, m.Variant)
	}
	return fmt.Sprintf("spread(%d,%d,%d,%#x)", m.Pos, m.Dir, m.Take, m.Drops)
}

// EncodeDrops packs a drop pattern into 4-bit nibbles, first drop in
// the low nibble. Patterns are at most 7 drops of at most 8 pieces.
func EncodeDrops(drops []int) uint32 {
	var packed uint32
	for i, d := range drops {
		packed |= uint32(d) << (i * 4)
	}
	return packed
}

// DecodeDrops unpacks a drop pattern.
func DecodeDrops(packed uint32) []int {
	var drops []int
	for packed > 0 {
		drops = append(drops, int(packed&0xF))
		packed >>= 4
	}
	return drops
}

// DropsLen is the number of squares a packed pattern covers.
func DropsLen(packed uint32) int {
	return (bits.Len32(packed) + 3) / 4
}

// spreadPartitions[take] lists every packed drop pattern summing to
// take, sorted numerically; sorting groups the patterns by length, and
// the generator leans on that to advance along a ray exactly once per
// length.
var spreadPartitions = buildSpreadPartitions()

func buildSpreadPartitions() [9][]uint32 {
	var table [9][]uint32
	for take := 1; take <= 8; take++ {
		var encoded []uint32
		for parts := 1; parts <= take; parts++ {
			for _, p := range orderedPartitions(take, parts) {
				encoded = append(encoded, EncodeDrops(p))
			}
		}
		sort.Slice(encoded, func(i, j int) bool { return encoded[i] < encoded[j] })
		table[take] = encoded
	}
	return table
}

func orderedPartitions(num, parts int) [][]int {
	if parts == 1 {
		return [][]int{{num}}
	}
	var out [][]int
	for first := 1; first <= num-parts+1; first++ {
		for _, rest := range orderedPartitions(num-first, parts-1) {
			out = append(out, append([]int{first}, rest...))
		}
	}
	return out
}

// Make applies a generated move and reports whether it smashed a wall;
// the flag must be passed back to Unmake. Moves are trusted, not
// re-validated.
func (b *Board) Make(m Move) bool {
	if !m.Spread {
		b.place(int(m.Pos), m.Variant)
		return false
	}
	return b.spread(int(m.Pos), m.Dir, int(m.Take), m.Drops)
}

// Unmake reverses a move made by Make.
func (b *Board) Unmake(m Move, smashed bool) {
	if !m.Spread {
		b.unplace(int(m.Pos), m.Variant)
		return
	}
	b.unspread(int(m.Pos), m.Dir, m.Drops, smashed)
}

// Moves generates every legal move, ordered for the alpha-beta search:
// flat placements, capstone placements, wall placements, then spreads
// that capture (by the moving stack's top kind), then placements with
// no occupied neighbor, then quiet spreads. Decided games generate
// nothing.
func (b *Board) Moves() []Move {
	if b.result != Ongoing {
		return nil
	}

	var flatPlaces, wallPlaces, capstonePlaces, isolatedPlaces []Move
	var flatCaptures, wallCaptures, capstoneCaptures, quietSpreads []Move

	owner := b.current
	if b.ply < 2 {
		owner = 1 - owner
	}
	hasStone := b.stones[owner] > 0
	hasCapstone := b.capstones[owner] > 0

	squares := b.size * b.size
	for pos := 0; pos < squares; pos++ {
		mask := uint64(1) << pos
		if b.occupied&mask != 0 {
			continue
		}
		hasNeighbor := false
		for _, next := range b.neighbors(pos) {
			if next >= 0 && b.occupied&(uint64(1)<<next) != 0 {
				hasNeighbor = true
				break
			}
		}
		if hasStone {
			if hasNeighbor {
				flatPlaces = append(flatPlaces, PlaceMove(pos, VariantFlat))
			} else {
				isolatedPlaces = append(isolatedPlaces, PlaceMove(pos, VariantFlat))
			}
		}
		if hasStone && b.ply >= 2 {
			if hasNeighbor {
				wallPlaces = append(wallPlaces, PlaceMove(pos, VariantWall))
			} else {
				isolatedPlaces = append(isolatedPlaces, PlaceMove(pos, VariantWall))
			}
		}
		if hasCapstone && b.ply >= 2 {
			if hasNeighbor {
				capstonePlaces = append(capstonePlaces, PlaceMove(pos, VariantCapstone))
			} else {
				isolatedPlaces = append(isolatedPlaces, PlaceMove(pos, VariantCapstone))
			}
		}
	}

	if b.ply >= 2 {
		mine := (b.current == Black)
		for pos := 0; pos < squares; pos++ {
			mask := uint64(1) << pos
			if b.occupied&mask == 0 || (b.owner&mask != 0) != mine {
				continue
			}
			maxTake := b.heights[pos]
			if maxTake > b.size {
				maxTake = b.size
			}
			isWall := b.walls&mask != 0
			isCapstone := b.caps&mask != 0

			for dir := Right; dir <= Up; dir++ {
				maxLen := b.runLength(pos, dir)
				if maxLen == 0 {
					continue
				}
				capture := false
				for take := 1; take <= maxTake; take++ {
					cur := pos
					curLen := 0
					for _, drops := range spreadPartitions[take] {
						length := DropsLen(drops)
						if length > maxLen {
							break
						}
						if curLen < length {
							curLen = length
							cur = b.step(cur, dir)
						}
						curMask := uint64(1) << cur
						if b.occupied&curMask != 0 {
							if b.caps&curMask != 0 {
								break
							}
							if b.walls&curMask != 0 {
								if b.caps&mask == 0 || drops>>((length-1)*4)&0xF != 1 {
									break
								}
							}
							if (b.owner&curMask == 0) != (b.owner&mask == 0) {
								capture = true
							}
						}
						m := SpreadMove(pos, dir, take, drops)
						switch {
						case !capture:
							quietSpreads = append(quietSpreads, m)
						case isWall:
							wallCaptures = append(wallCaptures, m)
						case isCapstone:
							capstoneCaptures = append(capstoneCaptures, m)
						default:
							flatCaptures = append(flatCaptures, m)
						}
					}
				}
			}
		}
	}

	out := make([]Move, 0,
		len(flatPlaces)+len(capstonePlaces)+len(wallPlaces)+
			len(capstoneCaptures)+len(wallCaptures)+len(flatCaptures)+
			len(isolatedPlaces)+len(quietSpreads))
	out = append(out, flatPlaces...)
	out = append(out, capstonePlaces...)
	out = append(out, wallPlaces...)
	out = append(out, capstoneCaptures...)
	out = append(out, wallCaptures...)
	out = append(out, flatCaptures...)
	out = append(out, isolatedPlaces...)
	out = append(out, quietSpreads...)
	return out
}

// Perft counts the leaf nodes of the move tree, mutating and restoring
// the board in place.
func (b *Board) Perft(depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.Moves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		smashed := b.Make(m)
		nodes += b.Perft(depth - 1)
		b.Unmake(m, smashed)
	}
	return nodes
}
