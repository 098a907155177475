package search

import (
	"math/bits"

	"github.com/Christian-Schefe/tak-sub000/bitboard"
)

// Score bounds. Wins decay with the ply they occur on so the search
// prefers the shortest path to a win and the longest to a loss.
const (
	Infinity      int32 = 100_000_000
	WinScore      int32 = 1_000_000
	DecisiveScore int32 = 900_000
)

// Evaluation weights. These are tuning policy, not rules.
const (
	flatWeight      int32 = 100
	centerWeight    int32 = 3
	adjacencyWeight int32 = 10
)

// Evaluate scores the position from White's point of view. Decided
// games score a ply-decayed win; otherwise the score is the
// komi-adjusted flat differential plus a bonus per flat for closeness
// to the center and for orthogonally adjacent same-owner flats.
func Evaluate(b *bitboard.Board) int32 {
	switch b.Result() {
	case bitboard.WhiteWins:
		return WinScore - int32(b.Ply())
	case bitboard.BlackWins:
		return -WinScore + int32(b.Ply())
	case bitboard.Draw:
		return 0
	}

	flats := b.Occupied() &^ b.WallsMask() &^ b.CapsMask()
	white := flats &^ b.OwnerMask()
	black := flats & b.OwnerMask()

	score := (int32(bits.OnesCount64(white)) - int32(bits.OnesCount64(black)) - int32(b.Komi())) * flatWeight

	size := b.Size()
	for m := white; m != 0; m &= m - 1 {
		score += centerBonus(bits.TrailingZeros64(m), size)
	}
	for m := black; m != 0; m &= m - 1 {
		score -= centerBonus(bits.TrailingZeros64(m), size)
	}

	score += adjacencyWeight * int32(adjacentPairs(white, size)-adjacentPairs(black, size))
	return score
}

// evaluateForMover flips Evaluate into the side-to-move perspective
// negamax needs.
func evaluateForMover(b *bitboard.Board) int32 {
	score := Evaluate(b)
	if b.CurrentPlayer() == bitboard.Black {
		return -score
	}
	return score
}

// centerBonus grows linearly toward the board center. Distances are
// doubled to stay integral on even sizes.
func centerBonus(pos, size int) int32 {
	x := pos % size
	y := pos / size
	dx := abs32(int32(2*x) - int32(size-1))
	dy := abs32(int32(2*y) - int32(size-1))
	return centerWeight * (int32(2*(size-1)) - dx - dy)
}

// adjacentPairs counts orthogonally adjacent pairs within a mask.
func adjacentPairs(m uint64, size int) int {
	var lastCol uint64
	for r := 0; r < size; r++ {
		lastCol |= 1 << (r*size + size - 1)
	}
	horizontal := m & (m >> 1) &^ lastCol
	vertical := m & (m >> uint(size))
	return bits.OnesCount64(horizontal) + bits.OnesCount64(vertical)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
