// Package movegen enumerates every legal action in a position. It is
// the reference generator: exhaustive, allocation-friendly rather than
// fast, and the oracle the bit-packed engine is checked against.
package movegen

import (
	"github.com/Christian-Schefe/tak-sub000/board"
	"github.com/Christian-Schefe/tak-sub000/game"
)

const maxTake = 8

// Generator produces legal actions. It owns the memoized ordered
// partition tables, so one Generator is reusable across games and
// boards of any size.
type Generator struct {
	// partitions[take][parts] lists every ordered way to split take
	// into exactly parts positive drops.
	partitions [maxTake + 1][maxTake + 1][][]int
}

func New() *Generator {
	g := &Generator{}
	for take := 1; take <= maxTake; take++ {
		for parts := 1; parts <= take; parts++ {
			g.partitions[take][parts] = buildPartitions(take, parts)
		}
	}
	return g
}

func buildPartitions(take, parts int) [][]int {
	if parts == 1 {
		return [][]int{{take}}
	}
	var out [][]int
	for first := 1; first <= take-parts+1; first++ {
		for _, rest := range buildPartitions(take-first, parts-1) {
			p := make([]int, 0, parts)
			p = append(p, first)
			p = append(p, rest...)
			out = append(out, p)
		}
	}
	return out
}

// Partitions returns the ordered partitions of take into exactly parts
// positive integers. The returned slices are shared; callers must not
// mutate them.
func (g *Generator) Partitions(take, parts int) [][]int {
	if take < 1 || take > maxTake || parts < 1 || parts > take {
		return nil
	}
	return g.partitions[take][parts]
}

// Moves returns every legal action for the player to move. Decided
// games have no legal actions.
func (g *Generator) Moves(gm *game.Game) []game.Action {
	if gm.Result() != game.Ongoing {
		return nil
	}
	b := gm.Board()
	var out []game.Action

	if gm.Ply() < 2 {
		// The swap restricts the opening to flat placements.
		for _, pos := range b.EmptyCoords() {
			out = append(out, game.Place(pos, board.Flat))
		}
		return out
	}

	hand := gm.Hand(gm.CurrentPlayer())
	empty := b.EmptyCoords()
	if hand.Stones > 0 {
		for _, pos := range empty {
			out = append(out, game.Place(pos, board.Flat))
		}
		for _, pos := range empty {
			out = append(out, game.Place(pos, board.Wall))
		}
	}
	if hand.Capstones > 0 {
		for _, pos := range empty {
			out = append(out, game.Place(pos, board.Capstone))
		}
	}

	for _, placed := range b.ControlledStacks(gm.CurrentPlayer()) {
		out = g.appendSpreads(out, b, placed)
	}
	return out
}

func (g *Generator) appendSpreads(out []game.Action, b *board.Board, placed board.PlacedStack) []game.Action {
	limit := placed.Stack.Height()
	if limit > b.Size() {
		limit = b.Size()
	}
	for take := 1; take <= limit; take++ {
		for _, dir := range board.Directions {
			cur := placed.Pos
			for length := 1; length <= take; length++ {
				cur = cur.Offset(dir)
				if !cur.Valid(b.Size()) {
					break
				}
				dest := b.StackAt(cur)
				if dest == nil || dest.Variant == board.Flat {
					for _, drops := range g.partitions[take][length] {
						out = append(out, game.Spread(placed.Pos, dir, take, drops))
					}
					continue
				}
				// A wall as the last square is reachable only by a lone
				// capstone; anything else ends the direction here.
				if dest.Variant == board.Wall && placed.Stack.Variant == board.Capstone {
					for _, drops := range g.partitions[take][length] {
						if drops[length-1] == 1 {
							out = append(out, game.Spread(placed.Pos, dir, take, drops))
						}
					}
				}
				break
			}
		}
	}
	return out
}

// Perft counts the leaf nodes of the legal-move tree at the given
// depth, mutating and restoring gm in place.
func (g *Generator) Perft(gm *game.Game, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := g.Moves(gm)
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, a := range moves {
		if err := gm.Do(a); err != nil {
			panic("generated action rejected: " + a.String() + ": " + err.Error())
		}
		nodes += g.Perft(gm, depth-1)
		if err := gm.Undo(); err != nil {
			panic("perft unwind failed: " + err.Error())
		}
	}
	return nodes
}
