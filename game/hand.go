package game

import (
	"errors"
	"fmt"

	"github.com/Christian-Schefe/tak-sub000/board"
)

// ErrReserveEmpty is returned when a placement asks for a piece the
// owner's hand no longer holds.
var ErrReserveEmpty = errors.New("no piece of that kind left in hand")

// Reserves is the per-player starting inventory.
type Reserves struct {
	Stones    int
	Capstones int
}

// DefaultReserves returns the standard inventory for a board size.
func DefaultReserves(size int) (Reserves, error) {
	switch size {
	case 3:
		return Reserves{Stones: 10}, nil
	case 4:
		return Reserves{Stones: 15}, nil
	case 5:
		return Reserves{Stones: 21, Capstones: 1}, nil
	case 6:
		return Reserves{Stones: 30, Capstones: 1}, nil
	case 7:
		return Reserves{Stones: 40, Capstones: 2}, nil
	case 8:
		return Reserves{Stones: 50, Capstones: 2}, nil
	}
	return Reserves{}, fmt.Errorf("no standard reserves for board size %d", size)
}

// Hand is one player's remaining inventory. Flats and walls draw from
// the same stone pool.
type Hand struct {
	Stones    int
	Capstones int
}

// CanTake reports whether the hand holds a piece of the given variant.
func (h *Hand) CanTake(variant board.PieceVariant) error {
	if variant == board.Capstone {
		if h.Capstones < 1 {
			return ErrReserveEmpty
		}
		return nil
	}
	if h.Stones < 1 {
		return ErrReserveEmpty
	}
	return nil
}

// Take removes one piece of the given variant from the hand.
func (h *Hand) Take(variant board.PieceVariant) error {
	if err := h.CanTake(variant); err != nil {
		return err
	}
	if variant == board.Capstone {
		h.Capstones--
	} else {
		h.Stones--
	}
	return nil
}

// Untake returns a piece to the hand, reversing Take.
func (h *Hand) Untake(variant board.PieceVariant) {
	if variant == board.Capstone {
		h.Capstones++
	} else {
		h.Stones++
	}
}

// Empty reports whether the hand is fully exhausted. An empty hand
// triggers flat resolution at the end of the move that emptied it.
func (h *Hand) Empty() bool {
	return h.Stones == 0 && h.Capstones == 0
}

// Komi is a flat-count adjustment in Black's favor. Amount is added to
// Black's flats at resolution; Tiebreak awards exact ties to Black
// instead of drawing.
type Komi struct {
	Amount   int
	Tiebreak bool
}
