package board

import (
	"errors"
	"fmt"
)

// Rejections returned by the placement, spread and undo primitives. None
// of these mutate the board.
var (
	ErrOutOfBounds     = errors.New("square is out of bounds")
	ErrOccupied        = errors.New("square is occupied")
	ErrEmptySquare     = errors.New("square is empty")
	ErrTakeCount       = errors.New("take count outside [1, board size]")
	ErrNotEnoughPieces = errors.New("stack does not hold enough pieces")
	ErrDropPattern     = errors.New("drop counts must be positive and sum to the take count")
	ErrBlocked         = errors.New("path is blocked")
	ErrOffBoard        = errors.New("spread walks off the board")
	ErrUndoMismatch    = errors.New("board state does not match the action being undone")
)

// Piece is a single stone. Identities are assigned from a monotonically
// increasing counter owned by the board and are never reused.
type Piece struct {
	ID     int
	Player Player
}

// Stack is a non-empty pile of pieces on one square, ordered bottom to
// top. Variant describes the topmost piece only.
type Stack struct {
	Variant PieceVariant
	Pieces  []Piece
}

func (s *Stack) Height() int {
	return len(s.Pieces)
}

// Controller is the owner of the topmost piece.
func (s *Stack) Controller() Player {
	return s.Pieces[len(s.Pieces)-1].Player
}

// Board is a square grid of optional stacks. The empty-square count is
// maintained incrementally by every mutation and never recomputed by
// scanning.
type Board struct {
	size    int
	squares []*Stack
	nextID  int
	empty   int
}

// New creates an empty board. Valid sizes are 3 through 8.
func New(size int) (*Board, error) {
	if size < 3 || size > 8 {
		return nil, fmt.Errorf("board size %d outside [3, 8]", size)
	}
	return &Board{
		size:    size,
		squares: make([]*Stack, size*size),
		empty:   size * size,
	}, nil
}

func (b *Board) Size() int { return b.size }

// EmptySquares returns the incrementally maintained empty-square count.
func (b *Board) EmptySquares() int { return b.empty }

func (b *Board) HasEmptySquare() bool { return b.empty > 0 }

// NextPieceID exposes the identity counter for diagnostics and tests.
func (b *Board) NextPieceID() int { return b.nextID }

// StackAt returns the stack at pos, or nil if the square is empty or
// out of bounds.
func (b *Board) StackAt(pos Coord) *Stack {
	if !pos.Valid(b.size) {
		return nil
	}
	return b.squares[pos.Index(b.size)]
}

// CanPlace reports whether a new piece may be placed at pos.
func (b *Board) CanPlace(pos Coord) error {
	if !pos.Valid(b.size) {
		return ErrOutOfBounds
	}
	if b.squares[pos.Index(b.size)] != nil {
		return ErrOccupied
	}
	return nil
}

// Place creates a fresh single-piece stack at pos. The new piece takes
// the next identity from the board's counter.
func (b *Board) Place(pos Coord, variant PieceVariant, player Player) error {
	if err := b.CanPlace(pos); err != nil {
		return err
	}
	b.placeUnchecked(pos, variant, player)
	return nil
}

func (b *Board) placeUnchecked(pos Coord, variant PieceVariant, player Player) {
	b.squares[pos.Index(b.size)] = &Stack{
		Variant: variant,
		Pieces:  []Piece{{ID: b.nextID, Player: player}},
	}
	b.nextID++
	b.empty--
}

// CanUndoPlace reports whether the stack at pos is exactly the single
// piece most recently created, matching variant and player. Undoing is
// restricted to reversing the latest creation; multi-step undo belongs
// to the game's action history, not the board.
func (b *Board) CanUndoPlace(pos Coord, variant PieceVariant, player Player) error {
	if !pos.Valid(b.size) {
		return ErrOutOfBounds
	}
	stack := b.squares[pos.Index(b.size)]
	if stack == nil {
		return ErrEmptySquare
	}
	if stack.Variant != variant || stack.Height() != 1 ||
		stack.Controller() != player || stack.Pieces[0].ID+1 != b.nextID {
		return ErrUndoMismatch
	}
	return nil
}

// UndoPlace removes the most recently placed piece and returns its
// identity to the counter.
func (b *Board) UndoPlace(pos Coord, variant PieceVariant, player Player) error {
	if err := b.CanUndoPlace(pos, variant, player); err != nil {
		return err
	}
	b.squares[pos.Index(b.size)] = nil
	b.nextID--
	b.empty++
	return nil
}

// CanMove validates a spread of the top take pieces from pos in
// direction dir, dropping drops[i] pieces on the i-th square traversed.
// It reports whether the spread would flatten a wall: a capstone moving
// alone onto a wall as the final drop converts that wall to a flat.
func (b *Board) CanMove(pos Coord, dir Direction, take int, drops []int) (bool, error) {
	if take < 1 || take > b.size {
		return false, ErrTakeCount
	}
	if !pos.Valid(b.size) {
		return false, ErrOutOfBounds
	}
	stack := b.squares[pos.Index(b.size)]
	if stack == nil {
		return false, ErrEmptySquare
	}
	if stack.Height() < take {
		return false, ErrNotEnoughPieces
	}
	dropSum := 0
	cur := pos
	flattening := false
	for i, drop := range drops {
		dropSum += drop
		if drop < 1 || dropSum > take {
			return false, ErrDropPattern
		}
		cur = cur.Offset(dir)
		if !cur.Valid(b.size) {
			return false, ErrOffBoard
		}
		other := b.squares[cur.Index(b.size)]
		if other == nil {
			continue
		}
		switch other.Variant {
		case Flat:
		case Capstone:
			return false, ErrBlocked
		case Wall:
			if i != len(drops)-1 || drop != 1 || stack.Variant != Capstone {
				return false, ErrBlocked
			}
			flattening = true
		}
	}
	if dropSum != take {
		return false, ErrDropPattern
	}
	return flattening, nil
}

// Move applies a validated spread and reports whether a wall was
// flattened.
func (b *Board) Move(pos Coord, dir Direction, take int, drops []int) (bool, error) {
	flattened, err := b.CanMove(pos, dir, take, drops)
	if err != nil {
		return false, err
	}
	b.moveUnchecked(pos, dir, take, drops)
	return flattened, nil
}

func (b *Board) moveUnchecked(pos Coord, dir Direction, take int, drops []int) {
	origin := b.squares[pos.Index(b.size)]
	variant := origin.Variant

	// Detach the top take pieces, keeping bottom-to-top order.
	cut := origin.Height() - take
	moved := make([]Piece, take)
	copy(moved, origin.Pieces[cut:])
	if cut == 0 {
		b.squares[pos.Index(b.size)] = nil
		b.empty++
	} else {
		origin.Pieces = origin.Pieces[:cut]
		origin.Variant = Flat
	}

	cur := pos
	for i, drop := range drops {
		cur = cur.Offset(dir)
		slice := moved[:drop]
		moved = moved[drop:]
		newVariant := Flat
		if i == len(drops)-1 {
			newVariant = variant
		}
		idx := cur.Index(b.size)
		if dest := b.squares[idx]; dest != nil {
			dest.Pieces = append(dest.Pieces, slice...)
			dest.Variant = newVariant
		} else {
			pieces := make([]Piece, len(slice))
			copy(pieces, slice)
			b.squares[idx] = &Stack{Variant: newVariant, Pieces: pieces}
			b.empty--
		}
	}
}

// CanUndoMove re-validates the structural inverse of a spread against
// the current heights and variants before any mutation happens.
func (b *Board) CanUndoMove(pos Coord, dir Direction, take int, drops []int, flattened bool) error {
	if take < 1 || take > b.size {
		return ErrTakeCount
	}
	if !pos.Valid(b.size) {
		return ErrOutOfBounds
	}
	if origin := b.squares[pos.Index(b.size)]; origin != nil && origin.Variant != Flat {
		return ErrUndoMismatch
	}
	dropSum := 0
	cur := pos
	for i, drop := range drops {
		dropSum += drop
		if drop < 1 || dropSum > take {
			return ErrDropPattern
		}
		cur = cur.Offset(dir)
		if !cur.Valid(b.size) {
			return ErrOutOfBounds
		}
		dest := b.squares[cur.Index(b.size)]
		if dest == nil {
			return ErrUndoMismatch
		}
		if dest.Height() < drop {
			return ErrDropPattern
		}
		if i != len(drops)-1 {
			if dest.Variant != Flat {
				return ErrUndoMismatch
			}
		} else if flattened && (dest.Variant != Capstone || dest.Height() < 2) {
			return ErrUndoMismatch
		}
	}
	if dropSum != take {
		return ErrDropPattern
	}
	return nil
}

// UndoMove reverses a spread, restoring the origin stack's variant and,
// if the spread flattened a wall, restoring the wall.
func (b *Board) UndoMove(pos Coord, dir Direction, take int, drops []int, flattened bool) error {
	if err := b.CanUndoMove(pos, dir, take, drops, flattened); err != nil {
		return err
	}
	b.undoMoveUnchecked(pos, dir, drops, flattened)
	return nil
}

func (b *Board) undoMoveUnchecked(pos Coord, dir Direction, drops []int, flattened bool) {
	var moved []Piece
	originalVariant := Flat
	cur := pos
	for i, drop := range drops {
		cur = cur.Offset(dir)
		idx := cur.Index(b.size)
		dest := b.squares[idx]
		if i == len(drops)-1 {
			originalVariant = dest.Variant
		}
		cut := dest.Height() - drop
		moved = append(moved, dest.Pieces[cut:]...)
		if cut == 0 {
			b.squares[idx] = nil
			b.empty++
		} else {
			dest.Pieces = dest.Pieces[:cut]
			if i == len(drops)-1 && flattened {
				dest.Variant = Wall
			} else {
				dest.Variant = Flat
			}
		}
	}
	idx := pos.Index(b.size)
	if origin := b.squares[idx]; origin != nil {
		origin.Pieces = append(origin.Pieces, moved...)
		origin.Variant = originalVariant
	} else {
		b.squares[idx] = &Stack{Variant: originalVariant, Pieces: moved}
		b.empty--
	}
}

// CountStones tallies player's pieces on the board, split into ordinary
// stones and capstones. Only a capstone on top of its stack counts as a
// capstone; a buried one is impossible by construction.
func (b *Board) CountStones(player Player) (stones, capstones int) {
	for _, stack := range b.squares {
		if stack == nil {
			continue
		}
		for i, piece := range stack.Pieces {
			if piece.Player != player {
				continue
			}
			if stack.Variant == Capstone && i == stack.Height()-1 {
				capstones++
			} else {
				stones++
			}
		}
	}
	return stones, capstones
}

// CountFlats returns the number of flat-topped squares controlled by
// each player, the quantity compared at flat-count resolution.
func (b *Board) CountFlats() [2]int {
	var counts [2]int
	for _, stack := range b.squares {
		if stack != nil && stack.Variant == Flat {
			counts[stack.Controller().Index()]++
		}
	}
	return counts
}

// PlacedStack pairs a stack with its square.
type PlacedStack struct {
	Pos   Coord
	Stack *Stack
}

// ControlledStacks returns the coordinates and stacks whose top piece
// belongs to player, scanning in row-major order from the origin.
func (b *Board) ControlledStacks(player Player) []PlacedStack {
	var out []PlacedStack
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			pos := Coord{X: x, Y: y}
			if stack := b.squares[pos.Index(b.size)]; stack != nil && stack.Controller() == player {
				out = append(out, PlacedStack{Pos: pos, Stack: stack})
			}
		}
	}
	return out
}

// EmptyCoords returns every empty square in row-major order.
func (b *Board) EmptyCoords() []Coord {
	var out []Coord
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			pos := Coord{X: x, Y: y}
			if b.squares[pos.Index(b.size)] == nil {
				out = append(out, pos)
			}
		}
	}
	return out
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	clone := &Board{
		size:    b.size,
		squares: make([]*Stack, len(b.squares)),
		nextID:  b.nextID,
		empty:   b.empty,
	}
	for i, stack := range b.squares {
		if stack == nil {
			continue
		}
		pieces := make([]Piece, len(stack.Pieces))
		copy(pieces, stack.Pieces)
		clone.squares[i] = &Stack{Variant: stack.Variant, Pieces: pieces}
	}
	return clone
}

// Equal compares the structural content of two boards: sizes, stack
// compositions by owner, and top variants. Piece identities are
// deliberately ignored; they depend on creation order, which the
// position-string codec cannot preserve.
func (b *Board) Equal(other *Board) bool {
	if b.size != other.size || b.empty != other.empty {
		return false
	}
	for i, stack := range b.squares {
		os := other.squares[i]
		if (stack == nil) != (os == nil) {
			return false
		}
		if stack == nil {
			continue
		}
		if stack.Variant != os.Variant || stack.Height() != os.Height() {
			return false
		}
		for j, piece := range stack.Pieces {
			if piece.Player != os.Pieces[j].Player {
				return false
			}
		}
	}
	return true
}

// Validate runs the diagnostic consistency checks: the empty-square
// count matches the grid, and piece identities are unique and below the
// counter. It is used by tests and search-correctness tooling, not by
// the hot path.
func (b *Board) Validate() error {
	empty := 0
	seen := make(map[int]bool)
	for i, stack := range b.squares {
		if stack == nil {
			empty++
			continue
		}
		if stack.Height() == 0 {
			return fmt.Errorf("square %d holds an empty stack", i)
		}
		for _, piece := range stack.Pieces {
			if piece.ID >= b.nextID {
				return fmt.Errorf("piece id %d not below counter %d", piece.ID, b.nextID)
			}
			if seen[piece.ID] {
				return fmt.Errorf("piece id %d duplicated", piece.ID)
			}
			seen[piece.ID] = true
		}
	}
	if empty != b.empty {
		return fmt.Errorf("empty-square count %d does not match grid (%d)", b.empty, empty)
	}
	return nil
}
