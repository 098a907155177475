package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadPosition is returned when a partial position string cannot be
// parsed into a square board.
var ErrBadPosition = errors.New("malformed position string")

// PartialPosition serializes the grid as ranks from topmost (y = size-1)
// to bottommost, separated by '/'. Within a rank, runs of empty squares
// compress to "x" or "xN", and an occupied square is its stack
// composition bottom-to-top as owner digits, with a trailing 'S' or 'C'
// when the top piece is a wall or capstone.
func (b *Board) PartialPosition() string {
	var sb strings.Builder
	for y := b.size - 1; y >= 0; y-- {
		if y < b.size-1 {
			sb.WriteByte('/')
		}
		emptyRun := 0
		first := true
		for x := 0; x < b.size; x++ {
			stack := b.squares[Coord{X: x, Y: y}.Index(b.size)]
			if stack == nil {
				emptyRun++
				continue
			}
			if !first {
				sb.WriteByte(',')
			}
			first = false
			writeEmptyRun(&sb, emptyRun, true)
			emptyRun = 0
			for _, piece := range stack.Pieces {
				if piece.Player == White {
					sb.WriteByte('1')
				} else {
					sb.WriteByte('2')
				}
			}
			switch stack.Variant {
			case Wall:
				sb.WriteByte('S')
			case Capstone:
				sb.WriteByte('C')
			}
		}
		if emptyRun > 0 {
			if !first {
				sb.WriteByte(',')
			}
			writeEmptyRun(&sb, emptyRun, false)
		}
	}
	return sb.String()
}

func writeEmptyRun(sb *strings.Builder, run int, trailingComma bool) {
	if run == 0 {
		return
	}
	sb.WriteByte('x')
	if run > 1 {
		sb.WriteString(strconv.Itoa(run))
	}
	if trailingComma {
		sb.WriteByte(',')
	}
}

// ParsePartialPosition rebuilds a board from its partial position
// string. Piece identities are assigned in scan order; the structural
// content round-trips exactly.
func ParsePartialPosition(s string) (*Board, error) {
	ranks := strings.Split(s, "/")
	size := len(ranks)
	if size < 3 || size > 8 {
		return nil, fmt.Errorf("%w: %d ranks", ErrBadPosition, size)
	}
	b := &Board{
		size:    size,
		squares: make([]*Stack, size*size),
	}
	for ri, rank := range ranks {
		y := size - 1 - ri
		x := 0
		for _, part := range strings.Split(rank, ",") {
			if part == "" {
				return nil, fmt.Errorf("%w: empty square group", ErrBadPosition)
			}
			if part[0] == 'x' {
				run := 1
				if len(part) > 1 {
					n, err := strconv.Atoi(part[1:])
					if err != nil || n < 1 {
						return nil, fmt.Errorf("%w: bad empty run %q", ErrBadPosition, part)
					}
					run = n
				}
				x += run
				b.empty += run
				continue
			}
			stack, err := parseStackGroup(part, &b.nextID)
			if err != nil {
				return nil, err
			}
			pos := Coord{X: x, Y: y}
			if !pos.Valid(size) {
				return nil, fmt.Errorf("%w: rank overflow", ErrBadPosition)
			}
			b.squares[pos.Index(size)] = stack
			x++
		}
		if x != size {
			return nil, fmt.Errorf("%w: rank %d has %d squares, want %d", ErrBadPosition, ri, x, size)
		}
	}
	return b, nil
}

func parseStackGroup(part string, nextID *int) (*Stack, error) {
	stack := &Stack{Variant: Flat}
	for i := 0; i < len(part); i++ {
		switch part[i] {
		case '1', '2':
			player := White
			if part[i] == '2' {
				player = Black
			}
			stack.Pieces = append(stack.Pieces, Piece{ID: *nextID, Player: player})
			*nextID++
		case 'S':
			stack.Variant = Wall
		case 'C':
			stack.Variant = Capstone
		default:
			return nil, fmt.Errorf("%w: bad stack character %q", ErrBadPosition, part[i])
		}
		if (part[i] == 'S' || part[i] == 'C') && i != len(part)-1 {
			return nil, fmt.Errorf("%w: variant marker not at top of %q", ErrBadPosition, part)
		}
	}
	if len(stack.Pieces) == 0 {
		return nil, fmt.Errorf("%w: stack group %q holds no pieces", ErrBadPosition, part)
	}
	return stack, nil
}
