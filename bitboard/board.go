// Package bitboard is the search engine's board representation: four
// uint64 masks for square state, one packed owner word per stack, and
// an incrementally maintained zobrist hash. It is self-contained and
// deliberately permissive; moves come from its own generator and are
// applied without re-validation. The reference rules engine is the
// oracle it is tested against.
package bitboard

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/Christian-Schefe/tak-sub000/zobrist"
)

var ErrBadPosition = errors.New("malformed position string")

// Piece variants, placement moves only.
const (
	VariantFlat uint8 = iota
	VariantWall
	VariantCapstone
)

// Players. The owner mask has a bit set where Black controls the top.
const (
	White uint8 = iota
	Black
)

// Dir is a spread direction. Rows are indexed top to bottom, so Up
// subtracts a row stride.
type Dir uint8

const (
	Right Dir = iota
	Left
	Down
	Up
)

// Result of the game. The zero value means play continues.
type Result uint8

const (
	Ongoing Result = iota
	WhiteWins
	BlackWins
	Draw
)

// Settings carries the scoring options a position cannot express.
type Settings struct {
	Komi     int
	Tiebreak bool
}

// Board is the bit-packed position. Square pos = row*size+col with row
// 0 at the top; stacks[pos] holds one owner bit per layer, bottom at
// bit 0, set for Black.
type Board struct {
	size    int
	result  Result
	ply     int
	current uint8
	empty   int

	stones    [2]int
	capstones [2]int

	komi     int
	tiebreak bool

	occupied uint64
	walls    uint64
	caps     uint64
	owner    uint64
	stacks   [64]uint64
	heights  [64]int

	hash  uint64
	table *zobrist.Table
}

// DefaultReserves returns the standard inventory for a board size.
func DefaultReserves(size int) (stones, capstones int, err error) {
	switch size {
	case 3:
		return 10, 0, nil
	case 4:
		return 15, 0, nil
	case 5:
		return 21, 1, nil
	case 6:
		return 30, 1, nil
	case 7:
		return 40, 2, nil
	case 8:
		return 50, 2, nil
	}
	return 0, 0, fmt.Errorf("no standard reserves for board size %d", size)
}

// New returns an empty board. The zobrist table must outlive the board
// and is shared, not copied, by Clone.
func New(size int, settings Settings, table *zobrist.Table) (*Board, error) {
	stones, capstones, err := DefaultReserves(size)
	if err != nil {
		return nil, err
	}
	b := &Board{
		size:      size,
		empty:     size * size,
		stones:    [2]int{stones, stones},
		capstones: [2]int{capstones, capstones},
		komi:      settings.Komi,
		tiebreak:  settings.Tiebreak,
		table:     table,
	}
	b.hash = b.table.SideToMove[White]
	return b, nil
}

func (b *Board) Size() int           { return b.size }
func (b *Board) Ply() int            { return b.ply }
func (b *Board) CurrentPlayer() uint8 { return b.current }
func (b *Board) Result() Result      { return b.result }
func (b *Board) Hash() uint64        { return b.hash }
func (b *Board) Empty() int          { return b.empty }

func (b *Board) Stones(p uint8) int    { return b.stones[p] }
func (b *Board) Capstones(p uint8) int { return b.capstones[p] }
func (b *Board) Komi() int             { return b.komi }

// Mask accessors for evaluation. Owner bits are only meaningful where
// the occupied bit is set.
func (b *Board) Occupied() uint64  { return b.occupied }
func (b *Board) WallsMask() uint64 { return b.walls }
func (b *Board) CapsMask() uint64  { return b.caps }
func (b *Board) OwnerMask() uint64 { return b.owner }

// Height returns the stack height at pos.
func (b *Board) Height(pos int) int { return b.heights[pos] }

// Clone returns an independent copy sharing the zobrist table.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// Equal compares positions, ignoring which table pointer they carry.
func (b *Board) Equal(other *Board) bool {
	return b.size == other.size &&
		b.result == other.result &&
		b.ply == other.ply &&
		b.current == other.current &&
		b.empty == other.empty &&
		b.stones == other.stones &&
		b.capstones == other.capstones &&
		b.komi == other.komi &&
		b.tiebreak == other.tiebreak &&
		b.occupied == other.occupied &&
		b.walls == other.walls &&
		b.caps == other.caps &&
		b.owner == other.owner &&
		b.stacks == other.stacks &&
		b.heights == other.heights &&
		b.hash == other.hash
}

func (b *Board) step(pos int, dir Dir) int {
	switch dir {
	case Right:
		return pos + 1
	case Left:
		return pos - 1
	case Down:
		return pos + b.size
	}
	return pos - b.size
}

// runLength is the number of on-board squares from pos in dir.
func (b *Board) runLength(pos int, dir Dir) int {
	switch dir {
	case Right:
		return b.size - pos%b.size - 1
	case Left:
		return pos % b.size
	case Down:
		return b.size - pos/b.size - 1
	}
	return pos / b.size
}

// topOwner is the controlling player of a non-empty square.
func (b *Board) topOwner(pos int) uint8 {
	return uint8(b.stacks[pos] >> (b.heights[pos] - 1) & 1)
}

func (b *Board) setOwnerBit(pos int) {
	mask := uint64(1) << pos
	if b.topOwner(pos) == White {
		b.owner &^= mask
	} else {
		b.owner |= mask
	}
}

// place puts a fresh piece on an empty square, charges the owner's
// reserve, flips the turn and evaluates the terminal conditions.
// During the first two plies the piece and the reserve belong to the
// opponent.
func (b *Board) place(pos int, variant uint8) {
	mask := uint64(1) << pos

	owner := b.current
	if b.ply < 2 {
		owner = 1 - owner
	}

	b.occupied |= mask
	if owner == Black {
		b.owner |= mask
	}
	switch variant {
	case VariantWall:
		b.walls |= mask
		b.hash ^= b.table.Variants[pos][zobrist.WallIndex]
	case VariantCapstone:
		b.caps |= mask
		b.hash ^= b.table.Variants[pos][zobrist.CapstoneIndex]
	}
	if variant == VariantCapstone {
		b.capstones[owner]--
	} else {
		b.stones[owner]--
	}
	b.heights[pos] = 1
	b.stacks[pos] = uint64(owner)
	b.hash ^= b.table.Layers[pos][0][owner]

	b.empty--
	b.advanceTurn()

	if b.checkRoadWin(owner, pos) {
		return
	}
	b.checkFlatWin()
}

// unplace reverses place.
func (b *Board) unplace(pos int, variant uint8) {
	b.rewindTurn()
	b.result = Ongoing
	b.empty++

	owner := b.current
	if b.ply < 2 {
		owner = 1 - owner
	}

	mask := uint64(1) << pos
	b.occupied &^= mask
	b.owner &^= mask
	switch variant {
	case VariantWall:
		b.walls &^= mask
		b.hash ^= b.table.Variants[pos][zobrist.WallIndex]
	case VariantCapstone:
		b.caps &^= mask
		b.hash ^= b.table.Variants[pos][zobrist.CapstoneIndex]
	}
	b.hash ^= b.table.Layers[pos][0][owner]
	b.heights[pos] = 0
	b.stacks[pos] = 0

	if variant == VariantCapstone {
		b.capstones[owner]++
	} else {
		b.stones[owner]++
	}
}

// spread moves the top take pieces of pos in dir, dropping the packed
// pattern's nibbles in order. It reports whether a wall was smashed.
func (b *Board) spread(pos int, dir Dir, take int, drops uint32) bool {
	mask := uint64(1) << pos

	prevHeight := b.heights[pos]
	newHeight := prevHeight - take
	b.heights[pos] = newHeight

	carried := b.stacks[pos] >> newHeight & (1<<take - 1)
	b.stacks[pos] &^= (uint64(1)<<take - 1) << newHeight
	for layer := newHeight; layer < prevHeight; layer++ {
		b.hash ^= b.table.Layers[pos][layer][carried>>(layer-newHeight)&1]
	}

	wasWall := b.walls&mask != 0
	wasCapstone := b.caps&mask != 0

	if newHeight == 0 {
		b.occupied &^= mask
		b.owner &^= mask
		b.empty++
	} else {
		b.setOwnerBit(pos)
	}

	cur := pos
	curMask := mask
	distance := 0
	pattern := carried
	for i := 0; i < 7; i++ {
		drop := int(drops >> (i * 4) & 0xF)
		if drop == 0 {
			break
		}
		distance++
		cur = b.step(cur, dir)
		curMask = uint64(1) << cur
		prev := b.heights[cur]
		b.heights[cur] += drop
		this := pattern & (1<<drop - 1)
		pattern >>= drop
		b.stacks[cur] |= this << prev
		for layer := prev; layer < prev+drop; layer++ {
			b.hash ^= b.table.Layers[cur][layer][this>>(layer-prev)&1]
		}
		if prev == 0 {
			b.empty--
			b.occupied |= curMask
		}
		b.setOwnerBit(cur)
	}

	smashed := b.walls&curMask != 0
	if smashed {
		b.walls &^= curMask
		b.hash ^= b.table.Variants[cur][zobrist.WallIndex]
	}
	if wasWall {
		b.walls &^= mask
		b.walls |= curMask
		b.hash ^= b.table.Variants[pos][zobrist.WallIndex]
		b.hash ^= b.table.Variants[cur][zobrist.WallIndex]
	} else if wasCapstone {
		b.caps &^= mask
		b.caps |= curMask
		b.hash ^= b.table.Variants[pos][zobrist.CapstoneIndex]
		b.hash ^= b.table.Variants[cur][zobrist.CapstoneIndex]
	}

	mover := b.current
	b.advanceTurn()

	// A spread can complete a road for either side anywhere along its
	// track; the mover's roads win ties.
	for _, player := range [2]uint8{mover, 1 - mover} {
		check := pos
		for i := 0; i <= distance; i++ {
			if i > 0 {
				check = b.step(check, dir)
			}
			if b.heights[check] != 0 && b.topOwner(check) == player && b.checkRoadWin(player, check) {
				return smashed
			}
		}
	}
	b.checkFlatWin()
	return smashed
}

// unspread reverses spread.
func (b *Board) unspread(pos int, dir Dir, drops uint32, smashed bool) {
	b.rewindTurn()
	b.result = Ongoing

	mask := uint64(1) << pos

	cur := pos
	curMask := mask
	var pattern uint64
	total := 0
	for i := 0; i < 7; i++ {
		drop := int(drops >> (i * 4) & 0xF)
		if drop == 0 {
			break
		}
		cur = b.step(cur, dir)
		curMask = uint64(1) << cur
		newHeight := b.heights[cur] - drop
		b.heights[cur] = newHeight

		this := b.stacks[cur] >> newHeight & (1<<drop - 1)
		b.stacks[cur] &^= (uint64(1)<<drop - 1) << newHeight
		for layer := newHeight; layer < newHeight+drop; layer++ {
			b.hash ^= b.table.Layers[cur][layer][this>>(layer-newHeight)&1]
		}

		if newHeight == 0 {
			b.occupied &^= curMask
			b.owner &^= curMask
			b.empty++
		} else {
			b.setOwnerBit(cur)
		}

		pattern |= this << total
		total += drop
	}

	if b.walls&curMask != 0 {
		b.walls &^= curMask
		b.walls |= mask
		b.hash ^= b.table.Variants[cur][zobrist.WallIndex]
		b.hash ^= b.table.Variants[pos][zobrist.WallIndex]
	} else if b.caps&curMask != 0 {
		b.caps &^= curMask
		b.caps |= mask
		b.hash ^= b.table.Variants[cur][zobrist.CapstoneIndex]
		b.hash ^= b.table.Variants[pos][zobrist.CapstoneIndex]
	}
	if smashed {
		b.walls |= curMask
		b.hash ^= b.table.Variants[cur][zobrist.WallIndex]
	}

	prev := b.heights[pos]
	if prev == 0 {
		b.occupied |= mask
		b.empty--
	}
	b.heights[pos] += total
	b.stacks[pos] |= pattern << prev
	for layer := prev; layer < prev+total; layer++ {
		b.hash ^= b.table.Layers[pos][layer][pattern>>(layer-prev)&1]
	}
	b.setOwnerBit(pos)
}

func (b *Board) advanceTurn() {
	b.hash ^= b.table.SideToMove[b.current]
	b.ply++
	b.current = 1 - b.current
	b.hash ^= b.table.SideToMove[b.current]
}

func (b *Board) rewindTurn() {
	b.hash ^= b.table.SideToMove[b.current]
	b.ply--
	b.current = 1 - b.current
	b.hash ^= b.table.SideToMove[b.current]
}

// checkRoadWin flood-fills player's road squares from pos and decides
// the game if they span the board.
func (b *Board) checkRoadWin(player uint8, pos int) bool {
	mask := uint64(1) << pos
	if b.occupied&mask == 0 || b.walls&mask != 0 {
		return false
	}
	if b.topOwner(pos) != player {
		return false
	}

	size := b.size
	max := size - 1
	var visited uint64
	var stack [64]int
	stack[0] = pos
	visited |= mask
	top := 1

	var hasTop, hasBottom, hasLeft, hasRight bool
	for top > 0 {
		top--
		cur := stack[top]
		x := cur % size
		y := cur / size
		if x == 0 {
			hasLeft = true
		} else if x == max {
			hasRight = true
		}
		if y == 0 {
			hasTop = true
		} else if y == max {
			hasBottom = true
		}
		if (hasTop && hasBottom) || (hasLeft && hasRight) {
			b.result = winResult(player)
			return true
		}

		for _, next := range b.neighbors(cur) {
			if next < 0 {
				continue
			}
			nextMask := uint64(1) << next
			if b.occupied&nextMask == 0 ||
				visited&nextMask != 0 ||
				b.walls&nextMask != 0 ||
				(b.owner&nextMask == 0) != (player == White) {
				continue
			}
			visited |= nextMask
			stack[top] = next
			top++
		}
	}
	return false
}

func (b *Board) neighbors(pos int) [4]int {
	n := [4]int{-1, -1, -1, -1}
	if pos%b.size > 0 {
		n[0] = pos - 1
	}
	if pos%b.size < b.size-1 {
		n[1] = pos + 1
	}
	if pos/b.size > 0 {
		n[2] = pos - b.size
	}
	if pos/b.size < b.size-1 {
		n[3] = pos + b.size
	}
	return n
}

// checkFlatWin resolves the game on flats when the board is full or a
// reserve is exhausted, applying komi to Black.
func (b *Board) checkFlatWin() bool {
	full := b.empty == 0
	exhausted := b.stones[White]+b.capstones[White] == 0 ||
		b.stones[Black]+b.capstones[Black] == 0
	if !full && !exhausted {
		return false
	}
	flatTops := b.occupied &^ b.walls &^ b.caps
	black := bits.OnesCount64(flatTops&b.owner) + b.komi
	white := bits.OnesCount64(flatTops &^ b.owner)
	switch {
	case white > black:
		b.result = WhiteWins
	case black > white:
		b.result = BlackWins
	case b.tiebreak:
		b.result = BlackWins
	default:
		b.result = Draw
	}
	return true
}

func winResult(player uint8) Result {
	if player == White {
		return WhiteWins
	}
	return BlackWins
}

// ComputeHash recomputes the zobrist hash from scratch. The mutation
// paths keep the incremental hash equal to this at all times.
func (b *Board) ComputeHash() uint64 {
	var h uint64
	for pos := 0; pos < b.size*b.size; pos++ {
		for layer := 0; layer < b.heights[pos]; layer++ {
			h ^= b.table.Layers[pos][layer][b.stacks[pos]>>layer&1]
		}
		mask := uint64(1) << pos
		if b.walls&mask != 0 {
			h ^= b.table.Variants[pos][zobrist.WallIndex]
		}
		if b.caps&mask != 0 {
			h ^= b.table.Variants[pos][zobrist.CapstoneIndex]
		}
	}
	h ^= b.table.SideToMove[b.current]
	return h
}

// FromPosition parses a full position string, validates it against the
// standard reserves for its size, and decides games that are already
// over.
func FromPosition(position string, settings Settings, table *zobrist.Table) (*Board, error) {
	sections := strings.Split(position, " ")
	if len(sections) != 3 {
		return nil, fmt.Errorf("%w: %d fields", ErrBadPosition, len(sections))
	}

	var current uint8
	switch sections[1] {
	case "1":
		current = White
	case "2":
		current = Black
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrBadPosition, sections[1])
	}
	moveIndex, err := strconv.Atoi(sections[2])
	if err != nil || moveIndex < 1 {
		return nil, fmt.Errorf("%w: move number %q", ErrBadPosition, sections[2])
	}
	ply := (moveIndex-1)*2 + int(current)

	var occupied, walls, caps, owner uint64
	var stacks [64]uint64
	var heights [64]int
	var onBoard, onBoardCaps [2]int
	size, pos, empty := 0, 0, 0

	for _, row := range strings.Split(sections[0], "/") {
		rowCount := 0
		for _, part := range strings.Split(row, ",") {
			if part == "" {
				return nil, fmt.Errorf("%w: empty square group", ErrBadPosition)
			}
			if part[0] == 'x' {
				amount := 1
				if len(part) > 1 {
					amount, err = strconv.Atoi(part[1:])
					if err != nil || amount < 1 {
						return nil, fmt.Errorf("%w: bad empty run %q", ErrBadPosition, part)
					}
				}
				pos += amount
				rowCount += amount
				empty += amount
				continue
			}
			if pos >= 64 {
				return nil, fmt.Errorf("%w: too many squares", ErrBadPosition)
			}
			mask := uint64(1) << pos
			occupied |= mask
			height := 0
			var stack uint64
			for i := 0; i < len(part); i++ {
				switch part[i] {
				case '1':
					onBoard[White]++
				case '2':
					stack |= 1 << height
					onBoard[Black]++
				case 'S', 'C':
					if i != len(part)-1 {
						return nil, fmt.Errorf("%w: variant marker not at top of %q", ErrBadPosition, part)
					}
					if part[i] == 'S' {
						walls |= mask
					} else {
						caps |= mask
					}
					continue
				default:
					return nil, fmt.Errorf("%w: bad stack character %q", ErrBadPosition, part[i])
				}
				height++
			}
			if height == 0 {
				return nil, fmt.Errorf("%w: stack group %q holds no pieces", ErrBadPosition, part)
			}
			topBlack := stack>>(height-1)&1 != 0
			if topBlack {
				owner |= mask
			}
			if caps&mask != 0 {
				if topBlack {
					onBoardCaps[Black]++
				} else {
					onBoardCaps[White]++
				}
			}
			stacks[pos] = stack
			heights[pos] = height
			pos++
			rowCount++
		}
		if size == 0 {
			size = rowCount
		} else if size != rowCount {
			return nil, fmt.Errorf("%w: ragged rows", ErrBadPosition)
		}
	}
	if size < 3 || size > 8 || pos != size*size {
		return nil, fmt.Errorf("%w: not a square board", ErrBadPosition)
	}

	stones, capstones, err := DefaultReserves(size)
	if err != nil {
		return nil, err
	}
	for p := White; p <= Black; p++ {
		onBoard[p] -= onBoardCaps[p]
		if onBoard[p] > stones || onBoardCaps[p] > capstones {
			return nil, fmt.Errorf("%w: more pieces than the reserves hold", ErrBadPosition)
		}
	}

	b := &Board{
		size:    size,
		ply:     ply,
		current: current,
		empty:   empty,
		stones: [2]int{
			stones - onBoard[White],
			stones - onBoard[Black],
		},
		capstones: [2]int{
			capstones - onBoardCaps[White],
			capstones - onBoardCaps[Black],
		},
		komi:     settings.Komi,
		tiebreak: settings.Tiebreak,
		occupied: occupied,
		walls:    walls,
		caps:     caps,
		owner:    owner,
		stacks:   stacks,
		heights:  heights,
		table:    table,
	}
	b.hash = b.ComputeHash()

	b.checkFlatWin()
	for pos := 0; pos < size*size; pos++ {
		if b.heights[pos] > 0 && b.checkRoadWin(b.topOwner(pos), pos) {
			break
		}
	}
	return b, nil
}

// Position serializes the board back to the full position string.
func (b *Board) Position() string {
	var sb strings.Builder
	for y := 0; y < b.size; y++ {
		if y > 0 {
			sb.WriteByte('/')
		}
		emptyRun := 0
		first := true
		for x := 0; x < b.size; x++ {
			pos := y*b.size + x
			if b.heights[pos] == 0 {
				emptyRun++
				continue
			}
			if !first {
				sb.WriteByte(',')
			}
			first = false
			if emptyRun > 0 {
				sb.WriteByte('x')
				if emptyRun > 1 {
					sb.WriteString(strconv.Itoa(emptyRun))
				}
				sb.WriteByte(',')
				emptyRun = 0
			}
			for layer := 0; layer < b.heights[pos]; layer++ {
				if b.stacks[pos]>>layer&1 != 0 {
					sb.WriteByte('2')
				} else {
					sb.WriteByte('1')
				}
			}
			mask := uint64(1) << pos
			if b.walls&mask != 0 {
				sb.WriteByte('S')
			} else if b.caps&mask != 0 {
				sb.WriteByte('C')
			}
		}
		if emptyRun > 0 {
			if !first {
				sb.WriteByte(',')
			}
			sb.WriteByte('x')
			if emptyRun > 1 {
				sb.WriteString(strconv.Itoa(emptyRun))
			}
		}
	}
	fmt.Fprintf(&sb, " %d %d", b.current+1, b.ply/2+1)
	return sb.String()
}
