package board

// CheckRoad flood-fills from each candidate square through player's
// road-eligible squares (flat or capstone tops owned by player) and
// reports the first pair of squares touching two opposite edges. The
// candidates are the squares touched by the most recent action; a road
// completed by a move always passes through at least one of them, so a
// full-board scan is never needed.
func (b *Board) CheckRoad(candidates []Coord, player Player) (Coord, Coord, bool) {
	visited := make([]bool, b.size*b.size)
	max := b.size - 1
	stack := make([]Coord, 0, b.size*b.size)
	for _, start := range candidates {
		stack = append(stack[:0], start)
		var left, right, bottom, top *Coord
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !cur.Valid(b.size) || visited[cur.Index(b.size)] {
				continue
			}
			visited[cur.Index(b.size)] = true
			sq := b.squares[cur.Index(b.size)]
			if sq == nil || sq.Controller() != player || sq.Variant == Wall {
				continue
			}
			c := cur
			if c.X == 0 && left == nil {
				left = &c
			} else if c.X == max && right == nil {
				right = &c
			}
			if c.Y == 0 && bottom == nil {
				bottom = &c
			} else if c.Y == max && top == nil {
				top = &c
			}
			if left != nil && right != nil {
				return *left, *right, true
			}
			if bottom != nil && top != nil {
				return *bottom, *top, true
			}
			for _, dir := range Directions {
				stack = append(stack, cur.Offset(dir))
			}
		}
	}
	return Coord{}, Coord{}, false
}

// ShortestPath runs a breadth-first search from start to end over the
// connectivity of the controlling player's non-wall squares. It is used
// to explain and highlight a finished road, never for legality, and
// returns nil when no path exists.
func (b *Board) ShortestPath(start, end Coord) []Coord {
	startStack := b.StackAt(start)
	if startStack == nil || startStack.Variant == Wall {
		return nil
	}
	player := startStack.Controller()

	prev := make([]int, b.size*b.size)
	for i := range prev {
		prev[i] = -1
	}
	prev[start.Index(b.size)] = start.Index(b.size)

	queue := []Coord{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == end {
			return b.tracePath(prev, start, end)
		}
		for _, dir := range Directions {
			next := cur.Offset(dir)
			if !next.Valid(b.size) || prev[next.Index(b.size)] != -1 {
				continue
			}
			sq := b.squares[next.Index(b.size)]
			if sq == nil || sq.Controller() != player || sq.Variant == Wall {
				continue
			}
			prev[next.Index(b.size)] = cur.Index(b.size)
			queue = append(queue, next)
		}
	}
	return nil
}

func (b *Board) tracePath(prev []int, start, end Coord) []Coord {
	var path []Coord
	cur := end
	for {
		path = append(path, cur)
		if cur == start {
			break
		}
		idx := prev[cur.Index(b.size)]
		cur = Coord{X: idx % b.size, Y: idx / b.size}
	}
	// Reverse into start-to-end order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
