package search

import "time"

const (
	openingBudget = 1000 * time.Millisecond
	middleBudget  = 3000 * time.Millisecond
	maxBudget     = 30 * time.Second
)

// Budget picks a wall-clock allowance for the next search from the game
// ply and the clock state. Early plies get a small fixed slice; later
// ones add a share of the remaining bank sized by a pessimistic guess
// at how many moves are left.
func Budget(ply int, remaining, increment time.Duration) time.Duration {
	base := openingBudget
	var bank time.Duration
	if ply >= 6 {
		base = middleBudget
		estMoves := ply
		if estMoves < 20 {
			estMoves = 20
		}
		estMoves += ply / 3
		bank = remaining / time.Duration(estMoves)
	}
	total := base + bank + increment
	if total > maxBudget {
		total = maxBudget
	}
	return total
}
