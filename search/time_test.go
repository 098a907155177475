package search

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestBudgetOpening(t *testing.T) {
	is := is.New(t)
	// The first few plies get a flat slice regardless of the bank.
	for ply := 0; ply < 6; ply++ {
		is.Equal(Budget(ply, 10*time.Minute, 0), time.Second)
		is.Equal(Budget(ply, 10*time.Minute, 2*time.Second), 3*time.Second)
	}
}

func TestBudgetMidgameBank(t *testing.T) {
	is := is.New(t)
	// estMoves = max(20, 10) + 10/3 = 23.
	got := Budget(10, time.Minute, 2*time.Second)
	want := 3*time.Second + time.Minute/23 + 2*time.Second
	is.Equal(got, want)

	// Deep into the game the estimate tracks the ply count.
	// estMoves = 60 + 20 = 80.
	got = Budget(60, 40*time.Second, 0)
	is.Equal(got, 3*time.Second+40*time.Second/80)
}

func TestBudgetCap(t *testing.T) {
	is := is.New(t)
	is.Equal(Budget(10, 10*time.Hour, 0), 30*time.Second)
	is.Equal(Budget(2, 10*time.Hour, time.Minute), 30*time.Second)
}
