package game

import (
	"time"

	"github.com/Christian-Schefe/tak-sub000/board"
)

// TimeMode configures a timed game: base time per player plus a shared
// per-move increment.
type TimeMode struct {
	Time      time.Duration
	Increment time.Duration
}

// Clock tracks both players' remaining time. Time is charged lazily:
// the mover's displayed remaining time shrinks as the wall clock runs,
// but the stored balance only changes when a move completes or a
// timeout is flagged.
type Clock struct {
	remaining [2]time.Duration
	increment time.Duration
	turnStart time.Time
}

func NewClock(mode TimeMode, now time.Time) *Clock {
	return &Clock{
		remaining: [2]time.Duration{mode.Time, mode.Time},
		increment: mode.Increment,
		turnStart: now,
	}
}

// Observe charges the mover for the elapsed turn and starts the next
// one. The increment is credited only if the mover is still alive; it
// reports whether the mover had time left.
func (c *Clock) Observe(mover board.Player, now time.Time) bool {
	elapsed := now.Sub(c.turnStart)
	i := mover.Index()
	c.remaining[i] -= elapsed
	alive := c.remaining[i] > 0
	if alive {
		c.remaining[i] += c.increment
	}
	c.turnStart = now
	return alive
}

// Remaining returns p's time balance as of now. Only the mover's
// balance is draining.
func (c *Clock) Remaining(p, mover board.Player, now time.Time) time.Duration {
	r := c.remaining[p.Index()]
	if p == mover {
		r -= now.Sub(c.turnStart)
	}
	return r
}

// SetRemaining overwrites p's stored balance and restarts the current
// turn from now.
func (c *Clock) SetRemaining(p board.Player, d time.Duration, now time.Time) {
	c.remaining[p.Index()] = d
	c.turnStart = now
}
