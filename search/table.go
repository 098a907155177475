// Package search is the engine: negamax alpha-beta over the bitboard
// representation, a transposition table keyed by zobrist hash,
// iterative deepening under a wall-clock budget, and the evaluation.
package search

import (
	"github.com/Christian-Schefe/tak-sub000/bitboard"
)

// NodeType classifies a transposition entry's score.
type NodeType uint8

const (
	// EmptyNode marks an unused slot; the zero-valued entry is empty.
	EmptyNode NodeType = iota
	// ExactNode scores are exact within the searched window.
	ExactNode
	// LowerNode scores come from a beta cutoff; the true score is at
	// least this.
	LowerNode
	// UpperNode scores come from a failed-low search; the true score
	// is at most this.
	UpperNode
)

// TableEntry is one transposition record. Move is only meaningful for
// exact and lower entries, where it seeds move ordering.
type TableEntry struct {
	Hash  uint64
	Score int32
	Move  bitboard.Move
	Depth uint8
	Ply   uint16
	Type  NodeType
}

// Table is a direct-mapped transposition table. An entry is replaced
// only by a deeper search of its slot or by a position from a strictly
// later game ply; between unrelated uses the table must be Cleared.
type Table struct {
	entries []TableEntry
	mask    uint64

	lookups uint64
	hits    uint64
	stores  uint64
	kept    uint64
}

// NewTable allocates a table with 1<<bits slots.
func NewTable(bits int) *Table {
	size := 1 << bits
	return &Table{
		entries: make([]TableEntry, size),
		mask:    uint64(size - 1),
	}
}

// Clear drops every entry and resets the counters.
func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i] = TableEntry{}
	}
	t.lookups, t.hits, t.stores, t.kept = 0, 0, 0, 0
}

// Lookup returns the entry for hash, if the slot holds that exact
// position.
func (t *Table) Lookup(hash uint64) (TableEntry, bool) {
	t.lookups++
	entry := t.entries[hash&t.mask]
	if entry.Type == EmptyNode || entry.Hash != hash {
		return TableEntry{}, false
	}
	t.hits++
	return entry, true
}

// Store writes the entry unless the resident one is both at least as
// deep and from the same or a later ply.
func (t *Table) Store(entry TableEntry) {
	slot := &t.entries[entry.Hash&t.mask]
	if slot.Type != EmptyNode && entry.Depth <= slot.Depth && entry.Ply <= slot.Ply {
		t.kept++
		return
	}
	*slot = entry
	t.stores++
}

// Stats reports lookup/hit/store/kept counters since the last Clear.
func (t *Table) Stats() (lookups, hits, stores, kept uint64) {
	return t.lookups, t.hits, t.stores, t.kept
}
