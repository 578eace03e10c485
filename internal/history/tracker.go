// Package history records which records were viewed, most recent last.
//
// Entries live in a doubly linked list whose nodes are stored in a slice
// and addressed by integer handles. A map from record id to handle makes
// both Add and Remove O(1) without holding pointers into the list.
package history

import "github.com/runoshun/taskflow/internal/domain"

// nilHandle marks the absence of a neighbour, head or tail.
const nilHandle = -1

type node struct {
	rec  domain.Record
	prev int
	next int
}

// Tracker is an unbounded, id-deduplicated access history.
// It is not safe for concurrent use; the manager serializes access.
type Tracker struct {
	nodes []node
	free  []int
	index map[int]int // record id -> handle
	head  int
	tail  int
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{
		index: make(map[int]int),
		head:  nilHandle,
		tail:  nilHandle,
	}
}

// Add appends a snapshot of rec at the most recent end.
// An existing entry with the same id is dropped first.
func (t *Tracker) Add(rec domain.Record) {
	id := rec.Base().ID
	t.Remove(id)

	h := t.alloc(node{rec: rec.Clone(), prev: t.tail, next: nilHandle})
	if t.tail == nilHandle {
		t.head = h
	} else {
		t.nodes[t.tail].next = h
	}
	t.tail = h
	t.index[id] = h
}

// Remove drops the entry for id. It is a no-op if id is not tracked.
func (t *Tracker) Remove(id int) {
	h, ok := t.index[id]
	if !ok {
		return
	}
	delete(t.index, id)

	n := t.nodes[h]
	if n.prev == nilHandle {
		t.head = n.next
	} else {
		t.nodes[n.prev].next = n.next
	}
	if n.next == nilHandle {
		t.tail = n.prev
	} else {
		t.nodes[n.next].prev = n.prev
	}

	t.nodes[h] = node{prev: nilHandle, next: nilHandle}
	t.free = append(t.free, h)
}

// History returns copies of the tracked records, oldest first.
func (t *Tracker) History() []domain.Record {
	out := make([]domain.Record, 0, len(t.index))
	for h := t.head; h != nilHandle; h = t.nodes[h].next {
		out = append(out, t.nodes[h].rec.Clone())
	}
	return out
}

// contains reports whether id has an entry.
func (t *Tracker) contains(id int) bool {
	_, ok := t.index[id]
	return ok
}

// Len returns the number of entries.
func (t *Tracker) Len() int {
	return len(t.index)
}

// Clear drops every entry and releases the node table.
func (t *Tracker) Clear() {
	t.nodes = nil
	t.free = nil
	t.index = make(map[int]int)
	t.head = nilHandle
	t.tail = nilHandle
}

// alloc stores n in a free slot, growing the table when none is left.
func (t *Tracker) alloc(n node) int {
	if k := len(t.free); k > 0 {
		h := t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[h] = n
		return h
	}
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}
