// Package schedule keeps every timed record ordered by start time and
// answers whether a new time window would collide with one of them.
package schedule

import (
	"time"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/runoshun/taskflow/internal/domain"
)

// slotKey orders members by start time, then by insertion sequence.
type slotKey struct {
	start time.Time
	seq   uint64
}

func compareSlots(a, b interface{}) int {
	ka := a.(slotKey)
	kb := b.(slotKey)
	switch {
	case ka.start.Before(kb.start):
		return -1
	case ka.start.After(kb.start):
		return 1
	case ka.seq < kb.seq:
		return -1
	case ka.seq > kb.seq:
		return 1
	default:
		return 0
	}
}

// Index is the ordered set of scheduled tasks and subtasks.
// It is not safe for concurrent use; the manager serializes access.
type Index struct {
	tree *redblacktree.Tree
	keys map[int]slotKey // record id -> tree key
	seq  uint64
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		tree: redblacktree.NewWith(compareSlots),
		keys: make(map[int]slotKey),
	}
}

// Overlaps reports whether two closed windows share at least one instant.
// Windows that only touch at a boundary count as overlapping.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// WouldOverlap reports whether candidate's window collides with any member
// other than candidate itself. Unscheduled candidates never collide.
func (x *Index) WouldOverlap(candidate domain.Record) bool {
	start, end, ok := candidate.Interval()
	if !ok {
		return false
	}
	id := candidate.Base().ID

	it := x.tree.Iterator()
	for it.Next() {
		member := it.Value().(domain.Record)
		mStart, mEnd, _ := member.Interval()
		// Members are ordered by start; nothing further along can reach back.
		if mStart.After(end) {
			return false
		}
		if member.Base().ID == id {
			continue
		}
		if Overlaps(start, end, mStart, mEnd) {
			return true
		}
	}
	return false
}

// Insert adds rec, replacing any member with the same id.
// Unscheduled records and epics are not indexed.
func (x *Index) Insert(rec domain.Record) {
	if rec.Kind() == domain.KindEpic {
		return
	}
	id := rec.Base().ID
	x.Remove(id)

	start, _, ok := rec.Interval()
	if !ok {
		return
	}
	x.seq++
	key := slotKey{start: start, seq: x.seq}
	x.tree.Put(key, rec.Clone())
	x.keys[id] = key
}

// Remove drops the member with id. It is a no-op if id is not indexed.
func (x *Index) Remove(id int) {
	key, ok := x.keys[id]
	if !ok {
		return
	}
	x.tree.Remove(key)
	delete(x.keys, id)
}

// All returns copies of the members in ascending start order.
// Members with equal start times keep their insertion order.
func (x *Index) All() []domain.Record {
	out := make([]domain.Record, 0, x.tree.Size())
	it := x.tree.Iterator()
	for it.Next() {
		out = append(out, it.Value().(domain.Record).Clone())
	}
	return out
}

// contains reports whether id is indexed.
func (x *Index) contains(id int) bool {
	_, ok := x.keys[id]
	return ok
}

// Len returns the number of members.
func (x *Index) Len() int {
	return x.tree.Size()
}

// Clear drops every member.
func (x *Index) Clear() {
	x.tree.Clear()
	x.keys = make(map[int]slotKey)
}
