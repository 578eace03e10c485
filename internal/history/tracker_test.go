package history

import (
	"testing"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(recs []domain.Record) []int {
	out := make([]int, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Base().ID)
	}
	return out
}

func TestTracker_Empty(t *testing.T) {
	tr := New()

	assert.Empty(t, tr.History())
	assert.NotNil(t, tr.History(), "history should be an empty slice, not nil")
	assert.Equal(t, 0, tr.Len())

	// Removing from an empty tracker is a no-op
	tr.Remove(42)
	assert.Equal(t, 0, tr.Len())
}

func TestTracker_AddKeepsAccessOrder(t *testing.T) {
	tr := New()

	tr.Add(domain.Task{ID: 1, Title: "one"})
	tr.Add(domain.Epic{Task: domain.Task{ID: 2, Title: "two"}})
	tr.Add(domain.Subtask{Task: domain.Task{ID: 3, Title: "three"}, EpicID: 2})

	got := tr.History()
	assert.Equal(t, []int{1, 2, 3}, ids(got))
	assert.Equal(t, domain.KindTask, got[0].Kind())
	assert.Equal(t, domain.KindEpic, got[1].Kind())
	assert.Equal(t, domain.KindSubtask, got[2].Kind())
}

func TestTracker_AddDeduplicatesByID(t *testing.T) {
	tr := New()

	tr.Add(domain.Task{ID: 1, Title: "first"})
	tr.Add(domain.Task{ID: 2, Title: "other"})
	for range 5 {
		tr.Add(domain.Task{ID: 1, Title: "first"})
	}
	tr.Add(domain.Task{ID: 1, Title: "renamed"})

	got := tr.History()
	require.Len(t, got, 2)
	assert.Equal(t, []int{2, 1}, ids(got))
	assert.Equal(t, "renamed", got[1].Base().Title, "entry should hold the snapshot of the last access")
}

func TestTracker_Remove(t *testing.T) {
	tests := []struct {
		name   string
		remove int
		want   []int
	}{
		{"head", 1, []int{2, 3}},
		{"middle", 2, []int{1, 3}},
		{"tail", 3, []int{1, 2}},
		{"absent", 9, []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New()
			for id := 1; id <= 3; id++ {
				tr.Add(domain.Task{ID: id})
			}

			tr.Remove(tt.remove)

			assert.Equal(t, tt.want, ids(tr.History()))
			assert.Equal(t, len(tt.want), tr.Len())
			assert.False(t, tr.contains(tt.remove))
		})
	}
}

func TestTracker_RemoveAllThenAdd(t *testing.T) {
	tr := New()
	tr.Add(domain.Task{ID: 1})
	tr.Add(domain.Task{ID: 2})

	tr.Remove(1)
	tr.Remove(2)
	assert.Empty(t, tr.History())

	tr.Add(domain.Task{ID: 3})
	tr.Add(domain.Task{ID: 4})
	assert.Equal(t, []int{3, 4}, ids(tr.History()))
}

func TestTracker_ReusesFreedSlots(t *testing.T) {
	tr := New()
	for id := 1; id <= 4; id++ {
		tr.Add(domain.Task{ID: id})
	}
	for id := 1; id <= 4; id++ {
		tr.Add(domain.Task{ID: id})
	}

	assert.Len(t, tr.nodes, 4, "re-adding should recycle freed slots")
	assert.Equal(t, []int{1, 2, 3, 4}, ids(tr.History()))
}

func TestTracker_SnapshotIsolation(t *testing.T) {
	tr := New()
	epic := domain.Epic{Task: domain.Task{ID: 1, Title: "epic"}, SubtaskIDs: []int{2, 3}}
	tr.Add(epic)

	// Mutating the caller's value after Add must not leak in
	epic.SubtaskIDs[0] = 99

	got := tr.History()
	require.Len(t, got, 1)
	stored := got[0].(domain.Epic)
	assert.Equal(t, []int{2, 3}, stored.SubtaskIDs)

	// Mutating the returned value must not leak in either
	stored.SubtaskIDs[1] = 77
	again := tr.History()[0].(domain.Epic)
	assert.Equal(t, []int{2, 3}, again.SubtaskIDs)
}

func TestTracker_Clear(t *testing.T) {
	tr := New()
	tr.Add(domain.Task{ID: 1})
	tr.Add(domain.Task{ID: 2})

	tr.Clear()

	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, tr.History())
	tr.Add(domain.Task{ID: 1})
	assert.Equal(t, []int{1}, ids(tr.History()))
}
