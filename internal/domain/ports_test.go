package domain

import "testing"

func TestSnapshot_EmptyAndMaxID(t *testing.T) {
	var nilSnap *Snapshot
	if !nilSnap.Empty() || nilSnap.MaxID() != 0 {
		t.Error("nil snapshot should be empty with MaxID 0")
	}

	snap := &Snapshot{
		Tasks:    []Task{{ID: 4}},
		Epics:    []Epic{{Task: Task{ID: 9}}},
		Subtasks: []Subtask{{Task: Task{ID: 7}, EpicID: 9}},
	}
	if snap.Empty() {
		t.Error("Empty() = true for a populated snapshot")
	}
	if got := snap.MaxID(); got != 9 {
		t.Errorf("MaxID() = %d, want 9", got)
	}
}
