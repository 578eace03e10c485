package manager_test

import (
	"errors"
	"testing"
	"time"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/manager"
	"github.com/runoshun/taskflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

func timedTask(title string, offset, length time.Duration) domain.Task {
	return domain.Task{Title: title, StartTime: base.Add(offset), Duration: length}
}

func recordIDs(recs []domain.Record) []int {
	out := make([]int, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Base().ID)
	}
	return out
}

func mustEpic(t *testing.T, m *manager.Manager, title string) domain.Epic {
	t.Helper()
	epic, err := m.CreateEpic(domain.Epic{Task: domain.Task{Title: title}})
	require.NoError(t, err)
	return epic
}

func mustSubtask(t *testing.T, m *manager.Manager, epicID int, title string, status domain.Status) domain.Subtask {
	t.Helper()
	s, err := m.CreateSubtask(domain.Subtask{Task: domain.Task{Title: title, Status: status}, EpicID: epicID})
	require.NoError(t, err)
	return s
}

func TestManager_CreateTask(t *testing.T) {
	m := manager.New()

	got, err := m.CreateTask(domain.Task{Title: "Write report", Description: "quarterly"})
	require.NoError(t, err)

	assert.Equal(t, 1, got.ID)
	assert.Equal(t, domain.StatusNew, got.Status)
	assert.Equal(t, "quarterly", got.Description)

	stored, err := m.GetTaskByID(1)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestManager_IDsUniqueAcrossKinds(t *testing.T) {
	m := manager.New()

	task, err := m.CreateTask(domain.Task{Title: "task"})
	require.NoError(t, err)
	epic := mustEpic(t, m, "epic")
	sub := mustSubtask(t, m, epic.ID, "sub", "")
	task2, err := m.CreateTask(domain.Task{Title: "task 2"})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4}, []int{task.ID, epic.ID, sub.ID, task2.ID})
}

func TestManager_CreateTask_Validation(t *testing.T) {
	tests := []struct {
		name    string
		task    domain.Task
		wantErr error
	}{
		{"empty title", domain.Task{Title: "  "}, domain.ErrEmptyTitle},
		{"negative duration", domain.Task{Title: "t", Duration: -time.Minute}, domain.ErrNegativeDuration},
		{"invalid status", domain.Task{Title: "t", Status: "LATER"}, domain.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := manager.New()

			_, err := m.CreateTask(tt.task)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, m.GetAllTasks())

			// The failed attempt must not consume an id
			ok, err := m.CreateTask(domain.Task{Title: "valid"})
			require.NoError(t, err)
			assert.Equal(t, 1, ok.ID)
		})
	}
}

func TestManager_CreateTask_OverlapBoundaries(t *testing.T) {
	m := manager.New()

	a, err := m.CreateTask(timedTask("A", 0, time.Hour))
	require.NoError(t, err)

	_, err = m.CreateTask(timedTask("B", time.Hour, time.Hour))
	assert.ErrorIs(t, err, domain.ErrOverlap, "touching boundary should be rejected")

	_, err = m.CreateTask(timedTask("C", 30*time.Minute, time.Hour))
	assert.ErrorIs(t, err, domain.ErrOverlap)

	d, err := m.CreateTask(timedTask("D", 2*time.Hour, time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 2, d.ID, "rejected creates must not consume ids")
	assert.Equal(t, []int{1, 2}, recordIDs(m.GetPrioritizedTasks()))
	assert.Len(t, m.GetAllTasks(), 2)
}

func TestManager_CreateSubtask_OverlapsTask(t *testing.T) {
	m := manager.New()
	_, err := m.CreateTask(timedTask("meeting", 0, time.Hour))
	require.NoError(t, err)
	epic := mustEpic(t, m, "epic")

	_, err = m.CreateSubtask(domain.Subtask{Task: timedTask("clash", 15*time.Minute, time.Minute), EpicID: epic.ID})
	require.ErrorIs(t, err, domain.ErrOverlap)

	assert.Empty(t, m.GetAllSubtasks())
	stored, err := m.GetEpicByID(epic.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.SubtaskIDs)
}

func TestManager_CreateSubtask_MissingEpic(t *testing.T) {
	m := manager.New()

	_, err := m.CreateSubtask(domain.Subtask{Task: domain.Task{Title: "orphan"}, EpicID: 42})

	require.ErrorIs(t, err, domain.ErrEpicNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, m.GetAllSubtasks())
}

func TestManager_CreateEpic_ResetsDerivedFields(t *testing.T) {
	m := manager.New()

	got, err := m.CreateEpic(domain.Epic{
		Task:       domain.Task{Title: "release", Status: domain.StatusDone, StartTime: base, Duration: time.Hour},
		End:        base.Add(time.Hour),
		SubtaskIDs: []int{7, 8},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusNew, got.Status)
	assert.True(t, got.StartTime.IsZero())
	assert.True(t, got.End.IsZero())
	assert.Zero(t, got.Duration)
	assert.Empty(t, got.SubtaskIDs)
	assert.NotNil(t, got.SubtaskIDs)
}

func TestManager_EpicStatusScenario(t *testing.T) {
	m := manager.New()
	epic := mustEpic(t, m, "E")

	s1 := mustSubtask(t, m, epic.ID, "S1", domain.StatusNew)
	s2 := mustSubtask(t, m, epic.ID, "S2", domain.StatusDone)
	got, err := m.GetEpicByID(epic.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.Equal(t, []int{s1.ID, s2.ID}, got.SubtaskIDs)

	s1.Status = domain.StatusDone
	_, err = m.UpdateSubtask(s1)
	require.NoError(t, err)
	got, _ = m.GetEpicByID(epic.ID)
	assert.Equal(t, domain.StatusDone, got.Status)

	_, err = m.RemoveSubtaskByID(s1.ID)
	require.NoError(t, err)
	got, _ = m.GetEpicByID(epic.ID)
	assert.Equal(t, domain.StatusDone, got.Status)
	assert.Equal(t, []int{s2.ID}, got.SubtaskIDs)

	_, err = m.RemoveSubtaskByID(s2.ID)
	require.NoError(t, err)
	got, _ = m.GetEpicByID(epic.ID)
	assert.Equal(t, domain.StatusNew, got.Status)
	assert.Empty(t, got.SubtaskIDs)
}

func TestAggregate_Status(t *testing.T) {
	tests := []struct {
		name     string
		statuses []domain.Status
		want     domain.Status
	}{
		{"no subtasks", nil, domain.StatusNew},
		{"all done", []domain.Status{domain.StatusDone, domain.StatusDone, domain.StatusDone}, domain.StatusDone},
		{"all new", []domain.Status{domain.StatusNew, domain.StatusNew}, domain.StatusNew},
		{"done and new", []domain.Status{domain.StatusDone, domain.StatusNew}, domain.StatusInProgress},
		{"any in progress", []domain.Status{domain.StatusNew, domain.StatusInProgress, domain.StatusDone}, domain.StatusInProgress},
		{"single in progress", []domain.Status{domain.StatusInProgress}, domain.StatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subtasks := make([]domain.Subtask, 0, len(tt.statuses))
			for i, s := range tt.statuses {
				subtasks = append(subtasks, domain.Subtask{Task: domain.Task{ID: i + 2, Title: "s", Status: s}, EpicID: 1})
			}
			epic := domain.Epic{Task: domain.Task{ID: 1, Title: "e", Status: domain.StatusDone}}

			manager.Aggregate(&epic, subtasks)

			assert.Equal(t, tt.want, epic.Status)
		})
	}
}

func TestAggregate_Schedule(t *testing.T) {
	subtasks := []domain.Subtask{
		{Task: domain.Task{ID: 2, Title: "late", StartTime: base.Add(3 * time.Hour), Duration: time.Hour}},
		{Task: domain.Task{ID: 3, Title: "unscheduled", Duration: 5 * time.Hour}},
		{Task: domain.Task{ID: 4, Title: "early", StartTime: base, Duration: 30 * time.Minute}},
	}
	epic := domain.Epic{Task: domain.Task{ID: 1, Title: "e"}}

	manager.Aggregate(&epic, subtasks)

	assert.Equal(t, base, epic.StartTime)
	assert.Equal(t, base.Add(4*time.Hour), epic.End)
	assert.Equal(t, 90*time.Minute, epic.Duration, "only scheduled subtasks count towards duration")

	// No scheduled subtasks leaves times empty
	epic = domain.Epic{Task: domain.Task{ID: 1, Title: "e", StartTime: base}, End: base}
	manager.Aggregate(&epic, subtasks[1:2])
	assert.True(t, epic.StartTime.IsZero())
	assert.True(t, epic.End.IsZero())
	assert.Zero(t, epic.Duration)
}

func TestManager_EpicScheduleFollowsSubtasks(t *testing.T) {
	m := manager.New()
	epic := mustEpic(t, m, "E")

	s1, err := m.CreateSubtask(domain.Subtask{Task: timedTask("S1", 0, time.Hour), EpicID: epic.ID})
	require.NoError(t, err)
	_, err = m.CreateSubtask(domain.Subtask{Task: timedTask("S2", 2*time.Hour, 30*time.Minute), EpicID: epic.ID})
	require.NoError(t, err)

	got, _ := m.GetEpicByID(epic.ID)
	assert.Equal(t, base, got.StartTime)
	assert.Equal(t, base.Add(150*time.Minute), got.End)
	assert.Equal(t, 90*time.Minute, got.Duration)

	// Moving S1 later shifts the epic start
	s1.StartTime = base.Add(30 * time.Minute)
	_, err = m.UpdateSubtask(s1)
	require.NoError(t, err)
	got, _ = m.GetEpicByID(epic.ID)
	assert.Equal(t, base.Add(30*time.Minute), got.StartTime)
}

func TestManager_UpdateTask(t *testing.T) {
	m := manager.New()
	a, err := m.CreateTask(timedTask("A", 0, time.Hour))
	require.NoError(t, err)
	b, err := m.CreateTask(timedTask("B", 2*time.Hour, time.Hour))
	require.NoError(t, err)

	t.Run("shift within own window", func(t *testing.T) {
		a.StartTime = base.Add(15 * time.Minute)
		a.Status = domain.StatusInProgress
		got, err := m.UpdateTask(a)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, got.Status)
	})

	t.Run("collision leaves stored task untouched", func(t *testing.T) {
		moved := b
		moved.StartTime = base.Add(30 * time.Minute)
		moved.Title = "B moved"

		_, err := m.UpdateTask(moved)
		require.ErrorIs(t, err, domain.ErrOverlap)

		stored, err := m.GetTaskByID(b.ID)
		require.NoError(t, err)
		assert.Equal(t, "B", stored.Title)
		assert.Equal(t, base.Add(2*time.Hour), stored.StartTime)
	})

	t.Run("unscheduling removes from prioritized", func(t *testing.T) {
		b.StartTime = time.Time{}
		_, err := m.UpdateTask(b)
		require.NoError(t, err)
		assert.Equal(t, []int{a.ID}, recordIDs(m.GetPrioritizedTasks()))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := m.UpdateTask(domain.Task{ID: 99, Title: "ghost"})
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestManager_UpdateSubtask_KeepsEpic(t *testing.T) {
	m := manager.New()
	e1 := mustEpic(t, m, "E1")
	e2 := mustEpic(t, m, "E2")
	s := mustSubtask(t, m, e1.ID, "S", domain.StatusNew)

	s.EpicID = e2.ID
	s.Title = "renamed"
	got, err := m.UpdateSubtask(s)
	require.NoError(t, err)

	assert.Equal(t, e1.ID, got.EpicID)
	assert.Len(t, m.GetSubtasksByEpicID(e1.ID), 1)
	assert.Empty(t, m.GetSubtasksByEpicID(e2.ID))
	assert.Equal(t, "renamed", m.GetSubtasksByEpicID(e1.ID)[0].Title)
}

func TestManager_UpdateSubtask_OverlapLeavesStateUntouched(t *testing.T) {
	// Setup
	m := manager.New()
	_, err := m.CreateTask(timedTask("A", 2*time.Hour, time.Hour))
	require.NoError(t, err)
	epic := mustEpic(t, m, "E")
	sub, err := m.CreateSubtask(domain.Subtask{Task: timedTask("S", 0, 30*time.Minute), EpicID: epic.ID})
	require.NoError(t, err)

	// Execute
	moved := sub
	moved.Title = "S moved"
	moved.Status = domain.StatusDone
	moved.StartTime = base.Add(2*time.Hour + 30*time.Minute)
	_, err = m.UpdateSubtask(moved)

	// Assert
	require.ErrorIs(t, err, domain.ErrOverlap)

	stored := m.GetSubtasksByEpicID(epic.ID)
	require.Len(t, stored, 1)
	assert.Equal(t, "S", stored[0].Title)
	assert.Equal(t, domain.StatusNew, stored[0].Status)
	assert.Equal(t, base, stored[0].StartTime)

	epics := m.GetAllEpics()
	require.Len(t, epics, 1)
	assert.Equal(t, domain.StatusNew, epics[0].Status)
	assert.Equal(t, base, epics[0].StartTime)
	assert.Equal(t, base.Add(30*time.Minute), epics[0].End)
	assert.Equal(t, 30*time.Minute, epics[0].Duration)

	assert.Equal(t, []int{sub.ID, 1}, recordIDs(m.GetPrioritizedTasks()))
}

func TestManager_UpdateEpic_OnlyTitleAndDescription(t *testing.T) {
	m := manager.New()
	epic := mustEpic(t, m, "E")
	mustSubtask(t, m, epic.ID, "S", domain.StatusDone)

	got, err := m.UpdateEpic(domain.Epic{
		Task: domain.Task{ID: epic.ID, Title: "E2", Description: "d", Status: domain.StatusNew, StartTime: base},
	})
	require.NoError(t, err)

	assert.Equal(t, "E2", got.Title)
	assert.Equal(t, "d", got.Description)
	assert.Equal(t, domain.StatusDone, got.Status)
	assert.True(t, got.StartTime.IsZero())
	assert.Len(t, got.SubtaskIDs, 1)

	_, err = m.UpdateEpic(domain.Epic{Task: domain.Task{ID: 99, Title: "x"}})
	assert.ErrorIs(t, err, domain.ErrEpicNotFound)
}

func TestManager_RemoveEpic_Cascades(t *testing.T) {
	m := manager.New()
	epic := mustEpic(t, m, "E")
	s1, err := m.CreateSubtask(domain.Subtask{Task: timedTask("S1", 0, time.Hour), EpicID: epic.ID})
	require.NoError(t, err)
	s2 := mustSubtask(t, m, epic.ID, "S2", "")
	_, _ = m.GetSubtaskByID(s1.ID)
	_, _ = m.GetSubtaskByID(s2.ID)
	_, _ = m.GetEpicByID(epic.ID)

	removed, err := m.RemoveEpicByID(epic.ID)
	require.NoError(t, err)

	assert.Equal(t, []int{s1.ID, s2.ID}, removed.SubtaskIDs)
	assert.Empty(t, m.GetAllEpics())
	assert.Empty(t, m.GetAllSubtasks())
	assert.Empty(t, m.GetHistory())
	assert.Empty(t, m.GetPrioritizedTasks())
	_, err = m.GetSubtaskByID(s1.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = m.RemoveEpicByID(epic.ID)
	assert.ErrorIs(t, err, domain.ErrEpicNotFound)

	// The freed window can be booked again
	_, err = m.CreateTask(timedTask("reuse", 0, time.Hour))
	assert.NoError(t, err)
}

func TestManager_RemoveTask(t *testing.T) {
	m := manager.New()
	task, err := m.CreateTask(timedTask("A", 0, time.Hour))
	require.NoError(t, err)
	_, _ = m.GetTaskByID(task.ID)

	removed, err := m.RemoveTaskByID(task.ID)
	require.NoError(t, err)

	assert.Equal(t, task, removed)
	assert.Empty(t, m.GetHistory())
	assert.Empty(t, m.GetPrioritizedTasks())
	_, err = m.RemoveTaskByID(task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestManager_RemoveAll(t *testing.T) {
	setup := func(t *testing.T) (*manager.Manager, domain.Epic) {
		t.Helper()
		m := manager.New()
		_, err := m.CreateTask(timedTask("T", 0, time.Hour))
		require.NoError(t, err)
		epic := mustEpic(t, m, "E")
		_, err = m.CreateSubtask(domain.Subtask{Task: timedTask("S", 2*time.Hour, time.Hour), EpicID: epic.ID})
		require.NoError(t, err)
		return m, epic
	}

	t.Run("tasks", func(t *testing.T) {
		m, _ := setup(t)
		require.NoError(t, m.RemoveAllTasks())

		assert.Empty(t, m.GetAllTasks())
		assert.Len(t, m.GetAllSubtasks(), 1)
		assert.Equal(t, []int{3}, recordIDs(m.GetPrioritizedTasks()))
	})

	t.Run("subtasks resets epics", func(t *testing.T) {
		m, epic := setup(t)
		require.NoError(t, m.RemoveAllSubtasks())

		assert.Empty(t, m.GetAllSubtasks())
		got, err := m.GetEpicByID(epic.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusNew, got.Status)
		assert.Empty(t, got.SubtaskIDs)
		assert.True(t, got.StartTime.IsZero())
		assert.Equal(t, []int{1}, recordIDs(m.GetPrioritizedTasks()))
	})

	t.Run("epics cascade", func(t *testing.T) {
		m, _ := setup(t)
		require.NoError(t, m.RemoveAllEpics())

		assert.Empty(t, m.GetAllEpics())
		assert.Empty(t, m.GetAllSubtasks())
		assert.Len(t, m.GetAllTasks(), 1)
	})
}

func TestManager_History(t *testing.T) {
	m := manager.New()
	task, _ := m.CreateTask(domain.Task{Title: "T"})
	epic := mustEpic(t, m, "E")
	sub := mustSubtask(t, m, epic.ID, "S", "")

	_, _ = m.GetTaskByID(task.ID)
	_, _ = m.GetEpicByID(epic.ID)
	_, _ = m.GetSubtaskByID(sub.ID)
	_, _ = m.GetTaskByID(task.ID)
	_, _ = m.GetTaskByID(99)

	got := m.GetHistory()
	assert.Equal(t, []int{epic.ID, sub.ID, task.ID}, recordIDs(got))
	assert.Equal(t, domain.KindEpic, got[0].Kind())

	// GetAll does not count as an access
	_ = m.GetAllSubtasks()
	assert.Len(t, m.GetHistory(), 3)

	_, err := m.RemoveSubtaskByID(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{epic.ID, task.ID}, recordIDs(m.GetHistory()))
}

func TestManager_CopyIsolation(t *testing.T) {
	m := manager.New()
	epic := mustEpic(t, m, "E")
	mustSubtask(t, m, epic.ID, "S", "")

	got, err := m.GetEpicByID(epic.ID)
	require.NoError(t, err)
	got.SubtaskIDs[0] = 99
	got.Title = "changed"

	again, err := m.GetEpicByID(epic.ID)
	require.NoError(t, err)
	assert.Equal(t, "E", again.Title)
	assert.Equal(t, []int{2}, again.SubtaskIDs)

	all := m.GetAllEpics()
	all[0].SubtaskIDs = append(all[0].SubtaskIDs, 7)
	assert.Equal(t, []int{2}, m.GetAllEpics()[0].SubtaskIDs)
}

func TestManager_PrioritizedOrdering(t *testing.T) {
	m := manager.New()
	late, _ := m.CreateTask(timedTask("late", 5*time.Hour, time.Hour))
	_, _ = m.CreateTask(domain.Task{Title: "untimed"})
	epic := mustEpic(t, m, "E")
	early, err := m.CreateSubtask(domain.Subtask{Task: timedTask("early", 0, time.Hour), EpicID: epic.ID})
	require.NoError(t, err)
	mid, _ := m.CreateTask(timedTask("mid", 2*time.Hour, time.Hour))

	got := m.GetPrioritizedTasks()

	assert.Equal(t, []int{early.ID, mid.ID, late.ID}, recordIDs(got))
	assert.Equal(t, domain.KindSubtask, got[0].Kind())
}

func TestManager_GetSubtasksByEpicID_MissingEpic(t *testing.T) {
	m := manager.New()

	got := m.GetSubtasksByEpicID(5)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestManager_WriteThrough(t *testing.T) {
	store := testutil.NewMockStore()
	m := manager.New(manager.WithStore(store))

	_, err := m.CreateTask(domain.Task{Title: "T"})
	require.NoError(t, err)
	epic := mustEpic(t, m, "E")
	mustSubtask(t, m, epic.ID, "S", "")

	assert.Equal(t, 3, store.SaveCalls)
	require.Len(t, store.Snapshot.Tasks, 1)
	require.Len(t, store.Snapshot.Epics, 1)
	require.Len(t, store.Snapshot.Subtasks, 1)
	assert.Equal(t, []int{3}, store.Snapshot.Epics[0].SubtaskIDs)

	// Reads do not write
	_, _ = m.GetTaskByID(1)
	assert.Equal(t, 3, store.SaveCalls)
}

func TestManager_WriteThrough_SaveError(t *testing.T) {
	saveErr := errors.New("disk full")
	store := testutil.NewMockStore()
	store.SaveErr = saveErr
	m := manager.New(manager.WithStore(store))

	got, err := m.CreateTask(domain.Task{Title: "T"})

	require.ErrorIs(t, err, saveErr)
	assert.Contains(t, err.Error(), "save store")
	assert.Equal(t, 1, got.ID)
	assert.Len(t, m.GetAllTasks(), 1, "in-memory state is kept")
}

func TestLoad(t *testing.T) {
	store := testutil.NewMockStore()
	store.Snapshot = &domain.Snapshot{
		Tasks: []domain.Task{
			{ID: 1, Title: "T", Status: domain.StatusNew, StartTime: base, Duration: time.Hour},
		},
		Epics: []domain.Epic{
			{Task: domain.Task{ID: 2, Title: "E", Status: domain.StatusNew}},
		},
		Subtasks: []domain.Subtask{
			{Task: domain.Task{ID: 5, Title: "S2", Status: domain.StatusDone}, EpicID: 2},
			{Task: domain.Task{ID: 3, Title: "S1", Status: domain.StatusNew, StartTime: base.Add(2 * time.Hour)}, EpicID: 2},
		},
	}

	m, err := manager.Load(store)
	require.NoError(t, err)

	epic, err := m.GetEpicByID(2)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5}, epic.SubtaskIDs)
	assert.Equal(t, domain.StatusInProgress, epic.Status)
	assert.Equal(t, base.Add(2*time.Hour), epic.StartTime)
	assert.Equal(t, []int{1, 3}, recordIDs(m.GetPrioritizedTasks()))

	next, err := m.CreateTask(domain.Task{Title: "next"})
	require.NoError(t, err)
	assert.Equal(t, 6, next.ID)
}

func TestLoad_CorruptStartsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		store *testutil.MockStore
	}{
		{
			name:  "store reports corruption",
			store: &testutil.MockStore{LoadErr: domain.ErrCorruptStore},
		},
		{
			name: "orphan subtask",
			store: &testutil.MockStore{Snapshot: &domain.Snapshot{
				Subtasks: []domain.Subtask{{Task: domain.Task{ID: 1, Title: "S"}, EpicID: 9}},
			}},
		},
		{
			name: "overlapping tasks",
			store: &testutil.MockStore{Snapshot: &domain.Snapshot{
				Tasks: []domain.Task{
					{ID: 1, Title: "A", StartTime: base, Duration: time.Hour},
					{ID: 2, Title: "B", StartTime: base.Add(time.Hour), Duration: time.Hour},
				},
			}},
		},
		{
			name: "duplicate id",
			store: &testutil.MockStore{Snapshot: &domain.Snapshot{
				Tasks: []domain.Task{{ID: 1, Title: "A"}},
				Epics: []domain.Epic{{Task: domain.Task{ID: 1, Title: "E"}}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := manager.Load(tt.store)
			require.NoError(t, err)

			stats := m.Stats()
			assert.Zero(t, stats.Tasks+stats.Epics+stats.Subtasks)
			assert.Zero(t, stats.Scheduled)

			task, err := m.CreateTask(domain.Task{Title: "fresh"})
			require.NoError(t, err)
			assert.Equal(t, 1, task.ID)
		})
	}
}

func TestLoad_IOErrorReturned(t *testing.T) {
	ioErr := errors.New("permission denied")
	store := &testutil.MockStore{LoadErr: ioErr}

	m, err := manager.Load(store)

	require.ErrorIs(t, err, ioErr)
	assert.Nil(t, m)
}

func TestManager_Stats(t *testing.T) {
	m := manager.New()
	_, _ = m.CreateTask(timedTask("T", 0, time.Hour))
	_, _ = m.CreateTask(domain.Task{Title: "untimed"})
	epic := mustEpic(t, m, "E")
	mustSubtask(t, m, epic.ID, "S", "")
	_, _ = m.GetEpicByID(epic.ID)

	assert.Equal(t, manager.Stats{Tasks: 2, Epics: 1, Subtasks: 1, Scheduled: 1, History: 1}, m.Stats())
}
