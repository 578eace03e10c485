package manager

import (
	"errors"
	"fmt"
	"slices"

	"github.com/runoshun/taskflow/internal/domain"
)

// Load builds a Manager from the records held by store and keeps store for
// write-through. A corrupt store is logged and the manager starts empty;
// any other load error is returned.
func Load(store domain.Store, opts ...Option) (*Manager, error) {
	m := New(append([]Option{WithStore(store)}, opts...)...)

	snap, err := store.LoadAll()
	if err == nil {
		err = m.restore(snap)
	}
	if err != nil {
		if !errors.Is(err, domain.ErrCorruptStore) {
			return nil, fmt.Errorf("load store: %w", err)
		}
		m.logger.Warn("ignoring unreadable store, starting empty", "error", err)
		m.reset()
		return m, nil
	}

	m.logger.Debug("store loaded",
		"tasks", len(m.tasks), "epics", len(m.epics), "subtasks", len(m.subtasks))
	return m, nil
}

// restore installs snap into an empty manager.
// Snapshots that break a record invariant are reported as ErrCorruptStore.
func (m *Manager) restore(snap *domain.Snapshot) error {
	if snap.Empty() {
		return nil
	}

	seen := make(map[int]domain.Kind)
	claim := func(id int, kind domain.Kind) error {
		if id <= 0 {
			return fmt.Errorf("%w: %s with invalid id %d", domain.ErrCorruptStore, kind, id)
		}
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("%w: id %d used by %s and %s", domain.ErrCorruptStore, id, prev, kind)
		}
		seen[id] = kind
		return nil
	}

	for _, t := range snap.Tasks {
		if err := claim(t.ID, domain.KindTask); err != nil {
			return err
		}
		stored := t
		m.tasks[t.ID] = &stored
	}
	for _, e := range snap.Epics {
		if err := claim(e.ID, domain.KindEpic); err != nil {
			return err
		}
		stored := e.Copy()
		stored.SubtaskIDs = []int{}
		m.epics[e.ID] = &stored
	}
	for _, s := range snap.Subtasks {
		if err := claim(s.ID, domain.KindSubtask); err != nil {
			return err
		}
		if _, ok := m.epics[s.EpicID]; !ok {
			return fmt.Errorf("%w: subtask %d references missing epic %d",
				domain.ErrCorruptStore, s.ID, s.EpicID)
		}
		stored := s
		m.subtasks[s.ID] = &stored
	}

	for _, id := range sortedKeys(m.subtasks) {
		s := m.subtasks[id]
		epic := m.epics[s.EpicID]
		epic.SubtaskIDs = append(epic.SubtaskIDs, id)
	}
	for _, epic := range m.epics {
		m.refreshEpic(epic)
	}

	timed := make([]domain.Record, 0, len(m.tasks)+len(m.subtasks))
	for _, t := range m.tasks {
		timed = append(timed, *t)
	}
	for _, s := range m.subtasks {
		timed = append(timed, *s)
	}
	slices.SortFunc(timed, func(a, b domain.Record) int { return a.Base().ID - b.Base().ID })
	for _, rec := range timed {
		if m.schedule.WouldOverlap(rec) {
			return fmt.Errorf("%w: %s %d overlaps another scheduled item",
				domain.ErrCorruptStore, rec.Kind(), rec.Base().ID)
		}
		m.schedule.Insert(rec)
	}

	m.nextID = snap.MaxID()
	return nil
}

// reset drops everything restore may have installed.
func (m *Manager) reset() {
	clear(m.tasks)
	clear(m.epics)
	clear(m.subtasks)
	m.history.Clear()
	m.schedule.Clear()
	m.nextID = 0
}
