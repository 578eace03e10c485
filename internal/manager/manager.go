// Package manager owns every task, epic and subtask and keeps the derived
// state around them consistent: epic aggregation, the access history and
// the scheduling index.
package manager

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/history"
	"github.com/runoshun/taskflow/internal/schedule"
)

// Manager is the task repository.
// Every exported method holds one mutex for its whole duration, so the
// record maps, the history and the index are never observed mid-update.
type Manager struct {
	tasks    map[int]*domain.Task
	epics    map[int]*domain.Epic
	subtasks map[int]*domain.Subtask
	history  *history.Tracker
	schedule *schedule.Index
	store    domain.Store
	logger   *slog.Logger
	nextID   int
	mu       sync.Mutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithStore enables write-through persistence to store.
func WithStore(store domain.Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New returns an empty Manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		tasks:    make(map[int]*domain.Task),
		epics:    make(map[int]*domain.Epic),
		subtasks: make(map[int]*domain.Subtask),
		history:  history.New(),
		schedule: schedule.New(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Stats summarizes the manager's contents.
type Stats struct {
	Tasks     int `json:"tasks"`
	Epics     int `json:"epics"`
	Subtasks  int `json:"subtasks"`
	Scheduled int `json:"scheduled"`
	History   int `json:"history"`
}

// Stats returns record counts.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{
		Tasks:     len(m.tasks),
		Epics:     len(m.epics),
		Subtasks:  len(m.subtasks),
		Scheduled: m.schedule.Len(),
		History:   m.history.Len(),
	}
}

// === Create ===

// CreateTask stores a copy of task under a new id.
// A scheduled task that collides with the index fails with ErrOverlap and
// nothing is stored.
func (m *Manager) CreateTask(task domain.Task) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := normalize(&task); err != nil {
		return domain.Task{}, err
	}
	task.ID = m.nextID + 1
	if m.schedule.WouldOverlap(task) {
		return domain.Task{}, domain.ErrOverlap
	}

	m.nextID = task.ID
	stored := task
	m.tasks[task.ID] = &stored
	m.schedule.Insert(stored)
	m.logger.Debug("task created", "id", task.ID, "title", task.Title)

	return task, m.persist()
}

// CreateEpic stores a new epic. Status, schedule and subtask list are reset;
// they only ever come from subtasks.
func (m *Manager) CreateEpic(epic domain.Epic) (domain.Epic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := checkTitle(epic.Title); err != nil {
		return domain.Epic{}, err
	}
	m.nextID++
	epic.ID = m.nextID
	epic.SubtaskIDs = []int{}
	epic.Reset()

	stored := epic.Copy()
	m.epics[epic.ID] = &stored
	m.logger.Debug("epic created", "id", epic.ID, "title", epic.Title)

	return epic, m.persist()
}

// CreateSubtask stores a new subtask and attaches it to its epic.
func (m *Manager) CreateSubtask(subtask domain.Subtask) (domain.Subtask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	epic, ok := m.epics[subtask.EpicID]
	if !ok {
		return domain.Subtask{}, domain.ErrEpicNotFound
	}
	if err := normalize(&subtask.Task); err != nil {
		return domain.Subtask{}, err
	}
	subtask.ID = m.nextID + 1
	if m.schedule.WouldOverlap(subtask) {
		return domain.Subtask{}, domain.ErrOverlap
	}

	m.nextID = subtask.ID
	stored := subtask
	m.subtasks[subtask.ID] = &stored
	m.schedule.Insert(stored)
	epic.SubtaskIDs = append(epic.SubtaskIDs, subtask.ID)
	m.refreshEpic(epic)
	m.logger.Debug("subtask created", "id", subtask.ID, "epic", subtask.EpicID, "title", subtask.Title)

	return subtask, m.persist()
}

// === Update ===

// UpdateTask replaces the mutable fields of the stored task with task's.
// On ErrOverlap the stored task is left as it was.
func (m *Manager) UpdateTask(task domain.Task) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.tasks[task.ID]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	if err := normalize(&task); err != nil {
		return domain.Task{}, err
	}
	if m.schedule.WouldOverlap(task) {
		return domain.Task{}, domain.ErrOverlap
	}

	*current = task
	m.schedule.Insert(*current)
	m.logger.Debug("task updated", "id", task.ID)

	return task, m.persist()
}

// UpdateEpic replaces the epic's title and description.
// Derived fields are recomputed from the subtasks, whatever the input holds.
func (m *Manager) UpdateEpic(epic domain.Epic) (domain.Epic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.epics[epic.ID]
	if !ok {
		return domain.Epic{}, domain.ErrEpicNotFound
	}
	if err := checkTitle(epic.Title); err != nil {
		return domain.Epic{}, err
	}

	current.Title = epic.Title
	current.Description = epic.Description
	m.refreshEpic(current)
	m.logger.Debug("epic updated", "id", epic.ID)

	return current.Copy(), m.persist()
}

// UpdateSubtask replaces the mutable fields of the stored subtask.
// The owning epic never changes; a different EpicID in the input is ignored.
func (m *Manager) UpdateSubtask(subtask domain.Subtask) (domain.Subtask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.subtasks[subtask.ID]
	if !ok {
		return domain.Subtask{}, domain.ErrSubtaskNotFound
	}
	if err := normalize(&subtask.Task); err != nil {
		return domain.Subtask{}, err
	}
	subtask.EpicID = current.EpicID
	if m.schedule.WouldOverlap(subtask) {
		return domain.Subtask{}, domain.ErrOverlap
	}

	*current = subtask
	m.schedule.Insert(*current)
	if epic, ok := m.epics[current.EpicID]; ok {
		m.refreshEpic(epic)
	}
	m.logger.Debug("subtask updated", "id", subtask.ID)

	return subtask, m.persist()
}

// === Remove ===

// RemoveTaskByID deletes a task and returns it.
func (m *Manager) RemoveTaskByID(id int) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	delete(m.tasks, id)
	m.history.Remove(id)
	m.schedule.Remove(id)
	m.logger.Debug("task removed", "id", id)

	return *task, m.persist()
}

// RemoveEpicByID deletes an epic together with all of its subtasks.
func (m *Manager) RemoveEpicByID(id int) (domain.Epic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	epic, ok := m.epics[id]
	if !ok {
		return domain.Epic{}, domain.ErrEpicNotFound
	}
	delete(m.epics, id)
	m.history.Remove(id)
	for _, sid := range epic.SubtaskIDs {
		m.dropSubtask(sid)
	}
	m.logger.Debug("epic removed", "id", id, "subtasks", len(epic.SubtaskIDs))

	return epic.Copy(), m.persist()
}

// RemoveSubtaskByID deletes a subtask and recomputes its epic.
func (m *Manager) RemoveSubtaskByID(id int) (domain.Subtask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subtask, ok := m.subtasks[id]
	if !ok {
		return domain.Subtask{}, domain.ErrSubtaskNotFound
	}
	m.dropSubtask(id)
	if epic, ok := m.epics[subtask.EpicID]; ok {
		epic.SubtaskIDs = slices.DeleteFunc(epic.SubtaskIDs, func(sid int) bool { return sid == id })
		m.refreshEpic(epic)
	}
	m.logger.Debug("subtask removed", "id", id, "epic", subtask.EpicID)

	return *subtask, m.persist()
}

// RemoveAllTasks deletes every task.
func (m *Manager) RemoveAllTasks() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id := range m.tasks {
		m.history.Remove(id)
		m.schedule.Remove(id)
	}
	clear(m.tasks)
	m.logger.Debug("all tasks removed")

	return m.persist()
}

// RemoveAllEpics deletes every epic and, with them, every subtask.
func (m *Manager) RemoveAllEpics() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id := range m.epics {
		m.history.Remove(id)
	}
	clear(m.epics)
	for id := range m.subtasks {
		m.dropSubtask(id)
	}
	m.logger.Debug("all epics removed")

	return m.persist()
}

// RemoveAllSubtasks deletes every subtask and resets every epic to the
// empty state. The epics themselves are kept.
func (m *Manager) RemoveAllSubtasks() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id := range m.subtasks {
		m.dropSubtask(id)
	}
	for _, epic := range m.epics {
		epic.SubtaskIDs = []int{}
		m.refreshEpic(epic)
	}
	m.logger.Debug("all subtasks removed")

	return m.persist()
}

// dropSubtask removes a subtask from storage, history and index.
// The caller is responsible for the owning epic's list.
func (m *Manager) dropSubtask(id int) {
	delete(m.subtasks, id)
	m.history.Remove(id)
	m.schedule.Remove(id)
}

// === Read ===

// GetTaskByID returns a copy of the task and records the access.
func (m *Manager) GetTaskByID(id int) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	m.history.Add(*task)
	return *task, nil
}

// GetEpicByID returns a copy of the epic and records the access.
func (m *Manager) GetEpicByID(id int) (domain.Epic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	epic, ok := m.epics[id]
	if !ok {
		return domain.Epic{}, domain.ErrEpicNotFound
	}
	m.history.Add(*epic)
	return epic.Copy(), nil
}

// GetSubtaskByID returns a copy of the subtask and records the access.
func (m *Manager) GetSubtaskByID(id int) (domain.Subtask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subtask, ok := m.subtasks[id]
	if !ok {
		return domain.Subtask{}, domain.ErrSubtaskNotFound
	}
	m.history.Add(*subtask)
	return *subtask, nil
}

// GetAllTasks returns copies of every task in creation order.
func (m *Manager) GetAllTasks() []domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allTasks()
}

// GetAllEpics returns copies of every epic in creation order.
func (m *Manager) GetAllEpics() []domain.Epic {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allEpics()
}

// GetAllSubtasks returns copies of every subtask in creation order.
func (m *Manager) GetAllSubtasks() []domain.Subtask {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allSubtasks()
}

// GetSubtasksByEpicID returns the epic's subtasks in the epic's order.
// A missing epic yields an empty slice.
func (m *Manager) GetSubtasksByEpicID(epicID int) []domain.Subtask {
	m.mu.Lock()
	defer m.mu.Unlock()

	epic, ok := m.epics[epicID]
	if !ok {
		return []domain.Subtask{}
	}
	out := make([]domain.Subtask, 0, len(epic.SubtaskIDs))
	for _, id := range epic.SubtaskIDs {
		if s, ok := m.subtasks[id]; ok {
			out = append(out, *s)
		}
	}
	return out
}

// GetPrioritizedTasks returns every scheduled task and subtask by start time.
func (m *Manager) GetPrioritizedTasks() []domain.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schedule.All()
}

// GetHistory returns the viewed records, oldest access first.
func (m *Manager) GetHistory() []domain.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.History()
}

func (m *Manager) allTasks() []domain.Task {
	out := make([]domain.Task, 0, len(m.tasks))
	for _, id := range sortedKeys(m.tasks) {
		out = append(out, *m.tasks[id])
	}
	return out
}

func (m *Manager) allEpics() []domain.Epic {
	out := make([]domain.Epic, 0, len(m.epics))
	for _, id := range sortedKeys(m.epics) {
		out = append(out, m.epics[id].Copy())
	}
	return out
}

func (m *Manager) allSubtasks() []domain.Subtask {
	out := make([]domain.Subtask, 0, len(m.subtasks))
	for _, id := range sortedKeys(m.subtasks) {
		out = append(out, *m.subtasks[id])
	}
	return out
}

// sortedKeys returns map keys ascending. Ids grow monotonically, so this is
// creation order.
func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// normalize validates caller input and fills the default status.
func normalize(t *domain.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.Status == "" {
		t.Status = domain.StatusNew
	}
	return nil
}

// checkTitle validates epic input, whose other fields are derived.
func checkTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return domain.ErrEmptyTitle
	}
	return nil
}

// persist writes the full record set through to the store, if any.
// The in-memory change is kept even when the write fails.
func (m *Manager) persist() error {
	if m.store == nil {
		return nil
	}
	snap := &domain.Snapshot{
		Tasks:    m.allTasks(),
		Epics:    m.allEpics(),
		Subtasks: m.allSubtasks(),
	}
	if err := m.store.SaveAll(snap); err != nil {
		m.logger.Error("save failed", "error", err)
		return fmt.Errorf("save store: %w", err)
	}
	return nil
}
