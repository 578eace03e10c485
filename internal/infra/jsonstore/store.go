// Package jsonstore provides a JSON file-based implementation of domain.Store.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/runoshun/taskflow/internal/domain"
)

// storeData represents the JSON file structure.
// Fields are ordered to minimize memory padding.
type storeData struct {
	Tasks    []taskData    `json:"tasks"`
	Epics    []epicData    `json:"epics"`
	Subtasks []subtaskData `json:"subtasks"`
	Meta     meta          `json:"meta"`
}

// meta contains store metadata.
type meta struct {
	SavedAt time.Time `json:"savedAt"`
	NextID  int       `json:"nextID"`
}

// taskData is the JSON representation of the fields every record shares.
// Fields are ordered to minimize memory padding.
type taskData struct {
	StartTime   *time.Time `json:"startTime,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	ID          int        `json:"id"`
	Duration    int64      `json:"durationMinutes,omitempty"`
}

type epicData struct {
	taskData
	SubtaskIDs []int `json:"subtaskIds,omitempty"`
}

type subtaskData struct {
	taskData
	EpicID int `json:"epicId"`
}

// Store implements domain.Store using a JSON file.
type Store struct {
	path     string
	lockPath string
}

// Ensure Store implements domain.Store.
var _ domain.Store = (*Store)(nil)

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first write.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// LoadAll reads every record under a shared lock.
func (s *Store) LoadAll() (*domain.Snapshot, error) {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return nil, err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	return toSnapshot(data)
}

// SaveAll replaces the file contents under an exclusive lock.
func (s *Store) SaveAll(snap *domain.Snapshot) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	return s.write(fromSnapshot(snap))
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	// Ensure lock file directory exists
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &storeData{}, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("%w: parse store file: %v", domain.ErrCorruptStore, err)
	}
	return &data, nil
}

func (s *Store) write(data *storeData) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

func fromTask(t domain.Task) taskData {
	d := taskData{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Duration:    domain.Minutes(t.Duration),
	}
	if t.Scheduled() {
		start := t.StartTime
		d.StartTime = &start
	}
	return d
}

func (d taskData) toTask() (domain.Task, error) {
	status, err := domain.ParseStatus(d.Status)
	if err != nil {
		return domain.Task{}, fmt.Errorf("%w: record %d: %v", domain.ErrCorruptStore, d.ID, err)
	}
	duration, err := domain.FromMinutes(d.Duration)
	if err != nil {
		return domain.Task{}, fmt.Errorf("%w: record %d: %v", domain.ErrCorruptStore, d.ID, err)
	}
	t := domain.Task{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Status:      status,
		Duration:    duration,
	}
	if d.StartTime != nil {
		t.StartTime = d.StartTime.Local()
	}
	return t, nil
}

func fromSnapshot(snap *domain.Snapshot) *storeData {
	data := &storeData{
		Tasks:    make([]taskData, 0, len(snap.Tasks)),
		Epics:    make([]epicData, 0, len(snap.Epics)),
		Subtasks: make([]subtaskData, 0, len(snap.Subtasks)),
		Meta:     meta{NextID: snap.MaxID() + 1, SavedAt: time.Now().UTC().Truncate(time.Second)},
	}
	for _, t := range snap.Tasks {
		data.Tasks = append(data.Tasks, fromTask(t))
	}
	for _, e := range snap.Epics {
		// Epic schedule and status are derived on load; only identity is kept.
		data.Epics = append(data.Epics, epicData{
			taskData:   taskData{ID: e.ID, Title: e.Title, Description: e.Description, Status: string(e.Status)},
			SubtaskIDs: e.SubtaskIDs,
		})
	}
	for _, st := range snap.Subtasks {
		data.Subtasks = append(data.Subtasks, subtaskData{taskData: fromTask(st.Task), EpicID: st.EpicID})
	}
	return data
}

func toSnapshot(data *storeData) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{}
	for _, d := range data.Tasks {
		t, err := d.toTask()
		if err != nil {
			return nil, err
		}
		snap.Tasks = append(snap.Tasks, t)
	}
	for _, d := range data.Epics {
		t, err := d.toTask()
		if err != nil {
			return nil, err
		}
		snap.Epics = append(snap.Epics, domain.Epic{Task: t, SubtaskIDs: d.SubtaskIDs})
	}
	for _, d := range data.Subtasks {
		t, err := d.toTask()
		if err != nil {
			return nil, err
		}
		snap.Subtasks = append(snap.Subtasks, domain.Subtask{Task: t, EpicID: d.EpicID})
	}
	return snap, nil
}
