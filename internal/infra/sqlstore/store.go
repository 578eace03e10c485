// Package sqlstore persists records in a SQLite database through GORM.
package sqlstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/runoshun/taskflow/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// taskRow is the single table holding every record kind.
type taskRow struct {
	StartTime   *time.Time
	EndTime     *time.Time
	EpicID      *int   `gorm:"index"`
	Kind        string `gorm:"size:16;not null;index"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	Status      string `gorm:"size:16;not null"`
	ID          int    `gorm:"primaryKey;autoIncrement:false"`
	Duration    int64  `gorm:"column:duration_minutes;not null;default:0"`
}

// TableName implements gorm's Tabler.
func (taskRow) TableName() string { return "tasks" }

// Store implements domain.Store on a SQLite database.
type Store struct {
	db *gorm.DB
}

// Ensure Store implements domain.Store.
var _ domain.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and migrates the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("sqlstore: create directory: %w", err)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", path, err)
	}
	return NewWithDB(db)
}

// NewWithDB wraps an existing connection and migrates the schema.
func NewWithDB(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&taskRow{}); err != nil {
		return nil, fmt.Errorf("sqlstore: auto-migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LoadAll reads every row ordered by id.
func (s *Store) LoadAll() (*domain.Snapshot, error) {
	var rows []taskRow
	if err := s.db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("sqlstore: load: %w", err)
	}

	snap := &domain.Snapshot{}
	for _, r := range rows {
		if err := r.appendTo(snap); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrCorruptStore, r.ID, err)
		}
	}
	return snap, nil
}

// SaveAll replaces every row inside one transaction.
func (s *Store) SaveAll(snap *domain.Snapshot) error {
	rows := toRows(snap)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&taskRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 100).Error
	})
	if err != nil {
		return fmt.Errorf("sqlstore: save: %w", err)
	}
	return nil
}

func toRows(snap *domain.Snapshot) []taskRow {
	rows := make([]taskRow, 0, len(snap.Tasks)+len(snap.Epics)+len(snap.Subtasks))
	for _, t := range snap.Tasks {
		rows = append(rows, newRow(t, domain.KindTask))
	}
	for _, e := range snap.Epics {
		r := newRow(e.Task, domain.KindEpic)
		r.EndTime = timePtr(e.End)
		rows = append(rows, r)
	}
	for _, st := range snap.Subtasks {
		r := newRow(st.Task, domain.KindSubtask)
		epicID := st.EpicID
		r.EpicID = &epicID
		rows = append(rows, r)
	}
	return rows
}

func newRow(t domain.Task, kind domain.Kind) taskRow {
	r := taskRow{
		ID:          t.ID,
		Kind:        string(kind),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		StartTime:   timePtr(t.StartTime),
		Duration:    domain.Minutes(t.Duration),
	}
	if end, ok := t.EndTime(); ok {
		r.EndTime = &end
	}
	return r
}

func (r taskRow) appendTo(snap *domain.Snapshot) error {
	kind, err := domain.ParseKind(r.Kind)
	if err != nil {
		return err
	}
	status, err := domain.ParseStatus(r.Status)
	if err != nil {
		return err
	}
	duration, err := domain.FromMinutes(r.Duration)
	if err != nil {
		return err
	}
	t := domain.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      status,
		Duration:    duration,
	}
	if r.StartTime != nil {
		t.StartTime = r.StartTime.Local()
	}

	switch kind {
	case domain.KindEpic:
		e := domain.Epic{Task: t}
		if r.EndTime != nil {
			e.End = r.EndTime.Local()
		}
		snap.Epics = append(snap.Epics, e)
	case domain.KindSubtask:
		if r.EpicID == nil {
			return errors.New("subtask without epic")
		}
		snap.Subtasks = append(snap.Subtasks, domain.Subtask{Task: t, EpicID: *r.EpicID})
	default:
		snap.Tasks = append(snap.Tasks, t)
	}
	return nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
