// Package csvstore persists records as CSV, one row per task, epic or subtask.
//
// Rows follow the header
//
//	id,type,title,status,description,startTime,duration,endTime,epicId
//
// Times use dd.MM.yyyy HH:mm:ss, durations are whole minutes and absent
// values are written as the literal null. Only SUBTASK rows carry epicId.
package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/runoshun/taskflow/internal/domain"
)

// Header is the first row of every file written by Store.
var Header = []string{"id", "type", "title", "status", "description", "startTime", "duration", "endTime", "epicId"}

const nullValue = "null"

// Column positions.
const (
	colID = iota
	colType
	colTitle
	colStatus
	colDescription
	colStart
	colDuration
	colEnd
	colEpicID

	minColumns = colEnd + 1
)

// Store implements domain.Store on a CSV file.
type Store struct {
	path string
}

// Ensure Store implements domain.Store.
var _ domain.Store = (*Store)(nil)

// New creates a Store for path. The file is created on first save.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the file path.
func (s *Store) Path() string {
	return s.path
}

// LoadAll reads the file. A missing or empty file yields an empty snapshot.
func (s *Store) LoadAll() (*domain.Snapshot, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &domain.Snapshot{}, nil
		}
		return nil, fmt.Errorf("open csv store: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// SaveAll writes snap to a temp file and renames it over the store file.
func (s *Store) SaveAll(snap *domain.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if err := Encode(f, snap); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Encode writes the header and one row per record: tasks, then epics, then subtasks.
func Encode(w io.Writer, snap *domain.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range snap.Tasks {
		if err := cw.Write(row(t, domain.KindTask)); err != nil {
			return fmt.Errorf("write task %d: %w", t.ID, err)
		}
	}
	for _, e := range snap.Epics {
		r := row(e.Task, domain.KindEpic)
		r[colEnd] = formatTime(e.End)
		if !e.Scheduled() {
			r[colDuration] = nullValue
		}
		if err := cw.Write(r); err != nil {
			return fmt.Errorf("write epic %d: %w", e.ID, err)
		}
	}
	for _, st := range snap.Subtasks {
		r := append(row(st.Task, domain.KindSubtask), strconv.Itoa(st.EpicID))
		if err := cw.Write(r); err != nil {
			return fmt.Errorf("write subtask %d: %w", st.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Decode parses rows written by Encode. The first row is taken as the header.
// Any malformed row fails the whole decode with domain.ErrCorruptStore.
func Decode(r io.Reader) (*domain.Snapshot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	snap := &domain.Snapshot{}
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, fmt.Errorf("%w: %v", domain.ErrCorruptStore, err)
			}
			return nil, fmt.Errorf("read csv store: %w", err)
		}
		if line == 1 {
			continue
		}
		if err := decodeRow(snap, rec); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrCorruptStore, line, err)
		}
	}
	return snap, nil
}

func decodeRow(snap *domain.Snapshot, rec []string) error {
	if len(rec) < minColumns {
		return fmt.Errorf("expected at least %d columns, got %d", minColumns, len(rec))
	}
	kind, err := domain.ParseKind(rec[colType])
	if err != nil {
		return err
	}
	t, err := parseTask(rec)
	if err != nil {
		return err
	}

	switch kind {
	case domain.KindEpic:
		end, err := parseTime(rec[colEnd])
		if err != nil {
			return err
		}
		snap.Epics = append(snap.Epics, domain.Epic{Task: t, End: end})
	case domain.KindSubtask:
		if len(rec) <= colEpicID {
			return errors.New("subtask row without epicId")
		}
		epicID, err := strconv.Atoi(rec[colEpicID])
		if err != nil {
			return fmt.Errorf("parse epicId: %w", err)
		}
		snap.Subtasks = append(snap.Subtasks, domain.Subtask{Task: t, EpicID: epicID})
	default:
		snap.Tasks = append(snap.Tasks, t)
	}
	return nil
}

func parseTask(rec []string) (domain.Task, error) {
	id, err := strconv.Atoi(rec[colID])
	if err != nil {
		return domain.Task{}, fmt.Errorf("parse id: %w", err)
	}
	status, err := domain.ParseStatus(nullable(rec[colStatus]))
	if err != nil {
		return domain.Task{}, err
	}
	start, err := parseTime(rec[colStart])
	if err != nil {
		return domain.Task{}, err
	}
	duration, err := domain.ParseMinutes(nullable(rec[colDuration]))
	if err != nil {
		return domain.Task{}, err
	}
	return domain.Task{
		ID:          id,
		Title:       nullable(rec[colTitle]),
		Description: nullable(rec[colDescription]),
		Status:      status,
		StartTime:   start,
		Duration:    duration,
	}, nil
}

func row(t domain.Task, kind domain.Kind) []string {
	r := []string{
		strconv.Itoa(t.ID),
		string(kind),
		orNull(t.Title),
		string(t.Status),
		orNull(t.Description),
		formatTime(t.StartTime),
		strconv.FormatInt(domain.Minutes(t.Duration), 10),
		nullValue,
	}
	if end, ok := t.EndTime(); ok {
		r[colEnd] = domain.FormatTime(end)
	}
	return r
}

func parseTime(v string) (time.Time, error) {
	return domain.ParseTime(nullable(v))
}

func formatTime(t time.Time) string {
	return orNull(domain.FormatTime(t))
}

func nullable(v string) string {
	if v == nullValue {
		return ""
	}
	return v
}

func orNull(v string) string {
	if v == "" {
		return nullValue
	}
	return v
}
