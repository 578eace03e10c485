// Package planfile reads and writes YAML plan files: a list of tasks and of
// epics with nested subtasks that can be imported in one go.
package planfile

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/runoshun/taskflow/internal/domain"
	"gopkg.in/yaml.v3"
)

// Plan is the top-level plan file.
type Plan struct {
	Tasks []Item     `yaml:"tasks,omitempty"`
	Epics []EpicItem `yaml:"epics,omitempty"`
}

// Item is one task or subtask entry.
type Item struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Status      string `yaml:"status,omitempty"`
	Start       string `yaml:"start,omitempty"`    // dd.MM.yyyy HH:mm:ss, "now" or "+90m"
	Duration    int64  `yaml:"duration,omitempty"` // minutes
}

// EpicItem is one epic entry with its subtasks.
type EpicItem struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Subtasks    []Item `yaml:"subtasks,omitempty"`
}

// Creator is the part of the task manager an import needs.
type Creator interface {
	CreateTask(task domain.Task) (domain.Task, error)
	CreateEpic(epic domain.Epic) (domain.Epic, error)
	CreateSubtask(subtask domain.Subtask) (domain.Subtask, error)
}

// Result counts what an import created.
type Result struct {
	Tasks    int
	Epics    int
	Subtasks int
}

// Load reads a YAML plan file from path.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("planfile: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Plan.
func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("planfile: parse: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// validate checks titles, statuses and durations before anything is created.
func (p *Plan) validate() error {
	var errs []error
	check := func(where string, it Item) {
		if strings.TrimSpace(it.Title) == "" {
			errs = append(errs, fmt.Errorf("%s: %w", where, domain.ErrEmptyTitle))
		}
		if _, err := domain.ParseStatus(it.Status); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
		if _, err := domain.FromMinutes(it.Duration); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
	}
	for i, it := range p.Tasks {
		check(fmt.Sprintf("tasks[%d]", i), it)
	}
	for i, e := range p.Epics {
		if strings.TrimSpace(e.Title) == "" {
			errs = append(errs, fmt.Errorf("epics[%d]: %w", i, domain.ErrEmptyTitle))
		}
		for j, it := range e.Subtasks {
			check(fmt.Sprintf("epics[%d].subtasks[%d]", i, j), it)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("planfile: invalid plan: %w", errors.Join(errs...))
	}
	return nil
}

// Apply creates every entry through c in file order: tasks first, then each
// epic followed by its subtasks. Relative start times are resolved against now.
// It stops at the first failure; the Result reports what was created before it.
func (p *Plan) Apply(c Creator, now time.Time) (Result, error) {
	var res Result
	for i, it := range p.Tasks {
		task, err := it.toTask(now)
		if err != nil {
			return res, fmt.Errorf("tasks[%d]: %w", i, err)
		}
		if _, err := c.CreateTask(task); err != nil {
			return res, fmt.Errorf("create task %q: %w", it.Title, err)
		}
		res.Tasks++
	}
	for i, e := range p.Epics {
		epic, err := c.CreateEpic(domain.NewEpic(e.Title, e.Description))
		if err != nil {
			return res, fmt.Errorf("create epic %q: %w", e.Title, err)
		}
		res.Epics++
		for j, it := range e.Subtasks {
			task, err := it.toTask(now)
			if err != nil {
				return res, fmt.Errorf("epics[%d].subtasks[%d]: %w", i, j, err)
			}
			if _, err := c.CreateSubtask(domain.Subtask{Task: task, EpicID: epic.ID}); err != nil {
				return res, fmt.Errorf("create subtask %q: %w", it.Title, err)
			}
			res.Subtasks++
		}
	}
	return res, nil
}

func (it Item) toTask(now time.Time) (domain.Task, error) {
	status, err := domain.ParseStatus(it.Status)
	if err != nil {
		return domain.Task{}, err
	}
	start, err := domain.ParseStart(it.Start, now)
	if err != nil {
		return domain.Task{}, err
	}
	duration, err := domain.FromMinutes(it.Duration)
	if err != nil {
		return domain.Task{}, err
	}
	return domain.Task{
		Title:       it.Title,
		Description: it.Description,
		Status:      status,
		StartTime:   start,
		Duration:    duration,
	}, nil
}

// FromRecords builds a plan holding tasks and epics with their subtasks.
// Subtasks whose epic is not listed are skipped.
func FromRecords(tasks []domain.Task, epics []domain.Epic, subtasks []domain.Subtask) *Plan {
	p := &Plan{}
	for _, t := range tasks {
		p.Tasks = append(p.Tasks, itemOf(t))
	}
	byID := make(map[int]domain.Subtask, len(subtasks))
	for _, s := range subtasks {
		byID[s.ID] = s
	}
	for _, e := range epics {
		ei := EpicItem{Title: e.Title, Description: e.Description}
		for _, id := range e.SubtaskIDs {
			if s, ok := byID[id]; ok {
				ei.Subtasks = append(ei.Subtasks, itemOf(s.Task))
			}
		}
		p.Epics = append(p.Epics, ei)
	}
	return p
}

// Marshal renders the plan as YAML.
func (p *Plan) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("planfile: marshal: %w", err)
	}
	return data, nil
}

func itemOf(t domain.Task) Item {
	return Item{
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Start:       domain.FormatTime(t.StartTime),
		Duration:    domain.Minutes(t.Duration),
	}
}
