package domain

import "time"

// Snapshot is the full record set exchanged with a Store.
type Snapshot struct {
	Tasks    []Task
	Epics    []Epic
	Subtasks []Subtask
}

// Empty returns true if the snapshot holds no records.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Tasks)+len(s.Epics)+len(s.Subtasks) == 0
}

// MaxID returns the largest id across all kinds.
func (s *Snapshot) MaxID() int {
	if s == nil {
		return 0
	}
	maxID := 0
	for _, t := range s.Tasks {
		maxID = max(maxID, t.ID)
	}
	for _, e := range s.Epics {
		maxID = max(maxID, e.ID)
	}
	for _, st := range s.Subtasks {
		maxID = max(maxID, st.ID)
	}
	return maxID
}

// Store persists the manager's records.
// The manager calls SaveAll after every mutating operation (write-through).
type Store interface {
	// LoadAll reads every stored record.
	// A missing backing file or database yields an empty snapshot.
	// Malformed content is reported wrapped in ErrCorruptStore.
	LoadAll() (*Snapshot, error)

	// SaveAll replaces the stored records with snap.
	SaveAll(snap *Snapshot) error
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// ConfigLoader loads application configuration.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults <- global <- local).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}
