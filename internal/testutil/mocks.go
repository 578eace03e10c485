// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"time"

	"github.com/runoshun/taskflow/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Ensure MockStore implements domain.Store interface.
var _ domain.Store = (*MockStore)(nil)

// MockStore is an in-memory test double for domain.Store.
// Fields are ordered to minimize memory padding.
type MockStore struct {
	Snapshot  *domain.Snapshot
	LoadErr   error
	SaveErr   error
	SaveCalls int
}

// NewMockStore creates a MockStore holding an empty snapshot.
func NewMockStore() *MockStore {
	return &MockStore{Snapshot: &domain.Snapshot{}}
}

// LoadAll returns the stored snapshot or LoadErr.
func (m *MockStore) LoadAll() (*domain.Snapshot, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Snapshot == nil {
		return &domain.Snapshot{}, nil
	}
	return m.Snapshot, nil
}

// SaveAll records snap unless SaveErr is set.
func (m *MockStore) SaveAll(snap *domain.Snapshot) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Snapshot = snap
	return nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	LoadErr      error
	GlobalErr    error
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured global config or error.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.GlobalErr != nil {
		return nil, m.GlobalErr
	}
	if m.GlobalConfig != nil {
		return m.GlobalConfig, nil
	}
	return m.Config, nil
}
