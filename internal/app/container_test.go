package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/infra/csvstore"
	"github.com/runoshun/taskflow/internal/infra/jsonstore"
	"github.com/runoshun/taskflow/internal/infra/sqlstore"
	"github.com/runoshun/taskflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPaths(t *testing.T) Paths {
	t.Helper()
	root := t.TempDir()
	return Paths{
		WorkDir:         filepath.Join(root, "work"),
		GlobalConfigDir: filepath.Join(root, "config"),
		DataDir:         filepath.Join(root, "data"),
	}
}

func TestNew_Defaults(t *testing.T) {
	paths := testPaths(t)

	c, err := New(paths, Overrides{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Equal(t, domain.StoreCSV, c.AppConfig.Store.Kind)
	assert.Equal(t, filepath.Join(paths.DataDir, "tasks.csv"), c.StorePath)
	assert.IsType(t, &csvstore.Store{}, c.Store)
	assert.NotNil(t, c.Manager)
	assert.NotNil(t, c.Logger)
}

func TestNew_StoreKinds(t *testing.T) {
	tests := []struct {
		kind     string
		wantType any
		wantFile string
	}{
		{domain.StoreCSV, &csvstore.Store{}, "tasks.csv"},
		{domain.StoreJSON, &jsonstore.Store{}, "tasks.json"},
		{domain.StoreSQLite, &sqlstore.Store{}, "tasks.db"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			paths := testPaths(t)

			c, err := New(paths, Overrides{StoreKind: tt.kind}, nil)
			require.NoError(t, err)
			t.Cleanup(func() { _ = c.Close() })

			assert.IsType(t, tt.wantType, c.Store)
			assert.Equal(t, filepath.Join(paths.DataDir, tt.wantFile), c.StorePath)
		})
	}
}

func TestNew_Memory(t *testing.T) {
	c, err := New(testPaths(t), Overrides{StoreKind: domain.StoreMemory}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Nil(t, c.Store)
	assert.Empty(t, c.StorePath)

	_, err = c.Manager.CreateTask(domain.Task{Title: "volatile"})
	require.NoError(t, err)
}

func TestNew_PersistsAcrossContainers(t *testing.T) {
	// Setup
	paths := testPaths(t)
	overrides := Overrides{StoreKind: domain.StoreJSON}

	first, err := New(paths, overrides, nil)
	require.NoError(t, err)
	_, err = first.Manager.CreateTask(domain.Task{Title: "kept"})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// Execute
	second, err := New(paths, overrides, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	// Assert
	tasks := second.Manager.GetAllTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "kept", tasks[0].Title)
}

func TestNew_LocalConfig(t *testing.T) {
	paths := testPaths(t)
	require.NoError(t, os.MkdirAll(paths.WorkDir, 0o750))
	storePath := filepath.Join(t.TempDir(), "custom.json")
	content := "[store]\nkind = \"json\"\npath = \"" + filepath.ToSlash(storePath) + "\"\n\n[server]\naddr = \"127.0.0.1:9999\"\n\n[extra]\nx = 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(paths.WorkDir, domain.LocalConfigFileName), []byte(content), 0o600))
	var stderr bytes.Buffer

	c, err := New(paths, Overrides{LogLevel: "warn"}, &stderr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Equal(t, domain.StoreJSON, c.AppConfig.Store.Kind)
	assert.Equal(t, filepath.ToSlash(storePath), c.StorePath)
	assert.Equal(t, "127.0.0.1:9999", c.AppConfig.Server.Addr)
	assert.Contains(t, stderr.String(), "unknown section: extra")
}

func TestNew_OverridesWinOverConfig(t *testing.T) {
	paths := testPaths(t)
	require.NoError(t, os.MkdirAll(paths.GlobalConfigDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(paths.GlobalConfigDir, domain.ConfigFileName),
		[]byte("[server]\naddr = \"0.0.0.0:1\"\n"), 0o600))

	c, err := New(paths, Overrides{Addr: "127.0.0.1:2", StoreKind: domain.StoreMemory}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Equal(t, "127.0.0.1:2", c.AppConfig.Server.Addr)
}

func TestNew_UnknownStoreKind(t *testing.T) {
	_, err := New(testPaths(t), Overrides{StoreKind: "redis"}, nil)

	assert.ErrorIs(t, err, domain.ErrUnknownStoreKind)
}

func TestNew_LogFile(t *testing.T) {
	paths := testPaths(t)
	logPath := filepath.Join(t.TempDir(), "logs", "taskflow.log")

	c, err := New(paths, Overrides{StoreKind: domain.StoreMemory, LogFile: logPath, LogLevel: "debug"}, nil)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "container ready")
}

func TestNew_CorruptStoreStartsEmpty(t *testing.T) {
	paths := testPaths(t)
	path := filepath.Join(paths.DataDir, "tasks.csv")
	require.NoError(t, os.MkdirAll(paths.DataDir, 0o750))
	require.NoError(t, os.WriteFile(path, []byte("id,type\n1,STORY,x,NEW,null,null,0,null\n"), 0o600))
	var stderr bytes.Buffer

	c, err := New(paths, Overrides{}, &stderr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Empty(t, c.Manager.GetAllTasks())
	assert.Contains(t, stderr.String(), "starting empty")
}

func TestNewWithDeps(t *testing.T) {
	store := testutil.NewMockStore()
	store.Snapshot = &domain.Snapshot{Tasks: []domain.Task{{ID: 3, Title: "seeded", Status: domain.StatusNew}}}
	clock := &testutil.MockClock{}

	c, err := NewWithDeps(testPaths(t), nil, store, clock, nil)
	require.NoError(t, err)

	assert.Same(t, clock, c.Clock)
	assert.Equal(t, domain.DefaultServerAddr, c.AppConfig.Server.Addr)
	require.Len(t, c.Manager.GetAllTasks(), 1)
	assert.NoError(t, c.Close())
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	p := DefaultPaths("/work")

	assert.Equal(t, "/work", p.WorkDir)
	assert.Equal(t, filepath.Join("/xdg/config", "taskflow"), p.GlobalConfigDir)
	assert.Equal(t, filepath.Join("/xdg/data", "taskflow"), p.DataDir)
}
