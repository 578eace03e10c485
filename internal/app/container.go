// Package app provides the dependency injection container for the application.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/infra/config"
	"github.com/runoshun/taskflow/internal/infra/csvstore"
	"github.com/runoshun/taskflow/internal/infra/jsonstore"
	"github.com/runoshun/taskflow/internal/infra/logging"
	"github.com/runoshun/taskflow/internal/infra/sqlstore"
	"github.com/runoshun/taskflow/internal/manager"
)

// Paths holds the directories the container reads from and writes to.
type Paths struct {
	WorkDir         string // Directory searched for taskflow.toml
	GlobalConfigDir string // Directory holding the global config.toml
	DataDir         string // Default location for store files
}

// DefaultPaths resolves Paths from the environment (XDG_CONFIG_HOME, XDG_DATA_HOME).
func DefaultPaths(workDir string) Paths {
	home, _ := os.UserHomeDir()

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" && home != "" {
		configHome = filepath.Join(home, ".config")
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" && home != "" {
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := Paths{WorkDir: workDir}
	if configHome != "" {
		p.GlobalConfigDir = domain.GlobalConfigDir(configHome)
	}
	if dataHome != "" {
		p.DataDir = filepath.Join(dataHome, domain.AppDirName)
	} else {
		p.DataDir = filepath.Join(workDir, "."+domain.AppDirName)
	}
	return p
}

// Overrides are command-line values that take precedence over config files.
// Empty fields leave the loaded value alone.
type Overrides struct {
	ConfigPath string
	StoreKind  string
	StorePath  string
	Addr       string
	LogLevel   string
	LogFile    string
}

func (o Overrides) apply(cfg *domain.Config) {
	if o.StoreKind != "" {
		cfg.Store.Kind = o.StoreKind
	}
	if o.StorePath != "" {
		cfg.Store.Path = o.StorePath
	}
	if o.Addr != "" {
		cfg.Server.Addr = o.Addr
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.LogFile != "" {
		cfg.Log.File = o.LogFile
	}
}

// Container provides dependency injection for the application.
// Fields are ordered to minimize memory padding.
type Container struct {
	// Ports (interfaces bound to implementations)
	Store        domain.Store
	Clock        domain.Clock
	ConfigLoader domain.ConfigLoader

	// Pointer fields
	Manager       *manager.Manager
	ConfigManager *config.Manager
	Logger        *slog.Logger
	AppConfig     *domain.Config

	log    *logging.Logger
	closer io.Closer

	// Configuration
	Paths     Paths
	StorePath string
}

// New loads configuration, opens the configured store and restores the
// manager from it. stderr receives log output when no log file is set.
func New(paths Paths, overrides Overrides, stderr io.Writer) (*Container, error) {
	loader := config.NewLoaderWithGlobalDir(paths.WorkDir, paths.GlobalConfigDir)
	if overrides.ConfigPath != "" {
		loader.WithExplicitPath(overrides.ConfigPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	overrides.apply(cfg)
	if !domain.ValidStoreKind(cfg.Store.Kind) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStoreKind, cfg.Store.Kind)
	}

	logger, err := logging.New(cfg.Log.File, logging.ParseLevel(cfg.Log.Level), stderr)
	if err != nil {
		return nil, err
	}
	for _, w := range cfg.Warnings {
		logger.Slog().Warn("config", "warning", w)
	}

	storePath := cfg.Store.Path
	if storePath == "" && cfg.Store.Kind != domain.StoreMemory {
		storePath = domain.DefaultStorePath(paths.DataDir, cfg.Store.Kind)
	}
	store, closer, err := openStore(cfg.Store.Kind, storePath)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	var mgr *manager.Manager
	if store == nil {
		mgr = manager.New(manager.WithLogger(logger.Slog()))
	} else {
		mgr, err = manager.Load(store, manager.WithLogger(logger.Slog()))
		if err != nil {
			if closer != nil {
				_ = closer.Close()
			}
			_ = logger.Close()
			return nil, err
		}
	}
	logger.Slog().Debug("container ready", "store", cfg.Store.Kind, "path", storePath)

	return &Container{
		Store:         store,
		Clock:         domain.RealClock{},
		ConfigLoader:  loader,
		Manager:       mgr,
		ConfigManager: config.NewManagerWithGlobalDir(paths.WorkDir, paths.GlobalConfigDir),
		Logger:        logger.Slog(),
		AppConfig:     cfg,
		log:           logger,
		closer:        closer,
		Paths:         paths,
		StorePath:     storePath,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
// A nil store yields an in-memory manager.
func NewWithDeps(paths Paths, cfg *domain.Config, store domain.Store, clock domain.Clock, logger *slog.Logger) (*Container, error) {
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}
	if logger == nil {
		logger = logging.Discard().Slog()
	}

	mgr := manager.New(manager.WithLogger(logger))
	if store != nil {
		var err error
		mgr, err = manager.Load(store, manager.WithLogger(logger))
		if err != nil {
			return nil, err
		}
	}

	return &Container{
		Store:         store,
		Clock:         clock,
		ConfigLoader:  config.NewLoaderWithGlobalDir(paths.WorkDir, paths.GlobalConfigDir),
		Manager:       mgr,
		ConfigManager: config.NewManagerWithGlobalDir(paths.WorkDir, paths.GlobalConfigDir),
		Logger:        logger,
		AppConfig:     cfg,
		Paths:         paths,
	}, nil
}

// Close releases the store and the log file.
func (c *Container) Close() error {
	var firstErr error
	if c.closer != nil {
		if err := c.closer.Close(); err != nil {
			firstErr = err
		}
		c.closer = nil
	}
	if c.log != nil {
		if err := c.log.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// openStore returns the store for kind. The memory kind has no store.
func openStore(kind, path string) (domain.Store, io.Closer, error) {
	switch kind {
	case domain.StoreMemory:
		return nil, nil, nil
	case domain.StoreJSON:
		return jsonstore.New(path), nil, nil
	case domain.StoreSQLite:
		s, err := sqlstore.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case domain.StoreCSV:
		return csvstore.New(path), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownStoreKind, kind)
	}
}
