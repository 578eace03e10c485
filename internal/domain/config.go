package domain

import (
	"fmt"
	"path/filepath"
)

// Config file and directory names.
const (
	ConfigFileName      = "config.toml"   // Global config file name
	LocalConfigFileName = "taskflow.toml" // Per-directory config file name
	AppDirName          = "taskflow"      // Directory under XDG_CONFIG_HOME / XDG_DATA_HOME
)

// Store kinds accepted in [store] kind.
const (
	StoreCSV    = "csv"
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Defaults.
const (
	DefaultStoreKind  = StoreCSV
	DefaultServerAddr = "localhost:8080"
	DefaultLogLevel   = "info"
)

// Config represents the application configuration.
type Config struct {
	Store    StoreConfig  // [store] settings
	Server   ServerConfig // [server] settings
	Log      LogConfig    // [log] settings
	Warnings []string     // Unknown keys found while loading
}

// StoreConfig holds persistence settings from the [store] section.
type StoreConfig struct {
	Kind string // csv, json, sqlite or memory
	Path string // File or database path (empty = default under the data dir)
}

// ServerConfig holds HTTP settings from the [server] section.
type ServerConfig struct {
	Addr string // Listen address, host:port
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string // Log level: debug, info, warn, error
	File  string // Optional log file; empty logs to stderr
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Kind: DefaultStoreKind,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// DefaultStorePath returns the store location used when [store] path is empty.
func DefaultStorePath(dataDir, kind string) string {
	switch kind {
	case StoreJSON:
		return filepath.Join(dataDir, "tasks.json")
	case StoreSQLite:
		return filepath.Join(dataDir, "tasks.db")
	default:
		return filepath.Join(dataDir, "tasks.csv")
	}
}

// GlobalConfigDir returns the global config directory under configHome.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// ValidStoreKind returns true if kind names a supported store.
func ValidStoreKind(kind string) bool {
	switch kind {
	case StoreCSV, StoreJSON, StoreSQLite, StoreMemory:
		return true
	default:
		return false
	}
}

// ConfigInfo describes a config file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// RenderConfigTemplate renders a commented config file holding cfg's values.
func RenderConfigTemplate(cfg *Config) string {
	return fmt.Sprintf(`# taskflow configuration

[store]
# One of: csv, json, sqlite, memory
kind = %q
# Empty uses the default location under the data directory
path = %q

[server]
addr = %q

[log]
# One of: debug, info, warn, error
level = %q
# Empty logs to stderr
file = %q
`, cfg.Store.Kind, cfg.Store.Path, cfg.Server.Addr, cfg.Log.Level, cfg.Log.File)
}
