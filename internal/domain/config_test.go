package domain

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Store.Kind != StoreCSV {
		t.Errorf("Store.Kind = %q, want %q", cfg.Store.Kind, StoreCSV)
	}
	if cfg.Store.Path != "" {
		t.Errorf("Store.Path = %q, want empty", cfg.Store.Path)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultServerAddr)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestDefaultStorePath(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{StoreCSV, filepath.Join("/data", "tasks.csv")},
		{StoreJSON, filepath.Join("/data", "tasks.json")},
		{StoreSQLite, filepath.Join("/data", "tasks.db")},
	}

	for _, tt := range tests {
		if got := DefaultStorePath("/data", tt.kind); got != tt.want {
			t.Errorf("DefaultStorePath(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestValidStoreKind(t *testing.T) {
	for _, kind := range []string{StoreCSV, StoreJSON, StoreSQLite, StoreMemory} {
		if !ValidStoreKind(kind) {
			t.Errorf("ValidStoreKind(%q) = false", kind)
		}
	}
	for _, kind := range []string{"", "CSV", "redis"} {
		if ValidStoreKind(kind) {
			t.Errorf("ValidStoreKind(%q) = true", kind)
		}
	}
}

func TestRenderConfigTemplate(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Log.File = `C:\logs\taskflow.log`

	got := RenderConfigTemplate(cfg)

	for _, want := range []string{
		"[store]",
		`kind = "csv"`,
		`path = ""`,
		"[server]",
		`addr = "localhost:8080"`,
		"[log]",
		`level = "info"`,
		`file = "C:\\logs\\taskflow.log"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderConfigTemplate() missing %q in:\n%s", want, got)
		}
	}
}

func TestGlobalConfigDir(t *testing.T) {
	if got, want := GlobalConfigDir("/home/u/.config"), filepath.Join("/home/u/.config", "taskflow"); got != want {
		t.Errorf("GlobalConfigDir() = %q, want %q", got, want)
	}
}
