package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_Version(t *testing.T) {
	if err := run([]string{"--version"}); err != nil {
		t.Fatalf("run(--version) error = %v", err)
	}
}

func TestRun_MemoryStore(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	if err := run([]string{"--store", "memory", "task", "add", "--title", "x"}); err != nil {
		t.Fatalf("run(task add) error = %v", err)
	}
}

func TestRun_PersistsToDataDir(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Chdir(t.TempDir())

	if err := run([]string{"task", "add", "--title", "kept"}); err != nil {
		t.Fatalf("run(task add) error = %v", err)
	}

	path := filepath.Join(dataHome, "taskflow", "tasks.csv")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if want := "1,TASK,kept,NEW"; !strings.Contains(string(data), want) {
		t.Errorf("store = %q, want a row starting %q", data, want)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	if err := run([]string{"frobnicate"}); err == nil {
		t.Fatal("run(frobnicate) expected error")
	}
}
