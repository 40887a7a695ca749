package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsConfigWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "launch.yaml")
	if err := os.WriteFile(path, []byte("version: \"1.0\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	// 同目录的其他文件不应触发事件
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("version: \"2.0\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-w.Events:
		if filepath.Base(name) != "launch.yaml" {
			t.Errorf("unexpected event for %s", name)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("no event received for config write")
	}
}

func TestWatcherPollAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launch.yaml")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	if _, ok := w.Poll(); ok {
		t.Error("Poll on idle watcher should return false")
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	// 重复关闭不应 panic
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestNewWatcherMissingDirectory(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "launch.yaml")); err == nil {
		t.Error("watching a file in a missing directory should fail")
	}
}
