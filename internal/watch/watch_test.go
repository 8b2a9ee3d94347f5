package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitEvent(t *testing.T, w *Watcher) string {
	t.Helper()
	select {
	case name := <-w.Events:
		return name
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return ""
}

func TestWatcherReportsYAML(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "rope.yaml")
	if err := os.WriteFile(target, []byte("scenario: hanging\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if got := waitEvent(t, w); filepath.Base(got) != "rope.yaml" {
		t.Errorf("event = %q, want rope.yaml", got)
	}
}

func TestWatcherFiltersToFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "rope.yml")
	if err := os.WriteFile(target, []byte("a: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(target)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("b: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(target, []byte("a: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if got := waitEvent(t, w); filepath.Base(got) != "rope.yml" {
		t.Errorf("event = %q, want rope.yml", got)
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close returned %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Error("events channel should be closed")
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for a missing directory")
	}
}
