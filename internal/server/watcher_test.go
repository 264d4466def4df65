package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherNotifiesOnMarkdownWrite(t *testing.T) {
	root := t.TempDir()

	changed := make(chan string, 8)
	w, err := NewWatcher(root, []string{".md"}, func(path string) {
		changed <- path
	}, false)
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}
	defer w.Stop()
	w.Start()

	// Give the watch a moment to settle before generating events.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(root, "doc.md"), []byte("# Doc"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-changed:
		if path != "doc.md" {
			t.Errorf("changed path = %q, want doc.md", path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification received")
	}
}

func TestWatcherIgnoresOtherExtensions(t *testing.T) {
	root := t.TempDir()

	changed := make(chan string, 8)
	w, err := NewWatcher(root, []string{".md"}, func(path string) {
		changed <- path
	}, false)
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}
	defer w.Stop()
	w.Start()

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(root, "scratch.tmp"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-changed:
		t.Errorf("unexpected notification for %q", path)
	case <-time.After(300 * time.Millisecond):
	}
}
