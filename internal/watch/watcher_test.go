package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// seedStore creates a library.json in a fresh temp dir and returns its path.
func seedStore(t *testing.T) string {
	t.Helper()
	store := filepath.Join(t.TempDir(), "library.json")
	if err := os.WriteFile(store, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	return store
}

func TestWatcher_FiresOnWrite(t *testing.T) {
	store := seedStore(t)

	fired := make(chan struct{}, 1)
	w, err := New(store, 50*time.Millisecond, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(store, []byte(`{"version":"1.0"}`), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never reported the write")
	}
}

func TestWatcher_CollapsesBursts(t *testing.T) {
	store := seedStore(t)

	var count int32
	w, err := New(store, 250*time.Millisecond, func() {
		atomic.AddInt32(&count, 1)
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(store, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(1200 * time.Millisecond)
	if got := atomic.LoadInt32(&count); got != 1 {
		t.Errorf("callback ran %d times for one burst, want 1", got)
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	store := seedStore(t)

	fired := make(chan struct{}, 1)
	w, err := New(store, 50*time.Millisecond, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	other := filepath.Join(filepath.Dir(store), "other.json")
	if err := os.WriteFile(other, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
		t.Fatal("watcher fired for an unrelated file")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcher_SeesAtomicReplace(t *testing.T) {
	store := seedStore(t)

	fired := make(chan struct{}, 1)
	w, err := New(store, 50*time.Millisecond, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	// Replace-by-rename, the way sync agents rewrite files.
	tmp := store + ".tmp"
	if err := os.WriteFile(tmp, []byte(`{"version":"1.0"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, store); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never reported the rename")
	}
}

func TestWatcher_CloseStopsDelivery(t *testing.T) {
	store := seedStore(t)

	fired := make(chan struct{}, 1)
	w, err := New(store, 50*time.Millisecond, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if err := os.WriteFile(store, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
		t.Fatal("watcher fired after Close")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	store := filepath.Join(t.TempDir(), "missing", "library.json")
	if _, err := New(store, 0, func() {}, nil); err == nil {
		t.Error("New() succeeded for a store in a missing directory, want error")
	}
}
