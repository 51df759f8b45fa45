package scan

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/musicpartmate/partmate/internal/model"
)

// eventLog collects progress events safely; the importer reports from
// several goroutines.
type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (el *eventLog) record(event Event) {
	el.mu.Lock()
	el.events = append(el.events, event)
	el.mu.Unlock()
}

func (el *eventLog) contains(substr string) bool {
	el.mu.Lock()
	defer el.mu.Unlock()
	for _, e := range el.events {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestImporter_Run(t *testing.T) {
	good1 := seedFolder(t, "Imagine")
	good2 := seedFolder(t, "Yesterday")

	empty := filepath.Join(t.TempDir(), "Empty")
	if err := os.MkdirAll(empty, 0755); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(t.TempDir(), "Missing")

	var accepted []*model.Song
	log := &eventLog{}
	importer := NewImporter(nil, func(song *model.Song) bool {
		accepted = append(accepted, song)
		return true
	}, log.record)

	result, err := importer.Run(context.Background(), []string{good1, good2, empty, missing})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if result.Imported != 2 {
		t.Errorf("Imported = %d, want 2", result.Imported)
	}
	if result.Failed != 2 {
		t.Errorf("Failed = %d, want 2 (empty folder + missing folder)", result.Failed)
	}
	if len(accepted) != 2 {
		t.Errorf("sink received %d songs, want 2", len(accepted))
	}

	if !log.contains("No media found") {
		t.Error("missing warning for the empty folder")
	}
	if !log.contains("Error importing") {
		t.Error("missing error for the nonexistent folder")
	}

	done, total := importer.Progress()
	if done != 4 || total != 4 {
		t.Errorf("Progress() = %d/%d, want 4/4", done, total)
	}
}

func TestImporter_SinkRejectionCountsAsFailure(t *testing.T) {
	folder := seedFolder(t, "Imagine")

	log := &eventLog{}
	importer := NewImporter(nil, func(*model.Song) bool { return false }, log.record)

	result, err := importer.Run(context.Background(), []string{folder})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if result.Imported != 0 || result.Failed != 1 {
		t.Errorf("result = %+v, want 0 imported / 1 failed", result)
	}
	if !log.contains("Rejected") {
		t.Error("missing rejection warning")
	}
}

func TestImporter_SinkIsSerialized(t *testing.T) {
	var folders []string
	for _, name := range []string{"One", "Two", "Three", "Four", "Five", "Six"} {
		folders = append(folders, seedFolder(t, name))
	}

	var inFlight, maxInFlight int32
	importer := NewImporter(nil, func(*model.Song) bool {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			seen := atomic.LoadInt32(&maxInFlight)
			if n <= seen || atomic.CompareAndSwapInt32(&maxInFlight, seen, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return true
	}, nil)

	if _, err := importer.Run(context.Background(), folders); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if got := atomic.LoadInt32(&maxInFlight); got != 1 {
		t.Errorf("sink ran %d calls at once, want strictly serialized", got)
	}
}

func TestImporter_RunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	importer := NewImporter(nil, func(*model.Song) bool { return true }, nil)
	result, err := importer.Run(ctx, []string{seedFolder(t, "Imagine")})
	if err == nil {
		t.Error("Run() with a canceled context should return an error")
	}
	if result.Imported != 0 {
		t.Errorf("Imported = %d, want 0 after cancellation", result.Imported)
	}
}

func TestImporter_RunEmptyList(t *testing.T) {
	importer := NewImporter(nil, func(*model.Song) bool { return true }, nil)

	result, err := importer.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if result.Imported != 0 || result.Failed != 0 {
		t.Errorf("result = %+v, want zeros", result)
	}
}
