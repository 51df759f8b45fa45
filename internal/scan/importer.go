package scan

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/musicpartmate/partmate/internal/config"
	"github.com/musicpartmate/partmate/internal/model"
)

// Level indicates the severity/type of a progress message.
type Level int

const (
	LevelInfo Level = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// Event represents an import progress update.
type Event struct {
	Message string
	Level   Level
}

// Result summarizes a finished import run.
type Result struct {
	// Imported is how many folders became songs the sink accepted.
	Imported int

	// Failed is how many folders could not be imported: scan errors,
	// no media found, or the sink turning the song down.
	Failed int
}

// Importer coordinates bulk folder imports.
//
// Folders are scanned concurrently, bounded by the configured import
// concurrency. Finished songs are handed to a sink callback one at a
// time under a lock, so a single-threaded library behind the sink
// stays safe. A folder that fails is reported and skipped; it never
// stops the run.
//
// Example:
//
//	importer := scan.NewImporter(settings, func(song *model.Song) bool {
//	    return lib.AddSong(song)
//	}, func(event scan.Event) {
//	    fmt.Println(event.Message)
//	})
//
//	result, err := importer.Run(ctx, folders)
//	fmt.Printf("imported %d, failed %d\n", result.Imported, result.Failed)
type Importer struct {
	scanner     *Scanner
	concurrency int

	sink       func(*model.Song) bool
	onProgress func(Event)

	totalFolders int32
	doneFolders  int32
	imported     int32
	failed       int32

	mu sync.Mutex // serializes sink calls
}

// NewImporter creates an Importer.
//
// Parameters:
//   - settings: Supplies the extension sets and the concurrency limit
//   - sink: Receives each scanned song; returns whether it was accepted.
//     Called serially, never from two goroutines at once.
//   - onProgress: Optional progress callback (nil to disable)
func NewImporter(settings *config.Settings, sink func(*model.Song) bool, onProgress func(Event)) *Importer {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	concurrency := settings.MaxConcurrentImports
	if concurrency < 1 {
		concurrency = 1
	}
	return &Importer{
		scanner:     NewScanner(settings),
		concurrency: concurrency,
		sink:        sink,
		onProgress:  onProgress,
	}
}

// Run imports the given folders and blocks until all are done or the
// context is canceled. Per-folder failures are reported through the
// progress callback and counted in the result; only cancellation makes
// Run itself return an error.
func (im *Importer) Run(ctx context.Context, folders []string) (Result, error) {
	atomic.StoreInt32(&im.totalFolders, int32(len(folders)))
	atomic.StoreInt32(&im.doneFolders, 0)
	atomic.StoreInt32(&im.imported, 0)
	atomic.StoreInt32(&im.failed, 0)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(im.concurrency)

	for _, folder := range folders {
		folder := folder
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			im.importFolder(folder)
			return nil
		})
	}

	err := g.Wait()
	result := Result{
		Imported: int(atomic.LoadInt32(&im.imported)),
		Failed:   int(atomic.LoadInt32(&im.failed)),
	}
	return result, err
}

// Progress returns how many folders are finished out of the total, for
// polling from a UI while Run is underway.
func (im *Importer) Progress() (done, total int) {
	return int(atomic.LoadInt32(&im.doneFolders)), int(atomic.LoadInt32(&im.totalFolders))
}

func (im *Importer) importFolder(folder string) {
	defer atomic.AddInt32(&im.doneFolders, 1)

	im.progress(Event{Message: fmt.Sprintf("Importing: %s", filepath.Base(folder)), Level: LevelVerbose})

	song, err := im.scanner.SongFromFolder(folder, "", "")
	if err != nil {
		atomic.AddInt32(&im.failed, 1)
		im.progress(Event{Message: fmt.Sprintf("Error importing %s: %v", folder, err), Level: LevelError})
		return
	}

	if !song.IsValid() {
		atomic.AddInt32(&im.failed, 1)
		im.progress(Event{Message: fmt.Sprintf("No media found in %s", folder), Level: LevelWarning})
		return
	}

	im.mu.Lock()
	accepted := im.sink(song)
	im.mu.Unlock()

	if !accepted {
		atomic.AddInt32(&im.failed, 1)
		im.progress(Event{Message: fmt.Sprintf("Rejected %s (duplicate?)", song.DisplayName()), Level: LevelWarning})
		return
	}

	atomic.AddInt32(&im.imported, 1)
	im.progress(Event{Message: fmt.Sprintf("Imported: %s", song.DisplayName()), Level: LevelSuccess})
}

func (im *Importer) progress(event Event) {
	if im.onProgress != nil {
		im.onProgress(event)
	}
}
