package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/musicpartmate/partmate/internal/logging"
)

// defaultDebounce is used when the caller passes a non-positive interval.
const defaultDebounce = 500 * time.Millisecond

// Watcher observes the library store file and reports external rewrites.
//
// It watches the file's directory rather than the file itself, so the
// replace-by-rename strategy cloud sync agents use (write a temp file,
// rename it over library.json) is seen as a Create on the store path.
// Bursts of Write/Create events are collapsed into a single callback
// after a quiet period.
//
// The callback runs on a timer goroutine, not on the caller's.
// Embedding layers are expected to serialize it into their own loop
// (the TUI delivers a message, the CLI takes a lock).
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func()
	log      *logging.Logger

	mu    sync.Mutex
	timer *time.Timer

	wg sync.WaitGroup
}

// New starts watching the library store at path and calls onChange
// after external modifications settle.
//
// Parameters:
//   - path: the library store file to observe
//   - debounce: quiet period before onChange fires (non-positive means 500ms)
//   - onChange: invoked once per burst of changes
//   - log: optional logger, nil discards output
//
// Returns an error if:
//   - The file system watcher cannot be created
//   - The store's directory cannot be watched
func New(path string, debounce time.Duration, onChange func(), log *logging.Logger) (*Watcher, error) {
	if log == nil {
		log = logging.Nop()
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		watcher:  fsw,
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		log:      log,
	}

	w.wg.Add(1)
	go w.loop()

	log.Debug("Watching %s for external changes", abs)
	return w, nil
}

// Close stops the watcher and cancels any pending callback. A callback
// already in flight may still complete after Close returns.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	return err
}

// loop drains watcher events until the underlying channels close.
func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.matches(event) {
				continue
			}
			w.log.Debug("Library store changed (%s), reload in %v", event.Op, w.debounce)
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("Watcher error: %v", err)
		}
	}
}

// matches reports whether the event is a Write or Create on the store file.
func (w *Watcher) matches(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	return filepath.Base(event.Name) == filepath.Base(w.path)
}

// schedule arms the debounce timer, resetting any pending one so only
// the last event of a burst triggers the callback.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
}
