// Package watch reloads the library when something else rewrites the
// store file, most commonly a cloud sync agent configured via the
// cloud_sync setting.
//
// # Behavior
//
// The watcher observes the store's parent directory through fsnotify
// and reacts to Write and Create events whose name matches the store
// file. Rapid event bursts (editors and sync agents rarely produce a
// single clean write) are debounced: each event resets a timer, and
// only after the configured quiet period does the onChange callback
// fire once.
//
//	w, err := watch.New(settings.LibraryPath(), 0, func() {
//	    program.Send(libraryReloadMsg{})
//	}, log)
//	defer w.Close()
//
// The callback runs on a timer goroutine. Callers own the
// synchronization into whatever the callback touches.
package watch
