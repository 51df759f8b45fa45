// Package library manages the song collection and its JSON store.
//
// # Library
//
// The Library holds every song, answers queries against the collection
// and keeps the store file on disk in step with memory:
//
//	lib, err := library.New(library.Config{LibraryPath: "data/library.json"}, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	song := model.NewSong("Imagine", "John Lennon")
//	song.AddDocument("/scores/imagine.pdf")
//	if lib.AddSong(song) {
//	    fmt.Println("added")
//	}
//
// Mutations report success as a bool: false means the input was
// invalid, a duplicate, or unknown, and nothing changed. Every
// successful mutation persists the whole store before returning.
//
// # Queries
//
// Searches and filters are case-insensitive and never modify the
// collection:
//
//	hits := lib.SearchSongs("rock")                  // all fields
//	hits = lib.SearchSongs("rock", "style")          // one field
//	ballads := lib.FilterByStyle("ballad")
//	byTitle := lib.SongsSorted("title", false)
//	stats := lib.Statistics()
//
// # Observers
//
// Observers run synchronously after each successful mutation. A
// panicking observer is contained and logged; it cannot break the
// mutation or starve the other observers:
//
//	sub := lib.Subscribe(func(e library.Event) {
//	    fmt.Println(e.Type, e.Song.DisplayName())
//	})
//	defer sub.Unsubscribe()
//
// # Store format
//
// The store is a single pretty-printed JSON file with a version tag, a
// settings block and the song list. When auto-backup is on, each save
// first copies the previous file into a backups/ directory next to the
// store and prunes old copies beyond the configured count.
//
// # Exports
//
// Export writes a snapshot for use outside the application, either as
// JSON with every field or as a flat CSV:
//
//	err := lib.Export("songs.csv", library.FormatCSV)
package library
