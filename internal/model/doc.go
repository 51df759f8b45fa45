// Package model defines the core data structures used throughout
// the partmate application.
//
// # Song
//
// Song is one catalog entry: metadata plus the documents, audio files,
// videos and links that belong to a piece of music:
//
//	song := model.NewSong("Imagine", "John Lennon")
//	song.AddDocument("/scores/imagine.pdf")
//	song.AddLink("https://example.com/tutorial")
//	fmt.Println(song.DisplayName()) // "John Lennon - Imagine"
//
// Validation is non-destructive and returns one message per violation:
//
//	for _, msg := range song.Validate() {
//	    fmt.Println(msg)
//	}
//
// # Persistence form
//
// SongRecord is the JSON shape songs take inside the library store and
// exports. ToRecord and SongFromRecord round-trip losslessly:
//
//	rec := song.ToRecord()
//	same := model.SongFromRecord(rec)
//
// # Media references
//
// MediaRef tags one medium of one song with its type, so user-facing
// layers can pass selections around without inspecting runtime shapes:
//
//	for _, ref := range song.MediaRefs() {
//	    fmt.Println(ref.Type, ref.Path)
//	}
package model
