// Package scan provides folder scanning and bulk import orchestration
// for building songs out of media folders.
//
// # Scanner
//
// The Scanner classifies a folder's files against the configured
// extension sets and assembles a Song:
//
//  1. Walk the folder recursively
//  2. Classify each file (document, audio, video, unknown)
//  3. Attach recognized files to a new Song
//  4. Default the title to the folder name
//  5. Fill missing title/artist/style from the first audio file's tags
//
// # Basic Usage
//
//	importer := scan.NewImporter(settings, func(song *model.Song) bool {
//	    return lib.AddSong(song)
//	}, func(event scan.Event) {
//	    fmt.Println(event.Message)
//	})
//
//	result, err := importer.Run(ctx, folders)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// The Importer scans up to settings.MaxConcurrentImports folders in
// parallel. The sink callback is serialized: however many folders are
// in flight, songs arrive one at a time, so handing them straight to a
// Library is safe.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives Event:
//
//	type Event struct {
//	    Message string
//	    Level   Level // Info, Verbose, Warning, Error, Success
//	}
//
// While Run is underway, Progress() reports finished/total folder
// counts for progress bars.
package scan
