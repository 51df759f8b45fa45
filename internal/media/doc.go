// Package media provides file system and image helpers for managing
// song media on disk.
//
// This package contains functions for:
//   - File copying, hashing and duplicate detection
//   - Filename sanitization for cross-platform compatibility
//   - The canonical song folder layout
//   - Thumbnail rendering for image documents
//
// # File Operations
//
//	// Copy a file
//	err := media.CopyFile(ctx, "/src/lead.pdf", "/dst/lead.pdf")
//
//	// Ensure directory exists
//	err := media.EnsureDir("/library/John Lennon/Imagine")
//
//	// Content digest
//	digest, err := media.FileHash("/scores/lead.pdf", "sha256")
//
// # Filename Sanitization
//
// Use SanitizeFileName to remove invalid characters from filenames:
//
//	safe := media.SanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
//
// # Song Folders
//
// Songs live in an Artist/Title tree with one subdirectory per media
// kind. CopyIntoSongFolder and MoveIntoSongFolder file new media into
// the right place, suffixing names instead of overwriting:
//
//	folder, _ := media.CreateSongFolder("/library", "John Lennon", "Imagine")
//	dst, err := media.CopyIntoSongFolder(ctx, "/downloads/lead.pdf", folder, model.MediaDocument)
//
// # Thumbnails
//
// The ImageService renders JPEG thumbnails of image documents, either
// to an explicit path or content-addressed into a cache directory:
//
//	svc := media.NewImageService()
//	thumb, err := svc.ThumbnailInto(ctx, "/scores/page1.png", cacheDir, 400)
package media
