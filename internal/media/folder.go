package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/musicpartmate/partmate/internal/model"
)

// Fallback folder names for songs missing metadata.
const (
	unknownArtistFolder = "Unknown Artist"
	unknownTitleFolder  = "Untitled"
)

// SongFolder is the canonical on-disk layout for one song's media:
//
//	<base>/<Artist>/<Title>/
//	    documents/
//	    audio/
//	    video/
//
// Artist and title are sanitized before they become path segments.
type SongFolder struct {
	// Root is the song's own directory, <base>/<Artist>/<Title>.
	Root string
}

// NewSongFolder computes the folder layout for a song without touching
// the filesystem.
func NewSongFolder(base, artist, title string) SongFolder {
	if artist = SanitizeFileName(artist); artist == "" {
		artist = unknownArtistFolder
	}
	if title = SanitizeFileName(title); title == "" {
		title = unknownTitleFolder
	}
	return SongFolder{Root: filepath.Join(base, artist, title)}
}

// CreateSongFolder computes the folder layout for a song and creates
// its directory tree, including the documents, audio and video
// subdirectories. Existing directories are left alone.
//
// Example:
//
//	folder, err := media.CreateSongFolder("/library", "John Lennon", "Imagine")
//	// /library/John Lennon/Imagine/{documents,audio,video}
func CreateSongFolder(base, artist, title string) (SongFolder, error) {
	folder := NewSongFolder(base, artist, title)
	for _, dir := range []string{folder.Documents(), folder.Audio(), folder.Video()} {
		if err := EnsureDir(dir); err != nil {
			return SongFolder{}, fmt.Errorf("create song folder: %w", err)
		}
	}
	return folder, nil
}

// Documents returns the documents subdirectory path.
func (f SongFolder) Documents() string {
	return filepath.Join(f.Root, "documents")
}

// Audio returns the audio subdirectory path.
func (f SongFolder) Audio() string {
	return filepath.Join(f.Root, "audio")
}

// Video returns the video subdirectory path.
func (f SongFolder) Video() string {
	return filepath.Join(f.Root, "video")
}

// Subdir returns the directory files of the given type belong in.
// Types without a dedicated subdirectory land in the song root.
func (f SongFolder) Subdir(mediaType model.MediaType) string {
	switch mediaType {
	case model.MediaDocument:
		return f.Documents()
	case model.MediaAudio:
		return f.Audio()
	case model.MediaVideo:
		return f.Video()
	default:
		return f.Root
	}
}

// CopyIntoSongFolder copies src into the folder's subdirectory for the
// given media type and returns the destination path. A name collision
// gets a numeric suffix instead of overwriting what is there.
//
// Returns an error if:
//   - The destination directory cannot be created
//   - The copy fails
func CopyIntoSongFolder(ctx context.Context, src string, folder SongFolder, mediaType model.MediaType) (string, error) {
	destDir := folder.Subdir(mediaType)
	if err := EnsureDir(destDir); err != nil {
		return "", fmt.Errorf("create destination: %w", err)
	}

	dst := UniquePath(filepath.Join(destDir, filepath.Base(src)))
	if err := CopyFile(ctx, src, dst); err != nil {
		return "", fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}
	return dst, nil
}

// MoveIntoSongFolder copies src into the song folder, then removes the
// source. When the copy lands but the source cannot be removed, the
// destination path is returned together with the error so the caller
// can still use the copied file.
func MoveIntoSongFolder(ctx context.Context, src string, folder SongFolder, mediaType model.MediaType) (string, error) {
	dst, err := CopyIntoSongFolder(ctx, src, folder, mediaType)
	if err != nil {
		return "", err
	}
	if err := os.Remove(src); err != nil {
		return dst, fmt.Errorf("remove source %s: %w", filepath.Base(src), err)
	}
	return dst, nil
}
