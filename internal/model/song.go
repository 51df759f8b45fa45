package model

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// MetadataNotes is the reserved metadata key holding free-text notes.
const MetadataNotes = "notes"

// Song represents one catalog entry: a piece of music together with
// the local files and links that belong to it.
//
// Song bundles:
//   - Title, Artist, Tempo and Style metadata
//   - Ordered lists of document, audio and video file paths
//   - Web links (URLs) related to the song
//   - An open-ended string metadata map (the "notes" key is reserved
//     for free-text notes)
//
// A song is valid when it has a title or an artist, references at least
// one medium (document, audio, video or link), and every referenced
// file exists on disk. Identity for duplicate detection is the
// case-insensitive (title, artist) pair; the ID field is an opaque
// surrogate used for external addressing only.
//
// Example:
//
//	song := model.NewSong("Imagine", "John Lennon")
//	song.AddDocument("/scores/imagine.pdf")
//	song.Tempo = "76 BPM"
//	fmt.Println(song.DisplayName()) // "John Lennon - Imagine"
type Song struct {
	// ID is an opaque surrogate identifier, generated once and kept
	// stable across saves. Never derived from title or artist.
	ID string

	// Title is the song title.
	Title string

	// Artist is the performing or composing artist.
	Artist string

	// Tempo is free-text, e.g. "120 BPM".
	Tempo string

	// Style is the musical style or genre.
	Style string

	// Path is the source folder the song was imported from.
	// Empty string when the song was created by hand.
	Path string

	// Documents holds paths to sheet music, lyrics and other documents.
	Documents []string

	// Audios holds paths to audio recordings.
	Audios []string

	// Videos holds paths to video recordings.
	Videos []string

	// Links holds related URLs (lessons, performances, shop pages).
	Links []string

	// Metadata holds open-ended extra fields.
	Metadata map[string]string
}

// NewSong creates a Song with a fresh surrogate ID and an initialized
// metadata map.
func NewSong(title, artist string) *Song {
	return &Song{
		ID:       NewSongID(),
		Title:    title,
		Artist:   artist,
		Metadata: make(map[string]string),
	}
}

// NewSongID returns a new opaque song identifier.
func NewSongID() string {
	return uuid.NewString()
}

// DisplayName returns a human-readable name for the song.
//
// Preference order:
//   - "Artist - Title" when both are set
//   - the title alone
//   - "Artist - (untitled)" when only the artist is set
//   - "(untitled)" when neither is set
func (s *Song) DisplayName() string {
	switch {
	case s.Artist != "" && s.Title != "":
		return fmt.Sprintf("%s - %s", s.Artist, s.Title)
	case s.Title != "":
		return s.Title
	case s.Artist != "":
		return fmt.Sprintf("%s - (untitled)", s.Artist)
	default:
		return "(untitled)"
	}
}

// Key returns the legacy "{artist}#{title}" lookup key. It collides for
// songs sharing both fields and is kept only for compatibility with
// stores written before surrogate IDs existed; prefer ID.
func (s *Song) Key() string {
	return s.Artist + "#" + s.Title
}

// HasDocuments reports whether the song references any documents.
func (s *Song) HasDocuments() bool {
	return len(s.Documents) > 0
}

// HasAudio reports whether the song references any audio files.
func (s *Song) HasAudio() bool {
	return len(s.Audios) > 0
}

// HasVideo reports whether the song references any video files.
func (s *Song) HasVideo() bool {
	return len(s.Videos) > 0
}

// PrimaryDocument returns the first document path, or "" when the song
// has no documents.
func (s *Song) PrimaryDocument() string {
	if len(s.Documents) == 0 {
		return ""
	}
	return s.Documents[0]
}

// Notes returns the free-text notes stored under the reserved
// metadata key.
func (s *Song) Notes() string {
	return s.Metadata[MetadataNotes]
}

// AddDocument appends a document path unless it is already present.
// First-seen order is preserved.
func (s *Song) AddDocument(path string) {
	s.Documents = appendUnique(s.Documents, path)
}

// AddAudio appends an audio path unless it is already present.
func (s *Song) AddAudio(path string) {
	s.Audios = appendUnique(s.Audios, path)
}

// AddVideo appends a video path unless it is already present.
func (s *Song) AddVideo(path string) {
	s.Videos = appendUnique(s.Videos, path)
}

// AddLink appends a URL unless it is already present.
func (s *Song) AddLink(url string) {
	s.Links = appendUnique(s.Links, url)
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

// RemoveMedia removes the path from every media list that contains it.
// A path may appear in more than one list; all occurrences go. Returns
// whether anything was removed. Links are not touched.
func (s *Song) RemoveMedia(path string) bool {
	removed := false
	for _, list := range []*[]string{&s.Documents, &s.Audios, &s.Videos} {
		if filtered, ok := removeString(*list, path); ok {
			*list = filtered
			removed = true
		}
	}
	return removed
}

func removeString(list []string, value string) ([]string, bool) {
	found := false
	out := list[:0]
	for _, v := range list {
		if v == value {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		return list, false
	}
	return out, true
}

// AllMediaFiles returns the document, audio and video paths flattened
// into one list, in that order. Links are excluded.
func (s *Song) AllMediaFiles() []string {
	all := make([]string, 0, len(s.Documents)+len(s.Audios)+len(s.Videos))
	all = append(all, s.Documents...)
	all = append(all, s.Audios...)
	all = append(all, s.Videos...)
	return all
}

// Validate checks the song invariants and returns one message per
// violation. An empty result means the song is valid. Validate never
// mutates the song.
//
// Checked invariants:
//   - the song has a title or an artist
//   - the song references at least one document, audio, video or link
//   - every referenced file path exists on disk
func (s *Song) Validate() []string {
	var errs []string

	if s.Title == "" && s.Artist == "" {
		errs = append(errs, "song must have a title or an artist")
	}

	if !s.HasDocuments() && !s.HasAudio() && !s.HasVideo() && len(s.Links) == 0 {
		errs = append(errs, "song must have at least one document, audio, video or link")
	}

	for _, path := range s.AllMediaFiles() {
		if _, err := os.Stat(path); err != nil {
			errs = append(errs, fmt.Sprintf("file not found: %s", path))
		}
	}

	return errs
}

// IsValid reports whether Validate finds no violations.
func (s *Song) IsValid() bool {
	return len(s.Validate()) == 0
}

// Clone returns a deep copy of the song. The copy shares no slices or
// maps with the original, so it can be edited freely before being
// passed back to the library as a replacement.
func (s *Song) Clone() *Song {
	dup := *s
	dup.Documents = append([]string(nil), s.Documents...)
	dup.Audios = append([]string(nil), s.Audios...)
	dup.Videos = append([]string(nil), s.Videos...)
	dup.Links = append([]string(nil), s.Links...)
	dup.Metadata = make(map[string]string, len(s.Metadata))
	for k, v := range s.Metadata {
		dup.Metadata[k] = v
	}
	return &dup
}

// String implements fmt.Stringer using the display name.
func (s *Song) String() string {
	return s.DisplayName()
}
