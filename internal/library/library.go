package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/musicpartmate/partmate/internal/logging"
	"github.com/musicpartmate/partmate/internal/model"
)

// Library owns the song collection and its JSON store.
//
// Every mutating call validates, applies the change in memory,
// persists the whole store synchronously, and notifies observers.
// Query calls never touch the disk.
//
// The library is single-threaded by design: it holds no lock, and an
// embedding application that calls it from more than one goroutine
// must serialize access itself. Saves run on the calling goroutine and
// can be slow; keep them off latency-sensitive paths.
//
// Example:
//
//	lib, err := library.New(library.Config{LibraryPath: path}, logger)
//	if err != nil {
//	    return err
//	}
//	song := model.NewSong("Imagine", "John Lennon")
//	song.AddLink("https://example.com/tutorial")
//	if !lib.AddSong(song) {
//	    fmt.Println("rejected: invalid or duplicate")
//	}
type Library struct {
	config    Config
	songs     []*model.Song
	log       *logging.Logger
	listeners []listener

	nextListenerID int

	// now is the clock used for store and backup timestamps.
	now func() time.Time
}

// New creates a Library for the given configuration, ensures the store
// directory exists and loads the store file. A missing file is not an
// error: the library simply starts empty. A corrupt or unreadable file
// is logged and also yields an empty library, so the application can
// still come up; the broken file stays on disk untouched until the
// next successful save.
//
// A zero-value LibraryPath falls back to DefaultConfig's path. A nil
// logger disables logging.
func New(cfg Config, log *logging.Logger) (*Library, error) {
	if cfg.LibraryPath == "" {
		cfg.LibraryPath = DefaultConfig().LibraryPath
	}
	if log == nil {
		log = logging.Nop()
	}

	lib := &Library{
		config: cfg,
		log:    log,
		now:    time.Now,
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LibraryPath), 0755); err != nil {
		return nil, fmt.Errorf("create library directory: %w", err)
	}

	if err := lib.Load(); err != nil {
		log.Error("loading library: %v", err)
	}

	return lib, nil
}

// Config returns the active library configuration. Fields found in the
// store file during Load override the constructor values.
func (l *Library) Config() Config {
	return l.config
}

// SongCount returns the number of songs in the collection.
func (l *Library) SongCount() int {
	return len(l.songs)
}

// Songs returns the collection in display order. The slice is a copy;
// the songs themselves are the library's entries and must be treated
// as read-only. To change one, Clone it, edit the clone and pass it to
// UpdateSong.
func (l *Library) Songs() []*model.Song {
	return append([]*model.Song(nil), l.songs...)
}

// AddSong appends a song to the collection. It returns false without
// persisting or notifying when the song is invalid or a duplicate
// (same title and artist, ignoring case) already exists. The library
// stores its own copy, so later edits to the argument do not leak into
// the collection.
func (l *Library) AddSong(song *model.Song) bool {
	if song == nil || !song.IsValid() {
		return false
	}
	if l.FindDuplicate(song) != nil {
		return false
	}

	stored := song.Clone()
	l.songs = append(l.songs, stored)
	l.persist()
	l.notify(Event{Type: EventSongAdded, Song: stored})
	return true
}

// RemoveSong removes a song from the collection. The song is matched
// by ID, or by identity for songs that never got one. Returns false,
// leaving the store untouched, when the song is not present.
func (l *Library) RemoveSong(song *model.Song) bool {
	idx := l.indexOf(song)
	if idx < 0 {
		return false
	}

	removed := l.songs[idx]
	l.songs = append(l.songs[:idx], l.songs[idx+1:]...)
	l.persist()
	l.notify(Event{Type: EventSongRemoved, Song: removed})
	return true
}

// UpdateSong replaces a stored song with the given value, matched by
// ID. The replacement must be valid. The caller keeps ownership of the
// argument: the library swaps in its own copy, so there is no shared
// mutable state between caller and store. Returns false when the song
// is unknown or invalid.
func (l *Library) UpdateSong(song *model.Song) bool {
	idx := l.indexOf(song)
	if idx < 0 || !song.IsValid() {
		return false
	}

	stored := song.Clone()
	l.songs[idx] = stored
	l.persist()
	l.notify(Event{Type: EventSongUpdated, Song: stored})
	return true
}

// indexOf locates a song by pointer or by ID.
func (l *Library) indexOf(song *model.Song) int {
	if song == nil {
		return -1
	}
	for i, s := range l.songs {
		if s == song || (song.ID != "" && s.ID == song.ID) {
			return i
		}
	}
	return -1
}

// persist saves the store after a mutation. The mutation stands even
// when the save fails; the failure is logged and the next successful
// save repairs the file.
func (l *Library) persist() {
	if err := l.Save(); err != nil {
		l.log.Error("saving library: %v", err)
	}
}

// FindDuplicate returns the first existing song with the same title
// and artist as the argument, ignoring case, or nil.
func (l *Library) FindDuplicate(song *model.Song) *model.Song {
	for _, existing := range l.songs {
		if strings.EqualFold(existing.Title, song.Title) &&
			strings.EqualFold(existing.Artist, song.Artist) {
			return existing
		}
	}
	return nil
}

// FindSongByID looks a song up by its surrogate ID. For stores written
// before surrogate IDs existed, the legacy "artist#title" key is
// accepted as a fallback. Returns nil when nothing matches.
func (l *Library) FindSongByID(id string) *model.Song {
	for _, song := range l.songs {
		if song.ID == id {
			return song
		}
	}
	for _, song := range l.songs {
		if song.Key() == id {
			return song
		}
	}
	return nil
}

// SearchSongs returns the songs whose selected fields contain the
// query, case-insensitively. Valid field names are "title", "artist"
// and "style"; with no fields given, all three are searched. Fields
// are checked in that order and a song is taken on its first hit.
func (l *Library) SearchSongs(query string, fields ...string) []*model.Song {
	if len(fields) == 0 {
		fields = []string{"title", "artist", "style"}
	}

	selected := make(map[string]bool, len(fields))
	for _, f := range fields {
		selected[strings.ToLower(f)] = true
	}

	q := strings.ToLower(query)
	var results []*model.Song
	for _, song := range l.songs {
		switch {
		case selected["title"] && strings.Contains(strings.ToLower(song.Title), q):
			results = append(results, song)
		case selected["artist"] && strings.Contains(strings.ToLower(song.Artist), q):
			results = append(results, song)
		case selected["style"] && strings.Contains(strings.ToLower(song.Style), q):
			results = append(results, song)
		}
	}
	return results
}

// FilterByArtist returns the songs whose artist equals the argument,
// ignoring case.
func (l *Library) FilterByArtist(artist string) []*model.Song {
	var results []*model.Song
	for _, song := range l.songs {
		if strings.EqualFold(song.Artist, artist) {
			results = append(results, song)
		}
	}
	return results
}

// FilterByStyle returns the songs whose style equals the argument,
// ignoring case.
func (l *Library) FilterByStyle(style string) []*model.Song {
	var results []*model.Song
	for _, song := range l.songs {
		if strings.EqualFold(song.Style, style) {
			results = append(results, song)
		}
	}
	return results
}

// SongsSorted returns a copy of the collection sorted by the given
// field ("title", "artist" or "style"), case-insensitively and stably.
// An unknown field returns the copy in insertion order.
func (l *Library) SongsSorted(by string, reverse bool) []*model.Song {
	sorted := l.Songs()

	var key func(*model.Song) string
	switch by {
	case "title":
		key = func(s *model.Song) string { return strings.ToLower(s.Title) }
	case "artist":
		key = func(s *model.Song) string { return strings.ToLower(s.Artist) }
	case "style":
		key = func(s *model.Song) string { return strings.ToLower(s.Style) }
	default:
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if reverse {
			return key(sorted[j]) < key(sorted[i])
		}
		return key(sorted[i]) < key(sorted[j])
	})
	return sorted
}

// Artists returns the sorted unique non-empty artist names.
func (l *Library) Artists() []string {
	return l.uniqueValues(func(s *model.Song) string { return s.Artist })
}

// Styles returns the sorted unique non-empty style names.
func (l *Library) Styles() []string {
	return l.uniqueValues(func(s *model.Song) string { return s.Style })
}

func (l *Library) uniqueValues(field func(*model.Song) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, song := range l.songs {
		v := field(song)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Stats summarizes the collection.
type Stats struct {
	TotalSongs         int    `json:"total_songs"`
	TotalArtists       int    `json:"total_artists"`
	TotalStyles        int    `json:"total_styles"`
	SongsWithDocuments int    `json:"songs_with_documents"`
	SongsWithAudio     int    `json:"songs_with_audio"`
	SongsWithVideo     int    `json:"songs_with_video"`
	MostCommonStyle    string `json:"most_common_style"`
	MostProlificArtist string `json:"most_prolific_artist"`
}

// Statistics computes collection totals, per-media counts, the most
// frequent style and the artist with the most songs. Ties go to the
// value that reached the maximum first in collection order, which
// keeps the result deterministic. Empty fields are not counted.
func (l *Library) Statistics() Stats {
	stats := Stats{
		TotalSongs:         len(l.songs),
		TotalArtists:       len(l.Artists()),
		TotalStyles:        len(l.Styles()),
		MostCommonStyle:    l.mostCommon(func(s *model.Song) string { return s.Style }),
		MostProlificArtist: l.mostCommon(func(s *model.Song) string { return s.Artist }),
	}
	for _, song := range l.songs {
		if song.HasDocuments() {
			stats.SongsWithDocuments++
		}
		if song.HasAudio() {
			stats.SongsWithAudio++
		}
		if song.HasVideo() {
			stats.SongsWithVideo++
		}
	}
	return stats
}

func (l *Library) mostCommon(field func(*model.Song) string) string {
	counts := make(map[string]int)
	best := ""
	bestCount := 0
	for _, song := range l.songs {
		v := field(song)
		if v == "" {
			continue
		}
		counts[v]++
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}
