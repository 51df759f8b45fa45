package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/musicpartmate/partmate/internal/audio"
	"github.com/musicpartmate/partmate/internal/config"
	"github.com/musicpartmate/partmate/internal/model"
)

// FolderScan is the classified inventory of one folder.
type FolderScan struct {
	// Documents, Audios and Videos hold the files whose extensions
	// matched the configured format lists.
	Documents []string
	Audios    []string
	Videos    []string

	// Unknown holds the files no format list claimed.
	Unknown []string
}

// MediaCount returns the number of recognized media files.
func (f *FolderScan) MediaCount() int {
	return len(f.Documents) + len(f.Audios) + len(f.Videos)
}

// Scanner classifies folder contents against the configured extension
// sets and builds songs out of folders.
//
// Example:
//
//	scanner := scan.NewScanner(settings)
//	song, err := scanner.SongFromFolder("/incoming/Imagine", "", "")
//	if err == nil && song.IsValid() {
//	    lib.AddSong(song)
//	}
type Scanner struct {
	settings *config.Settings
}

// NewScanner creates a Scanner bound to the given settings. A nil
// settings uses the defaults.
func NewScanner(settings *config.Settings) *Scanner {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	return &Scanner{settings: settings}
}

// ScanFolder walks the folder recursively and classifies every regular
// file by extension. Files are reported in walk order, which is
// deterministic (lexical per directory).
//
// Returns an error if the path does not exist or is not a directory.
func (s *Scanner) ScanFolder(path string) (*FolderScan, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", path)
	}

	result := &FolderScan{}
	err = filepath.WalkDir(path, func(file string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}
		mediaType, ok := s.settings.MediaTypeFor(file)
		if !ok {
			result.Unknown = append(result.Unknown, file)
			return nil
		}
		switch mediaType {
		case model.MediaDocument:
			result.Documents = append(result.Documents, file)
		case model.MediaAudio:
			result.Audios = append(result.Audios, file)
		case model.MediaVideo:
			result.Videos = append(result.Videos, file)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SongFromFolder builds a song from a folder's contents.
//
// The folder is scanned recursively and every recognized file is
// attached to the song. The folder path itself is recorded as the
// song's source. Title defaults to the folder name when empty; when
// title or artist are still missing after that, the first audio file's
// own tags fill the gaps, style included.
//
// The song is not validated here. A folder with no media yields a
// song that fails IsValid, which the importer reports and skips.
//
// Returns an error if the path does not exist or is not a directory.
func (s *Scanner) SongFromFolder(path, title, artist string) (*model.Song, error) {
	scanned, err := s.ScanFolder(path)
	if err != nil {
		return nil, err
	}

	givenTitle := title
	if title == "" {
		title = filepath.Base(path)
	}

	song := model.NewSong(title, artist)
	song.Path = path
	for _, f := range scanned.Documents {
		song.AddDocument(f)
	}
	for _, f := range scanned.Audios {
		song.AddAudio(f)
	}
	for _, f := range scanned.Videos {
		song.AddVideo(f)
	}

	s.prefillFromTags(song, scanned, givenTitle, artist)

	return song, nil
}

// prefillFromTags fills missing metadata from the first audio file.
// Only fields the caller left empty are touched; the folder-name
// title gives way to a real tag title.
func (s *Scanner) prefillFromTags(song *model.Song, scanned *FolderScan, givenTitle, givenArtist string) {
	if (givenTitle != "" && givenArtist != "") || len(scanned.Audios) == 0 {
		return
	}

	info, err := audio.ReadTags(scanned.Audios[0])
	if err != nil {
		return
	}

	if givenTitle == "" && info.Title != "" {
		song.Title = info.Title
	}
	if givenArtist == "" && info.Artist != "" {
		song.Artist = info.Artist
	}
	if song.Style == "" && info.Genre != "" {
		song.Style = info.Genre
	}
}
