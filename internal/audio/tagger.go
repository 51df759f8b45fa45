package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/dhowden/tag"

	"github.com/musicpartmate/partmate/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
//
// Each tag field can be configured independently to determine whether
// it should be modified, cleared, or left unchanged.
type TagEditAction int

const (
	// TagEmpty clears the tag value (sets to empty string).
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the value from the song.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field.
//
// This allows fine-grained control over which tags are modified
// when stamping a song's metadata onto its audio files.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags: true,
//	    Title:      audio.TagModify,      // Update title from the song
//	    Artist:     audio.TagModify,      // Update artist from the song
//	    Genre:      audio.TagModify,      // Write the style as genre
//	    Tempo:      audio.TagDoNotModify, // Keep whatever the file has
//	    Comments:   audio.TagEmpty,       // Clear any existing comments
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, no tags are modified.
	ModifyTags bool

	// Title controls the TIT2 (Title) frame.
	Title TagEditAction

	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// Genre controls the TCON (Content type) frame, written from the
	// song's style.
	Genre TagEditAction

	// Tempo controls the TBPM (BPM) frame, written from the song's
	// free-text tempo.
	Tempo TagEditAction

	// Comments controls the COMM (Comments) frame, written from the
	// song's notes.
	Comments TagEditAction

	// Artwork controls the APIC (Attached picture) frame, embedded
	// from the song's primary document when that is an image file.
	Artwork TagEditAction
}

// DefaultTagConfig returns the default tag configuration.
//
// By default title, artist, genre, tempo and artwork are set to
// TagModify, which stamps them from the song. Comments are cleared.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags: true,
		Title:      TagModify,
		Artist:     TagModify,
		Genre:      TagModify,
		Tempo:      TagModify,
		Comments:   TagEmpty,
		Artwork:    TagModify,
	}
}

// TagResult reports what WriteTags did per file.
type TagResult struct {
	// Tagged lists the files whose tags were written.
	Tagged []string

	// Skipped lists the files left alone because they are not MP3.
	Skipped []string
}

// Tagger writes ID3 tags to a song's MP3 files.
//
// Tagger uses the id3v2 library to stamp the song's catalog metadata
// onto its audio recordings:
//   - Title, Artist
//   - Genre (from the song's style)
//   - BPM (from the song's tempo)
//   - Comments (from the song's notes)
//   - Cover picture (from the primary document, when it is an image)
//
// Example:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	result, err := tagger.WriteTags(song)
//	if err != nil {
//	    log.Printf("some files failed: %v", err)
//	}
//	fmt.Printf("tagged %d, skipped %d\n", len(result.Tagged), len(result.Skipped))
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// WriteTags stamps the song's metadata onto every MP3 in its audio
// list. Files with other extensions are skipped, id3v2 covers MP3
// only. When the primary document is an image it is embedded as the
// front cover. One broken file does not stop the rest; all per-file
// errors come back joined, alongside the result for what did succeed.
//
// Example:
//
//	result, err := tagger.WriteTags(song)
func (t *Tagger) WriteTags(song *model.Song) (TagResult, error) {
	var result TagResult
	var errs []error

	artwork, mime := t.artworkFor(song)

	for _, path := range song.Audios {
		if !strings.EqualFold(filepath.Ext(path), ".mp3") {
			result.Skipped = append(result.Skipped, path)
			continue
		}
		if err := t.tagFile(path, song, artwork, mime); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(path), err))
			continue
		}
		result.Tagged = append(result.Tagged, path)
	}

	return result, errors.Join(errs...)
}

func (t *Tagger) tagFile(path string, song *model.Song, artwork []byte, mime string) error {
	id3, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer id3.Close()

	if t.config.ModifyTags {
		t.updateStringTags(id3, song)
		t.updateArtwork(id3, artwork, mime)
	}

	return id3.Save()
}

// artworkFor loads the song's primary document for embedding, or nil
// when it is not an image file.
func (t *Tagger) artworkFor(song *model.Song) ([]byte, string) {
	if t.config.Artwork != TagModify {
		return nil, ""
	}

	var mime string
	switch strings.ToLower(filepath.Ext(song.PrimaryDocument())) {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".png":
		mime = "image/png"
	default:
		return nil, ""
	}

	data, err := os.ReadFile(song.PrimaryDocument())
	if err != nil {
		return nil, ""
	}
	return data, mime
}

// updateArtwork embeds the cover as an attached picture frame,
// replacing whatever pictures the file had.
func (t *Tagger) updateArtwork(id3 *id3v2.Tag, artwork []byte, mime string) {
	switch t.config.Artwork {
	case TagEmpty:
		id3.DeleteFrames(id3.CommonID("Attached picture"))
	case TagModify:
		if artwork == nil {
			return
		}
		id3.DeleteFrames(id3.CommonID("Attached picture"))
		id3.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    mime,
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     artwork,
		})
	}
}

// updateStringTags updates text-based ID3 frames based on configuration.
func (t *Tagger) updateStringTags(id3 *id3v2.Tag, song *model.Song) {
	// Title (TIT2)
	switch t.config.Title {
	case TagEmpty:
		id3.SetTitle("")
	case TagModify:
		id3.SetTitle(song.Title)
	}

	// Artist (TPE1)
	switch t.config.Artist {
	case TagEmpty:
		id3.SetArtist("")
	case TagModify:
		id3.SetArtist(song.Artist)
	}

	// Genre (TCON)
	switch t.config.Genre {
	case TagEmpty:
		id3.SetGenre("")
	case TagModify:
		id3.SetGenre(song.Style)
	}

	// Tempo (TBPM), free text as kept on the song
	switch t.config.Tempo {
	case TagEmpty:
		id3.DeleteFrames("TBPM")
	case TagModify:
		if song.Tempo != "" {
			id3.AddTextFrame("TBPM", id3v2.EncodingUTF8, song.Tempo)
		}
	}

	// Comments (COMM)
	switch t.config.Comments {
	case TagEmpty:
		id3.DeleteFrames(id3.CommonID("Comments"))
	case TagModify:
		if notes := song.Notes(); notes != "" {
			id3.AddCommentFrame(id3v2.CommentFrame{
				Encoding:    id3v2.EncodingUTF8,
				Language:    "eng",
				Description: "",
				Text:        notes,
			})
		}
	}
}

// TagInfo is the metadata read back from an audio file.
type TagInfo struct {
	Title  string
	Artist string
	Album  string
	Genre  string
	Year   int
	Track  int
}

// ReadTags reads the metadata of an audio file. Unlike WriteTags this
// is not limited to MP3; FLAC, OGG and M4A containers work as well.
//
// Returns an error if:
//   - The file cannot be opened
//   - The file carries no readable metadata
//
// Example:
//
//	info, err := audio.ReadTags("/recordings/take1.mp3")
//	if err == nil && info.Title != "" {
//	    song.Title = info.Title
//	}
func ReadTags(path string) (*TagInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}

	track, _ := meta.Track()
	return &TagInfo{
		Title:  meta.Title(),
		Artist: meta.Artist(),
		Album:  meta.Album(),
		Genre:  meta.Genre(),
		Year:   meta.Year(),
		Track:  track,
	}, nil
}
