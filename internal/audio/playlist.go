package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/musicpartmate/partmate/internal/media"
	"github.com/musicpartmate/partmate/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
//
// Each format has different features and compatibility:
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp
//   - WPL: XML format, Windows Media Player
//   - ZPL: XML format, Zune/Groove Music
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	// INI-style format with file, title, and length info.
	FormatPLS

	// FormatWPL creates .wpl files (Windows Media Player).
	// XML-based SMIL format.
	FormatWPL

	// FormatZPL creates .zpl files (Zune/Groove Music).
	// XML-based SMIL format with extended metadata.
	FormatZPL
)

// Extension returns the file extension for the format, dot included.
func (f PlaylistFormat) Extension() string {
	switch f {
	case FormatPLS:
		return ".pls"
	case FormatWPL:
		return ".wpl"
	case FormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}

// ParsePlaylistFormat maps a format name ("m3u", "pls", "wpl" or
// "zpl", case-insensitive) to its PlaylistFormat.
func ParsePlaylistFormat(name string) (PlaylistFormat, error) {
	switch strings.ToLower(name) {
	case "m3u":
		return FormatM3U, nil
	case "pls":
		return FormatPLS, nil
	case "wpl":
		return FormatWPL, nil
	case "zpl":
		return FormatZPL, nil
	default:
		return FormatM3U, fmt.Errorf("unsupported playlist format %q", name)
	}
}

// PlaylistCreator generates playlist files in various formats.
//
// PlaylistCreator takes a list of songs and generates a playlist of
// all their audio recordings, in list order. The output is a string
// that can be written to a file.
//
// Example:
//
//	// Create M3U playlist with extended info
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true)
//	content := creator.CreatePlaylist("Rehearsal set", songs)
//	os.WriteFile("set.m3u", []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,John Lennon - Imagine
//	// /library/John Lennon/Imagine/audio/take1.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines with title info
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// Parameters:
//   - format: The playlist format to generate
//   - extended: For M3U format, whether to include #EXTINF lines
//     (ignored for other formats)
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// CreatePlaylist generates playlist content for the songs' audio
// recordings. Songs without audio contribute nothing.
//
// Audio paths are written as they are stored on the song, so the
// playlist plays from anywhere as long as the library files stay put.
// Recording lengths are not on file; formats that want one get the
// customary "unknown" value instead.
//
// Example:
//
//	content := creator.CreatePlaylist("Ballads", lib.FilterByStyle("ballad"))
//	err := os.WriteFile("/playlists/ballads.m3u", []byte(content), 0644)
func (p *PlaylistCreator) CreatePlaylist(title string, songs []*model.Song) string {
	switch p.format {
	case FormatM3U:
		return p.createM3U(songs)
	case FormatPLS:
		return p.createPLS(songs)
	case FormatWPL:
		return p.createWPL(title, songs)
	case FormatZPL:
		return p.createZPL(title, songs)
	default:
		return p.createM3U(songs)
	}
}

// SavePlaylist writes the playlist into dir under the given name,
// sanitized and suffixed with the format's extension. An existing file
// of the same name is kept; the new playlist gets a numbered name.
// Returns the path written.
func (p *PlaylistCreator) SavePlaylist(ctx context.Context, dir, name string, songs []*model.Song) (string, error) {
	content := p.CreatePlaylist(name, songs)

	path := media.UniquePath(filepath.Join(dir, media.SanitizeFileName(name)+p.format.Extension()))
	if err := media.WriteFile(ctx, path, []byte(content)); err != nil {
		return "", fmt.Errorf("write playlist: %w", err)
	}
	return path, nil
}

// createM3U generates an M3U playlist.
//
// Standard M3U format:
//
//	filename1.mp3
//	filename2.mp3
//
// Extended M3U format (when extended=true):
//
//	#EXTM3U
//	#EXTINF:-1,Artist - Title
//	filename1.mp3
func (p *PlaylistCreator) createM3U(songs []*model.Song) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, song := range songs {
		for _, path := range song.Audios {
			if p.extended {
				sb.WriteString(fmt.Sprintf("#EXTINF:-1,%s\n", song.DisplayName()))
			}
			sb.WriteString(path + "\n")
		}
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
// PLS format is an INI-style text file:
//
//	[playlist]
//	File1=filename1.mp3
//	Title1=Song Title
//	Length1=-1
//	NumberOfEntries=2
//	Version=2
func (p *PlaylistCreator) createPLS(songs []*model.Song) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	entries := 0
	for _, song := range songs {
		for _, path := range song.Audios {
			entries++
			sb.WriteString(fmt.Sprintf("File%d=%s\n", entries, path))
			sb.WriteString(fmt.Sprintf("Title%d=%s\n", entries, song.DisplayName()))
			sb.WriteString(fmt.Sprintf("Length%d=-1\n", entries))
		}
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", entries))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// createWPL generates a Windows Media Player playlist.
//
// WPL is an XML-based SMIL format used by Windows Media Player.
func (p *PlaylistCreator) createWPL(title string, songs []*model.Song) string {
	var sb strings.Builder

	sb.WriteString("<?wpl version=\"1.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(title)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, song := range songs {
		for _, path := range song.Audios {
			sb.WriteString(fmt.Sprintf("      <media src=\"%s\"/>\n", escapeXML(path)))
		}
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// createZPL generates a Zune/Groove Music playlist.
//
// ZPL is similar to WPL but includes additional metadata attributes
// like track title and artist.
func (p *PlaylistCreator) createZPL(title string, songs []*model.Song) string {
	var sb strings.Builder

	entries := 0
	for _, song := range songs {
		entries += len(song.Audios)
	}

	sb.WriteString("<?zpl version=\"2.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(title)))
	sb.WriteString("    <meta name=\"Generator\" content=\"partmate\"/>\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"ItemCount\" content=\"%d\"/>\n", entries))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, song := range songs {
		for _, path := range song.Audios {
			sb.WriteString(fmt.Sprintf("      <media src=\"%s\" trackTitle=\"%s\" trackArtist=\"%s\"/>\n",
				escapeXML(path),
				escapeXML(song.Title),
				escapeXML(song.Artist)))
		}
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// escapeXML escapes special XML characters in a string.
//
// Replaces: & < > " '
// With:     &amp; &lt; &gt; &quot; &apos;
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
