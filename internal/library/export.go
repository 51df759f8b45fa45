package library

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/musicpartmate/partmate/internal/model"
)

// Export formats understood by Export.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// exportFile is the JSON export shape. Unlike the store it carries no
// settings block; exports are for taking the collection elsewhere, not
// for restoring state.
type exportFile struct {
	ExportedDate string             `json:"exported_date"`
	SongCount    int                `json:"song_count"`
	Songs        []model.SongRecord `json:"songs"`
}

// Export writes the collection to path in the given format, FormatJSON
// or FormatCSV. The JSON export keeps every song field; the CSV export
// flattens each song to one row with the media lists joined by
// semicolons, and drops links and metadata.
//
// Returns an error if:
//   - the format is not one of the supported formats.
//   - the file cannot be written.
func (l *Library) Export(path, format string) error {
	switch format {
	case FormatJSON:
		return l.exportJSON(path)
	case FormatCSV:
		return l.exportCSV(path)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func (l *Library) exportJSON(path string) error {
	records := make([]model.SongRecord, len(l.songs))
	for i, song := range l.songs {
		records[i] = song.ToRecord()
	}

	data, err := json.MarshalIndent(exportFile{
		ExportedDate: l.now().Format(timeLayout),
		SongCount:    len(records),
		Songs:        records,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

func (l *Library) exportCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"title", "artist", "tempo", "style", "documents", "audios", "videos"}); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	for _, song := range l.songs {
		row := []string{
			song.Title,
			song.Artist,
			song.Tempo,
			song.Style,
			strings.Join(song.Documents, ";"),
			strings.Join(song.Audios, ";"),
			strings.Join(song.Videos, ";"),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	return nil
}
