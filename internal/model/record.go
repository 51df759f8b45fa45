package model

// SongRecord is the persisted form of a Song, the shape written to and
// read from library stores and exports.
//
// The path field serializes as null when the song has no source
// folder. The id and links fields are optional on read so stores
// written by older versions load cleanly; both are always written.
type SongRecord struct {
	ID        string            `json:"id,omitempty"`
	Title     string            `json:"title"`
	Artist    string            `json:"artist"`
	Tempo     string            `json:"tempo"`
	Style     string            `json:"style"`
	Path      *string           `json:"path"`
	Documents []string          `json:"documents"`
	Audios    []string          `json:"audios"`
	Videos    []string          `json:"videos"`
	Links     []string          `json:"links,omitempty"`
	Metadata  map[string]string `json:"metadata"`
}

// ToRecord converts the song to its persisted form. Slices and the
// metadata map are copied, never shared, and render as empty JSON
// collections rather than null.
func (s *Song) ToRecord() SongRecord {
	rec := SongRecord{
		ID:        s.ID,
		Title:     s.Title,
		Artist:    s.Artist,
		Tempo:     s.Tempo,
		Style:     s.Style,
		Documents: copyList(s.Documents),
		Audios:    copyList(s.Audios),
		Videos:    copyList(s.Videos),
		Links:     copyList(s.Links),
		Metadata:  copyMap(s.Metadata),
	}
	if s.Path != "" {
		path := s.Path
		rec.Path = &path
	}
	return rec
}

// SongFromRecord reconstructs a Song from its persisted form. Missing
// fields fall back to zero values; a missing ID gets a fresh one so
// every loaded song is addressable.
func SongFromRecord(rec SongRecord) *Song {
	song := &Song{
		ID:        rec.ID,
		Title:     rec.Title,
		Artist:    rec.Artist,
		Tempo:     rec.Tempo,
		Style:     rec.Style,
		Documents: copyList(rec.Documents),
		Audios:    copyList(rec.Audios),
		Videos:    copyList(rec.Videos),
		Links:     copyList(rec.Links),
		Metadata:  copyMap(rec.Metadata),
	}
	if rec.Path != nil {
		song.Path = *rec.Path
	}
	if song.ID == "" {
		song.ID = NewSongID()
	}
	return song
}

func copyList(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
