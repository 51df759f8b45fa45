package model

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestSong_DisplayName(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		artist string
		want   string
	}{
		{"both fields", "Imagine", "John Lennon", "John Lennon - Imagine"},
		{"title only", "Imagine", "", "Imagine"},
		{"artist only", "", "John Lennon", "John Lennon - (untitled)"},
		{"neither", "", "", "(untitled)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			song := NewSong(tt.title, tt.artist)
			if got := song.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewSong_AssignsID(t *testing.T) {
	a := NewSong("A", "B")
	b := NewSong("A", "B")

	if a.ID == "" {
		t.Fatal("NewSong should assign a non-empty ID")
	}
	if a.ID == b.ID {
		t.Errorf("two songs received the same ID %q", a.ID)
	}
}

func TestSong_AddMediaIsSetLike(t *testing.T) {
	song := NewSong("Imagine", "John Lennon")

	song.AddDocument("score.pdf")
	song.AddDocument("lyrics.txt")
	song.AddDocument("score.pdf") // duplicate, ignored

	want := []string{"score.pdf", "lyrics.txt"}
	if !slices.Equal(song.Documents, want) {
		t.Errorf("Documents = %v, want %v", song.Documents, want)
	}

	song.AddLink("https://example.com")
	song.AddLink("https://example.com")
	if len(song.Links) != 1 {
		t.Errorf("Links has %d entries, want 1", len(song.Links))
	}
}

func TestSong_RemoveMedia(t *testing.T) {
	song := NewSong("Imagine", "John Lennon")
	song.AddDocument("shared.dat")
	song.AddAudio("shared.dat")
	song.AddAudio("take1.mp3")
	song.AddVideo("live.mp4")

	if !song.RemoveMedia("shared.dat") {
		t.Error("RemoveMedia should report true for a present path")
	}
	if song.HasDocuments() {
		t.Errorf("Documents = %v, want empty", song.Documents)
	}
	if !slices.Equal(song.Audios, []string{"take1.mp3"}) {
		t.Errorf("Audios = %v, want [take1.mp3]", song.Audios)
	}

	if song.RemoveMedia("absent.pdf") {
		t.Error("RemoveMedia should report false for an absent path")
	}
	if !slices.Equal(song.Videos, []string{"live.mp4"}) {
		t.Errorf("Videos = %v, want [live.mp4]", song.Videos)
	}
}

func TestSong_Validate(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "score.pdf")
	if err := os.WriteFile(existing, []byte("pdf"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("valid song", func(t *testing.T) {
		song := NewSong("Imagine", "John Lennon")
		song.AddDocument(existing)
		if errs := song.Validate(); len(errs) != 0 {
			t.Errorf("Validate() = %v, want no errors", errs)
		}
		if !song.IsValid() {
			t.Error("IsValid() = false, want true")
		}
	})

	t.Run("links alone satisfy the media rule", func(t *testing.T) {
		song := NewSong("Imagine", "")
		song.AddLink("https://example.com/tutorial")
		if errs := song.Validate(); len(errs) != 0 {
			t.Errorf("Validate() = %v, want no errors", errs)
		}
	})

	t.Run("missing title and artist", func(t *testing.T) {
		song := NewSong("", "")
		song.AddDocument(existing)
		errs := song.Validate()
		if len(errs) != 1 {
			t.Fatalf("Validate() = %v, want exactly one error", errs)
		}
	})

	t.Run("no media at all", func(t *testing.T) {
		song := NewSong("Imagine", "John Lennon")
		if errs := song.Validate(); len(errs) != 1 {
			t.Errorf("Validate() = %v, want exactly one error", errs)
		}
	})

	t.Run("referenced file removed from disk", func(t *testing.T) {
		doomed := filepath.Join(dir, "doomed.pdf")
		if err := os.WriteFile(doomed, []byte("pdf"), 0644); err != nil {
			t.Fatal(err)
		}
		song := NewSong("Imagine", "John Lennon")
		song.AddDocument(doomed)
		if !song.IsValid() {
			t.Fatal("song should be valid while the file exists")
		}

		if err := os.Remove(doomed); err != nil {
			t.Fatal(err)
		}
		errs := song.Validate()
		if len(errs) != 1 {
			t.Fatalf("Validate() = %v, want exactly one error after file removal", errs)
		}
	})
}

func TestSong_RecordRoundTrip(t *testing.T) {
	song := NewSong("Imagine", "John Lennon")
	song.Tempo = "76 BPM"
	song.Style = "Pop"
	song.Path = "/music/john-lennon/imagine"
	song.AddDocument("score.pdf")
	song.AddAudio("take1.mp3")
	song.AddVideo("live.mp4")
	song.AddLink("https://example.com")
	song.Metadata["notes"] = "capo on 2nd fret"

	back := SongFromRecord(song.ToRecord())

	if back.ID != song.ID {
		t.Errorf("ID = %q, want %q", back.ID, song.ID)
	}
	if back.Title != song.Title || back.Artist != song.Artist {
		t.Errorf("title/artist = %q/%q, want %q/%q", back.Title, back.Artist, song.Title, song.Artist)
	}
	if back.Tempo != song.Tempo || back.Style != song.Style || back.Path != song.Path {
		t.Error("tempo, style or path did not survive the round trip")
	}
	if !slices.Equal(back.Documents, song.Documents) ||
		!slices.Equal(back.Audios, song.Audios) ||
		!slices.Equal(back.Videos, song.Videos) ||
		!slices.Equal(back.Links, song.Links) {
		t.Error("media lists did not survive the round trip")
	}
	if back.Metadata["notes"] != "capo on 2nd fret" {
		t.Errorf("Metadata[notes] = %q, want %q", back.Metadata["notes"], "capo on 2nd fret")
	}
}

func TestSong_RecordPathNull(t *testing.T) {
	song := NewSong("Imagine", "John Lennon")
	rec := song.ToRecord()
	if rec.Path != nil {
		t.Errorf("Path = %v, want nil for a song without source folder", *rec.Path)
	}

	back := SongFromRecord(rec)
	if back.Path != "" {
		t.Errorf("Path = %q, want empty string", back.Path)
	}
}

func TestSongFromRecord_GeneratesMissingID(t *testing.T) {
	rec := SongRecord{Title: "Imagine", Artist: "John Lennon"}
	song := SongFromRecord(rec)
	if song.ID == "" {
		t.Error("SongFromRecord should assign an ID when the record has none")
	}
}

func TestSong_Clone(t *testing.T) {
	song := NewSong("Imagine", "John Lennon")
	song.AddDocument("score.pdf")
	song.Metadata["notes"] = "original"

	dup := song.Clone()
	dup.AddDocument("extra.pdf")
	dup.Metadata["notes"] = "changed"

	if len(song.Documents) != 1 {
		t.Errorf("original Documents = %v, clone edits leaked", song.Documents)
	}
	if song.Metadata["notes"] != "original" {
		t.Errorf("original Metadata = %v, clone edits leaked", song.Metadata)
	}
}

func TestMediaType_String(t *testing.T) {
	tests := []struct {
		mt   MediaType
		want string
	}{
		{MediaDocument, "document"},
		{MediaAudio, "audio"},
		{MediaVideo, "video"},
		{MediaLink, "link"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.mt.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSong_MediaRefs(t *testing.T) {
	song := NewSong("Imagine", "John Lennon")
	song.AddDocument("score.pdf")
	song.AddAudio("take1.mp3")
	song.AddVideo("live.mp4")
	song.AddLink("https://example.com")

	refs := song.MediaRefs()
	if len(refs) != 4 {
		t.Fatalf("MediaRefs() returned %d refs, want 4", len(refs))
	}

	wantTypes := []MediaType{MediaDocument, MediaAudio, MediaVideo, MediaLink}
	for i, ref := range refs {
		if ref.Type != wantTypes[i] {
			t.Errorf("refs[%d].Type = %v, want %v", i, ref.Type, wantTypes[i])
		}
		if ref.Song != song {
			t.Errorf("refs[%d].Song should point back at the owning song", i)
		}
	}
}
