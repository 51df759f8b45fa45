package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/musicpartmate/partmate/internal/audio"
	"github.com/musicpartmate/partmate/internal/model"
)

// seedFolder builds a media folder with one file per class plus an
// unclassifiable one.
func seedFolder(t *testing.T, name string) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), name)
	files := []string{
		"lead.pdf",
		"cover.jpg",
		filepath.Join("audio", "take1.mp3"),
		filepath.Join("video", "clip.mp4"),
		"session.xyz",
	}
	for _, rel := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestScanner_ScanFolder(t *testing.T) {
	dir := seedFolder(t, "Imagine")
	scanner := NewScanner(nil)

	scanned, err := scanner.ScanFolder(dir)
	if err != nil {
		t.Fatalf("ScanFolder() failed: %v", err)
	}

	// .jpg counts as a document (scanned sheet music), documents win
	// over other classes.
	if len(scanned.Documents) != 2 {
		t.Errorf("Documents = %d, want 2 (pdf + jpg)", len(scanned.Documents))
	}
	if len(scanned.Audios) != 1 {
		t.Errorf("Audios = %d, want 1", len(scanned.Audios))
	}
	if len(scanned.Videos) != 1 {
		t.Errorf("Videos = %d, want 1", len(scanned.Videos))
	}
	if len(scanned.Unknown) != 1 {
		t.Errorf("Unknown = %d, want 1", len(scanned.Unknown))
	}
	if got := scanned.MediaCount(); got != 4 {
		t.Errorf("MediaCount() = %d, want 4", got)
	}
}

func TestScanner_ScanFolder_Errors(t *testing.T) {
	scanner := NewScanner(nil)

	if _, err := scanner.ScanFolder(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("ScanFolder(missing) should fail")
	}

	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := scanner.ScanFolder(file); err == nil {
		t.Error("ScanFolder(regular file) should fail")
	}
}

func TestScanner_SongFromFolder(t *testing.T) {
	dir := seedFolder(t, "Imagine")
	scanner := NewScanner(nil)

	song, err := scanner.SongFromFolder(dir, "", "John Lennon")
	if err != nil {
		t.Fatalf("SongFromFolder() failed: %v", err)
	}

	if song.Title != "Imagine" {
		t.Errorf("Title = %q, want folder name Imagine", song.Title)
	}
	if song.Artist != "John Lennon" {
		t.Errorf("Artist = %q, want John Lennon", song.Artist)
	}
	if song.Path != dir {
		t.Errorf("Path = %q, want %q", song.Path, dir)
	}
	if song.ID == "" {
		t.Error("imported song has no ID")
	}
	if len(song.Documents) != 2 || len(song.Audios) != 1 || len(song.Videos) != 1 {
		t.Errorf("media = %d/%d/%d, want 2/1/1",
			len(song.Documents), len(song.Audios), len(song.Videos))
	}
	if !song.IsValid() {
		t.Errorf("imported song should be valid, got %v", song.Validate())
	}
}

func TestScanner_SongFromFolder_ExplicitTitleWins(t *testing.T) {
	dir := seedFolder(t, "Imagine")
	scanner := NewScanner(nil)

	song, err := scanner.SongFromFolder(dir, "Custom Name", "Somebody")
	if err != nil {
		t.Fatal(err)
	}
	if song.Title != "Custom Name" {
		t.Errorf("Title = %q, want Custom Name", song.Title)
	}
}

func TestScanner_SongFromFolder_EmptyFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Empty")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	song, err := NewScanner(nil).SongFromFolder(dir, "", "")
	if err != nil {
		t.Fatalf("SongFromFolder() on empty folder failed: %v", err)
	}
	// The song exists but cannot pass validation: no artist, no media.
	if song.IsValid() {
		t.Error("song from an empty folder should not be valid")
	}
}

func TestScanner_SongFromFolder_TagPrefill(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "untitled-session")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	mp3 := filepath.Join(dir, "take1.mp3")
	if err := os.WriteFile(mp3, nil, 0644); err != nil {
		t.Fatal(err)
	}

	// Stamp real metadata onto the recording, then let the scanner
	// discover it.
	seed := model.NewSong("Real Title", "Real Artist")
	seed.Style = "rock"
	seed.AddAudio(mp3)
	if _, err := audio.NewTagger(audio.DefaultTagConfig()).WriteTags(seed); err != nil {
		t.Fatalf("seeding tags failed: %v", err)
	}

	song, err := NewScanner(nil).SongFromFolder(dir, "", "")
	if err != nil {
		t.Fatalf("SongFromFolder() failed: %v", err)
	}
	if song.Title != "Real Title" {
		t.Errorf("Title = %q, want tag prefill Real Title", song.Title)
	}
	if song.Artist != "Real Artist" {
		t.Errorf("Artist = %q, want tag prefill Real Artist", song.Artist)
	}
	if song.Style != "rock" {
		t.Errorf("Style = %q, want tag prefill rock", song.Style)
	}

	// An explicit title must survive the prefill.
	song, err = NewScanner(nil).SongFromFolder(dir, "Given Title", "")
	if err != nil {
		t.Fatal(err)
	}
	if song.Title != "Given Title" {
		t.Errorf("Title = %q, want Given Title", song.Title)
	}
	if song.Artist != "Real Artist" {
		t.Errorf("Artist = %q, prefill should still fill the artist", song.Artist)
	}
}
