package library

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLibrary_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")

	lib, err := New(Config{LibraryPath: path}, nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	song := makeTestSong("Imagine", "John Lennon")
	song.Tempo = "76 BPM"
	song.Style = "ballad"
	song.AddLink("https://example.com/tutorial")
	song.Metadata = map[string]string{"notes": "capo 2"}
	if !lib.AddSong(song) {
		t.Fatal("AddSong() failed")
	}

	reloaded, err := New(Config{LibraryPath: path}, nil)
	if err != nil {
		t.Fatalf("New() on existing store failed: %v", err)
	}
	if got := reloaded.SongCount(); got != 1 {
		t.Fatalf("reloaded SongCount() = %d, want 1", got)
	}

	got := reloaded.Songs()[0]
	if got.Title != "Imagine" || got.Artist != "John Lennon" {
		t.Errorf("reloaded song = %s, want John Lennon - Imagine", got.DisplayName())
	}
	if got.Tempo != "76 BPM" || got.Style != "ballad" {
		t.Errorf("reloaded tempo/style = %q/%q", got.Tempo, got.Style)
	}
	if len(got.Documents) != 1 || len(got.Links) != 1 {
		t.Errorf("reloaded media = %d documents, %d links, want 1/1",
			len(got.Documents), len(got.Links))
	}
	if got.Metadata["notes"] != "capo 2" {
		t.Errorf("reloaded metadata = %v", got.Metadata)
	}
	if got.ID == "" || got.ID != song.ID {
		t.Errorf("reloaded ID = %q, want %q", got.ID, song.ID)
	}
}

func TestLibrary_SaveWritesStoreShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	lib, err := New(Config{LibraryPath: path}, nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	lib.now = func() time.Time {
		return time.Date(2025, 3, 14, 17, 30, 45, 0, time.UTC)
	}

	lib.AddSong(makeTestSong("Imagine", "John Lennon"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading store: %v", err)
	}

	var store map[string]json.RawMessage
	if err := json.Unmarshal(data, &store); err != nil {
		t.Fatalf("store is not valid JSON: %v", err)
	}
	for _, key := range []string{"version", "created_date", "song_count", "config", "songs"} {
		if _, ok := store[key]; !ok {
			t.Errorf("store is missing key %q", key)
		}
	}

	var version string
	json.Unmarshal(store["version"], &version)
	if version != "1.0" {
		t.Errorf("version = %q, want 1.0", version)
	}
	var created string
	json.Unmarshal(store["created_date"], &created)
	if created != "2025-03-14T17:30:45" {
		t.Errorf("created_date = %q, want 2025-03-14T17:30:45", created)
	}
	var count int
	json.Unmarshal(store["song_count"], &count)
	if count != 1 {
		t.Errorf("song_count = %d, want 1", count)
	}
}

func TestLibrary_LoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")

	lib, err := New(Config{LibraryPath: path}, nil)
	if err != nil {
		t.Fatalf("New() on missing store failed: %v", err)
	}
	if got := lib.SongCount(); got != 0 {
		t.Errorf("SongCount() = %d, want 0", got)
	}
}

func TestLibrary_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	// Construction survives a corrupt store and starts empty.
	lib, err := New(Config{LibraryPath: path}, nil)
	if err != nil {
		t.Fatalf("New() on corrupt store failed: %v", err)
	}
	if got := lib.SongCount(); got != 0 {
		t.Errorf("SongCount() = %d, want 0", got)
	}

	// A direct Load reports the problem.
	if err := lib.Load(); err == nil {
		t.Error("Load() on corrupt store = nil, want error")
	}
}

func TestLibrary_LoadSkipsMalformedRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	store := `{
		"version": "1.0",
		"songs": [
			{"title": "Imagine", "artist": "John Lennon", "documents": ["a.pdf"]},
			42,
			{"title": "Yesterday", "artist": "The Beatles", "documents": ["b.pdf"]}
		]
	}`
	if err := os.WriteFile(path, []byte(store), 0644); err != nil {
		t.Fatal(err)
	}

	lib, err := New(Config{LibraryPath: path}, nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if got := lib.SongCount(); got != 2 {
		t.Fatalf("SongCount() = %d, want 2 (malformed record skipped)", got)
	}
	if lib.Songs()[0].Title != "Imagine" || lib.Songs()[1].Title != "Yesterday" {
		t.Errorf("loaded songs = %s, %s", lib.Songs()[0].Title, lib.Songs()[1].Title)
	}
}

func TestLibrary_LoadConfigOverlay(t *testing.T) {
	t.Run("stored settings win", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "library.json")
		store := `{"version": "1.0", "config": {"auto_backup": false, "backup_count": 9}, "songs": []}`
		if err := os.WriteFile(path, []byte(store), 0644); err != nil {
			t.Fatal(err)
		}

		lib, err := New(Config{LibraryPath: path, AutoBackup: true, BackupCount: 5}, nil)
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		cfg := lib.Config()
		if cfg.AutoBackup != false || cfg.BackupCount != 9 {
			t.Errorf("config = %+v, want auto_backup=false backup_count=9", cfg)
		}
	})

	t.Run("absent settings keep current values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "library.json")
		store := `{"version": "1.0", "config": {"backup_count": 9}, "songs": []}`
		if err := os.WriteFile(path, []byte(store), 0644); err != nil {
			t.Fatal(err)
		}

		lib, err := New(Config{LibraryPath: path, AutoBackup: true, BackupCount: 5, CloudProvider: "gdrive"}, nil)
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		cfg := lib.Config()
		if !cfg.AutoBackup {
			t.Error("AutoBackup flipped to false; absent keys must keep current values")
		}
		if cfg.BackupCount != 9 {
			t.Errorf("BackupCount = %d, want 9", cfg.BackupCount)
		}
		if cfg.CloudProvider != "gdrive" {
			t.Errorf("CloudProvider = %q, want gdrive", cfg.CloudProvider)
		}
	})
}

func TestLibrary_BackupRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "library.json")

	lib, err := New(Config{LibraryPath: path, AutoBackup: true, BackupCount: 2}, nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	// Advance a fake clock on every call so each backup gets its own
	// name.
	base := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	step := 0
	lib.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	backupDir := filepath.Join(dir, "backups")
	backups := func() []string {
		entries, err := os.ReadDir(backupDir)
		if err != nil {
			return nil
		}
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		return names
	}

	// First save has nothing to back up.
	lib.AddSong(makeTestSong("One", "Queen"))
	if got := backups(); len(got) != 0 {
		t.Fatalf("after first save: %d backups, want 0", len(got))
	}

	lib.AddSong(makeTestSong("Two", "Queen"))
	first := backups()
	if len(first) != 1 {
		t.Fatalf("after second save: %d backups, want 1", len(first))
	}
	// Age the rotation candidates explicitly; sub-second file clocks
	// would otherwise make the order a coin toss.
	os.Chtimes(filepath.Join(backupDir, first[0]), base.Add(-2*time.Hour), base.Add(-2*time.Hour))

	lib.AddSong(makeTestSong("Three", "Queen"))
	if got := backups(); len(got) != 2 {
		t.Fatalf("after third save: %d backups, want 2", len(got))
	}
	for _, name := range backups() {
		if name != first[0] {
			os.Chtimes(filepath.Join(backupDir, name), base.Add(-time.Hour), base.Add(-time.Hour))
		}
	}

	lib.AddSong(makeTestSong("Four", "Queen"))
	got := backups()
	if len(got) != 2 {
		t.Fatalf("after fourth save: %d backups, want 2", len(got))
	}
	for _, name := range got {
		if name == first[0] {
			t.Errorf("oldest backup %s survived rotation", first[0])
		}
		if !strings.HasPrefix(name, "library_backup_") || !strings.HasSuffix(name, ".json") {
			t.Errorf("backup name %q does not match library_backup_*.json", name)
		}
	}
}

func TestLibrary_SaveFailureKeepsMutation(t *testing.T) {
	lib := newTestLibrary(t)

	// Point the store somewhere unwritable; the in-memory change must
	// still land.
	lib.config.LibraryPath = filepath.Join(lib.config.LibraryPath, "impossible", "library.json")

	if !lib.AddSong(makeTestSong("Imagine", "John Lennon")) {
		t.Error("AddSong() = false, want true even when the save fails")
	}
	if got := lib.SongCount(); got != 1 {
		t.Errorf("SongCount() = %d, want 1", got)
	}
}

func TestLibrary_FailedMutationLeavesStoreUntouched(t *testing.T) {
	lib := newTestLibrary(t)
	lib.AddSong(makeTestSong("Imagine", "John Lennon"))

	before, err := os.ReadFile(lib.config.LibraryPath)
	if err != nil {
		t.Fatal(err)
	}

	lib.RemoveSong(makeTestSong("Ghost", "Nobody"))
	lib.AddSong(makeTestSong("imagine", "JOHN LENNON"))

	after, err := os.ReadFile(lib.config.LibraryPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("failed mutations rewrote the store file")
	}
}

func TestLibrary_ExportJSON(t *testing.T) {
	lib := newTestLibrary(t)
	lib.AddSong(makeTestSong("Imagine", "John Lennon"))
	lib.AddSong(makeTestSong("Yesterday", "The Beatles"))

	path := filepath.Join(t.TempDir(), "export.json")
	if err := lib.Export(path, FormatJSON); err != nil {
		t.Fatalf("Export(json) failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var export struct {
		ExportedDate string            `json:"exported_date"`
		SongCount    int               `json:"song_count"`
		Songs        []json.RawMessage `json:"songs"`
	}
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if export.ExportedDate == "" {
		t.Error("export has no exported_date")
	}
	if export.SongCount != 2 || len(export.Songs) != 2 {
		t.Errorf("export carries %d/%d songs, want 2/2", export.SongCount, len(export.Songs))
	}
}

func TestLibrary_ExportCSV(t *testing.T) {
	lib := newTestLibrary(t)

	song := makeTestSong("Imagine", "John Lennon")
	song.Tempo = "76 BPM"
	song.Style = "ballad"
	song.AddDocument("/scores/imagine-lead.pdf")
	lib.AddSong(song)

	path := filepath.Join(t.TempDir(), "export.csv")
	if err := lib.Export(path, FormatCSV); err != nil {
		t.Fatalf("Export(csv) failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("export has %d rows, want 2", len(rows))
	}

	header := strings.Join(rows[0], ",")
	if header != "title,artist,tempo,style,documents,audios,videos" {
		t.Errorf("header = %q", header)
	}
	row := rows[1]
	if row[0] != "Imagine" || row[1] != "John Lennon" || row[2] != "76 BPM" || row[3] != "ballad" {
		t.Errorf("row = %v", row)
	}
	if row[4] != "/scores/Imagine.pdf;/scores/imagine-lead.pdf" {
		t.Errorf("documents cell = %q, want the two paths joined by a semicolon", row[4])
	}
}

func TestLibrary_ExportUnknownFormat(t *testing.T) {
	lib := newTestLibrary(t)

	err := lib.Export(filepath.Join(t.TempDir(), "export.xml"), "xml")
	if err == nil {
		t.Error("Export(xml) = nil, want error")
	}
}
