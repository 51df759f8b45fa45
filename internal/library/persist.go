package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/musicpartmate/partmate/internal/model"
)

// storeVersion is written into every store file. Readers currently
// accept any version; the field exists so a future format change can
// tell old files apart.
const storeVersion = "1.0"

// timeLayout stamps the store and export files.
const timeLayout = "2006-01-02T15:04:05"

// backupPrefix and backupStamp shape the rotated backup file names,
// for example "library_backup_20250314_173045.json".
const (
	backupPrefix = "library_backup_"
	backupStamp  = "20060102_150405"
)

// libraryFile is the on-disk shape of the store.
type libraryFile struct {
	Version     string             `json:"version"`
	CreatedDate string             `json:"created_date"`
	SongCount   int                `json:"song_count"`
	Config      configRecord       `json:"config"`
	Songs       []model.SongRecord `json:"songs"`
}

// libraryFileRaw defers song decoding so that one malformed record
// cannot take the rest of the store down with it.
type libraryFileRaw struct {
	Version string            `json:"version"`
	Config  configRecord      `json:"config"`
	Songs   []json.RawMessage `json:"songs"`
}

// configRecord is the store's embedded settings block.
type configRecord struct {
	AutoBackup    bool   `json:"auto_backup"`
	BackupCount   int    `json:"backup_count"`
	CloudSync     bool   `json:"cloud_sync"`
	CloudProvider string `json:"cloud_provider"`
}

// Save writes the whole collection to the store file, creating a
// rotated backup of the previous file first when auto-backup is on.
// A failed backup is logged and does not stop the save.
//
// Returns an error if:
//   - the store cannot be serialized.
//   - the store file cannot be written.
func (l *Library) Save() error {
	if l.config.AutoBackup {
		if _, err := os.Stat(l.config.LibraryPath); err == nil {
			if err := l.createBackup(); err != nil {
				l.log.Warn("backup failed: %v", err)
			}
		}
	}

	records := make([]model.SongRecord, len(l.songs))
	for i, song := range l.songs {
		records[i] = song.ToRecord()
	}

	store := libraryFile{
		Version:     storeVersion,
		CreatedDate: l.now().Format(timeLayout),
		SongCount:   len(records),
		Config: configRecord{
			AutoBackup:    l.config.AutoBackup,
			BackupCount:   l.config.BackupCount,
			CloudSync:     l.config.CloudSync,
			CloudProvider: l.config.CloudProvider,
		},
		Songs: records,
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("encode library: %w", err)
	}
	if err := os.WriteFile(l.config.LibraryPath, data, 0644); err != nil {
		return fmt.Errorf("write library: %w", err)
	}
	return nil
}

// Load reads the store file back into memory, replacing the current
// collection. A missing file leaves the library empty and is not an
// error. Settings stored in the file override the in-memory
// configuration; settings absent from the file keep their current
// values. A song record that fails to decode is logged and skipped,
// the remaining records still load.
//
// Returns an error if:
//   - the store file exists but cannot be read.
//   - the store file is not valid JSON.
func (l *Library) Load() error {
	data, err := os.ReadFile(l.config.LibraryPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read library: %w", err)
	}

	raw := libraryFileRaw{
		Config: configRecord{
			AutoBackup:    l.config.AutoBackup,
			BackupCount:   l.config.BackupCount,
			CloudSync:     l.config.CloudSync,
			CloudProvider: l.config.CloudProvider,
		},
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		l.songs = nil
		return fmt.Errorf("decode library: %w", err)
	}

	l.config.AutoBackup = raw.Config.AutoBackup
	l.config.BackupCount = raw.Config.BackupCount
	l.config.CloudSync = raw.Config.CloudSync
	l.config.CloudProvider = raw.Config.CloudProvider

	songs := make([]*model.Song, 0, len(raw.Songs))
	for i, blob := range raw.Songs {
		var record model.SongRecord
		if err := json.Unmarshal(blob, &record); err != nil {
			l.log.Warn("skipping song record %d: %v", i, err)
			continue
		}
		songs = append(songs, model.SongFromRecord(record))
	}
	l.songs = songs
	return nil
}

// createBackup copies the current store file into the backups
// directory next to it, stamped with the current time, then prunes the
// directory down to the configured backup count, newest first.
func (l *Library) createBackup() error {
	backupDir := filepath.Join(filepath.Dir(l.config.LibraryPath), "backups")
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	data, err := os.ReadFile(l.config.LibraryPath)
	if err != nil {
		return fmt.Errorf("read current store: %w", err)
	}

	name := backupPrefix + l.now().Format(backupStamp) + ".json"
	if err := os.WriteFile(filepath.Join(backupDir, name), data, 0644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}

	l.pruneBackups(backupDir)
	return nil
}

// pruneBackups deletes the oldest backups beyond the configured count.
// Age is taken from the file modification time, so restored or copied
// backups rotate correctly even when their names lie.
func (l *Library) pruneBackups(backupDir string) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		l.log.Warn("listing backups: %v", err)
		return
	}

	type backup struct {
		path    string
		modTime int64
	}
	var backups []backup
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !matchesBackupName(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backup{
			path:    filepath.Join(backupDir, name),
			modTime: info.ModTime().UnixNano(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].modTime > backups[j].modTime
	})

	keep := max(l.config.BackupCount, 0)
	for _, old := range backups[min(keep, len(backups)):] {
		if err := os.Remove(old.path); err != nil {
			l.log.Warn("removing old backup %s: %v", filepath.Base(old.path), err)
		}
	}
}

func matchesBackupName(name string) bool {
	return len(name) > len(backupPrefix)+len(".json") &&
		name[:len(backupPrefix)] == backupPrefix &&
		filepath.Ext(name) == ".json"
}
