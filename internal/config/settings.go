package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/musicpartmate/partmate/internal/library"
	"github.com/musicpartmate/partmate/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	// Storage locations
	DataDir     string `json:"data_dir"`
	LibraryFile string `json:"library_file"`
	CacheDir    string `json:"cache_dir"`

	// Library behavior
	AutoBackup  bool `json:"auto_backup"`
	BackupCount int  `json:"backup_count"`

	// Supported formats, lower-case extensions including the dot
	DocumentFormats []string `json:"document_formats"`
	AudioFormats    []string `json:"audio_formats"`
	VideoFormats    []string `json:"video_formats"`

	// Cloud synchronization of the library file by an external agent
	CloudSync     bool   `json:"cloud_sync"`
	CloudProvider string `json:"cloud_provider"` // pcloud, gdrive, dropbox

	// Import settings
	MaxConcurrentImports int `json:"max_concurrent_imports"`

	// Link fetch settings
	FetchMaxRetries    int     `json:"fetch_max_retries"`
	FetchRetryCooldown float64 `json:"fetch_retry_cooldown"`

	// Thumbnail settings
	ThumbnailMaxSize int `json:"thumbnail_max_size"`

	// Interface
	Theme   string `json:"theme"` // default, light
	Verbose bool   `json:"verbose"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".partmate")
	return &Settings{
		DataDir:     dataDir,
		LibraryFile: "library.json",
		CacheDir:    filepath.Join(dataDir, "cache"),

		AutoBackup:  true,
		BackupCount: 5,

		DocumentFormats: []string{".pdf", ".txt", ".doc", ".docx", ".odt", ".png", ".jpg", ".jpeg", ".gif", ".bmp"},
		AudioFormats:    []string{".mp3", ".wav", ".flac", ".ogg", ".m4a", ".aac", ".wma"},
		VideoFormats:    []string{".mp4", ".avi", ".mov", ".mkv", ".wmv", ".flv", ".webm"},

		CloudSync:     false,
		CloudProvider: "",

		MaxConcurrentImports: 4,

		FetchMaxRetries:    7,
		FetchRetryCooldown: 0.2,

		ThumbnailMaxSize: 400,

		Theme: "default",
	}
}

// DefaultPath returns the standard location of the settings file.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".partmate", "config.json")
}

// Load reads settings from a JSON file. A missing file yields the
// defaults. Values from a .env file and PARTMATE_* environment
// variables overlay whatever the file provided.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, err
		}
	}

	// Best effort; absence of a .env file is the normal case.
	_ = godotenv.Load()
	settings.applyEnv()

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// applyEnv overlays PARTMATE_* environment variables onto the settings.
func (s *Settings) applyEnv() {
	s.DataDir = envString("PARTMATE_DATA_DIR", s.DataDir)
	s.LibraryFile = envString("PARTMATE_LIBRARY_FILE", s.LibraryFile)
	s.CacheDir = envString("PARTMATE_CACHE_DIR", s.CacheDir)
	s.AutoBackup = envBool("PARTMATE_AUTO_BACKUP", s.AutoBackup)
	s.BackupCount = envInt("PARTMATE_BACKUP_COUNT", s.BackupCount)
	s.CloudSync = envBool("PARTMATE_CLOUD_SYNC", s.CloudSync)
	s.CloudProvider = envString("PARTMATE_CLOUD_PROVIDER", s.CloudProvider)
	s.MaxConcurrentImports = envInt("PARTMATE_MAX_CONCURRENT_IMPORTS", s.MaxConcurrentImports)
	s.Theme = envString("PARTMATE_THEME", s.Theme)
	s.Verbose = envBool("PARTMATE_VERBOSE", s.Verbose)
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// LibraryPath returns the full path of the library store file.
func (s *Settings) LibraryPath() string {
	return filepath.Join(s.DataDir, s.LibraryFile)
}

// ToLibraryConfig converts settings to the library-level config.
func (s *Settings) ToLibraryConfig() library.Config {
	return library.Config{
		LibraryPath:   s.LibraryPath(),
		AutoBackup:    s.AutoBackup,
		BackupCount:   s.BackupCount,
		CloudSync:     s.CloudSync,
		CloudProvider: s.CloudProvider,
	}
}

// IsSupportedDocument reports whether the path has a configured
// document extension.
func (s *Settings) IsSupportedDocument(path string) bool {
	return hasExtension(path, s.DocumentFormats)
}

// IsSupportedAudio reports whether the path has a configured audio
// extension.
func (s *Settings) IsSupportedAudio(path string) bool {
	return hasExtension(path, s.AudioFormats)
}

// IsSupportedVideo reports whether the path has a configured video
// extension.
func (s *Settings) IsSupportedVideo(path string) bool {
	return hasExtension(path, s.VideoFormats)
}

// MediaTypeFor classifies a path by its extension. The second return
// value is false when no configured format list matches. Documents win
// over audio and video when an extension appears in more than one list.
func (s *Settings) MediaTypeFor(path string) (model.MediaType, bool) {
	switch {
	case s.IsSupportedDocument(path):
		return model.MediaDocument, true
	case s.IsSupportedAudio(path):
		return model.MediaAudio, true
	case s.IsSupportedVideo(path):
		return model.MediaVideo, true
	default:
		return 0, false
	}
}

func hasExtension(path string, formats []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, f := range formats {
		if ext == f {
			return true
		}
	}
	return false
}
