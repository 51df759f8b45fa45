// Package config provides configuration management for partmate.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Environment variable overlays (.env via godotenv, PARTMATE_*)
//   - Media classification by configured file extensions
//   - Conversion to the library-level config
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Library stored under ~/.partmate/library.json
//	// Automatic backups enabled, five rotated copies
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// Values found in a .env file or in PARTMATE_* environment variables
// (PARTMATE_DATA_DIR, PARTMATE_BACKUP_COUNT, PARTMATE_CLOUD_SYNC, ...)
// take precedence over the file.
//
// # Saving Settings
//
//	settings.BackupCount = 10
//	err := settings.Save("/path/to/config.json")
//
// # Media Classification
//
// The configured extension lists drive folder scanning and import:
//
//	mt, ok := settings.MediaTypeFor("score.pdf")
//	// mt == model.MediaDocument, ok == true
package config
