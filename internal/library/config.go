package library

// Config holds the library-level configuration.
//
// It controls where the store lives and how it is protected:
//
//	cfg := library.Config{
//	    LibraryPath: "/home/user/.partmate/library.json",
//	    AutoBackup:  true,
//	    BackupCount: 5,
//	}
//	lib, err := library.New(cfg, logger)
//
// CloudSync and CloudProvider describe an external agent that mirrors
// the store file; the library itself never talks to the network, it
// only records the settings and persists them with the store.
type Config struct {
	// LibraryPath is the path of the JSON store file.
	LibraryPath string

	// AutoBackup copies the current store into backups/ before every
	// overwrite.
	AutoBackup bool

	// BackupCount is how many rotated backup files to retain.
	BackupCount int

	// CloudSync indicates an external agent synchronizes the store file.
	CloudSync bool

	// CloudProvider names that agent: "pcloud", "gdrive", "dropbox".
	CloudProvider string
}

// DefaultConfig returns the configuration used when none is provided:
// a store under data/, automatic backups, five retained copies.
func DefaultConfig() Config {
	return Config{
		LibraryPath: "data/library.json",
		AutoBackup:  true,
		BackupCount: 5,
	}
}
