package media

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// CopyFile copies a file from source to destination.
//
// The destination file is created with mode 0644 if it doesn't exist,
// or truncated if it does. The source file must exist and be readable.
//
// Parameters:
//   - ctx: Context for cancellation (currently unused but reserved for future use)
//   - src: Source file path (must exist)
//   - dst: Destination file path (will be created/overwritten)
//
// Returns an error if:
//   - Source file cannot be opened
//   - Destination file cannot be created
//   - Copy operation fails
//
// Example:
//
//	err := CopyFile(ctx, "/scores/imagine.pdf", "/library/John Lennon/Imagine/documents/imagine.pdf")
func CopyFile(ctx context.Context, src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	return err
}

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing.
func WriteFile(ctx context.Context, path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// reservedNames are Windows device names that cannot be used as file
// or folder names, even with an extension.
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// SanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// This function ensures filenames are valid across different operating systems,
// particularly Windows which has the most restrictive naming rules.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Leading/trailing whitespace → removed
//   - Reserved Windows device names (CON, PRN, COM1, ...) → underscore appended
//
// Example:
//
//	SanitizeFileName("Song: Part 1/2")      // Returns "Song_ Part 1_2"
//	SanitizeFileName("Track...")            // Returns "Track"
//	SanitizeFileName("Name   with  spaces") // Returns "Name with spaces"
//	SanitizeFileName("CON")                 // Returns "CON_"
func SanitizeFileName(name string) string {
	// Replace invalid path/file characters with underscore
	// Characters: < > : " / \ | ? * and control characters (0x00-0x1f)
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	// Remove trailing dots (Windows doesn't allow filenames ending with dots)
	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	// Replace multiple whitespace with single space for cleaner names
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	name = strings.TrimSpace(name)

	if reservedNames[strings.ToUpper(name)] {
		name += "_"
	}

	return name
}

// UniquePath returns path itself when nothing exists there, otherwise
// the first "name_N.ext" variant that is still free.
//
// Example:
//
//	UniquePath("/songs/lead.pdf") // "/songs/lead.pdf" or "/songs/lead_1.pdf", "/songs/lead_2.pdf", ...
func UniquePath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, counter, ext)
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}

// HumanSize formats a byte count for display, e.g. "1.5 MB".
func HumanSize(size int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	value := float64(size)
	unit := 0
	for value >= 1024 && unit < len(units)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", value, units[unit])
}

// FileSizeHuman returns the size of the file at path for display.
// A missing file reads as "0 B".
func FileSizeHuman(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "0 B"
	}
	return HumanSize(info.Size())
}

// hashBufferSize is the chunk size used when hashing file contents.
const hashBufferSize = 4096

// FileHash computes the hex digest of a file's contents.
//
// Parameters:
//   - path: File to hash (must exist)
//   - algorithm: One of "md5", "sha1", "sha256"
//
// Returns an error if:
//   - The algorithm is not one of the supported names
//   - The file cannot be opened or read
//
// Example:
//
//	digest, err := FileHash("/scores/imagine.pdf", "sha256")
func FileHash(path, algorithm string) (string, error) {
	var h hash.Hash
	switch algorithm {
	case "md5":
		h = md5.New()
	case "sha1":
		h = sha1.New()
	case "sha256":
		h = sha256.New()
	default:
		return "", fmt.Errorf("unsupported hash algorithm %q", algorithm)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	buf := make([]byte, hashBufferSize)
	if _, err := io.CopyBuffer(h, file, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FindDuplicateFiles walks root and groups files by content hash.
// Only groups with more than one file are returned, keyed by digest.
// Files that cannot be read are skipped.
//
// Example:
//
//	groups, err := FindDuplicateFiles("/library")
//	for digest, paths := range groups {
//	    fmt.Println(digest, len(paths), "copies")
//	}
func FindDuplicateFiles(root string) (map[string][]string, error) {
	byHash := make(map[string][]string)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}
		digest, err := FileHash(path, "md5")
		if err != nil {
			return nil
		}
		byHash[digest] = append(byHash[digest], path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	duplicates := make(map[string][]string)
	for digest, paths := range byHash {
		if len(paths) > 1 {
			duplicates[digest] = paths
		}
	}
	return duplicates, nil
}

// CleanupEmptyDirs removes empty directories under root, deepest
// first so that directories holding only empty directories fall too.
// Root itself is never removed. Returns how many were deleted.
func CleanupEmptyDirs(root string) int {
	var dirs []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err == nil && d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})

	sort.Slice(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], string(filepath.Separator)) >
			strings.Count(dirs[j], string(filepath.Separator))
	})

	deleted := 0
	for _, dir := range dirs {
		// Remove succeeds only on empty directories.
		if err := os.Remove(dir); err == nil {
			deleted++
		}
	}
	return deleted
}
