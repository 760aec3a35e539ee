// Package filex implements the on-disk cache for downloaded puzzle content
// payloads. File names are derived from the puzzle id by hashing, so opaque
// ids never reach the filesystem as path components.
package filex

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir with parents if missing and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}

func cacheName(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:16]) + ".bin"
}

// ContentPath returns the cache file path for a puzzle id under dir.
func ContentPath(dir, id string) string {
	return filepath.Join(dir, cacheName(id))
}

// Store writes a payload for a puzzle id. The write goes through a temp file
// and a rename, so readers never observe a half-written payload.
func Store(dir, id string, data []byte) (string, error) {
	path := ContentPath(dir, id)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o660); err != nil {
		return "", fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("rename %s: %w", tmp, err)
	}
	return path, nil
}

// Load reads the cached payload for a puzzle id. os.IsNotExist applies to the
// returned error when the payload is not cached.
func Load(dir, id string) ([]byte, error) {
	return os.ReadFile(ContentPath(dir, id))
}

// Exists reports whether a payload for the puzzle id is cached.
func Exists(dir, id string) bool {
	_, err := os.Stat(ContentPath(dir, id))
	return err == nil
}
