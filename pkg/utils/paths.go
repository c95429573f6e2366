package utils

import (
	"os"
	"path/filepath"
)

// DefaultDBPath is ~/.telugudb/data.db, or ./.telugudb/data.db when the
// home directory cannot be resolved.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".telugudb", "data.db")
}

// DefaultTokenPath is where the admin CLI caches a verified admin key.
func DefaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".telugudb", "admin.key")
}
