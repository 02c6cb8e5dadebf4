// Package filex holds small filesystem helpers used when writing exports.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates dir (relative paths resolve against the working
// directory) and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

var invalidFilenameChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_",
)

// SanitizeFilename replaces characters that are invalid in file names and
// trims surrounding spaces and dots. An empty result becomes "untitled".
func SanitizeFilename(name string) string {
	result := invalidFilenameChars.Replace(name)
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	if result == "" {
		return "untitled"
	}
	return result
}
