// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrEmptyPath     = errors.New("output path cannot be empty")
	ErrPathIsDir     = errors.New("output path is a directory")
	ErrParentMissing = errors.New("output directory does not exist")
)

// WriteFileAtomic streams write's output to a temporary file next to path
// and renames it into place once write and Close succeed. A failed write
// never leaves a truncated file at path.
func WriteFileAtomic(path string, write func(io.Writer) error) (err error) {
	if path == "" {
		return ErrEmptyPath
	}
	if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
		return fmt.Errorf("%w: %s", ErrPathIsDir, path)
	}

	dir := filepath.Dir(path)
	if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrParentMissing, dir)
	}

	tmpFile, err := os.CreateTemp(dir, ".leet2tex-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if writeErr := write(tmpFile); writeErr != nil {
		_ = tmpFile.Close()
		return writeErr
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if chmodErr := os.Chmod(tmpPath, 0o644); chmodErr != nil { // #nosec G302 -- output is a user document
		return fmt.Errorf("setting permissions: %w", chmodErr)
	}
	if renameErr := os.Rename(tmpPath, path); renameErr != nil {
		return fmt.Errorf("moving output into place: %w", renameErr)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "work" -> false (name)
//   - "./leet2tex.yaml" -> true (relative path)
//   - "/etc/leet2tex.yaml" -> true (absolute)
//   - "C:\config\leet2tex.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string looks like an http(s) URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
