// Package fsops provides the filesystem access used by appcomposer.
//
// Catalog documents, session files and exported manifests are all read and
// written through the FS interface so the on-disk layout can be swapped for
// an in-memory one in tests.
//
// Key features:
//   - Atomic writes using temp file + rename
//   - Directory listing for catalog and session discovery
//   - Identifier validation for file names built from input
package fsops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FS provides an abstraction for filesystem operations.
type FS interface {
	// Remove removes a file or empty directory.
	Remove(path string) error

	// AtomicWrite writes data to path atomically using temp file + rename.
	AtomicWrite(path string, data []byte, perm os.FileMode) error

	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// ListFiles returns the names of regular files in dir with the given
	// extensions, sorted. A missing directory yields an empty list.
	ListFiles(dir string, exts ...string) ([]string, error)

	// Exists checks if a path exists.
	Exists(path string) (bool, error)

	// ValidateIdentifier validates an identifier used as a file name.
	ValidateIdentifier(id string) error
}

// RealFS implements FS using actual OS operations.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

func (fs *RealFS) Remove(path string) error {
	return os.Remove(path)
}

// AtomicWrite writes into a temp file next to path and renames it over the
// target once synced, so readers never observe a partial document.
func (fs *RealFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".appcomposer-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	committed = true
	return nil
}

func (fs *RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (fs *RealFS) ListFiles(dir string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !HasExt(entry.Name(), exts...) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (fs *RealFS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// ValidateIdentifier rejects identifiers that could address another path.
func (fs *RealFS) ValidateIdentifier(id string) error {
	return ValidateIdentifier(id)
}

// HasExt reports whether name ends with one of exts. No exts matches all.
func HasExt(name string, exts ...string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// ValidateIdentifier is the FS-independent form of RealFS.ValidateIdentifier.
func ValidateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("invalid identifier: empty")
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, string(filepath.Separator)) {
		return fmt.Errorf("invalid identifier: must not contain path separators")
	}
	if id == "." || strings.HasPrefix(id, "..") {
		return fmt.Errorf("invalid identifier: path traversal not allowed")
	}
	return nil
}
