// Package config manages appcomposer configuration and filesystem paths.
//
// The default root is ~/.appcomposer/ containing the global catalog, the
// session files, the telemetry log and config.yaml. The root can be moved
// with the APPCOMPOSER_ROOT environment variable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootEnv overrides the data root when set.
const RootEnv = "APPCOMPOSER_ROOT"

// Paths contains all the filesystem paths used by appcomposer.
type Paths struct {
	// Root is the base directory for all appcomposer data (default: ~/.appcomposer)
	Root string

	// Catalog is the global template catalog directory
	Catalog string

	// Sessions is the directory containing session state files
	Sessions string

	// Telemetry is the JSON-lines file edit actions are appended to
	Telemetry string

	// Config is the path to the global config file
	Config string
}

// DefaultPaths returns the default paths for appcomposer.
func DefaultPaths() (*Paths, error) {
	root := os.Getenv(RootEnv)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".appcomposer")
	}
	return PathsAt(root), nil
}

// PathsAt lays out the standard paths under root.
func PathsAt(root string) *Paths {
	return &Paths{
		Root:      root,
		Catalog:   filepath.Join(root, "catalog"),
		Sessions:  filepath.Join(root, "sessions"),
		Telemetry: filepath.Join(root, "telemetry.jsonl"),
		Config:    filepath.Join(root, "config.yaml"),
	}
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Root,
		p.Catalog,
		p.Sessions,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
