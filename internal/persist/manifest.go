// Package persist writes the finished composition into the project.
//
// The manifest at .appcomposer/composition.yaml is the hand-off point for
// code generators: it lists the selected pages by group, the features, and
// which page is home, along with the catalog fingerprint the composition was
// built against.
package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/appcomposer/internal/fsops"
)

// ManifestVersion is written into every manifest.
const ManifestVersion = 1

// ManifestPath returns the manifest location for a project root.
func ManifestPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".appcomposer", "composition.yaml")
}

// Manifest is the exported composition.
type Manifest struct {
	Version            int               `yaml:"version"`
	ProjectType        string            `yaml:"projectType"`
	Framework          string            `yaml:"framework,omitempty"`
	CatalogFingerprint string            `yaml:"catalogFingerprint,omitempty"`
	Home               string            `yaml:"home,omitempty"`
	PageGroups         [][]ManifestEntry `yaml:"pageGroups"`
	Features           []ManifestEntry   `yaml:"features"`
	ExportedAt         time.Time         `yaml:"exportedAt"`
}

// ManifestEntry is one exported instance.
type ManifestEntry struct {
	Name     string `yaml:"name"`
	Template string `yaml:"template"`
	Hidden   bool   `yaml:"hidden,omitempty"`
}

// Len returns the number of exported instances.
func (m *Manifest) Len() int {
	n := len(m.Features)
	for _, g := range m.PageGroups {
		n += len(g)
	}
	return n
}

// Exporter reads and writes manifests through an FS.
type Exporter struct {
	fs fsops.FS
}

// NewExporter creates a new Exporter.
func NewExporter(fs fsops.FS) *Exporter {
	return &Exporter{fs: fs}
}

// Write stores m at ManifestPath(projectRoot), replacing any previous export.
func (e *Exporter) Write(projectRoot string, m *Manifest) (string, error) {
	if m.Version == 0 {
		m.Version = ManifestVersion
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}

	path := ManifestPath(projectRoot)
	if err := e.fs.AtomicWrite(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}

// Read loads the manifest of a project. Returns os.ErrNotExist if the
// project was never exported.
func (e *Exporter) Read(projectRoot string) (*Manifest, error) {
	data, err := e.fs.ReadFile(ManifestPath(projectRoot))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}
