package catalog

import (
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/appcomposer/internal/fsops"
	"github.com/danieljhkim/appcomposer/internal/hash"
)

const (
	templatesDir = "templates"
	layoutsDir   = "layouts"
)

var yamlExts = []string{".yaml", ".yml"}

// Repo loads a catalog snapshot from a source.
type Repo interface {
	// Load reads and validates the catalog.
	Load() (*Catalog, error)

	// Documents returns the raw documents keyed by source-relative path.
	Documents() (map[string][]byte, error)
}

// FileRepo reads a catalog directory containing templates/ and layouts/.
type FileRepo struct {
	fs     fsops.FS
	dir    string
	hasher hash.Hasher
}

// NewFileRepo creates a FileRepo rooted at dir.
func NewFileRepo(fs fsops.FS, dir string, hasher hash.Hasher) *FileRepo {
	return &FileRepo{
		fs:     fs,
		dir:    dir,
		hasher: hasher,
	}
}

// Dir returns the catalog directory.
func (r *FileRepo) Dir() string {
	return r.dir
}

// Exists reports whether the catalog directory exists.
func (r *FileRepo) Exists() (bool, error) {
	return r.fs.Exists(r.dir)
}

// Documents reads every YAML document of the catalog.
func (r *FileRepo) Documents() (map[string][]byte, error) {
	docs := make(map[string][]byte)
	for _, sub := range []string{templatesDir, layoutsDir} {
		names, err := r.fs.ListFiles(filepath.Join(r.dir, sub), yamlExts...)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", sub, err)
		}
		for _, name := range names {
			rel := filepath.ToSlash(filepath.Join(sub, name))
			data, err := r.fs.ReadFile(filepath.Join(r.dir, sub, name))
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", rel, err)
			}
			docs[rel] = data
		}
	}
	return docs, nil
}

// Load parses the catalog documents. A missing directory yields an empty
// catalog.
func (r *FileRepo) Load() (*Catalog, error) {
	docs, err := r.Documents()
	if err != nil {
		return nil, err
	}
	return parseDocuments(r.dir, docs, r.hasher)
}

// SaveTemplates writes a templates document under templates/<name>.yaml.
func (r *FileRepo) SaveTemplates(name string, doc *TemplatesFile) error {
	return r.save(templatesDir, name, doc)
}

// SaveLayouts writes a layouts document under layouts/<name>.yaml.
func (r *FileRepo) SaveLayouts(name string, doc *LayoutsFile) error {
	return r.save(layoutsDir, name, doc)
}

func (r *FileRepo) save(sub, name string, doc any) error {
	if err := r.fs.ValidateIdentifier(name); err != nil {
		return fmt.Errorf("invalid document name: %w", err)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s/%s: %w", sub, name, err)
	}

	path := filepath.Join(r.dir, sub, name+".yaml")
	if err := r.fs.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func parseDocuments(source string, docs map[string][]byte, hasher hash.Hasher) (*Catalog, error) {
	var templates []Template
	var layouts []Layout

	// Sorted keys keep template order stable across loads.
	for _, rel := range sortedKeys(docs) {
		data := docs[rel]
		switch filepath.Dir(filepath.FromSlash(rel)) {
		case templatesDir:
			var doc TemplatesFile
			if err := yaml.Unmarshal(data, &doc); err != nil {
				return nil, fmt.Errorf("catalog %s: %s: %w", source, rel, err)
			}
			templates = append(templates, doc.Templates...)
		case layoutsDir:
			var doc LayoutsFile
			if err := yaml.Unmarshal(data, &doc); err != nil {
				return nil, fmt.Errorf("catalog %s: %s: %w", source, rel, err)
			}
			layouts = append(layouts, doc.Layouts...)
		}
	}

	c, err := New(templates, layouts)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", source, err)
	}
	return c.WithFingerprint(hasher.HashDocuments(docs)), nil
}
