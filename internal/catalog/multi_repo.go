package catalog

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/danieljhkim/appcomposer/internal/fsops"
	"github.com/danieljhkim/appcomposer/internal/hash"
)

// ProjectCatalogDir is the project-relative directory of a local catalog.
const ProjectCatalogDir = ".appcomposer/catalog"

// MultiRepo layers several repos. The first repo wins when two define the
// same identity or the same layout.
type MultiRepo struct {
	repos  []Repo
	hasher hash.Hasher
}

// NewMultiRepo creates a MultiRepo searching repos in order.
func NewMultiRepo(hasher hash.Hasher, repos ...Repo) *MultiRepo {
	return &MultiRepo{
		repos:  repos,
		hasher: hasher,
	}
}

// Documents returns every source's documents, keys prefixed with the source
// position so identical file names in two sources stay distinct.
func (m *MultiRepo) Documents() (map[string][]byte, error) {
	all := make(map[string][]byte)
	for i, repo := range m.repos {
		docs, err := repo.Documents()
		if err != nil {
			return nil, err
		}
		for rel, data := range docs {
			all[fmt.Sprintf("%d/%s", i, rel)] = data
		}
	}
	return all, nil
}

func (m *MultiRepo) Load() (*Catalog, error) {
	catalogs := make([]*Catalog, 0, len(m.repos))
	for _, repo := range m.repos {
		c, err := repo.Load()
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, c)
	}

	docs, err := m.Documents()
	if err != nil {
		return nil, err
	}
	return Merge(catalogs...).WithFingerprint(m.hasher.HashDocuments(docs)), nil
}

// Loader builds the layered catalog for a project: the project-local
// catalog first, then the configured extra directories, then the global
// catalog directory.
type Loader struct {
	fs        fsops.FS
	hasher    hash.Hasher
	globalDir string
	extraDirs []string
}

// NewLoader creates a Loader.
func NewLoader(fs fsops.FS, hasher hash.Hasher, globalDir string, extraDirs ...string) *Loader {
	return &Loader{
		fs:        fs,
		hasher:    hasher,
		globalDir: globalDir,
		extraDirs: extraDirs,
	}
}

// Dirs returns the directories searched for projectRoot, highest priority
// first.
func (l *Loader) Dirs(projectRoot string) []string {
	var dirs []string
	if projectRoot != "" {
		dirs = append(dirs, filepath.Join(projectRoot, filepath.FromSlash(ProjectCatalogDir)))
	}
	dirs = append(dirs, l.extraDirs...)
	if l.globalDir != "" {
		dirs = append(dirs, l.globalDir)
	}
	return dirs
}

// Load reads the layered catalog for projectRoot.
func (l *Loader) Load(projectRoot string) (*Catalog, error) {
	dirs := l.Dirs(projectRoot)
	repos := make([]Repo, 0, len(dirs))
	for _, dir := range dirs {
		repos = append(repos, NewFileRepo(l.fs, dir, l.hasher))
	}
	return NewMultiRepo(l.hasher, repos...).Load()
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
