// Package gitx locates the project a command runs in and fingerprints it.
//
// A project root is the nearest ancestor holding an .appcomposer directory
// or, failing that, a .git entry. The fingerprint combines the absolute root
// with the git remote origin URL when one is configured, so a clone moved on
// disk still gets its own session.
package gitx

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// MarkerDir marks an appcomposer project root.
const MarkerDir = ".appcomposer"

// ErrNoProject is returned when no project root is found above cwd.
var ErrNoProject = errors.New("not in an appcomposer project or git repository")

// Project provides project discovery and identity.
type Project interface {
	// Discover finds the project root starting from cwd.
	Discover(cwd string) (root string, err error)

	// Fingerprint computes a stable fingerprint for the project.
	Fingerprint(root string) (string, error)

	// RelPath computes the relative path from the project root to absPath.
	RelPath(root, absPath string) (string, error)
}

// RealProject implements Project against the filesystem and git.
type RealProject struct{}

// NewRealProject creates a new RealProject.
func NewRealProject() *RealProject {
	return &RealProject{}
}

// Discover walks up from cwd. An .appcomposer directory anywhere on the way
// wins over a .git entry found lower down.
func (p *RealProject) Discover(cwd string) (string, error) {
	absPath, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	gitRoot := ""
	current := absPath
	for {
		if info, err := os.Stat(filepath.Join(current, MarkerDir)); err == nil && info.IsDir() {
			return current, nil
		}
		if gitRoot == "" {
			// .git can be a directory or a file (for worktrees/submodules)
			if info, err := os.Stat(filepath.Join(current, ".git")); err == nil {
				if info.IsDir() || info.Mode().IsRegular() {
					gitRoot = current
				}
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	if gitRoot != "" {
		return gitRoot, nil
	}
	return "", ErrNoProject
}

// Fingerprint hashes the absolute root with the remote origin URL.
func (p *RealProject) Fingerprint(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	remoteURL := RemoteURL(root)
	if remoteURL == "" {
		remoteURL = "unknown"
	}

	hash := sha256.Sum256([]byte(absRoot + "|" + remoteURL))
	return hex.EncodeToString(hash[:]), nil
}

func (p *RealProject) RelPath(root, absPath string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute root: %w", err)
	}

	absTarget, err := filepath.Abs(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute target: %w", err)
	}

	return relPath(absRoot, absTarget)
}

// RemoteURL returns the remote origin URL of the repository at root, or ""
// when git is unavailable or no origin is configured.
func RemoteURL(root string) string {
	cmd := exec.Command("git", "config", "--get", "remote.origin.url")
	cmd.Dir = root
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

func relPath(root, target string) (string, error) {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return "", fmt.Errorf("failed to compute relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path is outside project")
	}
	return rel, nil
}

// FakeProject implements Project with predetermined values for testing.
type FakeProject struct {
	root        string
	fingerprint string
	err         error
}

// NewFakeProject creates a new FakeProject.
func NewFakeProject(root, fingerprint string) *FakeProject {
	return &FakeProject{
		root:        root,
		fingerprint: fingerprint,
	}
}

// SetError sets an error to be returned by all methods.
func (p *FakeProject) SetError(err error) {
	p.err = err
}

func (p *FakeProject) Discover(cwd string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.root, nil
}

func (p *FakeProject) Fingerprint(root string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.fingerprint, nil
}

func (p *FakeProject) RelPath(root, absPath string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return relPath(root, absPath)
}
