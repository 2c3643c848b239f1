// Package adapter contains infrastructure adapters for the migrator CLI.
package adapter

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

// DefaultExcludes are never migrated, whatever the caller's patterns say.
var DefaultExcludes = []string{"**/node_modules/**", "**/.git/**", "**/vendor/**"}

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when scanning user projects. It hides direct `os` access so the
// workflow logic can be tested without touching the disk.
type SourceFSAdapter interface {
	// Get expands glob patterns into a sorted, de-duplicated list of files
	// the syntax adapters understand. Directories expand to every file below
	// them, as does the Go-style "dir/..." suffix.
	Get(patterns []string, exclude []string) ([]m.Path, error)

	// Load reads and fingerprints a single file.
	Load(path m.Path) (m.Source, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// HashFile returns a stable fingerprint (SHA-256) for the file at path.
	HashFile(path m.Path) (string, error)

	// FileInfo returns metadata for a path so the domain can check existence or
	// distinguish between files and directories when necessary.
	FileInfo(path m.Path) (os.FileInfo, error)

	// WriteFile replaces the content of an existing file, keeping its mode.
	WriteFile(path m.Path, content []byte) error

	// ListDirs returns the immediate sub-directories of root, sorted by name.
	ListDirs(root m.Path) ([]m.Path, error)
}

// LocalSourceFSAdapter is the concrete SourceFSAdapter backed by the local
// filesystem.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Get expands the provided patterns.
func (a *LocalSourceFSAdapter) Get(patterns []string, exclude []string) ([]m.Path, error) {
	if len(patterns) == 0 {
		return []m.Path{}, nil
	}

	excludes := append(append([]string{}, DefaultExcludes...), exclude...)
	for _, pattern := range excludes {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	seen := make(map[string]struct{})

	var paths []m.Path

	for _, raw := range patterns {
		pattern, err := a.normalizePattern(raw)
		if err != nil {
			return nil, err
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", raw, err)
		}

		for _, match := range matches {
			if m.DialectOf(m.Path(match)) == m.DialectUnknown || isExcluded(match, excludes) {
				continue
			}

			if _, exists := seen[match]; exists {
				continue
			}

			seen[match] = struct{}{}
			paths = append(paths, m.Path(match))
		}
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	return paths, nil
}

func (a *LocalSourceFSAdapter) normalizePattern(raw string) (string, error) {
	pattern, recursive := parseRootPath(raw)

	if strings.HasPrefix(pattern, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}

		suffix := strings.TrimPrefix(pattern, "~")
		suffix = strings.TrimPrefix(suffix, string(os.PathSeparator))
		pattern = filepath.Join(home, suffix)
	}

	if pattern == "" {
		pattern = "."
	}

	if recursive {
		return filepath.Join(pattern, "**", "*"), nil
	}

	if info, err := a.FileInfo(m.Path(pattern)); err == nil && info.IsDir() {
		return filepath.Join(pattern, "**", "*"), nil
	}

	return pattern, nil
}

func parseRootPath(rootStr string) (path string, recursive bool) {
	if strings.HasSuffix(rootStr, "/...") {
		return strings.TrimSuffix(rootStr, "/..."), true
	}

	return rootStr, false
}

func isExcluded(path string, patterns []string) bool {
	slashed := filepath.ToSlash(path)
	relative := strings.TrimLeft(slashed, "/")

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}

		if ok, _ := doublestar.Match(pattern, relative); ok {
			return true
		}

		// Relative patterns also match against the file name alone.
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, filepath.Base(path)); ok {
				return true
			}
		}
	}

	return false
}

// Load reads the file at path and computes its hash from the same bytes.
func (a *LocalSourceFSAdapter) Load(path m.Path) (m.Source, error) {
	content, err := a.ReadFile(path)
	if err != nil {
		return m.Source{}, err
	}

	return m.Source{Path: path, Content: content, Hash: hashBytes(content)}, nil
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	// #nosec G304 - reading user-selected migration targets is the point
	return os.ReadFile(string(path))
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalSourceFSAdapter) HashFile(path m.Path) (string, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

func hashBytes(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// WriteFile writes content to path, keeping the file's permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte) error {
	perm := os.FileMode(0o644)
	if info, err := a.FileInfo(path); err == nil {
		perm = info.Mode().Perm()
	}

	return os.WriteFile(string(path), content, perm)
}

// ListDirs returns the sub-directories of root.
func (a *LocalSourceFSAdapter) ListDirs(root m.Path) ([]m.Path, error) {
	entries, err := os.ReadDir(string(root))
	if err != nil {
		return nil, err
	}

	var dirs []m.Path

	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, m.Path(filepath.Join(string(root), entry.Name())))
		}
	}

	return dirs, nil
}
