package walker

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxFileSize is the maximum source file size to process (1 MB).
const DefaultMaxFileSize int64 = 1 << 20

// DefaultExtensions are the file extensions treated as manual sources.
var DefaultExtensions = []string{".md", ".markdown"}

// Source holds metadata about a single markdown file discovered during traversal.
type Source struct {
	Path        string // Absolute path on disk.
	RelPath     string // Path relative to the root directory, slash separated.
	ID          string // Page id: RelPath without extension, "/" replaced by "-".
	Size        int64  // File size in bytes.
	ContentHash string // SHA-256 hex digest of the file content.
}

// Config controls the behaviour of the Walk function.
type Config struct {
	RootDir     string   // Root directory to walk.
	Recursive   bool     // Descend into subdirectories.
	Include     []string // Glob patterns; only matching files are included.
	Exclude     []string // Glob patterns; matching files are excluded.
	Extensions  []string // Accepted extensions (nil = DefaultExtensions).
	MaxFileSize int64    // Files larger than this are skipped (0 = use default).
}

// Walk traverses cfg.RootDir and returns every markdown source that passes
// filtering, in lexical path order. It skips binary files, respects
// include/exclude patterns, and honours a .gitignore at the root.
func Walk(cfg Config) ([]Source, error) {
	root, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("walker: %s is not a directory", cfg.RootDir)
	}

	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	extensions := cfg.Extensions
	if extensions == nil {
		extensions = DefaultExtensions
	}

	filter, err := NewFilter(cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}

	ignore := loadIgnoreRules(filepath.Join(root, ".gitignore"))

	var sources []Source
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || path == root {
			// Unreadable entries are skipped rather than aborting the walk.
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if !cfg.Recursive || skipDir(d.Name()) || ignore.ignored(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !hasExtension(d.Name(), extensions) {
			return nil
		}
		if ignore.ignored(rel, false) || !filter.Keep(rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxSize {
			return nil
		}
		hash, ok, err := readSource(path)
		if err != nil || !ok {
			return nil
		}

		sources = append(sources, Source{
			Path:        path,
			RelPath:     rel,
			ID:          PageID(rel),
			Size:        info.Size(),
			ContentHash: hash,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	return sources, nil
}

// PageID derives the output page id from a slash separated relative path:
// "guides/setup.md" becomes "guides-setup". Pages are written flat so the
// navigation can be matched on the last path segment.
func PageID(relPath string) string {
	id := strings.TrimSuffix(relPath, filepath.Ext(relPath))
	return strings.ReplaceAll(id, "/", "-")
}

func hasExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// readSource reads a candidate file once, rejecting it when a NUL byte shows
// up in the first 512 bytes, and returns the hex SHA-256 of its content.
func readSource(path string) (hash string, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, err
	}
	if bytes.IndexByte(data[:min(len(data), 512)], 0) >= 0 {
		return "", false, nil
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), true, nil
}
