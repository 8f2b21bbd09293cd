package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultMaxFileSize is the largest file read during ingestion (2 MB).
const DefaultMaxFileSize int64 = 2 << 20

// DefaultExcludes are path segments never ingested.
var DefaultExcludes = []string{
	".git",
	".careerctx",
	"node_modules",
	".DS_Store",
	"~$*",
}

// Collect expands glob patterns (with ** support) into a sorted, de-duplicated
// list of regular files. A pattern naming an existing file is taken as is.
// Files matching any exclude pattern, by path or base name, are dropped.
func Collect(patterns, excludes []string) ([]string, error) {
	excludes = append(append([]string{}, DefaultExcludes...), excludes...)

	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("ingest: bad pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] || excluded(m, excludes) {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

// excluded reports whether any segment of path, or the path itself,
// matches one of patterns.
func excluded(path string, patterns []string) bool {
	normalized := filepath.ToSlash(path)
	segments := strings.Split(normalized, "/")
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if ok, err := doublestar.Match(pattern, normalized); err == nil && ok {
			return true
		}
		for _, seg := range segments {
			if ok, err := doublestar.Match(pattern, seg); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// readText returns the file content, refusing binaries and files larger
// than maxSize.
func readText(path string, maxSize int64) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > maxSize {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, info.Size())
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	for _, b := range head {
		if b == 0 {
			return "", ErrBinary
		}
	}
	return string(data), nil
}
