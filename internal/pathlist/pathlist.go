// Package pathlist reads and writes newline-delimited path lists.
//
// The organizer consumes a list file rather than walking a tree, and the
// acquirer accepts source lists in the same format. Lines are trimmed and
// blank lines are ignored.
package pathlist

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"flowpack/internal/faults"
)

// Read returns the non-blank, trimmed lines of the file at path. A missing
// file is reported as a precondition failure.
func Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, faults.Wrap(faults.ErrPrecondition, "pathlist", "read", fmt.Sprintf("list file %s not found", path), err)
		}
		return nil, faults.Wrap(faults.ErrPrecondition, "pathlist", "read", "open list file", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads newline-delimited entries from r.
func Parse(r io.Reader) ([]string, error) {
	var entries []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("scan list: %w", err)
	}
	return entries, nil
}

// Collect walks root and returns every regular file whose name ends with one
// of extensions, in lexical order. Unreadable subtrees are skipped.
func Collect(root string, extensions []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, faults.Wrap(faults.ErrPrecondition, "pathlist", "collect", fmt.Sprintf("root %s", root), err)
	}
	if !info.IsDir() {
		return nil, faults.Wrap(faults.ErrPrecondition, "pathlist", "collect", fmt.Sprintf("root %s is not a directory", root), nil)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if HasExtension(d.Name(), extensions) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// Write stores entries at path, one per line, replacing any existing file.
func Write(path string, entries []string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create list directory: %w", err)
		}
	}
	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(entry)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// HasExtension reports whether name ends with any of extensions. The match
// is case-sensitive.
func HasExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if ext != "" && strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
