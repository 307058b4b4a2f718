package acquire

import (
	"strings"

	"flowpack/internal/pathlist"
)

// Source is one repository reference to acquire.
type Source struct {
	Ref string
}

// Name returns the directory name used for the source inside the scratch
// area: the last path segment with trailing slashes and a ".git" suffix
// removed.
func (s Source) Name() string {
	ref := strings.TrimRight(strings.TrimSpace(s.Ref), "/\\")
	if idx := strings.LastIndexAny(ref, "/\\:"); idx >= 0 {
		ref = ref[idx+1:]
	}
	return strings.TrimSuffix(ref, ".git")
}

// ParseSources converts raw references, dropping blanks.
func ParseSources(refs []string) []Source {
	sources := make([]Source, 0, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		sources = append(sources, Source{Ref: ref})
	}
	return sources
}

// ReadSources loads a newline-delimited sources file.
func ReadSources(path string) ([]Source, error) {
	refs, err := pathlist.Read(path)
	if err != nil {
		return nil, err
	}
	return ParseSources(refs), nil
}
