package organizer

import (
	"fmt"
	"path/filepath"
	"strings"

	"flowpack/internal/fileutil"
)

// SmartName returns the base name (without extension) and extension used to
// organize path. Generic file names are replaced by their parent folder's
// name; the comparison ignores case.
func SmartName(path string, genericNames []string) (base, ext string, fromParent bool) {
	name := filepath.Base(path)
	ext = filepath.Ext(name)
	base = strings.TrimSuffix(name, ext)

	lower := strings.ToLower(name)
	for _, generic := range genericNames {
		if lower != strings.ToLower(generic) {
			continue
		}
		parent := filepath.Base(filepath.Dir(path))
		if parent == "." || parent == string(filepath.Separator) || parent == "" {
			break
		}
		return parent, ext, true
	}
	return base, ext, false
}

// SuffixedName returns the first free "<base><ext>", "<base>_1<ext>",
// "<base>_2<ext>", ... under dir.
func SuffixedName(dir, base, ext string) string {
	candidate := base + ext
	for n := 1; fileutil.Exists(filepath.Join(dir, candidate)); n++ {
		candidate = fmt.Sprintf("%s_%d%s", base, n, ext)
	}
	return candidate
}
