// Package pathfilter evaluates ignore_paths globs against repository-relative
// paths. It runs before content is read so excluded files cost no I/O.
package pathfilter

import (
	"fmt"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// Filter holds the effective ignore_paths globs. Matching is case-sensitive
// and anchored to the full relative path; ** crosses directory separators,
// * stays within one segment. The zero value excludes nothing.
type Filter struct {
	globs []string
}

// New validates the globs and returns a filter. Glob syntax errors are
// configuration errors; callers validate earlier, so this only reports the
// pattern that failed.
func New(globs []string) (*Filter, error) {
	for _, g := range globs {
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("invalid glob %q: %w", g, doublestar.ErrBadPattern)
		}
	}
	return &Filter{globs: globs}, nil
}

// Excluded reports whether rel matches any ignore glob. First match wins;
// there is no include-override mechanism.
func (f *Filter) Excluded(rel string) bool {
	if f == nil {
		return false
	}
	rel = strings.ReplaceAll(rel, "\\", "/")
	for _, g := range f.globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}
