package coverage

import (
	"path"
	"strings"
)

// PathSet is the externally supplied set of file paths a filtered view
// should retain. The resolver produces the entries; the set itself performs
// no git or filesystem I/O.
type PathSet struct {
	entries []string
	exact   map[string]struct{}
}

// NewPathSet builds a PathSet from a list of repository-relative paths.
// Empty entries are dropped. A nil or all-empty list yields an empty set.
func NewPathSet(paths []string) *PathSet {
	ps := &PathSet{exact: make(map[string]struct{})}
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		ps.entries = append(ps.entries, p)
		ps.exact[p] = struct{}{}
	}
	return ps
}

// Len returns the number of entries in the set.
func (ps *PathSet) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.entries)
}

// Entries returns the entries in insertion order.
func (ps *PathSet) Entries() []string {
	if ps == nil {
		return nil
	}
	return ps.entries
}

// Matches reports whether a coverage path belongs to the set. Coverage
// tools and version control rarely agree on path prefixes (absolute vs
// repo-relative), so a path matches on exact equality, on a path-segment
// suffix, or on basename.
func (ps *PathSet) Matches(covPath string) bool {
	if ps == nil || len(ps.entries) == 0 {
		return false
	}
	if _, ok := ps.exact[covPath]; ok {
		return true
	}
	base := path.Base(covPath)
	for _, entry := range ps.entries {
		if strings.HasSuffix(covPath, "/"+entry) || strings.HasSuffix(entry, "/"+covPath) {
			return true
		}
		if path.Base(entry) == base {
			return true
		}
	}
	return false
}
