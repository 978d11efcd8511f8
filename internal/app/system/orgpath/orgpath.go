// internal/app/system/orgpath/orgpath.go

// Package orgpath models dot-separated department paths such as
// "Engineering.Backend". Paths are case-sensitive and compared
// segment-wise: "Engineering" contains "Engineering.Backend" but not
// "EngineeringTeam". Always go through Parse so the separator logic has
// validated input to work with; handlers reject malformed paths at the
// boundary instead of letting them silently match everything.
package orgpath

import (
	"fmt"
	"strings"
)

// Sep joins department path segments.
const Sep = "."

// Path is a validated department path. The zero value is not valid;
// construct through Parse or MustParse.
type Path string

// Parse validates a raw department path string. It rejects empty input,
// leading/trailing separators, and empty segments ("A..B").
func Parse(raw string) (Path, error) {
	if raw == "" {
		return "", fmt.Errorf("department path is empty")
	}
	for _, seg := range strings.Split(raw, Sep) {
		if seg == "" {
			return "", fmt.Errorf("department path %q has an empty segment", raw)
		}
	}
	return Path(raw), nil
}

// MustParse is Parse for trusted literals; it panics on malformed input.
func MustParse(raw string) Path {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseAll validates each raw path in order. The first malformed entry
// fails the whole batch.
func ParseAll(raws []string) ([]Path, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	out := make([]Path, 0, len(raws))
	for _, raw := range raws {
		p, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// String returns the raw path string.
func (p Path) String() string { return string(p) }

// Segments splits the path into its individual department names.
func (p Path) Segments() []string { return strings.Split(string(p), Sep) }

// IsDescendantOrSelf reports whether candidate equals ancestor or sits
// below it in the department tree. The separator check is what keeps
// "EngineeringTeam" out of the "Engineering" subtree.
func IsDescendantOrSelf(ancestor, candidate Path) bool {
	if candidate == ancestor {
		return true
	}
	return strings.HasPrefix(string(candidate), string(ancestor)+Sep)
}

// FilterToSubtree returns every candidate that is root itself or a
// descendant of root, preserving input order.
func FilterToSubtree(root Path, candidates []Path) []Path {
	var out []Path
	for _, c := range candidates {
		if IsDescendantOrSelf(root, c) {
			out = append(out, c)
		}
	}
	return out
}

// InAnySubtree reports whether candidate lies within the subtree of any
// of the given roots. An empty root set matches nothing.
func InAnySubtree(roots []Path, candidate Path) bool {
	for _, r := range roots {
		if IsDescendantOrSelf(r, candidate) {
			return true
		}
	}
	return false
}

// Strings converts a slice of paths back to raw strings, mainly for
// filter echoes and error messages.
func Strings(paths []Path) []string {
	if len(paths) == 0 {
		return nil
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = string(p)
	}
	return out
}
