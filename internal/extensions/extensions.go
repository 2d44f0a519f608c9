// Package extensions implements the Extension Set: the case-insensitive
// collection of file-name suffixes selecting which files are dumped.
package extensions

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

const extensionSeparator = "."

// DefaultExtensions lists the suffixes dumped when no other set is configured.
var DefaultExtensions = []string{".rs", ".toml", ".md"}

// Set is an immutable collection of lower-case extensions with a leading dot.
type Set struct {
	members map[string]struct{}
}

// NewSet normalizes the provided values and returns the resulting Set.
// Values may omit the leading dot and may use any case. Comma separated
// values are split. Empty values are rejected.
func NewSet(values []string) (Set, error) {
	members := make(map[string]struct{}, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			normalized, normalizeError := Normalize(part)
			if normalizeError != nil {
				return Set{}, normalizeError
			}
			members[normalized] = struct{}{}
		}
	}
	if len(members) == 0 {
		return Set{}, fmt.Errorf("extension set is empty")
	}
	return Set{members: members}, nil
}

// Default returns the Set built from DefaultExtensions.
func Default() Set {
	set, _ := NewSet(DefaultExtensions)
	return set
}

// Normalize converts an extension into lower case with exactly one leading dot.
func Normalize(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimLeft(trimmed, extensionSeparator)
	if trimmed == "" {
		return "", fmt.Errorf("invalid extension %q", value)
	}
	if strings.ContainsAny(trimmed, `/\`) {
		return "", fmt.Errorf("invalid extension %q: contains a path separator", value)
	}
	// Of only ever yields the final suffix, so "tar.gz" could never match.
	if strings.Contains(trimmed, extensionSeparator) {
		return "", fmt.Errorf("invalid extension %q: only the final suffix is matched", value)
	}
	return extensionSeparator + strings.ToLower(trimmed), nil
}

// Of returns the lower-cased extension of the file name at path. Leading dots
// of the base name are not treated as an extension separator, so ".md" and
// "..md" have no extension while "a.tar.gz" has ".gz".
func Of(path string) string {
	baseName := strings.TrimLeft(filepath.Base(path), extensionSeparator)
	return strings.ToLower(filepath.Ext(baseName))
}

// Contains reports whether ext, compared case-insensitively, belongs to the set.
func (set Set) Contains(ext string) bool {
	if ext == "" {
		return false
	}
	_, exists := set.members[strings.ToLower(ext)]
	return exists
}

// Matches reports whether the file at path carries a member extension.
func (set Set) Matches(path string) bool {
	return set.Contains(Of(path))
}

// Len returns the number of extensions in the set.
func (set Set) Len() int {
	return len(set.members)
}

// Values returns the members in sorted order.
func (set Set) Values() []string {
	values := make([]string, 0, len(set.members))
	for member := range set.members {
		values = append(values, member)
	}
	sort.Strings(values)
	return values
}

// String renders the set as a comma separated list.
func (set Set) String() string {
	return strings.Join(set.Values(), ",")
}
