package shadow

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultExtensions is the executable extension set used when none is configured.
var DefaultExtensions = []string{".exe", ".cmd", ".bat", ".dll"}

// AnyExtension in an extension list makes every file a candidate.
const AnyExtension = "*"

// ExtensionSet is a case-insensitive allow-list of file extensions.
// The empty string selects files with no extension at all.
type ExtensionSet struct {
	exts map[string]struct{}
	list []string
	any  bool
}

// NewExtensionSet builds a set from entries like ".exe", "EXE" or "*".
// Duplicates are dropped, first spelling wins.
func NewExtensionSet(exts ...string) ExtensionSet {
	s := ExtensionSet{exts: make(map[string]struct{}, len(exts))}
	for _, e := range exts {
		e = strings.TrimSpace(e)
		if e == AnyExtension {
			if !s.any {
				s.any = true
				s.list = append(s.list, e)
			}
			continue
		}
		if e != "" && !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		key := FoldName(e)
		if _, ok := s.exts[key]; ok {
			continue
		}
		s.exts[key] = struct{}{}
		s.list = append(s.list, e)
	}
	return s
}

// Empty reports whether the set has no entries at all.
func (s ExtensionSet) Empty() bool {
	return len(s.list) == 0
}

// List returns the entries in the order they were given.
func (s ExtensionSet) List() []string {
	return append([]string(nil), s.list...)
}

// Matches reports whether the file name's extension is in the set.
func (s ExtensionSet) Matches(name string) bool {
	if s.any {
		return true
	}
	_, ok := s.exts[FoldName(filepath.Ext(name))]
	return ok
}

// FoldName returns the case-insensitive key for a file name or extension.
// It applies full Unicode case folding, so "ß" and "ss" share a key. A
// cases.Caser is not safe for concurrent use; one is created per call.
func FoldName(s string) string {
	return cases.Fold().String(s)
}
