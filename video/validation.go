package video

import (
	"path/filepath"
	"strings"
)

// DefaultExtensions lists the video container extensions discovered when no
// explicit set is configured.
var DefaultExtensions = []string{".mp4", ".webm", ".mov", ".flv", ".mkv", ".avi", ".wmv", ".mpg", ".mpeg", ".m4v", ".ts"}

// Extensions is a case-insensitive set of file extensions, stored lowercase
// with a leading dot.
type Extensions map[string]struct{}

// NewExtensions normalizes exts into a set. Entries may be given with or
// without the leading dot; blanks are ignored.
func NewExtensions(exts ...string) Extensions {
	set := make(Extensions, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

// Match reports whether path has one of the extensions in the set.
func (e Extensions) Match(path string) bool {
	_, ok := e[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsVideoFile checks if the given file extension is one of known video file extensions
func IsVideoFile(path string) bool {
	return NewExtensions(DefaultExtensions...).Match(path)
}
