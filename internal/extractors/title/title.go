// Package title derives display titles for extracted documents.
package title

import (
	"path/filepath"
	"strings"
)

// FromName returns a human-readable title from a file name.
func FromName(name string) string {
	filename := filepath.Base(name)
	if filename == "." || filename == "/" {
		return ""
	}
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return strings.TrimSpace(filename)
}
