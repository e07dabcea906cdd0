package helpers

import (
	"os"
	"path/filepath"
	"strings"
)

func CreateDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// CreateParentDir makes sure the directory that will hold file exists.
func CreateParentDir(file string) error {
	dir := filepath.Dir(file)
	if dir == "" || dir == "." {
		return nil
	}
	return CreateDir(dir)
}

// HasExt reports whether file ends with one of the given extensions,
// ignoring case. Extensions are expected with the leading dot.
func HasExt(file string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(file))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
