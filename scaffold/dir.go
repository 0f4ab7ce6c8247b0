package scaffold

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// DefaultTargetDir is used when the user does not name a directory.
const DefaultTargetDir = "my-app"

// FormatTargetDir trims surrounding whitespace and trailing slashes.
func FormatTargetDir(dir string) string {
	dir = strings.TrimSpace(dir)
	trimmed := strings.TrimRight(dir, `/\`)
	if trimmed == "" && dir != "" {
		// A bare "/" stays the filesystem root.
		return dir[:1]
	}
	return trimmed
}

// IsEmpty reports whether dir has no entries other than a .git directory.
func IsEmpty(fsys afero.Fs, dir string) (bool, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return false, err
	}
	return len(entries) == 0 || (len(entries) == 1 && entries[0].Name() == ".git"), nil
}

// Exists reports whether dir exists and is not empty.
func Exists(fsys afero.Fs, dir string) (bool, error) {
	_, err := fsys.Stat(dir)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	empty, err := IsEmpty(fsys, dir)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// EmptyDir removes everything in dir except a .git directory.
func EmptyDir(fsys afero.Fs, dir string) error {
	entries, err := afero.ReadDir(fsys, dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.Name() == ".git" {
			continue
		}
		if err := fsys.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
