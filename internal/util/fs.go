package util

import (
	"errors"
	"os"
)

// EnsureDir creates the directory path if it does not exist. It reports
// whether the directory had to be created.
func EnsureDir(path string) (bool, error) {
	if path == "" {
		return false, errors.New("empty path")
	}
	fi, err := os.Stat(path)
	if err == nil {
		if !fi.IsDir() {
			return false, errors.New("not a directory: " + path)
		}
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveIfExists deletes the file if present.
func RemoveIfExists(path string) error {
	if _, err := os.Stat(path); err == nil {
		return os.Remove(path)
	} else if os.IsNotExist(err) {
		return nil
	} else {
		return err
	}
}

// FileSize returns the size of path, or false if it cannot be stat'ed.
func FileSize(path string) (int64, bool) {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return 0, false
	}
	return fi.Size(), true
}
