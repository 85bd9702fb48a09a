package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideBase is returned by ResolveWithin when a relative path would
// leave its base directory.
var ErrOutsideBase = errors.New("path escapes base directory")

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// PathExists checks if the given path exists.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// ResolveWithin joins rel onto base and returns the absolute result. Absolute
// inputs and inputs that climb out of base with ".." are rejected.
func ResolveWithin(base, rel string) (string, error) {
	if strings.TrimSpace(rel) == "" {
		return "", fmt.Errorf("empty path")
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("%q: %w", rel, ErrOutsideBase)
	}
	b, err := ExpandHome(base)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(b)
	if err != nil {
		return "", fmt.Errorf("abs path: %w", err)
	}
	full := filepath.Join(absBase, rel)
	r, err := filepath.Rel(absBase, full)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q: %w", rel, ErrOutsideBase)
	}
	return full, nil
}
