package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const defaultDatabaseFile = "app.db"

// ErrInstallDir indicates the directory holding the running binary could not
// be determined.
var ErrInstallDir = errors.New("cannot resolve install directory")

// installDir is swapped in tests.
var installDir = executableDir

// executableDir returns the absolute directory of the running executable with
// symlinks resolved.
func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInstallDir, err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInstallDir, err)
	}
	return filepath.Dir(resolved), nil
}

// DefaultDatabaseURI returns the bolt URI of app.db inside dir. An absolute dir
// yields the four-slash form, e.g. bolt:////opt/app/app.db.
func DefaultDatabaseURI(dir string) string {
	return "bolt:///" + filepath.ToSlash(filepath.Join(dir, defaultDatabaseFile))
}

func defaultDatabaseURI() (string, error) {
	dir, err := installDir()
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(dir) {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInstallDir, err)
		}
		dir = abs
	}
	return DefaultDatabaseURI(dir), nil
}
