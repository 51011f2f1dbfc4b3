package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Scheme is the only database URI scheme Open understands.
const Scheme = "bolt"

var (
	// ErrUnsupportedScheme indicates a database URI with a scheme other than bolt.
	ErrUnsupportedScheme = errors.New("unsupported database scheme")
	// ErrInvalidURI indicates a database URI that does not name a file.
	ErrInvalidURI = errors.New("invalid database URI")
)

// ParsePath extracts the file path from a bolt URI. Three slashes introduce
// the path, so bolt:///local.db is relative and bolt:////var/lib/app.db is
// absolute.
func ParsePath(uri string) (string, error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return "", fmt.Errorf("%w: %q has no scheme", ErrInvalidURI, uri)
	}
	if !strings.EqualFold(scheme, Scheme) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}

	path, ok := strings.CutPrefix(rest, "/")
	if !ok {
		return "", fmt.Errorf("%w: %q must not name a host", ErrInvalidURI, uri)
	}
	if path == "" || strings.HasSuffix(path, "/") {
		return "", fmt.Errorf("%w: %q has no file path", ErrInvalidURI, uri)
	}

	return filepath.FromSlash(path), nil
}
