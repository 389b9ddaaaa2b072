// Package storage holds MediaStorage adapters for uploaded files.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned for names that escape the storage root.
var ErrInvalidName = errors.New("storage: invalid file name")

// Local stores files on the local disk below Root and serves them from URLPrefix.
type Local struct {
	Root      string
	URLPrefix string
}

// NewLocal returns a Local rooted at dir. urlPrefix defaults to "/uploads".
func NewLocal(dir, urlPrefix string) *Local {
	if urlPrefix == "" {
		urlPrefix = "/uploads"
	}
	return &Local{Root: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

// resolve maps a slash-separated relative name to a path inside Root.
func (l *Local) resolve(name string) (string, error) {
	clean := path.Clean("/" + name)
	if clean == "/" || strings.Contains(name, "\\") || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(l.Root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// Save writes r to name atomically: the bytes go to a temp file that is renamed into place.
func (l *Local) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dst, err := l.resolve(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("move upload: %w", err)
	}
	return l.URLPrefix + path.Clean("/"+name), nil
}

// Remove deletes name. A missing file is not an error.
func (l *Local) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := l.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// Check reports whether Root exists and is a directory.
func (l *Local) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(l.Root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("storage: %s is not a directory", l.Root)
	}
	return nil
}
