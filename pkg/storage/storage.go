// Package storage keeps uploaded media files and renders their derivatives.
package storage

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Storage saves named files and knows their public URL
type Storage interface {
	Save(ctx context.Context, name string, r io.Reader, contentType string) error
	URL(name string) string
}

// LocalStorage writes files below a root directory served at baseURL
type LocalStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage creates a LocalStorage rooted at root, creating it when missing
func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create media root %s", root)
	}
	return &LocalStorage{root: root, baseURL: baseURL}, nil
}

// Root is the directory files are written to
func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) Save(_ context.Context, name string, r io.Reader, _ string) error {
	dest, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", name)
	}
	f, err := os.Create(dest)
	if err != nil {
		return errors.Wrapf(err, "create %s", name)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", name)
	}
	return errors.Wrapf(f.Close(), "close %s", name)
}

func (s *LocalStorage) URL(name string) string {
	return joinURL(s.baseURL, name)
}

func (s *LocalStorage) path(name string) (string, error) {
	clean := path.Clean("/" + name)
	if clean == "/" {
		return "", errors.Errorf("invalid file name %q", name)
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func joinURL(base, name string) string {
	if base == "" {
		base = "/"
	}
	escaped := (&url.URL{Path: name}).EscapedPath()
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(escaped, "/")
}
