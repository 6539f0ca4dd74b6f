// Package storage persists uploaded blobs and hands back public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Store saves a blob under a bucket-relative name and returns its public URL.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	PublicURL(name string) string
}

// LocalStore writes blobs to a directory served by the HTTP layer.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Dir returns the directory blobs are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	clean, err := s.cleanName(name)
	if err != nil {
		return "", err
	}

	full := filepath.Join(s.dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create blob dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create blob: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to write blob: %w", err)
	}

	return s.PublicURL(clean), nil
}

func (s *LocalStore) PublicURL(name string) string {
	return s.baseURL + "/" + strings.TrimLeft(name, "/")
}

func (s *LocalStore) cleanName(name string) (string, error) {
	clean := path.Clean("/" + name)
	if clean == "/" || strings.Contains(clean, "..") {
		return "", fmt.Errorf("invalid blob name %q", name)
	}
	return strings.TrimPrefix(clean, "/"), nil
}
