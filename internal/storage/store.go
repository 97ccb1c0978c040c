// Package storage abstracts the product image object store: upload under a
// path, resolve a public URL, remove by path.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type ObjectStore interface {
	// Upload writes the object and returns its public URL.
	Upload(path string, data []byte) (string, error)
	Remove(path string) error
}

// DiskStore keeps objects under Dir and serves them from /media/products/.
type DiskStore struct {
	Dir     string // filesystem root, e.g. ./web/media
	BaseURL string // public origin, e.g. http://localhost:8080
}

func (s *DiskStore) Upload(path string, data []byte) (string, error) {
	clean := filepath.Base(path) // flat namespace, no traversal
	full := filepath.Join(s.Dir, "products", clean)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/media/products/%s", strings.TrimRight(s.BaseURL, "/"), clean), nil
}

func (s *DiskStore) Remove(path string) error {
	clean := filepath.Base(path)
	return os.Remove(filepath.Join(s.Dir, "products", clean))
}
