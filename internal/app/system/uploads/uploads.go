// internal/app/system/uploads/uploads.go

// Package uploads stores user-submitted files (event pictures, club logos)
// on local disk and maps them to the public /uploads URL space.
package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes files under Dir and derives their public URLs from BaseURL
// and URLPrefix. Filenames are uuid-prefixed so concurrent uploads of the
// same original name never collide.
type Store struct {
	Dir       string // e.g. "./uploads"
	URLPrefix string // e.g. "/uploads"
	BaseURL   string // e.g. "http://localhost:8080"
}

// New creates the upload directory if needed.
func New(dir, urlPrefix, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("uploads: create dir %s: %w", dir, err)
	}
	return &Store{
		Dir:       dir,
		URLPrefix: strings.TrimSuffix(urlPrefix, "/"),
		BaseURL:   strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Save writes the file and returns its absolute public URL.
func (s *Store) Save(originalName string, r io.Reader) (string, error) {
	name := uuid.NewString() + "-" + sanitizeName(originalName)
	path := filepath.Join(s.Dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("uploads: create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("uploads: write %s: %w", path, err)
	}
	return s.BaseURL + s.URLPrefix + "/" + name, nil
}

// Owns reports whether fileURL points into this store's URL space.
func (s *Store) Owns(fileURL string) bool {
	return strings.HasPrefix(fileURL, s.BaseURL+s.URLPrefix+"/")
}

// Remove deletes the file behind fileURL if this store owns it. Foreign
// URLs (externally hosted pictures) are left alone.
func (s *Store) Remove(fileURL string) error {
	if !s.Owns(fileURL) {
		return nil
	}
	name := filepath.Base(fileURL)
	return os.Remove(filepath.Join(s.Dir, name))
}

// sanitizeName keeps the original filename readable while stripping path
// separators and characters that are unsafe on disk.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
