package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ReferenceStore holds the canonical reference image of each enrolled
// person. A reference image lives as long as the person it belongs to.
type ReferenceStore interface {
	// Save persists the image under the person's code and returns a stable
	// path usable for later comparisons.
	Save(personCode string, image []byte) (string, error)

	// Load reads a reference image back by its stored path.
	Load(path string) ([]byte, error)

	// Delete removes a stored reference image. Used to clean up when a
	// registration fails after the image was already written.
	Delete(path string) error
}

// LocalStore keeps reference images on the local filesystem, one directory
// per person.
type LocalStore struct {
	baseDir string
}

var _ ReferenceStore = (*LocalStore)(nil)

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create reference directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

func (s *LocalStore) Save(personCode string, image []byte) (string, error) {
	dir := filepath.Join(s.baseDir, personCode)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create person directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("main_%s.jpg", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, image, 0644); err != nil {
		return "", fmt.Errorf("failed to write reference image: %w", err)
	}

	return path, nil
}

func (s *LocalStore) Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference image: %w", err)
	}
	return data, nil
}

func (s *LocalStore) Delete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete reference image: %w", err)
	}
	return nil
}
