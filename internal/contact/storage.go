package contact

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage defines the interface for card image storage
type Storage interface {
	// Save stores an image and returns the path it can be fetched by
	Save(filename string, data []byte) (string, error)

	// Get retrieves an image by path
	Get(path string) ([]byte, error)

	// Delete removes an image
	Delete(path string) error
}

// LocalStorage keeps card images on the local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates the storage directory if needed
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

// Save writes an image under the storage directory
func (l *LocalStorage) Save(filename string, data []byte) (string, error) {
	path := filepath.Join(l.basePath, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing image: %w", err)
	}
	return filename, nil
}

// Get reads an image back from the storage directory
func (l *LocalStorage) Get(path string) ([]byte, error) {
	fullPath := filepath.Join(l.basePath, path)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return data, nil
}

// Delete removes an image from the storage directory
func (l *LocalStorage) Delete(path string) error {
	fullPath := filepath.Join(l.basePath, path)
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("deleting image: %w", err)
	}
	return nil
}
