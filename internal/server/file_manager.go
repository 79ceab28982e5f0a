package server

import (
	"context"
	"fmt"
	"strings"

	"ednaviz/internal/storage"
)

// FileManager serves stored export files
type FileManager struct {
	storage storage.StorageClient
}

// NewFileManager creates a new file manager
func NewFileManager(sc storage.StorageClient) *FileManager {
	return &FileManager{storage: sc}
}

// Load reads a stored file addressed by a URL path below prefix and returns
// it with its content type. Paths escaping the storage root are rejected.
func (fm *FileManager) Load(ctx context.Context, urlPath, prefix string) ([]byte, string, error) {
	rel := strings.TrimPrefix(urlPath, prefix)
	if rel == "" {
		return nil, "", fmt.Errorf("%w: file path required", storage.ErrInvalidPath)
	}
	clean, err := storage.CleanPath(rel)
	if err != nil {
		return nil, "", err
	}
	if clean == "" {
		return nil, "", fmt.Errorf("%w: file path required", storage.ErrInvalidPath)
	}

	data, err := fm.storage.GetFile(ctx, clean)
	if err != nil {
		return nil, "", err
	}
	return data, storage.GetContentType(clean), nil
}
