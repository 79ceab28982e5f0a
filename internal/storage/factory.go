package storage

import (
	"context"
	"fmt"

	"ednaviz/internal/config"
)

// NewStorageClient creates a storage client for the configured storage mode
func NewStorageClient(ctx context.Context, cfg *config.Config) (StorageClient, error) {
	switch cfg.StorageMode {
	case config.StorageLocal:
		dir := cfg.LocalExportDir
		if dir == "" {
			dir = "exports"
		}

		localClient, err := NewLocalStorageClient(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return localClient, nil

	case config.StorageGCS:
		gcsClient, err := NewGCSClient(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return gcsClient, nil

	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.StorageMode)
	}
}
