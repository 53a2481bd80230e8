package storage

import (
	"context"

	"sentinel/internal/adapters/config"
	"sentinel/pkg/errors"
)

// Store abstracts where uploaded documents live (local disk or cloud bucket).
// Selected by configuration at startup.
type Store interface {
	// Save persists file content for a vendor and returns (path, public URL).
	Save(ctx context.Context, vendorID, filename string, content []byte) (string, string, error)

	// Path resolves a file URL back to a readable local path.
	Path(ctx context.Context, fileURL string) (string, error)

	// Delete removes a stored file.
	Delete(ctx context.Context, fileURL string) error
}

// New selects a storage backend from configuration.
func New(cfg config.StorageConfig) (Store, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStore(cfg)
	case "gcs":
		return NewCloudStore(cfg)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown storage type %q", cfg.Type)
	}
}
