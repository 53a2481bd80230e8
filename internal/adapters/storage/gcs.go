package storage

import (
	"context"

	"sentinel/internal/adapters/config"
	"sentinel/pkg/errors"
)

// CloudStore is the Google Cloud Storage backend. The interface slot exists so
// deployments can move off local disk without touching callers; the
// implementation is pending a GCS environment to test against.
//
// TODO: implement against cloud.google.com/go/storage once a bucket is
// provisioned for document uploads.
type CloudStore struct {
	bucket string
}

var _ Store = (*CloudStore)(nil)

// NewCloudStore validates configuration for the GCS backend.
func NewCloudStore(cfg config.StorageConfig) (*CloudStore, error) {
	if cfg.GCSBucket == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "GCS_BUCKET_NAME is required for gcs storage")
	}
	return &CloudStore{bucket: cfg.GCSBucket}, nil
}

// Save is not implemented yet.
func (s *CloudStore) Save(_ context.Context, _, _ string, _ []byte) (string, string, error) {
	return "", "", errors.Wrap(errors.ErrNotImplemented, "gcs storage")
}

// Path is not implemented yet.
func (s *CloudStore) Path(_ context.Context, _ string) (string, error) {
	return "", errors.Wrap(errors.ErrNotImplemented, "gcs storage")
}

// Delete is not implemented yet.
func (s *CloudStore) Delete(_ context.Context, _ string) error {
	return errors.Wrap(errors.ErrNotImplemented, "gcs storage")
}
