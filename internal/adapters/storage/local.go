package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"sentinel/internal/adapters/config"
	"sentinel/pkg/errors"
)

// LocalStore keeps uploaded files on the local filesystem, one directory per
// vendor, with uuid-based filenames so uploads never collide.
type LocalStore struct {
	root    string
	baseURL string
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates the storage root if needed.
func NewLocalStore(cfg config.StorageConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create storage directory")
	}
	return &LocalStore{
		root:    cfg.Path,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
	}, nil
}

// Save writes the file under <root>/<vendorID>/ and returns its path and URL.
func (s *LocalStore) Save(_ context.Context, vendorID, filename string, content []byte) (string, string, error) {
	ext := filepath.Ext(filename)
	unique := fmt.Sprintf("%s_%s%s", vendorID, uuid.New(), ext)

	vendorDir := filepath.Join(s.root, vendorID)
	if err := os.MkdirAll(vendorDir, 0o755); err != nil {
		return "", "", errors.Wrap(err, "failed to create vendor directory")
	}

	path := filepath.Join(vendorDir, unique)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", "", errors.Wrap(err, "failed to write file")
	}

	url := fmt.Sprintf("%s/files/%s/%s", s.baseURL, vendorID, unique)
	return path, url, nil
}

// Path resolves a file URL of the form <base>/files/<vendor>/<name> back to
// the stored file, rejecting URLs that would escape the storage root.
func (s *LocalStore) Path(_ context.Context, fileURL string) (string, error) {
	_, rel, found := strings.Cut(fileURL, "/files/")
	if !found || rel == "" {
		return "", errors.Wrapf(errors.ErrInvalidInput, "invalid file URL %q", fileURL)
	}

	path := filepath.Join(s.root, filepath.Clean("/"+rel))
	if !strings.HasPrefix(path, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", errors.Wrapf(errors.ErrInvalidInput, "file URL escapes storage root")
	}

	if _, err := os.Stat(path); err != nil {
		return "", errors.Wrapf(errors.ErrNotFound, "file not found: %s", rel)
	}

	return path, nil
}

// Delete removes the stored file.
func (s *LocalStore) Delete(ctx context.Context, fileURL string) error {
	path, err := s.Path(ctx, fileURL)
	if err != nil {
		return err
	}
	return os.Remove(path)
}
