package storage

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/adapters/config"
	"sentinel/pkg/errors"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(config.StorageConfig{
		Path:    t.TempDir(),
		BaseURL: "http://localhost:8080",
	})
	require.NoError(t, err)
	return store
}

func TestLocalStore_SaveAndResolve(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	path, url, err := store.Save(ctx, "recVendor1", "soc2.pdf", []byte("%PDF-1.7 content"))
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/files/recVendor1/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))

	resolved, err := store.Path(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)

	content, err := os.ReadFile(resolved)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 content"), content)
}

func TestLocalStore_PathRejectsBadURLs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Path(ctx, "http://localhost:8080/other/thing")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = store.Path(ctx, "http://localhost:8080/files/recV/missing.pdf")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestLocalStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	path, url, err := store.Save(ctx, "recVendor1", "policy.txt", []byte("security policy"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, url))
	assert.NoFileExists(t, path)
}
