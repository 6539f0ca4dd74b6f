package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndPublicURL(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:8080/static/")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "avatars/avatar-1.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/static/avatars/avatar-1.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "avatars", "avatar-1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSaveContainsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:8080/static")
	require.NoError(t, err)

	// Traversal segments collapse inside the storage dir.
	_, err = store.Save(context.Background(), "../../escape.txt", strings.NewReader("contained"))
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "escape.txt"))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(dir, "..", "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveRejectsEmptyName(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost:8080/static")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "", strings.NewReader("nope"))
	assert.Error(t, err)
}
