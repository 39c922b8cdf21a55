package infra_posters_fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinokreker/core/internal/model"
)

func TestSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	storage, err := New(dir, "/static/film_posters")
	require.NoError(t, err)

	content := []byte{0xFF, 0xD8}
	publicPath, err := storage.Save(context.Background(), model.Poster{
		Filename: "435.jpg",
		Content:  content,
		MovieKey: "435",
	})

	require.NoError(t, err)
	assert.Equal(t, "/static/film_posters/435.jpg", publicPath)

	written, err := os.ReadFile(filepath.Join(dir, "435.jpg"))
	require.NoError(t, err)
	assert.Equal(t, content, written)
}

func TestSaveStripsPathComponents(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	storage, err := New(dir, "/static/film_posters")
	require.NoError(t, err)

	publicPath, err := storage.Save(context.Background(), model.Poster{
		Filename: "../evil/435.jpg",
		Content:  []byte{0x01},
		MovieKey: "435",
	})

	require.NoError(t, err)
	assert.Equal(t, "/static/film_posters/435.jpg", publicPath)

	_, err = os.Stat(filepath.Join(dir, "435.jpg"))
	assert.NoError(t, err)
}

func TestNewCreatesDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "posters")
	_, err := New(dir, "/static")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
