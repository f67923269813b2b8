package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePut(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)

	result, err := store.Put(context.Background(), "episode.mp3", strings.NewReader("audio bytes"), "audio/mpeg")
	require.NoError(t, err)

	assert.Equal(t, int64(len("audio bytes")), result.Size)
	assert.Equal(t, "file://"+filepath.Join(dir, "episode.mp3"), result.URL)

	data, err := os.ReadFile(filepath.Join(dir, "episode.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "audio bytes", string(data))
}

func TestLocalStorePutCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "blobs")
	store := NewLocalStore(dir)

	_, err := store.Put(context.Background(), "x.mp3", strings.NewReader("x"), "audio/mpeg")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "x.mp3"))
	assert.NoError(t, statErr)
}

func TestLocalStorePutStripsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)

	result, err := store.Put(context.Background(), "../../etc/evil.mp3", strings.NewReader("x"), "audio/mpeg")
	require.NoError(t, err)

	// Only the base name is used, keeping writes inside the store dir.
	assert.Equal(t, "file://"+filepath.Join(dir, "evil.mp3"), result.URL)
}
