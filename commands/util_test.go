package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, contents []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, contents, 0644))
}

func TestMimeTypeForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"photo.jpg", "image/jpeg"},
		{"photo.JPG", "image/jpeg"},
		{"photo.jpeg", "image/jpeg"},
		{"scan.tiff", "image/tiff"},
		{"scan.tif", "image/tiff"},
		{"shot.png", "image/png"},
		{"shot.bmp", "image/bmp"},
		{"shot.webp", "image/webp"},
		{"shot.heic", "image/heic"},
		{"shot.heif", "image/heif"},
		{"notes.txt", ""},
		{"clip.mp4", ""},
		{"noext", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, mimeTypeForPath(tt.path))
		})
	}
}

func TestExpandImagePaths_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "c.jpg"), []byte("c"))
	writeFile(t, filepath.Join(dir, "a.png"), []byte("a"))
	writeFile(t, filepath.Join(dir, "b.tiff"), []byte("bb"))
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("not an image"))
	writeFile(t, filepath.Join(dir, "clip.mp4"), []byte("not an image"))

	// Image files in subdirectories must not be picked up.
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	writeFile(t, filepath.Join(sub, "nested.jpg"), []byte("nested"))

	entries := expandImagePaths([]string{dir})

	require.Len(t, entries, 3)
	assert.Equal(t, filepath.Join(dir, "a.png"), entries[0].path)
	assert.Equal(t, filepath.Join(dir, "b.tiff"), entries[1].path)
	assert.Equal(t, filepath.Join(dir, "c.jpg"), entries[2].path)
	for _, entry := range entries {
		assert.NoError(t, entry.err)
	}
	assert.Equal(t, int64(2), entries[1].size)
}

func TestExpandImagePaths_PreservesArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "z-last-alphabetically.jpg")
	second := filepath.Join(dir, "a-first-alphabetically.jpg")
	writeFile(t, first, []byte("1"))
	writeFile(t, second, []byte("2"))

	entries := expandImagePaths([]string{first, second})

	require.Len(t, entries, 2)
	assert.Equal(t, first, entries[0].path)
	assert.Equal(t, second, entries[1].path)
}

func TestExpandImagePaths_MissingPathBecomesFailedEntry(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.jpg")
	writeFile(t, good, []byte("g"))
	missing := filepath.Join(dir, "no-such-file.jpg")

	entries := expandImagePaths([]string{missing, good})

	require.Len(t, entries, 2)
	assert.Equal(t, missing, entries[0].path)
	assert.Error(t, entries[0].err)
	assert.Equal(t, good, entries[1].path)
	assert.NoError(t, entries[1].err)
}

func TestExpandImagePaths_ExplicitNonImageSkipped(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "notes.txt")
	writeFile(t, text, []byte("hello"))

	entries := expandImagePaths([]string{text})

	assert.Empty(t, entries)
}
