package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/ccfrost/photoup/commands/googlephotos"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *albumCache {
	t.Helper()
	path, err := getAlbumCachePath(t.TempDir())
	require.NoError(t, err)
	cache, err := loadAlbumCache(path)
	require.NoError(t, err)
	return cache
}

func TestNewAlbumTarget_Precedence(t *testing.T) {
	tests := []struct {
		name        string
		createName  string
		existingID  string
		defaultName string
		want        AlbumTarget
	}{
		{
			name: "no inputs is library only",
			want: AlbumTarget{kind: albumTargetNone},
		},
		{
			name:       "id wins over name",
			createName: "Vacation",
			existingID: "album-123",
			want:       AlbumTarget{kind: albumTargetExisting, id: "album-123"},
		},
		{
			name:        "id wins over everything",
			createName:  "Vacation",
			existingID:  "album-123",
			defaultName: "Default",
			want:        AlbumTarget{kind: albumTargetExisting, id: "album-123"},
		},
		{
			name:        "name wins over default",
			createName:  "Vacation",
			defaultName: "Default",
			want:        AlbumTarget{kind: albumTargetCreate, name: "Vacation"},
		},
		{
			name:        "default when nothing else",
			defaultName: "Default",
			want:        AlbumTarget{kind: albumTargetDefault, name: "Default"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAlbumTarget(tt.createName, tt.existingID, tt.defaultName)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAlbumTargetResolve_LibraryOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := NewMockPhotosService(ctrl)

	target := NewAlbumTarget("", "", "")
	assert.True(t, target.IsLibraryOnly())

	id, err := target.resolve(context.Background(), client, newTestCache(t))
	require.NoError(t, err)
	assert.Equal(t, "", id)
}

func TestAlbumTargetResolve_ExistingIDPassedThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := NewMockPhotosService(ctrl)
	// No API calls: the ID is trusted until the first commit rejects it.

	target := NewAlbumTarget("", "album-456", "")
	id, err := target.resolve(context.Background(), client, newTestCache(t))
	require.NoError(t, err)
	assert.Equal(t, "album-456", id)
}

func TestAlbumTargetResolve_CreatesAlbum(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := NewMockPhotosService(ctrl)
	client.EXPECT().
		CreateAlbum(gomock.Any(), "Summer 2026").
		Return(&googlephotos.Album{ID: "new-album-1", Title: "Summer 2026"}, nil)

	cache := newTestCache(t)
	target := NewAlbumTarget("Summer 2026", "", "")
	id, err := target.resolve(context.Background(), client, cache)
	require.NoError(t, err)
	assert.Equal(t, "new-album-1", id)

	cachedID, ok := cache.get("Summer 2026")
	assert.True(t, ok)
	assert.Equal(t, "new-album-1", cachedID)
}

func TestAlbumTargetResolve_CreateFailureAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := NewMockPhotosService(ctrl)
	client.EXPECT().
		CreateAlbum(gomock.Any(), "Summer 2026").
		Return(nil, fmt.Errorf("quota exceeded"))

	target := NewAlbumTarget("Summer 2026", "", "")
	_, err := target.resolve(context.Background(), client, newTestCache(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Summer 2026")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestAlbumTargetResolve_DefaultUsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := NewMockPhotosService(ctrl)
	// Cache hit means no API call at all.

	cache := newTestCache(t)
	cache.put("Default Album", "cached-id-9")

	target := NewAlbumTarget("", "", "Default Album")
	id, err := target.resolve(context.Background(), client, cache)
	require.NoError(t, err)
	assert.Equal(t, "cached-id-9", id)
}

func TestAlbumTargetResolve_DefaultCreatesOnCacheMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := NewMockPhotosService(ctrl)
	client.EXPECT().
		CreateAlbum(gomock.Any(), "Default Album").
		Return(&googlephotos.Album{ID: "fresh-id", Title: "Default Album"}, nil)

	cache := newTestCache(t)
	target := NewAlbumTarget("", "", "Default Album")
	id, err := target.resolve(context.Background(), client, cache)
	require.NoError(t, err)
	assert.Equal(t, "fresh-id", id)

	cachedID, ok := cache.get("Default Album")
	assert.True(t, ok)
	assert.Equal(t, "fresh-id", cachedID)
}

func TestGetAlbumCachePath(t *testing.T) {
	_, err := getAlbumCachePath("")
	assert.Error(t, err)

	path, err := getAlbumCachePath("/home/user/.config/photoup")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/user/.config/photoup", albumCacheFileName), path)
}
