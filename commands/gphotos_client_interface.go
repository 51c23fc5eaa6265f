//go:generate go run github.com/golang/mock/mockgen -source=${GOFILE} -destination=mock_photos_service_test.go -package=commands PhotosService

package commands

import (
	"context"

	"github.com/ccfrost/photoup/commands/googlephotos"
)

// PhotosService defines the Google Photos operations the upload pipeline
// needs. *googlephotos.Client is the production implementation; tests use the
// generated mock.
type PhotosService interface {
	CreateAlbum(ctx context.Context, title string) (*googlephotos.Album, error)
	Upload(ctx context.Context, path, mimeType string) (string, error)
	CreateMediaItem(ctx context.Context, item googlephotos.NewMediaItem) (*googlephotos.MediaItem, error)
}

var _ PhotosService = (*googlephotos.Client)(nil)
