package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/ccfrost/photoup/commands/googlephotos"
	"github.com/ccfrost/photoup/photoupconfig"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"
)

// UploadResult is the per-file outcome of one upload attempt.
type UploadResult struct {
	Path        string
	MediaItemID string
	Err         error
}

// Succeeded reports whether the file was committed as a media item.
func (r UploadResult) Succeeded() bool {
	return r.Err == nil
}

// UploadImages uploads the images found under paths to Google Photos,
// attaching each image's EXIF caption as the media item description and
// linking items to the resolved album target. Files are processed strictly in
// expansion order, one at a time; a failed file never stops the batch. The
// returned error is non-nil only for run-level failures (album creation,
// cache setup, cancellation) - per-file failures are reported in the results.
func UploadImages(ctx context.Context, config photoupconfig.PhotoupConfig, target AlbumTarget, paths []string, client PhotosService) ([]UploadResult, error) {
	entries := expandImagePaths(paths)
	if len(entries) == 0 {
		return nil, fmt.Errorf("no image files found to upload")
	}

	limiter := rate.NewLimiter(
		rate.Every(time.Second/time.Duration(config.Upload.RequestsPerSecond)),
		config.Upload.Burst)

	albumCachePath, err := getAlbumCachePath(config.ConfigDir())
	if err != nil {
		return nil, fmt.Errorf("failed to get album cache path: %w", err)
	}
	cache, err := loadAlbumCache(albumCachePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load album cache: %w", err)
	}

	// Resolve the album exactly once per run, before any file is touched.
	if !target.IsLibraryOnly() {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error before resolving album: %w", err)
		}
	}
	albumID, err := target.resolve(ctx, client, cache)
	if err != nil {
		return nil, err
	}

	var totalSize int64
	fileCount := 0
	for _, entry := range entries {
		if entry.err == nil {
			totalSize += entry.size
			fileCount++
		}
	}
	logger.Info("Found images to upload",
		"count", fileCount)

	bar := progressbar.DefaultBytes(
		totalSize,
		"Uploading photos")

	var results []UploadResult
	for _, entry := range entries {
		// A user interrupt stops launching new files; the in-flight
		// phases of the previous file have already completed or failed
		// cleanly.
		if ctx.Err() != nil {
			_ = bar.Finish()
			return results, fmt.Errorf("batch interrupted: %w", ctx.Err())
		}

		if entry.err != nil {
			logger.Error("Skipping path",
				"path", entry.path,
				"error", entry.err.Error())
			results = append(results, UploadResult{Path: entry.path, Err: entry.err})
			continue
		}

		result := uploadImage(ctx, client, limiter, albumID, entry, bar)
		if result.Succeeded() {
			logger.Info("Uploaded",
				"path", result.Path,
				"media_id", result.MediaItemID)
		} else {
			logger.Error("Upload failed",
				"path", result.Path,
				"error", result.Err.Error())
		}
		results = append(results, result)
	}

	_ = bar.Finish() // Ignore error on finish

	return results, nil
}

// uploadImage runs the two-phase write for a single file: stream the raw
// bytes for an upload token, then commit the token as a media item carrying
// the caption and album link. Failure in the binary phase skips the commit;
// a commit failure leaves the uploaded bytes for the service to garbage
// collect.
func uploadImage(ctx context.Context, client PhotosService, limiter *rate.Limiter, albumID string, entry batchEntry, bar *progressbar.ProgressBar) UploadResult {
	fileBasename := filepath.Base(entry.path)
	bar.Describe(fmt.Sprintf("Uploading %s", fileBasename))

	// Update the progress bar once per file attempt, success or not.
	defer bar.Add64(entry.size)

	caption, err := ExtractCaption(entry.path)
	if err != nil {
		// Unreadable metadata never fails the file; it uploads without
		// a caption.
		logger.Warn("Could not read image metadata, uploading without a caption",
			"path", entry.path,
			"error", err.Error())
		caption = ""
	} else if caption != "" {
		logger.Debug("Found caption",
			"path", entry.path,
			"caption", truncateForLog(caption))
	}

	if err := limiter.Wait(ctx); err != nil {
		return UploadResult{Path: entry.path, Err: fmt.Errorf("rate limiter error before uploading: %w", err)}
	}
	uploadToken, err := client.Upload(ctx, entry.path, mimeTypeForPath(entry.path))
	if err != nil {
		return UploadResult{Path: entry.path, Err: fmt.Errorf("failed to upload bytes: %w", err)}
	}

	if err := limiter.Wait(ctx); err != nil {
		return UploadResult{Path: entry.path, Err: fmt.Errorf("rate limiter error before creating media item: %w", err)}
	}
	item, err := client.CreateMediaItem(ctx, googlephotos.NewMediaItem{
		UploadToken: uploadToken,
		FileName:    fileBasename,
		Description: caption,
		AlbumID:     albumID,
	})
	if err != nil {
		return UploadResult{Path: entry.path, Err: fmt.Errorf("failed to create media item: %w", err)}
	}

	return UploadResult{Path: entry.path, MediaItemID: item.ID}
}

// PrintSummary writes the per-failure lines and final counts for a finished
// (or interrupted) batch, and returns the number of failed files.
func PrintSummary(w io.Writer, results []UploadResult) (failed int) {
	succeeded := 0
	for _, r := range results {
		if r.Succeeded() {
			succeeded++
		} else {
			failed++
		}
	}

	if failed > 0 {
		fmt.Fprintln(w, "Failures:")
		for _, r := range results {
			if !r.Succeeded() {
				fmt.Fprintf(w, "  %s: %v\n", r.Path, r.Err)
			}
		}
	}
	fmt.Fprintf(w, "Upload complete: %d succeeded, %d failed.\n", succeeded, failed)
	return failed
}

func truncateForLog(s string) string {
	const limit = 50
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
