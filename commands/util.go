package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// imageMIMETypes is the extension allow-list gating which files are uploaded,
// and the MIME type sent with the binary phase. Gating is by extension only,
// never by content sniffing.
var imageMIMETypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
}

// mimeTypeForPath returns the upload MIME type for an allow-listed image
// path, or "" when the extension is not an allowed image type.
func mimeTypeForPath(path string) string {
	return imageMIMETypes[strings.ToLower(filepath.Ext(path))]
}

// batchEntry is one slot in the expanded batch: either an image file to
// upload, or a path that already failed during expansion (err set).
type batchEntry struct {
	path string
	size int64
	err  error
}

// expandImagePaths flattens the argument list into the ordered list of batch
// entries. File arguments must pass the extension allow-list; non-image files
// are skipped with a warning. Directory arguments expand to their immediate
// image files in listing order; subdirectories are deliberately not recursed
// into. A path that cannot be stat'ed becomes an already-failed entry so the
// batch reports it in order and continues.
func expandImagePaths(paths []string) []batchEntry {
	var entries []batchEntry
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			entries = append(entries, batchEntry{
				path: path,
				err:  fmt.Errorf("cannot access path: %w", err),
			})
			continue
		}

		if !info.IsDir() {
			if mimeTypeForPath(path) == "" {
				logger.Warn("Skipping file: not a recognized image type",
					"path", path)
				continue
			}
			entries = append(entries, batchEntry{path: path, size: info.Size()})
			continue
		}

		// os.ReadDir returns entries sorted by name, which keeps the
		// report order reproducible for a given directory state.
		dirEntries, err := os.ReadDir(path)
		if err != nil {
			entries = append(entries, batchEntry{
				path: path,
				err:  fmt.Errorf("cannot list directory: %w", err),
			})
			continue
		}
		for _, dirEntry := range dirEntries {
			if dirEntry.IsDir() {
				continue
			}
			entryPath := filepath.Join(path, dirEntry.Name())
			if mimeTypeForPath(entryPath) == "" {
				continue
			}
			entryInfo, err := dirEntry.Info()
			if err != nil {
				entries = append(entries, batchEntry{
					path: entryPath,
					err:  fmt.Errorf("cannot stat file: %w", err),
				})
				continue
			}
			entries = append(entries, batchEntry{path: entryPath, size: entryInfo.Size()})
		}
	}
	return entries
}
