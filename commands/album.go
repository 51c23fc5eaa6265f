package commands

import (
	"context"
	"fmt"
)

type albumTargetKind int

const (
	// albumTargetNone uploads to the library with no album association.
	albumTargetNone albumTargetKind = iota
	// albumTargetCreate creates a new album and uploads into it.
	albumTargetCreate
	// albumTargetExisting uploads into an album by its remote ID.
	albumTargetExisting
	// albumTargetDefault resolves a configured album title through the
	// local cache, creating the album on first use.
	albumTargetDefault
)

// AlbumTarget says which album a run uploads into. It is a tagged variant so
// the name-vs-ID precedence is settled at construction time, not re-decided
// per call site.
type AlbumTarget struct {
	kind albumTargetKind
	name string
	id   string
}

// NewAlbumTarget builds the target from the CLI flags and the configured
// default album title. When both --album-id and --album are given the
// explicit ID wins: it names a concrete remote object, while the name is only
// a creation request. Precedence: --album-id > --album > configured default >
// library-only.
func NewAlbumTarget(createName, existingID, defaultName string) AlbumTarget {
	switch {
	case existingID != "":
		return AlbumTarget{kind: albumTargetExisting, id: existingID}
	case createName != "":
		return AlbumTarget{kind: albumTargetCreate, name: createName}
	case defaultName != "":
		return AlbumTarget{kind: albumTargetDefault, name: defaultName}
	default:
		return AlbumTarget{kind: albumTargetNone}
	}
}

// IsLibraryOnly reports whether uploads will have no album association.
func (t AlbumTarget) IsLibraryOnly() bool {
	return t.kind == albumTargetNone
}

// resolve turns the target into a concrete album ID, calling the API at most
// once. It runs once per batch, before any file is processed; a creation
// failure here aborts the run. An existing ID is deliberately not validated:
// a bad ID surfaces on the first commit call, and checking it up front would
// cost an extra round trip for the same failure.
func (t AlbumTarget) resolve(ctx context.Context, client PhotosService, cache *albumCache) (string, error) {
	switch t.kind {
	case albumTargetNone:
		return "", nil

	case albumTargetExisting:
		return t.id, nil

	case albumTargetCreate:
		album, err := client.CreateAlbum(ctx, t.name)
		if err != nil {
			return "", fmt.Errorf("failed to create album %q: %w", t.name, err)
		}
		// The ID is the only durable handle: the app-only scopes cannot
		// find this album by title in a later run.
		fmt.Printf("Created album %q with ID: %s\n", t.name, album.ID)
		fmt.Printf("Save this ID to add more photos later: --album-id %s\n", album.ID)
		cache.put(t.name, album.ID)
		return album.ID, nil

	case albumTargetDefault:
		if id, ok := cache.get(t.name); ok {
			logger.Debug("Resolved default album from cache",
				"title", t.name,
				"album_id", id)
			return id, nil
		}
		album, err := client.CreateAlbum(ctx, t.name)
		if err != nil {
			return "", fmt.Errorf("failed to create default album %q: %w", t.name, err)
		}
		logger.Info("Created default album",
			"title", t.name,
			"album_id", album.ID)
		cache.put(t.name, album.ID)
		return album.ID, nil

	default:
		return "", fmt.Errorf("unknown album target kind %d", t.kind)
	}
}
