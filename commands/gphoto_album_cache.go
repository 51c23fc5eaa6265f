package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const albumCacheFileName = "google_photos_album_cache.json"

// albumCache stores the mapping from album titles to album IDs. Albums
// created under the app-only scopes cannot be found by title later, so the
// cache is the only way repeated runs with the same default album title keep
// appending to one album instead of creating duplicates.
type albumCache struct {
	Albums map[string]string `json:"albums"` // Title -> ID
	mu     sync.RWMutex
	path   string
}

// getAlbumCachePath constructs the path to the album cache file based on the
// config directory.
func getAlbumCachePath(configDir string) (string, error) {
	if configDir == "." || configDir == "" {
		return "", fmt.Errorf("config directory path is empty or invalid")
	}
	return filepath.Join(configDir, albumCacheFileName), nil
}

// loadAlbumCache loads the album cache from disk.
func loadAlbumCache(path string) (*albumCache, error) {
	cache := &albumCache{
		Albums: make(map[string]string),
		path:   path,
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil // Return empty cache if file doesn't exist
		}
		return nil, fmt.Errorf("failed to open album cache file %s: %w", path, err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&cache); err != nil {
		// If decoding fails, log it and return an empty cache.
		logger.Warn("Failed to decode album cache file, cache will be rebuilt",
			"path", path,
			"error", err.Error())
		cache.Albums = make(map[string]string)
	}
	return cache, nil
}

// save saves the album cache to disk.
func (c *albumCache) save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, err := os.OpenFile(c.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open album cache file %s for writing: %w", c.path, err)
	}
	defer f.Close()
	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ") // Pretty print
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode album cache to %s: %w", c.path, err)
	}
	return nil
}

// get returns the cached ID for a title, if any.
func (c *albumCache) get(title string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.Albums[title]
	return id, ok
}

// put records a title -> ID mapping and persists the cache. A failed save is
// logged but not fatal; the next run will simply create a fresh album.
func (c *albumCache) put(title, id string) {
	c.mu.Lock()
	c.Albums[title] = id
	c.mu.Unlock()

	if err := c.save(); err != nil {
		logger.Warn("Failed to save album cache",
			"path", c.path,
			"error", err.Error())
	}
}
