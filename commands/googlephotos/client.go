// Package googlephotos is a minimal Google Photos Library API client covering
// the three calls photoup needs: raw byte upload, media item creation, and
// album creation.
package googlephotos

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultBaseURL = "https://photoslibrary.googleapis.com/v1"

var (
	// ErrAuthExpired reports that the access token was rejected and a
	// refresh-and-retry did not recover.
	ErrAuthExpired = errors.New("authorization expired")

	// ErrEmptyUploadToken reports a 200 upload response with no token body.
	ErrEmptyUploadToken = errors.New("received empty upload token")
)

// APIError is a non-auth rejection from the Photos API. Body carries the
// remote response verbatim so the caller can report the exact reason.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s failed with status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// TokenProvider supplies bearer tokens for API calls. ForceRefresh discards
// the current access token and obtains a fresh one; it is called at most once
// per API call, when the server rejects the token mid-batch.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
	ForceRefresh(ctx context.Context) error
}

// Album represents a Google Photos album.
type Album struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ProductURL string `json:"productUrl"`
}

// MediaItem represents a Google Photos media item.
type MediaItem struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	ProductURL  string `json:"productUrl"`
}

// NewMediaItem describes one media item to commit from an upload token.
// Description and AlbumID are optional; when AlbumID is set the item is linked
// to the album in the same call.
type NewMediaItem struct {
	UploadToken string
	FileName    string
	Description string
	AlbumID     string
}

// Client handles interaction with the Google Photos API.
type Client struct {
	httpClient *http.Client
	tokens     TokenProvider
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Google Photos API client. The TokenProvider owns the
// OAuth session; the client itself sends plain HTTP with bearer tokens so it
// can detect auth rejections and retry once after a refresh.
func NewClient(tokens TokenProvider, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		tokens:     tokens,
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do builds and sends a request via build, which is re-invoked on retry so
// request bodies are re-readable. On a 401 the token is refreshed once and the
// request retried; a second 401 maps to ErrAuthExpired.
func (c *Client) do(ctx context.Context, operation string, build func() (*http.Request, error)) (*http.Response, error) {
	refreshed := false
	for {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to get access token: %w", operation, err)
		}

		req, err := build()
		if err != nil {
			return nil, fmt.Errorf("%s: failed to build request: %w", operation, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", operation, err)
		}

		if resp.StatusCode != http.StatusUnauthorized {
			return resp, nil
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if refreshed {
			return nil, fmt.Errorf("%s rejected after token refresh (%s): %w", operation, strings.TrimSpace(string(body)), ErrAuthExpired)
		}
		refreshed = true
		if err := c.tokens.ForceRefresh(ctx); err != nil {
			return nil, fmt.Errorf("%s: token refresh failed: %w", operation, err)
		}
	}
}

// Upload streams the raw bytes of the file at path to the upload endpoint and
// returns the opaque upload token for the commit phase.
func (c *Client) Upload(ctx context.Context, path, mimeType string) (string, error) {
	const operation = "upload bytes"

	resp, err := c.do(ctx, operation, func() (*http.Request, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/uploads", f)
		if err != nil {
			f.Close()
			return nil, err
		}
		req.ContentLength = info.Size()
		req.Header.Set("Content-type", "application/octet-stream")
		req.Header.Set("X-Goog-Upload-Protocol", "raw")
		req.Header.Set("X-Goog-Upload-File-Name", filepath.Base(path))
		req.Header.Set("X-Goog-Upload-Content-Type", mimeType)
		req.Header.Set("X-Goog-Upload-Raw-Size", strconv.FormatInt(info.Size(), 10))
		return req, nil
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: failed to read response: %w", operation, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Operation: operation, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	uploadToken := strings.TrimSpace(string(body))
	if uploadToken == "" {
		return "", ErrEmptyUploadToken
	}
	return uploadToken, nil
}

// CreateMediaItem commits an upload token as a media item, attaching the
// description and linking it to the album when those are set. The API accepts
// batches of tokens; photoup submits one item per call.
func (c *Client) CreateMediaItem(ctx context.Context, item NewMediaItem) (*MediaItem, error) {
	const operation = "create media item"

	newItem := map[string]interface{}{
		"simpleMediaItem": map[string]string{
			"uploadToken": item.UploadToken,
			"fileName":    item.FileName,
		},
	}
	if item.Description != "" {
		newItem["description"] = item.Description
	}
	reqBody := map[string]interface{}{
		"newMediaItems": []map[string]interface{}{newItem},
	}
	if item.AlbumID != "" {
		reqBody["albumId"] = item.AlbumID
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to marshal request: %w", operation, err)
	}

	resp, err := c.do(ctx, operation, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, "POST",
			c.baseURL+"/mediaItems:batchCreate",
			bytes.NewReader(reqBytes))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{Operation: operation, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var result struct {
		NewMediaItemResults []struct {
			MediaItem MediaItem `json:"mediaItem"`
			Status    struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"status"`
		} `json:"newMediaItemResults"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%s: failed to decode response: %w", operation, err)
	}
	if len(result.NewMediaItemResults) == 0 {
		return nil, fmt.Errorf("%s: no media items created", operation)
	}

	first := result.NewMediaItemResults[0]
	if first.MediaItem.ID == "" {
		// Per-item failure despite the 200: report the status verbatim.
		return nil, &APIError{Operation: operation, StatusCode: resp.StatusCode, Body: first.Status.Message}
	}
	return &first.MediaItem, nil
}

// CreateAlbum creates a new album and returns it. The returned ID is the only
// durable handle: the append-only scopes cannot look albums up by title later.
func (c *Client) CreateAlbum(ctx context.Context, title string) (*Album, error) {
	const operation = "create album"

	reqBytes, err := json.Marshal(map[string]interface{}{
		"album": map[string]string{"title": title},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to marshal request: %w", operation, err)
	}

	resp, err := c.do(ctx, operation, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, "POST",
			c.baseURL+"/albums",
			bytes.NewReader(reqBytes))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{Operation: operation, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var album Album
	if err := json.NewDecoder(resp.Body).Decode(&album); err != nil {
		return nil, fmt.Errorf("%s: failed to decode response: %w", operation, err)
	}
	if album.ID == "" {
		return nil, fmt.Errorf("%s: response carried no album id", operation)
	}
	return &album, nil
}
