package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ccfrost/photoup/photoupconfig"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// --- OAuth2 & Session Setup ---

const (
	credentialsFileName = "credentials.json"
	tokenFileName       = "google_photos_token.json"
)

// Append-only upload plus read/edit of app-created data. The narrow scopes
// are why album titles cannot be searched: the session only sees albums this
// app created.
var googlePhotosScopes = []string{
	"https://www.googleapis.com/auth/photoslibrary.appendonly",
	"https://www.googleapis.com/auth/photoslibrary.readonly.appcreateddata",
	"https://www.googleapis.com/auth/photoslibrary.edit.appcreateddata",
}

// Session owns the OAuth2 state for one run: the client credentials, the
// current access/refresh token, and the token cache file. All refreshes go
// through one mutex so only a single refresh is ever in flight.
type Session struct {
	mu        sync.Mutex
	conf      *oauth2.Config
	token     *oauth2.Token
	tokenPath string
}

// NewSession loads the OAuth client credentials and cached token, running the
// interactive authorization flow when no usable token exists. It handles
// token loading, refreshing, and saving for the rest of the run.
func NewSession(ctx context.Context, config photoupconfig.PhotoupConfig) (*Session, error) {
	credPath := config.GooglePhotos.CredentialsFile
	if credPath == "" {
		credPath = filepath.Join(config.ConfigDir(), credentialsFileName)
	}

	b, err := os.ReadFile(credPath)
	if err != nil {
		if os.IsNotExist(err) {
			printCredentialsSetupHelp(credPath)
			return nil, fmt.Errorf("credentials file not found at %s", credPath)
		}
		return nil, fmt.Errorf("failed to read credentials file %s: %w", credPath, err)
	}
	conf, err := google.ConfigFromJSON(b, googlePhotosScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", credPath, err)
	}

	tokenPath := filepath.Join(config.ConfigDir(), tokenFileName)
	token, err := loadToken(tokenPath)
	if err != nil && !os.IsNotExist(err) {
		logger.Warn("Error reading token file, requesting new token",
			"path", tokenPath,
			"error", err.Error())
	}

	if token == nil || (!token.Valid() && token.RefreshToken == "") {
		fmt.Println("OAuth token is invalid or missing, starting auth flow...")
		token, err = getTokenFromWeb(ctx, conf)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenPath, token); err != nil {
			// Log error but continue, the token is still usable in memory.
			logger.Warn("Failed to save token",
				"path", tokenPath,
				"error", err.Error())
		} else {
			fmt.Printf("Token obtained and saved successfully to %s\n", tokenPath)
		}
	}

	return &Session{conf: conf, token: token, tokenPath: tokenPath}, nil
}

// AccessToken returns a valid access token, refreshing the cached one first
// if it has expired.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token.Valid() {
		return s.token.AccessToken, nil
	}
	if err := s.refreshLocked(ctx, s.token); err != nil {
		return "", err
	}
	return s.token.AccessToken, nil
}

// ForceRefresh obtains a fresh access token even when the cached one still
// looks valid locally. Used after the server rejects a token mid-batch.
func (s *Session) ForceRefresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Drop the access token so the token source must hit the refresh
	// endpoint regardless of the local expiry.
	stale := *s.token
	stale.AccessToken = ""
	return s.refreshLocked(ctx, &stale)
}

func (s *Session) refreshLocked(ctx context.Context, from *oauth2.Token) error {
	newToken, err := s.conf.TokenSource(ctx, from).Token()
	if err != nil {
		return fmt.Errorf("failed to refresh oauth token: %w", err)
	}
	s.token = newToken
	if err := saveToken(s.tokenPath, newToken); err != nil {
		logger.Warn("Failed to save refreshed token",
			"path", s.tokenPath,
			"error", err.Error())
	}
	return nil
}

// loadToken reads a cached OAuth2 token from the given file path.
func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, err
	}
	return token, nil
}

// saveToken saves the OAuth2 token to the specified file path.
func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// getTokenFromWeb guides the user through the web-based OAuth2 flow.
func getTokenFromWeb(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	authURL := conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the "+
		"authorization code: \n%v\n", authURL)

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return nil, fmt.Errorf("unable to read authorization code: %w", err)
	}

	tok, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}

// printCredentialsSetupHelp tells the user how to provision an OAuth client.
func printCredentialsSetupHelp(credPath string) {
	fmt.Println("Google Photos API credentials not found.")
	fmt.Println()
	fmt.Println("To set up credentials:")
	fmt.Println("1. Go to https://console.cloud.google.com/")
	fmt.Println("2. Create a new project or select an existing one")
	fmt.Println("3. Enable the Photos Library API")
	fmt.Println("4. Go to 'Credentials' > 'Create Credentials' > 'OAuth client ID'")
	fmt.Println("5. Select 'Desktop application'")
	fmt.Println("6. Download the JSON file")
	fmt.Printf("7. Save it as: %s\n", credPath)
}
