package photoupconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const appDirName = "photoup"

// GooglePhotosConfig defines the configuration specific to Google Photos.
type GooglePhotosConfig struct {
	// CredentialsFile overrides the default location of the OAuth client
	// secrets JSON (<config dir>/photoup/credentials.json).
	CredentialsFile string `mapstructure:"credentials_file"`

	// DefaultAlbum is an album title used when neither --album nor
	// --album-id is given. It is resolved through the local album cache and
	// created on first use.
	DefaultAlbum string `mapstructure:"default_album"`
}

// UploadConfig defines request pacing for the Google Photos API.
type UploadConfig struct {
	RequestsPerSecond int `mapstructure:"requests_per_second"`
	Burst             int `mapstructure:"burst"`
}

// PhotoupConfig defines the configuration for Photoup.
type PhotoupConfig struct {
	GooglePhotos GooglePhotosConfig `mapstructure:"google_photos"`
	Upload       UploadConfig       `mapstructure:"upload"`

	path string `mapstructure:"-"`
}

// ConfigPath returns the path the config was loaded from (or would have been
// loaded from, when no file exists and defaults were used).
func (c *PhotoupConfig) ConfigPath() string {
	return c.path
}

// ConfigDir returns the directory holding the config, token cache, album
// cache, and credentials files.
func (c *PhotoupConfig) ConfigDir() string {
	return filepath.Dir(c.path)
}

func (c *PhotoupConfig) Validate() error {
	if c.Upload.RequestsPerSecond <= 0 {
		return fmt.Errorf("upload.requests_per_second must be positive (%s)", c.path)
	}
	if c.Upload.Burst <= 0 {
		return fmt.Errorf("upload.burst must be positive (%s)", c.path)
	}
	return nil
}

func defaults() PhotoupConfig {
	return PhotoupConfig{
		Upload: UploadConfig{
			RequestsPerSecond: 5,
			Burst:             10,
		},
	}
}

// getConfigPath determines where to read the config file from.
func getConfigPath(configPathFlag string) (string, error) {
	// Prefer user-specified config file path.
	if configPathFlag != "" {
		return configPathFlag, nil
	}

	// Fall back to user config dir.
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appDirName, "config.toml"), nil
	}

	// Fall back to home directory.
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, "."+appDirName, "config.toml"), nil
	}
	return "", fmt.Errorf("unable to determine config file path")
}

// LoadConfig reads the config file. A missing file is not an error: the tool
// only needs the OAuth credentials file to run, so absent config means
// defaults. A file that exists but cannot be parsed is an error.
func LoadConfig(configPathFlag string) (PhotoupConfig, error) {
	path, err := getConfigPath(configPathFlag)
	if err != nil {
		return PhotoupConfig{}, err
	}

	config := defaults()
	config.path = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if configPathFlag != "" {
			return PhotoupConfig{}, fmt.Errorf("config file not found (%s)", path)
		}
		return config, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetDefault("upload.requests_per_second", config.Upload.RequestsPerSecond)
	v.SetDefault("upload.burst", config.Upload.Burst)

	if err := v.ReadInConfig(); err != nil {
		return PhotoupConfig{}, fmt.Errorf("error reading (%s): %w", path, err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return PhotoupConfig{}, fmt.Errorf("error unmarshaling (%s): %w", path, err)
	}
	config.path = path

	return config, nil
}
