package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Primary catalog source
	TMDBAPIKey  string
	TMDBBaseURL string

	// Secondary ratings source
	OMDBAPIKey            string
	OMDBBaseURL           string
	OMDBRequestsPerSecond float64
	OMDBBurst             int

	// Image cache bounds
	ImageCacheEntries int
	ImageCacheBytes   int

	// SuspectEpisodeThreshold is the per-season episode count at which a
	// season's data is flagged as truncated. The ratings source caps each
	// season response at a fixed page size, so a season reporting exactly
	// that many episodes is more likely cut off than genuinely that long.
	SuspectEpisodeThreshold int

	// Server
	ServerPort string

	// Paths
	DatabaseFile string // $CONFIG_DIR/gocinarr.db

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	viper.SetDefault("OMDB_BASE_URL", "https://www.omdbapi.com")
	viper.SetDefault("OMDB_REQUESTS_PER_SECOND", 5)
	viper.SetDefault("OMDB_BURST", 5)
	viper.SetDefault("IMAGE_CACHE_ENTRIES", 256)
	viper.SetDefault("IMAGE_CACHE_MB", 64)
	viper.SetDefault("SUSPECT_EPISODE_THRESHOLD", 100)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "gocinarr")
	} else {
		// Convert relative path to absolute path
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		TMDBAPIKey:  viper.GetString("TMDB_API_KEY"),
		TMDBBaseURL: viper.GetString("TMDB_BASE_URL"),

		OMDBAPIKey:            viper.GetString("OMDB_API_KEY"),
		OMDBBaseURL:           viper.GetString("OMDB_BASE_URL"),
		OMDBRequestsPerSecond: viper.GetFloat64("OMDB_REQUESTS_PER_SECOND"),
		OMDBBurst:             viper.GetInt("OMDB_BURST"),

		ImageCacheEntries: viper.GetInt("IMAGE_CACHE_ENTRIES"),
		ImageCacheBytes:   viper.GetInt("IMAGE_CACHE_MB") * 1024 * 1024,

		SuspectEpisodeThreshold: viper.GetInt("SUSPECT_EPISODE_THRESHOLD"),

		ServerPort: viper.GetString("SERVER_PORT"),

		DatabaseFile: filepath.Join(configDir, "gocinarr.db"),

		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	// Validate required fields
	if config.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is required")
	}
	if config.OMDBAPIKey == "" {
		return nil, fmt.Errorf("OMDB_API_KEY is required")
	}

	return config, nil
}
