package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	PlaylistURL         string `yaml:"playlist_url"`
	AlbumArtSize        string `yaml:"album_art_size"`
	MastodonServer      string `yaml:"mastodon_server"`
	MastodonAccessToken string `yaml:"mastodon_access_token"`
	PollIntervalSecs    int    `yaml:"poll_interval_secs"`
	PollsPerMinute      int    `yaml:"polls_per_minute"`
	AlwaysTag           string `yaml:"always_tag"`
	DBPath              string `yaml:"db_path"`
	StatePath           string `yaml:"state_path"`
	FetchTimeoutSec     int    `yaml:"fetch_timeout_secs"`
	APIAddr             string `yaml:"api_addr"`
	LogLevel            string `yaml:"log_level"`
}

// Defaults returns a Config with all default values set.
func Defaults() Config {
	return Config{
		AlbumArtSize:     "500x500",
		PollIntervalSecs: 60,
		DBPath:           "./playlist.db",
		StatePath:        "./state",
		FetchTimeoutSec:  10,
		APIAddr:          ":5000",
		LogLevel:         "info",
	}
}

// Load reads a YAML config file and returns a validated Config.
// A .env file, if present, is loaded first. Environment variables
// PLAYLIST_BOT_CONFIG, PLAYLIST_BOT_DB and MASTODON_ACCESS_TOKEN override
// the config path, db path and access token respectively.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	if envPath := os.Getenv("PLAYLIST_BOT_CONFIG"); envPath != "" {
		path = envPath
	}

	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}

	if envDB := os.Getenv("PLAYLIST_BOT_DB"); envDB != "" {
		cfg.DBPath = envDB
	}
	if envToken := os.Getenv("MASTODON_ACCESS_TOKEN"); envToken != "" {
		cfg.MastodonAccessToken = envToken
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that required fields are present and values are valid.
func (c *Config) Validate() error {
	if c.PlaylistURL == "" {
		return fmt.Errorf("playlist_url is required")
	}
	if c.MastodonServer == "" {
		return fmt.Errorf("mastodon_server is required")
	}
	if c.MastodonAccessToken == "" {
		return fmt.Errorf("mastodon_access_token is required")
	}

	if c.PollsPerMinute < 0 || c.PollsPerMinute > 60 {
		return fmt.Errorf("polls_per_minute must be 0-60, got %d", c.PollsPerMinute)
	}
	if c.PollsPerMinute == 0 && c.PollIntervalSecs <= 0 {
		return fmt.Errorf("poll_interval_secs must be positive, got %d", c.PollIntervalSecs)
	}
	if c.FetchTimeoutSec <= 0 {
		return fmt.Errorf("fetch_timeout_secs must be positive, got %d", c.FetchTimeoutSec)
	}

	return nil
}

// PollInterval returns the effective spacing between poll cycles.
// polls_per_minute, when set, wins over poll_interval_secs and runs N evenly
// spaced checks per minute.
func (c *Config) PollInterval() time.Duration {
	if c.PollsPerMinute > 0 {
		return time.Minute / time.Duration(c.PollsPerMinute)
	}
	return time.Duration(c.PollIntervalSecs) * time.Second
}

// FetchTimeout returns the HTTP timeout for page and artwork fetches.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}
