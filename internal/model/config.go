package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the complete tool configuration.
// Values are resolved by the CLI layer from flags, FOURTU_* environment
// variables, and the optional config file, in that order.
type Config struct {
	API    APIConfig    `yaml:"api" mapstructure:"api"`
	Fetch  FetchConfig  `yaml:"fetch" mapstructure:"fetch"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Digest DigestConfig `yaml:"digest" mapstructure:"digest"`
}

// APIConfig configures the upstream repository client.
type APIConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Token enables authenticated access. Empty means public access.
	Token             string        `yaml:"token" mapstructure:"token"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// FetchConfig configures the paginated article fetch.
type FetchConfig struct {
	PublishedSince string `yaml:"published_since" mapstructure:"published_since"`
	PageSize       int    `yaml:"page_size" mapstructure:"page_size"`
	MaxPages       int    `yaml:"max_pages" mapstructure:"max_pages"`
	// Strict surfaces mid-pagination request failures instead of
	// returning the pages fetched so far.
	Strict bool `yaml:"strict" mapstructure:"strict"`
}

// CacheConfig configures the on-disk response cache.
type CacheConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
}

// DigestConfig configures the optional LLM digest of fetch results.
type DigestConfig struct {
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// MarshalYAML renders the timeout as a duration string ("30s") instead
// of raw nanoseconds, so a written config file round-trips through the
// loader.
func (c APIConfig) MarshalYAML() (any, error) {
	type apiConfigYAML struct {
		BaseURL           string  `yaml:"base_url"`
		Token             string  `yaml:"token"`
		Timeout           string  `yaml:"timeout"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	}
	return apiConfigYAML{
		BaseURL:           c.BaseURL,
		Token:             c.Token,
		Timeout:           c.Timeout.String(),
		RequestsPerSecond: c.RequestsPerSecond,
	}, nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "https://data.4tu.nl",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 2,
		},
		Fetch: FetchConfig{
			PublishedSince: "2025-01-01",
			PageSize:       100,
			MaxPages:       3,
		},
		Cache: CacheConfig{
			Dir:     defaultCacheDir(),
			Enabled: true,
		},
		Digest: DigestConfig{
			Model:     "gpt-4o-mini",
			MaxTokens: 500,
		},
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("data", "cache")
	}
	return filepath.Join(home, ".fourtumon", "cache")
}
