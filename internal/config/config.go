// Package config loads news-search settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderSerpAPI    = "serpapi"
	ProviderGoogleNews = "googlenews"

	DefaultCount      = 10
	DefaultOutputPath = "news.txt"
	DefaultMaxPages   = 6
	DefaultSleepMs    = 100

	APIKeyEnv   = "SERPAPI_KEY"
	ProviderEnv = "NEWS_SEARCH_PROVIDER"
	LogLevelEnv = "NEWS_SEARCH_LOG_LEVEL"
)

// Configuration validation errors.
var (
	ErrUnknownProvider = errors.New("search.provider must be 'serpapi' or 'googlenews'")
	ErrInvalidTimeout  = errors.New("search.timeout_sec must be at least 1")
	ErrInvalidMaxPages = errors.New("search.max_pages must be at least 1")
	ErrInvalidSleep    = errors.New("search.sleep_between_ms must be non-negative")
	ErrInvalidCount    = errors.New("search.default_count must be at least 1")
	ErrMissingOutput   = errors.New("output.path is required")
	ErrInvalidLogLevel = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrMissingAPIKey   = errors.New("SERPAPI_KEY is not set")
)

type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Output  OutputConfig  `yaml:"output"`
	Sheets  SheetsConfig  `yaml:"sheets"`
	Logging LoggingConfig `yaml:"logging"`

	// APIKey comes from the environment only and is never written back.
	APIKey string `yaml:"-"`
}

type SearchConfig struct {
	Provider       string `yaml:"provider"`
	APIURL         string `yaml:"api_url"`
	Engine         string `yaml:"engine"`
	Language       string `yaml:"language"`
	Region         string `yaml:"region"`
	TimeoutSec     int    `yaml:"timeout_sec"`
	MaxPages       int    `yaml:"max_pages"`
	SleepBetweenMs int    `yaml:"sleep_between_ms"`
	DefaultCount   int    `yaml:"default_count"`
}

type OutputConfig struct {
	Path     string `yaml:"path"`
	JSONPath string `yaml:"json_path"`
	Preview  bool   `yaml:"preview"`
}

type SheetsConfig struct {
	Enabled         bool   `yaml:"enabled"`
	CredentialsFile string `yaml:"credentials_file"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	FolderID        string `yaml:"folder_id"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		Search: SearchConfig{
			Provider:       ProviderSerpAPI,
			Engine:         "google",
			Language:       "en-US",
			Region:         "US",
			TimeoutSec:     15,
			MaxPages:       DefaultMaxPages,
			SleepBetweenMs: DefaultSleepMs,
			DefaultCount:   DefaultCount,
		},
		Output: OutputConfig{
			Path: DefaultOutputPath,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error
// when optional is true.
func LoadConfig(path string, optional bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case optional && errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads each existing .env file into the process environment
// without overriding variables that are already set.
func LoadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

// ApplyEnv overlays environment variables on the file settings.
func (c *Config) ApplyEnv() {
	c.APIKey = strings.TrimSpace(os.Getenv(APIKeyEnv))

	if v := os.Getenv(ProviderEnv); v != "" {
		c.Search.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv(LogLevelEnv); v != "" {
		c.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}
}

// SaveConfig writes the configuration as YAML.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) Validate() error {
	switch c.Search.Provider {
	case ProviderSerpAPI, ProviderGoogleNews:
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownProvider, c.Search.Provider)
	}

	if c.Search.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Search.MaxPages < 1 {
		return ErrInvalidMaxPages
	}

	if c.Search.SleepBetweenMs < 0 {
		return ErrInvalidSleep
	}

	if c.Search.DefaultCount < 1 {
		return ErrInvalidCount
	}

	if c.Output.Path == "" {
		return ErrMissingOutput
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// NeedsAPIKey reports whether the selected provider requires a credential.
func (c *Config) NeedsAPIKey() bool {
	return c.Search.Provider == ProviderSerpAPI
}

// RequireAPIKey fails when the provider needs a key and none is set.
func (c *Config) RequireAPIKey() error {
	if c.NeedsAPIKey() && c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Search.TimeoutSec) * time.Second
}

func (c *Config) SleepBetween() time.Duration {
	return time.Duration(c.Search.SleepBetweenMs) * time.Millisecond
}

// PageSize follows the count: at least 10 per page, at most 50.
func PageSize(count int) int {
	return min(50, max(10, count))
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Provider: %s, MaxPages: %d, Output: %s}",
		c.Search.Provider,
		c.Search.MaxPages,
		c.Output.Path,
	)
}
