// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults used when neither flags, environment nor the config file set a value.
const (
	DefaultBaseURL           = "https://talent-match-ai.onrender.com/api"
	DefaultTimeoutSeconds    = 60
	DefaultToggleConcurrency = 4
)

// Environment variables read by FromEnv.
const (
	EnvBaseURL     = "TALENT_API_URL"
	EnvToken       = "TALENT_TOKEN"
	EnvTimeout     = "TALENT_TIMEOUT_SECONDS"
	EnvDatabaseURL = "DATABASE_URL"
	EnvInboxDir    = "TALENT_INBOX_DIR"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Backend
	BaseURL        string `json:"base_url,omitempty"`        // API root, without trailing slash
	Token          string `json:"token,omitempty"`           // Bearer token attached to every request
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"` // Per-request timeout

	// Behavior
	ToggleConcurrency int  `json:"toggle_concurrency,omitempty"` // Parallel shortlist requests per commit
	PruneSelection    bool `json:"prune_selection,omitempty"`    // Drop hidden ids from the selection on filter change
	Verbose           bool `json:"verbose,omitempty"`            // Print detailed debug information

	// Optional integrations
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL for the journal
	InboxDir    string `json:"inbox_dir,omitempty"`    // Folder watched for new resumes
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from the process environment.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

// FromEnvFile builds a Config from a dotenv file without touching the
// process environment.
func FromEnvFile(path string) (Config, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return fromLookup(func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	})
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := Config{
		BaseURL:     get(EnvBaseURL),
		Token:       get(EnvToken),
		DatabaseURL: get(EnvDatabaseURL),
		InboxDir:    get(EnvInboxDir),
	}
	if raw := get(EnvTimeout); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %v", EnvTimeout, err)
		}
		cfg.TimeoutSeconds = seconds
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("config error: 'base_url' must be an absolute http(s) URL, got %q", c.BaseURL)
		}
	}

	// Validate numeric ranges
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}
	if c.ToggleConcurrency < 0 {
		return fmt.Errorf("config error: 'toggle_concurrency' must be non-negative")
	}

	// Validate directories exist (if specified)
	if c.InboxDir != "" {
		info, err := os.Stat(c.InboxDir)
		if os.IsNotExist(err) {
			return fmt.Errorf("config error: inbox directory not found: %s", c.InboxDir)
		}
		if err == nil && !info.IsDir() {
			return fmt.Errorf("config error: inbox path is not a directory: %s", c.InboxDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer flags over environment over the config file.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.Token == "" {
		result.Token = defaults.Token
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.InboxDir == "" {
		result.InboxDir = defaults.InboxDir
	}

	// Int fields: use default if zero
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.ToggleConcurrency == 0 {
		result.ToggleConcurrency = defaults.ToggleConcurrency
	}

	// Bool fields: true anywhere wins
	result.PruneSelection = result.PruneSelection || defaults.PruneSelection
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// Defaults returns the built-in values.
func Defaults() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		TimeoutSeconds:    DefaultTimeoutSeconds,
		ToggleConcurrency: DefaultToggleConcurrency,
	}
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
