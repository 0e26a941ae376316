package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds the application configuration
type Config struct {
	API        APIConfig        `json:"api"`
	Session    SessionConfig    `json:"session"`
	Reconcile  ReconcileConfig  `json:"reconcile"`
	Monitoring MonitoringConfig `json:"monitoring"`
}

// APIConfig holds settings for the JobPing backend connection
type APIConfig struct {
	// BaseURL is the backend base address; paths like /api/jobs are appended.
	BaseURL string `json:"base_url"`
	// RequestTimeout of zero means no client-side timeout. A hung request
	// then keeps its in-flight flag set until the transport gives up.
	RequestTimeout time.Duration `json:"request_timeout"`
}

// SessionConfig holds settings for credential persistence
type SessionConfig struct {
	// TokenFile is the durable slot for the bearer token. Empty selects
	// the per-user default under os.UserConfigDir.
	TokenFile string `json:"token_file"`
}

// ReconcileConfig holds settings for the scan-then-reload workflow
type ReconcileConfig struct {
	// ReloadDelay is how long to wait after a fetch trigger before
	// reloading the job list. The fetch endpoint only enqueues work.
	ReloadDelay time.Duration `json:"reload_delay"`
	// JobLimit bounds job list reloads.
	JobLimit int `json:"job_limit"`
	// WatchInterval is the reload period for the watch daemon.
	WatchInterval time.Duration `json:"watch_interval"`
	// FetchOnWatch makes the watch daemon trigger a fetch each interval.
	FetchOnWatch bool `json:"fetch_on_watch"`
}

// MonitoringConfig holds logging configuration
type MonitoringConfig struct {
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8080",
			RequestTimeout: 0,
		},
		Session: SessionConfig{
			TokenFile: "",
		},
		Reconcile: ReconcileConfig{
			ReloadDelay:   3 * time.Second,
			JobLimit:      20,
			WatchInterval: 15 * time.Minute,
			FetchOnWatch:  false,
		},
		Monitoring: MonitoringConfig{
			LogLevel: "warn",
			LogFile:  "",
		},
	}
}

// LoadConfig loads configuration from a JSON file, then applies environment
// overrides. A missing file is not an error; defaults are used.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(filename); err == nil {
		file, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer file.Close()

		decoder := json.NewDecoder(file)
		if err := decoder.Decode(config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	config.applyEnv()
	return config, nil
}

// applyEnv overrides file values with environment variables when set.
func (c *Config) applyEnv() {
	if v := os.Getenv("JOBPING_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("JOBPING_TOKEN_FILE"); v != "" {
		c.Session.TokenFile = v
	}
	if v := os.Getenv("JOBPING_LOG_LEVEL"); v != "" {
		c.Monitoring.LogLevel = v
	}
	if v := os.Getenv("JOBPING_RELOAD_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Reconcile.ReloadDelay = d
		}
	}
	if v := os.Getenv("JOBPING_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.API.RequestTimeout = d
		}
	}
}

// TokenFile resolves the durable token slot, falling back to the per-user
// config directory when none is configured.
func (c *Config) TokenFile() (string, error) {
	if c.Session.TokenFile != "" {
		return c.Session.TokenFile, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "jobping", "token"), nil
}

// SaveConfig saves configuration to a JSON file
func (c *Config) SaveConfig(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}

	if c.API.RequestTimeout < 0 {
		return fmt.Errorf("request timeout cannot be negative")
	}

	if c.Reconcile.ReloadDelay < 0 {
		return fmt.Errorf("reload delay cannot be negative")
	}

	if c.Reconcile.JobLimit <= 0 {
		return fmt.Errorf("job limit must be positive")
	}

	if c.Reconcile.WatchInterval <= 0 {
		return fmt.Errorf("watch interval must be positive")
	}

	return nil
}
