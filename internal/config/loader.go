package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"poultrydx/internal/webhook"
)

// Config holds runtime parameters for the checker.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	WebhookURL         string   `json:"webhook_url" yaml:"webhook_url" toml:"webhook_url"`
	WebhookPathMarker  string   `json:"webhook_path_marker" yaml:"webhook_path_marker" toml:"webhook_path_marker"`
	TimeoutSeconds     int      `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
	MaxResponseBytes   int64    `json:"max_response_bytes" yaml:"max_response_bytes" toml:"max_response_bytes"`
	Addr               string   `json:"addr" yaml:"addr" toml:"addr"`
	MaxBodyBytes       int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	LogLevel           string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat          string   `json:"log_format" yaml:"log_format" toml:"log_format"`
	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`

	// Timeout is set from the --timeout flag and takes precedence over
	// TimeoutSeconds so sub-second bounds survive.
	Timeout time.Duration `json:"-" yaml:"-" toml:"-"`
}

const (
	DefaultPathMarker       = "webhook"
	DefaultTimeoutSeconds   = 60
	DefaultMaxResponseBytes = 1 << 20
	DefaultAddr             = ":8080"
	DefaultMaxBodyBytes     = 1 << 20
	DefaultLogLevel         = "info"
)

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	path, err := expandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		f, err := expandHome(f)
		if err != nil {
			return err
		}
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// FromEnv overlays POULTRYDX_* variables on top of cfg.
func FromEnv(cfg Config) Config {
	if v := os.Getenv("POULTRYDX_WEBHOOK_URL"); v != "" {
		cfg.WebhookURL = v
	}
	if v := os.Getenv("POULTRYDX_WEBHOOK_PATH_MARKER"); v != "" {
		cfg.WebhookPathMarker = v
	}
	if v := os.Getenv("POULTRYDX_TIMEOUT_SECONDS"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			cfg.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("POULTRYDX_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("POULTRYDX_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("POULTRYDX_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("POULTRYDX_CORS_ORIGINS"); v != "" {
		cfg.CORSEnabled = true
		cfg.CORSAllowedOrigins = splitCSV(v)
	}
	return cfg
}

// WithDefaults returns cfg with unspecified values filled in.
func (c Config) WithDefaults() Config {
	if c.WebhookPathMarker == "" {
		c.WebhookPathMarker = DefaultPathMarker
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = DefaultMaxResponseBytes
	}
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.WebhookURL = strings.TrimSpace(c.WebhookURL)
	return c
}

// RequestTimeout is the bound on one webhook call.
func (c Config) RequestTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate rejects values that defaults would otherwise paper over. An empty
// webhook URL is allowed: the form still starts and every submission reports
// the missing endpoint. A URL that is set must pass webhook.ValidateEndpoint.
func (c Config) Validate() error {
	if c.RequestTimeout() <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxResponseBytes <= 0 {
		return fmt.Errorf("max_response_bytes must be positive, got %d", c.MaxResponseBytes)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	if c.WebhookURL != "" {
		if err := webhook.ValidateEndpoint(c.WebhookURL, c.WebhookPathMarker); err != nil {
			return err
		}
	}
	return nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
