package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"poultrydx/internal/config"
	"poultrydx/internal/httpapi"
	"poultrydx/internal/submit"
	"poultrydx/internal/webhook"
)

// resolveConfig merges, lowest to highest precedence: config file, .env and
// POULTRYDX_* variables, explicitly set flags, then defaults for what is left.
// The result is validated; an unset webhook URL is reported per submission.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if err := config.LoadDotEnv(); err != nil {
		return cfg, err
	}
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("POULTRYDX_CONFIG")
	}
	if path != "" {
		c, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		cfg = c
	}
	cfg = config.FromEnv(cfg)

	flags := cmd.Flags()
	if flags.Changed("webhook-url") {
		cfg.WebhookURL, _ = flags.GetString("webhook-url")
	}
	if flags.Changed("timeout") {
		d, _ := flags.GetDuration("timeout")
		if d <= 0 {
			return cfg, fmt.Errorf("--timeout must be positive, got %s", d)
		}
		cfg.Timeout = d
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if f := flags.Lookup("addr"); f != nil && f.Changed {
		cfg.Addr = f.Value.String()
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.Config, w io.Writer, console bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		lvl = zerolog.InfoLevel
	}
	if cfg.LogFormat == "console" || (console && cfg.LogFormat != "json") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("app", "poultrydx").Logger()
}

// installLogger hands the logger to every package that logs.
func installLogger(l zerolog.Logger) {
	httpapi.SetLogger(l)
	webhook.SetLogger(l)
	submit.SetLogger(l)
}

func newSubmitter(cfg config.Config) *submit.Submitter {
	return submit.NewSubmitter(webhook.Options{
		Endpoint:         cfg.WebhookURL,
		PathMarker:       cfg.WebhookPathMarker,
		Timeout:          cfg.RequestTimeout(),
		MaxResponseBytes: cfg.MaxResponseBytes,
	})
}
