// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxBodyBytes caps the size of a calculation request body.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// RateLimitRPS and RateLimitBurst configure the token bucket shared by
	// all API requests. A non-positive RPS disables rate limiting.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// CORSAllowedOrigins lists origins allowed to call the API from a browser.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// ReadTimeoutMS and WriteTimeoutMS bound HTTP request handling.
	ReadTimeoutMS  int `koanf:"read_timeout_ms"`
	WriteTimeoutMS int `koanf:"write_timeout_ms"`

	// ShutdownTimeoutMS bounds graceful shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`

	// MetricsNamespace prefixes every exported metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// MetricsLabels are "name=value" pairs attached to every metric,
	// e.g. "env=prod,region=eu".
	MetricsLabels []string `koanf:"metrics_labels"`
}

// New creates a Config populated with defaults. Context is accepted first to
// satisfy the project-wide convention; it is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		MaxBodyBytes:       64 << 10,
		RateLimitRPS:       200,
		RateLimitBurst:     400,
		CORSAllowedOrigins: []string{"*"},
		ReadTimeoutMS:      5_000,
		WriteTimeoutMS:     10_000,
		ShutdownTimeoutMS:  10_000,
		MetricsNamespace:   "scorecalc",
	}
}

// ReadTimeout returns ReadTimeoutMS as a duration.
func (c *Config) ReadTimeout() time.Duration { return time.Duration(c.ReadTimeoutMS) * time.Millisecond }

// WriteTimeout returns WriteTimeoutMS as a duration.
func (c *Config) WriteTimeout() time.Duration { return time.Duration(c.WriteTimeoutMS) * time.Millisecond }

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// MetricsConstLabels parses MetricsLabels. Entries are assumed valid; call
// Validate first.
func (c *Config) MetricsConstLabels() map[string]string {
	if len(c.MetricsLabels) == 0 {
		return nil
	}
	out := make(map[string]string, len(c.MetricsLabels))
	for _, pair := range c.MetricsLabels {
		name, value, _ := strings.Cut(pair, "=")
		out[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return out
}

func validateMetricsLabels(pairs []string) error {
	for _, pair := range pairs {
		name, _, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		switch {
		case !ok:
			return fmt.Errorf("%w: metrics_labels entry %q must be name=value", ErrInvalidConfig, pair)
		case !metricName.MatchString(name) || strings.HasPrefix(name, "__"):
			return fmt.Errorf("%w: metrics_labels name %q is not a valid label name", ErrInvalidConfig, name)
		}
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	case c.RateLimitRPS > 0 && c.RateLimitBurst <= 0:
		return fmt.Errorf("%w: rate_limit_burst must be positive when rate limiting is enabled", ErrInvalidConfig)
	case c.ReadTimeoutMS <= 0 || c.WriteTimeoutMS <= 0:
		return fmt.Errorf("%w: read_timeout_ms and write_timeout_ms must be positive", ErrInvalidConfig)
	case c.ShutdownTimeoutMS <= 0:
		return fmt.Errorf("%w: shutdown_timeout_ms must be positive", ErrInvalidConfig)
	case !metricName.MatchString(c.MetricsNamespace):
		return fmt.Errorf("%w: metrics_namespace %q is not a valid metric name prefix", ErrInvalidConfig, c.MetricsNamespace)
	}
	return validateMetricsLabels(c.MetricsLabels)
}
