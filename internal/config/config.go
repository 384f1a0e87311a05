// Package config loads catalogview settings from a file, the environment and
// command line flags, in that order of precedence (lowest first).
package config

import (
	"net/url"
	"time"
)

// Config holds all configuration for the catalogview CLI and server
type Config struct {
	APIBaseURL            string          `json:"apiBaseUrl" yaml:"apiBaseUrl"`
	HTTPAddr              string          `json:"httpAddr" yaml:"httpAddr"`
	RequestTimeoutSeconds int             `json:"requestTimeoutSeconds" yaml:"requestTimeoutSeconds"`
	RateLimitRetries      int             `json:"rateLimitRetries" yaml:"rateLimitRetries"` // retries on upstream 429
	PageSize              int             `json:"pageSize" yaml:"pageSize"`
	MaxPageSize           int             `json:"maxPageSize" yaml:"maxPageSize"`
	Debug                 bool            `json:"debug" yaml:"debug"`
	LogLevel              string          `json:"logLevel" yaml:"logLevel"`
	Auth                  AuthConfig      `json:"auth" yaml:"auth"`
	RateLimit             RateLimitConfig `json:"rateLimit" yaml:"rateLimit"`
	Snapshot              SnapshotConfig  `json:"snapshot" yaml:"snapshot"`
}

// AuthConfig guards mutating endpoints of the local API. An empty secret
// leaves them open.
type AuthConfig struct {
	HS256Secret string `json:"hs256Secret" yaml:"hs256Secret"`
}

// Enabled reports whether bearer tokens are required for mutations
func (a AuthConfig) Enabled() bool {
	return a.HS256Secret != ""
}

// RateLimitConfig is the per-client token bucket for mutating endpoints
type RateLimitConfig struct {
	WindowSeconds int `json:"windowSeconds" yaml:"windowSeconds"`
	MaxRequests   int `json:"maxRequests" yaml:"maxRequests"`
	Burst         int `json:"burst" yaml:"burst"`
}

// SnapshotConfig points at the optional Postgres snapshot store
type SnapshotConfig struct {
	DatabaseURL string `json:"databaseUrl" yaml:"databaseUrl"`
}

// Enabled reports whether snapshots should be read and written
func (s SnapshotConfig) Enabled() bool {
	return s.DatabaseURL != ""
}

// RequestTimeout returns the per-attempt upstream timeout
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return ErrMissingAPIBaseURL
	}
	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidAPIBaseURL
	}

	if c.PageSize <= 0 {
		return ErrInvalidPageSize
	}
	if c.MaxPageSize < c.PageSize {
		return ErrInvalidMaxPageSize
	}

	if c.RequestTimeoutSeconds <= 0 {
		return ErrInvalidTimeout
	}
	if c.RateLimitRetries < 0 {
		return ErrInvalidRetries
	}

	if err := c.RateLimit.Validate(); err != nil {
		return err
	}

	return nil
}

// Validate checks the token bucket parameters
func (r RateLimitConfig) Validate() error {
	if r.WindowSeconds <= 0 || r.MaxRequests <= 0 || r.Burst <= 0 {
		return ErrInvalidRateLimit
	}
	return nil
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:            "https://api.escuelajs.co/api/v1",
		HTTPAddr:              ":8080",
		RequestTimeoutSeconds: 30,
		RateLimitRetries:      0,
		PageSize:              10,
		MaxPageSize:           100,
		Debug:                 false,
		LogLevel:              "info",
		RateLimit: RateLimitConfig{
			WindowSeconds: 60,
			MaxRequests:   60,
			Burst:         10,
		},
	}
}
