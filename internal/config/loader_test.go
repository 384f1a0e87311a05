package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

var envKeys = []string{
	"API_BASE_URL", "HTTP_ADDR", "REQUEST_TIMEOUT_SECONDS", "RATE_LIMIT_RETRIES",
	"PAGE_SIZE", "MAX_PAGE_SIZE", "DEBUG", "LOG_LEVEL", "JWT_HS256_SECRET",
	"RATE_LIMIT_WINDOW_SECONDS", "RATE_LIMIT_MAX_REQUESTS", "RATE_LIMIT_BURST",
	"DATABASE_URL",
}

// clearEnv blanks every CATALOG_ variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(EnvPrefix+key, "")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		checks  func(*testing.T, *Config)
	}{
		{
			name:    "defaults when no env set",
			envVars: map[string]string{},
			checks: func(t *testing.T, cfg *Config) {
				if cfg.APIBaseURL != "https://api.escuelajs.co/api/v1" {
					t.Errorf("expected default APIBaseURL, got %s", cfg.APIBaseURL)
				}
				if cfg.PageSize != 10 {
					t.Errorf("expected default PageSize=10, got %d", cfg.PageSize)
				}
				if cfg.RateLimitRetries != 0 {
					t.Errorf("expected no upstream retries by default, got %d", cfg.RateLimitRetries)
				}
				if cfg.LogLevel != "info" {
					t.Errorf("expected default LogLevel=info, got %s", cfg.LogLevel)
				}
				if cfg.Auth.Enabled() || cfg.Snapshot.Enabled() {
					t.Error("auth and snapshots must be off by default")
				}
			},
		},
		{
			name: "overrides from env",
			envVars: map[string]string{
				"API_BASE_URL":       "http://localhost:9000/api",
				"PAGE_SIZE":          "25",
				"RATE_LIMIT_RETRIES": "2",
				"DEBUG":              "1",
				"LOG_LEVEL":          "debug",
				"JWT_HS256_SECRET":   "s3cret",
				"RATE_LIMIT_BURST":   "3",
				"DATABASE_URL":       "postgres://localhost/catalog",
			},
			checks: func(t *testing.T, cfg *Config) {
				if cfg.APIBaseURL != "http://localhost:9000/api" {
					t.Errorf("unexpected APIBaseURL %s", cfg.APIBaseURL)
				}
				if cfg.PageSize != 25 || cfg.RateLimitRetries != 2 {
					t.Errorf("unexpected ints: pageSize=%d retries=%d", cfg.PageSize, cfg.RateLimitRetries)
				}
				if !cfg.Debug || cfg.LogLevel != "debug" {
					t.Errorf("unexpected logging settings: debug=%v level=%s", cfg.Debug, cfg.LogLevel)
				}
				if !cfg.Auth.Enabled() || cfg.RateLimit.Burst != 3 || !cfg.Snapshot.Enabled() {
					t.Errorf("unexpected nested settings: %+v", cfg)
				}
			},
		},
		{
			name: "malformed integers are ignored",
			envVars: map[string]string{
				"PAGE_SIZE": "lots",
			},
			checks: func(t *testing.T, cfg *Config) {
				if cfg.PageSize != 10 {
					t.Errorf("expected default PageSize, got %d", cfg.PageSize)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(EnvPrefix+k, v)
			}

			cfg, err := LoadFromEnvironment()
			if err != nil {
				t.Fatalf("LoadFromEnvironment() error = %v", err)
			}
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			tt.checks(t, cfg)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "catalog.yaml")
	yamlBody := "apiBaseUrl: http://upstream.test/v1\npageSize: 20\nrateLimit:\n  burst: 4\n"
	if err := os.WriteFile(yamlPath, []byte(yamlBody), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(yamlPath)
	if err != nil {
		t.Fatalf("Load(yaml) error = %v", err)
	}
	if cfg.APIBaseURL != "http://upstream.test/v1" || cfg.PageSize != 20 {
		t.Errorf("unexpected yaml values: %+v", cfg)
	}
	if cfg.RateLimit.Burst != 4 || cfg.RateLimit.WindowSeconds != 60 {
		t.Errorf("expected burst from file and default window, got %+v", cfg.RateLimit)
	}
	if cfg.MaxPageSize != 100 {
		t.Errorf("keys missing from file must keep defaults, got maxPageSize=%d", cfg.MaxPageSize)
	}

	jsonPath := filepath.Join(dir, "catalog.json")
	if err := os.WriteFile(jsonPath, []byte(`{"httpAddr":":9999","snapshot":{"databaseUrl":"postgres://x"}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(jsonPath)
	if err != nil {
		t.Fatalf("Load(json) error = %v", err)
	}
	if cfg.HTTPAddr != ":9999" || cfg.Snapshot.DatabaseURL != "postgres://x" {
		t.Errorf("unexpected json values: %+v", cfg)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(`{"pageSize": 20}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPrefix+"PAGE_SIZE", "30")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PageSize != 30 {
		t.Errorf("expected env to win, got %d", cfg.PageSize)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, ErrConfigFileNotFound) {
		t.Errorf("expected ErrConfigFileNotFound, got %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("pageSize: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, ErrInvalidConfigFormat) {
		t.Errorf("expected ErrInvalidConfigFormat, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"defaults", func(*Config) {}, nil},
		{"missing url", func(c *Config) { c.APIBaseURL = "" }, ErrMissingAPIBaseURL},
		{"relative url", func(c *Config) { c.APIBaseURL = "/api/v1" }, ErrInvalidAPIBaseURL},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, ErrInvalidPageSize},
		{"cap below default", func(c *Config) { c.MaxPageSize = 5 }, ErrInvalidMaxPageSize},
		{"zero timeout", func(c *Config) { c.RequestTimeoutSeconds = 0 }, ErrInvalidTimeout},
		{"negative retries", func(c *Config) { c.RateLimitRetries = -1 }, ErrInvalidRetries},
		{"zero burst", func(c *Config) { c.RateLimit.Burst = 0 }, ErrInvalidRateLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	if err := LoadDotEnv(filepath.Join(dir, "absent.env")); err != nil {
		t.Errorf("missing dotenv file must be ignored, got %v", err)
	}

	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("CATALOG_LOG_LEVEL=warn\nCATALOG_HTTP_ADDR=:7070\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPrefix+"HTTP_ADDR", ":1111")
	// godotenv only fills unset variables; an empty value counts as set.
	os.Unsetenv(EnvPrefix + "LOG_LEVEL")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	cfg, _ := LoadFromEnvironment()
	if cfg.LogLevel != "warn" {
		t.Errorf("expected log level from dotenv, got %s", cfg.LogLevel)
	}
	if cfg.HTTPAddr != ":1111" {
		t.Errorf("existing env must win over dotenv, got %s", cfg.HTTPAddr)
	}
}
