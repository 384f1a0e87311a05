package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable the loader reads
const EnvPrefix = "CATALOG_"

// DefaultDotEnvFile is read by LoadDotEnv when no path is given
const DefaultDotEnvFile = ".env"

// LoadDotEnv exports the variables of a dotenv file into the process
// environment without overriding ones already set. A missing file is not an
// error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = DefaultDotEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load loads configuration from a file path and applies environment variable overrides
// Validation is deferred to allow CLI flag overrides to be applied first
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadFromFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	applyEnvironmentOverrides(cfg)

	// Call cfg.Validate() after applying CLI overrides in the caller
	return cfg, nil
}

// LoadFromEnvironment creates a configuration using only defaults and
// environment variables
func LoadFromEnvironment() (*Config, error) {
	cfg := DefaultConfig()
	applyEnvironmentOverrides(cfg)
	return cfg, nil
}

// loadFromFile decodes a JSON or YAML file (by extension) on top of cfg, so
// keys missing from the file keep their defaults.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrConfigFileNotFound
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfigFormat, err)
	}
	return nil
}

// applyEnvironmentOverrides applies configuration from environment variables
func applyEnvironmentOverrides(cfg *Config) {
	if v := getenv("API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	setInt(&cfg.RequestTimeoutSeconds, "REQUEST_TIMEOUT_SECONDS")
	setInt(&cfg.RateLimitRetries, "RATE_LIMIT_RETRIES")
	setInt(&cfg.PageSize, "PAGE_SIZE")
	setInt(&cfg.MaxPageSize, "MAX_PAGE_SIZE")

	if debug := getenv("DEBUG"); debug == "true" || debug == "1" {
		cfg.Debug = true
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := getenv("JWT_HS256_SECRET"); v != "" {
		cfg.Auth.HS256Secret = v
	}

	setInt(&cfg.RateLimit.WindowSeconds, "RATE_LIMIT_WINDOW_SECONDS")
	setInt(&cfg.RateLimit.MaxRequests, "RATE_LIMIT_MAX_REQUESTS")
	setInt(&cfg.RateLimit.Burst, "RATE_LIMIT_BURST")

	if v := getenv("DATABASE_URL"); v != "" {
		cfg.Snapshot.DatabaseURL = v
	}
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + key))
}

// setInt overwrites *dst when the variable holds a valid integer; anything
// else is ignored and left for Validate to judge the existing value.
func setInt(dst *int, key string) {
	v := getenv(key)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}
