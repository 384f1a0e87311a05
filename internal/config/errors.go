package config

import "errors"

var (
	// ErrMissingAPIBaseURL indicates that the API base URL is not configured
	ErrMissingAPIBaseURL = errors.New("apiBaseUrl is required in configuration")

	// ErrInvalidAPIBaseURL indicates an API base URL without scheme or host
	ErrInvalidAPIBaseURL = errors.New("apiBaseUrl must be an absolute URL")

	// ErrInvalidPageSize indicates a non-positive default page size
	ErrInvalidPageSize = errors.New("pageSize must be a positive integer")

	// ErrInvalidMaxPageSize indicates a page size cap below the default
	ErrInvalidMaxPageSize = errors.New("maxPageSize must be at least pageSize")

	// ErrInvalidTimeout indicates a non-positive request timeout
	ErrInvalidTimeout = errors.New("requestTimeoutSeconds must be a positive integer")

	// ErrInvalidRetries indicates a negative retry budget
	ErrInvalidRetries = errors.New("rateLimitRetries must not be negative")

	// ErrInvalidRateLimit indicates a token bucket with a non-positive parameter
	ErrInvalidRateLimit = errors.New("rateLimit windowSeconds, maxRequests and burst must be positive")

	// ErrConfigFileNotFound indicates that the config file was not found
	ErrConfigFileNotFound = errors.New("configuration file not found")

	// ErrInvalidConfigFormat indicates that the config file could not be parsed
	ErrInvalidConfigFormat = errors.New("invalid configuration file format")
)
