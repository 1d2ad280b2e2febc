package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so that callers can use
// errors.Is() to tell them apart.
var (
	// ErrInvalidIndexURL is returned when the proposal index URL is empty or not http(s).
	ErrInvalidIndexURL = errors.New("invalid PEP index URL: must be an absolute http(s) URL")

	// ErrInvalidDocsURL is returned when the documentation URL is empty or not http(s).
	ErrInvalidDocsURL = errors.New("invalid docs URL: must be an absolute http(s) URL")

	// ErrEmptyExpectedStatus is returned when the expected status table has no codes.
	ErrEmptyExpectedStatus = errors.New("expected status table is empty")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the concurrency is outside 1..MaxConcurrency.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be between 1 and 32")

	// ErrInvalidMaxBodySize is returned when a body size limit is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrInvalidCacheTTL is returned when the cache TTL is negative.
	// Use 0 to keep cached responses forever.
	ErrInvalidCacheTTL = errors.New("invalid cache TTL: must be non-negative")

	// ErrNoCacheDir is returned when the cache is enabled without a directory.
	ErrNoCacheDir = errors.New("cache is enabled but no cache directory is set")

	// ErrInvalidLogRotation is returned when log rotation settings are out of range.
	ErrInvalidLogRotation = errors.New("invalid log rotation: max size must be positive and backups non-negative")
)
