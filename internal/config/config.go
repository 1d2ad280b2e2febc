package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/pepaudit/internal/model"
)

// Default configuration values.
const (
	// DefaultPEPIndexURL is the numerical index of Python Enhancement Proposals.
	DefaultPEPIndexURL = "https://peps.python.org/"

	// DefaultDocsURL is the root of the Python 3 documentation.
	// The whats-new, latest-versions and download commands are resolved against it.
	DefaultDocsURL = "https://docs.python.org/3/"

	// DefaultTimeout is the timeout for a single HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultConcurrency is the number of detail pages fetched at once.
	// 1 keeps the audit strictly sequential.
	DefaultConcurrency = 1

	// MaxConcurrency caps the detail fetch pool so the documentation host is
	// never hit by more than this many requests at once.
	MaxConcurrency = 32

	// AppName is the application name used for XDG directory paths.
	AppName = "pepaudit"

	// DefaultUserAgent identifies pepaudit in HTTP requests.
	DefaultUserAgent = "pepaudit/1.0 (+https://github.com/nao1215/pepaudit)"

	// DefaultMaxBodySize limits the size of an HTML response body.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultMaxDownloadSize limits the size of a downloaded archive.
	DefaultMaxDownloadSize = 200 * 1024 * 1024 // 200MB

	// DefaultLogMaxSizeMB is the size at which the log file is rotated.
	DefaultLogMaxSizeMB = 1

	// DefaultLogMaxBackups is the number of rotated log files kept.
	DefaultLogMaxBackups = 5

	// DefaultOutputFormat is the renderer used when --output is not given.
	DefaultOutputFormat = "plain"
)

// Config holds all configuration options for pepaudit.
// It is populated from CLI flags and the optional config file and passed
// through the application explicitly rather than kept in global state.
type Config struct {
	// PEPIndexURL is the URL of the numerical proposal index.
	PEPIndexURL string

	// DocsURL is the root URL of the documentation site.
	DocsURL string

	// ExpectedStatus maps short status codes to acceptable full statuses.
	ExpectedStatus model.ExpectedStatusTable

	// Timeout is the timeout for each HTTP request.
	Timeout time.Duration

	// Concurrency is the maximum number of detail pages fetched at once.
	Concurrency int

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	ProxyAddress string

	// MaxBodySize is the maximum HTML response body size in bytes.
	MaxBodySize int64

	// MaxDownloadSize is the maximum archive size in bytes for the download command.
	MaxDownloadSize int64

	// CacheEnabled turns the SQLite response cache on.
	CacheEnabled bool

	// ClearCache empties the response cache once before the run starts.
	ClearCache bool

	// CacheDir is the directory holding the response cache database.
	CacheDir string

	// CacheTTL is how long a cached response stays valid. Zero means forever.
	CacheTTL time.Duration

	// ResultsDir is where file-based renderers (csv, parquet) write by default.
	ResultsDir string

	// DownloadsDir is where the download command stores archives.
	DownloadsDir string

	// LogFile is the rotating log file path. Empty disables file logging.
	LogFile string

	// LogMaxSizeMB is the size in megabytes at which the log file rotates.
	LogMaxSizeMB int

	// LogMaxBackups is the number of rotated log files kept.
	LogMaxBackups int

	// Verbose enables debug output on stderr.
	Verbose bool

	// Progress enables the progress bar on stderr.
	Progress bool

	// OutputFormat selects the renderer (plain, pretty, csv, markdown, json, parquet).
	OutputFormat string

	// OutputFile is the destination of the rendered result. Empty means stdout
	// for stream formats and a timestamped file in ResultsDir for file formats.
	OutputFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, .pepaudit is searched in the current and home directories.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		PEPIndexURL:     DefaultPEPIndexURL,
		DocsURL:         DefaultDocsURL,
		ExpectedStatus:  DefaultExpectedStatusTable(),
		Timeout:         DefaultTimeout,
		Concurrency:     DefaultConcurrency,
		UserAgent:       DefaultUserAgent,
		Headers:         make(map[string]string),
		MaxBodySize:     DefaultMaxBodySize,
		MaxDownloadSize: DefaultMaxDownloadSize,
		CacheEnabled:    true,
		CacheDir:        XDGCacheDir(),
		ResultsDir:      filepath.Join(XDGDataDir(), "results"),
		DownloadsDir:    filepath.Join(XDGDataDir(), "downloads"),
		LogFile:         filepath.Join(XDGStateDir(), AppName+".log"),
		LogMaxSizeMB:    DefaultLogMaxSizeMB,
		LogMaxBackups:   DefaultLogMaxBackups,
		Progress:        true,
		OutputFormat:    DefaultOutputFormat,
	}
}

// XDGDataDir returns the XDG data directory for pepaudit.
// On Linux: ~/.local/share/pepaudit
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for pepaudit.
// On Linux: ~/.config/pepaudit
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for pepaudit.
// On Linux: ~/.cache/pepaudit
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// XDGStateDir returns the XDG state directory for pepaudit, used for logs.
// On Linux: ~/.local/state/pepaudit
func XDGStateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors in errors.go.
func (c *Config) Validate() error {
	if c.PEPIndexURL == "" || !isHTTPURL(c.PEPIndexURL) {
		return ErrInvalidIndexURL
	}

	if c.DocsURL == "" || !isHTTPURL(c.DocsURL) {
		return ErrInvalidDocsURL
	}

	if c.ExpectedStatus.Len() == 0 {
		return ErrEmptyExpectedStatus
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Concurrency <= 0 || c.Concurrency > MaxConcurrency {
		return ErrInvalidConcurrency
	}

	if c.MaxBodySize <= 0 || c.MaxDownloadSize <= 0 {
		return ErrInvalidMaxBodySize
	}

	if c.CacheTTL < 0 {
		return ErrInvalidCacheTTL
	}

	if c.CacheEnabled && c.CacheDir == "" {
		return ErrNoCacheDir
	}

	if c.LogFile != "" && (c.LogMaxSizeMB <= 0 || c.LogMaxBackups < 0) {
		return ErrInvalidLogRotation
	}

	return nil
}
