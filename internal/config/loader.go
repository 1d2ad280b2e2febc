package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nao1215/pepaudit/internal/model"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".pepaudit"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .pepaudit configuration file.
// Every field is optional; zero values leave the corresponding Config field untouched.
type File struct {
	// PEPIndexURL overrides the proposal index URL.
	PEPIndexURL string `yaml:"pepIndexURL,omitempty" validate:"omitempty,http_url"`

	// DocsURL overrides the documentation root URL.
	DocsURL string `yaml:"docsURL,omitempty" validate:"omitempty,http_url"`

	// Concurrency overrides the number of concurrent detail fetches.
	Concurrency int `yaml:"concurrency,omitempty" validate:"omitempty,min=1,max=32"`

	// Timeout overrides the per-request timeout (e.g. "30s").
	Timeout time.Duration `yaml:"timeout,omitempty" validate:"omitempty,min=1ms"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string `yaml:"headers,omitempty" validate:"omitempty,dive,keys,required,endkeys"`

	// Proxy is a SOCKS5 proxy address in "host:port" format.
	Proxy string `yaml:"proxy,omitempty" validate:"omitempty,hostname_port"`

	// CacheTTL is how long cached responses stay valid (e.g. "24h"). Zero means forever.
	CacheTTL time.Duration `yaml:"cacheTTL,omitempty" validate:"omitempty,min=0"`

	// ExpectedStatus replaces the built-in expected status table when set.
	// Keys are short status codes ("" for rows without a status marker).
	ExpectedStatus map[string][]string `yaml:"expectedStatus,omitempty" validate:"omitempty,dive,keys,max=2,endkeys,min=1,dive,required"`
}

// validate is shared by all LoadConfigFile calls; validator caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfigFile loads and validates a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validate.Struct(&cf); err != nil {
		return nil, fmt.Errorf("invalid configuration file: %w", err)
	}

	return &cf, nil
}

// Apply copies every non-zero field of the file onto cfg.
func (cf *File) Apply(cfg *Config) {
	if cf.PEPIndexURL != "" {
		cfg.PEPIndexURL = cf.PEPIndexURL
	}
	if cf.DocsURL != "" {
		cfg.DocsURL = cf.DocsURL
	}
	if cf.Concurrency > 0 {
		cfg.Concurrency = cf.Concurrency
	}
	if cf.Timeout > 0 {
		cfg.Timeout = cf.Timeout
	}
	if cf.UserAgent != "" {
		cfg.UserAgent = cf.UserAgent
	}
	if len(cf.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string)
		}
		for k, v := range cf.Headers {
			cfg.Headers[k] = v
		}
	}
	if cf.Proxy != "" {
		cfg.ProxyAddress = cf.Proxy
	}
	if cf.CacheTTL > 0 {
		cfg.CacheTTL = cf.CacheTTL
	}
	if len(cf.ExpectedStatus) > 0 {
		cfg.ExpectedStatus = model.NewExpectedStatusTable(cf.ExpectedStatus)
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .pepaudit in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .pepaudit in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
