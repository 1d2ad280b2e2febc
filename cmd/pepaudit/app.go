package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/pepaudit/internal/config"
	"github.com/nao1215/pepaudit/internal/log"
	"github.com/nao1215/pepaudit/internal/model"
	"github.com/nao1215/pepaudit/internal/progress"
	"github.com/nao1215/pepaudit/internal/report"
	"github.com/nao1215/pepaudit/internal/transport"
	"github.com/spf13/cobra"
)

// app holds what every network command needs: the resolved configuration,
// the logger and the caching HTTP client.
type app struct {
	cfg    *config.Config
	format report.Format
	logger *slog.Logger
	logs   io.Closer
	cache  *transport.Cache
	client *transport.Client
}

// newApp builds the configuration from the config file and flags, then opens
// the logger, the response cache and the HTTP client. Callers must Close it.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	format, err := report.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}

	logger, logs, err := log.New(cmd.ErrOrStderr(), log.Options{
		Verbose:    cfg.Verbose,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, format: format, logger: logger, logs: logs}

	if cfg.ConfigFilePath != "" {
		logger.Debug("configuration file loaded", "path", cfg.ConfigFilePath)
	}

	clientOpts := []transport.Option{
		transport.WithTimeout(cfg.Timeout),
		transport.WithUserAgent(cfg.UserAgent),
		transport.WithMaxBodySize(cfg.MaxBodySize),
		transport.WithHeaders(cfg.Headers),
		transport.WithLogger(logger),
	}
	if cfg.ProxyAddress != "" {
		clientOpts = append(clientOpts, transport.WithProxy(cfg.ProxyAddress))
	}

	if cfg.CacheEnabled {
		cache, err := transport.OpenCache(cfg.CacheDir, transport.WithTTL(cfg.CacheTTL))
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to open response cache: %w", err)
		}
		a.cache = cache

		if cfg.ClearCache {
			if err := cache.Clear(cmd.Context()); err != nil {
				a.Close()
				return nil, fmt.Errorf("failed to clear response cache: %w", err)
			}
			logger.Info("response cache cleared", "path", cache.Path())
		}
		clientOpts = append(clientOpts, transport.WithCache(cache))
	}

	client, err := transport.NewClient(clientOpts...)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	a.client = client

	return a, nil
}

// Close releases the cache and the log file.
func (a *app) Close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close response cache", "error", err)
		}
	}
	if err := a.logs.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
	}
}

// tracker returns a progress bar on stderr, or a no-op when progress is disabled.
func (a *app) tracker(cmd *cobra.Command, prefix string) progress.Tracker {
	if !a.cfg.Progress {
		return progress.Nop{}
	}
	return progress.NewBar(cmd.ErrOrStderr(), prefix)
}

// render writes table in the selected format. Stream formats go to stdout
// unless --output-file is given; file formats default to a timestamped file
// named after mode in the results directory.
func (a *app) render(cmd *cobra.Command, mode string, table model.Table) (err error) {
	path := a.cfg.OutputFile
	if path == "" && a.format.IsFile() {
		path = report.DefaultFilePath(a.cfg.ResultsDir, mode, a.format, time.Now())
	}

	if path == "" {
		w, err := report.NewWriter(a.format, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		_, err = w.Write(table)
		return err
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close output file: %w", cerr))
		}
	}()

	w, err := report.NewWriter(a.format, f)
	if err != nil {
		return err
	}

	n, err := w.Write(table)
	if err != nil {
		return fmt.Errorf("failed to write %s report: %w", a.format, err)
	}
	a.logger.Info("report saved", "path", path, "format", string(a.format), "bytes", n)

	if tee, _ := cmd.Flags().GetBool("tee"); tee {
		if _, err := report.NewPlainWriter(cmd.OutOrStdout()).Write(table); err != nil {
			return fmt.Errorf("failed to print report: %w", err)
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s report to %s\n", mode, path)
	return nil
}

// addOutputFlags registers the renderer flags shared by table-producing commands.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", config.DefaultOutputFormat,
		"Output format: plain, pretty, csv, markdown, json or parquet")
	cmd.Flags().StringP("output-file", "f", "",
		"Write the result to this file (default: stdout, or the results directory for csv and parquet)")
	cmd.Flags().Bool("tee", false,
		"Also print plain rows to stdout when writing to a file")
}

// buildConfig creates a Config from the defaults, the configuration file and
// the command flags, in increasing order of precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly given file must exist; the default locations are optional.
	explicitConfigPath := configPath != ""
	foundPath := config.FindConfigFile(configPath)
	if foundPath != "" {
		file, err := config.LoadConfigFile(foundPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", foundPath, err)
		}
		file.Apply(cfg)
		cfg.ConfigFilePath = foundPath
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}
	if cfg.ClearCache, err = flags.GetBool("clear-cache"); err != nil {
		return nil, err
	}

	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return nil, err
	}
	cfg.CacheEnabled = !noCache

	noProgress, err := flags.GetBool("no-progress")
	if err != nil {
		return nil, err
	}
	cfg.Progress = !noProgress

	// Flags that the config file can also set only win when given explicitly.
	if flags.Changed("cache-dir") {
		if cfg.CacheDir, err = flags.GetString("cache-dir"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("log-file") {
		if cfg.LogFile, err = flags.GetString("log-file"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("index-url") {
		if cfg.PEPIndexURL, err = flags.GetString("index-url"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("docs-url") {
		if cfg.DocsURL, err = flags.GetString("docs-url"); err != nil {
			return nil, err
		}
	}

	if flags.Lookup("output") != nil {
		if cfg.OutputFormat, err = flags.GetString("output"); err != nil {
			return nil, err
		}
		if cfg.OutputFile, err = flags.GetString("output-file"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
