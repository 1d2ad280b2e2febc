package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much pepaudit logs.
type Options struct {
	// Verbose lowers the terminal level from Warn to Debug.
	Verbose bool

	// FilePath is the rotating log file. Empty disables file logging.
	FilePath string

	// MaxSizeMB is the size in megabytes at which the log file rotates.
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept next to FilePath.
	MaxBackups int
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates the application logger.
//
// Records go to w as text (Warn and above, Debug and above when verbose) and,
// when opts.FilePath is set, to a size-rotated log file at Info and above
// (Debug when verbose). Both destinations are wrapped by SecureHandler.
// The returned io.Closer closes the log file and must be called on exit.
func New(w io.Writer, opts Options) (*slog.Logger, io.Closer, error) {
	termLevel := slog.LevelWarn
	fileLevel := slog.LevelInfo
	if opts.Verbose {
		termLevel = slog.LevelDebug
		fileLevel = slog.LevelDebug
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(w, &slog.HandlerOptions{Level: termLevel}),
	}

	var closer io.Closer = nopCloser{}
	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			LocalTime:  true,
		}
		handlers = append(handlers, slog.NewTextHandler(rotator, &slog.HandlerOptions{Level: fileLevel}))
		closer = rotator
	}

	// Fanout checks each handler's own level, so the terminal stays quiet
	// while the file records the whole run.
	return slog.New(NewSecureHandler(slogmulti.Fanout(handlers...))), closer, nil
}

// NewSecureLogger creates a terminal-only logger with secure handling.
// It is used where no log file is wanted, such as tests.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
