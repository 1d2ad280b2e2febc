// Package log builds the pepaudit logger on top of the standard slog package.
//
// A run logs to two places at once: the terminal, which only shows warnings
// and errors unless --verbose is given, and a size-rotated log file managed by
// lumberjack that keeps the informational trail of every run. The two
// handlers are joined with slog-multi's Fanout.
//
// All records pass through SecureHandler first. It masks values of
// credential-carrying keys (Authorization, Cookie, tokens) and userinfo in
// URLs, because pepaudit logs the configured request headers and proxy
// address at debug level.
//
//	logger, closer, err := log.New(os.Stderr, log.Options{
//	    Verbose:    true,
//	    FilePath:   "/home/me/.local/state/pepaudit/pepaudit.log",
//	    MaxSizeMB:  1,
//	    MaxBackups: 5,
//	})
//	if err != nil {
//	    return err
//	}
//	defer closer.Close()
package log
