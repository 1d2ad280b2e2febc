package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/pepaudit/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for pepaudit.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pepaudit",
		Short: "Audit PEP statuses and scrape the Python documentation",
		Long: `pepaudit checks that the status marker of every entry in the PEP numerical
index agrees with the Status field on the proposal's own page, and reports
how many proposals are in each status.

It also lists the "What's New" articles and documentation versions of
docs.python.org, and downloads the A4 PDF documentation archive.

Responses are cached in a SQLite database under the XDG cache directory,
so repeated runs do not hit the network. Use --clear-cache to start fresh.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	flags := cmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.StringP("config", "c", "",
		"Configuration file path (default: .pepaudit in current or home directory)")
	flags.BoolP("clear-cache", "C", false, "Empty the response cache before running")
	flags.Bool("no-cache", false, "Do not read or write the response cache")
	flags.String("cache-dir", config.XDGCacheDir(), "Directory of the response cache database")
	flags.String("log-file", config.NewConfig().LogFile, `Rotating log file path ("" disables file logging)`)
	flags.IntP("concurrency", "n", config.DefaultConcurrency,
		fmt.Sprintf("Number of detail pages fetched at once (1-%d)", config.MaxConcurrency))
	flags.DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each HTTP request")
	flags.String("index-url", config.DefaultPEPIndexURL, "URL of the PEP numerical index")
	flags.String("docs-url", config.DefaultDocsURL, "Root URL of the Python documentation")
	flags.Bool("no-progress", false, "Hide the progress bar")

	// Add subcommands
	cmd.AddCommand(NewPEPCmd())
	cmd.AddCommand(NewWhatsNewCmd())
	cmd.AddCommand(NewLatestVersionsCmd())
	cmd.AddCommand(NewDownloadCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. SIGINT and SIGTERM cancel the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
