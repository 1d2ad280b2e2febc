package main

import (
	"fmt"

	"github.com/nao1215/pepaudit/internal/crawler"
	"github.com/spf13/cobra"
)

// NewDownloadCmd creates the download command.
func NewDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the A4 PDF documentation archive",
		Long: `Download finds the A4 PDF archive on the documentation download page and
saves it to the downloads directory. The archive is always fetched from the
network; it is never stored in the response cache.

Examples:
  pepaudit download
  pepaudit download -d ./docs`,
		Args: cobra.NoArgs,
		RunE: runDownloadCmd,
	}

	cmd.Flags().StringP("dir", "d", "",
		"Directory to save the archive in (default: XDG data directory)")

	return cmd
}

// runDownloadCmd executes the download command.
func runDownloadCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}
	if dir == "" {
		dir = a.cfg.DownloadsDir
	}

	path, err := crawler.NewDownloader(a.client, a.cfg.DocsURL, dir, a.cfg.MaxDownloadSize,
		crawler.WithLogger(a.logger),
	).Download(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %s\n", path)
	return nil
}
