package main

import (
	"github.com/nao1215/pepaudit/internal/crawler"
	"github.com/nao1215/pepaudit/internal/model"
	"github.com/spf13/cobra"
)

// NewLatestVersionsCmd creates the latest-versions command.
func NewLatestVersionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "latest-versions",
		Short: "List the Python versions in the documentation sidebar",
		Long: `List the documentation versions offered in the "All versions" sidebar of
docs.python.org, with their release status.

Examples:
  pepaudit latest-versions
  pepaudit latest-versions -o json`,
		Args: cobra.NoArgs,
		RunE: runLatestVersionsCmd,
	}

	addOutputFlags(cmd)

	return cmd
}

// runLatestVersionsCmd executes the latest-versions command.
func runLatestVersionsCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	versions, err := crawler.NewLatestVersionsExtractor(a.client, a.cfg.DocsURL,
		crawler.WithLogger(a.logger),
	).Fetch(cmd.Context())
	if err != nil {
		return err
	}

	return a.render(cmd, "latest-versions", model.VersionsTable(versions))
}
