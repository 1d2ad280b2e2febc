package main

import (
	"github.com/nao1215/pepaudit/internal/crawler"
	"github.com/nao1215/pepaudit/internal/model"
	"github.com/spf13/cobra"
)

// NewWhatsNewCmd creates the whats-new command.
func NewWhatsNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whats-new",
		Short: `List the "What's New in Python" articles`,
		Long: `List every "What's New in Python" article linked from the documentation,
with its title and its editor and author line.

Articles that cannot be fetched or parsed are logged and skipped.

Examples:
  pepaudit whats-new
  pepaudit whats-new -o markdown -f whatsnew.md`,
		Args: cobra.NoArgs,
		RunE: runWhatsNewCmd,
	}

	addOutputFlags(cmd)

	return cmd
}

// runWhatsNewCmd executes the whats-new command.
func runWhatsNewCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	extractor := crawler.NewWhatsNewExtractor(a.client, a.cfg.DocsURL,
		crawler.WithLogger(a.logger),
		crawler.WithProgress(a.tracker(cmd, "What's New")),
	)

	articles, err := extractor.Fetch(cmd.Context())
	if err != nil {
		return err
	}

	return a.render(cmd, "whats-new", model.ArticlesTable(articles))
}
