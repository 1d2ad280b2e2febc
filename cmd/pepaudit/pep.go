package main

import (
	"fmt"

	"github.com/nao1215/pepaudit/internal/audit"
	"github.com/nao1215/pepaudit/internal/crawler"
	"github.com/nao1215/pepaudit/internal/model"
	"github.com/spf13/cobra"
)

// NewPEPCmd creates the pep command.
func NewPEPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pep",
		Short: "Audit PEP statuses against the numerical index",
		Long: `Audit reads the PEP numerical index, visits every proposal's page and
compares the Status field there with the status marker in the index.

Mismatches and unknown markers are logged as warnings. The result is a
count of proposals per status, in the order each status was first seen,
followed by a Total row.

Examples:
  # Print the status counts
  pepaudit pep

  # Fetch 8 proposal pages at once and draw a table
  pepaudit pep -n 8 -o pretty

  # Save a CSV file to the results directory
  pepaudit pep -o csv

  # Re-download everything instead of using cached pages
  pepaudit pep --clear-cache`,
		Args: cobra.NoArgs,
		RunE: runPEPCmd,
	}

	addOutputFlags(cmd)

	return cmd
}

// runPEPCmd executes the pep command.
func runPEPCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	index := crawler.NewIndexFetcher(a.client, a.cfg.PEPIndexURL, crawler.WithLogger(a.logger))
	details := crawler.NewDetailStatusExtractor(a.client, crawler.WithLogger(a.logger))

	engine := audit.NewEngine(index, details, a.cfg.ExpectedStatus,
		audit.WithLogger(a.logger),
		audit.WithConcurrency(a.cfg.Concurrency),
		audit.WithProgress(a.tracker(cmd, "PEP")),
	)

	result, err := engine.Run(cmd.Context())
	if err != nil {
		return err
	}

	a.logger.Info("audit summary",
		"entries", result.TotalEntries,
		"mismatches", len(result.WarningsOf(model.WarningStatusMismatch)),
		"unknownCodes", len(result.WarningsOf(model.WarningUnknownCode)),
		"requests", a.client.Requests(),
	)
	if result.CountMismatch != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", result.CountMismatch)
	}

	return a.render(cmd, "pep", result.Report.Table())
}
