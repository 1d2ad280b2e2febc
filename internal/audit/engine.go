package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/pepaudit/internal/crawler"
	"github.com/nao1215/pepaudit/internal/model"
	"github.com/nao1215/pepaudit/internal/progress"
	"golang.org/x/sync/errgroup"
)

// IndexSource lists the entries to audit. *crawler.IndexFetcher implements it.
type IndexSource interface {
	Fetch(ctx context.Context) ([]model.IndexEntry, error)
}

// StatusSource returns the status declared on a detail page.
// *crawler.DetailStatusExtractor implements it.
type StatusSource interface {
	FetchStatus(ctx context.Context, detailURL string) (string, error)
}

// Result is the outcome of one audit run.
type Result struct {
	// Report is the finalized report.
	Report model.AuditReport

	// Histogram holds the raw status counts.
	Histogram *model.StatusHistogram

	// TotalEntries is the number of index entries processed.
	TotalEntries int

	// Warnings lists every advisory condition in index order.
	Warnings []model.Warning

	// CountMismatch is set when the histogram does not account for every entry.
	CountMismatch *model.CountMismatch
}

// WarningsOf returns the warnings of the given kind.
func (r *Result) WarningsOf(kind model.WarningKind) []model.Warning {
	var out []model.Warning
	for _, w := range r.Warnings {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

// Engine runs status audits. An Engine holds no per-run state and may be
// reused.
type Engine struct {
	index       IndexSource
	statuses    StatusSource
	expected    model.ExpectedStatusTable
	concurrency int
	logger      *slog.Logger
	progress    progress.Tracker
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithConcurrency sets how many detail pages are fetched at once.
// Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithProgress reports one step per detail page.
func WithProgress(t progress.Tracker) Option {
	return func(e *Engine) {
		e.progress = progress.OrNop(t)
	}
}

// NewEngine creates an Engine auditing the entries of index against expected.
func NewEngine(index IndexSource, statuses StatusSource, expected model.ExpectedStatusTable, opts ...Option) *Engine {
	e := &Engine{
		index:       index,
		statuses:    statuses,
		expected:    expected,
		concurrency: 1,
		logger:      slog.New(slog.DiscardHandler),
		progress:    progress.Nop{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// detailOutcome is the result of fetching one detail page.
type detailOutcome struct {
	status string
	err    error
}

// Run performs one audit.
//
// An error is returned only when the index cannot be read or ctx is
// cancelled; in both cases there is no result. Problems with individual
// entries are reported through Result.Warnings.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	entries, err := e.index.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	e.logger.Info("audit started", "entries", len(entries), "concurrency", e.concurrency)

	outcomes, err := e.fetchDetails(ctx, entries)
	if err != nil {
		return nil, err
	}

	result := e.reconcile(entries, outcomes)
	result.Report, result.CountMismatch = NewAggregator(e.logger).Finalize(result.Histogram, result.TotalEntries)

	e.logger.Info("audit finished",
		"entries", result.TotalEntries,
		"statuses", result.Histogram.Len(),
		"warnings", len(result.Warnings),
		"duration", time.Since(start),
	)
	return result, nil
}

// fetchDetails fetches every detail page, at most e.concurrency at a time.
// Outcomes are stored by entry position so that completion order never
// influences the result. Only context cancellation stops the fetches.
func (e *Engine) fetchDetails(ctx context.Context, entries []model.IndexEntry) ([]detailOutcome, error) {
	outcomes := make([]detailOutcome, len(entries))

	e.progress.Start(len(entries))
	defer e.progress.Finish()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, entry := range entries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			status, err := e.statuses.FetchStatus(gctx, entry.DetailURL)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}

			outcomes[i] = detailOutcome{status: status, err: err}
			e.progress.Increment()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("audit cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("audit cancelled: %w", err)
	}
	return outcomes, nil
}

// reconcile merges detail outcomes in index order.
func (e *Engine) reconcile(entries []model.IndexEntry, outcomes []detailOutcome) *Result {
	result := &Result{Histogram: model.NewStatusHistogram()}

	for i, entry := range entries {
		obs := model.StatusObservation{Entry: entry}
		obs.Expected, obs.KnownCode = e.expected.Lookup(entry.ShortStatusCode)
		if !obs.KnownCode {
			result.warn(e.logger, model.Warning{Kind: model.WarningUnknownCode, Entry: entry})
		}

		result.TotalEntries++

		out := outcomes[i]
		if out.err != nil {
			kind := model.WarningDetailFetch
			if errors.Is(out.err, crawler.ErrStatusNotFound) {
				kind = model.WarningMissingStatus
			}
			result.warn(e.logger, model.Warning{Kind: kind, Entry: entry, Err: out.err})
			continue
		}

		obs.Actual, obs.Found = out.status, true
		if !obs.Matches() {
			result.warn(e.logger, model.Warning{
				Kind:     model.WarningStatusMismatch,
				Entry:    entry,
				Actual:   obs.Actual,
				Expected: obs.Expected.Values(),
			})
		}

		result.Histogram.Add(obs.Actual)
	}

	return result
}

func (r *Result) warn(logger *slog.Logger, w model.Warning) {
	r.Warnings = append(r.Warnings, w)

	attrs := []any{"kind", w.Kind.String(), "pep", w.Entry.Number, "url", w.Entry.DetailURL}
	switch w.Kind {
	case model.WarningUnknownCode:
		logger.Warn("unknown status code", append(attrs, "code", w.Entry.ShortStatusCode)...)
	case model.WarningStatusMismatch:
		logger.Warn("status mismatch", append(attrs, "actual", w.Actual, "expected", w.Expected)...)
	case model.WarningMissingStatus:
		logger.Error("status line not found", append(attrs, "error", w.Err)...)
	default:
		logger.Error("detail page unavailable", append(attrs, "error", w.Err)...)
	}
}
