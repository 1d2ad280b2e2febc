package audit

import (
	"log/slog"

	"github.com/nao1215/pepaudit/internal/model"
)

// Aggregator finalizes an audit histogram into a report.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an Aggregator. A nil logger discards output.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Aggregator{logger: logger}
}

// Finalize builds the report for h after totalEntries index entries were
// processed.
//
// When the histogram accounts for every entry the report total is
// totalEntries and the mismatch is nil. Otherwise the total is the sum of
// the histogram, and the returned CountMismatch describes the gap. The
// report always carries exactly one total.
func (a *Aggregator) Finalize(h *model.StatusHistogram, totalEntries int) (model.AuditReport, *model.CountMismatch) {
	report := model.AuditReport{
		Rows:  h.Entries(),
		Total: totalEntries,
	}

	sum := h.Sum()
	if sum == totalEntries {
		return report, nil
	}

	mismatch := &model.CountMismatch{TotalEntries: totalEntries, SumOfCounts: sum}
	a.logger.Error("histogram does not account for every entry",
		"total_entries", totalEntries,
		"sum_of_counts", sum,
		"missing", mismatch.Missing(),
	)
	report.Total = sum
	return report, mismatch
}
